package platform

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender to the notification service.
	AppName string
	// IconPath, when non-empty, points to an image shown with the
	// notification where the platform supports it.
	IconPath string
	// TimeoutMillis is how long the notification stays up; zero means the
	// platform default.
	TimeoutMillis int32
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "LayerPaint"
	}
	return o.AppName
}
