package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// keymap resolves key events to named actions.
type keymap map[KeyShortcut]string

func (km keymap) register(name string, keys KeyboardShortcuts) {
	for _, sc := range keys.KeyboardShortcuts() {
		km[sc] = name
	}
}

// lookup matches by rune first and falls back to the key code. A rune
// binding that names shift wins over one that does not; otherwise shift is
// ignored for runes since it is already folded into the character.
func (km keymap) lookup(e key.Event) (string, bool) {
	if e.Rune > 0 {
		r := unicode.ToLower(e.Rune)
		if e.Modifiers&key.ModShift != 0 {
			if name, ok := km[KeyShortcut{Rune: r, Modifiers: e.Modifiers}]; ok {
				return name, true
			}
		}
		if name, ok := km[KeyShortcut{Rune: r, Modifiers: e.Modifiers &^ key.ModShift}]; ok {
			return name, true
		}
	}
	name, ok := km[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return name, ok
}

func ctrl(r rune) KeyShortcut { return KeyShortcut{Rune: r, Modifiers: key.ModControl} }

func code(c key.Code) KeyShortcut { return KeyShortcut{Code: c} }

// Action names.
const (
	actMove      = "tool-move"
	actBrush     = "tool-brush"
	actEraser    = "tool-eraser"
	actBlur      = "tool-blur"
	actCrop      = "tool-crop"
	actLasso     = "tool-lasso"
	actText      = "tool-text"
	actConfirm   = "confirm"
	actCancel    = "cancel"
	actExport    = "export"
	actCopy      = "copy"
	actPaste     = "paste"
	actNewLayer  = "new-layer"
	actNewDoc    = "new-project"
	actCapture   = "capture"
	actDelete    = "delete-layer"
	actZoomIn    = "zoom-in"
	actZoomOut   = "zoom-out"
	actZoomReset = "zoom-reset"
	actToggle    = "toggle-visible"
	actLayerUp   = "layer-up"
	actLayerDown = "layer-down"
	actSmaller   = "size-down"
	actBigger    = "size-up"
	actShrink    = "layer-scale-down"
	actGrow      = "layer-scale-up"
	actFainter   = "layer-opacity-down"
	actStronger  = "layer-opacity-up"
)

// defaultKeymap binds every action the window understands.
func defaultKeymap() keymap {
	km := keymap{}
	km.register(actMove, shortcutList{{Rune: 'm'}})
	km.register(actBrush, shortcutList{{Rune: 'b'}})
	km.register(actEraser, shortcutList{{Rune: 'e'}})
	km.register(actBlur, shortcutList{{Rune: 'u'}})
	km.register(actCrop, shortcutList{{Rune: 'c'}})
	km.register(actLasso, shortcutList{{Rune: 'l'}})
	km.register(actText, shortcutList{{Rune: 't'}})
	km.register(actConfirm, shortcutList{code(key.CodeReturnEnter), code(key.CodeKeypadEnter)})
	km.register(actCancel, shortcutList{code(key.CodeEscape)})
	km.register(actExport, shortcutList{ctrl('s')})
	km.register(actCopy, shortcutList{ctrl('c')})
	km.register(actPaste, shortcutList{ctrl('v')})
	km.register(actNewLayer, shortcutList{ctrl('n')})
	km.register(actNewDoc, shortcutList{{Rune: 'n', Modifiers: key.ModControl | key.ModShift}})
	km.register(actCapture, shortcutList{ctrl('i')})
	km.register(actDelete, shortcutList{code(key.CodeDeleteForward)})
	km.register(actZoomIn, shortcutList{{Rune: '+'}, {Rune: '='}, code(key.CodeKeypadPlusSign)})
	km.register(actZoomOut, shortcutList{{Rune: '-'}, code(key.CodeKeypadHyphenMinus)})
	km.register(actZoomReset, shortcutList{{Rune: '0'}})
	km.register(actToggle, shortcutList{{Rune: 'h'}})
	km.register(actLayerUp, shortcutList{code(key.CodePageUp)})
	km.register(actLayerDown, shortcutList{code(key.CodePageDown)})
	km.register(actSmaller, shortcutList{{Rune: '['}})
	km.register(actBigger, shortcutList{{Rune: ']'}})
	km.register(actShrink, shortcutList{{Rune: ','}})
	km.register(actGrow, shortcutList{{Rune: '.'}})
	km.register(actFainter, shortcutList{{Rune: ';'}})
	km.register(actStronger, shortcutList{{Rune: '\''}})
	return km
}

// textEditing reports the keys that stay shortcuts while the text tool
// captures typing.
func textEditing(name string) bool {
	switch name {
	case actConfirm, actCancel, actExport, actCopy, actPaste, actNewLayer, actNewDoc, actCapture,
		actDelete, actLayerUp, actLayerDown:
		return true
	}
	return false
}
