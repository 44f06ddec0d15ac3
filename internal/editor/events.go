package editor

import (
	"fmt"
	"strings"

	"plan-editor/pkg/geometry"
)

// Tool is the active interaction mode. Exactly one tool is active.
type Tool int

const (
	ToolSelect Tool = iota
	ToolWire
	ToolAddSymbol
	ToolMeasure
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolWire:
		return "wire"
	case ToolAddSymbol:
		return "add-symbol"
	case ToolMeasure:
		return "measure"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

// Tools lists the tools in toolbar order.
func Tools() []Tool {
	return []Tool{ToolSelect, ToolWire, ToolAddSymbol, ToolMeasure}
}

// Button identifies the mouse button of a pointer press.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Modifier is a bit set of held modifier keys.
type Modifier uint

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether all bits of m are set.
func (mods Modifier) Has(m Modifier) bool {
	return mods&m == m
}

// Command reports whether Ctrl or Cmd is held.
func (mods Modifier) Command() bool {
	return mods.Has(ModCtrl) || mods.Has(ModSuper)
}

// Key names a key the editor reacts to. Letter keys use their lowercase
// character.
type Key string

const (
	KeyDelete Key = "Delete"
	KeyLeft   Key = "Left"
	KeyRight  Key = "Right"
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
	KeyZ      Key = "z"
	KeyY      Key = "y"
	KeyS      Key = "s"
)

// NormalizeKey lowercases single letters so "Z" and "z" match.
func NormalizeKey(k Key) Key {
	if len(k) == 1 {
		return Key(strings.ToLower(string(k)))
	}
	return k
}

// PointerEvent is a pointer press or move in screen coordinates. Delta is
// the screen movement since the previous event and is only read while
// panning.
type PointerEvent struct {
	Pos    geometry.Point2D
	Delta  geometry.Point2D
	Button Button
	Mods   Modifier
}

// WheelEvent is a scroll at Pos. Positive DeltaY scrolls down.
type WheelEvent struct {
	Pos    geometry.Point2D
	DeltaY float64
	Mods   Modifier
}

// KeyEvent is a key press.
type KeyEvent struct {
	Key  Key
	Mods Modifier
}

// Change is a bit set describing what an operation modified.
type Change uint

const (
	ChangeDocument Change = 1 << iota
	ChangeSelection
	ChangeViewport
	ChangeTool
	ChangeLayers
	ChangeDraft
	ChangeSnap
	ChangeBackground
)

// Has reports whether any bit of c is set.
func (ch Change) Has(c Change) bool {
	return ch&c != 0
}
