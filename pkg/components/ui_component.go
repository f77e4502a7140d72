package components

// UIState represents the current state of a UI element (e.g., button).
type UIState int

const (
	// UINormal indicates the UI element is in its default state.
	UINormal UIState = iota
	// UIHovered indicates the mouse cursor is hovering over the UI element.
	UIHovered
	// UIClicked indicates the UI element is being clicked.
	UIClicked
	// UIDisabled indicates the UI element is disabled and cannot be interacted with.
	UIDisabled
)

// Button represents a clickable rectangle drawn by the dialog panel.
type Button struct {
	// X is the X coordinate of the button's top-left corner in screen space.
	X float64
	// Y is the Y coordinate of the button's top-left corner in screen space.
	Y float64
	// Width is the width of the button in pixels.
	Width float64
	// Height is the height of the button in pixels.
	Height float64
	// Label is drawn centered inside the button.
	Label string
	// State is the current interaction state of the button.
	State UIState
	// OnClick is the callback function invoked when the button is clicked.
	OnClick func()
}

// Contains reports whether the point lies inside the button.
func (b *Button) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Click invokes OnClick unless the button is disabled.
func (b *Button) Click() bool {
	if b.State == UIDisabled || b.OnClick == nil {
		return false
	}
	b.OnClick()
	return true
}
