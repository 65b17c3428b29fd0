// Package input delivers classified gestures to the operating system as
// primitive desktop actions.
package input

// Button identifies a mouse button.
type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// ScrollDirection is the axis direction of a scroll action.
type ScrollDirection string

const (
	ScrollUp    ScrollDirection = "up"
	ScrollDown  ScrollDirection = "down"
	ScrollLeft  ScrollDirection = "left"
	ScrollRight ScrollDirection = "right"
)

// Sink is the desktop-input collaborator. Each call is assumed to complete
// or fail quickly; failures are reported to the caller and never retried
// here (retrying a stale click could hit the wrong target).
type Sink interface {
	MoveTo(x, y int) error
	Click(b Button) error
	DoubleClick() error
	Press(b Button) error
	Release(b Button) error
	Scroll(dir ScrollDirection, clicks int) error
}
