package input

import "github.com/go-vgo/robotgo"

// RobotSink injects input through robotgo.
type RobotSink struct{}

// NewRobotSink creates the OS input sink.
func NewRobotSink() *RobotSink {
	return &RobotSink{}
}

// ScreenSize returns the primary display dimensions in pixels.
func ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}

// MoveTo moves the OS cursor to absolute screen coordinates.
func (s *RobotSink) MoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Click performs a single click with the given button.
func (s *RobotSink) Click(b Button) error {
	robotgo.Click(string(b), false)
	return nil
}

// DoubleClick performs a left double-click.
func (s *RobotSink) DoubleClick() error {
	robotgo.Click("left", true)
	return nil
}

// Press holds a button down. Paired with Release for drags.
func (s *RobotSink) Press(b Button) error {
	return robotgo.Toggle(string(b), "down")
}

// Release lets a held button go.
func (s *RobotSink) Release(b Button) error {
	return robotgo.Toggle(string(b), "up")
}

// Scroll scrolls by the given number of clicks in a direction.
func (s *RobotSink) Scroll(dir ScrollDirection, clicks int) error {
	if clicks < 1 {
		clicks = 1
	}
	robotgo.ScrollDir(clicks, string(dir))
	return nil
}
