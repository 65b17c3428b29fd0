package engine

// CursorState is the stabilized on-screen cursor shared between the
// smoothing path and the pinch state machine. While frozen, position
// commits are ignored so hand drift during a click cannot move the click
// target; the freeze-entry coordinates are what click actions land on.
type CursorState struct {
	x, y       int
	frozen     bool
	freezeX    int
	freezeY    int
	hasPos     bool
}

// Commit sets a new stabilized position. Ignored while frozen.
func (c *CursorState) Commit(x, y int) {
	if c.frozen {
		return
	}
	c.x, c.y = x, y
	c.hasPos = true
}

// Freeze locks the cursor at its last committed position. Freezing an
// already-frozen cursor keeps the original freeze point.
func (c *CursorState) Freeze() {
	if c.frozen {
		return
	}
	c.frozen = true
	c.freezeX, c.freezeY = c.x, c.y
}

// Unfreeze resumes position commits. The cursor stays where it froze until
// the next commit.
func (c *CursorState) Unfreeze() {
	c.frozen = false
}

// Frozen reports whether position updates are currently suspended.
func (c *CursorState) Frozen() bool {
	return c.frozen
}

// Position returns the current stabilized screen coordinates: the freeze
// point while frozen, the last committed position otherwise.
func (c *CursorState) Position() (int, int) {
	if c.frozen {
		return c.freezeX, c.freezeY
	}
	return c.x, c.y
}

// Committed reports whether any position has been committed yet.
func (c *CursorState) Committed() bool {
	return c.hasPos
}
