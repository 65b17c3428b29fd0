package input

import (
	"fmt"
	"sync"
	"time"
)

// MockSink records every action for assertions in tests. It can be told to
// fail or to stall so emitter timeout behavior can be exercised.
type MockSink struct {
	mu    sync.Mutex
	calls []string
	err   error
	delay time.Duration
}

// NewMockSink creates an empty recording sink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// SetError makes every subsequent call return err.
func (m *MockSink) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes every subsequent call sleep before returning.
func (m *MockSink) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns a copy of the recorded action log.
func (m *MockSink) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent recorded action, or "".
func (m *MockSink) LastCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1]
}

func (m *MockSink) record(s string) error {
	m.mu.Lock()
	err := m.err
	delay := m.delay
	m.calls = append(m.calls, s)
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}

func (m *MockSink) MoveTo(x, y int) error {
	return m.record(fmt.Sprintf("move(%d,%d)", x, y))
}

func (m *MockSink) Click(b Button) error {
	return m.record(fmt.Sprintf("click(%s)", b))
}

func (m *MockSink) DoubleClick() error {
	return m.record("doubleclick")
}

func (m *MockSink) Press(b Button) error {
	return m.record(fmt.Sprintf("press(%s)", b))
}

func (m *MockSink) Release(b Button) error {
	return m.record(fmt.Sprintf("release(%s)", b))
}

func (m *MockSink) Scroll(dir ScrollDirection, clicks int) error {
	return m.record(fmt.Sprintf("scroll(%s,%d)", dir, clicks))
}
