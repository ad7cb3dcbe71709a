package shared

import "time"

// Clock abstracts time for testability
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// Sleep pauses execution for the given duration
	Sleep(d time.Duration)
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// NewRealClock creates a clock backed by the system time
func NewRealClock() *RealClock {
	return &RealClock{}
}

// Now returns the current UTC time
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleep pauses for the given duration
func (c *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// FixedClock implements Clock with a controllable time for tests
type FixedClock struct {
	Current time.Time
}

// NewFixedClock creates a clock frozen at the given time
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{Current: t}
}

// Now returns the configured time
func (c *FixedClock) Now() time.Time {
	return c.Current
}

// Sleep advances the clock instead of blocking
func (c *FixedClock) Sleep(d time.Duration) {
	c.Current = c.Current.Add(d)
}

// Advance moves the clock forward by the given duration
func (c *FixedClock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}
