// Package timeutil provides a testable clock and the timestamp formats used
// by run records.
package timeutil

import (
	"sync"
	"time"
)

// RecordLayout is the layout used for timestamps persisted in the run store.
// Fixed-width nanoseconds keep stored values in lexical time order.
const RecordLayout = "2006-01-02T15:04:05.000000000Z07:00"


// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock is a manually controlled clock for testing.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the mock clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// FormatRecord formats t for storage.
func FormatRecord(t time.Time) string {
	return t.UTC().Format(RecordLayout)
}

// ParseRecord parses a stored timestamp. Any RFC 3339 timestamp is accepted.
func ParseRecord(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FromUnixSeconds converts fractional unix seconds, as stored in Swarm
// products, to a UTC time with nanosecond resolution.
func FromUnixSeconds(sec float64) time.Time {
	whole := int64(sec)
	frac := sec - float64(whole)
	return time.Unix(whole, int64(frac*1e9)).UTC()
}
