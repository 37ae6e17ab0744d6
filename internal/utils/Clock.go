package utils

import "time"

// TimestampLayout is the layout of record timestamps and export file names.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	FileStampLayout = "20060102_150405"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

func (m *MockClock) Advance(d time.Duration) {
	m.FixedNow = m.FixedNow.Add(d)
}

// Timestamp formats the clock's current time using TimestampLayout.
func Timestamp(c Clock) string {
	return c.Now().Format(TimestampLayout)
}
