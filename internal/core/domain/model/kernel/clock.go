package kernel

import "time"

// Clock supplies the current time. Handlers never call time.Now directly so
// deadline behaviour can be driven by tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
