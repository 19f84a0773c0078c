package shared

import "time"

// Clock supplies the current time. Injected so period guards and expiry
// checks are testable against a fixed day.
type Clock func() time.Time

// SystemClock reads the wall clock
func SystemClock() time.Time {
	return time.Now()
}
