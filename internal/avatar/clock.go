package avatar

import "time"

// Clock abstracts time retrieval and the inter-request delay so the
// fetch loop is deterministic in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock uses the actual current time and really sleeps.
type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }
