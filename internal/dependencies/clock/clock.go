package clock

import (
	"time"

	"github.com/coder/quartz"
)

// Clock provides time operations that can be mocked for testing.
// Now takes quartz-style tags so both quartz clocks satisfy it.
type Clock interface {
	Now(tags ...string) time.Time
}

var (
	_ Clock = quartz.NewReal()
	_ Clock = (*quartz.Mock)(nil)
)

// New returns the system clock.
// The result also satisfies quartz.Clock for components that need tickers.
func New() quartz.Clock {
	return quartz.NewReal()
}
