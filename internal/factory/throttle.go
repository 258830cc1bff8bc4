package factory

import (
	"time"

	"golang.org/x/time/rate"
)

type writeThrottle interface {
	Wait()
}

type limiterThrottle struct {
	limiter *rate.Limiter
	sleep   func(time.Duration)
}

// newWriteThrottle returns nil when perSecond is not positive, which disables throttling.
func newWriteThrottle(perSecond float64, burst int, sleep func(time.Duration)) writeThrottle {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	return &limiterThrottle{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		sleep:   sleep,
	}
}

func (t *limiterThrottle) Wait() {
	if t == nil || t.limiter == nil {
		return
	}
	if delay := t.limiter.Reserve().Delay(); delay > 0 {
		t.sleep(delay)
	}
}
