package retry

import (
	"context"
	"math/rand"
	"time"
)

type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:    5,
		BackoffFactor: 2.0,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      15 * time.Second,
		Jitter:        100 * time.Millisecond,
	}
}

// Do runs op until it succeeds, the attempt budget is exhausted, or ctx is
// done. The last error from op is returned when the budget runs out.
func Do(ctx context.Context, cfg Config, op func() error) error {
	var err error
	delay := cfg.InitialDelay

	for attempt := 0; ; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			return err
		}

		wait := delay + time.Duration(rand.Float64()*float64(cfg.Jitter))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}
