package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// errTransient marks failures worth another attempt. Callers tag errors with
// MarkTransient; anything unmarked stops the loop immediately.
var errTransient = crerr.New("transient failure")

func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return crerr.Mark(err, errTransient)
}

func IsTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

// Config bounds one retry loop.
type Config struct {
	MaxAttempts int           // total tries including the first, min 1
	BaseDelay   time.Duration // wait before attempt n is n*BaseDelay
	MaxJitter   time.Duration // random extra added to every wait
	Timeout     time.Duration // per-attempt deadline, 0 disables
}

func (c Config) normalized() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = 0
	}
	if c.MaxJitter < 0 {
		c.MaxJitter = 0
	}
	return c
}

// Do runs op until it succeeds, fails with a non-transient error, or attempts
// run out. The wait between attempts grows linearly and carries random jitter;
// context cancellation interrupts both waits and attempts.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	cfg = cfg.normalized()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := wait(ctx, backoff(cfg, attempt)); err != nil {
				return err
			}
		}

		attemptCtx := ctx
		cancel := func() {}
		if cfg.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		}
		err := op(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

func backoff(cfg Config, attempt int) time.Duration {
	delay := time.Duration(attempt-1) * cfg.BaseDelay
	if cfg.MaxJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(cfg.MaxJitter)))
	}
	return delay
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
