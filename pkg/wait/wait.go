// Package wait implements condition polling with a timeout.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/devicelab-dev/screenkit/pkg/core"
)

// Default timings.
const (
	DefaultTimeout    = 10 * time.Second
	ScreenLoadTimeout = 15 * time.Second
	DefaultInterval   = 500 * time.Millisecond
)

// Condition is a side-effect-free predicate. Returning an error aborts the wait.
type Condition func(ctx context.Context) (bool, error)

// Options configures a wait.
type Options struct {
	Timeout     time.Duration // 0 = DefaultTimeout
	Interval    time.Duration // 0 = DefaultInterval
	Description string        // what is awaited, used in the timeout error
	Reverse     bool          // succeed when the condition is false
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Description == "" {
		o.Description = "condition"
	}
	return o
}

// Until evaluates cond immediately and then once per interval until it
// reports true (false when Reverse is set) or the timeout elapses.
//
// On timeout it returns an error matching core.ErrWaitTimeout. An error from
// cond aborts the wait and is returned unchanged, unless it was caused by the
// timeout itself. Cancellation of ctx is returned as ctx.Err().
func Until(ctx context.Context, cond Condition, opts Options) error {
	opts = opts.withDefaults()

	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ticker := backoff.NewTicker(backoff.WithContext(backoff.NewConstantBackOff(opts.Interval), waitCtx))
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-waitCtx.Done():
			return expired(ctx, opts, attempts)
		case _, ok := <-ticker.C:
			if !ok {
				return expired(ctx, opts, attempts)
			}
		}

		attempts++
		met, err := cond(waitCtx)
		if err != nil {
			if waitCtx.Err() != nil {
				return expired(ctx, opts, attempts)
			}
			return err
		}
		if met != opts.Reverse {
			return nil
		}
	}
}

func expired(parent context.Context, opts Options, attempts int) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return core.ErrWaitTimeout.
		WithMessage(fmt.Sprintf("timed out after %v waiting for %s", opts.Timeout, opts.Description)).
		WithDetails(map[string]interface{}{
			"description": opts.Description,
			"timeout":     opts.Timeout.String(),
			"attempts":    attempts,
		})
}

// IsTimeout reports whether err is a wait timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, core.ErrWaitTimeout)
}
