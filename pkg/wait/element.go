package wait

import (
	"context"
	"time"

	"github.com/devicelab-dev/screenkit/pkg/core"
)

// ForExist waits until the element is present in the UI tree.
func ForExist(ctx context.Context, h core.ElementHandle, timeout, interval time.Duration) error {
	return Until(ctx, h.Exists, Options{
		Timeout:     timeout,
		Interval:    interval,
		Description: h.Describe() + " to exist",
	})
}

// ForDisplayed waits until the element is present and visible.
func ForDisplayed(ctx context.Context, h core.ElementHandle, timeout, interval time.Duration) error {
	return Until(ctx, h.IsDisplayed, Options{
		Timeout:     timeout,
		Interval:    interval,
		Description: h.Describe() + " to be displayed",
	})
}

// ForEnabled waits until the element is present and enabled.
func ForEnabled(ctx context.Context, h core.ElementHandle, timeout, interval time.Duration) error {
	return Until(ctx, h.IsEnabled, Options{
		Timeout:     timeout,
		Interval:    interval,
		Description: h.Describe() + " to be enabled",
	})
}

// ForClickable waits until the element is displayed and enabled.
func ForClickable(ctx context.Context, h core.ElementHandle, timeout, interval time.Duration) error {
	return Until(ctx, func(ctx context.Context) (bool, error) {
		displayed, err := h.IsDisplayed(ctx)
		if err != nil || !displayed {
			return false, err
		}
		return h.IsEnabled(ctx)
	}, Options{
		Timeout:     timeout,
		Interval:    interval,
		Description: h.Describe() + " to be clickable",
	})
}

// ForDisappear waits until the element is hidden or gone.
func ForDisappear(ctx context.Context, h core.ElementHandle, timeout, interval time.Duration) error {
	return Until(ctx, h.IsDisplayed, Options{
		Timeout:     timeout,
		Interval:    interval,
		Description: h.Describe() + " to disappear",
		Reverse:     true,
	})
}
