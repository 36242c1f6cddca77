// Package screen provides synchronized actions shared by all screens and the
// per-platform screens layered on them.
package screen

import (
	"context"
	"time"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/gesture"
	"github.com/devicelab-dev/screenkit/pkg/logger"
	"github.com/devicelab-dev/screenkit/pkg/wait"
)

// Timeouts used by screen actions.
type Timeouts struct {
	Default    time.Duration // element waits before interacting
	ScreenLoad time.Duration // WaitForScreenLoad
	Interval   time.Duration // poll interval
}

// DefaultTimeouts returns 10s element waits, 15s screen loads, 500ms polling.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Default:    wait.DefaultTimeout,
		ScreenLoad: wait.ScreenLoadTimeout,
		Interval:   wait.DefaultInterval,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Default <= 0 {
		t.Default = d.Default
	}
	if t.ScreenLoad <= 0 {
		t.ScreenLoad = d.ScreenLoad
	}
	if t.Interval <= 0 {
		t.Interval = d.Interval
	}
	return t
}

// Actions is the action surface every platform screen offers.
type Actions interface {
	WaitForDisplayed(ctx context.Context, h core.ElementHandle, timeout time.Duration) error
	WaitForClickable(ctx context.Context, h core.ElementHandle, timeout time.Duration) error
	Tap(ctx context.Context, h core.ElementHandle) error
	TypeText(ctx context.Context, h core.ElementHandle, text string) error
	GetText(ctx context.Context, h core.ElementHandle) (string, error)
	IsDisplayed(ctx context.Context, h core.ElementHandle) bool
	ScrollIntoView(ctx context.Context, h core.ElementHandle) error
	HideKeyboard(ctx context.Context)
	Swipe(ctx context.Context, startX, startY, endX, endY float64) error
	SwipeUp(ctx context.Context) error
	SwipeDown(ctx context.Context) error
	Pause(ctx context.Context, d time.Duration) error
	Gestures() *gesture.Synthesizer
}

// Base implements Actions: every interaction waits for the element first.
type Base struct {
	driver   core.Driver
	gestures *gesture.Synthesizer
	timeouts Timeouts
}

// NewBase creates a Base. Zero timeouts fall back to DefaultTimeouts.
func NewBase(d core.Driver, t Timeouts) *Base {
	return &Base{
		driver:   d,
		gestures: gesture.New(d),
		timeouts: t.withDefaults(),
	}
}

// Timeouts returns the effective timeouts.
func (b *Base) Timeouts() Timeouts { return b.timeouts }

// Gestures returns the gesture synthesizer bound to the same driver.
func (b *Base) Gestures() *gesture.Synthesizer { return b.gestures }

// WaitForDisplayed waits for h to be displayed. timeout 0 = default timeout.
func (b *Base) WaitForDisplayed(ctx context.Context, h core.ElementHandle, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = b.timeouts.Default
	}
	return wait.ForDisplayed(ctx, h, timeout, b.timeouts.Interval)
}

// WaitForClickable waits for h to be displayed and enabled. timeout 0 = default timeout.
func (b *Base) WaitForClickable(ctx context.Context, h core.ElementHandle, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = b.timeouts.Default
	}
	return wait.ForClickable(ctx, h, timeout, b.timeouts.Interval)
}

// Tap waits for h to be displayed, then clicks it.
func (b *Base) Tap(ctx context.Context, h core.ElementHandle) error {
	if err := b.WaitForDisplayed(ctx, h, 0); err != nil {
		return err
	}
	logger.Debug("tap %s", h.Describe())
	return h.Click(ctx)
}

// TypeText waits for h to be displayed, then sends text without clearing the field.
func (b *Base) TypeText(ctx context.Context, h core.ElementHandle, text string) error {
	if err := b.WaitForDisplayed(ctx, h, 0); err != nil {
		return err
	}
	logger.Debug("type %d chars into %s", len(text), h.Describe())
	return h.SetValue(ctx, text)
}

// GetText waits for h to be displayed, then reads its text.
func (b *Base) GetText(ctx context.Context, h core.ElementHandle) (string, error) {
	if err := b.WaitForDisplayed(ctx, h, 0); err != nil {
		return "", err
	}
	return h.Text(ctx)
}

// IsDisplayed reports whether h is visible right now, without waiting.
// Any lookup or driver failure reads as false.
func (b *Base) IsDisplayed(ctx context.Context, h core.ElementHandle) bool {
	displayed, err := h.IsDisplayed(ctx)
	if err != nil {
		logger.Debug("isDisplayed %s: %v", h.Describe(), err)
		return false
	}
	return displayed
}

// ScrollIntoView lets the driver scroll until h is visible.
func (b *Base) ScrollIntoView(ctx context.Context, h core.ElementHandle) error {
	return h.ScrollIntoView(ctx)
}

// HideKeyboard hides the soft keyboard if it is shown. Failures are logged,
// not returned: some platforms cannot report keyboard state.
func (b *Base) HideKeyboard(ctx context.Context) {
	shown, err := b.driver.IsKeyboardShown(ctx)
	if err == nil && shown {
		err = b.driver.HideKeyboard(ctx)
	}
	if err != nil {
		logger.Warn("keyboard not shown or unable to hide: %v", err)
	}
}

// Swipe drags between two screen points with the default duration.
func (b *Base) Swipe(ctx context.Context, startX, startY, endX, endY float64) error {
	return b.gestures.Swipe(ctx, startX, startY, endX, endY, gesture.DefaultSwipeDuration)
}

// SwipeUp swipes from 80% to 20% of the screen height along the vertical midline.
func (b *Base) SwipeUp(ctx context.Context) error {
	vp, err := b.driver.WindowRect(ctx)
	if err != nil {
		return err
	}
	w, h := float64(vp.Width), float64(vp.Height)
	return b.Swipe(ctx, w/2, h*0.8, w/2, h*0.2)
}

// SwipeDown swipes from 20% to 80% of the screen height along the vertical midline.
func (b *Base) SwipeDown(ctx context.Context) error {
	vp, err := b.driver.WindowRect(ctx)
	if err != nil {
		return err
	}
	w, h := float64(vp.Width), float64(vp.Height)
	return b.Swipe(ctx, w/2, h*0.2, w/2, h*0.8)
}

// Pause blocks for d.
func (b *Base) Pause(ctx context.Context, d time.Duration) error {
	return b.driver.Pause(ctx, d)
}
