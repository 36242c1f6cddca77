package gesture

import (
	"context"
	"fmt"
	"time"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/logger"
)

// Synthesizer turns gesture intents into touch sequences and sends them.
// The viewport is queried before every screen-relative gesture.
type Synthesizer struct {
	driver core.Driver
}

// New creates a Synthesizer on top of d.
func New(d core.Driver) *Synthesizer {
	return &Synthesizer{driver: d}
}

func (s *Synthesizer) perform(ctx context.Context, seq TouchSequence) error {
	logger.Debug("touch: %s", seq)
	if err := s.driver.PerformTouch(ctx, seq); err != nil {
		return fmt.Errorf("perform touch %s: %w", seq, err)
	}
	return nil
}

// Swipe drags from (startX,startY) to (endX,endY). duration 0 = DefaultSwipeDuration.
func (s *Synthesizer) Swipe(ctx context.Context, startX, startY, endX, endY float64, duration time.Duration) error {
	if duration <= 0 {
		duration = DefaultSwipeDuration
	}
	return s.perform(ctx, SwipeSequence(startX, startY, endX, endY, duration))
}

// SwipeScreen swipes along dir over fraction p of the screen. p 0 = DefaultSwipePercentage.
func (s *Synthesizer) SwipeScreen(ctx context.Context, dir Direction, p float64) error {
	if p == 0 {
		p = DefaultSwipePercentage
	}
	vp, err := s.driver.WindowRect(ctx)
	if err != nil {
		return fmt.Errorf("window rect: %w", err)
	}
	path, err := ScreenPath(dir, vp, p)
	if err != nil {
		return err
	}
	return s.Swipe(ctx, path.StartX, path.StartY, path.EndX, path.EndY, DefaultSwipeDuration)
}

// SwipeUp swipes towards the top of the screen (content scrolls down).
func (s *Synthesizer) SwipeUp(ctx context.Context, p float64) error {
	return s.SwipeScreen(ctx, Up, p)
}

// SwipeDown swipes towards the bottom of the screen.
func (s *Synthesizer) SwipeDown(ctx context.Context, p float64) error {
	return s.SwipeScreen(ctx, Down, p)
}

// SwipeLeft swipes towards the left edge.
func (s *Synthesizer) SwipeLeft(ctx context.Context, p float64) error {
	return s.SwipeScreen(ctx, Left, p)
}

// SwipeRight swipes towards the right edge.
func (s *Synthesizer) SwipeRight(ctx context.Context, p float64) error {
	return s.SwipeScreen(ctx, Right, p)
}

// SwipeOnElement swipes across the element's center along dir.
func (s *Synthesizer) SwipeOnElement(ctx context.Context, h core.ElementHandle, dir Direction) error {
	b, err := h.Bounds(ctx)
	if err != nil {
		return err
	}
	path, err := ElementPath(dir, b)
	if err != nil {
		return err
	}
	return s.Swipe(ctx, path.StartX, path.StartY, path.EndX, path.EndY, DefaultSwipeDuration)
}

// LongPress holds on the element's center. duration 0 = DefaultLongPress.
func (s *Synthesizer) LongPress(ctx context.Context, h core.ElementHandle, duration time.Duration) error {
	if duration <= 0 {
		duration = DefaultLongPress
	}
	b, err := h.Bounds(ctx)
	if err != nil {
		return err
	}
	x, y := b.Center()
	return s.perform(ctx, LongPressSequence(x, y, duration))
}

// DoubleTap clicks the element twice with a DoubleTapPause in between.
// This is two element clicks, not a native double-tap gesture.
func (s *Synthesizer) DoubleTap(ctx context.Context, h core.ElementHandle) error {
	if err := h.Click(ctx); err != nil {
		return err
	}
	if err := s.driver.Pause(ctx, DoubleTapPause); err != nil {
		return err
	}
	return h.Click(ctx)
}

// ScrollToElement swipes up until the element is displayed or maxScrolls
// swipes have been made (0 = DefaultMaxScrolls). Running out of scrolls is
// not an error: the result reports whether the element was seen.
func (s *Synthesizer) ScrollToElement(ctx context.Context, h core.ElementHandle, maxScrolls int) (bool, error) {
	if maxScrolls <= 0 {
		maxScrolls = DefaultMaxScrolls
	}
	for scrolls := 0; ; scrolls++ {
		if h.Probe(ctx) {
			return true, nil
		}
		if scrolls >= maxScrolls {
			logger.Debug("scroll: %s not displayed after %d swipes", h.Describe(), scrolls)
			return false, nil
		}
		if err := s.SwipeUp(ctx, DefaultSwipePercentage); err != nil {
			return false, err
		}
	}
}

// TapOnCoordinates taps a screen point.
func (s *Synthesizer) TapOnCoordinates(ctx context.Context, x, y float64) error {
	return s.perform(ctx, TapSequence(x, y))
}
