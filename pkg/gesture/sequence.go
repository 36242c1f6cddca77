// Package gesture builds touch sequences for swipes, presses and taps.
package gesture

import (
	"fmt"
	"strings"
	"time"

	"github.com/devicelab-dev/screenkit/pkg/core"
)

// Defaults taken by the Synthesizer when a caller passes zero.
const (
	DefaultSwipeDuration   = 500 * time.Millisecond
	DefaultSwipePercentage = 0.6
	DefaultLongPress       = 1000 * time.Millisecond
	DefaultMaxScrolls      = 10
	DoubleTapPause         = 100 * time.Millisecond

	// elementSwipeFactor is the share of the element's shorter side
	// travelled on each side of its center by SwipeOnElement.
	elementSwipeFactor = 0.4
)

// TouchSequence is an ordered list of primitive touch actions.
type TouchSequence []core.TouchAction

// String renders the sequence for logs, e.g. "press(540,1920) wait(500) moveTo(540,960) release".
func (s TouchSequence) String() string {
	parts := make([]string, len(s))
	for i, a := range s {
		switch a.Action {
		case core.TouchWait:
			parts[i] = fmt.Sprintf("wait(%d)", a.DurationMs)
		case core.TouchRelease:
			parts[i] = "release"
		default:
			parts[i] = fmt.Sprintf("%s(%g,%g)", a.Action, a.X, a.Y)
		}
	}
	return strings.Join(parts, " ")
}

// Direction of a swipe.
type Direction string

// Direction values
const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection converts a direction name (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down, Left, Right:
		return d, nil
	default:
		return "", core.ErrInvalidArgument.WithMessage(fmt.Sprintf("unknown swipe direction %q", s))
	}
}

// SwipeSequence is press@start, wait(duration), moveTo(end), release.
func SwipeSequence(startX, startY, endX, endY float64, duration time.Duration) TouchSequence {
	return TouchSequence{
		{Action: core.TouchPress, X: startX, Y: startY},
		{Action: core.TouchWait, DurationMs: int(duration.Milliseconds())},
		{Action: core.TouchMoveTo, X: endX, Y: endY},
		{Action: core.TouchRelease},
	}
}

// LongPressSequence is press@(x,y), wait(duration), release.
func LongPressSequence(x, y float64, duration time.Duration) TouchSequence {
	return TouchSequence{
		{Action: core.TouchPress, X: x, Y: y},
		{Action: core.TouchWait, DurationMs: int(duration.Milliseconds())},
		{Action: core.TouchRelease},
	}
}

// TapSequence is a single tap@(x,y).
func TapSequence(x, y float64) TouchSequence {
	return TouchSequence{{Action: core.TouchTap, X: x, Y: y}}
}

// Path is a swipe's start and end points.
type Path struct {
	StartX, StartY float64
	EndX, EndY     float64
}

// ScreenPath computes a full-screen swipe along dir covering fraction p of
// the relevant viewport dimension, centered on the viewport midline:
// the swipe runs between dim*(1-p/2) and dim*(p/2).
func ScreenPath(dir Direction, vp core.Viewport, p float64) (Path, error) {
	if p <= 0 || p > 1 {
		return Path{}, core.ErrInvalidArgument.WithMessage(fmt.Sprintf("swipe percentage %v outside (0,1]", p))
	}
	w, h := float64(vp.Width), float64(vp.Height)
	near, far := p/2, 1-p/2

	switch dir {
	case Up:
		return Path{StartX: w / 2, StartY: h * far, EndX: w / 2, EndY: h * near}, nil
	case Down:
		return Path{StartX: w / 2, StartY: h * near, EndX: w / 2, EndY: h * far}, nil
	case Left:
		return Path{StartX: w * far, StartY: h / 2, EndX: w * near, EndY: h / 2}, nil
	case Right:
		return Path{StartX: w * near, StartY: h / 2, EndX: w * far, EndY: h / 2}, nil
	default:
		return Path{}, core.ErrInvalidArgument.WithMessage(fmt.Sprintf("unknown swipe direction %q", dir))
	}
}

// ElementPath computes a swipe across the center of b along dir, travelling
// 0.4*min(width,height) on each side of the center.
func ElementPath(dir Direction, b core.Bounds) (Path, error) {
	cx, cy := b.Center()
	offset := float64(min(b.Width, b.Height)) * elementSwipeFactor

	switch dir {
	case Up:
		return Path{StartX: cx, StartY: cy + offset, EndX: cx, EndY: cy - offset}, nil
	case Down:
		return Path{StartX: cx, StartY: cy - offset, EndX: cx, EndY: cy + offset}, nil
	case Left:
		return Path{StartX: cx + offset, StartY: cy, EndX: cx - offset, EndY: cy}, nil
	case Right:
		return Path{StartX: cx - offset, StartY: cy, EndX: cx + offset, EndY: cy}, nil
	default:
		return Path{}, core.ErrInvalidArgument.WithMessage(fmt.Sprintf("unknown swipe direction %q", dir))
	}
}
