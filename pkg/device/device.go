// Package device provides device-level helpers on top of an automation session.
package device

import (
	"context"
	"fmt"
	"strings"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/logger"
)

// Orientation is the screen orientation.
type Orientation string

// Orientation values
const (
	Portrait  Orientation = "PORTRAIT"
	Landscape Orientation = "LANDSCAPE"
)

// ParseOrientation parses "portrait" or "landscape" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToUpper(strings.TrimSpace(s))); o {
	case Portrait, Landscape:
		return o, nil
	default:
		return "", core.ErrInvalidArgument.WithMessage(fmt.Sprintf("invalid orientation %q (want portrait or landscape)", s))
	}
}

// Info contains basic device state.
type Info struct {
	Platform      core.Platform
	Orientation   Orientation
	Width         int
	Height        int
	KeyboardShown bool
	Locked        bool
}

// Helper wraps device commands of a session.
type Helper struct {
	driver   core.MobileDriver
	bundleID string // reported by AppIdentifier on iOS
}

// New creates a Helper. bundleID is the iOS app under test, if known.
func New(d core.MobileDriver, bundleID string) *Helper {
	return &Helper{driver: d, bundleID: bundleID}
}

// IsAndroid reports whether the session is Android.
func (h *Helper) IsAndroid() bool {
	return h.driver.Platform().IsAndroid()
}

// IsIOS reports whether the session is iOS.
func (h *Helper) IsIOS() bool {
	return h.driver.Platform().IsIOS()
}

// Orientation returns the current orientation.
func (h *Helper) Orientation(ctx context.Context) (Orientation, error) {
	s, err := h.driver.Orientation(ctx)
	if err != nil {
		return "", err
	}
	return ParseOrientation(s)
}

// SetOrientation rotates the device.
func (h *Helper) SetOrientation(ctx context.Context, o Orientation) error {
	if _, err := ParseOrientation(string(o)); err != nil {
		return err
	}
	return h.driver.SetOrientation(ctx, string(o))
}

// ScreenSize returns the current window size.
func (h *Helper) ScreenSize(ctx context.Context) (core.Viewport, error) {
	return h.driver.WindowRect(ctx)
}

// IsKeyboardShown reports whether the soft keyboard is visible.
func (h *Helper) IsKeyboardShown(ctx context.Context) (bool, error) {
	return h.driver.IsKeyboardShown(ctx)
}

// HideKeyboard hides the keyboard if shown; failures are logged only.
func (h *Helper) HideKeyboard(ctx context.Context) {
	shown, err := h.driver.IsKeyboardShown(ctx)
	if err == nil && shown {
		err = h.driver.HideKeyboard(ctx)
	}
	if err != nil {
		logger.Warn("unable to hide keyboard: %v", err)
	}
}

// AppIdentifier returns the foreground package on Android and the
// configured bundle ID on iOS.
func (h *Helper) AppIdentifier(ctx context.Context) (string, error) {
	if h.IsAndroid() {
		return h.driver.CurrentPackage(ctx)
	}
	if h.bundleID == "" {
		return "", core.ErrInvalidConfig.WithMessage("no iOS bundle ID configured")
	}
	return h.bundleID, nil
}

// DeviceTime returns the device clock.
func (h *Helper) DeviceTime(ctx context.Context) (string, error) {
	return h.driver.DeviceTime(ctx)
}

// Lock locks the device.
func (h *Helper) Lock(ctx context.Context) error {
	return h.driver.Lock(ctx)
}

// Unlock unlocks the device.
func (h *Helper) Unlock(ctx context.Context) error {
	return h.driver.Unlock(ctx)
}

// IsLocked reports whether the device is locked.
func (h *Helper) IsLocked(ctx context.Context) (bool, error) {
	return h.driver.IsLocked(ctx)
}

// Info collects orientation, window size, keyboard and lock state.
func (h *Helper) Info(ctx context.Context) (*Info, error) {
	info := &Info{Platform: h.driver.Platform()}

	o, err := h.Orientation(ctx)
	if err != nil {
		return nil, fmt.Errorf("orientation: %w", err)
	}
	info.Orientation = o

	vp, err := h.ScreenSize(ctx)
	if err != nil {
		return nil, fmt.Errorf("screen size: %w", err)
	}
	info.Width, info.Height = vp.Width, vp.Height

	// Not every driver can report these; leave them false
	if shown, err := h.IsKeyboardShown(ctx); err == nil {
		info.KeyboardShown = shown
	} else {
		logger.Debug("keyboard state unavailable: %v", err)
	}
	if locked, err := h.IsLocked(ctx); err == nil {
		info.Locked = locked
	} else {
		logger.Debug("lock state unavailable: %v", err)
	}

	return info, nil
}
