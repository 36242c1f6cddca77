package screen

import (
	"context"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/locator"
)

// IOSDriver is what an IOSScreen needs from the session.
type IOSDriver interface {
	core.Driver
	core.IOSDevice
	core.DeviceControl
}

// IOSScreen adds XCUITest-only capabilities to Base.
type IOSScreen struct {
	*Base
	driver IOSDriver
}

// NewIOSScreen creates an IOSScreen.
func NewIOSScreen(d IOSDriver, t Timeouts) *IOSScreen {
	return &IOSScreen{Base: NewBase(d, t), driver: d}
}

// ByPredicate returns a handle for an NSPredicate string.
func (s *IOSScreen) ByPredicate(predicate string) core.ElementHandle {
	return core.NewElementHandle(s.driver, "", locator.Predicate(predicate))
}

// ByClassChain returns a handle for a class chain query.
func (s *IOSScreen) ByClassChain(chain string) core.ElementHandle {
	return core.NewElementHandle(s.driver, "", locator.ClassChain(chain))
}

// ByAccessibilityID returns a handle for an accessibility identifier.
func (s *IOSScreen) ByAccessibilityID(id string) core.ElementHandle {
	return core.NewElementHandle(s.driver, "", locator.AccessibilityID(id))
}

// ByLabel returns a handle for an exact label.
func (s *IOSScreen) ByLabel(label string) core.ElementHandle {
	return core.NewElementHandle(s.driver, "", locator.Label(label))
}

// ShakeDevice simulates a shake gesture.
func (s *IOSScreen) ShakeDevice(ctx context.Context) error {
	return s.driver.Shake(ctx)
}

// LockDevice locks the screen.
func (s *IOSScreen) LockDevice(ctx context.Context) error {
	return s.driver.Lock(ctx)
}

// UnlockDevice unlocks the screen.
func (s *IOSScreen) UnlockDevice(ctx context.Context) error {
	return s.driver.Unlock(ctx)
}

// IsDeviceLocked reports whether the screen is locked.
func (s *IOSScreen) IsDeviceLocked(ctx context.Context) (bool, error) {
	return s.driver.IsLocked(ctx)
}

// TouchID simulates a fingerprint scan that matches or not.
func (s *IOSScreen) TouchID(ctx context.Context, match bool) error {
	return s.driver.TouchID(ctx, match)
}

// GetClipboard returns the pasteboard text.
func (s *IOSScreen) GetClipboard(ctx context.Context) (string, error) {
	return s.driver.Clipboard(ctx)
}

// SetClipboard replaces the pasteboard text.
func (s *IOSScreen) SetClipboard(ctx context.Context, text string) error {
	return s.driver.SetClipboard(ctx, text)
}

var (
	_ Actions = (*AndroidScreen)(nil)
	_ Actions = (*IOSScreen)(nil)
)
