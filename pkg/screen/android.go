package screen

import (
	"context"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/locator"
)

// Android key codes used by AndroidScreen.
const (
	KeyCodeHome = 3
	KeyCodeBack = 4
)

// AndroidDriver is what an AndroidScreen needs from the session.
type AndroidDriver interface {
	core.Driver
	core.AndroidDevice
}

// AndroidScreen adds UiAutomator2-only capabilities to Base.
type AndroidScreen struct {
	*Base
	driver AndroidDriver
}

// NewAndroidScreen creates an AndroidScreen.
func NewAndroidScreen(d AndroidDriver, t Timeouts) *AndroidScreen {
	return &AndroidScreen{Base: NewBase(d, t), driver: d}
}

// ByUiAutomator returns a handle for a raw UiAutomator expression.
func (s *AndroidScreen) ByUiAutomator(expr string) core.ElementHandle {
	return core.NewElementHandle(s.driver, "", locator.UiAutomator(expr))
}

// ByResourceID returns a handle for a resource-id.
func (s *AndroidScreen) ByResourceID(id string) core.ElementHandle {
	return core.NewElementHandle(s.driver, "", locator.ResourceID(id))
}

// ByText returns a handle for an exact text match.
func (s *AndroidScreen) ByText(text string) core.ElementHandle {
	return core.NewElementHandle(s.driver, "", locator.Text(text))
}

// ByContentDesc returns a handle for a content-description.
func (s *AndroidScreen) ByContentDesc(desc string) core.ElementHandle {
	return core.NewElementHandle(s.driver, "", locator.Description(desc))
}

// PressBack presses the system back button.
func (s *AndroidScreen) PressBack(ctx context.Context) error {
	return s.driver.Back(ctx)
}

// PressHome presses the home key.
func (s *AndroidScreen) PressHome(ctx context.Context) error {
	return s.driver.PressKeyCode(ctx, KeyCodeHome)
}

// PressKeyCode injects an Android key code.
func (s *AndroidScreen) PressKeyCode(ctx context.Context, keycode int) error {
	return s.driver.PressKeyCode(ctx, keycode)
}

// OpenNotifications pulls down the notification shade.
func (s *AndroidScreen) OpenNotifications(ctx context.Context) error {
	return s.driver.OpenNotifications(ctx)
}

// CurrentActivity returns the foreground activity name.
func (s *AndroidScreen) CurrentActivity(ctx context.Context) (string, error) {
	return s.driver.CurrentActivity(ctx)
}

// CurrentPackage returns the foreground package name.
func (s *AndroidScreen) CurrentPackage(ctx context.Context) (string, error) {
	return s.driver.CurrentPackage(ctx)
}

// StartActivity launches appActivity of appPackage (deep entry into the app).
func (s *AndroidScreen) StartActivity(ctx context.Context, appPackage, appActivity string) error {
	return s.driver.StartActivity(ctx, appPackage, appActivity)
}
