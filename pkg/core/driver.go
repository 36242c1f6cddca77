package core

import (
	"context"
	"time"
)

// Driver is the boundary to the remote automation server.
// Implementations: Appium (W3C WebDriver), mock.
// Element IDs returned by FindElement are only valid until the next UI
// mutation; callers resolve again instead of holding them.
type Driver interface {
	// Platform returns the platform the session is bound to
	Platform() Platform

	// FindElement resolves a selector string against the live UI tree.
	// Returns an error matching ErrElementNotFound when nothing matches.
	FindElement(ctx context.Context, selector string) (string, error)

	// Element operations
	Click(ctx context.Context, elementID string) error
	SetValue(ctx context.Context, elementID, text string) error
	Text(ctx context.Context, elementID string) (string, error)
	IsDisplayed(ctx context.Context, elementID string) (bool, error)
	IsEnabled(ctx context.Context, elementID string) (bool, error)
	Bounds(ctx context.Context, elementID string) (Bounds, error)

	// ScrollIntoView scrolls the closest scrollable container until the
	// element matching selector is on screen
	ScrollIntoView(ctx context.Context, selector string) error

	// Device operations
	PerformTouch(ctx context.Context, actions []TouchAction) error
	WindowRect(ctx context.Context) (Viewport, error)
	IsKeyboardShown(ctx context.Context) (bool, error)
	HideKeyboard(ctx context.Context) error
	Pause(ctx context.Context, d time.Duration) error
}

// DeviceControl covers device-level state shared by both platforms.
type DeviceControl interface {
	Orientation(ctx context.Context) (string, error)
	SetOrientation(ctx context.Context, orientation string) error
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
	IsLocked(ctx context.Context) (bool, error)
	DeviceTime(ctx context.Context) (string, error)
}

// AndroidDevice covers commands only UiAutomator2 sessions accept.
type AndroidDevice interface {
	Back(ctx context.Context) error
	PressKeyCode(ctx context.Context, keycode int) error
	OpenNotifications(ctx context.Context) error
	CurrentActivity(ctx context.Context) (string, error)
	CurrentPackage(ctx context.Context) (string, error)
	StartActivity(ctx context.Context, appPackage, appActivity string) error
}

// IOSDevice covers commands only XCUITest sessions accept.
type IOSDevice interface {
	Shake(ctx context.Context) error
	TouchID(ctx context.Context, match bool) error
	Clipboard(ctx context.Context) (string, error)
	SetClipboard(ctx context.Context, text string) error
}

// MobileDriver is a Driver that can serve either platform's screens.
type MobileDriver interface {
	Driver
	DeviceControl
	AndroidDevice
	IOSDevice
}

// Bounds represents element position and size
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the bounds
func (b Bounds) Center() (float64, float64) {
	return float64(b.X) + float64(b.Width)/2, float64(b.Y) + float64(b.Height)/2
}

// Contains checks if a point is within the bounds
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Viewport is the current window size. Query it before each gesture;
// rotation invalidates it.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TouchKind is a primitive touch action.
type TouchKind string

// TouchKind values
const (
	TouchPress   TouchKind = "press"
	TouchWait    TouchKind = "wait"
	TouchMoveTo  TouchKind = "moveTo"
	TouchRelease TouchKind = "release"
	TouchTap     TouchKind = "tap"
)

// TouchAction is one step of a touch sequence.
// X/Y are ignored for wait and release; DurationMs only applies to wait.
type TouchAction struct {
	Action     TouchKind `json:"action"`
	X          float64   `json:"x,omitempty"`
	Y          float64   `json:"y,omitempty"`
	DurationMs int       `json:"ms,omitempty"`
}
