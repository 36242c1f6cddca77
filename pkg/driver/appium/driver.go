package appium

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/locator"
	"github.com/devicelab-dev/screenkit/pkg/logger"
)

// tapHoldMs is how long a tap keeps the pointer down.
const tapHoldMs = 50

// Driver implements core.MobileDriver using Appium server.
type Driver struct {
	client *Client
}

// NewDriver creates a session on serverURL and returns a driver bound to it.
func NewDriver(ctx context.Context, serverURL string, capabilities map[string]interface{}) (*Driver, error) {
	client := NewClient(serverURL)
	if err := client.Connect(ctx, capabilities); err != nil {
		return nil, err
	}
	d := &Driver{client: client}
	d.configureSettings(ctx)
	return d, nil
}

// configureSettings turns off the server-side idle waits; polling happens client side.
func (d *Driver) configureSettings(ctx context.Context) {
	settings := map[string]interface{}{"waitForIdleTimeout": 0}
	if d.client.Platform().IsIOS() {
		settings["animationCoolOffTimeout"] = 0
	} else {
		settings["waitForSelectorTimeout"] = 0
	}
	if err := d.client.SetSettings(ctx, settings); err != nil {
		logger.Warn("failed to apply appium settings: %v", err)
	}
}

// Client returns the underlying HTTP client.
func (d *Driver) Client() *Client {
	return d.client
}

// Close disconnects from Appium server.
func (d *Driver) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Platform implements core.Driver.
func (d *Driver) Platform() core.Platform {
	return d.client.Platform()
}

// FindElement implements core.Driver.
func (d *Driver) FindElement(ctx context.Context, selector string) (string, error) {
	s := locator.ParseSelector(selector)
	return d.client.FindElement(ctx, s.Using, s.Value)
}

// Click implements core.Driver.
func (d *Driver) Click(ctx context.Context, elementID string) error {
	return d.client.ClickElement(ctx, elementID)
}

// SetValue implements core.Driver.
func (d *Driver) SetValue(ctx context.Context, elementID, text string) error {
	return d.client.SendElementKeys(ctx, elementID, text)
}

// Text implements core.Driver.
func (d *Driver) Text(ctx context.Context, elementID string) (string, error) {
	return d.client.GetElementText(ctx, elementID)
}

// IsDisplayed implements core.Driver.
func (d *Driver) IsDisplayed(ctx context.Context, elementID string) (bool, error) {
	return d.client.IsElementDisplayed(ctx, elementID)
}

// IsEnabled implements core.Driver.
func (d *Driver) IsEnabled(ctx context.Context, elementID string) (bool, error) {
	return d.client.IsElementEnabled(ctx, elementID)
}

// Bounds implements core.Driver.
func (d *Driver) Bounds(ctx context.Context, elementID string) (core.Bounds, error) {
	return d.client.GetElementRect(ctx, elementID)
}

// ScrollIntoView implements core.Driver.
// UiAutomator2 scrolls by locator; XCUITest needs the element first.
func (d *Driver) ScrollIntoView(ctx context.Context, selector string) error {
	if d.Platform().IsIOS() {
		id, err := d.FindElement(ctx, selector)
		if err != nil {
			return err
		}
		_, err = d.client.ExecuteMobile(ctx, "scroll", map[string]interface{}{
			"elementId": id,
			"toVisible": true,
		})
		return err
	}

	s := locator.ParseSelector(selector)
	_, err := d.client.ExecuteMobile(ctx, "scroll", map[string]interface{}{
		"strategy": s.Using,
		"selector": s.Value,
	})
	return err
}

// PerformTouch implements core.Driver.
func (d *Driver) PerformTouch(ctx context.Context, actions []core.TouchAction) error {
	encoded, err := encodeTouch(actions)
	if err != nil {
		return err
	}
	return d.client.PerformActions(ctx, encoded)
}

// WindowRect implements core.Driver.
func (d *Driver) WindowRect(ctx context.Context) (core.Viewport, error) {
	return d.client.WindowRect(ctx)
}

// IsKeyboardShown implements core.Driver.
func (d *Driver) IsKeyboardShown(ctx context.Context) (bool, error) {
	return d.client.IsKeyboardShown(ctx)
}

// HideKeyboard implements core.Driver.
func (d *Driver) HideKeyboard(ctx context.Context) error {
	return d.client.HideKeyboard(ctx)
}

// Pause implements core.Driver. It sleeps locally; no command is sent.
func (d *Driver) Pause(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Orientation implements core.DeviceControl.
func (d *Driver) Orientation(ctx context.Context) (string, error) {
	return d.client.GetOrientation(ctx)
}

// SetOrientation implements core.DeviceControl.
func (d *Driver) SetOrientation(ctx context.Context, orientation string) error {
	return d.client.SetOrientation(ctx, orientation)
}

// Lock implements core.DeviceControl.
func (d *Driver) Lock(ctx context.Context) error {
	return d.client.Lock(ctx)
}

// Unlock implements core.DeviceControl.
func (d *Driver) Unlock(ctx context.Context) error {
	return d.client.Unlock(ctx)
}

// IsLocked implements core.DeviceControl.
func (d *Driver) IsLocked(ctx context.Context) (bool, error) {
	return d.client.IsLocked(ctx)
}

// DeviceTime implements core.DeviceControl.
func (d *Driver) DeviceTime(ctx context.Context) (string, error) {
	return d.client.DeviceTime(ctx)
}

// Back implements core.AndroidDevice.
func (d *Driver) Back(ctx context.Context) error {
	if err := d.requireAndroid("back"); err != nil {
		return err
	}
	return d.client.Back(ctx)
}

// PressKeyCode implements core.AndroidDevice.
func (d *Driver) PressKeyCode(ctx context.Context, keycode int) error {
	if err := d.requireAndroid("pressKeyCode"); err != nil {
		return err
	}
	return d.client.PressKeyCode(ctx, keycode)
}

// OpenNotifications implements core.AndroidDevice.
func (d *Driver) OpenNotifications(ctx context.Context) error {
	if err := d.requireAndroid("openNotifications"); err != nil {
		return err
	}
	return d.client.OpenNotifications(ctx)
}

// CurrentActivity implements core.AndroidDevice.
func (d *Driver) CurrentActivity(ctx context.Context) (string, error) {
	if err := d.requireAndroid("currentActivity"); err != nil {
		return "", err
	}
	return d.client.CurrentActivity(ctx)
}

// CurrentPackage implements core.AndroidDevice.
func (d *Driver) CurrentPackage(ctx context.Context) (string, error) {
	if err := d.requireAndroid("currentPackage"); err != nil {
		return "", err
	}
	return d.client.CurrentPackage(ctx)
}

// StartActivity implements core.AndroidDevice.
func (d *Driver) StartActivity(ctx context.Context, appPackage, appActivity string) error {
	if err := d.requireAndroid("startActivity"); err != nil {
		return err
	}
	_, err := d.client.ExecuteMobile(ctx, "startActivity", map[string]interface{}{
		"appPackage":  appPackage,
		"appActivity": appActivity,
	})
	return err
}

// Shake implements core.IOSDevice.
func (d *Driver) Shake(ctx context.Context) error {
	if err := d.requireIOS("shake"); err != nil {
		return err
	}
	return d.client.Shake(ctx)
}

// TouchID implements core.IOSDevice.
func (d *Driver) TouchID(ctx context.Context, match bool) error {
	if err := d.requireIOS("touchId"); err != nil {
		return err
	}
	return d.client.TouchID(ctx, match)
}

// Clipboard implements core.IOSDevice.
func (d *Driver) Clipboard(ctx context.Context) (string, error) {
	return d.client.GetClipboard(ctx)
}

// SetClipboard implements core.IOSDevice.
func (d *Driver) SetClipboard(ctx context.Context, text string) error {
	return d.client.SetClipboard(ctx, text)
}

func (d *Driver) requireAndroid(op string) error {
	if d.Platform().IsAndroid() {
		return nil
	}
	return core.ErrUnsupported.WithMessage(fmt.Sprintf("%s requires an android session, got %s", op, d.Platform()))
}

func (d *Driver) requireIOS(op string) error {
	if d.Platform().IsIOS() {
		return nil
	}
	return core.ErrUnsupported.WithMessage(fmt.Sprintf("%s requires an ios session, got %s", op, d.Platform()))
}

// encodeTouch converts a touch sequence into W3C pointer actions.
// A wait directly before a moveTo becomes the duration of that move.
func encodeTouch(actions []core.TouchAction) ([]map[string]interface{}, error) {
	var out []map[string]interface{}
	for i := 0; i < len(actions); i++ {
		a := actions[i]
		switch a.Action {
		case core.TouchPress:
			out = append(out,
				pointerMove(a.X, a.Y, 0),
				map[string]interface{}{"type": "pointerDown", "button": 0},
			)
		case core.TouchWait:
			if i+1 < len(actions) && actions[i+1].Action == core.TouchMoveTo {
				next := actions[i+1]
				out = append(out, pointerMove(next.X, next.Y, a.DurationMs))
				i++
				continue
			}
			out = append(out, map[string]interface{}{"type": "pause", "duration": a.DurationMs})
		case core.TouchMoveTo:
			out = append(out, pointerMove(a.X, a.Y, 0))
		case core.TouchRelease:
			out = append(out, map[string]interface{}{"type": "pointerUp", "button": 0})
		case core.TouchTap:
			out = append(out,
				pointerMove(a.X, a.Y, 0),
				map[string]interface{}{"type": "pointerDown", "button": 0},
				map[string]interface{}{"type": "pause", "duration": tapHoldMs},
				map[string]interface{}{"type": "pointerUp", "button": 0},
			)
		default:
			return nil, core.ErrInvalidArgument.WithMessage(fmt.Sprintf("unknown touch action %q", a.Action))
		}
	}
	return out, nil
}

func pointerMove(x, y float64, durationMs int) map[string]interface{} {
	return map[string]interface{}{
		"type":     "pointerMove",
		"duration": durationMs,
		"x":        int(math.Round(x)),
		"y":        int(math.Round(y)),
		"origin":   "viewport",
	}
}

var _ core.MobileDriver = (*Driver)(nil)
