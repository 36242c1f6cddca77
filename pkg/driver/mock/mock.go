// Package mock provides an in-memory driver for testing screens without a device.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devicelab-dev/screenkit/pkg/core"
)

const idPrefix = "el:"

// Element is a fake UI element registered under a selector.
type Element struct {
	Text      string
	Displayed bool
	Enabled   bool
	Bounds    core.Bounds

	// ShowAfter keeps the element hidden for the first N displayed checks.
	ShowAfter int
	// HideAfter makes the element hidden once more than N displayed checks happened. 0 = never.
	HideAfter int

	checks int
}

func (e *Element) visible() bool {
	e.checks++
	if !e.Displayed || e.checks <= e.ShowAfter {
		return false
	}
	return e.HideAfter == 0 || e.checks <= e.HideAfter
}

// Call is one recorded driver invocation.
type Call struct {
	Method string
	Target string // selector, element selector or empty
	Value  string
}

// String returns a compact form used in test failure output
func (c Call) String() string {
	if c.Value != "" {
		return fmt.Sprintf("%s(%s, %s)", c.Method, c.Target, c.Value)
	}
	if c.Target != "" {
		return fmt.Sprintf("%s(%s)", c.Method, c.Target)
	}
	return c.Method + "()"
}

// Driver is a recording implementation of core.MobileDriver.
type Driver struct {
	mu sync.Mutex

	platform      core.Platform
	elements      map[string]*Element
	errs          map[string]error
	calls         []Call
	touches       [][]core.TouchAction
	pauses        []time.Duration
	viewport      core.Viewport
	keyboardShown bool
	locked        bool
	orientation   string
	clipboard     string
	activity      string
	appPackage    string
}

// New creates a mock driver bound to platform with a 1080x2400 viewport.
func New(platform core.Platform) *Driver {
	return &Driver{
		platform:    platform,
		elements:    make(map[string]*Element),
		errs:        make(map[string]error),
		viewport:    core.Viewport{Width: 1080, Height: 2400},
		orientation: "portrait",
	}
}

// SetPlatform switches the reported platform.
func (d *Driver) SetPlatform(p core.Platform) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.platform = p
}

// AddElement registers an element under selector and returns it.
func (d *Driver) AddElement(selector string, e *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[selector] = e
	return e
}

// RemoveElement drops the element registered under selector.
func (d *Driver) RemoveElement(selector string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, selector)
}

// FailOn makes every call of method return err. A nil err clears it.
func (d *Driver) FailOn(method string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.errs, method)
		return
	}
	d.errs[method] = err
}

// SetViewport changes the window size returned by WindowRect.
func (d *Driver) SetViewport(v core.Viewport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewport = v
}

// SetKeyboardShown changes the keyboard state.
func (d *Driver) SetKeyboardShown(shown bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keyboardShown = shown
}

// Calls returns a copy of all recorded calls.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// Methods returns the recorded method names in order.
func (d *Driver) Methods() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	for i, c := range d.calls {
		out[i] = c.Method
	}
	return out
}

// Count returns how many times method was called.
func (d *Driver) Count(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Touches returns every touch sequence sent to PerformTouch.
func (d *Driver) Touches() [][]core.TouchAction {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]core.TouchAction, len(d.touches))
	copy(out, d.touches)
	return out
}

// Pauses returns every duration passed to Pause.
func (d *Driver) Pauses() []time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]time.Duration, len(d.pauses))
	copy(out, d.pauses)
	return out
}

// Reset clears recorded calls, touches and pauses.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
	d.touches = nil
	d.pauses = nil
}

// record must be called with d.mu held.
func (d *Driver) record(method, target, value string) error {
	d.calls = append(d.calls, Call{Method: method, Target: target, Value: value})
	return d.errs[method]
}

// lookup must be called with d.mu held.
func (d *Driver) lookup(elementID string) (*Element, error) {
	selector := strings.TrimPrefix(elementID, idPrefix)
	e, ok := d.elements[selector]
	if !ok {
		return nil, core.ErrElementNotFound.WithMessage("stale element: " + selector)
	}
	return e, nil
}

// Platform implements core.Driver.
func (d *Driver) Platform() core.Platform {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.platform
}

// FindElement implements core.Driver.
func (d *Driver) FindElement(ctx context.Context, selector string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("FindElement", selector, ""); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, ok := d.elements[selector]; !ok {
		return "", core.ErrElementNotFound.WithMessage("no element matches " + selector)
	}
	return idPrefix + selector, nil
}

// Click implements core.Driver.
func (d *Driver) Click(_ context.Context, elementID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Click", strings.TrimPrefix(elementID, idPrefix), ""); err != nil {
		return err
	}
	_, err := d.lookup(elementID)
	return err
}

// SetValue implements core.Driver. Text is appended to the element's text.
func (d *Driver) SetValue(_ context.Context, elementID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SetValue", strings.TrimPrefix(elementID, idPrefix), text); err != nil {
		return err
	}
	e, err := d.lookup(elementID)
	if err != nil {
		return err
	}
	e.Text += text
	return nil
}

// Text implements core.Driver.
func (d *Driver) Text(_ context.Context, elementID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Text", strings.TrimPrefix(elementID, idPrefix), ""); err != nil {
		return "", err
	}
	e, err := d.lookup(elementID)
	if err != nil {
		return "", err
	}
	return e.Text, nil
}

// IsDisplayed implements core.Driver.
func (d *Driver) IsDisplayed(_ context.Context, elementID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("IsDisplayed", strings.TrimPrefix(elementID, idPrefix), ""); err != nil {
		return false, err
	}
	e, err := d.lookup(elementID)
	if err != nil {
		return false, err
	}
	return e.visible(), nil
}

// IsEnabled implements core.Driver.
func (d *Driver) IsEnabled(_ context.Context, elementID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("IsEnabled", strings.TrimPrefix(elementID, idPrefix), ""); err != nil {
		return false, err
	}
	e, err := d.lookup(elementID)
	if err != nil {
		return false, err
	}
	return e.Enabled, nil
}

// Bounds implements core.Driver.
func (d *Driver) Bounds(_ context.Context, elementID string) (core.Bounds, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Bounds", strings.TrimPrefix(elementID, idPrefix), ""); err != nil {
		return core.Bounds{}, err
	}
	e, err := d.lookup(elementID)
	if err != nil {
		return core.Bounds{}, err
	}
	return e.Bounds, nil
}

// ScrollIntoView implements core.Driver. A registered element becomes displayed.
func (d *Driver) ScrollIntoView(_ context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("ScrollIntoView", selector, ""); err != nil {
		return err
	}
	e, ok := d.elements[selector]
	if !ok {
		return core.ErrElementNotFound.WithMessage("no element matches " + selector)
	}
	e.Displayed = true
	e.ShowAfter = 0
	return nil
}

// PerformTouch implements core.Driver.
func (d *Driver) PerformTouch(_ context.Context, actions []core.TouchAction) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("PerformTouch", "", fmt.Sprintf("%d actions", len(actions))); err != nil {
		return err
	}
	seq := make([]core.TouchAction, len(actions))
	copy(seq, actions)
	d.touches = append(d.touches, seq)
	return nil
}

// WindowRect implements core.Driver.
func (d *Driver) WindowRect(_ context.Context) (core.Viewport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("WindowRect", "", ""); err != nil {
		return core.Viewport{}, err
	}
	return d.viewport, nil
}

// IsKeyboardShown implements core.Driver.
func (d *Driver) IsKeyboardShown(_ context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("IsKeyboardShown", "", ""); err != nil {
		return false, err
	}
	return d.keyboardShown, nil
}

// HideKeyboard implements core.Driver.
func (d *Driver) HideKeyboard(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("HideKeyboard", "", ""); err != nil {
		return err
	}
	d.keyboardShown = false
	return nil
}

// Pause implements core.Driver. The pause is recorded, not slept.
func (d *Driver) Pause(ctx context.Context, dur time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Pause", "", dur.String()); err != nil {
		return err
	}
	d.pauses = append(d.pauses, dur)
	return ctx.Err()
}

// Orientation implements core.DeviceControl.
func (d *Driver) Orientation(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Orientation", "", ""); err != nil {
		return "", err
	}
	return d.orientation, nil
}

// SetOrientation implements core.DeviceControl.
func (d *Driver) SetOrientation(_ context.Context, orientation string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SetOrientation", "", orientation); err != nil {
		return err
	}
	d.orientation = strings.ToLower(orientation)
	if d.orientation == "landscape" && d.viewport.Height > d.viewport.Width {
		d.viewport.Width, d.viewport.Height = d.viewport.Height, d.viewport.Width
	}
	if d.orientation == "portrait" && d.viewport.Width > d.viewport.Height {
		d.viewport.Width, d.viewport.Height = d.viewport.Height, d.viewport.Width
	}
	return nil
}

// Lock implements core.DeviceControl.
func (d *Driver) Lock(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Lock", "", ""); err != nil {
		return err
	}
	d.locked = true
	return nil
}

// Unlock implements core.DeviceControl.
func (d *Driver) Unlock(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Unlock", "", ""); err != nil {
		return err
	}
	d.locked = false
	return nil
}

// IsLocked implements core.DeviceControl.
func (d *Driver) IsLocked(_ context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("IsLocked", "", ""); err != nil {
		return false, err
	}
	return d.locked, nil
}

// DeviceTime implements core.DeviceControl.
func (d *Driver) DeviceTime(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("DeviceTime", "", ""); err != nil {
		return "", err
	}
	return "2024-01-01T00:00:00+00:00", nil
}

// Back implements core.AndroidDevice.
func (d *Driver) Back(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record("Back", "", "")
}

// PressKeyCode implements core.AndroidDevice.
func (d *Driver) PressKeyCode(_ context.Context, keycode int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record("PressKeyCode", "", fmt.Sprintf("%d", keycode))
}

// OpenNotifications implements core.AndroidDevice.
func (d *Driver) OpenNotifications(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record("OpenNotifications", "", "")
}

// CurrentActivity implements core.AndroidDevice.
func (d *Driver) CurrentActivity(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("CurrentActivity", "", ""); err != nil {
		return "", err
	}
	return d.activity, nil
}

// CurrentPackage implements core.AndroidDevice.
func (d *Driver) CurrentPackage(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("CurrentPackage", "", ""); err != nil {
		return "", err
	}
	return d.appPackage, nil
}

// StartActivity implements core.AndroidDevice.
func (d *Driver) StartActivity(_ context.Context, appPackage, appActivity string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("StartActivity", appPackage, appActivity); err != nil {
		return err
	}
	d.appPackage = appPackage
	d.activity = appActivity
	return nil
}

// Shake implements core.IOSDevice.
func (d *Driver) Shake(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record("Shake", "", "")
}

// TouchID implements core.IOSDevice.
func (d *Driver) TouchID(_ context.Context, match bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record("TouchID", "", fmt.Sprintf("%t", match))
}

// Clipboard implements core.IOSDevice.
func (d *Driver) Clipboard(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Clipboard", "", ""); err != nil {
		return "", err
	}
	return d.clipboard, nil
}

// SetClipboard implements core.IOSDevice.
func (d *Driver) SetClipboard(_ context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SetClipboard", "", text); err != nil {
		return err
	}
	d.clipboard = text
	return nil
}

var _ core.MobileDriver = (*Driver)(nil)
