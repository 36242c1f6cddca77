// Package pages holds the screen facades: one object per app screen that
// hides which platform the session runs on.
package pages

import (
	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/locator"
	"github.com/devicelab-dev/screenkit/pkg/screen"
)

// Options configures a facade.
type Options struct {
	Timeouts screen.Timeouts
	// Overrides replace entries of the built-in selector tables.
	Overrides locator.Tables
}

// facade dispatches to the platform screen and selector table of the
// session's current platform. The platform is read on every call.
type facade struct {
	driver   core.MobileDriver
	android  *screen.AndroidScreen
	ios      *screen.IOSScreen
	locator  *locator.Locator
	timeouts screen.Timeouts
}

func newFacade(d core.MobileDriver, tables locator.Tables, opts Options) facade {
	android := screen.NewAndroidScreen(d, opts.Timeouts)
	return facade{
		driver:   d,
		android:  android,
		ios:      screen.NewIOSScreen(d, opts.Timeouts),
		locator:  locator.New(tables.Merge(opts.Overrides)),
		timeouts: android.Timeouts(),
	}
}

// screenFor returns the platform screen for p.
func (f facade) screenFor(p core.Platform) screen.Actions {
	if p.IsIOS() {
		return f.ios
	}
	return f.android
}

// element resolves key for the current platform and returns the handle
// together with the screen that should act on it.
func (f facade) element(key string) (core.ElementHandle, screen.Actions, error) {
	p := f.driver.Platform()
	selector, err := f.locator.Resolve(key, p)
	if err != nil {
		return core.ElementHandle{}, nil, err
	}
	return core.NewElementHandle(f.driver, key, selector), f.screenFor(p), nil
}

// handle is element without the screen.
func (f facade) handle(key string) (core.ElementHandle, error) {
	h, _, err := f.element(key)
	return h, err
}

// Locator returns the facade's selector resolver.
func (f facade) Locator() *locator.Locator {
	return f.locator
}

// Android returns the Android platform screen.
func (f facade) Android() *screen.AndroidScreen {
	return f.android
}

// IOS returns the iOS platform screen.
func (f facade) IOS() *screen.IOSScreen {
	return f.ios
}
