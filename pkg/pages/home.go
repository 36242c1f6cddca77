package pages

import (
	"context"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/locator"
)

// Home screen logical keys.
const (
	KeyWelcomeMessage = "welcomeMessage"
	KeyLogoutButton   = "logoutButton"
	KeyProfileButton  = "profileButton"
	KeySettingsButton = "settingsButton"
)

// HomeTables returns the home screen selectors of the demo app.
func HomeTables() locator.Tables {
	return locator.Tables{
		Android: locator.SelectorTable{
			KeyWelcomeMessage: `//android.widget.TextView[@resource-id="welcome-message"]`,
			KeyLogoutButton:   `//android.widget.Button[@text="Logout"]`,
			KeyProfileButton:  `//android.widget.Button[@resource-id="profile-button"]`,
			KeySettingsButton: `//android.widget.Button[@resource-id="settings-button"]`,
		},
		IOS: locator.SelectorTable{
			KeyWelcomeMessage: "~welcome-message",
			KeyLogoutButton:   "~logout-button",
			KeyProfileButton:  "~profile-button",
			KeySettingsButton: "~settings-button",
		},
	}
}

// HomeScreen is the screen shown after a successful login.
type HomeScreen struct {
	facade
}

// NewHomeScreen creates the home facade.
func NewHomeScreen(d core.MobileDriver, opts Options) *HomeScreen {
	return &HomeScreen{facade: newFacade(d, HomeTables(), opts)}
}

// WelcomeMessage returns the greeting label.
func (s *HomeScreen) WelcomeMessage() (core.ElementHandle, error) {
	return s.handle(KeyWelcomeMessage)
}

// LogoutButton returns the logout button.
func (s *HomeScreen) LogoutButton() (core.ElementHandle, error) {
	return s.handle(KeyLogoutButton)
}

// ProfileButton returns the profile button.
func (s *HomeScreen) ProfileButton() (core.ElementHandle, error) {
	return s.handle(KeyProfileButton)
}

// SettingsButton returns the settings button.
func (s *HomeScreen) SettingsButton() (core.ElementHandle, error) {
	return s.handle(KeySettingsButton)
}

// WelcomeMessageText returns the greeting.
func (s *HomeScreen) WelcomeMessageText(ctx context.Context) (string, error) {
	h, scr, err := s.element(KeyWelcomeMessage)
	if err != nil {
		return "", err
	}
	return scr.GetText(ctx, h)
}

// TapLogoutButton taps logout.
func (s *HomeScreen) TapLogoutButton(ctx context.Context) error {
	return s.tap(ctx, KeyLogoutButton)
}

// TapProfileButton taps profile.
func (s *HomeScreen) TapProfileButton(ctx context.Context) error {
	return s.tap(ctx, KeyProfileButton)
}

// TapSettingsButton taps settings.
func (s *HomeScreen) TapSettingsButton(ctx context.Context) error {
	return s.tap(ctx, KeySettingsButton)
}

func (s *HomeScreen) tap(ctx context.Context, key string) error {
	h, scr, err := s.element(key)
	if err != nil {
		return err
	}
	return scr.Tap(ctx, h)
}

// IsDisplayed reports whether the welcome message is visible now.
// The error is only ever a selector configuration error.
func (s *HomeScreen) IsDisplayed(ctx context.Context) (bool, error) {
	h, scr, err := s.element(KeyWelcomeMessage)
	if err != nil {
		return false, err
	}
	return scr.IsDisplayed(ctx, h), nil
}

// WaitForScreenLoad waits for the welcome message with the screen load timeout.
func (s *HomeScreen) WaitForScreenLoad(ctx context.Context) error {
	h, scr, err := s.element(KeyWelcomeMessage)
	if err != nil {
		return err
	}
	return scr.WaitForDisplayed(ctx, h, s.timeouts.ScreenLoad)
}
