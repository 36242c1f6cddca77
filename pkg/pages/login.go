package pages

import (
	"context"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/locator"
	"github.com/devicelab-dev/screenkit/pkg/logger"
)

// Login screen logical keys.
const (
	KeyUsernameInput = "usernameInput"
	KeyPasswordInput = "passwordInput"
	KeyLoginButton   = "loginButton"
	KeyErrorMessage  = "errorMessage"
)

// LoginTables returns the login screen selectors of the demo app.
func LoginTables() locator.Tables {
	return locator.Tables{
		Android: locator.SelectorTable{
			KeyUsernameInput: "~input-email",
			KeyPasswordInput: "~input-password",
			KeyLoginButton:   "~button-LOGIN",
			KeyErrorMessage:  "~generic-error-message",
		},
		IOS: locator.SelectorTable{
			KeyUsernameInput: "~input-email",
			KeyPasswordInput: "~input-password",
			KeyLoginButton:   "~button-LOGIN",
			KeyErrorMessage:  "~generic-error-message",
		},
	}
}

// LoginScreen is the login form.
type LoginScreen struct {
	facade
}

// NewLoginScreen creates the login facade.
func NewLoginScreen(d core.MobileDriver, opts Options) *LoginScreen {
	return &LoginScreen{facade: newFacade(d, LoginTables(), opts)}
}

// UsernameInput returns the username field.
func (s *LoginScreen) UsernameInput() (core.ElementHandle, error) {
	return s.handle(KeyUsernameInput)
}

// PasswordInput returns the password field.
func (s *LoginScreen) PasswordInput() (core.ElementHandle, error) {
	return s.handle(KeyPasswordInput)
}

// LoginButton returns the submit button.
func (s *LoginScreen) LoginButton() (core.ElementHandle, error) {
	return s.handle(KeyLoginButton)
}

// ErrorMessage returns the generic error banner.
func (s *LoginScreen) ErrorMessage() (core.ElementHandle, error) {
	return s.handle(KeyErrorMessage)
}

// EnterUsername types username into the username field.
func (s *LoginScreen) EnterUsername(ctx context.Context, username string) error {
	h, scr, err := s.element(KeyUsernameInput)
	if err != nil {
		return err
	}
	return scr.TypeText(ctx, h, username)
}

// EnterPassword types password into the password field.
func (s *LoginScreen) EnterPassword(ctx context.Context, password string) error {
	h, scr, err := s.element(KeyPasswordInput)
	if err != nil {
		return err
	}
	return scr.TypeText(ctx, h, password)
}

// TapLoginButton taps the submit button.
func (s *LoginScreen) TapLoginButton(ctx context.Context) error {
	h, scr, err := s.element(KeyLoginButton)
	if err != nil {
		return err
	}
	return scr.Tap(ctx, h)
}

// Login fills in both fields, hides the keyboard and submits.
// It stops at the first failing step.
func (s *LoginScreen) Login(ctx context.Context, username, password string) error {
	logger.Info("login as %s on %s", username, s.driver.Platform())
	if err := s.EnterUsername(ctx, username); err != nil {
		return err
	}
	if err := s.EnterPassword(ctx, password); err != nil {
		return err
	}
	s.screenFor(s.driver.Platform()).HideKeyboard(ctx)
	return s.TapLoginButton(ctx)
}

// ErrorMessageText returns the text of the error banner.
func (s *LoginScreen) ErrorMessageText(ctx context.Context) (string, error) {
	h, scr, err := s.element(KeyErrorMessage)
	if err != nil {
		return "", err
	}
	return scr.GetText(ctx, h)
}

// IsErrorMessageDisplayed reports whether the error banner is visible now.
// The error is only ever a selector configuration error.
func (s *LoginScreen) IsErrorMessageDisplayed(ctx context.Context) (bool, error) {
	h, scr, err := s.element(KeyErrorMessage)
	if err != nil {
		return false, err
	}
	return scr.IsDisplayed(ctx, h), nil
}

// WaitForScreenLoad waits for both fields and the button, each with the screen load timeout.
func (s *LoginScreen) WaitForScreenLoad(ctx context.Context) error {
	for _, key := range []string{KeyUsernameInput, KeyPasswordInput, KeyLoginButton} {
		h, scr, err := s.element(key)
		if err != nil {
			return err
		}
		if err := scr.WaitForDisplayed(ctx, h, s.timeouts.ScreenLoad); err != nil {
			return err
		}
	}
	return nil
}
