// Package appium implements core.MobileDriver against an Appium server via the W3C WebDriver protocol.
package appium

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/logger"
)

// W3C WebDriver element identifier key (standard constant)
const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Connect retry policy for a server that is still starting.
const (
	connectRetries  = 3
	connectInterval = time.Second
)

// Client handles HTTP communication with Appium server.
type Client struct {
	serverURL string
	sessionID string
	client    *http.Client
	platform  core.Platform
}

// NewClient creates a new Appium client.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Minute, // app install on session start can be slow
		},
	}
}

// SessionID returns the active session ID, empty before Connect.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Platform returns the platform reported by the session.
func (c *Client) Platform() core.Platform {
	return c.platform
}

// Connect creates a new session with the given capabilities. Unreachable
// servers are retried a few times; any other failure is returned at once.
func (c *Client) Connect(ctx context.Context, capabilities map[string]interface{}) error {
	body := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"alwaysMatch": capabilities,
		},
	}

	var resp map[string]interface{}
	var fatal error
	op := func() error {
		r, err := c.post(ctx, "/session", body)
		if err == nil {
			resp = r
			return nil
		}
		if errors.Is(err, core.ErrServerUnreachable) {
			return err
		}
		fatal = err
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(connectInterval), connectRetries), ctx)
	notify := func(err error, next time.Duration) {
		logger.Warn("appium not reachable, retrying in %v: %v", next, err)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if fatal != nil {
		return fmt.Errorf("failed to create session: %w", fatal)
	}

	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return core.ErrDriverCommand.WithMessage("invalid session response")
	}

	c.sessionID, _ = value["sessionId"].(string)
	if c.sessionID == "" {
		return core.ErrDriverCommand.WithMessage("no session ID in response")
	}

	// Prefer what the server reports, fall back to what was requested
	name, _ := capabilities["platformName"].(string)
	if caps, ok := value["capabilities"].(map[string]interface{}); ok {
		if p, ok := caps["platformName"].(string); ok {
			name = p
		}
	}
	p, err := core.ParsePlatform(name)
	if err != nil {
		return err
	}
	c.platform = p

	logger.Info("appium session %s started (%s)", c.sessionID, c.platform)
	return nil
}

// Disconnect closes the session.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}
	_, err := c.delete(ctx, c.sessionPath())
	c.sessionID = ""
	return err
}

// Element Operations

// FindElement finds a single element and returns its ID.
func (c *Client) FindElement(ctx context.Context, strategy, value string) (string, error) {
	body := map[string]interface{}{
		"using": strategy,
		"value": value,
	}

	resp, err := c.post(ctx, c.sessionPath()+"/element", body)
	if err != nil {
		return "", err
	}

	elemValue, ok := resp["value"].(map[string]interface{})
	if !ok {
		return "", core.ErrElementNotFound
	}
	id := extractElementID(elemValue)
	if id == "" {
		return "", core.ErrElementNotFound
	}
	return id, nil
}

// ClickElement clicks an element using WebDriver standard endpoint.
func (c *Client) ClickElement(ctx context.Context, elementID string) error {
	_, err := c.post(ctx, c.elementPath(elementID)+"/click", map[string]interface{}{})
	return err
}

// SendElementKeys types text into an element without clearing it.
func (c *Client) SendElementKeys(ctx context.Context, elementID, text string) error {
	_, err := c.post(ctx, c.elementPath(elementID)+"/value", map[string]interface{}{
		"text": text,
	})
	return err
}

// GetElementText returns an element's text.
func (c *Client) GetElementText(ctx context.Context, elementID string) (string, error) {
	resp, err := c.get(ctx, c.elementPath(elementID)+"/text")
	if err != nil {
		return "", err
	}
	text, _ := resp["value"].(string)
	return text, nil
}

// GetElementRect returns an element's position and size.
func (c *Client) GetElementRect(ctx context.Context, elementID string) (core.Bounds, error) {
	resp, err := c.get(ctx, c.elementPath(elementID)+"/rect")
	if err != nil {
		return core.Bounds{}, err
	}
	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return core.Bounds{}, core.ErrDriverCommand.WithMessage("invalid rect response")
	}

	xf, _ := value["x"].(float64)
	yf, _ := value["y"].(float64)
	wf, _ := value["width"].(float64)
	hf, _ := value["height"].(float64)
	return core.Bounds{X: int(xf), Y: int(yf), Width: int(wf), Height: int(hf)}, nil
}

// IsElementDisplayed checks if element is visible.
func (c *Client) IsElementDisplayed(ctx context.Context, elementID string) (bool, error) {
	resp, err := c.get(ctx, c.elementPath(elementID)+"/displayed")
	if err != nil {
		return false, err
	}
	displayed, _ := resp["value"].(bool)
	return displayed, nil
}

// IsElementEnabled checks if element is enabled.
func (c *Client) IsElementEnabled(ctx context.Context, elementID string) (bool, error) {
	resp, err := c.get(ctx, c.elementPath(elementID)+"/enabled")
	if err != nil {
		return false, err
	}
	enabled, _ := resp["value"].(bool)
	return enabled, nil
}

// Touch/Gesture Operations (W3C Actions)

// PerformActions sends one touch pointer's action list.
func (c *Client) PerformActions(ctx context.Context, actions []map[string]interface{}) error {
	payload := []map[string]interface{}{
		{
			"type":       "pointer",
			"id":         "finger1",
			"parameters": map[string]interface{}{"pointerType": "touch"},
			"actions":    actions,
		},
	}
	_, err := c.post(ctx, c.sessionPath()+"/actions", map[string]interface{}{"actions": payload})
	return err
}

// Window

// WindowRect returns the current window size.
func (c *Client) WindowRect(ctx context.Context) (core.Viewport, error) {
	resp, err := c.get(ctx, c.sessionPath()+"/window/rect")
	if err != nil {
		return core.Viewport{}, err
	}
	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return core.Viewport{}, core.ErrDriverCommand.WithMessage("invalid window rect response")
	}
	w, _ := value["width"].(float64)
	h, _ := value["height"].(float64)
	return core.Viewport{Width: int(w), Height: int(h)}, nil
}

// Keyboard

// IsKeyboardShown reports whether the soft keyboard is visible.
func (c *Client) IsKeyboardShown(ctx context.Context) (bool, error) {
	resp, err := c.get(ctx, c.sessionPath()+"/appium/device/is_keyboard_shown")
	if err != nil {
		return false, err
	}
	shown, _ := resp["value"].(bool)
	return shown, nil
}

// HideKeyboard hides the on-screen keyboard.
func (c *Client) HideKeyboard(ctx context.Context) error {
	_, err := c.post(ctx, c.sessionPath()+"/appium/device/hide_keyboard", map[string]interface{}{})
	return err
}

// Navigation

// Back presses the back button.
func (c *Client) Back(ctx context.Context) error {
	_, err := c.post(ctx, c.sessionPath()+"/back", map[string]interface{}{})
	return err
}

// PressKeyCode presses a key by keycode (Android).
func (c *Client) PressKeyCode(ctx context.Context, keycode int) error {
	_, err := c.post(ctx, c.sessionPath()+"/appium/device/press_keycode", map[string]interface{}{
		"keycode": keycode,
	})
	return err
}

// OpenNotifications opens the notification shade (Android).
func (c *Client) OpenNotifications(ctx context.Context) error {
	_, err := c.post(ctx, c.sessionPath()+"/appium/device/open_notifications", map[string]interface{}{})
	return err
}

// CurrentActivity returns the foreground activity (Android).
func (c *Client) CurrentActivity(ctx context.Context) (string, error) {
	return c.getString(ctx, c.sessionPath()+"/appium/device/current_activity")
}

// CurrentPackage returns the foreground package (Android).
func (c *Client) CurrentPackage(ctx context.Context) (string, error) {
	return c.getString(ctx, c.sessionPath()+"/appium/device/current_package")
}

// Device State

// GetOrientation returns the current orientation in lower case.
func (c *Client) GetOrientation(ctx context.Context) (string, error) {
	orientation, err := c.getString(ctx, c.sessionPath()+"/orientation")
	return strings.ToLower(orientation), err
}

// SetOrientation sets the orientation.
func (c *Client) SetOrientation(ctx context.Context, orientation string) error {
	_, err := c.post(ctx, c.sessionPath()+"/orientation", map[string]interface{}{
		"orientation": strings.ToUpper(orientation),
	})
	return err
}

// Lock locks the device screen.
func (c *Client) Lock(ctx context.Context) error {
	_, err := c.post(ctx, c.sessionPath()+"/appium/device/lock", map[string]interface{}{})
	return err
}

// Unlock unlocks the device screen.
func (c *Client) Unlock(ctx context.Context) error {
	_, err := c.post(ctx, c.sessionPath()+"/appium/device/unlock", map[string]interface{}{})
	return err
}

// IsLocked reports whether the device screen is locked.
func (c *Client) IsLocked(ctx context.Context) (bool, error) {
	resp, err := c.post(ctx, c.sessionPath()+"/appium/device/is_locked", map[string]interface{}{})
	if err != nil {
		return false, err
	}
	locked, _ := resp["value"].(bool)
	return locked, nil
}

// DeviceTime returns the device clock as reported by the server.
func (c *Client) DeviceTime(ctx context.Context) (string, error) {
	return c.getString(ctx, c.sessionPath()+"/appium/device/system_time")
}

// Shake simulates a shake (iOS).
func (c *Client) Shake(ctx context.Context) error {
	_, err := c.post(ctx, c.sessionPath()+"/appium/device/shake", map[string]interface{}{})
	return err
}

// TouchID simulates a fingerprint scan (iOS simulator).
func (c *Client) TouchID(ctx context.Context, match bool) error {
	_, err := c.post(ctx, c.sessionPath()+"/appium/simulator/touch_id", map[string]interface{}{
		"match": match,
	})
	return err
}

// Clipboard

// GetClipboard returns clipboard text.
func (c *Client) GetClipboard(ctx context.Context) (string, error) {
	resp, err := c.post(ctx, c.sessionPath()+"/appium/device/get_clipboard", map[string]interface{}{
		"contentType": "plaintext",
	})
	if err != nil {
		return "", err
	}
	encoded, _ := resp["value"].(string)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", core.ErrDriverCommand.WithMessage("invalid clipboard content").WithCause(err)
	}
	return string(decoded), nil
}

// SetClipboard sets clipboard text.
func (c *Client) SetClipboard(ctx context.Context, text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := c.post(ctx, c.sessionPath()+"/appium/device/set_clipboard", map[string]interface{}{
		"content":     encoded,
		"contentType": "plaintext",
	})
	return err
}

// SetSettings updates Appium driver settings.
func (c *Client) SetSettings(ctx context.Context, settings map[string]interface{}) error {
	_, err := c.post(ctx, c.sessionPath()+"/appium/settings", map[string]interface{}{
		"settings": settings,
	})
	return err
}

// ExecuteMobile executes a mobile: command.
func (c *Client) ExecuteMobile(ctx context.Context, command string, args map[string]interface{}) (interface{}, error) {
	resp, err := c.post(ctx, c.sessionPath()+"/execute/sync", map[string]interface{}{
		"script": "mobile: " + command,
		"args":   []interface{}{args},
	})
	if err != nil {
		return nil, err
	}
	return resp["value"], nil
}

// HTTP Helpers

func (c *Client) sessionPath() string {
	return "/session/" + c.sessionID
}

func (c *Client) elementPath(elementID string) string {
	return c.sessionPath() + "/element/" + elementID
}

func (c *Client) getString(ctx context.Context, path string) (string, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}
	s, _ := resp["value"].(string)
	return s, nil
}

func (c *Client) get(ctx context.Context, path string) (map[string]interface{}, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (map[string]interface{}, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *Client) delete(ctx context.Context, path string) (map[string]interface{}, error) {
	return c.request(ctx, http.MethodDelete, path, nil)
}

func (c *Client) request(ctx context.Context, method, path string, body interface{}) (map[string]interface{}, error) {
	url := c.serverURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, core.ErrInvalidConfig.WithMessage("invalid appium url").WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("appium %s %s", method, path)
	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return nil, core.ErrServerUnreachable.WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.ErrServerUnreachable.WithCause(err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, core.ErrDriverCommand.WithMessage(fmt.Sprintf("%s %s: unparseable response (HTTP %d)", method, path, resp.StatusCode)).WithCause(err)
	}

	// Check for WebDriver error
	if errValue, ok := result["value"].(map[string]interface{}); ok {
		if errType, ok := errValue["error"].(string); ok {
			errMsg, _ := errValue["message"].(string)
			return result, mapW3CError(errType, errMsg)
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return result, core.ErrDriverCommand.WithMessage(fmt.Sprintf("%s %s: HTTP %d", method, path, resp.StatusCode))
	}

	return result, nil
}

// mapW3CError converts a W3C error code into the core error taxonomy.
func mapW3CError(errType, message string) error {
	cause := fmt.Errorf("%s: %s", errType, message)
	switch errType {
	case "no such element", "stale element reference":
		return core.ErrElementNotFound.WithCause(cause)
	case "invalid session id":
		return core.ErrSessionInvalid.WithCause(cause)
	default:
		return core.ErrDriverCommand.WithDetails(map[string]interface{}{"w3c": errType}).WithCause(cause)
	}
}

func extractElementID(value map[string]interface{}) string {
	// W3C format
	if id, ok := value[w3cElementKey].(string); ok {
		return id
	}
	// Legacy format
	if id, ok := value["ELEMENT"].(string); ok {
		return id
	}
	return ""
}
