package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenkit/pkg/driver/appium/appiumtest"
	"github.com/devicelab-dev/screenkit/pkg/pages"
)

func TestGlobalFlags(t *testing.T) {
	expected := []string{"config", "appium-url", "platform", "log-file", "verbose"}

	flagNames := make(map[string]bool)
	for _, f := range GlobalFlags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	for _, name := range expected {
		if !flagNames[name] {
			t.Errorf("Expected global flag %q", name)
		}
	}
}

func TestNewApp_Commands(t *testing.T) {
	app := NewApp()
	for _, name := range []string{"login", "home", "selectors", "swipe", "device"} {
		if app.Command(name) == nil {
			t.Errorf("Expected command %q", name)
		}
	}
}

// runApp runs the CLI with a temporary log file and returns stdout and stderr.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	logFile := filepath.Join(t.TempDir(), "screenkit.log")
	full := append([]string{"screenkit", "--log-file", logFile}, args...)
	err := app.Run(full)
	return stdout.String(), stderr.String(), err
}

func newAndroidServer(t *testing.T) *appiumtest.Server {
	t.Helper()
	srv := appiumtest.NewServer("Android")
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginCommand(t *testing.T) {
	srv := newAndroidServer(t)
	for _, sel := range pages.LoginTables().Android {
		srv.AddElement(sel, &appiumtest.Element{Displayed: true, Enabled: true})
	}
	srv.AddElement(pages.HomeTables().Android[pages.KeyWelcomeMessage], &appiumtest.Element{
		Text:      "Welcome back",
		Displayed: true,
		Enabled:   true,
	})
	srv.SetKeyboardShown(true)

	out, _, err := runApp(t, "--appium-url", srv.URL, "--platform", "android",
		"login", "--user", "qa@example.com", "--password", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out, "Logged in as qa@example.com: Welcome back") {
		t.Errorf("Unexpected output: %q", out)
	}
	if srv.Count("/hide_keyboard") != 1 {
		t.Error("Expected keyboard to be hidden before tapping login")
	}
	if srv.Count("/click") != 1 {
		t.Errorf("Expected 1 click, got %d", srv.Count("/click"))
	}
}

func TestLoginCommand_Invalid(t *testing.T) {
	srv := newAndroidServer(t)
	tables := pages.LoginTables().Android
	for _, sel := range tables {
		srv.AddElement(sel, &appiumtest.Element{Displayed: true, Enabled: true})
	}
	srv.AddElement(tables[pages.KeyErrorMessage], &appiumtest.Element{
		Text:      "Invalid credentials",
		Displayed: true,
		Enabled:   true,
	})

	out, _, err := runApp(t, "--appium-url", srv.URL, "--platform", "android", "login", "--invalid")
	if err != nil {
		t.Fatalf("login --invalid failed: %v", err)
	}
	if !strings.Contains(out, "Login rejected: Invalid credentials") {
		t.Errorf("Unexpected output: %q", out)
	}

	req, ok := srv.Last("/value")
	if !ok || req.Body["text"] != "wrong" {
		t.Errorf("Expected the invalid password to be typed last, got %v", req)
	}
}

func TestHomeCommand(t *testing.T) {
	srv := appiumtest.NewServer("iOS")
	defer srv.Close()
	for key, sel := range pages.HomeTables().IOS {
		e := &appiumtest.Element{Displayed: true, Enabled: true}
		if key == pages.KeyWelcomeMessage {
			e.Text = "Hello"
		}
		srv.AddElement(sel, e)
	}

	out, _, err := runApp(t, "--appium-url", srv.URL, "-p", "ios", "home")
	if err != nil {
		t.Fatalf("home failed: %v", err)
	}
	if strings.TrimSpace(out) != "Hello" {
		t.Errorf("Expected welcome text, got %q", out)
	}
	if srv.Count("/orientation") != 0 {
		t.Error("home must not touch device state")
	}
}

func TestHomeCommand_NotDisplayed(t *testing.T) {
	srv := newAndroidServer(t)

	_, _, err := runApp(t, "--appium-url", srv.URL, "--platform", "android", "home")
	if err == nil || !strings.Contains(err.Error(), "not displayed") {
		t.Errorf("Expected not displayed error, got %v", err)
	}
}

func TestSelectorsCommand(t *testing.T) {
	out, stderr, err := runApp(t, "selectors", "home.*Button")
	if err != nil {
		t.Fatalf("selectors failed: %v", err)
	}

	for _, want := range []string{"home.logoutButton", "home.profileButton", "home.settingsButton", "~logout-button"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"home.welcomeMessage", "login."} {
		if strings.Contains(out, unwanted) {
			t.Errorf("Did not expect %q in output:\n%s", unwanted, out)
		}
	}
	if stderr != "" {
		t.Errorf("Built-in tables should be symmetric, got warnings: %s", stderr)
	}
}

func TestSelectorsCommand_NoMatch(t *testing.T) {
	_, _, err := runApp(t, "selectors", "checkout.*")
	if err == nil {
		t.Error("Expected error when nothing matches")
	}
}

func TestSwipeCommand(t *testing.T) {
	srv := newAndroidServer(t)

	out, _, err := runApp(t, "--appium-url", srv.URL, "--platform", "android", "swipe", "--percent", "0.5", "up")
	if err != nil {
		t.Fatalf("swipe failed: %v", err)
	}
	if !strings.Contains(out, "Swiped up") {
		t.Errorf("Unexpected output: %q", out)
	}
	if srv.Count("/actions") != 1 {
		t.Errorf("Expected 1 actions request, got %d", srv.Count("/actions"))
	}
}

func TestSwipeCommand_BadDirection(t *testing.T) {
	srv := newAndroidServer(t)

	_, _, err := runApp(t, "--appium-url", srv.URL, "swipe", "sideways")
	if err == nil {
		t.Fatal("Expected error for unknown direction")
	}
	if srv.Count("/actions") != 0 {
		t.Error("No gesture should be sent")
	}
}

func TestDeviceCommand(t *testing.T) {
	srv := newAndroidServer(t)
	srv.SetWindowSize(720, 1280)
	srv.SetKeyboardShown(true)

	out, _, err := runApp(t, "--appium-url", srv.URL, "--platform", "android", "device")
	if err != nil {
		t.Fatalf("device failed: %v", err)
	}
	got := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		label, value, _ := strings.Cut(line, ":")
		got[label] = strings.TrimSpace(value)
	}
	want := map[string]string{
		"Platform":       "android",
		"Orientation":    "PORTRAIT",
		"Window":         "720x1280",
		"Keyboard shown": "true",
		"Locked":         "false",
	}
	for label, value := range want {
		if got[label] != value {
			t.Errorf("%s = %q, want %q", label, got[label], value)
		}
	}
}

func TestInvalidPlatform(t *testing.T) {
	app := &cli.App{
		Name:     "test-app",
		Flags:    GlobalFlags,
		Commands: []*cli.Command{deviceCommand},
	}
	app.Writer = &bytes.Buffer{}

	err := app.Run([]string{"test-app", "--log-file", filepath.Join(t.TempDir(), "x.log"), "--platform", "symbian", "device"})
	if err == nil || !strings.Contains(err.Error(), "invalid platform") {
		t.Errorf("Expected invalid platform error, got %v", err)
	}
}
