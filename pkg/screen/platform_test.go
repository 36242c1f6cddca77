package screen

import (
	"context"
	"testing"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/driver/mock"
)

func TestAndroidScreen_Getters(t *testing.T) {
	s := NewAndroidScreen(mock.New(core.PlatformAndroid), fast)

	tests := []struct {
		got  core.ElementHandle
		want string
	}{
		{s.ByUiAutomator(`new UiSelector().className("android.widget.Button")`), `android=new UiSelector().className("android.widget.Button")`},
		{s.ByResourceID("com.app:id/login"), `android=new UiSelector().resourceId("com.app:id/login")`},
		{s.ByText("Login"), `android=new UiSelector().text("Login")`},
		{s.ByContentDesc("menu"), `android=new UiSelector().description("menu")`},
	}
	for _, tt := range tests {
		if tt.got.Selector() != tt.want {
			t.Errorf("Selector() = %q, want %q", tt.got.Selector(), tt.want)
		}
	}
}

func TestAndroidScreen_DeviceCommands(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	s := NewAndroidScreen(drv, fast)
	ctx := context.Background()

	if err := s.PressBack(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.PressHome(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.PressKeyCode(ctx, 66); err != nil {
		t.Fatal(err)
	}
	if err := s.OpenNotifications(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.StartActivity(ctx, "com.wdiodemoapp", "com.wdiodemoapp.MainActivity"); err != nil {
		t.Fatal(err)
	}
	if pkg, _ := s.CurrentPackage(ctx); pkg != "com.wdiodemoapp" {
		t.Errorf("CurrentPackage() = %q", pkg)
	}
	if act, _ := s.CurrentActivity(ctx); act != "com.wdiodemoapp.MainActivity" {
		t.Errorf("CurrentActivity() = %q", act)
	}

	var keys []string
	for _, c := range drv.Calls() {
		if c.Method == "PressKeyCode" {
			keys = append(keys, c.Value)
		}
	}
	if len(keys) != 2 || keys[0] != "3" || keys[1] != "66" {
		t.Errorf("key codes = %v, want [3 66]", keys)
	}
	if drv.Count("Back") != 1 || drv.Count("OpenNotifications") != 1 {
		t.Errorf("calls = %v", drv.Methods())
	}
}

func TestIOSScreen_Getters(t *testing.T) {
	s := NewIOSScreen(mock.New(core.PlatformIOS), fast)

	tests := []struct {
		got  core.ElementHandle
		want string
	}{
		{s.ByPredicate(`name == "login"`), `-ios predicate string:name == "login"`},
		{s.ByClassChain("**/XCUIElementTypeButton[`label == \"Login\"`]"), "-ios class chain:**/XCUIElementTypeButton[`label == \"Login\"`]"},
		{s.ByAccessibilityID("button-LOGIN"), "~button-LOGIN"},
		{s.ByLabel("Login"), `-ios predicate string:label == "Login"`},
	}
	for _, tt := range tests {
		if tt.got.Selector() != tt.want {
			t.Errorf("Selector() = %q, want %q", tt.got.Selector(), tt.want)
		}
	}
}

func TestIOSScreen_DeviceCommands(t *testing.T) {
	drv := mock.New(core.PlatformIOS)
	s := NewIOSScreen(drv, fast)
	ctx := context.Background()

	if err := s.ShakeDevice(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.LockDevice(ctx); err != nil {
		t.Fatal(err)
	}
	if locked, err := s.IsDeviceLocked(ctx); err != nil || !locked {
		t.Errorf("IsDeviceLocked() = (%v, %v), want true", locked, err)
	}
	if err := s.UnlockDevice(ctx); err != nil {
		t.Fatal(err)
	}
	if locked, _ := s.IsDeviceLocked(ctx); locked {
		t.Error("IsDeviceLocked() = true after unlock")
	}
	if err := s.TouchID(ctx, false); err != nil {
		t.Fatal(err)
	}
	if err := s.SetClipboard(ctx, "copied"); err != nil {
		t.Fatal(err)
	}
	if text, _ := s.GetClipboard(ctx); text != "copied" {
		t.Errorf("GetClipboard() = %q", text)
	}
}

func TestPlatformScreens_ShareBaseActions(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	drv.AddElement("~x", &mock.Element{Displayed: true})
	h := core.NewElementHandle(drv, "", "~x")

	for _, s := range []Actions{NewAndroidScreen(drv, fast), NewIOSScreen(drv, fast)} {
		if err := s.Tap(context.Background(), h); err != nil {
			t.Errorf("Tap() error = %v", err)
		}
		if s.Gestures() == nil {
			t.Error("Gestures() = nil")
		}
	}
	if drv.Count("Click") != 2 {
		t.Errorf("Click calls = %d, want 2", drv.Count("Click"))
	}
}
