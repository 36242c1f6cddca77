package screen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/driver/mock"
)

var fast = Timeouts{Default: 50 * time.Millisecond, ScreenLoad: 50 * time.Millisecond, Interval: 5 * time.Millisecond}

func TestDefaultTimeouts(t *testing.T) {
	b := NewBase(mock.New(core.PlatformAndroid), Timeouts{})
	got := b.Timeouts()
	want := Timeouts{Default: 10 * time.Second, ScreenLoad: 15 * time.Second, Interval: 500 * time.Millisecond}
	if got != want {
		t.Errorf("Timeouts() = %+v, want %+v", got, want)
	}

	partial := NewBase(mock.New(core.PlatformAndroid), Timeouts{Default: time.Second}).Timeouts()
	if partial.Default != time.Second || partial.ScreenLoad != 15*time.Second {
		t.Errorf("partial Timeouts() = %+v", partial)
	}
}

func TestTap_WaitsForDisplayed(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	drv.AddElement("~button-LOGIN", &mock.Element{Displayed: true, ShowAfter: 2})
	b := NewBase(drv, fast)
	h := core.NewElementHandle(drv, "loginButton", "~button-LOGIN")

	if err := b.Tap(context.Background(), h); err != nil {
		t.Fatalf("Tap() error = %v", err)
	}
	if got := drv.Count("IsDisplayed"); got != 3 {
		t.Errorf("IsDisplayed calls = %d, want 3", got)
	}
	methods := drv.Methods()
	if methods[len(methods)-1] != "Click" {
		t.Errorf("last call = %s, want Click", methods[len(methods)-1])
	}
}

func TestTap_TimesOut(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	drv.AddElement("~button-LOGIN", &mock.Element{Displayed: false})
	b := NewBase(drv, fast)
	h := core.NewElementHandle(drv, "loginButton", "~button-LOGIN")

	err := b.Tap(context.Background(), h)
	if !errors.Is(err, core.ErrWaitTimeout) {
		t.Fatalf("Tap() error = %v, want ErrWaitTimeout", err)
	}
	if drv.Count("Click") != 0 {
		t.Error("Click sent for an element that never showed up")
	}
}

func TestTypeText_DoesNotClear(t *testing.T) {
	drv := mock.New(core.PlatformIOS)
	el := drv.AddElement("~input-email", &mock.Element{Displayed: true, Text: "pre"})
	b := NewBase(drv, fast)
	h := core.NewElementHandle(drv, "usernameInput", "~input-email")

	if err := b.TypeText(context.Background(), h, "fix"); err != nil {
		t.Fatalf("TypeText() error = %v", err)
	}
	if el.Text != "prefix" {
		t.Errorf("text = %q, want %q", el.Text, "prefix")
	}
}

func TestGetText(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	drv.AddElement("~welcome-message", &mock.Element{Displayed: true, Text: "Welcome"})
	b := NewBase(drv, fast)

	got, err := b.GetText(context.Background(), core.NewElementHandle(drv, "", "~welcome-message"))
	if err != nil {
		t.Fatalf("GetText() error = %v", err)
	}
	if got != "Welcome" {
		t.Errorf("GetText() = %q", got)
	}
}

func TestIsDisplayed_NeverErrors(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	b := NewBase(drv, fast)
	h := core.NewElementHandle(drv, "", "~missing")
	ctx := context.Background()

	if b.IsDisplayed(ctx, h) {
		t.Error("IsDisplayed() = true for a missing element")
	}

	drv.AddElement("~missing", &mock.Element{Displayed: true})
	if !b.IsDisplayed(ctx, h) {
		t.Error("IsDisplayed() = false for a visible element")
	}

	drv.FailOn("IsDisplayed", core.ErrSessionInvalid)
	if b.IsDisplayed(ctx, h) {
		t.Error("IsDisplayed() = true on a driver failure")
	}
	if drv.Count("IsDisplayed") != 2 {
		t.Errorf("IsDisplayed must not retry, got %d calls", drv.Count("IsDisplayed"))
	}
}

func TestHideKeyboard(t *testing.T) {
	tests := []struct {
		name     string
		shown    bool
		failOn   string
		wantHide int
	}{
		{"shown", true, "", 1},
		{"not shown", false, "", 0},
		{"state unknown", true, "IsKeyboardShown", 0},
		{"hide fails", true, "HideKeyboard", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drv := mock.New(core.PlatformAndroid)
			drv.SetKeyboardShown(tt.shown)
			if tt.failOn != "" {
				drv.FailOn(tt.failOn, errors.New("no keyboard support"))
			}
			NewBase(drv, fast).HideKeyboard(context.Background())
			if got := drv.Count("HideKeyboard"); got != tt.wantHide {
				t.Errorf("HideKeyboard calls = %d, want %d", got, tt.wantHide)
			}
		})
	}
}

func TestSwipeUpDown_Geometry(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	drv.SetViewport(core.Viewport{Width: 1000, Height: 2000})
	b := NewBase(drv, fast)
	ctx := context.Background()

	if err := b.SwipeUp(ctx); err != nil {
		t.Fatalf("SwipeUp() error = %v", err)
	}
	if err := b.SwipeDown(ctx); err != nil {
		t.Fatalf("SwipeDown() error = %v", err)
	}

	touches := drv.Touches()
	if len(touches) != 2 {
		t.Fatalf("touch sequences = %d, want 2", len(touches))
	}
	opt := cmpopts.EquateApprox(0, 1e-6)
	wantUp := []core.TouchAction{
		{Action: core.TouchPress, X: 500, Y: 1600},
		{Action: core.TouchWait, DurationMs: 500},
		{Action: core.TouchMoveTo, X: 500, Y: 400},
		{Action: core.TouchRelease},
	}
	if diff := cmp.Diff(wantUp, touches[0], opt); diff != "" {
		t.Errorf("SwipeUp() mismatch (-want +got):\n%s", diff)
	}
	if touches[1][0].Y != 400 || touches[1][2].Y != 1600 {
		t.Errorf("SwipeDown() = %v, want 400 -> 1600", touches[1])
	}
}

func TestSwipe_ViewportFailure(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	drv.FailOn("WindowRect", core.ErrServerUnreachable)

	if err := NewBase(drv, fast).SwipeUp(context.Background()); !core.IsTransport(err) {
		t.Errorf("SwipeUp() error = %v, want transport error", err)
	}
	if drv.Count("PerformTouch") != 0 {
		t.Error("touch sent without a viewport")
	}
}

func TestWaitForClickable(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	el := drv.AddElement("~button-LOGIN", &mock.Element{Displayed: true, Enabled: false})
	b := NewBase(drv, fast)
	h := core.NewElementHandle(drv, "", "~button-LOGIN")

	if err := b.WaitForClickable(context.Background(), h, 30*time.Millisecond); !errors.Is(err, core.ErrWaitTimeout) {
		t.Errorf("WaitForClickable() disabled = %v, want ErrWaitTimeout", err)
	}
	el.Enabled = true
	if err := b.WaitForClickable(context.Background(), h, 0); err != nil {
		t.Errorf("WaitForClickable() enabled = %v", err)
	}
}

func TestScrollIntoViewAndPause(t *testing.T) {
	drv := mock.New(core.PlatformIOS)
	el := drv.AddElement("~settings-button", &mock.Element{})
	b := NewBase(drv, fast)
	ctx := context.Background()

	if err := b.ScrollIntoView(ctx, core.NewElementHandle(drv, "", "~settings-button")); err != nil {
		t.Fatalf("ScrollIntoView() error = %v", err)
	}
	if !el.Displayed {
		t.Error("element not scrolled into view")
	}

	if err := b.Pause(ctx, 250*time.Millisecond); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if got := drv.Pauses(); len(got) != 1 || got[0] != 250*time.Millisecond {
		t.Errorf("Pauses() = %v", got)
	}
}
