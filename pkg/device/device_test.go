package device

import (
	"context"
	"errors"
	"testing"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/driver/mock"
)

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"portrait", Portrait, false},
		{"LANDSCAPE", Landscape, false},
		{" Landscape ", Landscape, false},
		{"upside-down", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrientation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("ParseOrientation(%q) error = %v, want ErrInvalidArgument", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseOrientation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHelper_Platform(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	h := New(drv, "")
	if !h.IsAndroid() || h.IsIOS() {
		t.Error("expected android")
	}
	drv.SetPlatform(core.PlatformIOS)
	if h.IsAndroid() || !h.IsIOS() {
		t.Error("expected ios after switch")
	}
}

func TestHelper_Rotation(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	h := New(drv, "")
	ctx := context.Background()

	o, err := h.Orientation(ctx)
	if err != nil || o != Portrait {
		t.Fatalf("Orientation() = (%q, %v), want PORTRAIT", o, err)
	}
	if err := h.SetOrientation(ctx, Landscape); err != nil {
		t.Fatalf("SetOrientation() error = %v", err)
	}
	size, err := h.ScreenSize(ctx)
	if err != nil {
		t.Fatalf("ScreenSize() error = %v", err)
	}
	if size.Width != 2400 || size.Height != 1080 {
		t.Errorf("ScreenSize() = %+v, want 2400x1080", size)
	}

	if err := h.SetOrientation(ctx, "sideways"); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("SetOrientation(sideways) error = %v", err)
	}
	if drv.Count("SetOrientation") != 1 {
		t.Error("invalid orientation reached the driver")
	}
}

func TestHelper_HideKeyboardSwallows(t *testing.T) {
	drv := mock.New(core.PlatformIOS)
	drv.SetKeyboardShown(true)
	drv.FailOn("HideKeyboard", errors.New("soft keyboard not present"))

	New(drv, "").HideKeyboard(context.Background())
	if drv.Count("HideKeyboard") != 1 {
		t.Errorf("HideKeyboard calls = %d, want 1", drv.Count("HideKeyboard"))
	}
}

func TestHelper_AppIdentifier(t *testing.T) {
	ctx := context.Background()

	android := mock.New(core.PlatformAndroid)
	if err := android.StartActivity(ctx, "com.wdiodemoapp", ".MainActivity"); err != nil {
		t.Fatal(err)
	}
	if id, err := New(android, "").AppIdentifier(ctx); err != nil || id != "com.wdiodemoapp" {
		t.Errorf("AppIdentifier() android = (%q, %v)", id, err)
	}

	ios := mock.New(core.PlatformIOS)
	if id, err := New(ios, "org.wdiodemoapp").AppIdentifier(ctx); err != nil || id != "org.wdiodemoapp" {
		t.Errorf("AppIdentifier() ios = (%q, %v)", id, err)
	}
	if _, err := New(ios, "").AppIdentifier(ctx); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("AppIdentifier() without bundle = %v, want ErrInvalidConfig", err)
	}
}

func TestHelper_LockAndTime(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	h := New(drv, "")
	ctx := context.Background()

	if err := h.Lock(ctx); err != nil {
		t.Fatal(err)
	}
	if locked, _ := h.IsLocked(ctx); !locked {
		t.Error("IsLocked() = false after Lock")
	}
	if err := h.Unlock(ctx); err != nil {
		t.Fatal(err)
	}
	if locked, _ := h.IsLocked(ctx); locked {
		t.Error("IsLocked() = true after Unlock")
	}
	if ts, err := h.DeviceTime(ctx); err != nil || ts == "" {
		t.Errorf("DeviceTime() = (%q, %v)", ts, err)
	}
}

func TestHelper_Info(t *testing.T) {
	drv := mock.New(core.PlatformAndroid)
	drv.SetKeyboardShown(true)
	drv.FailOn("IsLocked", core.ErrDriverCommand)

	info, err := New(drv, "").Info(context.Background())
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	want := Info{
		Platform:      core.PlatformAndroid,
		Orientation:   Portrait,
		Width:         1080,
		Height:        2400,
		KeyboardShown: true,
	}
	if *info != want {
		t.Errorf("Info() = %+v, want %+v", *info, want)
	}

	drv.FailOn("WindowRect", core.ErrServerUnreachable)
	if _, err := New(drv, "").Info(context.Background()); !core.IsTransport(err) {
		t.Errorf("Info() error = %v, want transport error", err)
	}
}
