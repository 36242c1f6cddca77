package appium

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/devicelab-dev/screenkit/pkg/core"
)

func TestEncodeTouch_Swipe(t *testing.T) {
	got, err := encodeTouch([]core.TouchAction{
		{Action: core.TouchPress, X: 540, Y: 1680},
		{Action: core.TouchWait, DurationMs: 500},
		{Action: core.TouchMoveTo, X: 540, Y: 720},
		{Action: core.TouchRelease},
	})
	if err != nil {
		t.Fatalf("encodeTouch failed: %v", err)
	}

	want := []map[string]interface{}{
		{"type": "pointerMove", "duration": 0, "x": 540, "y": 1680, "origin": "viewport"},
		{"type": "pointerDown", "button": 0},
		{"type": "pointerMove", "duration": 500, "x": 540, "y": 720, "origin": "viewport"},
		{"type": "pointerUp", "button": 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("encodeTouch mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeTouch_LongPress(t *testing.T) {
	got, err := encodeTouch([]core.TouchAction{
		{Action: core.TouchPress, X: 10.4, Y: 20.6},
		{Action: core.TouchWait, DurationMs: 1000},
		{Action: core.TouchRelease},
	})
	if err != nil {
		t.Fatalf("encodeTouch failed: %v", err)
	}

	want := []map[string]interface{}{
		{"type": "pointerMove", "duration": 0, "x": 10, "y": 21, "origin": "viewport"},
		{"type": "pointerDown", "button": 0},
		{"type": "pause", "duration": 1000},
		{"type": "pointerUp", "button": 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("encodeTouch mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeTouch_Tap(t *testing.T) {
	got, err := encodeTouch([]core.TouchAction{{Action: core.TouchTap, X: 5, Y: 6}})
	if err != nil {
		t.Fatalf("encodeTouch failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("Expected 4 actions, got %d", len(got))
	}
	if got[2]["type"] != "pause" || got[2]["duration"] != tapHoldMs {
		t.Errorf("Expected tap hold pause, got %v", got[2])
	}
}

func TestEncodeTouch_MoveWithoutWait(t *testing.T) {
	got, err := encodeTouch([]core.TouchAction{
		{Action: core.TouchPress, X: 0, Y: 0},
		{Action: core.TouchMoveTo, X: 100, Y: 100},
		{Action: core.TouchRelease},
	})
	if err != nil {
		t.Fatalf("encodeTouch failed: %v", err)
	}
	if got[2]["duration"] != 0 || got[2]["x"] != 100 {
		t.Errorf("Expected instant move to 100, got %v", got[2])
	}
}

func TestEncodeTouch_UnknownAction(t *testing.T) {
	_, err := encodeTouch([]core.TouchAction{{Action: "pinch"}})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}
