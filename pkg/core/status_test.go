package core

import (
	"errors"
	"testing"
)

func TestPlatform_String(t *testing.T) {
	tests := []struct {
		platform Platform
		expected string
	}{
		{PlatformAndroid, "android"},
		{PlatformIOS, "ios"},
		{Platform(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.platform.String(); got != tt.expected {
			t.Errorf("Platform(%d).String() = %q, want %q", tt.platform, got, tt.expected)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input    string
		expected Platform
		wantErr  bool
	}{
		{"android", PlatformAndroid, false},
		{"Android", PlatformAndroid, false},
		{" iOS ", PlatformIOS, false},
		{"IOS", PlatformIOS, false},
		{"web", PlatformAndroid, true},
		{"", PlatformAndroid, true},
	}

	for _, tt := range tests {
		got, err := ParsePlatform(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePlatform(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParsePlatform(%q) error = %v, want ErrInvalidArgument", tt.input, err)
		}
		if !tt.wantErr && got != tt.expected {
			t.Errorf("ParsePlatform(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestPlatform_Predicates(t *testing.T) {
	if !PlatformAndroid.IsAndroid() || PlatformAndroid.IsIOS() {
		t.Error("PlatformAndroid predicates are wrong")
	}
	if !PlatformIOS.IsIOS() || PlatformIOS.IsAndroid() {
		t.Error("PlatformIOS predicates are wrong")
	}
}

func TestErrorCategory_String(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected string
	}{
		{ErrCategoryNone, "none"},
		{ErrCategoryAssertion, "assertion"},
		{ErrCategoryTimeout, "timeout"},
		{ErrCategoryConnection, "connection"},
		{ErrCategoryConfig, "config"},
		{ErrCategoryArgument, "argument"},
		{ErrorCategory(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.category.String(); got != tt.expected {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.category, got, tt.expected)
		}
	}
}
