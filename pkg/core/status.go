package core

import (
	"fmt"
	"strings"
)

// Platform identifies the mobile platform a session is bound to.
// A session has exactly one Platform for its whole lifetime.
type Platform int

const (
	PlatformAndroid Platform = iota // Primary platform (UiAutomator2)
	PlatformIOS                     // Secondary platform (XCUITest)
)

// String returns the lowercase platform name
func (p Platform) String() string {
	switch p {
	case PlatformAndroid:
		return "android"
	case PlatformIOS:
		return "ios"
	default:
		return "unknown"
	}
}

// IsAndroid reports whether p is the Android platform.
func (p Platform) IsAndroid() bool { return p == PlatformAndroid }

// IsIOS reports whether p is the iOS platform.
func (p Platform) IsIOS() bool { return p == PlatformIOS }

// ParsePlatform converts a platform name (case-insensitive) to a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "android":
		return PlatformAndroid, nil
	case "ios":
		return PlatformIOS, nil
	default:
		return PlatformAndroid, ErrInvalidArgument.WithMessage(fmt.Sprintf("unknown platform %q", s))
	}
}

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryAssertion                       // Element not found or in the wrong state
	ErrCategoryTimeout                         // Wait condition not met in time
	ErrCategoryConnection                      // Appium server unreachable, session lost
	ErrCategoryConfig                          // Unknown selector, invalid configuration
	ErrCategoryArgument                        // Caller passed an invalid value
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryConnection:
		return "connection"
	case ErrCategoryConfig:
		return "config"
	case ErrCategoryArgument:
		return "argument"
	default:
		return "unknown"
	}
}
