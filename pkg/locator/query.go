// Package locator maps logical element names to platform selector strings.
package locator

import (
	"fmt"
	"strings"
)

// Selector prefixes understood by Appium clients.
const (
	PrefixAndroid         = "android="
	PrefixAccessibilityID = "~"
	PrefixPredicate       = "-ios predicate string:"
	PrefixClassChain      = "-ios class chain:"
)

// Android query forms

// UiAutomator wraps a raw UiAutomator expression.
func UiAutomator(expr string) string {
	return PrefixAndroid + expr
}

// ResourceID selects by Android resource-id.
func ResourceID(id string) string {
	return UiAutomator(fmt.Sprintf(`new UiSelector().resourceId("%s")`, escapeQuoted(id)))
}

// Text selects by exact Android text.
func Text(text string) string {
	return UiAutomator(fmt.Sprintf(`new UiSelector().text("%s")`, escapeQuoted(text)))
}

// Description selects by Android content-description.
func Description(desc string) string {
	return UiAutomator(fmt.Sprintf(`new UiSelector().description("%s")`, escapeQuoted(desc)))
}

// iOS query forms

// AccessibilityID selects by accessibility identifier (both platforms accept it).
func AccessibilityID(id string) string {
	return PrefixAccessibilityID + id
}

// Predicate wraps a raw NSPredicate string.
func Predicate(predicate string) string {
	return PrefixPredicate + predicate
}

// ClassChain wraps a raw XCUITest class chain.
func ClassChain(chain string) string {
	return PrefixClassChain + chain
}

// Label selects by exact iOS label.
func Label(label string) string {
	return Predicate(fmt.Sprintf(`label == "%s"`, escapeQuoted(label)))
}

// escapeQuoted escapes quotes and backslashes inside a double-quoted literal.
func escapeQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
