package locator

import "testing"

func TestAndroidQueryForms(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"uiautomator", UiAutomator(`new UiSelector().className("android.widget.Button")`), `android=new UiSelector().className("android.widget.Button")`},
		{"resource id", ResourceID("com.wdiodemoapp:id/login"), `android=new UiSelector().resourceId("com.wdiodemoapp:id/login")`},
		{"text", Text("Login"), `android=new UiSelector().text("Login")`},
		{"description", Description("button-LOGIN"), `android=new UiSelector().description("button-LOGIN")`},
		{"escaped text", Text(`Say "hi"`), `android=new UiSelector().text("Say \"hi\"")`},
		{"escaped backslash", Description(`a\b`), `android=new UiSelector().description("a\\b")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestIOSQueryForms(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"accessibility id", AccessibilityID("input-email"), "~input-email"},
		{"predicate", Predicate(`name == "Login"`), `-ios predicate string:name == "Login"`},
		{"class chain", ClassChain("**/XCUIElementTypeButton[`label == \"Login\"`]"), "-ios class chain:**/XCUIElementTypeButton[`label == \"Login\"`]"},
		{"label", Label("Login"), `-ios predicate string:label == "Login"`},
		{"escaped label", Label(`5" screen`), `-ios predicate string:label == "5\" screen"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		selector string
		want     Strategy
	}{
		{"~input-email", Strategy{StrategyAccessibilityID, "input-email"}},
		{Text("Login"), Strategy{StrategyUiAutomator, `new UiSelector().text("Login")`}},
		{Label("Login"), Strategy{StrategyPredicate, `label == "Login"`}},
		{ClassChain("**/XCUIElementTypeCell"), Strategy{StrategyClassChain, "**/XCUIElementTypeCell"}},
		{`//android.widget.Button[@text="Logout"]`, Strategy{StrategyXPath, `//android.widget.Button[@text="Logout"]`}},
		{`(//android.widget.Button)[2]`, Strategy{StrategyXPath, `(//android.widget.Button)[2]`}},
		{"id=com.app:id/login", Strategy{StrategyID, "com.app:id/login"}},
		{"com.app:id/login", Strategy{StrategyID, "com.app:id/login"}},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			if got := ParseSelector(tt.selector); got != tt.want {
				t.Errorf("ParseSelector(%q) = %+v, want %+v", tt.selector, got, tt.want)
			}
		})
	}
}
