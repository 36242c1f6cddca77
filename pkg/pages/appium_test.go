package pages

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/devicelab-dev/screenkit/pkg/driver/appium"
	"github.com/devicelab-dev/screenkit/pkg/driver/appium/appiumtest"
)

func TestLogin_AgainstAppiumServer(t *testing.T) {
	srv := appiumtest.NewServer("Android")
	defer srv.Close()
	for _, sel := range LoginTables().Android {
		srv.AddElement(sel, &appiumtest.Element{Displayed: true, Enabled: true})
	}
	srv.SetKeyboardShown(true)

	ctx := context.Background()
	drv, err := appium.NewDriver(ctx, srv.URL, map[string]interface{}{"platformName": "Android"})
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}
	defer drv.Close(ctx)

	login := NewLoginScreen(drv, Options{Timeouts: fastTimeouts})
	if err := login.Login(ctx, "test@webdriver.io", "Test1234!"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	var typed []string
	for _, r := range srv.Requests() {
		if r.Method == http.MethodPost && strings.HasSuffix(r.Path, "/value") {
			text, _ := r.Body["text"].(string)
			typed = append(typed, text)
		}
	}
	if len(typed) != 2 || typed[0] != "test@webdriver.io" || typed[1] != "Test1234!" {
		t.Errorf("Expected username then password, got %v", typed)
	}
	if srv.Count("/hide_keyboard") != 1 {
		t.Error("Expected keyboard to be hidden")
	}
	if srv.Count("/click") != 1 {
		t.Errorf("Expected 1 click, got %d", srv.Count("/click"))
	}
}
