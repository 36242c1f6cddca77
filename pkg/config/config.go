// Package config handles configuration for screenkit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/locator"
	"github.com/devicelab-dev/screenkit/pkg/logger"
	"github.com/devicelab-dev/screenkit/pkg/screen"
)

// Environment variables that override config.yaml.
const (
	EnvAppiumURL    = "SCREENKIT_APPIUM_URL"
	EnvPlatform     = "SCREENKIT_PLATFORM"
	EnvTimeoutMs    = "SCREENKIT_TIMEOUT_MS"
	EnvScreenLoadMs = "SCREENKIT_SCREEN_LOAD_TIMEOUT_MS"
	EnvIntervalMs   = "SCREENKIT_POLL_INTERVAL_MS"
	EnvLogFile      = "SCREENKIT_LOG_FILE"
	EnvUsername     = "SCREENKIT_USERNAME"
	EnvPassword     = "SCREENKIT_PASSWORD"
)

// Screen names accepted under selectors.
const (
	ScreenLogin = "login"
	ScreenHome  = "home"
)

// DefaultAppiumURL is the local Appium server.
const DefaultAppiumURL = "http://127.0.0.1:4723"

// Config represents the workspace configuration (config.yaml).
type Config struct {
	AppiumURL    string                 `yaml:"appiumUrl"`
	Platform     string                 `yaml:"platform"`     // android or ios
	Capabilities map[string]interface{} `yaml:"capabilities"` // passed through to the session as-is
	Timeouts     Timeouts               `yaml:"timeouts"`
	App          App                    `yaml:"app"`
	Users        Users                  `yaml:"users"`

	// Selectors overrides built-in selector tables, keyed by screen name (login, home)
	Selectors map[string]locator.Tables `yaml:"selectors"`

	Log Log `yaml:"log"`
}

// Timeouts in milliseconds.
type Timeouts struct {
	DefaultMs    int `yaml:"defaultMs"`
	ScreenLoadMs int `yaml:"screenLoadMs"`
	IntervalMs   int `yaml:"intervalMs"`
}

// App identifies the app under test per platform.
type App struct {
	Android AndroidApp `yaml:"android"`
	IOS     IOSApp     `yaml:"ios"`
}

// AndroidApp is the Android app under test.
type AndroidApp struct {
	AppPackage  string `yaml:"appPackage"`
	AppActivity string `yaml:"appActivity"`
	AppPath     string `yaml:"appPath"`
}

// IOSApp is the iOS app under test.
type IOSApp struct {
	BundleID string `yaml:"bundleId"`
	AppPath  string `yaml:"appPath"`
}

// Credentials is a username/password pair.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Users holds the test accounts.
type Users struct {
	Valid   Credentials `yaml:"valid"`
	Invalid Credentials `yaml:"invalid"`
}

// Log configures the log file.
type Log struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
	Debug      bool   `yaml:"debug"`
}

// Default returns the configuration of the demo app on a local Appium server.
func Default() *Config {
	return &Config{
		AppiumURL: DefaultAppiumURL,
		Platform:  "android",
		Timeouts: Timeouts{
			DefaultMs:    10000,
			ScreenLoadMs: 15000,
			IntervalMs:   500,
		},
		App: App{
			Android: AndroidApp{
				AppPackage:  "com.wdiodemoapp",
				AppActivity: "com.wdiodemoapp.MainActivity",
			},
		},
		Users: Users{
			Valid:   Credentials{Username: "test@webdriver.io", Password: "Test1234!"},
			Invalid: Credentials{Username: "invalid@example.com", Password: "wrong"},
		},
	}
}

// Load loads configuration from a file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, core.ErrInvalidConfig.WithMessage("failed to parse " + path).WithCause(err)
	}

	return cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try config.yaml first
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try config.yml
	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return defaults
	return Default(), nil
}

// LoadEnv loads .env files into the process environment. Existing variables win.
// Missing files are not an error.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Debug("no .env loaded: %v", err)
	}
}

// ApplyEnv overrides fields from SCREENKIT_* environment variables.
// Malformed numbers are reported, not ignored.
func (c *Config) ApplyEnv() error {
	c.AppiumURL = getEnvOrDefault(EnvAppiumURL, c.AppiumURL)
	c.Platform = getEnvOrDefault(EnvPlatform, c.Platform)
	c.Log.File = getEnvOrDefault(EnvLogFile, c.Log.File)
	c.Users.Valid.Username = getEnvOrDefault(EnvUsername, c.Users.Valid.Username)
	c.Users.Valid.Password = getEnvOrDefault(EnvPassword, c.Users.Valid.Password)

	var err error
	if c.Timeouts.DefaultMs, err = getEnvIntOrDefault(EnvTimeoutMs, c.Timeouts.DefaultMs); err != nil {
		return err
	}
	if c.Timeouts.ScreenLoadMs, err = getEnvIntOrDefault(EnvScreenLoadMs, c.Timeouts.ScreenLoadMs); err != nil {
		return err
	}
	if c.Timeouts.IntervalMs, err = getEnvIntOrDefault(EnvIntervalMs, c.Timeouts.IntervalMs); err != nil {
		return err
	}
	return nil
}

// Validate checks the fields a session needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AppiumURL) == "" {
		return core.ErrInvalidConfig.WithMessage("appiumUrl is required")
	}
	if _, err := core.ParsePlatform(c.Platform); err != nil {
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("invalid platform %q", c.Platform)).WithCause(err)
	}
	t := c.Timeouts
	if t.DefaultMs < 0 || t.ScreenLoadMs < 0 || t.IntervalMs < 0 {
		return core.ErrInvalidConfig.WithMessage("timeouts must not be negative")
	}
	for name := range c.Selectors {
		if name != ScreenLogin && name != ScreenHome {
			return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unknown screen %q in selectors", name))
		}
	}
	return nil
}

// TargetPlatform returns the parsed platform.
func (c *Config) TargetPlatform() (core.Platform, error) {
	return core.ParsePlatform(c.Platform)
}

// ScreenTimeouts converts the millisecond settings. Zero values keep the screen defaults.
func (c *Config) ScreenTimeouts() screen.Timeouts {
	return screen.Timeouts{
		Default:    time.Duration(c.Timeouts.DefaultMs) * time.Millisecond,
		ScreenLoad: time.Duration(c.Timeouts.ScreenLoadMs) * time.Millisecond,
		Interval:   time.Duration(c.Timeouts.IntervalMs) * time.Millisecond,
	}
}

// SelectorOverrides returns the overrides for a screen, empty if none.
func (c *Config) SelectorOverrides(screenName string) locator.Tables {
	return c.Selectors[screenName]
}

// LoggerOptions converts the log section.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
		Debug:      c.Log.Debug,
	}
}

// SessionCapabilities builds the session capabilities: the configured map plus
// the platform name, automation name and app fields when not set explicitly.
func (c *Config) SessionCapabilities() (map[string]interface{}, error) {
	p, err := c.TargetPlatform()
	if err != nil {
		return nil, err
	}

	caps := make(map[string]interface{}, len(c.Capabilities)+4)
	for k, v := range c.Capabilities {
		caps[k] = v
	}
	setDefault := func(key string, value string) {
		if value == "" {
			return
		}
		if _, ok := caps[key]; !ok {
			caps[key] = value
		}
	}

	if p.IsIOS() {
		setDefault("platformName", "iOS")
		setDefault("appium:automationName", "XCUITest")
		setDefault("appium:bundleId", c.App.IOS.BundleID)
		setDefault("appium:app", c.App.IOS.AppPath)
	} else {
		setDefault("platformName", "Android")
		setDefault("appium:automationName", "UiAutomator2")
		setDefault("appium:appPackage", c.App.Android.AppPackage)
		setDefault("appium:appActivity", c.App.Android.AppActivity)
		setDefault("appium:app", c.App.Android.AppPath)
	}
	return caps, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("%s must be an integer, got %q", key, val))
	}
	return i, nil
}
