package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenkit/pkg/config"
	"github.com/devicelab-dev/screenkit/pkg/driver/appium"
	"github.com/devicelab-dev/screenkit/pkg/logger"
	"github.com/devicelab-dev/screenkit/pkg/pages"
)

// loadConfig merges config file, .env, SCREENKIT_* variables and global
// flags, in increasing priority, then starts logging.
func loadConfig(c *cli.Context) (*config.Config, error) {
	config.LoadEnv()

	var cfg *config.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if c.IsSet("appium-url") {
		cfg.AppiumURL = c.String("appium-url")
	}
	if c.IsSet("platform") {
		cfg.Platform = c.String("platform")
	}
	if c.IsSet("log-file") {
		cfg.Log.File = c.String("log-file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = config.DefaultLogFile()
	}
	opts := cfg.LoggerOptions()
	opts.Debug = opts.Debug || c.Bool("verbose")
	if err := logger.InitWithOptions(logFile, opts); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	logger.Info("screenkit %s: platform=%s appium=%s", Version, cfg.Platform, cfg.AppiumURL)

	return cfg, nil
}

// openSession loads the config and starts an Appium session.
// The caller must Close the driver.
func openSession(c *cli.Context) (*config.Config, *appium.Driver, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	caps, err := cfg.SessionCapabilities()
	if err != nil {
		return nil, nil, err
	}
	drv, err := appium.NewDriver(c.Context, cfg.AppiumURL, caps)
	if err != nil {
		return nil, nil, err
	}
	return cfg, drv, nil
}

func closeSession(c *cli.Context, drv *appium.Driver) {
	if err := drv.Close(c.Context); err != nil {
		logger.Warn("failed to close session: %v", err)
	}
}

func pageOptions(cfg *config.Config, screenName string) pages.Options {
	return pages.Options{
		Timeouts:  cfg.ScreenTimeouts(),
		Overrides: cfg.SelectorOverrides(screenName),
	}
}
