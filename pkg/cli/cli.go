// Package cli provides the command-line interface for screenkit.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenkit/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Config file (default: config.yaml or config.yml in the working directory)",
		EnvVars: []string{"SCREENKIT_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "appium-url",
		Usage: "Appium server URL (overrides config)",
	},
	&cli.StringFlag{
		Name:    "platform",
		Aliases: []string{"p"},
		Usage:   "Platform to run on (android, ios)",
	},
	&cli.StringFlag{
		Name:  "log-file",
		Usage: "Log file (default: <home>/logs/screenkit.log)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable debug logging",
		EnvVars: []string{"SCREENKIT_VERBOSE"},
	},
}

// NewApp builds the CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "screenkit",
		Usage:   "Drive the demo app screens through Appium",
		Version: Version,
		Description: `screenkit runs page-object flows of the demo app against an Appium
server, on Android or iOS.

Examples:
  screenkit login
  screenkit -p ios login --user test@webdriver.io --password 'Test1234!'
  screenkit selectors 'login*'
  screenkit swipe --percent 0.8 up`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			loginCommand,
			homeCommand,
			selectorsCommand,
			swipeCommand,
			deviceCommand,
		},
		After: func(*cli.Context) error {
			logger.Close()
			return nil
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
