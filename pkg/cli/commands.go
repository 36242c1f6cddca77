package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/IGLOU-EU/go-wildcard"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenkit/pkg/config"
	"github.com/devicelab-dev/screenkit/pkg/core"
	"github.com/devicelab-dev/screenkit/pkg/device"
	"github.com/devicelab-dev/screenkit/pkg/gesture"
	"github.com/devicelab-dev/screenkit/pkg/locator"
	"github.com/devicelab-dev/screenkit/pkg/pages"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in through the login screen",
	Description: `Waits for the login screen, logs in and reports the outcome.
Without --user/--password the valid user from the config is used.

Examples:
  screenkit login
  screenkit login --invalid`,
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Username"},
		&cli.StringFlag{Name: "password", Usage: "Password"},
		&cli.BoolFlag{Name: "invalid", Usage: "Use the invalid user and expect the error message"},
	},
	Action: runLogin,
}

var homeCommand = &cli.Command{
	Name:   "home",
	Usage:  "Print the welcome message of the home screen",
	Action: runHome,
}

var selectorsCommand = &cli.Command{
	Name:      "selectors",
	Usage:     "Print the selector tables, optionally filtered by a key pattern",
	ArgsUsage: "[pattern]",
	Description: `Prints every logical key with its Android and iOS selector.
The pattern is matched against "<screen>.<key>" and supports * and ?.

Examples:
  screenkit selectors
  screenkit selectors 'home.*Button'`,
	Action: runSelectors,
}

var swipeCommand = &cli.Command{
	Name:      "swipe",
	Usage:     "Swipe across the screen",
	ArgsUsage: "<up|down|left|right>",
	Flags: []cli.Flag{
		&cli.Float64Flag{
			Name:  "percent",
			Usage: "Travel as a fraction of the screen, in (0,1]",
			Value: gesture.DefaultSwipePercentage,
		},
	},
	Action: runSwipe,
}

var deviceCommand = &cli.Command{
	Name:   "device",
	Usage:  "Print orientation, window size, keyboard and lock state",
	Action: runDevice,
}

func runLogin(c *cli.Context) error {
	cfg, drv, err := openSession(c)
	if err != nil {
		return err
	}
	defer closeSession(c, drv)

	creds := cfg.Users.Valid
	if c.Bool("invalid") {
		creds = cfg.Users.Invalid
	}
	if c.IsSet("user") {
		creds.Username = c.String("user")
	}
	if c.IsSet("password") {
		creds.Password = c.String("password")
	}

	login := pages.NewLoginScreen(drv, pageOptions(cfg, config.ScreenLogin))
	if err := login.WaitForScreenLoad(c.Context); err != nil {
		return fmt.Errorf("login screen not loaded: %w", err)
	}
	if err := login.Login(c.Context, creds.Username, creds.Password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	out := c.App.Writer
	if c.Bool("invalid") {
		text, err := login.ErrorMessageText(c.Context)
		if err != nil {
			return fmt.Errorf("expected an error message: %w", err)
		}
		fmt.Fprintf(out, "Login rejected: %s\n", text)
		return nil
	}

	home := pages.NewHomeScreen(drv, pageOptions(cfg, config.ScreenHome))
	if err := home.WaitForScreenLoad(c.Context); err != nil {
		return fmt.Errorf("home screen not loaded: %w", err)
	}
	text, err := home.WelcomeMessageText(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Logged in as %s: %s\n", creds.Username, text)
	return nil
}

func runHome(c *cli.Context) error {
	cfg, drv, err := openSession(c)
	if err != nil {
		return err
	}
	defer closeSession(c, drv)

	home := pages.NewHomeScreen(drv, pageOptions(cfg, config.ScreenHome))
	shown, err := home.IsDisplayed(c.Context)
	if err != nil {
		return err
	}
	if !shown {
		return fmt.Errorf("home screen is not displayed")
	}
	text, err := home.WelcomeMessageText(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, text)
	return nil
}

func runSelectors(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	pattern := "*"
	if c.Args().Present() {
		pattern = c.Args().First()
	}

	screens := []struct {
		name   string
		tables locator.Tables
	}{
		{config.ScreenLogin, pages.LoginTables()},
		{config.ScreenHome, pages.HomeTables()},
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tANDROID\tIOS")
	matched := 0
	for _, s := range screens {
		tables := s.tables.Merge(cfg.SelectorOverrides(s.name))
		loc := locator.New(tables)
		for _, key := range unionKeys(loc) {
			name := s.name + "." + key
			if !wildcard.Match(pattern, name) {
				continue
			}
			matched++
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, selectorOrDash(loc, key, core.PlatformAndroid), selectorOrDash(loc, key, core.PlatformIOS))
		}
		for _, key := range tables.Asymmetric() {
			fmt.Fprintf(c.App.ErrWriter, "warning: %s.%s is defined on one platform only\n", s.name, key)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if matched == 0 {
		return fmt.Errorf("no selector matches %q", pattern)
	}
	return nil
}

func unionKeys(loc *locator.Locator) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, p := range []core.Platform{core.PlatformAndroid, core.PlatformIOS} {
		for _, k := range loc.Keys(p) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func selectorOrDash(loc *locator.Locator, key string, p core.Platform) string {
	s, err := loc.Resolve(key, p)
	if err != nil {
		return "-"
	}
	return s
}

func runSwipe(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("swipe requires a direction (up, down, left, right)")
	}
	dir, err := gesture.ParseDirection(c.Args().First())
	if err != nil {
		return err
	}

	_, drv, err := openSession(c)
	if err != nil {
		return err
	}
	defer closeSession(c, drv)

	if err := gesture.New(drv).SwipeScreen(c.Context, dir, c.Float64("percent")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Swiped %s\n", dir)
	return nil
}

func runDevice(c *cli.Context) error {
	cfg, drv, err := openSession(c)
	if err != nil {
		return err
	}
	defer closeSession(c, drv)

	info, err := device.New(drv, cfg.App.IOS.BundleID).Info(c.Context)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Platform:\t%s\n", info.Platform)
	fmt.Fprintf(w, "Orientation:\t%s\n", info.Orientation)
	fmt.Fprintf(w, "Window:\t%dx%d\n", info.Width, info.Height)
	fmt.Fprintf(w, "Keyboard shown:\t%t\n", info.KeyboardShown)
	fmt.Fprintf(w, "Locked:\t%t\n", info.Locked)
	return w.Flush()
}
