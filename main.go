package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/gitcfg/configset"
	"github.com/redhatinsights/gitcfg/internal/conf"
	"github.com/redhatinsights/gitcfg/internal/l10n"
)

const (
	exitAbsent = 1
	exitError  = 2
)

// settingsKey is the cli.App.Metadata key holding the conf.Config.
const settingsKey = "settings"

func main() {
	settings, err := conf.DefaultSource.Read()
	if err != nil {
		fmt.Fprintln(os.Stderr, l10n.T("warning: ignoring settings: %v", err))
		settings, _ = conf.Defaults()
	}

	app := newApp(settings)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
}

func newApp(settings conf.Config) *cli.App {
	return &cli.App{
		Name:                      "gitcfg",
		Usage:                     l10n.T("Query layered git-style configuration files"),
		HideVersion:               true,
		DisableSliceFlagSeparator: true,
		Metadata:                  map[string]interface{}{settingsKey: settings},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   l10n.T("load config `FILE`; later files take precedence"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: settings.LogLevel.String(),
				Usage: l10n.T("set the log `LEVEL` (DEBUG, INFO, WARN, ERROR)"),
			},
		},
		Before: beforeAction,
		Commands: []*cli.Command{
			getCommand(),
			getAllCommand(),
			listCommand(),
		},
	}
}

// beforeAction installs the default logger before any command runs.
func beforeAction(c *cli.Context) error {
	level, err := conf.ParseLevel(c.String("log-level"))
	if err != nil {
		return cli.Exit(l10n.T("error: %v", err), exitError)
	}
	handler := slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func settingsFrom(c *cli.Context) conf.Config {
	settings, _ := c.App.Metadata[settingsKey].(conf.Config)
	return settings
}

// loadConfigSet builds a ConfigSet from the files in the settings followed
// by the --file arguments. Settings files that do not exist are skipped.
func loadConfigSet(c *cli.Context) (*configset.ConfigSet, error) {
	settings := settingsFrom(c)

	var opts []configset.Option
	if settings.HomeDir != "" {
		opts = append(opts, configset.WithHomeDir(settings.HomeDir))
	}
	cs := configset.New(opts...)

	for _, file := range settings.Files {
		path, err := cs.ExpandPath(file)
		if err != nil {
			return nil, err
		}
		if err := cs.AddFiles(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("skipping missing config file", "file", path)
				continue
			}
			return nil, err
		}
	}

	if err := cs.AddFiles(c.StringSlice("file")...); err != nil {
		return nil, err
	}
	return cs, nil
}

// exitWithError turns a library error into a cli exit error.
func exitWithError(err error) error {
	return cli.Exit(l10n.T("error: %v", err), exitError)
}
