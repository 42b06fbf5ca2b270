package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/gitcfg/configset"
	"github.com/redhatinsights/gitcfg/internal/l10n"
)

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     l10n.T("Print the value of a key"),
		ArgsUsage: "KEY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Value:   "string",
				Usage:   l10n.T("interpret the value as `TYPE` (string, int, int64, ulong, bool, path)"),
			},
		},
		Action: getAction,
	}
}

func getAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit(l10n.T("error: expected exactly one key"), exitError)
	}
	key := c.Args().First()

	cs, err := loadConfigSet(c)
	if err != nil {
		return exitWithError(err)
	}

	value, ok, err := getTyped(cs, c.String("type"), key)
	if err != nil {
		return exitWithError(err)
	}
	if !ok {
		return cli.Exit("", exitAbsent)
	}
	fmt.Fprintln(c.App.Writer, value)
	return nil
}

// getTyped looks up key with the getter for typ and formats the result.
func getTyped(cs *configset.ConfigSet, typ, key string) (string, bool, error) {
	switch typ {
	case "", "string":
		return cs.GetString(key)
	case "int":
		v, ok, err := cs.GetInt(key)
		return strconv.FormatInt(int64(v), 10), ok, err
	case "int64":
		v, ok, err := cs.GetInt64(key)
		return strconv.FormatInt(v, 10), ok, err
	case "ulong":
		v, ok, err := cs.GetUint64(key)
		return strconv.FormatUint(v, 10), ok, err
	case "bool":
		v, ok, err := cs.GetBool(key)
		return strconv.FormatBool(v), ok, err
	case "path":
		return cs.GetPathname(key)
	}
	return "", false, errors.New(l10n.T("unknown type %q", typ))
}

func getAllCommand() *cli.Command {
	return &cli.Command{
		Name:      "get-all",
		Usage:     l10n.T("Print every value of a key, in load order"),
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit(l10n.T("error: expected exactly one key"), exitError)
			}

			cs, err := loadConfigSet(c)
			if err != nil {
				return exitWithError(err)
			}

			values, err := cs.GetAll(c.Args().First())
			if err != nil {
				return exitWithError(err)
			}
			if len(values) == 0 {
				return cli.Exit("", exitAbsent)
			}
			for _, v := range values {
				fmt.Fprintln(c.App.Writer, v)
			}
			return nil
		},
	}
}
