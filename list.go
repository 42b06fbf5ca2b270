package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/redhatinsights/gitcfg/configset"
	"github.com/redhatinsights/gitcfg/internal/l10n"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: l10n.T("List all directives of the loaded files"),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show-origin",
				Usage: l10n.T("show the file and line each directive comes from"),
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: l10n.T("output `FORMAT`: text lists every directive, yaml the merged values"),
			},
		},
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
	cs, err := loadConfigSet(c)
	if err != nil {
		return exitWithError(err)
	}

	switch c.String("format") {
	case "text":
		err = writeText(c.App.Writer, cs, c.Bool("show-origin"))
	case "yaml":
		err = writeYAML(c.App.Writer, cs, c.Bool("show-origin"))
	default:
		return cli.Exit(l10n.T("error: unknown format %q", c.String("format")), exitError)
	}
	if err != nil {
		return exitWithError(err)
	}
	return nil
}

// writeText prints one directive per line as key=value. Flag directives are
// printed as the bare key. Origins are aligned in columns on a terminal.
func writeText(w io.Writer, cs *configset.ConfigSet, showOrigin bool) error {
	out := w
	var tw *tabwriter.Writer
	if showOrigin && isTerminal(w) {
		tw = tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
		out = tw
	}

	for _, d := range cs.Directives() {
		line := d.Key
		if !d.Implicit {
			line += "=" + d.Value
		}
		if showOrigin {
			line = fmt.Sprintf("file:%s:%d\t%s", cs.Origin(d.File), d.Line, line)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	if tw != nil {
		return tw.Flush()
	}
	return nil
}

// writeYAML prints the merged view, one entry per key with its winning
// value. Flag directives are written as true.
func writeYAML(w io.Writer, cs *configset.ConfigSet, showOrigin bool) error {
	last := make(map[string]configset.Directive)
	for _, d := range cs.Directives() {
		last[d.Key] = d
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range cs.Keys() {
		d := last[key]
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.Value}
		if d.Implicit {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"}
		}
		if showOrigin {
			value.LineComment = fmt.Sprintf("%s:%d", cs.Origin(d.File), d.Line)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			value,
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
