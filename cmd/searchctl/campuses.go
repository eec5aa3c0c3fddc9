package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukegrady1/Roomify/internal/search/campus"
	"github.com/urfave/cli/v3"
)

// CampusesCommand searches the bundled campus directory.
func CampusesCommand() *cli.Command {
	return &cli.Command{
		Name:      "campuses",
		Usage:     "Search the bundled campus directory",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of campuses",
				Value: 8,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.Join(c.Args().Slice(), " ")
			matches := campus.DefaultDirectory().Search(text, c.Int("limit"))

			out := c.Root().Writer
			if len(matches) == 0 {
				fmt.Fprintln(out, "No campuses found")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%-28s %s (%s, %s)\n", m.Slug, m.Name, m.City, m.State)
			}
			return nil
		},
	}
}
