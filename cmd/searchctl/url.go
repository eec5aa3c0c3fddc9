package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lukegrady1/Roomify/internal/search/query"
	"github.com/urfave/cli/v3"
)

var filterFlags = []string{
	query.KeyCampus, query.KeyStart, query.KeyEnd, query.KeyMin, query.KeyMax,
	query.KeyRoom, query.KeyBeds, query.KeyBaths, query.KeyAmenities, query.KeySort,
}

// URLCommand builds the canonical search link for a set of filters.
func URLCommand() *cli.Command {
	flags := make([]cli.Flag, 0, len(filterFlags)+1)
	for _, name := range filterFlags {
		flags = append(flags, &cli.StringFlag{Name: name, Usage: "Value of the " + name + " filter"})
	}
	flags = append(flags, &cli.StringFlag{Name: "base", Usage: "Path of the search page", Value: "/search"})

	return &cli.Command{
		Name:  "url",
		Usage: "Print the canonical search URL for the given filters",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			values := url.Values{}
			for _, name := range filterFlags {
				if v := strings.TrimSpace(c.String(name)); v != "" {
					values.Set(name, v)
				}
			}
			filters := query.Clean(query.FromValues(values))

			out := c.Root().Writer
			for _, fe := range query.Validate(filters) {
				fmt.Fprintf(out, "warning: %s\n", fe.Error())
			}
			fmt.Fprintln(out, query.BuildURL(filters, c.String("base")))
			return nil
		},
	}
}
