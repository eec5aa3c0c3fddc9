package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lukegrady1/Roomify/internal/search/campus"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/lukegrady1/Roomify/internal/search/engine"
	"github.com/lukegrady1/Roomify/internal/search/format"
	"github.com/lukegrady1/Roomify/internal/search/geo"
	"github.com/lukegrady1/Roomify/internal/search/query"
	"github.com/urfave/cli/v3"
)

// SearchCommand evaluates a query string against listings read from a JSON
// file, using the same engine as the server.
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a search over a listings file",
		ArgsUsage: "QUERYSTRING",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "listings",
				Usage:    "JSON file holding an array of listings",
				Required: true,
			},
			&cli.FloatFlag{
				Name:  "radius",
				Usage: "Match listings within this many miles of the campus instead of by city or state",
			},
			&cli.BoolFlag{
				Name:  "enforce-dates",
				Usage: "Drop listings whose availability does not overlap the requested dates",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			listings, err := readListings(c.String("listings"))
			if err != nil {
				return err
			}

			var opts []engine.Option
			if r := c.Float("radius"); r > 0 {
				opts = append(opts, engine.WithProximity(engine.WithinRadius{Miles: r}))
			}
			if c.Bool("enforce-dates") {
				opts = append(opts, engine.WithAvailability(engine.OverlapDates{}))
			}
			eng := engine.New(campus.DefaultDirectory(), opts...)

			filters, fieldErrs := query.Normalize(query.Clean(query.Parse(c.Args().First())))
			res := eng.Search(listings, filters, engine.Criteria{})

			out := c.Root().Writer
			for _, fe := range fieldErrs {
				fmt.Fprintf(out, "warning: %s\n", fe.Error())
			}
			if filters.Campus != "" && res.Campus == nil {
				fmt.Fprintf(out, "warning: campus %q not recognized, showing all listings\n", filters.Campus)
			}
			if res.Campus != nil {
				fmt.Fprintf(out, "Near %s\n", res.Campus.Name)
			}
			fmt.Fprintf(out, "%d of %d listings match %q\n", len(res.Items), len(listings), query.Serialize(filters))
			for i, it := range res.Items {
				l := it.Listing
				line := fmt.Sprintf("%d. %s  %s  %s  %s", i+1, l.Title,
					format.FormatPricePerMonth(l.Price),
					format.FormatRoomType(l.RoomType),
					format.FormatBedsBaths(l.Bedrooms, l.Bathrooms))
				if it.DistanceMiles != nil {
					line += "  " + geo.FormatDistance(*it.DistanceMiles)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func readListings(path string) ([]*domain.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading listings: %w", err)
	}
	var listings []*domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("decoding listings %s: %w", path, err)
	}
	return listings, nil
}
