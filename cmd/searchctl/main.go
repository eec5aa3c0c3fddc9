package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "searchctl",
		Usage: "Inspect campuses, run offline searches and manage search reference data",
		Commands: []*cli.Command{
			CampusesCommand(),
			SearchCommand(),
			URLCommand(),
			DatasetCommand(),
			TokenCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
