package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lukegrady1/Roomify/internal/adapter/storage/s3"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/campus"
	"github.com/urfave/cli/v3"
)

// DatasetCommand manages the campus dataset object read by the server at
// start-up.
func DatasetCommand() *cli.Command {
	storeFlags := []cli.Flag{
		&cli.StringFlag{Name: "endpoint", Usage: "MinIO endpoint", Sources: cli.EnvVars("MINIO_ENDPOINT"), Required: true},
		&cli.StringFlag{Name: "access-key", Usage: "MinIO access key", Sources: cli.EnvVars("MINIO_ACCESS_KEY")},
		&cli.StringFlag{Name: "secret-key", Usage: "MinIO secret key", Sources: cli.EnvVars("MINIO_SECRET_KEY")},
		&cli.StringFlag{Name: "bucket", Usage: "Bucket name", Sources: cli.EnvVars("MINIO_BUCKET"), Value: "roomify-reference"},
		&cli.StringFlag{Name: "object", Usage: "Object key", Sources: cli.EnvVars("CAMPUS_DATASET_OBJECT"), Value: "campuses.json"},
		&cli.BoolFlag{Name: "ssl", Usage: "Use TLS", Sources: cli.EnvVars("MINIO_USE_SSL")},
	}

	return &cli.Command{
		Name:  "dataset",
		Usage: "Manage the campus dataset in object storage",
		Commands: []*cli.Command{
			{
				Name:      "push",
				Usage:     "Validate a campus JSON file and upload it",
				ArgsUsage: "FILE",
				Flags:     storeFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					path := c.Args().First()
					if path == "" {
						return fmt.Errorf("dataset push: FILE is required")
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("reading dataset: %w", err)
					}
					campuses, err := campus.DecodeDataset(data)
					if err != nil {
						return err
					}

					store, err := newDatasetStore(c)
					if err != nil {
						return err
					}
					if err := store.PublishDataset(ctx, data); err != nil {
						return fmt.Errorf("uploading dataset: %w", err)
					}
					fmt.Fprintf(c.Root().Writer, "Uploaded %d campuses to %s/%s\n", len(campuses), c.String("bucket"), c.String("object"))
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "Download the dataset and report how many campuses it holds",
				Flags: storeFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					store, err := newDatasetStore(c)
					if err != nil {
						return err
					}
					data, err := store.FetchDataset(ctx)
					if err != nil {
						return fmt.Errorf("downloading dataset: %w", err)
					}
					campuses, err := campus.DecodeDataset(data)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.Root().Writer, "%s/%s holds %d campuses\n", c.String("bucket"), c.String("object"), len(campuses))
					return nil
				},
			},
		},
	}
}

func newDatasetStore(c *cli.Command) (*s3.DatasetStore, error) {
	return s3.NewDatasetStore(c.String("endpoint"), c.String("access-key"), c.String("secret-key"),
		c.String("bucket"), c.String("object"), c.Bool("ssl"), logger.NewNop())
}
