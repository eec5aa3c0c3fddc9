package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/auth"
	"github.com/urfave/cli/v3"
)

// TokenCommand issues a bearer token for local testing of the favorites
// endpoints.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a signed bearer token for a user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Usage: "User id placed in the token", Required: true},
			&cli.StringFlag{Name: "secret", Usage: "HMAC signing secret", Sources: cli.EnvVars("JWT_SECRET"), Required: true},
			&cli.DurationFlag{Name: "ttl", Usage: "Token lifetime", Value: time.Hour},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			token, err := auth.NewVerifier(c.String("secret")).Issue(c.String("user"), c.Duration("ttl"))
			if err != nil {
				return fmt.Errorf("issuing token: %w", err)
			}
			fmt.Fprintln(c.Root().Writer, token)
			return nil
		},
	}
}
