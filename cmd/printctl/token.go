package main

import (
	"fmt"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/auth"
	"github.com/urfave/cli/v2"
)

var tokenCmd = &cli.Command{
	Name:  "token",
	Usage: "Mint a bearer token for a user (development only)",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Required: true, Usage: "user id to put in sub"},
		&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "token lifetime"},
		&cli.StringFlag{
			Name:     "secret",
			EnvVars:  []string{"JWT_SECRET"},
			Required: true,
			Usage:    "HS256 signing secret shared with the API",
		},
	},
	Action: func(ctx *cli.Context) error {
		secret := ctx.String("secret")
		if len(secret) < 32 {
			return fmt.Errorf("secret must be at least 32 characters")
		}
		tok, err := auth.Sign([]byte(secret), ctx.String("user"), ctx.Duration("ttl"), time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, tok)
		return nil
	},
}
