package main

import (
	"fmt"

	"github.com/ErlanBelekov/printmarket/internal/infrastructure/postgres"
	"github.com/urfave/cli/v2"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Apply or revert the database schema",
	Subcommands: []*cli.Command{
		{
			Name:  "up",
			Usage: "Apply all pending migrations",
			Flags: []cli.Flag{databaseURLFlag},
			Action: func(ctx *cli.Context) error {
				if err := postgres.MigrateUp(ctx.String("database-url")); err != nil {
					return err
				}
				fmt.Fprintln(ctx.App.Writer, "migrations applied")
				return nil
			},
		},
		{
			Name:  "down",
			Usage: "Revert every migration (drops all data)",
			Flags: []cli.Flag{
				databaseURLFlag,
				&cli.BoolFlag{Name: "yes", Usage: "confirm dropping all tables"},
			},
			Action: func(ctx *cli.Context) error {
				if !ctx.Bool("yes") {
					return fmt.Errorf("refusing to drop the schema without --yes")
				}
				if err := postgres.MigrateDown(ctx.String("database-url")); err != nil {
					return err
				}
				fmt.Fprintln(ctx.App.Writer, "migrations reverted")
				return nil
			},
		},
	},
}
