// printctl is the operator CLI: schema migrations, seed data, ad-hoc match
// queries and development tokens.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "printctl",
		Usage: "Operate a printmarket deployment",
		Commands: []*cli.Command{
			migrateCmd,
			seedCmd,
			matchCmd,
			tokenCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var databaseURLFlag = &cli.StringFlag{
	Name:     "database-url",
	EnvVars:  []string{"DATABASE_URL"},
	Required: true,
	Usage:    "postgres connection string",
}
