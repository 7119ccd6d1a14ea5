package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ErlanBelekov/printmarket/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/printmarket/internal/matching"
	"github.com/ErlanBelekov/printmarket/internal/usecase"
	"github.com/urfave/cli/v2"
)

var matchCmd = &cli.Command{
	Name:  "match",
	Usage: "Print the ranked printer matches for a job",
	Flags: []cli.Flag{
		databaseURLFlag,
		&cli.StringFlag{Name: "job", Required: true, Usage: "job id"},
		&cli.IntFlag{Name: "limit", Value: matching.DefaultLimit, Usage: "max matches (capped at 50)"},
		&cli.StringFlag{
			Name:    "location-source",
			EnvVars: []string{"MATCH_LOCATION_SOURCE"},
			Value:   "notes",
			Usage:   "job field holding the location signal (notes|location)",
		},
	},
	Action: func(ctx *cli.Context) error {
		location, err := matching.LocationSourceByName(ctx.String("location-source"))
		if err != nil {
			return err
		}

		pool, err := postgres.NewPool(ctx.Context, ctx.String("database-url"), 2)
		if err != nil {
			return err
		}
		defer pool.Close()

		uc := usecase.NewMatchUsecase(
			postgres.NewJobRepository(pool),
			postgres.NewPrinterRepository(pool),
			matching.NewScorer(location),
			matching.DefaultLimit,
		)
		matches, err := uc.FindMatches(ctx.Context, ctx.String("job"), ctx.Int("limit"))
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintln(ctx.App.Writer, "no compatible printers")
			return nil
		}

		w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tPRINTER\tNAME\tCOST\tREASONS")
		for _, m := range matches {
			fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\t%s\n",
				m.Score, m.Printer.ID, m.Printer.Name, m.EstimatedCost.StringFixed(2), strings.Join(m.Reasons, "; "))
		}
		return w.Flush()
	},
}
