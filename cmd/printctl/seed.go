package main

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/ErlanBelekov/printmarket/internal/usecase"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var seedMaterials = []string{"PLA", "PETG", "ABS", "TPU", "ASA", "NYLON", "RESIN"}

type discardNotifier struct{}

func (discardNotifier) Emit(domain.Notification) {}

var seedCmd = &cli.Command{
	Name:  "seed",
	Usage: "Insert fake printers and open jobs for local development",
	Flags: []cli.Flag{
		databaseURLFlag,
		&cli.IntFlag{Name: "printers", Value: 20, Usage: "number of printers"},
		&cli.IntFlag{Name: "jobs", Value: 10, Usage: "number of open jobs"},
		&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "random seed, for reproducible data"},
	},
	Action: func(ctx *cli.Context) error {
		nPrinters, nJobs := ctx.Int("printers"), ctx.Int("jobs")
		if nPrinters < 0 || nJobs < 0 {
			return fmt.Errorf("counts must not be negative")
		}

		pool, err := postgres.NewPool(ctx.Context, ctx.String("database-url"), 4)
		if err != nil {
			return err
		}
		defer pool.Close()

		s := &seeder{
			f:        gofakeit.New(ctx.Uint64("seed")),
			users:    postgres.NewUserRepository(pool),
			printers: usecase.NewPrinterUsecase(postgres.NewPrinterRepository(pool)),
			jobs: usecase.NewJobUsecase(
				postgres.NewJobRepository(pool),
				postgres.NewBidRepository(pool),
				postgres.NewPrinterRepository(pool),
				discardNotifier{},
			),
		}

		for i := range nPrinters {
			if err := s.printer(ctx.Context, i); err != nil {
				return err
			}
		}
		for i := range nJobs {
			if err := s.job(ctx.Context, i); err != nil {
				return err
			}
		}

		fmt.Fprintf(ctx.App.Writer, "seeded %d printers and %d jobs\n", nPrinters, nJobs)
		return nil
	},
}

type seeder struct {
	f        *gofakeit.Faker
	users    repository.UserRepository
	printers *usecase.PrinterUsecase
	jobs     *usecase.JobUsecase
}

func (s *seeder) place() string {
	return s.f.City() + ", " + s.f.StateAbr()
}

func (s *seeder) printer(ctx context.Context, i int) error {
	owner := fmt.Sprintf("seed-owner-%03d", i)
	if err := s.users.Upsert(ctx, owner); err != nil {
		return fmt.Errorf("upsert owner: %w", err)
	}

	materials := make([]string, s.f.IntRange(1, 3))
	for j := range materials {
		materials[j] = s.f.RandomString(seedMaterials)
	}

	_, err := s.printers.Register(ctx, usecase.RegisterPrinterInput{
		OwnerID:      owner,
		Name:         s.f.Company() + " Print Farm",
		Location:     s.place(),
		Materials:    materials,
		PricePerGram: decimal.NewFromFloat(s.f.Float64Range(0.02, 0.25)).Round(3),
		Description:  s.f.Blurb(),
	})
	if err != nil {
		return fmt.Errorf("register printer %d: %w", i, err)
	}
	return nil
}

func (s *seeder) job(ctx context.Context, i int) error {
	customer := fmt.Sprintf("seed-customer-%03d", i)
	if err := s.users.Upsert(ctx, customer); err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}

	in := usecase.CreateJobInput{
		CustomerID:      customer,
		EstimatedWeight: decimal.NewNullDecimal(decimal.NewFromInt(int64(s.f.IntRange(10, 800)))),
		Location:        s.place(),
	}
	in.Notes = in.Location
	if s.f.Bool() {
		m := s.f.RandomString(seedMaterials)
		in.Material = &m
	}

	if _, err := s.jobs.CreateJob(ctx, in); err != nil {
		return fmt.Errorf("create job %d: %w", i, err)
	}
	return nil
}
