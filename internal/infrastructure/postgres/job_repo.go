package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobColumns = `id, customer_id, printer_id, material, estimated_weight, estimated_cost,
	final_cost, notes, location, status, payment_status, created_at, updated_at`

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	query := `
		INSERT INTO jobs (
			customer_id, material, estimated_weight, estimated_cost,
			notes, location, status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + jobColumns

	row := r.pool.QueryRow(ctx, query,
		job.CustomerID,
		job.Material,
		job.EstimatedWeight,
		job.EstimatedCost,
		job.Notes,
		job.Location,
		job.Status,
		job.PaymentStatus,
	)
	return scanJob(row)
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *JobRepository) List(ctx context.Context, input repository.ListJobsInput) ([]*domain.Job, error) {
	var (
		args  []any
		where []string
	)

	if input.CustomerID != "" {
		args = append(args, input.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if input.OpenOnly {
		where = append(where, "status = 'pending'", "printer_id IS NULL")
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if input.Limit > 0 {
		args = append(args, input.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *JobRepository) Cancel(ctx context.Context, id string) (*domain.Job, []*domain.Bid, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	job, err := lockJob(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}
	if !job.Cancellable() {
		return nil, nil, domain.ErrJobNotCancellable
	}

	job, err = scanJob(tx.QueryRow(ctx,
		`UPDATE jobs SET status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 RETURNING `+jobColumns, id))
	if err != nil {
		return nil, nil, fmt.Errorf("cancel job: %w", err)
	}

	rejected, err := rejectPending(ctx, tx, id, "")
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}
	return job, rejected, nil
}

func (r *JobRepository) Advance(ctx context.Context, id string, from, to domain.JobStatus) (*domain.Job, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	job, err := lockJob(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != from {
		return nil, domain.ErrInvalidTransition
	}

	job, err = scanJob(tx.QueryRow(ctx,
		`UPDATE jobs SET status = $2, updated_at = NOW()
		 WHERE id = $1 RETURNING `+jobColumns, id, to))
	if err != nil {
		return nil, fmt.Errorf("advance job: %w", err)
	}

	if to == domain.JobCompleted && job.PrinterID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE printers SET completed_jobs = completed_jobs + 1 WHERE id = $1`,
			*job.PrinterID,
		); err != nil {
			return nil, fmt.Errorf("count completed job: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return job, nil
}

// lockJob reads the job row with FOR UPDATE. Every bid state change on a job
// goes through this lock first.
func lockJob(ctx context.Context, tx pgx.Tx, id string) (*domain.Job, error) {
	return scanJob(tx.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id))
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.ID, &j.CustomerID, &j.PrinterID, &j.Material, &j.EstimatedWeight, &j.EstimatedCost,
		&j.FinalCost, &j.Notes, &j.Location, &j.Status, &j.PaymentStatus, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return &j, nil
}
