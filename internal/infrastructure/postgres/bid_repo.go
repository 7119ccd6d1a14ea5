package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const bidColumns = `id, job_id, printer_id, bidder_id, amount, estimated_days, notes,
	status, created_at, resolved_at`

type BidRepository struct {
	pool *pgxpool.Pool
}

func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

func (r *BidRepository) CreatePending(ctx context.Context, bid *domain.Bid, maxPending int) (*domain.Bid, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	job, err := lockJob(ctx, tx, bid.JobID)
	if err != nil {
		return nil, err
	}
	if job.Assigned() {
		return nil, domain.ErrJobAlreadyAssigned
	}
	if !job.OpenForBids() {
		return nil, domain.ErrJobNotOpen
	}

	var (
		pending   int
		duplicate bool
	)
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(BOOL_OR(printer_id = $2), FALSE)
		FROM bids
		WHERE job_id = $1 AND status = 'pending'`,
		bid.JobID, bid.PrinterID,
	).Scan(&pending, &duplicate)
	if err != nil {
		return nil, fmt.Errorf("count pending bids: %w", err)
	}
	if pending >= maxPending {
		return nil, domain.ErrBidLimitReached
	}
	if duplicate {
		return nil, domain.ErrDuplicatePendingBid
	}

	created, err := scanBid(tx.QueryRow(ctx, `
		INSERT INTO bids (job_id, printer_id, bidder_id, amount, estimated_days, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+bidColumns,
		bid.JobID, bid.PrinterID, bid.BidderID, bid.Amount, bid.EstimatedDays, bid.Notes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicatePendingBid
		}
		return nil, fmt.Errorf("insert bid: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return created, nil
}

func (r *BidRepository) GetByID(ctx context.Context, id string) (*domain.Bid, error) {
	return scanBid(r.pool.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id))
}

func (r *BidRepository) ListByJob(ctx context.Context, jobID string, status domain.BidStatus) ([]*domain.Bid, error) {
	if status == "" {
		return r.query(ctx,
			`SELECT `+bidColumns+` FROM bids WHERE job_id = $1 ORDER BY created_at, id`, jobID)
	}
	return r.query(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE job_id = $1 AND status = $2 ORDER BY created_at, id`,
		jobID, status)
}

func (r *BidRepository) ListByJobAndBidder(ctx context.Context, jobID, bidderID string) ([]*domain.Bid, error) {
	return r.query(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE job_id = $1 AND bidder_id = $2 ORDER BY created_at, id`,
		jobID, bidderID)
}

func (r *BidRepository) Accept(ctx context.Context, bidID string) (*repository.AcceptResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var jobID string
	err = tx.QueryRow(ctx, `SELECT job_id FROM bids WHERE id = $1`, bidID).Scan(&jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, fmt.Errorf("find bid job: %w", err)
	}

	job, err := lockJob(ctx, tx, jobID)
	if err != nil {
		return nil, err
	}

	// Read the bid again now that the job row is held.
	bid, err := scanBid(tx.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1 FOR UPDATE`, bidID))
	if err != nil {
		return nil, err
	}
	if !bid.Pending() {
		return nil, domain.ErrBidNotPending
	}
	if job.Assigned() {
		return nil, domain.ErrJobAlreadyAssigned
	}

	bid, err = scanBid(tx.QueryRow(ctx, `
		UPDATE bids SET status = 'accepted', resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+bidColumns, bidID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrJobAlreadyAssigned
		}
		return nil, fmt.Errorf("accept bid: %w", err)
	}

	job, err = assignJob(ctx, tx, jobID, bid.PrinterID, decimal.NewNullDecimal(bid.Amount))
	if err != nil {
		return nil, err
	}

	rejected, err := rejectPending(ctx, tx, jobID, bidID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &repository.AcceptResult{Bid: bid, Job: job, Rejected: rejected}, nil
}

func (r *BidRepository) Assign(ctx context.Context, jobID, printerID string, finalCost decimal.NullDecimal) (*repository.AcceptResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	job, err := lockJob(ctx, tx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Assigned() {
		return nil, domain.ErrJobAlreadyAssigned
	}
	if job.Status != domain.JobPending {
		return nil, domain.ErrJobNotOpen
	}

	job, err = assignJob(ctx, tx, jobID, printerID, finalCost)
	if err != nil {
		return nil, err
	}

	rejected, err := rejectPending(ctx, tx, jobID, "")
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &repository.AcceptResult{Job: job, Rejected: rejected}, nil
}

func (r *BidRepository) Resolve(ctx context.Context, bidID string, to domain.BidStatus) (*domain.Bid, error) {
	bid, err := scanBid(r.pool.QueryRow(ctx, `
		UPDATE bids SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+bidColumns, bidID, to))
	if errors.Is(err, domain.ErrBidNotFound) {
		if _, getErr := r.GetByID(ctx, bidID); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrBidNotPending
	}
	return bid, err
}

// ExpireStale skips rows another transaction holds, so concurrent sweepers
// and in-flight accepts never block each other.
func (r *BidRepository) ExpireStale(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Bid, error) {
	return r.query(ctx, `
		UPDATE bids SET status = 'expired', resolved_at = NOW()
		WHERE id IN (
			SELECT id FROM bids
			WHERE status = 'pending' AND created_at < $1
			ORDER BY created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+bidColumns, cutoff, limit)
}

func (r *BidRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Bid, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bids: %w", err)
	}
	defer rows.Close()
	return collectBids(rows)
}

func assignJob(ctx context.Context, tx pgx.Tx, jobID, printerID string, finalCost decimal.NullDecimal) (*domain.Job, error) {
	job, err := scanJob(tx.QueryRow(ctx, `
		UPDATE jobs SET printer_id = $2, final_cost = $3, status = 'matched', updated_at = NOW()
		WHERE id = $1
		RETURNING `+jobColumns, jobID, printerID, finalCost))
	if err != nil {
		return nil, fmt.Errorf("assign job: %w", err)
	}
	return job, nil
}

// rejectPending rejects every pending bid on jobID except keepID.
func rejectPending(ctx context.Context, tx pgx.Tx, jobID, keepID string) ([]*domain.Bid, error) {
	rows, err := tx.Query(ctx, `
		UPDATE bids SET status = 'rejected', resolved_at = NOW()
		WHERE job_id = $1 AND status = 'pending' AND id <> $2
		RETURNING `+bidColumns, jobID, keepID)
	if err != nil {
		return nil, fmt.Errorf("reject pending bids: %w", err)
	}
	defer rows.Close()
	return collectBids(rows)
}

func collectBids(rows pgx.Rows) ([]*domain.Bid, error) {
	var bids []*domain.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanBid(row rowScanner) (*domain.Bid, error) {
	var b domain.Bid
	err := row.Scan(
		&b.ID, &b.JobID, &b.PrinterID, &b.BidderID, &b.Amount, &b.EstimatedDays, &b.Notes,
		&b.Status, &b.CreatedAt, &b.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, fmt.Errorf("scan bid: %w", err)
	}
	return &b, nil
}
