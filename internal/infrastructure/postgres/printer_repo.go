package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const printerColumns = `id, owner_id, name, location, materials, price_per_gram, status,
	rating, completed_jobs, description, created_at`

type PrinterRepository struct {
	pool *pgxpool.Pool
}

func NewPrinterRepository(pool *pgxpool.Pool) *PrinterRepository {
	return &PrinterRepository{pool: pool}
}

func (r *PrinterRepository) Create(ctx context.Context, p *domain.Printer) (*domain.Printer, error) {
	query := `
		INSERT INTO printers (
			owner_id, name, location, materials, price_per_gram, status, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + printerColumns

	row := r.pool.QueryRow(ctx, query,
		p.OwnerID, p.Name, p.Location, p.Materials, p.PricePerGram, p.Status, p.Description,
	)
	return scanPrinter(row)
}

func (r *PrinterRepository) GetByID(ctx context.Context, id string) (*domain.Printer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+printerColumns+` FROM printers WHERE id = $1`, id)
	return scanPrinter(row)
}

func (r *PrinterRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Printer, error) {
	return r.query(ctx,
		`SELECT `+printerColumns+` FROM printers WHERE owner_id = $1 ORDER BY created_at, id`,
		ownerID)
}

func (r *PrinterRepository) Search(ctx context.Context, f domain.PrinterFilter) ([]*domain.Printer, error) {
	var (
		args  []any
		where []string
	)

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(f.Materials) > 0 {
		upper := make([]string, len(f.Materials))
		for i, m := range f.Materials {
			upper[i] = strings.ToUpper(m)
		}
		args = append(args, upper)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(materials) m WHERE upper(m) = ANY($%d::text[]))", len(args)))
	}
	if f.Location != "" {
		args = append(args, "%"+escapeLike(f.Location)+"%")
		where = append(where, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if f.MinPrice.Valid {
		args = append(args, f.MinPrice.Decimal)
		where = append(where, fmt.Sprintf("price_per_gram >= $%d", len(args)))
	}
	if f.MaxPrice.Valid {
		args = append(args, f.MaxPrice.Decimal)
		where = append(where, fmt.Sprintf("price_per_gram <= $%d", len(args)))
	}

	query := `SELECT ` + printerColumns + ` FROM printers`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	return r.query(ctx, query, args...)
}

func (r *PrinterRepository) SetStatus(ctx context.Context, id, ownerID string, status domain.PrinterStatus) (*domain.Printer, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE printers SET status = $3 WHERE id = $1 AND owner_id = $2 RETURNING `+printerColumns,
		id, ownerID, status)
	p, err := scanPrinter(row)
	if errors.Is(err, domain.ErrPrinterNotFound) {
		// Distinguish missing from not owned
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrPrinterNotOwned
	}
	return p, err
}

func (r *PrinterRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Printer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query printers: %w", err)
	}
	defer rows.Close()

	var printers []*domain.Printer
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, err
		}
		printers = append(printers, p)
	}
	return printers, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanPrinter(row rowScanner) (*domain.Printer, error) {
	var p domain.Printer
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Location, &p.Materials, &p.PricePerGram, &p.Status,
		&p.Rating, &p.CompletedJobs, &p.Description, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPrinterNotFound
		}
		return nil, fmt.Errorf("scan printer: %w", err)
	}
	return &p, nil
}
