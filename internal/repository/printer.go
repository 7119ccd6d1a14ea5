package repository

import (
	"context"

	"github.com/ErlanBelekov/printmarket/internal/domain"
)

// PrinterRepository is the Printer Directory. Search results keep a stable
// directory order (created_at, id) so ranking ties are deterministic.
type PrinterRepository interface {
	Create(ctx context.Context, p *domain.Printer) (*domain.Printer, error)
	GetByID(ctx context.Context, id string) (*domain.Printer, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Printer, error)
	Search(ctx context.Context, filter domain.PrinterFilter) ([]*domain.Printer, error)
	SetStatus(ctx context.Context, id, ownerID string, status domain.PrinterStatus) (*domain.Printer, error)
}
