package memory

import (
	"context"
	"strings"

	"github.com/ErlanBelekov/printmarket/internal/domain"
)

type PrinterRepository struct {
	s *Store
}

func (r *PrinterRepository) Create(_ context.Context, p *domain.Printer) (*domain.Printer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := clonePrinter(p)
	c.ID = newID()
	c.CreatedAt = r.s.now()
	r.s.printers[c.ID] = c
	r.s.printerOrder = append(r.s.printerOrder, c.ID)
	return clonePrinter(c), nil
}

func (r *PrinterRepository) GetByID(_ context.Context, id string) (*domain.Printer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.printers[id]
	if !ok {
		return nil, domain.ErrPrinterNotFound
	}
	return clonePrinter(p), nil
}

func (r *PrinterRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Printer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Printer
	for _, id := range r.s.printerOrder {
		if p := r.s.printers[id]; p.OwnerID == ownerID {
			out = append(out, clonePrinter(p))
		}
	}
	return out, nil
}

func (r *PrinterRepository) Search(_ context.Context, f domain.PrinterFilter) ([]*domain.Printer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Printer
	for _, id := range r.s.printerOrder {
		p := r.s.printers[id]
		if matchesFilter(p, f) {
			out = append(out, clonePrinter(p))
		}
	}
	return out, nil
}

func matchesFilter(p *domain.Printer, f domain.PrinterFilter) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.MinPrice.Valid && p.PricePerGram.LessThan(f.MinPrice.Decimal) {
		return false
	}
	if f.MaxPrice.Valid && p.PricePerGram.GreaterThan(f.MaxPrice.Decimal) {
		return false
	}
	if len(f.Materials) > 0 {
		for _, m := range f.Materials {
			if p.Supports(m) {
				return true
			}
		}
		return false
	}
	return true
}

func (r *PrinterRepository) SetStatus(_ context.Context, id, ownerID string, status domain.PrinterStatus) (*domain.Printer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.printers[id]
	if !ok {
		return nil, domain.ErrPrinterNotFound
	}
	if p.OwnerID != ownerID {
		return nil, domain.ErrPrinterNotOwned
	}
	p.Status = status
	return clonePrinter(p), nil
}
