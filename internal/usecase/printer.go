package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/shopspring/decimal"
)

type PrinterUsecase struct {
	repo repository.PrinterRepository
}

func NewPrinterUsecase(repo repository.PrinterRepository) *PrinterUsecase {
	return &PrinterUsecase{repo: repo}
}

type RegisterPrinterInput struct {
	OwnerID      string   `validate:"required"`
	Name         string   `validate:"required,max=120"`
	Location     string   `validate:"max=200"`
	Materials    []string `validate:"min=1,max=32,dive,required,max=64"`
	PricePerGram decimal.Decimal
	Description  string `validate:"max=2000"`
}

func (u *PrinterUsecase) Register(ctx context.Context, input RegisterPrinterInput) (*domain.Printer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.PricePerGram.IsPositive() {
		return nil, domain.Invalid("price_per_gram", "must be greater than 0")
	}
	if err := checkNumeric("price_per_gram", input.PricePerGram, pricePrecision, priceScale); err != nil {
		return nil, err
	}

	materials := normalizeMaterials(input.Materials)
	if len(materials) == 0 {
		return nil, domain.Invalid("materials", "must have at least 1 entries")
	}

	created, err := u.repo.Create(ctx, &domain.Printer{
		OwnerID:      input.OwnerID,
		Name:         strings.TrimSpace(input.Name),
		Location:     strings.TrimSpace(input.Location),
		Materials:    materials,
		PricePerGram: input.PricePerGram,
		Status:       domain.PrinterAvailable,
		Description:  input.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("register printer: %w", err)
	}
	return created, nil
}

func (u *PrinterUsecase) Get(ctx context.Context, id string) (*domain.Printer, error) {
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get printer: %w", err)
	}
	return p, nil
}

func (u *PrinterUsecase) ListMine(ctx context.Context, ownerID string) ([]*domain.Printer, error) {
	printers, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list printers: %w", err)
	}
	return printers, nil
}

func (u *PrinterUsecase) SetStatus(ctx context.Context, id, ownerID string, status domain.PrinterStatus) (*domain.Printer, error) {
	if !domain.ValidPrinterStatus(status) {
		return nil, domain.Invalid("status", "must be one of: available busy unavailable")
	}
	p, err := u.repo.SetStatus(ctx, id, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("set printer status: %w", err)
	}
	return p, nil
}

func (u *PrinterUsecase) Search(ctx context.Context, filter domain.PrinterFilter) ([]*domain.Printer, error) {
	if filter.Status != "" && !domain.ValidPrinterStatus(filter.Status) {
		return nil, domain.Invalid("status", "must be one of: available busy unavailable")
	}
	filter.Materials = normalizeMaterials(filter.Materials)
	printers, err := u.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search printers: %w", err)
	}
	return printers, nil
}

// normalizeMaterials upper-cases, trims and de-duplicates, keeping first-seen order.
func normalizeMaterials(in []string) []string {
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = normalizeMaterial(m)
		if m == "" || slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}
