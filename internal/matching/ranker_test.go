package matching_test

import (
	"testing"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/matching"
	"github.com/shopspring/decimal"
)

func printer(id string, materials []string, rating float64) *domain.Printer {
	return &domain.Printer{
		ID:           id,
		Materials:    materials,
		PricePerGram: decimal.RequireFromString("0.20"),
		Status:       domain.PrinterAvailable,
		Rating:       rating,
	}
}

func TestRank_DropsIncompatibleAndSortsDescending(t *testing.T) {
	job := &domain.Job{Material: ptr("PETG")}
	candidates := []*domain.Printer{
		printer("low", []string{"PETG"}, 0),
		printer("none", []string{"PLA"}, 5),
		printer("high", []string{"petg"}, 4.8),
		printer("mid", []string{"PETG"}, 4.1),
	}

	got := matching.NewScorer(nil).Rank(job, candidates, 10)

	want := []string{"high", "mid", "low"}
	if len(got) != len(want) {
		t.Fatalf("got %d matches, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].Printer.ID != id {
			t.Errorf("match[%d] = %s, want %s", i, got[i].Printer.ID, id)
		}
	}
}

func TestRank_TiesKeepCandidateOrder(t *testing.T) {
	job := &domain.Job{}
	candidates := []*domain.Printer{
		printer("a", []string{"PLA"}, 4.0),
		printer("b", []string{"PLA"}, 4.0),
		printer("c", []string{"PLA"}, 4.0),
	}

	got := matching.NewScorer(nil).Rank(job, candidates, 2)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	if got[0].Printer.ID != "a" || got[1].Printer.ID != "b" {
		t.Errorf("order = [%s %s], want [a b]", got[0].Printer.ID, got[1].Printer.ID)
	}
}

func TestRank_Empty(t *testing.T) {
	got := matching.NewScorer(nil).Rank(&domain.Job{Material: ptr("ABS")}, []*domain.Printer{printer("x", []string{"PLA"}, 5)}, 1)
	if len(got) != 0 {
		t.Errorf("got %d matches, want 0", len(got))
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, def, want int
	}{
		{0, 10, 10},
		{-3, 10, 10},
		{1, 10, 1},
		{25, 10, 25},
		{500, 10, matching.MaxLimit},
	}
	for _, tt := range tests {
		if got := matching.ClampLimit(tt.in, tt.def); got != tt.want {
			t.Errorf("ClampLimit(%d, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestFilterMinRating(t *testing.T) {
	all := []*domain.Printer{printer("a", []string{"PLA"}, 3.9), printer("b", []string{"PLA"}, 4.5)}

	if got := matching.FilterMinRating(all, nil); len(got) != 2 {
		t.Errorf("nil min kept %d, want 2", len(got))
	}
	got := matching.FilterMinRating(all, ptr(4.0))
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("min 4.0 kept %v, want [b]", got)
	}
	if len(all) != 2 || all[0].ID != "a" {
		t.Error("input slice was modified")
	}
}
