package matching_test

import (
	"slices"
	"testing"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/matching"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func weight(g string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(g))
}

func perfectPrinter() *domain.Printer {
	return &domain.Printer{
		ID:            "printer-1",
		Location:      "Austin",
		Materials:     []string{"PLA", "PETG"},
		PricePerGram:  decimal.RequireFromString("0.04"),
		Status:        domain.PrinterAvailable,
		Rating:        4.6,
		CompletedJobs: 120,
	}
}

func TestScore_MissingMaterial_IsZero(t *testing.T) {
	job := &domain.Job{Material: ptr("PETG"), EstimatedWeight: weight("100")}
	a := &domain.Printer{Materials: []string{"PLA", "TPU"}, PricePerGram: decimal.RequireFromString("0.01"), Status: domain.PrinterAvailable, Rating: 5}
	b := &domain.Printer{Materials: []string{"PLA", "PETG"}, PricePerGram: decimal.RequireFromString("0.01"), Status: domain.PrinterAvailable}

	s := matching.NewScorer(nil)

	got := s.Score(job, a)
	if got.Score != 0 {
		t.Errorf("score(A) = %v, want 0", got.Score)
	}
	if !got.EstimatedCost.IsZero() {
		t.Errorf("cost(A) = %v, want 0", got.EstimatedCost)
	}
	if len(got.Reasons) != 1 {
		t.Errorf("reasons(A) = %v, want exactly one", got.Reasons)
	}

	if s.Score(job, b).Score <= 0 {
		t.Error("score(B) should be positive")
	}
}

func TestScore_PerfectPrinter_CappedAt100(t *testing.T) {
	job := &domain.Job{Material: ptr("PLA"), Notes: "austin", EstimatedWeight: weight("50")}

	got := matching.NewScorer(matching.NotesLocation).Score(job, perfectPrinter())
	if got.Score != 100 {
		t.Errorf("score = %v, want 100", got.Score)
	}
	if want := decimal.RequireFromString("2"); !got.EstimatedCost.Equal(want) {
		t.Errorf("cost = %v, want %v", got.EstimatedCost, want)
	}
	for _, r := range []string{"Local printer", "Available now", "Very competitive pricing"} {
		if !slices.Contains(got.Reasons, r) {
			t.Errorf("reasons %v missing %q", got.Reasons, r)
		}
	}
}

func TestScore_Unavailable_NoAvailabilityPoints(t *testing.T) {
	p := perfectPrinter()
	p.Status = domain.PrinterBusy
	p.CompletedJobs = 0
	job := &domain.Job{Material: ptr("PLA"), Notes: "Austin"}

	got := matching.NewScorer(nil).Score(job, p)
	if got.Score != 90 {
		t.Errorf("score = %v, want 90", got.Score)
	}
	if slices.Contains(got.Reasons, "Available now") {
		t.Errorf("unexpected availability reason in %v", got.Reasons)
	}
}

func TestScore_NoMaterialDeclared_NotPenalized(t *testing.T) {
	p := &domain.Printer{Materials: []string{"ABS"}, PricePerGram: decimal.RequireFromString("1")}
	got := matching.NewScorer(nil).Score(&domain.Job{}, p)
	if got.Score != 30 {
		t.Errorf("score = %v, want 30", got.Score)
	}
	if !got.EstimatedCost.IsZero() {
		t.Errorf("cost = %v, want 0 without weight", got.EstimatedCost)
	}
}

func TestScore_Tiers(t *testing.T) {
	tests := []struct {
		name   string
		rating float64
		price  string
		jobs   int
		want   float64
	}{
		{"great rating good price", 4.0, "0.10", 0, 30 + 16 + 10.5 + 10},
		{"good rating fair price", 3.0, "0.15", 10, 30 + 10 + 6 + 10 + 1},
		{"low rating expensive", 2.9, "0.16", 50, 30 + 0 + 0 + 10 + 3},
		{"unrated", 0, "0.05", 9, 30 + 15 + 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &domain.Printer{
				Materials:     []string{"PLA"},
				PricePerGram:  decimal.RequireFromString(tc.price),
				Status:        domain.PrinterAvailable,
				Rating:        tc.rating,
				CompletedJobs: tc.jobs,
			}
			got := matching.NewScorer(nil).Score(&domain.Job{Material: ptr("pla")}, p)
			if got.Score != tc.want {
				t.Errorf("score = %v, want %v", got.Score, tc.want)
			}
		})
	}
}

func TestScore_BonusOnlyFillsDeficit(t *testing.T) {
	p := perfectPrinter()
	p.Rating = 4.0 // 96 base
	job := &domain.Job{Material: ptr("PLA"), Notes: "Austin"}

	if got := matching.NewScorer(nil).Score(job, p).Score; got != 100 {
		t.Errorf("score = %v, want 100 (96 + 5 capped)", got)
	}
}

func TestScore_LocationSourceIsConfigurable(t *testing.T) {
	p := perfectPrinter()
	job := &domain.Job{Material: ptr("PLA"), Notes: "please sand the supports", Location: "Austin"}

	notes := matching.NewScorer(matching.NotesLocation).Score(job, p)
	field := matching.NewScorer(matching.FieldLocation).Score(job, p)
	if slices.Contains(notes.Reasons, "Local printer") {
		t.Errorf("notes source should not match location, reasons %v", notes.Reasons)
	}
	if !slices.Contains(field.Reasons, "Local printer") {
		t.Errorf("field source should match location, reasons %v", field.Reasons)
	}
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	f := gofakeit.New(42)
	materials := []string{"PLA", "PETG", "ABS", "TPU", "Nylon"}
	s := matching.NewScorer(nil)

	for i := 0; i < 500; i++ {
		p := &domain.Printer{
			Location:      f.City(),
			Materials:     []string{f.RandomString(materials)},
			PricePerGram:  decimal.NewFromFloat(f.Float64Range(0.01, 0.3)).Round(3),
			Status:        domain.PrinterStatus(f.RandomString([]string{"available", "busy"})),
			Rating:        f.Float64Range(0, 5),
			CompletedJobs: f.IntRange(0, 300),
		}
		job := &domain.Job{Notes: f.City(), EstimatedWeight: weight("120")}
		if f.Bool() {
			job.Material = ptr(f.RandomString(materials))
		}

		got := s.Score(job, p)
		if got.Score < 0 || got.Score > 100 {
			t.Fatalf("score %v out of range for %+v", got.Score, p)
		}
		if job.Material != nil && !p.Supports(*job.Material) && got.Score != 0 {
			t.Fatalf("incompatible printer scored %v", got.Score)
		}
	}
}

func TestLocationSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Austin", "austin", 1},
		{"Austin", "Austin, TX", 0.7},
		{"Austin, TX", "Dallas TX", 0.25},
		{"Portland Oregon USA", "Salem Oregon USA", 0.5 * 2 / 3},
		{"Berlin", "Tokyo", 0},
		{"", "Tokyo", 0},
	}
	for _, tc := range tests {
		if got := matching.LocationSimilarity(tc.a, tc.b); got != tc.want {
			t.Errorf("LocationSimilarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
