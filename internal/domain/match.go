package domain

import "github.com/shopspring/decimal"

// MatchScore is derived on demand and never stored.
type MatchScore struct {
	Printer       *Printer
	Score         float64 // 0-100
	Reasons       []string
	EstimatedCost decimal.Decimal
}

type MatchCriteria struct {
	Materials []string
	Location  string
	MaxPrice  decimal.NullDecimal
	MinRating *float64
}
