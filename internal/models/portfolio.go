package models

import (
	"fmt"
	"math"
	"time"
)

// DefaultInvestmentAmount is the dollar amount assumed when a portfolio does
// not specify one. Applied only via Portfolio.Investment; callers must not
// re-default at their own call sites.
const DefaultInvestmentAmount = 10000

// AllocationTolerance is the permitted deviation of an allocation sum from 100.
const AllocationTolerance = 0.01

// Asset represents a single position in a portfolio
type Asset struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Type       string  `json:"type"` // fund, etf, or equity
	Allocation float64 `json:"allocation"`
}

// DollarAmount returns the asset's share of an investment amount.
// Fails with ErrInvalidInput for a negative or non-finite amount.
func (a Asset) DollarAmount(investmentAmount float64) (float64, error) {
	if investmentAmount < 0 || math.IsNaN(investmentAmount) || math.IsInf(investmentAmount, 0) {
		return 0, fmt.Errorf("%w: investment amount %v", ErrInvalidInput, investmentAmount)
	}
	return investmentAmount * a.Allocation / 100, nil
}

// Portfolio represents a user's investment portfolio. The simulation core
// treats it as an immutable snapshot; mutation happens only through the
// portfolio service.
type Portfolio struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Assets           []Asset   `json:"assets"`
	InvestmentAmount *float64  `json:"investment_amount,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Investment returns the portfolio's investment amount, substituting
// DefaultInvestmentAmount when unset or non-positive. This is the single
// defaulting boundary for the $10,000 fallback.
func (p *Portfolio) Investment() float64 {
	if p.InvestmentAmount == nil || *p.InvestmentAmount <= 0 {
		return DefaultInvestmentAmount
	}
	return *p.InvestmentAmount
}

// ValidateAssets checks that the asset set is non-empty, has no duplicate
// symbols, each allocation is within [0, 100], and allocations sum to 100
// within AllocationTolerance. Enforced at save time and re-checked at the
// simulation boundary; during editing the invariant may transiently fail.
func ValidateAssets(assets []Asset) error {
	if len(assets) == 0 {
		return fmt.Errorf("%w: portfolio has no assets", ErrAllocation)
	}

	seen := make(map[string]bool, len(assets))
	sum := 0.0
	for _, a := range assets {
		if a.Symbol == "" {
			return fmt.Errorf("%w: asset symbol is required", ErrAllocation)
		}
		if seen[a.Symbol] {
			return fmt.Errorf("%w: duplicate symbol %s", ErrAllocation, a.Symbol)
		}
		seen[a.Symbol] = true

		if math.IsNaN(a.Allocation) || a.Allocation < 0 || a.Allocation > 100 {
			return fmt.Errorf("%w: allocation %.2f for %s outside [0, 100]", ErrAllocation, a.Allocation, a.Symbol)
		}
		sum += a.Allocation
	}

	if math.Abs(sum-100) > AllocationTolerance {
		return fmt.Errorf("%w: allocations sum to %.2f, expected 100", ErrAllocation, sum)
	}
	return nil
}

// Validate checks the portfolio is ready to persist or simulate.
func (p *Portfolio) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: portfolio name is required", ErrInvalidInput)
	}
	if p.InvestmentAmount != nil {
		v := *p.InvestmentAmount
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: investment amount %v", ErrInvalidInput, v)
		}
	}
	return ValidateAssets(p.Assets)
}
