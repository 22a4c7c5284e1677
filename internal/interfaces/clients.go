// Package interfaces defines service contracts for Hindsight
package interfaces

import (
	"context"

	"github.com/bobmcallan/hindsight/internal/models"
)

// MarketDataClient fetches historical price data from an external provider.
// Implementations must return points ascending by date.
type MarketDataClient interface {
	// GetDailyHistory retrieves daily bars for a symbol across [start, end].
	GetDailyHistory(ctx context.Context, symbol string, start, end models.Date) ([]models.PricePoint, error)
}

// GeminiClient provides AI operations: event classification and text
// generation. Classification output is untrusted; callers validate the
// dates before use.
type GeminiClient interface {
	// ClassifyEvent maps a free-text event description to a date range.
	ClassifyEvent(ctx context.Context, event string) (*models.EventClassification, error)

	// GenerateNarrative produces an analysis paragraph for an event's market impact.
	GenerateNarrative(ctx context.Context, event string, impact *models.MarketImpact) (string, error)

	// GenerateAdvice produces investment advice comparing scenario outcomes.
	GenerateAdvice(ctx context.Context, event string, results []models.ScenarioResult) (string, error)

	Close() error
}
