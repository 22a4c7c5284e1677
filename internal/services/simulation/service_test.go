package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/hindsight/internal/common"
	"github.com/bobmcallan/hindsight/internal/models"
	"github.com/bobmcallan/hindsight/internal/storage"
)

// fakeEvents returns a fixed window for any event text
type fakeEvents struct {
	window models.EventWindow
	err    error
}

func (f *fakeEvents) ResolveWindow(ctx context.Context, event string) (*models.EventWindow, error) {
	if f.err != nil {
		return nil, f.err
	}
	w := f.window
	return &w, nil
}

func (f *fakeEvents) AnalyzeEvent(ctx context.Context, event string) (*models.EventAnalysis, error) {
	return nil, nil
}

// fakeMarket serves the covid fixture histories
type fakeMarket struct {
	histories map[string]*models.PriceHistory
}

func (f *fakeMarket) GetAssetHistory(ctx context.Context, symbol string, start, end models.Date) (*models.PriceHistory, error) {
	h, ok := f.histories[symbol]
	if !ok {
		return nil, models.ErrMissingPriceData
	}
	return h, nil
}

func (f *fakeMarket) GetIndexHistory(ctx context.Context, period string, start, end models.Date) ([]models.PricePoint, error) {
	return nil, nil
}

func (f *fakeMarket) SearchAssets(query string) []models.AssetInfo { return nil }

func (f *fakeMarket) RefreshCached(ctx context.Context) error { return nil }

func TestSimulateEvent(t *testing.T) {
	ctx := context.Background()
	m, err := storage.NewManager(common.NewSilentLogger(), &common.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)

	p := covidPortfolio()
	require.NoError(t, m.Portfolios().Save(ctx, p))

	svc := NewService(
		m.Portfolios(),
		&fakeMarket{histories: covidHistories()},
		&fakeEvents{window: covidWindow()},
		nil,
		common.NewSilentLogger(),
	)

	result, err := svc.SimulateEvent(ctx, p.ID, "COVID-19 pandemic crash")
	require.NoError(t, err)

	assert.Equal(t, p.ID, result.PortfolioID)
	assert.Equal(t, "Tech Heavy", result.PortfolioName)
	assert.Equal(t, covidWindow(), result.TimePeriod)
	require.Len(t, result.Scenarios, 3)

	assert.Equal(t, models.ScenarioBuyAtBottom, result.Advice.BestScenario)
	assert.NotEmpty(t, result.Advice.Text)

	require.Contains(t, result.AssetPerformance, "AAPL")
	aapl := result.AssetPerformance["AAPL"]
	assert.Equal(t, "Apple Inc.", aapl.Name)
	assert.Equal(t, 40.0, aapl.Allocation)
	assert.Len(t, aapl.Prices, 3)
}

func TestSimulateEventUnknownPortfolio(t *testing.T) {
	m, err := storage.NewManager(common.NewSilentLogger(), &common.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)

	svc := NewService(m.Portfolios(), &fakeMarket{}, &fakeEvents{}, nil, common.NewSilentLogger())

	_, err = svc.SimulateEvent(context.Background(), "missing", "dot-com bust")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSimulateEventWindowError(t *testing.T) {
	ctx := context.Background()
	m, err := storage.NewManager(common.NewSilentLogger(), &common.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)

	p := covidPortfolio()
	require.NoError(t, m.Portfolios().Save(ctx, p))

	svc := NewService(
		m.Portfolios(),
		&fakeMarket{},
		&fakeEvents{err: models.ErrInvalidWindow},
		nil,
		common.NewSilentLogger(),
	)

	_, err = svc.SimulateEvent(ctx, p.ID, "tomorrow's crash")
	assert.ErrorIs(t, err, models.ErrInvalidWindow)
}
