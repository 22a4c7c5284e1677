package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/hindsight/internal/app"
	"github.com/bobmcallan/hindsight/internal/common"
	"github.com/bobmcallan/hindsight/internal/models"
	"github.com/bobmcallan/hindsight/internal/services/portfolio"
	"github.com/bobmcallan/hindsight/internal/services/simulation"
	"github.com/bobmcallan/hindsight/internal/storage"
)

// fakeMarket serves fixture histories keyed by symbol and a fixed index series
type fakeMarket struct {
	histories map[string]*models.PriceHistory
	index     []models.PricePoint
}

func (f *fakeMarket) GetAssetHistory(ctx context.Context, symbol string, start, end models.Date) (*models.PriceHistory, error) {
	h, ok := f.histories[symbol]
	if !ok {
		return nil, models.ErrMissingPriceData
	}
	return h, nil
}

func (f *fakeMarket) GetIndexHistory(ctx context.Context, period string, start, end models.Date) ([]models.PricePoint, error) {
	return f.index, nil
}

func (f *fakeMarket) SearchAssets(query string) []models.AssetInfo {
	if query == "apple" {
		return []models.AssetInfo{{Symbol: "AAPL", Name: "Apple Inc.", Type: "equity"}}
	}
	return []models.AssetInfo{}
}

func (f *fakeMarket) RefreshCached(ctx context.Context) error { return nil }

// fakeEvents resolves a fixed window; an empty window reports ErrInvalidWindow
type fakeEvents struct {
	window models.EventWindow
}

func (f *fakeEvents) ResolveWindow(ctx context.Context, event string) (*models.EventWindow, error) {
	if f.window.Start.IsZero() {
		return nil, models.ErrInvalidWindow
	}
	w := f.window
	return &w, nil
}

func (f *fakeEvents) AnalyzeEvent(ctx context.Context, event string) (*models.EventAnalysis, error) {
	w, err := f.ResolveWindow(ctx, event)
	if err != nil {
		return nil, err
	}
	change := -12.5
	return &models.EventAnalysis{
		Event:          event,
		Narrative:      "The market dropped sharply and later recovered.",
		RecoveryStatus: "Market recovered after 140 days",
		PercentChange:  &change,
		TimePeriod:     *w,
	}, nil
}

func history(symbol string, dates []models.Date, closes []float64) *models.PriceHistory {
	h := &models.PriceHistory{
		Symbol:     symbol,
		RangeStart: dates[0],
		RangeEnd:   dates[len(dates)-1],
	}
	for i, d := range dates {
		h.Points = append(h.Points, models.PricePoint{Date: d, Close: closes[i]})
	}
	return h
}

type testEnv struct {
	handler     http.Handler
	portfolioID string
}

func newTestEnv(t *testing.T, events *fakeEvents) *testEnv {
	t.Helper()
	logger := common.NewSilentLogger()
	config := common.NewDefaultConfig()

	store, err := storage.NewManager(logger, &common.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)

	// Recent dates so period-based lookups cover them, plus the 2020 event
	// window for simulations.
	recent := []models.Date{models.Today().AddDays(-10), models.Today().AddDays(-5), models.Today()}
	event := []models.Date{
		models.NewDate(2020, 2, 19),
		models.NewDate(2020, 3, 23),
		models.NewDate(2020, 8, 12),
	}
	all := append(append([]models.Date{}, event...), recent...)

	market := &fakeMarket{
		histories: map[string]*models.PriceHistory{
			"AAPL": history("AAPL", all, []float64{75, 57, 113, 100, 95, 110}),
			"MSFT": history("MSFT", all, []float64{157, 135, 209, 200, 210, 220}),
		},
		index: []models.PricePoint{
			{Date: models.NewDate(2020, 2, 19), Close: 2400},
			{Date: models.NewDate(2020, 3, 23), Close: 1800},
			{Date: models.NewDate(2020, 8, 12), Close: 2450},
		},
	}

	portfolioService := portfolio.NewService(store.Portfolios(), market, logger)
	simulationService := simulation.NewService(store.Portfolios(), market, events, nil, logger)

	p, err := portfolioService.Create(context.Background(), "Tech", []models.Asset{
		{Symbol: "AAPL", Name: "Apple Inc.", Type: "equity", Allocation: 60},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Type: "equity", Allocation: 40},
	}, nil)
	require.NoError(t, err)

	a := &app.App{
		Config:      config,
		Logger:      logger,
		Storage:     store,
		Market:      market,
		Portfolios:  portfolioService,
		Events:      events,
		Simulations: simulationService,
	}

	return &testEnv{
		handler:     NewServer(a).Handler(),
		portfolioID: p.ID,
	}
}

func covidEvents() *fakeEvents {
	return &fakeEvents{window: models.EventWindow{
		Start:        models.NewDate(2020, 2, 19),
		End:          models.NewDate(2020, 8, 12),
		DecisionDate: models.NewDate(2020, 5, 16),
	}}
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndVersion(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = doRequest(t, env.handler, http.MethodGet, "/api/version", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version"`)

	rec = doRequest(t, env.handler, http.MethodPost, "/api/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPortfolioCRUD(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	// create
	rec := doRequest(t, env.handler, http.MethodPost, "/api/portfolios", portfolioRequest{
		Name: "Bonds",
		Assets: []models.Asset{
			{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Type: "etf", Allocation: 100},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Portfolio
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	// get
	rec = doRequest(t, env.handler, http.MethodGet, "/api/portfolios/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// list contains both portfolios
	rec = doRequest(t, env.handler, http.MethodGet, "/api/portfolios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Portfolios []models.Portfolio `json:"portfolios"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Portfolios, 2)

	// update
	amount := 50000.0
	rec = doRequest(t, env.handler, http.MethodPut, "/api/portfolios/"+created.ID, portfolioRequest{
		Name: "Bonds Renamed",
		Assets: []models.Asset{
			{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Type: "etf", Allocation: 100},
		},
		InvestmentAmount: &amount,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bonds Renamed")

	// delete
	rec = doRequest(t, env.handler, http.MethodDelete, "/api/portfolios/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, env.handler, http.MethodGet, "/api/portfolios/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioCreateValidation(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodPost, "/api/portfolios", portfolioRequest{
		Name: "Bad",
		Assets: []models.Asset{
			{Symbol: "AAPL", Allocation: 60},
			{Symbol: "MSFT", Allocation: 30},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sum")
}

func TestPortfolioPerformance(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodGet, "/api/portfolios/"+env.portfolioID+"/performance?period=1mo", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Performance models.ValueSeries       `json:"performance"`
		Metrics     *models.PortfolioMetrics `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Metrics)
	assert.NotEmpty(t, resp.Performance)
	assert.InDelta(t, 10000.0, resp.Metrics.InitialInvestment, 0.01)
}

func TestSimulateEndpoint(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodPost, "/api/portfolios/"+env.portfolioID+"/simulate",
		eventRequest{Event: "COVID-19 pandemic crash"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.SimulationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Scenarios, 3)
	assert.Equal(t, models.ScenarioBuyAtBottom, result.Advice.BestScenario)
	assert.Contains(t, result.AssetPerformance, "AAPL")
}

func TestSimulateUnknownPortfolio(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodPost, "/api/portfolios/nope/simulate",
		eventRequest{Event: "COVID-19 pandemic crash"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeEventInvalidWindow(t *testing.T) {
	env := newTestEnv(t, &fakeEvents{})

	rec := doRequest(t, env.handler, http.MethodPost, "/api/events/analyze",
		eventRequest{Event: "an event with a backwards window"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyzeEvent(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodPost, "/api/events/analyze",
		eventRequest{Event: "COVID-19 pandemic crash"})
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis models.EventAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, "COVID-19 pandemic crash", analysis.Event)
	assert.NotEmpty(t, analysis.Narrative)
}

func TestMarketDataEndpoint(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodGet, "/api/market-data?period=1y", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol"`)
	assert.Contains(t, rec.Body.String(), `"data"`)
}

func TestAssetSearchEndpoint(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodGet, "/api/assets/search?q=apple", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AAPL")

	rec = doRequest(t, env.handler, http.MethodGet, "/api/assets/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssetHistoryEndpoint(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodGet, "/api/assets/AAPL?period=1mo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"close"`)

	rec = doRequest(t, env.handler, http.MethodGet, "/api/assets/ZZZZ", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCORSPreflights(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	req := httptest.NewRequest(http.MethodOptions, "/api/portfolios", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationIDHeader(t *testing.T) {
	env := newTestEnv(t, covidEvents())

	rec := doRequest(t, env.handler, http.MethodGet, "/api/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Correlation-ID"))
}
