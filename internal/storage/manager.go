package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/hindsight/internal/common"
	"github.com/bobmcallan/hindsight/internal/interfaces"
	"github.com/bobmcallan/hindsight/internal/models"
)

// Manager coordinates the storage areas on top of a single FileStore.
type Manager struct {
	store      *FileStore
	portfolios *portfolioStore
	market     *marketStore
	logger     *common.Logger
}

// NewManager opens the file store and wires the typed stores.
func NewManager(logger *common.Logger, config *common.StorageConfig) (*Manager, error) {
	fs, err := NewFileStore(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open file store: %w", err)
	}

	return &Manager{
		store:      fs,
		portfolios: &portfolioStore{store: fs},
		market:     &marketStore{store: fs},
		logger:     logger,
	}, nil
}

// Portfolios returns the portfolio store
func (m *Manager) Portfolios() interfaces.PortfolioStore {
	return m.portfolios
}

// MarketData returns the market data store
func (m *Manager) MarketData() interfaces.MarketDataStore {
	return m.market
}

// Close releases storage resources. File-based storage holds no open
// handles between operations, so this is a no-op kept for the interface.
func (m *Manager) Close() error {
	return nil
}

// portfolioStore persists portfolios under portfolios/ with version rotation.
type portfolioStore struct {
	store *FileStore
}

func (s *portfolioStore) Get(ctx context.Context, id string) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := s.store.readJSON("portfolios", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *portfolioStore) Save(ctx context.Context, p *models.Portfolio) error {
	if p.ID == "" {
		return fmt.Errorf("%w: portfolio ID is required", models.ErrInvalidInput)
	}
	return s.store.writeJSON("portfolios", p.ID, p, true)
}

func (s *portfolioStore) Delete(ctx context.Context, id string) error {
	return s.store.deleteJSON("portfolios", id)
}

func (s *portfolioStore) List(ctx context.Context) ([]*models.Portfolio, error) {
	ids, err := s.store.listKeys("portfolios")
	if err != nil {
		return nil, err
	}

	portfolios := make([]*models.Portfolio, 0, len(ids))
	for _, id := range ids {
		var p models.Portfolio
		if err := s.store.readJSON("portfolios", id, &p); err != nil {
			s.store.logger.Warn().Err(err).Str("id", id).Msg("Skipping unreadable portfolio file")
			continue
		}
		portfolios = append(portfolios, &p)
	}
	return portfolios, nil
}

// marketStore caches fetched price histories under market/, unversioned.
type marketStore struct {
	store *FileStore
}

func (s *marketStore) GetHistory(ctx context.Context, symbol string) (*models.PriceHistory, error) {
	var h models.PriceHistory
	if err := s.store.readJSON("market", symbol, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *marketStore) SaveHistory(ctx context.Context, h *models.PriceHistory) error {
	if h.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", models.ErrInvalidInput)
	}
	h.LastUpdated = time.Now().UTC()
	return s.store.writeJSON("market", h.Symbol, h, false)
}

func (s *marketStore) ListSymbols(ctx context.Context) ([]string, error) {
	return s.store.listKeys("market")
}
