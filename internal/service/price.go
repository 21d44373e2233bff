package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"etfolio/internal/apperr"
	"etfolio/internal/models"
	"etfolio/internal/quote"
	"etfolio/internal/repository"
)

const defaultFreshnessWindow = 30 * time.Minute

// PriceService caches external quote lookups per ticker. A cached entry is
// served as long as it is younger than the freshness window; refreshes evict
// first so a failed fetch never leaves a stale entry masquerading as fresh.
type PriceService struct {
	Prices          repository.PriceRepository
	Provider        quote.Provider
	Logger          *zap.Logger
	FreshnessWindow time.Duration
}

func (s *PriceService) window() time.Duration {
	if s.FreshnessWindow <= 0 {
		return defaultFreshnessWindow
	}
	return s.FreshnessWindow
}

func (s *PriceService) GetPrice(ctx context.Context, ticker string) (*models.EtfPrice, error) {
	cached, err := s.Prices.FindByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if cached != nil && time.Since(cached.FetchedAt) < s.window() {
		return cached, nil
	}
	return s.fetchAndSave(ctx, ticker)
}

// RefreshPrice forces a fetch regardless of freshness.
func (s *PriceService) RefreshPrice(ctx context.Context, ticker string) (*models.EtfPrice, error) {
	if err := s.Prices.Delete(ctx, ticker); err != nil {
		return nil, err
	}
	return s.fetchAndSave(ctx, ticker)
}

// RefreshAll fetches each ticker independently. A failing ticker is logged
// and omitted from the result; partial success is the expected outcome.
func (s *PriceService) RefreshAll(ctx context.Context, tickers []string) []models.EtfPrice {
	out := make([]models.EtfPrice, 0, len(tickers))
	for _, ticker := range tickers {
		price, err := s.fetchAndSave(ctx, ticker)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("skipping ticker", zap.String("ticker", ticker), zap.Error(err))
			}
			continue
		}
		out = append(out, *price)
	}
	return out
}

func (s *PriceService) AllPrices(ctx context.Context) ([]models.EtfPrice, error) {
	return s.Prices.FindAll(ctx)
}

func (s *PriceService) fetchAndSave(ctx context.Context, ticker string) (*models.EtfPrice, error) {
	q, err := s.Provider.Fetch(ctx, ticker)
	if err != nil {
		return nil, apperr.Provider(ticker, err)
	}
	price := &models.EtfPrice{
		Ticker:    ticker,
		Price:     q.Price,
		Currency:  q.Currency,
		Source:    s.Provider.Name(),
		FetchedAt: time.Now().UTC(),
	}
	saved, err := s.Prices.Save(ctx, price)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Debug("price saved",
			zap.String("ticker", ticker),
			zap.String("price", q.Price.String()),
			zap.String("currency", q.Currency))
	}
	return saved, nil
}
