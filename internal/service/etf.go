package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"etfolio/internal/apperr"
	"etfolio/internal/models"
	"etfolio/internal/repository"
)

// EtfService enforces the invariants the storage layer cannot: per-user
// ticker uniqueness, ownership scoping, and the no-delete-with-transactions
// rule. It only ever talks to the backend through the repository interface.
type EtfService struct {
	Etfs   repository.EtfRepository
	Users  *UserService
	Logger *zap.Logger
}

func (s *EtfService) List(ctx context.Context, ownerEmail string) ([]models.Etf, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	return s.Etfs.FindByOwner(ctx, user.ID)
}

// ListInternal returns every ETF regardless of owner. Used by the price
// refresh job, never exposed over HTTP.
func (s *EtfService) ListInternal(ctx context.Context) ([]models.Etf, error) {
	return s.Etfs.FindAll(ctx)
}

func (s *EtfService) Get(ctx context.Context, id uint64, ownerEmail string) (*models.Etf, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	etf, err := s.Etfs.FindByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if etf == nil {
		return nil, apperr.NotFound("etf.not.found", id)
	}
	return etf, nil
}

func (s *EtfService) Create(ctx context.Context, etf *models.Etf, ownerEmail string) (*models.Etf, error) {
	user, err := s.Users.FindOrCreate(ctx, ownerEmail, "local", ownerEmail)
	if err != nil {
		return nil, err
	}
	if err := validateEtf(etf); err != nil {
		return nil, err
	}

	owned, err := s.Etfs.FindByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, existing := range owned {
		if strings.EqualFold(existing.Ticker, etf.Ticker) {
			return nil, apperr.Conflict("etf.duplicate.ticker", etf.Ticker)
		}
	}

	if etf.ID != 0 {
		exists, err := s.Etfs.ExistsByID(ctx, etf.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.Conflict("etf.duplicate.id", etf.ID)
		}
		// Both backends assign identity on insert; a client-supplied id would
		// turn the insert into a replace.
		etf.ID = 0
	}

	etf.UserID = user.ID
	now := time.Now().UTC()
	etf.CreatedAt = now
	etf.UpdatedAt = now
	return s.Etfs.Save(ctx, etf)
}

func (s *EtfService) Update(ctx context.Context, id uint64, updated *models.Etf, ownerEmail string) (*models.Etf, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	if err := validateEtf(updated); err != nil {
		return nil, err
	}

	owned, err := s.Etfs.FindByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, existing := range owned {
		if existing.ID != id && strings.EqualFold(existing.Ticker, updated.Ticker) {
			return nil, apperr.Conflict("etf.duplicate.ticker", updated.Ticker)
		}
	}

	existing, err := s.Etfs.FindByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("etf.not.found", id)
	}

	// Field-by-field copy onto the stored record; replacing it wholesale
	// would orphan the transaction collection.
	existing.ApplyUpdate(updated)
	return s.Etfs.Save(ctx, existing)
}

// Delete returns the removed record so callers can describe it (snapshot
// change details) without a second fetch.
func (s *EtfService) Delete(ctx context.Context, id uint64, ownerEmail string) (*models.Etf, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	etf, err := s.Etfs.FindByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if etf == nil {
		return nil, apperr.NotFound("etf.not.found", id)
	}
	if len(etf.Transactions) > 0 {
		return nil, apperr.Validation("etf.delete.has.transactions", id)
	}
	if err := s.Etfs.Delete(ctx, id); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("etf deleted", zap.Uint64("id", id), zap.String("ticker", etf.Ticker))
	}
	return etf, nil
}

func validateEtf(etf *models.Etf) error {
	if strings.TrimSpace(etf.Ticker) == "" {
		return apperr.Validation("etf.missing.ticker")
	}
	if etf.Type == "" {
		return apperr.Validation("etf.missing.type")
	}
	return nil
}
