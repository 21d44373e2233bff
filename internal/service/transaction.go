package service

import (
	"context"
	"time"

	"etfolio/internal/apperr"
	"etfolio/internal/models"
	"etfolio/internal/repository"
)

// TransactionService manages buys and sells under an existing ETF. Every
// operation resolves the parent through the owner's scope first, so a foreign
// transaction id behaves exactly like a missing one.
type TransactionService struct {
	Transactions repository.TransactionRepository
	Etfs         repository.EtfRepository
	Users        *UserService
}

func (s *TransactionService) ListForEtf(ctx context.Context, etfID uint64, ownerEmail string) ([]models.EtfTransaction, error) {
	if _, err := s.ownedEtf(ctx, etfID, ownerEmail); err != nil {
		return nil, err
	}
	return s.Transactions.FindByEtfID(ctx, etfID)
}

func (s *TransactionService) Create(ctx context.Context, etfID uint64, tx *models.EtfTransaction, ownerEmail string) (*models.EtfTransaction, error) {
	if _, err := s.ownedEtf(ctx, etfID, ownerEmail); err != nil {
		return nil, err
	}
	if tx.Type != models.TransactionBuy && tx.Type != models.TransactionSell {
		return nil, apperr.Validation("transaction.invalid.type", string(tx.Type))
	}
	tx.ID = 0
	tx.EtfID = etfID
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	return s.Transactions.Save(ctx, tx)
}

func (s *TransactionService) Update(ctx context.Context, id uint64, updated *models.EtfTransaction, ownerEmail string) (*models.EtfTransaction, error) {
	existing, err := s.ownedTransaction(ctx, id, ownerEmail)
	if err != nil {
		return nil, err
	}
	existing.ApplyUpdate(updated)
	return s.Transactions.Save(ctx, existing)
}

func (s *TransactionService) Delete(ctx context.Context, id uint64, ownerEmail string) error {
	if _, err := s.ownedTransaction(ctx, id, ownerEmail); err != nil {
		return err
	}
	return s.Transactions.Delete(ctx, id)
}

func (s *TransactionService) ownedEtf(ctx context.Context, etfID uint64, ownerEmail string) (*models.Etf, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	etf, err := s.Etfs.FindByIDAndOwner(ctx, etfID, user.ID)
	if err != nil {
		return nil, err
	}
	if etf == nil {
		return nil, apperr.NotFound("transaction.etf.not.found", etfID)
	}
	return etf, nil
}

func (s *TransactionService) ownedTransaction(ctx context.Context, id uint64, ownerEmail string) (*models.EtfTransaction, error) {
	existing, err := s.Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("transaction.not.found", id)
	}
	if _, err := s.ownedEtf(ctx, existing.EtfID, ownerEmail); err != nil {
		return nil, apperr.NotFound("transaction.not.found", id)
	}
	return existing, nil
}
