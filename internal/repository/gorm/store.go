// Package gormrepository is the relational backend. Id assignment is
// database-generated identity; user-scoped lookups are native queries.
package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"etfolio/internal/models"
	"etfolio/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Repositories returns the full bundle backed by this store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Etfs:         s,
		Transactions: (*transactionStore)(s),
		Assets:       (*assetStore)(s),
		Snapshots:    (*snapshotStore)(s),
		Users:        (*userStore)(s),
		Prices:       (*priceStore)(s),
	}
}

// --- ETFs -------------------------------------------------------------------

func (s *Store) FindAll(ctx context.Context) ([]models.Etf, error) {
	var items []models.Etf
	if err := s.db.WithContext(ctx).Preload("Transactions").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) FindByID(ctx context.Context, id uint64) (*models.Etf, error) {
	var item models.Etf
	err := s.db.WithContext(ctx).Preload("Transactions").First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) FindByOwner(ctx context.Context, userID uint64) ([]models.Etf, error) {
	var items []models.Etf
	if err := s.db.WithContext(ctx).
		Preload("Transactions").
		Where("user_id = ?", userID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) FindByIDAndOwner(ctx context.Context, id, userID uint64) (*models.Etf, error) {
	var item models.Etf
	err := s.db.WithContext(ctx).
		Preload("Transactions").
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) Save(ctx context.Context, etf *models.Etf) (*models.Etf, error) {
	if err := s.db.WithContext(ctx).Save(etf).Error; err != nil {
		return nil, err
	}
	return etf, nil
}

func (s *Store) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&models.Etf{}, id).Error
}

func (s *Store) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Etf{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --- Transactions -----------------------------------------------------------

type transactionStore Store

func (s *transactionStore) FindByEtfID(ctx context.Context, etfID uint64) ([]models.EtfTransaction, error) {
	var items []models.EtfTransaction
	if err := s.db.WithContext(ctx).
		Where("etf_id = ?", etfID).
		Order("transaction_date desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *transactionStore) FindByID(ctx context.Context, id uint64) (*models.EtfTransaction, error) {
	var item models.EtfTransaction
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *transactionStore) Save(ctx context.Context, tx *models.EtfTransaction) (*models.EtfTransaction, error) {
	if err := s.db.WithContext(ctx).Save(tx).Error; err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *transactionStore) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&models.EtfTransaction{}, id).Error
}

// --- Assets -----------------------------------------------------------------

type assetStore Store

func (s *assetStore) FindByOwner(ctx context.Context, userID uint64) ([]models.Asset, error) {
	var items []models.Asset
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *assetStore) FindByIDAndOwner(ctx context.Context, id, userID uint64) (*models.Asset, error) {
	var item models.Asset
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *assetStore) Save(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	if err := s.db.WithContext(ctx).Save(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetStore) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&models.Asset{}, id).Error
}

// --- Snapshots --------------------------------------------------------------

type snapshotStore Store

func (s *snapshotStore) FindByOwner(ctx context.Context, userID uint64) ([]models.PortfolioSnapshot, error) {
	var items []models.PortfolioSnapshot
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *snapshotStore) FindByIDAndOwner(ctx context.Context, id, userID uint64) (*models.PortfolioSnapshot, error) {
	var item models.PortfolioSnapshot
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *snapshotStore) FindByVersionID(ctx context.Context, versionID string) (*models.PortfolioSnapshot, error) {
	versionID = strings.TrimSpace(versionID)
	if versionID == "" {
		return nil, nil
	}
	var item models.PortfolioSnapshot
	err := s.db.WithContext(ctx).
		Where("version_id = ?", versionID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *snapshotStore) Save(ctx context.Context, snap *models.PortfolioSnapshot) (*models.PortfolioSnapshot, error) {
	if err := s.db.WithContext(ctx).Save(snap).Error; err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *snapshotStore) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&models.PortfolioSnapshot{}, id).Error
}

// --- Users ------------------------------------------------------------------

type userStore Store

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *userStore) Save(ctx context.Context, user *models.User) (*models.User, error) {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// --- Prices -----------------------------------------------------------------

type priceStore Store

func (s *priceStore) FindByTicker(ctx context.Context, ticker string) (*models.EtfPrice, error) {
	var item models.EtfPrice
	err := s.db.WithContext(ctx).Where("ticker = ?", ticker).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *priceStore) FindAll(ctx context.Context) ([]models.EtfPrice, error) {
	var items []models.EtfPrice
	if err := s.db.WithContext(ctx).Order("ticker asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *priceStore) Save(ctx context.Context, price *models.EtfPrice) (*models.EtfPrice, error) {
	existing, err := s.FindByTicker(ctx, price.Ticker)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		price.ID = existing.ID
	}
	if err := s.db.WithContext(ctx).Save(price).Error; err != nil {
		return nil, err
	}
	return price, nil
}

func (s *priceStore) Delete(ctx context.Context, ticker string) error {
	return s.db.WithContext(ctx).Where("ticker = ?", ticker).Delete(&models.EtfPrice{}).Error
}
