package repository

import (
	"context"

	"etfolio/internal/models"
)

// EtfRepository is the storage contract the domain services are written
// against. Both backends must behave identically under it: Save inserts when
// the id is zero and replaces otherwise, Delete is idempotent, FindAll has no
// ordering guarantee beyond being stable per backend.
//
// FindByOwner and FindByIDAndOwner are part of the contract so per-user
// isolation happens at the query layer on every backend; the file backend
// implements them by linear scan.
type EtfRepository interface {
	FindAll(ctx context.Context) ([]models.Etf, error)
	FindByID(ctx context.Context, id uint64) (*models.Etf, error)
	FindByOwner(ctx context.Context, userID uint64) ([]models.Etf, error)
	FindByIDAndOwner(ctx context.Context, id, userID uint64) (*models.Etf, error)
	Save(ctx context.Context, etf *models.Etf) (*models.Etf, error)
	Delete(ctx context.Context, id uint64) error
	ExistsByID(ctx context.Context, id uint64) (bool, error)
}

type TransactionRepository interface {
	// FindByEtfID returns the ETF's transactions newest-first by trade date.
	FindByEtfID(ctx context.Context, etfID uint64) ([]models.EtfTransaction, error)
	FindByID(ctx context.Context, id uint64) (*models.EtfTransaction, error)
	Save(ctx context.Context, tx *models.EtfTransaction) (*models.EtfTransaction, error)
	Delete(ctx context.Context, id uint64) error
}

type AssetRepository interface {
	FindByOwner(ctx context.Context, userID uint64) ([]models.Asset, error)
	FindByIDAndOwner(ctx context.Context, id, userID uint64) (*models.Asset, error)
	Save(ctx context.Context, asset *models.Asset) (*models.Asset, error)
	Delete(ctx context.Context, id uint64) error
}

type SnapshotRepository interface {
	// FindByOwner returns snapshots newest-first by creation time.
	FindByOwner(ctx context.Context, userID uint64) ([]models.PortfolioSnapshot, error)
	FindByIDAndOwner(ctx context.Context, id, userID uint64) (*models.PortfolioSnapshot, error)
	FindByVersionID(ctx context.Context, versionID string) (*models.PortfolioSnapshot, error)
	Save(ctx context.Context, snap *models.PortfolioSnapshot) (*models.PortfolioSnapshot, error)
	Delete(ctx context.Context, id uint64) error
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) (*models.User, error)
}

type PriceRepository interface {
	FindByTicker(ctx context.Context, ticker string) (*models.EtfPrice, error)
	FindAll(ctx context.Context) ([]models.EtfPrice, error)
	Save(ctx context.Context, price *models.EtfPrice) (*models.EtfPrice, error)
	Delete(ctx context.Context, ticker string) error
}

// Repositories bundles one backend's implementations; main wires exactly one
// bundle at startup based on configuration.
type Repositories struct {
	Etfs         EtfRepository
	Transactions TransactionRepository
	Assets       AssetRepository
	Snapshots    SnapshotRepository
	Users        UserRepository
	Prices       PriceRepository
}
