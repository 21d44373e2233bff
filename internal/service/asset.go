package service

import (
	"context"
	"strings"
	"time"

	"etfolio/internal/apperr"
	"etfolio/internal/models"
	"etfolio/internal/repository"
)

// AssetService is the simpler sibling of EtfService: same per-user scoping,
// no nested collections. All paths return typed errors on every backend.
type AssetService struct {
	Assets repository.AssetRepository
	Users  *UserService
}

func (s *AssetService) List(ctx context.Context, ownerEmail string) ([]models.Asset, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	return s.Assets.FindByOwner(ctx, user.ID)
}

func (s *AssetService) Get(ctx context.Context, id uint64, ownerEmail string) (*models.Asset, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	asset, err := s.Assets.FindByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, apperr.NotFound("asset.not.found", id)
	}
	return asset, nil
}

func (s *AssetService) Create(ctx context.Context, asset *models.Asset, ownerEmail string) (*models.Asset, error) {
	user, err := s.Users.FindOrCreate(ctx, ownerEmail, "local", ownerEmail)
	if err != nil {
		return nil, err
	}
	if err := validateAsset(asset); err != nil {
		return nil, err
	}
	asset.ID = 0
	asset.UserID = user.ID
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	return s.Assets.Save(ctx, asset)
}

func (s *AssetService) Update(ctx context.Context, id uint64, updated *models.Asset, ownerEmail string) (*models.Asset, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	if err := validateAsset(updated); err != nil {
		return nil, err
	}
	existing, err := s.Assets.FindByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("asset.not.found", id)
	}
	existing.ApplyUpdate(updated)
	return s.Assets.Save(ctx, existing)
}

func (s *AssetService) Delete(ctx context.Context, id uint64, ownerEmail string) error {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return err
	}
	existing, err := s.Assets.FindByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("asset.not.found", id)
	}
	return s.Assets.Delete(ctx, id)
}

func validateAsset(asset *models.Asset) error {
	if strings.TrimSpace(asset.Name) == "" {
		return apperr.Validation("asset.missing.name")
	}
	if asset.AllocationPct < 0 || asset.AllocationPct > 100 {
		return apperr.Validation("asset.invalid.allocation", asset.AllocationPct)
	}
	return nil
}
