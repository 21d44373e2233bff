package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"etfolio/internal/apperr"
	"etfolio/internal/models"
	"etfolio/internal/repository"
)

// versionFormat is the snapshot version token: wall-clock time at one-second
// resolution, no separators, e.g. "20260830141005".
const versionFormat = "20060102150405"

// SnapshotService materializes an immutable copy of a user's whole portfolio
// every time a mutation lands. Capture is best-effort: callers log a failed
// capture and never fail the mutation that triggered it.
type SnapshotService struct {
	Snapshots repository.SnapshotRepository
	Users     *UserService
	Etfs      *EtfService
	Assets    *AssetService
	Logger    *zap.Logger
}

func (s *SnapshotService) GenerateVersionID() string {
	return time.Now().UTC().Format(versionFormat)
}

// Create captures the current portfolio under a freshly generated version id.
// Two captures within the same wall-clock second collide on the unique
// version index; the second insert fails and is reported as a SnapshotError,
// leaving the first snapshot intact.
func (s *SnapshotService) Create(ctx context.Context, ownerEmail string, action models.TriggerAction, changeDetails string) (*models.PortfolioSnapshot, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	versionID := s.GenerateVersionID()

	raw, err := s.buildPortfolioJSON(ctx, ownerEmail)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("portfolio projection failed",
				zap.String("user", ownerEmail), zap.Error(err))
		}
		return nil, apperr.Snapshot(err)
	}

	snap := &models.PortfolioSnapshot{
		UserID:        user.ID,
		VersionID:     versionID,
		PortfolioJSON: raw,
		TriggerAction: action,
		ChangeDetails: changeDetails,
		CreatedAt:     time.Now().UTC(),
	}
	saved, err := s.Snapshots.Save(ctx, snap)
	if err != nil {
		return nil, apperr.Snapshot(err)
	}
	return saved, nil
}

// CreateWithVersionID is the manual-export path and the only upsert in the
// subsystem: re-submitting a version id updates the stored record in place so
// a client can retry an export idempotently.
func (s *SnapshotService) CreateWithVersionID(ctx context.Context, ownerEmail, versionID, portfolioJSON string, action models.TriggerAction, changeDetails string) (*models.PortfolioSnapshot, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}

	existing, err := s.Snapshots.FindByVersionID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Version ids are global, ownership is not: a retry may only update
		// the caller's own record.
		if existing.UserID != user.ID {
			return nil, apperr.Conflict("snapshot.duplicate.version", versionID)
		}
		existing.PortfolioJSON = datatypes.JSON(portfolioJSON)
		existing.TriggerAction = action
		existing.ChangeDetails = changeDetails
		return s.Snapshots.Save(ctx, existing)
	}

	snap := &models.PortfolioSnapshot{
		UserID:        user.ID,
		VersionID:     versionID,
		PortfolioJSON: datatypes.JSON(portfolioJSON),
		TriggerAction: action,
		ChangeDetails: changeDetails,
		CreatedAt:     time.Now().UTC(),
	}
	return s.Snapshots.Save(ctx, snap)
}

func (s *SnapshotService) ListForUser(ctx context.Context, ownerEmail string) ([]models.PortfolioSnapshot, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	return s.Snapshots.FindByOwner(ctx, user.ID)
}

func (s *SnapshotService) GetByID(ctx context.Context, id uint64, ownerEmail string) (*models.PortfolioSnapshot, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshots.FindByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, apperr.NotFound("snapshot.not.found", id)
	}
	return snap, nil
}

// GetByVersionID requires ownership even though version ids are globally
// unique; a guessed version id must look exactly like a missing one.
func (s *SnapshotService) GetByVersionID(ctx context.Context, versionID, ownerEmail string) (*models.PortfolioSnapshot, error) {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshots.FindByVersionID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if snap == nil || snap.UserID != user.ID {
		return nil, apperr.NotFound("snapshot.not.found", versionID)
	}
	return snap, nil
}

// Delete is a no-op when the snapshot does not belong to the caller.
func (s *SnapshotService) Delete(ctx context.Context, id uint64, ownerEmail string) error {
	user, err := s.Users.Current(ctx, ownerEmail)
	if err != nil {
		return err
	}
	snap, err := s.Snapshots.FindByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	return s.Snapshots.Delete(ctx, snap.ID)
}

func (s *SnapshotService) buildPortfolioJSON(ctx context.Context, ownerEmail string) (datatypes.JSON, error) {
	etfs, err := s.Etfs.List(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	assets, err := s.Assets.List(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	data := map[string]any{
		"etfs":   etfs,
		"assets": assets,
		"metadata": map[string]any{
			"userEmail": ownerEmail,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
