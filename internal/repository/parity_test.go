package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"etfolio/internal/models"
	"etfolio/internal/repository"
	filerepository "etfolio/internal/repository/file"
	gormrepository "etfolio/internal/repository/gorm"
)

// runEtfContract drives one backend through the shared repository contract:
// zero-id save inserts, nonzero-id save replaces, owner scoping filters,
// delete is idempotent.
func runEtfContract(t *testing.T, repos repository.Repositories) {
	t.Helper()
	ctx := context.Background()
	// unique owner per run; the gorm variant may hit a shared database
	ownerID := uint64(time.Now().UnixNano())

	etf, err := repos.Etfs.Save(ctx, &models.Etf{
		UserID: ownerID,
		Name:   "Vanguard FTSE All-World",
		Ticker: "VWCE",
		Type:   models.EtfTypeEquity,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if etf.ID == 0 {
		t.Fatalf("insert did not assign id")
	}

	exists, err := repos.Etfs.ExistsByID(ctx, etf.ID)
	if err != nil || !exists {
		t.Fatalf("exists=%v err=%v", exists, err)
	}

	etf.Name = "renamed"
	if _, err := repos.Etfs.Save(ctx, etf); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := repos.Etfs.FindByID(ctx, etf.ID)
	if err != nil || got == nil {
		t.Fatalf("find: got=%v err=%v", got, err)
	}
	if got.Name != "renamed" {
		t.Fatalf("name=%q", got.Name)
	}

	foreign, err := repos.Etfs.FindByIDAndOwner(ctx, etf.ID, ownerID+1)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if foreign != nil {
		t.Fatalf("owner scope leaked")
	}

	owned, err := repos.Etfs.FindByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("find by owner: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("owned=%d want 1", len(owned))
	}

	if err := repos.Etfs.Delete(ctx, etf.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repos.Etfs.Delete(ctx, etf.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	missing, err := repos.Etfs.FindByID(ctx, etf.ID)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if missing != nil {
		t.Fatalf("record survived delete")
	}
}

func runSnapshotContract(t *testing.T, repos repository.Repositories) {
	t.Helper()
	ctx := context.Background()
	versionID := time.Now().UTC().Format("20060102150405")

	snap, err := repos.Snapshots.Save(ctx, &models.PortfolioSnapshot{
		UserID:        uint64(time.Now().UnixNano()),
		VersionID:     versionID,
		PortfolioJSON: []byte(`{}`),
		TriggerAction: models.TriggerManualExport,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	byVersion, err := repos.Snapshots.FindByVersionID(ctx, versionID)
	if err != nil || byVersion == nil {
		t.Fatalf("got=%v err=%v", byVersion, err)
	}
	if byVersion.ID != snap.ID {
		t.Fatalf("id=%d want %d", byVersion.ID, snap.ID)
	}

	none, err := repos.Snapshots.FindByVersionID(ctx, "")
	if err != nil || none != nil {
		t.Fatalf("blank version: got=%v err=%v", none, err)
	}

	if err := repos.Snapshots.Delete(ctx, snap.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestFileBackendContract(t *testing.T) {
	store, err := filerepository.New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	repos := store.Repositories()
	runEtfContract(t, repos)
	runSnapshotContract(t, repos)
}

// TestGormBackendContract needs a reachable database and is skipped otherwise.
func TestGormBackendContract(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Etf{}, &models.EtfTransaction{}, &models.PortfolioSnapshot{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repos := gormrepository.New(gdb).Repositories()
	runEtfContract(t, repos)
	runSnapshotContract(t, repos)
}
