package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"etfolio/internal/models"
	filerepository "etfolio/internal/repository/file"
)

// testEnv wires the full service stack over a throwaway file store. The file
// backend is the reference implementation for behavior tests; the relational
// backend is covered by the same service contracts.
type testEnv struct {
	users     *UserService
	etfs      *EtfService
	txs       *TransactionService
	assets    *AssetService
	snapshots *SnapshotService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := filerepository.New(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	repos := store.Repositories()
	users := &UserService{Users: repos.Users}
	etfs := &EtfService{Etfs: repos.Etfs, Users: users, Logger: zap.NewNop()}
	assets := &AssetService{Assets: repos.Assets, Users: users}
	return &testEnv{
		users:  users,
		etfs:   etfs,
		assets: assets,
		txs: &TransactionService{
			Transactions: repos.Transactions,
			Etfs:         repos.Etfs,
			Users:        users,
		},
		snapshots: &SnapshotService{
			Snapshots: repos.Snapshots,
			Users:     users,
			Etfs:      etfs,
			Assets:    assets,
			Logger:    zap.NewNop(),
		},
	}
}

func (e *testEnv) mustUser(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.users.FindOrCreate(context.Background(), email, "local", "")
	if err != nil {
		t.Fatalf("find or create user: %v", err)
	}
	return u
}

func (e *testEnv) mustEtf(t *testing.T, email, ticker string) *models.Etf {
	t.Helper()
	etf, err := e.etfs.Create(context.Background(), &models.Etf{
		Name:   ticker + " fund",
		Ticker: ticker,
		Type:   models.EtfTypeEquity,
	}, email)
	if err != nil {
		t.Fatalf("create etf %s: %v", ticker, err)
	}
	return etf
}
