// Package filerepository is the flat-file backend: each collection lives in a
// single JSON document that is read and rewritten whole on every operation.
// Insert ids are max(existing)+1. One process-wide mutex serializes access;
// the backend is single-writer per process and makes no cross-process
// guarantee.
package filerepository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"etfolio/internal/models"
	"etfolio/internal/repository"
)

const (
	etfsFile      = "etfs.json"
	assetsFile    = "assets.json"
	usersFile     = "users.json"
	snapshotsFile = "snapshots.json"
	pricesFile    = "prices.json"
)

type Store struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Repositories returns the full bundle backed by this store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Etfs:         &etfStore{s},
		Transactions: &transactionStore{s},
		Assets:       &assetStore{s},
		Snapshots:    &snapshotStore{s},
		Users:        &userStore{s},
		Prices:       &priceStore{s},
	}
}

func readDoc[T any](s *Store, name string) ([]T, error) {
	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// writeDoc rewrites the whole document via a temp file and rename so readers
// never observe a half-written file.
func writeDoc[T any](s *Store, name string, items []T) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// --- ETFs -------------------------------------------------------------------

type etfStore struct{ s *Store }

func (r *etfStore) FindAll(_ context.Context) ([]models.Etf, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.readAll()
}

func (r *etfStore) readAll() ([]models.Etf, error) {
	items, err := readDoc[models.Etf](r.s, etfsFile)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *etfStore) FindByID(_ context.Context, id uint64) (*models.Etf, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *etfStore) FindByOwner(_ context.Context, userID uint64) ([]models.Etf, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := r.readAll()
	if err != nil {
		return nil, err
	}
	var out []models.Etf
	for _, e := range items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *etfStore) FindByIDAndOwner(_ context.Context, id, userID uint64) (*models.Etf, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id && items[i].UserID == userID {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *etfStore) Save(_ context.Context, etf *models.Etf) (*models.Etf, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := r.readAll()
	if err != nil {
		return nil, err
	}
	if etf.ID != 0 {
		kept := items[:0]
		for _, e := range items {
			if e.ID != etf.ID {
				kept = append(kept, e)
			}
		}
		items = kept
	} else {
		var maxID uint64
		for _, e := range items {
			if e.ID > maxID {
				maxID = e.ID
			}
		}
		etf.ID = maxID + 1
	}
	items = append(items, *etf)
	if err := writeDoc(r.s, etfsFile, items); err != nil {
		return nil, err
	}
	return etf, nil
}

func (r *etfStore) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := r.readAll()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, e := range items {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return writeDoc(r.s, etfsFile, kept)
}

func (r *etfStore) ExistsByID(_ context.Context, id uint64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := r.readAll()
	if err != nil {
		return false, err
	}
	for _, e := range items {
		if e.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// --- Transactions -----------------------------------------------------------

// Transactions are nested inside the ETF document, so every transaction
// operation is a read-modify-write of etfs.json.
type transactionStore struct{ s *Store }

func (r *transactionStore) FindByEtfID(_ context.Context, etfID uint64) ([]models.EtfTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	etfs, err := readDoc[models.Etf](r.s, etfsFile)
	if err != nil {
		return nil, err
	}
	var out []models.EtfTransaction
	for _, e := range etfs {
		if e.ID == etfID {
			out = append(out, e.Transactions...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TransactionDate.After(out[j].TransactionDate)
	})
	return out, nil
}

func (r *transactionStore) FindByID(_ context.Context, id uint64) (*models.EtfTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	etfs, err := readDoc[models.Etf](r.s, etfsFile)
	if err != nil {
		return nil, err
	}
	for _, e := range etfs {
		for i := range e.Transactions {
			if e.Transactions[i].ID == id {
				return &e.Transactions[i], nil
			}
		}
	}
	return nil, nil
}

func (r *transactionStore) Save(_ context.Context, tx *models.EtfTransaction) (*models.EtfTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	etfs, err := readDoc[models.Etf](r.s, etfsFile)
	if err != nil {
		return nil, err
	}
	if tx.ID == 0 {
		var maxID uint64
		for _, e := range etfs {
			for _, t := range e.Transactions {
				if t.ID > maxID {
					maxID = t.ID
				}
			}
		}
		tx.ID = maxID + 1
	}
	placed := false
	for i := range etfs {
		kept := etfs[i].Transactions[:0]
		for _, t := range etfs[i].Transactions {
			if t.ID != tx.ID {
				kept = append(kept, t)
			}
		}
		etfs[i].Transactions = kept
		if etfs[i].ID == tx.EtfID {
			etfs[i].Transactions = append(etfs[i].Transactions, *tx)
			placed = true
		}
	}
	if !placed {
		return nil, errors.New("parent etf not found")
	}
	if err := writeDoc(r.s, etfsFile, etfs); err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *transactionStore) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	etfs, err := readDoc[models.Etf](r.s, etfsFile)
	if err != nil {
		return err
	}
	for i := range etfs {
		kept := etfs[i].Transactions[:0]
		for _, t := range etfs[i].Transactions {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		etfs[i].Transactions = kept
	}
	return writeDoc(r.s, etfsFile, etfs)
}

// --- Assets -----------------------------------------------------------------

type assetStore struct{ s *Store }

func (r *assetStore) FindByOwner(_ context.Context, userID uint64) ([]models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.Asset](r.s, assetsFile)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	var out []models.Asset
	for _, a := range items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *assetStore) FindByIDAndOwner(_ context.Context, id, userID uint64) (*models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.Asset](r.s, assetsFile)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id && items[i].UserID == userID {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *assetStore) Save(_ context.Context, asset *models.Asset) (*models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.Asset](r.s, assetsFile)
	if err != nil {
		return nil, err
	}
	if asset.ID != 0 {
		kept := items[:0]
		for _, a := range items {
			if a.ID != asset.ID {
				kept = append(kept, a)
			}
		}
		items = kept
	} else {
		var maxID uint64
		for _, a := range items {
			if a.ID > maxID {
				maxID = a.ID
			}
		}
		asset.ID = maxID + 1
	}
	items = append(items, *asset)
	if err := writeDoc(r.s, assetsFile, items); err != nil {
		return nil, err
	}
	return asset, nil
}

func (r *assetStore) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.Asset](r.s, assetsFile)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, a := range items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	return writeDoc(r.s, assetsFile, kept)
}

// --- Snapshots --------------------------------------------------------------

type snapshotStore struct{ s *Store }

func (r *snapshotStore) FindByOwner(_ context.Context, userID uint64) ([]models.PortfolioSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.PortfolioSnapshot](r.s, snapshotsFile)
	if err != nil {
		return nil, err
	}
	var out []models.PortfolioSnapshot
	for _, sn := range items {
		if sn.UserID == userID {
			out = append(out, sn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *snapshotStore) FindByIDAndOwner(_ context.Context, id, userID uint64) (*models.PortfolioSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.PortfolioSnapshot](r.s, snapshotsFile)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id && items[i].UserID == userID {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *snapshotStore) FindByVersionID(_ context.Context, versionID string) (*models.PortfolioSnapshot, error) {
	versionID = strings.TrimSpace(versionID)
	if versionID == "" {
		return nil, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.PortfolioSnapshot](r.s, snapshotsFile)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].VersionID == versionID {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *snapshotStore) Save(_ context.Context, snap *models.PortfolioSnapshot) (*models.PortfolioSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.PortfolioSnapshot](r.s, snapshotsFile)
	if err != nil {
		return nil, err
	}
	if snap.ID != 0 {
		kept := items[:0]
		for _, sn := range items {
			if sn.ID != snap.ID {
				kept = append(kept, sn)
			}
		}
		items = kept
	} else {
		// Version ids are unique; the relational backend enforces this with an
		// index, so inserts here must fail the same way.
		for _, sn := range items {
			if sn.VersionID == snap.VersionID {
				return nil, errors.New("duplicate version id " + snap.VersionID)
			}
		}
		var maxID uint64
		for _, sn := range items {
			if sn.ID > maxID {
				maxID = sn.ID
			}
		}
		snap.ID = maxID + 1
	}
	items = append(items, *snap)
	if err := writeDoc(r.s, snapshotsFile, items); err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *snapshotStore) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.PortfolioSnapshot](r.s, snapshotsFile)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, sn := range items {
		if sn.ID != id {
			kept = append(kept, sn)
		}
	}
	return writeDoc(r.s, snapshotsFile, kept)
}

// --- Users ------------------------------------------------------------------

type userStore struct{ s *Store }

func (r *userStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.User](r.s, usersFile)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if strings.EqualFold(items[i].Email, email) {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *userStore) Save(_ context.Context, user *models.User) (*models.User, error) {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.User](r.s, usersFile)
	if err != nil {
		return nil, err
	}
	if user.ID != 0 {
		kept := items[:0]
		for _, u := range items {
			if u.ID != user.ID {
				kept = append(kept, u)
			}
		}
		items = kept
	} else {
		var maxID uint64
		for _, u := range items {
			if u.ID > maxID {
				maxID = u.ID
			}
		}
		user.ID = maxID + 1
	}
	items = append(items, *user)
	if err := writeDoc(r.s, usersFile, items); err != nil {
		return nil, err
	}
	return user, nil
}

// --- Prices -----------------------------------------------------------------

type priceStore struct{ s *Store }

func (r *priceStore) FindByTicker(_ context.Context, ticker string) (*models.EtfPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.EtfPrice](r.s, pricesFile)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Ticker == ticker {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *priceStore) FindAll(_ context.Context) ([]models.EtfPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.EtfPrice](r.s, pricesFile)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Ticker < items[j].Ticker })
	return items, nil
}

func (r *priceStore) Save(_ context.Context, price *models.EtfPrice) (*models.EtfPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.EtfPrice](r.s, pricesFile)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	var maxID uint64
	for _, p := range items {
		if p.ID > maxID {
			maxID = p.ID
		}
		if p.Ticker != price.Ticker {
			kept = append(kept, p)
		} else if price.ID == 0 {
			price.ID = p.ID
		}
	}
	if price.ID == 0 {
		price.ID = maxID + 1
	}
	items = append(kept, *price)
	if err := writeDoc(r.s, pricesFile, items); err != nil {
		return nil, err
	}
	return price, nil
}

func (r *priceStore) Delete(_ context.Context, ticker string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, err := readDoc[models.EtfPrice](r.s, pricesFile)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, p := range items {
		if p.Ticker != ticker {
			kept = append(kept, p)
		}
	}
	return writeDoc(r.s, pricesFile, kept)
}
