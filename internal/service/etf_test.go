package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"etfolio/internal/apperr"
	"etfolio/internal/models"
)

func TestEtfCreate_RejectsBlankTicker(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.etfs.Create(context.Background(), &models.Etf{
		Name: "no ticker",
		Type: models.EtfTypeEquity,
	}, "anna@example.com")
	if !apperr.IsValidation(err) {
		t.Fatalf("err=%v want validation", err)
	}
	if got := err.Error(); got != "etf.missing.ticker" {
		t.Fatalf("code=%q", got)
	}
}

func TestEtfCreate_RejectsMissingType(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.etfs.Create(context.Background(), &models.Etf{
		Name:   "typeless",
		Ticker: "XXXX",
	}, "anna@example.com")
	if !apperr.IsValidation(err) {
		t.Fatalf("err=%v want validation", err)
	}
}

func TestEtfCreate_DuplicateTickerIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	env.mustEtf(t, "anna@example.com", "VWCE")

	_, err := env.etfs.Create(context.Background(), &models.Etf{
		Name:   "dup",
		Ticker: "vwce",
		Type:   models.EtfTypeEquity,
	}, "anna@example.com")
	if !apperr.IsConflict(err) {
		t.Fatalf("err=%v want conflict", err)
	}
}

func TestEtfCreate_SameTickerDifferentUsersOK(t *testing.T) {
	env := newTestEnv(t)
	env.mustEtf(t, "anna@example.com", "VWCE")
	env.mustEtf(t, "ben@example.com", "VWCE")
}

func TestEtfCreate_ClientSuppliedIDConflicts(t *testing.T) {
	env := newTestEnv(t)
	existing := env.mustEtf(t, "anna@example.com", "VWCE")

	_, err := env.etfs.Create(context.Background(), &models.Etf{
		ID:     existing.ID,
		Name:   "collides",
		Ticker: "AGGH",
		Type:   models.EtfTypeBond,
	}, "anna@example.com")
	if !apperr.IsConflict(err) {
		t.Fatalf("err=%v want conflict", err)
	}
}

func TestEtfCreate_UnusedClientIDIsIgnored(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.etfs.Create(context.Background(), &models.Etf{
		ID:     500,
		Name:   "fresh",
		Ticker: "AGGH",
		Type:   models.EtfTypeBond,
	}, "anna@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("id=%d, store assigns identity", created.ID)
	}
}

func TestEtfGet_ForeignOwnerLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	etf := env.mustEtf(t, "anna@example.com", "VWCE")
	env.mustUser(t, "ben@example.com")

	_, err := env.etfs.Get(context.Background(), etf.ID, "ben@example.com")
	if !apperr.IsNotFound(err) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestEtfUpdate_KeepsTransactionsAndConflictExcludesSelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	etf := env.mustEtf(t, "anna@example.com", "VWCE")

	if _, err := env.txs.Create(ctx, etf.ID, &models.EtfTransaction{
		Type:            models.TransactionBuy,
		TransactionDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Units:           decimal.RequireFromString("3"),
		Cost:            decimal.RequireFromString("330"),
	}, "anna@example.com"); err != nil {
		t.Fatalf("create tx: %v", err)
	}

	// same ticker back in is not a conflict with itself
	updated, err := env.etfs.Update(ctx, etf.ID, &models.Etf{
		Name:   "renamed",
		Ticker: "VWCE",
		Type:   models.EtfTypeEquity,
	}, "anna@example.com")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "renamed" {
		t.Fatalf("name=%q", updated.Name)
	}

	txs, err := env.txs.ListForEtf(ctx, etf.ID, "anna@example.com")
	if err != nil {
		t.Fatalf("list txs: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("update dropped transactions: %d", len(txs))
	}
}

func TestEtfUpdate_DuplicateTickerOfOtherHolding(t *testing.T) {
	env := newTestEnv(t)
	env.mustEtf(t, "anna@example.com", "VWCE")
	other := env.mustEtf(t, "anna@example.com", "AGGH")

	_, err := env.etfs.Update(context.Background(), other.ID, &models.Etf{
		Name:   "steals ticker",
		Ticker: "VWCE",
		Type:   models.EtfTypeBond,
	}, "anna@example.com")
	if !apperr.IsConflict(err) {
		t.Fatalf("err=%v want conflict", err)
	}
}

func TestEtfDelete_BlockedWhileTransactionsExist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	etf := env.mustEtf(t, "anna@example.com", "VWCE")

	tx, err := env.txs.Create(ctx, etf.ID, &models.EtfTransaction{
		Type:            models.TransactionBuy,
		TransactionDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Units:           decimal.RequireFromString("1"),
		Cost:            decimal.RequireFromString("100"),
	}, "anna@example.com")
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}

	_, err = env.etfs.Delete(ctx, etf.ID, "anna@example.com")
	if !apperr.IsValidation(err) {
		t.Fatalf("err=%v want validation", err)
	}

	// after removing the last transaction the delete goes through
	if err := env.txs.Delete(ctx, tx.ID, "anna@example.com"); err != nil {
		t.Fatalf("delete tx: %v", err)
	}
	deleted, err := env.etfs.Delete(ctx, etf.ID, "anna@example.com")
	if err != nil {
		t.Fatalf("delete etf: %v", err)
	}
	if deleted.Ticker != "VWCE" {
		t.Fatalf("deleted=%+v", deleted)
	}
}

func TestEtfDelete_ForeignOwnerLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	etf := env.mustEtf(t, "anna@example.com", "VWCE")
	env.mustUser(t, "ben@example.com")

	_, err := env.etfs.Delete(context.Background(), etf.ID, "ben@example.com")
	if !apperr.IsNotFound(err) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestEtfList_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	env.mustEtf(t, "anna@example.com", "VWCE")
	env.mustEtf(t, "ben@example.com", "AGGH")

	list, err := env.etfs.List(context.Background(), "anna@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Ticker != "VWCE" {
		t.Fatalf("list=%+v", list)
	}
}
