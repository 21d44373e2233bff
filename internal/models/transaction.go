package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// EtfTransaction is a buy or sell of a holding. It only ever exists under an
// existing Etf; units are fractional.
type EtfTransaction struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	EtfID uint64 `gorm:"not null;index" json:"etfId"`

	TransactionDate time.Time       `gorm:"type:date;not null" json:"transactionDate"`
	Type            TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Units           decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"units"`
	Cost            decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"cost"`
	Fees            decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"fees"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

func (EtfTransaction) TableName() string {
	return "etf_transactions"
}

// ApplyUpdate copies the mutable fields, leaving identity and the parent link
// alone.
func (t *EtfTransaction) ApplyUpdate(other *EtfTransaction) {
	t.TransactionDate = other.TransactionDate
	t.Type = other.Type
	t.Units = other.Units
	t.Cost = other.Cost
	t.Fees = other.Fees
	t.UpdatedAt = time.Now().UTC()
}
