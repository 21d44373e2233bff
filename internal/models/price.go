package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EtfPrice is the last quote fetched for a ticker. FetchedAt drives the
// freshness window check in the price service.
type EtfPrice struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	Ticker string `gorm:"type:varchar(20);not null;uniqueIndex" json:"ticker"`

	Price    decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"price"`
	Currency string          `gorm:"type:varchar(10);not null" json:"currency"`
	Source   string          `gorm:"type:varchar(50);not null" json:"source"`

	FetchedAt time.Time `gorm:"type:timestamptz;not null" json:"fetchedAt"`
}

func (EtfPrice) TableName() string {
	return "etf_prices"
}
