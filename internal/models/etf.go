package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EtfType string

const (
	EtfTypeEquity    EtfType = "EQUITY"
	EtfTypeBond      EtfType = "BOND"
	EtfTypeCommodity EtfType = "COMMODITY"
	EtfTypeMixed     EtfType = "MIXED"
)

type MarketConcentration string

const (
	ConcentrationBroad    MarketConcentration = "BROAD"
	ConcentrationRegional MarketConcentration = "REGIONAL"
	ConcentrationSector   MarketConcentration = "SECTOR"
)

type Domicile string

const (
	DomicileIreland    Domicile = "IRELAND"
	DomicileLuxembourg Domicile = "LUXEMBOURG"
	DomicileUS         Domicile = "US"
	DomicileOther      Domicile = "OTHER"
)

type Volatility string

const (
	VolatilityLow    Volatility = "LOW"
	VolatilityMedium Volatility = "MEDIUM"
	VolatilityHigh   Volatility = "HIGH"
)

// Etf is one holding in a user's portfolio. Ticker is unique per user,
// case-insensitively; the uniqueness check lives in the service layer so it
// holds on both storage backends.
type Etf struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;index" json:"-"`

	Name                string              `gorm:"type:varchar(255);not null" json:"name"`
	Type                EtfType             `gorm:"type:varchar(20);not null" json:"type"`
	MarketConcentration MarketConcentration `gorm:"type:varchar(20)" json:"marketConcentration"`
	Domicile            Domicile            `gorm:"type:varchar(20)" json:"domicile"`
	Volatility          Volatility          `gorm:"type:varchar(20)" json:"volatility"`

	Ticker string `gorm:"type:varchar(20);not null;index" json:"ticker"`
	// QuoteSymbol overrides Ticker when querying the external quote source.
	QuoteSymbol string          `gorm:"type:varchar(20)" json:"quoteSymbol,omitempty"`
	TER         decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"ter"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`

	Transactions []EtfTransaction `gorm:"foreignKey:EtfID;constraint:OnDelete:CASCADE" json:"transactions"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

func (Etf) TableName() string {
	return "etfs"
}

// EffectiveQuoteSymbol is the symbol sent to the quote provider.
func (e *Etf) EffectiveQuoteSymbol() string {
	if e.QuoteSymbol != "" {
		return e.QuoteSymbol
	}
	return e.Ticker
}

// ApplyUpdate copies the mutable fields from other onto e. Identity, owner,
// transactions and creation time are deliberately left untouched so an update
// can never orphan the transaction collection.
func (e *Etf) ApplyUpdate(other *Etf) {
	e.Name = other.Name
	e.Type = other.Type
	e.MarketConcentration = other.MarketConcentration
	e.Domicile = other.Domicile
	e.Volatility = other.Volatility
	e.Ticker = other.Ticker
	e.QuoteSymbol = other.QuoteSymbol
	e.TER = other.TER
	e.Notes = other.Notes
	e.UpdatedAt = time.Now().UTC()
}
