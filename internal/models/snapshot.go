package models

import (
	"time"

	"gorm.io/datatypes"
)

// TriggerAction records which user operation caused a snapshot to be taken.
type TriggerAction string

const (
	TriggerEtfCreated         TriggerAction = "ETF_CREATED"
	TriggerEtfUpdated         TriggerAction = "ETF_UPDATED"
	TriggerEtfDeleted         TriggerAction = "ETF_DELETED"
	TriggerTransactionAdded   TriggerAction = "TRANSACTION_ADDED"
	TriggerTransactionUpdated TriggerAction = "TRANSACTION_UPDATED"
	TriggerTransactionDeleted TriggerAction = "TRANSACTION_DELETED"
	TriggerAssetCreated       TriggerAction = "ASSET_CREATED"
	TriggerAssetUpdated       TriggerAction = "ASSET_UPDATED"
	TriggerAssetDeleted       TriggerAction = "ASSET_DELETED"
	TriggerManualExport       TriggerAction = "MANUAL_EXPORT"
)

var triggerDisplayNames = map[TriggerAction]string{
	TriggerEtfCreated:         "ETF Created",
	TriggerEtfUpdated:         "ETF Updated",
	TriggerEtfDeleted:         "ETF Deleted",
	TriggerTransactionAdded:   "Transaction Added",
	TriggerTransactionUpdated: "Transaction Updated",
	TriggerTransactionDeleted: "Transaction Deleted",
	TriggerAssetCreated:       "Asset Created",
	TriggerAssetUpdated:       "Asset Updated",
	TriggerAssetDeleted:       "Asset Deleted",
	TriggerManualExport:       "Manual Export",
}

// ParseTriggerAction maps a raw string to a known action. Unknown values fall
// back to MANUAL_EXPORT instead of erroring so clients can send free-form
// context without breaking snapshot capture.
func ParseTriggerAction(raw string) TriggerAction {
	a := TriggerAction(raw)
	if _, ok := triggerDisplayNames[a]; ok {
		return a
	}
	return TriggerManualExport
}

func (a TriggerAction) DisplayName() string {
	if name, ok := triggerDisplayNames[a]; ok {
		return name
	}
	return "Unknown"
}

// PortfolioSnapshot is an immutable copy of a user's full portfolio state,
// named by a second-resolution timestamp token.
type PortfolioSnapshot struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;index" json:"-"`

	VersionID     string         `gorm:"type:varchar(14);not null;uniqueIndex" json:"versionId"`
	PortfolioJSON datatypes.JSON `gorm:"type:jsonb;not null" json:"portfolioJson"`
	TriggerAction TriggerAction  `gorm:"type:varchar(30);not null;default:'MANUAL_EXPORT'" json:"triggerAction"`
	ChangeDetails string         `gorm:"type:text" json:"changeDetails,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
}

func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshots"
}
