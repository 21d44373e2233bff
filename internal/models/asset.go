package models

import (
	"time"
)

// Asset is a non-ETF portfolio entry tracked only by its target allocation.
type Asset struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;index" json:"-"`

	Name          string  `gorm:"type:varchar(255);not null" json:"name"`
	AllocationPct float64 `gorm:"not null;default:0" json:"allocationPct"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

func (Asset) TableName() string {
	return "assets"
}

func (a *Asset) ApplyUpdate(other *Asset) {
	a.Name = other.Name
	a.AllocationPct = other.AllocationPct
	a.UpdatedAt = time.Now().UTC()
}
