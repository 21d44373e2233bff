package models

import (
	"time"
)

type User struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Provider string `gorm:"type:varchar(20);not null;default:'local'" json:"provider"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
