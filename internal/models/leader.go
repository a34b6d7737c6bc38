package models

import (
	"time"
)

// Leader is a materialized leaderboard row for the current weekly period.
// Place 1 is the top earner. The whole set is re-derived when weekly earnings
// change; on week rollover the snapshots are zeroed in place.
type Leader struct {
	Place           int64     `gorm:"primaryKey;autoIncrement:false" json:"place"`
	UserID          int64     `gorm:"uniqueIndex;not null" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EarnedWeekCoins int64     `gorm:"default:0" json:"earned_week_coins"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for Leader model
func (Leader) TableName() string {
	return "leaders"
}
