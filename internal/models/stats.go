package models

import (
	"time"
)

// Stats is the per-user mutable game state. Rows are only ever written by the
// energy, mining and reward engines inside a row-locked transaction; request
// handlers never set fields directly. Invariant: 0 <= Energy <= rank.MaxEnergy.
type Stats struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          int64     `gorm:"uniqueIndex;not null" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Coins           int64     `gorm:"default:1000" json:"coins"`
	Energy          float64   `gorm:"default:2000" json:"energy"`
	EarnedWeekCoins int64     `gorm:"default:0" json:"earned_week_coins"`
	InvitedFriends  int64     `gorm:"default:0" json:"invited_friends"`
	Inspirations    int64     `gorm:"default:0" json:"inspirations"`
	Replenishments  int64     `gorm:"default:0" json:"replenishments"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for Stats model
func (Stats) TableName() string {
	return "stats"
}
