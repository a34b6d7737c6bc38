package models

import (
	"time"
)

// Reward types
const (
	RewardTypeReferral = "REFERRAL"
	RewardTypeDaily    = "DAILY"
	RewardTypeTask     = "TASK"
)

// Reward is an append-only ledger entry recording a grant to a user. Rows are
// never updated or deleted once written.
type Reward struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         int64     `gorm:"not null;index" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type           string    `gorm:"size:20;not null" json:"type"` // REFERRAL, DAILY, TASK
	Amount         int64     `gorm:"default:0" json:"amount"`
	Inspirations   int64     `gorm:"default:0" json:"inspirations"`
	Replenishments int64     `gorm:"default:0" json:"replenishments"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for Reward model
func (Reward) TableName() string {
	return "rewards"
}
