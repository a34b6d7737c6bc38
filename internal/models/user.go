package models

import (
	"time"
)

// User represents a player. The primary key is the Telegram chat id supplied
// by the bot at registration, so a chat id can register exactly once.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	RankID       uint      `gorm:"not null;default:1;index" json:"rank_id"`
	Rank         *Rank     `gorm:"foreignKey:RankID" json:"rank,omitempty"`
	ReferrerID   *int64    `gorm:"index" json:"referrer_id,omitempty"`
	Referrer     *User     `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	Country      string    `gorm:"size:50" json:"country"`
	Token        string    `gorm:"size:200;not null" json:"-"` // bot-issued token, base58 encoded
	ReferralCode string    `gorm:"uniqueIndex;size:40;not null" json:"referral_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
