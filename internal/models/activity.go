package models

import (
	"time"
)

// Activity holds the per-user timers the game evaluates lazily on each
// request: there is no background scheduler, a timer is just a stored
// timestamp compared against "now". Created together with the User row.
type Activity struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          int64     `gorm:"uniqueIndex;not null" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RegDate         time.Time `json:"reg_date"`
	LastLoginDate   time.Time `json:"last_login_date"`
	LastDailyReward time.Time `json:"last_daily_reward"`
	LastSyncEnergy  time.Time `json:"last_sync_energy"`
	NextInspiration time.Time `json:"next_inspiration"`
	NextMining      time.Time `json:"next_mining"`
	IsActiveMining  bool      `gorm:"default:false" json:"is_active_mining"`
	ActiveDays      int64     `gorm:"default:0" json:"active_days"`
}

// TableName specifies the table name for Activity model
func (Activity) TableName() string {
	return "activities"
}
