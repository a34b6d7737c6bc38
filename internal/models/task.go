package models

import (
	"time"
)

// Condition variants
const (
	ConditionTelegramChannel = "TG_CHANNEL" // subscribed to a Telegram channel
	ConditionVisitLink       = "VISIT_LINK" // visited a tracked link
)

// Visibility variants
const (
	VisibilityAlways = "ALWAYS"
	VisibilityRank   = "RANK"
)

// Task defines a completable task: a description, an instant reward payload
// and two tagged variants flattened into typed columns. ConditionType selects
// which of ChannelID/URL is meaningful, VisibilityType selects whether
// VisibilityRankID applies.
type Task struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Description          string    `gorm:"size:200;not null" json:"description"`
	RewardAmount         int64     `gorm:"default:0" json:"reward_amount"`
	RewardInspirations   int64     `gorm:"default:0" json:"reward_inspirations"`
	RewardReplenishments int64     `gorm:"default:0" json:"reward_replenishments"`
	ConditionType        string    `gorm:"size:20;not null" json:"condition_type"`
	ChannelID            string    `gorm:"size:100" json:"channel_id,omitempty"`
	URL                  string    `gorm:"size:200" json:"url,omitempty"`
	VisibilityType       string    `gorm:"size:20;not null;default:ALWAYS" json:"visibility_type"`
	VisibilityRankID     *uint     `json:"visibility_rank_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// TableName specifies the table name for Task model
func (Task) TableName() string {
	return "tasks"
}

// UserTask is the per-user acceptance record for a task. At most one row
// exists per (user, task). CompletedTime, once set, is never cleared.
type UserTask struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        int64      `gorm:"not null;uniqueIndex:idx_user_task" json:"user_id"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TaskID        uint       `gorm:"not null;uniqueIndex:idx_user_task" json:"task_id"`
	Task          *Task      `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	CreateTime    time.Time  `gorm:"autoCreateTime" json:"create_time"`
	CompletedTime *time.Time `json:"completed_time,omitempty"`
}

// TableName specifies the table name for UserTask model
func (UserTask) TableName() string {
	return "user_tasks"
}

// IsCompleted reports whether the task has been completed by the user.
func (ut *UserTask) IsCompleted() bool {
	return ut.CompletedTime != nil
}
