package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"eden-api/internal/clock"
	"eden-api/internal/models"
	"eden-api/internal/repository"

	"gorm.io/gorm"
)

// ConditionChecker is the capability the task engine uses to verify external
// completion conditions. Checks are I/O bound and best-effort: an error means
// "could not verify", which is distinct from a definite false.
type ConditionChecker interface {
	CheckChannelMembership(ctx context.Context, userID int64, channelID string) (bool, error)
	CheckLinkVisited(ctx context.Context, userID int64, url string) (bool, error)
}

// TaskService evaluates task visibility and completes tasks at most once per
// (user, task), routing the instant reward through the reward ledger.
type TaskService struct {
	repo           *repository.Repository
	ranks          *RankTable
	checker        ConditionChecker
	rewards        *RewardService
	clock          clock.Clock
	visibilityMode string // "min" or "exact"
}

// NewTaskService creates a new TaskService
func NewTaskService(repo *repository.Repository, ranks *RankTable, checker ConditionChecker,
	rewards *RewardService, clk clock.Clock, visibilityMode string) *TaskService {
	return &TaskService{
		repo:           repo,
		ranks:          ranks,
		checker:        checker,
		rewards:        rewards,
		clock:          clk,
		visibilityMode: visibilityMode,
	}
}

// ListVisibleTasks returns every task whose visibility rule holds for the
// user: ALWAYS tasks unconditionally, RANK tasks per the configured
// comparison (league >= required, or exact tier match).
func (s *TaskService) ListVisibleTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	var tasks []models.Task
	if err := s.repo.DB().WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	visible := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		ok, err := s.isVisible(&task, user)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, task)
		}
	}
	return visible, nil
}

func (s *TaskService) isVisible(task *models.Task, user *models.User) (bool, error) {
	switch task.VisibilityType {
	case models.VisibilityAlways:
		return true, nil
	case models.VisibilityRank:
		if task.VisibilityRankID == nil {
			return false, nil
		}
		if s.visibilityMode == "exact" {
			return user.RankID == *task.VisibilityRankID, nil
		}
		userRank, err := s.ranks.MustGet(user.RankID)
		if err != nil {
			return false, err
		}
		gateRank, err := s.ranks.MustGet(*task.VisibilityRankID)
		if err != nil {
			return false, err
		}
		return userRank.League >= gateRank.League, nil
	default:
		return false, nil
	}
}

// CheckCondition dispatches the task's condition variant to the external
// checker. A checker failure surfaces as ErrUnverified.
func (s *TaskService) CheckCondition(ctx context.Context, userID int64, taskID uint) (bool, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return false, err
	}
	return s.checkCondition(ctx, userID, task)
}

func (s *TaskService) checkCondition(ctx context.Context, userID int64, task *models.Task) (bool, error) {
	var (
		ok  bool
		err error
	)

	switch task.ConditionType {
	case models.ConditionTelegramChannel:
		ok, err = s.checker.CheckChannelMembership(ctx, userID, task.ChannelID)
	case models.ConditionVisitLink:
		ok, err = s.checker.CheckLinkVisited(ctx, userID, task.URL)
	default:
		return false, fmt.Errorf("unknown condition type %q: %w", task.ConditionType, ErrUnverified)
	}

	if err != nil {
		return false, fmt.Errorf("condition check failed: %w", ErrUnverified)
	}
	return ok, nil
}

// CompleteTask verifies the condition and marks the task completed, granting
// its reward. Fails with ErrAlreadyCompleted on a repeat, ErrNotReady when
// the condition is verifiably unmet, ErrUnverified when it cannot be checked.
func (s *TaskService) CompleteTask(ctx context.Context, userID int64, taskID uint) (*models.UserTask, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	// External I/O happens before the row lock; the completion check inside
	// the transaction keeps retries idempotent regardless.
	ok, err := s.checkCondition(ctx, userID, task)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("condition not satisfied: %w", ErrNotReady)
	}

	var out models.UserTask

	err = s.repo.WithUserLock(ctx, userID, func(tx *gorm.DB, stats *models.Stats, activity *models.Activity) error {
		var userTask models.UserTask
		findErr := tx.Where("user_id = ? AND task_id = ?", userID, taskID).First(&userTask).Error

		switch {
		case findErr == nil:
			if userTask.IsCompleted() {
				return fmt.Errorf("task %d: %w", taskID, ErrAlreadyCompleted)
			}
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			userTask = models.UserTask{UserID: userID, TaskID: taskID}
			if err := tx.Create(&userTask).Error; err != nil {
				return fmt.Errorf("failed to create user task: %w", err)
			}
		default:
			return findErr
		}

		now := s.clock.Now()
		userTask.CompletedTime = &now
		if err := tx.Save(&userTask).Error; err != nil {
			return fmt.Errorf("failed to save user task: %w", err)
		}

		payload := Payload{
			Amount:         task.RewardAmount,
			Inspirations:   task.RewardInspirations,
			Replenishments: task.RewardReplenishments,
		}
		if _, err := s.rewards.grantTx(tx, stats, userID, models.RewardTypeTask, payload); err != nil {
			return err
		}
		if err := tx.Save(stats).Error; err != nil {
			return fmt.Errorf("failed to save stats: %w", err)
		}

		out = userTask
		return nil
	})
	if err != nil {
		return nil, wrapMissingUser(err)
	}

	log.Printf("[Tasks] User %d completed task %d", userID, taskID)
	return &out, nil
}

func (s *TaskService) getTask(ctx context.Context, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.repo.DB().WithContext(ctx).First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		return nil, err
	}
	return &task, nil
}
