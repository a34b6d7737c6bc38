package conditions

import (
	"context"
	"errors"
)

// Checker bundles the external condition capabilities behind the single
// interface the task engine consumes. Either backend may be absent; a check
// against a missing backend reports an error, which the task engine treats
// as "unverified" rather than false.
type Checker struct {
	telegram *TelegramChecker
	links    *LinkVisitStore
}

// NewChecker creates a Checker. Both arguments may be nil.
func NewChecker(telegram *TelegramChecker, links *LinkVisitStore) *Checker {
	return &Checker{telegram: telegram, links: links}
}

// CheckChannelMembership implements services.ConditionChecker.
func (c *Checker) CheckChannelMembership(ctx context.Context, userID int64, channelID string) (bool, error) {
	if c.telegram == nil {
		return false, errors.New("telegram checker not configured")
	}
	return c.telegram.CheckChannelMembership(ctx, userID, channelID)
}

// CheckLinkVisited implements services.ConditionChecker.
func (c *Checker) CheckLinkVisited(ctx context.Context, userID int64, url string) (bool, error) {
	if c.links == nil {
		return false, errors.New("link visit store not configured")
	}
	return c.links.CheckLinkVisited(ctx, userID, url)
}
