package conditions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LinkVisitStore records link visits in redis so the link-visit condition can
// be checked later. Marks expire after ttl.
type LinkVisitStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewLinkVisitStore creates a store on the given redis client.
func NewLinkVisitStore(rdb *redis.Client, ttl time.Duration) *LinkVisitStore {
	return &LinkVisitStore{rdb: rdb, ttl: ttl}
}

// MarkVisited records that the user followed the tracked link.
func (s *LinkVisitStore) MarkVisited(ctx context.Context, userID int64, url string) error {
	if err := s.rdb.Set(ctx, visitKey(userID, url), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to record link visit: %w", err)
	}
	return nil
}

// CheckLinkVisited reports whether a visit mark exists for (user, url).
func (s *LinkVisitStore) CheckLinkVisited(ctx context.Context, userID int64, url string) (bool, error) {
	n, err := s.rdb.Exists(ctx, visitKey(userID, url)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check link visit: %w", err)
	}
	return n > 0, nil
}

func visitKey(userID int64, url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("linkvisit:%d:%s", userID, hex.EncodeToString(sum[:8]))
}
