package services

import (
	"fmt"

	"eden-api/internal/models"

	"gorm.io/gorm"
)

// RankTable is the static rank lookup, loaded once at startup and never
// mutated afterwards.
type RankTable struct {
	byID map[uint]models.Rank
}

// LoadRankTable reads all ranks from the database into memory.
func LoadRankTable(db *gorm.DB) (*RankTable, error) {
	var ranks []models.Rank
	if err := db.Find(&ranks).Error; err != nil {
		return nil, fmt.Errorf("failed to load ranks: %w", err)
	}
	if len(ranks) == 0 {
		return nil, fmt.Errorf("rank table is empty, run migrations/seed first")
	}

	byID := make(map[uint]models.Rank, len(ranks))
	for _, rank := range ranks {
		byID[rank.ID] = rank
	}
	return &RankTable{byID: byID}, nil
}

// Get returns the rank for a tier id.
func (t *RankTable) Get(id uint) (models.Rank, bool) {
	rank, ok := t.byID[id]
	return rank, ok
}

// MustGet returns the rank for a tier id or an error if the tier is unknown.
// User rows always reference a seeded tier, so a miss means corrupted data.
func (t *RankTable) MustGet(id uint) (models.Rank, error) {
	rank, ok := t.byID[id]
	if !ok {
		return models.Rank{}, fmt.Errorf("unknown rank tier %d: %w", id, ErrNotFound)
	}
	return rank, nil
}
