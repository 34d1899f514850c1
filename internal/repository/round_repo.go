package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jwhitfield/fairway/internal/models"
	"github.com/jwhitfield/fairway/pkg/database"
)

type roundRepository struct {
	db *database.DB
}

func NewRoundRepository(db *database.DB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Load(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	var round models.Round
	if err := r.db.WithContext(ctx).First(&round, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("round %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load round: %w", err)
	}
	return &round, nil
}

func (r *roundRepository) Save(ctx context.Context, round *models.Round) error {
	if err := r.db.WithContext(ctx).Save(round).Error; err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}
	return nil
}

func (r *roundRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]RoundSummary, error) {
	summaries := make([]RoundSummary, 0, limit)
	err := r.db.WithContext(ctx).
		Model(&models.Round{}).
		Select("id", "course_name", "date", "total_points", "status").
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return summaries, nil
}

func (r *roundRepository) ListNeedingBackfill(ctx context.Context, limit int) ([]*models.Round, error) {
	var rounds []*models.Round
	err := r.db.WithContext(ctx).
		Where("status = ? AND total_points IS NULL", models.RoundFinished).
		Order("created_at ASC").
		Limit(limit).
		Find(&rounds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds needing backfill: %w", err)
	}
	return rounds, nil
}
