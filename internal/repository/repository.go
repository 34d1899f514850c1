// Package repository defines the persistence ports consumed by the
// service layer and their gorm-backed implementations.
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/jwhitfield/fairway/internal/models"
)

// RoundSummary is the listing projection of a round. TotalPoints stays
// nil while the round is in progress.
type RoundSummary struct {
	ID          uuid.UUID          `json:"id"`
	CourseName  string             `json:"course_name"`
	Date        datatypes.Date     `json:"date"`
	TotalPoints *int               `json:"total_points,omitempty"`
	Status      models.RoundStatus `json:"status"`
}

// RoundRepository persists Round aggregates. Load returns
// models.ErrNotFound for unknown ids; Save is atomic from the caller's
// perspective and safe to retry.
type RoundRepository interface {
	Load(ctx context.Context, id uuid.UUID) (*models.Round, error)
	Save(ctx context.Context, round *models.Round) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]RoundSummary, error)
	// ListNeedingBackfill returns finished rounds persisted before the
	// derived scoring fields existed.
	ListNeedingBackfill(ctx context.Context, limit int) ([]*models.Round, error)
}

// CourseRepository persists course layouts.
type CourseRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	List(ctx context.Context) ([]models.Course, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}
