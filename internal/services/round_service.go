package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jwhitfield/fairway/internal/models"
	"github.com/jwhitfield/fairway/internal/repository"
)

// RoundService orchestrates the round lifecycle: start/resume, hole
// entry, auto-save on round switch, finishing, listings, and legacy
// backfill. Aggregates are loaded fresh from the repository on every
// call, so a failed save never leaves a half-mutated aggregate behind;
// the caller simply retries the operation.
type RoundService struct {
	rounds   repository.RoundRepository
	courses  repository.CourseRepository
	cache    *CacheService
	live     *LiveHub
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewRoundService(rounds repository.RoundRepository, courses repository.CourseRepository, cache *CacheService, live *LiveHub, cacheTTL time.Duration, logger *logrus.Logger) *RoundService {
	return &RoundService{
		rounds:   rounds,
		courses:  courses,
		cache:    cache,
		live:     live,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// StartOrResumeRound resumes an existing round when existingRoundID is
// set, otherwise creates a new in-progress round on the course,
// freezing the player's current handicap index and the course's
// slope/rating at this moment.
func (s *RoundService) StartOrResumeRound(ctx context.Context, userID, courseID uuid.UUID, handicapIndex *float64, existingRoundID *uuid.UUID) (*models.Round, error) {
	if existingRoundID != nil {
		return s.loadOwned(ctx, userID, *existingRoundID)
	}

	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	round, err := models.NewRound(userID, course, handicapIndex, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.rounds.Save(ctx, round); err != nil {
		return nil, err
	}

	s.invalidateRecent(ctx, userID)
	s.logger.WithFields(logrus.Fields{
		"round_id":        round.ID,
		"course_id":       courseID,
		"course_handicap": round.CourseHandicap,
	}).Info("Round started")
	return round, nil
}

// GetRound returns a round owned by userID.
func (s *RoundService) GetRound(ctx context.Context, userID, roundID uuid.UUID) (*models.Round, error) {
	return s.loadOwned(ctx, userID, roundID)
}

// RecordHole enters gross strokes for one hole and persists the round.
func (s *RoundService) RecordHole(ctx context.Context, userID, roundID uuid.UUID, holeNumber, grossStrokes int) (*models.Round, error) {
	round, err := s.loadOwned(ctx, userID, roundID)
	if err != nil {
		return nil, err
	}
	if err := round.RecordHole(holeNumber, grossStrokes); err != nil {
		return nil, err
	}
	if err := s.rounds.Save(ctx, round); err != nil {
		return nil, err
	}

	s.live.Publish("hole_recorded", round.ID.String(), round.Holes[holeNumber-1])
	return round, nil
}

// SaveProgress persists an in-progress round without changing its
// status. Finished rounds are immutable and reject the call.
func (s *RoundService) SaveProgress(ctx context.Context, userID, roundID uuid.UUID) (*models.Round, error) {
	round, err := s.loadOwned(ctx, userID, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status == models.RoundFinished {
		return nil, models.ErrRoundAlreadyFinished
	}
	if err := s.rounds.Save(ctx, round); err != nil {
		return nil, err
	}
	return round, nil
}

// SwitchActiveRound saves the round being left before the target round
// is loaded. The ordering is a hard guarantee: edits to the prior
// round are never silently lost by switching away from it. Leaving a
// finished round skips the save, since a frozen record has nothing
// unsaved.
func (s *RoundService) SwitchActiveRound(ctx context.Context, userID, fromRoundID, toRoundID uuid.UUID) (*models.Round, error) {
	from, err := s.loadOwned(ctx, userID, fromRoundID)
	if err != nil {
		return nil, fmt.Errorf("switching away from round: %w", err)
	}
	if from.Status != models.RoundFinished {
		if err := s.rounds.Save(ctx, from); err != nil {
			return nil, fmt.Errorf("auto-save before switch: %w", err)
		}
	}

	return s.loadOwned(ctx, userID, toRoundID)
}

// ListRecentRounds returns round summaries for a user, newest first.
func (s *RoundService) ListRecentRounds(ctx context.Context, userID uuid.UUID, limit int) ([]repository.RoundSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	key := RecentRoundsCacheKey(userID, limit)
	var cached []repository.RoundSummary
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	summaries, err := s.rounds.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, summaries, s.cacheTTL); err != nil {
		s.logger.WithError(err).Debug("Failed to cache recent rounds")
	}
	return summaries, nil
}

// FinishRound closes a round once every hole is scored and persists
// the result. IncompleteRound and RoundAlreadyFinished pass through to
// the caller unchanged.
func (s *RoundService) FinishRound(ctx context.Context, userID, roundID uuid.UUID) (*models.Round, error) {
	round, err := s.loadOwned(ctx, userID, roundID)
	if err != nil {
		return nil, err
	}
	if err := round.Finish(); err != nil {
		return nil, err
	}
	if err := s.rounds.Save(ctx, round); err != nil {
		return nil, err
	}

	s.invalidateRecent(ctx, userID)
	s.live.Publish("round_finished", round.ID.String(), map[string]interface{}{
		"total_points": round.TotalPoints,
	})
	s.logger.WithFields(logrus.Fields{
		"round_id":     round.ID,
		"total_points": *round.TotalPoints,
	}).Info("Round finished")
	return round, nil
}

// BackfillLegacyRounds recomputes derived scoring fields for finished
// rounds persisted before those fields existed. Safe to re-run;
// already-backfilled rounds no longer match the candidate query.
// Returns the number of rounds updated.
func (s *RoundService) BackfillLegacyRounds(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 200
	}

	candidates, err := s.rounds.ListNeedingBackfill(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, round := range candidates {
		if err := round.BackfillDerivedFields(); err != nil {
			s.logger.WithError(err).WithField("round_id", round.ID).Warn("Skipping round during backfill")
			continue
		}
		if err := s.rounds.Save(ctx, round); err != nil {
			return updated, err
		}
		updated++
	}

	if updated > 0 {
		s.logger.WithField("count", updated).Info("Backfilled legacy rounds")
	}
	return updated, nil
}

func (s *RoundService) loadOwned(ctx context.Context, userID, roundID uuid.UUID) (*models.Round, error) {
	round, err := s.rounds.Load(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.UserID != userID {
		return nil, models.ErrUnauthorized
	}
	return round, nil
}

func (s *RoundService) invalidateRecent(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, recentRoundsKeys(userID)...); err != nil {
		s.logger.WithError(err).Debug("Failed to invalidate recent rounds cache")
	}
}
