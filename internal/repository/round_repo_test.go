package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhitfield/fairway/internal/models"
	"github.com/jwhitfield/fairway/pkg/database"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewConnection("sqlite://file::memory:?cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Round{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM rounds")
		db.Exec("DELETE FROM courses")
		db.Exec("DELETE FROM users")
		db.Close()
	})
	return db
}

func seedCourse(t *testing.T, db *database.DB) *models.Course {
	t.Helper()
	holes := make(models.HoleSpecs, 0, 9)
	for i := 1; i <= 9; i++ {
		holes = append(holes, models.HoleSpec{Number: i, Par: 4, StrokeIndex: i})
	}
	course := &models.Course{Name: "Links Test", HoleCount: 9, Holes: holes}
	require.NoError(t, NewCourseRepository(db).Create(context.Background(), course))
	return course
}

func seedRound(t *testing.T, db *database.DB, userID uuid.UUID, course *models.Course, date time.Time) *models.Round {
	t.Helper()
	hi := 9.0
	round, err := models.NewRound(userID, course, &hi, date)
	require.NoError(t, err)
	require.NoError(t, NewRoundRepository(db).Save(context.Background(), round))
	return round
}

func TestRoundRepository_SaveAndLoad(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewRoundRepository(db)

	course := seedCourse(t, db)
	userID := uuid.New()
	round := seedRound(t, db, userID, course, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC))

	loaded, err := repo.Load(ctx, round.ID)
	require.NoError(t, err)
	assert.Equal(t, round.ID, loaded.ID)
	assert.Equal(t, userID, loaded.UserID)
	assert.Equal(t, "Links Test", loaded.CourseName)
	assert.Equal(t, 9, loaded.CourseHandicap)
	assert.Equal(t, models.RoundInProgress, loaded.Status)
	require.Len(t, loaded.Holes, 9)
	assert.Equal(t, 1, loaded.Holes[0].HandicapStrokes)

	// Round-trip a recorded hole through the JSON column.
	require.NoError(t, loaded.RecordHole(4, 5))
	require.NoError(t, repo.Save(ctx, loaded))

	again, err := repo.Load(ctx, round.ID)
	require.NoError(t, err)
	rec := again.Holes[3]
	require.NotNil(t, rec.GrossStrokes)
	assert.Equal(t, 5, *rec.GrossStrokes)
	require.NotNil(t, rec.StablefordPoints)
	assert.Equal(t, 2, *rec.StablefordPoints)
}

func TestRoundRepository_LoadUnknown(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewRoundRepository(db).Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRoundRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewRoundRepository(db)

	course := seedCourse(t, db)
	userID := uuid.New()
	older := seedRound(t, db, userID, course, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	newer := seedRound(t, db, userID, course, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	seedRound(t, db, uuid.New(), course, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)) // someone else's

	summaries, err := repo.ListByUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, older.ID, summaries[1].ID)
	assert.Nil(t, summaries[0].TotalPoints)
	assert.Equal(t, models.RoundInProgress, summaries[0].Status)

	limited, err := repo.ListByUser(ctx, userID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRoundRepository_ListNeedingBackfill(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewRoundRepository(db)

	course := seedCourse(t, db)
	userID := uuid.New()

	// Finished with totals: not a backfill candidate.
	done := seedRound(t, db, userID, course, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	for n := 1; n <= 9; n++ {
		require.NoError(t, done.RecordHole(n, 5))
	}
	require.NoError(t, done.Finish())
	require.NoError(t, repo.Save(ctx, done))

	// Legacy shape: finished but the derived total was never stored.
	legacy := seedRound(t, db, userID, course, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	for n := 1; n <= 9; n++ {
		require.NoError(t, legacy.RecordHole(n, 5))
	}
	legacy.Status = models.RoundFinished
	legacy.TotalPoints = nil
	require.NoError(t, repo.Save(ctx, legacy))

	// In progress: never a candidate.
	seedRound(t, db, userID, course, time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC))

	candidates, err := repo.ListNeedingBackfill(ctx, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, legacy.ID, candidates[0].ID)
}
