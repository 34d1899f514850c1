package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jwhitfield/fairway/internal/scoring"
)

// RoundStatus represents the lifecycle state of a round. The only
// legal transition is in_progress -> finished.
type RoundStatus string

const (
	RoundInProgress RoundStatus = "in_progress"
	RoundFinished   RoundStatus = "finished"
)

// HoleRecord is one hole inside a round. Par and stroke index are
// copied from the course at round creation so the record stays
// scoreable even if the course is later edited. GrossStrokes is nil
// until the player enters a score; HandicapStrokes and
// StablefordPoints are derived.
type HoleRecord struct {
	HoleNumber       int  `json:"hole_number"`
	Par              int  `json:"par"`
	StrokeIndex      int  `json:"stroke_index"`
	GrossStrokes     *int `json:"gross_strokes,omitempty"`
	HandicapStrokes  int  `json:"handicap_strokes"`
	StablefordPoints *int `json:"stableford_points,omitempty"`
}

// HoleRecords is stored as a JSON document, one entry per hole on the
// course, ordered by hole number.
type HoleRecords []HoleRecord

// Value implements driver.Valuer for database storage
func (h HoleRecords) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner for database retrieval
func (h *HoleRecords) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return errors.New("unsupported type for HoleRecords")
	}
}

// Round is the aggregate for a single player's round of golf. The
// handicap inputs (index, slope, rating) and the derived course
// handicap are frozen at creation; later changes to the player's
// handicap or the course ratings never rescore an existing round.
type Round struct {
	ID       uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CourseID uuid.UUID      `gorm:"type:uuid;not null" json:"course_id"`
	Date     datatypes.Date `gorm:"not null;index" json:"date"`

	// Denormalized for listings.
	CourseName string `gorm:"not null" json:"course_name"`

	// Frozen at creation.
	HandicapIndex  *float64 `json:"handicap_index,omitempty"`
	SlopeRating    *int     `json:"slope_rating,omitempty"`
	CourseRating   *float64 `json:"course_rating,omitempty"`
	CourseHandicap int      `gorm:"not null" json:"course_handicap"`

	HoleCount   int         `gorm:"not null" json:"hole_count"`
	Holes       HoleRecords `gorm:"type:json;not null" json:"holes"`
	Status      RoundStatus `gorm:"type:varchar(20);not null;default:'in_progress';index" json:"status"`
	TotalPoints *int        `json:"total_points,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Round) TableName() string {
	return "rounds"
}

func (r *Round) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewRound starts a round for a user on a course, freezing the
// player's current handicap index and the course's slope/rating into
// the aggregate. Handicap strokes per hole are allocated up front from
// the frozen course handicap.
func NewRound(userID uuid.UUID, course *Course, handicapIndex *float64, date time.Time) (*Round, error) {
	if err := course.Validate(); err != nil {
		return nil, err
	}

	courseHandicap := scoring.CourseHandicap(handicapIndex, course.SlopeRating, course.CourseRating, course.TotalPar())
	allocation, err := scoring.Allocate(courseHandicap, course.Layout())
	if err != nil {
		return nil, err
	}

	holes := make(HoleRecords, 0, course.HoleCount)
	for _, spec := range sortedByNumber(course.Holes) {
		holes = append(holes, HoleRecord{
			HoleNumber:      spec.Number,
			Par:             spec.Par,
			StrokeIndex:     spec.StrokeIndex,
			HandicapStrokes: allocation[spec.Number],
		})
	}

	return &Round{
		UserID:         userID,
		CourseID:       course.ID,
		CourseName:     course.Name,
		Date:           datatypes.Date(date),
		HandicapIndex:  handicapIndex,
		SlopeRating:    course.SlopeRating,
		CourseRating:   course.CourseRating,
		CourseHandicap: courseHandicap,
		HoleCount:      course.HoleCount,
		Holes:          holes,
		Status:         RoundInProgress,
	}, nil
}

// RecordHole enters gross strokes for a hole and recomputes its
// derived fields from the frozen course handicap. Only valid while the
// round is in progress.
func (r *Round) RecordHole(holeNumber, grossStrokes int) error {
	if r.Status == RoundFinished {
		return ErrRoundAlreadyFinished
	}
	if holeNumber < 1 || holeNumber > r.HoleCount {
		return fmt.Errorf("%w: hole %d of %d", ErrHoleOutOfRange, holeNumber, r.HoleCount)
	}

	rec := r.hole(holeNumber)
	if rec == nil {
		return fmt.Errorf("%w: hole %d has no record", ErrHoleOutOfRange, holeNumber)
	}

	rec.GrossStrokes = &grossStrokes
	rec.HandicapStrokes = scoring.HandicapStrokesForHole(r.CourseHandicap, rec.StrokeIndex, r.HoleCount)
	points := scoring.Points(grossStrokes, rec.Par, rec.HandicapStrokes)
	rec.StablefordPoints = &points
	return nil
}

// Finish closes the round. Every hole must have gross strokes on
// record; otherwise an IncompleteRoundError listing the missing holes
// is returned and the round stays in progress. On success the per-hole
// points are summed into TotalPoints and the round becomes immutable.
func (r *Round) Finish() error {
	if r.Status == RoundFinished {
		return ErrRoundAlreadyFinished
	}

	var missing []int
	total := 0
	for _, h := range r.Holes {
		if h.GrossStrokes == nil {
			missing = append(missing, h.HoleNumber)
			continue
		}
		if h.StablefordPoints != nil {
			total += *h.StablefordPoints
		}
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		return &IncompleteRoundError{MissingHoles: missing}
	}

	r.TotalPoints = &total
	r.Status = RoundFinished
	return nil
}

// BackfillDerivedFields recomputes handicap strokes, per-hole points,
// and the round total from the frozen course handicap and the stored
// gross strokes. It exists for finished rounds persisted before the
// derived fields did; gross strokes and status are never touched, and
// re-running it is a no-op.
func (r *Round) BackfillDerivedFields() error {
	if r.Status != RoundFinished {
		return ErrRoundNotFinished
	}

	layout := make([]scoring.HoleLayout, 0, len(r.Holes))
	for _, h := range r.Holes {
		layout = append(layout, scoring.HoleLayout{Number: h.HoleNumber, StrokeIndex: h.StrokeIndex})
	}
	allocation, err := scoring.Allocate(r.CourseHandicap, layout)
	if err != nil {
		return err
	}

	total := 0
	for i := range r.Holes {
		rec := &r.Holes[i]
		rec.HandicapStrokes = allocation[rec.HoleNumber]
		if rec.GrossStrokes == nil {
			rec.StablefordPoints = nil
			continue
		}
		points := scoring.Points(*rec.GrossStrokes, rec.Par, rec.HandicapStrokes)
		rec.StablefordPoints = &points
		total += points
	}
	r.TotalPoints = &total
	return nil
}

// IsComplete reports whether every hole has gross strokes on record.
func (r *Round) IsComplete() bool {
	for _, h := range r.Holes {
		if h.GrossStrokes == nil {
			return false
		}
	}
	return true
}

func (r *Round) hole(holeNumber int) *HoleRecord {
	for i := range r.Holes {
		if r.Holes[i].HoleNumber == holeNumber {
			return &r.Holes[i]
		}
	}
	return nil
}

func sortedByNumber(specs HoleSpecs) HoleSpecs {
	out := make(HoleSpecs, len(specs))
	copy(out, specs)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
