package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jwhitfield/fairway/internal/scoring"
)

// HoleSpec describes a single hole on a course: its number, par, and
// stroke index (1 = hardest, governs handicap stroke allocation).
type HoleSpec struct {
	Number      int `json:"number"`
	Par         int `json:"par"`
	StrokeIndex int `json:"stroke_index"`
}

// HoleSpecs is stored as a JSON document so the same model works on
// postgres and sqlite.
type HoleSpecs []HoleSpec

// Value implements driver.Valuer for database storage
func (h HoleSpecs) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner for database retrieval
func (h *HoleSpecs) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return errors.New("unsupported type for HoleSpecs")
	}
}

// Course is the immutable layout of a golf course. Slope and course
// rating are optional; without them course handicaps fall back to the
// raw handicap index.
type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	HoleCount    int       `gorm:"not null" json:"hole_count"`
	Holes        HoleSpecs `gorm:"type:json;not null" json:"holes"`
	SlopeRating  *int      `json:"slope_rating,omitempty"`
	CourseRating *float64  `json:"course_rating,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Validate enforces the course invariants: 9 or 18 holes, contiguous
// hole numbers, par between 3 and 5, stroke indexes forming a
// permutation of 1..N, and slope/rating inside their WHS ranges.
// Violations are reported as scoring.ErrInvalidCourseSpec; broken
// layouts are never auto-repaired.
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: course name required", scoring.ErrInvalidCourseSpec)
	}

	n := len(c.Holes)
	if n != 9 && n != 18 {
		return fmt.Errorf("%w: course must have exactly 9 or 18 holes, got %d", scoring.ErrInvalidCourseSpec, n)
	}
	if c.HoleCount != n {
		return fmt.Errorf("%w: hole count %d does not match %d holes", scoring.ErrInvalidCourseSpec, c.HoleCount, n)
	}

	seenNumbers := make(map[int]bool, n)
	layout := make([]scoring.HoleLayout, 0, n)
	for _, h := range c.Holes {
		if h.Number < 1 || h.Number > n || seenNumbers[h.Number] {
			return fmt.Errorf("%w: hole numbers must be contiguous 1..%d", scoring.ErrInvalidCourseSpec, n)
		}
		seenNumbers[h.Number] = true
		if h.Par < 3 || h.Par > 5 {
			return fmt.Errorf("%w: hole %d par must be 3, 4, or 5", scoring.ErrInvalidCourseSpec, h.Number)
		}
		layout = append(layout, scoring.HoleLayout{Number: h.Number, StrokeIndex: h.StrokeIndex})
	}

	// Allocation with a zero budget exercises only the permutation
	// check.
	if _, err := scoring.Allocate(0, layout); err != nil {
		return err
	}

	if c.SlopeRating != nil && (*c.SlopeRating < 55 || *c.SlopeRating > 155) {
		return fmt.Errorf("%w: slope rating must be between 55 and 155", scoring.ErrInvalidCourseSpec)
	}
	if c.CourseRating != nil && *c.CourseRating <= 0 {
		return fmt.Errorf("%w: course rating must be positive", scoring.ErrInvalidCourseSpec)
	}

	return nil
}

// TotalPar sums par across all holes.
func (c *Course) TotalPar() int {
	total := 0
	for _, h := range c.Holes {
		total += h.Par
	}
	return total
}

// Layout returns the hole layout in the form stroke allocation
// expects.
func (c *Course) Layout() []scoring.HoleLayout {
	layout := make([]scoring.HoleLayout, 0, len(c.Holes))
	for _, h := range c.Holes {
		layout = append(layout, scoring.HoleLayout{Number: h.Number, StrokeIndex: h.StrokeIndex})
	}
	return layout
}
