package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhitfield/fairway/internal/scoring"
)

func validNineHoleCourse() *Course {
	holes := make(HoleSpecs, 0, 9)
	for i := 1; i <= 9; i++ {
		holes = append(holes, HoleSpec{Number: i, Par: 4, StrokeIndex: i})
	}
	return &Course{
		Name:      "Heathside GC",
		HoleCount: 9,
		Holes:     holes,
	}
}

func TestCourseValidate_Valid(t *testing.T) {
	course := validNineHoleCourse()
	require.NoError(t, course.Validate())
	assert.Equal(t, 36, course.TotalPar())

	slope := 122
	rating := 68.9
	course.SlopeRating = &slope
	course.CourseRating = &rating
	assert.NoError(t, course.Validate())
}

func TestCourseValidate_Invalid(t *testing.T) {
	slope := 200
	rating := -1.0

	tests := []struct {
		name   string
		mutate func(*Course)
	}{
		{
			name:   "blank name",
			mutate: func(c *Course) { c.Name = "  " },
		},
		{
			name:   "wrong hole count",
			mutate: func(c *Course) { c.Holes = c.Holes[:7]; c.HoleCount = 7 },
		},
		{
			name:   "hole count mismatch",
			mutate: func(c *Course) { c.HoleCount = 18 },
		},
		{
			name:   "duplicate hole number",
			mutate: func(c *Course) { c.Holes[1].Number = 1 },
		},
		{
			name:   "par out of range",
			mutate: func(c *Course) { c.Holes[3].Par = 6 },
		},
		{
			name:   "stroke indexes not a permutation",
			mutate: func(c *Course) { c.Holes[0].StrokeIndex = 9 },
		},
		{
			name:   "slope rating out of range",
			mutate: func(c *Course) { c.SlopeRating = &slope },
		},
		{
			name:   "negative course rating",
			mutate: func(c *Course) { c.CourseRating = &rating },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := validNineHoleCourse()
			tt.mutate(course)
			assert.ErrorIs(t, course.Validate(), scoring.ErrInvalidCourseSpec)
		})
	}
}
