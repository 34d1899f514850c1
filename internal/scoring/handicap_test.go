package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCourseHandicap(t *testing.T) {
	tests := []struct {
		name          string
		handicapIndex *float64
		slopeRating   *int
		courseRating  *float64
		par           int
		expected      int
	}{
		{
			name:     "missing handicap index uses WHS maximum",
			par:      72,
			expected: 54,
		},
		{
			name:          "missing handicap index ignores slope and rating",
			slopeRating:   intPtr(135),
			courseRating:  floatPtr(74.5),
			par:           72,
			expected:      54,
			handicapIndex: nil,
		},
		{
			name:          "missing slope falls back to rounded index",
			handicapIndex: floatPtr(18.4),
			courseRating:  floatPtr(71.2),
			par:           72,
			expected:      18,
		},
		{
			name:          "missing rating falls back to rounded index",
			handicapIndex: floatPtr(18.5),
			slopeRating:   intPtr(125),
			par:           72,
			expected:      19,
		},
		{
			name:          "full WHS formula",
			handicapIndex: floatPtr(18.4),
			slopeRating:   intPtr(125),
			courseRating:  floatPtr(71.2),
			par:           72,
			// 18.4 * (125/113) + (71.2 - 72) = 19.55... -> 20
			expected: 20,
		},
		{
			name:          "neutral slope and rating equal to par is identity",
			handicapIndex: floatPtr(12.0),
			slopeRating:   intPtr(113),
			courseRating:  floatPtr(70.0),
			par:           70,
			expected:      12,
		},
		{
			name:          "half rounds up",
			handicapIndex: floatPtr(10.5),
			par:           72,
			expected:      11,
		},
		{
			name:          "plus handicap clamps to zero",
			handicapIndex: floatPtr(-4.2),
			slopeRating:   intPtr(113),
			courseRating:  floatPtr(72.0),
			par:           72,
			expected:      0,
		},
		{
			name:          "result clamps to WHS maximum",
			handicapIndex: floatPtr(54.0),
			slopeRating:   intPtr(155),
			courseRating:  floatPtr(78.0),
			par:           72,
			expected:      54,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CourseHandicap(tt.handicapIndex, tt.slopeRating, tt.courseRating, tt.par)
			assert.Equal(t, tt.expected, got)
		})
	}
}
