package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialLayout(n int) []HoleLayout {
	holes := make([]HoleLayout, 0, n)
	for i := 1; i <= n; i++ {
		holes = append(holes, HoleLayout{Number: i, StrokeIndex: i})
	}
	return holes
}

func TestAllocate_EvenDistribution(t *testing.T) {
	// Course handicap equal to hole count: exactly one stroke per hole.
	strokes, err := Allocate(9, sequentialLayout(9))
	require.NoError(t, err)

	require.Len(t, strokes, 9)
	for hole, s := range strokes {
		assert.Equal(t, 1, s, "hole %d", hole)
	}
}

func TestAllocate_RemainderGoesToHardestHoles(t *testing.T) {
	// 11 strokes over 9 holes: stroke indexes 1 and 2 get two each.
	strokes, err := Allocate(11, sequentialLayout(9))
	require.NoError(t, err)

	assert.Equal(t, 2, strokes[1])
	assert.Equal(t, 2, strokes[2])
	for hole := 3; hole <= 9; hole++ {
		assert.Equal(t, 1, strokes[hole], "hole %d", hole)
	}
}

func TestAllocate_RespectsStrokeIndexNotHoleNumber(t *testing.T) {
	// Hole 7 is the hardest on this layout; it alone gets the extra
	// stroke.
	holes := []HoleLayout{
		{Number: 1, StrokeIndex: 5}, {Number: 2, StrokeIndex: 3},
		{Number: 3, StrokeIndex: 9}, {Number: 4, StrokeIndex: 2},
		{Number: 5, StrokeIndex: 7}, {Number: 6, StrokeIndex: 4},
		{Number: 7, StrokeIndex: 1}, {Number: 8, StrokeIndex: 8},
		{Number: 9, StrokeIndex: 6},
	}

	strokes, err := Allocate(10, holes)
	require.NoError(t, err)

	assert.Equal(t, 2, strokes[7])
	for _, h := range holes {
		if h.Number == 7 {
			continue
		}
		assert.Equal(t, 1, strokes[h.Number], "hole %d", h.Number)
	}
}

func TestAllocate_SumAndSpreadProperties(t *testing.T) {
	for _, n := range []int{9, 18} {
		layout := sequentialLayout(n)
		for ch := 0; ch <= 54; ch++ {
			strokes, err := Allocate(ch, layout)
			require.NoError(t, err)

			sum, min, max := 0, strokes[1], strokes[1]
			for _, s := range strokes {
				sum += s
				if s < min {
					min = s
				}
				if s > max {
					max = s
				}
			}
			assert.Equal(t, ch, sum, "handicap %d over %d holes", ch, n)
			assert.LessOrEqual(t, max-min, 1, "handicap %d over %d holes", ch, n)
		}
	}
}

func TestAllocate_InvalidLayouts(t *testing.T) {
	tests := []struct {
		name  string
		holes []HoleLayout
	}{
		{
			name:  "empty layout",
			holes: nil,
		},
		{
			name: "duplicate stroke index",
			holes: []HoleLayout{
				{Number: 1, StrokeIndex: 1},
				{Number: 2, StrokeIndex: 1},
				{Number: 3, StrokeIndex: 3},
			},
		},
		{
			name: "stroke index out of range",
			holes: []HoleLayout{
				{Number: 1, StrokeIndex: 1},
				{Number: 2, StrokeIndex: 2},
				{Number: 3, StrokeIndex: 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(5, tt.holes)
			assert.ErrorIs(t, err, ErrInvalidCourseSpec)
		})
	}
}

func TestAllocate_NegativeHandicapRejected(t *testing.T) {
	_, err := Allocate(-1, sequentialLayout(9))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCourseSpec)
}
