package scoring

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidCourseSpec indicates a hole layout whose stroke indexes do
// not form a permutation of 1..N. Allocation never guesses an order on
// a broken layout; callers must fix the course data.
var ErrInvalidCourseSpec = errors.New("invalid course spec")

// HoleLayout is the slice of a hole's spec that stroke allocation
// needs.
type HoleLayout struct {
	Number      int
	StrokeIndex int
}

// Allocate distributes a course handicap across holes ordered by
// stroke index. Every hole receives courseHandicap / N strokes; the
// courseHandicap % N holes with the lowest stroke index (the hardest)
// each receive one extra. Returns a holeNumber -> strokes mapping.
func Allocate(courseHandicap int, holes []HoleLayout) (map[int]int, error) {
	if err := validateLayout(holes); err != nil {
		return nil, err
	}
	if courseHandicap < 0 {
		return nil, fmt.Errorf("course handicap must not be negative, got %d", courseHandicap)
	}

	n := len(holes)
	strokes := make(map[int]int, n)
	for _, h := range holes {
		strokes[h.Number] = HandicapStrokesForHole(courseHandicap, h.StrokeIndex, n)
	}
	return strokes, nil
}

// HandicapStrokesForHole returns the strokes a single hole receives
// out of the course handicap. Stroke indexes are assumed to be a valid
// permutation of 1..holeCount; Allocate enforces that for whole
// layouts.
func HandicapStrokesForHole(courseHandicap, strokeIndex, holeCount int) int {
	base := courseHandicap / holeCount
	remainder := courseHandicap % holeCount
	if strokeIndex <= remainder {
		return base + 1
	}
	return base
}

func validateLayout(holes []HoleLayout) error {
	n := len(holes)
	if n == 0 {
		return fmt.Errorf("%w: no holes", ErrInvalidCourseSpec)
	}

	indexes := make([]int, 0, n)
	for _, h := range holes {
		indexes = append(indexes, h.StrokeIndex)
	}
	sort.Ints(indexes)
	for i, si := range indexes {
		if si != i+1 {
			return fmt.Errorf("%w: stroke indexes must be a permutation of 1..%d", ErrInvalidCourseSpec, n)
		}
	}
	return nil
}
