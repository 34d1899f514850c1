// Package scoring holds the pure calculation rules for Stableford golf:
// course-handicap derivation (WHS), handicap-stroke allocation across
// holes, and net-score-to-points conversion. Functions here are
// stateless and side-effect-free.
package scoring

import "math"

const (
	// neutralSlope is the WHS slope rating of a course of standard
	// difficulty.
	neutralSlope = 113

	// MaxCourseHandicap is the WHS ceiling, also used when a player has
	// no handicap index on record.
	MaxCourseHandicap = 54
)

// CourseHandicap derives the whole-stroke course handicap from a
// player's handicap index and the course difficulty ratings.
//
// A player with no handicap index plays off the WHS maximum of 54.
// When slope or course rating is unknown the index itself is rounded
// with no slope adjustment. Otherwise the WHS formula applies:
//
//	HI x (slope / 113) + (CR - par)
//
// The result is rounded half-up and clamped to [0, MaxCourseHandicap]
// so downstream stroke allocation always receives a usable budget.
func CourseHandicap(handicapIndex *float64, slopeRating *int, courseRating *float64, par int) int {
	if handicapIndex == nil {
		return MaxCourseHandicap
	}

	var raw float64
	if slopeRating == nil || courseRating == nil {
		raw = *handicapIndex
	} else {
		raw = *handicapIndex*(float64(*slopeRating)/neutralSlope) + (*courseRating - float64(par))
	}

	ch := roundHalfUp(raw)
	if ch < 0 {
		return 0
	}
	if ch > MaxCourseHandicap {
		return MaxCourseHandicap
	}
	return ch
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
