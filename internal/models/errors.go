package models

import (
	"errors"
	"fmt"
)

// Domain errors raised by the aggregates and translated to HTTP codes
// at the handler layer. Course layout violations are reported as
// scoring.ErrInvalidCourseSpec.
var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrHoleOutOfRange       = errors.New("hole number out of range")
	ErrRoundAlreadyFinished = errors.New("round already finished")
	ErrRoundNotFinished     = errors.New("round not finished")
)

// IncompleteRoundError is returned when a round is finished before
// every hole has a gross score. MissingHoles lists the offending hole
// numbers in ascending order.
type IncompleteRoundError struct {
	MissingHoles []int
}

func (e *IncompleteRoundError) Error() string {
	return fmt.Sprintf("round incomplete: missing gross strokes for holes %v", e.MissingHoles)
}
