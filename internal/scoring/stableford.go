package scoring

// Points converts gross strokes on a hole into Stableford points.
//
// The net score (gross minus allocated handicap strokes) is compared
// to par: net par scores 2, each stroke better adds one, and net
// double bogey or worse scores 0.
//
//	net albatross  5
//	net eagle      4
//	net birdie     3
//	net par        2
//	net bogey      1
//	net double+    0
func Points(grossStrokes, par, handicapStrokes int) int {
	net := grossStrokes - handicapStrokes
	points := (par - net) + 2
	if points < 0 {
		return 0
	}
	return points
}
