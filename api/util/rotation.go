package util

// normalizeQuarterTurns maps any quarter-turn count into [0,3].
func normalizeQuarterTurns(q int) int {
	q %= 4
	if q < 0 {
		q += 4
	}
	return q
}

// quarterSinCos returns exact sin and cos for q*90 degrees.
func quarterSinCos(q int) (s, c float64) {
	switch normalizeQuarterTurns(q) {
	case 0:
		return 0, 1
	case 1:
		return 1, 0
	case 2:
		return 0, -1
	default: // 3
		return -1, 0
	}
}
