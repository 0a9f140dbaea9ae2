package recurring

import "strings"

// Confidence is a three-level trust score for a candidate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidences for sorting: high=3, medium=2, low=1.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// ScoreConfidence combines occurrence count, memo signal and rhythm.
//
// The memo hint only bumps the count by one; it never makes an otherwise
// filtered cluster eligible.
func ScoreConfidence(occurrences int, hasMemoHint bool, rhythm Rhythm) Confidence {
	augmented := occurrences
	if hasMemoHint {
		augmented++
	}

	base := 1
	if augmented >= 3 {
		base = 2
	}

	bonus := 0
	if rhythm == RhythmMonthly || rhythm == RhythmWeekly {
		bonus = 1
	}

	switch score := base + bonus; {
	case score >= 3:
		return ConfidenceHigh
	case score >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// hasMemoHint reports whether any memo contains any hint.
// Hints are expected to be normalized (lowercase, non-empty).
func hasMemoHint(c cluster, hints []string) bool {
	for _, txn := range c.members {
		memo := strings.ToLower(txn.Memo)
		if memo == "" {
			continue
		}
		for _, h := range hints {
			if strings.Contains(memo, h) {
				return true
			}
		}
	}
	return false
}
