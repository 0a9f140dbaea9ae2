package recurring

import (
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
)

// Rhythm is the inferred periodicity of a cluster.
type Rhythm string

const (
	RhythmWeekly    Rhythm = "weekly"
	RhythmMonthly   Rhythm = "monthly"
	RhythmBiMonthly Rhythm = "bi-monthly"
	RhythmUnknown   Rhythm = "unknown"
)

// Label returns human-readable text for the rhythm.
func (r Rhythm) Label() string {
	switch r {
	case RhythmWeekly:
		return "roughly weekly"
	case RhythmMonthly:
		return "roughly monthly"
	case RhythmBiMonthly:
		return "roughly every two months"
	default:
		return "irregular"
	}
}

// rhythmBand is a half-open gap range (low, high] in days.
type rhythmBand struct {
	rhythm Rhythm
	low    float64
	high   float64
}

// Checked in order; first match wins. Lower edges are exclusive and upper
// edges inclusive for every band, so 40 days is monthly, 10 is weekly and
// 75 is bi-monthly while 20 and 45 fall between bands. Monthly must include
// 40, and the other bands follow the same rule.
var rhythmBands = [...]rhythmBand{
	{rhythm: RhythmBiMonthly, low: 45, high: 75},
	{rhythm: RhythmMonthly, low: 20, high: 40},
	{rhythm: RhythmWeekly, low: 5, high: 10},
}

// ClassifyRhythm labels the spacing of dates, which must be sorted ascending.
// Fewer than two dates is always RhythmUnknown.
func ClassifyRhythm(dates []time.Time) Rhythm {
	if len(dates) < 2 {
		return RhythmUnknown
	}
	return rhythmForGap(averageGapDays(dates))
}

func rhythmForGap(avgGap float64) Rhythm {
	for _, b := range rhythmBands {
		if avgGap > b.low && avgGap <= b.high {
			return b.rhythm
		}
	}
	return RhythmUnknown
}

// averageGapDays is the arithmetic mean of consecutive calendar-day gaps.
func averageGapDays(dates []time.Time) float64 {
	var total int64
	for i := 1; i < len(dates); i++ {
		total += daysBetween(dates[i-1], dates[i])
	}
	return float64(total) / float64(len(dates)-1)
}

func daysBetween(a, b time.Time) int64 {
	return int64(model.CalendarDay(b).Sub(model.CalendarDay(a)).Hours() / 24)
}
