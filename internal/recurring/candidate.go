package recurring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	unknownCategoryLabel = "(category unknown)"
	missingMemoLabel     = "(no memo)"
	idLabelPrefixLen     = 16
)

// candidateNamespace scopes candidate IDs so they never collide with other
// name-based UUIDs.
var candidateNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Veraticus/the-spice-must-recur/candidate"))

// Candidate is a cluster presented to the user as a possible subscription.
type Candidate struct {
	FirstSeen     time.Time  `json:"first_seen"`
	LastSeen      time.Time  `json:"last_seen"`
	ID            string     `json:"id"`
	Label         string     `json:"label"`
	Rhythm        Rhythm     `json:"rhythm"`
	Confidence    Confidence `json:"confidence"`
	Evidence      string     `json:"evidence"`
	AverageAmount int64      `json:"average_amount"`
	Occurrences   int        `json:"occurrences"`
}

// Result is the ranked output of one detection run.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	Total      int         `json:"total"`
}

func buildCandidate(c cluster, hints []string) Candidate {
	dates := c.dates()
	rhythm := ClassifyRhythm(dates)
	avg := averageAmount(c)
	label := candidateLabel(c)

	return Candidate{
		ID:            CandidateID(avg, rhythm, label),
		Label:         label,
		AverageAmount: avg,
		Occurrences:   len(c.members),
		Rhythm:        rhythm,
		Confidence:    ScoreConfidence(len(c.members), hasMemoHint(c, hints), rhythm),
		Evidence:      fmt.Sprintf("%d payments averaging %d, %s", len(c.members), avg, rhythm.Label()),
		FirstSeen:     dates[0],
		LastSeen:      dates[len(dates)-1],
	}
}

// candidateLabel describes the cluster using its seed transaction.
func candidateLabel(c cluster) string {
	seed := c.members[0]
	memo := strings.TrimSpace(seed.Memo)
	category := strings.TrimSpace(seed.CategoryLabel)

	switch {
	case category != "" && memo != "":
		return category + " / " + memo
	case category != "":
		return category + " / " + missingMemoLabel
	case memo != "":
		return memo
	default:
		return unknownCategoryLabel
	}
}

// averageAmount is the member mean rounded half away from zero.
func averageAmount(c cluster) int64 {
	var sum int64
	for _, txn := range c.members {
		sum += txn.Amount
	}
	return decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(c.members)))).
		Round(0).
		IntPart()
}

// CandidateID derives a stable identifier from the rounded average (nearest
// hundred), the rhythm and the first 16 characters of the label.
func CandidateID(averageAmount int64, rhythm Rhythm, label string) string {
	bucket := decimal.NewFromInt(averageAmount).
		Div(decimal.NewFromInt(100)).
		Round(0).
		Mul(decimal.NewFromInt(100)).
		IntPart()

	prefix := []rune(label)
	if len(prefix) > idLabelPrefixLen {
		prefix = prefix[:idLabelPrefixLen]
	}

	key := fmt.Sprintf("%d|%s|%s", bucket, rhythm, string(prefix))
	return uuid.NewSHA1(candidateNamespace, []byte(key)).String()
}

// rankCandidates sorts by confidence then average amount, both descending.
// Equal pairs keep their relative order.
func rankCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := candidates[i].Confidence.Rank(), candidates[j].Confidence.Rank()
		if ri != rj {
			return ri > rj
		}
		return candidates[i].AverageAmount > candidates[j].AverageAmount
	})
}
