package recurring

import (
	"sort"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
	"github.com/shopspring/decimal"
)

// cluster groups transactions believed to be the same recurring payment.
// seed is the amount of the transaction that opened the cluster and is never
// recomputed, so a slowly drifting price can split into several clusters.
type cluster struct {
	members []model.Transaction
	seed    int64
	low     decimal.Decimal
	high    decimal.Decimal
}

func newCluster(seed model.Transaction, tolerance decimal.Decimal) cluster {
	amount := decimal.NewFromInt(seed.Amount)
	one := decimal.NewFromInt(1)
	return cluster{
		seed:    seed.Amount,
		low:     amount.Mul(one.Sub(tolerance)),
		high:    amount.Mul(one.Add(tolerance)),
		members: []model.Transaction{seed},
	}
}

// accepts reports whether amount lies inside the closed tolerance band.
func (c cluster) accepts(amount int64) bool {
	a := decimal.NewFromInt(amount)
	return a.GreaterThanOrEqual(c.low) && a.LessThanOrEqual(c.high)
}

func (c cluster) dates() []time.Time {
	dates := make([]time.Time, len(c.members))
	for i, txn := range c.members {
		dates[i] = txn.Date
	}
	return dates
}

// clusterByAmount assigns each transaction, in ascending date order, to the
// first cluster (by creation) whose band accepts it, opening a new cluster when
// none does. Transactions on the same day keep their input order.
func clusterByAmount(txns []model.Transaction, tolerancePct float64) []cluster {
	ordered := make([]model.Transaction, len(txns))
	copy(ordered, txns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Day().Before(ordered[j].Day())
	})

	tolerance := decimal.NewFromFloat(tolerancePct)

	var clusters []cluster
	for _, txn := range ordered {
		placed := false
		for i := range clusters {
			if clusters[i].accepts(txn.Amount) {
				clusters[i].members = append(clusters[i].members, txn)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, newCluster(txn, tolerance))
		}
	}
	return clusters
}

// filterByOccurrences drops clusters with fewer than minOccurrences members.
func filterByOccurrences(clusters []cluster, minOccurrences int) []cluster {
	kept := clusters[:0:0]
	for _, c := range clusters {
		if len(c.members) >= minOccurrences {
			kept = append(kept, c)
		}
	}
	return kept
}
