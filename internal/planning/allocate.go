package planning

import (
	"fmt"
	"math"
	"sort"

	"mealprep/internal/models"
)

// dishTotals counts dishes per menu type. order holds the menu types with a
// non-zero count in first-appearance order; the last of them absorbs rounding
// leftovers in worker breakdowns.
type dishTotals struct {
	order  []string
	counts map[string]int
	grand  int
}

func countDishes(orders []models.NormalizedOrder) dishTotals {
	t := dishTotals{counts: make(map[string]int)}
	for _, o := range orders {
		n := o.DishCount()
		if n <= 0 {
			continue
		}
		if _, seen := t.counts[o.MenuType]; !seen {
			t.order = append(t.order, o.MenuType)
		}
		t.counts[o.MenuType] += n
		t.grand += n
	}
	return t
}

// Allocate splits the day's dishes across one pool of workers in proportion to
// their normalized shares. Worker totals always add up to the grand total and
// each breakdown adds up to its worker's total. An empty pool yields an empty result.
func Allocate(orders []models.NormalizedOrder, pool []models.Worker) []models.AllocationResult {
	return allocateTotals(countDishes(orders), pool)
}

// AllocateWorkload allocates the kitchen and packaging pools independently
func AllocateWorkload(orders []models.NormalizedOrder, roster models.Roster) models.Workload {
	totals := countDishes(orders)
	byType := make(map[string]int, len(totals.counts))
	for k, v := range totals.counts {
		byType[k] = v
	}
	return models.Workload{
		GrandTotal: totals.grand,
		ByMenuType: byType,
		Kitchen:    allocateTotals(totals, roster.Kitchen),
		Packaging:  allocateTotals(totals, roster.Packaging),
	}
}

func allocateTotals(t dishTotals, pool []models.Worker) []models.AllocationResult {
	results := make([]models.AllocationResult, len(pool))
	if len(pool) == 0 {
		return results
	}

	shares := NormalizedShares(pool)
	for i, w := range pool {
		results[i] = models.AllocationResult{
			Worker:    w.Name,
			Share:     shares[i],
			Breakdown: map[string]int{},
		}
	}
	if t.grand == 0 {
		return results
	}

	for i, total := range apportion(t.grand, shares) {
		results[i].Total = total
		results[i].Breakdown = breakdown(total, t)
	}
	return results
}

// NormalizedShares divides each declared percentage by the pool's sum. Negative
// percentages count as zero; a pool summing to zero is shared evenly.
func NormalizedShares(pool []models.Worker) []float64 {
	shares := make([]float64, len(pool))
	sum := 0.0
	for i, w := range pool {
		p := w.Percentage
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			p = 0
		}
		shares[i] = p
		sum += p
	}

	for i := range shares {
		if sum <= 0 {
			shares[i] = 1 / float64(len(pool))
		} else {
			shares[i] /= sum
		}
	}
	return shares
}

// apportion gives every worker the floor of its exact share, then hands the
// leftover units one at a time to the largest fractional remainders. Ties go
// to the earlier worker in roster order, so equal shares reduce to
// floor(total/n) plus one extra for the first total%n workers.
func apportion(total int, shares []float64) []int {
	type remainder struct {
		idx  int
		frac float64
	}

	alloc := make([]int, len(shares))
	rems := make([]remainder, len(shares))
	assigned := 0
	for i, s := range shares {
		exact := float64(total) * s
		base := math.Floor(exact)
		alloc[i] = int(base)
		assigned += alloc[i]
		rems[i] = remainder{idx: i, frac: exact - base}
	}

	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for k := 0; k < total-assigned; k++ {
		alloc[rems[k%len(rems)].idx]++
	}
	return alloc
}

// breakdown splits a worker's total across menu types by each type's share of
// the grand total. The last type receives whatever remains.
func breakdown(workerTotal int, t dishTotals) map[string]int {
	out := make(map[string]int)
	remaining := workerTotal
	for i, menuType := range t.order {
		if remaining <= 0 {
			break
		}

		var n int
		if i == len(t.order)-1 {
			n = remaining
		} else {
			share := float64(t.counts[menuType]) / float64(t.grand)
			n = int(math.Round(float64(workerTotal) * share))
		}
		if n > remaining {
			n = remaining
		}
		if n > 0 {
			out[menuType] = n
			remaining -= n
		}
	}
	return out
}

// EvenRoster returns n workers named "Worker 1".."Worker n" with equal shares
func EvenRoster(n int) []models.Worker {
	if n <= 0 {
		return nil
	}
	workers := make([]models.Worker, n)
	for i := range workers {
		workers[i] = models.Worker{
			Name:       fmt.Sprintf("Worker %d", i+1),
			Percentage: 100 / float64(n),
		}
	}
	return workers
}
