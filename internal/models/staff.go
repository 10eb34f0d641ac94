package models

// Pool names a group of workers sharing one workload
type Pool string

const (
	PoolKitchen   Pool = "kitchen"
	PoolPackaging Pool = "packaging"
)

// Valid reports whether the pool is known
func (p Pool) Valid() bool {
	return p == PoolKitchen || p == PoolPackaging
}

// Worker is a staff member with a declared percentage share of a pool's work.
// Percentages are not required to sum to 100.
type Worker struct {
	Name       string  `json:"name" yaml:"name"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Roster holds the workers of both pools in roster order
type Roster struct {
	Kitchen   []Worker `json:"kitchen" yaml:"kitchen"`
	Packaging []Worker `json:"packaging" yaml:"packaging"`
}

// Pool returns the workers of the given pool
func (r Roster) Pool(p Pool) []Worker {
	switch p {
	case PoolKitchen:
		return r.Kitchen
	case PoolPackaging:
		return r.Packaging
	}
	return nil
}

// PercentageSum returns the declared percentages of a pool added up
func PercentageSum(workers []Worker) float64 {
	sum := 0.0
	for _, w := range workers {
		sum += w.Percentage
	}
	return sum
}

// AllocationResult is one worker's share of a pool's dishes
type AllocationResult struct {
	Worker    string         `json:"worker"`
	Share     float64        `json:"share"`
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// Workload is the allocation of the day's dishes across both pools
type Workload struct {
	GrandTotal int                `json:"grand_total"`
	ByMenuType map[string]int     `json:"by_menu_type"`
	Kitchen    []AllocationResult `json:"kitchen"`
	Packaging  []AllocationResult `json:"packaging"`
}
