package planning

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealprep/internal/models"
)

func ordersWithDishes(counts map[string]int, order ...string) []models.NormalizedOrder {
	out := make([]models.NormalizedOrder, 0, len(order))
	for _, menuType := range order {
		o := models.NormalizedOrder{Client: menuType, MenuType: menuType, MenuCount: 1}
		for slot := 1; slot <= counts[menuType]; slot++ {
			o.Dishes = append(o.Dishes, dish(slot, 100, models.Cups(1), models.Grams(80)))
		}
		out = append(out, o)
	}
	return out
}

func totalsOf(results []models.AllocationResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Total
	}
	return out
}

func TestAllocateScenario(t *testing.T) {
	orders := ordersWithDishes(map[string]int{"Keto": 4, "Regular": 3}, "Keto", "Regular")
	pool := []models.Worker{{Name: "Ana", Percentage: 50}, {Name: "José", Percentage: 30}, {Name: "Carla", Percentage: 20}}

	results := Allocate(orders, pool)

	require.Len(t, results, 3)
	assert.Equal(t, []int{4, 2, 1}, totalsOf(results))
	assert.InDelta(t, 0.5, results[0].Share, 1e-9)
	assert.InDelta(t, 0.3, results[1].Share, 1e-9)
	assert.InDelta(t, 0.2, results[2].Share, 1e-9)

	assert.Equal(t, map[string]int{"Keto": 2, "Regular": 2}, results[0].Breakdown)
	assert.Equal(t, map[string]int{"Keto": 1, "Regular": 1}, results[1].Breakdown)
	assert.Equal(t, map[string]int{"Keto": 1}, results[2].Breakdown)
}

func TestAllocateNormalizesPercentages(t *testing.T) {
	orders := ordersWithDishes(map[string]int{"Keto": 4, "Regular": 3}, "Keto", "Regular")

	small := Allocate(orders, []models.Worker{{Name: "Ana", Percentage: 10}, {Name: "Luis", Percentage: 10}})
	full := Allocate(orders, []models.Worker{{Name: "Ana", Percentage: 50}, {Name: "Luis", Percentage: 50}})

	if diff := cmp.Diff(full, small); diff != "" {
		t.Errorf("[10,10] and [50,50] differ (-full +small):\n%s", diff)
	}
	assert.Equal(t, []int{4, 3}, totalsOf(small))
}

func TestAllocateZeroPercentagesSplitsEvenly(t *testing.T) {
	orders := ordersWithDishes(map[string]int{"Keto": 7}, "Keto")
	pool := []models.Worker{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	results := Allocate(orders, pool)

	assert.Equal(t, []int{3, 2, 2}, totalsOf(results))
	for _, r := range results {
		assert.InDelta(t, 1.0/3, r.Share, 1e-9)
	}
}

func TestAllocateEmptyInputs(t *testing.T) {
	orders := ordersWithDishes(map[string]int{"Keto": 3}, "Keto")

	empty := Allocate(orders, nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	pool := []models.Worker{{Name: "Ana", Percentage: 70}, {Name: "Luis", Percentage: 30}}
	results := Allocate(nil, pool)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Zero(t, r.Total)
		assert.NotNil(t, r.Breakdown)
		assert.Empty(t, r.Breakdown)
	}

	// orders without dishes count as nothing to allocate
	results = Allocate([]models.NormalizedOrder{{MenuType: "Keto", MenuCount: 1}}, pool)
	assert.Equal(t, []int{0, 0}, totalsOf(results))
}

func TestAllocateUsesMenuCount(t *testing.T) {
	orders := []models.NormalizedOrder{
		{MenuType: "Keto", MenuCount: 3, Dishes: []models.NormalizedDish{dish(1, 1, models.Grams(1), models.Grams(1)), dish(2, 1, models.Grams(1), models.Grams(1))}},
	}

	results := Allocate(orders, []models.Worker{{Name: "Ana", Percentage: 100}})

	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].Total)
	assert.Equal(t, map[string]int{"Keto": 6}, results[0].Breakdown)
}

func TestAllocateIsExact(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	menuTypes := []string{"Keto", "Regular", "Vegano", "Full Pack", "Unknown"}

	for iter := 0; iter < 500; iter++ {
		counts := make(map[string]int)
		for _, mt := range menuTypes {
			counts[mt] = rng.Intn(15)
		}
		orders := ordersWithDishes(counts, menuTypes...)

		pool := make([]models.Worker, 1+rng.Intn(6))
		for i := range pool {
			pool[i] = models.Worker{Name: string(rune('A' + i)), Percentage: float64(rng.Intn(101))}
		}

		grand := 0
		for _, c := range counts {
			grand += c
		}

		results := Allocate(orders, pool)
		require.Len(t, results, len(pool))

		sum := 0
		for _, r := range results {
			sum += r.Total

			inner := 0
			for _, n := range r.Breakdown {
				assert.Positive(t, n)
				inner += n
			}
			assert.Equal(t, r.Total, inner, "breakdown of %s in iteration %d", r.Worker, iter)

			exact := float64(grand) * r.Share
			assert.LessOrEqual(t, math.Abs(float64(r.Total)-exact), 1.0, "proportionality of %s in iteration %d", r.Worker, iter)
		}
		assert.Equal(t, grand, sum, "iteration %d", iter)
	}
}

func TestAllocateWorkload(t *testing.T) {
	orders := ordersWithDishes(map[string]int{"Keto": 5, "Regular": 5}, "Keto", "Regular")
	roster := models.Roster{
		Kitchen:   []models.Worker{{Name: "María", Percentage: 70}, {Name: "Luis", Percentage: 30}},
		Packaging: []models.Worker{{Name: "Ana", Percentage: 60}, {Name: "José", Percentage: 25}, {Name: "Carla", Percentage: 15}},
	}

	w := AllocateWorkload(orders, roster)

	assert.Equal(t, 10, w.GrandTotal)
	assert.Equal(t, map[string]int{"Keto": 5, "Regular": 5}, w.ByMenuType)
	assert.Equal(t, []int{7, 3}, totalsOf(w.Kitchen))
	assert.Equal(t, []int{6, 3, 1}, totalsOf(w.Packaging))
}

func TestEvenRoster(t *testing.T) {
	workers := EvenRoster(3)

	require.Len(t, workers, 3)
	assert.Equal(t, "Worker 1", workers[0].Name)
	assert.Equal(t, "Worker 3", workers[2].Name)
	assert.Nil(t, EvenRoster(0))

	orders := ordersWithDishes(map[string]int{"Keto": 10}, "Keto")
	assert.Equal(t, []int{4, 3, 3}, totalsOf(Allocate(orders, workers)))
}

func TestAllocateCountsDishesLikeAggregate(t *testing.T) {
	orders := []models.NormalizedOrder{
		{Client: "A", MenuType: "Keto", Dishes: []models.NormalizedDish{
			dish(1, 150, models.Cups(1), models.Grams(80)),
			dish(2, 120, models.Grams(90), models.Cups(1)),
		}},
		{Client: "B", MenuType: "Regular", MenuCount: -3, Dishes: []models.NormalizedDish{
			dish(1, 200, models.Grams(300), models.Cups(0.5)),
		}},
		{Client: "C", MenuType: "Regular", MenuCount: models.MaxMenuCount + 1, Dishes: []models.NormalizedDish{
			dish(1, 200, models.Grams(300), models.Cups(0.5)),
		}},
	}

	sheet := Aggregate(orders)
	aggregated := 0
	for _, menuType := range sheet.MenuTypes {
		aggregated += sheet.ByMenuType[menuType].DishCount()
	}

	results := Allocate(orders, []models.Worker{{Name: "María", Percentage: 100}})
	require.Len(t, results, 1)
	assert.Equal(t, 3+models.MaxMenuCount, aggregated)
	assert.Equal(t, aggregated, results[0].Total)
	assert.Equal(t, map[string]int{"Keto": 2, "Regular": 1 + models.MaxMenuCount}, results[0].Breakdown)
}
