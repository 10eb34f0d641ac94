package planning

import "mealprep/internal/models"

// DefaultGramsPerCup is the purchasing estimate for one cup of a carb or vegetable
const DefaultGramsPerCup = 250.0

// Purchase kinds
const (
	KindProtein   = "protein"
	KindCarb      = "carb"
	KindVegetable = "vegetable"
)

// Options tune BuildPlan.
type Options struct {
	// GramsPerCup converts cup totals into purchasing grams. Zero means DefaultGramsPerCup.
	GramsPerCup float64
	// DefaultPackagers is the size of the even packaging roster used when
	// the packaging pool is empty. Zero leaves the pool empty.
	DefaultPackagers int
}

// BuildPlan runs the whole engine over one delivery date's raw orders
func BuildPlan(date string, raw []models.RawOrder, roster models.Roster, opts Options) models.DailyPlan {
	orders, issues := NormalizeWithIssues(raw)
	if issues == nil {
		issues = []models.Issue{}
	}

	if len(roster.Packaging) == 0 && opts.DefaultPackagers > 0 {
		roster.Packaging = EvenRoster(opts.DefaultPackagers)
	}

	kitchen := Aggregate(orders)
	workload := AllocateWorkload(orders, roster)

	return models.DailyPlan{
		Date:       date,
		OrderCount: len(orders),
		Kitchen:    kitchen,
		Workload:   workload,
		Packaging:  BuildPackagingSheet(orders, workload.Packaging),
		Purchases:  PurchaseList(kitchen, opts.GramsPerCup),
		Issues:     issues,
	}
}

// PurchaseList estimates the grams to buy per ingredient. Cup totals are
// converted with gramsPerCup; lines keep first-appearance order.
func PurchaseList(sheet models.KitchenSheet, gramsPerCup float64) []models.PurchaseLine {
	if gramsPerCup <= 0 {
		gramsPerCup = DefaultGramsPerCup
	}

	lines := []models.PurchaseLine{}
	index := make(map[[2]string]int)
	add := func(kind, name string, grams float64) {
		if grams <= 0 {
			return
		}
		key := [2]string{kind, name}
		if i, ok := index[key]; ok {
			lines[i].Grams += grams
			return
		}
		index[key] = len(lines)
		lines = append(lines, models.PurchaseLine{Kind: kind, Ingredient: name, Grams: grams})
	}

	for _, menuType := range sheet.MenuTypes {
		for _, d := range sheet.ByMenuType[menuType].SortedDishes() {
			add(KindProtein, d.ProteinName, d.ProteinGrams)
			add(KindCarb, d.Carb.Name, d.Carb.Grams+GramsFromCups(d.Carb.Cups, gramsPerCup))
			add(KindVegetable, d.Vegetable.Name, d.Vegetable.Grams+GramsFromCups(d.Vegetable.Cups, gramsPerCup))
		}
	}
	return lines
}
