package models

import "sort"

// Unit tags an Amount as grams or cups. The two are never converted implicitly.
type Unit string

const (
	UnitGrams Unit = "grams"
	UnitCups  Unit = "cups"
)

// Amount is a non-negative magnitude in grams or cups
type Amount struct {
	Unit  Unit    `json:"unit"`
	Value float64 `json:"value"`
}

// Grams returns an amount in grams
func Grams(v float64) Amount {
	return Amount{Unit: UnitGrams, Value: v}
}

// Cups returns an amount in cups
func Cups(v float64) Amount {
	return Amount{Unit: UnitCups, Value: v}
}

// ProteinPortion is the protein of a dish. Protein is always weighed in grams.
type ProteinPortion struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
}

// Component is a carbohydrate or vegetable portion of a dish
type Component struct {
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
}

// NormalizedDish represents a dish at a 1-based slot of an order
type NormalizedDish struct {
	Slot      int            `json:"slot"`
	Protein   ProteinPortion `json:"protein"`
	Carb      Component      `json:"carb"`
	Vegetable Component      `json:"vegetable"`
}

// NormalizedOrder is the typed view of exactly one RawOrder
type NormalizedOrder struct {
	ID                string           `json:"id"`
	Client            string           `json:"client"`
	Phone             string           `json:"phone,omitempty"`
	Address           string           `json:"address,omitempty"`
	MenuType          string           `json:"menu_type"`
	MenuCount         int              `json:"menu_count"`
	DeliveryDate      string           `json:"delivery_date"`
	Notes             string           `json:"notes"`
	IncludesBreakfast bool             `json:"includes_breakfast"`
	Dishes            []NormalizedDish `json:"dishes"`
}

// MaxMenuCount bounds the menus a single order can ask for
const MaxMenuCount = 100

// Portions is the menu count clamped to 1..MaxMenuCount
func (o NormalizedOrder) Portions() int {
	switch {
	case o.MenuCount <= 0:
		return 1
	case o.MenuCount > MaxMenuCount:
		return MaxMenuCount
	}
	return o.MenuCount
}

// DishCount returns the portions this order adds to the day's production
func (o NormalizedOrder) DishCount() int {
	return len(o.Dishes) * o.Portions()
}

// ComponentTotals are the separate gram and cup running totals of one component
type ComponentTotals struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
	Cups  float64 `json:"cups"`
}

// ConsolidatedDish holds the production totals of one dish slot of a menu type
type ConsolidatedDish struct {
	Slot         int             `json:"slot"`
	ProteinName  string          `json:"protein_name"`
	ProteinGrams float64         `json:"protein_grams"`
	Carb         ComponentTotals `json:"carb"`
	Vegetable    ComponentTotals `json:"vegetable"`
	DishCount    int             `json:"dish_count"`
}

// MenuTypeAggregate groups consolidated dishes of a menu type by slot number
type MenuTypeAggregate struct {
	MenuType string                   `json:"menu_type"`
	Dishes   map[int]ConsolidatedDish `json:"dishes"`
}

// SortedDishes returns the consolidated dishes ordered by slot
func (a MenuTypeAggregate) SortedDishes() []ConsolidatedDish {
	out := make([]ConsolidatedDish, 0, len(a.Dishes))
	for _, d := range a.Dishes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// DishCount returns the total portions of this menu type
func (a MenuTypeAggregate) DishCount() int {
	total := 0
	for _, d := range a.Dishes {
		total += d.DishCount
	}
	return total
}

// ClientNote is a client's free-text instruction for the kitchen
type ClientNote struct {
	Client string `json:"client"`
	Notes  string `json:"notes"`
}

// BreakfastClient is a client whose delivery includes breakfast
type BreakfastClient struct {
	Client   string `json:"client"`
	MenuType string `json:"menu_type"`
}

// KitchenSheet is the consolidated production requirement for one delivery date.
// MenuTypes lists the menu types in the order they first appeared.
type KitchenSheet struct {
	MenuTypes        []string                     `json:"menu_types"`
	ByMenuType       map[string]MenuTypeAggregate `json:"by_menu_type"`
	NotesByMenuType  map[string][]ClientNote      `json:"notes_by_menu_type"`
	BreakfastClients []BreakfastClient            `json:"breakfast_clients"`
}

// ClientManifest is the packaging entry of one order
type ClientManifest struct {
	OrderID           string           `json:"order_id,omitempty"`
	Client            string           `json:"client"`
	MenuType          string           `json:"menu_type"`
	MenuCount         int              `json:"menu_count"`
	Notes             string           `json:"notes"`
	IncludesBreakfast bool             `json:"includes_breakfast"`
	Dishes            []NormalizedDish `json:"dishes"`
	Packager          string           `json:"packager,omitempty"`
}

// PackagingSheet lists one manifest per order plus the breakfast clients
type PackagingSheet struct {
	Clients          []ClientManifest  `json:"clients"`
	BreakfastClients []BreakfastClient `json:"breakfast_clients"`
}

// PurchaseLine is an estimated gram requirement of one ingredient
type PurchaseLine struct {
	Kind       string  `json:"kind"`
	Ingredient string  `json:"ingredient"`
	Grams      float64 `json:"grams"`
}

// Issue records an input field that was degraded to a default during normalization
type Issue struct {
	OrderID string `json:"order_id,omitempty"`
	Client  string `json:"client,omitempty"`
	Field   string `json:"field"`
	Raw     string `json:"raw,omitempty"`
	Reason  string `json:"reason"`
}

// DailyPlan bundles every derived structure for one delivery date
type DailyPlan struct {
	Date       string         `json:"date"`
	OrderCount int            `json:"order_count"`
	Kitchen    KitchenSheet   `json:"kitchen"`
	Workload   Workload       `json:"workload"`
	Packaging  PackagingSheet `json:"packaging"`
	Purchases  []PurchaseLine `json:"purchases"`
	Issues     []Issue        `json:"issues"`
}
