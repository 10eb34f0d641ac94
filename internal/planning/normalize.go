package planning

import (
	"fmt"
	"strconv"
	"strings"

	"mealprep/internal/models"
)

// UnknownMenuType labels orders that declare no menu type. Such orders are kept.
const UnknownMenuType = "Unknown"

// Component names used when a menu line does not name them
const (
	DefaultProteinName   = "Protein"
	DefaultCarbName      = "Carbohydrate"
	DefaultVegetableName = "Vegetables"
)

// Normalize maps raw orders to normalized orders, one for one and in input order
func Normalize(raw []models.RawOrder) []models.NormalizedOrder {
	orders, _ := NormalizeWithIssues(raw)
	return orders
}

// NormalizeWithIssues is Normalize plus the list of fields that fell back to defaults
func NormalizeWithIssues(raw []models.RawOrder) ([]models.NormalizedOrder, []models.Issue) {
	orders := make([]models.NormalizedOrder, 0, len(raw))
	var issues []models.Issue
	for _, r := range raw {
		o, found := NormalizeOrder(r)
		orders = append(orders, o)
		issues = append(issues, found...)
	}
	return orders, issues
}

// NormalizeOrder converts a single raw order. Malformed fields degrade to
// defaults and are reported; they never drop the order.
func NormalizeOrder(r models.RawOrder) (models.NormalizedOrder, []models.Issue) {
	var issues []models.Issue
	report := func(field, raw, reason string) {
		issues = append(issues, models.Issue{
			OrderID: r.ID,
			Client:  r.Client,
			Field:   field,
			Raw:     raw,
			Reason:  reason,
		})
	}

	menuType := firstNonBlank(r.MenuType, r.Plan)
	if menuType == "" {
		menuType = UnknownMenuType
		report("menu_type", "", ReasonMissingMenuType)
	}

	menuCount := r.MenuCount
	switch {
	case menuCount <= 0:
		menuCount = 1
	case menuCount > models.MaxMenuCount:
		report("menu_count", strconv.Itoa(menuCount), ReasonOutOfRange)
		menuCount = models.MaxMenuCount
	}

	dishes := make([]models.NormalizedDish, 0, len(r.Menu))
	for i, line := range r.Menu {
		slot := i + 1
		field := func(name string) string { return fmt.Sprintf("menu[%d].%s", i, name) }

		grams, reason := parseGrams(line.Protein)
		if reason != "" {
			report(field("protein"), line.Protein.String(), reason)
		}
		carb, reason := parseQuantity(line.Carb)
		if reason != "" {
			report(field("carb"), line.Carb.String(), reason)
		}
		vegetable, reason := parseQuantity(line.Salad)
		if reason != "" {
			report(field("salad"), line.Salad.String(), reason)
		}

		dishes = append(dishes, models.NormalizedDish{
			Slot: slot,
			Protein: models.ProteinPortion{
				Name:  firstNonBlank(line.ProteinName, line.Name, DefaultProteinName),
				Grams: grams,
			},
			Carb: models.Component{
				Name:   firstNonBlank(line.CarbName, DefaultCarbName),
				Amount: carb,
			},
			Vegetable: models.Component{
				Name:   firstNonBlank(line.SaladName, DefaultVegetableName),
				Amount: vegetable,
			},
		})
	}

	return models.NormalizedOrder{
		ID:                r.ID,
		Client:            strings.TrimSpace(r.Client),
		Phone:             r.Phone,
		Address:           r.Address,
		MenuType:          menuType,
		MenuCount:         menuCount,
		DeliveryDate:      strings.TrimSpace(r.DeliveryDate),
		Notes:             strings.TrimSpace(r.Notes),
		IncludesBreakfast: r.IncludesBreakfast,
		Dishes:            dishes,
	}, issues
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
