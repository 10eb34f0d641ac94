package planning

import "mealprep/internal/models"

// Aggregate consolidates the orders of one delivery date into per-menu-type,
// per-slot production totals. Grams and cups are summed in separate buckets and
// each order adds its menu count to the dish count of every slot it fills.
// Notes and breakfast clients keep input order.
func Aggregate(orders []models.NormalizedOrder) models.KitchenSheet {
	sheet := models.KitchenSheet{
		MenuTypes:        []string{},
		ByMenuType:       make(map[string]models.MenuTypeAggregate),
		NotesByMenuType:  make(map[string][]models.ClientNote),
		BreakfastClients: []models.BreakfastClient{},
	}
	slots := make(map[string]map[int]*models.ConsolidatedDish)

	for _, o := range orders {
		byslot, ok := slots[o.MenuType]
		if !ok {
			byslot = make(map[int]*models.ConsolidatedDish)
			slots[o.MenuType] = byslot
			sheet.MenuTypes = append(sheet.MenuTypes, o.MenuType)
			sheet.NotesByMenuType[o.MenuType] = []models.ClientNote{}
		}

		if o.Notes != "" {
			sheet.NotesByMenuType[o.MenuType] = append(sheet.NotesByMenuType[o.MenuType], models.ClientNote{
				Client: o.Client,
				Notes:  o.Notes,
			})
		}
		if o.IncludesBreakfast {
			sheet.BreakfastClients = append(sheet.BreakfastClients, models.BreakfastClient{
				Client:   o.Client,
				MenuType: o.MenuType,
			})
		}

		portions := o.Portions()
		for _, dish := range o.Dishes {
			agg, ok := byslot[dish.Slot]
			if !ok {
				agg = &models.ConsolidatedDish{
					Slot:        dish.Slot,
					ProteinName: dish.Protein.Name,
					Carb:        models.ComponentTotals{Name: dish.Carb.Name},
					Vegetable:   models.ComponentTotals{Name: dish.Vegetable.Name},
				}
				byslot[dish.Slot] = agg
			}

			n := float64(portions)
			agg.DishCount += portions
			agg.ProteinGrams += dish.Protein.Grams * n
			addAmount(&agg.Carb, dish.Carb.Amount, n)
			addAmount(&agg.Vegetable, dish.Vegetable.Amount, n)
		}
	}

	for _, menuType := range sheet.MenuTypes {
		dishes := make(map[int]models.ConsolidatedDish, len(slots[menuType]))
		for slot, d := range slots[menuType] {
			dishes[slot] = *d
		}
		sheet.ByMenuType[menuType] = models.MenuTypeAggregate{
			MenuType: menuType,
			Dishes:   dishes,
		}
	}
	return sheet
}

func addAmount(t *models.ComponentTotals, a models.Amount, portions float64) {
	if a.Unit == models.UnitCups {
		t.Cups += a.Value * portions
		return
	}
	t.Grams += a.Value * portions
}

// BreakfastClients lists the orders that include breakfast, in input order
func BreakfastClients(orders []models.NormalizedOrder) []models.BreakfastClient {
	out := []models.BreakfastClient{}
	for _, o := range orders {
		if o.IncludesBreakfast {
			out = append(out, models.BreakfastClient{Client: o.Client, MenuType: o.MenuType})
		}
	}
	return out
}
