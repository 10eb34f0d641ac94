package planning

import "mealprep/internal/models"

// BuildPackagingSheet produces one manifest per order. When a packaging
// allocation is given, packagers are assigned round-robin in roster order; the
// weighted totals of the allocation only inform staffing, not this assignment.
func BuildPackagingSheet(orders []models.NormalizedOrder, packagers []models.AllocationResult) models.PackagingSheet {
	clients := make([]models.ClientManifest, 0, len(orders))
	for i, o := range orders {
		m := models.ClientManifest{
			OrderID:           o.ID,
			Client:            o.Client,
			MenuType:          o.MenuType,
			MenuCount:         o.Portions(),
			Notes:             o.Notes,
			IncludesBreakfast: o.IncludesBreakfast,
			Dishes:            o.Dishes,
		}
		if len(packagers) > 0 {
			m.Packager = packagers[i%len(packagers)].Worker
		}
		clients = append(clients, m)
	}

	return models.PackagingSheet{
		Clients:          clients,
		BreakfastClients: BreakfastClients(orders),
	}
}
