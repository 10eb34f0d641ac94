package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealprep/internal/models"
)

func TestBuildPlan(t *testing.T) {
	raw := append(scenarioOrders(), models.RawOrder{
		Client: "Sin plan",
		Menu:   []models.RawMenuLine{{Protein: models.Text("??")}},
	})
	roster := models.Roster{
		Kitchen: []models.Worker{{Name: "María", Percentage: 70}, {Name: "Luis", Percentage: 30}},
	}

	plan := BuildPlan("2026-10-19", raw, roster, Options{DefaultPackagers: 2})

	assert.Equal(t, "2026-10-19", plan.Date)
	assert.Equal(t, 3, plan.OrderCount)
	assert.Equal(t, []string{"Keto", "Regular", UnknownMenuType}, plan.Kitchen.MenuTypes)
	assert.Equal(t, 3, plan.Workload.GrandTotal)
	assert.Equal(t, []int{2, 1}, totalsOf(plan.Workload.Kitchen))

	require.Len(t, plan.Workload.Packaging, 2)
	assert.Equal(t, "Worker 1", plan.Workload.Packaging[0].Worker)
	assert.Equal(t, "Worker 2", plan.Packaging.Clients[1].Packager)
	assert.Equal(t, "Worker 1", plan.Packaging.Clients[2].Packager)

	reasons := map[string]string{}
	for _, is := range plan.Issues {
		reasons[is.Field] = is.Reason
	}
	assert.Equal(t, map[string]string{
		"menu_type":       ReasonMissingMenuType,
		"menu[0].protein": ReasonUnparseable,
	}, reasons)
}

func TestBuildPlanKeepsEmptyPackagingPool(t *testing.T) {
	plan := BuildPlan("2026-10-19", scenarioOrders(), models.Roster{}, Options{})

	assert.NotNil(t, plan.Workload.Packaging)
	assert.Empty(t, plan.Workload.Packaging)
	assert.Empty(t, plan.Packaging.Clients[0].Packager)
	assert.NotNil(t, plan.Issues)
}

func TestPurchaseList(t *testing.T) {
	sheet := Aggregate(Normalize(scenarioOrders()))

	lines := PurchaseList(sheet, 0)

	assert.Equal(t, []models.PurchaseLine{
		{Kind: KindProtein, Ingredient: DefaultProteinName, Grams: 350},
		{Kind: KindCarb, Ingredient: DefaultCarbName, Grams: 550},
		{Kind: KindVegetable, Ingredient: DefaultVegetableName, Grams: 205},
	}, lines)

	lines = PurchaseList(sheet, 200)
	assert.Equal(t, 500.0, lines[1].Grams)
}
