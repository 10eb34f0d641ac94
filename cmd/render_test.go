package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"mealprep/internal/models"
	"mealprep/internal/planning"
)

func TestRenderPlan(t *testing.T) {
	raw := []models.RawOrder{
		{Client: "Ana", MenuType: "Keto", Notes: "sin sal", IncludesBreakfast: true, Menu: []models.RawMenuLine{
			{Name: "Pollo", Protein: models.Text("150g"), Carb: models.Text("1 taza")},
		}},
		{Client: "Luis", Menu: []models.RawMenuLine{{Protein: models.Text("??")}}},
	}
	roster := models.Roster{
		Kitchen:   []models.Worker{{Name: "María", Percentage: 70}, {Name: "Luis", Percentage: 30}},
		Packaging: []models.Worker{{Name: "Ana", Percentage: 100}},
	}
	plan := planning.BuildPlan("2026-10-19", raw, roster, planning.Options{})

	var out bytes.Buffer
	renderPlan(&out, plan)

	text := out.String()
	assert.Contains(t, text, "Production plan 2026-10-19")
	assert.Contains(t, text, "Keto (1 dishes)")
	assert.Contains(t, text, "Pollo  150g")
	assert.Contains(t, text, "sin sal")
	assert.Contains(t, text, "Breakfast: Ana (Keto)")
	assert.Contains(t, text, "María")
	assert.Contains(t, text, "Degraded fields")
}

func TestRenderEmptyPlan(t *testing.T) {
	var out bytes.Buffer
	renderPlan(&out, planning.BuildPlan("2026-10-19", nil, models.Roster{}, planning.Options{}))

	assert.Contains(t, out.String(), "No orders for this date.")
}
