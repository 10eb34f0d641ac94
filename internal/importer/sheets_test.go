package importer

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealprep/internal/models"
)

type staticSource struct {
	rows [][]interface{}
	err  error
	got  string
}

func (s *staticSource) Rows(_ context.Context, _ string, readRange string) ([][]interface{}, error) {
	s.got = readRange
	return s.rows, s.err
}

var header = []interface{}{"order_id", "client", "menu_type", "menu_count", "delivery_date", "breakfast", "notes",
	"dish", "protein_name", "protein", "carb_name", "carb", "salad_name", "salad"}

func TestParseOrders(t *testing.T) {
	rows := [][]interface{}{
		header,
		{"o-1", "Ana", "Keto", 2.0, "2026-10-19", true, "sin sal", "Pollo", "Pechuga", 150.0, "Arroz", "1 taza", "Mixta", 0.5},
		{"", "", "", "", "", "", "", "Res", "", "200g", "", 1.0},
		{},
		{"o-2", "Luis", "", "", "2026-10-19", "no"},
		{"o-3", "Zoe", "Regular", "1", "2026-10-20", "Sí", "", "", "", "120 g"},
	}

	orders, err := ParseOrders(rows)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	ana := orders[0]
	assert.Equal(t, "o-1", ana.ID)
	assert.Equal(t, 2, ana.MenuCount)
	assert.True(t, ana.IncludesBreakfast)
	assert.Equal(t, "sin sal", ana.Notes)
	require.Len(t, ana.Menu, 2)
	assert.Equal(t, models.RawMenuLine{
		Name: "Pollo", ProteinName: "Pechuga", CarbName: "Arroz", SaladName: "Mixta",
		Protein: models.Num(150), Carb: models.Text("1 taza"), Salad: models.Num(0.5),
	}, ana.Menu[0])
	assert.Equal(t, models.Text("200g"), ana.Menu[1].Protein)
	assert.True(t, ana.Menu[1].Salad.IsZero())

	assert.Empty(t, orders[1].Menu)
	assert.False(t, orders[1].IncludesBreakfast)
	assert.Equal(t, 0, orders[1].MenuCount)

	assert.Equal(t, 1, orders[2].MenuCount)
	assert.True(t, orders[2].IncludesBreakfast)
	assert.Equal(t, models.Text("120 g"), orders[2].Menu[0].Protein)
}

func TestParseOrdersRejectsOrphanLine(t *testing.T) {
	_, err := ParseOrders([][]interface{}{
		header,
		{"", "", "", "", "", "", "", "Pollo", "", 150.0},
	})
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	source := &staticSource{rows: [][]interface{}{header, {"o-1", "Ana", "Keto", 1.0, "2026-10-19"}}}

	orders, err := New(source).Import(context.Background(), "sheet-id", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRange, source.got)
	assert.Len(t, orders, 1)

	_, err = New(&staticSource{}).Import(context.Background(), "sheet-id", "A:N")
	assert.Error(t, err)

	failing := &staticSource{err: errors.New("403")}
	_, err = New(failing).Import(context.Background(), "sheet-id", "A:N")
	assert.ErrorIs(t, err, failing.err)
}

func TestCellInt(t *testing.T) {
	row := []interface{}{2.0, "3", 1e300, -4.0, "many"}

	assert.Equal(t, 2, cellInt(row, 0))
	assert.Equal(t, 3, cellInt(row, 1))
	assert.Equal(t, math.MaxInt32, cellInt(row, 2))
	assert.Zero(t, cellInt(row, 3))
	assert.Zero(t, cellInt(row, 4))
	assert.Zero(t, cellInt(row, 9))
}
