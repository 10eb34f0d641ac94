package planning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"mealprep/internal/models"
)

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		name  string
		input models.Quantity
		want  models.Amount
	}{
		{"number at threshold is cups", models.Num(5), models.Cups(5)},
		{"number above threshold is grams", models.Num(5.01), models.Grams(5.01)},
		{"half cup number", models.Num(0.5), models.Cups(0.5)},
		{"large number", models.Num(300), models.Grams(300)},
		{"zero number", models.Num(0), models.Grams(0)},
		{"negative number", models.Num(-3), models.Grams(0)},
		{"not a number", models.Num(math.NaN()), models.Grams(0)},
		{"infinity", models.Num(math.Inf(1)), models.Grams(0)},
		{"taza text", models.Text("1 taza"), models.Cups(1)},
		{"half taza text", models.Text("0.5 taza"), models.Cups(0.5)},
		{"taza wins over magnitude", models.Text("12 tazas"), models.Cups(12)},
		{"uppercase taza", models.Text("2 TAZAS"), models.Cups(2)},
		{"english cups", models.Text("2 cups"), models.Cups(2)},
		{"gram suffix", models.Text("300g"), models.Grams(300)},
		{"small gram value stays grams", models.Text("3 gr"), models.Grams(3)},
		{"bare small text", models.Text("3"), models.Cups(3)},
		{"bare large text", models.Text("250"), models.Grams(250)},
		{"decimal comma", models.Text("0,5 taza"), models.Cups(0.5)},
		{"two digit decimal comma", models.Text("1,25 tazas"), models.Cups(1.25)},
		{"decimal comma before unit", models.Text("0,5g"), models.Grams(0.5)},
		{"thousands separator is not a decimal", models.Text("1,500g"), models.Grams(1)},
		{"first number wins", models.Text("150g o 200g"), models.Grams(150)},
		{"no digits", models.Text("a bit"), models.Grams(0)},
		{"empty text", models.Text(""), models.Grams(0)},
		{"whitespace", models.Text("   "), models.Grams(0)},
		{"unset", models.Quantity{}, models.Grams(0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseQuantity(tc.input))
		})
	}
}

func TestParseQuantityIsTotal(t *testing.T) {
	inputs := []models.Quantity{
		models.Num(-1e308), models.Num(1e308), models.Num(math.Inf(-1)), models.Num(math.NaN()),
		models.Text("--"), models.Text("g"), models.Text("taza"), models.Text("1e5"),
		models.Text("½ taza"), models.Text("..5"), models.Text("١٢٣"), models.Text("-4 taza"),
	}

	for _, in := range inputs {
		got := ParseQuantity(in)
		assert.True(t, got.Unit == models.UnitGrams || got.Unit == models.UnitCups, "unit for %q", in.String())
		assert.GreaterOrEqual(t, got.Value, 0.0, "value for %q", in.String())
		assert.False(t, math.IsNaN(got.Value), "value for %q", in.String())
	}
}

func TestParseGrams(t *testing.T) {
	grams, reason := parseGrams(models.Text("150g"))
	assert.Equal(t, 150.0, grams)
	assert.Empty(t, reason)

	// protein has no cup reading, even for small numbers
	grams, reason = parseGrams(models.Num(4))
	assert.Equal(t, 4.0, grams)
	assert.Empty(t, reason)

	grams, reason = parseGrams(models.Text("pollo"))
	assert.Zero(t, grams)
	assert.Equal(t, ReasonUnparseable, reason)

	grams, reason = parseGrams(models.Quantity{})
	assert.Zero(t, grams)
	assert.Empty(t, reason)
}

func TestGramsFromCups(t *testing.T) {
	assert.Equal(t, 250.0, GramsFromCups(1, DefaultGramsPerCup))
	assert.Equal(t, 125.0, GramsFromCups(0.5, DefaultGramsPerCup))
	assert.Zero(t, GramsFromCups(2, 0))
	assert.Zero(t, GramsFromCups(-1, DefaultGramsPerCup))
}
