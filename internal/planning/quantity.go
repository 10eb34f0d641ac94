package planning

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"mealprep/internal/models"
)

// CupThreshold is the largest bare number still read as cups. Cup-measured
// ingredients are entered as small integers or halves while gram-measured ones
// are always larger, so a unitless 5 means five cups and 6 means six grams.
const CupThreshold = 5.0

// Reasons attached to an Issue when a field is degraded
const (
	ReasonUnparseable     = "unparseable"
	ReasonOutOfRange      = "out_of_range"
	ReasonMissingMenuType = "missing_menu_type"
)

var (
	numberPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
	decimalComma  = regexp.MustCompile(`([0-9]),([0-9]{1,2})([^0-9]|$)`)
	cupWords      = []string{"taza", "cup"}
)

// ParseQuantity resolves a quantity expression into an Amount. It never fails:
// anything without a usable number becomes zero grams.
func ParseQuantity(q models.Quantity) models.Amount {
	amount, _ := parseQuantity(q)
	return amount
}

// parseQuantity also returns the reason the input was degraded, if it was.
func parseQuantity(q models.Quantity) (models.Amount, string) {
	if q.Numeric {
		n, reason := sanitize(q.Number)
		if n == 0 {
			return models.Grams(0), reason
		}
		return byMagnitude(n), ""
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return models.Grams(0), ""
	}

	n, ok := firstNumber(text)
	if !ok {
		return models.Grams(0), ReasonUnparseable
	}

	switch {
	case mentionsCups(text):
		return models.Cups(n), ""
	case strings.Contains(text, "g"):
		return models.Grams(n), ""
	default:
		return byMagnitude(n), ""
	}
}

// parseGrams reads the first number of a protein quantity as grams.
func parseGrams(q models.Quantity) (float64, string) {
	if q.Numeric {
		return sanitize(q.Number)
	}

	text := strings.TrimSpace(q.Text)
	if text == "" {
		return 0, ""
	}
	n, ok := firstNumber(text)
	if !ok {
		return 0, ReasonUnparseable
	}
	return n, ""
}

func byMagnitude(n float64) models.Amount {
	if n <= CupThreshold {
		return models.Cups(n)
	}
	return models.Grams(n)
}

func mentionsCups(text string) bool {
	for _, w := range cupWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// firstNumber extracts the first integer or decimal token. A comma followed by
// one or two final digits is a decimal comma ("0,5" is 0.5); "1,500" is not.
func firstNumber(text string) (float64, bool) {
	text = decimalComma.ReplaceAllString(text, "${1}.${2}${3}")
	token := numberPattern.FindString(text)
	if token == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// sanitize maps negative and non-finite numbers to zero.
func sanitize(n float64) (float64, string) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0, ReasonOutOfRange
	}
	return n, ""
}

// GramsFromCups converts cups to grams using the kitchen's grams-per-cup estimate
func GramsFromCups(cups, gramsPerCup float64) float64 {
	if cups <= 0 || gramsPerCup <= 0 {
		return 0
	}
	return cups * gramsPerCup
}
