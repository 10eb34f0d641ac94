package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DateLayout is the calendar-date format used for delivery dates
const DateLayout = "2006-01-02"

// RawOrder represents a customer order as the operators entered it.
// Every field is free text and may be missing.
type RawOrder struct {
	ID                string        `json:"id"`
	Client            string        `json:"client"`
	Phone             string        `json:"phone,omitempty"`
	Address           string        `json:"address,omitempty"`
	MenuType          string        `json:"menu_type,omitempty"`
	Plan              string        `json:"plan,omitempty"`
	MenuCount         int           `json:"menu_count,omitempty"`
	DeliveryDate      string        `json:"delivery_date"`
	Notes             string        `json:"notes,omitempty"`
	IncludesBreakfast bool          `json:"includes_breakfast,omitempty"`
	Menu              []RawMenuLine `json:"menu"`
}

// RawMenuLine represents one dish line of a raw order
type RawMenuLine struct {
	Name        string   `json:"name,omitempty"`
	ProteinName string   `json:"protein_name,omitempty"`
	CarbName    string   `json:"carb_name,omitempty"`
	SaladName   string   `json:"salad_name,omitempty"`
	Protein     Quantity `json:"protein"`
	Carb        Quantity `json:"carb"`
	Salad       Quantity `json:"salad"`
}

// Quantity holds an operator-entered amount: either a bare number or text such as
// "150g", "1 taza" or "0.5 taza".
type Quantity struct {
	Text    string
	Number  float64
	Numeric bool
}

// Num returns a numeric quantity
func Num(v float64) Quantity {
	return Quantity{Number: v, Numeric: true}
}

// Text returns a free-text quantity
func Text(s string) Quantity {
	return Quantity{Text: s}
}

// IsZero reports whether nothing was entered
func (q Quantity) IsZero() bool {
	return !q.Numeric && q.Text == ""
}

// String returns the quantity as the operator typed it
func (q Quantity) String() string {
	if q.Numeric {
		return strconv.FormatFloat(q.Number, 'f', -1, 64)
	}
	return q.Text
}

// MarshalJSON writes numbers as JSON numbers, text as strings and empty quantities as null
func (q Quantity) MarshalJSON() ([]byte, error) {
	switch {
	case q.Numeric:
		return json.Marshal(q.Number)
	case q.Text == "":
		return []byte("null"), nil
	default:
		return json.Marshal(q.Text)
	}
}

// UnmarshalJSON accepts a number, a string or null. Any other JSON value is
// read as an empty quantity instead of failing the whole order.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = Quantity{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		q.Text = s
	case 'n', 't', 'f', '{', '[':
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil
		}
		q.Number = f
		q.Numeric = true
	}
	return nil
}
