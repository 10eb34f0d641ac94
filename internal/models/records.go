package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/jinzhu/gorm"
)

// MenuLines stores the raw menu lines of an order as a JSON text column
type MenuLines []RawMenuLine

// Value converts the lines to a JSON string for storage
func (m MenuLines) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan converts the database value back to menu lines
func (m *MenuLines) Scan(value interface{}) error {
	if value == nil {
		*m = MenuLines{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for MenuLines")
	}
}

// OrderRecord is the persisted form of a RawOrder
type OrderRecord struct {
	gorm.Model
	OrderID           string `gorm:"unique_index"`
	Client            string `gorm:"index"`
	Phone             string
	Address           string
	MenuType          string
	Plan              string
	MenuCount         int
	DeliveryDate      string `gorm:"index"`
	Notes             string `gorm:"type:text"`
	IncludesBreakfast bool
	Lines             MenuLines `gorm:"type:text"`
}

// TableName sets the table name for OrderRecord
func (OrderRecord) TableName() string {
	return "orders"
}

// NewOrderRecord builds a record from a raw order
func NewOrderRecord(o RawOrder) OrderRecord {
	return OrderRecord{
		OrderID:           o.ID,
		Client:            o.Client,
		Phone:             o.Phone,
		Address:           o.Address,
		MenuType:          o.MenuType,
		Plan:              o.Plan,
		MenuCount:         o.MenuCount,
		DeliveryDate:      o.DeliveryDate,
		Notes:             o.Notes,
		IncludesBreakfast: o.IncludesBreakfast,
		Lines:             MenuLines(o.Menu),
	}
}

// Raw returns the record as a raw order
func (r OrderRecord) Raw() RawOrder {
	return RawOrder{
		ID:                r.OrderID,
		Client:            r.Client,
		Phone:             r.Phone,
		Address:           r.Address,
		MenuType:          r.MenuType,
		Plan:              r.Plan,
		MenuCount:         r.MenuCount,
		DeliveryDate:      r.DeliveryDate,
		Notes:             r.Notes,
		IncludesBreakfast: r.IncludesBreakfast,
		Menu:              []RawMenuLine(r.Lines),
	}
}

// WorkerRecord is a persisted roster entry. Position keeps roster order.
type WorkerRecord struct {
	gorm.Model
	Pool       string `gorm:"index"`
	Position   int
	Name       string
	Percentage float64
}

// TableName sets the table name for WorkerRecord
func (WorkerRecord) TableName() string {
	return "workers"
}
