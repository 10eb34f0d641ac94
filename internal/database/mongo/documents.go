package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealprep/internal/models"
)

type orderDocument struct {
	ID                string         `bson:"_id"`
	Client            string         `bson:"client"`
	Phone             string         `bson:"phone,omitempty"`
	Address           string         `bson:"address,omitempty"`
	MenuType          string         `bson:"menu_type,omitempty"`
	Plan              string         `bson:"plan,omitempty"`
	MenuCount         int            `bson:"menu_count"`
	DeliveryDate      string         `bson:"delivery_date"`
	Notes             string         `bson:"notes,omitempty"`
	IncludesBreakfast bool           `bson:"includes_breakfast"`
	Menu              []lineDocument `bson:"menu"`
	CreatedAt         time.Time      `bson:"created_at"`
	UpdatedAt         time.Time      `bson:"updated_at"`
}

// lineDocument keeps quantities as whatever the writer stored: a number,
// a string or null.
type lineDocument struct {
	Name            string      `bson:"name,omitempty"`
	ProteinName     string      `bson:"protein_name,omitempty"`
	CarbName        string      `bson:"carb_name,omitempty"`
	SaladName       string      `bson:"salad_name,omitempty"`
	ProteinQuantity interface{} `bson:"protein"`
	CarbQuantity    interface{} `bson:"carb"`
	SaladQuantity   interface{} `bson:"salad"`
}

type rosterDocument struct {
	Pool      string           `bson:"_id"`
	Workers   []workerDocument `bson:"workers"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

type workerDocument struct {
	Name       string  `bson:"name"`
	Percentage float64 `bson:"percentage"`
}

func newOrderDocument(o models.RawOrder) orderDocument {
	doc := orderDocument{
		ID:                o.ID,
		Client:            o.Client,
		Phone:             o.Phone,
		Address:           o.Address,
		MenuType:          o.MenuType,
		Plan:              o.Plan,
		MenuCount:         o.MenuCount,
		DeliveryDate:      o.DeliveryDate,
		Notes:             o.Notes,
		IncludesBreakfast: o.IncludesBreakfast,
		Menu:              make([]lineDocument, 0, len(o.Menu)),
	}
	for _, l := range o.Menu {
		doc.Menu = append(doc.Menu, lineDocument{
			Name:            l.Name,
			ProteinName:     l.ProteinName,
			CarbName:        l.CarbName,
			SaladName:       l.SaladName,
			ProteinQuantity: quantityToBSON(l.Protein),
			CarbQuantity:    quantityToBSON(l.Carb),
			SaladQuantity:   quantityToBSON(l.Salad),
		})
	}
	return doc
}

func (d orderDocument) raw() models.RawOrder {
	order := models.RawOrder{
		ID:                d.ID,
		Client:            d.Client,
		Phone:             d.Phone,
		Address:           d.Address,
		MenuType:          d.MenuType,
		Plan:              d.Plan,
		MenuCount:         d.MenuCount,
		DeliveryDate:      d.DeliveryDate,
		Notes:             d.Notes,
		IncludesBreakfast: d.IncludesBreakfast,
	}
	if len(d.Menu) > 0 {
		order.Menu = make([]models.RawMenuLine, 0, len(d.Menu))
	}
	for _, l := range d.Menu {
		order.Menu = append(order.Menu, models.RawMenuLine{
			Name:        l.Name,
			ProteinName: l.ProteinName,
			CarbName:    l.CarbName,
			SaladName:   l.SaladName,
			Protein:     quantityFromBSON(l.ProteinQuantity),
			Carb:        quantityFromBSON(l.CarbQuantity),
			Salad:       quantityFromBSON(l.SaladQuantity),
		})
	}
	return order
}

func quantityToBSON(q models.Quantity) interface{} {
	switch {
	case q.Numeric:
		return q.Number
	case q.Text != "":
		return q.Text
	}
	return nil
}

// quantityFromBSON accepts every numeric BSON type. Decimal128 goes through
// the text parser; anything else that is not a string is treated as absent.
func quantityFromBSON(v interface{}) models.Quantity {
	switch n := v.(type) {
	case string:
		return models.Text(n)
	case float64:
		return models.Num(n)
	case float32:
		return models.Num(float64(n))
	case int32:
		return models.Num(float64(n))
	case int64:
		return models.Num(float64(n))
	case int:
		return models.Num(float64(n))
	case primitive.Decimal128:
		return models.Text(n.String())
	}
	return models.Quantity{}
}
