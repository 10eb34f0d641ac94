package importer

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"mealprep/internal/models"
)

// DefaultRange covers the order columns A to N
const DefaultRange = "A:N"

// Column layout of an order sheet. One row per menu line; rows whose
// order_id cell is empty continue the order above them.
const (
	colOrderID = iota
	colClient
	colMenuType
	colMenuCount
	colDeliveryDate
	colBreakfast
	colNotes
	colDishName
	colProteinName
	colProtein
	colCarbName
	colCarb
	colSaladName
	colSalad
)

// RowSource returns the cell values of a spreadsheet range
type RowSource interface {
	Rows(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
}

type GoogleSheetsSource struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func NewGoogleSheetsSource(ctx context.Context, cfg Config) (*GoogleSheetsSource, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleSheetsSource{service: service}, nil
}

// Rows reads numbers unformatted so quantities keep their numeric type,
// while dates come back as the text shown in the sheet.
func (s *GoogleSheetsSource) Rows(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	return resp.Values, nil
}

// Importer turns an order sheet into raw orders
type Importer struct {
	source RowSource
}

func New(source RowSource) *Importer {
	return &Importer{source: source}
}

func (i *Importer) Import(ctx context.Context, spreadsheetID, readRange string) ([]models.RawOrder, error) {
	if readRange == "" {
		readRange = DefaultRange
	}
	rows, err := i.source.Rows(ctx, spreadsheetID, readRange)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}
	return ParseOrders(rows)
}

// ParseOrders reads the rows of an order sheet. The first row is the header.
func ParseOrders(rows [][]interface{}) ([]models.RawOrder, error) {
	orders := []models.RawOrder{}
	var current *models.RawOrder

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		if id := cellString(row, colOrderID); id != "" && (current == nil || id != current.ID) {
			if current != nil {
				orders = append(orders, *current)
			}
			current = &models.RawOrder{
				ID:                id,
				Client:            cellString(row, colClient),
				MenuType:          cellString(row, colMenuType),
				MenuCount:         cellInt(row, colMenuCount),
				DeliveryDate:      cellString(row, colDeliveryDate),
				IncludesBreakfast: cellBool(row, colBreakfast),
				Notes:             cellString(row, colNotes),
			}
		} else if current == nil {
			return nil, fmt.Errorf("row %d: menu line without an order", i+1)
		}

		if line, ok := menuLine(row); ok {
			current.Menu = append(current.Menu, line)
		}
	}

	if current != nil {
		orders = append(orders, *current)
	}
	return orders, nil
}

func menuLine(row []interface{}) (models.RawMenuLine, bool) {
	line := models.RawMenuLine{
		Name:        cellString(row, colDishName),
		ProteinName: cellString(row, colProteinName),
		CarbName:    cellString(row, colCarbName),
		SaladName:   cellString(row, colSaladName),
		Protein:     cellQuantity(row, colProtein),
		Carb:        cellQuantity(row, colCarb),
		Salad:       cellQuantity(row, colSalad),
	}
	empty := line.Name == "" && line.ProteinName == "" && line.CarbName == "" && line.SaladName == "" &&
		line.Protein.IsZero() && line.Carb.IsZero() && line.Salad.IsZero()
	return line, !empty
}

func isBlank(row []interface{}) bool {
	for i := range row {
		if cellString(row, i) != "" {
			return false
		}
	}
	return true
}

func cell(row []interface{}, col int) interface{} {
	if col >= len(row) {
		return nil
	}
	return row[col]
}

func cellString(row []interface{}, col int) string {
	v := cell(row, col)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func cellQuantity(row []interface{}, col int) models.Quantity {
	switch v := cell(row, col).(type) {
	case float64:
		return models.Num(v)
	case string:
		return models.Text(strings.TrimSpace(v))
	}
	return models.Quantity{}
}

func cellInt(row []interface{}, col int) int {
	switch v := cell(row, col).(type) {
	case float64:
		switch {
		case math.IsNaN(v) || v <= 0:
			return 0
		case v >= math.MaxInt32:
			return math.MaxInt32
		}
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n
		}
	}
	return 0
}

func cellBool(row []interface{}, col int) bool {
	switch v := cell(row, col).(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "si", "sí", "x", "1":
			return true
		}
	}
	return false
}
