package database

import (
	"context"
	"errors"

	"github.com/jinzhu/gorm"

	"mealprep/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// Store keeps orders and the roster in a gorm database
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open gorm connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// OrdersForDate returns the orders delivered on date in insertion order
func (s *Store) OrdersForDate(_ context.Context, date string) ([]models.RawOrder, error) {
	var records []models.OrderRecord
	if err := s.db.Where("delivery_date = ?", date).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}

	orders := make([]models.RawOrder, 0, len(records))
	for _, r := range records {
		orders = append(orders, r.Raw())
	}
	return orders, nil
}

// GetOrder returns the order with the given id
func (s *Store) GetOrder(_ context.Context, id string) (models.RawOrder, error) {
	var rec models.OrderRecord
	err := s.db.Where("order_id = ?", id).First(&rec).Error
	if gorm.IsRecordNotFoundError(err) {
		return models.RawOrder{}, ErrNotFound
	}
	if err != nil {
		return models.RawOrder{}, err
	}
	return rec.Raw(), nil
}

// SaveOrder inserts the order or replaces the one with the same id
func (s *Store) SaveOrder(_ context.Context, order models.RawOrder) error {
	return transaction(s.db, func(tx *gorm.DB) error {
		rec := models.NewOrderRecord(order)

		var existing models.OrderRecord
		err := tx.Where("order_id = ?", order.ID).First(&existing).Error
		switch {
		case err == nil:
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			return tx.Save(&rec).Error
		case gorm.IsRecordNotFoundError(err):
			return tx.Create(&rec).Error
		default:
			return err
		}
	})
}

// Roster returns both pools in roster order
func (s *Store) Roster(_ context.Context) (models.Roster, error) {
	var records []models.WorkerRecord
	if err := s.db.Order("pool asc").Order("position asc").Find(&records).Error; err != nil {
		return models.Roster{}, err
	}

	roster := models.Roster{
		Kitchen:   []models.Worker{},
		Packaging: []models.Worker{},
	}
	for _, r := range records {
		w := models.Worker{Name: r.Name, Percentage: r.Percentage}
		switch models.Pool(r.Pool) {
		case models.PoolKitchen:
			roster.Kitchen = append(roster.Kitchen, w)
		case models.PoolPackaging:
			roster.Packaging = append(roster.Packaging, w)
		}
	}
	return roster, nil
}

// ReplacePool swaps the workers of one pool atomically
func (s *Store) ReplacePool(_ context.Context, pool models.Pool, workers []models.Worker) error {
	return transaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("pool = ?", string(pool)).Delete(&models.WorkerRecord{}).Error; err != nil {
			return err
		}
		return insertWorkers(tx, pool, workers)
	})
}

// Close closes the underlying connection
func (s *Store) Close() error {
	return s.db.Close()
}
