package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mealprep/internal/database"
	"mealprep/internal/models"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection(collectionOrders),
	}
}

func (r *OrderRepository) SaveOrder(ctx context.Context, order models.RawOrder) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	doc := newOrderDocument(order)
	doc.UpdatedAt = now

	set, err := toSetDocument(doc)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": order.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id string) (models.RawOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc orderDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.RawOrder{}, database.ErrNotFound
		}
		return models.RawOrder{}, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.raw(), nil
}

func (r *OrderRepository) OrdersForDate(ctx context.Context, date string) ([]models.RawOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"delivery_date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]models.RawOrder, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.raw())
	}
	return orders, nil
}

// toSetDocument marshals doc without the fields owned by the upsert itself
func toSetDocument(doc orderDocument) (bson.M, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}
	var set bson.M
	if err := bson.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}
	delete(set, "_id")
	delete(set, "created_at")
	return set, nil
}
