package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mealprep/internal/models"
)

type RosterRepository struct {
	collection *mongo.Collection
}

func NewRosterRepository(db *mongo.Database) *RosterRepository {
	return &RosterRepository{
		collection: db.Collection(collectionRosters),
	}
}

func (r *RosterRepository) Roster(ctx context.Context) (models.Roster, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return models.Roster{}, fmt.Errorf("failed to find roster: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []rosterDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return models.Roster{}, fmt.Errorf("failed to decode roster: %w", err)
	}
	return rosterFromDocuments(docs), nil
}

// ReplacePool overwrites a pool's single document, so the swap is atomic
func (r *RosterRepository) ReplacePool(ctx context.Context, pool models.Pool, workers []models.Worker) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := newRosterDocument(pool, workers)
	doc.UpdatedAt = time.Now()

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.Pool}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to replace %s pool: %w", pool, err)
	}
	return nil
}

// SeedRoster stores roster when the collection is empty
func (r *RosterRepository) SeedRoster(ctx context.Context, roster models.Roster) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count roster: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, pool := range []models.Pool{models.PoolKitchen, models.PoolPackaging} {
		if err := r.ReplacePool(ctx, pool, roster.Pool(pool)); err != nil {
			return err
		}
	}
	return nil
}

func newRosterDocument(pool models.Pool, workers []models.Worker) rosterDocument {
	doc := rosterDocument{
		Pool:    string(pool),
		Workers: make([]workerDocument, 0, len(workers)),
	}
	for _, w := range workers {
		doc.Workers = append(doc.Workers, workerDocument{Name: w.Name, Percentage: w.Percentage})
	}
	return doc
}

func rosterFromDocuments(docs []rosterDocument) models.Roster {
	roster := models.Roster{
		Kitchen:   []models.Worker{},
		Packaging: []models.Worker{},
	}
	for _, d := range docs {
		workers := make([]models.Worker, 0, len(d.Workers))
		for _, w := range d.Workers {
			workers = append(workers, models.Worker{Name: w.Name, Percentage: w.Percentage})
		}
		switch models.Pool(d.Pool) {
		case models.PoolKitchen:
			roster.Kitchen = workers
		case models.PoolPackaging:
			roster.Packaging = workers
		}
	}
	return roster
}
