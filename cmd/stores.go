package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mealprep/internal/config"
	"mealprep/internal/database"
	"mealprep/internal/database/mongo"
	"mealprep/internal/service"
)

// stores bundles the order and roster ports of the configured backend
type stores struct {
	orders service.OrderStore
	roster service.RosterStore
	close  func(ctx context.Context) error
}

// openStores connects to the configured backend, migrates it and seeds the
// default roster when no workers exist yet
func openStores(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		storage, err := mongo.New(mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		if err := storage.CreateIndexes(ctx); err != nil {
			_ = storage.Close(ctx)
			return nil, err
		}

		roster := mongo.NewRosterRepository(storage.Database())
		if err := roster.SeedRoster(ctx, cfg.Roster); err != nil {
			_ = storage.Close(ctx)
			return nil, fmt.Errorf("failed to seed roster: %w", err)
		}

		log.Infow("connected to mongodb", "database", cfg.Mongo.Database)
		return &stores{
			orders: mongo.NewOrderRepository(storage.Database()),
			roster: roster,
			close:  storage.Close,
		}, nil

	default:
		db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.LogMode)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		if err := database.SeedRoster(db, cfg.Roster); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed roster: %w", err)
		}

		log.Infow("connected to database", "driver", cfg.Database.Driver)
		store := database.NewStore(db)
		return &stores{
			orders: store,
			roster: store,
			close:  func(context.Context) error { return store.Close() },
		}, nil
	}
}
