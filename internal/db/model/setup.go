package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crashbonus/crash-staking-ledger/internal/config"
)

type index struct {
	Keys   bson.D
	Unique bool
}

var collections = map[string][]index{
	StakesCollection: {
		{Keys: bson.D{{Key: "account", Value: 1}, {Key: "stake_id", Value: 1}}, Unique: true},
		{Keys: bson.D{{Key: "state", Value: 1}}},
	},
	CrashEventsCollection:  nil,
	OverallStatsCollection: nil,
}

// Setup creates the collections and their indexes.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to disconnect setup client")
		}
	}()

	database := client.Database(cfg.DbName)

	for collection, idxs := range collections {
		createCollection(ctx, database, collection)
		for _, idx := range idxs {
			if err := createIndex(ctx, database, collection, idx); err != nil {
				return err
			}
		}
	}

	log.Ctx(ctx).Info().Msg("Collections and Indexes created successfully.")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) {
	// Check if the collection already exists.
	names, err := database.ListCollectionNames(ctx, bson.M{"name": collectionName})
	if err == nil && len(names) > 0 {
		log.Ctx(ctx).Debug().Msgf("Collection already exists: %s", collectionName)
		return
	}

	// Create the collection.
	if err := database.CreateCollection(ctx, collectionName); err != nil {
		log.Ctx(ctx).Error().Err(err).Msgf("Failed to create collection: %s", collectionName)
		return
	}

	log.Ctx(ctx).Debug().Msgf("Collection created successfully: %s", collectionName)
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	indexModel := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", collectionName, err)
	}

	log.Ctx(ctx).Debug().Msgf("Index created successfully on collection: %s", collectionName)
	return nil
}
