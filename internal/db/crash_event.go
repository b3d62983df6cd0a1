package db

import (
	"context"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crashbonus/crash-staking-ledger/internal/db/model"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

func (db *Database) SaveCrashEvent(ctx context.Context, event *model.CrashEventDocument) error {
	_, err := db.collection(model.CrashEventsCollection).InsertOne(ctx, event)
	if err != nil {
		return asDuplicateKeyError(err, strconv.FormatUint(event.Sequence, 10), "crash event already exists")
	}
	return nil
}

func (db *Database) GetLatestCrashCounters(ctx context.Context) (types.CrashCounters, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var event model.CrashEventDocument
	err := db.collection(model.CrashEventsCollection).FindOne(ctx, bson.M{}, opts).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.CrashCounters{}, nil
		}
		return types.CrashCounters{}, err
	}

	return event.Counters, nil
}
