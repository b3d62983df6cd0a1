package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crashbonus/crash-staking-ledger/internal/db/model"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

// UpsertOverallStats updates or inserts overall stats
func (db *Database) UpsertOverallStats(ctx context.Context, stats types.Stats) error {
	filter := bson.M{"_id": model.OverallStatsID}
	update := bson.M{
		"$set": bson.M{
			"total_staked":   stats.TotalStaked.String(),
			"active_stakers": stats.ActiveStakers,
			"open_stakes":    stats.OpenStakes,
			"crash_counters": stats.CrashCounters,
			"last_updated":   time.Now().Unix(),
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.OverallStatsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error) {
	var doc model.OverallStatsDocument
	err := db.collection(model.OverallStatsCollection).FindOne(ctx, bson.M{"_id": model.OverallStatsID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.OverallStatsID,
				Message: "overall stats not found",
			}
		}
		return nil, err
	}

	return &doc, nil
}
