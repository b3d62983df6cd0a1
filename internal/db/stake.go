package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crashbonus/crash-staking-ledger/internal/db/model"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

func (db *Database) SaveNewStake(ctx context.Context, stakeDoc *model.StakeDocument) error {
	_, err := db.collection(model.StakesCollection).InsertOne(ctx, stakeDoc)
	if err != nil {
		return asDuplicateKeyError(err, stakeDoc.ID, "stake already exists")
	}
	return nil
}

func (db *Database) CloseStake(
	ctx context.Context, settlement types.StakeRemovedEvent,
) error {
	key := model.StakeDocumentID(settlement.Account, settlement.StakeID)
	filter := bson.M{
		"_id":   key,
		"state": bson.M{"$in": types.QualifiedStatesForClose()},
	}
	update := bson.M{
		"$set": bson.M{
			"state":            types.StateClosed,
			"closed_at":        settlement.ClosedAt.Unix(),
			"reward_paid":      settlement.RewardPaid.String(),
			"payout":           settlement.Payout.String(),
			"release_fraction": settlement.ReleaseFraction,
		},
	}

	res, err := db.collection(model.StakesCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to close stake %s: %w", key, err)
	}

	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     key,
			Message: "open stake not found when closing",
		}
	}

	return nil
}

func (db *Database) GetStake(ctx context.Context, account common.Address, id types.StakeID) (*model.StakeDocument, error) {
	key := model.StakeDocumentID(account, id)

	var stakeDoc model.StakeDocument
	err := db.collection(model.StakesCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&stakeDoc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     key,
				Message: "stake not found",
			}
		}
		return nil, err
	}

	return &stakeDoc, nil
}

func (db *Database) FindStakes(ctx context.Context) ([]model.StakeDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "account", Value: 1}, {Key: "stake_id", Value: 1}})
	cursor, err := db.collection(model.StakesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stakes []model.StakeDocument
	if err = cursor.All(ctx, &stakes); err != nil {
		return nil, err
	}

	return stakes, nil
}
