package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crashbonus/crash-staking-ledger/internal/config"
	"github.com/crashbonus/crash-staking-ledger/internal/db/model"
)

const (
	mongoUsername = "user"
	mongoPassword = "password"
	mongoDatabase = "test-database"

	// keep in sync with the mongo version used in production
	mongoVersion = "7.0.5"
)

// MongoContainer is a throwaway mongodb instance with the ledger collections
// already created.
type MongoContainer struct {
	Config *config.DbConfig

	pool     *dockertest.Pool
	resource *dockertest.Resource
	database *mongo.Database
}

// StartMongo runs a mongodb container and applies model.Setup to it. Purge
// MUST be called to release the docker resources.
func StartMongo(ctx context.Context) (*MongoContainer, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, err
	}

	suffix, err := RandomAlphaNum(3)
	if err != nil {
		return nil, err
	}

	// names are unique, an older container may still be around
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Name:       "mongo-ledger-tests-" + suffix,
		Repository: "mongo",
		Tag:        mongoVersion,
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=" + mongoUsername,
			"MONGO_INITDB_ROOT_PASSWORD=" + mongoPassword,
			"MONGO_INITDB_DATABASE=" + mongoDatabase,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, err
	}

	c := &MongoContainer{
		Config: &config.DbConfig{
			Username: mongoUsername,
			Password: mongoPassword,
			DbName:   mongoDatabase,
			Address:  fmt.Sprintf("mongodb://localhost:%s/", resource.GetPort("27017/tcp")),
		},
		pool:     pool,
		resource: resource,
	}

	// mongo needs a moment before it accepts connections
	err = pool.Retry(func() error {
		return model.Setup(ctx, c.Config)
	})
	if err != nil {
		_ = c.Purge()
		return nil, fmt.Errorf("failed to init mongo database: %w", err)
	}

	c.database, err = c.connect(ctx)
	if err != nil {
		_ = c.Purge()
		return nil, err
	}

	return c, nil
}

func (c *MongoContainer) connect(ctx context.Context) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(c.Config.Address).
		SetAuth(options.Credential{Username: c.Config.Username, Password: c.Config.Password})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	return client.Database(c.Config.DbName), nil
}

// Reset empties every ledger collection, keeping the indexes.
func (c *MongoContainer) Reset(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, collection := range []string{
		model.StakesCollection,
		model.CrashEventsCollection,
		model.OverallStatsCollection,
	} {
		if _, err := c.database.Collection(collection).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("failed to reset %s: %w", collection, err)
		}
	}

	return nil
}

func (c *MongoContainer) Purge() error {
	if c.database != nil {
		_ = c.database.Client().Disconnect(context.Background())
	}
	return c.pool.Purge(c.resource)
}
