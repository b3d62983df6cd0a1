//go:build integration

package services

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crashbonus/crash-staking-ledger/internal/db"
	"github.com/crashbonus/crash-staking-ledger/testutil"
)

var (
	testDB         *db.Database
	mongoContainer *testutil.MongoContainer
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	mongoContainer, err = testutil.StartMongo(ctx)
	if err != nil {
		log.Fatalf("failed to start mongo: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	testDB, err = db.New(connectCtx, *mongoContainer.Config)
	cancel()
	if err != nil {
		_ = mongoContainer.Purge()
		log.Fatalf("failed to setup client: %v", err)
	}

	code := m.Run()
	if err := mongoContainer.Purge(); err != nil {
		log.Printf("failed to purge mongo: %v", err)
	}

	os.Exit(code)
}

func resetDatabase(t *testing.T) {
	t.Helper()
	require.NoError(t, mongoContainer.Reset(context.Background()))
}
