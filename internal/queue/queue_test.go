package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	queueConfig "github.com/babylonlabs-io/staking-queue-client/config"
	"github.com/ethereum/go-ethereum/common"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	declared  map[string]amqp.Table
	published []published
	failures  int
	closed    bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{declared: make(map[string]amqp.Table)}
}

func (c *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	c.declared[name] = args
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.failures > 0 {
		c.failures--
		return errors.New("channel closed")
	}
	c.published = append(c.published, published{key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakeConn struct {
	closed bool
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func newTestManager(t *testing.T, ch *fakeChannel, attempts uint) *QueueManager {
	t.Helper()
	qm, err := newQueueManager(&fakeConn{}, ch, &queueConfig.QueueConfig{
		QueueType: "quorum",
	})
	require.NoError(t, err)
	if attempts > 0 {
		qm.attempts = attempts
	}
	qm.delay = time.Millisecond
	return qm
}

func TestNewQueueManager_DeclaresQueues(t *testing.T) {
	ch := newFakeChannel()
	newTestManager(t, ch, 0)

	require.Len(t, ch.declared, 3)
	for _, name := range []string{StakeCreatedQueueName, StakeRemovedQueueName, BankCrashEventAddedQueueName} {
		assert.Equal(t, amqp.Table{"x-queue-type": "quorum"}, ch.declared[name])
	}
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	account := common.HexToAddress("0x00000000000000000000000000000000000000a1")

	t.Run("routes by event type", func(t *testing.T) {
		ch := newFakeChannel()
		qm := newTestManager(t, ch, 0)

		events := []types.Event{
			types.StakeCreatedEvent{Account: account, Amount: sdkmath.NewInt(1000)},
			types.StakeRemovedEvent{Account: account, Amount: sdkmath.NewInt(1000), RewardPaid: sdkmath.NewInt(3), Payout: sdkmath.NewInt(300)},
			types.BankCrashEventAddedEvent{Reporter: account, Big: true},
		}
		for _, ev := range events {
			require.NoError(t, qm.Publish(ctx, ev))
		}

		require.Len(t, ch.published, 3)
		assert.Equal(t, StakeCreatedQueueName, ch.published[0].key)
		assert.Equal(t, StakeRemovedQueueName, ch.published[1].key)
		assert.Equal(t, BankCrashEventAddedQueueName, ch.published[2].key)
		assert.Equal(t, amqp.Persistent, ch.published[0].msg.DeliveryMode)

		var msg struct {
			SchemaVersion int             `json:"schema_version"`
			EventType     types.EventType `json:"event_type"`
			Payload       struct {
				Account common.Address `json:"account"`
				Payout  string         `json:"payout"`
			} `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(ch.published[1].msg.Body, &msg))
		assert.Equal(t, 1, msg.SchemaVersion)
		assert.Equal(t, types.EventStakeRemoved, msg.EventType)
		assert.Equal(t, account, msg.Payload.Account)
		assert.Equal(t, "300", msg.Payload.Payout)
	})
	t.Run("retries transient failures", func(t *testing.T) {
		ch := newFakeChannel()
		ch.failures = 2
		qm := newTestManager(t, ch, 3)

		require.NoError(t, qm.Publish(ctx, types.BankCrashEventAddedEvent{Reporter: account, Small: true}))
		assert.Len(t, ch.published, 1)
	})
	t.Run("gives up after max attempts", func(t *testing.T) {
		ch := newFakeChannel()
		ch.failures = 5
		qm := newTestManager(t, ch, 2)

		err := qm.Publish(ctx, types.BankCrashEventAddedEvent{Reporter: account, Small: true})
		require.Error(t, err)
		assert.Empty(t, ch.published)
		assert.Equal(t, 3, ch.failures)
	})
}

func TestShutdown(t *testing.T) {
	ch := newFakeChannel()
	conn := &fakeConn{}
	qm, err := newQueueManager(conn, ch, &queueConfig.QueueConfig{})
	require.NoError(t, err)

	qm.Shutdown()
	assert.True(t, ch.closed)
	assert.True(t, conn.closed)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), types.StakeCreatedEvent{}))
	p.Shutdown()
}
