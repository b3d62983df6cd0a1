package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/avast/retry-go/v4"
	queueConfig "github.com/babylonlabs-io/staking-queue-client/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/crashbonus/crash-staking-ledger/internal/observability/metrics"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

const (
	StakeCreatedQueueName        = "crash_staking_stake_created_queue"
	StakeRemovedQueueName        = "crash_staking_stake_removed_queue"
	BankCrashEventAddedQueueName = "crash_staking_bank_crash_event_added_queue"

	schemaVersion = 1

	defaultPublishAttempts = 3
	defaultPublishDelay    = 200 * time.Millisecond
)

// Publisher delivers committed ledger events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event types.Event) error
	Shutdown()
}

// Message is the envelope every queue message is wrapped in.
type Message struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     types.EventType `json:"event_type"`
	Payload       types.Event     `json:"payload"`
}

// channel is the subset of *amqp.Channel the manager needs.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type QueueManager struct {
	conn     io.Closer
	ch       channel
	queues   map[types.EventType]string
	attempts uint
	delay    time.Duration
}

func NewQueueManager(cfg *queueConfig.QueueConfig) (*QueueManager, error) {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s", cfg.QueueUser, cfg.QueuePassword, cfg.Url))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the queue: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a queue channel: %w", err)
	}

	qm, err := newQueueManager(conn, ch, cfg)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return qm, nil
}

func newQueueManager(conn io.Closer, ch channel, cfg *queueConfig.QueueConfig) (*QueueManager, error) {
	queues := map[types.EventType]string{
		types.EventStakeCreated:        StakeCreatedQueueName,
		types.EventStakeRemoved:        StakeRemovedQueueName,
		types.EventBankCrashEventAdded: BankCrashEventAddedQueueName,
	}

	var args amqp.Table
	if cfg.QueueType != "" {
		args = amqp.Table{"x-queue-type": cfg.QueueType}
	}
	for _, name := range queues {
		if _, err := ch.QueueDeclare(name, true, false, false, false, args); err != nil {
			return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
	}

	attempts := uint(defaultPublishAttempts)
	if cfg.MsgMaxRetryAttempts > 0 {
		attempts = uint(cfg.MsgMaxRetryAttempts)
	}

	return &QueueManager{
		conn:     conn,
		ch:       ch,
		queues:   queues,
		attempts: attempts,
		delay:    defaultPublishDelay,
	}, nil
}

// Publish sends event to the queue of its type, retrying with back-off.
func (qm *QueueManager) Publish(ctx context.Context, event types.Event) error {
	queueName, ok := qm.queues[event.Type()]
	if !ok {
		return fmt.Errorf("no queue for event type %s", event.Type())
	}

	body, err := json.Marshal(Message{
		SchemaVersion: schemaVersion,
		EventType:     event.Type(),
		Payload:       event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type(), err)
	}

	err = retry.Do(
		func() error {
			return qm.ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			})
		},
		retry.Context(ctx),
		retry.Attempts(qm.attempts),
		retry.Delay(qm.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", qm.attempts).
				Str("queue", queueName).
				Err(err).
				Msg("failed to publish event, retrying")
		}),
	)
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to publish %s event to %s: %w", event.Type(), queueName, err)
	}

	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")

	err := errors.Join(qm.ch.Close(), qm.conn.Close())
	if err != nil {
		log.Error().Err(err).Msg("failed to close queue connection")
	}
}

// NoopPublisher drops every event. It is used when no queue is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, types.Event) error { return nil }

func (NoopPublisher) Shutdown() {}
