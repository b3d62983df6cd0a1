package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/crashbonus/crash-staking-ledger/internal/db"
	"github.com/crashbonus/crash-staking-ledger/internal/db/model"
	"github.com/crashbonus/crash-staking-ledger/internal/observability/metrics"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

// outboxEntry is a committed event together with whatever the mirror needs
// that the event itself does not carry.
type outboxEntry struct {
	event    types.Event
	stakeDoc *model.StakeDocument
}

// collect must be called with the ledger lock held.
func (s *Service) collect(events []types.Event) []outboxEntry {
	outbox := make([]outboxEntry, 0, len(events))
	for _, event := range events {
		entry := outboxEntry{event: event}
		if ev, ok := event.(types.StakeCreatedEvent); ok {
			if stake, err := s.ledger.GetStake(ev.Account, ev.StakeID); err == nil {
				entry.stakeDoc = model.NewStakeDocument(stake)
			}
		}
		outbox = append(outbox, entry)
	}
	return outbox
}

// dispatch mirrors and publishes committed events. Failures are logged and
// counted; the ledger stays the source of truth.
func (s *Service) dispatch(ctx context.Context, outbox []outboxEntry) {
	for _, entry := range outbox {
		if err := s.mirror(ctx, entry); err != nil {
			metrics.RecordMirrorError(entry.event.Type())
			log.Ctx(ctx).Error().Err(err).
				Str("event_type", entry.event.Type().String()).
				Msg("failed to mirror ledger event")
		}

		if err := s.publisher.Publish(ctx, entry.event); err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("event_type", entry.event.Type().String()).
				Msg("failed to publish ledger event")
		}
	}
}

func (s *Service) mirror(ctx context.Context, entry outboxEntry) error {
	if s.db == nil {
		return nil
	}

	switch ev := entry.event.(type) {
	case types.StakeCreatedEvent:
		if entry.stakeDoc == nil {
			return fmt.Errorf("stake %d of %s is missing from the ledger", ev.StakeID, ev.Account.Hex())
		}
		err := s.db.SaveNewStake(ctx, entry.stakeDoc)
		if err != nil && !db.IsDuplicateKeyError(err) {
			return err
		}
		return nil
	case types.StakeRemovedEvent:
		return s.db.CloseStake(ctx, ev)
	case types.BankCrashEventAddedEvent:
		err := s.db.SaveCrashEvent(ctx, model.NewCrashEventDocument(ev))
		if err != nil && !db.IsDuplicateKeyError(err) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown event type %s", entry.event.Type())
	}
}
