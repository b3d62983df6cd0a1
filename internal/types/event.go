package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventStakeCreated        EventType = "StakeCreated"
	EventStakeRemoved        EventType = "StakeRemoved"
	EventBankCrashEventAdded EventType = "BankCrashEventAdded"
)

// Event is a record emitted by a committed ledger operation.
type Event interface {
	Type() EventType
}

type StakeCreatedEvent struct {
	Account common.Address `json:"account"`
	StakeID StakeID        `json:"stake_id"`
	Amount  sdkmath.Int    `json:"amount"`
	EndAt   time.Time      `json:"end_at"`
	BaseAPY uint64         `json:"base_apy"`
	MaxAPY  uint64         `json:"max_apy"`
}

func (StakeCreatedEvent) Type() EventType { return EventStakeCreated }

type StakeRemovedEvent struct {
	Account    common.Address `json:"account"`
	StakeID    StakeID        `json:"stake_id"`
	Amount     sdkmath.Int    `json:"amount"`
	RewardPaid sdkmath.Int    `json:"reward_paid"`
	// Payout is what was credited after the release fraction was applied.
	Payout          sdkmath.Int `json:"payout"`
	ReleaseFraction uint64      `json:"release_fraction"`
	ClosedAt        time.Time   `json:"closed_at"`
}

func (StakeRemovedEvent) Type() EventType { return EventStakeRemoved }

type BankCrashEventAddedEvent struct {
	Reporter common.Address `json:"reporter"`
	Big      bool           `json:"big"`
	Medium   bool           `json:"medium"`
	Small    bool           `json:"small"`
	// Counters are the live counters after the event was recorded.
	Counters CrashCounters `json:"counters"`
	At       time.Time     `json:"at"`
}

func (BankCrashEventAddedEvent) Type() EventType { return EventBankCrashEventAdded }
