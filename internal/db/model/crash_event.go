package model

import (
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

const CrashEventsCollection = "crash_events"

type CrashEventDocument struct {
	// Sequence is the sum of the counters after the event. It strictly
	// increases from one event to the next.
	Sequence uint64              `bson:"_id"`
	Reporter string              `bson:"reporter"`
	Big      bool                `bson:"big"`
	Medium   bool                `bson:"medium"`
	Small    bool                `bson:"small"`
	Counters types.CrashCounters `bson:"counters"`
	At       int64               `bson:"at"`
}

func NewCrashEventDocument(event types.BankCrashEventAddedEvent) *CrashEventDocument {
	return &CrashEventDocument{
		Sequence: event.Counters.Big + event.Counters.Medium + event.Counters.Small,
		Reporter: event.Reporter.Hex(),
		Big:      event.Big,
		Medium:   event.Medium,
		Small:    event.Small,
		Counters: event.Counters,
		At:       event.At.Unix(),
	}
}
