package rewards

import (
	"time"
)

// FullRelease is the release fraction of a penalty free close.
const FullRelease uint64 = 100

// PenaltySchedule describes how much of a stake is released when it is closed
// before maturity.
type PenaltySchedule struct {
	// GracePeriod after creation during which a close releases everything.
	// Zero disables the grace window.
	GracePeriod time.Duration
	// MinPenaltyWindow after creation during which only MinRelease is paid.
	MinPenaltyWindow time.Duration
	// MinRelease is the release floor in percent.
	MinRelease uint64
}

// ReleaseFraction returns the percentage of principal plus reward that is paid
// out when a stake spanning [createdAt, endAt] is closed at now. The window
// boundary createdAt+MinPenaltyWindow still pays the floor; after it the
// fraction grows linearly with the elapsed share of the lock and reaches 100
// at endAt.
func (p PenaltySchedule) ReleaseFraction(createdAt, endAt, now time.Time) uint64 {
	created, end, at := createdAt.Unix(), endAt.Unix(), now.Unix()

	if at < created+seconds(p.GracePeriod) {
		return FullRelease
	}
	if at > end {
		return FullRelease
	}
	if at <= created+seconds(p.MinPenaltyWindow) {
		return p.MinRelease
	}

	elapsed := uint64(at - created)
	lock := uint64(end - created)
	return p.MinRelease + (FullRelease-p.MinRelease)*elapsed/lock
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
