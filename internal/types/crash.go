package types

// CrashCounters holds the number of reported crash events per severity class.
type CrashCounters struct {
	Big    uint64 `json:"big" bson:"big"`
	Medium uint64 `json:"medium" bson:"medium"`
	Small  uint64 `json:"small" bson:"small"`
}

// Covers reports whether every counter of c is at least the matching counter
// of snapshot.
func (c CrashCounters) Covers(snapshot CrashCounters) bool {
	return c.Big >= snapshot.Big &&
		c.Medium >= snapshot.Medium &&
		c.Small >= snapshot.Small
}

// Incremented returns a copy of c with each flagged counter increased by one.
func (c CrashCounters) Incremented(big, medium, small bool) CrashCounters {
	if big {
		c.Big++
	}
	if medium {
		c.Medium++
	}
	if small {
		c.Small++
	}
	return c
}
