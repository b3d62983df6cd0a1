package ledger

// journal collects the inverse of every state mutation made by one operation
// so that an aborted operation can be undone.
type journal struct {
	undo []func()
}

func (j *journal) record(undo func()) {
	j.undo = append(j.undo, undo)
}

// revert applies the recorded inverses in reverse order.
func (j *journal) revert() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}
