package repartition

// ModificationTracker reports whether any data-modifying statement has
// executed earlier in the enclosing unit of work. The enclosing session owns
// the real implementation; TxState is the standalone counterpart.
type ModificationTracker interface {
	ModificationsHappened() bool
}

// TxState is a run-scoped modification counter for callers that do not have
// an enclosing session, such as the CLI.
type TxState struct {
	modifications int
}

// NewTxState returns a fresh state with no recorded modifications.
func NewTxState() *TxState {
	return &TxState{}
}

// RecordModification notes one data-modifying statement.
func (s *TxState) RecordModification() {
	s.modifications++
}

// ModificationsHappened implements ModificationTracker.
func (s *TxState) ModificationsHappened() bool {
	return s.modifications > 0
}
