package task

// CompletedSet records which task identities have finished during one run.
// It is owned by the scheduler, mutated only between waves, and grows
// monotonically, so it needs no locking.
type CompletedSet struct {
	members map[Identity]struct{}
}

// NewCompletedSet returns an empty set.
func NewCompletedSet() *CompletedSet {
	return &CompletedSet{members: make(map[Identity]struct{})}
}

// Add marks one task as completed.
func (s *CompletedSet) Add(t *Task) {
	s.members[t.Identity()] = struct{}{}
}

// AddAll marks every task in the list as completed.
func (s *CompletedSet) AddAll(tasks []*Task) {
	for _, t := range tasks {
		s.Add(t)
	}
}

// Contains reports whether the identity has been marked completed.
func (s *CompletedSet) Contains(id Identity) bool {
	_, ok := s.members[id]
	return ok
}

// AllDependenciesCompleted reports whether every depended task of t is in
// the set.
func (s *CompletedSet) AllDependenciesCompleted(t *Task) bool {
	for _, dep := range t.DependedTasks {
		if !s.Contains(dep.Identity()) {
			return false
		}
	}
	return true
}

// Len returns the number of completed identities.
func (s *CompletedSet) Len() int {
	return len(s.members)
}
