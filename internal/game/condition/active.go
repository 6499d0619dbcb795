package condition

// Status is one active status effect on a combatant.
type Status struct {
	Kind     Kind
	SourceID string // combatant that inflicted the status, or SourceBreath; may be empty
	Value    int    // stack count or remaining duration, depending on Kind
}

// Set tracks all statuses currently applied to one combatant, in insertion order.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	statuses []*Status
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

func (s *Set) find(k Kind) int {
	for i, st := range s.statuses {
		if st.Kind == k {
			return i
		}
	}
	return -1
}

// Add applies kind to the set. When the kind is already present the source
// is overwritten if sourceID is non-empty and value is added to the stored
// payload; otherwise a new status is appended.
//
// Postcondition: Has(kind) is true.
func (s *Set) Add(kind Kind, sourceID string, value int) {
	if i := s.find(kind); i >= 0 {
		existing := s.statuses[i]
		if sourceID != "" {
			existing.SourceID = sourceID
		}
		existing.Value += value
		return
	}
	s.statuses = append(s.statuses, &Status{Kind: kind, SourceID: sourceID, Value: value})
}

// Remove deletes kind from the set. Removing an absent kind is a no-op.
//
// Postcondition: Has(kind) is false.
func (s *Set) Remove(kind Kind) {
	if i := s.find(kind); i >= 0 {
		s.statuses = append(s.statuses[:i], s.statuses[i+1:]...)
	}
}

// Has reports whether kind is currently active.
func (s *Set) Has(kind Kind) bool {
	return s.find(kind) >= 0
}

// Get returns the live status for kind, or (nil, false) if absent.
// Callers may mutate the returned status in place.
func (s *Set) Get(kind Kind) (*Status, bool) {
	if i := s.find(kind); i >= 0 {
		return s.statuses[i], true
	}
	return nil, false
}

// Stacks returns the stored payload for kind, or 0 if not present.
func (s *Set) Stacks(kind Kind) int {
	if st, ok := s.Get(kind); ok {
		return st.Value
	}
	return 0
}

// All returns a copy of the active statuses in insertion order.
func (s *Set) All() []Status {
	out := make([]Status, 0, len(s.statuses))
	for _, st := range s.statuses {
		out = append(out, *st)
	}
	return out
}

// Len returns the number of active statuses.
func (s *Set) Len() int { return len(s.statuses) }

// Clear removes every status.
//
// Postcondition: Len() == 0.
func (s *Set) Clear() {
	s.statuses = nil
}
