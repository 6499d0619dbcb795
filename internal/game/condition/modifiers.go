package condition

// CheckModifier returns the net check modifier from all active statuses.
//
// Postcondition: Returns <= 0.
func CheckModifier(s *Set) int {
	total := 0
	for _, st := range s.statuses {
		total += st.Kind.CheckPenalty()
	}
	return total
}

// IsSuppressed reports whether any active status prevents the bearer from acting.
func IsSuppressed(s *Set) bool {
	for _, st := range s.statuses {
		if st.Kind.SuppressesTurn() {
			return true
		}
	}
	return false
}
