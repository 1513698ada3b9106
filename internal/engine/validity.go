package engine

// Valid reports whether no teacher, room or cohort is booked twice for
// the same slot key. It rebuilds the occupancy sets from scratch on
// every call and has no side effects, so it can wrap any candidate
// entry list, including tentative optimizer swaps.
func Valid(entries []Entry) bool {
	teacher := make(map[string]map[SlotKey]struct{})
	room := make(map[string]map[SlotKey]struct{})
	cohort := make(map[string]map[SlotKey]struct{})

	for _, e := range entries {
		k := e.Slot()
		if !claim(teacher, e.TeacherID, k) {
			return false
		}
		if !claim(room, e.RoomID, k) {
			return false
		}
		if !claim(cohort, e.Cohort, k) {
			return false
		}
	}
	return true
}

func claim(m map[string]map[SlotKey]struct{}, owner string, k SlotKey) bool {
	if m[owner] == nil {
		m[owner] = make(map[SlotKey]struct{})
	}
	if _, taken := m[owner][k]; taken {
		return false
	}
	m[owner][k] = struct{}{}
	return true
}
