package engine

// Resolve retries tokens the greedy pass could not place. Eligibility
// rules match the placer but without scoring: the first (slot, room)
// combination simultaneously free for teacher, room and cohort wins.
// Failed tokens re-queue at the back; the attempt ceiling guarantees
// termination for hard-infeasible tokens.
func Resolve(entries []Entry, unassigned []SessionToken, availability AvailabilityIndex, rooms []Room, cons Constraints, maxAttempts int) ([]Entry, []SessionToken) {
	if len(unassigned) == 0 {
		return entries, nil
	}

	occ := occupancyFromEntries(entries)
	universe := cons.SlotUniverse()
	blocked := make(map[SlotKey]struct{}, len(cons.BlockedSlots))
	for _, k := range cons.BlockedSlots {
		blocked[k] = struct{}{}
	}

	if maxAttempts <= 0 {
		maxAttempts = 4 * (len(unassigned)*len(universe) + 1)
	}

	queue := make([]SessionToken, len(unassigned))
	copy(queue, unassigned)

	attempts := 0
	sinceProgress := 0
	for len(queue) > 0 && attempts < maxAttempts {
		// A full barren cycle means the occupancy state cannot admit
		// any queued token; further attempts would repeat verbatim.
		if sinceProgress >= len(queue) {
			break
		}
		token := queue[0]
		queue = queue[1:]
		attempts++

		if entry, ok := tryPlace(token, availability, rooms, cons, universe, blocked, occ); ok {
			occ.take(entry)
			entries = append(entries, entry)
			sinceProgress = 0
			continue
		}
		queue = append(queue, token)
		sinceProgress++
	}
	return entries, queue
}

func tryPlace(token SessionToken, availability AvailabilityIndex, rooms []Room, cons Constraints, universe []SlotKey, blocked map[SlotKey]struct{}, occ *occupancy) (Entry, bool) {
	candidates := candidateRooms(rooms, token)
	for _, k := range universe {
		if _, isBlocked := blocked[k]; isBlocked {
			continue
		}
		if !availability.allows(token.TeacherID, k) {
			continue
		}
		if !occ.cohortFree(token.Cohort, k) {
			continue
		}
		if !occ.teacherFree(token.TeacherID, k) {
			continue
		}
		for _, room := range candidates {
			if occ.roomFree(room.ID, k) {
				return entryFor(token, room.ID, k), true
			}
		}
	}
	return Entry{}, false
}
