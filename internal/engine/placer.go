package engine

import "sort"

// AvailabilityIndex maps teacher IDs to their parsed available-slot
// sets. A missing or empty set means the teacher is fully available.
type AvailabilityIndex map[string]map[SlotKey]struct{}

func (a AvailabilityIndex) allows(teacherID string, k SlotKey) bool {
	set := a[teacherID]
	if len(set) == 0 {
		return true
	}
	_, ok := set[k]
	return ok
}

type scoredSlot struct {
	key   SlotKey
	score float64
}

// Place performs the first greedy pass: each token, in priority order,
// is assigned the best-scoring free (slot, room) combination that
// honours every hard constraint. Tokens with no feasible combination
// are returned unassigned; a single failure never aborts the pass.
func Place(tokens []SessionToken, availability AvailabilityIndex, rooms []Room, cons Constraints, occ *occupancy) ([]Entry, []SessionToken) {
	universe := cons.SlotUniverse()
	periods := cons.PeriodsPerDay()
	blocked := make(map[SlotKey]struct{}, len(cons.BlockedSlots))
	for _, k := range cons.BlockedSlots {
		blocked[k] = struct{}{}
	}

	var entries []Entry
	var unassigned []SessionToken

	for _, token := range tokens {
		candidates := candidateRooms(rooms, token)
		slots := make([]scoredSlot, 0, len(universe))
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
			var score float64
			if cons.PreferMorningTheory && token.Kind == SessionLecture {
				score += float64(periods - k.Period)
			}
			score += 10.0 / float64(1+occ.teacherLoad(token.TeacherID))
			slots = append(slots, scoredSlot{key: k, score: score})
		}
		// Stable sort keeps day/period enumeration order between equal scores.
		sort.SliceStable(slots, func(i, j int) bool {
			return slots[i].score > slots[j].score
		})

		placed := false
		for _, s := range slots {
			if !occ.teacherFree(token.TeacherID, s.key) {
				continue
			}
			for _, room := range candidates {
				if !occ.roomFree(room.ID, s.key) {
					continue
				}
				entry := entryFor(token, room.ID, s.key)
				occ.take(entry)
				entries = append(entries, entry)
				placed = true
				break
			}
			if placed {
				break
			}
		}
		if !placed {
			unassigned = append(unassigned, token)
		}
	}
	return entries, unassigned
}

// candidateRooms filters by room kind and capacity: labs host
// practicals, everything else hosts lectures. Best-fit ordering,
// smallest adequate room first.
func candidateRooms(rooms []Room, token SessionToken) []Room {
	var out []Room
	for _, r := range rooms {
		if r.IsLab() != (token.Kind == SessionPractical) {
			continue
		}
		if r.Capacity < token.Headcount {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Capacity < out[j].Capacity
	})
	return out
}

func entryFor(token SessionToken, roomID string, k SlotKey) Entry {
	return Entry{
		CourseID:   token.CourseID,
		CourseCode: token.CourseCode,
		TeacherID:  token.TeacherID,
		RoomID:     roomID,
		Day:        k.Day,
		Period:     k.Period,
		Kind:       token.Kind,
		Cohort:     token.Cohort,
		Headcount:  token.Headcount,
	}
}
