package engine

import "math/rand"

const (
	unusedRoomPenalty       = 5
	practicalExcessPenalty  = 3
	maxPracticalsPerTeacher = 2
)

// OptimizerStats summarises a local search run.
type OptimizerStats struct {
	Iterations    int
	SwapsAccepted int
	InitialCost   int
	FinalCost     int
}

// SoftCost scores an otherwise-valid schedule. Lower is better. It
// combines total teacher-slot consumption, a penalty for rooms left
// completely unused across the week, and a penalty for teachers
// carrying more than two practical sessions.
func SoftCost(entries []Entry, rooms []Room) int {
	teacherSlots := make(map[string]map[SlotKey]struct{})
	usedRooms := make(map[string]struct{})
	practicals := make(map[string]int)

	for _, e := range entries {
		mark(teacherSlots, e.TeacherID, e.Slot())
		usedRooms[e.RoomID] = struct{}{}
		if e.Kind == SessionPractical {
			practicals[e.TeacherID]++
		}
	}

	cost := 0
	for _, slots := range teacherSlots {
		cost += len(slots)
	}
	for _, r := range rooms {
		if _, used := usedRooms[r.ID]; !used {
			cost += unusedRoomPenalty
		}
	}
	for _, n := range practicals {
		if n > maxPracticalsPerTeacher {
			cost += practicalExcessPenalty * (n - maxPracticalsPerTeacher)
		}
	}
	return cost
}

// Optimize hill-climbs by swapping the (room, day, period) triples of
// two random entries, keeping course, teacher and kind fixed. A swap is
// accepted only when the whole schedule stays hard-constraint-valid and
// the soft cost strictly improves. Worse states are never accepted, so
// the result is never costlier than the input for any budget.
func Optimize(entries []Entry, rooms []Room, iterations int, rng *rand.Rand) ([]Entry, OptimizerStats) {
	stats := OptimizerStats{Iterations: iterations}
	stats.InitialCost = SoftCost(entries, rooms)
	stats.FinalCost = stats.InitialCost
	if len(entries) < 2 || iterations <= 0 {
		return entries, stats
	}

	roomsByID := make(map[string]Room, len(rooms))
	for _, r := range rooms {
		roomsByID[r.ID] = r
	}

	best := make([]Entry, len(entries))
	copy(best, entries)
	bestCost := stats.InitialCost

	for i := 0; i < iterations; i++ {
		a := rng.Intn(len(best))
		b := rng.Intn(len(best))
		if a == b {
			continue
		}

		candidate := make([]Entry, len(best))
		copy(candidate, best)
		swapPlacement(&candidate[a], &candidate[b])

		if !roomFits(candidate[a], roomsByID) || !roomFits(candidate[b], roomsByID) {
			continue
		}
		if !Valid(candidate) {
			continue
		}
		if cost := SoftCost(candidate, rooms); cost < bestCost {
			best = candidate
			bestCost = cost
			stats.SwapsAccepted++
		}
	}

	stats.FinalCost = bestCost
	return best, stats
}

func swapPlacement(a, b *Entry) {
	a.RoomID, b.RoomID = b.RoomID, a.RoomID
	a.Day, b.Day = b.Day, a.Day
	a.Period, b.Period = b.Period, a.Period
}

// roomFits re-checks the room-kind and capacity hard constraints that a
// cross-kind swap could otherwise break.
func roomFits(e Entry, roomsByID map[string]Room) bool {
	room, ok := roomsByID[e.RoomID]
	if !ok {
		return false
	}
	if room.IsLab() != (e.Kind == SessionPractical) {
		return false
	}
	return room.Capacity >= e.Headcount
}
