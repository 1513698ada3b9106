package models

import "time"

// TimetableRunStatus tracks the lifecycle of a generation run.
type TimetableRunStatus string

const (
	TimetableRunPending   TimetableRunStatus = "PENDING"
	TimetableRunCompleted TimetableRunStatus = "COMPLETED"
	TimetableRunFailed    TimetableRunStatus = "FAILED"
)

// TimetableEntry is one finalized placement, enriched with the display
// names exporters need.
type TimetableEntry struct {
	CourseID    string `json:"course_id"`
	CourseCode  string `json:"course_code"`
	CourseName  string `json:"course_name"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
	RoomID      string `json:"room_id"`
	RoomNumber  string `json:"room_number"`
	Day         int    `json:"day"`
	Period      int    `json:"period"`
	SlotKey     string `json:"slot_key"`
	Kind        string `json:"kind"`
	Cohort      string `json:"cohort"`
	Headcount   int    `json:"headcount"`
}

// UnassignedSession surfaces a session the engine could not place.
type UnassignedSession struct {
	CourseID   string `json:"course_id"`
	CourseCode string `json:"course_code"`
	TeacherID  string `json:"teacher_id"`
	Kind       string `json:"kind"`
	Cohort     string `json:"cohort"`
	Reason     string `json:"reason"`
}

// TimetableRunStats mirrors the engine's run statistics.
type TimetableRunStats struct {
	TotalSessions   int     `json:"total_sessions"`
	PlacedGreedy    int     `json:"placed_greedy"`
	PlacedResolved  int     `json:"placed_resolved"`
	Unassigned      int     `json:"unassigned"`
	SwapsAccepted   int     `json:"swaps_accepted"`
	InitialSoftCost int     `json:"initial_soft_cost"`
	FinalSoftCost   int     `json:"final_soft_cost"`
	ElapsedMillis   float64 `json:"elapsed_ms"`
}

// TimetableRun is a finished (or in-flight) generation run held by the
// service for later retrieval and export.
type TimetableRun struct {
	ID          string              `json:"id"`
	TermID      string              `json:"term_id"`
	Status      TimetableRunStatus  `json:"status"`
	Seed        int64               `json:"seed"`
	Entries     []TimetableEntry    `json:"entries"`
	Unassigned  []UnassignedSession `json:"unassigned"`
	Warnings    []string            `json:"warnings"`
	Stats       TimetableRunStats   `json:"stats"`
	Error       string              `json:"error,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
}
