package dto

import "github.com/satyamraj2990/slotify-engine/internal/models"

// GenerateTimetableRequest instructs the engine to build a timetable
// for a term. Seed zero lets the service derive one; passing a seed
// makes the run reproducible. Async runs return immediately with a
// pending run ID.
type GenerateTimetableRequest struct {
	TermID              string `json:"termId" validate:"required"`
	Seed                int64  `json:"seed" validate:"omitempty"`
	OptimizerIterations int    `json:"optimizerIterations" validate:"omitempty,min=0,max=100000"`
	Async               bool   `json:"async"`
}

// GenerateTimetableResponse returns the finished run, or the pending
// run handle when generation was dispatched asynchronously.
type GenerateTimetableResponse struct {
	RunID      string                     `json:"runId"`
	Status     models.TimetableRunStatus  `json:"status"`
	Seed       int64                      `json:"seed"`
	Entries    []models.TimetableEntry    `json:"entries,omitempty"`
	Unassigned []models.UnassignedSession `json:"unassigned,omitempty"`
	Warnings   []string                   `json:"warnings,omitempty"`
	Stats      models.TimetableRunStats   `json:"stats"`
}

// ExportQuery selects the serialization format for a stored run.
type ExportQuery struct {
	Format string `form:"format" validate:"required,oneof=csv rows ics pdf"`
}
