package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/satyamraj2990/slotify-engine/internal/dto"
	"github.com/satyamraj2990/slotify-engine/internal/engine"
	"github.com/satyamraj2990/slotify-engine/internal/models"
	appErrors "github.com/satyamraj2990/slotify-engine/pkg/errors"
	"github.com/satyamraj2990/slotify-engine/pkg/export"
	"github.com/satyamraj2990/slotify-engine/pkg/jobs"
)

type courseRepository interface {
	ListByTerm(ctx context.Context, termID string) ([]models.Course, error)
}

type teacherRepository interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type roomRepository interface {
	ListActive(ctx context.Context) ([]models.Room, error)
}

type constraintRepository interface {
	GetByTerm(ctx context.Context, termID string) (*models.Constraints, error)
}

// TimetableServiceConfig carries the tunables one service instance uses
// for every run it executes.
type TimetableServiceConfig struct {
	RunTTL              time.Duration
	CacheTTL            time.Duration
	OptimizerIterations int
	RetryCeiling        int
	Workers             int
}

// TimetableService coordinates timetable generation: it assembles the
// engine's input snapshot from repositories, executes runs (inline or
// via a worker queue), retains finished runs for later retrieval, and
// serializes them on demand.
type TimetableService struct {
	courses     courseRepository
	teachers    teacherRepository
	rooms       roomRepository
	constraints constraintRepository

	cfg       TimetableServiceConfig
	validator *validator.Validate
	logger    *zap.Logger
	cache     *redis.Client
	metrics   *MetricsService

	runs  *runStore
	queue *jobs.Queue

	csvExporter  *export.CSVExporter
	rowsExporter *export.RowsExporter
	icsExporter  *export.ICSExporter
	pdfExporter  *export.PDFExporter

	now func() time.Time
}

// NewTimetableService instantiates TimetableService. The redis client
// is optional; pass nil to keep runs in process memory only.
func NewTimetableService(
	courses courseRepository,
	teachers teacherRepository,
	rooms roomRepository,
	constraints constraintRepository,
	cfg TimetableServiceConfig,
	cache *redis.Client,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 24 * time.Hour
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}

	s := &TimetableService{
		courses:      courses,
		teachers:     teachers,
		rooms:        rooms,
		constraints:  constraints,
		cfg:          cfg,
		validator:    validate,
		logger:       logger,
		cache:        cache,
		metrics:      metrics,
		runs:         newRunStore(cfg.RunTTL),
		csvExporter:  export.NewCSVExporter(),
		rowsExporter: export.NewRowsExporter(),
		icsExporter:  export.NewICSExporter(""),
		pdfExporter:  export.NewPDFExporter(),
		now:          time.Now,
	}
	s.queue = jobs.NewQueue("timetable-generation", s.handleGenerateJob, jobs.QueueConfig{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	return s
}

// StartWorkers begins consuming async generation jobs.
func (s *TimetableService) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopWorkers drains the async queue workers.
func (s *TimetableService) StopWorkers() {
	s.queue.Stop()
}

// Generate builds a timetable for the requested term. Synchronous calls
// block until the run finishes; async calls return a pending run handle
// and execute on the worker queue.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.now().UnixNano()
	}

	runID := uuid.NewString()
	pending := models.TimetableRun{
		ID:          runID,
		TermID:      req.TermID,
		Status:      models.TimetableRunPending,
		Seed:        seed,
		GeneratedAt: s.now().UTC(),
	}
	s.runs.Save(runRecord{Run: pending})

	if req.Async {
		job := jobs.Job{
			ID:   runID,
			Type: "generate",
			Payload: generatePayload{
				RunID:      runID,
				TermID:     req.TermID,
				Seed:       seed,
				Iterations: req.OptimizerIterations,
			},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.runs.Delete(runID)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation run")
		}
		return &dto.GenerateTimetableResponse{RunID: runID, Status: models.TimetableRunPending, Seed: seed}, nil
	}

	run, err := s.executeRun(ctx, runID, req.TermID, seed, req.OptimizerIterations)
	if err != nil {
		return nil, err
	}
	return runResponse(run), nil
}

// GetRun retrieves a stored run by ID.
func (s *TimetableService) GetRun(ctx context.Context, runID string) (*models.TimetableRun, error) {
	rec, ok := s.lookupRun(ctx, runID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable run not found or expired")
	}
	return &rec.Run, nil
}

// Export serializes a completed run in the requested format and returns
// the payload together with its content type and a download filename.
func (s *TimetableService) Export(ctx context.Context, runID, format string) ([]byte, string, string, error) {
	if err := s.validator.Struct(dto.ExportQuery{Format: format}); err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, "unsupported export format")
	}

	rec, ok := s.lookupRun(ctx, runID)
	if !ok {
		return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "timetable run not found or expired")
	}
	if rec.Run.Status != models.TimetableRunCompleted {
		return nil, "", "", appErrors.Clone(appErrors.ErrRunIncomplete, fmt.Sprintf("run %s is %s", runID, rec.Run.Status))
	}

	switch format {
	case "csv":
		out, err := s.csvExporter.Render(buildGrid(rec))
		return out, "text/csv", fmt.Sprintf("timetable-%s.csv", runID), err
	case "rows":
		out, err := s.rowsExporter.Render(buildRows(rec.Run))
		return out, "text/csv", fmt.Sprintf("timetable-%s-rows.csv", runID), err
	case "ics":
		out, err := s.icsExporter.Render(fmt.Sprintf("Timetable %s", rec.Run.TermID), buildEvents(rec, s.now()))
		return out, "text/calendar", fmt.Sprintf("timetable-%s.ics", runID), err
	case "pdf":
		out, err := s.pdfExporter.Render(buildGrid(rec), fmt.Sprintf("Timetable %s", rec.Run.TermID))
		return out, "application/pdf", fmt.Sprintf("timetable-%s.pdf", runID), err
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported format %q", format))
	}
}

type generatePayload struct {
	RunID      string
	TermID     string
	Seed       int64
	Iterations int
}

func (s *TimetableService) handleGenerateJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(generatePayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	_, err := s.executeRun(ctx, payload.RunID, payload.TermID, payload.Seed, payload.Iterations)
	return err
}

func (s *TimetableService) executeRun(ctx context.Context, runID, termID string, seed int64, iterations int) (*models.TimetableRun, error) {
	snapshot, err := s.loadSnapshot(ctx, termID)
	if err != nil {
		s.failRun(runID, termID, seed, err)
		return nil, err
	}

	if iterations <= 0 {
		iterations = s.cfg.OptimizerIterations
	}
	eng := engine.New(engine.Config{
		OptimizerIterations: iterations,
		RetryCeiling:        s.cfg.RetryCeiling,
		Seed:                seed,
	})

	result, err := eng.Generate(ctx, snapshot.input)
	if err != nil {
		s.failRun(runID, termID, seed, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation run aborted")
	}

	run := models.TimetableRun{
		ID:          runID,
		TermID:      termID,
		Status:      models.TimetableRunCompleted,
		Seed:        seed,
		Entries:     mapEntries(result.Entries, snapshot),
		Unassigned:  mapUnassigned(result.Unassigned),
		Warnings:    result.Warnings,
		Stats:       mapStats(result.Stats),
		GeneratedAt: s.now().UTC(),
	}
	rec := runRecord{Run: run, Layout: snapshot.layout()}
	s.runs.Save(rec)
	s.cacheRun(ctx, rec)
	s.metrics.ObserveRun(string(run.Status), len(run.Entries), len(run.Unassigned),
		run.Stats.SwapsAccepted, run.Stats.FinalSoftCost, result.Stats.Elapsed)

	s.logger.Sugar().Infow("timetable run completed",
		"run_id", runID,
		"term_id", termID,
		"placed", len(run.Entries),
		"unassigned", len(run.Unassigned),
		"swaps", run.Stats.SwapsAccepted,
		"elapsed_ms", run.Stats.ElapsedMillis,
	)
	return &run, nil
}

func (s *TimetableService) failRun(runID, termID string, seed int64, cause error) {
	s.runs.Save(runRecord{Run: models.TimetableRun{
		ID:          runID,
		TermID:      termID,
		Status:      models.TimetableRunFailed,
		Seed:        seed,
		Error:       cause.Error(),
		GeneratedAt: s.now().UTC(),
	}})
	s.metrics.ObserveRun(string(models.TimetableRunFailed), 0, 0, 0, 0, 0)
	s.logger.Sugar().Errorw("timetable run failed", "run_id", runID, "term_id", termID, "error", cause)
}

// termSnapshot pairs the engine input with the lookup tables exporters
// need to resolve display names.
type termSnapshot struct {
	input       engine.Input
	courseByID  map[string]models.Course
	teacherByID map[string]models.Teacher
	roomByID    map[string]models.Room
}

func (ts termSnapshot) layout() runLayout {
	return runLayout{
		Days:          ts.input.Constraints.Days,
		Periods:       ts.input.Constraints.PeriodsPerDay(),
		StartMinute:   ts.input.Constraints.StartMinute,
		PeriodMinutes: ts.input.Constraints.PeriodMinutes,
	}
}

func (s *TimetableService) loadSnapshot(ctx context.Context, termID string) (*termSnapshot, error) {
	constraints, err := s.constraints.GetByTerm(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraints")
	}
	if constraints == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no scheduling constraints configured for term %s", termID))
	}

	courses, err := s.courses.ListByTerm(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no courses registered for term %s", termID))
	}

	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}

	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active rooms available")
	}

	engineConstraints, err := mapConstraints(constraints)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scheduling constraints")
	}

	snap := &termSnapshot{
		input: engine.Input{
			Constraints: engineConstraints,
			Courses:     make([]engine.Course, 0, len(courses)),
			Teachers:    make([]engine.Teacher, 0, len(teachers)),
			Rooms:       make([]engine.Room, 0, len(rooms)),
		},
		courseByID:  make(map[string]models.Course, len(courses)),
		teacherByID: make(map[string]models.Teacher, len(teachers)),
		roomByID:    make(map[string]models.Room, len(rooms)),
	}

	for _, c := range courses {
		snap.courseByID[c.ID] = c
		teacherID := ""
		if c.TeacherID != nil {
			teacherID = *c.TeacherID
		}
		snap.input.Courses = append(snap.input.Courses, engine.Course{
			ID:          c.ID,
			Code:        c.Code,
			Name:        c.Name,
			Credits:     c.Credits,
			Split:       c.Split,
			Department:  c.Department,
			TeacherID:   teacherID,
			MaxStudents: c.MaxStudents,
			Semester:    c.Semester,
			Year:        c.Year,
			Category:    engine.CourseCategory(strings.ToLower(c.Category)),
		})
	}
	for _, t := range teachers {
		snap.teacherByID[t.ID] = t
		availability := ""
		if t.Availability != nil {
			availability = *t.Availability
		}
		snap.input.Teachers = append(snap.input.Teachers, engine.Teacher{
			ID:            t.ID,
			Name:          t.Name,
			Department:    t.Department,
			Subjects:      t.Subjects,
			MaxWeeklyLoad: t.MaxWeeklyLoad,
			Availability:  availability,
		})
	}
	for _, r := range rooms {
		snap.roomByID[r.ID] = r
		snap.input.Rooms = append(snap.input.Rooms, engine.Room{
			ID:        r.ID,
			Number:    r.Number,
			Building:  r.Building,
			Capacity:  r.Capacity,
			Type:      engine.RoomType(strings.ToLower(r.Type)),
			Equipment: r.Equipment,
		})
	}
	return snap, nil
}

func mapConstraints(c *models.Constraints) (engine.Constraints, error) {
	days := make([]int, 0, len(c.WorkingDays))
	for _, d := range c.WorkingDays {
		days = append(days, int(d))
	}

	var blockedRaw []string
	if len(c.BlockedSlots) > 0 {
		if err := json.Unmarshal(c.BlockedSlots, &blockedRaw); err != nil {
			return engine.Constraints{}, fmt.Errorf("decode blocked slots: %w", err)
		}
	}
	blocked := make([]engine.SlotKey, 0, len(blockedRaw))
	for _, raw := range blockedRaw {
		key, err := engine.ParseSlotKey(raw)
		if err != nil {
			return engine.Constraints{}, fmt.Errorf("blocked slot %q: %w", raw, err)
		}
		blocked = append(blocked, key)
	}

	var holidays []string
	if len(c.Holidays) > 0 {
		if err := json.Unmarshal(c.Holidays, &holidays); err != nil {
			return engine.Constraints{}, fmt.Errorf("decode holidays: %w", err)
		}
	}

	return engine.Constraints{
		Days:                days,
		StartMinute:         c.StartMinute,
		EndMinute:           c.EndMinute,
		PeriodMinutes:       c.PeriodMinutes,
		MaxPeriodsPerDay:    c.MaxPeriodsPerDay,
		PreferMorningTheory: c.PreferMorningTheory,
		AvoidBackToBackLabs: c.AvoidBackToBackLabs,
		BalanceDailyLoad:    c.BalanceDailyLoad,
		BlockedSlots:        blocked,
		Holidays:            holidays,
	}, nil
}

func mapEntries(entries []engine.Entry, snap *termSnapshot) []models.TimetableEntry {
	out := make([]models.TimetableEntry, 0, len(entries))
	for _, e := range entries {
		course := snap.courseByID[e.CourseID]
		teacher := snap.teacherByID[e.TeacherID]
		room := snap.roomByID[e.RoomID]
		out = append(out, models.TimetableEntry{
			CourseID:    e.CourseID,
			CourseCode:  e.CourseCode,
			CourseName:  course.Name,
			TeacherID:   e.TeacherID,
			TeacherName: teacher.Name,
			RoomID:      e.RoomID,
			RoomNumber:  room.Number,
			Day:         e.Day,
			Period:      e.Period,
			SlotKey:     e.Slot().String(),
			Kind:        string(e.Kind),
			Cohort:      e.Cohort,
			Headcount:   e.Headcount,
		})
	}
	return out
}

func mapUnassigned(tokens []engine.SessionToken) []models.UnassignedSession {
	out := make([]models.UnassignedSession, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, models.UnassignedSession{
			CourseID:   t.CourseID,
			CourseCode: t.CourseCode,
			TeacherID:  t.TeacherID,
			Kind:       string(t.Kind),
			Cohort:     t.Cohort,
			Reason:     "no conflict-free slot and suitable room within retry budget",
		})
	}
	return out
}

func mapStats(s engine.Stats) models.TimetableRunStats {
	return models.TimetableRunStats{
		TotalSessions:   s.TotalSessions,
		PlacedGreedy:    s.PlacedGreedy,
		PlacedResolved:  s.PlacedResolved,
		Unassigned:      s.Unassigned,
		SwapsAccepted:   s.SwapsAccepted,
		InitialSoftCost: s.InitialSoftCost,
		FinalSoftCost:   s.FinalSoftCost,
		ElapsedMillis:   float64(s.Elapsed.Microseconds()) / 1000.0,
	}
}

func runResponse(run *models.TimetableRun) *dto.GenerateTimetableResponse {
	return &dto.GenerateTimetableResponse{
		RunID:      run.ID,
		Status:     run.Status,
		Seed:       run.Seed,
		Entries:    run.Entries,
		Unassigned: run.Unassigned,
		Warnings:   run.Warnings,
		Stats:      run.Stats,
	}
}

// --- Run store & caching ---

// runLayout records the slot geometry a run was generated under, so
// exporters can rebuild the grid without refetching constraints.
type runLayout struct {
	Days          []int `json:"days"`
	Periods       int   `json:"periods"`
	StartMinute   int   `json:"start_minute"`
	PeriodMinutes int   `json:"period_minutes"`
}

type runRecord struct {
	Run    models.TimetableRun `json:"run"`
	Layout runLayout           `json:"layout"`
}

type runStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]runRecord
}

func newRunStore(ttl time.Duration) *runStore {
	return &runStore{
		ttl:   ttl,
		items: make(map[string]runRecord),
	}
}

func (s *runStore) Save(rec runRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.Run.ID] = rec
}

func (s *runStore) Get(id string) (runRecord, bool) {
	s.mu.RLock()
	rec, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return runRecord{}, false
	}
	if time.Since(rec.Run.GeneratedAt) > s.ttl {
		s.Delete(id)
		return runRecord{}, false
	}
	return rec, true
}

func (s *runStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

func (s *TimetableService) lookupRun(ctx context.Context, runID string) (runRecord, bool) {
	if rec, ok := s.runs.Get(runID); ok {
		return rec, true
	}
	if s.cache == nil {
		return runRecord{}, false
	}
	raw, err := s.cache.Get(ctx, runCacheKey(runID)).Bytes()
	if err != nil {
		return runRecord{}, false
	}
	var rec runRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Sugar().Warnw("discarding corrupt cached run", "run_id", runID, "error", err)
		return runRecord{}, false
	}
	s.runs.Save(rec)
	return rec, true
}

func (s *TimetableService) cacheRun(ctx context.Context, rec runRecord) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		s.logger.Sugar().Warnw("failed to marshal run for cache", "run_id", rec.Run.ID, "error", err)
		return
	}
	if err := s.cache.Set(ctx, runCacheKey(rec.Run.ID), raw, s.cfg.CacheTTL).Err(); err != nil {
		s.logger.Sugar().Warnw("failed to cache run", "run_id", rec.Run.ID, "error", err)
	}
}

func runCacheKey(runID string) string {
	return "timetable:run:" + runID
}
