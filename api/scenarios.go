/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the stores with realistic
	data for demos. Each scenario creates workers, job definitions, job
	entries, attendance and leave that exercise specific dashboards.

AVAILABLE SCENARIOS:

	production-floor: Hourly and per-item jobs over the last week
	absenteeism:      A bad day on the floor that trips attendance and leave alerts
	piecework:        Per-item jobs only, mixed targets

HOW SCENARIOS WORK:
 1. Reset stores (clear all data)
 2. Create job definitions via the factory
 3. Create workers
 4. Enter job entries through the calculator, as the API does
 5. Add attendance, leave requests and balances

All dates are relative to the handler's clock, so dashboards are populated
whenever a scenario is loaded.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "production-floor"}

NOTE:

	Scenarios reset the stores. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: CreateJobEntry uses the same compute path
  - factory/job.go: Job JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/compensation"
	"github.com/warp/workforce-engine/factory"
	"github.com/warp/workforce-engine/generic"
)

// Resetter is implemented by stores that can delete all their data.
type Resetter interface {
	Reset(ctx context.Context) error
}

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "production-floor",
		Name:        "Production Floor",
		Description: "Hourly and per-item jobs, attendance and leave over the last week",
	},
	{
		ID:          "absenteeism",
		Name:        "Absenteeism",
		Description: "Many absences today and a pending leave backlog, firing alerts",
	},
	{
		ID:          "piecework",
		Name:        "Piecework",
		Description: "Per-item jobs only, with and without targets",
	},
}

var scenarioLoaders = map[string]func(*Handler, context.Context) error{
	"production-floor": (*Handler).loadProductionFloorScenario,
	"absenteeism":      (*Handler).loadAbsenteeismScenario,
	"piecework":        (*Handler).loadPieceworkScenario,
}

// scenarioState tracks the loaded scenario across requests.
type scenarioState struct {
	mu      sync.Mutex
	current string
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.scenario.mu.Lock()
	current := h.scenario.current
	h.scenario.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the stores and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	load, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.scenario.mu.Lock()
	defer h.scenario.mu.Unlock()

	ctx := r.Context()
	if err := h.reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset stores", err)
		return
	}
	h.scenario.current = ""

	if err := load(h, ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.scenario.current = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase deletes all data (dev only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.scenario.mu.Lock()
	defer h.scenario.mu.Unlock()

	if err := h.reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset stores", err)
		return
	}
	h.scenario.current = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) reset(ctx context.Context) error {
	for _, store := range []any{h.Records, h.Jobs} {
		resetter, ok := store.(Resetter)
		if !ok {
			return fmt.Errorf("store %T cannot be reset", store)
		}
		if err := resetter.Reset(ctx); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadProductionFloorScenario(ctx context.Context) error {
	jobs, err := h.seedJobs(ctx,
		`{"id": "job-sewing", "name": "Sewing", "rate_per_hour": 100, "expected_hours": 8,
		  "incentive_bonus_rate": 50, "incentive_type": "per_unit", "penalty_rate": 20}`,
		`{"id": "job-cutting", "name": "Cutting", "rate_per_hour": 80}`,
		`{"id": "job-packing", "name": "Packing", "rate_per_item": 2, "expected_items_per_hour": 50,
		  "incentive_bonus_rate": 10, "incentive_type": "percentage"}`,
	)
	if err != nil {
		return err
	}

	workers := []generic.Worker{
		{ID: "w-ana", Name: "Ana Lopez", GroupName: "Line A"},
		{ID: "w-ben", Name: "Ben Okafor", GroupName: "Line A"},
		{ID: "w-chen", Name: "Chen Wei", GroupName: "Line B"},
		{ID: "w-dara", Name: "Dara Singh", GroupName: "Line B"},
		{ID: "w-eli", Name: "Eli Novak", GroupName: "Line B"},
	}
	if err := h.seedWorkers(ctx, workers); err != nil {
		return err
	}

	today := generic.DayOf(h.now())
	for day := 0; day < 7; day++ {
		date := today.AddDays(-day)
		for i, w := range workers {
			status := generic.AttendancePresent
			switch {
			case (i+day)%9 == 0:
				status = generic.AttendanceLate
			case (i+day)%11 == 0:
				status = generic.AttendanceAbsent
			}
			if err := h.seedAttendance(ctx, w, date, status); err != nil {
				return err
			}
			if !status.Attended() {
				continue
			}

			var err error
			switch i % 3 {
			case 0:
				err = h.seedEntry(ctx, jobs["job-sewing"], w, date, hoursOf(float64(7+(i+day)%4)), day%2 == 1)
			case 1:
				err = h.seedEntry(ctx, jobs["job-cutting"], w, date, hoursOf(float64(6+day%3)), false)
			default:
				err = h.seedEntry(ctx, jobs["job-packing"], w, date, itemsOf(float64(40+5*((i+day)%4))), day%2 == 0)
			}
			if err != nil {
				return err
			}
		}
	}

	leave := []generic.LeaveRequest{
		{ID: "lr-1", WorkerID: "w-ana", LeaveType: "Annual", Status: generic.LeaveApproved,
			StartDate: today.AddMonths(-2).String(), EndDate: today.AddMonths(-2).AddDays(2).String(),
			AppliedOn: today.AddMonths(-2).AddDays(-7).String(), Days: generic.SomeFloat(3)},
		{ID: "lr-2", WorkerID: "w-ben", LeaveType: "Sick", Status: generic.LeaveApproved,
			StartDate: today.AddDays(-20).String(), EndDate: today.AddDays(-20).String(), Days: generic.SomeFloat(1)},
		{ID: "lr-3", WorkerID: "w-chen", LeaveType: "Annual", Status: generic.LeavePending,
			StartDate: today.AddDays(10).String(), EndDate: today.AddDays(14).String(),
			AppliedOn: today.AddDays(-1).String(), Days: generic.SomeFloat(5)},
		{ID: "lr-4", WorkerID: "w-dara", LeaveType: "Casual", Status: generic.LeaveRejected,
			StartDate: today.AddMonths(-1).String(), EndDate: today.AddMonths(-1).String(),
			AppliedOn: today.AddMonths(-1).AddDays(-2).String(), Days: generic.SomeFloat(1)},
	}
	balances := []generic.LeaveBalance{
		{WorkerID: "w-ana", LeaveType: "Annual", Allocated: generic.SomeFloat(20), Used: generic.SomeFloat(3)},
		{WorkerID: "w-ben", LeaveType: "Sick", Allocated: generic.SomeFloat(10), Used: generic.SomeFloat(1)},
		{WorkerID: "w-chen", LeaveType: "Annual", Allocated: generic.SomeFloat(20), Used: generic.SomeFloat(0)},
		{WorkerID: "w-dara", LeaveType: "Casual", Allocated: generic.SomeFloat(6), Used: generic.SomeFloat(2)},
	}
	return h.seedLeave(ctx, leave, balances)
}

func (h *Handler) loadAbsenteeismScenario(ctx context.Context) error {
	jobs, err := h.seedJobs(ctx,
		`{"id": "job-assembly", "name": "Assembly", "rate_per_hour": 90, "expected_hours": 8,
		  "incentive_bonus_rate": 40, "penalty_rate": 25}`,
	)
	if err != nil {
		return err
	}

	workers := []generic.Worker{
		{ID: "w-1", Name: "Farah Haddad", GroupName: "Assembly"},
		{ID: "w-2", Name: "Goran Petrov", GroupName: "Assembly"},
		{ID: "w-3", Name: "Hana Sato", GroupName: "Assembly"},
		{ID: "w-4", Name: "Ivan Moreau", GroupName: "Assembly"},
		{ID: "w-5", Name: "Jo Mensah", GroupName: "Assembly"},
	}
	if err := h.seedWorkers(ctx, workers); err != nil {
		return err
	}

	// Two absent and one late today.
	today := generic.DayOf(h.now())
	statuses := []generic.AttendanceStatus{
		generic.AttendanceAbsent, generic.AttendanceAbsent, generic.AttendanceLate,
		generic.AttendancePresent, generic.AttendancePresent,
	}
	for i, w := range workers {
		if err := h.seedAttendance(ctx, w, today, statuses[i]); err != nil {
			return err
		}
		if statuses[i].Attended() {
			if err := h.seedEntry(ctx, jobs["job-assembly"], w, today, hoursOf(6), false); err != nil {
				return err
			}
		}
	}

	var leave []generic.LeaveRequest
	for i := 0; i < 12; i++ {
		w := workers[i%len(workers)]
		start := today.AddDays(3 + i)
		leave = append(leave, generic.LeaveRequest{
			ID: fmt.Sprintf("lr-%d", i+1), WorkerID: w.ID, LeaveType: "Annual", Status: generic.LeavePending,
			StartDate: start.String(), EndDate: start.String(), AppliedOn: today.String(), Days: generic.SomeFloat(1),
		})
	}
	return h.seedLeave(ctx, leave, nil)
}

func (h *Handler) loadPieceworkScenario(ctx context.Context) error {
	jobs, err := h.seedJobs(ctx,
		`{"id": "job-stitch", "name": "Stitching", "rate_per_item": 1.5, "expected_items_per_hour": 60,
		  "incentive_bonus_rate": 0.5}`,
		`{"id": "job-label", "name": "Labelling", "rate_per_item": 0.4}`,
	)
	if err != nil {
		return err
	}

	workers := []generic.Worker{
		{ID: "w-kai", Name: "Kai Lund", GroupName: "Finishing"},
		{ID: "w-lea", Name: "Lea Roux", GroupName: "Finishing"},
		{ID: "w-mo", Name: "Mo Farouk"},
	}
	if err := h.seedWorkers(ctx, workers); err != nil {
		return err
	}

	today := generic.DayOf(h.now())
	for day := 0; day < 5; day++ {
		date := today.AddDays(-day)
		for i, w := range workers {
			if err := h.seedEntry(ctx, jobs["job-stitch"], w, date, itemsOf(float64(50+7*((i+day)%3))), false); err != nil {
				return err
			}
			if err := h.seedEntry(ctx, jobs["job-label"], w, date, itemsOf(float64(200+25*i)), true); err != nil {
				return err
			}
			if err := h.seedAttendance(ctx, w, date, generic.AttendancePresent); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// SEED HELPERS
// =============================================================================

func (h *Handler) seedJobs(ctx context.Context, jsons ...string) (map[generic.JobID]compensation.JobDefinition, error) {
	f := factory.NewJobFactory()
	jobs := make(map[generic.JobID]compensation.JobDefinition, len(jsons))
	for _, js := range jsons {
		job, err := f.ParseJob(js)
		if err != nil {
			return nil, err
		}
		if err := h.Jobs.SaveJob(ctx, *job); err != nil {
			return nil, err
		}
		jobs[job.ID] = *job
	}
	return jobs, nil
}

func (h *Handler) seedWorkers(ctx context.Context, workers []generic.Worker) error {
	for _, w := range workers {
		if err := h.Records.SaveWorker(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// seedEntry computes and saves one job entry the way CreateJobEntry does.
func (h *Handler) seedEntry(ctx context.Context, job compensation.JobDefinition, w generic.Worker, date generic.TimePoint, outcome compensation.Outcome, postLunch bool) error {
	obs := compensation.Observation{
		WorkerID:    w.ID,
		GroupName:   w.GroupName,
		JobID:       job.ID,
		Date:        date,
		Outcome:     outcome,
		IsPostLunch: postLunch,
	}
	res, err := h.Calculator.Compute(job, obs)
	if err != nil {
		return fmt.Errorf("compute %s for %s: %w", job.ID, w.ID, err)
	}
	id := generic.EntryID(fmt.Sprintf("je-%s-%s-%s", w.ID, job.ID, date))
	if postLunch {
		id += "-pm"
	}
	return h.Records.SaveJobEntry(ctx, compensation.NewEntry(id, job, obs, res, h.now()))
}

func (h *Handler) seedAttendance(ctx context.Context, w generic.Worker, date generic.TimePoint, status generic.AttendanceStatus) error {
	checkIn := ""
	switch status {
	case generic.AttendancePresent:
		checkIn = "08:55"
	case generic.AttendanceLate:
		checkIn = "09:40"
	}
	return h.Records.SaveAttendance(ctx, generic.AttendanceRecord{
		ID:       fmt.Sprintf("att-%s-%s", w.ID, date),
		WorkerID: w.ID,
		Date:     date.String(),
		Status:   status,
		CheckIn:  checkIn,
	})
}

func (h *Handler) seedLeave(ctx context.Context, requests []generic.LeaveRequest, balances []generic.LeaveBalance) error {
	for _, r := range requests {
		if err := h.Records.SaveLeaveRequest(ctx, r); err != nil {
			return err
		}
	}
	for _, b := range balances {
		if err := h.Records.SaveLeaveBalance(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func hoursOf(v float64) compensation.Outcome {
	return compensation.TimeBased{HoursTaken: decimal.NewFromFloat(v)}
}

func itemsOf(v float64) compensation.Outcome {
	return compensation.UnitBased{ItemsCompleted: decimal.NewFromFloat(v)}
}
