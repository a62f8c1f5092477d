/*
handlers.go - HTTP API handlers for the workforce engine

PURPOSE:
  Exposes data entry and dashboards via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the compensation
  calculator and the analytics aggregator.

ENDPOINTS:
  Workers:
    GET    /api/workers                  List workers
    POST   /api/workers                  Create or update worker
    GET    /api/workers/{id}             Get worker

  Jobs:
    GET    /api/jobs                     List job definitions
    POST   /api/jobs                     Create or update job definition
    GET    /api/jobs/{id}                Get job definition
    DELETE /api/jobs/{id}                Delete job definition
    POST   /api/jobs/{id}/preview        Price an observation without saving

  Job entries (create/delete only):
    GET    /api/job-entries              List entries (recomputed)
    POST   /api/job-entries              Compute and save an entry
    GET    /api/job-entries/{id}         Get entry
    DELETE /api/job-entries/{id}         Delete entry

  Attendance & leave:
    POST   /api/attendance               Record attendance
    POST   /api/leave-requests           Record leave request
    POST   /api/leave-balances           Set leave balance

  Dashboards:
    GET    /api/dashboards               List dashboard names
    GET    /api/dashboards/{name}        Build one dashboard
    GET    /api/alerts                   Alerts active at the last monitor check

LIST FILTERS:
  ?worker_id=&job_id=&from=YYYY-MM-DD&to=YYYY-MM-DD

REQUEST FLOW (job entries):
  1. Parse HTTP request
  2. Build the observation (factory)
  3. Load the job definition
  4. Compute (compensation.Calculator)
  5. Persist the computed entry and return it

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Duplicate entry
  - 500: Internal errors
  Dashboards answer with an OperationResult instead, whose message is the
  single banner shown to the user.

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - dashboards.go: Dashboard fetch and assembly
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/compensation"
	"github.com/warp/workforce-engine/factory"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/metrics"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Records    generic.RecordStore
	Jobs       compensation.JobStore
	Factory    *factory.JobFactory
	Calculator *compensation.Calculator
	Dashboards *DashboardService
	Metrics    *metrics.Metrics
	Logger     *zap.Logger

	// Monitor backs /api/alerts when set.
	Monitor *AlertMonitor

	// now stamps new job entries.
	now func() time.Time

	scenario scenarioState
}

// NewHandler creates a new handler over the given stores.
func NewHandler(records generic.RecordStore, jobs compensation.JobStore, cfg analytics.Config, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = generic.SystemClock{}
	}
	return &Handler{
		Records:    records,
		Jobs:       jobs,
		Factory:    factory.NewJobFactory(),
		Calculator: compensation.NewCalculator(),
		Dashboards: NewDashboardService(records, jobs, cfg, m),
		Metrics:    m,
		Logger:     logger.Named("api"),
		now:        clock.Now,
	}
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Records.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, wk := range workers {
		dtos[i] = toWorkerDTO(wk)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker, err := h.Records.GetWorker(r.Context(), generic.WorkerID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "Failed to get worker", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(*worker))
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	worker := generic.Worker{
		ID:        generic.WorkerID(orNewID(req.ID)),
		Name:      strings.TrimSpace(req.Name),
		GroupName: strings.TrimSpace(req.GroupName),
	}
	if err := h.Records.SaveWorker(r.Context(), worker); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save worker", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkerDTO(worker))
}

// =============================================================================
// JOB HANDLERS
// =============================================================================

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Jobs.ListJobs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list jobs", err)
		return
	}

	dtos := make([]JobDTO, len(jobs))
	for i, j := range jobs {
		dtos[i] = toJobDTO(j)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.Jobs.GetJob(r.Context(), generic.JobID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "Failed to get job", err)
		return
	}
	writeJSON(w, http.StatusOK, toJobDTO(*job))
}

// CreateJob validates and saves a job definition. A job with an existing ID
// is replaced; entries already saved keep the amounts computed at save time.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req JobDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = orNewID(req.ID)

	job, err := h.Factory.FromJSON(req.toJSON())
	if err != nil {
		h.writeDomainError(w, "Invalid job definition", err)
		return
	}
	if err := h.Jobs.SaveJob(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save job", err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobDTO(job))
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.Jobs.DeleteJob(r.Context(), generic.JobID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, "Failed to delete job", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewJob prices hours or items against a saved job without persisting.
func (h *Handler) PreviewJob(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	job, err := h.Jobs.GetJob(r.Context(), generic.JobID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "Failed to get job", err)
		return
	}
	outcome, err := compensation.OutcomeFromFields(generic.FromFloatPtr(req.HoursTaken), generic.FromFloatPtr(req.ItemsCompleted))
	if err != nil {
		h.writeDomainError(w, "Invalid observation", err)
		return
	}
	res, err := h.Calculator.Compute(*job, compensation.Observation{JobID: job.ID, Outcome: outcome})
	if err != nil {
		h.writeDomainError(w, "Failed to compute", err)
		return
	}
	writeJSON(w, http.StatusOK, toResultDTO(res))
}

// =============================================================================
// JOB ENTRY HANDLERS
// =============================================================================

// ListJobEntries returns entries recomputed against the current job definitions.
func (h *Handler) ListJobEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.writeDomainError(w, "Invalid filter", err)
		return
	}
	entries, err := h.Dashboards.JobEntries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list job entries", err)
		return
	}

	dtos := make([]JobEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toJobEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetJobEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Records.GetJobEntry(r.Context(), generic.EntryID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "Failed to get job entry", err)
		return
	}
	writeJSON(w, http.StatusOK, toJobEntryDTO(*entry))
}

// CreateJobEntry computes compensation for the observation and persists the
// result. Saved entries are never updated; delete and re-enter instead.
func (h *Handler) CreateJobEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateJobEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	obs, err := h.Factory.ObservationFromJSON(req.toJSON())
	if err != nil {
		h.writeDomainError(w, "Invalid job entry", err)
		return
	}
	job, err := h.Jobs.GetJob(r.Context(), obs.JobID)
	if err != nil {
		h.writeDomainError(w, "Failed to get job", err)
		return
	}
	res, err := h.Calculator.Compute(*job, obs)
	if err != nil {
		h.writeDomainError(w, "Failed to compute", err)
		return
	}
	h.Metrics.ObserveComputation(res.Mode)

	entry := compensation.NewEntry(generic.EntryID(uuid.NewString()), *job, obs, res, h.now())
	if err := h.Records.SaveJobEntry(r.Context(), entry); err != nil {
		h.writeDomainError(w, "Failed to save job entry", err)
		return
	}
	h.Logger.Debug("job entry saved",
		zap.String("entry_id", string(entry.ID)),
		zap.String("worker_id", string(entry.WorkerID)),
		zap.String("job_id", string(entry.JobID)),
		zap.String("total", res.TotalAmount.StringFixed(compensation.MoneyPlaces)),
	)

	if saved, err := h.Records.GetJobEntry(r.Context(), entry.ID); err == nil {
		entry = *saved
	}
	writeJSON(w, http.StatusCreated, toJobEntryDTO(entry))
}

func (h *Handler) DeleteJobEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Records.DeleteJobEntry(r.Context(), generic.EntryID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, "Failed to delete job entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ATTENDANCE & LEAVE HANDLERS
// =============================================================================

func (h *Handler) CreateAttendance(w http.ResponseWriter, r *http.Request) {
	var req AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := requireWorker(req.WorkerID); err != nil {
		h.writeDomainError(w, "Invalid attendance", err)
		return
	}
	if _, ok := generic.ParseDate(req.Date); !ok {
		h.writeDomainError(w, "Invalid attendance", invalidField("date", "invalid date %q", req.Date))
		return
	}
	status, ok := parseAttendanceStatus(req.Status)
	if !ok {
		h.writeDomainError(w, "Invalid attendance", invalidField("status", "unknown attendance status %q", req.Status))
		return
	}

	record := generic.AttendanceRecord{
		ID:       orNewID(req.ID),
		WorkerID: generic.WorkerID(req.WorkerID),
		Date:     req.Date,
		Status:   status,
		CheckIn:  req.CheckIn,
	}
	if err := h.Records.SaveAttendance(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save attendance", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req LeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := requireWorker(req.WorkerID); err != nil {
		h.writeDomainError(w, "Invalid leave request", err)
		return
	}
	status, ok := parseLeaveStatus(req.Status)
	if !ok {
		h.writeDomainError(w, "Invalid leave request", invalidField("status", "unknown leave status %q", req.Status))
		return
	}
	start, okStart := generic.ParseDate(req.StartDate)
	end, okEnd := generic.ParseDate(req.EndDate)
	if !okStart || !okEnd || end.Before(start) {
		h.writeDomainError(w, "Invalid leave request", invalidField("start_date", "invalid leave period %q..%q", req.StartDate, req.EndDate))
		return
	}
	if req.Days != nil && *req.Days < 0 {
		h.writeDomainError(w, "Invalid leave request", invalidField("days", "days must not be negative"))
		return
	}

	appliedOn := req.AppliedOn
	if appliedOn == "" {
		appliedOn = generic.DayOf(h.now()).String()
	}
	days := generic.FromFloatPtr(req.Days)
	if !days.Valid {
		days = generic.SomeFloat(float64(generic.Period{Start: start, End: end}.Len()))
	}

	leave := generic.LeaveRequest{
		ID:        orNewID(req.ID),
		WorkerID:  generic.WorkerID(req.WorkerID),
		LeaveType: strings.TrimSpace(req.LeaveType),
		Status:    status,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		AppliedOn: appliedOn,
		Days:      days,
		Reason:    req.Reason,
	}
	if err := h.Records.SaveLeaveRequest(r.Context(), leave); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save leave request", err)
		return
	}
	writeJSON(w, http.StatusCreated, leave)
}

func (h *Handler) CreateLeaveBalance(w http.ResponseWriter, r *http.Request) {
	var req LeaveBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := requireWorker(req.WorkerID); err != nil {
		h.writeDomainError(w, "Invalid leave balance", err)
		return
	}
	if strings.TrimSpace(req.LeaveType) == "" {
		h.writeDomainError(w, "Invalid leave balance", invalidField("leave_type", "leave_type is required"))
		return
	}

	balance := generic.LeaveBalance{
		WorkerID:  generic.WorkerID(req.WorkerID),
		LeaveType: strings.TrimSpace(req.LeaveType),
		Allocated: generic.FromFloatPtr(req.Allocated),
		Used:      generic.FromFloatPtr(req.Used),
	}
	if err := h.Records.SaveLeaveBalance(r.Context(), balance); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save leave balance", err)
		return
	}
	writeJSON(w, http.StatusCreated, balance)
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

func (h *Handler) ListDashboards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analytics.Dashboards)
}

// GetDashboard builds one dashboard. The body is always an OperationResult.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	filter, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, generic.Failed[any](err.Error()))
		return
	}

	res := h.Dashboards.Result(r.Context(), name, filter)
	switch {
	case res.OK():
		writeJSON(w, http.StatusOK, res)
	case !isDashboard(name):
		writeJSON(w, http.StatusNotFound, res)
	default:
		h.Logger.Warn("dashboard build failed", zap.String("dashboard", name), zap.String("message", res.Message))
		writeJSON(w, http.StatusInternalServerError, res)
	}
}

// ListAlerts returns the monitor's active alerts as an OperationResult.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if h.Monitor == nil {
		writeJSON(w, http.StatusNotFound, generic.Failed[[]FiredAlert]("alert monitor is not running"))
		return
	}
	writeJSON(w, http.StatusOK, h.Monitor.Snapshot())
}

func isDashboard(name string) bool {
	for _, d := range analytics.Dashboards {
		if d == name {
			return true
		}
	}
	return false
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	h.Metrics.ObserveError(err)

	resp := ErrorResponse{Error: message, Details: err.Error()}
	var ve *generic.ValidationError
	if errors.As(err, &ve) {
		resp.Code = ve.Code
		resp.Field = ve.Field
	}

	status := http.StatusInternalServerError
	switch {
	case generic.IsNotFound(err):
		status = http.StatusNotFound
	case generic.IsConflict(err):
		status = http.StatusConflict
	case generic.IsClientError(err):
		status = http.StatusBadRequest
	default:
		h.Logger.Error(message, zap.Error(err))
	}
	writeJSON(w, status, resp)
}

// parseFilter reads worker_id, job_id, from and to query parameters.
func parseFilter(r *http.Request) (generic.RecordFilter, error) {
	q := r.URL.Query()
	filter := generic.RecordFilter{
		WorkerID: generic.WorkerID(q.Get("worker_id")),
		JobID:    generic.JobID(q.Get("job_id")),
	}
	if raw := q.Get("from"); raw != "" {
		from, ok := generic.ParseDate(raw)
		if !ok {
			return filter, invalidField("from", "invalid date %q", raw)
		}
		filter.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, ok := generic.ParseDate(raw)
		if !ok {
			return filter, invalidField("to", "invalid date %q", raw)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, generic.NewValidationError(generic.CodeInvalidField, "to", generic.ErrInvalidPeriod,
			"to %s is before from %s", filter.To, filter.From)
	}
	return filter, nil
}

func parseAttendanceStatus(s string) (generic.AttendanceStatus, bool) {
	for _, st := range generic.AttendanceStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

func parseLeaveStatus(s string) (generic.LeaveStatus, bool) {
	if strings.TrimSpace(s) == "" {
		return generic.LeavePending, true
	}
	for _, st := range generic.LeaveStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

func requireWorker(id string) error {
	if strings.TrimSpace(id) == "" {
		return invalidField("worker_id", "worker_id is required")
	}
	return nil
}

func invalidField(field, format string, args ...any) error {
	return generic.NewValidationError(generic.CodeInvalidField, field, nil, format, args...)
}

func orNewID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}
