/*
handlers.go - HTTP API handlers for the attendance system

PURPOSE:
  Exposes the attendance/payroll engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine and
  report packages.

ENDPOINTS:
  Employees:
    GET    /api/employees                 List roster
    POST   /api/employees                 Create/update employee

  Events:
    POST   /api/events                    Ingest raw punches (batch)

  Attendance:
    GET    /api/attendance/daily          One day, all (or one) employees
    GET    /api/attendance/weekly         Weekly summary + anomalies
    GET    /api/payroll                   Weekly payroll split
    GET    /api/weeks                     Week picker list

  Schedules:
    GET    /api/schedules/templates       List templates with rules/shifts
    POST   /api/schedules/templates       Create template
    POST   /api/schedules/templates/{id}/rules  Add rule + shifts
    GET    /api/schedules/templates/{id}/grid   Weekly grid labels
    POST   /api/schedules/assign          Assign template to employee
    GET    /api/schedules/preview         N-day preview per employee

REQUEST FLOW:
  1. Parse HTTP request
  2. Read the inputs ONCE (events range, schedule snapshot, roster)
  3. Call the engine (pure computation over that snapshot)
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  Malformed attendance data never errors: the engine degrades it to flags.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/report"
	"github.com/warp/attendance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// DefaultWindow, when set, stands in for a schedule on unassigned
	// days. Injected at startup, never read from a hidden settings store.
	DefaultWindow *engine.ShiftWindow
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	roster, err := h.Store.Roster(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(roster))
	for i, e := range roster {
		dtos[i] = EmployeeDTO{
			ID:       string(e.EmployeeID),
			Name:     e.Name,
			IsActive: e.IsActive,
		}
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates or updates a roster entry.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	entry := engine.RosterEntry{
		EmployeeID: engine.EmployeeID(req.ID),
		Name:       req.Name,
		IsActive:   active,
	}
	if entry.Name == "" {
		entry.Name = req.ID
	}

	if err := h.Store.SaveEmployee(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, EmployeeDTO{
		ID:       req.ID,
		Name:     entry.Name,
		IsActive: active,
	})
}

// =============================================================================
// EVENT INGESTION
// =============================================================================

// IngestEvents stores a batch of raw punches. Timestamps are parsed at this
// boundary; unparseable ones are rejected individually, never the batch.
func (h *Handler) IngestEvents(w http.ResponseWriter, r *http.Request) {
	var req IngestEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var events []engine.Event
	var rejected []string
	for _, raw := range req.Events {
		if raw.EmployeeID == "" {
			rejected = append(rejected, raw.Timestamp)
			continue
		}
		e, err := engine.ParseEvent(engine.EmployeeID(raw.EmployeeID), raw.Timestamp)
		if err != nil {
			rejected = append(rejected, raw.Timestamp)
			continue
		}
		events = append(events, e)
	}

	if len(events) > 0 {
		if err := h.Store.InsertEvents(r.Context(), events, req.DeviceID); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store events", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, IngestEventsResponse{
		Inserted: len(events),
		Rejected: rejected,
	})
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// GetDailyAttendance computes one day for all (or one) employees. Every
// roster employee appears, zero-valued when the day has no punches.
func (h *Handler) GetDailyAttendance(w http.ResponseWriter, r *http.Request) {
	day, ok := engine.ParseWallClock(r.URL.Query().Get("date"))
	if !ok {
		day = engine.Today()
	}
	day = day.DateOf()
	filter := engine.EmployeeID(r.URL.Query().Get("employee"))

	// Query one extra day on each side so overnight punches are visible.
	from := day.AddDays(-1)
	to := day.AddDays(2)
	events, err := h.Store.EventsInRange(r.Context(), from, to, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query events", err)
		return
	}
	roster, err := h.Store.Roster(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	grouped := engine.GroupEvents(events)

	var dtos []DailyAttendanceDTO
	for _, entry := range roster {
		if filter != "" && entry.EmployeeID != filter {
			continue
		}
		att := engine.ComputeDaily(grouped[entry.EmployeeID][day.ISODate()])

		dto := DailyAttendanceDTO{
			EmployeeID: string(entry.EmployeeID),
			Name:       entry.Name,
			Date:       day.ISODate(),
			WorkedHHMM: engine.FormatHHMM(att.WorkedSeconds),
			PunchCount: att.PunchCount,
			Flags:      flagsToStrings(att.Flags),
		}
		if att.In != nil {
			dto.In = att.In.HHMM()
		}
		if att.Out != nil {
			dto.Out = att.Out.HHMM()
		}
		dtos = append(dtos, dto)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetWeeklySummary returns the weekly view with the anomaly roll-up.
func (h *Handler) GetWeeklySummary(w http.ResponseWriter, r *http.Request) {
	spec := engine.WeekSpecFor(r.URL.Query().Get("week_type"))
	anchor, ok := engine.ParseWallClock(r.URL.Query().Get("week"))
	if !ok {
		anchor = engine.Today()
	}
	filter := engine.EmployeeID(r.URL.Query().Get("employee"))

	weekStart := spec.StartFor(anchor)
	weekEnd := spec.EndFor(weekStart)

	events, err := h.Store.EventsInRange(r.Context(), weekStart, weekEnd.AddDays(1), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query events", err)
		return
	}
	names, err := h.rosterNames(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	summary := report.BuildWeeklySummary(events, names)

	dto := WeeklySummaryDTO{
		WeekType:  spec.Key,
		WeekStart: weekStart.ISODate(),
		WeekEnd:   weekEnd.ISODate(),
		Employees: make(map[string]EmployeeWeekDTO, len(summary.Employees)),
		Anomalies: []AnomalyDTO{},
	}
	for _, week := range summary.Employees {
		days := make(map[string]DayRecordDTO, len(week.Days))
		for day, rec := range week.Days {
			hours, _ := rec.Hours.Float64()
			days[day] = DayRecordDTO{
				In:      rec.In,
				Out:     rec.Out,
				Hours:   hours,
				Punches: rec.Punches,
				Flags:   flagsToStrings(rec.Flags),
			}
		}
		dto.Employees[string(week.EmployeeID)] = EmployeeWeekDTO{Name: week.Name, Days: days}
	}
	for _, a := range summary.Anomalies {
		dto.Anomalies = append(dto.Anomalies, toAnomalyDTO(a))
	}

	writeJSON(w, http.StatusOK, dto)
}

// GetPayroll computes the weekly payroll split for the selected week.
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	spec := engine.WeekSpecFor(r.URL.Query().Get("week_type"))
	anchor, ok := engine.ParseWallClock(r.URL.Query().Get("week"))
	if !ok {
		anchor = engine.Today()
	}
	filter := engine.EmployeeID(r.URL.Query().Get("employee"))

	weekStart := spec.StartFor(anchor)
	weekEnd := spec.EndFor(weekStart)
	weekDates := spec.Dates(weekStart)

	// One consistent read of everything the computation needs, one extra
	// day on each side for overnight shifts.
	events, err := h.Store.EventsInRange(r.Context(), weekStart.AddDays(-1), weekEnd.AddDays(2), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query events", err)
		return
	}
	roster, err := h.Store.Roster(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	snap, err := h.Store.ScheduleSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedules", err)
		return
	}

	if filter != "" {
		filtered := roster[:0]
		for _, e := range roster {
			if e.EmployeeID == filter {
				filtered = append(filtered, e)
			}
		}
		roster = filtered
	}

	records := engine.BuildPayroll(engine.PayrollInput{
		Events:    engine.GroupEvents(events),
		Roster:    roster,
		WeekDates: weekDates,
		Schedule:  snap.Lookup(),
		Options:   engine.SplitOptions{DefaultWindow: h.DefaultWindow},
	})

	resp := PayrollResponseDTO{
		WeekType:  spec.Key,
		WeekStart: weekStart.ISODate(),
		WeekEnd:   weekEnd.ISODate(),
		Records:   make([]PayrollRecordDTO, len(records)),
	}
	for _, d := range weekDates {
		resp.WeekDates = append(resp.WeekDates, d.ISODate())
	}
	for i, rec := range records {
		resp.Records[i] = toPayrollRecordDTO(rec)
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListWeeks returns the selectable weeks around today for a convention.
func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	spec := engine.WeekSpecFor(r.URL.Query().Get("week_type"))
	weeks := engine.BuildWeekList(spec, engine.Today(), 12, 2)

	dtos := make([]WeekRangeDTO, len(weeks))
	for i, wk := range weeks {
		dtos[i] = WeekRangeDTO{
			Start: wk.Start.ISODate(),
			End:   wk.End.ISODate(),
			Label: wk.Label,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := h.Store.ListTemplates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list templates", err)
		return
	}

	dtos := make([]ScheduleTemplateDTO, len(tpls))
	for i, tpl := range tpls {
		dtos[i] = toTemplateDTO(tpl)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	id, err := h.Store.CreateTemplate(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create template", err)
		return
	}
	writeJSON(w, http.StatusCreated, ScheduleTemplateDTO{ID: id, Name: req.Name})
}

// AddRule adds a rule and its shift windows to a template. Weekday specs
// and HH:MM strings are stored as given; a spec that parses to nothing
// simply never matches, and bad times surface as invalid_schedule flags.
func (h *Handler) AddRule(w http.ResponseWriter, r *http.Request) {
	templateID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid template id", err)
		return
	}

	var req AddRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shifts := make([]engine.ShiftWindow, len(req.Shifts))
	for i, sh := range req.Shifts {
		shifts[i] = engine.ShiftWindow{
			StartTime:    sh.StartTime,
			EndTime:      sh.EndTime,
			GraceMinutes: sh.GraceMinutes,
			BreakMinutes: sh.BreakMinutes,
		}
	}

	ruleID, err := h.Store.AddRule(r.Context(), templateID, req.Weekdays, req.Priority, shifts)
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Template not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to add rule", err)
		return
	}

	writeJSON(w, http.StatusCreated, ScheduleRuleDTO{
		ID:       ruleID,
		Weekdays: req.Weekdays,
		Priority: req.Priority,
		Shifts:   req.Shifts,
	})
}

// GetTemplateGrid returns per-weekday shift labels for a template.
func (h *Handler) GetTemplateGrid(w http.ResponseWriter, r *http.Request) {
	templateID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid template id", err)
		return
	}

	tpl, err := h.Store.TemplateByID(r.Context(), templateID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load template", err)
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "Template not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, engine.WeeklyGrid(tpl))
}

func (h *Handler) AssignTemplate(w http.ResponseWriter, r *http.Request) {
	var req AssignTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", nil)
		return
	}

	err := h.Store.AssignTemplate(r.Context(), engine.EmployeeID(req.EmployeeID), req.TemplateID)
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Template not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to assign template", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// GetSchedulePreview resolves the next N days of expected shifts for one
// employee, day-off days included with empty labels.
func (h *Handler) GetSchedulePreview(w http.ResponseWriter, r *http.Request) {
	employeeID := engine.EmployeeID(r.URL.Query().Get("employee"))
	if employeeID == "" {
		writeError(w, http.StatusBadRequest, "employee is required", nil)
		return
	}
	days := 7
	if n, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && n > 0 && n <= 31 {
		days = n
	}

	emp, err := h.Store.GetEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", engine.ErrEmployeeNotFound)
		return
	}

	snap, err := h.Store.ScheduleSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedules", err)
		return
	}
	tpl := snap.TemplateFor(employeeID)

	today := engine.Today()
	preview := make([]SchedulePreviewDayDTO, days)
	for i := 0; i < days; i++ {
		day := today.AddDays(i)
		dto := SchedulePreviewDayDTO{Date: day.ISODate(), Labels: []string{}}
		for _, sh := range engine.ExpectedShifts(tpl, day) {
			if sh.Invalid {
				dto.Labels = append(dto.Labels, "invalid")
				continue
			}
			dto.Labels = append(dto.Labels, sh.Start.HHMM()+" – "+sh.End.HHMM())
		}
		preview[i] = dto
	}

	writeJSON(w, http.StatusOK, preview)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) rosterNames(r *http.Request) (map[engine.EmployeeID]string, error) {
	roster, err := h.Store.Roster(r.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[engine.EmployeeID]string, len(roster))
	for _, e := range roster {
		names[e.EmployeeID] = e.Name
	}
	return names, nil
}

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
