/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal engine model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/payroll.go: The records these DTOs render
*/
package api

import (
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/report"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents a roster entry in API responses.
type EmployeeDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// IngestEventsRequest is a batch of raw punches from a device or import.
type IngestEventsRequest struct {
	DeviceID string           `json:"device_id,omitempty"`
	Events   []IngestEventDTO `json:"events"`
}

// IngestEventDTO is one raw punch. Timestamp accepts the device formats
// ParseWallClock understands (space or T separators, optional offset).
type IngestEventDTO struct {
	EmployeeID string `json:"employee_id"`
	Timestamp  string `json:"timestamp"`
}

// IngestEventsResponse reports how many punches were stored and which were
// dropped at the parse boundary.
type IngestEventsResponse struct {
	Inserted int      `json:"inserted"`
	Rejected []string `json:"rejected,omitempty"`
}

// DailyAttendanceDTO is one employee-day reduction.
type DailyAttendanceDTO struct {
	EmployeeID string   `json:"employee_id"`
	Name       string   `json:"name"`
	Date       string   `json:"date"`
	In         string   `json:"in,omitempty"`
	Out        string   `json:"out,omitempty"`
	WorkedHHMM string   `json:"worked"`
	PunchCount int      `json:"punch_count"`
	Flags      []string `json:"flags"`
}

// DayCellDTO is the 5-column per-day block of a payroll row.
type DayCellDTO struct {
	In          string   `json:"in"`
	Out         string   `json:"out"`
	Hours       string   `json:"hours"`
	Overtime    string   `json:"ot"`
	HoursDec    float64  `json:"hours_dec"`
	OvertimeDec float64  `json:"ot_dec"`
	Flags       []string `json:"flags"`
}

// PayrollRecordDTO is one employee's payroll row for the selected week.
type PayrollRecordDTO struct {
	EmployeeID    string                `json:"employee_id"`
	Name          string                `json:"name"`
	IsActive      bool                  `json:"is_active"`
	Days          map[string]DayCellDTO `json:"days"`
	TotalRegular  float64               `json:"total_regular"`
	TotalOvertime float64               `json:"total_ot"`
	TotalAll      float64               `json:"total_all"`
}

// PayrollResponseDTO wraps the payroll rows with the resolved week.
type PayrollResponseDTO struct {
	WeekType  string             `json:"week_type"`
	WeekStart string             `json:"week_start"`
	WeekEnd   string             `json:"week_end"`
	WeekDates []string           `json:"week_dates"`
	Records   []PayrollRecordDTO `json:"records"`
}

// WeekRangeDTO is one selectable week for pickers.
type WeekRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// AnomalyDTO is one flagged employee-day in the weekly view.
type AnomalyDTO struct {
	EmployeeID string   `json:"employee_id"`
	Name       string   `json:"name"`
	Day        string   `json:"day"`
	In         string   `json:"in,omitempty"`
	Out        string   `json:"out,omitempty"`
	Hours      float64  `json:"hours"`
	Punches    int      `json:"punches"`
	Flags      []string `json:"flags"`
}

// WeeklySummaryDTO is the weekly attendance view.
type WeeklySummaryDTO struct {
	WeekType  string                     `json:"week_type"`
	WeekStart string                     `json:"week_start"`
	WeekEnd   string                     `json:"week_end"`
	Employees map[string]EmployeeWeekDTO `json:"employees"`
	Anomalies []AnomalyDTO               `json:"anomalies"`
}

// EmployeeWeekDTO is one employee's weekly day map.
type EmployeeWeekDTO struct {
	Name string                  `json:"name"`
	Days map[string]DayRecordDTO `json:"days"`
}

// DayRecordDTO is one formatted day in the weekly view.
type DayRecordDTO struct {
	In      string   `json:"in,omitempty"`
	Out     string   `json:"out,omitempty"`
	Hours   float64  `json:"hours"`
	Punches int      `json:"punches"`
	Flags   []string `json:"flags"`
}

// ShiftWindowDTO mirrors a stored shift window.
type ShiftWindowDTO struct {
	ID           int64  `json:"id,omitempty"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	GraceMinutes int    `json:"grace_minutes"`
	BreakMinutes int    `json:"break_minutes"`
}

// ScheduleRuleDTO mirrors a stored rule with its windows.
type ScheduleRuleDTO struct {
	ID       int64            `json:"id,omitempty"`
	Weekdays string           `json:"weekdays"`
	Priority int              `json:"priority"`
	Shifts   []ShiftWindowDTO `json:"shifts"`
}

// ScheduleTemplateDTO mirrors a stored template.
type ScheduleTemplateDTO struct {
	ID    int64             `json:"id"`
	Name  string            `json:"name"`
	Rules []ScheduleRuleDTO `json:"rules"`
}

// CreateTemplateRequest creates a template.
type CreateTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AddRuleRequest adds a rule with its shift windows to a template.
type AddRuleRequest struct {
	Weekdays string           `json:"weekdays"`
	Priority int              `json:"priority"`
	Shifts   []ShiftWindowDTO `json:"shifts"`
}

// AssignTemplateRequest binds an employee to a template (0 clears).
type AssignTemplateRequest struct {
	EmployeeID string `json:"employee_id"`
	TemplateID int64  `json:"template_id"`
}

// SchedulePreviewDayDTO is one day of the schedule preview.
type SchedulePreviewDayDTO struct {
	Date   string   `json:"date"`
	Labels []string `json:"labels"` // empty = day off
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func flagsToStrings(flags []engine.Flag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = string(f)
	}
	return out
}

func toDayCellDTO(cell engine.DayCell) DayCellDTO {
	hours, _ := cell.HoursDec.Float64()
	ot, _ := cell.OvertimeDec.Float64()
	return DayCellDTO{
		In:          cell.In,
		Out:         cell.Out,
		Hours:       cell.Hours,
		Overtime:    cell.Overtime,
		HoursDec:    hours,
		OvertimeDec: ot,
		Flags:       flagsToStrings(cell.Flags),
	}
}

func toPayrollRecordDTO(rec engine.PayrollRecord) PayrollRecordDTO {
	days := make(map[string]DayCellDTO, len(rec.Days))
	for day, cell := range rec.Days {
		days[day] = toDayCellDTO(cell)
	}
	regular, _ := rec.TotalRegular.Float64()
	overtime, _ := rec.TotalOvertime.Float64()
	all, _ := rec.TotalAll.Float64()
	return PayrollRecordDTO{
		EmployeeID:    string(rec.EmployeeID),
		Name:          rec.Name,
		IsActive:      rec.IsActive,
		Days:          days,
		TotalRegular:  regular,
		TotalOvertime: overtime,
		TotalAll:      all,
	}
}

func toAnomalyDTO(a report.Anomaly) AnomalyDTO {
	hours, _ := a.Hours.Float64()
	return AnomalyDTO{
		EmployeeID: string(a.EmployeeID),
		Name:       a.Name,
		Day:        a.Day,
		In:         a.In,
		Out:        a.Out,
		Hours:      hours,
		Punches:    a.Punches,
		Flags:      flagsToStrings(a.Flags),
	}
}

func toTemplateDTO(tpl *engine.ScheduleTemplate) ScheduleTemplateDTO {
	dto := ScheduleTemplateDTO{ID: tpl.ID, Name: tpl.Name}
	for _, rule := range tpl.Rules {
		ruleDTO := ScheduleRuleDTO{
			ID:       rule.ID,
			Weekdays: rule.Weekdays.String(),
			Priority: rule.Priority,
		}
		for _, sh := range rule.Shifts {
			ruleDTO.Shifts = append(ruleDTO.Shifts, ShiftWindowDTO{
				ID:           sh.ID,
				StartTime:    sh.StartTime,
				EndTime:      sh.EndTime,
				GraceMinutes: sh.GraceMinutes,
				BreakMinutes: sh.BreakMinutes,
			})
		}
		dto.Rules = append(dto.Rules, ruleDTO)
	}
	return dto
}
