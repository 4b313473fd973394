// Package store provides in-memory implementations of the engine's input
// contracts, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory events + schedule snapshot (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	events      map[engine.EmployeeID][]engine.Event
	employees   map[engine.EmployeeID]employee
	templates   map[int64]*engine.ScheduleTemplate
	assignments map[engine.EmployeeID]int64
	nextTplID   int64
}

type employee struct {
	Name     string
	IsActive bool
}

func NewMemory() *Memory {
	return &Memory{
		events:      make(map[engine.EmployeeID][]engine.Event),
		employees:   make(map[engine.EmployeeID]employee),
		templates:   make(map[int64]*engine.ScheduleTemplate),
		assignments: make(map[engine.EmployeeID]int64),
		nextTplID:   1,
	}
}

// AddEmployee registers an employee on the roster.
func (m *Memory) AddEmployee(id engine.EmployeeID, name string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[id] = employee{Name: name, IsActive: active}
}

// AddEvent records a punch.
func (m *Memory) AddEvent(e engine.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.EmployeeID] = append(m.events[e.EmployeeID], e)
}

// EventsInRange returns all events with from <= At <= to, ordered by
// employee then time. An inverted range is rejected the same way the
// sqlite store rejects it.
func (m *Memory) EventsInRange(_ context.Context, from, to engine.WallClock) ([]engine.Event, error) {
	if to.Before(from) {
		return nil, engine.ErrInvalidRange
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.Event
	for _, evs := range m.events {
		for _, e := range evs {
			if e.At.Before(from) || e.At.After(to) {
				continue
			}
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].At.Before(out[j].At)
	})
	return out, nil
}

// Roster returns all registered employees.
func (m *Memory) Roster(_ context.Context) ([]engine.RosterEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]engine.RosterEntry, 0, len(m.employees))
	for id, emp := range m.employees {
		out = append(out, engine.RosterEntry{
			EmployeeID: id,
			Name:       emp.Name,
			IsActive:   emp.IsActive,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

// SaveTemplate stores a schedule template, assigning an id when missing.
func (m *Memory) SaveTemplate(tpl *engine.ScheduleTemplate) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tpl.ID == 0 {
		tpl.ID = m.nextTplID
		m.nextTplID++
	}
	m.templates[tpl.ID] = tpl
	return tpl.ID
}

// Assign binds an employee to a template. A zero template id clears the
// assignment.
func (m *Memory) Assign(id engine.EmployeeID, templateID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if templateID == 0 {
		delete(m.assignments, id)
		return
	}
	m.assignments[id] = templateID
}

// TemplateFor returns the employee's assigned template, or nil when none
// is assigned.
func (m *Memory) TemplateFor(_ context.Context, id engine.EmployeeID) (*engine.ScheduleTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tplID, ok := m.assignments[id]
	if !ok {
		return nil, nil
	}
	return m.templates[tplID], nil
}
