package engine

import (
	"sort"
	"time"
)

// =============================================================================
// EVENT NORMALIZER / DEDUPLICATOR
// =============================================================================

// Normalize cleans a raw per-employee, per-day punch list: sorts ascending
// by timestamp and collapses bounce punches within the default duplicate
// window. Idempotent: Normalize(Normalize(evs)) == Normalize(evs).
func Normalize(events []Event) []Event {
	return Dedupe(events, DefaultDuplicateWindowSeconds*time.Second)
}

// Dedupe is the configurable-window form of Normalize.
//
// Deduplication is a greedy forward scan keeping the first event of each
// cluster: an event is dropped when it falls within window of the
// immediately preceding KEPT event. The comparison is against the kept
// event, not the dropped one, so a slow drift of punches does not collapse
// an entire day into one. This matches how badge readers bounce.
func Dedupe(events []Event, window time.Duration) []Event {
	if len(events) == 0 {
		return []Event{}
	}

	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})

	cleaned := make([]Event, 0, len(sorted))
	var last WallClock
	for _, e := range sorted {
		if len(cleaned) > 0 && e.At.Sub(last) <= window {
			continue
		}
		cleaned = append(cleaned, e)
		last = e.At
	}
	return cleaned
}

// GroupEvents buckets events by employee and ISO date. This is the
// ingestion-side grouping the aggregator consumes; callers fetch one
// bounded range and group it once per report (no process-wide caches).
func GroupEvents(events []Event) map[EmployeeID]map[string][]Event {
	grouped := make(map[EmployeeID]map[string][]Event)
	for _, e := range events {
		if e.EmployeeID == "" {
			continue
		}
		days, ok := grouped[e.EmployeeID]
		if !ok {
			days = make(map[string][]Event)
			grouped[e.EmployeeID] = days
		}
		day := e.At.ISODate()
		days[day] = append(days[day], e)
	}
	return grouped
}
