// Package timeslot computes the selectable time labels of timeslot fields:
// a start/end/interval rule expanded into "HH:MM" labels, minus the labels
// an author excluded.
package timeslot

import (
	"slices"

	"github.com/lychee-technology/formbuilder"
)

var intervalChoices = []int{15, 30, 45, 60}

// IntervalChoices lists the intervals, in minutes, offered by the editor.
func IntervalChoices() []int {
	return slices.Clone(intervalChoices)
}

// ChecklistItem is one generated label in the author-facing exclusion list.
type ChecklistItem struct {
	Label    string `json:"label"`
	Excluded bool   `json:"excluded"`
}

// Generate returns the labels from start, advancing by interval minutes, that
// do not exceed end. The result is empty when start is after end.
func Generate(start, end formbuilder.Clock, interval int) ([]string, error) {
	if interval <= 0 {
		return nil, formbuilder.NewInvalidIntervalError(interval)
	}
	if !start.Valid() {
		return nil, formbuilder.NewInvalidTimeError("startTime", start.String())
	}
	if !end.Valid() {
		return nil, formbuilder.NewInvalidTimeError("endTime", end.String())
	}
	if start > end {
		return []string{}, nil
	}

	slots := make([]string, 0, int(end-start)/interval+1)
	for t := start; t <= end; t += formbuilder.Clock(interval) {
		slots = append(slots, t.String())
	}
	return slots, nil
}

// GenerateFromText is Generate for "HH:MM" inputs.
func GenerateFromText(start, end string, interval int) ([]string, error) {
	startClock, err := formbuilder.ParseClock(start)
	if err != nil {
		return nil, formbuilder.NewInvalidTimeError("startTime", start)
	}
	endClock, err := formbuilder.ParseClock(end)
	if err != nil {
		return nil, formbuilder.NewInvalidTimeError("endTime", end)
	}
	return Generate(startClock, endClock, interval)
}

// FilterExcluded drops the labels present in excluded and keeps the order of
// slots. Excluded labels that never occur in slots have no effect.
func FilterExcluded(slots, excluded []string) []string {
	return without(slots, lookup(excluded))
}

// Selectable returns the options offered to an end user in preview mode.
func Selectable(cfg formbuilder.TimeslotConfig) ([]string, error) {
	slots, err := Generate(cfg.StartTime, cfg.EndTime, cfg.Interval)
	if err != nil {
		return nil, err
	}
	return FilterExcluded(slots, cfg.ExcludedTimes), nil
}

// Checklist returns every generated label with its exclusion state, which is
// what the edit view shows.
func Checklist(cfg formbuilder.TimeslotConfig) ([]ChecklistItem, error) {
	slots, err := Generate(cfg.StartTime, cfg.EndTime, cfg.Interval)
	if err != nil {
		return nil, err
	}
	excluded := lookup(cfg.ExcludedTimes)
	items := make([]ChecklistItem, len(slots))
	for i, slot := range slots {
		_, items[i].Excluded = excluded[slot]
		items[i].Label = slot
	}
	return items, nil
}

// Stale returns the excluded labels the current rule no longer generates,
// for example after the interval changed. They are harmless but invisible
// in the checklist.
func Stale(cfg formbuilder.TimeslotConfig) ([]string, error) {
	slots, err := Generate(cfg.StartTime, cfg.EndTime, cfg.Interval)
	if err != nil {
		return nil, err
	}
	seen := lookup(slots)
	stale := make([]string, 0)
	for _, label := range cfg.ExcludedTimes {
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			stale = append(stale, label)
		}
	}
	return stale, nil
}

func lookup(labels []string) map[string]struct{} {
	m := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		m[l] = struct{}{}
	}
	return m
}

func without(labels []string, drop map[string]struct{}) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := drop[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}
