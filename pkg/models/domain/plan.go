package domain

import "time"

const DateLayout = "2006-01-02"

// DateKey normalizes a day to the key used by plan tables and reports.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// PlanEntry is the planned figures for one (date, category) pair.
// Guests is only present for Hall.
type PlanEntry struct {
	Sales    float64
	Orders   float64
	AvgCheck float64
	Guests   *float64
}

type planKey struct {
	date     string
	category Category
}

// PlanTable is a normalized plan lookup keyed by date and category, plus the
// per-date planned total. Setting an existing key overwrites it.
type PlanTable struct {
	entries map[planKey]PlanEntry
	totals  map[string]float64
}

func NewPlanTable() *PlanTable {
	return &PlanTable{
		entries: make(map[planKey]PlanEntry),
		totals:  make(map[string]float64),
	}
}

func (t *PlanTable) SetEntry(date time.Time, category Category, entry PlanEntry) {
	t.entries[planKey{date: DateKey(date), category: category}] = entry
}

func (t *PlanTable) SetTotalSales(date time.Time, total float64) {
	t.totals[DateKey(date)] = total
}

// Entry returns the plan for the date and category, or a zero entry and false.
func (t *PlanTable) Entry(date time.Time, category Category) (PlanEntry, bool) {
	if t == nil {
		return PlanEntry{}, false
	}
	e, ok := t.entries[planKey{date: DateKey(date), category: category}]
	return e, ok
}

// TotalSales returns the planned total for the date, or 0 and false.
func (t *PlanTable) TotalSales(date time.Time) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.totals[DateKey(date)]
	return v, ok
}

// Dates returns the number of distinct dates with a planned total.
func (t *PlanTable) Dates() int {
	if t == nil {
		return 0
	}
	return len(t.totals)
}
