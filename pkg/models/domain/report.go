package domain

import "time"

// AvgCheck divides sales by orders, yielding 0 when there are no orders.
func AvgCheck(sales, orders float64) float64 {
	if orders > 0 {
		return sales / orders
	}
	return 0
}

type GuestMetrics struct {
	Plan float64
	Fact float64
}

// CombinedMetrics is the reconciled plan and fact of one category for one location and day.
// PlanAvgCheck is taken from the plan as-is; FactAvgCheck is derived.
type CombinedMetrics struct {
	PlanSales    float64
	PlanOrders   float64
	PlanAvgCheck float64
	FactSales    float64
	FactOrders   float64
	FactAvgCheck float64
	Guests       *GuestMetrics // Hall only
}

// OverallSummary combines all categories of a location.
type OverallSummary struct {
	PlanTotalSales float64
	PlanOrders     float64
	PlanAvgCheck   float64
	FactSales      float64
	FactOrders     float64
	FactAvgCheck   float64
	PlanGuests     float64
	FactGuests     float64
}

// LocationReport is the plan/fact report of one location for one day.
type LocationReport struct {
	Location   string
	Date       time.Time
	Categories map[Category]CombinedMetrics
	Overall    OverallSummary
}

func (r LocationReport) Category(c Category) CombinedMetrics {
	return r.Categories[c]
}

// CategoryTotals accumulates one category across locations. Averages are derived
// from the sums only after accumulation is complete.
type CategoryTotals struct {
	PlanSales    float64
	FactSales    float64
	PlanOrders   float64
	FactOrders   float64
	PlanAvgCheck float64
	FactAvgCheck float64
	Guests       *GuestMetrics // Hall only
}

// OverallTotals accumulates the overall figures across locations.
type OverallTotals struct {
	PlanTotalSales float64
	PlanOrders     float64
	FactSales      float64
	FactOrders     float64
	PlanGuests     float64
	FactGuests     float64
	PlanAvgCheck   float64
	FactAvgCheck   float64
}

// NetworkReport is the rollup of many location reports for one day.
type NetworkReport struct {
	Networks   []string
	Locations  []string
	Date       time.Time
	Categories map[Category]CategoryTotals
	Overall    OverallTotals
}

func (r NetworkReport) Category(c Category) CategoryTotals {
	return r.Categories[c]
}

type RollupStatus string

const (
	RollupStatusSuccess RollupStatus = "success"
	RollupStatusPartial RollupStatus = "partial"
	RollupStatusFailed  RollupStatus = "failed"
)

type LocationFailure struct {
	Location string
	Err      error
}

// RollupResult is a network rollup over whichever locations succeeded.
type RollupResult struct {
	Report       NetworkReport
	Status       RollupStatus
	Failures     []LocationFailure
	Unconfigured []string
}
