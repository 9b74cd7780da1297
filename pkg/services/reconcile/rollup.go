package reconcile

import (
	"slices"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// Rollup sums location reports into a network report. Averages are derived from the
// sums once every report has been added.
func Rollup(networks []string, date time.Time, reports ...domain.LocationReport) domain.NetworkReport {
	acc := newAccumulator(date)
	acc.addNetworks(networks)
	for _, r := range reports {
		acc.addLocation(r)
	}
	return acc.finish()
}

// Combine merges already rolled up reports as if their locations had been rolled up
// together. The date of the first part is kept.
func Combine(parts ...domain.NetworkReport) domain.NetworkReport {
	var date time.Time
	if len(parts) > 0 {
		date = parts[0].Date
	}

	acc := newAccumulator(date)
	for _, p := range parts {
		acc.addNetwork(p)
	}
	return acc.finish()
}

type accumulator struct {
	report domain.NetworkReport
}

func newAccumulator(date time.Time) *accumulator {
	r := domain.NetworkReport{
		Date:       date,
		Categories: make(map[domain.Category]domain.CategoryTotals, len(domain.Categories)),
	}
	for _, c := range domain.Categories {
		t := domain.CategoryTotals{}
		if c.HasGuests() {
			t.Guests = &domain.GuestMetrics{}
		}
		r.Categories[c] = t
	}
	return &accumulator{report: r}
}

func (a *accumulator) addNetworks(names []string) {
	for _, n := range names {
		if !slices.Contains(a.report.Networks, n) {
			a.report.Networks = append(a.report.Networks, n)
		}
	}
}

func (a *accumulator) addLocation(r domain.LocationReport) {
	a.report.Locations = append(a.report.Locations, r.Location)

	for _, c := range domain.Categories {
		m := r.Category(c)
		a.addCategory(c, domain.CategoryTotals{
			PlanSales:  m.PlanSales,
			FactSales:  m.FactSales,
			PlanOrders: m.PlanOrders,
			FactOrders: m.FactOrders,
			Guests:     m.Guests,
		})
	}

	a.addOverall(domain.OverallTotals{
		PlanTotalSales: r.Overall.PlanTotalSales,
		PlanOrders:     r.Overall.PlanOrders,
		FactSales:      r.Overall.FactSales,
		FactOrders:     r.Overall.FactOrders,
		PlanGuests:     r.Overall.PlanGuests,
		FactGuests:     r.Overall.FactGuests,
	})
}

func (a *accumulator) addNetwork(r domain.NetworkReport) {
	a.addNetworks(r.Networks)
	a.report.Locations = append(a.report.Locations, r.Locations...)

	for _, c := range domain.Categories {
		a.addCategory(c, r.Category(c))
	}
	a.addOverall(r.Overall)
}

func (a *accumulator) addCategory(c domain.Category, d domain.CategoryTotals) {
	t := a.report.Categories[c]
	t.PlanSales += d.PlanSales
	t.FactSales += d.FactSales
	t.PlanOrders += d.PlanOrders
	t.FactOrders += d.FactOrders
	if t.Guests != nil && d.Guests != nil {
		t.Guests.Plan += d.Guests.Plan
		t.Guests.Fact += d.Guests.Fact
	}
	a.report.Categories[c] = t
}

func (a *accumulator) addOverall(d domain.OverallTotals) {
	o := &a.report.Overall
	o.PlanTotalSales += d.PlanTotalSales
	o.PlanOrders += d.PlanOrders
	o.FactSales += d.FactSales
	o.FactOrders += d.FactOrders
	o.PlanGuests += d.PlanGuests
	o.FactGuests += d.FactGuests
}

// finish derives every average. Overall averages come from the category sums,
// never from per-location averages.
func (a *accumulator) finish() domain.NetworkReport {
	var planSales, planOrders, factSales, factOrders float64
	for _, c := range domain.Categories {
		t := a.report.Categories[c]
		t.PlanAvgCheck = domain.AvgCheck(t.PlanSales, t.PlanOrders)
		t.FactAvgCheck = domain.AvgCheck(t.FactSales, t.FactOrders)
		a.report.Categories[c] = t

		planSales += t.PlanSales
		planOrders += t.PlanOrders
		factSales += t.FactSales
		factOrders += t.FactOrders
	}

	a.report.Overall.PlanAvgCheck = domain.AvgCheck(planSales, planOrders)
	a.report.Overall.FactAvgCheck = domain.AvgCheck(factSales, factOrders)
	return a.report
}
