package reconcile

import (
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/fact"
)

// Reconcile merges the plan for date with the facts of one location. Dates missing from
// the plan table yield zero plan figures.
func Reconcile(table *domain.PlanTable, rows []domain.RawFactRow, date time.Time, location string, cls fact.Classifier) domain.LocationReport {
	buckets := fact.Partition(rows, cls)

	report := domain.LocationReport{
		Location:   location,
		Date:       date,
		Categories: make(map[domain.Category]domain.CombinedMetrics, len(domain.Categories)),
	}

	var overall domain.OverallSummary
	for _, c := range domain.Categories {
		plan, _ := table.Entry(date, c)
		m := combine(c, plan, buckets[c])
		report.Categories[c] = m

		overall.PlanOrders += m.PlanOrders
		overall.FactOrders += m.FactOrders
		overall.FactSales += m.FactSales
		if m.Guests != nil {
			overall.PlanGuests = m.Guests.Plan
			overall.FactGuests = m.Guests.Fact
		}
	}

	overall.PlanTotalSales, _ = table.TotalSales(date)
	overall.PlanAvgCheck = domain.AvgCheck(overall.PlanTotalSales, overall.PlanOrders)
	overall.FactAvgCheck = domain.AvgCheck(overall.FactSales, overall.FactOrders)
	report.Overall = overall

	return report
}

func combine(c domain.Category, plan domain.PlanEntry, bucket domain.FactBucket) domain.CombinedMetrics {
	m := domain.CombinedMetrics{
		PlanSales:    plan.Sales,
		PlanOrders:   plan.Orders,
		PlanAvgCheck: plan.AvgCheck,
		FactSales:    bucket.Sales.InexactFloat64(),
		FactOrders:   bucket.Orders.InexactFloat64(),
	}
	m.FactAvgCheck = domain.AvgCheck(m.FactSales, m.FactOrders)

	if c.HasGuests() {
		g := &domain.GuestMetrics{}
		if plan.Guests != nil {
			g.Plan = *plan.Guests
		}
		if bucket.Guests != nil {
			g.Fact = bucket.Guests.InexactFloat64()
		}
		m.Guests = g
	}
	return m
}
