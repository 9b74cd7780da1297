package adapters

import (
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

func MapLocationReportDomainToApi(r domain.LocationReport) api.LocationReport {
	res := api.LocationReport{
		Location:   r.Location,
		Date:       domain.DateKey(r.Date),
		Categories: make([]api.CategoryMetrics, 0, len(domain.Categories)),
		Overall: api.Overall{
			PlanTotalSales: r.Overall.PlanTotalSales,
			PlanOrders:     r.Overall.PlanOrders,
			PlanAvgCheck:   r.Overall.PlanAvgCheck,
			FactSales:      r.Overall.FactSales,
			FactOrders:     r.Overall.FactOrders,
			FactAvgCheck:   r.Overall.FactAvgCheck,
			PlanGuests:     r.Overall.PlanGuests,
			FactGuests:     r.Overall.FactGuests,
		},
	}

	for _, c := range domain.Categories {
		m := r.Category(c)
		res.Categories = append(res.Categories, api.CategoryMetrics{
			Category:     c.String(),
			PlanSales:    m.PlanSales,
			PlanOrders:   m.PlanOrders,
			PlanAvgCheck: m.PlanAvgCheck,
			FactSales:    m.FactSales,
			FactOrders:   m.FactOrders,
			FactAvgCheck: m.FactAvgCheck,
			Guests:       mapGuests(m.Guests),
		})
	}
	return res
}

func MapRollupResultDomainToApi(r domain.RollupResult) api.NetworkReport {
	rep := r.Report
	res := api.NetworkReport{
		Date:         domain.DateKey(rep.Date),
		Status:       string(r.Status),
		Networks:     append([]string{}, rep.Networks...),
		Locations:    append([]string{}, rep.Locations...),
		Categories:   make([]api.CategoryMetrics, 0, len(domain.Categories)),
		Unconfigured: r.Unconfigured,
		Overall: api.Overall{
			PlanTotalSales: rep.Overall.PlanTotalSales,
			PlanOrders:     rep.Overall.PlanOrders,
			PlanAvgCheck:   rep.Overall.PlanAvgCheck,
			FactSales:      rep.Overall.FactSales,
			FactOrders:     rep.Overall.FactOrders,
			FactAvgCheck:   rep.Overall.FactAvgCheck,
			PlanGuests:     rep.Overall.PlanGuests,
			FactGuests:     rep.Overall.FactGuests,
		},
	}

	for _, c := range domain.Categories {
		t := rep.Category(c)
		res.Categories = append(res.Categories, api.CategoryMetrics{
			Category:     c.String(),
			PlanSales:    t.PlanSales,
			PlanOrders:   t.PlanOrders,
			PlanAvgCheck: t.PlanAvgCheck,
			FactSales:    t.FactSales,
			FactOrders:   t.FactOrders,
			FactAvgCheck: t.FactAvgCheck,
			Guests:       mapGuests(t.Guests),
		})
	}

	for _, f := range r.Failures {
		res.Failures = append(res.Failures, api.LocationFailure{
			Location: f.Location,
			Error:    f.Err.Error(),
		})
	}
	return res
}

func mapGuests(g *domain.GuestMetrics) *api.Guests {
	if g == nil {
		return nil
	}
	return &api.Guests{Plan: g.Plan, Fact: g.Fact}
}
