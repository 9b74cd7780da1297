package adapters

import (
	"errors"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapLocationReportDomainToApi(t *testing.T) {
	r := domain.LocationReport{
		Location: "A",
		Date:     time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Categories: map[domain.Category]domain.CombinedMetrics{
			domain.CategoryHall:     {PlanSales: 2000, FactSales: 9000, Guests: &domain.GuestMetrics{Plan: 30, Fact: 50}},
			domain.CategoryDelivery: {PlanSales: 1000, FactSales: 1950},
		},
		Overall: domain.OverallSummary{PlanTotalSales: 3500, FactSales: 10950},
	}

	res := MapLocationReportDomainToApi(r)

	assert.Equal(t, "A", res.Location)
	assert.Equal(t, "2024-05-10", res.Date)
	require.Len(t, res.Categories, 3)
	assert.Equal(t, api.CategoryMetrics{Category: "delivery", PlanSales: 1000, FactSales: 1950}, res.Categories[0])
	assert.Equal(t, &api.Guests{Plan: 30, Fact: 50}, res.Categories[1].Guests)
	assert.Equal(t, api.CategoryMetrics{Category: "aggregator"}, res.Categories[2])
	assert.Equal(t, 3500.0, res.Overall.PlanTotalSales)
	assert.Equal(t, 10950.0, res.Overall.FactSales)
}

func TestMapRollupResultDomainToApi(t *testing.T) {
	r := domain.RollupResult{
		Report: domain.NetworkReport{
			Networks:  []string{"Alpha"},
			Locations: []string{"A"},
			Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Categories: map[domain.Category]domain.CategoryTotals{
				domain.CategoryHall: {FactSales: 9000, Guests: &domain.GuestMetrics{Fact: 50}},
			},
			Overall: domain.OverallTotals{FactSales: 9000, FactGuests: 50},
		},
		Status:       domain.RollupStatusPartial,
		Failures:     []domain.LocationFailure{{Location: "B", Err: errors.New("timeout")}},
		Unconfigured: []string{"C"},
	}

	res := MapRollupResultDomainToApi(r)

	assert.Equal(t, "partial", res.Status)
	assert.Equal(t, "2024-05-10", res.Date)
	assert.Equal(t, []string{"Alpha"}, res.Networks)
	assert.Equal(t, []string{"A"}, res.Locations)
	require.Len(t, res.Categories, 3)
	assert.Equal(t, "hall", res.Categories[1].Category)
	assert.Equal(t, &api.Guests{Fact: 50}, res.Categories[1].Guests)
	assert.Nil(t, res.Categories[0].Guests)
	assert.Equal(t, []api.LocationFailure{{Location: "B", Error: "timeout"}}, res.Failures)
	assert.Equal(t, []string{"C"}, res.Unconfigured)
	assert.Equal(t, 50.0, res.Overall.FactGuests)
}
