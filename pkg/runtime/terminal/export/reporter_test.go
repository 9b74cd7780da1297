package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_HandleLocation(t *testing.T) {
	var buf bytes.Buffer
	report := &domain.LocationReport{
		Location: "A",
		Date:     time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Categories: map[domain.Category]domain.CombinedMetrics{
			domain.CategoryHall: {PlanSales: 2000, FactSales: 9000, Guests: &domain.GuestMetrics{Plan: 30, Fact: 50}},
		},
		Overall: domain.OverallSummary{PlanTotalSales: 3500},
	}

	require.NoError(t, NewReporter(&buf).HandleLocation(report))

	out := buf.String()
	assert.Contains(t, out, "A (2024-05-10)")
	assert.Contains(t, out, "| hall         |      2000.00 |      9000.00 |")
	assert.Contains(t, out, "| overall      |      3500.00 |")
	assert.Contains(t, out, "   Plan Sales |")
}

func TestReporter_HandleRollup(t *testing.T) {
	var buf bytes.Buffer
	result := &domain.RollupResult{
		Report: domain.NetworkReport{
			Networks:  []string{"Alpha"},
			Locations: []string{"A"},
			Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		},
		Status:       domain.RollupStatusPartial,
		Failures:     []domain.LocationFailure{{Location: "B", Err: errors.New("timeout")}},
		Unconfigured: []string{"C"},
	}

	require.NoError(t, NewReporter(&buf).HandleRollup(result))

	out := buf.String()
	assert.Contains(t, out, "Alpha (2024-05-10) [partial]")
	assert.Contains(t, out, "Locations: A")
	assert.Contains(t, out, "Failed: B: timeout")
	assert.Contains(t, out, "Unconfigured: C")
}
