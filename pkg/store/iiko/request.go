package iiko

import "time"

// SalesRequest is the body of an OLAP report request.
type SalesRequest struct {
	ReportType       string            `json:"reportType"`
	BuildSummary     bool              `json:"buildSummary"`
	GroupByRowFields []string          `json:"groupByRowFields"`
	AggregateFields  []string          `json:"aggregateFields"`
	Filters          map[string]Filter `json:"filters"`
}

// Filter is either a date range or a value list, depending on FilterType.
type Filter struct {
	FilterType  string   `json:"filterType"`
	PeriodType  string   `json:"periodType,omitempty"`
	From        string   `json:"from,omitempty"`
	To          string   `json:"to,omitempty"`
	IncludeLow  *bool    `json:"includeLow,omitempty"`
	IncludeHigh *bool    `json:"includeHigh,omitempty"`
	Values      []string `json:"values,omitempty"`
}

func includeValues(values ...string) Filter {
	return Filter{FilterType: "IncludeValues", Values: values}
}

// NewSalesRequest builds the SALES report of one department for the half-open range [from, to).
func NewSalesRequest(department string, from, to time.Time) SalesRequest {
	low, high := true, false
	return SalesRequest{
		ReportType:       "SALES",
		BuildSummary:     true,
		GroupByRowFields: []string{"Department", "OrderType"},
		AggregateFields: []string{
			"GuestNum",
			"UniqOrderId.OrdersCount",
			"DishDiscountSumInt",
			"DishDiscountSumInt.average",
		},
		Filters: map[string]Filter{
			"OpenDate.Typed": {
				FilterType:  "DateRange",
				PeriodType:  "CUSTOM",
				From:        startOfDay(from),
				To:          startOfDay(to),
				IncludeLow:  &low,
				IncludeHigh: &high,
			},
			"DeletedWithWriteoff": includeValues("NOT_DELETED"),
			"OrderDeleted":        includeValues("NOT_DELETED"),
			"Department":          includeValues(department),
		},
	}
}

func startOfDay(t time.Time) string {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(dateTimeLayout)
}
