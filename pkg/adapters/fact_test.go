package adapters

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDecimal(t *testing.T) {
	tests := map[string]struct {
		in       any
		expected string
	}{
		"nil":            {in: nil, expected: "0"},
		"json number":    {in: json.Number("1234.5"), expected: "1234.5"},
		"float":          {in: 12.25, expected: "12.25"},
		"int":            {in: 7, expected: "7"},
		"numeric string": {in: " 1\u00a0500.75 ", expected: "1500.75"},
		"blank string":   {in: "  ", expected: "0"},
		"garbage string": {in: "n/a", expected: "0"},
		"bool":           {in: true, expected: "0"},
		"decimal":        {in: decimal.NewFromInt(3), expected: "3"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToDecimal(tt.in).String())
		})
	}
}

func TestMapStoreSalesRowsToDomainFacts(t *testing.T) {
	// Given
	var report store.SalesReport
	payload := `{"data":[
		{"Department":"A","OrderType":null,"DishDiscountSumInt":9000,"UniqOrderId.OrdersCount":40,"GuestNum":"50"},
		{"Department":"A","OrderType":" Glovo ","DishDiscountSumInt":"2000.5","UniqOrderId.OrdersCount":7,"GuestNum":null},
		{"Department":"A","OrderType":"  ","DishDiscountSumInt":100,"UniqOrderId.OrdersCount":1,"GuestNum":0}
	]}`
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	assert.NoError(t, dec.Decode(&report))

	// When
	facts := MapStoreSalesRowsToDomainFacts(report.Data)

	// Then
	assert.Len(t, facts, 3)
	assert.Equal(t, "", facts[0].ChannelLabel)
	assert.True(t, facts[0].NetSales.Equal(decimal.NewFromInt(9000)))
	assert.True(t, facts[0].Guests.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, " Glovo ", facts[1].ChannelLabel)
	assert.True(t, facts[1].NetSales.Equal(decimal.RequireFromString("2000.5")))
	assert.True(t, facts[1].Orders.Equal(decimal.NewFromInt(7)))
	assert.True(t, facts[1].Guests.IsZero())
	assert.Equal(t, "  ", facts[2].ChannelLabel)
}

func TestMapStoreSalesRowsToDomainFacts_Empty(t *testing.T) {
	facts := MapStoreSalesRowsToDomainFacts(nil)
	assert.NotNil(t, facts)
	assert.Empty(t, facts)
}
