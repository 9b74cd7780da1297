package adapters

import (
	"encoding/json"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/shopspring/decimal"
)

func MapStoreSalesRowToDomainFact(row store.SalesRow) domain.RawFactRow {
	return domain.RawFactRow{
		ChannelLabel: toLabel(row.OrderType),
		NetSales:     ToDecimal(row.NetSales),
		Orders:       ToDecimal(row.Orders),
		Guests:       ToDecimal(row.Guests),
	}
}

func MapStoreSalesRowsToDomainFacts(rows []store.SalesRow) []domain.RawFactRow {
	facts := make([]domain.RawFactRow, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, MapStoreSalesRowToDomainFact(row))
	}
	return facts
}

// ToDecimal coerces a loosely typed numeric value to a decimal.
// Absent or non-numeric values become zero.
func ToDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case json.Number:
		return parseDecimal(n.String())
	case float64:
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case string:
		return parseDecimal(n)
	case decimal.Decimal:
		return n
	default:
		return decimal.Zero
	}
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toLabel(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
