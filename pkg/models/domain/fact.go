package domain

import "github.com/shopspring/decimal"

// RawFactRow is one actual-transaction aggregate as delivered by the reporting backend.
// An empty ChannelLabel means the channel was absent.
type RawFactRow struct {
	ChannelLabel string
	NetSales     decimal.Decimal
	Orders       decimal.Decimal
	Guests       decimal.Decimal
}

// FactBucket holds the summed facts of one category for one location and day.
// Guests is only set for categories that track guests.
type FactBucket struct {
	Sales  decimal.Decimal
	Orders decimal.Decimal
	Guests *decimal.Decimal
}
