package store

// SalesRow is one row of the OLAP SALES report grouped by department and order type.
// Values are left untyped because the reporting backend sends numbers, numeric
// strings or null depending on the aggregate.
type SalesRow struct {
	Department string `json:"Department"`
	OrderType  any    `json:"OrderType"`
	NetSales   any    `json:"DishDiscountSumInt"`
	AvgSales   any    `json:"DishDiscountSumInt.average"`
	Orders     any    `json:"UniqOrderId.OrdersCount"`
	Guests     any    `json:"GuestNum"`
}

type SalesReport struct {
	Data []SalesRow `json:"data"`
}
