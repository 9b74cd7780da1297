package api

type Guests struct {
	Plan float64 `json:"plan"`
	Fact float64 `json:"fact"`
}

type CategoryMetrics struct {
	Category     string  `json:"category"`
	PlanSales    float64 `json:"plan_sales"`
	PlanOrders   float64 `json:"plan_orders"`
	PlanAvgCheck float64 `json:"plan_avg_check"`
	FactSales    float64 `json:"fact_sales"`
	FactOrders   float64 `json:"fact_orders"`
	FactAvgCheck float64 `json:"fact_avg_check"`
	Guests       *Guests `json:"guests,omitempty"`
}

type Overall struct {
	PlanTotalSales float64 `json:"plan_total_sales"`
	PlanOrders     float64 `json:"plan_orders"`
	PlanAvgCheck   float64 `json:"plan_avg_check"`
	FactSales      float64 `json:"fact_sales"`
	FactOrders     float64 `json:"fact_orders"`
	FactAvgCheck   float64 `json:"fact_avg_check"`
	PlanGuests     float64 `json:"plan_guests"`
	FactGuests     float64 `json:"fact_guests"`
}

type LocationReport struct {
	Location   string            `json:"location"`
	Date       string            `json:"date"`
	Categories []CategoryMetrics `json:"categories"`
	Overall    Overall           `json:"overall"`
}

type LocationFailure struct {
	Location string `json:"location"`
	Error    string `json:"error"`
}

type NetworkReport struct {
	Date         string            `json:"date"`
	Status       string            `json:"status"`
	Networks     []string          `json:"networks"`
	Locations    []string          `json:"locations"`
	Categories   []CategoryMetrics `json:"categories"`
	Overall      Overall           `json:"overall"`
	Failures     []LocationFailure `json:"failures,omitempty"`
	Unconfigured []string          `json:"unconfigured,omitempty"`
}

type Location struct {
	Name string `json:"name"`
}

type Error struct {
	Error string `json:"error"`
}

type Network struct {
	Name      string   `json:"name"`
	Locations []string `json:"locations"`
}
