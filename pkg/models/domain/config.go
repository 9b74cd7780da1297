package domain

// Network is a named group of locations reported together.
type Network struct {
	Name      string
	Locations []string
}

// PlanLayout describes where the plan figures live in a plan sheet.
// Columns are 1-based, matching spreadsheet numbering.
type PlanLayout struct {
	HeaderRows int
	DateFormat string

	DateCol          int
	TotalSalesCol    int
	HallSalesCol     int
	DeliverySalesCol int
	AggSalesCol      int
	HallAvgCheckCol  int
	HallGuestsCol    int
	HallOrdersCol    int
	DeliveryAvgCol   int
	AggAvgCol        int
	DeliveryOrderCol int
	AggOrdersCol     int
}

func DefaultPlanLayout() PlanLayout {
	return PlanLayout{
		HeaderRows:       1,
		DateFormat:       "2.1.2006",
		DateCol:          2,
		TotalSalesCol:    3,
		HallSalesCol:     4,
		DeliverySalesCol: 5,
		AggSalesCol:      6,
		HallAvgCheckCol:  7,
		HallGuestsCol:    9,
		HallOrdersCol:    10,
		DeliveryAvgCol:   11,
		AggAvgCol:        12,
		DeliveryOrderCol: 13,
		AggOrdersCol:     14,
	}
}

// EngineConfig is the immutable configuration injected into report entry points.
type EngineConfig struct {
	AggregatorKeywords []string
	Networks           []Network
	PlanLayout         PlanLayout
}

func DefaultAggregatorKeywords() []string {
	return []string{"bolt", "glovo", "delivery hub", "пюрешка & котлетка"}
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		AggregatorKeywords: DefaultAggregatorKeywords(),
		PlanLayout:         DefaultPlanLayout(),
	}
}

// Network returns the network with the given name.
func (c EngineConfig) Network(name string) (Network, bool) {
	for _, n := range c.Networks {
		if n.Name == name {
			return n, true
		}
	}
	return Network{}, false
}

func (c EngineConfig) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for _, n := range c.Networks {
		names = append(names, n.Name)
	}
	return names
}
