package domain

import (
	"fmt"
	"strings"
)

// Category is the sales channel a transaction is classified into.
type Category int

const (
	CategoryHall Category = iota
	CategoryDelivery
	CategoryAggregator
)

// Categories lists every category in display order.
var Categories = []Category{CategoryDelivery, CategoryHall, CategoryAggregator}

func (c Category) String() string {
	switch c {
	case CategoryHall:
		return "hall"
	case CategoryDelivery:
		return "delivery"
	case CategoryAggregator:
		return "aggregator"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Title returns the human-readable category name used in rendered reports.
func (c Category) Title() string {
	switch c {
	case CategoryHall:
		return "Зал"
	case CategoryDelivery:
		return "Доставка"
	case CategoryAggregator:
		return "Агрегаторы"
	default:
		return c.String()
	}
}

// HasGuests reports whether guest figures are tracked for the category.
func (c Category) HasGuests() bool {
	return c == CategoryHall
}

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hall":
		return CategoryHall, nil
	case "delivery":
		return CategoryDelivery, nil
	case "aggregator":
		return CategoryAggregator, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
