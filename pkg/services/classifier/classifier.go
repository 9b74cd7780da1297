package classifier

import (
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// Classifier maps free-text channel labels to sales categories.
type Classifier struct {
	keywords []string
}

// New builds a classifier matching the given aggregator keywords case-insensitively.
// Blank keywords are ignored.
func New(aggregatorKeywords []string) *Classifier {
	kw := make([]string, 0, len(aggregatorKeywords))
	for _, k := range aggregatorKeywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			kw = append(kw, k)
		}
	}
	return &Classifier{keywords: kw}
}

// Classify returns Hall for an empty label, Aggregator when the label contains one of
// the keywords and Delivery otherwise. A whitespace-only label is not empty.
func (c *Classifier) Classify(label string) domain.Category {
	if label == "" {
		return domain.CategoryHall
	}

	lower := strings.ToLower(label)
	for _, k := range c.keywords {
		if strings.Contains(lower, k) {
			return domain.CategoryAggregator
		}
	}
	return domain.CategoryDelivery
}
