package fact

import (
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Classifier maps a channel label to a category.
type Classifier interface {
	Classify(label string) domain.Category
}

// Bucketize sums the rows classified into category. Guests are summed only for
// categories that track them.
func Bucketize(rows []domain.RawFactRow, category domain.Category, cls Classifier) domain.FactBucket {
	bucket := newBucket(category)
	for _, row := range rows {
		if cls.Classify(row.ChannelLabel) == category {
			add(&bucket, row)
		}
	}
	return bucket
}

// Partition classifies every row once and returns a bucket for each category,
// including categories without any rows.
func Partition(rows []domain.RawFactRow, cls Classifier) map[domain.Category]domain.FactBucket {
	buckets := make(map[domain.Category]domain.FactBucket, len(domain.Categories))
	for _, c := range domain.Categories {
		buckets[c] = newBucket(c)
	}

	for _, row := range rows {
		c := cls.Classify(row.ChannelLabel)
		b := buckets[c]
		add(&b, row)
		buckets[c] = b
	}
	return buckets
}

func newBucket(category domain.Category) domain.FactBucket {
	b := domain.FactBucket{Sales: decimal.Zero, Orders: decimal.Zero}
	if category.HasGuests() {
		g := decimal.Zero
		b.Guests = &g
	}
	return b
}

func add(b *domain.FactBucket, row domain.RawFactRow) {
	b.Sales = b.Sales.Add(row.NetSales)
	b.Orders = b.Orders.Add(row.Orders)
	if b.Guests != nil {
		g := b.Guests.Add(row.Guests)
		b.Guests = &g
	}
}
