package booking

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/money"
)

// Partition groups a booking's items by product type and computes each
// partition's aggregate cost from current membership. Partitions come back
// in a stable product-type order so re-runs touch groups deterministically.
type Partition struct {
	Key       GroupKey
	Items     []BookingItem
	TotalCost decimal.Decimal
}

// PartitionItems splits items into per-product-type partitions. The total
// cost of a partition is the sum of its members' normalized total cost
// price.
func PartitionItems(items []BookingItem) []Partition {
	byKey := make(map[GroupKey]*Partition)
	for _, item := range items {
		key := item.Key()
		part, ok := byKey[key]
		if !ok {
			part = &Partition{Key: key, TotalCost: decimal.Zero}
			byKey[key] = part
		}
		part.Items = append(part.Items, item)
		part.TotalCost = part.TotalCost.Add(money.Normalize(item.TotalCostPrice))
	}

	parts := make([]Partition, 0, len(byKey))
	for _, part := range byKey {
		parts = append(parts, *part)
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Key.BookingID != parts[j].Key.BookingID {
			return parts[i].Key.BookingID < parts[j].Key.BookingID
		}
		return parts[i].Key.ProductType < parts[j].Key.ProductType
	})
	return parts
}
