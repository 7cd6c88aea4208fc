package booking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionItemsByProductType(t *testing.T) {
	items := []BookingItem{
		{ID: 1, BookingID: 10, ProductType: ProductHotel, TotalCostPrice: d("1000")},
		{ID: 2, BookingID: 10, ProductType: ProductHotel, TotalCostPrice: d("2500")},
		{ID: 3, BookingID: 10, ProductType: ProductEntranceTicket, TotalCostPrice: d("300")},
	}

	parts := PartitionItems(items)
	require.Len(t, parts, 2)

	require.Equal(t, ProductEntranceTicket, parts[0].Key.ProductType)
	require.Equal(t, "300", parts[0].TotalCost.String())
	require.Len(t, parts[0].Items, 1)

	require.Equal(t, ProductHotel, parts[1].Key.ProductType)
	require.Equal(t, "3500", parts[1].TotalCost.String())
	require.Len(t, parts[1].Items, 2)
}

func TestPartitionItemsStableAcrossRuns(t *testing.T) {
	items := []BookingItem{
		{ID: 1, BookingID: 4, ProductType: ProductPrivateVanTour, TotalCostPrice: d("100")},
		{ID: 2, BookingID: 4, ProductType: ProductHotel, TotalCostPrice: d("200")},
		{ID: 3, BookingID: 4, ProductType: ProductGroupTour, TotalCostPrice: d("300")},
	}
	first := PartitionItems(items)
	second := PartitionItems(items)
	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].Key, second[i].Key)
		require.True(t, first[i].TotalCost.Equal(second[i].TotalCost))
	}
}

func TestPartitionItemsEmpty(t *testing.T) {
	require.Empty(t, PartitionItems(nil))
}
