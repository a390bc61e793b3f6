package analytics

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant/models"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 15, 0, 0, ist)
}

func order(id string, total float64, status models.OrderStatus, ts time.Time, items ...models.OrderItem) models.Order {
	return models.Order{ID: id, Total: total, Status: status, OrderType: models.DineIn, Timestamp: ts, Items: items}
}

func TestDaypartOf(t *testing.T) {
	tests := []struct {
		hour int
		want Daypart
		ok   bool
	}{
		{0, "", false}, {5, "", false}, {6, Morning, true}, {11, Morning, true},
		{12, Noon, true}, {17, Noon, true}, {18, Night, true}, {23, Night, true},
	}
	for _, tt := range tests {
		got, ok := DaypartOf(tt.hour)
		assert.Equal(t, tt.want, got, "hour %d", tt.hour)
		assert.Equal(t, tt.ok, ok, "hour %d", tt.hour)
	}
}

func TestRecomputeScenario(t *testing.T) {
	orders := []models.Order{
		order("o1", 150, models.StatusPending, at(2, 9),
			models.OrderItem{ID: "dosa", Name: "Masala Dosa", Price: 75, Quantity: 2}),
		order("o2", 200, models.StatusDelivered, at(2, 14),
			models.OrderItem{ID: "thali", Name: "Thali", Price: 200, Quantity: 1}),
		order("o3", 150, models.StatusPending, at(3, 20),
			models.OrderItem{ID: "dosa", Name: "Masala Dosa", Price: 75, Quantity: 2}),
	}
	orders[1].StaffMember = "Ravi"

	snap := Recompute(orders, at(3, 21), ist)

	assert.Equal(t, 500.0, snap.RevenueAnalytics.TotalRevenue)
	assert.Equal(t, 500.0, snap.FullRecord.TotalRevenue)
	assert.Equal(t, 3, snap.FullRecord.TotalOrders)
	assert.Equal(t, 3, snap.DailyAnalytics.FullDay.Orders)
	assert.Equal(t, 2, snap.DailyAnalytics.Morning.Orders+snap.DailyAnalytics.Night.Orders)
	assert.Equal(t, 1, snap.DailyAnalytics.Noon.Orders)
	assert.Equal(t, 167.0, snap.FullRecord.AverageOrderValue)
	assert.Equal(t, map[string]int{"pending": 2, "delivered": 1}, snap.FullRecord.StatusCounts)

	assert.Equal(t, map[string]float64{"Ravi": 200, CustomerOrders: 300}, snap.RevenueAnalytics.RevenueByStaff)

	require.Len(t, snap.RevenueAnalytics.DailyRevenue, 2)
	assert.Equal(t, models.PeriodBucket{Period: "2026-03-02", Orders: 2, Revenue: 350}, snap.RevenueAnalytics.DailyRevenue[0])
	assert.Equal(t, models.PeriodBucket{Period: "2026-03-03", Orders: 1, Revenue: 150}, snap.RevenueAnalytics.DailyRevenue[1])
	assert.Equal(t, []models.PeriodBucket{{Period: "2026-03", Orders: 3, Revenue: 500}}, snap.OrdersOverTime)

	require.Len(t, snap.PopularItems, 2)
	assert.Equal(t, models.ItemStat{ID: "dosa", Name: "Masala Dosa", Quantity: 4, Revenue: 300, OrderCount: 2}, snap.PopularItems[0])
}

func TestRecomputeIsDeterministic(t *testing.T) {
	var orders []models.Order
	for i := 0; i < 40; i++ {
		orders = append(orders, order(fmt.Sprintf("o%d", i), float64(10+i), models.StatusDelivered, at(1+i%5, i%24),
			models.OrderItem{ID: fmt.Sprintf("i%d", i%7), Name: "x", Price: float64(10 + i), Quantity: 1}))
		orders[i].StaffMember = fmt.Sprintf("staff-%d", i%3)
	}
	stamp := at(10, 10)

	a, err := json.Marshal(Recompute(orders, stamp, ist))
	require.NoError(t, err)
	b, err := json.Marshal(Recompute(orders, stamp, ist))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRecomputeNoOrders(t *testing.T) {
	snap := Recompute(nil, at(1, 1), ist)
	assert.Equal(t, 0.0, snap.FullRecord.AverageOrderValue)
	assert.Equal(t, 0.0, snap.RevenueAnalytics.TotalRevenue)
	assert.Empty(t, snap.PopularItems)
	assert.NotNil(t, snap.PopularItems)
	assert.NotNil(t, snap.OrdersOverTime)
	assert.Equal(t, models.SnapshotID, snap.ID)
}

func TestPopularItemsCappedAndStable(t *testing.T) {
	var items []models.OrderItem
	for i := 0; i < 20; i++ {
		qty := 1.0
		if i == 19 {
			qty = 5
		}
		items = append(items, models.OrderItem{ID: fmt.Sprintf("item-%02d", i), Name: "x", Price: 1, Quantity: qty})
	}
	snap := Recompute([]models.Order{order("o1", 24, models.StatusReady, at(1, 13), items...)}, at(1, 14), ist)

	require.Len(t, snap.PopularItems, PopularItemsLimit)
	assert.Equal(t, "item-19", snap.PopularItems[0].ID)
	// ties keep encounter order
	for i := 1; i < PopularItemsLimit; i++ {
		assert.Equal(t, fmt.Sprintf("item-%02d", i-1), snap.PopularItems[i].ID)
	}
}

func TestItemsWithoutIDGroupByName(t *testing.T) {
	snap := Recompute([]models.Order{
		order("o1", 20, models.StatusReady, at(1, 8), models.OrderItem{Name: "Chai", Price: 10, Quantity: 2}),
		order("o2", 10, models.StatusReady, at(1, 9), models.OrderItem{Name: " chai", Price: 10, Quantity: 1}),
	}, at(1, 10), ist)
	require.Len(t, snap.PopularItems, 1)
	assert.Equal(t, 3.0, snap.PopularItems[0].Quantity)
	assert.Equal(t, 2, snap.PopularItems[0].OrderCount)
}

func TestAverageOrderValue(t *testing.T) {
	assert.Equal(t, 0.0, AverageOrderValue(0, 0))
	assert.Equal(t, 0.0, AverageOrderValue(120, 0))
	assert.Equal(t, 33.0, AverageOrderValue(100, 3))
	assert.Equal(t, 167.0, AverageOrderValue(500, 3))
}
