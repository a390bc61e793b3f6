// Package analytics derives the dashboard snapshot from the order log.
//
// Recompute is a pure function of its inputs: there is no incremental path,
// the whole snapshot is rebuilt from the orders every time.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"restaurant/models"
	"restaurant/utils"
)

const (
	// PopularItemsLimit caps the popular items list.
	PopularItemsLimit = 15
	// CustomerOrders collects revenue of orders nobody on staff took.
	CustomerOrders = "Customer Orders"

	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

type Daypart string

const (
	Morning Daypart = "morning"
	Noon    Daypart = "noon"
	Night   Daypart = "night"
)

// DaypartOf buckets an hour of day: morning [6,12), noon [12,18), night
// [18,24). Hours before 6 belong to no daypart and only count in fullDay.
func DaypartOf(hour int) (Daypart, bool) {
	switch {
	case hour >= 6 && hour < 12:
		return Morning, true
	case hour >= 12 && hour < 18:
		return Noon, true
	case hour >= 18 && hour < 24:
		return Night, true
	}
	return "", false
}

// AverageOrderValue is revenue per order rounded to a whole currency unit, 0 without orders.
func AverageOrderValue(revenue float64, orders int) float64 {
	if orders == 0 {
		return 0
	}
	return math.Round(revenue / float64(orders))
}

func itemKey(it models.OrderItem) string {
	if it.ID != "" {
		return it.ID
	}
	return strings.ToLower(strings.TrimSpace(it.Name))
}

type bucketSet struct {
	index   map[string]int
	buckets []models.PeriodBucket
}

func newBucketSet() *bucketSet {
	return &bucketSet{index: map[string]int{}, buckets: []models.PeriodBucket{}}
}

func (b *bucketSet) add(period string, revenue float64) {
	i, ok := b.index[period]
	if !ok {
		i = len(b.buckets)
		b.index[period] = i
		b.buckets = append(b.buckets, models.PeriodBucket{Period: period})
	}
	b.buckets[i].Orders++
	b.buckets[i].Revenue += revenue
}

func (b *bucketSet) sorted() []models.PeriodBucket {
	out := b.buckets
	for i := range out {
		out[i].Revenue = utils.Round2(out[i].Revenue)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func addDaypart(d *models.DaypartStats, revenue float64) {
	d.Orders++
	d.Revenue += revenue
}

func roundDaypart(d *models.DaypartStats) {
	d.Revenue = utils.Round2(d.Revenue)
}

// Recompute builds the snapshot for orders. at becomes LastUpdated and loc is
// the time zone used for month, day and daypart partitions.
func Recompute(orders []models.Order, at time.Time, loc *time.Location) models.AnalyticsSnapshot {
	if loc == nil {
		loc = time.Local
	}

	full := models.FullRecord{
		StatusCounts:    map[string]int{},
		OrderTypeCounts: map[string]int{},
	}
	months := newBucketSet()
	days := newBucketSet()
	byStaff := map[string]float64{}
	var daily models.DailyAnalytics

	itemIndex := map[string]int{}
	items := []models.ItemStat{}

	var revenue float64
	for _, o := range orders {
		revenue += o.Total
		full.TotalOrders++
		full.StatusCounts[string(o.Status)]++
		if o.OrderType != "" {
			full.OrderTypeCounts[string(o.OrderType)]++
		}

		ts := o.Timestamp.In(loc)
		if full.FirstOrderAt.IsZero() || o.Timestamp.Before(full.FirstOrderAt) {
			full.FirstOrderAt = o.Timestamp
		}
		if o.Timestamp.After(full.LastOrderAt) {
			full.LastOrderAt = o.Timestamp
		}

		months.add(ts.Format(monthLayout), o.Total)
		days.add(ts.Format(dayLayout), o.Total)

		addDaypart(&daily.FullDay, o.Total)
		if part, ok := DaypartOf(ts.Hour()); ok {
			switch part {
			case Morning:
				addDaypart(&daily.Morning, o.Total)
			case Noon:
				addDaypart(&daily.Noon, o.Total)
			case Night:
				addDaypart(&daily.Night, o.Total)
			}
		}

		staff := strings.TrimSpace(o.StaffMember)
		if staff == "" {
			staff = CustomerOrders
		}
		byStaff[staff] += o.Total

		seen := map[string]bool{}
		for _, it := range o.Items {
			key := itemKey(it)
			i, ok := itemIndex[key]
			if !ok {
				i = len(items)
				itemIndex[key] = i
				items = append(items, models.ItemStat{ID: it.ID, Name: it.Name})
			}
			items[i].Quantity += it.Quantity
			items[i].Revenue += it.Price * it.Quantity
			full.ItemsSold += it.Quantity
			if !seen[key] {
				seen[key] = true
				items[i].OrderCount++
			}
		}
	}

	revenue = utils.Round2(revenue)
	full.TotalRevenue = revenue
	full.AverageOrderValue = AverageOrderValue(revenue, full.TotalOrders)

	for k, v := range byStaff {
		byStaff[k] = utils.Round2(v)
	}
	roundDaypart(&daily.Morning)
	roundDaypart(&daily.Noon)
	roundDaypart(&daily.Night)
	roundDaypart(&daily.FullDay)

	for i := range items {
		items[i].Revenue = utils.Round2(items[i].Revenue)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Quantity > items[j].Quantity })
	if len(items) > PopularItemsLimit {
		items = items[:PopularItemsLimit]
	}

	return models.AnalyticsSnapshot{
		ID:             models.SnapshotID,
		LastUpdated:    at,
		FullRecord:     full,
		OrdersOverTime: months.sorted(),
		RevenueAnalytics: models.RevenueAnalytics{
			TotalRevenue:      revenue,
			AverageOrderValue: full.AverageOrderValue,
			DailyRevenue:      days.sorted(),
			RevenueByStaff:    byStaff,
		},
		DailyAnalytics: daily,
		PopularItems:   items,
	}
}
