package models

import "time"

// SnapshotID is the single document id the analytics collection holds.
const SnapshotID = "current"

type FullRecord struct {
	TotalOrders       int            `bson:"total_orders" json:"totalOrders"`
	TotalRevenue      float64        `bson:"total_revenue" json:"totalRevenue"`
	AverageOrderValue float64        `bson:"average_order_value" json:"averageOrderValue"`
	ItemsSold         float64        `bson:"items_sold" json:"itemsSold"`
	StatusCounts      map[string]int `bson:"status_counts" json:"statusCounts"`
	OrderTypeCounts   map[string]int `bson:"order_type_counts" json:"orderTypeCounts"`
	FirstOrderAt      time.Time      `bson:"first_order_at,omitempty" json:"firstOrderAt,omitempty"`
	LastOrderAt       time.Time      `bson:"last_order_at,omitempty" json:"lastOrderAt,omitempty"`
}

type PeriodBucket struct {
	Period  string  `bson:"period" json:"period"`
	Orders  int     `bson:"orders" json:"orders"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

type RevenueAnalytics struct {
	TotalRevenue      float64            `bson:"total_revenue" json:"totalRevenue"`
	AverageOrderValue float64            `bson:"average_order_value" json:"averageOrderValue"`
	DailyRevenue      []PeriodBucket     `bson:"daily_revenue" json:"dailyRevenue"`
	RevenueByStaff    map[string]float64 `bson:"revenue_by_staff" json:"revenueByStaff"`
}

type DaypartStats struct {
	Orders  int     `bson:"orders" json:"orders"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

type DailyAnalytics struct {
	Morning DaypartStats `bson:"morning" json:"morning"`
	Noon    DaypartStats `bson:"noon" json:"noon"`
	Night   DaypartStats `bson:"night" json:"night"`
	FullDay DaypartStats `bson:"full_day" json:"fullDay"`
}

type ItemStat struct {
	ID         string  `bson:"id" json:"id"`
	Name       string  `bson:"name" json:"name"`
	Quantity   float64 `bson:"quantity" json:"quantity"`
	Revenue    float64 `bson:"revenue" json:"revenue"`
	OrderCount int     `bson:"order_count" json:"orderCount"`
}

// AnalyticsSnapshot is derived wholesale from the order log.
type AnalyticsSnapshot struct {
	ID               string           `bson:"_id" json:"id"`
	LastUpdated      time.Time        `bson:"last_updated" json:"lastUpdated"`
	FullRecord       FullRecord       `bson:"full_record" json:"fullRecord"`
	OrdersOverTime   []PeriodBucket   `bson:"orders_over_time" json:"ordersOverTime"`
	RevenueAnalytics RevenueAnalytics `bson:"revenue_analytics" json:"revenueAnalytics"`
	DailyAnalytics   DailyAnalytics   `bson:"daily_analytics" json:"dailyAnalytics"`
	PopularItems     []ItemStat       `bson:"popular_items" json:"popularItems"`
}

func (a AnalyticsSnapshot) RecordID() string { return a.ID }
