package domain

// DailyMetric is one bucket of a calendar-day series. Date is formatted
// as 2006-01-02 in the server's time zone.
type DailyMetric struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// StatusCount is one slice of the status distribution, tagged with the
// fixed display color the dashboard charts with.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

var statusColors = map[OrderStatus]string{
	OrderStatusPending:    "#FFA500",
	OrderStatusProcessing: "#1E90FF",
	OrderStatusShipped:    "#32CD32",
	OrderStatusDelivered:  "#228B22",
	OrderStatusCancelled:  "#DC143C",
}

func (s OrderStatus) DisplayColor() string {
	return statusColors[s]
}

// DashboardStats is the admin dashboard snapshot. Everything here is
// derived from the order store on each request; nothing is cached.
type DashboardStats struct {
	Revenue            float64       `json:"revenue"`
	OrdersCount        int           `json:"orders_count"`
	ItemsSold          int           `json:"items_sold"`
	CancelledRate      float64       `json:"cancelled_rate"`
	DailyRevenue       []DailyMetric `json:"daily_revenue"`
	DailyOrders        []DailyMetric `json:"daily_orders"`
	StatusDistribution []StatusCount `json:"status_distribution"`
	RecentOrders       []Order       `json:"recent_orders"`
}
