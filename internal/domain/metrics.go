package domain

import "time"

// KPI is a single benchmarked metric for one medium and journey stage.
type KPI struct {
	Name           string  `json:"kpi_name"`
	Value          float64 `json:"kpi_value"`
	BenchmarkValue float64 `json:"benchmark_value"`
	TimePeriodDays int     `json:"time_period_days"`
}

// MetricsSnapshot is the full latest-metrics projection for a customer,
// keyed medium -> journey stage. At most one KPI per medium and stage.
// A snapshot is always replaced wholesale on fetch, never merged.
type MetricsSnapshot map[string]map[string]KPI

// HistoryPoint is one sample in a KPI time series.
type HistoryPoint struct {
	RecordedAt     time.Time `json:"recorded_at"`
	KPIValue       float64   `json:"kpi_value"`
	BenchmarkValue float64   `json:"benchmark_value"`
}

// TopPerformer is a top-performing content item for a medium.
type TopPerformer struct {
	ItemID      string  `json:"item_id,omitempty"`
	ItemTitle   string  `json:"item_title"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
}
