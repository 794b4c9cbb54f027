package domain

import "time"

// Performance classifies a KPI value against its benchmark.
type Performance string

const (
	PerformanceAbove Performance = "above"
	PerformanceMet   Performance = "met"
	PerformanceBelow Performance = "below"
)

// KPICard is the derived view model for one KPI. Cards are rebuilt from a
// MetricsSnapshot on every refresh and are never persisted individually.
type KPICard struct {
	Medium         string      `json:"medium"`
	JourneyStage   string      `json:"journey_stage"`
	KPIName        string      `json:"kpi_name"`
	Value          float64     `json:"kpi_value"`
	FormattedValue string      `json:"formatted_value"`
	BenchmarkValue float64     `json:"benchmark_value"`
	Performance    Performance `json:"performance"`
	DeltaLabel     string      `json:"delta_label,omitempty"`
	TimePeriodDays int         `json:"time_period_days"`
}

// BannerLevel is the severity of the progress banner shown on the dashboard.
type BannerLevel string

const (
	BannerInfo    BannerLevel = "info"
	BannerSuccess BannerLevel = "success"
	BannerWarning BannerLevel = "warning"
	BannerError   BannerLevel = "error"
)

// ProgressBanner is the dashboard's collection-progress line.
type ProgressBanner struct {
	Level   BannerLevel `json:"level"`
	Message string      `json:"message"`
}

// CustomerView is the rendered dashboard projection for one customer.
// The synchronizer replaces it wholesale; Seq orders replacements so a stale
// in-flight refresh can never overwrite a newer one.
type CustomerView struct {
	Customer      Customer                  `json:"customer"`
	Cards         []KPICard                 `json:"cards"`
	TopPerformers map[string][]TopPerformer `json:"top_performers"`
	Banner        ProgressBanner            `json:"banner"`
	SyncedAt      time.Time                 `json:"synced_at"`
	Seq           uint64                    `json:"seq"`
}
