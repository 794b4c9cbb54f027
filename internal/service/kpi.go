package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/contentclicks/dashboard/internal/domain"
)

// Canonical ordering for card layout. Unknown mediums or stages sort after
// the known ones, alphabetically.
var (
	mediumOrder = []string{"social_media", "website", "email"}
	stageOrder  = []string{"awareness", "engagement", "conversion", "response", "retention", "advocacy", "quality"}
)

// Mediums returns the canonical data channels in display order.
func Mediums() []string {
	out := make([]string, len(mediumOrder))
	copy(out, mediumOrder)
	return out
}

// Classify compares a KPI value against its benchmark: above when the value
// beats the benchmark by more than 10%, below when it trails by more than
// 10%, met otherwise. A zero benchmark always classifies as met, so the
// delta math never divides by zero.
func Classify(value, benchmark float64) domain.Performance {
	if benchmark == 0 {
		return domain.PerformanceMet
	}
	if value > benchmark*1.1 {
		return domain.PerformanceAbove
	}
	if value < benchmark*0.9 {
		return domain.PerformanceBelow
	}
	return domain.PerformanceMet
}

// DeltaLabel renders the rounded percent distance from the benchmark, e.g.
// "11% Above Benchmark". Met (including the zero-benchmark case) has no label.
func DeltaLabel(value, benchmark float64) string {
	switch Classify(value, benchmark) {
	case domain.PerformanceAbove:
		pct := int(math.Round((value/benchmark - 1) * 100))
		return fmt.Sprintf("%d%% Above Benchmark", pct)
	case domain.PerformanceBelow:
		pct := int(math.Round((1 - value/benchmark) * 100))
		return fmt.Sprintf("%d%% Below Benchmark", pct)
	default:
		return ""
	}
}

// FormatValue renders a KPI value for display. Rate-like KPIs (name contains
// rate, percentage, or score) show one decimal with a percent sign; other
// values scale by magnitude: millions as "x.xM", thousands as "x.xK", the
// rest as grouped integers.
func FormatValue(kpiName string, value float64) string {
	name := strings.ToLower(kpiName)
	if strings.Contains(name, "rate") || strings.Contains(name, "percentage") || strings.Contains(name, "score") {
		return fmt.Sprintf("%.1f%%", value)
	}
	switch {
	case value >= 1e6:
		return fmt.Sprintf("%.1fM", value/1e6)
	case value >= 1e3:
		return fmt.Sprintf("%.1fK", value/1e3)
	default:
		return groupInt(int64(math.Round(value)))
	}
}

// groupInt formats an integer with comma thousands separators.
func groupInt(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// BuildCards derives the KPI card view models from a metrics snapshot, in
// stable layout order.
func BuildCards(snapshot domain.MetricsSnapshot) []domain.KPICard {
	cards := make([]domain.KPICard, 0, len(snapshot)*4)
	for _, medium := range orderedKeys(mediumKeys(snapshot), mediumOrder) {
		stages := snapshot[medium]
		for _, stage := range orderedKeys(stageKeys(stages), stageOrder) {
			kpi := stages[stage]
			cards = append(cards, domain.KPICard{
				Medium:         medium,
				JourneyStage:   stage,
				KPIName:        kpi.Name,
				Value:          kpi.Value,
				FormattedValue: FormatValue(kpi.Name, kpi.Value),
				BenchmarkValue: kpi.BenchmarkValue,
				Performance:    Classify(kpi.Value, kpi.BenchmarkValue),
				DeltaLabel:     DeltaLabel(kpi.Value, kpi.BenchmarkValue),
				TimePeriodDays: kpi.TimePeriodDays,
			})
		}
	}
	return cards
}

func mediumKeys(snapshot domain.MetricsSnapshot) []string {
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	return keys
}

func stageKeys(stages map[string]domain.KPI) []string {
	keys := make([]string, 0, len(stages))
	for k := range stages {
		keys = append(keys, k)
	}
	return keys
}

// orderedKeys sorts keys by their position in a canonical order, with
// unknown keys after the known ones, alphabetically.
func orderedKeys(keys, canonical []string) []string {
	rank := make(map[string]int, len(canonical))
	for i, k := range canonical {
		rank[k] = i
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
