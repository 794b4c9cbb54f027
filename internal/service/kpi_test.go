package service

import (
	"testing"

	"github.com/contentclicks/dashboard/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		benchmark float64
		want      domain.Performance
	}{
		{"well above", 150, 100, domain.PerformanceAbove},
		{"just above threshold", 111, 100, domain.PerformanceAbove},
		{"exactly 10 percent over", 110, 100, domain.PerformanceMet},
		{"equal", 100, 100, domain.PerformanceMet},
		{"exactly 10 percent under", 90, 100, domain.PerformanceMet},
		{"just below threshold", 89, 100, domain.PerformanceBelow},
		{"well below", 50, 100, domain.PerformanceBelow},
		{"zero benchmark", 42, 0, domain.PerformanceMet},
		{"zero value zero benchmark", 0, 0, domain.PerformanceMet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value, tt.benchmark); got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, want %v", tt.value, tt.benchmark, got, tt.want)
			}
		})
	}
}

func TestDeltaLabel(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		benchmark float64
		want      string
	}{
		{"above", 111, 100, "11% Above Benchmark"},
		{"above rounded", 125.4, 100, "25% Above Benchmark"},
		{"below", 89, 100, "11% Below Benchmark"},
		{"half of benchmark", 50, 100, "50% Below Benchmark"},
		{"met has no label", 100, 100, ""},
		{"zero benchmark has no label", 42, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeltaLabel(tt.value, tt.benchmark); got != tt.want {
				t.Errorf("DeltaLabel(%v, %v) = %q, want %q", tt.value, tt.benchmark, got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name    string
		kpiName string
		value   float64
		want    string
	}{
		{"rate gets percent", "Open Rate", 45.6, "45.6%"},
		{"engagement rate", "Engagement Rate", 3.25, "3.3%"},
		{"percentage gets percent", "Bounce Percentage", 12, "12.0%"},
		{"score gets percent", "Quality Score", 88.5, "88.5%"},
		{"millions", "Impressions", 1500000, "1.5M"},
		{"thousands", "Page Views", 2300, "2.3K"},
		{"small integer", "Conversions", 42, "42"},
		{"grouped integer below a thousand boundary", "Clicks", 999, "999"},
		{"rounded fraction", "Conversions", 41.6, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.kpiName, tt.value); got != tt.want {
				t.Errorf("FormatValue(%q, %v) = %q, want %q", tt.kpiName, tt.value, got, tt.want)
			}
		})
	}
}

func TestGroupInt(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-9876, "-9,876"},
	}

	for _, tt := range tests {
		if got := groupInt(tt.in); got != tt.want {
			t.Errorf("groupInt(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildCardsOrdering(t *testing.T) {
	snapshot := domain.MetricsSnapshot{
		"email": {
			"engagement": {Name: "Open Rate", Value: 45, BenchmarkValue: 40},
			"awareness":  {Name: "Sends", Value: 1200, BenchmarkValue: 1000},
		},
		"social_media": {
			"conversion": {Name: "Conversions", Value: 42, BenchmarkValue: 50},
		},
		"website": {
			"awareness": {Name: "Page Views", Value: 2300, BenchmarkValue: 2000},
		},
	}

	cards := BuildCards(snapshot)
	if len(cards) != 4 {
		t.Fatalf("Expected 4 cards, got %d", len(cards))
	}

	wantOrder := []struct {
		medium string
		stage  string
	}{
		{"social_media", "conversion"},
		{"website", "awareness"},
		{"email", "awareness"},
		{"email", "engagement"},
	}
	for i, want := range wantOrder {
		if cards[i].Medium != want.medium || cards[i].JourneyStage != want.stage {
			t.Errorf("Card %d: got %s/%s, want %s/%s",
				i, cards[i].Medium, cards[i].JourneyStage, want.medium, want.stage)
		}
	}
}

func TestBuildCardsDerivedFields(t *testing.T) {
	snapshot := domain.MetricsSnapshot{
		"email": {
			"engagement": {Name: "Open Rate", Value: 45.6, BenchmarkValue: 40, TimePeriodDays: 30},
		},
	}

	cards := BuildCards(snapshot)
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(cards))
	}
	card := cards[0]
	if card.FormattedValue != "45.6%" {
		t.Errorf("Expected formatted value 45.6%%, got %q", card.FormattedValue)
	}
	if card.Performance != domain.PerformanceAbove {
		t.Errorf("Expected above performance, got %v", card.Performance)
	}
	if card.DeltaLabel != "14% Above Benchmark" {
		t.Errorf("Expected delta label %q, got %q", "14% Above Benchmark", card.DeltaLabel)
	}
	if card.TimePeriodDays != 30 {
		t.Errorf("Expected time period 30, got %d", card.TimePeriodDays)
	}
}

func TestBuildCardsUnknownKeysSortLast(t *testing.T) {
	snapshot := domain.MetricsSnapshot{
		"podcast": {
			"awareness": {Name: "Listens", Value: 100},
		},
		"email": {
			"zz_custom":  {Name: "Custom", Value: 1},
			"engagement": {Name: "Open Rate", Value: 45},
		},
	}

	cards := BuildCards(snapshot)
	if len(cards) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(cards))
	}
	if cards[0].Medium != "email" || cards[0].JourneyStage != "engagement" {
		t.Errorf("Expected email/engagement first, got %s/%s", cards[0].Medium, cards[0].JourneyStage)
	}
	if cards[1].Medium != "email" || cards[1].JourneyStage != "zz_custom" {
		t.Errorf("Expected unknown stage after known ones, got %s/%s", cards[1].Medium, cards[1].JourneyStage)
	}
	if cards[2].Medium != "podcast" {
		t.Errorf("Expected unknown medium last, got %s", cards[2].Medium)
	}
}
