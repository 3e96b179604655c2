package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/joris-vdw/StyleCast/internal/domain/weather"
)

func newWeatherService(source *mockSource, mock *mockLLM) *WeatherService {
	return NewWeatherService(source, mock, nil, time.Minute, "test-model", 0.7, testLogger())
}

func TestFetchPropagatesSourceError(t *testing.T) {
	source := &mockSource{err: weather.ErrLocationNotFound}
	svc := newWeatherService(source, &mockLLM{})

	if _, err := svc.Fetch(context.Background(), "atlantis"); !errors.Is(err, weather.ErrLocationNotFound) {
		t.Errorf("Fetch() error = %v, want ErrLocationNotFound", err)
	}
}

func TestFetchDeduplicatesConcurrent(t *testing.T) {
	source := &mockSource{snap: coolSnapshot()}
	release := make(chan struct{})
	slow := &blockingSource{inner: source, release: release}
	svc := newWeatherService(nil, &mockLLM{})
	svc.source = slow

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Fetch(context.Background(), "leuven"); err != nil {
				t.Errorf("Fetch() error = %v", err)
			}
		}()
	}
	// Let the goroutines pile up behind the first in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if source.calls != 1 {
		t.Errorf("upstream called %d times, want 1", source.calls)
	}
}

type blockingSource struct {
	inner   *mockSource
	release chan struct{}
}

func (b *blockingSource) Current(ctx context.Context, location string) (*weather.Snapshot, error) {
	<-b.release
	return b.inner.Current(ctx, location)
}

func TestFetchServesFromCache(t *testing.T) {
	source := &mockSource{snap: coolSnapshot()}
	svc := NewWeatherService(source, &mockLLM{}, newMockCache(), time.Minute, "test-model", 0.7, testLogger())

	for i := 0; i < 3; i++ {
		if _, err := svc.Fetch(context.Background(), "Leuven"); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
	}
	if source.calls != 1 {
		t.Errorf("upstream called %d times, want 1 with a warm cache", source.calls)
	}
}

func TestAnalyzeStructured(t *testing.T) {
	mock := &mockLLM{steps: []mockStep{
		respondJSON(t, weather.Analysis{
			Summary:             "Chilly and wet.",
			ComfortLevel:        2,
			KeyFactors:          []string{"rain", "wind"},
			TemperatureCategory: weather.TempCool,
			PrecipitationRisk:   weather.PrecipHigh,
			WindFactor:          weather.WindBreezy,
		}),
	}}
	svc := newWeatherService(&mockSource{}, mock)

	analysis, err := svc.Analyze(context.Background(), coolSnapshot())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.ComfortLevel != 2 {
		t.Errorf("comfort = %d, want 2", analysis.ComfortLevel)
	}
	if analysis.PrecipitationRisk != weather.PrecipHigh {
		t.Errorf("precipitation = %q, want high", analysis.PrecipitationRisk)
	}
}

func TestAnalyzeClampsInvalidFields(t *testing.T) {
	mock := &mockLLM{steps: []mockStep{
		respondJSON(t, map[string]any{
			"summary":              "odd output",
			"comfort_level":        11,
			"temperature_category": "freezing",
			"wind_factor":          "hurricane",
		}),
	}}
	svc := newWeatherService(&mockSource{}, mock)

	analysis, err := svc.Analyze(context.Background(), coolSnapshot())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.ComfortLevel != 3 {
		t.Errorf("comfort = %d, want clamped 3", analysis.ComfortLevel)
	}
	if analysis.TemperatureCategory != weather.TempCool {
		t.Errorf("temperature category = %q, want derived cool", analysis.TemperatureCategory)
	}
	if analysis.WindFactor != weather.WindBreezy {
		t.Errorf("wind factor = %q, want derived breezy", analysis.WindFactor)
	}
	if len(analysis.KeyFactors) == 0 {
		t.Error("key factors not backfilled")
	}
}

func TestAnalyzeSynthesizesOnCallFailure(t *testing.T) {
	mock := &mockLLM{steps: []mockStep{respondError(errors.New("model down"))}}
	svc := newWeatherService(&mockSource{}, mock)

	analysis, err := svc.Analyze(context.Background(), coolSnapshot())
	if err == nil {
		t.Fatal("Analyze() expected degradation error")
	}
	if analysis.ComfortLevel != 3 {
		t.Errorf("synthesized comfort = %d, want 3", analysis.ComfortLevel)
	}
	if analysis.TemperatureCategory != weather.TempCool {
		t.Errorf("temperature category = %q, want cool for 8°C", analysis.TemperatureCategory)
	}
	if analysis.PrecipitationRisk != weather.PrecipHigh {
		t.Errorf("precipitation = %q, want high for rain", analysis.PrecipitationRisk)
	}
	want := []string{"temperature", "conditions"}
	if len(analysis.KeyFactors) != 2 || analysis.KeyFactors[0] != want[0] || analysis.KeyFactors[1] != want[1] {
		t.Errorf("key factors = %v, want %v", analysis.KeyFactors, want)
	}
}

func TestPrecipitationFromConditions(t *testing.T) {
	tests := []struct {
		conditions []string
		want       weather.PrecipitationRisk
	}{
		{[]string{"Clear"}, weather.PrecipNone},
		{[]string{"Clouds"}, weather.PrecipLow},
		{[]string{"Drizzle"}, weather.PrecipModerate},
		{[]string{"Rain"}, weather.PrecipHigh},
		{[]string{"Clouds", "Thunderstorm"}, weather.PrecipHigh},
		{nil, weather.PrecipNone},
	}
	for _, tt := range tests {
		if got := precipitationFromConditions(tt.conditions); got != tt.want {
			t.Errorf("precipitationFromConditions(%v) = %q, want %q", tt.conditions, got, tt.want)
		}
	}
}
