package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/joris-vdw/StyleCast/internal/domain/weather"
	"github.com/joris-vdw/StyleCast/internal/port/cache"
	"github.com/joris-vdw/StyleCast/internal/port/llm"
	"github.com/joris-vdw/StyleCast/internal/port/weathersrc"
)

//go:embed templates/weather_system.tmpl
var weatherSystemPrompt string

// WeatherService fetches current conditions and turns them into a
// clothing-oriented analysis. Fetches for the same location are deduplicated
// and cached; analysis degrades to a deterministic synthesis when the model
// is unavailable.
type WeatherService struct {
	source      weathersrc.Source
	llm         llm.Client
	cache       cache.Cache
	ttl         time.Duration
	model       string
	temperature float64
	group       singleflight.Group
	logger      *slog.Logger
}

func NewWeatherService(source weathersrc.Source, client llm.Client, c cache.Cache, ttl time.Duration, model string, temperature float64, logger *slog.Logger) *WeatherService {
	return &WeatherService{
		source:      source,
		llm:         client,
		cache:       c,
		ttl:         ttl,
		model:       model,
		temperature: temperature,
		logger:      logger.With("service", "weather"),
	}
}

// Fetch returns the current conditions for a location. Concurrent fetches
// for the same location share one upstream call.
func (s *WeatherService) Fetch(ctx context.Context, location string) (*weather.Snapshot, error) {
	key := "weather:" + strings.ToLower(strings.TrimSpace(location))

	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var snap weather.Snapshot
			if err := json.Unmarshal(raw, &snap); err == nil {
				return &snap, nil
			}
			_ = s.cache.Delete(ctx, key)
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		snap, err := s.source.Current(ctx, location)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if raw, err := json.Marshal(snap); err == nil {
				_ = s.cache.Set(ctx, key, raw, s.ttl)
			}
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*weather.Snapshot), nil
}

// Analyze produces a clothing-oriented analysis of a snapshot. It always
// returns a usable analysis; a non-nil error means the model was unavailable
// and the analysis was synthesized deterministically from the snapshot.
func (s *WeatherService) Analyze(ctx context.Context, snap *weather.Snapshot) (weather.Analysis, error) {
	conditions := fmt.Sprintf(
		"Location: %s\nTemperature: %.1f°C (feels like %.1f°C)\nConditions: %s (%s)\nWind: %.1f km/h\nHumidity: %d%%",
		snap.Location, snap.Temperature, snap.FeelsLike, snap.Description,
		strings.Join(snap.Conditions, ", "), snap.WindSpeed, snap.Humidity)

	result := generate[weather.Analysis](ctx, s.llm, llm.ChatRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: weatherSystemPrompt},
			{Role: "user", Content: conditions},
		},
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})

	switch result.kind {
	case genStructured:
		return normalizeAnalysis(result.value, snap), nil
	case genUnstructured:
		s.logger.Warn("weather analysis returned non-JSON output, synthesizing",
			"raw", truncate(result.raw, 200))
		return synthesizeAnalysis(snap), fmt.Errorf("weather analysis output not parseable")
	default:
		s.logger.Warn("weather analysis call failed, synthesizing", "error", result.err)
		return synthesizeAnalysis(snap), fmt.Errorf("weather analysis call failed: %w", result.err)
	}
}

// normalizeAnalysis clamps and backfills model output so downstream stages
// always see valid values.
func normalizeAnalysis(a weather.Analysis, snap *weather.Snapshot) weather.Analysis {
	if a.ComfortLevel < 1 || a.ComfortLevel > 5 {
		a.ComfortLevel = 3
	}
	if !validTemperatureCategory(a.TemperatureCategory) {
		a.TemperatureCategory = weather.CategorizeTemperature(snap.Temperature)
	}
	if !validPrecipitationRisk(a.PrecipitationRisk) {
		a.PrecipitationRisk = precipitationFromConditions(snap.Conditions)
	}
	if !validWindFactor(a.WindFactor) {
		a.WindFactor = weather.CategorizeWind(snap.WindSpeed)
	}
	if len(a.KeyFactors) == 0 {
		a.KeyFactors = []string{"temperature", "conditions"}
	}
	if a.Summary == "" {
		a.Summary = fmt.Sprintf("%s, %.0f°C", snap.Description, snap.Temperature)
	}
	return a
}

// synthesizeAnalysis derives a minimal analysis from the snapshot alone.
func synthesizeAnalysis(snap *weather.Snapshot) weather.Analysis {
	return weather.Analysis{
		Summary:             fmt.Sprintf("%s, %.0f°C (feels like %.0f°C)", snap.Description, snap.Temperature, snap.FeelsLike),
		ComfortLevel:        3,
		KeyFactors:          []string{"temperature", "conditions"},
		TemperatureCategory: weather.CategorizeTemperature(snap.Temperature),
		PrecipitationRisk:   precipitationFromConditions(snap.Conditions),
		WindFactor:          weather.CategorizeWind(snap.WindSpeed),
		Recommendations:     []string{"dress for the stated temperature", "check conditions before heading out"},
	}
}

func precipitationFromConditions(conditions []string) weather.PrecipitationRisk {
	risk := weather.PrecipNone
	for _, c := range conditions {
		var r weather.PrecipitationRisk
		switch strings.ToLower(c) {
		case "thunderstorm", "rain", "snow":
			r = weather.PrecipHigh
		case "drizzle":
			r = weather.PrecipModerate
		case "clouds", "mist", "fog":
			r = weather.PrecipLow
		default:
			continue
		}
		if precipRank(r) > precipRank(risk) {
			risk = r
		}
	}
	return risk
}

func precipRank(r weather.PrecipitationRisk) int {
	switch r {
	case weather.PrecipLow:
		return 1
	case weather.PrecipModerate:
		return 2
	case weather.PrecipHigh:
		return 3
	default:
		return 0
	}
}

func validTemperatureCategory(c weather.TemperatureCategory) bool {
	switch c {
	case weather.TempCold, weather.TempCool, weather.TempMild, weather.TempWarm, weather.TempHot:
		return true
	}
	return false
}

func validPrecipitationRisk(r weather.PrecipitationRisk) bool {
	switch r {
	case weather.PrecipNone, weather.PrecipLow, weather.PrecipModerate, weather.PrecipHigh:
		return true
	}
	return false
}

func validWindFactor(w weather.WindFactor) bool {
	switch w {
	case weather.WindCalm, weather.WindBreezy, weather.WindWindy, weather.WindVeryWind:
		return true
	}
	return false
}
