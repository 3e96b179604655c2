// Package weather defines weather snapshots and their clothing-oriented analysis.
package weather

import (
	"errors"
	"time"
)

// ErrLocationNotFound indicates the location could not be geocoded.
var ErrLocationNotFound = errors.New("location not found")

// ErrUpstream indicates the weather provider call itself failed.
var ErrUpstream = errors.New("weather provider error")

// Snapshot is one immutable weather reading for a location at an instant.
type Snapshot struct {
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"` // °C
	FeelsLike   float64   `json:"feels_like"`  // °C
	Humidity    int       `json:"humidity"`    // %
	WindSpeed   float64   `json:"wind_speed"`  // km/h
	Description string    `json:"description"`
	Conditions  []string  `json:"conditions"`
	CapturedAt  time.Time `json:"captured_at"`
}

// TemperatureCategory buckets the felt temperature.
type TemperatureCategory string

const (
	TempCold TemperatureCategory = "cold"
	TempCool TemperatureCategory = "cool"
	TempMild TemperatureCategory = "mild"
	TempWarm TemperatureCategory = "warm"
	TempHot  TemperatureCategory = "hot"
)

// PrecipitationRisk grades the chance of getting rained on.
type PrecipitationRisk string

const (
	PrecipNone     PrecipitationRisk = "none"
	PrecipLow      PrecipitationRisk = "low"
	PrecipModerate PrecipitationRisk = "moderate"
	PrecipHigh     PrecipitationRisk = "high"
)

// WindFactor grades wind strength for clothing purposes.
type WindFactor string

const (
	WindCalm     WindFactor = "calm"
	WindBreezy   WindFactor = "breezy"
	WindWindy    WindFactor = "windy"
	WindVeryWind WindFactor = "very_windy"
)

// Analysis is the structured clothing-oriented interpretation of a snapshot.
type Analysis struct {
	Summary             string              `json:"summary"`
	ComfortLevel        int                 `json:"comfort_level"` // 1..5
	KeyFactors          []string            `json:"key_factors"`
	TemperatureCategory TemperatureCategory `json:"temperature_category"`
	PrecipitationRisk   PrecipitationRisk   `json:"precipitation_risk"`
	WindFactor          WindFactor          `json:"wind_factor"`
	Recommendations     []string            `json:"recommendations"`
}

// CategorizeTemperature buckets a feels-like temperature in °C.
func CategorizeTemperature(feelsLike float64) TemperatureCategory {
	switch {
	case feelsLike < 5:
		return TempCold
	case feelsLike < 13:
		return TempCool
	case feelsLike < 20:
		return TempMild
	case feelsLike < 27:
		return TempWarm
	default:
		return TempHot
	}
}

// CategorizeWind buckets a wind speed in km/h.
func CategorizeWind(kmh float64) WindFactor {
	switch {
	case kmh < 12:
		return WindCalm
	case kmh < 29:
		return WindBreezy
	case kmh < 50:
		return WindWindy
	default:
		return WindVeryWind
	}
}
