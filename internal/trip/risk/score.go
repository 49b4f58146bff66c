package risk

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
)

// WeatherCondition describes the categorical weather input.
type WeatherCondition string

const (
	WeatherUnspecified WeatherCondition = ""
	WeatherClear       WeatherCondition = "clear"
	WeatherCloudy      WeatherCondition = "cloudy"
	WeatherRainy       WeatherCondition = "rainy"
	WeatherStormy      WeatherCondition = "stormy"
)

// NormalizeWeatherCondition canonicalizes weather labels. The empty string
// is valid and means the condition was not observed.
func NormalizeWeatherCondition(value string) (WeatherCondition, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return WeatherUnspecified, true
	case "clear":
		return WeatherClear, true
	case "cloudy":
		return WeatherCloudy, true
	case "rainy":
		return WeatherRainy, true
	case "stormy":
		return WeatherStormy, true
	default:
		return WeatherUnspecified, false
	}
}

// Level buckets a score into a fixed partition of the 0..100 range.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

const (
	// BlockThreshold is the score above which departure is forcibly
	// disallowed. The comparison is strict: 70 passes, 71 blocks.
	BlockThreshold = 70

	// maxWaveHeightM rejects wave heights beyond plausible open-water swell.
	maxWaveHeightM = 30.0
	// maxWindSpeedKmh rejects wind speeds beyond plausible surface wind.
	maxWindSpeedKmh = 300.0

	// safeWaveHeightM is the swell height below which waves add no risk.
	safeWaveHeightM = 0.5
	// safeWindSpeedKmh is the wind speed below which wind adds no risk.
	safeWindSpeedKmh = 20.0

	// waveContributionCap and windContributionCap bound each numeric factor.
	waveContributionCap = 30.0
	windContributionCap = 30.0

	// wavePointsPerMeter converts excess swell into score points.
	wavePointsPerMeter = 20.0

	// crewNotReadyPenalty and equipmentIncompletePenalty are the fixed
	// penalties for unready operational state.
	crewNotReadyPenalty        = 15.0
	equipmentIncompletePenalty = 15.0
)

// weatherWeight maps each condition to its categorical contribution.
// Stormy outweighs every other factor on its own.
func weatherWeight(condition WeatherCondition) float64 {
	switch condition {
	case WeatherCloudy:
		return 10
	case WeatherRainy:
		return 25
	case WeatherStormy:
		return 50
	default:
		return 0
	}
}

// Input carries the factors scored for a departure decision.
//
// Absent numeric inputs contribute zero risk. That optimistic default
// mirrors the upstream product decision; see DESIGN.md for the open
// question about penalizing unknown conditions instead.
type Input struct {
	WaveHeightM       *float64
	WindSpeedKmh      *float64
	Weather           WeatherCondition
	CrewReady         bool
	EquipmentComplete bool
	Latitude          *float64
	Longitude         *float64
}

// Result is the scored outcome for one input snapshot.
type Result struct {
	Score   int
	Level   Level
	Blocked bool
}

// Validate rejects out-of-range numeric inputs before any scoring runs.
func Validate(input Input) error {
	if input.WaveHeightM != nil {
		if *input.WaveHeightM < 0 {
			return apperrors.New(apperrors.CodeRiskWaveHeightNegative, "wave height must not be negative")
		}
		if *input.WaveHeightM > maxWaveHeightM {
			return apperrors.WithMetadata(
				apperrors.CodeRiskWaveHeightTooHigh,
				fmt.Sprintf("wave height %.1fm exceeds the physical maximum %.0fm", *input.WaveHeightM, maxWaveHeightM),
				map[string]string{"WaveHeightM": fmt.Sprintf("%.1f", *input.WaveHeightM)},
			)
		}
	}
	if input.WindSpeedKmh != nil {
		if *input.WindSpeedKmh < 0 {
			return apperrors.New(apperrors.CodeRiskWindSpeedNegative, "wind speed must not be negative")
		}
		if *input.WindSpeedKmh > maxWindSpeedKmh {
			return apperrors.WithMetadata(
				apperrors.CodeRiskWindSpeedTooHigh,
				fmt.Sprintf("wind speed %.0fkm/h exceeds the physical maximum %.0fkm/h", *input.WindSpeedKmh, maxWindSpeedKmh),
				map[string]string{"WindSpeedKmh": fmt.Sprintf("%.0f", *input.WindSpeedKmh)},
			)
		}
	}
	switch input.Weather {
	case WeatherUnspecified, WeatherClear, WeatherCloudy, WeatherRainy, WeatherStormy:
	default:
		return apperrors.WithMetadata(
			apperrors.CodeRiskInvalidWeather,
			fmt.Sprintf("weather condition %q is not recognized", input.Weather),
			map[string]string{"Weather": string(input.Weather)},
		)
	}
	return nil
}

// Score combines the weighted factor contributions into a 0..100 score,
// its level band, and the hard block decision.
func Score(input Input) (Result, error) {
	if err := Validate(input); err != nil {
		return Result{}, err
	}

	points := weatherWeight(input.Weather)

	if input.WaveHeightM != nil && *input.WaveHeightM > safeWaveHeightM {
		contribution := (*input.WaveHeightM - safeWaveHeightM) * wavePointsPerMeter
		points += math.Min(contribution, waveContributionCap)
	}
	if input.WindSpeedKmh != nil && *input.WindSpeedKmh > safeWindSpeedKmh {
		contribution := *input.WindSpeedKmh - safeWindSpeedKmh
		points += math.Min(contribution, windContributionCap)
	}
	if !input.CrewReady {
		points += crewNotReadyPenalty
	}
	if !input.EquipmentComplete {
		points += equipmentIncompletePenalty
	}

	score := int(math.Round(math.Min(math.Max(points, 0), 100)))
	return Result{
		Score:   score,
		Level:   levelFor(score),
		Blocked: score > BlockThreshold,
	}, nil
}

// levelFor maps a score to its band: low below 25, medium below 50,
// high below 75, critical at 75 and above.
func levelFor(score int) Level {
	switch {
	case score < 25:
		return LevelLow
	case score < 50:
		return LevelMedium
	case score < 75:
		return LevelHigh
	default:
		return LevelCritical
	}
}
