package risk

import (
	"testing"
	"time"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
)

func floatPtr(v float64) *float64 { return &v }

func TestScoreCalmConditions(t *testing.T) {
	result, err := Score(Input{
		WaveHeightM:       floatPtr(0.5),
		WindSpeedKmh:      floatPtr(15),
		Weather:           WeatherClear,
		CrewReady:         true,
		EquipmentComplete: true,
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score != 0 {
		t.Fatalf("expected score 0 for calm conditions, got %d", result.Score)
	}
	if result.Level != LevelLow {
		t.Fatalf("expected low level, got %s", result.Level)
	}
	if result.Blocked {
		t.Fatal("expected calm conditions not to block")
	}
}

func TestScoreStormBlocks(t *testing.T) {
	result, err := Score(Input{
		WindSpeedKmh:      floatPtr(80),
		Weather:           WeatherStormy,
		CrewReady:         true,
		EquipmentComplete: true,
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score <= BlockThreshold {
		t.Fatalf("expected score above %d, got %d", BlockThreshold, result.Score)
	}
	if !result.Blocked {
		t.Fatal("expected storm conditions to block departure")
	}
}

func TestScoreBlockBoundary(t *testing.T) {
	// Stormy (50) plus 20 points of excess wind lands exactly on the
	// threshold; one more km/h of wind crosses it.
	atThreshold, err := Score(Input{
		WindSpeedKmh:      floatPtr(40),
		Weather:           WeatherStormy,
		CrewReady:         true,
		EquipmentComplete: true,
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if atThreshold.Score != 70 {
		t.Fatalf("expected score 70, got %d", atThreshold.Score)
	}
	if atThreshold.Blocked {
		t.Fatal("expected score 70 not to block")
	}

	aboveThreshold, err := Score(Input{
		WindSpeedKmh:      floatPtr(41),
		Weather:           WeatherStormy,
		CrewReady:         true,
		EquipmentComplete: true,
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if aboveThreshold.Score != 71 {
		t.Fatalf("expected score 71, got %d", aboveThreshold.Score)
	}
	if !aboveThreshold.Blocked {
		t.Fatal("expected score 71 to block")
	}
}

func TestScoreMissingInputsContributeZero(t *testing.T) {
	result, err := Score(Input{CrewReady: true, EquipmentComplete: true})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score != 0 {
		t.Fatalf("expected absent inputs to score 0, got %d", result.Score)
	}
}

func TestScoreReadinessPenalties(t *testing.T) {
	result, err := Score(Input{CrewReady: false, EquipmentComplete: false})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score != 30 {
		t.Fatalf("expected 30 from both penalties, got %d", result.Score)
	}
	if result.Level != LevelMedium {
		t.Fatalf("expected medium level, got %s", result.Level)
	}
}

func TestScoreClampsToHundred(t *testing.T) {
	result, err := Score(Input{
		WaveHeightM:       floatPtr(6),
		WindSpeedKmh:      floatPtr(120),
		Weather:           WeatherStormy,
		CrewReady:         false,
		EquipmentComplete: false,
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score != 100 {
		t.Fatalf("expected clamp to 100, got %d", result.Score)
	}
	if result.Level != LevelCritical {
		t.Fatalf("expected critical level, got %s", result.Level)
	}
	if !result.Blocked {
		t.Fatal("expected blocked")
	}
}

func TestScoreWeatherOrdering(t *testing.T) {
	conditions := []WeatherCondition{WeatherClear, WeatherCloudy, WeatherRainy, WeatherStormy}
	previous := -1
	for _, condition := range conditions {
		result, err := Score(Input{Weather: condition, CrewReady: true, EquipmentComplete: true})
		if err != nil {
			t.Fatalf("score %s: %v", condition, err)
		}
		if result.Score <= previous {
			t.Fatalf("expected %s to score above the previous condition, got %d", condition, result.Score)
		}
		previous = result.Score
	}
}

func TestScoreDeterministic(t *testing.T) {
	input := Input{
		WaveHeightM:       floatPtr(1.5),
		WindSpeedKmh:      floatPtr(35),
		Weather:           WeatherRainy,
		CrewReady:         true,
		EquipmentComplete: false,
	}
	first, err := Score(input)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Score(input)
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		if again != first {
			t.Fatalf("expected deterministic result, got %+v then %+v", first, again)
		}
	}
	if first.Score < 0 || first.Score > 100 {
		t.Fatalf("score out of range: %d", first.Score)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		code  apperrors.Code
	}{
		{name: "negative wave", input: Input{WaveHeightM: floatPtr(-0.1)}, code: apperrors.CodeRiskWaveHeightNegative},
		{name: "wave beyond physical max", input: Input{WaveHeightM: floatPtr(31)}, code: apperrors.CodeRiskWaveHeightTooHigh},
		{name: "negative wind", input: Input{WindSpeedKmh: floatPtr(-5)}, code: apperrors.CodeRiskWindSpeedNegative},
		{name: "wind beyond physical max", input: Input{WindSpeedKmh: floatPtr(301)}, code: apperrors.CodeRiskWindSpeedTooHigh},
		{name: "unknown weather", input: Input{Weather: WeatherCondition("foggy")}, code: apperrors.CodeRiskInvalidWeather},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Score(tt.input); !apperrors.IsCode(err, tt.code) {
				t.Fatalf("expected code %s, got %v", tt.code, err)
			}
		})
	}
}

func TestLevelBands(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{score: 0, want: LevelLow},
		{score: 24, want: LevelLow},
		{score: 25, want: LevelMedium},
		{score: 49, want: LevelMedium},
		{score: 50, want: LevelHigh},
		{score: 74, want: LevelHigh},
		{score: 75, want: LevelCritical},
		{score: 100, want: LevelCritical},
	}
	for _, tt := range tests {
		if got := levelFor(tt.score); got != tt.want {
			t.Fatalf("levelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestNewAssessment(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 6, 12, 7, 30, 0, 0, time.UTC) }
	idGen := func() (string, error) { return "assessment-1", nil }

	assessment, err := NewAssessment("trip-1", Input{Weather: WeatherCloudy, CrewReady: true, EquipmentComplete: true}, clock, idGen)
	if err != nil {
		t.Fatalf("new assessment: %v", err)
	}
	if assessment.ID != "assessment-1" || assessment.TripID != "trip-1" {
		t.Fatalf("unexpected identity: %+v", assessment)
	}
	if assessment.Result.Score != 10 {
		t.Fatalf("expected cloudy score 10, got %d", assessment.Result.Score)
	}
	if !assessment.CreatedAt.Equal(clock()) {
		t.Fatalf("expected snapshot timestamp, got %v", assessment.CreatedAt)
	}

	if _, err := NewAssessment("trip-1", Input{WaveHeightM: floatPtr(-1)}, clock, idGen); err == nil {
		t.Fatal("expected validation error to reject the snapshot")
	}
}
