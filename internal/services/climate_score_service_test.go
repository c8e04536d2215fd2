package services

import (
	"testing"

	"crop-recommendation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func riceProfile() models.CropClimateProfile {
	return models.CropClimateProfile{
		Temperature: models.ClimateStats{Min: 20, Max: 30, Mean: 25, Std: 2},
		Humidity:    models.ClimateStats{Min: 60, Max: 90, Mean: 75, Std: 5},
		Rainfall:    models.ClimateStats{Min: 100, Max: 300, Mean: 200, Std: 50},
	}
}

func climateTestRef() *ReferenceData {
	return &ReferenceData{
		Profiles: map[string]models.CropClimateProfile{
			"rice": riceProfile(),
		},
		Crops: []string{"rice"},
	}
}

// ============================================================================
// TEST SUITE 1: VARIABLE SCORE REGIMES
// ============================================================================

func TestVariableScore_OptimalBand(t *testing.T) {
	stats := models.ClimateStats{Min: 20, Max: 30, Mean: 25, Std: 2}

	assert.InDelta(t, 100, variableScore(25, stats), 1e-9, "the mean is a perfect fit")
	assert.InDelta(t, 100, variableScore(23, stats), 1e-9, "one std below the mean still scores 100")
	assert.InDelta(t, 100, variableScore(27, stats), 1e-9, "one std above the mean still scores 100")
}

func TestVariableScore_AcceptableInterpolation(t *testing.T) {
	stats := models.ClimateStats{Min: 20, Max: 30, Mean: 25, Std: 2}

	assert.InDelta(t, 50, variableScore(20, stats), 1e-9, "the observed minimum scores 50")
	assert.InDelta(t, 50, variableScore(30, stats), 1e-9, "the observed maximum scores 50")
	assert.InDelta(t, 75, variableScore(21.5, stats), 1e-9,
		"halfway between min and the optimal band scores 75")
	assert.InDelta(t, 75, variableScore(28.5, stats), 1e-9)
}

func TestVariableScore_ExponentialDecayOutsideRange(t *testing.T) {
	stats := models.ClimateStats{Min: 20, Max: 30, Mean: 25, Std: 2}

	// One full range-width below the minimum: 50*e^-3.
	assert.InDelta(t, 2.489, variableScore(10, stats), 0.01)
	assert.InDelta(t, 2.489, variableScore(40, stats), 0.01)

	far := variableScore(-100, stats)
	assert.GreaterOrEqual(t, far, 0.0, "decay never goes negative")
	assert.Less(t, far, 0.001)
}

func TestVariableScore_DegenerateProfile(t *testing.T) {
	assert.InDelta(t, 100, variableScore(42, models.ClimateStats{Min: 10, Max: 10, Mean: 10}), 1e-9,
		"a collapsed range accepts any value")
	assert.InDelta(t, 100, variableScore(42, models.ClimateStats{Min: 10, Max: 5, Mean: 10}), 1e-9)
}

// ============================================================================
// TEST SUITE 2: CROP SCORING
// ============================================================================

func TestScoreCrop_PerfectFit(t *testing.T) {
	service := NewClimateScoreService(climateTestRef())

	weather := models.WeatherReading{Temperature: 25, Humidity: 75, Rainfall: 200}
	result := service.ScoreCrop("rice", weather)

	assert.InDelta(t, 100, result.Score, 1e-9)
	assert.InDelta(t, 100, result.Breakdown.Temperature, 1e-9)
	assert.InDelta(t, 100, result.Breakdown.Humidity, 1e-9)
	assert.InDelta(t, 100, result.Breakdown.Rainfall, 1e-9)
	assert.Equal(t, []string{
		"Temperature is ideal for rice (25.0°C)",
		"Humidity is ideal for rice (75.0%)",
		"Rainfall is ideal for rice (200.0mm)",
	}, result.Reasons)
}

func TestScoreCrop_WeightedOverall(t *testing.T) {
	service := NewClimateScoreService(climateTestRef())

	// Temperature 21.5 -> 75, humidity 75 -> 100, rainfall 300 -> 50.
	weather := models.WeatherReading{Temperature: 21.5, Humidity: 75, Rainfall: 300}
	result := service.ScoreCrop("rice", weather)

	assert.InDelta(t, 75.0, result.Score, 1e-9, "overall is 0.4*temp + 0.3*humidity + 0.3*rainfall")
	assert.InDelta(t, 75.0, result.Breakdown.Temperature, 1e-9)
	assert.InDelta(t, 100.0, result.Breakdown.Humidity, 1e-9)
	assert.InDelta(t, 50.0, result.Breakdown.Rainfall, 1e-9)
}

func TestScoreCrop_RoundsToOneDecimal(t *testing.T) {
	service := NewClimateScoreService(climateTestRef())

	// Temperature 22 interpolates to 83.33..., humidity and rainfall are ideal.
	weather := models.WeatherReading{Temperature: 22, Humidity: 75, Rainfall: 200}
	result := service.ScoreCrop("rice", weather)

	assert.InDelta(t, 83.3, result.Breakdown.Temperature, 1e-9)
	assert.InDelta(t, 93.3, result.Score, 1e-9)
}

func TestScoreCrop_ReasonTiers(t *testing.T) {
	service := NewClimateScoreService(climateTestRef())

	// Temperature 21.5 -> 75 (good), humidity 61 -> 55 (acceptable),
	// rainfall 1000 -> decay (challenging).
	weather := models.WeatherReading{Temperature: 21.5, Humidity: 61, Rainfall: 1000}
	result := service.ScoreCrop("rice", weather)

	assert.Equal(t, "Temperature is good for rice (21.5°C)", result.Reasons[0])
	assert.Equal(t, "Humidity is acceptable for rice (61.0%)", result.Reasons[1])
	assert.Equal(t, "Rainfall may be challenging for rice (1000.0mm)", result.Reasons[2])
}

func TestScoreCrop_UnknownCrop(t *testing.T) {
	service := NewClimateScoreService(climateTestRef())

	result := service.ScoreCrop("dragonfruit", models.WeatherReading{Temperature: 25, Humidity: 75, Rainfall: 200})

	assert.InDelta(t, 0, result.Score, 1e-9)
	assert.Equal(t, models.WeatherBreakdown{}, result.Breakdown)
	assert.Equal(t, []string{"Unknown crop type"}, result.Reasons)
}

// ============================================================================
// TEST SUITE 3: RANKING
// ============================================================================

func TestAllCropScores_RanksByScore(t *testing.T) {
	ref := climateTestRef()
	ref.Profiles["apple"] = models.CropClimateProfile{
		Temperature: models.ClimateStats{Min: 5, Max: 15, Mean: 10, Std: 2},
		Humidity:    models.ClimateStats{Min: 60, Max: 90, Mean: 75, Std: 5},
		Rainfall:    models.ClimateStats{Min: 100, Max: 300, Mean: 200, Std: 50},
	}
	ref.Crops = []string{"apple", "rice"}
	service := NewClimateScoreService(ref)

	scores := service.AllCropScores(models.WeatherReading{Temperature: 25, Humidity: 75, Rainfall: 200})

	assert.Len(t, scores, 2)
	assert.Equal(t, "rice", scores[0].Crop, "the better climate fit ranks first")
	assert.Greater(t, scores[0].WeatherScore, scores[1].WeatherScore)
}

func TestAllCropScores_TiesKeepAlphabeticalOrder(t *testing.T) {
	ref := climateTestRef()
	ref.Profiles["apple"] = riceProfile()
	ref.Crops = []string{"apple", "rice"}
	service := NewClimateScoreService(ref)

	scores := service.AllCropScores(models.WeatherReading{Temperature: 25, Humidity: 75, Rainfall: 200})

	assert.Equal(t, "apple", scores[0].Crop)
	assert.Equal(t, "rice", scores[1].Crop)
}
