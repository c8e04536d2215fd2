package services

import (
	"testing"

	"crop-recommendation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func neutralSoil() models.SoilInput {
	return models.SoilInput{
		PH:                        6.5,
		Nitrogen:                  2,
		Phosphorus:                2,
		Potassium:                 2,
		EasyMaintenancePreference: 3,
	}
}

func mildWeather() models.WeatherReading {
	return models.WeatherReading{
		Temperature: 25,
		Humidity:    60,
		Rainfall:    5,
	}
}

// ============================================================================
// TEST SUITE 1: GROUP MEMBERSHIP
// ============================================================================

func TestGroupForCrop(t *testing.T) {
	service := NewScoringService()

	tests := []struct {
		name     string
		crop     string
		expected models.RotationGroup
	}{
		{"root vegetable", "carrot", models.GroupRootVegetables},
		{"legume title case", "Green Beans", models.GroupLegumes},
		{"greens with whitespace", " Kale ", models.GroupGreensBrassicas},
		{"fruiting", "Tomato", models.GroupFruiting},
		{"unknown defaults to fruiting", "dragonfruit", models.GroupFruiting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.GroupForCrop(tt.crop))
		})
	}
}

// ============================================================================
// TEST SUITE 2: HEURISTIC SCORE
// ============================================================================

func TestHeuristicScore_NeutralBaseline(t *testing.T) {
	service := NewScoringService()
	soil := neutralSoil()

	for _, group := range groupOrder {
		assert.Equal(t, 50, service.HeuristicScore(soil, group),
			"neutral soil should score the base 50 for %s", group)
	}
}

func TestHeuristicScore_NutrientTerms(t *testing.T) {
	service := NewScoringService()

	tests := []struct {
		name     string
		mutate   func(*models.SoilInput)
		group    models.RotationGroup
		expected int
	}{
		{"greens reward high nitrogen", func(s *models.SoilInput) { s.Nitrogen = 4 }, models.GroupGreensBrassicas, 66},
		{"greens punish low nitrogen", func(s *models.SoilInput) { s.Nitrogen = 0 }, models.GroupGreensBrassicas, 34},
		{"roots reward low nitrogen", func(s *models.SoilInput) { s.Nitrogen = 0 }, models.GroupRootVegetables, 62},
		{"roots punish high nitrogen", func(s *models.SoilInput) { s.Nitrogen = 4 }, models.GroupRootVegetables, 38},
		{"legumes reward low nitrogen", func(s *models.SoilInput) { s.Nitrogen = 0 }, models.GroupLegumes, 60},
		{"fruiting rewards phosphorus and nitrogen", func(s *models.SoilInput) {
			s.Phosphorus = 4
			s.Nitrogen = 3
		}, models.GroupFruiting, 68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			soil := neutralSoil()
			tt.mutate(&soil)
			assert.Equal(t, tt.expected, service.HeuristicScore(soil, tt.group))
		})
	}
}

func TestHeuristicScore_PHDistance(t *testing.T) {
	service := NewScoringService()

	soil := neutralSoil()
	soil.PH = 5.0
	assert.Equal(t, 44, service.HeuristicScore(soil, models.GroupLegumes),
		"1.5 pH units from neutral costs 6 points")

	soil.PH = 7.5
	assert.Equal(t, 46, service.HeuristicScore(soil, models.GroupLegumes),
		"1.0 pH unit from neutral costs 4 points")
}

func TestHeuristicScore_MaintenancePreference(t *testing.T) {
	service := NewScoringService()

	soil := neutralSoil()
	soil.EasyMaintenancePreference = 5
	assert.Equal(t, 56, service.HeuristicScore(soil, models.GroupLegumes))

	soil.EasyMaintenancePreference = 1
	assert.Equal(t, 44, service.HeuristicScore(soil, models.GroupLegumes))

	soil.EasyMaintenancePreference = 0
	assert.Equal(t, 50, service.HeuristicScore(soil, models.GroupLegumes),
		"unset preference reads as the middle value")
}

func TestHeuristicScore_Clamped(t *testing.T) {
	service := NewScoringService()

	low := neutralSoil()
	low.Nitrogen = 0
	low.PH = 14
	low.EasyMaintenancePreference = 1
	assert.Equal(t, 0, service.HeuristicScore(low, models.GroupGreensBrassicas),
		"scores never go below zero")

	high := neutralSoil()
	high.Nitrogen = 10
	assert.Equal(t, 100, service.HeuristicScore(high, models.GroupGreensBrassicas),
		"scores never exceed one hundred")
}

// ============================================================================
// TEST SUITE 3: WEATHER ADJUSTMENT
// ============================================================================

func TestWeatherAdjustment_AllFavourable(t *testing.T) {
	service := NewScoringService()

	adjustment := service.WeatherAdjustment(mildWeather(), models.GroupFruiting)

	assert.Equal(t, 7, adjustment, "in-window temperature, humidity and rainfall add 3+2+2")
}

func TestWeatherAdjustment_RainfallByGroup(t *testing.T) {
	service := NewScoringService()

	tests := []struct {
		name     string
		group    models.RotationGroup
		rainfall float64
		expected int
	}{
		{"fruiting in range", models.GroupFruiting, 5, 7},
		{"fruiting too wet", models.GroupFruiting, 20, 3},
		{"fruiting too dry", models.GroupFruiting, 0, 3},
		{"greens in range", models.GroupGreensBrassicas, 5, 6},
		{"greens dry is neutral", models.GroupGreensBrassicas, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weather := models.WeatherReading{Temperature: 20, Humidity: 60, Rainfall: tt.rainfall}
			if tt.group == models.GroupGreensBrassicas {
				weather.Temperature = 15
			}
			assert.Equal(t, tt.expected, service.WeatherAdjustment(weather, tt.group))
		})
	}
}

func TestWeatherAdjustment_RootRainfall(t *testing.T) {
	service := NewScoringService()

	weather := models.WeatherReading{Temperature: 16, Humidity: 60, Rainfall: 5}
	assert.Equal(t, 6, service.WeatherAdjustment(weather, models.GroupRootVegetables))

	weather.Rainfall = 20
	assert.Equal(t, 2, service.WeatherAdjustment(weather, models.GroupRootVegetables),
		"waterlogged soil is the worst case for root crops")

	weather.Rainfall = 0.5
	assert.Equal(t, 4, service.WeatherAdjustment(weather, models.GroupRootVegetables))
}

func TestWeatherAdjustment_TemperatureDistance(t *testing.T) {
	service := NewScoringService()

	weather := models.WeatherReading{Temperature: 40, Humidity: 60, Rainfall: 5}
	assert.Equal(t, -3, service.WeatherAdjustment(weather, models.GroupLegumes),
		"12 degrees past the window costs the full 6, humidity and rainfall claw back 3")

	weather.Temperature = 31
	assert.Equal(t, 5, service.WeatherAdjustment(weather, models.GroupFruiting),
		"a single degree past the window truncates to a zero penalty")

	weather.Temperature = 33
	assert.Equal(t, 3, service.WeatherAdjustment(weather, models.GroupFruiting))
}

func TestWeatherAdjustment_LowerBoundClamp(t *testing.T) {
	service := NewScoringService()

	weather := models.WeatherReading{Temperature: 40, Humidity: 90, Rainfall: 20}
	assert.Equal(t, -10, service.WeatherAdjustment(weather, models.GroupRootVegetables),
		"raw -11 clamps to the -10 floor")
}

func TestWeatherAdjustment_UnknownGroupWindow(t *testing.T) {
	service := NewScoringService()

	weather := models.WeatherReading{Temperature: 20, Humidity: 60, Rainfall: 5}
	assert.Equal(t, 6, service.WeatherAdjustment(weather, models.RotationGroup("other")),
		"groups without a window use the 12-26 default")
}

// ============================================================================
// TEST SUITE 4: COMBINED SCORING AND ORDERING
// ============================================================================

func TestScoreCropGroup(t *testing.T) {
	service := NewScoringService()
	soil := neutralSoil()

	assert.Equal(t, 50, service.ScoreCropGroup(soil, models.GroupFruiting, nil),
		"no weather leaves the heuristic score untouched")

	weather := mildWeather()
	assert.Equal(t, 57, service.ScoreCropGroup(soil, models.GroupFruiting, &weather))
}

func TestScoreAll_NeutralSoilKeepsMembershipOrder(t *testing.T) {
	service := NewScoringService()

	results := service.ScoreAll(neutralSoil(), nil)

	assert.Len(t, results, 34)
	assert.Equal(t, "Green Beans", results[0].Crop,
		"ties keep group order, legumes first")
	assert.Equal(t, "Potatoes", results[len(results)-1].Crop)
	for _, r := range results {
		assert.Equal(t, 50, r.MatchPct)
	}
}

func TestScoreAll_RanksGroupsByScore(t *testing.T) {
	service := NewScoringService()
	soil := neutralSoil()
	soil.Nitrogen = 0

	results := service.ScoreAll(soil, nil)

	// Low nitrogen: roots 62, legumes 60, fruiting 42, greens 34.
	assert.Equal(t, "Carrot", results[0].Crop)
	assert.Equal(t, 62, results[0].MatchPct)
	assert.Equal(t, models.GroupRootVegetables, results[0].RotationGroup)
	assert.Equal(t, "Green Beans", results[8].Crop,
		"legumes follow the eight root vegetables")
	assert.Equal(t, 34, results[len(results)-1].MatchPct)
}

func TestScoreAll_TitleCasesCropNames(t *testing.T) {
	service := NewScoringService()

	results := service.ScoreAll(neutralSoil(), nil)

	names := make(map[string]bool, len(results))
	for _, r := range results {
		names[r.Crop] = true
	}
	assert.True(t, names["Bok Choy"])
	assert.True(t, names["Brussels Sprouts"])
	assert.True(t, names["Soy Beans"])
}

func TestScorePlan(t *testing.T) {
	service := NewScoringService()
	soil := neutralSoil()
	soil.Nitrogen = 0

	plan := models.RotationPlan{
		Year1: []string{"Green Beans", "Peas"},
		Year2: []string{"Cabbage"},
		Year3: []string{"Tomato"},
		Year4: []string{"Carrot", "Beet"},
	}

	scored := service.ScorePlan(plan, soil, nil)

	assert.Len(t, scored.Year1, 2)
	assert.Equal(t, "Green Beans", scored.Year1[0].Crop, "option order and casing are preserved")
	assert.Equal(t, models.GroupLegumes, scored.Year1[0].RotationGroup)
	assert.Equal(t, 60, scored.Year1[0].MatchPct)
	assert.Equal(t, models.GroupGreensBrassicas, scored.Year2[0].RotationGroup)
	assert.Equal(t, 34, scored.Year2[0].MatchPct)
	assert.Equal(t, 42, scored.Year3[0].MatchPct)
	assert.Equal(t, 62, scored.Year4[1].MatchPct)
}
