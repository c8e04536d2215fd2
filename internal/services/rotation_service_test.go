package services

import (
	"context"
	"testing"

	"crop-recommendation-service/internal/event"
	"crop-recommendation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type stubWeatherService struct {
	reading models.WeatherReading
	calls   int
}

func (s *stubWeatherService) FetchCurrent(ctx context.Context, latitude, longitude float64) (models.WeatherReading, error) {
	return s.reading, nil
}

func (s *stubWeatherService) Resolve(ctx context.Context, latitude, longitude float64) models.WeatherReading {
	s.calls++
	return s.reading
}

func (s *stubWeatherService) Seasonal(ctx context.Context, latitude, longitude float64, year int) (*models.SeasonalWeather, error) {
	return nil, nil
}

type capturePublisher struct {
	events []event.RecommendationEvent
	err    error
}

func (p *capturePublisher) PublishEvent(ctx context.Context, evt event.RecommendationEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

func rotationTestRules() []models.RotationRule {
	return []models.RotationRule{
		{
			NBand: models.BandLow, PBand: models.BandLow, KBand: models.BandLow,
			PHBand:       models.PHBandNeutral,
			Year1Options: "Green Beans|Peas",
			Year2Options: "Cabbage|Broccoli",
			Year3Options: "Tomato|Corn",
			Year4Options: "Carrot|Onion",
		},
		{
			NBand: models.BandLow, PBand: models.BandLow, KBand: models.BandLow,
			PHBand:       models.PHBandAcidic,
			Year1Options: "Peanuts|Lupin",
			Year2Options: "Lettuce|Kale",
			Year3Options: "Potatoes",
			Year4Options: "Radish|Turnip",
		},
		{
			NBand: models.BandHigh, PBand: models.BandMedium, KBand: models.BandLow,
			PHBand:       models.PHBandNeutral,
			Year1Options: "Cabbage",
			Year2Options: "Tomato",
			Year3Options: "Carrot",
			Year4Options: "Green Beans",
		},
	}
}

func newRotationFixture(publisher IEventPublisher) (IRotationService, *stubWeatherService) {
	ref := &ReferenceData{Rules: rotationTestRules()}
	weather := &stubWeatherService{reading: models.WeatherReading{Temperature: 25, Humidity: 60, Rainfall: 5}}
	service := NewRotationService(ref, NewBandService(nil), NewScoringService(), weather, publisher)
	return service, weather
}

// ============================================================================
// TEST SUITE 1: RULE LOOKUP
// ============================================================================

func TestLookup_ExactMatch(t *testing.T) {
	service, _ := newRotationFixture(nil)

	plan := service.Lookup(models.BandedSoil{
		N: models.BandLow, P: models.BandLow, K: models.BandLow, PH: models.PHBandNeutral,
	})

	assert.Equal(t, []string{"Green Beans", "Peas"}, plan.Year1)
	assert.Equal(t, []string{"Cabbage", "Broccoli"}, plan.Year2)
	assert.Equal(t, []string{"Tomato", "Corn"}, plan.Year3)
	assert.Equal(t, []string{"Carrot", "Onion"}, plan.Year4)
}

func TestLookup_RelaxesPHBand(t *testing.T) {
	service, _ := newRotationFixture(nil)

	// No rule exists for Low/Low/Low alkaline; the first Low/Low/Low rule wins.
	relaxed := service.Lookup(models.BandedSoil{
		N: models.BandLow, P: models.BandLow, K: models.BandLow, PH: models.PHBandAlkaline,
	})
	exact := service.Lookup(models.BandedSoil{
		N: models.BandLow, P: models.BandLow, K: models.BandLow, PH: models.PHBandNeutral,
	})

	assert.Equal(t, exact, relaxed,
		"an unmatched pH band resolves to the same plan as the exact N/P/K match")
}

func TestLookup_NoMatchReturnsEmptyPlan(t *testing.T) {
	service, _ := newRotationFixture(nil)

	plan := service.Lookup(models.BandedSoil{
		N: models.BandHigh, P: models.BandHigh, K: models.BandHigh, PH: models.PHBandNeutral,
	})

	assert.True(t, plan.IsEmpty())
	assert.NotNil(t, plan.Year1, "empty years are empty lists, not null")
	assert.Len(t, plan.Year1, 0)
	assert.Len(t, plan.Year4, 0)
}

// ============================================================================
// TEST SUITE 2: PLAN DERIVATION
// ============================================================================

func TestPlanFromCategories(t *testing.T) {
	service, _ := newRotationFixture(nil)

	plan := service.PlanFromCategories(models.RotationPlanRequest{
		N: "N0", P: "P1", K: "K1", PHCat: "pH1",
	})

	assert.Equal(t, []string{"Green Beans", "Peas"}, plan.Year1)
}

func TestPlanFromCategories_MalformedPHRelaxes(t *testing.T) {
	service, _ := newRotationFixture(nil)

	// A malformed pH code reads as the alkaline band, which has no
	// Low/Low/Low rule, so the lookup relaxes to the first N/P/K match.
	plan := service.PlanFromCategories(models.RotationPlanRequest{
		N: "N0", P: "P0", K: "K0", PHCat: "bogus",
	})

	assert.Equal(t, []string{"Green Beans", "Peas"}, plan.Year1)
}

func TestPlanFromValues(t *testing.T) {
	service, _ := newRotationFixture(nil)

	plan := service.PlanFromValues(10, 10, 5, 5.5)

	assert.Equal(t, []string{"Peanuts", "Lupin"}, plan.Year1,
		"numeric values band to Low/Low/Low acidic")
	assert.Equal(t, []string{"Potatoes"}, plan.Year3)
}

func TestPlanForSoil(t *testing.T) {
	service, _ := newRotationFixture(nil)

	soil := neutralSoil()
	soil.Nitrogen = 0
	soil.Phosphorus = 1
	soil.Potassium = 1

	plan := service.PlanForSoil(soil)

	assert.Equal(t, []string{"Green Beans", "Peas"}, plan.Year1)
}

// ============================================================================
// TEST SUITE 3: OPTION SPLITTING
// ============================================================================

func TestSplitOptions(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"empty string", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"single option", "Tomato", []string{"Tomato"}},
		{"multiple options", "Tomato|Corn|Squash", []string{"Tomato", "Corn", "Squash"}},
		{"padded options trim", " Tomato | Corn ", []string{"Tomato", "Corn"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitOptions(tt.raw))
		})
	}
}

// ============================================================================
// TEST SUITE 4: PLAN SCORING ORCHESTRATION
// ============================================================================

func TestScorePlan_WithoutLocation(t *testing.T) {
	publisher := &capturePublisher{}
	service, weather := newRotationFixture(publisher)

	rotation := models.RotationPlan{Year1: []string{"Tomato"}}
	scored, reading := service.ScorePlan(context.Background(), models.RotationScoreRequest{
		Soil:     neutralSoil(),
		Rotation: &rotation,
	})

	assert.Nil(t, reading, "no coordinates means no weather lookup")
	assert.Equal(t, 0, weather.calls)
	assert.Equal(t, 50, scored.Year1[0].MatchPct, "the heuristic score stands unadjusted")
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, event.RotationScored, publisher.events[0].EventType)
	assert.False(t, publisher.events[0].HasWeather)
	assert.Equal(t, "Tomato", publisher.events[0].TopCrop)
	assert.Equal(t, 1, publisher.events[0].CropCount)
	assert.NotEmpty(t, publisher.events[0].ID)
	assert.Equal(t, publisher.events[0].ID, publisher.events[0].RequestID)
}

func TestScorePlan_WithCoordinates(t *testing.T) {
	publisher := &capturePublisher{}
	service, weather := newRotationFixture(publisher)

	lat, lon := 10.76, 106.66
	soil := neutralSoil()
	soil.Latitude = &lat
	soil.Longitude = &lon

	rotation := models.RotationPlan{Year1: []string{"Tomato"}}
	scored, reading := service.ScorePlan(context.Background(), models.RotationScoreRequest{
		Soil:     soil,
		Rotation: &rotation,
	})

	assert.Equal(t, 1, weather.calls)
	assert.NotNil(t, reading)
	assert.InDelta(t, 25.0, reading.Temperature, 1e-9)
	assert.Equal(t, 57, scored.Year1[0].MatchPct,
		"mild weather lifts a fruiting crop by 7")
	assert.True(t, publisher.events[0].HasWeather)
}

func TestScorePlan_WithBoundaryCentroid(t *testing.T) {
	service, weather := newRotationFixture(nil)

	boundary := &models.GeoJSONPolygon{
		Type: "Polygon",
		Coordinates: [][][]float64{{
			{106.0, 10.0}, {107.0, 10.0}, {107.0, 11.0}, {106.0, 11.0}, {106.0, 10.0},
		}},
	}
	rotation := models.RotationPlan{Year1: []string{"Tomato"}}
	_, reading := service.ScorePlan(context.Background(), models.RotationScoreRequest{
		Soil:     neutralSoil(),
		Rotation: &rotation,
		Boundary: boundary,
	})

	assert.Equal(t, 1, weather.calls, "the boundary centroid stands in for explicit coordinates")
	assert.NotNil(t, reading)
}

func TestScorePlan_DerivesPlanWhenAbsent(t *testing.T) {
	service, _ := newRotationFixture(nil)

	soil := neutralSoil()
	soil.Nitrogen = 0
	soil.Phosphorus = 1
	soil.Potassium = 1

	scored, _ := service.ScorePlan(context.Background(), models.RotationScoreRequest{Soil: soil})

	assert.Equal(t, "Green Beans", scored.Year1[0].Crop,
		"with no rotation in the request the plan comes from the soil bands")
	assert.Equal(t, models.GroupLegumes, scored.Year1[0].RotationGroup)
}

func TestScorePlan_PublisherFailureDoesNotFail(t *testing.T) {
	publisher := &capturePublisher{err: assert.AnError}
	service, _ := newRotationFixture(publisher)

	rotation := models.RotationPlan{Year1: []string{"Tomato"}}
	scored, _ := service.ScorePlan(context.Background(), models.RotationScoreRequest{
		Soil:     neutralSoil(),
		Rotation: &rotation,
	})

	assert.Len(t, scored.Year1, 1, "publishing problems never affect the response")
}

func TestScorePlan_NilPublisher(t *testing.T) {
	service, _ := newRotationFixture(nil)

	rotation := models.RotationPlan{Year1: []string{"Tomato"}}
	assert.NotPanics(t, func() {
		service.ScorePlan(context.Background(), models.RotationScoreRequest{
			Soil:     neutralSoil(),
			Rotation: &rotation,
		})
	})
}
