package services

import (
	"context"
	"crop-recommendation-service/internal/event"
	"crop-recommendation-service/internal/models"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// IEventPublisher is the slice of the RabbitMQ publisher the services need.
// A nil publisher disables event publishing without changing any flow.
type IEventPublisher interface {
	PublishEvent(ctx context.Context, evt event.RecommendationEvent) error
}

type IRotationService interface {
	Lookup(banded models.BandedSoil) models.RotationPlan
	PlanFromCategories(req models.RotationPlanRequest) models.RotationPlan
	PlanFromValues(n, p, k, ph float64) models.RotationPlan
	PlanForSoil(soil models.SoilInput) models.RotationPlan
	ScorePlan(ctx context.Context, req models.RotationScoreRequest) (models.ScoredRotationPlan, *models.WeatherReading)
}

// RotationService resolves four-year rotation plans from the rule table and
// scores plan options against a soil sample.
type RotationService struct {
	ref       *ReferenceData
	bands     IBandService
	scoring   IScoringService
	weather   IWeatherService
	publisher IEventPublisher
}

func NewRotationService(ref *ReferenceData, bands IBandService, scoring IScoringService, weather IWeatherService, publisher IEventPublisher) IRotationService {
	return &RotationService{
		ref:       ref,
		bands:     bands,
		scoring:   scoring,
		weather:   weather,
		publisher: publisher,
	}
}

// Lookup finds the first rule matching all four bands. With no exact match
// the pH band is relaxed before giving up; an empty plan is a valid "no known
// rotation" result, not an error.
func (s *RotationService) Lookup(banded models.BandedSoil) models.RotationPlan {
	for i := range s.ref.Rules {
		rule := &s.ref.Rules[i]
		if rule.NBand == banded.N && rule.PBand == banded.P && rule.KBand == banded.K && rule.PHBand == banded.PH {
			return planFromRule(rule)
		}
	}

	for i := range s.ref.Rules {
		rule := &s.ref.Rules[i]
		if rule.NBand == banded.N && rule.PBand == banded.P && rule.KBand == banded.K {
			return planFromRule(rule)
		}
	}

	return models.EmptyRotationPlan()
}

// PlanFromCategories looks up a plan from discrete category codes such as
// {"N":"N2","P":"P3","K":"K1","pH_cat":"pH1"}.
func (s *RotationService) PlanFromCategories(req models.RotationPlanRequest) models.RotationPlan {
	return s.Lookup(models.BandedSoil{
		N:  s.bands.CategoryToBand(req.N),
		P:  s.bands.CategoryToBand(req.P),
		K:  s.bands.CategoryToBand(req.K),
		PH: s.bands.PHCategoryToBand(req.PHCat),
	})
}

// PlanFromValues looks up a plan from raw numeric soil measurements.
func (s *RotationService) PlanFromValues(n, p, k, ph float64) models.RotationPlan {
	return s.Lookup(s.bands.BandValues(n, p, k, ph))
}

// PlanForSoil looks up a plan from a soil sample on the discrete level scale.
func (s *RotationService) PlanForSoil(soil models.SoilInput) models.RotationPlan {
	return s.Lookup(s.bands.BandSoilLevels(soil))
}

// ScorePlan scores a rotation plan against a soil sample. When the request
// carries no plan, one is derived from the soil first. Weather adjustment
// applies only when the plot location can be resolved.
func (s *RotationService) ScorePlan(ctx context.Context, req models.RotationScoreRequest) (models.ScoredRotationPlan, *models.WeatherReading) {
	var weather *models.WeatherReading
	if lat, lon, ok := resolveCoordinates(req.Soil.Latitude, req.Soil.Longitude, req.Boundary); ok {
		reading := s.weather.Resolve(ctx, lat, lon)
		weather = &reading
	}

	var plan models.RotationPlan
	if req.Rotation != nil {
		plan = *req.Rotation
	} else {
		plan = s.PlanForSoil(req.Soil)
	}

	scored := s.scoring.ScorePlan(plan, req.Soil, weather)
	s.publishScored(ctx, scored, weather != nil)

	return scored, weather
}

func (s *RotationService) publishScored(ctx context.Context, scored models.ScoredRotationPlan, hasWeather bool) {
	if s.publisher == nil {
		return
	}

	total := len(scored.Year1) + len(scored.Year2) + len(scored.Year3) + len(scored.Year4)
	top := ""
	if len(scored.Year1) > 0 {
		top = scored.Year1[0].Crop
	}

	id := uuid.New().String()
	evt := event.RecommendationEvent{
		ID:         id,
		EventType:  event.RotationScored,
		RequestID:  id,
		TopCrop:    top,
		CropCount:  total,
		HasWeather: hasWeather,
	}
	if err := s.publisher.PublishEvent(ctx, evt); err != nil {
		slog.Warn("Failed to publish rotation scored event", "error", err)
	}
}

func planFromRule(rule *models.RotationRule) models.RotationPlan {
	return models.RotationPlan{
		Year1: splitOptions(rule.Year1Options),
		Year2: splitOptions(rule.Year2Options),
		Year3: splitOptions(rule.Year3Options),
		Year4: splitOptions(rule.Year4Options),
	}
}

func splitOptions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// resolveCoordinates picks the plot location: explicit coordinates win, then
// the boundary polygon's centroid. A bad boundary logs and resolves nothing.
func resolveCoordinates(latitude, longitude *float64, boundary *models.GeoJSONPolygon) (float64, float64, bool) {
	if latitude != nil && longitude != nil {
		return *latitude, *longitude, true
	}
	if boundary != nil {
		lat, lon, err := boundary.Centroid()
		if err != nil {
			slog.Warn("Failed to resolve boundary centroid", "error", err)
			return 0, 0, false
		}
		return lat, lon, true
	}
	return 0, 0, false
}
