package services

import (
	"context"
	"crop-recommendation-service/internal/event"
	"crop-recommendation-service/internal/ml/classifier"
	"crop-recommendation-service/internal/models"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"
)

type IRecommendationService interface {
	Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendationResult, error)
	RecommendAuto(ctx context.Context, req models.AutoRecommendRequest) (*models.RecommendationResult, error)
	Assemble(preds []classifier.Prediction, features models.FeatureVector, k int, weather *models.WeatherReading) []models.CropCard
	Crops() []models.CropInfo
}

// RecommendationService is the convergence point of the engine: classifier
// probabilities, heuristic reasons and climate compatibility merged into
// ranked crop cards.
type RecommendationService struct {
	ref         *ReferenceData
	bands       IBandService
	scoring     IScoringService
	climate     IClimateScoreService
	weather     IWeatherService
	classifier  classifier.IClassifier
	publisher   IEventPublisher
	defaultTopK int
}

func NewRecommendationService(
	ref *ReferenceData,
	bands IBandService,
	scoring IScoringService,
	climate IClimateScoreService,
	weather IWeatherService,
	clf classifier.IClassifier,
	publisher IEventPublisher,
	defaultTopK int,
) IRecommendationService {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &RecommendationService{
		ref:         ref,
		bands:       bands,
		scoring:     scoring,
		climate:     climate,
		weather:     weather,
		classifier:  clf,
		publisher:   publisher,
		defaultTopK: defaultTopK,
	}
}

// Recommend ranks crops for caller-supplied numeric features.
func (s *RecommendationService) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendationResult, error) {
	k := req.TopK
	if k <= 0 {
		k = s.defaultTopK
	}

	features := req.Features()
	preds, err := s.classifier.PredictTopK(ctx, features, k)
	if err != nil {
		return nil, fmt.Errorf("classifier prediction failed: %w", err)
	}

	result := &models.RecommendationResult{
		RequestID:       uuid.New().String(),
		Recommendations: s.Assemble(preds, features, k, nil),
	}

	s.publishGenerated(ctx, result, false)
	return result, nil
}

// RecommendAuto ranks crops for discrete category codes, deriving numeric
// features from representative band values and, when a location resolves,
// live weather. Without a location the conservative default reading feeds the
// classifier but no weather attachments are produced.
func (s *RecommendationService) RecommendAuto(ctx context.Context, req models.AutoRecommendRequest) (*models.RecommendationResult, error) {
	k := req.TopK
	if k <= 0 {
		k = s.defaultTopK
	}

	var weather *models.WeatherReading
	reading := DefaultWeather()
	if lat, lon, ok := resolveCoordinates(req.Latitude, req.Longitude, req.Boundary); ok {
		reading = s.weather.Resolve(ctx, lat, lon)
		weather = &reading
	}

	features := models.FeatureVector{
		N:           s.bands.RepresentativeValue(models.FeatureNitrogen, s.bands.ParseCategoryIndex(req.N)),
		P:           s.bands.RepresentativeValue(models.FeaturePhosphorus, s.bands.ParseCategoryIndex(req.P)),
		K:           s.bands.RepresentativeValue(models.FeaturePotassium, s.bands.ParseCategoryIndex(req.K)),
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		PH:          s.bands.PHBandValue(s.bands.PHCategoryToBand(req.PHCat)),
		Rainfall:    reading.Rainfall,
	}

	preds, err := s.classifier.PredictTopK(ctx, features, k)
	if err != nil {
		return nil, fmt.Errorf("classifier prediction failed: %w", err)
	}

	result := &models.RecommendationResult{
		RequestID:       uuid.New().String(),
		Recommendations: s.Assemble(preds, features, k, weather),
		Weather:         weather,
	}

	s.publishGenerated(ctx, result, weather != nil)
	return result, nil
}

// Assemble turns classifier predictions into presented crop cards: top-k by
// probability (stable on ties), percentages normalized over the selection,
// up to three heuristic reasons each, and climate attachments when a weather
// reading is present.
func (s *RecommendationService) Assemble(preds []classifier.Prediction, features models.FeatureVector, k int, weather *models.WeatherReading) []models.CropCard {
	if k <= 0 {
		k = s.defaultTopK
	}

	sorted := append([]classifier.Prediction(nil), preds...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Probability > sorted[j].Probability
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}

	sum := 0.0
	for _, p := range sorted {
		sum += p.Probability
	}

	cards := make([]models.CropCard, 0, len(sorted))
	for _, p := range sorted {
		percent := 0.0
		if sum > 0 {
			percent = round1(100 * p.Probability / sum)
		}

		card := models.CropCard{
			Name:        p.Crop,
			Probability: p.Probability,
			Percent:     percent,
			Reasons:     s.reasonsFor(p.Crop, features),
		}

		if weather != nil {
			ws := s.climate.ScoreCrop(p.Crop, *weather)
			breakdown := ws.Breakdown
			card.WeatherScore = &ws.Score
			card.WeatherBreakdown = &breakdown
			card.WeatherReasons = ws.Reasons
		}

		cards = append(cards, card)
	}

	return cards
}

// reasonsFor explains a recommendation from the crop's typical feature
// means: first three satisfied checks in fixed order.
func (s *RecommendationService) reasonsFor(crop string, f models.FeatureVector) []string {
	means, ok := s.ref.Means[crop]
	if !ok {
		means = models.FeatureVector{PH: 7.0, Temperature: 20, Humidity: 50}
	}

	var reasons []string
	if math.Abs(f.PH-means.PH) <= 0.4 {
		reasons = append(reasons, fmt.Sprintf("pH %.1f near typical %.1f", f.PH, means.PH))
	}
	if f.N >= means.N {
		reasons = append(reasons, "Soil N adequate")
	}
	if f.Rainfall >= means.Rainfall*0.9 {
		reasons = append(reasons, "Rainfall close to crop norm")
	}
	if math.Abs(f.Temperature-means.Temperature) <= 3 {
		reasons = append(reasons, fmt.Sprintf("Temperature %.1f°C suitable", f.Temperature))
	}
	if math.Abs(f.Humidity-means.Humidity) <= 10 {
		reasons = append(reasons, fmt.Sprintf("Humidity %.1f%% appropriate", f.Humidity))
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return reasons
}

// Crops lists every profiled crop with its rotation group, climate profile
// and typical features.
func (s *RecommendationService) Crops() []models.CropInfo {
	infos := make([]models.CropInfo, 0, len(s.ref.Crops))
	for _, crop := range s.ref.Crops {
		infos = append(infos, models.CropInfo{
			Name:            crop,
			RotationGroup:   s.scoring.GroupForCrop(crop),
			Climate:         s.ref.Profiles[crop],
			TypicalFeatures: s.ref.Means[crop],
		})
	}
	return infos
}

func (s *RecommendationService) publishGenerated(ctx context.Context, result *models.RecommendationResult, hasWeather bool) {
	if s.publisher == nil {
		return
	}

	top := ""
	if len(result.Recommendations) > 0 {
		top = result.Recommendations[0].Name
	}

	evt := event.RecommendationEvent{
		ID:         uuid.New().String(),
		EventType:  event.RecommendationGenerated,
		RequestID:  result.RequestID,
		TopCrop:    top,
		CropCount:  len(result.Recommendations),
		HasWeather: hasWeather,
	}
	if err := s.publisher.PublishEvent(ctx, evt); err != nil {
		slog.Warn("Failed to publish recommendation event",
			"request_id", result.RequestID,
			"error", err)
	}
}
