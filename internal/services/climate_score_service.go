package services

import (
	"crop-recommendation-service/internal/models"
	"fmt"
	"math"
	"sort"
)

type IClimateScoreService interface {
	ScoreCrop(crop string, weather models.WeatherReading) models.WeatherScore
	AllCropScores(weather models.WeatherReading) []models.CropWeatherScore
}

// ClimateScoreService rates how well a weather reading suits each crop's
// empirical climate profile on a 0-100 scale.
type ClimateScoreService struct {
	ref *ReferenceData
}

func NewClimateScoreService(ref *ReferenceData) IClimateScoreService {
	return &ClimateScoreService{ref: ref}
}

// ScoreCrop scores one crop against a weather reading. Crops without a
// climate profile score 0 with a single "Unknown crop type" reason.
func (s *ClimateScoreService) ScoreCrop(crop string, weather models.WeatherReading) models.WeatherScore {
	profile, ok := s.ref.Profiles[crop]
	if !ok {
		return models.WeatherScore{
			Score:     0,
			Breakdown: models.WeatherBreakdown{},
			Reasons:   []string{"Unknown crop type"},
		}
	}

	tempScore := variableScore(weather.Temperature, profile.Temperature)
	humidityScore := variableScore(weather.Humidity, profile.Humidity)
	rainfallScore := variableScore(weather.Rainfall, profile.Rainfall)

	overall := tempScore*0.4 + humidityScore*0.3 + rainfallScore*0.3

	reasons := []string{
		climateReason("Temperature", "°C", crop, weather.Temperature, tempScore),
		climateReason("Humidity", "%", crop, weather.Humidity, humidityScore),
		climateReason("Rainfall", "mm", crop, weather.Rainfall, rainfallScore),
	}

	return models.WeatherScore{
		Score: round1(overall),
		Breakdown: models.WeatherBreakdown{
			Temperature: round1(tempScore),
			Humidity:    round1(humidityScore),
			Rainfall:    round1(rainfallScore),
		},
		Reasons: reasons,
	}
}

// AllCropScores scores every known crop, highest first. Ties keep the
// alphabetical crop order.
func (s *ClimateScoreService) AllCropScores(weather models.WeatherReading) []models.CropWeatherScore {
	scores := make([]models.CropWeatherScore, 0, len(s.ref.Crops))
	for _, crop := range s.ref.Crops {
		result := s.ScoreCrop(crop, weather)
		scores = append(scores, models.CropWeatherScore{
			Crop:         crop,
			WeatherScore: result.Score,
			Breakdown:    result.Breakdown,
			Reasons:      result.Reasons,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].WeatherScore > scores[j].WeatherScore
	})
	return scores
}

// variableScore rates one weather variable against its empirical stats.
// Within one standard deviation of the mean the score is 100; inside the
// observed range it interpolates down to 50 at the bounds; outside it decays
// exponentially toward 0 from 50 at the nearest bound.
func variableScore(value float64, stats models.ClimateStats) float64 {
	// Degenerate profile, every value counts as in range
	if stats.Max <= stats.Min {
		return 100
	}

	optimalMin := stats.Mean - stats.Std
	optimalMax := stats.Mean + stats.Std

	var score float64
	switch {
	case value >= optimalMin && value <= optimalMax:
		score = 100
	case value >= stats.Min && value <= stats.Max:
		if value < optimalMin {
			ratio := (value - stats.Min) / (optimalMin - stats.Min)
			score = 50 + ratio*50
		} else {
			ratio := (value - optimalMax) / (stats.Max - optimalMax)
			score = 100 - ratio*50
		}
	default:
		distance := stats.Min - value
		if value > stats.Max {
			distance = value - stats.Max
		}
		normalized := distance / (stats.Max - stats.Min)
		score = 50 * math.Exp(-3*normalized)
	}

	return math.Max(0, math.Min(100, score))
}

func climateReason(variable, unit, crop string, value, score float64) string {
	switch {
	case score >= 80:
		return fmt.Sprintf("%s is ideal for %s (%.1f%s)", variable, crop, value, unit)
	case score >= 60:
		return fmt.Sprintf("%s is good for %s (%.1f%s)", variable, crop, value, unit)
	case score >= 40:
		return fmt.Sprintf("%s is acceptable for %s (%.1f%s)", variable, crop, value, unit)
	default:
		return fmt.Sprintf("%s may be challenging for %s (%.1f%s)", variable, crop, value, unit)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
