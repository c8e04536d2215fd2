package models

// CropCard is one presented recommendation: classifier output merged with
// heuristic reasons and, when a location was resolved, climate compatibility.
type CropCard struct {
	Name             string            `json:"name"`
	Probability      float64           `json:"probability"`
	Percent          float64           `json:"percent"`
	Reasons          []string          `json:"reasons"`
	WeatherScore     *float64          `json:"weather_score,omitempty"`
	WeatherBreakdown *WeatherBreakdown `json:"weather_breakdown,omitempty"`
	WeatherReasons   []string          `json:"weather_reasons,omitempty"`
}

// RecommendationResult is the /recommend response payload.
type RecommendationResult struct {
	RequestID       string          `json:"request_id"`
	Recommendations []CropCard      `json:"recommendations"`
	Weather         *WeatherReading `json:"weather,omitempty"`
}

// CropInfo describes one profiled crop for the catalog endpoint.
type CropInfo struct {
	Name            string             `json:"name"`
	RotationGroup   RotationGroup      `json:"rotation_group"`
	Climate         CropClimateProfile `json:"climate"`
	TypicalFeatures FeatureVector      `json:"typical_features"`
}
