package event

const RecommendationQueue string = "recommendation_events"

type RecommendationEvent struct {
	ID         string                  `json:"id"`
	EventType  RecommendationEventType `json:"event_type"`
	RequestID  string                  `json:"request_id"`
	TopCrop    string                  `json:"top_crop"`
	CropCount  int                     `json:"crop_count"`
	HasWeather bool                    `json:"has_weather"`
	Additional map[string]any          `json:"additional"`
}

type RecommendationEventType string

const (
	RecommendationGenerated RecommendationEventType = "recommendation_generated"
	RotationScored          RecommendationEventType = "rotation_scored"
)
