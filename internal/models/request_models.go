package models

// RotationPlanRequest carries the discrete category codes for a direct
// rotation table lookup, e.g. {"N":"N2","P":"P3","K":"K1","pH_cat":"pH1"}.
type RotationPlanRequest struct {
	N     string `json:"N" binding:"required"`
	P     string `json:"P" binding:"required"`
	K     string `json:"K" binding:"required"`
	PHCat string `json:"pH_cat" binding:"required"`
}

// RotationScoreRequest scores a rotation plan against a soil sample. When
// Rotation is omitted the plan is computed from the soil bands. Boundary, when
// present, resolves the plot location for weather adjustment unless the soil
// itself carries coordinates.
type RotationScoreRequest struct {
	Soil     SoilInput       `json:"soil" binding:"required"`
	Rotation *RotationPlan   `json:"rotation,omitempty"`
	Boundary *GeoJSONPolygon `json:"boundary,omitempty"`
}

// RecommendRequest carries numeric classifier features directly.
type RecommendRequest struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph" binding:"gte=0,lte=14"`
	Rainfall    float64 `json:"rainfall" binding:"gte=0"`
	TopK        int     `json:"top_k" binding:"omitempty,gte=1"`
}

// Features assembles the vector in trained feature order.
func (r RecommendRequest) Features() FeatureVector {
	return FeatureVector{
		N:           r.N,
		P:           r.P,
		K:           r.K,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		PH:          r.PH,
		Rainfall:    r.Rainfall,
	}
}

// AutoRecommendRequest derives classifier features from category codes.
// Weather features come from the plot location when one is given, otherwise
// from conservative defaults.
type AutoRecommendRequest struct {
	N         string          `json:"N" binding:"required"`
	P         string          `json:"P" binding:"required"`
	K         string          `json:"K" binding:"required"`
	PHCat     string          `json:"pH_cat" binding:"required"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
	Boundary  *GeoJSONPolygon `json:"boundary,omitempty"`
	TopK      int             `json:"top_k" binding:"omitempty,gte=1"`
}
