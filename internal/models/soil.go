package models

// SoilInput carries the questionnaire values for one plot. Nutrient levels use
// the relative 0-5 test-kit scale, not the mg/kg scale of the observation
// dataset.
type SoilInput struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	SoilType SoilType `json:"soil_type,omitempty" binding:"omitempty,oneof=sandy clay silt peat chalk loam"`

	PH         float64 `json:"ph" binding:"gte=0,lte=14"`
	Nitrogen   int     `json:"nitrogen" binding:"gte=0,lte=5"`
	Phosphorus int     `json:"phosphorus" binding:"gte=0,lte=5"`
	Potassium  int     `json:"potassium" binding:"gte=0,lte=5"`

	HasTractor bool `json:"has_tractor"`
	Irrigation bool `json:"irrigation"`

	EasyMaintenancePreference int `json:"easy_maintenance_preference" binding:"omitempty,gte=1,lte=5"`
}

// MaintenancePreference returns the stated preference, defaulting to the
// neutral midpoint when the field was omitted.
func (s SoilInput) MaintenancePreference() int {
	if s.EasyMaintenancePreference == 0 {
		return 3
	}
	return s.EasyMaintenancePreference
}

// HasLocation reports whether the sample carries usable coordinates.
func (s SoilInput) HasLocation() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// BandedSoil is the four-band key into the rotation table.
type BandedSoil struct {
	N  NutrientBand `json:"N"`
	P  NutrientBand `json:"P"`
	K  NutrientBand `json:"K"`
	PH PHBand       `json:"pH_band"`
}
