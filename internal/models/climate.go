package models

// WeatherReading is one resolved set of conditions for a location.
type WeatherReading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// SeasonalWeather is the March-May growing season aggregate for a year:
// mean temperature, mean humidity, total rainfall.
type SeasonalWeather struct {
	Location    string  `json:"location"`
	Period      string  `json:"period"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// CropObservation is one historical record of the conditions a crop was grown
// under. N/P/K are in the dataset's mg/kg scale.
type CropObservation struct {
	ID          int64   `db:"id" json:"id"`
	Label       string  `db:"label" json:"label"`
	Nitrogen    float64 `db:"nitrogen" json:"N"`
	Phosphorus  float64 `db:"phosphorus" json:"P"`
	Potassium   float64 `db:"potassium" json:"K"`
	Temperature float64 `db:"temperature" json:"temperature"`
	Humidity    float64 `db:"humidity" json:"humidity"`
	PH          float64 `db:"ph" json:"ph"`
	Rainfall    float64 `db:"rainfall" json:"rainfall"`
}

// ClimateStats summarizes one weather variable's empirical distribution for a
// crop. Std is the sample standard deviation.
type ClimateStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// CropClimateProfile is the per-crop reference climate, aggregated once at
// startup from the observation table.
type CropClimateProfile struct {
	Temperature ClimateStats `json:"temperature"`
	Humidity    ClimateStats `json:"humidity"`
	Rainfall    ClimateStats `json:"rainfall"`
}

// WeatherBreakdown carries the per-variable climate compatibility scores.
type WeatherBreakdown struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// WeatherScore is the climate compatibility result for one crop.
type WeatherScore struct {
	Score     float64          `json:"score"`
	Breakdown WeatherBreakdown `json:"breakdown"`
	Reasons   []string         `json:"reasons"`
}

// CropWeatherScore is one entry of the all-crop climate ranking.
type CropWeatherScore struct {
	Crop         string           `json:"crop"`
	WeatherScore float64          `json:"weather_score"`
	Breakdown    WeatherBreakdown `json:"breakdown"`
	Reasons      []string         `json:"reasons"`
}

// FeatureVector is the classifier input, in the trained feature order
// N, P, K, temperature, humidity, ph, rainfall. It doubles as the per-crop
// feature means record used for recommendation reasons.
type FeatureVector struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}
