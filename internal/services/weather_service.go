package services

import (
	"context"
	"crop-recommendation-service/internal/config"
	"crop-recommendation-service/internal/models"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type IWeatherService interface {
	FetchCurrent(ctx context.Context, latitude, longitude float64) (models.WeatherReading, error)
	Resolve(ctx context.Context, latitude, longitude float64) models.WeatherReading
	Seasonal(ctx context.Context, latitude, longitude float64, year int) (*models.SeasonalWeather, error)
}

// WeatherService fetches temperature, humidity and rainfall from the
// Open-Meteo public API, with a Redis cache in front of the current-weather
// endpoint. It never surfaces provider failures to scoring callers; Resolve
// degrades to a conservative default reading instead.
type WeatherService struct {
	cfg         config.WeatherAPIConfig
	httpClient  *http.Client
	redisClient *redis.Client
}

// NewWeatherService builds the weather collaborator. redisClient may be nil,
// which disables caching.
func NewWeatherService(cfg config.WeatherAPIConfig, redisClient *redis.Client) IWeatherService {
	return &WeatherService{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		redisClient: redisClient,
	}
}

// DefaultWeather is the conservative reading used when the provider cannot
// be reached.
func DefaultWeather() models.WeatherReading {
	return models.WeatherReading{Temperature: 20.0, Humidity: 60.0, Rainfall: 0.0}
}

type openMeteoForecastResponse struct {
	Current struct {
		Temperature2m      *float64 `json:"temperature_2m"`
		RelativeHumidity2m *float64 `json:"relative_humidity_2m"`
		// Legacy spelling still returned by some Open-Meteo deployments
		RelativeHumidityLegacy *float64 `json:"relativehumidity_2m"`
		Precipitation          *float64 `json:"precipitation"`
	} `json:"current"`
	Daily struct {
		PrecipitationSum []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

type openMeteoArchiveResponse struct {
	Daily struct {
		Temperature2mMean      []*float64 `json:"temperature_2m_mean"`
		RelativeHumidity2mMean []*float64 `json:"relative_humidity_2m_mean"`
		PrecipitationSum       []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// FetchCurrent calls the forecast API for the current conditions at a
// location. Rainfall is the most recent daily precipitation sum, falling back
// to the current precipitation value.
func (s *WeatherService) FetchCurrent(ctx context.Context, latitude, longitude float64) (models.WeatherReading, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("current", "temperature_2m,relative_humidity_2m,precipitation")
	params.Set("daily", "precipitation_sum")
	params.Set("past_days", "1")
	params.Set("forecast_days", "1")

	var payload openMeteoForecastResponse
	if err := s.getJSON(ctx, fmt.Sprintf("%s?%s", s.cfg.ForecastURL, params.Encode()), &payload); err != nil {
		return models.WeatherReading{}, err
	}

	reading := DefaultWeather()
	if payload.Current.Temperature2m != nil {
		reading.Temperature = *payload.Current.Temperature2m
	}
	if payload.Current.RelativeHumidity2m != nil {
		reading.Humidity = *payload.Current.RelativeHumidity2m
	} else if payload.Current.RelativeHumidityLegacy != nil {
		reading.Humidity = *payload.Current.RelativeHumidityLegacy
	}

	daily := payload.Daily.PrecipitationSum
	if len(daily) > 0 {
		if last := daily[len(daily)-1]; last != nil {
			reading.Rainfall = *last
		}
	} else if payload.Current.Precipitation != nil {
		reading.Rainfall = *payload.Current.Precipitation
	}

	return reading, nil
}

// Resolve returns current weather for a location, consulting the cache
// first. Provider failures degrade to the default reading so scoring can
// always proceed.
func (s *WeatherService) Resolve(ctx context.Context, latitude, longitude float64) models.WeatherReading {
	key := fmt.Sprintf("weather:current:%.4f:%.4f", latitude, longitude)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, key).Bytes(); err == nil {
			var reading models.WeatherReading
			if err := json.Unmarshal(cached, &reading); err == nil {
				return reading
			}
		}
	}

	reading, err := s.FetchCurrent(ctx, latitude, longitude)
	if err != nil {
		slog.Warn("Weather fetch failed, using default reading",
			"latitude", latitude,
			"longitude", longitude,
			"error", err)
		return DefaultWeather()
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(reading); err == nil {
			ttl := time.Duration(s.cfg.CacheTTLMinutes) * time.Minute
			if err := s.redisClient.Set(ctx, key, data, ttl).Err(); err != nil {
				slog.Warn("Failed to cache weather reading", "key", key, "error", err)
			}
		}
	}

	return reading
}

// Seasonal aggregates the March-May growing season for a year from the
// archive API: mean temperature, mean humidity, total rainfall. A year of 0
// defaults to the previous calendar year, the latest with complete archives.
func (s *WeatherService) Seasonal(ctx context.Context, latitude, longitude float64, year int) (*models.SeasonalWeather, error) {
	if year <= 0 {
		year = time.Now().Year() - 1
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("start_date", fmt.Sprintf("%d-03-01", year))
	params.Set("end_date", fmt.Sprintf("%d-05-31", year))
	params.Set("daily", "temperature_2m_mean,relative_humidity_2m_mean,precipitation_sum")
	params.Set("timezone", "auto")

	var payload openMeteoArchiveResponse
	if err := s.getJSON(ctx, fmt.Sprintf("%s?%s", s.cfg.ArchiveURL, params.Encode()), &payload); err != nil {
		return nil, err
	}

	temps := nonNilValues(payload.Daily.Temperature2mMean)
	if len(temps) == 0 {
		return nil, fmt.Errorf("no archive temperature data for %d at (%.4f, %.4f)", year, latitude, longitude)
	}
	humidity := nonNilValues(payload.Daily.RelativeHumidity2mMean)
	rainfall := nonNilValues(payload.Daily.PrecipitationSum)

	total := 0.0
	for _, r := range rainfall {
		total += r
	}

	return &models.SeasonalWeather{
		Location:    fmt.Sprintf("(%.4f, %.4f)", latitude, longitude),
		Period:      fmt.Sprintf("March-May %d", year),
		Temperature: round1(meanOf(temps)),
		Humidity:    round1(meanOf(humidity)),
		Rainfall:    round1(total),
	}, nil
}

func (s *WeatherService) getJSON(ctx context.Context, requestURL string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call weather API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read weather response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("Weather API returned non-200 status",
			"status", resp.StatusCode,
			"body", string(body))
		return fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse weather response: %w", err)
	}
	return nil
}

func nonNilValues(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
