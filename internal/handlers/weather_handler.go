package handlers

import (
	"crop-recommendation-service/internal/services"
	"crop-recommendation-service/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type WeatherHandler struct {
	weatherService services.IWeatherService
	climateService services.IClimateScoreService
}

func NewWeatherHandler(weatherService services.IWeatherService, climateService services.IClimateScoreService) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
		climateService: climateService,
	}
}

func (h *WeatherHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/weather/public/api/v1")
	group.GET("/current", h.GetCurrentWeather)
	group.GET("/season", h.GetSeasonalWeather)
	group.GET("/crop-scores", h.GetCropScores)
}

// GetCurrentWeather returns the live reading for a coordinate pair.
func (h *WeatherHandler) GetCurrentWeather(c *gin.Context) {
	lat, lon, ok := parseCoordinates(c)
	if !ok {
		return
	}

	reading, err := h.weatherService.FetchCurrent(c.Request.Context(), lat, lon)
	if err != nil {
		errorResponse := utils.CreateErrorResponse("Internal server error", "Failed to fetch weather data")
		c.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(reading))
}

// GetSeasonalWeather returns the March-May growing season aggregate for a
// year. Without a year parameter the previous calendar year is used.
func (h *WeatherHandler) GetSeasonalWeather(c *gin.Context) {
	lat, lon, ok := parseCoordinates(c)
	if !ok {
		return
	}

	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			errorResponse := utils.CreateErrorResponse("Bad Request", "year must be an integer")
			c.JSON(http.StatusBadRequest, errorResponse)
			return
		}
		year = parsed
	}

	seasonal, err := h.weatherService.Seasonal(c.Request.Context(), lat, lon, year)
	if err != nil {
		errorResponse := utils.CreateErrorResponse("Internal server error", "Failed to fetch seasonal weather data")
		c.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(seasonal))
}

// GetCropScores rates every profiled crop against the current weather at a
// coordinate pair, best fit first.
func (h *WeatherHandler) GetCropScores(c *gin.Context) {
	lat, lon, ok := parseCoordinates(c)
	if !ok {
		return
	}

	reading := h.weatherService.Resolve(c.Request.Context(), lat, lon)
	scores := h.climateService.AllCropScores(reading)

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"weather": reading,
		"scores":  scores,
	}))
}

func parseCoordinates(c *gin.Context) (float64, float64, bool) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		errorResponse := utils.CreateErrorResponse("Bad Request", "Latitude and Longitude are required")
		c.JSON(http.StatusBadRequest, errorResponse)
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		errorResponse := utils.CreateErrorResponse("Bad Request", "lat must be a number")
		c.JSON(http.StatusBadRequest, errorResponse)
		return 0, 0, false
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		errorResponse := utils.CreateErrorResponse("Bad Request", "lon must be a number")
		c.JSON(http.StatusBadRequest, errorResponse)
		return 0, 0, false
	}

	return lat, lon, true
}
