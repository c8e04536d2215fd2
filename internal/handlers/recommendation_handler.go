package handlers

import (
	"crop-recommendation-service/internal/models"
	"crop-recommendation-service/internal/services"
	"crop-recommendation-service/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recommendationService services.IRecommendationService
	scoringService        services.IScoringService
	weatherService        services.IWeatherService
}

func NewRecommendationHandler(
	recommendationService services.IRecommendationService,
	scoringService services.IScoringService,
	weatherService services.IWeatherService,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		scoringService:        scoringService,
		weatherService:        weatherService,
	}
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/recommendation/public/api/v1")
	group.POST("/recommend", h.Recommend)
	group.POST("/recommend/auto", h.RecommendAuto)
	group.POST("/score", h.ScoreCrops)
	group.GET("/crops", h.ListCrops)
}

// Recommend ranks crops for caller-supplied numeric soil and climate
// features.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse := utils.CreateErrorResponse("Bad Request", err.Error())
		c.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	result, err := h.recommendationService.Recommend(c.Request.Context(), req)
	if err != nil {
		errorResponse := utils.CreateErrorResponse("Internal server error", "Failed to generate recommendations: "+err.Error())
		c.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(result))
}

// RecommendAuto ranks crops for discrete category codes, resolving weather
// from the plot location when one is supplied.
func (h *RecommendationHandler) RecommendAuto(c *gin.Context) {
	var req models.AutoRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse := utils.CreateErrorResponse("Bad Request", err.Error())
		c.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	result, err := h.recommendationService.RecommendAuto(c.Request.Context(), req)
	if err != nil {
		errorResponse := utils.CreateErrorResponse("Internal server error", "Failed to generate recommendations: "+err.Error())
		c.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(result))
}

// ScoreCrops returns the heuristic soil-fit score for every crop in the
// rotation membership table. Weather adjustment applies when the soil sample
// carries coordinates.
func (h *RecommendationHandler) ScoreCrops(c *gin.Context) {
	var soil models.SoilInput
	if err := c.ShouldBindJSON(&soil); err != nil {
		errorResponse := utils.CreateErrorResponse("Bad Request", err.Error())
		c.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	var weather *models.WeatherReading
	if soil.HasLocation() {
		reading := h.weatherService.Resolve(c.Request.Context(), *soil.Latitude, *soil.Longitude)
		weather = &reading
	}

	scored := h.scoringService.ScoreAll(soil, weather)
	c.JSON(http.StatusOK, utils.CreateListResponse(scored, len(scored)))
}

// ListCrops returns the catalog of profiled crops.
func (h *RecommendationHandler) ListCrops(c *gin.Context) {
	crops := h.recommendationService.Crops()
	c.JSON(http.StatusOK, utils.CreateListResponse(crops, len(crops)))
}
