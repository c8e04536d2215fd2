package handlers

import (
	"crop-recommendation-service/internal/models"
	"crop-recommendation-service/internal/services"
	"crop-recommendation-service/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RotationHandler struct {
	rotationService services.IRotationService
}

func NewRotationHandler(rotationService services.IRotationService) *RotationHandler {
	return &RotationHandler{rotationService: rotationService}
}

func (h *RotationHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/rotation/public/api/v1")
	group.POST("/plan", h.PlanRotation)
	group.POST("/score", h.ScoreRotation)
}

// PlanRotation resolves a four-year rotation plan from discrete category
// codes. An unmatched key combination yields four empty option lists.
func (h *RotationHandler) PlanRotation(c *gin.Context) {
	var req models.RotationPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse := utils.CreateErrorResponse("Bad Request", err.Error())
		c.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	plan := h.rotationService.PlanFromCategories(req)
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(plan))
}

// ScoreRotation scores every option of a rotation plan against a soil
// sample, deriving the plan from the soil bands when none is supplied.
func (h *RotationHandler) ScoreRotation(c *gin.Context) {
	var req models.RotationScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse := utils.CreateErrorResponse("Bad Request", err.Error())
		c.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	scored, weather := h.rotationService.ScorePlan(c.Request.Context(), req)

	data := gin.H{"plan": scored}
	if weather != nil {
		data["weather"] = weather
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(data))
}
