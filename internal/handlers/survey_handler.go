package handlers

import (
	"net/http"
	"time"

	"feedbackapp/internal/middleware"
	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"
	contextutils "feedbackapp/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyHandler handles the survey template endpoints.
type SurveyHandler struct {
	surveyService *services.SurveyService
	logger        *observability.Logger
}

// NewSurveyHandler creates a new SurveyHandler instance.
func NewSurveyHandler(surveyService *services.SurveyService, logger *observability.Logger) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService, logger: logger}
}

// List handles GET /api/surveys.
func (h *SurveyHandler) List(c *gin.Context) {
	surveys, err := h.surveyService.List(c.Request.Context())
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveys)
}

// Get handles GET /api/surveys/:id.
func (h *SurveyHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		HandleValidationError(c, "invalid survey id")
		return
	}

	survey, err := h.surveyService.Get(c.Request.Context(), id)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

type surveyRequest struct {
	Description string                 `json:"description" binding:"required"`
	StartDate   *time.Time             `json:"startDate"`
	EndDate     *time.Time             `json:"endDate"`
	Sections    []models.SurveySection `json:"sections"`
}

func (r *surveyRequest) toModel() *models.Survey {
	sv := &models.Survey{
		Description: r.Description,
		Sections:    r.Sections,
	}
	if r.StartDate != nil {
		sv.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		sv.EndDate = *r.EndDate
	}
	return sv
}

// Create handles POST /api/surveys.
func (h *SurveyHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	var req surveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "survey description is required")
		return
	}

	survey, err := h.surveyService.Create(c.Request.Context(), user, req.toModel())
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

// Update handles PATCH /api/surveys/:id.
func (h *SurveyHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		HandleValidationError(c, "invalid survey id")
		return
	}

	var req surveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "survey description is required")
		return
	}

	survey, err := h.surveyService.Update(c.Request.Context(), user, id, req.toModel())
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}
