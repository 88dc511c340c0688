package handlers

import (
	"net/http"

	"feedbackapp/internal/middleware"
	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"
	contextutils "feedbackapp/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackHandler handles feedback submission and reads.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
	logger          *observability.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler instance.
func NewFeedbackHandler(feedbackService *services.FeedbackService, logger *observability.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, logger: logger}
}

type submitFeedbackRequest struct {
	ProjectID string                   `json:"projectId" binding:"required"`
	Review    string                   `json:"review"`
	Event     string                   `json:"event"`
	Sections  []models.FeedbackSection `json:"sections" binding:"required"`
}

// Submit handles POST /api/feedbacks. The response carries the new feedback
// id and how answers moved against the submitter's previous submission for
// the same project.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "projectId and sections are required")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		HandleValidationError(c, "invalid project id")
		return
	}

	result, err := h.feedbackService.Submit(c.Request.Context(), user, services.FeedbackSubmission{
		ProjectID: projectID,
		Review:    req.Review,
		Event:     req.Event,
		Sections:  req.Sections,
	})
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Latest handles GET /api/feedbacks/latest?projectId=... and returns the
// newest feedback anyone submitted for the project.
func (h *FeedbackHandler) Latest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	projectID, err := primitive.ObjectIDFromHex(c.Query("projectId"))
	if err != nil {
		HandleValidationError(c, "projectId query parameter is required")
		return
	}

	feedback, err := h.feedbackService.Latest(c.Request.Context(), user, projectID)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// History handles GET /api/feedbacks?projectId=...&event=... and lists
// feedbacks the caller may see, newest first.
func (h *FeedbackHandler) History(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	q := services.HistoryQuery{Event: c.Query("event")}
	if raw := c.Query("projectId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			HandleValidationError(c, "invalid project id")
			return
		}
		q.ProjectID = &id
	}

	feedbacks, err := h.feedbackService.History(c.Request.Context(), user, q)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbacks)
}

type replaceSectionsRequest struct {
	Sections []models.FeedbackSection `json:"sections" binding:"required"`
}

// ReplaceSections handles PATCH /api/feedbacks/:id. Only the submitter or an
// admin may edit a snapshot after the fact.
func (h *FeedbackHandler) ReplaceSections(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		HandleValidationError(c, "invalid feedback id")
		return
	}

	var req replaceSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "sections are required")
		return
	}

	if err := h.feedbackService.ReplaceSections(c.Request.Context(), user, id, req.Sections); err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback updated"})
}
