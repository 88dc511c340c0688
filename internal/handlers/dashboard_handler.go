package handlers

import (
	"net/http"

	"feedbackapp/internal/middleware"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"
	contextutils "feedbackapp/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardHandler handles the reporting endpoints. Filters arrive in the
// request body, matching the frontend the original dashboards were built
// for.
type DashboardHandler struct {
	reportingService *services.ReportingService
	logger           *observability.Logger
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(reportingService *services.ReportingService, logger *observability.Logger) *DashboardHandler {
	return &DashboardHandler{reportingService: reportingService, logger: logger}
}

type dashboardRequest struct {
	ProjectID    string `json:"projectId"`
	Customer     string `json:"customer"`
	Domain       string `json:"domain"`
	SectionTitle string `json:"sectionTitle"`
}

func (r *dashboardRequest) toFilters() (services.ReportFilters, error) {
	filters := services.ReportFilters{
		Customer:     r.Customer,
		Domain:       r.Domain,
		SectionTitle: r.SectionTitle,
	}
	if r.ProjectID != "" {
		id, err := primitive.ObjectIDFromHex(r.ProjectID)
		if err != nil {
			return filters, err
		}
		filters.ProjectID = &id
	}
	return filters, nil
}

// History handles POST /api/dashboard/projects/history: the per-day average
// rating series.
func (h *DashboardHandler) History(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	var req dashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "invalid request body")
		return
	}
	filters, err := req.toFilters()
	if err != nil {
		HandleValidationError(c, "invalid project id")
		return
	}

	points, err := h.reportingService.History(c.Request.Context(), user, filters)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// Summary handles POST /api/dashboard/projects/summary: rating counts per
// tier.
func (h *DashboardHandler) Summary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	var req dashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "invalid request body")
		return
	}
	filters, err := req.toFilters()
	if err != nil {
		HandleValidationError(c, "invalid project id")
		return
	}

	dist, err := h.reportingService.Distribution(c.Request.Context(), user, filters)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, dist)
}
