package handlers

import (
	"net/http"
	"time"

	"feedbackapp/internal/middleware"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"
	contextutils "feedbackapp/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHandler handles the project endpoints. Reads are scoped per user,
// writes are admin only, and DELETE is intentionally not registered.
type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *observability.Logger
}

// NewProjectHandler creates a new ProjectHandler instance.
func NewProjectHandler(projectService *services.ProjectService, logger *observability.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, logger: logger}
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	projects, err := h.projectService.List(c.Request.Context(), user)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Get handles GET /api/projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		HandleValidationError(c, "invalid project id")
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), user, id)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type projectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Customer    string     `json:"customer"`
	Domain      string     `json:"domain"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Manager     *string    `json:"manager"`
	Associates  []string   `json:"associates"`
	Viewers     []string   `json:"viewers"`
	SurveyID    *string    `json:"surveyId"`
}

func (r *projectRequest) toInput() (services.ProjectInput, error) {
	in := services.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		Customer:    r.Customer,
		Domain:      r.Domain,
	}
	if r.StartDate != nil {
		in.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		in.EndDate = *r.EndDate
	}
	var err error
	if in.Manager, err = parseOptionalID(r.Manager); err != nil {
		return in, err
	}
	if in.SurveyID, err = parseOptionalID(r.SurveyID); err != nil {
		return in, err
	}
	if in.Associates, err = parseIDs(r.Associates); err != nil {
		return in, err
	}
	if in.Viewers, err = parseIDs(r.Viewers); err != nil {
		return in, err
	}
	return in, nil
}

// Create handles POST /api/projects. The body is an array so several
// projects can be registered in one call.
func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	var reqs []projectRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		HandleValidationError(c, "request body must be an array of projects with a name each")
		return
	}

	inputs := make([]services.ProjectInput, 0, len(reqs))
	for _, r := range reqs {
		in, err := r.toInput()
		if err != nil {
			HandleValidationError(c, err.Error())
			return
		}
		inputs = append(inputs, in)
	}

	projects, err := h.projectService.Create(c.Request.Context(), user, inputs)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projects)
}

type projectPatchRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Customer    *string    `json:"customer"`
	Domain      *string    `json:"domain"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Manager     *string    `json:"manager"`
	Associates  []string   `json:"associates"`
	Viewers     []string   `json:"viewers"`
	SurveyID    *string    `json:"surveyId"`
}

// Update handles PATCH /api/projects/:id.
func (h *ProjectHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		HandleValidationError(c, "invalid project id")
		return
	}

	var req projectPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "invalid request body")
		return
	}

	patch := services.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Customer:    req.Customer,
		Domain:      req.Domain,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if patch.Manager, err = parseOptionalID(req.Manager); err != nil {
		HandleValidationError(c, err.Error())
		return
	}
	if patch.SurveyID, err = parseOptionalID(req.SurveyID); err != nil {
		HandleValidationError(c, err.Error())
		return
	}
	if patch.Associates, err = parseIDs(req.Associates); err != nil {
		HandleValidationError(c, err.Error())
		return
	}
	if patch.Viewers, err = parseIDs(req.Viewers); err != nil {
		HandleValidationError(c, err.Error())
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), user, id, patch)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
