package services

import (
	"context"
	"strings"
	"time"

	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectCatalog is the project persistence capability the project service
// needs. The database ProjectStore satisfies it.
type ProjectCatalog interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	ListVisible(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	InsertMany(ctx context.Context, projects []models.Project) ([]models.Project, error)
	Update(ctx context.Context, p *models.Project) error
}

// ProjectService lists and manages projects. Reads are scoped per user,
// writes are admin only. There is no delete: projects carry historical
// feedback and stay around.
type ProjectService struct {
	projects ProjectCatalog
	logger   *observability.Logger
}

// NewProjectService creates a new ProjectService instance.
func NewProjectService(projects ProjectCatalog, logger *observability.Logger) *ProjectService {
	if projects == nil {
		panic("NewProjectService: projects store is nil")
	}
	if logger == nil {
		panic("NewProjectService: logger is nil")
	}
	return &ProjectService{projects: projects, logger: logger}
}

// List returns every project for admins and supervisors, and only the
// projects the user manages, works on or views for everyone else.
func (s *ProjectService) List(ctx context.Context, user *models.User) ([]models.Project, error) {
	if SeesAllProjects(user) {
		return s.projects.List(ctx)
	}
	return s.projects.ListVisible(ctx, user.ID)
}

// Get loads a single project the user is allowed to see.
func (s *ProjectService) Get(ctx context.Context, user *models.User, id primitive.ObjectID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAccess(user, project, ModeView) {
		s.logger.Warn(ctx, "Project access denied", map[string]interface{}{
			"user_id":    user.ID.Hex(),
			"project_id": id.Hex(),
			"operation":  ModeView.String(),
		})
		return nil, contextutils.ErrForbidden
	}
	return project, nil
}

// ProjectInput is the input for creating or updating a project.
type ProjectInput struct {
	Name        string
	Description string
	Customer    string
	Domain      string
	StartDate   time.Time
	EndDate     time.Time
	Manager     *primitive.ObjectID
	Associates  []primitive.ObjectID
	Viewers     []primitive.ObjectID
	SurveyID    *primitive.ObjectID
}

// Create registers one or more projects in a single call.
func (s *ProjectService) Create(ctx context.Context, user *models.User, inputs []ProjectInput) ([]models.Project, error) {
	if user == nil || !user.IsAdmin() {
		return nil, contextutils.ErrForbidden
	}
	if len(inputs) == 0 {
		return nil, validationError("at least one project is required")
	}

	now := time.Now()
	projects := make([]models.Project, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return nil, validationError("project name is required")
		}
		projects = append(projects, models.Project{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Customer:    in.Customer,
			Domain:      in.Domain,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Manager:     in.Manager,
			Associates:  in.Associates,
			Viewers:     in.Viewers,
			SurveyID:    in.SurveyID,
			CreatedAt:   now,
		})
	}

	created, err := s.projects.InsertMany(ctx, projects)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Projects created", map[string]interface{}{
		"user_id": user.ID.Hex(),
		"count":   len(created),
	})
	return created, nil
}

// ProjectPatch is a partial project update; nil fields stay untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
	Customer    *string
	Domain      *string
	StartDate   *time.Time
	EndDate     *time.Time
	Manager     *primitive.ObjectID
	Associates  []primitive.ObjectID
	Viewers     []primitive.ObjectID
	SurveyID    *primitive.ObjectID
}

// Update applies a partial update to a project. Rating rows written for past
// submissions keep the customer and domain they were written with.
func (s *ProjectService) Update(ctx context.Context, user *models.User, id primitive.ObjectID, patch ProjectPatch) (*models.Project, error) {
	if user == nil || !user.IsAdmin() {
		return nil, contextutils.ErrForbidden
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, validationError("project name is required")
		}
		project.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Customer != nil {
		project.Customer = *patch.Customer
	}
	if patch.Domain != nil {
		project.Domain = *patch.Domain
	}
	if patch.StartDate != nil {
		project.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		project.EndDate = *patch.EndDate
	}
	if patch.Manager != nil {
		project.Manager = patch.Manager
	}
	if patch.Associates != nil {
		project.Associates = patch.Associates
	}
	if patch.Viewers != nil {
		project.Viewers = patch.Viewers
	}
	if patch.SurveyID != nil {
		project.SurveyID = patch.SurveyID
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}
