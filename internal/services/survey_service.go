package services

import (
	"context"
	"fmt"
	"strings"

	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyStore is the survey persistence capability the survey service needs.
type SurveyStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)
	List(ctx context.Context) ([]models.Survey, error)
	Insert(ctx context.Context, sv *models.Survey) error
	Update(ctx context.Context, sv *models.Survey) error
}

// SurveyService manages survey templates. Any authenticated user can read
// them; only admins can create or change them.
type SurveyService struct {
	surveys SurveyStore
	logger  *observability.Logger
}

// NewSurveyService creates a new SurveyService instance.
func NewSurveyService(surveys SurveyStore, logger *observability.Logger) *SurveyService {
	if surveys == nil {
		panic("NewSurveyService: surveys store is nil")
	}
	if logger == nil {
		panic("NewSurveyService: logger is nil")
	}
	return &SurveyService{surveys: surveys, logger: logger}
}

// List returns all survey templates.
func (s *SurveyService) List(ctx context.Context) ([]models.Survey, error) {
	return s.surveys.List(ctx)
}

// Get loads a single survey template.
func (s *SurveyService) Get(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	return s.surveys.GetByID(ctx, id)
}

// Create registers a new survey template.
func (s *SurveyService) Create(ctx context.Context, user *models.User, sv *models.Survey) (*models.Survey, error) {
	if user == nil || !user.IsAdmin() {
		return nil, contextutils.ErrForbidden
	}
	if err := validateSurvey(sv); err != nil {
		return nil, err
	}
	if err := s.surveys.Insert(ctx, sv); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Survey created", map[string]interface{}{
		"user_id":   user.ID.Hex(),
		"survey_id": sv.ID.Hex(),
	})
	return sv, nil
}

// Update replaces a survey template. Feedback already submitted keeps its own
// snapshot of sections and questions and is not rewritten.
func (s *SurveyService) Update(ctx context.Context, user *models.User, id primitive.ObjectID, sv *models.Survey) (*models.Survey, error) {
	if user == nil || !user.IsAdmin() {
		return nil, contextutils.ErrForbidden
	}
	if err := validateSurvey(sv); err != nil {
		return nil, err
	}

	existing, err := s.surveys.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Description = sv.Description
	existing.StartDate = sv.StartDate
	existing.EndDate = sv.EndDate
	existing.Sections = sv.Sections
	if err := s.surveys.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// validateSurvey checks the structural rules: a non-empty description, and
// section and question orders unique within their parent.
func validateSurvey(sv *models.Survey) error {
	if sv == nil || strings.TrimSpace(sv.Description) == "" {
		return validationError("survey description is required")
	}
	sectionOrders := make(map[int]bool, len(sv.Sections))
	for _, section := range sv.Sections {
		if strings.TrimSpace(section.Title) == "" {
			return validationError("section title is required")
		}
		if sectionOrders[section.Order] {
			return validationError(fmt.Sprintf("duplicate section order %d", section.Order))
		}
		sectionOrders[section.Order] = true

		questionOrders := make(map[int]bool, len(section.Questions))
		for _, q := range section.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return validationError(fmt.Sprintf("question text is required in section %q", section.Title))
			}
			if questionOrders[q.Order] {
				return validationError(fmt.Sprintf("duplicate question order %d in section %q", q.Order, section.Title))
			}
			questionOrders[q.Order] = true
		}
	}
	return nil
}
