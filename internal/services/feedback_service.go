package services

import (
	"context"

	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStore is the project persistence capability the services need.
type ProjectStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	ListVisibleIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// FeedbackStore is the feedback persistence capability the feedback service
// needs.
type FeedbackStore interface {
	Insert(ctx context.Context, f *models.Feedback) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error)
	LatestByUserAndProject(ctx context.Context, userID, projectID, excludeID primitive.ObjectID) (*models.Feedback, error)
	LatestByProject(ctx context.Context, projectID primitive.ObjectID) (*models.Feedback, error)
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error)
	ReplaceSections(ctx context.Context, id primitive.ObjectID, sections []models.FeedbackSection) error
}

// RatingWriter persists denormalized rating rows.
type RatingWriter interface {
	InsertMany(ctx context.Context, ratings []models.Rating) error
}

// FeedbackService validates, authorizes and records feedback submissions.
type FeedbackService struct {
	projects  ProjectStore
	feedbacks FeedbackStore
	ratings   RatingWriter
	logger    *observability.Logger
}

// NewFeedbackService creates a new FeedbackService instance.
func NewFeedbackService(projects ProjectStore, feedbacks FeedbackStore, ratings RatingWriter, logger *observability.Logger) *FeedbackService {
	if projects == nil || feedbacks == nil || ratings == nil {
		panic("NewFeedbackService: nil store")
	}
	if logger == nil {
		panic("NewFeedbackService: logger is nil")
	}
	return &FeedbackService{projects: projects, feedbacks: feedbacks, ratings: ratings, logger: logger}
}

// FeedbackSubmission is the validated input of Submit.
type FeedbackSubmission struct {
	ProjectID primitive.ObjectID
	Review    string
	Event     string
	Sections  []models.FeedbackSection
}

// SubmitResult is the outcome of a successful submission.
type SubmitResult struct {
	ID             string                `json:"id"`
	AnswersChanged []models.AnswerChange `json:"answersChanged"`
}

// Submit records a new feedback for the submitting user.
//
// The feedback snapshot is one atomic document write. The denormalized
// rating rows and the diff against the user's previous submission happen
// after that write: a failure there is logged and does not undo or fail the
// submission.
func (s *FeedbackService) Submit(ctx context.Context, user *models.User, sub FeedbackSubmission) (*SubmitResult, error) {
	if err := validateSubmissionSections(sub.Sections); err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, sub.ProjectID)
	if err != nil {
		if contextutils.IsError(err, contextutils.ErrRecordNotFound) {
			return nil, contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "project %s not found", sub.ProjectID.Hex())
		}
		return nil, err
	}

	if !CanAccess(user, project, ModeSubmit) {
		s.logger.Warn(ctx, "Feedback submission denied", map[string]interface{}{
			"user_id":    user.ID.Hex(),
			"project_id": project.ID.Hex(),
			"operation":  "submit_feedback",
		})
		return nil, contextutils.ErrForbidden
	}

	feedback := &models.Feedback{
		UserID:    user.ID,
		ProjectID: project.ID,
		Review:    sub.Review,
		Event:     sub.Event,
		Sections:  sub.Sections,
	}
	if err := s.feedbacks.Insert(ctx, feedback); err != nil {
		s.logger.Error(ctx, "Feedback write failed", err, map[string]interface{}{
			"user_id":    user.ID.Hex(),
			"project_id": project.ID.Hex(),
			"operation":  "submit_feedback",
		})
		return nil, err
	}

	// Customer and domain are snapshotted from the project here so later
	// project edits do not rewrite historical aggregates.
	if err := s.ratings.InsertMany(ctx, ratingRows(feedback, project)); err != nil {
		s.logger.Error(ctx, "Rating rows not persisted for feedback", err, map[string]interface{}{
			"user_id":     user.ID.Hex(),
			"project_id":  project.ID.Hex(),
			"feedback_id": feedback.ID.Hex(),
			"operation":   "submit_feedback",
		})
	}

	return &SubmitResult{
		ID:             feedback.ID.Hex(),
		AnswersChanged: s.diffAgainstPrevious(ctx, feedback),
	}, nil
}

// diffAgainstPrevious computes the answersChanged list against the user's
// immediately preceding feedback for the same project. Any fault here is
// logged and yields an empty list; the submission already succeeded.
func (s *FeedbackService) diffAgainstPrevious(ctx context.Context, feedback *models.Feedback) []models.AnswerChange {
	previous, err := s.feedbacks.LatestByUserAndProject(ctx, feedback.UserID, feedback.ProjectID, feedback.ID)
	if err != nil {
		if !contextutils.IsError(err, contextutils.ErrRecordNotFound) {
			s.logger.Warn(ctx, "Answer diffing failed", map[string]interface{}{
				"code":        string(contextutils.ErrorCodeDiffingFault),
				"error":       err.Error(),
				"user_id":     feedback.UserID.Hex(),
				"project_id":  feedback.ProjectID.Hex(),
				"feedback_id": feedback.ID.Hex(),
			})
		}
		return []models.AnswerChange{}
	}
	return DiffAnswers(previous.Sections, feedback.Sections)
}

// ratingRows flattens the answered questions of a feedback into rating rows.
// Unanswered questions (rating 0) stay in the snapshot but produce no row.
func ratingRows(feedback *models.Feedback, project *models.Project) []models.Rating {
	rows := []models.Rating{}
	for _, section := range feedback.Sections {
		for _, question := range section.Questions {
			if question.Rating < models.RatingMin {
				continue
			}
			rows = append(rows, models.Rating{
				UserID:        feedback.UserID,
				FeedbackID:    feedback.ID,
				ProjectID:     feedback.ProjectID,
				SectionTitle:  section.Title,
				SectionOrder:  section.Order,
				QuestionText:  question.Text,
				QuestionOrder: question.Order,
				Customer:      project.Customer,
				Domain:        project.Domain,
				Rating:        question.Rating,
			})
		}
	}
	return rows
}

// Latest returns the most recent feedback for a project the user may view.
func (s *FeedbackService) Latest(ctx context.Context, user *models.User, projectID primitive.ObjectID) (*models.Feedback, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(user, project, ModeView) {
		return nil, contextutils.ErrForbidden
	}
	return s.feedbacks.LatestByProject(ctx, projectID)
}

// HistoryQuery narrows a feedback history listing.
type HistoryQuery struct {
	ProjectID *primitive.ObjectID
	Event     string
}

// History lists feedbacks the user may see, newest first. An explicit
// project requires a view check; otherwise non-privileged callers are scoped
// to their visible project set.
func (s *FeedbackService) History(ctx context.Context, user *models.User, q HistoryQuery) ([]models.Feedback, error) {
	filter := models.FeedbackFilter{Event: q.Event}

	if q.ProjectID != nil {
		project, err := s.projects.GetByID(ctx, *q.ProjectID)
		if err != nil {
			return nil, err
		}
		if !CanAccess(user, project, ModeView) {
			return nil, contextutils.ErrForbidden
		}
		filter.ProjectIDs = []primitive.ObjectID{project.ID}
	} else if !SeesAllProjects(user) {
		ids, err := s.projects.ListVisibleIDs(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		filter.ProjectIDs = ids
	}

	return s.feedbacks.List(ctx, filter)
}

// ReplaceSections swaps the sections snapshot of an existing feedback. Only
// the submitter or an admin may do this; it is the path for attaching
// reviewer comments, not for changing history silently.
func (s *FeedbackService) ReplaceSections(ctx context.Context, user *models.User, feedbackID primitive.ObjectID, sections []models.FeedbackSection) error {
	if err := validateSubmissionSections(sections); err != nil {
		return err
	}

	feedback, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() && feedback.UserID != user.ID {
		s.logger.Warn(ctx, "Feedback edit denied", map[string]interface{}{
			"user_id":     user.ID.Hex(),
			"feedback_id": feedbackID.Hex(),
			"operation":   "replace_sections",
		})
		return contextutils.ErrForbidden
	}

	return s.feedbacks.ReplaceSections(ctx, feedbackID, sections)
}

// validateSubmissionSections checks the payload shape: a non-empty ordered
// list of sections, each with a non-empty ordered list of questions, ratings
// in [0,4] (0 = not answered).
func validateSubmissionSections(sections []models.FeedbackSection) error {
	if len(sections) == 0 {
		return validationError("sections must not be empty")
	}
	for _, section := range sections {
		if section.Title == "" {
			return validationError("section title is required")
		}
		if section.Order < 0 {
			return validationError("section order must not be negative")
		}
		if len(section.Questions) == 0 {
			return validationError("section must contain at least one question")
		}
		for _, question := range section.Questions {
			if question.Text == "" {
				return validationError("question text is required")
			}
			if question.Order < 0 {
				return validationError("question order must not be negative")
			}
			if question.Rating < models.RatingUnanswered || question.Rating > models.RatingMax {
				return validationError("question rating must be between 0 and 4")
			}
		}
	}
	return nil
}

func validationError(details string) error {
	return contextutils.NewAppError(
		contextutils.ErrorCodeValidationFailed,
		contextutils.SeverityWarn,
		"Validation failed",
		details,
	)
}
