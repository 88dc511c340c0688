package services

import (
	"context"
	"fmt"
	"sort"

	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingAggregator is the aggregation capability the reporting service needs.
type RatingAggregator interface {
	DailyAverages(ctx context.Context, f models.RatingFilter) ([]models.DailyAverage, error)
	TierCounts(ctx context.Context, f models.RatingFilter) ([]models.TierCount, error)
}

// ReportingService computes the dashboard aggregates: daily average rating
// series and tier-count distributions, scoped to what the caller may see.
type ReportingService struct {
	projects ProjectStore
	ratings  RatingAggregator
	logger   *observability.Logger
}

// NewReportingService creates a new ReportingService instance.
func NewReportingService(projects ProjectStore, ratings RatingAggregator, logger *observability.Logger) *ReportingService {
	if projects == nil || ratings == nil {
		panic("NewReportingService: nil store")
	}
	if logger == nil {
		panic("NewReportingService: logger is nil")
	}
	return &ReportingService{projects: projects, ratings: ratings, logger: logger}
}

// ReportFilters narrows a reporting query. Every present field shrinks the
// match set.
type ReportFilters struct {
	ProjectID    *primitive.ObjectID
	Customer     string
	Domain       string
	SectionTitle string
}

// History returns the date-ordered daily mean rating series. Days with no
// matched ratings are omitted; means are formatted to two decimal places.
func (s *ReportingService) History(ctx context.Context, user *models.User, filters ReportFilters) ([]models.HistoryPoint, error) {
	match, err := s.resolveScope(ctx, user, filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.ratings.DailyAverages(ctx, match)
	if err != nil {
		s.logger.Error(ctx, "History aggregation failed", err, map[string]interface{}{
			"user_id":   user.ID.Hex(),
			"operation": "rating_history",
		})
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	points := make([]models.HistoryPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.HistoryPoint{
			Date:   row.Date,
			Rating: fmt.Sprintf("%.2f", row.Average),
		})
	}
	return points, nil
}

// Distribution returns the tier-count report. All four tiers are always
// present; values 0 and out-of-range never land in a bucket.
func (s *ReportingService) Distribution(ctx context.Context, user *models.User, filters ReportFilters) (*models.RatingDistribution, error) {
	match, err := s.resolveScope(ctx, user, filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.ratings.TierCounts(ctx, match)
	if err != nil {
		s.logger.Error(ctx, "Distribution aggregation failed", err, map[string]interface{}{
			"user_id":   user.ID.Hex(),
			"operation": "rating_distribution",
		})
		return nil, err
	}

	dist := &models.RatingDistribution{}
	for _, row := range rows {
		dist.Add(row.Rating, row.Count)
	}
	return dist, nil
}

// resolveScope turns the caller's filters into a store-level rating filter.
// An explicit project requires a view check before any aggregation runs, so
// a denied caller learns nothing about the counts behind it. Without an
// explicit project, non-privileged callers are restricted to their visible
// project set.
func (s *ReportingService) resolveScope(ctx context.Context, user *models.User, filters ReportFilters) (models.RatingFilter, error) {
	match := models.RatingFilter{
		Customer:     filters.Customer,
		Domain:       filters.Domain,
		SectionTitle: filters.SectionTitle,
	}

	if filters.ProjectID != nil {
		project, err := s.projects.GetByID(ctx, *filters.ProjectID)
		if err != nil {
			return match, err
		}
		if !CanAccess(user, project, ModeView) {
			s.logger.Warn(ctx, "Reporting access denied", map[string]interface{}{
				"user_id":    user.ID.Hex(),
				"project_id": project.ID.Hex(),
				"operation":  "reporting",
			})
			return match, contextutils.ErrForbidden
		}
		match.ProjectIDs = []primitive.ObjectID{project.ID}
		return match, nil
	}

	if !SeesAllProjects(user) {
		ids, err := s.projects.ListVisibleIDs(ctx, user.ID)
		if err != nil {
			return match, err
		}
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		match.ProjectIDs = ids
	}
	return match, nil
}
