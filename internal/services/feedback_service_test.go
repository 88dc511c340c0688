package services

import (
	"context"
	"testing"

	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newFeedbackFixture(t *testing.T) (*FeedbackService, *stubProjectStore, *stubFeedbackStore, *stubRatingStore, *models.User, *models.Project) {
	t.Helper()

	userID := primitive.NewObjectID()
	user := &models.User{ID: userID, Username: "dev@example.com", Roles: []string{models.RoleUser}}
	project := &models.Project{
		ID:         primitive.NewObjectID(),
		Name:       "Apollo",
		Customer:   "ACME",
		Domain:     "logistics",
		Associates: []primitive.ObjectID{userID},
	}

	projects := newStubProjectStore(project)
	feedbacks := newStubFeedbackStore()
	ratings := &stubRatingStore{}
	svc := NewFeedbackService(projects, feedbacks, ratings, observability.NewNopLogger())
	return svc, projects, feedbacks, ratings, user, project
}

func validSections() []models.FeedbackSection {
	return []models.FeedbackSection{{
		Title: "Delivery",
		Order: 0,
		Questions: []models.FeedbackQuestion{
			{Text: "On time?", Order: 0, Rating: 3},
			{Text: "Complete?", Order: 1, Rating: 0},
		},
	}}
}

func TestSubmit_Success(t *testing.T) {
	svc, _, feedbacks, _, user, project := newFeedbackFixture(t)

	result, err := svc.Submit(context.Background(), user, FeedbackSubmission{
		ProjectID: project.ID,
		Review:    "solid sprint",
		Event:     "sprint-12",
		Sections:  validSections(),
	})

	require.NoError(t, err)
	require.Len(t, feedbacks.inserted, 1)
	assert.Equal(t, feedbacks.inserted[0].ID.Hex(), result.ID)
	assert.Equal(t, user.ID, feedbacks.inserted[0].UserID)
	assert.NotNil(t, result.AnswersChanged)
	assert.Empty(t, result.AnswersChanged)
}

func TestSubmit_RatingRowsSnapshotProject(t *testing.T) {
	svc, _, _, ratings, user, project := newFeedbackFixture(t)

	_, err := svc.Submit(context.Background(), user, FeedbackSubmission{
		ProjectID: project.ID,
		Sections:  validSections(),
	})
	require.NoError(t, err)

	// Only the answered question produces a row, and the row carries the
	// project's customer/domain at submission time.
	require.Len(t, ratings.rows, 1)
	row := ratings.rows[0]
	assert.Equal(t, "ACME", row.Customer)
	assert.Equal(t, "logistics", row.Domain)
	assert.Equal(t, "Delivery", row.SectionTitle)
	assert.Equal(t, "On time?", row.QuestionText)
	assert.Equal(t, 3, row.Rating)
}

func TestSubmit_ProjectNotFound(t *testing.T) {
	svc, _, feedbacks, _, user, _ := newFeedbackFixture(t)

	_, err := svc.Submit(context.Background(), user, FeedbackSubmission{
		ProjectID: primitive.NewObjectID(),
		Sections:  validSections(),
	})

	require.Error(t, err)
	assert.True(t, contextutils.IsError(err, contextutils.ErrRecordNotFound))
	assert.Empty(t, feedbacks.inserted)
}

func TestSubmit_ForbiddenPersistsNothing(t *testing.T) {
	svc, _, feedbacks, ratings, _, project := newFeedbackFixture(t)
	outsider := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleUser}}

	_, err := svc.Submit(context.Background(), outsider, FeedbackSubmission{
		ProjectID: project.ID,
		Sections:  validSections(),
	})

	require.Error(t, err)
	assert.True(t, contextutils.IsError(err, contextutils.ErrForbidden))
	assert.Empty(t, feedbacks.inserted)
	assert.Empty(t, ratings.rows)
}

func TestSubmit_ViewerCannotSubmit(t *testing.T) {
	svc, projects, _, _, _, project := newFeedbackFixture(t)
	viewerID := primitive.NewObjectID()
	project.Viewers = []primitive.ObjectID{viewerID}
	projects.projects[project.ID] = project
	viewer := &models.User{ID: viewerID, Roles: []string{models.RoleUser}}

	_, err := svc.Submit(context.Background(), viewer, FeedbackSubmission{
		ProjectID: project.ID,
		Sections:  validSections(),
	})

	assert.True(t, contextutils.IsError(err, contextutils.ErrForbidden))
}

func TestSubmit_InvalidSections(t *testing.T) {
	svc, _, _, _, user, project := newFeedbackFixture(t)

	tests := []struct {
		name     string
		sections []models.FeedbackSection
	}{
		{"empty", nil},
		{"missing section title", []models.FeedbackSection{{Questions: []models.FeedbackQuestion{{Text: "Q", Rating: 2}}}}},
		{"no questions", []models.FeedbackSection{{Title: "Delivery"}}},
		{"rating above range", []models.FeedbackSection{{Title: "Delivery", Questions: []models.FeedbackQuestion{{Text: "Q", Rating: 5}}}}},
		{"negative rating", []models.FeedbackSection{{Title: "Delivery", Questions: []models.FeedbackQuestion{{Text: "Q", Rating: -1}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), user, FeedbackSubmission{
				ProjectID: project.ID,
				Sections:  tt.sections,
			})
			assert.True(t, contextutils.IsError(err, contextutils.ErrValidationFailed))
		})
	}
}

func TestSubmit_DiffsAgainstPrevious(t *testing.T) {
	svc, _, feedbacks, _, user, project := newFeedbackFixture(t)

	previous := validSections()
	previous[0].Questions[0].Rating = 1
	feedbacks.previous = &models.Feedback{
		UserID:    user.ID,
		ProjectID: project.ID,
		Sections:  previous,
	}

	result, err := svc.Submit(context.Background(), user, FeedbackSubmission{
		ProjectID: project.ID,
		Sections:  validSections(),
	})

	require.NoError(t, err)
	require.Len(t, result.AnswersChanged, 1)
	assert.Equal(t, "On time?", result.AnswersChanged[0].Question)
	assert.Equal(t, 1, result.AnswersChanged[0].OldPoint)
	assert.Equal(t, 3, result.AnswersChanged[0].NewPoint)
	assert.Equal(t, "asc", result.AnswersChanged[0].TypeChanged)
}

func TestSubmit_DiffFaultDoesNotFailSubmission(t *testing.T) {
	svc, _, feedbacks, _, user, project := newFeedbackFixture(t)
	feedbacks.prevErr = contextutils.ErrStorageFailure

	result, err := svc.Submit(context.Background(), user, FeedbackSubmission{
		ProjectID: project.ID,
		Sections:  validSections(),
	})

	require.NoError(t, err)
	assert.NotNil(t, result.AnswersChanged)
	assert.Empty(t, result.AnswersChanged)
}

func TestSubmit_RatingRowFailureDoesNotFailSubmission(t *testing.T) {
	svc, _, feedbacks, ratings, user, project := newFeedbackFixture(t)
	ratings.insertErr = contextutils.ErrStorageFailure

	result, err := svc.Submit(context.Background(), user, FeedbackSubmission{
		ProjectID: project.ID,
		Sections:  validSections(),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	require.Len(t, feedbacks.inserted, 1)
}

func TestLatest_ViewCheck(t *testing.T) {
	svc, _, feedbacks, _, user, project := newFeedbackFixture(t)
	feedbacks.latest = &models.Feedback{ID: primitive.NewObjectID(), ProjectID: project.ID}

	got, err := svc.Latest(context.Background(), user, project.ID)
	require.NoError(t, err)
	assert.Equal(t, feedbacks.latest.ID, got.ID)

	outsider := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleUser}}
	_, err = svc.Latest(context.Background(), outsider, project.ID)
	assert.True(t, contextutils.IsError(err, contextutils.ErrForbidden))
}

func TestHistory_ScopesToVisibleProjects(t *testing.T) {
	svc, projects, feedbacks, _, user, _ := newFeedbackFixture(t)
	visible := primitive.NewObjectID()
	projects.visibleIDs = []primitive.ObjectID{visible}

	_, err := svc.History(context.Background(), user, HistoryQuery{Event: "sprint-12"})
	require.NoError(t, err)

	assert.Equal(t, []primitive.ObjectID{visible}, feedbacks.lastList.ProjectIDs)
	assert.Equal(t, "sprint-12", feedbacks.lastList.Event)
}

func TestHistory_AdminIsUnscoped(t *testing.T) {
	svc, _, feedbacks, _, _, _ := newFeedbackFixture(t)
	admin := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleAdmin}}

	_, err := svc.History(context.Background(), admin, HistoryQuery{})
	require.NoError(t, err)
	assert.Nil(t, feedbacks.lastList.ProjectIDs)
}

func TestHistory_NoVisibleProjectsMatchesNothing(t *testing.T) {
	svc, _, feedbacks, _, user, _ := newFeedbackFixture(t)

	_, err := svc.History(context.Background(), user, HistoryQuery{})
	require.NoError(t, err)

	// Empty non-nil slice: the store matches nothing instead of everything.
	assert.NotNil(t, feedbacks.lastList.ProjectIDs)
	assert.Empty(t, feedbacks.lastList.ProjectIDs)
}

func TestReplaceSections_OnlySubmitterOrAdmin(t *testing.T) {
	svc, _, feedbacks, _, user, project := newFeedbackFixture(t)
	feedback := &models.Feedback{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		ProjectID: project.ID,
		Sections:  validSections(),
	}
	feedbacks.byID[feedback.ID] = feedback

	err := svc.ReplaceSections(context.Background(), user, feedback.ID, validSections())
	require.NoError(t, err)
	assert.Contains(t, feedbacks.replaced, feedback.ID)

	other := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleUser}}
	err = svc.ReplaceSections(context.Background(), other, feedback.ID, validSections())
	assert.True(t, contextutils.IsError(err, contextutils.ErrForbidden))

	admin := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleAdmin}}
	err = svc.ReplaceSections(context.Background(), admin, feedback.ID, validSections())
	assert.NoError(t, err)
}
