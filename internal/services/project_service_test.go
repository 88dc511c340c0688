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

func TestProjectList_Scoping(t *testing.T) {
	memberID := primitive.NewObjectID()
	mine := &models.Project{ID: primitive.NewObjectID(), Name: "Mine", Associates: []primitive.ObjectID{memberID}}
	other := &models.Project{ID: primitive.NewObjectID(), Name: "Other"}
	store := newStubProjectStore(mine, other)
	svc := NewProjectService(store, observability.NewNopLogger())

	member := &models.User{ID: memberID, Roles: []string{models.RoleUser}}
	projects, err := svc.List(context.Background(), member)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Mine", projects[0].Name)

	admin := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleAdmin}}
	projects, err = svc.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	supervisor := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleSupervisor}}
	projects, err = svc.List(context.Background(), supervisor)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestProjectGet_ViewCheck(t *testing.T) {
	viewerID := primitive.NewObjectID()
	project := &models.Project{ID: primitive.NewObjectID(), Viewers: []primitive.ObjectID{viewerID}}
	svc := NewProjectService(newStubProjectStore(project), observability.NewNopLogger())

	viewer := &models.User{ID: viewerID, Roles: []string{models.RoleUser}}
	got, err := svc.Get(context.Background(), viewer, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	outsider := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleUser}}
	_, err = svc.Get(context.Background(), outsider, project.ID)
	assert.True(t, contextutils.IsError(err, contextutils.ErrForbidden))

	_, err = svc.Get(context.Background(), viewer, primitive.NewObjectID())
	assert.True(t, contextutils.IsError(err, contextutils.ErrRecordNotFound))
}

func TestProjectCreate_BulkAdminOnly(t *testing.T) {
	store := newStubProjectStore()
	svc := NewProjectService(store, observability.NewNopLogger())
	admin := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleAdmin}}

	created, err := svc.Create(context.Background(), admin, []ProjectInput{
		{Name: "Apollo", Customer: "ACME"},
		{Name: "Hermes", Customer: "Globex"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.False(t, created[0].ID.IsZero())

	user := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleUser}}
	_, err = svc.Create(context.Background(), user, []ProjectInput{{Name: "Nope"}})
	assert.True(t, contextutils.IsError(err, contextutils.ErrForbidden))

	_, err = svc.Create(context.Background(), admin, []ProjectInput{{Name: "  "}})
	assert.True(t, contextutils.IsError(err, contextutils.ErrValidationFailed))

	_, err = svc.Create(context.Background(), admin, nil)
	assert.True(t, contextutils.IsError(err, contextutils.ErrValidationFailed))
}

func TestProjectUpdate_Patch(t *testing.T) {
	project := &models.Project{ID: primitive.NewObjectID(), Name: "Apollo", Customer: "ACME"}
	store := newStubProjectStore(project)
	svc := NewProjectService(store, observability.NewNopLogger())
	admin := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleAdmin}}

	domain := "logistics"
	updated, err := svc.Update(context.Background(), admin, project.ID, ProjectPatch{Domain: &domain})
	require.NoError(t, err)
	assert.Equal(t, "Apollo", updated.Name)
	assert.Equal(t, "ACME", updated.Customer)
	assert.Equal(t, "logistics", updated.Domain)

	user := &models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleUser}}
	_, err = svc.Update(context.Background(), user, project.ID, ProjectPatch{Domain: &domain})
	assert.True(t, contextutils.IsError(err, contextutils.ErrForbidden))
}
