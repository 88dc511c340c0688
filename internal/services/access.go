// Package services contains the business logic of the feedback application.
// Services depend on narrow store interfaces so they can be exercised with
// stub stores in tests; the mongo-backed implementations live in
// internal/database.
package services

import (
	"feedbackapp/internal/models"
)

// AccessMode is the kind of access being requested against a project.
type AccessMode int

const (
	// ModeSubmit is the right to submit feedback for a project.
	ModeSubmit AccessMode = iota
	// ModeView is the right to read a project and its feedback/reports.
	ModeView
	// ModeManage is the right to create or modify the project itself.
	ModeManage
)

// String returns the mode name for logging.
func (m AccessMode) String() string {
	switch m {
	case ModeSubmit:
		return "submit"
	case ModeView:
		return "view"
	case ModeManage:
		return "manage"
	}
	return "unknown"
}

// CanAccess decides whether user may perform mode on project. It is a pure
// decision over already-loaded records; precedence:
//
//  1. ADMIN is allowed everything.
//  2. manage is ADMIN-only.
//  3. view is allowed for SUPERVISOR and for the project's manager,
//     associates and viewers.
//  4. submit is allowed only for the project's manager and associates;
//     supervisors and plain viewers are read-only.
//
// A project with no manager and no members is reachable only by
// ADMIN/SUPERVISOR (view); absence of a manager never opens access.
func CanAccess(user *models.User, project *models.Project, mode AccessMode) bool {
	if user == nil || project == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}

	switch mode {
	case ModeManage:
		return false
	case ModeView:
		return user.IsSupervisor() ||
			project.IsManager(user.ID) ||
			project.IsAssociate(user.ID) ||
			project.IsViewer(user.ID)
	case ModeSubmit:
		return project.IsManager(user.ID) || project.IsAssociate(user.ID)
	}
	return false
}

// SeesAllProjects reports whether the user's reporting and listing queries
// are unscoped. Everyone else is restricted to their visible project set.
func SeesAllProjects(user *models.User) bool {
	return user != nil && (user.IsAdmin() || user.IsSupervisor())
}
