// Package models defines data structures used throughout the feedback application.
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names assignable to a user. A user carries a set of them.
const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleUser       = "USER"
)

// ValidRole reports whether name is one of the known role names.
func ValidRole(name string) bool {
	switch name {
	case RoleAdmin, RoleSupervisor, RoleUser:
		return true
	}
	return false
}

// ResetRequest is an outstanding password-reset token on a user.
type ResetRequest struct {
	Key       string    `bson:"key" json:"-"`
	ExpiredAt time.Time `bson:"expired_at" json:"-"`
}

// User represents an account in the system. Users are soft-deleted only;
// IsDeleted accounts remain in the store but cannot authenticate.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password" json:"-"`
	FirstName    string             `bson:"first_name,omitempty" json:"firstName,omitempty"`
	LastName     string             `bson:"last_name,omitempty" json:"lastName,omitempty"`
	Roles        []string           `bson:"roles" json:"roles"`
	IsDeleted    bool               `bson:"is_deleted" json:"isDeleted"`
	RequestReset []ResetRequest     `bson:"request_reset,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user has the ADMIN role.
func (u *User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

// IsSupervisor reports whether the user has the SUPERVISOR role.
func (u *User) IsSupervisor() bool { return u.HasRole(RoleSupervisor) }

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// NormalizeUsername lowercases and trims a username. Usernames are email
// addresses and must compare case-insensitively.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Project is the unit feedback is collected against. Manager, associates and
// viewers are weak references to users; membership drives access decisions.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	StartDate   time.Time            `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate     time.Time            `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Customer    string               `bson:"customer,omitempty" json:"customer,omitempty"`
	Domain      string               `bson:"domain,omitempty" json:"domain,omitempty"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Manager     *primitive.ObjectID  `bson:"manager,omitempty" json:"manager,omitempty"`
	Associates  []primitive.ObjectID `bson:"associates,omitempty" json:"associates,omitempty"`
	Viewers     []primitive.ObjectID `bson:"viewers,omitempty" json:"viewers,omitempty"`
	SurveyID    *primitive.ObjectID  `bson:"survey_id,omitempty" json:"surveyId,omitempty"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// HasManager reports whether the project has a manager assigned.
func (p *Project) HasManager() bool {
	return p.Manager != nil && !p.Manager.IsZero()
}

// IsManager reports whether userID is the project's manager.
func (p *Project) IsManager(userID primitive.ObjectID) bool {
	return p.HasManager() && *p.Manager == userID
}

// IsAssociate reports whether userID is in the associate set.
func (p *Project) IsAssociate(userID primitive.ObjectID) bool {
	return containsID(p.Associates, userID)
}

// IsViewer reports whether userID is in the viewer set.
func (p *Project) IsViewer(userID primitive.ObjectID) bool {
	return containsID(p.Viewers, userID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// SurveyQuestion is a single question inside a survey section.
type SurveyQuestion struct {
	Text  string `bson:"text" json:"text"`
	Order int    `bson:"order" json:"order"`
}

// SurveySection is an ordered group of questions inside a survey.
type SurveySection struct {
	Title     string           `bson:"title" json:"title"`
	Order     int              `bson:"order" json:"order"`
	Questions []SurveyQuestion `bson:"questions" json:"questions"`
}

// Survey is the template users rate against. Section order and question
// order are unique within their parent and define the display sequence.
type Survey struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Description string             `bson:"description" json:"description"`
	StartDate   time.Time          `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate     time.Time          `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Sections    []SurveySection    `bson:"sections" json:"sections"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// FeedbackQuestion is a question answer inside a feedback snapshot.
// Rating 0 means "not answered"; 1..4 map to the bronze..platinum tiers.
type FeedbackQuestion struct {
	Text    string `bson:"text" json:"text"`
	Order   int    `bson:"order" json:"order"`
	Rating  int    `bson:"rating" json:"rating"`
	Comment string `bson:"comment,omitempty" json:"comment,omitempty"`
}

// FeedbackSection is a section inside a feedback snapshot.
type FeedbackSection struct {
	Title     string             `bson:"title" json:"title"`
	Order     int                `bson:"order" json:"order"`
	Questions []FeedbackQuestion `bson:"questions" json:"questions"`
}

// Feedback is one submission by one user against one project. Sections are a
// denormalized snapshot of the survey at submission time; later survey edits
// never change an existing feedback.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"projectId"`
	Review    string             `bson:"review,omitempty" json:"review,omitempty"`
	Event     string             `bson:"event,omitempty" json:"event,omitempty"`
	Sections  []FeedbackSection  `bson:"sections" json:"sections"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// AnswerChange describes how a question's rating moved between a user's two
// consecutive submissions for the same project.
type AnswerChange struct {
	Question    string `json:"question"`
	OldPoint    int    `json:"oldPoint"`
	NewPoint    int    `json:"newPoint"`
	TypeChanged string `json:"typeChanged"` // "asc" or "des"
	Comment     string `json:"comment"`
}
