package services

import (
	"context"

	"feedbackapp/internal/models"
	contextutils "feedbackapp/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stub stores for service tests. Each stub keeps its records in memory and
// counts calls so tests can assert what the service touched.

type stubProjectStore struct {
	projects   map[primitive.ObjectID]*models.Project
	visibleIDs []primitive.ObjectID
	getCalls   int
	listErr    error
}

func newStubProjectStore(projects ...*models.Project) *stubProjectStore {
	s := &stubProjectStore{projects: map[primitive.ObjectID]*models.Project{}}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

func (s *stubProjectStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	s.getCalls++
	p, ok := s.projects[id]
	if !ok {
		return nil, contextutils.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubProjectStore) ListVisibleIDs(_ context.Context, _ primitive.ObjectID) ([]primitive.ObjectID, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.visibleIDs, nil
}

func (s *stubProjectStore) List(_ context.Context) ([]models.Project, error) {
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProjectStore) ListVisible(_ context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range s.projects {
		if p.IsManager(userID) || p.IsAssociate(userID) || p.IsViewer(userID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProjectStore) InsertMany(_ context.Context, projects []models.Project) ([]models.Project, error) {
	for i := range projects {
		if projects[i].ID.IsZero() {
			projects[i].ID = primitive.NewObjectID()
		}
		p := projects[i]
		s.projects[p.ID] = &p
	}
	return projects, nil
}

func (s *stubProjectStore) Update(_ context.Context, p *models.Project) error {
	if _, ok := s.projects[p.ID]; !ok {
		return contextutils.ErrRecordNotFound
	}
	s.projects[p.ID] = p
	return nil
}

type stubFeedbackStore struct {
	inserted  []*models.Feedback
	byID      map[primitive.ObjectID]*models.Feedback
	previous  *models.Feedback
	latest    *models.Feedback
	listed    []models.Feedback
	lastList  models.FeedbackFilter
	insertErr error
	prevErr   error
	replaced  map[primitive.ObjectID][]models.FeedbackSection
}

func newStubFeedbackStore() *stubFeedbackStore {
	return &stubFeedbackStore{
		byID:     map[primitive.ObjectID]*models.Feedback{},
		replaced: map[primitive.ObjectID][]models.FeedbackSection{},
	}
}

func (s *stubFeedbackStore) Insert(_ context.Context, f *models.Feedback) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	s.inserted = append(s.inserted, f)
	s.byID[f.ID] = f
	return nil
}

func (s *stubFeedbackStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Feedback, error) {
	f, ok := s.byID[id]
	if !ok {
		return nil, contextutils.ErrRecordNotFound
	}
	return f, nil
}

func (s *stubFeedbackStore) LatestByUserAndProject(_ context.Context, _, _, _ primitive.ObjectID) (*models.Feedback, error) {
	if s.prevErr != nil {
		return nil, s.prevErr
	}
	if s.previous == nil {
		return nil, contextutils.ErrRecordNotFound
	}
	return s.previous, nil
}

func (s *stubFeedbackStore) LatestByProject(_ context.Context, _ primitive.ObjectID) (*models.Feedback, error) {
	if s.latest == nil {
		return nil, contextutils.ErrRecordNotFound
	}
	return s.latest, nil
}

func (s *stubFeedbackStore) List(_ context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	s.lastList = filter
	return s.listed, nil
}

func (s *stubFeedbackStore) ReplaceSections(_ context.Context, id primitive.ObjectID, sections []models.FeedbackSection) error {
	s.replaced[id] = sections
	return nil
}

type stubRatingStore struct {
	rows      []models.Rating
	insertErr error
	averages  []models.DailyAverage
	counts    []models.TierCount
	lastMatch models.RatingFilter
	aggCalls  int
	aggErr    error
}

func (s *stubRatingStore) InsertMany(_ context.Context, ratings []models.Rating) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.rows = append(s.rows, ratings...)
	return nil
}

func (s *stubRatingStore) DailyAverages(_ context.Context, f models.RatingFilter) ([]models.DailyAverage, error) {
	s.aggCalls++
	s.lastMatch = f
	if s.aggErr != nil {
		return nil, s.aggErr
	}
	return s.averages, nil
}

func (s *stubRatingStore) TierCounts(_ context.Context, f models.RatingFilter) ([]models.TierCount, error) {
	s.aggCalls++
	s.lastMatch = f
	if s.aggErr != nil {
		return nil, s.aggErr
	}
	return s.counts, nil
}

type stubUserStore struct {
	byID       map[primitive.ObjectID]*models.User
	byUsername map[string]*models.User
	resets     map[primitive.ObjectID][]models.ResetRequest
	passwords  map[primitive.ObjectID]string
	deleted    []primitive.ObjectID
}

func newStubUserStore(users ...*models.User) *stubUserStore {
	s := &stubUserStore{
		byID:       map[primitive.ObjectID]*models.User{},
		byUsername: map[string]*models.User{},
		resets:     map[primitive.ObjectID][]models.ResetRequest{},
		passwords:  map[primitive.ObjectID]string{},
	}
	for _, u := range users {
		s.byID[u.ID] = u
		s.byUsername[u.Username] = u
	}
	return s
}

func (s *stubUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, contextutils.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := s.byUsername[models.NormalizeUsername(username)]
	if !ok {
		return nil, contextutils.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserStore) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserStore) Insert(_ context.Context, u *models.User) error {
	if _, ok := s.byUsername[u.Username]; ok {
		return contextutils.ErrRecordExists
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.byID[u.ID] = u
	s.byUsername[u.Username] = u
	return nil
}

func (s *stubUserStore) Update(_ context.Context, u *models.User) error {
	if _, ok := s.byID[u.ID]; !ok {
		return contextutils.ErrRecordNotFound
	}
	s.byID[u.ID] = u
	s.byUsername[u.Username] = u
	return nil
}

func (s *stubUserStore) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := s.byID[id]
	if !ok {
		return contextutils.ErrRecordNotFound
	}
	u.PasswordHash = hash
	u.RequestReset = nil
	s.passwords[id] = hash
	return nil
}

func (s *stubUserStore) AddResetRequest(_ context.Context, id primitive.ObjectID, req models.ResetRequest) error {
	u, ok := s.byID[id]
	if !ok {
		return contextutils.ErrRecordNotFound
	}
	u.RequestReset = append(u.RequestReset, req)
	s.resets[id] = append(s.resets[id], req)
	return nil
}

func (s *stubUserStore) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	u, ok := s.byID[id]
	if !ok {
		return contextutils.ErrRecordNotFound
	}
	u.IsDeleted = true
	s.deleted = append(s.deleted, id)
	return nil
}

type stubMailer struct {
	sentTo   []string
	sentURLs []string
	sendErr  error
}

func (m *stubMailer) SendPasswordReset(_ context.Context, user *models.User, resetURL string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentTo = append(m.sentTo, user.Username)
	m.sentURLs = append(m.sentURLs, resetURL)
	return nil
}

func (m *stubMailer) IsEnabled() bool { return true }
