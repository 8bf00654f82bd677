package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var errBoom = errors.New("boom")

func notFound(table string) error {
	return sqlerr.WrapNotFound(table, pgx.ErrNoRows)
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, uniqueViolation("users_email_key")
		}
	}
	cp := *u
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, notFound("users")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("users")
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return nil, notFound("users")
	}
	cp := *u
	f.byID[u.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, notFound("users")
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) List(_ context.Context, q model.ListUsersQuery) ([]model.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.byID {
		if q.Role == "" || u.Role == q.Role {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

type fakeCourses struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*model.Course
	lastList *model.CourseFilter
	lists    int
}

func newFakeCourses(courses ...*model.Course) *fakeCourses {
	f := &fakeCourses{byID: map[uuid.UUID]*model.Course{}}
	for _, c := range courses {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCourses) Create(_ context.Context, c *model.Course) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	cp.ID = uuid.New()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCourses) GetByID(_ context.Context, id uuid.UUID) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, notFound("courses")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourses) GetBySlug(_ context.Context, slug string) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, notFound("courses")
}

func (f *fakeCourses) SlugExists(_ context.Context, slug string, exclude uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.Slug == slug && c.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourses) Update(_ context.Context, c *model.Course) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.byID[c.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCourses) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return notFound("courses")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCourses) List(_ context.Context, filter model.CourseFilter) ([]model.Course, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = &filter
	f.lists++
	var out []model.Course
	for _, c := range f.byID {
		if filter.Published != nil && c.Published != *filter.Published {
			continue
		}
		if filter.InstructorID != nil && c.InstructorID != *filter.InstructorID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, len(out), nil
}

type fakeProjects struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Project
	lists int
}

func newFakeProjects(projects ...*model.Project) *fakeProjects {
	f := &fakeProjects{byID: map[uuid.UUID]*model.Project{}}
	for _, p := range projects {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProjects) Create(_ context.Context, p *model.Project) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	cp.ID = uuid.New()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeProjects) GetByID(_ context.Context, id uuid.UUID) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, notFound("projects")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) Update(_ context.Context, p *model.Project) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.byID[p.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeProjects) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return notFound("projects")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProjects) List(_ context.Context, filter model.ProjectFilter) ([]model.Project, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	var out []model.Project
	for _, p := range f.byID {
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, len(out), nil
}

type fakePosts struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*model.Post
	lastList *model.PostFilter
}

func newFakePosts(posts ...*model.Post) *fakePosts {
	f := &fakePosts{byID: map[uuid.UUID]*model.Post{}}
	for _, p := range posts {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePosts) Create(_ context.Context, p *model.Post) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	cp.ID = uuid.New()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakePosts) GetByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, notFound("posts")
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) GetBySlug(_ context.Context, slug string) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, notFound("posts")
}

func (f *fakePosts) SlugExists(_ context.Context, slug string, exclude uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Slug == slug && p.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePosts) Update(_ context.Context, p *model.Post) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.byID[p.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return notFound("posts")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePosts) List(_ context.Context, filter model.PostFilter) ([]model.Post, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = &filter
	var out []model.Post
	for _, p := range f.byID {
		if filter.Published != nil && p.IsPublished() != *filter.Published {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

type fakeReviews struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Review
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{byID: map[uuid.UUID]*model.Review{}}
}

func (f *fakeReviews) Create(_ context.Context, r *model.Review) (*model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.CourseID == r.CourseID && existing.UserID == r.UserID {
			return nil, uniqueViolation("reviews_course_id_user_id_key")
		}
	}
	cp := *r
	cp.ID = uuid.New()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeReviews) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, notFound("reviews")
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviews) Update(_ context.Context, r *model.Review) (*model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.byID[r.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeReviews) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return notFound("reviews")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReviews) ListByCourse(_ context.Context, courseID uuid.UUID, _ model.ListQuery) ([]model.Review, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Review
	for _, r := range f.byID {
		if r.CourseID == courseID {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (f *fakeReviews) Summary(_ context.Context, courseID uuid.UUID) (model.RatingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s model.RatingSummary
	sum := 0
	for _, r := range f.byID {
		if r.CourseID == courseID {
			s.Count++
			sum += r.Rating
		}
	}
	if s.Count > 0 {
		s.Average = float64(sum) / float64(s.Count)
	}
	return s, nil
}

type fakeConversations struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]*model.Conversation
	failWrite bool
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{byID: map[primitive.ObjectID]*model.Conversation{}}
}

func (f *fakeConversations) Create(_ context.Context, c *model.Conversation) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return nil, errBoom
	}
	cp := *c
	cp.ID = primitive.NewObjectID()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeConversations) Get(_ context.Context, id primitive.ObjectID, userID string) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok || c.UserID != userID {
		return nil, sqlerr.WrapNotFound("conversations", mongo.ErrNoDocuments)
	}
	cp := *c
	cp.Messages = append([]model.ChatMessage(nil), c.Messages...)
	return &cp, nil
}

func (f *fakeConversations) Append(_ context.Context, id primitive.ObjectID, userID string, at time.Time, msgs ...model.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return errBoom
	}
	c, ok := f.byID[id]
	if !ok || c.UserID != userID {
		return sqlerr.WrapNotFound("conversations", mongo.ErrNoDocuments)
	}
	c.Messages = append(c.Messages, msgs...)
	c.UpdatedAt = at
	return nil
}

func (f *fakeConversations) List(_ context.Context, userID string, _ model.ListQuery) ([]model.ConversationSummary, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ConversationSummary
	for _, c := range f.byID {
		if c.UserID == userID {
			out = append(out, model.ConversationSummary{ID: c.ID, Title: c.Title, MessageCount: len(c.Messages)})
		}
	}
	return out, len(out), nil
}

func (f *fakeConversations) Delete(_ context.Context, id primitive.ObjectID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok || c.UserID != userID {
		return sqlerr.WrapNotFound("conversations", mongo.ErrNoDocuments)
	}
	delete(f.byID, id)
	return nil
}

type fakeGenerator struct {
	reply string
	err   error
	got   []model.ChatMessage
}

func (g *fakeGenerator) Generate(_ context.Context, turns []model.ChatMessage) (string, error) {
	g.got = turns
	return g.reply, g.err
}

func (g *fakeGenerator) Model() string {
	return "fake-model"
}

type fakeEnqueuer struct {
	calls []string
	err   error
}

func (f *fakeEnqueuer) EnqueueWelcomeEmail(_ context.Context, to, name string) error {
	f.calls = append(f.calls, to+"|"+name)
	return f.err
}

type fakeStore struct {
	saveErr   error
	deleteErr error
	saved     []string
}

func (f *fakeStore) Save(_ context.Context, name string, r io.Reader) (*model.UploadResult, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	data, _ := io.ReadAll(r)
	f.saved = append(f.saved, name)
	return &model.UploadResult{URL: "/uploads/x/" + name, Path: "x/" + name, ContentType: "application/pdf", Size: int64(len(data))}, nil
}

func (f *fakeStore) Delete(string) error {
	return f.deleteErr
}

func (f *fakeStore) MaxBytes() int64 {
	return 10 << 20
}
