package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clock hands out strictly increasing timestamps so "newest first"
// orderings are deterministic.
type clock struct {
	mu  sync.Mutex
	cur time.Time
}

func newClock() *clock {
	return &clock{cur: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

type store struct {
	mu          sync.Mutex
	clock       *clock
	users       map[uuid.UUID]*models.User
	skills      map[uuid.UUID][]string
	tasks       map[uuid.UUID]*models.Task
	domains     map[uuid.UUID][]string
	submissions map[uuid.UUID]*models.Submission
	files       map[uuid.UUID][]*models.File
	portfolio   map[uuid.UUID]*models.PortfolioEntry
	ledger      []*models.EduPointsTransaction

	failCreateWithFile error
}

func newStore() *store {
	return &store{
		clock:       newClock(),
		users:       map[uuid.UUID]*models.User{},
		skills:      map[uuid.UUID][]string{},
		tasks:       map[uuid.UUID]*models.Task{},
		domains:     map[uuid.UUID][]string{},
		submissions: map[uuid.UUID]*models.Submission{},
		files:       map[uuid.UUID][]*models.File{},
		portfolio:   map[uuid.UUID]*models.PortfolioEntry{},
	}
}

func (s *store) addUser(name string, role models.Role) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: uuid.New(), Name: name, Email: name + "@example.com", Role: role, CreatedAt: s.clock.Now()}
	s.users[u.ID] = u
	return u
}

func (s *store) addTask(postedBy uuid.UUID, title string, domains ...string) *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &models.Task{ID: uuid.New(), PostedBy: postedBy, Title: title, CreatedAt: s.clock.Now()}
	s.tasks[t.ID] = t
	s.domains[t.ID] = domains
	return t
}

func (s *store) addSubmission(taskID, userID uuid.UUID, status models.SubmissionStatus, grade *float64) *models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &models.Submission{ID: uuid.New(), TaskID: taskID, UserID: userID, Status: status, Grade: grade, SubmitTime: s.clock.Now()}
	s.submissions[sub.ID] = sub
	return sub
}

func (s *store) portfolioCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.portfolio)
}

func ptr[T any](v T) *T { return &v }

// ---- users ----

type fakeUserRepo struct{ s *store }

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = r.s.clock.Now()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, _, _ int) ([]*models.User, error) {
	return r.ListAll(ctx)
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeUserRepo) ListSkills(_ context.Context, userID uuid.UUID) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]string(nil), r.s.skills[userID]...)
	sort.Strings(out)
	return out, nil
}

func (r *fakeUserRepo) ReplaceSkills(_ context.Context, userID uuid.UUID, skills []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.skills[userID] = append([]string(nil), skills...)
	return nil
}

func (r *fakeUserRepo) AddSkills(_ context.Context, userID uuid.UUID, skills []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current := r.s.skills[userID]
	for _, sk := range skills {
		if !contains(current, sk) {
			current = append(current, sk)
		}
	}
	r.s.skills[userID] = current
	return nil
}

func (r *fakeUserRepo) RemoveSkills(_ context.Context, userID uuid.UUID, skills []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var kept []string
	for _, sk := range r.s.skills[userID] {
		if !contains(skills, sk) {
			kept = append(kept, sk)
		}
	}
	r.s.skills[userID] = kept
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// ---- tasks ----

type fakeTaskRepo struct{ s *store }

var _ repository.TaskRepository = (*fakeTaskRepo)(nil)

func (r *fakeTaskRepo) Create(ctx context.Context, t *models.Task) error {
	return r.CreateWithDomains(ctx, t, nil)
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	r.s.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tasks, id)
	return nil
}

func (r *fakeTaskRepo) List(ctx context.Context, _, _ int) ([]*models.Task, error) {
	return r.ListAll(ctx)
}

func (r *fakeTaskRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.tasks)), nil
}

func (r *fakeTaskRepo) CreateWithDomains(_ context.Context, t *models.Task, domains []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = r.s.clock.Now()
	cp := *t
	r.s.tasks[t.ID] = &cp
	r.s.domains[t.ID] = append([]string(nil), domains...)
	return nil
}

func (r *fakeTaskRepo) filter(keep func(*models.Task) bool) []*models.Task {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Task{}
	for _, t := range r.s.tasks {
		if keep(t) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeTaskRepo) ListAll(_ context.Context) ([]*models.Task, error) {
	return r.filter(func(*models.Task) bool { return true }), nil
}

func (r *fakeTaskRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]*models.Task, error) {
	return r.filter(func(t *models.Task) bool { return t.PostedBy == companyID }), nil
}

func (r *fakeTaskRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Task, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return r.filter(func(t *models.Task) bool { return want[t.ID] }), nil
}

func (r *fakeTaskRepo) DomainsByTaskIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uuid.UUID][]string{}
	for _, id := range ids {
		if d := r.s.domains[id]; len(d) > 0 {
			out[id] = append([]string(nil), d...)
		}
	}
	return out, nil
}

// ---- submissions ----

type fakeSubmissionRepo struct{ s *store }

var _ repository.SubmissionRepository = (*fakeSubmissionRepo)(nil)

func (r *fakeSubmissionRepo) Create(_ context.Context, sub *models.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.SubmitTime = r.s.clock.Now()
	cp := *sub
	r.s.submissions[sub.ID] = &cp
	return nil
}

func (r *fakeSubmissionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeSubmissionRepo) Update(_ context.Context, sub *models.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sub
	r.s.submissions[sub.ID] = &cp
	return nil
}

func (r *fakeSubmissionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.submissions, id)
	return nil
}

func (r *fakeSubmissionRepo) List(_ context.Context, _, _ int) ([]*models.Submission, error) {
	return r.filter(func(*models.Submission) bool { return true }), nil
}

func (r *fakeSubmissionRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.submissions)), nil
}

func (r *fakeSubmissionRepo) CreateWithFile(_ context.Context, sub *models.Submission, file *models.File) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCreateWithFile != nil {
		return r.s.failCreateWithFile
	}
	sub.SubmitTime = r.s.clock.Now()
	cp := *sub
	r.s.submissions[sub.ID] = &cp
	file.ID = uuid.New()
	file.SubmissionID = sub.ID
	file.CreatedAt = sub.SubmitTime
	fcp := *file
	r.s.files[sub.ID] = append(r.s.files[sub.ID], &fcp)
	return nil
}

func (r *fakeSubmissionRepo) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	sub, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[sub.UserID]; ok {
		cp := *u
		sub.Student = &cp
	}
	if t, ok := r.s.tasks[sub.TaskID]; ok {
		cp := *t
		sub.Task = &cp
	}
	return sub, nil
}

func (r *fakeSubmissionRepo) filter(keep func(*models.Submission) bool) []*models.Submission {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Submission{}
	for _, sub := range r.s.submissions {
		if keep(sub) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmitTime.After(out[j].SubmitTime) })
	return out
}

func (r *fakeSubmissionRepo) ListByTask(_ context.Context, taskID uuid.UUID) ([]*models.Submission, error) {
	return r.filter(func(s *models.Submission) bool { return s.TaskID == taskID }), nil
}

func (r *fakeSubmissionRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Submission, error) {
	return r.filter(func(s *models.Submission) bool { return s.UserID == userID }), nil
}

func (r *fakeSubmissionRepo) ListAcceptedByUser(_ context.Context, userID uuid.UUID) ([]*models.Submission, error) {
	return r.filter(func(s *models.Submission) bool {
		return s.UserID == userID && s.Status == models.SubmissionStatusAccepted
	}), nil
}

func (r *fakeSubmissionRepo) UpdateFields(_ context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "grade":
			g := v.(float64)
			sub.Grade = &g
		case "status":
			sub.Status = v.(models.SubmissionStatus)
		case "feedback":
			f := v.(string)
			sub.Feedback = &f
		}
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeSubmissionRepo) ListFiles(_ context.Context, submissionID uuid.UUID) ([]*models.File, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*models.File{}, r.s.files[submissionID]...), nil
}

// ---- portfolio ----

type fakePortfolioRepo struct {
	s *store

	// beforeInsert runs between the existence check and the insert, where a
	// concurrent grader can add its own entry.
	beforeInsert func(submissionID uuid.UUID)
}

var _ repository.PortfolioRepository = (*fakePortfolioRepo)(nil)

func (r *fakePortfolioRepo) GetBySubmissionID(_ context.Context, submissionID uuid.UUID) (*models.PortfolioEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.portfolio[submissionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

// CreateIfAbsent follows the database-backed repository: look up, insert,
// and on a unique violation read back the row that won.
func (r *fakePortfolioRepo) CreateIfAbsent(ctx context.Context, submissionID uuid.UUID, verified bool) (*models.PortfolioEntry, bool, error) {
	existing, err := r.GetBySubmissionID(ctx, submissionID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if r.beforeInsert != nil {
		r.beforeInsert(submissionID)
	}

	e := &models.PortfolioEntry{ID: uuid.New(), SubmissionID: submissionID, AddedAt: r.s.clock.Now(), Verified: verified}
	if err := r.s.insertPortfolioEntry(e); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		existing, err = r.GetBySubmissionID(ctx, submissionID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	cp := *e
	return &cp, true, nil
}

// insertPortfolioEntry enforces the unique index on submission_id.
func (s *store) insertPortfolioEntry(e *models.PortfolioEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.portfolio[e.SubmissionID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *e
	s.portfolio[e.SubmissionID] = &cp
	return nil
}

func (s *store) addPortfolioEntry(submissionID uuid.UUID) *models.PortfolioEntry {
	e := &models.PortfolioEntry{ID: uuid.New(), SubmissionID: submissionID, AddedAt: s.clock.Now(), Verified: true}
	if err := s.insertPortfolioEntry(e); err != nil {
		panic(err)
	}
	return e
}

func (r *fakePortfolioRepo) ListBySubmissionIDs(_ context.Context, ids []uuid.UUID) ([]*models.PortfolioEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.PortfolioEntry{}
	for _, id := range ids {
		if e, ok := r.s.portfolio[id]; ok {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

// ---- ledger ----

type fakeLedgerRepo struct {
	s *store

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

var _ repository.EduPointsRepository = (*fakeLedgerRepo)(nil)

func newFakeLedgerRepo(s *store) *fakeLedgerRepo {
	return &fakeLedgerRepo{s: s, locks: map[uuid.UUID]*sync.Mutex{}}
}

func (r *fakeLedgerRepo) Create(_ context.Context, tx *models.EduPointsTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.TxTime = r.s.clock.Now()
	cp := *tx
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}

func (r *fakeLedgerRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.EduPointsTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.EduPointsTransaction{}
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		if tx := r.s.ledger[i]; tx.UserID == userID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) WithinUserLock(ctx context.Context, userID uuid.UUID, fn func(repo repository.EduPointsRepository) error) error {
	r.s.mu.Lock()
	_, ok := r.s.users[userID]
	r.s.mu.Unlock()
	if !ok {
		return gorm.ErrRecordNotFound
	}

	r.locksMu.Lock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	r.locksMu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn(r)
}

// ---- blobs ----

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
	putErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (b *fakeBlobStore) Put(_ context.Context, objectPath string, r io.Reader, _ int64, _ string) (string, error) {
	if b.putErr != nil {
		return "", b.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectPath] = buf.Bytes()
	return "http://blobs.test/submissions/" + objectPath, nil
}

func (b *fakeBlobStore) Remove(_ context.Context, objectPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[objectPath]; !ok {
		return errors.New("no such object")
	}
	delete(b.objects, objectPath)
	b.removed = append(b.removed, objectPath)
	return nil
}
