package service

import (
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type testEnv struct {
	store       *store
	users       *fakeUserRepo
	tasks       *fakeTaskRepo
	submissions *fakeSubmissionRepo
	portfolio   *fakePortfolioRepo
	ledger      *fakeLedgerRepo
	blobs       *fakeBlobStore
	log         *logrus.Logger
	hook        *test.Hook
}

func newTestEnv() *testEnv {
	s := newStore()
	log, hook := test.NewNullLogger()
	return &testEnv{
		store:       s,
		users:       &fakeUserRepo{s: s},
		tasks:       &fakeTaskRepo{s: s},
		submissions: &fakeSubmissionRepo{s: s},
		portfolio:   &fakePortfolioRepo{s: s},
		ledger:      newFakeLedgerRepo(s),
		blobs:       newFakeBlobStore(),
		log:         log,
		hook:        hook,
	}
}

func (e *testEnv) edupoints() EduPointsService {
	return NewEduPointsService(e.users, e.ledger, e.log)
}

func (e *testEnv) submissionService() *SubmissionServiceImpl {
	svc := NewSubmissionService(e.users, e.tasks, e.submissions, e.portfolio, e.blobs, e.log).(*SubmissionServiceImpl)
	svc.now = e.store.clock.Now
	return svc
}

func (e *testEnv) portfolioService() PortfolioService {
	return NewPortfolioService(e.users, e.tasks, e.submissions, e.portfolio, e.log)
}

func (e *testEnv) userService() UserService {
	return NewUserService(e.users, e.log)
}

func (e *testEnv) taskService() TaskService {
	return NewTaskService(e.users, e.tasks, e.submissions, e.log)
}
