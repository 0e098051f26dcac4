package interview

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/opscapture/interview-backend/internal/domain"
)

var _ interviewRepo = &interviewRepoMock{}

type interviewRepoMock struct {
	CreateFunc     func(ctx context.Context, iv *domain.Interview) error
	GetByIDFunc    func(ctx context.Context, userID, id uuid.UUID) (*domain.Interview, error)
	ListByUserFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.Interview, error)
	SaveFunc       func(ctx context.Context, iv *domain.Interview) error

	calls struct {
		Create []struct {
			Ctx context.Context
			Iv  *domain.Interview
		}
		GetByID []struct {
			Ctx    context.Context
			UserID uuid.UUID
			ID     uuid.UUID
		}
		ListByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		Save []struct {
			Ctx context.Context
			Iv  *domain.Interview
		}
	}
	lockCreate     sync.RWMutex
	lockGetByID    sync.RWMutex
	lockListByUser sync.RWMutex
	lockSave       sync.RWMutex
}

func (mock *interviewRepoMock) Create(ctx context.Context, iv *domain.Interview) error {
	if mock.CreateFunc == nil {
		panic("interviewRepoMock.CreateFunc: method is nil but interviewRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Iv  *domain.Interview
	}{Ctx: ctx, Iv: iv}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, iv)
}

func (mock *interviewRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Iv  *domain.Interview
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *interviewRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Interview, error) {
	if mock.GetByIDFunc == nil {
		panic("interviewRepoMock.GetByIDFunc: method is nil but interviewRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		ID     uuid.UUID
	}{Ctx: ctx, UserID: userID, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, userID, id)
}

func (mock *interviewRepoMock) GetByIDCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	ID     uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *interviewRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Interview, error) {
	if mock.ListByUserFunc == nil {
		panic("interviewRepoMock.ListByUserFunc: method is nil but interviewRepo.ListByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{Ctx: ctx, UserID: userID}
	mock.lockListByUser.Lock()
	mock.calls.ListByUser = append(mock.calls.ListByUser, callInfo)
	mock.lockListByUser.Unlock()
	return mock.ListByUserFunc(ctx, userID)
}

func (mock *interviewRepoMock) ListByUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockListByUser.RLock()
	calls := mock.calls.ListByUser
	mock.lockListByUser.RUnlock()
	return calls
}

func (mock *interviewRepoMock) Save(ctx context.Context, iv *domain.Interview) error {
	if mock.SaveFunc == nil {
		panic("interviewRepoMock.SaveFunc: method is nil but interviewRepo.Save was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Iv  *domain.Interview
	}{Ctx: ctx, Iv: iv}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, iv)
}

func (mock *interviewRepoMock) SaveCalls() []struct {
	Ctx context.Context
	Iv  *domain.Interview
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}
