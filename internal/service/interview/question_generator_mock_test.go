package interview

import (
	"context"
	"sync"
)

var _ questionGenerator = &questionGeneratorMock{}

type questionGeneratorMock struct {
	CompleteFunc func(ctx context.Context, system, prompt string) (string, error)

	calls struct {
		Complete []struct {
			Ctx    context.Context
			System string
			Prompt string
		}
	}
	lockComplete sync.RWMutex
}

func (mock *questionGeneratorMock) Complete(ctx context.Context, system, prompt string) (string, error) {
	if mock.CompleteFunc == nil {
		panic("questionGeneratorMock.CompleteFunc: method is nil but questionGenerator.Complete was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		System string
		Prompt string
	}{Ctx: ctx, System: system, Prompt: prompt}
	mock.lockComplete.Lock()
	mock.calls.Complete = append(mock.calls.Complete, callInfo)
	mock.lockComplete.Unlock()
	return mock.CompleteFunc(ctx, system, prompt)
}

func (mock *questionGeneratorMock) CompleteCalls() []struct {
	Ctx    context.Context
	System string
	Prompt string
} {
	mock.lockComplete.RLock()
	calls := mock.calls.Complete
	mock.lockComplete.RUnlock()
	return calls
}
