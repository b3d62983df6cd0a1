package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	types "github.com/crashbonus/crash-staking-ledger/internal/types"
)

// Publisher is a mock type for the Publisher type
type Publisher struct {
	mock.Mock
}

func (_m *Publisher) Publish(ctx context.Context, event types.Event) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

func (_m *Publisher) Shutdown() {
	_m.Called()
}

// NewPublisher creates a new instance of Publisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *Publisher {
	m := &Publisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
