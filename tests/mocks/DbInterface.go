package mocks

import (
	context "context"

	common "github.com/ethereum/go-ethereum/common"
	mock "github.com/stretchr/testify/mock"

	model "github.com/crashbonus/crash-staking-ledger/internal/db/model"
	types "github.com/crashbonus/crash-staking-ledger/internal/types"
)

// DbInterface is a mock type for the DbInterface type
type DbInterface struct {
	mock.Mock
}

func (_m *DbInterface) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *DbInterface) SaveNewStake(ctx context.Context, stakeDoc *model.StakeDocument) error {
	ret := _m.Called(ctx, stakeDoc)
	return ret.Error(0)
}

func (_m *DbInterface) CloseStake(ctx context.Context, settlement types.StakeRemovedEvent) error {
	ret := _m.Called(ctx, settlement)
	return ret.Error(0)
}

func (_m *DbInterface) GetStake(ctx context.Context, account common.Address, id types.StakeID) (*model.StakeDocument, error) {
	ret := _m.Called(ctx, account, id)

	var r0 *model.StakeDocument
	if rf, ok := ret.Get(0).(func(context.Context, common.Address, types.StakeID) *model.StakeDocument); ok {
		r0 = rf(ctx, account, id)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.StakeDocument)
	}

	return r0, ret.Error(1)
}

func (_m *DbInterface) FindStakes(ctx context.Context) ([]model.StakeDocument, error) {
	ret := _m.Called(ctx)

	var r0 []model.StakeDocument
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.StakeDocument)
	}

	return r0, ret.Error(1)
}

func (_m *DbInterface) SaveCrashEvent(ctx context.Context, event *model.CrashEventDocument) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

func (_m *DbInterface) GetLatestCrashCounters(ctx context.Context) (types.CrashCounters, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(types.CrashCounters), ret.Error(1)
}

func (_m *DbInterface) UpsertOverallStats(ctx context.Context, stats types.Stats) error {
	ret := _m.Called(ctx, stats)
	return ret.Error(0)
}

func (_m *DbInterface) GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error) {
	ret := _m.Called(ctx)

	var r0 *model.OverallStatsDocument
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.OverallStatsDocument)
	}

	return r0, ret.Error(1)
}

// NewDbInterface creates a new instance of DbInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewDbInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *DbInterface {
	m := &DbInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
