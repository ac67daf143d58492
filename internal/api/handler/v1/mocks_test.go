package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/questevent/questevent-api/internal/domain"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserService) CompleteProfile(ctx context.Context, userID uint, department domain.Department, gender string) (domain.User, domain.UserWallet, error) {
	args := m.Called(ctx, userID, department, gender)
	return args.Get(0).(domain.User), args.Get(1).(domain.UserWallet), args.Error(2)
}

type mockSettlementService struct {
	mock.Mock
}

func (m *mockSettlementService) ManuallySettleExpiredProgramWallets(ctx context.Context, actor domain.User, programID uint) (domain.SettlementResult, error) {
	args := m.Called(ctx, actor, programID)
	return args.Get(0).(domain.SettlementResult), args.Error(1)
}

func (m *mockSettlementService) AutoSettleExpiredPrograms(ctx context.Context) (domain.SettlementReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SettlementReport), args.Error(1)
}

type mockWalletService struct {
	mock.Mock
}

func (m *mockWalletService) GetWalletBalance(ctx context.Context, userID uint) (domain.UserWallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.UserWallet), args.Error(1)
}

func (m *mockWalletService) GetProgramWalletBalance(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error) {
	args := m.Called(ctx, userID, programID)
	return args.Get(0).(domain.ProgramWallet), args.Error(1)
}

func (m *mockWalletService) ListProgramWallets(ctx context.Context, actor domain.User, programID uint) ([]domain.ProgramWallet, error) {
	args := m.Called(ctx, actor, programID)
	return args.Get(0).([]domain.ProgramWallet), args.Error(1)
}
