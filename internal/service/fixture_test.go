package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/repository"
	"github.com/questevent/questevent-api/internal/repository/dao"
	"github.com/questevent/questevent-api/internal/repository/dao/daotest"
	"github.com/questevent/questevent-api/internal/service"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	clock       *clockwork.FakeClock
	tx          *dao.Transactor
	users       *repository.UserRepository
	wallets     *repository.WalletRepository
	programs    *repository.ProgramRepository
	activities  *repository.ActivityRepository
	submissions *repository.SubmissionRepository

	ledger       *service.LedgerService
	settlement   *service.SettlementService
	walletQuery  *service.WalletService
	program      *service.ProgramService
	registration *service.RegistrationService
	user         *service.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := daotest.NewDB(t)
	f := &fixture{
		clock:       clockwork.NewFakeClockAt(testNow),
		tx:          dao.NewTransactor(db),
		users:       repository.NewUserRepository(dao.NewUserDAO(db)),
		wallets:     repository.NewWalletRepository(dao.NewWalletDAO(db)),
		programs:    repository.NewProgramRepository(dao.NewProgramDAO(db)),
		activities:  repository.NewActivityRepository(dao.NewActivityDAO(db)),
		submissions: repository.NewSubmissionRepository(dao.NewSubmissionDAO(db)),
	}

	f.ledger = service.NewLedgerService(f.tx, f.wallets, f.users, f.programs)
	f.settlement = service.NewSettlementService(f.tx, f.programs, f.wallets, f.clock, 5*time.Second)
	f.walletQuery = service.NewWalletService(f.wallets, f.programs)
	f.program = service.NewProgramService(f.tx, f.programs, f.activities, f.users)
	f.registration = service.NewRegistrationService(f.tx, f.programs, f.ledger)
	f.user = service.NewUserService(f.tx, f.users, f.ledger, f.clock)

	return f
}

func (f *fixture) submissionService(creditUserWallet bool) *service.SubmissionService {
	return service.NewSubmissionService(f.tx, f.submissions, f.activities, f.programs, f.ledger, f.clock, creditUserWallet)
}

func (f *fixture) createUser(t *testing.T, name string, role domain.Role) domain.User {
	t.Helper()

	user, err := f.users.Create(context.Background(), domain.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hash",
		Role:     role,
	})
	require.NoError(t, err)

	return user
}

// createProgram stores a program that ended the day before testNow.
func (f *fixture) createProgram(t *testing.T, host domain.User, status domain.ProgramStatus) domain.Program {
	t.Helper()

	program, err := f.programs.Create(context.Background(), domain.Program{
		Title:     "Quest week",
		StartDate: testNow.Add(-7 * 24 * time.Hour),
		EndDate:   testNow.Add(-24 * time.Hour),
		Status:    status,
		HostID:    host.ID,
	})
	require.NoError(t, err)

	return program
}

func (f *fixture) createUserWallet(t *testing.T, user domain.User, gems int64) domain.UserWallet {
	t.Helper()

	wallet, err := f.ledger.CreateUserWallet(context.Background(), user.ID)
	require.NoError(t, err)

	if gems > 0 {
		_, err = f.ledger.CreditUserWallet(context.Background(), user.ID, gems)
		require.NoError(t, err)
	}

	return wallet
}

func (f *fixture) fundProgramWallet(t *testing.T, user domain.User, program domain.Program, gems int64) domain.ProgramWallet {
	t.Helper()

	wallet, err := f.ledger.CreateProgramWallet(context.Background(), user.ID, program.ID)
	require.NoError(t, err)

	if gems > 0 {
		_, err = f.ledger.CreditProgramWallet(context.Background(), user.ID, program.ID, gems)
		require.NoError(t, err)
	}

	return wallet
}

func (f *fixture) userGems(t *testing.T, user domain.User) int64 {
	t.Helper()

	wallet, err := f.wallets.FindUserWallet(context.Background(), user.ID)
	require.NoError(t, err)

	return wallet.Gems
}

func (f *fixture) programGems(t *testing.T, user domain.User, program domain.Program) int64 {
	t.Helper()

	wallet, err := f.wallets.FindProgramWallet(context.Background(), user.ID, program.ID)
	require.NoError(t, err)

	return wallet.Gems
}

func (f *fixture) programStatus(t *testing.T, program domain.Program) domain.ProgramStatus {
	t.Helper()

	found, err := f.programs.GetByID(context.Background(), program.ID)
	require.NoError(t, err)

	return found.Status
}
