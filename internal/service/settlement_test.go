package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/service"
)

func TestSettlement_MovesProgramGemsIntoUserWallets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.createUser(t, "host", domain.RoleHost)
	alice := f.createUser(t, "alice", domain.RoleUser)
	bob := f.createUser(t, "bob", domain.RoleUser)
	program := f.createProgram(t, host, domain.ProgramActive)

	f.createUserWallet(t, alice, 10)
	f.fundProgramWallet(t, alice, program, 40)
	// bob never earned anything and has no user wallet
	f.fundProgramWallet(t, bob, program, 0)

	result, err := f.settlement.ManuallySettleExpiredProgramWallets(ctx, host, program.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.ProgramCompleted, result.Program.Status)
	assert.Equal(t, int64(40), result.Transferred)
	require.Len(t, result.Transfers, 1)
	assert.Equal(t, alice.ID, result.Transfers[0].UserID)
	assert.Equal(t, int64(40), result.Transfers[0].Gems)
	assert.Equal(t, int64(50), result.Transfers[0].UserGemsAfter)

	assert.Equal(t, int64(50), f.userGems(t, alice))
	assert.Equal(t, int64(0), f.programGems(t, alice, program))
	assert.Equal(t, int64(0), f.programGems(t, bob, program))
	assert.Equal(t, domain.ProgramCompleted, f.programStatus(t, program))
}

func TestSettlement_ConservesGems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.createUser(t, "host", domain.RoleHost)
	program := f.createProgram(t, host, domain.ProgramActive)

	users := make([]domain.User, 0, 4)
	for i, name := range []string{"u1", "u2", "u3", "u4"} {
		u := f.createUser(t, name, domain.RoleUser)
		f.createUserWallet(t, u, int64(i*7))
		f.fundProgramWallet(t, u, program, int64(i*13+1))
		users = append(users, u)
	}

	total := func() int64 {
		var sum int64
		for _, u := range users {
			sum += f.userGems(t, u) + f.programGems(t, u, program)
		}
		return sum
	}

	before := total()

	result, err := f.settlement.ManuallySettleExpiredProgramWallets(ctx, host, program.ID)
	require.NoError(t, err)

	assert.Equal(t, before, total())
	assert.Len(t, result.Transfers, len(users))
	for i := 1; i < len(result.Transfers); i++ {
		assert.Less(t, result.Transfers[i-1].UserID, result.Transfers[i].UserID)
	}
}

func TestSettlement_SettlesOnlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.createUser(t, "host", domain.RoleHost)
	alice := f.createUser(t, "alice", domain.RoleUser)
	program := f.createProgram(t, host, domain.ProgramActive)
	f.createUserWallet(t, alice, 10)
	f.fundProgramWallet(t, alice, program, 40)

	_, err := f.settlement.ManuallySettleExpiredProgramWallets(ctx, host, program.ID)
	require.NoError(t, err)

	_, err = f.settlement.ManuallySettleExpiredProgramWallets(ctx, host, program.ID)
	assert.ErrorIs(t, err, service.ErrProgramAlreadyCompleted)

	report, err := f.settlement.AutoSettleExpiredPrograms(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Settled)

	assert.Equal(t, int64(50), f.userGems(t, alice))
	assert.Equal(t, int64(0), f.programGems(t, alice, program))
}

func TestSettlement_MissingUserWalletAbortsProgram(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.createUser(t, "host", domain.RoleHost)
	alice := f.createUser(t, "alice", domain.RoleUser)
	carol := f.createUser(t, "carol", domain.RoleUser)
	program := f.createProgram(t, host, domain.ProgramActive)

	f.createUserWallet(t, alice, 10)
	f.fundProgramWallet(t, alice, program, 40)
	f.fundProgramWallet(t, carol, program, 5)

	_, err := f.settlement.ManuallySettleExpiredProgramWallets(ctx, host, program.ID)
	assert.ErrorIs(t, err, service.ErrWalletNotFound)

	// alice was credited first and must have been rolled back
	assert.Equal(t, int64(10), f.userGems(t, alice))
	assert.Equal(t, int64(40), f.programGems(t, alice, program))
	assert.Equal(t, int64(5), f.programGems(t, carol, program))
	assert.Equal(t, domain.ProgramActive, f.programStatus(t, program))
}

func TestSettlement_ManualRequiresHostOrOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.createUser(t, "host", domain.RoleHost)
	owner := f.createUser(t, "owner", domain.RoleOwner)
	alice := f.createUser(t, "alice", domain.RoleUser)
	program := f.createProgram(t, host, domain.ProgramActive)
	f.createUserWallet(t, alice, 0)
	f.fundProgramWallet(t, alice, program, 12)

	_, err := f.settlement.ManuallySettleExpiredProgramWallets(ctx, alice, program.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	assert.Equal(t, domain.ProgramActive, f.programStatus(t, program))

	_, err = f.settlement.ManuallySettleExpiredProgramWallets(ctx, owner, program.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), f.userGems(t, alice))
}

func TestSettlement_InvalidProgram(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner", domain.RoleOwner)

	_, err := f.settlement.ManuallySettleExpiredProgramWallets(ctx, owner, 0)
	assert.ErrorIs(t, err, service.ErrInvalidProgramID)

	_, err = f.settlement.ManuallySettleExpiredProgramWallets(ctx, owner, 42)
	assert.ErrorIs(t, err, service.ErrProgramNotFound)
}

func TestSettlement_EmptyProgramCompletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.createUser(t, "host", domain.RoleHost)
	program := f.createProgram(t, host, domain.ProgramActive)

	result, err := f.settlement.ManuallySettleExpiredProgramWallets(ctx, host, program.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Transfers)
	assert.Equal(t, int64(0), result.Transferred)
	assert.Equal(t, domain.ProgramCompleted, f.programStatus(t, program))
}

func TestSettlement_AutoIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.createUser(t, "host", domain.RoleHost)
	alice := f.createUser(t, "alice", domain.RoleUser)
	carol := f.createUser(t, "carol", domain.RoleUser)
	f.createUserWallet(t, alice, 0)

	good := f.createProgram(t, host, domain.ProgramActive)
	f.fundProgramWallet(t, alice, good, 20)

	broken := f.createProgram(t, host, domain.ProgramActive)
	f.fundProgramWallet(t, carol, broken, 9)

	draft := f.createProgram(t, host, domain.ProgramDraft)

	running, err := f.programs.Create(ctx, domain.Program{
		Title:     "Still running",
		StartDate: testNow.Add(-24 * time.Hour),
		EndDate:   testNow.Add(24 * time.Hour),
		Status:    domain.ProgramActive,
		HostID:    host.ID,
	})
	require.NoError(t, err)

	report, err := f.settlement.AutoSettleExpiredPrograms(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrWalletNotFound)

	assert.Equal(t, []uint{good.ID}, report.Settled)
	assert.Empty(t, report.Skipped)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, broken.ID, report.Failed[0].ProgramID)
	assert.Equal(t, int64(20), report.Transferred)

	assert.Equal(t, domain.ProgramCompleted, f.programStatus(t, good))
	assert.Equal(t, domain.ProgramActive, f.programStatus(t, broken))
	assert.Equal(t, domain.ProgramDraft, f.programStatus(t, draft))
	assert.Equal(t, domain.ProgramActive, f.programStatus(t, running))
	assert.Equal(t, int64(20), f.userGems(t, alice))
	assert.Equal(t, int64(9), f.programGems(t, carol, broken))
}

func TestSettlement_AutoWithNothingToDo(t *testing.T) {
	f := newFixture(t)

	report, err := f.settlement.AutoSettleExpiredPrograms(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report.Settled)
	assert.Empty(t, report.Settled)
	assert.Empty(t, report.Failed)
	assert.Equal(t, testNow, report.StartedAt)
}

func TestSettlement_ConcurrentAutoAndManualCreditOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.createUser(t, "host", domain.RoleHost)
	alice := f.createUser(t, "alice", domain.RoleUser)
	program := f.createProgram(t, host, domain.ProgramActive)
	f.createUserWallet(t, alice, 10)
	f.fundProgramWallet(t, alice, program, 40)

	var (
		wg        sync.WaitGroup
		manualErr error
		autoErr   error
		report    domain.SettlementReport
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, manualErr = f.settlement.ManuallySettleExpiredProgramWallets(ctx, host, program.ID)
	}()
	go func() {
		defer wg.Done()
		report, autoErr = f.settlement.AutoSettleExpiredPrograms(ctx)
	}()
	wg.Wait()

	require.NoError(t, autoErr)
	if manualErr != nil {
		assert.ErrorIs(t, manualErr, service.ErrProgramAlreadyCompleted)
		assert.Equal(t, []uint{program.ID}, report.Settled)
	} else {
		assert.Empty(t, report.Settled)
	}

	assert.Equal(t, int64(50), f.userGems(t, alice))
	assert.Equal(t, int64(0), f.programGems(t, alice, program))
	assert.Equal(t, domain.ProgramCompleted, f.programStatus(t, program))
}
