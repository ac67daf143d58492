package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/service"
)

func TestUser_CompleteProfileOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice", domain.RoleUser)

	user, wallet, err := f.user.CompleteProfile(ctx, alice.ID, domain.DepartmentIT, "F")
	require.NoError(t, err)
	assert.Equal(t, domain.DepartmentIT, user.Department)
	assert.Equal(t, "F", user.Gender)
	assert.Equal(t, alice.ID, wallet.UserID)
	assert.Equal(t, int64(0), wallet.Gems)

	require.NotNil(t, user.ProfileCompletedAt)
	assert.True(t, testNow.Equal(*user.ProfileCompletedAt))

	_, _, err = f.user.CompleteProfile(ctx, alice.ID, domain.DepartmentHR, "F")
	assert.ErrorIs(t, err, service.ErrProfileAlreadyCompleted)

	found, err := f.user.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DepartmentIT, found.Department)
	assert.True(t, found.HasCompletedProfile())

	_, _, err = f.user.CompleteProfile(ctx, alice.ID+100, domain.DepartmentHR, "M")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUser_CompleteProfileAfterFirstReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newReviewSetup(t, f)
	svc := f.submissionService(true)

	submission, err := svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/proof")
	require.NoError(t, err)
	_, err = svc.ApproveSubmission(ctx, s.judge, submission.ID)
	require.NoError(t, err)

	user, wallet, err := f.user.CompleteProfile(ctx, s.alice.ID, domain.DepartmentFinance, "F")
	require.NoError(t, err)
	assert.Equal(t, "F", user.Gender)
	assert.Equal(t, domain.DepartmentFinance, user.Department)
	assert.Equal(t, int64(25), wallet.Gems)
	assert.Equal(t, int64(25), f.userGems(t, s.alice))
}

func TestAuth_SignupAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := service.NewAuthService(f.users)

	created, err := auth.Signup(ctx, domain.User{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "Secret123!",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.NotEqual(t, "Secret123!", created.Password)

	_, err = auth.Signup(ctx, domain.User{Name: "Dana", Email: "dana@example.com", Password: "Secret123!"})
	assert.ErrorIs(t, err, service.ErrUserEmailExists)

	_, err = auth.Signup(ctx, domain.User{Name: "Eve", Email: "eve@example.com", Password: "Secret123!", Role: domain.RoleOwner})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	user, err := auth.Login(ctx, "dana@example.com", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = auth.Login(ctx, "dana@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrWrongPassword)

	_, err = auth.Login(ctx, "nobody@example.com", "Secret123!")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
