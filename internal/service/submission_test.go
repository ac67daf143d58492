package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/service"
)

type reviewSetup struct {
	host     domain.User
	judge    domain.User
	alice    domain.User
	program  domain.Program
	activity domain.Activity
}

func newReviewSetup(t *testing.T, f *fixture) reviewSetup {
	t.Helper()
	ctx := context.Background()

	s := reviewSetup{
		host:  f.createUser(t, "host", domain.RoleHost),
		judge: f.createUser(t, "judge", domain.RoleJudge),
		alice: f.createUser(t, "alice", domain.RoleUser),
	}
	s.program = f.createProgram(t, s.host, domain.ProgramActive)

	var err error
	s.program, err = f.program.AssignJudge(ctx, s.host, s.program.ID, s.judge.ID)
	require.NoError(t, err)

	s.activity, err = f.program.CreateActivity(ctx, s.host, domain.Activity{
		ProgramID:  s.program.ID,
		Name:       "Treasure hunt",
		RewardGems: 25,
	})
	require.NoError(t, err)

	_, err = f.registration.RegisterForProgram(ctx, s.alice, s.program.ID, s.alice.ID)
	require.NoError(t, err)

	return s
}

func TestSubmission_ApproveCreditsProgramAndUserWallets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newReviewSetup(t, f)
	svc := f.submissionService(true)

	submission, err := svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/proof")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewPending, submission.Status)

	result, err := svc.ApproveSubmission(ctx, s.judge, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewApproved, result.Submission.Status)
	assert.Equal(t, int64(25), result.Submission.AwardedGems)
	assert.Equal(t, s.program.ID, result.ProgramID)
	assert.Equal(t, int64(25), result.ProgramGems)
	assert.Equal(t, int64(25), result.UserGems)
	assert.True(t, result.UserWalletTouch)

	// the user wallet was opened on first credit
	assert.Equal(t, int64(25), f.userGems(t, s.alice))
	assert.Equal(t, int64(25), f.programGems(t, s.alice, s.program))

	_, err = svc.ApproveSubmission(ctx, s.judge, submission.ID)
	assert.ErrorIs(t, err, service.ErrSubmissionAlreadyReviewed)
	assert.Equal(t, int64(25), f.programGems(t, s.alice, s.program))
}

func TestSubmission_ApproveWithoutUserWalletCredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newReviewSetup(t, f)
	svc := f.submissionService(false)

	submission, err := svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/proof")
	require.NoError(t, err)

	result, err := svc.ApproveSubmission(ctx, s.judge, submission.ID)
	require.NoError(t, err)
	assert.False(t, result.UserWalletTouch)
	assert.Equal(t, int64(25), f.programGems(t, s.alice, s.program))

	_, err = f.wallets.FindUserWallet(ctx, s.alice.ID)
	assert.ErrorIs(t, err, service.ErrWalletNotFound)
}

func TestSubmission_OnePerActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newReviewSetup(t, f)
	svc := f.submissionService(true)

	first, err := svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/proof")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/proof-again")
	assert.ErrorIs(t, err, service.ErrSubmissionExists)

	_, err = svc.ApproveSubmission(ctx, s.judge, first.ID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/after-approval")
	assert.ErrorIs(t, err, service.ErrSubmissionExists)

	pending, err := svc.ListPending(ctx, s.judge)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.Equal(t, int64(25), f.programGems(t, s.alice, s.program))
	assert.Equal(t, int64(25), f.userGems(t, s.alice))
}

func TestSubmission_NoResubmitAfterRejection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newReviewSetup(t, f)
	svc := f.submissionService(true)

	first, err := svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/proof")
	require.NoError(t, err)
	_, err = svc.RejectSubmission(ctx, s.judge, first.ID, "wrong activity")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/retry")
	assert.ErrorIs(t, err, service.ErrSubmissionExists)
}

func TestSubmission_Reject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newReviewSetup(t, f)
	svc := f.submissionService(true)

	submission, err := svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/proof")
	require.NoError(t, err)

	rejected, err := svc.RejectSubmission(ctx, s.judge, submission.ID, "blurry photo")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewRejected, rejected.Status)
	assert.Equal(t, "blurry photo", rejected.RejectionReason)
	require.NotNil(t, rejected.ReviewedAt)
	assert.Equal(t, testNow, *rejected.ReviewedAt)

	_, err = svc.ApproveSubmission(ctx, s.judge, submission.ID)
	assert.ErrorIs(t, err, service.ErrSubmissionAlreadyReviewed)
	assert.Equal(t, int64(0), f.programGems(t, s.alice, s.program))
}

func TestSubmission_OnlyAssignedJudgeReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newReviewSetup(t, f)
	svc := f.submissionService(true)
	otherJudge := f.createUser(t, "other", domain.RoleJudge)
	owner := f.createUser(t, "owner", domain.RoleOwner)

	submission, err := svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/proof")
	require.NoError(t, err)

	_, err = svc.ApproveSubmission(ctx, otherJudge, submission.ID)
	assert.ErrorIs(t, err, service.ErrJudgeNotAssigned)

	pending, err := svc.ListPending(ctx, otherJudge)
	require.NoError(t, err)
	assert.Empty(t, pending)

	pending, err = svc.ListPending(ctx, s.judge)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, submission.ID, pending[0].ID)

	pending, err = svc.ListPending(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.ApproveSubmission(ctx, owner, submission.ID)
	require.NoError(t, err)
}

func TestSubmission_SubmitRequiresRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newReviewSetup(t, f)
	svc := f.submissionService(true)
	bob := f.createUser(t, "bob", domain.RoleUser)

	_, err := svc.Submit(ctx, bob, s.activity.ID, "https://example.com/proof")
	assert.ErrorIs(t, err, service.ErrNotRegistered)

	_, err = svc.Submit(ctx, s.alice, s.activity.ID+100, "https://example.com/proof")
	assert.ErrorIs(t, err, service.ErrActivityNotFound)
}

func TestSubmission_CompletedProgram(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newReviewSetup(t, f)
	svc := f.submissionService(false)

	submission, err := svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/proof")
	require.NoError(t, err)

	_, err = f.settlement.ManuallySettleExpiredProgramWallets(ctx, s.host, s.program.ID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, s.alice, s.activity.ID, "https://example.com/late")
	assert.ErrorIs(t, err, service.ErrProgramAlreadyCompleted)

	_, err = svc.ApproveSubmission(ctx, s.judge, submission.ID)
	assert.ErrorIs(t, err, service.ErrProgramAlreadyCompleted)

	found, err := f.submissions.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewPending, found.Status)
}
