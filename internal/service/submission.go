package service

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/questevent/questevent-api/internal/domain"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission domain.Submission) (domain.Submission, error)
	GetByID(ctx context.Context, id uint) (domain.Submission, error)
	GetPending(ctx context.Context) ([]domain.Submission, error)
	Review(ctx context.Context, submission domain.Submission) (bool, error)
}

type SubmissionActivityRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Activity, error)
}

type SubmissionProgramRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Program, error)
	ShareLockByID(ctx context.Context, id uint) (domain.Program, error)
	IsRegistered(ctx context.Context, programID, userID uint) (bool, error)
}

type RewardLedger interface {
	CreditUserWallet(ctx context.Context, userID uint, amount int64) (int64, error)
	CreditProgramWallet(ctx context.Context, userID, programID uint, amount int64) (int64, error)
	EnsureUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error)
}

// SubmissionService runs the review workflow. Approval is the only path that credits
// gems for an activity.
type SubmissionService struct {
	tx               Transactor
	submissions      SubmissionRepository
	activities       SubmissionActivityRepository
	programs         SubmissionProgramRepository
	ledger           RewardLedger
	clock            clockwork.Clock
	creditUserWallet bool
}

func NewSubmissionService(
	tx Transactor,
	submissions SubmissionRepository,
	activities SubmissionActivityRepository,
	programs SubmissionProgramRepository,
	ledger RewardLedger,
	clock clockwork.Clock,
	creditUserWallet bool,
) *SubmissionService {
	return &SubmissionService{
		tx:               tx,
		submissions:      submissions,
		activities:       activities,
		programs:         programs,
		ledger:           ledger,
		clock:            clock,
		creditUserWallet: creditUserWallet,
	}
}

// Submit records a PENDING submission from a user registered for the activity's program.
func (s *SubmissionService) Submit(ctx context.Context, actor domain.User, activityID uint, submissionURL string) (domain.Submission, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.activities.GetByID -> %w", err)
	}

	program, err := s.programs.GetByID(ctx, activity.ProgramID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.programs.GetByID -> %w", err)
	}

	if program.IsCompleted() {
		return domain.Submission{}, ErrProgramAlreadyCompleted
	}

	registered, err := s.programs.IsRegistered(ctx, program.ID, actor.ID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.programs.IsRegistered -> %w", err)
	}
	if !registered {
		return domain.Submission{}, ErrNotRegistered
	}

	created, err := s.submissions.Create(ctx, domain.Submission{
		ActivityID:    activityID,
		UserID:        actor.ID,
		SubmissionURL: submissionURL,
		Status:        domain.ReviewPending,
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.submissions.Create -> %w", err)
	}

	return created, nil
}

// ApproveSubmission marks the submission APPROVED and credits the activity's reward.
// The status change and the credits commit together, so a submission is rewarded at most once.
func (s *SubmissionService) ApproveSubmission(ctx context.Context, reviewer domain.User, submissionID uint) (domain.ReviewResult, error) {
	var result domain.ReviewResult

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		submission, activity, program, err := s.loadForReview(ctx, reviewer, submissionID)
		if err != nil {
			return err
		}

		if !activity.CanReward() {
			return ErrInvalidAmount
		}

		now := s.clock.Now()
		submission.Status = domain.ReviewApproved
		submission.ReviewedBy = &reviewer.ID
		submission.AwardedGems = activity.RewardGems
		submission.ReviewedAt = &now

		changed, err := s.submissions.Review(ctx, submission)
		if err != nil {
			return fmt.Errorf("s.submissions.Review -> %w", err)
		}
		if !changed {
			return ErrSubmissionAlreadyReviewed
		}

		programGems, err := s.ledger.CreditProgramWallet(ctx, submission.UserID, program.ID, activity.RewardGems)
		if err != nil {
			return fmt.Errorf("s.ledger.CreditProgramWallet -> %w", err)
		}

		result = domain.ReviewResult{
			Submission:  submission,
			ProgramID:   program.ID,
			ProgramGems: programGems,
		}

		if !s.creditUserWallet {
			return nil
		}

		if _, err = s.ledger.EnsureUserWallet(ctx, submission.UserID); err != nil {
			return fmt.Errorf("s.ledger.EnsureUserWallet -> %w", err)
		}

		userGems, err := s.ledger.CreditUserWallet(ctx, submission.UserID, activity.RewardGems)
		if err != nil {
			return fmt.Errorf("s.ledger.CreditUserWallet -> %w", err)
		}

		result.UserGems = userGems
		result.UserWalletTouch = true

		return nil
	})
	if err != nil {
		return domain.ReviewResult{}, err
	}

	zap.L().Info("submission approved",
		zap.Uint("submission_id", submissionID),
		zap.Uint("reviewer_id", reviewer.ID),
		zap.Uint("user_id", result.Submission.UserID),
		zap.Uint("program_id", result.ProgramID),
		zap.Int64("awarded", result.Submission.AwardedGems),
	)

	return result, nil
}

// RejectSubmission marks the submission REJECTED. Nothing is credited.
func (s *SubmissionService) RejectSubmission(ctx context.Context, reviewer domain.User, submissionID uint, reason string) (domain.Submission, error) {
	var rejected domain.Submission

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		submission, _, _, err := s.loadForReview(ctx, reviewer, submissionID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		submission.Status = domain.ReviewRejected
		submission.ReviewedBy = &reviewer.ID
		submission.RejectionReason = reason
		submission.ReviewedAt = &now

		changed, err := s.submissions.Review(ctx, submission)
		if err != nil {
			return fmt.Errorf("s.submissions.Review -> %w", err)
		}
		if !changed {
			return ErrSubmissionAlreadyReviewed
		}

		rejected = submission
		return nil
	})
	if err != nil {
		return domain.Submission{}, err
	}

	zap.L().Info("submission rejected", zap.Uint("submission_id", submissionID), zap.Uint("reviewer_id", reviewer.ID))

	return rejected, nil
}

// ListPending returns the pending submissions the reviewer is allowed to judge.
func (s *SubmissionService) ListPending(ctx context.Context, reviewer domain.User) ([]domain.Submission, error) {
	pending, err := s.submissions.GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.submissions.GetPending -> %w", err)
	}

	if reviewer.Role == domain.RoleOwner {
		return pending, nil
	}

	programByActivity := make(map[uint]domain.Program)
	visible := make([]domain.Submission, 0, len(pending))
	for _, submission := range pending {
		program, ok := programByActivity[submission.ActivityID]
		if !ok {
			activity, err := s.activities.GetByID(ctx, submission.ActivityID)
			if err != nil {
				return nil, fmt.Errorf("s.activities.GetByID -> %w", err)
			}

			program, err = s.programs.GetByID(ctx, activity.ProgramID)
			if err != nil {
				return nil, fmt.Errorf("s.programs.GetByID -> %w", err)
			}
			programByActivity[submission.ActivityID] = program
		}

		if program.CanJudge(reviewer) {
			visible = append(visible, submission)
		}
	}

	return visible, nil
}

// loadForReview share-locks the program before anything else so review takes
// locks in the same order as settlement.
func (s *SubmissionService) loadForReview(ctx context.Context, reviewer domain.User, submissionID uint) (domain.Submission, domain.Activity, domain.Program, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, domain.Activity{}, domain.Program{}, fmt.Errorf("s.submissions.GetByID -> %w", err)
	}

	activity, err := s.activities.GetByID(ctx, submission.ActivityID)
	if err != nil {
		return domain.Submission{}, domain.Activity{}, domain.Program{}, fmt.Errorf("s.activities.GetByID -> %w", err)
	}

	program, err := s.programs.ShareLockByID(ctx, activity.ProgramID)
	if err != nil {
		return domain.Submission{}, domain.Activity{}, domain.Program{}, fmt.Errorf("s.programs.ShareLockByID -> %w", err)
	}

	if !program.CanJudge(reviewer) {
		return domain.Submission{}, domain.Activity{}, domain.Program{}, ErrJudgeNotAssigned
	}

	if !submission.IsPending() {
		return domain.Submission{}, domain.Activity{}, domain.Program{}, ErrSubmissionAlreadyReviewed
	}

	return submission, activity, program, nil
}
