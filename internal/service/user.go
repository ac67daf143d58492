package service

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/questevent/questevent-api/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

type UserWalletCreator interface {
	EnsureUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error)
}

type UserService struct {
	tx     Transactor
	repo   UserRepository
	ledger UserWalletCreator
	clock  clockwork.Clock
}

func NewUserService(tx Transactor, repo UserRepository, ledger UserWalletCreator, clock clockwork.Clock) *UserService {
	return &UserService{
		tx:     tx,
		repo:   repo,
		ledger: ledger,
		clock:  clock,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// CompleteProfile records the user's department and gender and makes sure their wallet exists.
// The wallet may already be open if a reward was credited first. A profile can be completed once.
func (s *UserService) CompleteProfile(ctx context.Context, userID uint, department domain.Department, gender string) (domain.User, domain.UserWallet, error) {
	var (
		user   domain.User
		wallet domain.UserWallet
	)

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		found, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		if found.HasCompletedProfile() {
			return ErrProfileAlreadyCompleted
		}

		now := s.clock.Now()
		found.Department = department
		found.Gender = gender
		found.ProfileCompletedAt = &now

		user, err = s.repo.Update(ctx, found)
		if err != nil {
			return fmt.Errorf("s.repo.Update -> %w", err)
		}

		wallet, err = s.ledger.EnsureUserWallet(ctx, userID)
		if err != nil {
			return fmt.Errorf("s.ledger.EnsureUserWallet -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.User{}, domain.UserWallet{}, err
	}

	zap.L().Info("profile completed", zap.Uint("user_id", userID), zap.String("wallet_id", wallet.ID.String()))

	return user, wallet, nil
}
