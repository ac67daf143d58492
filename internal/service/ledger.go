package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/metrics"
)

// Transactor runs fn inside a database transaction carried by the context passed to fn.
// Calls made with a context that already carries a transaction join it.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type LedgerWalletRepository interface {
	CreateUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error)
	FindUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error)
	LockUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error)
	AddUserWalletGems(ctx context.Context, walletID uuid.UUID, delta int64) error
	CreateProgramWallet(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error)
	LockProgramWallet(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error)
	AddProgramWalletGems(ctx context.Context, walletID uuid.UUID, delta int64) error
}

type LedgerUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type LedgerProgramRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Program, error)
	ShareLockByID(ctx context.Context, id uint) (domain.Program, error)
}

// LedgerService owns every mutation of a wallet balance. Each call runs in its own
// transaction, or joins the caller's, and locks the wallet row it changes.
type LedgerService struct {
	tx       Transactor
	wallets  LedgerWalletRepository
	users    LedgerUserRepository
	programs LedgerProgramRepository
}

func NewLedgerService(tx Transactor, wallets LedgerWalletRepository, users LedgerUserRepository, programs LedgerProgramRepository) *LedgerService {
	return &LedgerService{
		tx:       tx,
		wallets:  wallets,
		users:    users,
		programs: programs,
	}
}

// CreditUserWallet adds amount gems to the user's global wallet and returns the new balance.
func (s *LedgerService) CreditUserWallet(ctx context.Context, userID uint, amount int64) (int64, error) {
	if amount <= 0 {
		zap.L().Warn("invalid credit amount", zap.Uint("user_id", userID), zap.Int64("amount", amount))
		return 0, ErrInvalidAmount
	}

	var wallet domain.UserWallet
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		wallet, err = s.wallets.LockUserWallet(ctx, userID)
		if err != nil {
			return fmt.Errorf("s.wallets.LockUserWallet -> %w", err)
		}

		if wallet.Gems > math.MaxInt64-amount {
			return ErrInvalidAmount
		}

		if err = s.wallets.AddUserWalletGems(ctx, wallet.ID, amount); err != nil {
			return fmt.Errorf("s.wallets.AddUserWalletGems -> %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			zap.L().Error("user wallet not found", zap.Uint("user_id", userID))
		}
		return 0, err
	}

	after := wallet.Gems + amount
	metrics.LedgerCredits.WithLabelValues(metrics.WalletUser).Inc()
	metrics.LedgerCreditedGems.WithLabelValues(metrics.WalletUser).Add(float64(amount))
	zap.L().Info("user wallet credited",
		zap.Uint("user_id", userID),
		zap.String("wallet_id", wallet.ID.String()),
		zap.Int64("before", wallet.Gems),
		zap.Int64("credited", amount),
		zap.Int64("after", after),
	)

	return after, nil
}

// CreditProgramWallet adds amount gems to the (user, program) wallet and returns the new balance.
// The program row is share-locked so a concurrent settlement either sees this credit or
// runs first and makes it fail with ErrProgramAlreadyCompleted.
func (s *LedgerService) CreditProgramWallet(ctx context.Context, userID, programID uint, amount int64) (int64, error) {
	if amount <= 0 {
		zap.L().Warn("invalid credit amount",
			zap.Uint("user_id", userID),
			zap.Uint("program_id", programID),
			zap.Int64("amount", amount),
		)
		return 0, ErrInvalidAmount
	}

	var wallet domain.ProgramWallet
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		program, err := s.programs.ShareLockByID(ctx, programID)
		if err != nil {
			return fmt.Errorf("s.programs.ShareLockByID -> %w", err)
		}
		if program.IsCompleted() {
			return ErrProgramAlreadyCompleted
		}

		wallet, err = s.wallets.LockProgramWallet(ctx, userID, programID)
		if err != nil {
			return fmt.Errorf("s.wallets.LockProgramWallet -> %w", err)
		}

		if wallet.Gems > math.MaxInt64-amount {
			return ErrInvalidAmount
		}

		if err = s.wallets.AddProgramWalletGems(ctx, wallet.ID, amount); err != nil {
			return fmt.Errorf("s.wallets.AddProgramWalletGems -> %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			zap.L().Error("program wallet not found", zap.Uint("user_id", userID), zap.Uint("program_id", programID))
		}
		return 0, err
	}

	after := wallet.Gems + amount
	metrics.LedgerCredits.WithLabelValues(metrics.WalletProgram).Inc()
	metrics.LedgerCreditedGems.WithLabelValues(metrics.WalletProgram).Add(float64(amount))
	zap.L().Info("program wallet credited",
		zap.Uint("user_id", userID),
		zap.Uint("program_id", programID),
		zap.String("wallet_id", wallet.ID.String()),
		zap.Int64("before", wallet.Gems),
		zap.Int64("credited", amount),
		zap.Int64("after", after),
	)

	return after, nil
}

// CreateProgramWallet opens an empty wallet for the (user, program) pair.
func (s *LedgerService) CreateProgramWallet(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error) {
	var wallet domain.ProgramWallet
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			return fmt.Errorf("s.users.FindByID -> %w", err)
		}

		if _, err := s.programs.GetByID(ctx, programID); err != nil {
			return fmt.Errorf("s.programs.GetByID -> %w", err)
		}

		var err error
		wallet, err = s.wallets.CreateProgramWallet(ctx, userID, programID)
		if err != nil {
			return fmt.Errorf("s.wallets.CreateProgramWallet -> %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWalletAlreadyExists) {
			zap.L().Warn("program wallet already exists", zap.Uint("user_id", userID), zap.Uint("program_id", programID))
		}
		return domain.ProgramWallet{}, err
	}

	zap.L().Info("program wallet created",
		zap.String("wallet_id", wallet.ID.String()),
		zap.Uint("user_id", userID),
		zap.Uint("program_id", programID),
	)

	return wallet, nil
}

// CreateUserWallet opens the user's global wallet with a zero balance.
func (s *LedgerService) CreateUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error) {
	var wallet domain.UserWallet
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			return fmt.Errorf("s.users.FindByID -> %w", err)
		}

		var err error
		wallet, err = s.wallets.CreateUserWallet(ctx, userID)
		if err != nil {
			return fmt.Errorf("s.wallets.CreateUserWallet -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.UserWallet{}, err
	}

	zap.L().Info("user wallet created", zap.String("wallet_id", wallet.ID.String()), zap.Uint("user_id", userID))

	return wallet, nil
}

// EnsureUserWallet returns the user's wallet, creating it on first use.
func (s *LedgerService) EnsureUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error) {
	wallet, err := s.wallets.FindUserWallet(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return domain.UserWallet{}, fmt.Errorf("s.wallets.FindUserWallet -> %w", err)
	}

	wallet, err = s.CreateUserWallet(ctx, userID)
	if errors.Is(err, ErrWalletAlreadyExists) {
		// lost a creation race; the caller's transaction is no longer usable on postgres
		return domain.UserWallet{}, fmt.Errorf("%w: concurrent wallet creation for user %d", ErrTransientStorage, userID)
	}

	return wallet, err
}
