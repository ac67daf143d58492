package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/questevent/questevent-api/internal/domain"
)

type RegistrationProgramRepository interface {
	ShareLockByID(ctx context.Context, id uint) (domain.Program, error)
	AddRegistration(ctx context.Context, programID, userID uint) (domain.ProgramRegistration, error)
}

type ProgramWalletCreator interface {
	CreateProgramWallet(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error)
}

type RegistrationService struct {
	tx       Transactor
	programs RegistrationProgramRepository
	ledger   ProgramWalletCreator
}

func NewRegistrationService(tx Transactor, programs RegistrationProgramRepository, ledger ProgramWalletCreator) *RegistrationService {
	return &RegistrationService{
		tx:       tx,
		programs: programs,
		ledger:   ledger,
	}
}

// RegisterForProgram registers userID for the program and opens the program wallet.
// Users register themselves; the host or an owner may register anyone.
func (s *RegistrationService) RegisterForProgram(ctx context.Context, actor domain.User, programID, userID uint) (domain.ProgramWallet, error) {
	var wallet domain.ProgramWallet

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		program, err := s.programs.ShareLockByID(ctx, programID)
		if err != nil {
			return fmt.Errorf("s.programs.ShareLockByID -> %w", err)
		}

		if userID != actor.ID && !program.CanManage(actor) {
			return ErrPermissionDenied
		}

		if program.IsCompleted() {
			return ErrProgramAlreadyCompleted
		}

		wallet, err = s.ledger.CreateProgramWallet(ctx, userID, programID)
		if err != nil {
			return fmt.Errorf("s.ledger.CreateProgramWallet -> %w", err)
		}

		if _, err = s.programs.AddRegistration(ctx, programID, userID); err != nil {
			return fmt.Errorf("s.programs.AddRegistration -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.ProgramWallet{}, err
	}

	zap.L().Info("user registered for program",
		zap.Uint("program_id", programID),
		zap.Uint("user_id", userID),
		zap.String("wallet_id", wallet.ID.String()),
	)

	return wallet, nil
}
