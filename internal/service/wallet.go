package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/questevent/questevent-api/internal/domain"
)

type WalletQueryRepository interface {
	FindUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error)
	FindProgramWallet(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error)
	FindProgramWalletByID(ctx context.Context, walletID uuid.UUID) (domain.ProgramWallet, error)
	FindProgramWallets(ctx context.Context, programID uint) ([]domain.ProgramWallet, error)
}

type WalletProgramRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Program, error)
}

// WalletService serves balance snapshots. It never writes.
type WalletService struct {
	wallets  WalletQueryRepository
	programs WalletProgramRepository
}

func NewWalletService(wallets WalletQueryRepository, programs WalletProgramRepository) *WalletService {
	return &WalletService{
		wallets:  wallets,
		programs: programs,
	}
}

func (s *WalletService) GetWalletBalance(ctx context.Context, userID uint) (domain.UserWallet, error) {
	wallet, err := s.wallets.FindUserWallet(ctx, userID)
	if err != nil {
		return domain.UserWallet{}, fmt.Errorf("s.wallets.FindUserWallet -> %w", err)
	}

	return wallet, nil
}

func (s *WalletService) GetProgramWalletBalance(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error) {
	wallet, err := s.wallets.FindProgramWallet(ctx, userID, programID)
	if err != nil {
		return domain.ProgramWallet{}, fmt.Errorf("s.wallets.FindProgramWallet -> %w", err)
	}

	return wallet, nil
}

func (s *WalletService) GetProgramWalletByID(ctx context.Context, walletID uuid.UUID) (domain.ProgramWallet, error) {
	wallet, err := s.wallets.FindProgramWalletByID(ctx, walletID)
	if err != nil {
		return domain.ProgramWallet{}, fmt.Errorf("s.wallets.FindProgramWalletByID -> %w", err)
	}

	return wallet, nil
}

// ListProgramWallets returns every wallet of the program. Only the program's host,
// its judge or an owner may list them.
func (s *WalletService) ListProgramWallets(ctx context.Context, actor domain.User, programID uint) ([]domain.ProgramWallet, error) {
	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("s.programs.GetByID -> %w", err)
	}

	if !program.CanManage(actor) && !program.CanJudge(actor) {
		return nil, ErrPermissionDenied
	}

	wallets, err := s.wallets.FindProgramWallets(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("s.wallets.FindProgramWallets -> %w", err)
	}

	return wallets, nil
}
