package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/repository/dao"
)

var (
	ErrWalletNotFound      = dao.ErrWalletNotFound
	ErrWalletAlreadyExists = dao.ErrWalletAlreadyExists
	ErrTransientStorage    = dao.ErrTransientStorage
)

type WalletDAO interface {
	InsertUserWallet(ctx context.Context, wallet dao.UserWallet) (dao.UserWallet, error)
	FindUserWalletByUserID(ctx context.Context, userID uint) (dao.UserWallet, error)
	LockUserWalletByUserID(ctx context.Context, userID uint) (dao.UserWallet, error)
	AddUserWalletGems(ctx context.Context, walletID uuid.UUID, delta int64) error
	InsertProgramWallet(ctx context.Context, wallet dao.ProgramWallet) (dao.ProgramWallet, error)
	FindProgramWallet(ctx context.Context, userID, programID uint) (dao.ProgramWallet, error)
	LockProgramWallet(ctx context.Context, userID, programID uint) (dao.ProgramWallet, error)
	FindProgramWalletByID(ctx context.Context, walletID uuid.UUID) (dao.ProgramWallet, error)
	FindProgramWalletsByProgramID(ctx context.Context, programID uint) ([]dao.ProgramWallet, error)
	LockProgramWalletsByProgramID(ctx context.Context, programID uint) ([]dao.ProgramWallet, error)
	AddProgramWalletGems(ctx context.Context, walletID uuid.UUID, delta int64) error
	ZeroProgramWallet(ctx context.Context, walletID uuid.UUID, observed int64) error
}

type WalletRepository struct {
	dao WalletDAO
}

func NewWalletRepository(dao WalletDAO) *WalletRepository {
	return &WalletRepository{
		dao: dao,
	}
}

func (r *WalletRepository) CreateUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error) {
	created, err := r.dao.InsertUserWallet(ctx, dao.UserWallet{UserID: userID})
	if err != nil {
		return domain.UserWallet{}, fmt.Errorf("r.dao.InsertUserWallet -> %w", err)
	}

	return r.userWalletDaoToDomain(created), nil
}

func (r *WalletRepository) FindUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error) {
	found, err := r.dao.FindUserWalletByUserID(ctx, userID)
	if err != nil {
		return domain.UserWallet{}, fmt.Errorf("r.dao.FindUserWalletByUserID -> %w", err)
	}

	return r.userWalletDaoToDomain(found), nil
}

func (r *WalletRepository) LockUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error) {
	found, err := r.dao.LockUserWalletByUserID(ctx, userID)
	if err != nil {
		return domain.UserWallet{}, fmt.Errorf("r.dao.LockUserWalletByUserID -> %w", err)
	}

	return r.userWalletDaoToDomain(found), nil
}

func (r *WalletRepository) AddUserWalletGems(ctx context.Context, walletID uuid.UUID, delta int64) error {
	if err := r.dao.AddUserWalletGems(ctx, walletID, delta); err != nil {
		return fmt.Errorf("r.dao.AddUserWalletGems -> %w", err)
	}

	return nil
}

func (r *WalletRepository) CreateProgramWallet(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error) {
	created, err := r.dao.InsertProgramWallet(ctx, dao.ProgramWallet{
		UserID:    userID,
		ProgramID: programID,
	})
	if err != nil {
		return domain.ProgramWallet{}, fmt.Errorf("r.dao.InsertProgramWallet -> %w", err)
	}

	return r.programWalletDaoToDomain(created), nil
}

func (r *WalletRepository) FindProgramWallet(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error) {
	found, err := r.dao.FindProgramWallet(ctx, userID, programID)
	if err != nil {
		return domain.ProgramWallet{}, fmt.Errorf("r.dao.FindProgramWallet -> %w", err)
	}

	return r.programWalletDaoToDomain(found), nil
}

func (r *WalletRepository) LockProgramWallet(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error) {
	found, err := r.dao.LockProgramWallet(ctx, userID, programID)
	if err != nil {
		return domain.ProgramWallet{}, fmt.Errorf("r.dao.LockProgramWallet -> %w", err)
	}

	return r.programWalletDaoToDomain(found), nil
}

func (r *WalletRepository) FindProgramWalletByID(ctx context.Context, walletID uuid.UUID) (domain.ProgramWallet, error) {
	found, err := r.dao.FindProgramWalletByID(ctx, walletID)
	if err != nil {
		return domain.ProgramWallet{}, fmt.Errorf("r.dao.FindProgramWalletByID -> %w", err)
	}

	return r.programWalletDaoToDomain(found), nil
}

func (r *WalletRepository) FindProgramWallets(ctx context.Context, programID uint) ([]domain.ProgramWallet, error) {
	found, err := r.dao.FindProgramWalletsByProgramID(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindProgramWalletsByProgramID -> %w", err)
	}

	return r.programWalletsDaoToDomain(found), nil
}

func (r *WalletRepository) LockProgramWallets(ctx context.Context, programID uint) ([]domain.ProgramWallet, error) {
	found, err := r.dao.LockProgramWalletsByProgramID(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.LockProgramWalletsByProgramID -> %w", err)
	}

	return r.programWalletsDaoToDomain(found), nil
}

func (r *WalletRepository) AddProgramWalletGems(ctx context.Context, walletID uuid.UUID, delta int64) error {
	if err := r.dao.AddProgramWalletGems(ctx, walletID, delta); err != nil {
		return fmt.Errorf("r.dao.AddProgramWalletGems -> %w", err)
	}

	return nil
}

func (r *WalletRepository) ZeroProgramWallet(ctx context.Context, walletID uuid.UUID, observed int64) error {
	if err := r.dao.ZeroProgramWallet(ctx, walletID, observed); err != nil {
		return fmt.Errorf("r.dao.ZeroProgramWallet -> %w", err)
	}

	return nil
}

func (r *WalletRepository) userWalletDaoToDomain(w dao.UserWallet) domain.UserWallet {
	return domain.UserWallet{
		ID:        w.ID,
		UserID:    w.UserID,
		Gems:      w.Gems,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (r *WalletRepository) programWalletDaoToDomain(w dao.ProgramWallet) domain.ProgramWallet {
	return domain.ProgramWallet{
		ID:        w.ID,
		UserID:    w.UserID,
		ProgramID: w.ProgramID,
		Gems:      w.Gems,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (r *WalletRepository) programWalletsDaoToDomain(wallets []dao.ProgramWallet) []domain.ProgramWallet {
	result := make([]domain.ProgramWallet, len(wallets))
	for i, w := range wallets {
		result[i] = r.programWalletDaoToDomain(w)
	}
	return result
}
