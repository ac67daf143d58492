package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserWallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Gems      int64     `gorm:"not null;default:0;check:chk_user_wallets_gems,gems >= 0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserWallet) TableName() string {
	return "user_wallets"
}

func (w *UserWallet) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type ProgramWallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uk_user_program"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ProgramID uint      `gorm:"not null;uniqueIndex:uk_user_program;index"`
	Program   *Program  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Gems      int64     `gorm:"not null;default:0;check:chk_program_wallets_gems,gems >= 0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ProgramWallet) TableName() string {
	return "program_wallets"
}

func (w *ProgramWallet) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WalletDAO reads and mutates wallet rows. Balance changes are applied as
// relative updates (gems = gems + ?) on rows the caller has locked.
type WalletDAO struct {
	db *gorm.DB
}

func NewWalletDAO(db *gorm.DB) *WalletDAO {
	return &WalletDAO{
		db: db,
	}
}

func (d *WalletDAO) InsertUserWallet(ctx context.Context, wallet UserWallet) (UserWallet, error) {
	result := conn(ctx, d.db).Create(&wallet)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return UserWallet{}, ErrWalletAlreadyExists
		}

		return UserWallet{}, classify(result.Error)
	}

	return wallet, nil
}

func (d *WalletDAO) FindUserWalletByUserID(ctx context.Context, userID uint) (UserWallet, error) {
	var wallet UserWallet

	result := conn(ctx, d.db).Where("user_id = ?", userID).First(&wallet)
	if result.Error != nil {
		return UserWallet{}, notFound(result.Error, ErrWalletNotFound)
	}

	return wallet, nil
}

// LockUserWalletByUserID selects the wallet FOR UPDATE. It must run inside a transaction.
func (d *WalletDAO) LockUserWalletByUserID(ctx context.Context, userID uint) (UserWallet, error) {
	var wallet UserWallet

	result := forUpdate(conn(ctx, d.db)).Where("user_id = ?", userID).First(&wallet)
	if result.Error != nil {
		return UserWallet{}, notFound(result.Error, ErrWalletNotFound)
	}

	return wallet, nil
}

func (d *WalletDAO) AddUserWalletGems(ctx context.Context, walletID uuid.UUID, delta int64) error {
	result := conn(ctx, d.db).Model(&UserWallet{}).
		Where("id = ?", walletID).
		Updates(map[string]any{
			"gems":       gorm.Expr("gems + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}

	return nil
}

func (d *WalletDAO) InsertProgramWallet(ctx context.Context, wallet ProgramWallet) (ProgramWallet, error) {
	result := conn(ctx, d.db).Create(&wallet)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ProgramWallet{}, ErrWalletAlreadyExists
		}

		return ProgramWallet{}, classify(result.Error)
	}

	return wallet, nil
}

func (d *WalletDAO) FindProgramWallet(ctx context.Context, userID, programID uint) (ProgramWallet, error) {
	var wallet ProgramWallet

	result := conn(ctx, d.db).
		Where("user_id = ? AND program_id = ?", userID, programID).
		First(&wallet)
	if result.Error != nil {
		return ProgramWallet{}, notFound(result.Error, ErrWalletNotFound)
	}

	return wallet, nil
}

// LockProgramWallet selects the (user, program) wallet FOR UPDATE.
func (d *WalletDAO) LockProgramWallet(ctx context.Context, userID, programID uint) (ProgramWallet, error) {
	var wallet ProgramWallet

	result := forUpdate(conn(ctx, d.db)).
		Where("user_id = ? AND program_id = ?", userID, programID).
		First(&wallet)
	if result.Error != nil {
		return ProgramWallet{}, notFound(result.Error, ErrWalletNotFound)
	}

	return wallet, nil
}

func (d *WalletDAO) FindProgramWalletByID(ctx context.Context, walletID uuid.UUID) (ProgramWallet, error) {
	var wallet ProgramWallet

	result := conn(ctx, d.db).Where("id = ?", walletID).First(&wallet)
	if result.Error != nil {
		return ProgramWallet{}, notFound(result.Error, ErrWalletNotFound)
	}

	return wallet, nil
}

func (d *WalletDAO) FindProgramWalletsByProgramID(ctx context.Context, programID uint) ([]ProgramWallet, error) {
	var wallets []ProgramWallet

	result := conn(ctx, d.db).
		Where("program_id = ?", programID).
		Order("id").
		Find(&wallets)
	if result.Error != nil {
		return nil, classify(result.Error)
	}

	return wallets, nil
}

// LockProgramWalletsByProgramID selects every wallet of the program FOR UPDATE, ordered by id
// so concurrent lockers acquire rows in the same order.
func (d *WalletDAO) LockProgramWalletsByProgramID(ctx context.Context, programID uint) ([]ProgramWallet, error) {
	var wallets []ProgramWallet

	result := forUpdate(conn(ctx, d.db)).
		Where("program_id = ?", programID).
		Order("id").
		Find(&wallets)
	if result.Error != nil {
		return nil, classify(result.Error)
	}

	return wallets, nil
}

func (d *WalletDAO) AddProgramWalletGems(ctx context.Context, walletID uuid.UUID, delta int64) error {
	result := conn(ctx, d.db).Model(&ProgramWallet{}).
		Where("id = ?", walletID).
		Updates(map[string]any{
			"gems":       gorm.Expr("gems + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}

	return nil
}

// ZeroProgramWallet sets the balance to 0, guarded by the balance the caller observed
// under lock. A mismatch means the row changed underneath the caller.
func (d *WalletDAO) ZeroProgramWallet(ctx context.Context, walletID uuid.UUID, observed int64) error {
	result := conn(ctx, d.db).Model(&ProgramWallet{}).
		Where("id = ? AND gems = ?", walletID, observed).
		Updates(map[string]any{
			"gems":       0,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransientStorage
	}

	return nil
}
