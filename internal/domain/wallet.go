package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserWallet is the single global gem balance owned by a user.
type UserWallet struct {
	ID        uuid.UUID `json:"wallet_id"`
	UserID    uint      `json:"user_id"`
	Gems      int64     `json:"gems"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgramWallet accumulates the gems a user earns inside one program until the
// program is settled.
type ProgramWallet struct {
	ID        uuid.UUID `json:"program_wallet_id"`
	UserID    uint      `json:"user_id"`
	ProgramID uint      `json:"program_id"`
	Gems      int64     `json:"gems"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transfer describes one program wallet swept into its owner's user wallet.
type Transfer struct {
	ProgramWalletID uuid.UUID `json:"program_wallet_id"`
	UserWalletID    uuid.UUID `json:"user_wallet_id"`
	UserID          uint      `json:"user_id"`
	Gems            int64     `json:"gems"`
	UserGemsAfter   int64     `json:"user_gems_after"`
}
