package domain

import "time"

type ProgramStatus string

const (
	ProgramDraft     ProgramStatus = "DRAFT"
	ProgramActive    ProgramStatus = "ACTIVE"
	ProgramCompleted ProgramStatus = "COMPLETED"
)

type Program struct {
	ID              uint          `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Department      Department    `json:"department"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	RegistrationFee int           `json:"registration_fee"`
	Status          ProgramStatus `json:"status"`
	HostID          uint          `json:"host_id"`
	JudgeID         *uint         `json:"judge_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (p Program) IsCompleted() bool {
	return p.Status == ProgramCompleted
}

// HasEnded reports whether the program's end date is strictly before now.
func (p Program) HasEnded(now time.Time) bool {
	return p.EndDate.Before(now)
}

// CanManage reports whether user may administer the program.
func (p Program) CanManage(user User) bool {
	return user.Role == RoleOwner || user.ID == p.HostID
}

// CanJudge reports whether user may review submissions for the program.
func (p Program) CanJudge(user User) bool {
	if user.Role == RoleOwner {
		return true
	}
	return p.JudgeID != nil && *p.JudgeID == user.ID
}

type ProgramRegistration struct {
	ID        uint      `json:"id"`
	ProgramID uint      `json:"program_id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SettlementResult is the outcome of settling one program.
type SettlementResult struct {
	Program     Program    `json:"program"`
	Transfers   []Transfer `json:"transfers"`
	Transferred int64      `json:"transferred"`
}

// SettlementFailure records a program the batch could not settle.
type SettlementFailure struct {
	ProgramID uint   `json:"program_id"`
	Error     string `json:"error"`
}

// SettlementReport summarises one run of the automatic sweep.
type SettlementReport struct {
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  time.Time           `json:"finished_at"`
	Settled     []uint              `json:"settled"`
	Skipped     []uint              `json:"skipped"`
	Failed      []SettlementFailure `json:"failed"`
	Transferred int64               `json:"transferred"`
}
