package domain

import "time"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

type Submission struct {
	ID              uint         `json:"id"`
	ActivityID      uint         `json:"activity_id"`
	UserID          uint         `json:"user_id"`
	SubmissionURL   string       `json:"submission_url"`
	Status          ReviewStatus `json:"status"`
	ReviewedBy      *uint        `json:"reviewed_by,omitempty"`
	AwardedGems     int64        `json:"awarded_gems"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (s Submission) IsPending() bool {
	return s.Status == ReviewPending
}

// ReviewResult is returned after a submission has been approved and credited.
type ReviewResult struct {
	Submission      Submission `json:"submission"`
	ProgramID       uint       `json:"program_id"`
	ProgramGems     int64      `json:"program_gems"`
	UserGems        int64      `json:"user_gems"`
	UserWalletTouch bool       `json:"user_wallet_credited"`
}
