package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Submission struct {
	ID              uint      `gorm:"primaryKey"`
	ActivityID      uint      `gorm:"not null;index;uniqueIndex:uk_submission_activity_user"`
	Activity        *Activity `gorm:"constraint:OnDelete:CASCADE;"`
	UserID          uint      `gorm:"not null;index;uniqueIndex:uk_submission_activity_user"`
	User            *User     `gorm:"constraint:OnDelete:CASCADE;"`
	SubmissionURL   string    `gorm:"not null"`
	Status          string    `gorm:"not null;default:PENDING;index"`
	ReviewedBy      *uint
	AwardedGems     int64 `gorm:"not null;default:0"`
	RejectionReason string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type SubmissionDAO struct {
	db *gorm.DB
}

func NewSubmissionDAO(db *gorm.DB) *SubmissionDAO {
	return &SubmissionDAO{
		db: db,
	}
}

// Insert stores a submission. A user gets one submission per activity, whatever its review outcome.
func (d *SubmissionDAO) Insert(ctx context.Context, submission Submission) (Submission, error) {
	result := conn(ctx, d.db).Create(&submission)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Submission{}, ErrSubmissionExists
		}

		return Submission{}, classify(result.Error)
	}

	return submission, nil
}

func (d *SubmissionDAO) FindByID(ctx context.Context, id uint) (Submission, error) {
	var submission Submission

	result := conn(ctx, d.db).First(&submission, id)
	if result.Error != nil {
		return Submission{}, notFound(result.Error, ErrSubmissionNotFound)
	}

	return submission, nil
}

func (d *SubmissionDAO) FindByStatus(ctx context.Context, status string) ([]Submission, error) {
	var submissions []Submission

	result := conn(ctx, d.db).Where("status = ?", status).Order("id").Find(&submissions)
	if result.Error != nil {
		return nil, classify(result.Error)
	}

	return submissions, nil
}

// Review moves a PENDING submission to its reviewed state. The status guard makes the
// transition happen at most once; false means another reviewer got there first.
func (d *SubmissionDAO) Review(ctx context.Context, submission Submission) (bool, error) {
	result := conn(ctx, d.db).Model(&Submission{}).
		Where("id = ? AND status = ?", submission.ID, "PENDING").
		Updates(map[string]any{
			"status":           submission.Status,
			"reviewed_by":      submission.ReviewedBy,
			"awarded_gems":     submission.AwardedGems,
			"rejection_reason": submission.RejectionReason,
			"reviewed_at":      submission.ReviewedAt,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return false, classify(result.Error)
	}

	return result.RowsAffected == 1, nil
}
