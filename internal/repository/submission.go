package repository

import (
	"context"
	"fmt"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/repository/dao"
)

var (
	ErrSubmissionNotFound = dao.ErrSubmissionNotFound
	ErrSubmissionExists   = dao.ErrSubmissionExists
)

type SubmissionDAO interface {
	Insert(ctx context.Context, submission dao.Submission) (dao.Submission, error)
	FindByID(ctx context.Context, id uint) (dao.Submission, error)
	FindByStatus(ctx context.Context, status string) ([]dao.Submission, error)
	Review(ctx context.Context, submission dao.Submission) (bool, error)
}

type SubmissionRepository struct {
	dao SubmissionDAO
}

func NewSubmissionRepository(dao SubmissionDAO) *SubmissionRepository {
	return &SubmissionRepository{
		dao: dao,
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission domain.Submission) (domain.Submission, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(submission))
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uint) (domain.Submission, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SubmissionRepository) GetPending(ctx context.Context) ([]domain.Submission, error) {
	found, err := r.dao.FindByStatus(ctx, string(domain.ReviewPending))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	submissions := make([]domain.Submission, len(found))
	for i, s := range found {
		submissions[i] = r.daoToDomain(s)
	}

	return submissions, nil
}

func (r *SubmissionRepository) Review(ctx context.Context, submission domain.Submission) (bool, error) {
	changed, err := r.dao.Review(ctx, r.domainToDao(submission))
	if err != nil {
		return false, fmt.Errorf("r.dao.Review -> %w", err)
	}

	return changed, nil
}

func (r *SubmissionRepository) domainToDao(s domain.Submission) dao.Submission {
	return dao.Submission{
		ID:              s.ID,
		ActivityID:      s.ActivityID,
		UserID:          s.UserID,
		SubmissionURL:   s.SubmissionURL,
		Status:          string(s.Status),
		ReviewedBy:      s.ReviewedBy,
		AwardedGems:     s.AwardedGems,
		RejectionReason: s.RejectionReason,
		ReviewedAt:      s.ReviewedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (r *SubmissionRepository) daoToDomain(s dao.Submission) domain.Submission {
	return domain.Submission{
		ID:              s.ID,
		ActivityID:      s.ActivityID,
		UserID:          s.UserID,
		SubmissionURL:   s.SubmissionURL,
		Status:          domain.ReviewStatus(s.Status),
		ReviewedBy:      s.ReviewedBy,
		AwardedGems:     s.AwardedGems,
		RejectionReason: s.RejectionReason,
		ReviewedAt:      s.ReviewedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
