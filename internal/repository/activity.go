package repository

import (
	"context"
	"fmt"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/repository/dao"
)

var ErrActivityNotFound = dao.ErrActivityNotFound

type ActivityDAO interface {
	Insert(ctx context.Context, activity dao.Activity) (dao.Activity, error)
	FindByID(ctx context.Context, id uint) (dao.Activity, error)
	FindByProgramID(ctx context.Context, programID uint) ([]dao.Activity, error)
}

type ActivityRepository struct {
	dao ActivityDAO
}

func NewActivityRepository(dao ActivityDAO) *ActivityRepository {
	return &ActivityRepository{
		dao: dao,
	}
}

func (r *ActivityRepository) Create(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	created, err := r.dao.Insert(ctx, dao.Activity{
		ProgramID:    activity.ProgramID,
		Name:         activity.Name,
		Description:  activity.Description,
		Rulebook:     activity.Rulebook,
		DurationMins: activity.DurationMins,
		RewardGems:   activity.RewardGems,
		IsCompulsory: activity.IsCompulsory,
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uint) (domain.Activity, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ActivityRepository) GetByProgramID(ctx context.Context, programID uint) ([]domain.Activity, error) {
	found, err := r.dao.FindByProgramID(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByProgramID -> %w", err)
	}

	activities := make([]domain.Activity, len(found))
	for i, a := range found {
		activities[i] = r.daoToDomain(a)
	}

	return activities, nil
}

func (r *ActivityRepository) daoToDomain(a dao.Activity) domain.Activity {
	return domain.Activity{
		ID:           a.ID,
		ProgramID:    a.ProgramID,
		Name:         a.Name,
		Description:  a.Description,
		Rulebook:     a.Rulebook,
		DurationMins: a.DurationMins,
		RewardGems:   a.RewardGems,
		IsCompulsory: a.IsCompulsory,
		CreatedAt:    a.CreatedAt,
	}
}
