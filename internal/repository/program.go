package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/repository/dao"
)

var (
	ErrProgramNotFound   = dao.ErrProgramNotFound
	ErrAlreadyRegistered = dao.ErrAlreadyRegistered
)

type ProgramDAO interface {
	Insert(ctx context.Context, program dao.Program) (dao.Program, error)
	FindByID(ctx context.Context, id uint) (dao.Program, error)
	LockByID(ctx context.Context, id uint) (dao.Program, error)
	ShareLockByID(ctx context.Context, id uint) (dao.Program, error)
	FindByStatusAndEndDateBefore(ctx context.Context, status string, before time.Time) ([]dao.Program, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error)
	AssignJudge(ctx context.Context, id, judgeID uint) error
	InsertRegistration(ctx context.Context, registration dao.ProgramRegistration) (dao.ProgramRegistration, error)
	IsRegistered(ctx context.Context, programID, userID uint) (bool, error)
}

type ProgramRepository struct {
	dao ProgramDAO
}

func NewProgramRepository(dao ProgramDAO) *ProgramRepository {
	return &ProgramRepository{
		dao: dao,
	}
}

func (r *ProgramRepository) Create(ctx context.Context, program domain.Program) (domain.Program, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(program))
	if err != nil {
		return domain.Program{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ProgramRepository) GetByID(ctx context.Context, id uint) (domain.Program, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Program{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ProgramRepository) LockByID(ctx context.Context, id uint) (domain.Program, error) {
	found, err := r.dao.LockByID(ctx, id)
	if err != nil {
		return domain.Program{}, fmt.Errorf("r.dao.LockByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ProgramRepository) ShareLockByID(ctx context.Context, id uint) (domain.Program, error) {
	found, err := r.dao.ShareLockByID(ctx, id)
	if err != nil {
		return domain.Program{}, fmt.Errorf("r.dao.ShareLockByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ProgramRepository) FindExpired(ctx context.Context, status domain.ProgramStatus, before time.Time) ([]domain.Program, error) {
	found, err := r.dao.FindByStatusAndEndDateBefore(ctx, string(status), before)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatusAndEndDateBefore -> %w", err)
	}

	programs := make([]domain.Program, len(found))
	for i, p := range found {
		programs[i] = r.daoToDomain(p)
	}

	return programs, nil
}

func (r *ProgramRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.ProgramStatus) (bool, error) {
	changed, err := r.dao.UpdateStatus(ctx, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return changed, nil
}

func (r *ProgramRepository) AssignJudge(ctx context.Context, id, judgeID uint) error {
	if err := r.dao.AssignJudge(ctx, id, judgeID); err != nil {
		return fmt.Errorf("r.dao.AssignJudge -> %w", err)
	}

	return nil
}

func (r *ProgramRepository) AddRegistration(ctx context.Context, programID, userID uint) (domain.ProgramRegistration, error) {
	created, err := r.dao.InsertRegistration(ctx, dao.ProgramRegistration{
		ProgramID: programID,
		UserID:    userID,
	})
	if err != nil {
		return domain.ProgramRegistration{}, fmt.Errorf("r.dao.InsertRegistration -> %w", err)
	}

	return domain.ProgramRegistration{
		ID:        created.ID,
		ProgramID: created.ProgramID,
		UserID:    created.UserID,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (r *ProgramRepository) IsRegistered(ctx context.Context, programID, userID uint) (bool, error) {
	registered, err := r.dao.IsRegistered(ctx, programID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsRegistered -> %w", err)
	}

	return registered, nil
}

func (r *ProgramRepository) domainToDao(p domain.Program) dao.Program {
	return dao.Program{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Department:      string(p.Department),
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		RegistrationFee: p.RegistrationFee,
		Status:          string(p.Status),
		HostID:          p.HostID,
		JudgeID:         p.JudgeID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r *ProgramRepository) daoToDomain(p dao.Program) domain.Program {
	return domain.Program{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Department:      domain.Department(p.Department),
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		RegistrationFee: p.RegistrationFee,
		Status:          domain.ProgramStatus(p.Status),
		HostID:          p.HostID,
		JudgeID:         p.JudgeID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
