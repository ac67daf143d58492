package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/questevent/questevent-api/internal/domain"
)

type ProgramRepository interface {
	Create(ctx context.Context, program domain.Program) (domain.Program, error)
	GetByID(ctx context.Context, id uint) (domain.Program, error)
	LockByID(ctx context.Context, id uint) (domain.Program, error)
	UpdateStatus(ctx context.Context, id uint, from, to domain.ProgramStatus) (bool, error)
	AssignJudge(ctx context.Context, id, judgeID uint) error
}

type ActivityRepository interface {
	Create(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	GetByID(ctx context.Context, id uint) (domain.Activity, error)
	GetByProgramID(ctx context.Context, programID uint) ([]domain.Activity, error)
}

type ProgramUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type ProgramService struct {
	tx         Transactor
	programs   ProgramRepository
	activities ActivityRepository
	users      ProgramUserRepository
}

func NewProgramService(tx Transactor, programs ProgramRepository, activities ActivityRepository, users ProgramUserRepository) *ProgramService {
	return &ProgramService{
		tx:         tx,
		programs:   programs,
		activities: activities,
		users:      users,
	}
}

// CreateProgram stores a new DRAFT program hosted by actor.
func (s *ProgramService) CreateProgram(ctx context.Context, actor domain.User, program domain.Program) (domain.Program, error) {
	if actor.Role != domain.RoleHost && actor.Role != domain.RoleOwner {
		return domain.Program{}, ErrPermissionDenied
	}

	if !program.EndDate.After(program.StartDate) {
		return domain.Program{}, ErrInvalidProgramDates
	}

	program.ID = 0
	program.Status = domain.ProgramDraft
	program.HostID = actor.ID
	program.JudgeID = nil

	created, err := s.programs.Create(ctx, program)
	if err != nil {
		return domain.Program{}, fmt.Errorf("s.programs.Create -> %w", err)
	}

	zap.L().Info("program created", zap.Uint("program_id", created.ID), zap.Uint("host_id", actor.ID))

	return created, nil
}

func (s *ProgramService) GetProgram(ctx context.Context, id uint) (domain.Program, error) {
	program, err := s.programs.GetByID(ctx, id)
	if err != nil {
		return domain.Program{}, fmt.Errorf("s.programs.GetByID -> %w", err)
	}

	return program, nil
}

// ActivateProgram moves a DRAFT program to ACTIVE.
func (s *ProgramService) ActivateProgram(ctx context.Context, actor domain.User, id uint) (domain.Program, error) {
	var program domain.Program

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		program, err = s.programs.LockByID(ctx, id)
		if err != nil {
			return fmt.Errorf("s.programs.LockByID -> %w", err)
		}

		if !program.CanManage(actor) {
			return ErrPermissionDenied
		}

		if program.Status != domain.ProgramDraft {
			return ErrInvalidStatusTransition
		}

		changed, err := s.programs.UpdateStatus(ctx, id, domain.ProgramDraft, domain.ProgramActive)
		if err != nil {
			return fmt.Errorf("s.programs.UpdateStatus -> %w", err)
		}
		if !changed {
			return ErrInvalidStatusTransition
		}

		program.Status = domain.ProgramActive
		return nil
	})
	if err != nil {
		return domain.Program{}, err
	}

	zap.L().Info("program activated", zap.Uint("program_id", id), zap.Uint("actor_id", actor.ID))

	return program, nil
}

// AssignJudge makes judgeID the reviewer of the program's submissions.
func (s *ProgramService) AssignJudge(ctx context.Context, actor domain.User, programID, judgeID uint) (domain.Program, error) {
	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return domain.Program{}, fmt.Errorf("s.programs.GetByID -> %w", err)
	}

	if !program.CanManage(actor) {
		return domain.Program{}, ErrPermissionDenied
	}

	if program.IsCompleted() {
		return domain.Program{}, ErrProgramAlreadyCompleted
	}

	judge, err := s.users.FindByID(ctx, judgeID)
	if err != nil {
		return domain.Program{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	if judge.Role == domain.RoleUser {
		return domain.Program{}, ErrPermissionDenied
	}

	if err = s.programs.AssignJudge(ctx, programID, judgeID); err != nil {
		return domain.Program{}, fmt.Errorf("s.programs.AssignJudge -> %w", err)
	}

	program.JudgeID = &judge.ID

	return program, nil
}

// CreateActivity adds an activity to a program that has not been settled yet.
func (s *ProgramService) CreateActivity(ctx context.Context, actor domain.User, activity domain.Activity) (domain.Activity, error) {
	if !activity.CanReward() {
		return domain.Activity{}, ErrInvalidAmount
	}

	program, err := s.programs.GetByID(ctx, activity.ProgramID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("s.programs.GetByID -> %w", err)
	}

	if !program.CanManage(actor) {
		return domain.Activity{}, ErrPermissionDenied
	}

	if program.IsCompleted() {
		return domain.Activity{}, ErrProgramAlreadyCompleted
	}

	created, err := s.activities.Create(ctx, activity)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("s.activities.Create -> %w", err)
	}

	return created, nil
}

func (s *ProgramService) ListActivities(ctx context.Context, programID uint) ([]domain.Activity, error) {
	if _, err := s.programs.GetByID(ctx, programID); err != nil {
		return nil, fmt.Errorf("s.programs.GetByID -> %w", err)
	}

	activities, err := s.activities.GetByProgramID(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("s.activities.GetByProgramID -> %w", err)
	}

	return activities, nil
}
