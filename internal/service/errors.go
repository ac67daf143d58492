package service

import (
	"errors"

	"github.com/questevent/questevent-api/internal/repository"
)

var (
	ErrUserEmailExists     = repository.ErrUserEmailExists
	ErrUserNotFound        = repository.ErrUserNotFound
	ErrProgramNotFound     = repository.ErrProgramNotFound
	ErrActivityNotFound    = repository.ErrActivityNotFound
	ErrSubmissionNotFound  = repository.ErrSubmissionNotFound
	ErrSubmissionExists    = repository.ErrSubmissionExists
	ErrWalletNotFound      = repository.ErrWalletNotFound
	ErrWalletAlreadyExists = repository.ErrWalletAlreadyExists
	ErrAlreadyRegistered   = repository.ErrAlreadyRegistered
	ErrTransientStorage    = repository.ErrTransientStorage

	ErrInvalidAmount             = errors.New("amount must be greater than zero")
	ErrProgramAlreadyCompleted   = errors.New("program already completed")
	ErrInvalidProgramID          = errors.New("invalid program id")
	ErrInvalidStatusTransition   = errors.New("invalid program status transition")
	ErrInvalidProgramDates       = errors.New("program end date must be after its start date")
	ErrSubmissionAlreadyReviewed = errors.New("submission already reviewed")
	ErrProfileAlreadyCompleted   = errors.New("profile already completed")
	ErrJudgeNotAssigned          = errors.New("judge not assigned to this program")
	ErrNotRegistered             = errors.New("user is not registered for this program")
	ErrPermissionDenied          = errors.New("permission denied")
	ErrWrongPassword             = errors.New("wrong password")
)
