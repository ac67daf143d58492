package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists     = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrProgramNotFound     = errors.New("program not found")
	ErrActivityNotFound    = errors.New("activity not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrSubmissionExists    = errors.New("submission already exists for this activity")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletAlreadyExists = errors.New("wallet already exists")
	ErrAlreadyRegistered   = errors.New("user already registered for program")

	// ErrTransientStorage marks timeouts, lock conflicts and dropped connections.
	// The surrounding transaction has been rolled back and the operation may be retried.
	ErrTransientStorage = errors.New("transient storage failure")
)

// classify tags retryable storage failures with ErrTransientStorage.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrTransientStorage) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTransientStorage, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isTransientCode(pgErr.Code) {
		return fmt.Errorf("%w: %w", ErrTransientStorage, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", ErrTransientStorage, err)
	}

	return err
}

func isTransientCode(code string) bool {
	switch code {
	case pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.LockNotAvailable,
		pgerrcode.QueryCanceled,
		pgerrcode.AdminShutdown:
		return true
	}

	return pgerrcode.IsConnectionException(code)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	// sqlite without TranslateError
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}

	return classify(err)
}
