package dao

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestClassify_TransientFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "deadlock", err: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}},
		{name: "serialization failure", err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}},
		{name: "lock not available", err: &pgconn.PgError{Code: pgerrcode.LockNotAvailable}},
		{name: "connection failure", err: &pgconn.PgError{Code: pgerrcode.ConnectionFailure}},
		{name: "deadline exceeded", err: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(`SELECT .* FROM "programs"`).WillReturnError(tt.err)

			_, err := NewProgramDAO(db).FindByID(context.Background(), 1)
			assert.ErrorIs(t, err, ErrTransientStorage)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestClassify_PermanentFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .* FROM "programs"`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UndefinedTable})

	_, err := NewProgramDAO(db).FindByID(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTransientStorage)
	assert.NotErrorIs(t, err, ErrProgramNotFound)
}

func TestInsertRegistration_UniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO "program_registrations"`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := NewProgramDAO(db).InsertRegistration(context.Background(), ProgramRegistration{ProgramID: 1, UserID: 2})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserWalletGems_TransientFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "user_wallets"`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.QueryCanceled})

	err := NewWalletDAO(db).AddUserWalletGems(context.Background(), uuid.New(), 5)
	assert.ErrorIs(t, err, ErrTransientStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}
