package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, IsDuplicateKey(fmt.Errorf("create: %w", &mysql.MySQLError{Number: 1062})))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1045}))
	assert.False(t, IsDuplicateKey(errors.New("duplicate-ish")))
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translateError(&mysql.MySQLError{Number: 1062}), domain.ErrDuplicateEntry)

	other := errors.New("connection refused")
	assert.Equal(t, other, translateError(other))
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '61101-000001-1'"})

	err := repo.Create(context.Background(), &models.User{NationalID: "61101-000001-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByNationalIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE national_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "national_id"}))

	_, err := repo.GetByNationalID(context.Background(), "61101-000001-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryExistsByTrackingNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `applications` WHERE tracking_number = \\?").
		WithArgs("GOAT-1-1111").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByTrackingNumber(context.Background(), "GOAT-1-1111")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryDeleteUnreplied(t *testing.T) {
	const id = "64b7f0c2a1b2c3d4e5f60718"
	lockParent := "SELECT `id` FROM `feedbacks` WHERE id = \\? ORDER BY `feedbacks`.`id` LIMIT 1 FOR UPDATE"
	lockReplies := "SELECT `id` FROM `feedbacks` WHERE parent_feedback_id = \\? LIMIT 1 FOR UPDATE"

	t.Run("deletes inside one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFeedbackRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockParent).WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
		mock.ExpectQuery(lockReplies).WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("DELETE FROM `feedbacks` WHERE id = \\?").WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteUnreplied(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps a replied message", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFeedbackRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockParent).WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
		mock.ExpectQuery(lockReplies).WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("64b7f0c2a1b2c3d4e5f60719"))
		mock.ExpectRollback()

		err := repo.DeleteUnreplied(context.Background(), id)
		assert.ErrorIs(t, err, ErrHasReplies)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing message", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFeedbackRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockParent).WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.DeleteUnreplied(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%domicile%", containsPattern("Domicile"))
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
}
