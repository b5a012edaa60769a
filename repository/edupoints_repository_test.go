package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/RigelNana/edubridge/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	lockUserSQL   = `SELECT .* FROM "users" WHERE user_id = \$1 .*FOR UPDATE`
	listLedgerSQL = `SELECT \* FROM "edupoints" WHERE user_id = \$1 ORDER BY tx_time DESC`
	insertTxSQL   = `INSERT INTO "edupoints"`
)

var ledgerColumns = []string{"tx_id", "user_id", "amount", "tx_type", "tx_time"}

func TestEduPointsRepository_WithinUserLock_LocksBeforeLedgerAccess(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEduPointsRepository(db)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserSQL).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(userID.String()))
	mock.ExpectQuery(listLedgerSQL).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(ledgerColumns).
			AddRow(uuid.NewString(), userID.String(), int64(100), "award", time.Now()))
	mock.ExpectExec(insertTxSQL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithinUserLock(context.Background(), userID, func(locked EduPointsRepository) error {
		txs, err := locked.ListByUserID(context.Background(), userID)
		if err != nil {
			return err
		}
		require.Len(t, txs, 1)
		assert.Equal(t, int64(100), txs[0].Amount)
		return locked.Create(context.Background(), &models.EduPointsTransaction{
			UserID: userID,
			Amount: 40,
			TxType: models.TxTypeRedeem,
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEduPointsRepository_WithinUserLock_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEduPointsRepository(db)
	userID := uuid.New()
	refused := errors.New("insufficient balance")

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserSQL).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(userID.String()))
	mock.ExpectQuery(listLedgerSQL).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(ledgerColumns))
	mock.ExpectRollback()

	err := repo.WithinUserLock(context.Background(), userID, func(locked EduPointsRepository) error {
		if _, err := locked.ListByUserID(context.Background(), userID); err != nil {
			return err
		}
		return refused
	})
	assert.ErrorIs(t, err, refused)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEduPointsRepository_WithinUserLock_MissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEduPointsRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserSQL).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectRollback()

	called := false
	err := repo.WithinUserLock(context.Background(), uuid.New(), func(EduPointsRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}
