package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/pkg/metrics"
	"github.com/RigelNana/edubridge/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EduPointsService is the points ledger. Balances are never stored; every
// read derives them from the user's append-only transactions.
type EduPointsService interface {
	Award(ctx context.Context, userID uuid.UUID, amount int64) (*models.EduPointsTransaction, error)
	// Redeem debits amount only if the balance covers it. Concurrent redeems
	// for one user are serialized so the balance never goes negative.
	Redeem(ctx context.Context, userID uuid.UUID, amount int64) (*models.EduPointsTransaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	GetUserTransactions(ctx context.Context, userID uuid.UUID) (*LedgerView, error)
}

// LedgerEntry is one transaction as shown to clients.
type LedgerEntry struct {
	TransactionID uuid.UUID     `json:"transaction_id"`
	UserID        uuid.UUID     `json:"user_id"`
	Amount        int64         `json:"amount"`
	TxType        models.TxType `json:"tx_type"`
	Description   string        `json:"description"`
	Timestamp     time.Time     `json:"timestamp"`
}

type LedgerView struct {
	UserID        uuid.UUID     `json:"user_id"`
	Balance       int64         `json:"balance"`
	Transactions  []LedgerEntry `json:"transactions"`
	TotalAwarded  int64         `json:"total_awarded"`
	TotalRedeemed int64         `json:"total_redeemed"`
}

type EduPointsServiceImpl struct {
	users  repository.UserRepository
	ledger repository.EduPointsRepository
	log    logrus.FieldLogger
}

func NewEduPointsService(users repository.UserRepository, ledger repository.EduPointsRepository, log logrus.FieldLogger) EduPointsService {
	return &EduPointsServiceImpl{users: users, ledger: ledger, log: log}
}

func (s *EduPointsServiceImpl) Award(ctx context.Context, userID uuid.UUID, amount int64) (*models.EduPointsTransaction, error) {
	if amount <= 0 {
		return nil, validationError("amount must be positive")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, lookupError(err, "user")
	}

	tx := &models.EduPointsTransaction{UserID: userID, Amount: amount, TxType: models.TxTypeAward}
	if err := s.ledger.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to award points: %w", err)
	}

	metrics.RecordLedgerTransaction(string(tx.TxType), amount)
	s.log.WithFields(logrus.Fields{"user_id": userID, "amount": amount}).Info("edupoints awarded")
	return tx, nil
}

// Redeem reads the ledger and appends the debit while holding the user's
// row lock. A missing user surfaces from the lock query as
// gorm.ErrRecordNotFound and is reported as not found.
func (s *EduPointsServiceImpl) Redeem(ctx context.Context, userID uuid.UUID, amount int64) (*models.EduPointsTransaction, error) {
	if amount <= 0 {
		return nil, validationError("amount must be positive")
	}

	var created *models.EduPointsTransaction
	err := s.ledger.WithinUserLock(ctx, userID, func(repo repository.EduPointsRepository) error {
		// 1. 在行锁内读取流水并计算余额
		txs, err := repo.ListByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to read ledger: %w", err)
		}
		if Balance(txs) < amount {
			return newError(ErrInsufficientBalance, "Insufficient points balance")
		}
		// 2. 余额充足，追加扣减记录
		tx := &models.EduPointsTransaction{UserID: userID, Amount: amount, TxType: models.TxTypeRedeem}
		if err := repo.Create(ctx, tx); err != nil {
			return fmt.Errorf("failed to redeem points: %w", err)
		}
		created = tx
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, newError(ErrNotFound, "user not found")
	case errors.Is(err, ErrInsufficientBalance):
		metrics.EduPointsRedeemRejected.Inc()
		return nil, err
	default:
		return nil, err
	}

	metrics.RecordLedgerTransaction(string(created.TxType), amount)
	s.log.WithFields(logrus.Fields{"user_id": userID, "amount": amount}).Info("edupoints redeemed")
	return created, nil
}

func (s *EduPointsServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	txs, err := s.ledger.ListByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger: %w", err)
	}
	return Balance(txs), nil
}

func (s *EduPointsServiceImpl) GetUserTransactions(ctx context.Context, userID uuid.UUID) (*LedgerView, error) {
	txs, err := s.ledger.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	summary := Summarize(txs)
	view := &LedgerView{
		UserID:        userID,
		Balance:       summary.Balance,
		Transactions:  make([]LedgerEntry, 0, len(txs)),
		TotalAwarded:  summary.TotalAwarded,
		TotalRedeemed: summary.TotalRedeemed,
	}
	for _, tx := range txs {
		view.Transactions = append(view.Transactions, LedgerEntry{
			TransactionID: tx.ID,
			UserID:        tx.UserID,
			Amount:        tx.Amount,
			TxType:        tx.TxType,
			Description:   describeTx(tx.TxType),
			Timestamp:     tx.TxTime,
		})
	}
	return view, nil
}
