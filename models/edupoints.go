package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TxType string

const (
	TxTypeAward  TxType = "award"
	TxTypeRedeem TxType = "redeem"
)

// EduPointsTransaction is one append-only ledger row. Balances are derived
// from these rows and never stored.
type EduPointsTransaction struct {
	ID     uuid.UUID `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount int64     `gorm:"not null;check:chk_edupoints_amount,amount > 0" json:"amount"`
	TxType TxType    `gorm:"type:varchar(10);not null;check:chk_edupoints_tx_type,tx_type IN ('award','redeem')" json:"tx_type"`
	TxTime time.Time `gorm:"autoCreateTime;index" json:"tx_time"`

	User *User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (EduPointsTransaction) TableName() string {
	return "edupoints"
}

func (t *EduPointsTransaction) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
