package service

import "github.com/RigelNana/edubridge/models"

type LedgerSummary struct {
	Balance       int64
	TotalAwarded  int64
	TotalRedeemed int64
}

// Summarize folds a ledger into its totals. Balance = awarded - redeemed.
func Summarize(txs []*models.EduPointsTransaction) LedgerSummary {
	var s LedgerSummary
	for _, tx := range txs {
		switch tx.TxType {
		case models.TxTypeAward:
			s.TotalAwarded += tx.Amount
		case models.TxTypeRedeem:
			s.TotalRedeemed += tx.Amount
		}
	}
	s.Balance = s.TotalAwarded - s.TotalRedeemed
	return s
}

func Balance(txs []*models.EduPointsTransaction) int64 {
	return Summarize(txs).Balance
}

func describeTx(t models.TxType) string {
	if t == models.TxTypeAward {
		return "Awarded EduPoints"
	}
	return "Redeemed EduPoints"
}
