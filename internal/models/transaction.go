package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// Transaction is one immutable ledger entry. Rows are append-only: they are
// never updated or deleted, and NavAtTxn snapshots the product NAV at
// execution time independent of later catalog changes.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	TxnType   TransactionType `gorm:"not null" json:"txn_type"`
	Units     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"units"`
	NavAtTxn  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"nav_at_txn"`
	TxnDate   time.Time       `gorm:"not null;index" json:"txn_date"`

	Product InvestmentProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
