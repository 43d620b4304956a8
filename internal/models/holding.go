package models

import "github.com/shopspring/decimal"

// Holding is a user's current position in one investment product.
// At most one row exists per (user, product) pair; the row is deleted
// outright when a sell brings units to exactly zero.
//
// Version backs optimistic locking: buy/sell read the holding, recompute,
// and write back guarded by a version check so concurrent mutations on the
// same holding cannot silently overwrite each other.
type Holding struct {
	Base
	UserID           uint            `gorm:"not null;uniqueIndex:uq_holdings_user_product" json:"user_id"`
	ProductID        uint            `gorm:"not null;uniqueIndex:uq_holdings_user_product" json:"product_id"`
	UnitsOwned       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"units_owned"`
	AvgPurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"avg_purchase_price"`
	Version          uint            `gorm:"not null;default:1" json:"-"`

	Product InvestmentProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
