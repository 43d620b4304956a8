package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "investrack/internal/errors"
	"investrack/internal/logger"
	"investrack/internal/models"
)

// maxVersionRetries bounds how many times a buy/sell is replayed after
// losing the holding's optimistic version check to a concurrent writer.
const maxVersionRetries = 3

var oneHundred = decimal.NewFromInt(100)

// portfolioService implements the ledger/portfolio engine: unit accounting
// per (user, product) holding, an append-only transaction ledger, and
// derived valuation figures.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// GetPortfolio returns the computed snapshot of every holding the user owns,
// plus portfolio totals. Read-only.
func (s *portfolioService) GetPortfolio(userID uint) (*PortfolioSnapshot, error) {
	var holdings []models.Holding
	if err := s.db.Preload("Product").Where("user_id = ?", userID).Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	snapshot := &PortfolioSnapshot{
		Holdings:           make([]HoldingSnapshot, 0, len(holdings)),
		TotalInvestedValue: decimal.Zero,
		TotalCurrentValue:  decimal.Zero,
	}
	for i := range holdings {
		item := buildHoldingSnapshot(&holdings[i], &holdings[i].Product)
		snapshot.Holdings = append(snapshot.Holdings, item)
		snapshot.TotalInvestedValue = snapshot.TotalInvestedValue.Add(item.InvestedValue)
		snapshot.TotalCurrentValue = snapshot.TotalCurrentValue.Add(item.CurrentValue)
	}
	return snapshot, nil
}

// Buy purchases units of a product for the user: validates the product and
// the minimum investment, recomputes the weighted average purchase price,
// and commits the holding mutation together with a BUY ledger entry.
// Retries on optimistic version conflict.
func (s *portfolioService) Buy(userID, productID uint, units decimal.Decimal) (*HoldingSnapshot, error) {
	if !units.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "units must be positive")
	}

	var snap *HoldingSnapshot
	var err error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		snap, err = s.buyOnce(userID, productID, units)
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return snap, err
		}
		logger.Get().Warnw("buy lost version race, retrying",
			"user_id", userID, "product_id", productID, "attempt", attempt+1)
	}
	return nil, err
}

func (s *portfolioService) buyOnce(userID, productID uint, units decimal.Decimal) (*HoldingSnapshot, error) {
	product, err := s.fetchProduct(productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperrors.ErrProductInactive
	}

	nav := product.CurrentNetAssetValuePerUnit
	investmentAmount := units.Mul(nav)
	if investmentAmount.Cmp(product.MinimumInvestment) < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrBelowMinimumInvestment,
			"Minimum investment required: "+product.MinimumInvestment.StringFixed(2))
	}

	holding, isNew, err := s.findOrInitHolding(userID, productID)
	if err != nil {
		return nil, err
	}

	// Weighted average over the existing lot; a fresh holding takes the
	// current NAV directly.
	if holding.UnitsOwned.IsPositive() {
		totalOldValue := holding.UnitsOwned.Mul(holding.AvgPurchasePrice)
		totalUnits := holding.UnitsOwned.Add(units)
		holding.AvgPurchasePrice = totalOldValue.Add(investmentAmount).DivRound(totalUnits, 2)
	} else {
		holding.AvgPurchasePrice = nav
	}
	holding.UnitsOwned = holding.UnitsOwned.Add(units)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if isNew {
			if txErr := tx.Create(holding).Error; txErr != nil {
				// A concurrent first buy may have created the row between
				// our lookup and this insert; replay the whole sequence.
				if errors.Is(txErr, gorm.ErrDuplicatedKey) {
					return apperrors.ErrVersionConflict
				}
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		} else {
			if txErr := s.saveHoldingVersioned(tx, holding); txErr != nil {
				return txErr
			}
		}
		return appendTransaction(tx, userID, productID, models.TransactionBuy, units, nav)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("buy recorded",
		"user_id", userID, "product_id", productID, "units", units.String(), "nav", nav.String())
	snap := buildHoldingSnapshot(holding, product)
	return &snap, nil
}

// Sell disposes units of a holding: validates ownership and available units,
// deletes the holding entirely when it reaches exactly zero, and commits the
// mutation together with a SELL ledger entry. The returned snapshot is
// computed from the pre-deletion in-memory state. Retries on optimistic
// version conflict.
func (s *portfolioService) Sell(userID, productID uint, units decimal.Decimal) (*HoldingSnapshot, error) {
	if !units.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "units must be positive")
	}

	var snap *HoldingSnapshot
	var err error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		snap, err = s.sellOnce(userID, productID, units)
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return snap, err
		}
		logger.Get().Warnw("sell lost version race, retrying",
			"user_id", userID, "product_id", productID, "attempt", attempt+1)
	}
	return nil, err
}

func (s *portfolioService) sellOnce(userID, productID uint, units decimal.Decimal) (*HoldingSnapshot, error) {
	product, err := s.fetchProduct(productID)
	if err != nil {
		return nil, err
	}

	var holding models.Holding
	if err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if holding.UnitsOwned.Cmp(units) < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInsufficientUnits,
			"Not enough units to sell. Available: "+holding.UnitsOwned.StringFixed(2))
	}

	holding.UnitsOwned = holding.UnitsOwned.Sub(units)
	// The average purchase price of the remaining lot is unchanged by a sell.

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if holding.UnitsOwned.IsZero() {
			if txErr := s.deleteHoldingVersioned(tx, &holding); txErr != nil {
				return txErr
			}
		} else {
			if txErr := s.saveHoldingVersioned(tx, &holding); txErr != nil {
				return txErr
			}
		}
		return appendTransaction(tx, userID, productID, models.TransactionSell, units, product.CurrentNetAssetValuePerUnit)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("sell recorded",
		"user_id", userID, "product_id", productID, "units", units.String(), "remaining", holding.UnitsOwned.String())
	snap := buildHoldingSnapshot(&holding, product)
	return &snap, nil
}

// GetHoldingByID returns the snapshot of one holding. The holding must
// belong to the requesting user; anything else reads as not-found.
func (s *portfolioService) GetHoldingByID(userID, holdingID uint) (*HoldingSnapshot, error) {
	var holding models.Holding
	if err := s.db.Preload("Product").First(&holding, holdingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if holding.UserID != userID {
		return nil, apperrors.ErrHoldingNotFound
	}

	snap := buildHoldingSnapshot(&holding, &holding.Product)
	return &snap, nil
}

func (s *portfolioService) fetchProduct(productID uint) (*models.InvestmentProduct, error) {
	var product models.InvestmentProduct
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

func (s *portfolioService) findOrInitHolding(userID, productID uint) (*models.Holding, bool, error) {
	var holding models.Holding
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&holding).Error
	if err == nil {
		return &holding, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &models.Holding{
		UserID:           userID,
		ProductID:        productID,
		UnitsOwned:       decimal.Zero,
		AvgPurchasePrice: decimal.Zero,
		Version:          1,
	}, true, nil
}

// saveHoldingVersioned writes the holding back guarded by its version: the
// update only lands when no concurrent writer bumped the version since the
// read. Zero affected rows means the race was lost.
func (s *portfolioService) saveHoldingVersioned(tx *gorm.DB, holding *models.Holding) error {
	res := tx.Model(&models.Holding{}).
		Where("id = ? AND version = ?", holding.ID, holding.Version).
		Updates(map[string]interface{}{
			"units_owned":        holding.UnitsOwned,
			"avg_purchase_price": holding.AvgPurchasePrice,
			"version":            holding.Version + 1,
		})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrVersionConflict
	}
	holding.Version++
	return nil
}

// deleteHoldingVersioned removes a fully-sold holding, guarded by version
// like saveHoldingVersioned.
func (s *portfolioService) deleteHoldingVersioned(tx *gorm.DB, holding *models.Holding) error {
	res := tx.Where("id = ? AND version = ?", holding.ID, holding.Version).Delete(&models.Holding{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrVersionConflict
	}
	return nil
}

func appendTransaction(tx *gorm.DB, userID, productID uint, txnType models.TransactionType, units, nav decimal.Decimal) error {
	txn := &models.Transaction{
		UserID:    userID,
		ProductID: productID,
		TxnType:   txnType,
		Units:     units,
		NavAtTxn:  nav,
		TxnDate:   time.Now(),
	}
	if err := tx.Create(txn).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// buildHoldingSnapshot derives the valuation figures for one holding.
// Invested and current values are rounded to 2 decimals half-up; the
// percentage return is 0 when nothing is invested.
func buildHoldingSnapshot(holding *models.Holding, product *models.InvestmentProduct) HoldingSnapshot {
	investedValue := holding.UnitsOwned.Mul(holding.AvgPurchasePrice).Round(2)
	currentValue := holding.UnitsOwned.Mul(product.CurrentNetAssetValuePerUnit).Round(2)
	absoluteReturn := currentValue.Sub(investedValue)

	percentageReturn := decimal.Zero
	if investedValue.IsPositive() {
		percentageReturn = absoluteReturn.Mul(oneHundred).DivRound(investedValue, 2)
	}

	return HoldingSnapshot{
		ID:               holding.ID,
		ProductID:        product.ID,
		ProductName:      product.Name,
		Type:             string(product.Type),
		RiskLevel:        string(product.RiskLevel),
		UnitsOwned:       holding.UnitsOwned,
		AvgPurchasePrice: holding.AvgPurchasePrice,
		CurrentNAV:       product.CurrentNetAssetValuePerUnit,
		InvestedValue:    investedValue,
		CurrentValue:     currentValue,
		AbsoluteReturn:   absoluteReturn,
		PercentageReturn: percentageReturn,
	}
}
