package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/pagination"
)

// transactionService provides read views over the append-only ledger.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// GetTransactionHistory returns the user's full transaction history,
// newest first.
func (s *transactionService) GetTransactionHistory(userID uint) ([]TransactionView, error) {
	var txns []models.Transaction
	if err := s.db.Preload("Product").Where("user_id = ?", userID).
		Order("txn_date DESC").Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]TransactionView, 0, len(txns))
	for i := range txns {
		views = append(views, mapTransactionView(&txns[i]))
	}
	return views, nil
}

// GetFilteredTransactions returns a paginated, filtered slice of the user's
// transaction history. SearchQuery matches product names case-insensitively.
func (s *transactionService) GetFilteredTransactions(userID uint, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[TransactionView], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).
		Joins("JOIN investment_products ON investment_products.id = transactions.product_id").
		Where("transactions.user_id = ?", userID)

	if q := strings.TrimSpace(filter.SearchQuery); q != "" {
		base = base.Where("LOWER(investment_products.name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if filter.TxnType != nil {
		base = base.Where("transactions.txn_type = ?", *filter.TxnType)
	}
	if filter.StartDate != nil {
		base = base.Where("transactions.txn_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		base = base.Where("transactions.txn_date <= ?", *filter.EndDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.Transaction
	if err := base.Order(sortClause(filter)).Preload("Product").
		Scopes(pagination.Paginate(page)).Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]TransactionView, 0, len(txns))
	for i := range txns {
		views = append(views, mapTransactionView(&txns[i]))
	}

	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// sortClause maps the filter sort fields onto whitelisted columns.
// Unknown fields fall back to txn_date descending.
func sortClause(filter TransactionFilter) string {
	column := "transactions.txn_date"
	switch filter.SortBy {
	case "units":
		column = "transactions.units"
	case "navAtTxn", "nav_at_txn":
		column = "transactions.nav_at_txn"
	case "", "txnDate", "txn_date":
	default:
	}
	if strings.EqualFold(filter.SortOrder, "asc") {
		return column + " ASC"
	}
	return column + " DESC"
}

func mapTransactionView(txn *models.Transaction) TransactionView {
	return TransactionView{
		ID:          txn.ID,
		ProductName: txn.Product.Name,
		TxnType:     string(txn.TxnType),
		Units:       txn.Units,
		NavAtTxn:    txn.NavAtTxn,
		Amount:      txn.Units.Mul(txn.NavAtTxn),
		TxnDate:     txn.TxnDate,
	}
}
