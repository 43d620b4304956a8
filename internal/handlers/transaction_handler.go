package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/pagination"
	"investrack/internal/services"
)

// TransactionHandler handles transaction history requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionFilterRequest represents the query parameters for filtered history.
type TransactionFilterRequest struct {
	Search    string `form:"search"`
	TxnType   string `form:"txn_type" binding:"omitempty,oneof=BUY SELL"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=txn_date units nav_at_txn"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// GetTransactions handles listing the user's full transaction history.
// @Summary     Get transaction history
// @Description Get the authenticated user's transactions, newest first
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.TransactionView "Transaction history"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetTransactionHistory(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetFilteredTransactions handles paginated, filtered transaction history.
// @Summary     Filter transaction history
// @Description Get a paginated transaction history filtered by product name, type, and date range
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       search     query string false "Product name substring, case-insensitive"
// @Param       txn_type   query string false "Transaction type (BUY or SELL)"
// @Param       start_date query string false "Start date (RFC 3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "End date (RFC 3339 or YYYY-MM-DD)"
// @Param       sort_by    query string false "Sort column (txn_date, units, nav_at_txn)"
// @Param       sort_order query string false "Sort order (asc or desc)"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.TransactionView] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/filter [get]
func (h *TransactionHandler) GetFilteredTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithBindingError(c, err)
		return
	}

	filter := services.TransactionFilter{
		SearchQuery: req.Search,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	}
	if req.TxnType != "" {
		t := models.TransactionType(req.TxnType)
		filter.TxnType = &t
	}
	if req.StartDate != "" {
		start, err := parseDateParam(req.StartDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid start_date"))
			return
		}
		filter.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := parseDateParam(req.EndDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid end_date"))
			return
		}
		filter.EndDate = &end
	}

	result, err := h.transactionService.GetFilteredTransactions(userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseDateParam accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date.
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
