package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "investrack/internal/errors"
	"investrack/internal/services"
)

// PortfolioHandler handles portfolio and trading requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// TradeRequest represents the payload for a buy or sell order.
type TradeRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Units     decimal.Decimal `json:"units" binding:"required"`
}

// GetPortfolio handles retrieving the user's full portfolio valuation.
// @Summary     Get portfolio
// @Description Get the authenticated user's holdings with valuations and totals
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSnapshot "Portfolio with totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.portfolioService.GetPortfolio(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": snapshot})
}

// Buy handles purchasing units of a product.
// @Summary     Buy units
// @Description Buy units of an investment product at the current NAV
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TradeRequest true "Buy order"
// @Success     200 {object} services.HoldingSnapshot "Updated holding"
// @Failure     400 {object} ErrorResponse "Invalid input or below minimum investment"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     409 {object} ErrorResponse "Concurrent update conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/buy [post]
func (h *PortfolioHandler) Buy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	if !req.Units.IsPositive() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Units must be positive"))
		return
	}

	holding, err := h.portfolioService.Buy(userID, req.ProductID, req.Units)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// Sell handles selling units from a holding.
// @Summary     Sell units
// @Description Sell units of a held product at the current NAV
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TradeRequest true "Sell order"
// @Success     200 {object} services.HoldingSnapshot "Holding after the sale"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient units"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product or holding not found"
// @Failure     409 {object} ErrorResponse "Concurrent update conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/sell [post]
func (h *PortfolioHandler) Sell(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	if !req.Units.IsPositive() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Units must be positive"))
		return
	}

	holding, err := h.portfolioService.Sell(userID, req.ProductID, req.Units)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// GetHolding handles retrieving one holding with its valuation.
// @Summary     Get holding by ID
// @Description Get a single holding owned by the authenticated user
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     200 {object} services.HoldingSnapshot "Holding details"
// @Failure     400 {object} ErrorResponse "Invalid holding ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/holdings/{id} [get]
func (h *PortfolioHandler) GetHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.portfolioService.GetHoldingByID(userID, holdingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// GetSummary handles retrieving the portfolio's headline figures.
// @Summary     Get portfolio summary
// @Description Get total invested, current value, and overall return for the authenticated user
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/summary [get]
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.portfolioService.GetPortfolioSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetAllocation handles retrieving the asset allocation breakdown.
// @Summary     Get asset allocation
// @Description Get the portfolio's current value grouped by investment type with percentages
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.AssetAllocation "Allocation by investment type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/allocation [get]
func (h *PortfolioHandler) GetAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocation, err := h.portfolioService.GetAssetAllocation(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allocation": allocation})
}

// GetGains handles retrieving the per-holding gain/loss analysis.
// @Summary     Get gain/loss analysis
// @Description Get invested amount, current value, and gain or loss per holding
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.HoldingGain "Gain/loss per holding"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/gains [get]
func (h *PortfolioHandler) GetGains(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	gains, err := h.portfolioService.GetGainLossAnalysis(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gains": gains})
}
