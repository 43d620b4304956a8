package services

import (
	"time"

	"github.com/shopspring/decimal"

	"investrack/internal/models"
	"investrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	EnsureAdmin(email, password string) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// ProductFilter holds optional criteria for catalog filtering.
// Nil fields are ignored.
type ProductFilter struct {
	Type       *models.InvestmentType
	RiskLevel  *models.RiskLevel
	MaxAmount  *decimal.Decimal
	SearchTerm string
}

// ProductInput carries the admin-supplied fields of a catalog entry.
type ProductInput struct {
	Name                        string
	Type                        models.InvestmentType
	RiskLevel                   models.RiskLevel
	MinimumInvestment           decimal.Decimal
	ExpectedAnnualReturnRate    decimal.Decimal
	CurrentNetAssetValuePerUnit decimal.Decimal
	Description                 string
}

// ProductServicer defines the contract for investment product catalog logic.
type ProductServicer interface {
	GetActiveProducts() ([]models.InvestmentProduct, error)
	GetAllProducts() ([]models.InvestmentProduct, error)
	GetProductByID(id uint) (*models.InvestmentProduct, error)
	GetProductsByType(t models.InvestmentType) ([]models.InvestmentProduct, error)
	GetProductsByRisk(level models.RiskLevel) ([]models.InvestmentProduct, error)
	FilterProducts(filter ProductFilter) ([]models.InvestmentProduct, error)
	CreateProduct(input ProductInput) (*models.InvestmentProduct, error)
	UpdateProduct(id uint, input ProductInput) (*models.InvestmentProduct, error)
	SetProductActive(id uint, active bool) (*models.InvestmentProduct, error)
	DeleteProduct(id uint) error
}

// HoldingSnapshot is the computed view of a single holding: the stored
// position plus derived valuation and return figures.
type HoldingSnapshot struct {
	ID               uint            `json:"id"`
	ProductID        uint            `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Type             string          `json:"type"`
	RiskLevel        string          `json:"risk_level"`
	UnitsOwned       decimal.Decimal `json:"units_owned"`
	AvgPurchasePrice decimal.Decimal `json:"avg_purchase_price"`
	CurrentNAV       decimal.Decimal `json:"current_nav"`
	InvestedValue    decimal.Decimal `json:"invested_value"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	AbsoluteReturn   decimal.Decimal `json:"absolute_return"`
	PercentageReturn decimal.Decimal `json:"percentage_return"`
}

// PortfolioSnapshot aggregates a user's holdings with portfolio totals.
type PortfolioSnapshot struct {
	Holdings           []HoldingSnapshot `json:"holdings"`
	TotalInvestedValue decimal.Decimal   `json:"total_invested_value"`
	TotalCurrentValue  decimal.Decimal   `json:"total_current_value"`
}

// PortfolioSummary condenses a portfolio into its headline figures.
type PortfolioSummary struct {
	TotalInvested    decimal.Decimal `json:"total_invested"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	AbsoluteReturn   decimal.Decimal `json:"absolute_return"`
	ReturnPercentage decimal.Decimal `json:"return_percentage"`
}

// AssetAllocation is the share of the portfolio's current value held in
// one investment type.
type AssetAllocation struct {
	AssetType    string          `json:"asset_type"`
	CurrentValue decimal.Decimal `json:"current_value"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// HoldingGain is the per-holding gain/loss breakdown.
type HoldingGain struct {
	ProductName    string          `json:"product_name"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	GainOrLoss     decimal.Decimal `json:"gain_or_loss"`
}

// PortfolioServicer defines the contract for the ledger/portfolio engine
// and the analytics views derived from it.
type PortfolioServicer interface {
	GetPortfolio(userID uint) (*PortfolioSnapshot, error)
	Buy(userID, productID uint, units decimal.Decimal) (*HoldingSnapshot, error)
	Sell(userID, productID uint, units decimal.Decimal) (*HoldingSnapshot, error)
	GetHoldingByID(userID, holdingID uint) (*HoldingSnapshot, error)
	GetPortfolioSummary(userID uint) (*PortfolioSummary, error)
	GetAssetAllocation(userID uint) ([]AssetAllocation, error)
	GetGainLossAnalysis(userID uint) ([]HoldingGain, error)
}

// TransactionFilter holds optional filter parameters for transaction history.
type TransactionFilter struct {
	SearchQuery string
	TxnType     *models.TransactionType
	StartDate   *time.Time
	EndDate     *time.Time
	SortBy      string
	SortOrder   string
}

// TransactionView is one row of a user's transaction history.
type TransactionView struct {
	ID          uint            `json:"id"`
	ProductName string          `json:"product_name"`
	TxnType     string          `json:"txn_type"`
	Units       decimal.Decimal `json:"units"`
	NavAtTxn    decimal.Decimal `json:"nav_at_txn"`
	Amount      decimal.Decimal `json:"amount"`
	TxnDate     time.Time       `json:"txn_date"`
}

// TransactionServicer defines the contract for transaction history reads.
type TransactionServicer interface {
	GetTransactionHistory(userID uint) ([]TransactionView, error)
	GetFilteredTransactions(userID uint, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[TransactionView], error)
}

// CreateTicketInput carries the user-supplied fields of a new support ticket.
type CreateTicketInput struct {
	Subject     string
	Description string
	Priority    string
	ProductName string
}

// TicketMessageView is one entry of a ticket's conversation thread.
type TicketMessageView struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	Message    string    `json:"message"`
	SenderType string    `json:"sender_type"`
	Timestamp  time.Time `json:"timestamp"`
}

// TicketView is the full response view of a support ticket.
type TicketView struct {
	ID          uint                `json:"id"`
	UserID      uint                `json:"user_id"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	Priority    string              `json:"priority"`
	ProductName string              `json:"product_name,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Messages    []TicketMessageView `json:"messages"`
}

// SupportServicer defines the contract for the support ticket engine.
type SupportServicer interface {
	CreateTicket(email string, input CreateTicketInput) (*TicketView, error)
	RespondToTicket(ticketID uint, email, message, newStatus string) (*TicketView, error)
	GetTicketsForUser(email string) ([]TicketView, error)
	GetAllTickets() ([]TicketView, error)
	FilterTickets(priority *models.TicketPriority, status *models.TicketStatus) ([]TicketView, error)
	FilterTicketsForUser(email string, priority *models.TicketPriority, status *models.TicketStatus) ([]TicketView, error)
	GetTicketByID(ticketID uint) (*TicketView, error)
}
