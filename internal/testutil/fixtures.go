package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"investrack/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return createUser(t, db, email, models.RoleUser)
}

// CreateTestAdmin creates a user with the ADMIN role and unique email.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("admin%d@test.com", nextID())
	return createUser(t, db, email, models.RoleAdmin)
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProduct creates an active product with NAV 100.00 and a minimum
// investment of 500.00.
func CreateTestProduct(t *testing.T, db *gorm.DB) *models.InvestmentProduct {
	t.Helper()
	return CreateTestProductWithNAV(t, db, decimal.NewFromInt(100))
}

// CreateTestProductWithNAV creates an active product with the given NAV per unit.
func CreateTestProductWithNAV(t *testing.T, db *gorm.DB, nav decimal.Decimal) *models.InvestmentProduct {
	t.Helper()

	product := &models.InvestmentProduct{
		Name:                        fmt.Sprintf("Test Fund %d", nextID()),
		Type:                        models.InvestmentTypeMutualFund,
		RiskLevel:                   models.RiskMedium,
		MinimumInvestment:           decimal.NewFromInt(500),
		ExpectedAnnualReturnRate:    decimal.NewFromFloat(10.5),
		CurrentNetAssetValuePerUnit: nav,
		Description:                 "Fixture product",
		IsActive:                    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestHolding creates a holding of the given units and average price.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID, productID uint, units, avgPrice decimal.Decimal) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		UserID:           userID,
		ProductID:        productID,
		UnitsOwned:       units,
		AvgPurchasePrice: avgPrice,
		Version:          1,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestTransaction creates a ledger entry of the given type.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, productID uint, txnType models.TransactionType, units, nav decimal.Decimal) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		UserID:    userID,
		ProductID: productID,
		TxnType:   txnType,
		Units:     units,
		NavAtTxn:  nav,
		TxnDate:   time.Now(),
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

// CreateTestTicket creates an open ticket with MEDIUM priority.
func CreateTestTicket(t *testing.T, db *gorm.DB, userID uint) *models.SupportTicket {
	t.Helper()

	ticket := &models.SupportTicket{
		UserID:      userID,
		Subject:     fmt.Sprintf("Test Ticket %d", nextID()),
		Description: "Fixture ticket",
		Status:      models.TicketOpen,
		Priority:    models.PriorityMedium,
	}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("failed to create test ticket: %v", err)
	}
	return ticket
}
