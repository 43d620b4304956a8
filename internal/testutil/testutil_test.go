package testutil_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "investment_products", "holdings", "transactions", "support_tickets", "ticket_messages"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}
	if user.Role != models.RoleUser {
		t.Errorf("expected USER role, got %s", user.Role)
	}

	admin := testutil.CreateTestAdmin(t, db)
	if admin.Role != models.RoleAdmin {
		t.Errorf("expected ADMIN role, got %s", admin.Role)
	}

	product := testutil.CreateTestProductWithNAV(t, db, decimal.NewFromInt(120))
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(120), product.CurrentNetAssetValuePerUnit)

	holding := testutil.CreateTestHolding(t, db, user.ID, product.ID, decimal.NewFromInt(10), decimal.NewFromInt(100))
	if holding.Version != 1 {
		t.Errorf("expected initial version 1, got %d", holding.Version)
	}

	txn := testutil.CreateTestTransaction(t, db, user.ID, product.ID, models.TransactionBuy, decimal.NewFromInt(10), decimal.NewFromInt(100))
	if txn.TxnType != models.TransactionBuy {
		t.Errorf("expected BUY transaction, got %s", txn.TxnType)
	}

	ticket := testutil.CreateTestTicket(t, db, user.ID)
	if ticket.Status != models.TicketOpen {
		t.Errorf("expected OPEN ticket, got %s", ticket.Status)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrProductNotFound, "custom message")
	testutil.AssertAppError(t, err, "PRODUCT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
