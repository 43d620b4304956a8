package services

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"investrack/internal/models"
	"investrack/internal/testutil"
)

func createTypedProduct(t *testing.T, db *gorm.DB, investmentType models.InvestmentType, nav decimal.Decimal) *models.InvestmentProduct {
	t.Helper()
	product := &models.InvestmentProduct{
		Name:                        fmt.Sprintf("%s Fund %d", investmentType, nav.IntPart()),
		Type:                        investmentType,
		RiskLevel:                   models.RiskMedium,
		MinimumInvestment:           decimal.NewFromInt(100),
		ExpectedAnnualReturnRate:    decimal.NewFromFloat(8.0),
		CurrentNetAssetValuePerUnit: nav,
		IsActive:                    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}

func TestGetPortfolioSummary(t *testing.T) {
	t.Run("totals_and_overall_return", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProductWithNAV(t, db, decimal.NewFromInt(120))
		testutil.CreateTestHolding(t, db, user.ID, product.ID, decimal.NewFromInt(10), decimal.NewFromInt(100))

		summary, err := svc.GetPortfolioSummary(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1000), summary.TotalInvested)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1200), summary.CurrentValue)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(200), summary.AbsoluteReturn)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(20), summary.ReturnPercentage)
	})

	t.Run("empty_portfolio_is_all_zeros", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)

		summary, err := svc.GetPortfolioSummary(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, decimal.Zero, summary.TotalInvested)
		testutil.AssertDecimalEqual(t, decimal.Zero, summary.CurrentValue)
		testutil.AssertDecimalEqual(t, decimal.Zero, summary.AbsoluteReturn)
		testutil.AssertDecimalEqual(t, decimal.Zero, summary.ReturnPercentage)
	})

	t.Run("zero_invested_value_yields_zero_percentage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProductWithNAV(t, db, decimal.NewFromInt(100))
		// Bonus units carry no cost basis, so nothing is invested.
		holding := testutil.CreateTestHolding(t, db, user.ID, product.ID, decimal.NewFromInt(10), decimal.Zero)

		snap, err := svc.GetHoldingByID(user.ID, holding.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.Zero, snap.InvestedValue)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1000), snap.CurrentValue)
		testutil.AssertDecimalEqual(t, decimal.Zero, snap.PercentageReturn)

		summary, err := svc.GetPortfolioSummary(user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.Zero, summary.ReturnPercentage)
	})
}

func TestGetAssetAllocation(t *testing.T) {
	t.Run("groups_by_type_largest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)
		fund := createTypedProduct(t, db, models.InvestmentTypeMutualFund, decimal.NewFromInt(100))
		stock := createTypedProduct(t, db, models.InvestmentTypeStock, decimal.NewFromInt(100))
		testutil.CreateTestHolding(t, db, user.ID, fund.ID, decimal.NewFromInt(7), decimal.NewFromInt(100))
		testutil.CreateTestHolding(t, db, user.ID, stock.ID, decimal.NewFromInt(3), decimal.NewFromInt(100))

		allocations, err := svc.GetAssetAllocation(user.ID)
		testutil.AssertNoError(t, err)

		if len(allocations) != 2 {
			t.Fatalf("expected 2 allocation entries, got %d", len(allocations))
		}
		if allocations[0].AssetType != string(models.InvestmentTypeMutualFund) {
			t.Errorf("expected MUTUAL_FUND first, got %s", allocations[0].AssetType)
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(700), allocations[0].CurrentValue)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(70), allocations[0].Percentage)
		if allocations[1].AssetType != string(models.InvestmentTypeStock) {
			t.Errorf("expected STOCK second, got %s", allocations[1].AssetType)
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(30), allocations[1].Percentage)
	})

	t.Run("same_type_holdings_merge", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)
		a := createTypedProduct(t, db, models.InvestmentTypeStock, decimal.NewFromInt(100))
		b := createTypedProduct(t, db, models.InvestmentTypeStock, decimal.NewFromInt(50))
		testutil.CreateTestHolding(t, db, user.ID, a.ID, decimal.NewFromInt(4), decimal.NewFromInt(90))
		testutil.CreateTestHolding(t, db, user.ID, b.ID, decimal.NewFromInt(2), decimal.NewFromInt(40))

		allocations, err := svc.GetAssetAllocation(user.ID)
		testutil.AssertNoError(t, err)

		if len(allocations) != 1 {
			t.Fatalf("expected a single merged entry, got %d", len(allocations))
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(500), allocations[0].CurrentValue)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), allocations[0].Percentage)
	})

	t.Run("empty_portfolio_has_no_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)

		allocations, err := svc.GetAssetAllocation(user.ID)
		testutil.AssertNoError(t, err)
		if len(allocations) != 0 {
			t.Errorf("expected no entries, got %d", len(allocations))
		}
	})
}

func TestGetGainLossAnalysis(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)
	user := testutil.CreateTestUser(t, db)
	product := testutil.CreateTestProductWithNAV(t, db, decimal.NewFromInt(60))
	testutil.CreateTestHolding(t, db, user.ID, product.ID, decimal.NewFromInt(10), decimal.NewFromInt(50))

	gains, err := svc.GetGainLossAnalysis(user.ID)
	testutil.AssertNoError(t, err)

	if len(gains) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(gains))
	}
	if gains[0].ProductName != product.Name {
		t.Errorf("expected product name %q, got %q", product.Name, gains[0].ProductName)
	}
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(500), gains[0].InvestedAmount)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(600), gains[0].CurrentValue)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), gains[0].GainOrLoss)
}
