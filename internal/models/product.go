package models

import "github.com/shopspring/decimal"

// InvestmentType categorizes an investment product.
type InvestmentType string

const (
	InvestmentTypeFixedDeposit InvestmentType = "FIXED_DEPOSIT"
	InvestmentTypeGovBond      InvestmentType = "GOVERNMENT_BOND"
	InvestmentTypePPF          InvestmentType = "PUBLIC_PROVIDENT_FUND"
	InvestmentTypeMutualFund   InvestmentType = "MUTUAL_FUND"
	InvestmentTypeCorpBond     InvestmentType = "CORPORATE_BOND"
	InvestmentTypeREIT         InvestmentType = "REAL_ESTATE_INVESTMENT_TRUST"
	InvestmentTypeStock        InvestmentType = "STOCK"
	InvestmentTypeCrypto       InvestmentType = "CRYPTOCURRENCY"
	InvestmentTypeOptions      InvestmentType = "OPTIONS"
)

// InvestmentTypes lists every valid investment type.
func InvestmentTypes() []InvestmentType {
	return []InvestmentType{
		InvestmentTypeFixedDeposit,
		InvestmentTypeGovBond,
		InvestmentTypePPF,
		InvestmentTypeMutualFund,
		InvestmentTypeCorpBond,
		InvestmentTypeREIT,
		InvestmentTypeStock,
		InvestmentTypeCrypto,
		InvestmentTypeOptions,
	}
}

// Valid reports whether t is a known investment type.
func (t InvestmentType) Valid() bool {
	for _, known := range InvestmentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// RiskLevel categorizes the risk of an investment product.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Valid reports whether l is a known risk level.
func (l RiskLevel) Valid() bool {
	return l == RiskLow || l == RiskMedium || l == RiskHigh
}

// InvestmentProduct represents a catalog entry users can buy units of.
// Products are soft-deleted by flipping IsActive, never removed, so that
// historical transactions keep a valid product reference.
type InvestmentProduct struct {
	Base
	Name                        string          `gorm:"size:100;not null" json:"name"`
	Type                        InvestmentType  `gorm:"not null" json:"type"`
	RiskLevel                   RiskLevel       `gorm:"not null" json:"risk_level"`
	MinimumInvestment           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"minimum_investment"`
	ExpectedAnnualReturnRate    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"expected_annual_return_rate"`
	CurrentNetAssetValuePerUnit decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"current_nav_per_unit"`
	Description                 string          `gorm:"size:500" json:"description"`
	IsActive                    bool            `gorm:"not null;default:true" json:"is_active"`
}
