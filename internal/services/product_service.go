package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
)

// productService handles investment product catalog logic.
type productService struct {
	db *gorm.DB
}

// NewProductService creates a new ProductServicer.
func NewProductService(db *gorm.DB) ProductServicer {
	return &productService{db: db}
}

// GetActiveProducts returns all products available for investment.
func (s *productService) GetActiveProducts() ([]models.InvestmentProduct, error) {
	var products []models.InvestmentProduct
	if err := s.db.Where("is_active = ?", true).Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return products, nil
}

// GetAllProducts returns every product, including soft-deleted ones.
func (s *productService) GetAllProducts() ([]models.InvestmentProduct, error) {
	var products []models.InvestmentProduct
	if err := s.db.Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return products, nil
}

// GetProductByID returns a single product regardless of active state.
func (s *productService) GetProductByID(id uint) (*models.InvestmentProduct, error) {
	var product models.InvestmentProduct
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

// GetProductsByType returns active products of the given investment type.
func (s *productService) GetProductsByType(t models.InvestmentType) ([]models.InvestmentProduct, error) {
	var products []models.InvestmentProduct
	if err := s.db.Where("type = ? AND is_active = ?", t, true).Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return products, nil
}

// GetProductsByRisk returns active products with the given risk level.
func (s *productService) GetProductsByRisk(level models.RiskLevel) ([]models.InvestmentProduct, error) {
	var products []models.InvestmentProduct
	if err := s.db.Where("risk_level = ? AND is_active = ?", level, true).Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return products, nil
}

// FilterProducts returns active products matching the given criteria.
// Nil criteria are not applied.
func (s *productService) FilterProducts(filter ProductFilter) ([]models.InvestmentProduct, error) {
	query := s.db.Where("is_active = ?", true)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.RiskLevel != nil {
		query = query.Where("risk_level = ?", *filter.RiskLevel)
	}
	if filter.MaxAmount != nil {
		query = query.Where("minimum_investment <= ?", *filter.MaxAmount)
	}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	var products []models.InvestmentProduct
	if err := query.Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return products, nil
}

// CreateProduct adds a new catalog entry.
func (s *productService) CreateProduct(input ProductInput) (*models.InvestmentProduct, error) {
	if !input.MinimumInvestment.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "minimum investment must be positive")
	}
	if !input.CurrentNetAssetValuePerUnit.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "NAV per unit must be positive")
	}
	if input.ExpectedAnnualReturnRate.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expected annual return rate cannot be negative")
	}

	product := &models.InvestmentProduct{
		Name:                        input.Name,
		Type:                        input.Type,
		RiskLevel:                   input.RiskLevel,
		MinimumInvestment:           input.MinimumInvestment,
		ExpectedAnnualReturnRate:    input.ExpectedAnnualReturnRate,
		CurrentNetAssetValuePerUnit: input.CurrentNetAssetValuePerUnit,
		Description:                 input.Description,
		IsActive:                    true,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return product, nil
}

// UpdateProduct replaces the mutable fields of an existing product.
func (s *productService) UpdateProduct(id uint, input ProductInput) (*models.InvestmentProduct, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if !input.MinimumInvestment.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "minimum investment must be positive")
	}
	if !input.CurrentNetAssetValuePerUnit.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "NAV per unit must be positive")
	}

	product.Name = input.Name
	product.Type = input.Type
	product.RiskLevel = input.RiskLevel
	product.MinimumInvestment = input.MinimumInvestment
	product.ExpectedAnnualReturnRate = input.ExpectedAnnualReturnRate
	product.CurrentNetAssetValuePerUnit = input.CurrentNetAssetValuePerUnit
	product.Description = input.Description

	if err := s.db.Save(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return product, nil
}

// SetProductActive flips the soft-delete flag on a product.
func (s *productService) SetProductActive(id uint, active bool) (*models.InvestmentProduct, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(product).Update("is_active", active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	product.IsActive = active
	return product, nil
}

// DeleteProduct soft-deletes a product. Rows are never physically removed so
// transaction history keeps valid references.
func (s *productService) DeleteProduct(id uint) error {
	_, err := s.SetProductActive(id, false)
	return err
}
