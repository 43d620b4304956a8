package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/services"
)

// ProductHandler handles investment product catalog requests.
type ProductHandler struct {
	productService services.ProductServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.ProductServicer) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductInputRequest represents the payload for creating or updating a product.
type ProductInputRequest struct {
	Name                        string          `json:"name" binding:"required,min=1,max=100"`
	Type                        string          `json:"type" binding:"required,investment_type"`
	RiskLevel                   string          `json:"risk_level" binding:"required,risk_level"`
	MinimumInvestment           decimal.Decimal `json:"minimum_investment" binding:"required"`
	ExpectedAnnualReturnRate    decimal.Decimal `json:"expected_annual_return_rate" binding:"required"`
	CurrentNetAssetValuePerUnit decimal.Decimal `json:"current_nav_per_unit" binding:"required"`
	Description                 string          `json:"description" binding:"max=500"`
}

// ProductFilterRequest represents the query parameters for catalog filtering.
type ProductFilterRequest struct {
	Type      string `form:"type" binding:"omitempty,investment_type"`
	RiskLevel string `form:"risk_level" binding:"omitempty,risk_level"`
	MaxAmount string `form:"max_amount"`
	Search    string `form:"search"`
}

func (r ProductInputRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:                        r.Name,
		Type:                        models.InvestmentType(r.Type),
		RiskLevel:                   models.RiskLevel(r.RiskLevel),
		MinimumInvestment:           r.MinimumInvestment,
		ExpectedAnnualReturnRate:    r.ExpectedAnnualReturnRate,
		CurrentNetAssetValuePerUnit: r.CurrentNetAssetValuePerUnit,
		Description:                 r.Description,
	}
}

// GetProducts handles listing active catalog products.
// @Summary     List products
// @Description Get all active investment products
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.InvestmentProduct "Active products"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products [get]
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.GetActiveProducts()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct handles retrieving a single product.
// @Summary     Get product by ID
// @Description Get a single investment product by ID
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Product ID"
// @Success     200 {object} models.InvestmentProduct "Product details"
// @Failure     400 {object} ErrorResponse "Invalid product ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetProductsByType handles listing active products of one investment type.
// @Summary     List products by type
// @Description Get active investment products of a given type
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       type path string true "Investment type"
// @Success     200 {array} models.InvestmentProduct "Products of the type"
// @Failure     400 {object} ErrorResponse "Unknown investment type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products/type/{type} [get]
func (h *ProductHandler) GetProductsByType(c *gin.Context) {
	t := models.InvestmentType(strings.ToUpper(c.Param("type")))
	if !t.Valid() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown investment type: "+c.Param("type")))
		return
	}

	products, err := h.productService.GetProductsByType(t)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProductsByRisk handles listing active products at one risk level.
// @Summary     List products by risk level
// @Description Get active investment products at a given risk level
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       level path string true "Risk level (LOW, MEDIUM, HIGH)"
// @Success     200 {array} models.InvestmentProduct "Products at the risk level"
// @Failure     400 {object} ErrorResponse "Unknown risk level"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products/risk/{level} [get]
func (h *ProductHandler) GetProductsByRisk(c *gin.Context) {
	level := models.RiskLevel(strings.ToUpper(c.Param("level")))
	if !level.Valid() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown risk level: "+c.Param("level")))
		return
	}

	products, err := h.productService.GetProductsByRisk(level)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// FilterProducts handles catalog filtering with optional criteria.
// @Summary     Filter products
// @Description Filter active products by type, risk level, affordability, and name search
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       type       query string false "Investment type"
// @Param       risk_level query string false "Risk level"
// @Param       max_amount query number false "Maximum minimum-investment amount"
// @Param       search     query string false "Name substring, case-insensitive"
// @Success     200 {array} models.InvestmentProduct "Matching products"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products/filter [get]
func (h *ProductHandler) FilterProducts(c *gin.Context) {
	var req ProductFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	var filter services.ProductFilter
	if req.Type != "" {
		t := models.InvestmentType(req.Type)
		filter.Type = &t
	}
	if req.RiskLevel != "" {
		level := models.RiskLevel(req.RiskLevel)
		filter.RiskLevel = &level
	}
	if req.MaxAmount != "" {
		maxAmount, err := decimal.NewFromString(req.MaxAmount)
		if err != nil || maxAmount.IsNegative() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid max_amount"))
			return
		}
		filter.MaxAmount = &maxAmount
	}
	filter.SearchTerm = req.Search

	products, err := h.productService.FilterProducts(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetAllProducts handles listing every product, active or not. Admin only.
// @Summary     List all products (admin)
// @Description Get every investment product including inactive ones
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.InvestmentProduct "All products"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/products [get]
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	products, err := h.productService.GetAllProducts()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// CreateProduct handles adding a catalog product. Admin only.
// @Summary     Create product (admin)
// @Description Add a new investment product to the catalog
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ProductInputRequest true "Product details"
// @Success     201 {object} models.InvestmentProduct "Product created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct handles updating a catalog product. Admin only.
// @Summary     Update product (admin)
// @Description Update an existing investment product
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Product ID"
// @Param       request body ProductInputRequest true "Product details"
// @Success     200 {object} models.InvestmentProduct "Updated product"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProductInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(productID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// SetProductActiveRequest represents the payload for toggling product availability.
type SetProductActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetProductActive handles activating or deactivating a product. Admin only.
// @Summary     Set product availability (admin)
// @Description Activate or deactivate a catalog product
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                     true "Product ID"
// @Param       request body SetProductActiveRequest true "Availability flag"
// @Success     200 {object} models.InvestmentProduct "Updated product"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/products/{id}/active [patch]
func (h *ProductHandler) SetProductActive(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetProductActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	product, err := h.productService.SetProductActive(productID, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct handles retiring a product from the catalog. Admin only.
// @Summary     Delete product (admin)
// @Description Soft-delete an investment product
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Product ID"
// @Success     200 {object} map[string]string "Product deleted"
// @Failure     400 {object} ErrorResponse "Invalid product ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.productService.DeleteProduct(productID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// GetInvestmentTypes handles listing the investment types the catalog accepts.
// @Summary     List investment types
// @Description Get every investment type a product can be classified as
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} string "Investment types"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /products/types [get]
func (h *ProductHandler) GetInvestmentTypes(c *gin.Context) {
	types := models.InvestmentTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	c.JSON(http.StatusOK, gin.H{"types": names})
}
