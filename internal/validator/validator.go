// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"investrack/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("investment_type", validateInvestmentType)
		_ = v.RegisterValidation("risk_level", validateRiskLevel)
		_ = v.RegisterValidation("ticket_status", validateTicketStatus)
		_ = v.RegisterValidation("ticket_priority", validateTicketPriority)
	}
}

func validateInvestmentType(fl validator.FieldLevel) bool {
	return models.InvestmentType(fl.Field().String()).Valid()
}

func validateRiskLevel(fl validator.FieldLevel) bool {
	return models.RiskLevel(fl.Field().String()).Valid()
}

func validateTicketStatus(fl validator.FieldLevel) bool {
	_, err := models.ParseTicketStatus(fl.Field().String())
	return err == nil
}

func validateTicketPriority(fl validator.FieldLevel) bool {
	_, err := models.ParseTicketPriority(fl.Field().String())
	return err == nil
}
