package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	taxdomain "github.com/lodgeops/lodgeops/internal/taxconfig/domain"
)

type createTaxSettingRequest struct {
	VATRate                decimal.Decimal `json:"vat_rate"`
	ServiceChargeRate      decimal.Decimal `json:"service_charge_rate"`
	TaxInclusive           bool            `json:"tax_inclusive"`
	ServiceChargeInclusive bool            `json:"service_charge_inclusive"`
	VATCategories          []string        `json:"vat_categories"`
	ServiceCategories      []string        `json:"service_categories"`
}

type updateTaxSettingRequest struct {
	VATRate                *decimal.Decimal `json:"vat_rate,omitempty"`
	ServiceChargeRate      *decimal.Decimal `json:"service_charge_rate,omitempty"`
	TaxInclusive           *bool            `json:"tax_inclusive,omitempty"`
	ServiceChargeInclusive *bool            `json:"service_charge_inclusive,omitempty"`
	VATCategories          []string         `json:"vat_categories,omitempty"`
	ServiceCategories      []string         `json:"service_categories,omitempty"`
}

func (s *Server) CreateTaxSetting(c *gin.Context) {
	var req createTaxSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.Create(c.Request.Context(), taxdomain.CreateRequest{
		VATRate:                req.VATRate,
		ServiceChargeRate:      req.ServiceChargeRate,
		TaxInclusive:           req.TaxInclusive,
		ServiceChargeInclusive: req.ServiceChargeInclusive,
		VATCategories:          req.VATCategories,
		ServiceCategories:      req.ServiceCategories,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTaxSettings(c *gin.Context) {
	var query struct {
		IsEnabled string `form:"is_enabled"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	isEnabled, err := parseOptionalBool(query.IsEnabled)
	if err != nil {
		AbortWithError(c, newValidationError("is_enabled", "invalid_is_enabled", "invalid is_enabled"))
		return
	}

	resp, err := s.taxSvc.List(c.Request.Context(), taxdomain.ListRequest{
		IsEnabled: isEnabled,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTaxSetting(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateTaxSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.Update(c.Request.Context(), taxdomain.UpdateRequest{
		ID:                     id,
		VATRate:                req.VATRate,
		ServiceChargeRate:      req.ServiceChargeRate,
		TaxInclusive:           req.TaxInclusive,
		ServiceChargeInclusive: req.ServiceChargeInclusive,
		VATCategories:          req.VATCategories,
		ServiceCategories:      req.ServiceCategories,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableTaxSetting(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.taxSvc.Disable(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
