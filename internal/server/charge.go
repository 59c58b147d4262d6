package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	chargedomain "github.com/lodgeops/lodgeops/internal/charge/domain"
	"github.com/lodgeops/lodgeops/internal/folio/engine"
)

type createChargeRequest struct {
	BookingID         string          `json:"booking_id"`
	Category          string          `json:"category"`
	Amount            decimal.Decimal `json:"amount"`
	Taxable           *bool           `json:"taxable,omitempty"`
	ServiceChargeable *bool           `json:"service_chargeable,omitempty"`
	StaffName         string          `json:"staff_name"`
	Description       string          `json:"description"`
}

func (s *Server) CreateCharge(c *gin.Context) {
	var req createChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.chargeSvc.Create(c.Request.Context(), chargedomain.CreateChargeRequest{
		BookingID:         strings.TrimSpace(req.BookingID),
		Category:          engine.Category(strings.TrimSpace(req.Category)),
		Amount:            req.Amount,
		Taxable:           req.Taxable,
		ServiceChargeable: req.ServiceChargeable,
		StaffName:         req.StaffName,
		Description:       req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCharges(c *gin.Context) {
	var query struct {
		BookingID string `form:"booking_id"`
		Category  string `form:"category"`
		Status    string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.chargeSvc.List(c.Request.Context(), chargedomain.ListChargeRequest{
		BookingID: strings.TrimSpace(query.BookingID),
		Category:  engine.Category(strings.TrimSpace(query.Category)),
		Status:    chargedomain.ChargeStatus(strings.TrimSpace(query.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBookingCharges(c *gin.Context) {
	resp, err := s.chargeSvc.List(c.Request.Context(), chargedomain.ListChargeRequest{
		BookingID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetChargeByID(c *gin.Context) {
	resp, err := s.chargeSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkChargePaid(c *gin.Context) {
	resp, err := s.chargeSvc.MarkPaid(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelCharge(c *gin.Context) {
	resp, err := s.chargeSvc.Cancel(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
