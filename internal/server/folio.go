package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	foliodomain "github.com/lodgeops/lodgeops/internal/folio/domain"
)

func (s *Server) GetBookingFolio(c *gin.Context) {
	var query struct {
		ShowZeroRates string `form:"show_zero_rates"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	showZeroRates, err := parseOptionalBool(query.ShowZeroRates)
	if err != nil {
		AbortWithError(c, newValidationError("show_zero_rates", "invalid_show_zero_rates", "invalid show_zero_rates"))
		return
	}

	resp, err := s.folioSvc.GetFolio(c.Request.Context(), foliodomain.FolioRequest{
		BookingID:     strings.TrimSpace(c.Param("id")),
		ShowZeroRates: showZeroRates,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
