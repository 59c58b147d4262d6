package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	bookingdomain "github.com/lodgeops/lodgeops/internal/booking/domain"
)

type createBookingRequest struct {
	GuestName  string     `json:"guest_name"`
	GuestEmail string     `json:"guest_email"`
	RoomNumber string     `json:"room_number"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	TaxExempt  bool       `json:"tax_exempt"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	checkIn := time.Now().UTC()
	if req.CheckIn != nil {
		checkIn = req.CheckIn.UTC()
	}

	resp, err := s.bookingSvc.Create(c.Request.Context(), bookingdomain.CreateBookingRequest{
		GuestName:  strings.TrimSpace(req.GuestName),
		GuestEmail: strings.TrimSpace(req.GuestEmail),
		RoomNumber: strings.TrimSpace(req.RoomNumber),
		CheckIn:    checkIn,
		CheckOut:   req.CheckOut,
		TaxExempt:  req.TaxExempt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBookings(c *gin.Context) {
	var query struct {
		PageToken  string `form:"page_token"`
		PageSize   string `form:"page_size"`
		Status     string `form:"status"`
		RoomNumber string `form:"room_number"`
		GuestName  string `form:"guest_name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	pageSize, err := parsePageSize(query.PageSize, 50)
	if err != nil {
		AbortWithError(c, newValidationError("page_size", "invalid_page_size", "invalid page_size"))
		return
	}

	resp, err := s.bookingSvc.List(c.Request.Context(), bookingdomain.ListBookingRequest{
		PageToken:  strings.TrimSpace(query.PageToken),
		PageSize:   pageSize,
		Status:     bookingdomain.BookingStatus(strings.TrimSpace(query.Status)),
		RoomNumber: strings.TrimSpace(query.RoomNumber),
		GuestName:  strings.TrimSpace(query.GuestName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBookingByID(c *gin.Context) {
	resp, err := s.bookingSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateBookingStatus(c *gin.Context) {
	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.UpdateStatus(c.Request.Context(), bookingdomain.UpdateStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: bookingdomain.BookingStatus(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
