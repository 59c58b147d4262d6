package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lodgeops/lodgeops/internal/booking/domain"
	"github.com/lodgeops/lodgeops/internal/clock"
	"github.com/lodgeops/lodgeops/internal/propertyctx"
	"github.com/lodgeops/lodgeops/pkg/db/pagination"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	c := p.Clock
	if c == nil {
		c = &clock.SystemClock{}
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("booking.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: c,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBookingRequest) (domain.Booking, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.Booking{}, domain.ErrInvalidProperty
	}

	guestName := strings.TrimSpace(req.GuestName)
	if guestName == "" {
		return domain.Booking{}, domain.ErrInvalidGuest
	}
	roomNumber := strings.TrimSpace(req.RoomNumber)
	if roomNumber == "" {
		return domain.Booking{}, domain.ErrInvalidRoom
	}

	now := s.clock.Now().UTC()
	checkIn := req.CheckIn
	if checkIn.IsZero() {
		checkIn = now
	}
	booking := domain.Booking{
		ID:         s.genID.Generate(),
		PropertyID: propertyID,
		GuestName:  guestName,
		GuestEmail: strings.TrimSpace(req.GuestEmail),
		RoomNumber: roomNumber,
		CheckIn:    checkIn.UTC(),
		CheckOut:   req.CheckOut,
		TaxExempt:  req.TaxExempt,
		Status:     domain.BookingStatusReserved,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, &booking); err != nil {
		return domain.Booking{}, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("room_number", booking.RoomNumber),
		zap.Bool("tax_exempt", booking.TaxExempt),
	)
	return booking, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBookingRequest) (domain.ListBookingResponse, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.ListBookingResponse{}, domain.ErrInvalidProperty
	}

	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return domain.ListBookingResponse{}, domain.ErrInvalidStatus
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, propertyID, domain.ListBookingFilter{
		Status:     req.Status,
		RoomNumber: strings.TrimSpace(req.RoomNumber),
		GuestName:  strings.TrimSpace(req.GuestName),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListBookingResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(booking *domain.Booking) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        booking.ID.String(),
			CreatedAt: booking.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	bookings := make([]domain.Booking, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bookings = append(bookings, *item)
	}

	resp := domain.ListBookingResponse{Bookings: bookings}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Booking, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.Booking{}, domain.ErrInvalidProperty
	}

	id, err := parseID(rawID)
	if err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.repo.FindByID(ctx, s.db, propertyID, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *booking, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Booking, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.Booking{}, domain.ErrInvalidProperty
	}
	if !domain.ValidStatus(req.Status) {
		return domain.Booking{}, domain.ErrInvalidStatus
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.repo.FindByID(ctx, s.db, propertyID, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}

	now := s.clock.Now().UTC()
	booking.Status = req.Status
	if req.Status == domain.BookingStatusCheckedOut && booking.CheckOut == nil {
		booking.CheckOut = &now
	}
	booking.UpdatedAt = now

	if err := s.repo.UpdateStatus(ctx, s.db, booking); err != nil {
		return domain.Booking{}, err
	}
	return *booking, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
