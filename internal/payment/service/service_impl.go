package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	bookingdomain "github.com/lodgeops/lodgeops/internal/booking/domain"
	"github.com/lodgeops/lodgeops/internal/clock"
	obsmetrics "github.com/lodgeops/lodgeops/internal/observability/metrics"
	"github.com/lodgeops/lodgeops/internal/payment/domain"
	"github.com/lodgeops/lodgeops/internal/propertyctx"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	BookingSvc bookingdomain.Service
	Clock      clock.Clock         `optional:"true"`
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	bookingSvc bookingdomain.Service
	clock      clock.Clock
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	c := p.Clock
	if c == nil {
		c = &clock.SystemClock{}
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		bookingSvc: p.BookingSvc,
		clock:      c,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (domain.Payment, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.Payment{}, domain.ErrInvalidProperty
	}

	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	if !domain.ValidMethod(req.Method) {
		return domain.Payment{}, domain.ErrInvalidMethod
	}

	booking, err := s.bookingSvc.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingdomain.ErrNotFound) || errors.Is(err, bookingdomain.ErrInvalidID) {
			return domain.Payment{}, domain.ErrInvalidBooking
		}
		return domain.Payment{}, err
	}

	now := s.clock.Now().UTC()
	receivedAt := now
	if req.ReceivedAt != nil {
		receivedAt = req.ReceivedAt.UTC()
	}

	payment := domain.Payment{
		ID:         s.genID.Generate(),
		PropertyID: propertyID,
		BookingID:  booking.ID,
		Amount:     req.Amount,
		Method:     req.Method,
		Status:     domain.PaymentStatusCompleted,
		Reference:  strings.TrimSpace(req.Reference),
		ReceivedAt: receivedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}

	s.obsMetrics.RecordPaymentRecorded(ctx, string(payment.Method))
	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", payment.BookingID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("method", string(payment.Method)),
	)
	return payment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) ([]domain.Payment, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return nil, domain.ErrInvalidProperty
	}
	if req.Status != "" && !validPaymentStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, s.db, propertyID, req)
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Payment, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.Payment{}, domain.ErrInvalidProperty
	}

	id, err := parseID(rawID)
	if err != nil {
		return domain.Payment{}, err
	}

	payment, err := s.repo.FindByID(ctx, s.db, propertyID, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *payment, nil
}

// Void marks a completed payment as voided. Voided payments stay on
// the books for audit but no longer count toward the folio balance.
func (s *Service) Void(ctx context.Context, rawID string) (domain.Payment, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.Payment{}, domain.ErrInvalidProperty
	}

	id, err := parseID(rawID)
	if err != nil {
		return domain.Payment{}, err
	}

	payment, err := s.repo.FindByID(ctx, s.db, propertyID, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	if payment.Status == domain.PaymentStatusVoided {
		return domain.Payment{}, domain.ErrAlreadyVoided
	}

	payment.Status = domain.PaymentStatusVoided
	payment.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, s.db, payment); err != nil {
		return domain.Payment{}, err
	}

	s.obsMetrics.RecordPaymentVoided(ctx)
	s.log.Info("payment voided",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", payment.BookingID.String()),
	)
	return *payment, nil
}

func validPaymentStatus(status domain.PaymentStatus) bool {
	switch status {
	case domain.PaymentStatusCompleted, domain.PaymentStatusVoided, domain.PaymentStatusFailed:
		return true
	default:
		return false
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
