package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	bookingdomain "github.com/lodgeops/lodgeops/internal/booking/domain"
	chargedomain "github.com/lodgeops/lodgeops/internal/charge/domain"
	"github.com/lodgeops/lodgeops/internal/clock"
	"github.com/lodgeops/lodgeops/internal/config"
	"github.com/lodgeops/lodgeops/internal/folio/domain"
	"github.com/lodgeops/lodgeops/internal/folio/engine"
	obsmetrics "github.com/lodgeops/lodgeops/internal/observability/metrics"
	paymentdomain "github.com/lodgeops/lodgeops/internal/payment/domain"
	"github.com/lodgeops/lodgeops/internal/propertyctx"
	taxdomain "github.com/lodgeops/lodgeops/internal/taxconfig/domain"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	FolioCfg    *config.FolioConfigHolder
	ChargeRepo  chargedomain.Repository
	PaymentRepo paymentdomain.Repository
	BookingSvc  bookingdomain.Service
	TaxSvc      taxdomain.Service
	Clock       clock.Clock         `optional:"true"`
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	folioCfg    *config.FolioConfigHolder
	chargeRepo  chargedomain.Repository
	paymentRepo paymentdomain.Repository
	bookingSvc  bookingdomain.Service
	taxSvc      taxdomain.Service
	clock       clock.Clock
	obsMetrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	c := p.Clock
	if c == nil {
		c = &clock.SystemClock{}
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("folio.service"),
		folioCfg:    p.FolioCfg,
		chargeRepo:  p.ChargeRepo,
		paymentRepo: p.PaymentRepo,
		bookingSvc:  p.BookingSvc,
		taxSvc:      p.TaxSvc,
		clock:       c,
		obsMetrics:  p.ObsMetrics,
	}
}

// GetFolio recomputes the booking's folio from its charges and payments.
// Nothing is persisted; the bill is always derived from the source rows
// so a correction to a charge or a voided payment shows up immediately.
func (s *Service) GetFolio(ctx context.Context, req domain.FolioRequest) (domain.GuestBill, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.GuestBill{}, domain.ErrInvalidProperty
	}

	booking, err := s.bookingSvc.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingdomain.ErrNotFound) {
			return domain.GuestBill{}, domain.ErrNotFound
		}
		if errors.Is(err, bookingdomain.ErrInvalidID) {
			return domain.GuestBill{}, domain.ErrInvalidID
		}
		return domain.GuestBill{}, err
	}

	charges, err := s.chargeRepo.ListByBooking(ctx, s.db, propertyID, booking.ID)
	if err != nil {
		return domain.GuestBill{}, err
	}
	payments, err := s.paymentRepo.ListByBooking(ctx, s.db, propertyID, booking.ID)
	if err != nil {
		return domain.GuestBill{}, err
	}

	cfg, err := s.resolveTaxConfig(ctx)
	if err != nil {
		return domain.GuestBill{}, err
	}

	bill, warnings := engine.Reconcile(billableCharges(charges), settledPayments(payments), cfg)

	folioCfg := s.folioCfg.Get()
	showZeroRates := folioCfg.ShowZeroRates
	if req.ShowZeroRates != nil {
		showZeroRates = *req.ShowZeroRates
	}

	s.reportWarnings(ctx, booking.ID, warnings, folioCfg.MaxWarningsLogged)
	s.obsMetrics.RecordFolioRecompute(ctx, string(bill.Status))

	credit := decimal.Zero
	if bill.Status == engine.StatusOverpaid {
		credit = bill.PendingBalance.Abs()
	}

	return domain.GuestBill{
		BookingID:   booking.ID,
		GuestName:   booking.GuestName,
		RoomNumber:  booking.RoomNumber,
		Bill:        bill,
		Credit:      credit,
		Currency:    folioCfg.CurrencyCode,
		Lines:       bill.Breakdown.Items.Visible(showZeroRates),
		Charges:     charges,
		Payments:    payments,
		Warnings:    warnings,
		GeneratedAt: s.clock.Now().UTC(),
	}, nil
}

// billableCharges maps stored charges to reconciler input. Cancelled
// charges never reach the engine; pre-split rows are flagged legacy so
// their whole amount counts as base.
func billableCharges(charges []chargedomain.ServiceCharge) []engine.Charge {
	out := make([]engine.Charge, 0, len(charges))
	for _, c := range charges {
		if c.Status == chargedomain.ChargeStatusCancelled {
			continue
		}
		out = append(out, engine.Charge{
			ID:       c.ID.String(),
			Category: c.Category,
			Amount:   c.Amount,
			Base:     c.BaseAmount,
			VAT:      c.VATAmount,
			Service:  c.ServiceChargeAmount,
			Legacy:   c.IsLegacy(),
		})
	}
	return out
}

func settledPayments(payments []paymentdomain.Payment) []engine.Payment {
	out := make([]engine.Payment, 0, len(payments))
	for _, p := range payments {
		if p.Status != paymentdomain.PaymentStatusCompleted {
			continue
		}
		out = append(out, engine.Payment{
			ID:     p.ID.String(),
			Amount: p.Amount,
		})
	}
	return out
}

func (s *Service) resolveTaxConfig(ctx context.Context) (engine.TaxConfig, error) {
	setting, err := s.taxSvc.GetActive(ctx)
	if err != nil {
		if errors.Is(err, taxdomain.ErrNotFound) {
			return engine.TaxConfig{
				VATRate:           decimal.Zero,
				ServiceChargeRate: decimal.Zero,
			}, nil
		}
		return engine.TaxConfig{}, err
	}
	return setting.EngineConfig(), nil
}

func (s *Service) reportWarnings(ctx context.Context, bookingID snowflake.ID, warnings []engine.Warning, logCap int) {
	if len(warnings) == 0 {
		return
	}

	byKind := make(map[engine.WarningKind]int)
	for _, w := range warnings {
		byKind[w.Kind]++
	}
	for kind, count := range byKind {
		s.obsMetrics.RecordFolioWarnings(ctx, string(kind), count)
	}

	logged := 0
	for _, w := range warnings {
		if logCap > 0 && logged >= logCap {
			s.log.Warn("folio warnings truncated",
				zap.String("booking_id", bookingID.String()),
				zap.Int("total", len(warnings)),
			)
			break
		}
		fields := []zap.Field{
			zap.String("booking_id", bookingID.String()),
			zap.String("kind", string(w.Kind)),
			zap.String("message", w.Message),
		}
		if w.ChargeID != "" {
			fields = append(fields, zap.String("charge_id", w.ChargeID))
		}
		if w.Field != "" {
			fields = append(fields, zap.String("field", w.Field))
		}
		s.log.Warn("folio reconciliation warning", fields...)
		logged++
	}
}
