package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	bookingdomain "github.com/lodgeops/lodgeops/internal/booking/domain"
	"github.com/lodgeops/lodgeops/internal/charge/domain"
	"github.com/lodgeops/lodgeops/internal/folio/engine"
	obsmetrics "github.com/lodgeops/lodgeops/internal/observability/metrics"
	"github.com/lodgeops/lodgeops/internal/propertyctx"
	taxdomain "github.com/lodgeops/lodgeops/internal/taxconfig/domain"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	BookingSvc bookingdomain.Service
	TaxSvc     taxdomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	bookingSvc bookingdomain.Service
	taxSvc     taxdomain.Service
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("charge.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		bookingSvc: p.BookingSvc,
		taxSvc:     p.TaxSvc,
		obsMetrics: p.ObsMetrics,
	}
}

// Create records a new service charge with its tax split computed at
// charge time under the property's active configuration. Historical
// charges keep the split they were created with; rate changes never
// rewrite them.
func (s *Service) Create(ctx context.Context, req domain.CreateChargeRequest) (domain.ServiceCharge, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.ServiceCharge{}, domain.ErrInvalidProperty
	}

	if !domain.ValidCategory(req.Category) {
		return domain.ServiceCharge{}, domain.ErrInvalidCategory
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return domain.ServiceCharge{}, domain.ErrInvalidAmount
	}

	booking, err := s.bookingSvc.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingdomain.ErrNotFound) || errors.Is(err, bookingdomain.ErrInvalidID) {
			return domain.ServiceCharge{}, domain.ErrInvalidBooking
		}
		return domain.ServiceCharge{}, err
	}

	cfg, err := s.resolveTaxConfig(ctx)
	if err != nil {
		return domain.ServiceCharge{}, err
	}

	taxable := true
	if req.Taxable != nil {
		taxable = *req.Taxable
	}
	serviceChargeable := true
	if req.ServiceChargeable != nil {
		serviceChargeable = *req.ServiceChargeable
	}

	breakdown := engine.ComputeBreakdown(engine.BreakdownInput{
		Amount:            req.Amount,
		Category:          req.Category,
		Taxable:           taxable,
		ServiceChargeable: serviceChargeable,
		GuestTaxExempt:    booking.TaxExempt,
	}, cfg)

	now := time.Now().UTC()
	charge := domain.ServiceCharge{
		ID:                  s.genID.Generate(),
		PropertyID:          propertyID,
		BookingID:           booking.ID,
		Category:            req.Category,
		Amount:              breakdown.Total,
		BaseAmount:          breakdown.Items[0].Amount,
		VATAmount:           breakdown.Items[1].Amount,
		ServiceChargeAmount: breakdown.Items[2].Amount,
		Status:              domain.ChargeStatusPending,
		StaffName:           strings.TrimSpace(req.StaffName),
		Description:         strings.TrimSpace(req.Description),
		Metadata:            datatypes.JSONMap{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, s.db, &charge); err != nil {
		return domain.ServiceCharge{}, err
	}

	s.obsMetrics.RecordChargeCreated(ctx, string(charge.Category))
	s.log.Info("service charge created",
		zap.String("charge_id", charge.ID.String()),
		zap.String("booking_id", charge.BookingID.String()),
		zap.String("category", string(charge.Category)),
		zap.String("amount", charge.Amount.String()),
		zap.String("vat_amount", charge.VATAmount.String()),
	)
	return charge, nil
}

func (s *Service) List(ctx context.Context, req domain.ListChargeRequest) ([]domain.ServiceCharge, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return nil, domain.ErrInvalidProperty
	}
	if req.Status != "" && !validChargeStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, s.db, propertyID, req)
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.ServiceCharge, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.ServiceCharge{}, domain.ErrInvalidProperty
	}

	id, err := parseID(rawID)
	if err != nil {
		return domain.ServiceCharge{}, err
	}

	charge, err := s.repo.FindByID(ctx, s.db, propertyID, id)
	if err != nil {
		return domain.ServiceCharge{}, err
	}
	if charge == nil {
		return domain.ServiceCharge{}, domain.ErrNotFound
	}
	return *charge, nil
}

func (s *Service) MarkPaid(ctx context.Context, rawID string) (domain.ServiceCharge, error) {
	return s.transition(ctx, rawID, domain.ChargeStatusPaid)
}

func (s *Service) Cancel(ctx context.Context, rawID string) (domain.ServiceCharge, error) {
	return s.transition(ctx, rawID, domain.ChargeStatusCancelled)
}

func (s *Service) transition(ctx context.Context, rawID string, status domain.ChargeStatus) (domain.ServiceCharge, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return domain.ServiceCharge{}, domain.ErrInvalidProperty
	}

	id, err := parseID(rawID)
	if err != nil {
		return domain.ServiceCharge{}, err
	}

	charge, err := s.repo.FindByID(ctx, s.db, propertyID, id)
	if err != nil {
		return domain.ServiceCharge{}, err
	}
	if charge == nil {
		return domain.ServiceCharge{}, domain.ErrNotFound
	}
	if charge.Status == domain.ChargeStatusCancelled {
		return domain.ServiceCharge{}, domain.ErrAlreadyFinal
	}

	charge.Status = status
	charge.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, s.db, charge); err != nil {
		return domain.ServiceCharge{}, err
	}
	return *charge, nil
}

// resolveTaxConfig is the data layer's fallback policy: a property
// without an active setting charges with zero rates. The engine itself
// is never invoked without an explicit config.
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

func validChargeStatus(status domain.ChargeStatus) bool {
	switch status {
	case domain.ChargeStatusPending, domain.ChargeStatusPaid, domain.ChargeStatusCancelled:
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
