package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lodgeops/lodgeops/internal/propertyctx"
	"github.com/lodgeops/lodgeops/internal/taxconfig/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("taxconfig.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) GetActive(ctx context.Context) (*domain.TaxSetting, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return nil, domain.ErrInvalidProperty
	}

	setting, err := s.repo.FindActive(ctx, s.db, propertyID)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, domain.ErrNotFound
	}
	return setting, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.TaxSetting, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return nil, domain.ErrInvalidProperty
	}
	return s.repo.List(ctx, s.db, propertyID, req)
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.TaxSetting, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return nil, domain.ErrInvalidProperty
	}

	now := time.Now().UTC()
	setting := domain.TaxSetting{
		ID:                     s.genID.Generate(),
		PropertyID:             propertyID,
		VATRate:                req.VATRate,
		ServiceChargeRate:      req.ServiceChargeRate,
		TaxInclusive:           req.TaxInclusive,
		ServiceChargeInclusive: req.ServiceChargeInclusive,
		VATCategories:          req.VATCategories,
		ServiceCategories:      req.ServiceCategories,
		IsEnabled:              true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := setting.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, s.db, &setting); err != nil {
		return nil, err
	}

	s.log.Info("tax setting created",
		zap.String("tax_setting_id", setting.ID.String()),
		zap.String("vat_rate", setting.VATRate.String()),
		zap.String("service_charge_rate", setting.ServiceChargeRate.String()),
	)
	return &setting, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.TaxSetting, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return nil, domain.ErrInvalidProperty
	}

	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	setting, err := s.repo.FindByID(ctx, s.db, propertyID, id)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, domain.ErrNotFound
	}

	if req.VATRate != nil {
		setting.VATRate = *req.VATRate
	}
	if req.ServiceChargeRate != nil {
		setting.ServiceChargeRate = *req.ServiceChargeRate
	}
	if req.TaxInclusive != nil {
		setting.TaxInclusive = *req.TaxInclusive
	}
	if req.ServiceChargeInclusive != nil {
		setting.ServiceChargeInclusive = *req.ServiceChargeInclusive
	}
	if req.VATCategories != nil {
		setting.VATCategories = req.VATCategories
	}
	if req.ServiceCategories != nil {
		setting.ServiceCategories = req.ServiceCategories
	}
	setting.UpdatedAt = time.Now().UTC()

	if err := setting.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, s.db, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *Service) Disable(ctx context.Context, rawID string) (*domain.TaxSetting, error) {
	propertyID, ok := propertyctx.PropertyIDFromContext(ctx)
	if !ok || propertyID == 0 {
		return nil, domain.ErrInvalidProperty
	}

	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	setting, err := s.repo.FindByID(ctx, s.db, propertyID, id)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, domain.ErrNotFound
	}

	setting.IsEnabled = false
	setting.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, setting); err != nil {
		return nil, err
	}

	s.log.Info("tax setting disabled", zap.String("tax_setting_id", setting.ID.String()))
	return setting, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
