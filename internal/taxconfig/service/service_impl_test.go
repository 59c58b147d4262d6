package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	propertydomain "github.com/lodgeops/lodgeops/internal/property/domain"
	"github.com/lodgeops/lodgeops/internal/propertyctx"
	"github.com/lodgeops/lodgeops/internal/taxconfig/domain"
	"github.com/lodgeops/lodgeops/internal/taxconfig/repository"
)

func setupTaxService(t *testing.T) (domain.Service, snowflake.ID) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&propertydomain.Property{}, &domain.TaxSetting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	propertyID := node.Generate()
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, propertyID
}

func TestCreateAndGetActive(t *testing.T) {
	svc, propertyID := setupTaxService(t)
	ctx := propertyctx.WithPropertyID(context.Background(), propertyID)

	created, err := svc.Create(ctx, domain.CreateRequest{
		VATRate:           decimal.NewFromFloat(7.5),
		ServiceChargeRate: decimal.NewFromInt(10),
		VATCategories:     []string{"room", "restaurant"},
		ServiceCategories: []string{"room"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsEnabled {
		t.Fatal("new setting should be enabled")
	}

	active, err := svc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.ID != created.ID {
		t.Fatalf("active = %s, want %s", active.ID, created.ID)
	}
	if !active.VATRate.Equal(decimal.NewFromFloat(7.5)) {
		t.Fatalf("vat rate = %s, want 7.5", active.VATRate)
	}
}

func TestCreateRejectsInvalidSettings(t *testing.T) {
	svc, propertyID := setupTaxService(t)
	ctx := propertyctx.WithPropertyID(context.Background(), propertyID)

	_, err := svc.Create(ctx, domain.CreateRequest{
		VATRate:           decimal.NewFromInt(120),
		ServiceChargeRate: decimal.NewFromInt(10),
	})
	if !errors.Is(err, domain.ErrInvalidRate) {
		t.Fatalf("rate over 100: got %v, want ErrInvalidRate", err)
	}

	_, err = svc.Create(ctx, domain.CreateRequest{
		VATRate:           decimal.NewFromFloat(7.5),
		ServiceChargeRate: decimal.NewFromInt(10),
		VATCategories:     []string{"casino"},
	})
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("unknown category: got %v, want ErrInvalidCategory", err)
	}

	_, err = svc.Create(context.Background(), domain.CreateRequest{
		VATRate: decimal.NewFromFloat(7.5),
	})
	if !errors.Is(err, domain.ErrInvalidProperty) {
		t.Fatalf("no property: got %v, want ErrInvalidProperty", err)
	}
}

func TestDisableRemovesActiveSetting(t *testing.T) {
	svc, propertyID := setupTaxService(t)
	ctx := propertyctx.WithPropertyID(context.Background(), propertyID)

	created, err := svc.Create(ctx, domain.CreateRequest{
		VATRate:           decimal.NewFromFloat(7.5),
		ServiceChargeRate: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	disabled, err := svc.Disable(ctx, created.ID.String())
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if disabled.IsEnabled {
		t.Fatal("setting should be disabled")
	}

	if _, err := svc.GetActive(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get active after disable: got %v, want ErrNotFound", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	svc, propertyID := setupTaxService(t)
	ctx := propertyctx.WithPropertyID(context.Background(), propertyID)

	created, err := svc.Create(ctx, domain.CreateRequest{
		VATRate:           decimal.NewFromFloat(7.5),
		ServiceChargeRate: decimal.NewFromInt(10),
		VATCategories:     []string{"room"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newRate := decimal.NewFromInt(5)
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:      created.ID.String(),
		VATRate: &newRate,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.VATRate.Equal(newRate) {
		t.Fatalf("vat rate = %s, want 5", updated.VATRate)
	}
	// Untouched fields survive a partial update.
	if !updated.ServiceChargeRate.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("service rate = %s, want 10", updated.ServiceChargeRate)
	}
	if len(updated.VATCategories) != 1 || updated.VATCategories[0] != "room" {
		t.Fatalf("categories = %v, want [room]", updated.VATCategories)
	}
}
