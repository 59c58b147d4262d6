package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	bookingdomain "github.com/lodgeops/lodgeops/internal/booking/domain"
	bookingrepository "github.com/lodgeops/lodgeops/internal/booking/repository"
	bookingservice "github.com/lodgeops/lodgeops/internal/booking/service"
	"github.com/lodgeops/lodgeops/internal/charge/domain"
	"github.com/lodgeops/lodgeops/internal/charge/repository"
	"github.com/lodgeops/lodgeops/internal/folio/engine"
	propertydomain "github.com/lodgeops/lodgeops/internal/property/domain"
	"github.com/lodgeops/lodgeops/internal/propertyctx"
	taxdomain "github.com/lodgeops/lodgeops/internal/taxconfig/domain"
	taxrepository "github.com/lodgeops/lodgeops/internal/taxconfig/repository"
	taxservice "github.com/lodgeops/lodgeops/internal/taxconfig/service"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	err = db.AutoMigrate(
		&propertydomain.Property{},
		&bookingdomain.Booking{},
		&taxdomain.TaxSetting{},
		&domain.ServiceCharge{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProperty(t *testing.T, db *gorm.DB, node *snowflake.Node) snowflake.ID {
	t.Helper()
	prop := propertydomain.Property{
		ID:       node.Generate(),
		Name:     "Test Hotel",
		Timezone: "Africa/Lagos",
		Currency: "NGN",
		Metadata: datatypes.JSONMap{},
	}
	if err := db.Create(&prop).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return prop.ID
}

func seedBooking(t *testing.T, db *gorm.DB, node *snowflake.Node, propertyID snowflake.ID, taxExempt bool) bookingdomain.Booking {
	t.Helper()
	booking := bookingdomain.Booking{
		ID:         node.Generate(),
		PropertyID: propertyID,
		GuestName:  "Ada Obi",
		RoomNumber: "204",
		CheckIn:    time.Now().UTC(),
		TaxExempt:  taxExempt,
		Status:     bookingdomain.BookingStatusCheckedIn,
		Metadata:   datatypes.JSONMap{},
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

func seedTaxSetting(t *testing.T, db *gorm.DB, node *snowflake.Node, propertyID snowflake.ID) {
	t.Helper()
	setting := taxdomain.TaxSetting{
		ID:                node.Generate(),
		PropertyID:        propertyID,
		VATRate:           decimal.NewFromFloat(7.5),
		ServiceChargeRate: decimal.NewFromInt(10),
		VATCategories:     datatypes.JSONSlice[string]{"room", "restaurant", "housekeeping", "maintenance", "events", "other"},
		ServiceCategories: datatypes.JSONSlice[string]{"room", "restaurant", "housekeeping", "maintenance", "events", "other"},
		IsEnabled:         true,
	}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("seed tax setting: %v", err)
	}
}

func setupChargeService(t *testing.T, db *gorm.DB, node *snowflake.Node) domain.Service {
	t.Helper()

	bookingSvc := bookingservice.New(bookingservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  bookingrepository.Provide(),
	})
	taxSvc := taxservice.New(taxservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  taxrepository.Provide(),
	})
	return New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repository.Provide(),
		BookingSvc: bookingSvc,
		TaxSvc:     taxSvc,
	})
}

func TestCreateComputesSplitAtChargeTime(t *testing.T) {
	node := mustNode(t)
	db := openTestDB(t)
	propertyID := seedProperty(t, db, node)
	booking := seedBooking(t, db, node, propertyID, false)
	seedTaxSetting(t, db, node, propertyID)

	svc := setupChargeService(t, db, node)
	ctx := propertyctx.WithPropertyID(context.Background(), propertyID)

	charge, err := svc.Create(ctx, domain.CreateChargeRequest{
		BookingID: booking.ID.String(),
		Category:  engine.CategoryRoom,
		Amount:    decimal.NewFromInt(45000),
	})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	if !charge.BaseAmount.Equal(decimal.NewFromInt(45000)) {
		t.Fatalf("base = %s, want 45000", charge.BaseAmount)
	}
	if !charge.VATAmount.Equal(decimal.NewFromInt(3375)) {
		t.Fatalf("vat = %s, want 3375", charge.VATAmount)
	}
	if !charge.ServiceChargeAmount.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("service = %s, want 4500", charge.ServiceChargeAmount)
	}
	if !charge.Amount.Equal(decimal.NewFromInt(52875)) {
		t.Fatalf("amount = %s, want 52875", charge.Amount)
	}
	if charge.Status != domain.ChargeStatusPending {
		t.Fatalf("status = %s, want pending", charge.Status)
	}
}

func TestCreateExemptBookingSkipsVAT(t *testing.T) {
	node := mustNode(t)
	db := openTestDB(t)
	propertyID := seedProperty(t, db, node)
	booking := seedBooking(t, db, node, propertyID, true)
	seedTaxSetting(t, db, node, propertyID)

	svc := setupChargeService(t, db, node)
	ctx := propertyctx.WithPropertyID(context.Background(), propertyID)

	charge, err := svc.Create(ctx, domain.CreateChargeRequest{
		BookingID: booking.ID.String(),
		Category:  engine.CategoryRoom,
		Amount:    decimal.NewFromInt(10000),
	})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	if !charge.VATAmount.IsZero() {
		t.Fatalf("vat = %s, want 0 for exempt guest", charge.VATAmount)
	}
	// Service charge is not a tax and still applies.
	if !charge.ServiceChargeAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("service = %s, want 1000", charge.ServiceChargeAmount)
	}
	if !charge.Amount.Equal(decimal.NewFromInt(11000)) {
		t.Fatalf("amount = %s, want 11000", charge.Amount)
	}
}

func TestCreateWithoutTaxSettingUsesZeroRates(t *testing.T) {
	node := mustNode(t)
	db := openTestDB(t)
	propertyID := seedProperty(t, db, node)
	booking := seedBooking(t, db, node, propertyID, false)

	svc := setupChargeService(t, db, node)
	ctx := propertyctx.WithPropertyID(context.Background(), propertyID)

	charge, err := svc.Create(ctx, domain.CreateChargeRequest{
		BookingID: booking.ID.String(),
		Category:  engine.CategoryRestaurant,
		Amount:    decimal.NewFromInt(2500),
	})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	if !charge.Amount.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("amount = %s, want 2500", charge.Amount)
	}
	if !charge.VATAmount.IsZero() || !charge.ServiceChargeAmount.IsZero() {
		t.Fatalf("split = %s/%s, want zero", charge.VATAmount, charge.ServiceChargeAmount)
	}
	if !charge.BaseAmount.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("base = %s, want 2500", charge.BaseAmount)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	node := mustNode(t)
	db := openTestDB(t)
	propertyID := seedProperty(t, db, node)
	booking := seedBooking(t, db, node, propertyID, false)

	svc := setupChargeService(t, db, node)
	ctx := propertyctx.WithPropertyID(context.Background(), propertyID)

	_, err := svc.Create(ctx, domain.CreateChargeRequest{
		BookingID: booking.ID.String(),
		Category:  "parking",
		Amount:    decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("unknown category: got %v, want ErrInvalidCategory", err)
	}

	_, err = svc.Create(ctx, domain.CreateChargeRequest{
		BookingID: booking.ID.String(),
		Category:  engine.CategoryRoom,
		Amount:    decimal.NewFromInt(-5),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("negative amount: got %v, want ErrInvalidAmount", err)
	}

	_, err = svc.Create(ctx, domain.CreateChargeRequest{
		BookingID: node.Generate().String(),
		Category:  engine.CategoryRoom,
		Amount:    decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrInvalidBooking) {
		t.Fatalf("missing booking: got %v, want ErrInvalidBooking", err)
	}

	_, err = svc.Create(context.Background(), domain.CreateChargeRequest{
		BookingID: booking.ID.String(),
		Category:  engine.CategoryRoom,
		Amount:    decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrInvalidProperty) {
		t.Fatalf("no property in context: got %v, want ErrInvalidProperty", err)
	}
}

func TestCancelledChargeIsFinal(t *testing.T) {
	node := mustNode(t)
	db := openTestDB(t)
	propertyID := seedProperty(t, db, node)
	booking := seedBooking(t, db, node, propertyID, false)

	svc := setupChargeService(t, db, node)
	ctx := propertyctx.WithPropertyID(context.Background(), propertyID)

	charge, err := svc.Create(ctx, domain.CreateChargeRequest{
		BookingID: booking.ID.String(),
		Category:  engine.CategoryEvents,
		Amount:    decimal.NewFromInt(800),
	})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	if _, err := svc.Cancel(ctx, charge.ID.String()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.MarkPaid(ctx, charge.ID.String()); !errors.Is(err, domain.ErrAlreadyFinal) {
		t.Fatalf("mark paid after cancel: got %v, want ErrAlreadyFinal", err)
	}
	if _, err := svc.Cancel(ctx, charge.ID.String()); !errors.Is(err, domain.ErrAlreadyFinal) {
		t.Fatalf("cancel twice: got %v, want ErrAlreadyFinal", err)
	}
}
