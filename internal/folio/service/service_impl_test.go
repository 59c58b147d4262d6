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
	chargedomain "github.com/lodgeops/lodgeops/internal/charge/domain"
	chargerepository "github.com/lodgeops/lodgeops/internal/charge/repository"
	chargeservice "github.com/lodgeops/lodgeops/internal/charge/service"
	"github.com/lodgeops/lodgeops/internal/config"
	"github.com/lodgeops/lodgeops/internal/folio/domain"
	"github.com/lodgeops/lodgeops/internal/folio/engine"
	paymentdomain "github.com/lodgeops/lodgeops/internal/payment/domain"
	paymentrepository "github.com/lodgeops/lodgeops/internal/payment/repository"
	paymentservice "github.com/lodgeops/lodgeops/internal/payment/service"
	propertydomain "github.com/lodgeops/lodgeops/internal/property/domain"
	"github.com/lodgeops/lodgeops/internal/propertyctx"
	taxdomain "github.com/lodgeops/lodgeops/internal/taxconfig/domain"
	taxrepository "github.com/lodgeops/lodgeops/internal/taxconfig/repository"
	taxservice "github.com/lodgeops/lodgeops/internal/taxconfig/service"
)

type folioFixture struct {
	db         *gorm.DB
	node       *snowflake.Node
	propertyID snowflake.ID
	booking    bookingdomain.Booking
	chargeSvc  chargedomain.Service
	paymentSvc paymentdomain.Service
	folioSvc   domain.Service
}

func newFolioFixture(t *testing.T, withTaxSetting bool) *folioFixture {
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

	err = db.AutoMigrate(
		&propertydomain.Property{},
		&bookingdomain.Booking{},
		&taxdomain.TaxSetting{},
		&chargedomain.ServiceCharge{},
		&paymentdomain.Payment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

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

	booking := bookingdomain.Booking{
		ID:         node.Generate(),
		PropertyID: prop.ID,
		GuestName:  "Ada Obi",
		RoomNumber: "204",
		CheckIn:    time.Now().UTC(),
		Status:     bookingdomain.BookingStatusCheckedIn,
		Metadata:   datatypes.JSONMap{},
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	if withTaxSetting {
		setting := taxdomain.TaxSetting{
			ID:                node.Generate(),
			PropertyID:        prop.ID,
			VATRate:           decimal.NewFromFloat(7.5),
			ServiceChargeRate: decimal.NewFromInt(10),
			VATCategories:     datatypes.JSONSlice[string]{"room", "restaurant"},
			ServiceCategories: datatypes.JSONSlice[string]{"room", "restaurant"},
			IsEnabled:         true,
		}
		if err := db.Create(&setting).Error; err != nil {
			t.Fatalf("seed tax setting: %v", err)
		}
	}

	log := zap.NewNop()
	bookingSvc := bookingservice.New(bookingservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  bookingrepository.Provide(),
	})
	taxSvc := taxservice.New(taxservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  taxrepository.Provide(),
	})
	chargeSvc := chargeservice.New(chargeservice.Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Repo:       chargerepository.Provide(),
		BookingSvc: bookingSvc,
		TaxSvc:     taxSvc,
	})
	paymentSvc := paymentservice.New(paymentservice.Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Repo:       paymentrepository.Provide(),
		BookingSvc: bookingSvc,
	})
	folioSvc := New(Params{
		DB:          db,
		Log:         log,
		FolioCfg:    &config.FolioConfigHolder{},
		ChargeRepo:  chargerepository.Provide(),
		PaymentRepo: paymentrepository.Provide(),
		BookingSvc:  bookingSvc,
		TaxSvc:      taxSvc,
	})

	return &folioFixture{
		db:         db,
		node:       node,
		propertyID: prop.ID,
		booking:    booking,
		chargeSvc:  chargeSvc,
		paymentSvc: paymentSvc,
		folioSvc:   folioSvc,
	}
}

func (f *folioFixture) ctx() context.Context {
	return propertyctx.WithPropertyID(context.Background(), f.propertyID)
}

func TestGetFolioSettlesWithFullPayment(t *testing.T) {
	f := newFolioFixture(t, true)
	ctx := f.ctx()

	_, err := f.chargeSvc.Create(ctx, chargedomain.CreateChargeRequest{
		BookingID: f.booking.ID.String(),
		Category:  engine.CategoryRoom,
		Amount:    decimal.NewFromInt(45000),
	})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	_, err = f.paymentSvc.Create(ctx, paymentdomain.CreatePaymentRequest{
		BookingID: f.booking.ID.String(),
		Amount:    decimal.NewFromInt(52875),
		Method:    paymentdomain.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	folio, err := f.folioSvc.GetFolio(ctx, domain.FolioRequest{BookingID: f.booking.ID.String()})
	if err != nil {
		t.Fatalf("get folio: %v", err)
	}

	if !folio.Bill.Subtotal.Equal(decimal.NewFromInt(45000)) {
		t.Fatalf("subtotal = %s, want 45000", folio.Bill.Subtotal)
	}
	if !folio.Bill.TaxAmount.Equal(decimal.NewFromInt(3375)) {
		t.Fatalf("tax = %s, want 3375", folio.Bill.TaxAmount)
	}
	if !folio.Bill.ServiceCharge.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("service = %s, want 4500", folio.Bill.ServiceCharge)
	}
	if !folio.Bill.PendingBalance.IsZero() {
		t.Fatalf("pending = %s, want 0", folio.Bill.PendingBalance)
	}
	if folio.Bill.Status != engine.StatusPaid {
		t.Fatalf("status = %s, want paid", folio.Bill.Status)
	}
	if folio.Currency != "NGN" {
		t.Fatalf("currency = %q, want NGN", folio.Currency)
	}
	if len(folio.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", folio.Warnings)
	}
}

func TestGetFolioKeepsLegacyChargeWhole(t *testing.T) {
	f := newFolioFixture(t, true)
	ctx := f.ctx()

	// A row written before split columns existed: no base/vat/service.
	legacy := chargedomain.ServiceCharge{
		ID:         f.node.Generate(),
		PropertyID: f.propertyID,
		BookingID:  f.booking.ID,
		Category:   engine.CategoryRoom,
		Amount:     decimal.NewFromInt(30000),
		Status:     chargedomain.ChargeStatusPending,
		Metadata:   datatypes.JSONMap{},
	}
	if err := f.db.Create(&legacy).Error; err != nil {
		t.Fatalf("seed legacy charge: %v", err)
	}

	folio, err := f.folioSvc.GetFolio(ctx, domain.FolioRequest{BookingID: f.booking.ID.String()})
	if err != nil {
		t.Fatalf("get folio: %v", err)
	}

	// The whole historical amount counts as base; current rates are
	// never applied retroactively.
	if !folio.Bill.Subtotal.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("subtotal = %s, want 30000", folio.Bill.Subtotal)
	}
	if !folio.Bill.TaxAmount.IsZero() {
		t.Fatalf("tax = %s, want 0 for legacy charge", folio.Bill.TaxAmount)
	}
	if !folio.Bill.TotalAmount.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("total = %s, want 30000", folio.Bill.TotalAmount)
	}
}

func TestGetFolioExcludesVoidedPayments(t *testing.T) {
	f := newFolioFixture(t, true)
	ctx := f.ctx()

	_, err := f.chargeSvc.Create(ctx, chargedomain.CreateChargeRequest{
		BookingID: f.booking.ID.String(),
		Category:  engine.CategoryRestaurant,
		Amount:    decimal.NewFromInt(10000),
	})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	payment, err := f.paymentSvc.Create(ctx, paymentdomain.CreatePaymentRequest{
		BookingID: f.booking.ID.String(),
		Amount:    decimal.NewFromInt(11750),
		Method:    paymentdomain.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if _, err := f.paymentSvc.Void(ctx, payment.ID.String()); err != nil {
		t.Fatalf("void payment: %v", err)
	}

	folio, err := f.folioSvc.GetFolio(ctx, domain.FolioRequest{BookingID: f.booking.ID.String()})
	if err != nil {
		t.Fatalf("get folio: %v", err)
	}

	if !folio.Bill.TotalPaid.IsZero() {
		t.Fatalf("paid = %s, want 0 after void", folio.Bill.TotalPaid)
	}
	if folio.Bill.Status != engine.StatusUnpaid {
		t.Fatalf("status = %s, want unpaid", folio.Bill.Status)
	}
	// Voided payments stay on the folio record for audit.
	if len(folio.Payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(folio.Payments))
	}
}

func TestGetFolioOverpaymentShowsCredit(t *testing.T) {
	f := newFolioFixture(t, true)
	ctx := f.ctx()

	_, err := f.chargeSvc.Create(ctx, chargedomain.CreateChargeRequest{
		BookingID: f.booking.ID.String(),
		Category:  engine.CategoryRoom,
		Amount:    decimal.NewFromInt(45000),
	})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	_, err = f.paymentSvc.Create(ctx, paymentdomain.CreatePaymentRequest{
		BookingID: f.booking.ID.String(),
		Amount:    decimal.NewFromInt(60000),
		Method:    paymentdomain.PaymentMethodTransfer,
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	folio, err := f.folioSvc.GetFolio(ctx, domain.FolioRequest{BookingID: f.booking.ID.String()})
	if err != nil {
		t.Fatalf("get folio: %v", err)
	}

	if folio.Bill.Status != engine.StatusOverpaid {
		t.Fatalf("status = %s, want overpaid", folio.Bill.Status)
	}
	if !folio.Bill.PendingBalance.Equal(decimal.NewFromInt(-7125)) {
		t.Fatalf("pending = %s, want -7125", folio.Bill.PendingBalance)
	}
	if !folio.Credit.Equal(decimal.NewFromInt(7125)) {
		t.Fatalf("credit = %s, want 7125", folio.Credit)
	}
}

func TestGetFolioZeroRateLineVisibility(t *testing.T) {
	f := newFolioFixture(t, false)
	ctx := f.ctx()

	_, err := f.chargeSvc.Create(ctx, chargedomain.CreateChargeRequest{
		BookingID: f.booking.ID.String(),
		Category:  engine.CategoryRoom,
		Amount:    decimal.NewFromInt(5000),
	})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	folio, err := f.folioSvc.GetFolio(ctx, domain.FolioRequest{BookingID: f.booking.ID.String()})
	if err != nil {
		t.Fatalf("get folio: %v", err)
	}
	if len(folio.Lines) != 1 || folio.Lines[0].Type != engine.ItemBase {
		t.Fatalf("lines = %v, want base only", folio.Lines)
	}

	show := true
	folio, err = f.folioSvc.GetFolio(ctx, domain.FolioRequest{
		BookingID:     f.booking.ID.String(),
		ShowZeroRates: &show,
	})
	if err != nil {
		t.Fatalf("get folio with zero rates: %v", err)
	}
	if len(folio.Lines) != 3 {
		t.Fatalf("lines = %d, want all three with zero rates shown", len(folio.Lines))
	}
}

func TestGetFolioUnknownBooking(t *testing.T) {
	f := newFolioFixture(t, true)

	_, err := f.folioSvc.GetFolio(f.ctx(), domain.FolioRequest{
		BookingID: f.node.Generate().String(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown booking: got %v, want ErrNotFound", err)
	}

	_, err = f.folioSvc.GetFolio(context.Background(), domain.FolioRequest{
		BookingID: f.booking.ID.String(),
	})
	if !errors.Is(err, domain.ErrInvalidProperty) {
		t.Fatalf("no property: got %v, want ErrInvalidProperty", err)
	}
}
