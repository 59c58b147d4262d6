package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitCharge(id string, cat Category, base, vat, svc float64) Charge {
	b := decimal.NewFromFloat(base)
	v := decimal.NewFromFloat(vat)
	s := decimal.NewFromFloat(svc)
	return Charge{
		ID:       id,
		Category: cat,
		Amount:   b.Add(v).Add(s),
		Base:     b,
		VAT:      v,
		Service:  s,
	}
}

func legacyCharge(id string, cat Category, amount float64) Charge {
	return Charge{
		ID:       id,
		Category: cat,
		Amount:   decimal.NewFromFloat(amount),
		Legacy:   true,
	}
}

func pay(id string, amount float64) Payment {
	return Payment{ID: id, Amount: decimal.NewFromFloat(amount)}
}

func TestReconcile_FullPaymentWithFloatSlop(t *testing.T) {
	charges := []Charge{splitCharge("c1", CategoryRoom, 45000, 3375, 4500)}
	// Gateway-reported amount carries binary float slop.
	payments := []Payment{pay("p1", 52875.00000001)}

	bill, warnings := Reconcile(charges, payments, standardConfig())

	assert.Empty(t, warnings)
	assert.Equal(t, StatusPaid, bill.Status, "slop within epsilon must read as paid, not overpaid")
	assert.True(t, bill.PendingBalance.Abs().LessThan(Epsilon))
}

func TestReconcile_StatusTable(t *testing.T) {
	charges := []Charge{splitCharge("c1", CategoryRoom, 45000, 3375, 4500)}

	cases := []struct {
		name    string
		paid    float64
		status  PaymentStatus
		pending float64
	}{
		{"unpaid", 0, StatusUnpaid, 52875},
		{"partial", 30000, StatusPartial, 22875},
		{"paid", 52875, StatusPaid, 0},
		{"overpaid", 60000, StatusOverpaid, -7125},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var payments []Payment
			if tc.paid > 0 {
				payments = []Payment{pay("p1", tc.paid)}
			}
			bill, warnings := Reconcile(charges, payments, standardConfig())
			assert.Empty(t, warnings)
			assert.Equal(t, tc.status, bill.Status)
			assert.True(t, bill.PendingBalance.Equal(decimal.NewFromFloat(tc.pending)),
				"pending %s", bill.PendingBalance)
		})
	}
}

func TestReconcile_StatusAgreesWithBalance(t *testing.T) {
	charges := []Charge{splitCharge("c1", CategoryRoom, 1000, 75, 100)}

	for _, paid := range []float64{0, 0.004, 500, 1174.995, 1175, 1175.005, 1175.02, 2000} {
		bill, _ := Reconcile(charges, []Payment{pay("p1", paid)}, standardConfig())

		switch bill.Status {
		case StatusPaid:
			assert.True(t, bill.PendingBalance.Abs().LessThan(Epsilon), "paid at %v", paid)
		case StatusOverpaid:
			assert.True(t, bill.PendingBalance.LessThanOrEqual(Epsilon.Neg()), "overpaid at %v", paid)
		case StatusPartial:
			assert.True(t, bill.PendingBalance.GreaterThanOrEqual(Epsilon), "partial at %v", paid)
			assert.True(t, bill.TotalPaid.GreaterThan(Epsilon), "partial at %v", paid)
		case StatusUnpaid:
			assert.True(t, bill.PendingBalance.GreaterThanOrEqual(Epsilon), "unpaid at %v", paid)
			assert.True(t, bill.TotalPaid.LessThanOrEqual(Epsilon), "unpaid at %v", paid)
		}
	}
}

func TestReconcile_LegacyChargeNeverRederived(t *testing.T) {
	// A pre-breakdown charge contributes its whole amount as base even
	// though the current config would tax a room charge.
	charges := []Charge{legacyCharge("c1", CategoryRoom, 5000)}

	bill, warnings := Reconcile(charges, nil, standardConfig())

	assert.Empty(t, warnings)
	assert.True(t, bill.Subtotal.Equal(decimal.NewFromInt(5000)))
	assert.True(t, bill.TaxAmount.IsZero())
	assert.True(t, bill.ServiceCharge.IsZero())
	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(5000)))
}

func TestReconcile_MixedLegacyAndSplit(t *testing.T) {
	charges := []Charge{
		legacyCharge("c1", CategoryRoom, 5000),
		splitCharge("c2", CategoryRoom, 1000, 75, 100),
		splitCharge("c3", CategoryRestaurant, 200, 15, 20),
	}

	bill, warnings := Reconcile(charges, nil, standardConfig())

	assert.Empty(t, warnings)
	assert.True(t, bill.Subtotal.Equal(decimal.NewFromInt(6200)))
	assert.True(t, bill.TaxAmount.Equal(decimal.NewFromInt(90)))
	assert.True(t, bill.ServiceCharge.Equal(decimal.NewFromInt(120)))
	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(6410)))

	require.Len(t, bill.CategoryTotals, 2)
	assert.Equal(t, CategoryRoom, bill.CategoryTotals[0].Category)
	assert.True(t, bill.CategoryTotals[0].Base.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, CategoryRestaurant, bill.CategoryTotals[1].Category)
}

func TestReconcile_Idempotent(t *testing.T) {
	charges := []Charge{
		legacyCharge("c1", CategoryRoom, 5000),
		splitCharge("c2", CategoryRestaurant, 200, 15, 20),
		splitCharge("c3", Category("spa"), 100, 0, 0),
	}
	payments := []Payment{pay("p1", 1000), pay("p2", 250.50)}

	first, firstWarnings := Reconcile(charges, payments, standardConfig())
	second, secondWarnings := Reconcile(charges, payments, standardConfig())

	assert.Equal(t, first, second)
	assert.Equal(t, firstWarnings, secondWarnings)
}

func TestReconcile_NegativeAmountsExcludedWithWarning(t *testing.T) {
	charges := []Charge{
		splitCharge("good", CategoryRoom, 1000, 75, 100),
		legacyCharge("bad", CategoryRoom, -500),
	}
	payments := []Payment{pay("p-good", 100), pay("p-bad", -40)}

	bill, warnings := Reconcile(charges, payments, standardConfig())

	require.Len(t, warnings, 2)
	assert.Equal(t, WarningData, warnings[0].Kind)
	assert.Equal(t, "bad", warnings[0].ChargeID)
	assert.Equal(t, WarningData, warnings[1].Kind)
	assert.Equal(t, "p-bad", warnings[1].PaymentID)

	// One bad record must not corrupt the folio total.
	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(1175)))
	assert.True(t, bill.TotalPaid.Equal(decimal.NewFromInt(100)))
}

func TestReconcile_SplitDisagreementPrefersRawTotal(t *testing.T) {
	// Corrupted split: components sum to 1175 but the recorded amount
	// is 1300. The raw amount is what was actually charged.
	charge := splitCharge("c1", CategoryRoom, 1000, 75, 100)
	charge.Amount = decimal.NewFromInt(1300)

	bill, warnings := Reconcile([]Charge{charge}, nil, standardConfig())

	require.Len(t, warnings, 1)
	assert.Equal(t, WarningReconciliation, warnings[0].Kind)
	assert.True(t, warnings[0].Expected.Equal(decimal.NewFromInt(1300)))
	assert.True(t, warnings[0].Actual.Equal(decimal.NewFromInt(1175)))
	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(1300)))
}

func TestReconcile_ConfigWarningSurfaces(t *testing.T) {
	cfg := standardConfig()
	cfg.ServiceChargeRate = decimal.NewFromInt(-10)

	_, warnings := Reconcile(nil, nil, cfg)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarningConfig, warnings[0].Kind)
	assert.Equal(t, "service_charge_rate", warnings[0].Field)
}

func TestReconcile_EmptyFolio(t *testing.T) {
	bill, warnings := Reconcile(nil, nil, standardConfig())

	assert.Empty(t, warnings)
	assert.Equal(t, StatusPaid, bill.Status, "an empty folio owes nothing")
	assert.True(t, bill.TotalAmount.IsZero())
	assert.Len(t, bill.Breakdown.Items, 3)
}
