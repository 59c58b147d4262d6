// Package engine implements the tax breakdown and folio reconciliation
// core. Every function is pure: no I/O, no shared state, and no error
// returns. Anomalies surface as Warnings so billing always produces a
// number the front desk can act on.
package engine

import "github.com/shopspring/decimal"

// Epsilon is the tolerance used by every monetary comparison in the
// engine. One minor currency unit absorbs binary float slop introduced
// upstream (payment gateways report float amounts) without masking real
// discrepancies. All status derivation must go through this constant so
// that no two call sites can disagree on what "paid" means.
var Epsilon = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// Category identifies the operational area a charge was raised under.
type Category string

const (
	CategoryRoom         Category = "room"
	CategoryRestaurant   Category = "restaurant"
	CategoryHousekeeping Category = "housekeeping"
	CategoryMaintenance  Category = "maintenance"
	CategoryEvents       Category = "events"
	CategoryOther        Category = "other"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryRoom,
	CategoryRestaurant,
	CategoryHousekeeping,
	CategoryMaintenance,
	CategoryEvents,
	CategoryOther,
}

// TaxConfig is the resolved tax policy for a property. Rates are
// percentages (7.5 means 7.5%). The engine never substitutes defaults;
// callers resolve configuration before invoking it.
type TaxConfig struct {
	VATRate                decimal.Decimal
	ServiceChargeRate      decimal.Decimal
	TaxInclusive           bool
	ServiceChargeInclusive bool
	VATCategories          map[Category]bool
	ServiceCategories      map[Category]bool
}

// ItemType distinguishes the three breakdown slots.
type ItemType string

const (
	ItemBase    ItemType = "base"
	ItemVAT     ItemType = "vat"
	ItemService ItemType = "service"
)

// BreakdownItem is one line of a tax breakdown.
type BreakdownItem struct {
	Type   ItemType        `json:"type"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// BreakdownItems is always the full three-slot sequence; suppression of
// zero lines is a display choice, not the engine's.
type BreakdownItems []BreakdownItem

// Visible returns the items a caller should render. With showZeroRates
// false, VAT and service lines are omitted only when their amount is
// exactly zero. The base line is always shown.
func (items BreakdownItems) Visible(showZeroRates bool) BreakdownItems {
	if showZeroRates {
		return items
	}
	out := make(BreakdownItems, 0, len(items))
	for _, item := range items {
		if item.Type != ItemBase && item.Amount.IsZero() {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Breakdown is the result of splitting a charge into base, VAT and
// service charge portions.
type Breakdown struct {
	Items BreakdownItems  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// BreakdownInput describes a single amount to split.
type BreakdownInput struct {
	Amount            decimal.Decimal
	Category          Category
	Taxable           bool
	ServiceChargeable bool
	GuestTaxExempt    bool
}

// ComputeBreakdown splits an amount into base, VAT and service charge
// lines under the given configuration.
//
// VAT is resolved first: in inclusive mode the tax-exclusive base is
// backed out of the supplied amount, otherwise the amount is the base
// and VAT is added on top. The service charge is then computed against
// that tax-exclusive base, never against the VAT-inclusive amount, so
// the doubly-inclusive case cannot double count.
//
// The function is total: unknown categories and exempt guests simply
// produce zero tax lines. Negative or >100% rates are clamped to zero
// (see TaxConfig.Normalize for the warning-emitting variant).
func ComputeBreakdown(in BreakdownInput, cfg TaxConfig) Breakdown {
	vatRate := clampRate(cfg.VATRate)
	svcRate := clampRate(cfg.ServiceChargeRate)

	vatApplies := !in.GuestTaxExempt && in.Taxable && cfg.VATCategories[in.Category]
	svcApplies := in.ServiceChargeable && cfg.ServiceCategories[in.Category]

	base := in.Amount
	vat := decimal.Zero
	if vatApplies && vatRate.IsPositive() {
		if cfg.TaxInclusive {
			base = in.Amount.Div(decimal.NewFromInt(1).Add(vatRate.Div(hundred)))
			vat = in.Amount.Sub(base)
		} else {
			vat = in.Amount.Mul(vatRate).Div(hundred)
		}
	}

	svc := decimal.Zero
	if svcApplies && svcRate.IsPositive() {
		if cfg.ServiceChargeInclusive {
			exclusive := base.Div(decimal.NewFromInt(1).Add(svcRate.Div(hundred)))
			svc = base.Sub(exclusive)
			base = exclusive
		} else {
			svc = base.Mul(svcRate).Div(hundred)
		}
	}

	return Breakdown{
		Items: BreakdownItems{
			{Type: ItemBase, Label: "Subtotal", Amount: base},
			{Type: ItemVAT, Label: "VAT", Amount: vat},
			{Type: ItemService, Label: "Service Charge", Amount: svc},
		},
		Total: base.Add(vat).Add(svc),
	}
}

// Normalize clamps invalid rates to zero and reports what was clamped.
// A negative tax line must never reach a guest-facing breakdown, so a
// misconfigured rate degrades to "no tax" rather than failing.
func (c TaxConfig) Normalize() (TaxConfig, []Warning) {
	var warnings []Warning
	if invalidRate(c.VATRate) {
		warnings = append(warnings, configWarning("vat_rate", c.VATRate))
		c.VATRate = decimal.Zero
	}
	if invalidRate(c.ServiceChargeRate) {
		warnings = append(warnings, configWarning("service_charge_rate", c.ServiceChargeRate))
		c.ServiceChargeRate = decimal.Zero
	}
	return c, warnings
}

func invalidRate(rate decimal.Decimal) bool {
	return rate.IsNegative() || rate.GreaterThan(hundred)
}

func clampRate(rate decimal.Decimal) decimal.Decimal {
	if invalidRate(rate) {
		return decimal.Zero
	}
	return rate
}
