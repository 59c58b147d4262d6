package engine

import "github.com/shopspring/decimal"

// PaymentStatus is the derived settlement state of a folio.
type PaymentStatus string

const (
	StatusUnpaid   PaymentStatus = "unpaid"
	StatusPartial  PaymentStatus = "partial"
	StatusPaid     PaymentStatus = "paid"
	StatusOverpaid PaymentStatus = "overpaid"
)

// Charge is a billable line as seen by the reconciler. The data layer
// resolves the legacy/split distinction once at ingestion: a charge
// created after per-line breakdowns existed carries Base/VAT/Service,
// a legacy charge has Legacy set and only Amount populated.
type Charge struct {
	ID       string
	Category Category
	Amount   decimal.Decimal
	Base     decimal.Decimal
	VAT      decimal.Decimal
	Service  decimal.Decimal
	Legacy   bool
}

// Payment is a settled amount against the folio. Voided and failed
// payments are filtered out by the data layer before reconciliation.
type Payment struct {
	ID     string
	Amount decimal.Decimal
}

// CategoryTotal is the per-category aggregation of a folio.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Base     decimal.Decimal `json:"base"`
	VAT      decimal.Decimal `json:"vat"`
	Service  decimal.Decimal `json:"service"`
	Amount   decimal.Decimal `json:"amount"`
}

// Bill is the reconciled folio balance.
type Bill struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ServiceCharge  decimal.Decimal `json:"service_charge"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	Status         PaymentStatus   `json:"status"`
	CategoryTotals []CategoryTotal `json:"category_totals"`
	Breakdown      Breakdown       `json:"breakdown"`
}

// Reconcile aggregates charges and payments into a Bill.
//
// Legacy charges contribute their whole amount as base and are never
// pushed back through ComputeBreakdown: tax was either applied or
// intentionally exempted when they were raised, and re-deriving it would
// apply current rates to historical charges.
//
// The split-sum total is cross-checked against the sum of raw amounts;
// if they disagree beyond Epsilon the raw sum wins (it is what was
// actually charged) and a reconciliation warning is emitted.
//
// Deterministic for identical inputs: category groups accumulate in the
// fixed Categories order, unknown categories in first-seen order.
func Reconcile(charges []Charge, payments []Payment, cfg TaxConfig) (Bill, []Warning) {
	// The aggregate path never re-derives tax, so rates are only
	// validated here for their warnings.
	_, warnings := cfg.Normalize()

	groups := make(map[Category]*CategoryTotal)
	var order []Category

	group := func(cat Category) *CategoryTotal {
		if g, ok := groups[cat]; ok {
			return g
		}
		g := &CategoryTotal{
			Category: cat,
			Base:     decimal.Zero,
			VAT:      decimal.Zero,
			Service:  decimal.Zero,
			Amount:   decimal.Zero,
		}
		groups[cat] = g
		order = append(order, cat)
		return g
	}

	for _, charge := range charges {
		if charge.Amount.IsNegative() {
			warnings = append(warnings, chargeWarning(charge.ID, "negative charge amount excluded", charge.Amount))
			continue
		}
		g := group(charge.Category)
		g.Amount = g.Amount.Add(charge.Amount)
		if charge.Legacy {
			// Whole amount as base, zero tax: the backward
			// compatibility rule for pre-breakdown charges.
			g.Base = g.Base.Add(charge.Amount)
			continue
		}
		if charge.Base.IsNegative() || charge.VAT.IsNegative() || charge.Service.IsNegative() {
			warnings = append(warnings, chargeWarning(charge.ID, "negative split component, treated as base-only", charge.Amount))
			g.Base = g.Base.Add(charge.Amount)
			continue
		}
		g.Base = g.Base.Add(charge.Base)
		g.VAT = g.VAT.Add(charge.VAT)
		g.Service = g.Service.Add(charge.Service)
	}

	subtotal := decimal.Zero
	vatTotal := decimal.Zero
	svcTotal := decimal.Zero
	rawTotal := decimal.Zero
	totals := make([]CategoryTotal, 0, len(groups))
	for _, cat := range orderedCategories(order) {
		g := groups[cat]
		subtotal = subtotal.Add(g.Base)
		vatTotal = vatTotal.Add(g.VAT)
		svcTotal = svcTotal.Add(g.Service)
		rawTotal = rawTotal.Add(g.Amount)
		totals = append(totals, *g)
	}

	splitTotal := subtotal.Add(vatTotal).Add(svcTotal)
	total := rawTotal
	if splitTotal.Sub(rawTotal).Abs().GreaterThan(Epsilon) {
		warnings = append(warnings, reconciliationWarning(splitTotal, rawTotal))
	}

	paid := decimal.Zero
	for _, payment := range payments {
		if payment.Amount.IsNegative() {
			warnings = append(warnings, paymentWarning(payment.ID, "negative payment amount excluded", payment.Amount))
			continue
		}
		paid = paid.Add(payment.Amount)
	}

	pending := total.Sub(paid)

	bill := Bill{
		Subtotal:       subtotal,
		TaxAmount:      vatTotal,
		ServiceCharge:  svcTotal,
		TotalAmount:    total,
		TotalPaid:      paid,
		PendingBalance: pending,
		Status:         deriveStatus(pending, paid),
		CategoryTotals: totals,
		Breakdown: Breakdown{
			Items: BreakdownItems{
				{Type: ItemBase, Label: "Subtotal", Amount: subtotal},
				{Type: ItemVAT, Label: "VAT", Amount: vatTotal},
				{Type: ItemService, Label: "Service Charge", Amount: svcTotal},
			},
			Total: total,
		},
	}
	return bill, warnings
}

// deriveStatus maps a signed pending balance onto a settlement state.
// Every comparison uses Epsilon: an exact payment arriving with float
// slop must read as paid, not partial or overpaid.
func deriveStatus(pending, paid decimal.Decimal) PaymentStatus {
	switch {
	case pending.Abs().LessThan(Epsilon):
		return StatusPaid
	case pending.GreaterThanOrEqual(Epsilon):
		if paid.GreaterThan(Epsilon) {
			return StatusPartial
		}
		return StatusUnpaid
	default:
		return StatusOverpaid
	}
}

// orderedCategories returns seen categories in the fixed display order,
// with unknown ones appended in first-seen order.
func orderedCategories(seen []Category) []Category {
	known := make(map[Category]bool, len(Categories))
	for _, cat := range Categories {
		known[cat] = true
	}
	inSeen := make(map[Category]bool, len(seen))
	for _, cat := range seen {
		inSeen[cat] = true
	}
	out := make([]Category, 0, len(seen))
	for _, cat := range Categories {
		if inSeen[cat] {
			out = append(out, cat)
		}
	}
	for _, cat := range seen {
		if !known[cat] {
			out = append(out, cat)
		}
	}
	return out
}
