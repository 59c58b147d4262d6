package engine

import "github.com/shopspring/decimal"

// WarningKind classifies a reconciliation anomaly.
type WarningKind string

const (
	// WarningConfig reports a tax rate clamped to zero.
	WarningConfig WarningKind = "config"
	// WarningData reports a charge or payment excluded from the sums.
	WarningData WarningKind = "data"
	// WarningReconciliation reports the split-sum total disagreeing
	// with the sum of raw charge amounts beyond Epsilon.
	WarningReconciliation WarningKind = "reconciliation"
)

// Warning carries an anomaly out of the engine without aborting the
// computation. The caller decides whether to log, count or surface it.
type Warning struct {
	Kind      WarningKind     `json:"kind"`
	Field     string          `json:"field,omitempty"`
	ChargeID  string          `json:"charge_id,omitempty"`
	PaymentID string          `json:"payment_id,omitempty"`
	Message   string          `json:"message"`
	Expected  decimal.Decimal `json:"expected,omitempty"`
	Actual    decimal.Decimal `json:"actual,omitempty"`
}

func configWarning(field string, rate decimal.Decimal) Warning {
	return Warning{
		Kind:    WarningConfig,
		Field:   field,
		Actual:  rate,
		Message: "rate outside [0,100], clamped to 0",
	}
}

func chargeWarning(id, message string, amount decimal.Decimal) Warning {
	return Warning{
		Kind:     WarningData,
		ChargeID: id,
		Actual:   amount,
		Message:  message,
	}
}

func paymentWarning(id, message string, amount decimal.Decimal) Warning {
	return Warning{
		Kind:      WarningData,
		PaymentID: id,
		Actual:    amount,
		Message:   message,
	}
}

func reconciliationWarning(splitTotal, rawTotal decimal.Decimal) Warning {
	return Warning{
		Kind:     WarningReconciliation,
		Expected: rawTotal,
		Actual:   splitTotal,
		Message:  "split totals disagree with sum of charge amounts",
	}
}
