// file: internals/features/finance/balance/service/ledger_math.go
package service

import (
	"github.com/shopspring/decimal"

	balanceModel "alshuail_backend/internals/features/finance/balance/model"
	subsModel "alshuail_backend/internals/features/finance/subscriptions/model"
)

// Balances are stored as floats but all arithmetic runs through decimals so
// repeated small adjustments cannot drift.

var (
	maxBalanceDec = decimal.NewFromFloat(subsModel.MaxBalance)
	toleranceDec  = decimal.NewFromFloat(0.01)
)

// applyAdjustment computes the new balance for a type. correction is an
// absolute set; everything else is a delta. The result is clamped to the cap.
func applyAdjustment(t balanceModel.AdjustmentType, previous, amount float64) float64 {
	prev := decimal.NewFromFloat(previous)
	amt := decimal.NewFromFloat(amount)

	var next decimal.Decimal
	switch {
	case t.IsAdditive():
		next = prev.Add(amt)
	case t == balanceModel.AdjustmentDebit:
		next = prev.Sub(amt)
	case t == balanceModel.AdjustmentCorrection:
		next = amt
	default:
		next = prev
	}

	return clampBalance(next)
}

// applyYearAdjustment computes the new per-year payment column value.
// Debits floor at zero; corrections set the column outright.
func applyYearAdjustment(t balanceModel.AdjustmentType, current, amount float64) float64 {
	cur := decimal.NewFromFloat(current)
	amt := decimal.NewFromFloat(amount)

	switch {
	case t == balanceModel.AdjustmentCredit || t == balanceModel.AdjustmentYearlyPayment:
		cur = cur.Add(amt)
	case t == balanceModel.AdjustmentDebit:
		cur = cur.Sub(amt)
		if cur.IsNegative() {
			cur = decimal.Zero
		}
	case t == balanceModel.AdjustmentCorrection:
		cur = amt
	}

	f, _ := cur.Float64()
	return f
}

func clampBalance(d decimal.Decimal) float64 {
	if d.GreaterThan(maxBalanceDec) {
		d = maxBalanceDec
	}
	f, _ := d.Float64()
	return f
}

func clampBalanceFloat(v float64) float64 {
	return clampBalance(decimal.NewFromFloat(v))
}

// withinTolerance reports whether two balances agree within 0.01.
func withinTolerance(a, b float64) bool {
	diff := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs()
	return diff.LessThan(toleranceDec)
}
