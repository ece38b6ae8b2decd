package accounting

import "github.com/shopspring/decimal"

// DividendTotals computes the snapshot amounts stored on a dividend record:
// total = perShare * quantity, net = total - tax clamped at zero.
func DividendTotals(perShare, quantity, tax decimal.Decimal) (total, net decimal.Decimal) {
	total = perShare.Mul(quantity)

	net = total.Sub(tax)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return total, net
}
