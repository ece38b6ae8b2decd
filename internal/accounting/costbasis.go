// Package accounting implements weighted-average cost basis accounting over a
// per-symbol transaction ledger. Replay is pure: it never touches storage and
// is deterministic for the same ordered input.
package accounting

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInsufficientQuantity = errors.New("sell quantity exceeds held quantity")

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Entry is one ledger transaction, already ordered by date then insertion order.
type Entry struct {
	Symbol   string
	Side     Side
	Date     time.Time
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Fee      decimal.Decimal
	Tax      decimal.Decimal
}

// RealizedEvent records the gain locked in by a single sell.
type RealizedEvent struct {
	Symbol       string
	Date         time.Time
	Quantity     decimal.Decimal
	Proceeds     decimal.Decimal
	CostOfSold   decimal.Decimal
	RealizedGain decimal.Decimal
}

// Position is the running state of one symbol. All values keep full precision;
// rounding happens once, at the persistence boundary.
type Position struct {
	Quantity       decimal.Decimal
	AverageCost    decimal.Decimal
	RealizedPL     decimal.Decimal
	RealizedEvents []RealizedEvent
}

// Replay folds the ordered ledger of one symbol into its final position.
// It fails with ErrInsufficientQuantity the moment a sell exceeds the
// quantity held at that point in the sequence.
func Replay(entries []Entry) (Position, error) {
	pos := Position{
		Quantity:    decimal.Zero,
		AverageCost: decimal.Zero,
		RealizedPL:  decimal.Zero,
	}

	for _, e := range entries {
		if err := pos.apply(e); err != nil {
			return Position{}, err
		}
	}

	return pos, nil
}

func (p *Position) apply(e Entry) error {
	switch e.Side {
	case SideBuy:
		p.applyBuy(e)
		return nil
	case SideSell:
		return p.applySell(e)
	default:
		return fmt.Errorf("unknown transaction side %q", e.Side)
	}
}

// applyBuy folds the buy into the weighted average, capitalizing the fee into
// the cost basis.
func (p *Position) applyBuy(e Entry) {
	newQuantity := p.Quantity.Add(e.Quantity)

	heldCost := p.Quantity.Mul(p.AverageCost)
	addedCost := e.Quantity.Mul(e.Price).Add(e.Fee)

	p.AverageCost = heldCost.Add(addedCost).Div(newQuantity)
	p.Quantity = newQuantity
}

// applySell realizes gain against the current average cost. The average cost
// itself is unchanged by a sell; once the position is fully closed it resets
// to zero so a later unrelated buy starts from a fresh basis.
func (p *Position) applySell(e Entry) error {
	if e.Quantity.GreaterThan(p.Quantity) {
		return fmt.Errorf("%s %s: sell %s of %s held: %w",
			e.Symbol, e.Date.Format("2006-01-02"), e.Quantity, p.Quantity, ErrInsufficientQuantity)
	}

	proceeds := e.Quantity.Mul(e.Price).Sub(e.Fee).Sub(e.Tax)
	costOfSold := e.Quantity.Mul(p.AverageCost)
	realizedGain := proceeds.Sub(costOfSold)

	p.RealizedEvents = append(p.RealizedEvents, RealizedEvent{
		Symbol:       e.Symbol,
		Date:         e.Date,
		Quantity:     e.Quantity,
		Proceeds:     proceeds,
		CostOfSold:   costOfSold,
		RealizedGain: realizedGain,
	})

	p.Quantity = p.Quantity.Sub(e.Quantity)
	p.RealizedPL = p.RealizedPL.Add(realizedGain)

	if p.Quantity.IsZero() {
		p.AverageCost = decimal.Zero
	}

	return nil
}
