// Package pricing computes cart and order totals. Products are priced in
// their own currency while delivery is always charged in a single
// settlement currency, so totals are grouped per currency and, within a
// currency, per seller. Everything here is pure: callers fetch the cart
// lines, aggregate, and persist or render the result.
package pricing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSettlementCurrency is the currency delivery fees and payment
// capture are expressed in unless configured otherwise.
const DefaultSettlementCurrency = "AFN"

// Line is one cart line joined with its product snapshot.
type Line struct {
	ProductID      uuid.UUID
	SellerID       uuid.UUID
	Quantity       int
	UnitPrice      decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Currency       string

	// LegacyDeliveryFee is the product's flat fee in the settlement
	// currency, used only when the product offers no delivery options.
	LegacyDeliveryFee decimal.Decimal
	// HasDeliveryOptions reports whether the product offers delivery
	// options the buyer must choose from.
	HasDeliveryOptions bool
	// SelectedDeliveryPrice is the chosen option's settlement-currency
	// price, nil when no option was selected.
	SelectedDeliveryPrice *decimal.Decimal
}

// Options control settlement and display conversion.
type Options struct {
	// SettlementCurrency tags the currency delivery charges attach to.
	// Empty means DefaultSettlementCurrency.
	SettlementCurrency string
	// USDRate is the number of settlement-currency units per US dollar.
	// When set, settlement-currency grand totals carry a display-only
	// USD equivalent. Never used for settlement.
	USDRate *decimal.Decimal
}

// LineBreakdown is the priced projection of one line.
type LineBreakdown struct {
	ProductID       uuid.UUID
	SellerID        uuid.UUID
	Currency        string
	Quantity        int
	EffectivePrice  decimal.Decimal
	OriginalPrice   *decimal.Decimal
	DiscountPercent int
	ItemTotal       decimal.Decimal
	DeliveryCharge  *decimal.Decimal
	DeliveryPending bool
}

// SellerGroup accumulates one seller's lines within a currency group.
type SellerGroup struct {
	SellerID        uuid.UUID
	ProductSubtotal decimal.Decimal
	DeliveryCharge  decimal.Decimal
	DeliveryPending bool
}

// CurrencyGroup accumulates all lines priced in one currency.
type CurrencyGroup struct {
	Currency        string
	ProductSubtotal decimal.Decimal
	// GrandTotal is the product subtotal plus, for the settlement
	// currency only, the delivery total.
	GrandTotal    decimal.Decimal
	USDEquivalent *decimal.Decimal
	Sellers       []SellerGroup
}

// Result is the full aggregation of a cart.
type Result struct {
	Lines      []LineBreakdown
	Currencies []CurrencyGroup
	// DeliveryTotal sums resolved delivery charges, settlement currency.
	DeliveryTotal decimal.Decimal
	// DeliveryPending is true when at least one line still needs a
	// delivery option chosen; the delivery section must then prompt the
	// buyer instead of showing zero.
	DeliveryPending bool
}

// EffectivePrice returns the lower of price and compare-at price. The
// catalog stores the discounted value in either column, so the lower one
// is always what the buyer pays.
func EffectivePrice(price decimal.Decimal, compareAt *decimal.Decimal) decimal.Decimal {
	if compareAt != nil && compareAt.LessThan(price) {
		return *compareAt
	}
	return price
}

// DiscountPercent returns the rounded percentage saved between the
// original and effective price, zero when original is not positive.
func DiscountPercent(original, effective decimal.Decimal) int {
	if !original.IsPositive() {
		return 0
	}
	pct := original.Sub(effective).
		Div(original).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return int(pct.IntPart())
}

// Aggregate prices a cart. It does not validate quantities; callers
// guarantee every line has quantity >= 1. Inputs are not mutated and the
// result is deterministic for identical inputs.
func Aggregate(lines []Line, opts Options) Result {
	settlement := opts.SettlementCurrency
	if settlement == "" {
		settlement = DefaultSettlementCurrency
	}

	res := Result{
		Lines:         make([]LineBreakdown, 0, len(lines)),
		DeliveryTotal: decimal.Zero,
	}

	type sellerKey struct {
		currency string
		seller   uuid.UUID
	}
	currencyTotals := make(map[string]decimal.Decimal)
	sellerGroups := make(map[sellerKey]*SellerGroup)

	for _, line := range lines {
		bd := LineBreakdown{
			ProductID:      line.ProductID,
			SellerID:       line.SellerID,
			Currency:       line.Currency,
			Quantity:       line.Quantity,
			EffectivePrice: EffectivePrice(line.UnitPrice, line.CompareAtPrice),
		}
		if line.CompareAtPrice != nil && !line.CompareAtPrice.Equal(line.UnitPrice) {
			original := decimal.Max(line.UnitPrice, *line.CompareAtPrice)
			bd.OriginalPrice = &original
			bd.DiscountPercent = DiscountPercent(original, bd.EffectivePrice)
		}
		bd.ItemTotal = bd.EffectivePrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

		switch {
		case line.SelectedDeliveryPrice != nil:
			charge := *line.SelectedDeliveryPrice
			bd.DeliveryCharge = &charge
		case line.HasDeliveryOptions:
			// Options exist but none chosen: the buyer must pick one
			// before delivery can be priced.
			bd.DeliveryPending = true
		default:
			charge := line.LegacyDeliveryFee
			bd.DeliveryCharge = &charge
		}

		currencyTotals[line.Currency] = currencyTotals[line.Currency].Add(bd.ItemTotal)

		key := sellerKey{currency: line.Currency, seller: line.SellerID}
		grp, ok := sellerGroups[key]
		if !ok {
			grp = &SellerGroup{SellerID: line.SellerID}
			sellerGroups[key] = grp
		}
		grp.ProductSubtotal = grp.ProductSubtotal.Add(bd.ItemTotal)
		if bd.DeliveryCharge != nil {
			grp.DeliveryCharge = grp.DeliveryCharge.Add(*bd.DeliveryCharge)
			res.DeliveryTotal = res.DeliveryTotal.Add(*bd.DeliveryCharge)
		}
		if bd.DeliveryPending {
			grp.DeliveryPending = true
			res.DeliveryPending = true
		}

		res.Lines = append(res.Lines, bd)
	}

	// Delivery charges attach to the settlement currency even when no
	// product is priced in it.
	if res.DeliveryTotal.IsPositive() {
		if _, ok := currencyTotals[settlement]; !ok {
			currencyTotals[settlement] = decimal.Zero
		}
	}

	currencies := make([]string, 0, len(currencyTotals))
	for currency := range currencyTotals {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	res.Currencies = make([]CurrencyGroup, 0, len(currencies))
	for _, currency := range currencies {
		group := CurrencyGroup{
			Currency:        currency,
			ProductSubtotal: currencyTotals[currency],
			GrandTotal:      currencyTotals[currency],
		}
		if currency == settlement {
			group.GrandTotal = group.GrandTotal.Add(res.DeliveryTotal)
		}

		for key, grp := range sellerGroups {
			if key.currency == currency {
				group.Sellers = append(group.Sellers, *grp)
			}
		}
		sort.Slice(group.Sellers, func(i, j int) bool {
			return group.Sellers[i].SellerID.String() < group.Sellers[j].SellerID.String()
		})

		if opts.USDRate != nil && opts.USDRate.IsPositive() && currency == settlement {
			usd := group.GrandTotal.Div(*opts.USDRate).Round(2)
			group.USDEquivalent = &usd
		}

		res.Currencies = append(res.Currencies, group)
	}

	return res
}
