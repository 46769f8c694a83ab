package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestEffectivePrice(t *testing.T) {
	testcases := []struct {
		name      string
		price     string
		compareAt *string
		want      string
	}{
		{name: "no compare-at price", price: "100", compareAt: nil, want: "100"},
		{name: "compare-at above price", price: "100", compareAt: strPtr("150"), want: "100"},
		{name: "compare-at below price", price: "150", compareAt: strPtr("100"), want: "100"},
		{name: "compare-at equals price", price: "100", compareAt: strPtr("100"), want: "100"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var compareAt *decimal.Decimal
			if tc.compareAt != nil {
				compareAt = decPtr(*tc.compareAt)
			}
			got := EffectivePrice(dec(tc.price), compareAt)
			assert.True(t, got.Equal(dec(tc.want)), "got %s", got)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 33, DiscountPercent(dec("150"), dec("100")))
	assert.Equal(t, 50, DiscountPercent(dec("200"), dec("100")))
	assert.Equal(t, 0, DiscountPercent(dec("0"), dec("0")))
	assert.Equal(t, 10, DiscountPercent(dec("1000"), dec("900")))
}

func TestAggregateEmptyCart(t *testing.T) {
	res := Aggregate(nil, Options{})

	assert.Empty(t, res.Lines)
	assert.Empty(t, res.Currencies)
	assert.True(t, res.DeliveryTotal.IsZero())
	assert.False(t, res.DeliveryPending)
}

func TestAggregateMixedCurrencyMultiSeller(t *testing.T) {
	sellerA := uuid.New()
	sellerB := uuid.New()

	lines := []Line{
		{
			ProductID: uuid.New(),
			SellerID:  sellerA,
			Quantity:  2,
			UnitPrice: dec("100"),
			Currency:  "AFN",
		},
		{
			ProductID: uuid.New(),
			SellerID:  sellerB,
			Quantity:  1,
			UnitPrice: dec("50"),
			Currency:  "USD",
			// delivery options exist, none chosen
			HasDeliveryOptions: true,
		},
	}

	res := Aggregate(lines, Options{})

	require.Len(t, res.Currencies, 2)
	assert.Equal(t, "AFN", res.Currencies[0].Currency)
	assert.True(t, res.Currencies[0].ProductSubtotal.Equal(dec("200")))
	assert.Equal(t, "USD", res.Currencies[1].Currency)
	assert.True(t, res.Currencies[1].ProductSubtotal.Equal(dec("50")))

	// delivery flagged pending selection, not reported as zero
	assert.True(t, res.DeliveryPending)
	assert.True(t, res.DeliveryTotal.IsZero())
}

func TestAggregateDeliveryResolution(t *testing.T) {
	seller := uuid.New()

	lines := []Line{
		{
			// selected option overrides the flat fee
			ProductID:             uuid.New(),
			SellerID:              seller,
			Quantity:              1,
			UnitPrice:             dec("500"),
			Currency:              "AFN",
			LegacyDeliveryFee:     dec("100"),
			HasDeliveryOptions:    true,
			SelectedDeliveryPrice: decPtr("80"),
		},
		{
			// no options: legacy flat fee applies
			ProductID:         uuid.New(),
			SellerID:          seller,
			Quantity:          1,
			UnitPrice:         dec("300"),
			Currency:          "AFN",
			LegacyDeliveryFee: dec("50"),
		},
	}

	res := Aggregate(lines, Options{})

	assert.False(t, res.DeliveryPending)
	assert.True(t, res.DeliveryTotal.Equal(dec("130")), "got %s", res.DeliveryTotal)

	require.Len(t, res.Currencies, 1)
	group := res.Currencies[0]
	assert.Equal(t, "AFN", group.Currency)
	assert.True(t, group.ProductSubtotal.Equal(dec("800")))
	// delivery attaches to the settlement currency
	assert.True(t, group.GrandTotal.Equal(dec("930")), "got %s", group.GrandTotal)

	require.Len(t, group.Sellers, 1)
	assert.True(t, group.Sellers[0].DeliveryCharge.Equal(dec("130")))
}

func TestAggregateDeliveryAttachesToSettlementOnly(t *testing.T) {
	lines := []Line{
		{
			ProductID:         uuid.New(),
			SellerID:          uuid.New(),
			Quantity:          1,
			UnitPrice:         dec("40"),
			Currency:          "USD",
			LegacyDeliveryFee: dec("200"),
		},
	}

	res := Aggregate(lines, Options{SettlementCurrency: "AFN"})

	// a settlement-currency group is created to carry delivery even
	// though no product is priced in it
	require.Len(t, res.Currencies, 2)
	assert.Equal(t, "AFN", res.Currencies[0].Currency)
	assert.True(t, res.Currencies[0].ProductSubtotal.IsZero())
	assert.True(t, res.Currencies[0].GrandTotal.Equal(dec("200")))

	assert.Equal(t, "USD", res.Currencies[1].Currency)
	assert.True(t, res.Currencies[1].GrandTotal.Equal(dec("40")))
}

func TestAggregateDiscountBreakdown(t *testing.T) {
	lines := []Line{
		{
			ProductID:      uuid.New(),
			SellerID:       uuid.New(),
			Quantity:       3,
			UnitPrice:      dec("150"),
			CompareAtPrice: decPtr("100"),
			Currency:       "AFN",
		},
	}

	res := Aggregate(lines, Options{})

	require.Len(t, res.Lines, 1)
	bd := res.Lines[0]
	assert.True(t, bd.EffectivePrice.Equal(dec("100")))
	require.NotNil(t, bd.OriginalPrice)
	assert.True(t, bd.OriginalPrice.Equal(dec("150")))
	assert.Equal(t, 33, bd.DiscountPercent)
	assert.True(t, bd.ItemTotal.Equal(dec("300")))
}

func TestAggregateSubtotalInvariant(t *testing.T) {
	sellers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	lines := []Line{
		{ProductID: uuid.New(), SellerID: sellers[0], Quantity: 2, UnitPrice: dec("10.50"), Currency: "AFN"},
		{ProductID: uuid.New(), SellerID: sellers[1], Quantity: 1, UnitPrice: dec("99.99"), Currency: "AFN"},
		{ProductID: uuid.New(), SellerID: sellers[1], Quantity: 4, UnitPrice: dec("7"), Currency: "USD"},
		{ProductID: uuid.New(), SellerID: sellers[2], Quantity: 1, UnitPrice: dec("1200"), CompareAtPrice: decPtr("1000"), Currency: "AFN"},
	}

	res := Aggregate(lines, Options{})

	itemSum := decimal.Zero
	for _, bd := range res.Lines {
		itemSum = itemSum.Add(bd.ItemTotal)
	}
	groupSum := decimal.Zero
	for _, group := range res.Currencies {
		for _, sg := range group.Sellers {
			groupSum = groupSum.Add(sg.ProductSubtotal)
		}
	}
	assert.True(t, itemSum.Equal(groupSum), "item sum %s, group sum %s", itemSum, groupSum)
}

func TestAggregateIdempotent(t *testing.T) {
	lines := []Line{
		{ProductID: uuid.New(), SellerID: uuid.New(), Quantity: 2, UnitPrice: dec("100"), Currency: "AFN", LegacyDeliveryFee: dec("50")},
		{ProductID: uuid.New(), SellerID: uuid.New(), Quantity: 1, UnitPrice: dec("50"), Currency: "USD"},
	}

	first := Aggregate(lines, Options{})
	second := Aggregate(lines, Options{})

	assert.Equal(t, first, second)
}

func TestAggregateUSDEquivalentDisplayOnly(t *testing.T) {
	lines := []Line{
		{ProductID: uuid.New(), SellerID: uuid.New(), Quantity: 1, UnitPrice: dec("7000"), Currency: "AFN"},
		{ProductID: uuid.New(), SellerID: uuid.New(), Quantity: 1, UnitPrice: dec("30"), Currency: "USD"},
	}

	rate := dec("70")
	res := Aggregate(lines, Options{USDRate: &rate})

	require.Len(t, res.Currencies, 2)
	afn := res.Currencies[0]
	require.NotNil(t, afn.USDEquivalent)
	assert.True(t, afn.USDEquivalent.Equal(dec("100")), "got %s", afn.USDEquivalent)
	// grand total itself is untouched by conversion
	assert.True(t, afn.GrandTotal.Equal(dec("7000")))

	// non-settlement groups carry no equivalent
	assert.Nil(t, res.Currencies[1].USDEquivalent)
}
