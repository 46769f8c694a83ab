package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/i18n"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedProduct(t *testing.T, repos *repository.Repositories, p *domain.Product) *domain.Product {
	t.Helper()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = domain.ProductStatusActive
	}
	if p.Currency == "" {
		p.Currency = "AFN"
	}
	require.NoError(t, repos.Products.Create(context.Background(), p))
	return p
}

func TestAddItemValidation(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()

	inactive := seedProduct(t, repos, &domain.Product{
		SellerID: uuid.New(),
		Name:     i18n.Text{Base: "Old lamp"},
		Price:    dec("50"),
		Stock:    10,
		Status:   domain.ProductStatusInactive,
	})
	err := svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: inactive.ID, Quantity: 1})
	var vErr *errors.ErrValidation
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "product_id", vErr.Field)

	lowStock := seedProduct(t, repos, &domain.Product{
		SellerID: uuid.New(),
		Name:     i18n.Text{Base: "Scarf"},
		Price:    dec("20"),
		Stock:    2,
	})
	err = svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: lowStock.ID, Quantity: 3})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quantity", vErr.Field)

	err = svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: uuid.New(), Quantity: 1})
	var nfErr *errors.ErrNotFound
	assert.ErrorAs(t, err, &nfErr)
}

func TestAddItemRejectsForeignDeliveryOption(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()

	product := seedProduct(t, repos, &domain.Product{
		SellerID: uuid.New(),
		Name:     i18n.Text{Base: "Rug"},
		Price:    dec("900"),
		Stock:    5,
	})
	other := seedProduct(t, repos, &domain.Product{
		SellerID: uuid.New(),
		Name:     i18n.Text{Base: "Teapot"},
		Price:    dec("120"),
		Stock:    5,
	})

	option := &domain.DeliveryOption{
		ProductID:     other.ID,
		Label:         i18n.Text{Base: "Express"},
		Price:         dec("80"),
		DeliveryHours: 24,
	}
	require.NoError(t, repos.DeliveryOptions.Create(ctx, option))

	err := svc.AddItem(ctx, buyer, AddToCartRequest{
		ProductID:                product.ID,
		Quantity:                 1,
		SelectedDeliveryOptionID: &option.ID,
	})
	var vErr *errors.ErrValidation
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "selected_delivery_option_id", vErr.Field)
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()

	product := seedProduct(t, repos, &domain.Product{
		SellerID: uuid.New(),
		Name:     i18n.Text{Base: "Hat"},
		Price:    dec("30"),
		Stock:    10,
	})

	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: product.ID, Quantity: 3}))

	view, err := svc.GetCart(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Item.Quantity)
}

func TestAddItemAccumulatesWithoutVariants(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()

	product := seedProduct(t, repos, &domain.Product{
		SellerID: uuid.New(),
		Name:     i18n.Text{Base: "Gloves"},
		Price:    dec("15"),
		Stock:    10,
	})

	// no color/size on the first add, an explicit empty color on the
	// second: both land on the same no-variant line
	empty := ""
	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{
		ProductID:     product.ID,
		Quantity:      2,
		SelectedColor: &empty,
	}))

	view, err := svc.GetCart(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3, view.Lines[0].Item.Quantity)

	// a real variant still gets its own line
	red := "Red"
	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{
		ProductID:     product.ID,
		Quantity:      1,
		SelectedColor: &red,
	}))
	view, err = svc.GetCart(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
}

func TestGetCartGroupsByCurrencyAndSeller(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()
	sellerA := uuid.New()
	sellerB := uuid.New()

	afnProduct := seedProduct(t, repos, &domain.Product{
		SellerID: sellerA,
		Name:     i18n.Text{Base: "Carpet"},
		Price:    dec("100"),
		Currency: "AFN",
		Stock:    10,
	})
	usdProduct := seedProduct(t, repos, &domain.Product{
		SellerID: sellerB,
		Name:     i18n.Text{Base: "Saffron"},
		Price:    dec("50"),
		Currency: "USD",
		Stock:    10,
	})

	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: afnProduct.ID, Quantity: 2}))
	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: usdProduct.ID, Quantity: 1}))

	view, err := svc.GetCart(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, view.Aggregation.Currencies, 2)

	// sorted currency keys: AFN before USD
	afn := view.Aggregation.Currencies[0]
	usd := view.Aggregation.Currencies[1]
	assert.Equal(t, "AFN", afn.Currency)
	assert.True(t, afn.ProductSubtotal.Equal(dec("200")), "got %s", afn.ProductSubtotal)
	assert.Equal(t, "USD", usd.Currency)
	assert.True(t, usd.ProductSubtotal.Equal(dec("50")), "got %s", usd.ProductSubtotal)
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())

	_, err := svc.Checkout(ctx, uuid.New(), CheckoutRequest{
		CustomerName:    "Ahmad",
		ShippingAddress: "Kabul",
	})
	var vErr *errors.ErrValidation
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "cart", vErr.Field)
}

func TestCheckoutRejectsPendingDelivery(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()

	product := seedProduct(t, repos, &domain.Product{
		SellerID: uuid.New(),
		Name:     i18n.Text{Base: "Jacket"},
		Price:    dec("250"),
		Stock:    5,
	})
	// the product offers options, but the buyer never picked one
	require.NoError(t, repos.DeliveryOptions.Create(ctx, &domain.DeliveryOption{
		ProductID:     product.ID,
		Label:         i18n.Text{Base: "Standard"},
		Price:         dec("40"),
		DeliveryHours: 72,
	}))

	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: product.ID, Quantity: 1}))

	_, err := svc.Checkout(ctx, buyer, CheckoutRequest{
		CustomerName:    "Ahmad",
		ShippingAddress: "Kabul",
	})
	var vErr *errors.ErrValidation
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "delivery", vErr.Field)
}

func TestCheckoutCreatesSellerOrdersPerSellerAndCurrency(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()
	sellerA := uuid.New()
	sellerB := uuid.New()

	afnProduct := seedProduct(t, repos, &domain.Product{
		SellerID:    sellerA,
		Name:        i18n.Text{Base: "Carpet"},
		Price:       dec("100"),
		Currency:    "AFN",
		DeliveryFee: dec("50"),
		Stock:       10,
	})
	usdProduct := seedProduct(t, repos, &domain.Product{
		SellerID: sellerB,
		Name:     i18n.Text{Base: "Saffron"},
		Price:    dec("50"),
		Currency: "USD",
		Stock:    10,
	})

	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: afnProduct.ID, Quantity: 2}))
	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: usdProduct.ID, Quantity: 1}))

	view, err := svc.Checkout(ctx, buyer, CheckoutRequest{
		CustomerName:    "Ahmad",
		CustomerPhone:   "+93700000000",
		ShippingAddress: "Kabul",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, view.Order.Status)
	assert.True(t, view.Order.DeliveryTotal.Equal(dec("50")), "got %s", view.Order.DeliveryTotal)

	require.Len(t, view.SellerOrders, 2)
	byCurrency := make(map[string]*domain.SellerOrder)
	for _, so := range view.SellerOrders {
		assert.Equal(t, domain.OrderStatusPending, so.Status)
		byCurrency[so.Currency] = so
	}
	require.Contains(t, byCurrency, "AFN")
	require.Contains(t, byCurrency, "USD")
	assert.Equal(t, sellerA, byCurrency["AFN"].SellerID)
	assert.True(t, byCurrency["AFN"].Subtotal.Equal(dec("200")))
	assert.True(t, byCurrency["AFN"].DeliveryCharge.Equal(dec("50")))
	assert.Equal(t, sellerB, byCurrency["USD"].SellerID)
	assert.True(t, byCurrency["USD"].Subtotal.Equal(dec("50")))

	// line snapshots carry the unit price and link back to their sub-order
	require.Len(t, view.Items, 2)
	for _, item := range view.Items {
		assert.Equal(t, view.Order.ID, item.OrderID)
		assert.NotEqual(t, uuid.Nil, item.SellerOrderID)
	}

	// stock was decremented and the cart emptied
	restocked, err := repos.Products.GetByID(ctx, afnProduct.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, restocked.Stock)

	cartView, err := svc.GetCart(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, cartView.Lines)

	events, err := repos.OrderEvents.ListByOrderID(ctx, view.Order.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "order_created", events[0].EventType)
}

func TestCheckoutSameSellerTwoCurrencies(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()
	seller := uuid.New()

	afnProduct := seedProduct(t, repos, &domain.Product{
		SellerID: seller,
		Name:     i18n.Text{Base: "Bowl"},
		Price:    dec("75"),
		Currency: "AFN",
		Stock:    10,
	})
	usdProduct := seedProduct(t, repos, &domain.Product{
		SellerID: seller,
		Name:     i18n.Text{Base: "Dried fruit"},
		Price:    dec("12"),
		Currency: "USD",
		Stock:    10,
	})

	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: afnProduct.ID, Quantity: 1}))
	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: usdProduct.ID, Quantity: 1}))

	view, err := svc.Checkout(ctx, buyer, CheckoutRequest{
		CustomerName:    "Ahmad",
		ShippingAddress: "Herat",
	})
	require.NoError(t, err)

	// one sub-order per currency even for a single seller
	require.Len(t, view.SellerOrders, 2)
	currencies := map[string]bool{}
	for _, so := range view.SellerOrders {
		assert.Equal(t, seller, so.SellerID)
		currencies[so.Currency] = true
	}
	assert.True(t, currencies["AFN"])
	assert.True(t, currencies["USD"])
}

func TestCheckoutUsesSelectedDeliveryOption(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()

	product := seedProduct(t, repos, &domain.Product{
		SellerID:    uuid.New(),
		Name:        i18n.Text{Base: "Lantern"},
		Price:       dec("300"),
		Currency:    "AFN",
		DeliveryFee: dec("999"), // legacy fee must be ignored once options exist
		Stock:       5,
	})
	option := &domain.DeliveryOption{
		ProductID:     product.ID,
		Label:         i18n.Text{Base: "Express"},
		Price:         dec("80"),
		DeliveryHours: 24,
	}
	require.NoError(t, repos.DeliveryOptions.Create(ctx, option))

	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{
		ProductID:                product.ID,
		Quantity:                 1,
		SelectedDeliveryOptionID: &option.ID,
	}))

	view, err := svc.Checkout(ctx, buyer, CheckoutRequest{
		CustomerName:    "Ahmad",
		ShippingAddress: "Kabul",
	})
	require.NoError(t, err)
	assert.True(t, view.Order.DeliveryTotal.Equal(dec("80")), "got %s", view.Order.DeliveryTotal)
}

type failingEventRepo struct{}

func (failingEventRepo) Create(context.Context, *domain.OrderEvent) error {
	return fmt.Errorf("event store unavailable")
}

func (failingEventRepo) ListByOrderID(context.Context, uuid.UUID) ([]*domain.OrderEvent, error) {
	return nil, nil
}

func TestCheckoutSurvivesEventWriteFailure(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	repos.OrderEvents = failingEventRepo{}
	svc := NewCartService(repos, nil, "AFN", testLogger())
	buyer := uuid.New()

	product := seedProduct(t, repos, &domain.Product{
		SellerID: uuid.New(),
		Name:     i18n.Text{Base: "Kettle"},
		Price:    dec("60"),
		Stock:    4,
	})
	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: product.ID, Quantity: 1}))

	// the audit trail is best-effort; a failing event store must not
	// fail the checkout itself
	view, err := svc.Checkout(ctx, buyer, CheckoutRequest{
		CustomerName:    "Ahmad",
		ShippingAddress: "Kabul",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, view.Order.Status)
}

type fixedRate struct{ rate decimal.Decimal }

func (f fixedRate) Rate(context.Context) (decimal.Decimal, error) { return f.rate, nil }

func TestGetCartUSDEquivalentDisplay(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewCartService(repos, fixedRate{rate: dec("70")}, "AFN", testLogger())
	buyer := uuid.New()

	product := seedProduct(t, repos, &domain.Product{
		SellerID: uuid.New(),
		Name:     i18n.Text{Base: "Carpet"},
		Price:    dec("7000"),
		Currency: "AFN",
		Stock:    3,
	})
	require.NoError(t, svc.AddItem(ctx, buyer, AddToCartRequest{ProductID: product.ID, Quantity: 1}))

	view, err := svc.GetCart(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, view.Aggregation.Currencies, 1)
	usd := view.Aggregation.Currencies[0].USDEquivalent
	require.NotNil(t, usd)
	assert.True(t, usd.Equal(dec("100")), "got %s", usd)
}
