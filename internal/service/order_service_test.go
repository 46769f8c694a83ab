package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

func seedOrder(t *testing.T, repos *repository.Repositories, buyer uuid.UUID, sellers ...uuid.UUID) (*domain.Order, []*domain.SellerOrder) {
	t.Helper()
	ctx := context.Background()

	order := &domain.Order{
		UserID:          buyer,
		Status:          domain.OrderStatusPending,
		ShippingAddress: "Kabul",
		CustomerName:    "Ahmad",
	}
	require.NoError(t, repos.Orders.Create(ctx, order))

	batch := make([]*domain.SellerOrder, 0, len(sellers))
	for _, seller := range sellers {
		batch = append(batch, &domain.SellerOrder{
			ID:       uuid.New(),
			OrderID:  order.ID,
			SellerID: seller,
			Status:   domain.OrderStatusPending,
			Subtotal: dec("100"),
			Currency: "AFN",
		})
	}
	require.NoError(t, repos.SellerOrders.CreateBatch(ctx, batch))
	return order, batch
}

func TestGetOrderOwnership(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewOrderService(repos, testLogger())
	buyer := uuid.New()
	stranger := uuid.New()

	order, _ := seedOrder(t, repos, buyer, uuid.New())

	view, err := svc.GetOrder(ctx, order.ID, &buyer)
	require.NoError(t, err)
	assert.Equal(t, order.ID, view.Order.ID)

	_, err = svc.GetOrder(ctx, order.ID, &stranger)
	var fErr *errors.ErrForbidden
	assert.ErrorAs(t, err, &fErr)

	// nil requester skips the ownership check (admin path)
	_, err = svc.GetOrder(ctx, order.ID, nil)
	assert.NoError(t, err)
}

func TestAdvanceSellerOrderWalksSequence(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewOrderService(repos, testLogger())
	seller := uuid.New()

	_, sellerOrders := seedOrder(t, repos, uuid.New(), seller)
	soID := sellerOrders[0].ID

	want := []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	}
	for _, expected := range want {
		so, err := svc.AdvanceSellerOrder(ctx, soID, seller)
		require.NoError(t, err)
		assert.Equal(t, expected, so.Status)
	}

	// delivered is terminal
	_, err := svc.AdvanceSellerOrder(ctx, soID, seller)
	var tErr *errors.ErrInvalidStateTransition
	assert.ErrorAs(t, err, &tErr)
}

func TestAdvanceSellerOrderOwnership(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewOrderService(repos, testLogger())

	_, sellerOrders := seedOrder(t, repos, uuid.New(), uuid.New())

	_, err := svc.AdvanceSellerOrder(ctx, sellerOrders[0].ID, uuid.New())
	var fErr *errors.ErrForbidden
	assert.ErrorAs(t, err, &fErr)
}

func TestRejectSellerOrderOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewOrderService(repos, testLogger())
	seller := uuid.New()

	_, sellerOrders := seedOrder(t, repos, uuid.New(), seller)
	soID := sellerOrders[0].ID

	_, err := svc.AdvanceSellerOrder(ctx, soID, seller)
	require.NoError(t, err)

	// confirmed orders can no longer be rejected
	_, err = svc.RejectSellerOrder(ctx, soID, seller, "out of stock")
	var tErr *errors.ErrInvalidStateTransition
	assert.ErrorAs(t, err, &tErr)
}

func TestRejectSellerOrderRecordsReason(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewOrderService(repos, testLogger())
	seller := uuid.New()

	order, sellerOrders := seedOrder(t, repos, uuid.New(), seller)
	soID := sellerOrders[0].ID

	so, err := svc.RejectSellerOrder(ctx, soID, seller, "out of stock")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusRejected, so.Status)
	require.NotNil(t, so.RejectionReason)
	assert.Equal(t, "out of stock", *so.RejectionReason)

	events, err := repos.OrderEvents.ListByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "status_change", events[0].EventType)
	assert.Equal(t, "out of stock", events[0].EventData["reason"])
}

func TestParentStatusDerivation(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewOrderService(repos, testLogger())
	sellerA := uuid.New()
	sellerB := uuid.New()

	order, sellerOrders := seedOrder(t, repos, uuid.New(), sellerA, sellerB)

	// one seller confirms: parent stays at the least-advanced portion
	_, err := svc.AdvanceSellerOrder(ctx, sellerOrders[0].ID, sellerA)
	require.NoError(t, err)
	parent, err := repos.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, parent.Status)

	// the other seller rejects: rejected portions stop holding it back
	_, err = svc.RejectSellerOrder(ctx, sellerOrders[1].ID, sellerB, "cannot fulfil")
	require.NoError(t, err)
	parent, err = repos.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, parent.Status)
}

func TestParentStatusAllRejected(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewOrderService(repos, testLogger())
	sellerA := uuid.New()
	sellerB := uuid.New()

	order, sellerOrders := seedOrder(t, repos, uuid.New(), sellerA, sellerB)

	_, err := svc.RejectSellerOrder(ctx, sellerOrders[0].ID, sellerA, "no stock")
	require.NoError(t, err)
	_, err = svc.RejectSellerOrder(ctx, sellerOrders[1].ID, sellerB, "no stock")
	require.NoError(t, err)

	parent, err := repos.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusRejected, parent.Status)
}

func TestListSellerOrders(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewOrderService(repos, testLogger())
	seller := uuid.New()

	seedOrder(t, repos, uuid.New(), seller)
	seedOrder(t, repos, uuid.New(), seller)
	seedOrder(t, repos, uuid.New(), uuid.New())

	mine, err := svc.ListSellerOrders(ctx, seller, 50, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
