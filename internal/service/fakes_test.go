package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

// In-memory repositories backing the service tests. They mirror the
// postgres implementations' error contracts: ErrNotFound on missing
// rows, ErrInvalidStateTransition when a conditional update misses.

type fakeProductRepo struct {
	products map[uuid.UUID]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*domain.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return &errors.ErrNotFound{Resource: "product", ID: p.ID.String()}
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ListByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	out := make(map[uuid.UUID]*domain.Product)
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if p.Stock+delta < 0 {
		return &errors.ErrValidation{Field: "stock", Message: "insufficient stock"}
	}
	p.Stock += delta
	return nil
}

type fakeDeliveryOptionRepo struct {
	options map[uuid.UUID]*domain.DeliveryOption
}

func newFakeDeliveryOptionRepo() *fakeDeliveryOptionRepo {
	return &fakeDeliveryOptionRepo{options: make(map[uuid.UUID]*domain.DeliveryOption)}
}

func (r *fakeDeliveryOptionRepo) Create(_ context.Context, o *domain.DeliveryOption) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.options[o.ID] = o
	return nil
}

func (r *fakeDeliveryOptionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.options, id)
	return nil
}

func (r *fakeDeliveryOptionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.DeliveryOption, error) {
	o, ok := r.options[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "delivery option", ID: id.String()}
	}
	cp := *o
	return &cp, nil
}

func (r *fakeDeliveryOptionRepo) ListByProductID(_ context.Context, productID uuid.UUID) ([]*domain.DeliveryOption, error) {
	var out []*domain.DeliveryOption
	for _, o := range r.options {
		if o.ProductID == productID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeDeliveryOptionRepo) CountByProductIDs(_ context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	for _, o := range r.options {
		counts[o.ProductID]++
	}
	out := make(map[uuid.UUID]int)
	for _, id := range productIDs {
		out[id] = counts[id]
	}
	return out, nil
}

type fakeCartRepo struct {
	items []*domain.CartItem
}

func newFakeCartRepo() *fakeCartRepo { return &fakeCartRepo{} }

// variantEq mirrors the postgres store, which keeps variants as ''
// rather than NULL so the upsert key treats "no color" as one value.
func variantEq(a, b *string) bool {
	norm := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return norm(a) == norm(b)
}

func (r *fakeCartRepo) Upsert(_ context.Context, item *domain.CartItem) error {
	for _, existing := range r.items {
		if existing.UserID == item.UserID &&
			existing.ProductID == item.ProductID &&
			variantEq(existing.SelectedColor, item.SelectedColor) &&
			variantEq(existing.SelectedSize, item.SelectedSize) {
			existing.Quantity += item.Quantity
			existing.SelectedDeliveryOptionID = item.SelectedDeliveryOptionID
			return nil
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeCartRepo) UpdateItem(_ context.Context, item *domain.CartItem) error {
	for i, existing := range r.items {
		if existing.ID == item.ID && existing.UserID == item.UserID {
			cp := *item
			r.items[i] = &cp
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "cart item", ID: item.ID.String()}
}

func (r *fakeCartRepo) Remove(_ context.Context, userID, itemID uuid.UUID) error {
	for i, existing := range r.items {
		if existing.ID == itemID && existing.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "cart item", ID: itemID.String()}
}

func (r *fakeCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	kept := r.items[:0]
	for _, existing := range r.items {
		if existing.UserID != userID {
			kept = append(kept, existing)
		}
	}
	r.items = kept
	return nil
}

func (r *fakeCartRepo) GetItem(_ context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error) {
	for _, existing := range r.items {
		if existing.ID == itemID && existing.UserID == userID {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "cart item", ID: itemID.String()}
}

func (r *fakeCartRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	var out []*domain.CartItem
	for _, existing := range r.items {
		if existing.UserID == userID {
			cp := *existing
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, ok := r.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Status = status
	return nil
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByStatus(_ context.Context, status domain.OrderStatus, _, _ int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		if order.Status == status {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _, _ int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		out = append(out, order)
	}
	return out, nil
}

type fakeOrderItemRepo struct {
	items []*domain.OrderItem
}

func newFakeOrderItemRepo() *fakeOrderItemRepo { return &fakeOrderItemRepo{} }

func (r *fakeOrderItemRepo) CreateBatch(_ context.Context, items []*domain.OrderItem) error {
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.items = append(r.items, item)
	}
	return nil
}

func (r *fakeOrderItemRepo) ListByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	var out []*domain.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeSellerOrderRepo struct {
	sellerOrders []*domain.SellerOrder
}

func newFakeSellerOrderRepo() *fakeSellerOrderRepo { return &fakeSellerOrderRepo{} }

func (r *fakeSellerOrderRepo) CreateBatch(_ context.Context, sellerOrders []*domain.SellerOrder) error {
	for _, so := range sellerOrders {
		if so.ID == uuid.Nil {
			so.ID = uuid.New()
		}
		cp := *so
		r.sellerOrders = append(r.sellerOrders, &cp)
	}
	return nil
}

func (r *fakeSellerOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.SellerOrder, error) {
	for _, so := range r.sellerOrders {
		if so.ID == id {
			cp := *so
			return &cp, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "seller order", ID: id.String()}
}

func (r *fakeSellerOrderRepo) ListByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.SellerOrder, error) {
	var out []*domain.SellerOrder
	for _, so := range r.sellerOrders {
		if so.OrderID == orderID {
			cp := *so
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSellerOrderRepo) ListBySellerID(_ context.Context, sellerID uuid.UUID, _, _ int) ([]*domain.SellerOrder, error) {
	var out []*domain.SellerOrder
	for _, so := range r.sellerOrders {
		if so.SellerID == sellerID {
			cp := *so
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSellerOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.OrderStatus, rejectionReason *string) error {
	for _, so := range r.sellerOrders {
		if so.ID == id && so.Status == from {
			so.Status = to
			so.RejectionReason = rejectionReason
			return nil
		}
	}
	return &errors.ErrInvalidStateTransition{From: from, To: to}
}

type fakeOrderEventRepo struct {
	events []*domain.OrderEvent
}

func newFakeOrderEventRepo() *fakeOrderEventRepo { return &fakeOrderEventRepo{} }

func (r *fakeOrderEventRepo) Create(_ context.Context, event *domain.OrderEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOrderEventRepo) ListByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error) {
	var out []*domain.OrderEvent
	for _, event := range r.events {
		if event.OrderID == orderID {
			out = append(out, event)
		}
	}
	return out, nil
}

func newTestRepos() *repository.Repositories {
	return &repository.Repositories{
		Products:        newFakeProductRepo(),
		DeliveryOptions: newFakeDeliveryOptionRepo(),
		Cart:            newFakeCartRepo(),
		Orders:          newFakeOrderRepo(),
		OrderItems:      newFakeOrderItemRepo(),
		SellerOrders:    newFakeSellerOrderRepo(),
		OrderEvents:     newFakeOrderEventRepo(),
	}
}

func testLogger() *zap.Logger { return zap.NewNop() }
