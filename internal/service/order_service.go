package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

type orderService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, logger *zap.Logger) *orderService {
	return &orderService{
		repos:  repos,
		logger: logger,
	}
}

// GetOrder loads an order with its items and seller sub-orders. When
// requesterID is non-nil the order must belong to that buyer.
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*OrderView, error) {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if requesterID != nil && order.UserID != *requesterID {
		return nil, &errors.ErrForbidden{Message: "access denied"}
	}

	items, err := s.repos.OrderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	sellerOrders, err := s.repos.SellerOrders.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &OrderView{
		Order:        order,
		Items:        items,
		SellerOrders: sellerOrders,
	}, nil
}

// AdvanceSellerOrder moves one seller's portion forward one step along
// the fixed sequence. The seller may only advance their own portion.
func (s *orderService) AdvanceSellerOrder(ctx context.Context, sellerOrderID, sellerID uuid.UUID) (*domain.SellerOrder, error) {
	so, err := s.repos.SellerOrders.GetByID(ctx, sellerOrderID)
	if err != nil {
		return nil, err
	}
	if so.SellerID != sellerID {
		return nil, &errors.ErrForbidden{Message: "access denied"}
	}

	next, ok := so.Status.Next()
	if !ok {
		return nil, &errors.ErrInvalidStateTransition{From: so.Status, To: "next"}
	}

	if err := s.repos.SellerOrders.UpdateStatus(ctx, sellerOrderID, so.Status, next, nil); err != nil {
		return nil, err
	}

	s.recordTransition(ctx, so, next, nil)
	s.refreshParentStatus(ctx, so.OrderID)

	so.Status = next
	return so, nil
}

// RejectSellerOrder rejects one seller's portion. Only valid while that
// portion is still pending.
func (s *orderService) RejectSellerOrder(ctx context.Context, sellerOrderID, sellerID uuid.UUID, reason string) (*domain.SellerOrder, error) {
	so, err := s.repos.SellerOrders.GetByID(ctx, sellerOrderID)
	if err != nil {
		return nil, err
	}
	if so.SellerID != sellerID {
		return nil, &errors.ErrForbidden{Message: "access denied"}
	}

	if !so.Status.CanTransitionTo(domain.OrderStatusRejected) {
		return nil, &errors.ErrInvalidStateTransition{From: so.Status, To: domain.OrderStatusRejected}
	}

	if err := s.repos.SellerOrders.UpdateStatus(ctx, sellerOrderID, so.Status, domain.OrderStatusRejected, &reason); err != nil {
		return nil, err
	}

	s.recordTransition(ctx, so, domain.OrderStatusRejected, &reason)
	s.refreshParentStatus(ctx, so.OrderID)

	so.Status = domain.OrderStatusRejected
	so.RejectionReason = &reason
	return so, nil
}

// ListSellerOrders lists one seller's sub-orders
func (s *orderService) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*domain.SellerOrder, error) {
	return s.repos.SellerOrders.ListBySellerID(ctx, sellerID, limit, offset)
}

func (s *orderService) recordTransition(ctx context.Context, so *domain.SellerOrder, to domain.OrderStatus, reason *string) {
	event := &domain.OrderEvent{
		OrderID:       so.OrderID,
		SellerOrderID: &so.ID,
		EventType:     "status_change",
		EventData: map[string]interface{}{
			"seller_id": so.SellerID.String(),
			"from":      so.Status,
			"to":        to,
		},
	}
	if reason != nil {
		event.EventData["reason"] = *reason
	}
	if err := s.repos.OrderEvents.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record order event", zap.Error(err))
	}
}

// refreshParentStatus re-derives the parent order's status from its
// seller sub-orders after any transition
func (s *orderService) refreshParentStatus(ctx context.Context, orderID uuid.UUID) {
	sellerOrders, err := s.repos.SellerOrders.ListByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Warn("Failed to load seller orders for status derivation", zap.Error(err))
		return
	}

	statuses := make([]domain.OrderStatus, 0, len(sellerOrders))
	for _, so := range sellerOrders {
		statuses = append(statuses, so.Status)
	}

	derived := domain.DeriveOrderStatus(statuses)
	if err := s.repos.Orders.UpdateStatus(ctx, orderID, derived); err != nil {
		s.logger.Warn("Failed to update parent order status", zap.Error(err))
	}
}
