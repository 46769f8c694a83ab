package domain

// OrderStatus represents the status of an order or of one seller's
// portion of a multi-seller order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusRejected  OrderStatus = "rejected"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusRejected
}

// Next returns the successor in the fixed forward sequence
// pending -> confirmed -> shipped -> delivered. The second return value
// is false at delivered and rejected, which have no successor.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderStatusPending:
		return OrderStatusConfirmed, true
	case OrderStatusConfirmed:
		return OrderStatusShipped, true
	case OrderStatusShipped:
		return OrderStatusDelivered, true
	default:
		return "", false
	}
}

// CanTransitionTo checks if a status transition is valid. Rejection is
// only reachable from pending; every other transition must follow the
// forward sequence one step at a time.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	if newStatus == OrderStatusRejected {
		return s == OrderStatusPending
	}
	next, ok := s.Next()
	return ok && next == newStatus
}

// progressRank orders statuses for parent-status derivation. Rejected
// sorts below pending so an all-rejected order derives rejected.
func (s OrderStatus) progressRank() int {
	switch s {
	case OrderStatusPending:
		return 1
	case OrderStatusConfirmed:
		return 2
	case OrderStatusShipped:
		return 3
	case OrderStatusDelivered:
		return 4
	default:
		return 0
	}
}

// DeriveOrderStatus computes a parent order's status from its seller
// sub-order statuses: the least-advanced non-rejected slice wins, and the
// order as a whole is rejected only when every seller rejected. An empty
// slice derives pending.
func DeriveOrderStatus(subStatuses []OrderStatus) OrderStatus {
	if len(subStatuses) == 0 {
		return OrderStatusPending
	}
	derived := OrderStatus("")
	for _, s := range subStatuses {
		if s == OrderStatusRejected {
			continue
		}
		if derived == "" || s.progressRank() < derived.progressRank() {
			derived = s
		}
	}
	if derived == "" {
		return OrderStatusRejected
	}
	return derived
}

// Role represents an application role
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleBuyer     Role = "buyer"
	RoleSeller    Role = "seller"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleBuyer, RoleSeller:
		return true
	default:
		return false
	}
}

// ProductStatus represents the listing state of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid checks if the product status is a recognized value
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive:
		return true
	default:
		return false
	}
}
