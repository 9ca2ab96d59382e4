package domain

import "time"

// OrderStatus is display-only in this service; there is no live progression
// engine driving pending through completed.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
)

// Order is a placed purchase. Items is a value snapshot of the cart at
// placement time; the live cart is cleared independently afterward.
//
// Number is the customer-facing "#NNNN" from the checkout flow and is not
// collision-checked, so ID (a uuid) is the storage key, never Number.
type Order struct {
	ID               string      `json:"id"`
	Number           string      `json:"number"`
	Status           OrderStatus `json:"status"`
	Items            []CartLine  `json:"items"`
	Total            int64       `json:"total"`
	CreatedAt        time.Time   `json:"createdAt"`
	EstimatedMinutes int         `json:"estimatedMinutes"`
	PickupSpot       string      `json:"pickupSpot"`
}
