package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

type Customer struct {
	ID        int64     `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Age       int       `db:"age" json:"age"`
	Gender    string    `db:"gender" json:"gender"`
	State     string    `db:"state" json:"state"`
	City      string    `db:"city" json:"city"`
	Country   string    `db:"country" json:"country"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CustomerDetails is a Customer plus the derived order count; the count
// is 0 for customers with no orders, never null.
type CustomerDetails struct {
	Customer
	OrderCount int64 `db:"order_count" json:"order_count"`
}

// CustomerOrder is one order as listed under a customer. The lifecycle
// timestamps stay nil until the matching transition has happened.
type CustomerOrder struct {
	OrderID     int64      `db:"order_id" json:"order_id"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ShippedAt   *time.Time `db:"shipped_at" json:"shipped_at"`
	DeliveredAt *time.Time `db:"delivered_at" json:"delivered_at"`
	ReturnedAt  *time.Time `db:"returned_at" json:"returned_at"`
	NumOfItem   int        `db:"num_of_item" json:"num_of_item"`
}

// OrderWithCustomer is an order left-joined with its customer. Orphan
// orders keep nil customer fields.
type OrderWithCustomer struct {
	OrderID     int64      `db:"order_id" json:"order_id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ShippedAt   *time.Time `db:"shipped_at" json:"shipped_at"`
	DeliveredAt *time.Time `db:"delivered_at" json:"delivered_at"`
	ReturnedAt  *time.Time `db:"returned_at" json:"returned_at"`
	NumOfItem   int        `db:"num_of_item" json:"num_of_item"`
	FirstName   *string    `db:"first_name" json:"first_name"`
	LastName    *string    `db:"last_name" json:"last_name"`
	Email       *string    `db:"email" json:"email"`
}

// Statistics aggregates the orders table only, so customers with zero
// orders are not counted in UniqueCustomers. AvgItemsPerOrder is nil
// when there are no orders at all.
type Statistics struct {
	UniqueCustomers  int64    `db:"unique_customers" json:"unique_customers"`
	TotalOrders      int64    `db:"total_orders" json:"total_orders"`
	AvgItemsPerOrder *float64 `db:"avg_items_per_order" json:"avg_items_per_order"`
	DeliveredOrders  int64    `db:"delivered_orders" json:"delivered_orders"`
	ReturnedOrders   int64    `db:"returned_orders" json:"returned_orders"`
}
