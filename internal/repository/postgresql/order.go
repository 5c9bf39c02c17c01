package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/repository"
)

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(database db.DB) *OrderRepo {
	return &OrderRepo{db: database}
}

func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.ExecQueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

// GetPage left-joins users so orders pointing at a missing customer
// still come back, with nil customer fields.
func (r *OrderRepo) GetPage(ctx context.Context, limit, offset int) ([]*repository.OrderWithCustomer, error) {
	var orders []*repository.OrderWithCustomer
	err := r.db.Select(ctx, &orders, `
        SELECT o.order_id, o.user_id, o.status, o.created_at, o.shipped_at,
               o.delivered_at, o.returned_at, o.num_of_item,
               u.first_name, u.last_name, u.email
        FROM orders o
        LEFT JOIN users u ON o.user_id = u.id
        ORDER BY o.created_at DESC
        LIMIT $1 OFFSET $2
    `, limit, offset)
	return orders, err
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*repository.OrderWithCustomer, error) {
	var order repository.OrderWithCustomer
	err := r.db.Get(ctx, &order, `
        SELECT o.order_id, o.user_id, o.status, o.created_at, o.shipped_at,
               o.delivered_at, o.returned_at, o.num_of_item,
               u.first_name, u.last_name, u.email
        FROM orders o
        LEFT JOIN users u ON o.user_id = u.id
        WHERE o.order_id = $1
    `, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) GetByCustomerID(ctx context.Context, customerID int64) ([]*repository.CustomerOrder, error) {
	var orders []*repository.CustomerOrder
	err := r.db.Select(ctx, &orders, `
        SELECT order_id, status, created_at, shipped_at, delivered_at,
               returned_at, num_of_item
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
    `, customerID)
	return orders, err
}

// GetStatistics aggregates the orders table in a single query. Only the
// delivered and returned statuses get their own counters.
func (r *OrderRepo) GetStatistics(ctx context.Context) (*repository.Statistics, error) {
	var stats repository.Statistics
	err := r.db.Get(ctx, &stats, `
        SELECT COUNT(DISTINCT user_id)                           AS unique_customers,
               COUNT(*)                                          AS total_orders,
               AVG(num_of_item)                                  AS avg_items_per_order,
               COUNT(*) FILTER (WHERE status = 'delivered')      AS delivered_orders,
               COUNT(*) FILTER (WHERE status = 'returned')       AS returned_orders
        FROM orders
    `)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
