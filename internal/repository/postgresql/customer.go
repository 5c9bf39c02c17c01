package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/repository"
)

type CustomerRepo struct {
	db db.DB
}

func NewCustomerRepo(database db.DB) *CustomerRepo {
	return &CustomerRepo{db: database}
}

func (r *CustomerRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.ExecQueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// GetPage orders by id so repeated calls with the same window return
// the same slice.
func (r *CustomerRepo) GetPage(ctx context.Context, limit, offset int) ([]*repository.Customer, error) {
	var customers []*repository.Customer
	err := r.db.Select(ctx, &customers, `
        SELECT id, first_name, last_name, email, age, gender,
               state, city, country, created_at
        FROM users
        ORDER BY id
        LIMIT $1 OFFSET $2
    `, limit, offset)
	return customers, err
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*repository.CustomerDetails, error) {
	var customer repository.CustomerDetails
	err := r.db.Get(ctx, &customer, `
        SELECT u.id, u.first_name, u.last_name, u.email, u.age, u.gender,
               u.state, u.city, u.country, u.created_at,
               COUNT(o.order_id) AS order_count
        FROM users u
        LEFT JOIN orders o ON u.id = o.user_id
        WHERE u.id = $1
        GROUP BY u.id
    `, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.ExecQueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", id).Scan(&exists)
	return exists, err
}
