//go:generate mockgen -source ./service.go -destination=./mocks/service.go -package=mock_service
package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/pagination"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/repository"
)

// The sentinel texts double as the client-facing error messages.
var (
	ErrCustomerNotFound = errors.New("Customer not found")
	ErrOrderNotFound    = errors.New("Order not found")
)

type CustomerRepository interface {
	Count(ctx context.Context) (int, error)
	GetPage(ctx context.Context, limit, offset int) ([]*repository.Customer, error)
	GetByID(ctx context.Context, id int64) (*repository.CustomerDetails, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type OrderRepository interface {
	Count(ctx context.Context) (int, error)
	GetPage(ctx context.Context, limit, offset int) ([]*repository.OrderWithCustomer, error)
	GetByID(ctx context.Context, id int64) (*repository.OrderWithCustomer, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]*repository.CustomerOrder, error)
	GetStatistics(ctx context.Context) (*repository.Statistics, error)
}

type CustomerPage struct {
	Customers  []*repository.Customer
	Pagination pagination.Envelope
}

type OrderPage struct {
	Orders     []*repository.OrderWithCustomer
	Pagination pagination.Envelope
}

type CustomerOrders struct {
	CustomerID  int64                       `json:"customer_id"`
	Orders      []*repository.CustomerOrder `json:"orders"`
	TotalOrders int                         `json:"total_orders"`
}

type Service struct {
	customers CustomerRepository
	orders    OrderRepository
}

func New(customers CustomerRepository, orders OrderRepository) *Service {
	return &Service{
		customers: customers,
		orders:    orders,
	}
}

// ListCustomers runs the COUNT and the page fetch concurrently; both
// target the same predicate so the envelope stays consistent with the
// slice.
func (s *Service) ListCustomers(ctx context.Context, params pagination.Params) (*CustomerPage, error) {
	var (
		total     int
		customers []*repository.Customer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.customers.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.customers.GetPage(gctx, params.Limit, params.Offset)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if customers == nil {
		customers = []*repository.Customer{}
	}
	return &CustomerPage{
		Customers:  customers,
		Pagination: pagination.NewEnvelope(params, total),
	}, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*repository.CustomerDetails, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// GetCustomerOrders checks customer existence with its own query: a
// customer with zero orders is a success with an empty list, not a
// not-found.
func (s *Service) GetCustomerOrders(ctx context.Context, id int64) (*CustomerOrders, error) {
	exists, err := s.customers.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCustomerNotFound
	}

	orders, err := s.orders.GetByCustomerID(ctx, id)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*repository.CustomerOrder{}
	}
	return &CustomerOrders{
		CustomerID:  id,
		Orders:      orders,
		TotalOrders: len(orders),
	}, nil
}

func (s *Service) ListOrders(ctx context.Context, params pagination.Params) (*OrderPage, error) {
	var (
		total  int
		orders []*repository.OrderWithCustomer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.orders.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.GetPage(gctx, params.Limit, params.Offset)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if orders == nil {
		orders = []*repository.OrderWithCustomer{}
	}
	return &OrderPage{
		Orders:     orders,
		Pagination: pagination.NewEnvelope(params, total),
	}, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*repository.OrderWithCustomer, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *Service) GetStatistics(ctx context.Context) (*repository.Statistics, error) {
	return s.orders.GetStatistics(ctx)
}
