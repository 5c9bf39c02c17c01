package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/pagination"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/repository"
	mock_server "gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/server/mocks"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/service"
)

func newTestServer(t *testing.T) (*Server, *mock_server.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mock_server.NewMockService(ctrl)
	return New(mockService, zap.NewNop()), mockService
}

func doRequest(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleListCustomers(t *testing.T) {
	t.Run("default pagination", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		mockService.EXPECT().
			ListCustomers(gomock.Any(), pagination.Params{Page: 1, PerPage: 10, Offset: 0, Limit: 10}).
			Return(&service.CustomerPage{
				Customers: []*repository.Customer{
					{ID: 1, FirstName: "Anna", LastName: "Ivanova", Email: "anna@example.com", Age: 31, Gender: "F", State: "CA", City: "Fresno", Country: "USA", CreatedAt: created},
				},
				Pagination: pagination.Envelope{Page: 1, PerPage: 10, TotalCount: 1, TotalPages: 1},
			}, nil)

		w := doRequest(srv, http.MethodGet, "/api/customers")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"customers": [{
				"id": 1,
				"first_name": "Anna",
				"last_name": "Ivanova",
				"email": "anna@example.com",
				"age": 31,
				"gender": "F",
				"state": "CA",
				"city": "Fresno",
				"country": "USA",
				"created_at": "2024-03-01T12:00:00Z"
			}],
			"pagination": {
				"page": 1,
				"per_page": 10,
				"total_count": 1,
				"total_pages": 1,
				"has_next": false,
				"has_prev": false
			}
		}`, w.Body.String())
	})

	t.Run("explicit page and per_page", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		mockService.EXPECT().
			ListCustomers(gomock.Any(), pagination.Params{Page: 3, PerPage: 25, Offset: 50, Limit: 25}).
			Return(&service.CustomerPage{
				Customers:  []*repository.Customer{},
				Pagination: pagination.Envelope{Page: 3, PerPage: 25, TotalCount: 0, TotalPages: 0, HasPrev: true},
			}, nil)

		w := doRequest(srv, http.MethodGet, "/api/customers?page=3&per_page=25")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("page zero", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodGet, "/api/customers?page=0")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Page number must be greater than 0"}`, w.Body.String())
	})

	t.Run("per_page too large", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodGet, "/api/customers?per_page=150")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Per page must be between 1 and 100"}`, w.Body.String())
	})

	t.Run("non-integer params fall back to defaults", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		mockService.EXPECT().
			ListCustomers(gomock.Any(), pagination.Params{Page: 1, PerPage: 10, Offset: 0, Limit: 10}).
			Return(&service.CustomerPage{
				Customers:  []*repository.Customer{},
				Pagination: pagination.Envelope{Page: 1, PerPage: 10},
			}, nil)

		w := doRequest(srv, http.MethodGet, "/api/customers?page=abc&per_page=xyz")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		mockService.EXPECT().
			ListCustomers(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		w := doRequest(srv, http.MethodGet, "/api/customers")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	})
}

func TestHandleGetCustomer(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		mockService.EXPECT().
			GetCustomer(gomock.Any(), int64(7)).
			Return(&repository.CustomerDetails{
				Customer: repository.Customer{
					ID: 7, FirstName: "Anna", LastName: "Ivanova", Email: "anna@example.com",
					Age: 31, Gender: "F", State: "CA", City: "Fresno", Country: "USA", CreatedAt: created,
				},
				OrderCount: 3,
			}, nil)

		w := doRequest(srv, http.MethodGet, "/api/customers/7")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"customer": {
				"id": 7,
				"first_name": "Anna",
				"last_name": "Ivanova",
				"email": "anna@example.com",
				"age": 31,
				"gender": "F",
				"state": "CA",
				"city": "Fresno",
				"country": "USA",
				"created_at": "2024-03-01T12:00:00Z",
				"order_count": 3
			}
		}`, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		mockService.EXPECT().
			GetCustomer(gomock.Any(), int64(999999)).
			Return(nil, service.ErrCustomerNotFound)

		w := doRequest(srv, http.MethodGet, "/api/customers/999999")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Customer not found"}`, w.Body.String())
	})

	t.Run("non-integer id misses the route", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodGet, "/api/customers/abc")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String())
	})
}

func TestHandleGetCustomerOrders(t *testing.T) {
	t.Run("zero orders is success", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		mockService.EXPECT().
			GetCustomerOrders(gomock.Any(), int64(5)).
			Return(&service.CustomerOrders{
				CustomerID:  5,
				Orders:      []*repository.CustomerOrder{},
				TotalOrders: 0,
			}, nil)

		w := doRequest(srv, http.MethodGet, "/api/customers/5/orders")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"customer_id":5,"orders":[],"total_orders":0}`, w.Body.String())
	})

	t.Run("orders most recent first", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		created := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
		shipped := created.Add(time.Hour)
		mockService.EXPECT().
			GetCustomerOrders(gomock.Any(), int64(7)).
			Return(&service.CustomerOrders{
				CustomerID: 7,
				Orders: []*repository.CustomerOrder{
					{OrderID: 102, Status: "shipped", CreatedAt: created, ShippedAt: &shipped, NumOfItem: 1},
					{OrderID: 101, Status: "delivered", CreatedAt: created.Add(-48 * time.Hour), NumOfItem: 2},
				},
				TotalOrders: 2,
			}, nil)

		w := doRequest(srv, http.MethodGet, "/api/customers/7/orders")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"customer_id": 7,
			"orders": [
				{
					"order_id": 102,
					"status": "shipped",
					"created_at": "2024-05-20T09:30:00Z",
					"shipped_at": "2024-05-20T10:30:00Z",
					"delivered_at": null,
					"returned_at": null,
					"num_of_item": 1
				},
				{
					"order_id": 101,
					"status": "delivered",
					"created_at": "2024-05-18T09:30:00Z",
					"shipped_at": null,
					"delivered_at": null,
					"returned_at": null,
					"num_of_item": 2
				}
			],
			"total_orders": 2
		}`, w.Body.String())
	})

	t.Run("missing customer", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		mockService.EXPECT().
			GetCustomerOrders(gomock.Any(), int64(999999)).
			Return(nil, service.ErrCustomerNotFound)

		w := doRequest(srv, http.MethodGet, "/api/customers/999999/orders")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Customer not found"}`, w.Body.String())
	})
}

func TestHandleListOrders(t *testing.T) {
	t.Run("success with orphan order", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		created := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
		first := "Anna"
		last := "Ivanova"
		email := "anna@example.com"
		mockService.EXPECT().
			ListOrders(gomock.Any(), pagination.Params{Page: 1, PerPage: 10, Offset: 0, Limit: 10}).
			Return(&service.OrderPage{
				Orders: []*repository.OrderWithCustomer{
					{OrderID: 102, UserID: 7, Status: "processing", CreatedAt: created, NumOfItem: 1, FirstName: &first, LastName: &last, Email: &email},
					{OrderID: 101, UserID: 9999, Status: "delivered", CreatedAt: created.Add(-time.Hour), NumOfItem: 2},
				},
				Pagination: pagination.Envelope{Page: 1, PerPage: 10, TotalCount: 2, TotalPages: 1},
			}, nil)

		w := doRequest(srv, http.MethodGet, "/api/orders")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"orders": [
				{
					"order_id": 102,
					"user_id": 7,
					"status": "processing",
					"created_at": "2024-05-20T09:30:00Z",
					"shipped_at": null,
					"delivered_at": null,
					"returned_at": null,
					"num_of_item": 1,
					"first_name": "Anna",
					"last_name": "Ivanova",
					"email": "anna@example.com"
				},
				{
					"order_id": 101,
					"user_id": 9999,
					"status": "delivered",
					"created_at": "2024-05-20T08:30:00Z",
					"shipped_at": null,
					"delivered_at": null,
					"returned_at": null,
					"num_of_item": 2,
					"first_name": null,
					"last_name": null,
					"email": null
				}
			],
			"pagination": {
				"page": 1,
				"per_page": 10,
				"total_count": 2,
				"total_pages": 1,
				"has_next": false,
				"has_prev": false
			}
		}`, w.Body.String())
	})

	t.Run("invalid page", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodGet, "/api/orders?page=-1")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Page number must be greater than 0"}`, w.Body.String())
	})
}

func TestHandleGetOrder(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		mockService.EXPECT().
			GetOrder(gomock.Any(), int64(999999)).
			Return(nil, service.ErrOrderNotFound)

		w := doRequest(srv, http.MethodGet, "/api/orders/999999")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Order not found"}`, w.Body.String())
	})

	t.Run("found", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		created := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
		delivered := created.Add(72 * time.Hour)
		first := "Anna"
		last := "Ivanova"
		email := "anna@example.com"
		mockService.EXPECT().
			GetOrder(gomock.Any(), int64(101)).
			Return(&repository.OrderWithCustomer{
				OrderID: 101, UserID: 7, Status: "delivered", CreatedAt: created,
				DeliveredAt: &delivered, NumOfItem: 2,
				FirstName: &first, LastName: &last, Email: &email,
			}, nil)

		w := doRequest(srv, http.MethodGet, "/api/orders/101")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"order": {
				"order_id": 101,
				"user_id": 7,
				"status": "delivered",
				"created_at": "2024-05-20T09:30:00Z",
				"shipped_at": null,
				"delivered_at": "2024-05-23T09:30:00Z",
				"returned_at": null,
				"num_of_item": 2,
				"first_name": "Anna",
				"last_name": "Ivanova",
				"email": "anna@example.com"
			}
		}`, w.Body.String())
	})
}

func TestHandleGetStatistics(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		avg := 2.0
		mockService.EXPECT().
			GetStatistics(gomock.Any()).
			Return(&repository.Statistics{
				UniqueCustomers:  2,
				TotalOrders:      3,
				AvgItemsPerOrder: &avg,
				DeliveredOrders:  2,
				ReturnedOrders:   1,
			}, nil)

		w := doRequest(srv, http.MethodGet, "/api/statistics")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"statistics": {
				"unique_customers": 2,
				"total_orders": 3,
				"avg_items_per_order": 2.0,
				"delivered_orders": 2,
				"returned_orders": 1
			}
		}`, w.Body.String())
	})

	t.Run("no orders yields null average", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		mockService.EXPECT().
			GetStatistics(gomock.Any()).
			Return(&repository.Statistics{}, nil)

		w := doRequest(srv, http.MethodGet, "/api/statistics")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"statistics": {
				"unique_customers": 0,
				"total_orders": 0,
				"avg_items_per_order": null,
				"delivered_orders": 0,
				"returned_orders": 0
			}
		}`, w.Body.String())
	})
}

func TestRouting(t *testing.T) {
	t.Run("unknown path", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodGet, "/api/nonexistent")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String())
	})

	t.Run("path outside the prefix", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodGet, "/customers")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String())
	})

	t.Run("method not allowed", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodPost, "/api/customers")

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
	})

	t.Run("delete on detail route", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodDelete, "/api/orders/101")

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
	})
}

func TestCORS(t *testing.T) {
	t.Run("headers on regular request", func(t *testing.T) {
		srv, mockService := newTestServer(t)

		mockService.EXPECT().
			GetStatistics(gomock.Any()).
			Return(&repository.Statistics{}, nil)

		w := doRequest(srv, http.MethodGet, "/api/statistics")

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodOptions, "/api/customers")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Body.String())
	})
}

func TestRequestIDHeader(t *testing.T) {
	srv, mockService := newTestServer(t)

	mockService.EXPECT().
		GetStatistics(gomock.Any()).
		Return(&repository.Statistics{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestShutdownWithoutRun(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
}
