package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/pagination"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/service"
)

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.service.ListCustomers(r.Context(), params)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"customers":  page.Customers,
		"pagination": page.Pagination,
	})
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, service.ErrCustomerNotFound.Error())
		return
	}

	customer, err := s.service.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"customer": customer,
	})
}

func (s *Server) handleGetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, service.ErrCustomerNotFound.Error())
		return
	}

	orders, err := s.service.GetCustomerOrders(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.service.ListOrders(r.Context(), params)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders":     page.Orders,
		"pagination": page.Pagination,
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, service.ErrOrderNotFound.Error())
		return
	}

	order, err := s.service.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"order": order,
	})
}

func (s *Server) handleGetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.GetStatistics(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"statistics": stats,
	})
}

// internalError logs the cause server-side and hands the client a
// generic message only.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func parsePageParams(r *http.Request) (pagination.Params, error) {
	page := queryInt(r, "page", pagination.DefaultPage)
	perPage := queryInt(r, "per_page", pagination.DefaultPerPage)
	return pagination.Parse(page, perPage)
}

// queryInt falls back to the default on a non-integer value instead of
// rejecting it.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
