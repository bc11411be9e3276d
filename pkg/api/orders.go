package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/pkg/auth"
	"storefront/pkg/order"
	"storefront/pkg/otel"
)

// ownOrder loads an order and hides it unless it belongs to the caller.
func (s *Server) ownOrder(ctx context.Context, id string) (order.Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	if who := auth.FromContext(ctx); who == nil || o.Username != who.Username {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

// listOrdersHandler lists the caller's orders.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Failure 401 {object} errorResponse
// @Security ApiKeyAuth
// @Router /orders [get]
func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	orders, err := s.Orders.List(ctx)
	if err != nil {
		s.Log.Error(ctx, "list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "orders unavailable")
		return
	}
	who := auth.FromContext(ctx)
	mine := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if o.Username == who.Username {
			mine = append(mine, o)
		}
	}
	writeJSON(w, http.StatusOK, mine)
}

// getOrderHandler retrieves one of the caller's orders.
// @Summary Get order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.Order
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrderHandler")
	defer span.End()

	o, err := s.ownOrder(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.Log.Error(ctx, "get order", "error", err)
		writeError(w, http.StatusInternalServerError, "orders unavailable")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// deleteOrderHandler removes one of the caller's orders from history.
// @Summary Delete order
// @Param id path string true "Order ID"
// @Success 204
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /orders/{id} [delete]
func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteOrderHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	if _, err := s.ownOrder(ctx, id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.Log.Error(ctx, "delete order", "error", err)
		writeError(w, http.StatusInternalServerError, "orders unavailable")
		return
	}
	if err := s.Orders.Delete(ctx, id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.Log.Error(ctx, "delete order", "error", err)
		writeError(w, http.StatusInternalServerError, "orders unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
