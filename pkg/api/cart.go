package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/pkg/auth"
	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/otel"
	"storefront/pkg/session"
)

type addItemRequest struct {
	ProductID string `json:"productId"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type couponRequest struct {
	Code string `json:"code"`
}

func (s *Server) loadCart(ctx context.Context) (*cart.Cart, error) {
	c, err := s.Sessions.LoadCart(ctx, session.IDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	c.SetFeeRules(s.FeeRules...)
	return c, nil
}

// mutateCart applies fn to the session cart as one atomic update. If fn
// fails nothing is saved and its error is returned.
func (s *Server) mutateCart(ctx context.Context, fn session.UpdateFunc) (*cart.Cart, error) {
	c, err := s.Sessions.UpdateCart(ctx, session.IDFromContext(ctx), fn)
	if err != nil {
		return nil, err
	}
	c.SetFeeRules(s.FeeRules...)
	return c, nil
}

func (s *Server) writeCart(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	writeJSON(w, http.StatusOK, s.cartView(c, auth.FromContext(r.Context())))
}

func (s *Server) cartFailed(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if errors.Is(err, session.ErrConflict) {
		s.Log.Warn(ctx, op, "error", err)
		writeError(w, http.StatusConflict, "cart is busy, please retry")
		return
	}
	s.Log.Error(ctx, op, "error", err)
	writeError(w, http.StatusInternalServerError, "cart unavailable")
}

// getCartHandler returns the cart display view.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cartView
// @Router /cart [get]
func (s *Server) getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	c, err := s.loadCart(ctx)
	if err != nil {
		s.cartFailed(ctx, w, "load cart", err)
		return
	}
	s.writeCart(w, r, c)
}

// addItemHandler adds one unit of a product.
// @Summary Add item
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Product to add"
// @Success 200 {object} cartView
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /cart/items [post]
func (s *Server) addItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addItemHandler")
	defer span.End()

	var req addItemRequest
	if err := decode(r, &req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}
	p, err := s.Catalog.Get(req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	c, err := s.mutateCart(ctx, func(c *cart.Cart) error {
		c.AddItem(p)
		return nil
	})
	if err != nil {
		s.cartFailed(ctx, w, "add item", err)
		return
	}
	s.writeCart(w, r, c)
}

// setQuantityHandler sets a line's quantity; zero or less removes it.
// @Summary Set quantity
// @Description Quantities above the per-line maximum are rejected.
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param quantity body setQuantityRequest true "New quantity"
// @Success 200 {object} cartView
// @Failure 400 {object} errorResponse
// @Router /cart/items/{id} [put]
func (s *Server) setQuantityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "setQuantityHandler")
	defer span.End()

	var req setQuantityRequest
	if err := decode(r, &req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	if *req.Quantity > cart.MaxQuantity {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("quantity must not exceed %d", cart.MaxQuantity))
		return
	}
	id := mux.Vars(r)["id"]
	c, err := s.mutateCart(ctx, func(c *cart.Cart) error {
		c.SetQuantity(id, *req.Quantity)
		return nil
	})
	if err != nil {
		s.cartFailed(ctx, w, "set quantity", err)
		return
	}
	s.writeCart(w, r, c)
}

// removeItemHandler removes a line.
// @Summary Remove item
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} cartView
// @Router /cart/items/{id} [delete]
func (s *Server) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeItemHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	c, err := s.mutateCart(ctx, func(c *cart.Cart) error {
		c.RemoveItem(id)
		return nil
	})
	if err != nil {
		s.cartFailed(ctx, w, "remove item", err)
		return
	}
	s.writeCart(w, r, c)
}

// applyCouponHandler activates a coupon code.
// @Summary Apply coupon
// @Accept json
// @Produce json
// @Param coupon body couponRequest true "Coupon code"
// @Success 200 {object} cartView
// @Failure 400 {object} errorResponse
// @Router /cart/coupon [post]
func (s *Server) applyCouponHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "applyCouponHandler")
	defer span.End()

	var req couponRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	c, err := s.mutateCart(ctx, func(c *cart.Cart) error {
		return c.ApplyCoupon(req.Code)
	})
	if errors.Is(err, cart.ErrUnknownCoupon) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.cartFailed(ctx, w, "apply coupon", err)
		return
	}
	s.writeCart(w, r, c)
}

// removeCouponHandler clears the active coupon.
// @Summary Remove coupon
// @Produce json
// @Success 200 {object} cartView
// @Router /cart/coupon [delete]
func (s *Server) removeCouponHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeCouponHandler")
	defer span.End()

	c, err := s.mutateCart(ctx, func(c *cart.Cart) error {
		c.RemoveCoupon()
		return nil
	})
	if err != nil {
		s.cartFailed(ctx, w, "remove coupon", err)
		return
	}
	s.writeCart(w, r, c)
}

// clearCartHandler empties the cart.
// @Summary Clear cart
// @Produce json
// @Success 200 {object} cartView
// @Router /cart [delete]
func (s *Server) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearCartHandler")
	defer span.End()

	if err := s.Sessions.DeleteCart(ctx, session.IDFromContext(ctx)); err != nil {
		s.cartFailed(ctx, w, "clear cart", err)
		return
	}
	c := cart.New(s.FeeRules...)
	s.writeCart(w, r, c)
}
