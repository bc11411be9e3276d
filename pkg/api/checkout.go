package api

import (
	"errors"
	"net/http"

	"storefront/pkg/auth"
	"storefront/pkg/cart"
	"storefront/pkg/checkout"
	"storefront/pkg/order"
	"storefront/pkg/otel"
	"storefront/pkg/session"
	"storefront/pkg/validate"
)

// getContactHandler returns the contact fields remembered from the last
// checkout, or empty fields.
// @Summary Remembered checkout contact
// @Produce json
// @Success 200 {object} order.Customer
// @Router /checkout/contact [get]
func (s *Server) getContactHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getContactHandler")
	defer span.End()

	cust, err := s.Sessions.LoadContact(ctx, session.IDFromContext(ctx))
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		s.Log.Error(ctx, "load contact", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	writeJSON(w, http.StatusOK, cust)
}

// checkoutHandler places an order for the session cart.
// @Summary Checkout
// @Description Validates the contact fields and submits the cart to the order relay. The ordered lines leave the cart only when the relay accepts the order.
// @Accept json
// @Produce json
// @Param customer body order.Customer true "Contact and shipping fields"
// @Success 201 {object} order.Order
// @Failure 422 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /checkout [post]
func (s *Server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "checkoutHandler")
	defer span.End()

	var cust order.Customer
	if err := decode(r, &cust); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sid := session.IDFromContext(ctx)
	c, err := s.loadCart(ctx)
	if err != nil {
		s.cartFailed(ctx, w, "load cart", err)
		return
	}
	var username string
	if id := auth.FromContext(ctx); id != nil {
		username = id.Username
	}

	o, err := s.Checkout.PlaceOrder(ctx, sid, username, c, cust)
	var verr *validate.Error
	switch {
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrInvalidTotal):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid customer details", Fields: verr.Fields})
		return
	}

	if cerr := s.Sessions.SaveContact(ctx, sid, checkout.NormalizeCustomer(cust)); cerr != nil {
		s.Log.Warn(ctx, "save contact", "error", cerr)
	}

	if err != nil {
		if o.ID != "" {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "order could not be submitted, please try again", OrderID: o.ID})
			return
		}
		s.Log.Error(ctx, "checkout", "error", err)
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	// Items added while the relay call was in flight stay in the cart.
	_, err = s.Sessions.UpdateCart(ctx, sid, func(c *cart.Cart) error {
		c.Deduct(o.Lines)
		if cp, ok := c.Coupon(); ok && cp.Code == o.CouponCode {
			c.RemoveCoupon()
		}
		return nil
	})
	if err != nil {
		s.Log.Error(ctx, "clear cart after checkout", "order_id", o.ID, "error", err)
	}
	writeJSON(w, http.StatusCreated, o)
}
