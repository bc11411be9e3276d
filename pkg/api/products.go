package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/money"
)

// productView is a catalog product with its display price.
type productView struct {
	cart.Product
	Price string `json:"price"`
}

func (s *Server) productView(p cart.Product) productView {
	return productView{Product: p, Price: money.FormatMinor(p.UnitPriceMinor, s.Currency)}
}

// listCategoriesHandler lists catalog categories.
// @Summary List categories
// @Produce json
// @Success 200 {array} string
// @Router /categories [get]
func (s *Server) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.Categories())
}

// listProductsHandler lists products, optionally by category.
// @Summary List products
// @Produce json
// @Param category query string false "Category filter; All or empty for every product"
// @Success 200 {array} productView
// @Router /products [get]
func (s *Server) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	products := s.Catalog.List(r.URL.Query().Get("category"))
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, s.productView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// getProductHandler retrieves a product by ID.
// @Summary Get product
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} productView
// @Failure 404 {object} errorResponse
// @Router /products/{id} [get]
func (s *Server) getProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.Catalog.Get(mux.Vars(r)["id"])
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.productView(p))
}
