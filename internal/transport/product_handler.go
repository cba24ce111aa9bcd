package transport

import (
	"net/http"
	"strings"

	"ordering-be/internal/product"
	"ordering-be/internal/utils"

	"github.com/gorilla/mux"
)

type ProductHandler struct {
	products product.Service
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) Register(api *mux.Router) {
	r := api.PathPrefix("/products").Subrouter()
	r.HandleFunc("", h.create).Methods(http.MethodPost)
	r.HandleFunc("", h.list).Methods(http.MethodGet)
	r.HandleFunc("/status/{status}", h.listByStatus).Methods(http.MethodGet)
	r.HandleFunc("/category/{category}", h.listByCategory).Methods(http.MethodGet)
	r.HandleFunc("/search", h.search).Methods(http.MethodGet)
	r.HandleFunc("/price-range", h.listByPriceRange).Methods(http.MethodGet)
	r.HandleFunc("/low-stock", h.listLowStock).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/{id:[0-9]+}/stock", h.updateStock).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}/stock-check", h.stockCheck).Methods(http.MethodGet)
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.products.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, r, "Product created successfully", product.ToResponse(p))
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ProductRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.products.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "Product updated successfully", product.ToResponse(p))
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, product.ToResponse(p))
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, "name", "ASC")
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.products.List(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, utils.MapPage(res, product.ToResponse))
}

func (h *ProductHandler) listByStatus(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, "name", "ASC")
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := product.Status(strings.ToUpper(mux.Vars(r)["status"]))
	res, err := h.products.ListByStatus(r.Context(), status, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, utils.MapPage(res, product.ToResponse))
}

func (h *ProductHandler) listByCategory(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, "name", "ASC")
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.products.ListByCategory(r.Context(), mux.Vars(r)["category"], page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, utils.MapPage(res, product.ToResponse))
}

func (h *ProductHandler) search(w http.ResponseWriter, r *http.Request) {
	name, err := queryString(r, "name")
	if err != nil {
		writeError(w, r, err)
		return
	}

	products, err := h.products.SearchByName(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, product.ToResponses(products))
}

func (h *ProductHandler) listByPriceRange(w http.ResponseWriter, r *http.Request) {
	minPrice, err := queryDecimal(r, "minPrice")
	if err != nil {
		writeError(w, r, err)
		return
	}
	maxPrice, err := queryDecimal(r, "maxPrice")
	if err != nil {
		writeError(w, r, err)
		return
	}

	products, err := h.products.ListByPriceRange(r.Context(), minPrice, maxPrice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, product.ToResponses(products))
}

func (h *ProductHandler) listLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListLowStock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, product.ToResponses(products))
}

func (h *ProductHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	quantity, err := queryInt(r, "quantity", 0, true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.products.UpdateStock(r.Context(), id, quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "Product stock updated successfully", product.ToResponse(p))
}

func (h *ProductHandler) stockCheck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	quantity, err := queryInt(r, "quantity", 0, true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	check, err := h.products.CheckStock(r.Context(), id, quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, product.ToStockCheckResponse(check))
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "Product deleted successfully", nil)
}
