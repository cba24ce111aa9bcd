package transport

import (
	"net/http"
	"strings"

	"ordering-be/internal/order"
	"ordering-be/internal/utils"

	"github.com/gorilla/mux"
)

type OrderHandler struct {
	orders order.Service
	items  order.ItemService
}

func NewOrderHandler(orders order.Service, items order.ItemService) *OrderHandler {
	return &OrderHandler{orders: orders, items: items}
}

func (h *OrderHandler) Register(api *mux.Router) {
	r := api.PathPrefix("/orders").Subrouter()
	r.HandleFunc("", h.create).Methods(http.MethodPost)
	r.HandleFunc("", h.list).Methods(http.MethodGet)
	r.HandleFunc("/order-number/{orderNumber}", h.getByOrderNumber).Methods(http.MethodGet)
	r.HandleFunc("/user/{userId:[0-9]+}", h.listByUser).Methods(http.MethodGet)
	r.HandleFunc("/status/{status}", h.listByStatus).Methods(http.MethodGet)
	r.HandleFunc("/date-range", h.listByDateRange).Methods(http.MethodGet)
	r.HandleFunc("/revenue", h.revenue).Methods(http.MethodGet)
	r.HandleFunc("/multiple-items", h.withMinItems).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}/status", h.updateStatus).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}/cancel", h.cancel).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}/items", h.listItems).Methods(http.MethodGet)

	items := api.PathPrefix("/order-items").Subrouter()
	items.HandleFunc("/{id:[0-9]+}", h.updateItem).Methods(http.MethodPut)
	items.HandleFunc("/{id:[0-9]+}", h.deleteItem).Methods(http.MethodDelete)
	items.HandleFunc("/product/{productId:[0-9]+}", h.listItemsByProduct).Methods(http.MethodGet)
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.orders.CreateOrder(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, r, "Order created successfully", order.ToResponse(o))
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, order.ToResponse(o))
}

func (h *OrderHandler) getByOrderNumber(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByOrderNumber(r.Context(), mux.Vars(r)["orderNumber"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, order.ToResponse(o))
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, "orderDate", "DESC")
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.orders.List(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, utils.MapPage(res, order.ToResponse))
}

func (h *OrderHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := pageRequest(r, "orderDate", "DESC")
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.orders.ListByUser(r.Context(), userID, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, utils.MapPage(res, order.ToResponse))
}

func (h *OrderHandler) listByStatus(w http.ResponseWriter, r *http.Request) {
	status := order.Status(strings.ToUpper(mux.Vars(r)["status"]))
	page, err := pageRequest(r, "orderDate", "DESC")
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.orders.ListByStatus(r.Context(), status, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, utils.MapPage(res, order.ToResponse))
}

func (h *OrderHandler) listByDateRange(w http.ResponseWriter, r *http.Request) {
	from, err := queryDateTime(r, "startDate")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := queryDateTime(r, "endDate")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var status *order.Status
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		s := order.Status(strings.ToUpper(raw))
		status = &s
	}

	orders, err := h.orders.ListByDateRange(r.Context(), from, to, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, order.ToResponses(orders))
}

func (h *OrderHandler) revenue(w http.ResponseWriter, r *http.Request) {
	from, err := queryDateTime(r, "startDate")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := queryDateTime(r, "endDate")
	if err != nil {
		writeError(w, r, err)
		return
	}

	total, err := h.orders.Revenue(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "Total revenue calculated successfully", total)
}

func (h *OrderHandler) withMinItems(w http.ResponseWriter, r *http.Request) {
	minItems, err := queryInt(r, "minItems", order.DefaultMinItems, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := h.orders.WithMinItems(r.Context(), minItems)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, order.ToResponses(orders))
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	raw, err := queryString(r, "status")
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.orders.UpdateOrderStatus(r.Context(), id, order.Status(strings.ToUpper(raw)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "Order status updated successfully", order.ToResponse(o))
}

func (h *OrderHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.orders.CancelOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "Order cancelled successfully", order.ToResponse(o))
}

func (h *OrderHandler) listItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.items.ListByOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, order.ToItemResponses(items))
}

func (h *OrderHandler) listItemsByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.items.ListByProduct(r.Context(), productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, order.ToItemResponses(items))
}

func (h *OrderHandler) updateItem(w http.ResponseWriter, r *http.Request) {
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

	item, err := h.items.UpdateItem(r.Context(), id, quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "Order item updated successfully", order.ToItemResponse(item))
}

func (h *OrderHandler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.items.DeleteItem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "Order item deleted successfully", nil)
}
