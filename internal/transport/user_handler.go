package transport

import (
	"net/http"
	"strings"

	"ordering-be/internal/user"
	"ordering-be/internal/utils"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	users user.Service
}

func NewUserHandler(users user.Service) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(api *mux.Router) {
	r := api.PathPrefix("/users").Subrouter()
	r.HandleFunc("", h.create).Methods(http.MethodPost)
	r.HandleFunc("", h.list).Methods(http.MethodGet)
	r.HandleFunc("/email/{email}", h.getByEmail).Methods(http.MethodGet)
	r.HandleFunc("/status/{status}", h.listByStatus).Methods(http.MethodGet)
	r.HandleFunc("/search", h.search).Methods(http.MethodGet)
	r.HandleFunc("/with-active-orders", h.withActiveOrders).Methods(http.MethodGet)
	r.HandleFunc("/top-customers", h.topCustomers).Methods(http.MethodGet)
	r.HandleFunc("/exists", h.exists).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.Create(r.Context(), req.createInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, r, "User created successfully", user.ToResponse(u))
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req UserRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.Update(r.Context(), id, req.updateInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "User updated successfully", user.ToResponse(u))
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, user.ToResponse(u))
}

func (h *UserHandler) getByEmail(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, user.ToResponse(u))
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, "createdAt", "DESC")
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.users.List(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, utils.MapPage(res, user.ToResponse))
}

func (h *UserHandler) listByStatus(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, "createdAt", "DESC")
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := user.Status(strings.ToUpper(mux.Vars(r)["status"]))
	res, err := h.users.ListByStatus(r.Context(), status, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, utils.MapPage(res, user.ToResponse))
}

func (h *UserHandler) search(w http.ResponseWriter, r *http.Request) {
	name, err := queryString(r, "name")
	if err != nil {
		writeError(w, r, err)
		return
	}

	users, err := h.users.SearchByName(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, user.ToResponses(users))
}

func (h *UserHandler) withActiveOrders(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.WithActiveOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, user.ToResponses(users))
}

func (h *UserHandler) topCustomers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", user.DefaultTopCustomers, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	users, err := h.users.TopCustomers(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, user.ToResponses(users))
}

func (h *UserHandler) exists(w http.ResponseWriter, r *http.Request) {
	email, err := queryString(r, "email")
	if err != nil {
		writeError(w, r, err)
		return
	}

	exists, err := h.users.ExistsByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, exists)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, r, "User deleted successfully", nil)
}
