package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chrisdamba/foodcloud/internal/cart"
	"github.com/chrisdamba/foodcloud/internal/checkout"
	"github.com/chrisdamba/foodcloud/internal/dashboard"
	"github.com/chrisdamba/foodcloud/internal/menu"
	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/chrisdamba/foodcloud/internal/orders"
	"github.com/chrisdamba/foodcloud/internal/session"
	"github.com/chrisdamba/foodcloud/internal/simulator"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const SessionCookie = "foodcloud_session"

type Handler struct {
	Catalog   *menu.Catalog
	Sessions  *session.Registry
	Orders    *orders.Store
	Checkout  *checkout.Service
	Trackers  *simulator.Manager
	Dashboard *dashboard.Dashboard
	QR        QRGenerator
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/menu/categories", h.getCategories).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{id}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{id}", h.removeCartItem).Methods("DELETE")

	r.HandleFunc("/api/checkout", h.placeOrder).Methods("POST")

	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/status", h.updateOrderStatus).Methods("PUT")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
	r.HandleFunc("/api/orders/{id}/tracking", h.getTracking).Methods("GET")
	r.HandleFunc("/api/orders/{id}/tracking", h.startTracking).Methods("POST")
	r.HandleFunc("/api/orders/{id}/tracking", h.stopTracking).Methods("DELETE")

	r.HandleFunc("/api/dashboard", h.getDashboard).Methods("GET")
	r.HandleFunc("/api/dashboard/orders/{id}/advance", h.advanceOrder).Methods("POST")
	r.HandleFunc("/api/dashboard/orders/{id}/cancel", h.cancelOrder).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "foodcloud",
		"orders":    h.Orders.Len(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// cart resolves the session cart, issuing a cookie for new sessions.
func (h *Handler) cart(w http.ResponseWriter, r *http.Request) *cart.Store {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	store, used := h.Sessions.Cart(id)
	if used != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    used,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return store
}

type menuItemView struct {
	models.MenuItem
	InCart int `json:"inCart"`
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	q := r.URL.Query()
	items := h.Catalog.Filter(q.Get("q"), q.Get("category"))
	out := make([]menuItemView, 0, len(items))
	for _, item := range items {
		out = append(out, menuItemView{MenuItem: item, InCart: c.Quantity(item.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Categories())
}

type cartView struct {
	Items      []models.CartLine `json:"items"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	TotalItems int               `json:"totalItems"`
	Toast      *models.Toast     `json:"toast,omitempty"`
}

func newCartView(c *cart.Store) cartView {
	return cartView{
		Items:      c.Items(),
		TotalPrice: c.TotalPrice(),
		TotalItems: c.TotalItems(),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCartView(h.cart(w, r)))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	var req struct {
		ID int `json:"id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	item, ok := h.Catalog.Get(req.ID)
	if !ok {
		writeError(w, http.StatusNotFound, "Menu item not found")
		return
	}
	c.AddItem(item)
	view := newCartView(c)
	toast := models.AddedToCartToast(item.Name)
	view.Toast = &toast
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	c.UpdateQuantity(id, *req.Quantity)
	writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	c.RemoveItem(id)
	writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	c.Clear()
	writeJSON(w, http.StatusOK, newCartView(c))
}

// placeOrder checks out the session cart and starts its live tracker.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	var info models.CustomerInfo
	if err := decodeJSON(w, r, &info); err != nil {
		writeDecodeError(w, err)
		return
	}
	res, err := h.Checkout.PlaceOrder(c, info)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Toast: &res.Toast})
		return
	}
	if _, err := h.Trackers.Track(res.Order.ID); err != nil {
		log.Warn().Err(err).Str("order_id", res.Order.ID).Msg("could not start tracker")
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Orders.UserOrders())
}

func orderID(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["id"])
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.Orders.GetOrderByID(orderID(r))
	if !ok {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := orderID(r)
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if _, ok := h.Orders.GetOrderByID(id); !ok {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	err := h.Orders.UpdateOrderStatus(id, models.OrderStatus(req.Status))
	switch {
	case errors.Is(err, orders.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, orders.ErrTerminalStatus):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	order, _ := h.Orders.GetOrderByID(id)
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id := orderID(r)
	if _, ok := h.Orders.GetOrderByID(id); !ok {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	png, err := h.QR.Generate(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) getTracking(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Trackers.Snapshot(orderID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) startTracking(w http.ResponseWriter, r *http.Request) {
	t, err := h.Trackers.Track(orderID(r))
	if errors.Is(err, simulator.ErrUnknownOrder) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t.Snapshot())
}

func (h *Handler) stopTracking(w http.ResponseWriter, r *http.Request) {
	if !h.Trackers.Untrack(orderID(r)) {
		writeError(w, http.StatusNotFound, "Order is not being tracked")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Dashboard.View())
}

func (h *Handler) advanceOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Dashboard.Advance(orderID(r))
	h.writeDashboardResult(w, order, err)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Dashboard.Cancel(orderID(r))
	h.writeDashboardResult(w, order, err)
}

func (h *Handler) writeDashboardResult(w http.ResponseWriter, order models.Order, err error) {
	switch {
	case errors.Is(err, dashboard.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, dashboard.ErrNoAction), errors.Is(err, orders.ErrTerminalStatus),
		errors.Is(err, orders.ErrStatusChanged):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, order)
	}
}
