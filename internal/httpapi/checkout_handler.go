package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CheckoutHandler struct {
	checkouts CheckoutAPI
}

func NewCheckoutHandler(checkouts CheckoutAPI) *CheckoutHandler {
	return &CheckoutHandler{checkouts: checkouts}
}

func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	var req struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	clientSecret, err := h.checkouts.CreateCheckout(r.Context(), userID, req.PaymentMethod)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// The caller gets the client secret only, never the full order.
	respondJSON(w, http.StatusCreated, map[string]string{"clientSecret": clientSecret})
}

func (h *CheckoutHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "checkoutId"))
	if err != nil {
		respondError(w, http.StatusNotFound, "invalid checkout id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := h.checkouts.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "checkoutId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid checkout id")
		return
	}

	order, err := h.checkouts.GetOrder(r.Context(), orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *CheckoutHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkouts.ListAllOrders(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// Webhook receives payment status callbacks from the gateway. The mapping
// onto order transitions is idempotent, so redeliveries are harmless.
func (h *CheckoutHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var event struct {
		PaymentIntentID string `json:"paymentIntentId"`
		Status          string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if event.PaymentIntentID == "" || event.Status == "" {
		respondError(w, http.StatusBadRequest, "paymentIntentId and status required")
		return
	}

	if err := h.checkouts.HandlePaymentEvent(r.Context(), event.PaymentIntentID, event.Status); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"received": "ok"})
}
