package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/cartway/shop-backend/internal/payment"
	"github.com/cartway/shop-backend/internal/repository"
	"github.com/cartway/shop-backend/internal/service"
	"github.com/cartway/shop-backend/internal/stock"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError translates the service-layer taxonomy to HTTP. Unknown
// failures become an opaque 500; internals never leak to the client.
func respondServiceError(w http.ResponseWriter, err error) {
	var stockErr *service.InsufficientStockError

	switch {
	case errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, stock.ErrProductNotFound),
		errors.Is(err, service.ErrCartItemNotFound):
		respondError(w, http.StatusNotFound, err.Error())

	case errors.As(err, &stockErr),
		errors.Is(err, stock.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrNegativeQuantity),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrCannotCreateCart),
		errors.Is(err, service.ErrItemNotInCart),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, payment.ErrGateway):
		respondError(w, http.StatusBadRequest, err.Error())

	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
