package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the REST surface. The webhook stays outside the auth
// middleware; the gateway calls it, not a user.
func NewRouter(carts CartAPI, checkouts CheckoutAPI, categories CategoryAPI, jwtSecret []byte, requestTimeout time.Duration) *chi.Mux {
	cartHandler := NewCartHandler(carts)
	checkoutHandler := NewCheckoutHandler(checkouts)
	categoryHandler := NewCategoryHandler(categories)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/checkout/webhook", checkoutHandler.Webhook)

	r.Group(func(r chi.Router) {
		r.Use(Auth(jwtSecret))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/get-cart-by-id", cartHandler.GetCart)
			r.Post("/add-to-cart", cartHandler.AddItem)
			r.Patch("/update-cart", cartHandler.UpdateItem)
			r.Post("/remove-from-cart/{productId}", cartHandler.RemoveItem)
			r.With(RequireAdmin).Get("/get-cart/all", cartHandler.ListAll)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/create-checkout", checkoutHandler.CreateCheckout)
			r.Patch("/update-checkout/{checkoutId}", checkoutHandler.UpdateStatus)
			r.With(RequireAdmin).Get("/get-checkout/{checkoutId}", checkoutHandler.GetOrder)
			r.With(RequireAdmin).Get("/get-all-checkout", checkoutHandler.ListAll)
		})

		r.Route("/category", func(r chi.Router) {
			r.Get("/get-categories/{id}", categoryHandler.Subtree)
			r.With(RequireAdmin).Post("/create-category", categoryHandler.Create)
			r.With(RequireAdmin).Delete("/delete-category/{id}", categoryHandler.Delete)
		})
	})

	return r
}
