package router

import (
	"net/http"
	"time"

	"bookstore/internal/auth"
	"bookstore/internal/handler"
	"bookstore/internal/middleware"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Book  *handler.BookHandler
	Cart  *handler.CartHandler
	Order *handler.OrderHandler
}

// Options controls the optional parts of the middleware chain.
type Options struct {
	APIKey string

	// Limiter throttles per-user mutations. Nil disables rate limiting.
	Limiter *middleware.Limiter

	// Sessions loads and saves the browser session around cart and
	// checkout routes. Required when carts are stored in the session.
	Sessions *scs.SessionManager
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Order: RequestID -> Recovery -> Logging -> CORS -> APIKeyAuth
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(opts.APIKey, logger))
	r.Use(chimw.Timeout(30 * time.Second))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", h.Book.List)
		r.Get("/books/{id}", h.Book.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(logger))
			r.Use(middleware.RecordUser)

			// Catalogue and order administration
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(logger))
				r.Post("/books", h.Book.Create)
				r.Put("/books/{id}", h.Book.Update)
				r.Delete("/books/{id}", h.Book.Delete)
				r.Post("/orders/{id}/complete", h.Order.Complete)
			})

			r.Get("/orders", h.Order.List)
			r.Get("/orders/{id}", h.Order.Get)

			r.Group(func(r chi.Router) {
				if opts.Sessions != nil {
					r.Use(opts.Sessions.LoadAndSave)
				}

				r.Get("/cart", h.Cart.View)

				r.Group(func(r chi.Router) {
					if opts.Limiter != nil {
						r.Use(middleware.RateLimit(opts.Limiter, logger))
					}
					r.Post("/cart/add/{book_id}", h.Cart.Add)
					r.Post("/cart/item/{item_id}", h.Cart.UpdateItem)
					r.Delete("/cart/item/{item_id}", h.Cart.RemoveItem)
					r.Post("/checkout", h.Order.Checkout)
				})
			})
		})
	})

	return r
}
