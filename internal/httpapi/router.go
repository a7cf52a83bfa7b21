package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles the per-domain handlers the router mounts.
type Handlers struct {
	Cart     *CartHandler
	Orders   *OrderHandler
	Menu     *MenuHandler
	Promos   *PromoHandler
	ETA      *ETAHandler
	Location *LocationHandler
	Settings *SettingsHandler
	Accounts *AccountHandler
}

func NewRouter(h Handlers, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(AuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{item_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{item_id}", h.Cart.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Orders.PlaceOrder)
			r.Get("/", h.Orders.ListOrders)
			r.Post("/{order_id}/delivered", h.Orders.MarkDelivered)
		})

		r.Route("/menu", func(r chi.Router) {
			r.Post("/sections", h.Menu.AddSection)
			r.Delete("/sections/{section_id}", h.Menu.RemoveSection)
			r.Post("/items", h.Menu.AddItem)
			r.Put("/items/{item_id}", h.Menu.UpdateItem)
			r.Delete("/items/{item_id}", h.Menu.RemoveItem)
		})

		r.Route("/promos", func(r chi.Router) {
			r.Post("/", h.Promos.AddPromo)
			r.Get("/", h.Promos.ListPromos)
			r.Delete("/{promo_id}", h.Promos.RemovePromo)
		})

		r.Get("/eta", h.ETA.Estimate)

		r.Route("/location", func(r chi.Router) {
			r.Put("/", h.Location.Share)
			r.Get("/{role}/{owner_id}", h.Location.Get)
			r.Post("/failure", h.Location.Failure)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/theme", h.Settings.GetTheme)
			r.Put("/theme", h.Settings.SetTheme)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Put("/client", h.Accounts.SaveClient)
			r.Get("/client", h.Accounts.GetClient)
			r.Put("/provider", h.Accounts.SaveProvider)
			r.Get("/providers", h.Accounts.ListProviders)
			r.Get("/providers/{provider_id}", h.Accounts.GetProvider)
			r.Get("/providers/{provider_id}/menu", h.Menu.Menu)
		})
	})

	return r
}
