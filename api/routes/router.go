package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andresfigueroa/salescap-backend/api/controllers"
	"github.com/andresfigueroa/salescap-backend/api/middleware"
	"github.com/andresfigueroa/salescap-backend/internal/pricecuts"
	"github.com/andresfigueroa/salescap-backend/internal/purchases"
	"github.com/andresfigueroa/salescap-backend/pkg/config"
	"github.com/andresfigueroa/salescap-backend/pkg/db"
	"github.com/andresfigueroa/salescap-backend/pkg/logger"
	"github.com/andresfigueroa/salescap-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsRegistry *prometheus.Registry,
	priceCutService pricecuts.Service,
	purchaseService purchases.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Without redis the idempotency guarantee cannot be honored, so the
		// middleware is left out entirely and writes go straight through.
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/price-cuts", func(r chi.Router) {
			r.Get("/", controllers.ListPriceCuts(priceCutService, logg))
			r.Post("/", controllers.CreatePriceCut(priceCutService, logg))
			r.Get("/product/{productID}", controllers.ListPriceCutsByProduct(priceCutService, logg))
			r.Get("/{priceCutID}", controllers.GetPriceCut(priceCutService, logg))
			r.Put("/{priceCutID}", controllers.UpdatePriceCut(priceCutService, logg))
			r.Delete("/{priceCutID}", controllers.DeletePriceCut(priceCutService, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/process", controllers.ProcessPurchase(purchaseService, logg))
			r.Get("/customer/{customerID}/price-cut/{priceCutID}", controllers.GetCustomerPurchaseStatus(purchaseService, logg))
		})
	})

	return r
}
