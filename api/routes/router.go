package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inkvault/inkvault-backend/api/controllers"
	webhookcontrollers "github.com/inkvault/inkvault-backend/api/controllers/webhooks"
	"github.com/inkvault/inkvault-backend/api/middleware"
	checkoutsvc "github.com/inkvault/inkvault-backend/internal/checkout"
	"github.com/inkvault/inkvault-backend/internal/entitlements"
	"github.com/inkvault/inkvault-backend/internal/ledger"
	"github.com/inkvault/inkvault-backend/internal/wallet"
	stripewebhook "github.com/inkvault/inkvault-backend/internal/webhooks/stripe"
	"github.com/inkvault/inkvault-backend/pkg/config"
	"github.com/inkvault/inkvault-backend/pkg/db"
	"github.com/inkvault/inkvault-backend/pkg/logger"
	"github.com/inkvault/inkvault-backend/pkg/redis"
	pkgstripe "github.com/inkvault/inkvault-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	walletService wallet.Service,
	checkoutService checkoutsvc.Service,
	entitlementService entitlements.Service,
	ledgerService ledger.Service,
	stripeClient *pkgstripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
	metricsRegistry *prometheus.Registry,
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

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg))
	})

	// Wallet reads serve anonymous visitors too.
	r.With(middleware.OptionalAuth(cfg.JWT, logg)).
		Get("/api/v1/wallet", controllers.WalletBalance(walletService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/checkout/session", controllers.CheckoutStart(checkoutService, logg))
		r.Route("/unlocks", func(r chi.Router) {
			r.Post("/", controllers.UnlockCreate(entitlementService, logg))
			r.Get("/", controllers.UnlockList(entitlementService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Get("/users/{userId}/ledger", controllers.AdminLedgerReconciliation(ledgerService, logg))
	})

	return r
}
