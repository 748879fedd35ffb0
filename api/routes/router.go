package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/madarsaconnect/madarsa-backend/api/controllers"
	"github.com/madarsaconnect/madarsa-backend/api/middleware"
	"github.com/madarsaconnect/madarsa-backend/internal/auth"
	"github.com/madarsaconnect/madarsa-backend/internal/changefeed"
	"github.com/madarsaconnect/madarsa-backend/internal/directory"
	"github.com/madarsaconnect/madarsa-backend/internal/geocode"
	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/internal/media"
	"github.com/madarsaconnect/madarsa-backend/internal/ownership"
	"github.com/madarsaconnect/madarsa-backend/internal/staff"
	"github.com/madarsaconnect/madarsa-backend/pkg/auth/session"
	"github.com/madarsaconnect/madarsa-backend/pkg/config"
	"github.com/madarsaconnect/madarsa-backend/pkg/db"
	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
	"github.com/madarsaconnect/madarsa-backend/pkg/pubsub"
	"github.com/madarsaconnect/madarsa-backend/pkg/redis"
	"github.com/madarsaconnect/madarsa-backend/pkg/storage/gcs"
)

// NewRouter assembles the full HTTP surface: public directory endpoints, the
// authenticated management API, auth, health, and metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	pubsubClient *pubsub.Client,
	sessionManager session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	institutionService institutions.Service,
	ownershipService ownership.Service,
	directoryService directory.Service,
	staffService staff.Service,
	mediaService media.Service,
	geocodeClient *geocode.Client,
	hub *changefeed.Hub,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.ReadinessProbe{Name: "database", Pinger: dbP},
			controllers.ReadinessProbe{Name: "redis", Pinger: redisClient},
			controllers.ReadinessProbe{Name: "gcs", Pinger: gcsClient},
			controllers.ReadinessProbe{Name: "pubsub", Pinger: pubsubClient},
		))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/directory", controllers.DirectoryBrowse(directoryService, logg))
		r.Get("/directory/stream", controllers.DirectoryStream(hub, logg))
		r.Get("/institutions/{id}", controllers.DirectoryDetail(institutionService, logg))
		r.Get("/institutions/{id}/staff", controllers.InstitutionStaff(staffService, logg))
		r.Post("/institutions/validate/step1", controllers.WizardValidateStep1(logg))
		r.Post("/institutions/validate/step2", controllers.WizardValidateStep2(logg))
		r.Get("/geocode/reverse", controllers.GeocodeReverse(geocodeClient, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))

		r.Route("/institutions", func(r chi.Router) {
			r.Post("/", controllers.InstitutionCreate(institutionService, logg))
			r.Get("/me", controllers.InstitutionMe(ownershipService, logg))
			r.Get("/me/stream", controllers.MeStream(ownershipService, sessionManager, hub, logg))
			r.Get("/mine", controllers.InstitutionMine(ownershipService, logg))
			r.Put("/{id}", controllers.InstitutionUpdate(institutionService, logg))
			r.Post("/{id}/media", controllers.InstitutionMediaUpload(mediaService, cfg.Media, logg))
			r.Get("/{id}/join-code", controllers.InstitutionJoinCode(institutionService, logg))
		})

		r.Post("/staff/join", controllers.StaffJoin(staffService, logg))
	})

	return r
}
