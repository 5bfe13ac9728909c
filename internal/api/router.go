package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/api/handlers"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/api/middleware"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/auth"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/config"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/events"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/participants"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/users"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/metrics"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// BuildInfo is exposed on /healthz and /version, set via ldflags at build.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// NewRouter wires repositories, services, handlers, and the middleware chain
// into the server's HTTP handler.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, build BuildInfo) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	usersService := users.NewService(repo.Users())
	eventsService := events.NewService(repo.Events())
	participantsService := participants.NewService(repo.Participants())

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	authHandler := handlers.NewAuthHandler(usersService, jwtManager, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment)
	participantsHandler := handlers.NewParticipantsHandler(participantsService, cfg.Environment)
	health := handlers.NewHealthChecker(pool, build.Version, build.GitCommit)

	bearer := middleware.BearerAuth(jwtManager, usersService, cfg.Environment)
	organizer := middleware.RequireOrganizer(cfg.Environment)
	organizerTier := middleware.WithRateLimitTierHandler(middleware.TierOrganizer)
	loginTier := middleware.WithRateLimitTierHandler(middleware.TierLogin)

	// The tier must land in the context before the limiter reads it, so the
	// limiter sits inside the tier wrapper on every route.
	limit := middleware.RateLimit(cfg.RateLimit)

	public := func(h http.HandlerFunc) http.Handler {
		return limit(h)
	}
	login := func(h http.HandlerFunc) http.Handler {
		return loginTier(limit(h))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return organizerTier(limit(bearer(organizer(h))))
	}

	mux := http.NewServeMux()

	mux.Handle("/healthz", http.HandlerFunc(health.Healthz))
	mux.Handle("/readyz", http.HandlerFunc(health.Readyz))
	mux.Handle("/version", VersionHandler(build.Version, build.GitCommit, build.BuildDate))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/auth/register", methodMux(map[string]http.Handler{
		http.MethodPost: login(authHandler.Register),
	}))
	mux.Handle("/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: login(authHandler.Login),
	}))

	mux.Handle("/events/{$}", methodMux(map[string]http.Handler{
		http.MethodGet: public(eventsHandler.List),
	}))
	mux.Handle("/events/create", methodMux(map[string]http.Handler{
		http.MethodPost: protected(eventsHandler.Create),
	}))
	mux.Handle("/events/update/{id}", methodMux(map[string]http.Handler{
		http.MethodPut: protected(eventsHandler.Update),
	}))
	mux.Handle("/events/delete/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: protected(eventsHandler.Delete),
	}))
	mux.Handle("/events/organizer", methodMux(map[string]http.Handler{
		http.MethodGet: protected(eventsHandler.ListByOrganizer),
	}))
	mux.Handle("/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet: public(eventsHandler.Get),
	}))

	mux.Handle("/participants/create/{id}", methodMux(map[string]http.Handler{
		http.MethodPost: protected(participantsHandler.Create),
	}))
	mux.Handle("/participants/event/{id}", methodMux(map[string]http.Handler{
		http.MethodGet: protected(participantsHandler.ListByEvent),
	}))
	mux.Handle("/participants/delete/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: protected(participantsHandler.Delete),
	}))
	mux.Handle("/participants/update/{id}", methodMux(map[string]http.Handler{
		http.MethodPut: protected(participantsHandler.Update),
	}))
	mux.Handle("/participants/{id}", methodMux(map[string]http.Handler{
		http.MethodGet: protected(participantsHandler.Get),
	}))

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)

	return handler, nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
