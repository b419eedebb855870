// Package http wires the service layer to the inbound REST surface.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/internal/store"
	"github.com/triptab/triptab/pkg/httpx"
	"github.com/triptab/triptab/pkg/jwtx"
	"github.com/triptab/triptab/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	cookies CookieConfig

	LoginService   *service.LoginService
	SessionService *service.SessionService
	TripService    *service.TripService
	ProfileService *service.ProfileService
	PlannerService *service.PlannerService
	SOSService     *service.SOSService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	cookies CookieConfig,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cookies:      cookies,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.MetricsMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProfile()
	r.registerTrips()
	r.registerPlanner()
	r.registerSOS()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn guards a handler with access-token authentication.
func (r *Router) authn(h http.Handler) http.Handler {
	return httpx.Chain(h, httpx.AuthnMiddleware(r.verifier, AccessCookie))
}

func (r *Router) registerAuth() {
	begin := &LoginBeginHandler{LoginService: r.LoginService, Verifier: r.verifier, Cookies: r.cookies}
	callback := &LoginCallbackHandler{
		LoginService:   r.LoginService,
		SessionService: r.SessionService,
		Verifier:       r.verifier,
		Cookies:        r.cookies,
	}

	r.Mux.Handle("GET /api/auth/providers", &ProvidersHandler{LoginService: r.LoginService})

	// Login endpoints are the abuse target, so they get their own limit.
	r.Mux.Handle("GET /api/auth/{provider}",
		httpx.Chain(begin, httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("GET /api/auth/{provider}/callback",
		httpx.Chain(callback, httpx.RateLimitByIP(httpx.ModerateLimit)))

	r.Mux.Handle("GET /api/auth/me",
		r.authn(&MeHandler{LoginService: r.LoginService}))
	r.Mux.Handle("POST /api/auth/refresh",
		httpx.Chain(
			&RefreshHandler{SessionService: r.SessionService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("POST /api/auth/logout",
		&LogoutHandler{SessionService: r.SessionService, Cookies: r.cookies})
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{ProfileService: r.ProfileService}
	r.Mux.Handle("GET /api/profile", r.authn(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("PUT /api/profile", r.authn(http.HandlerFunc(h.HandlePut)))
}

func (r *Router) registerTrips() {
	h := &TripsHandler{TripService: r.TripService}
	r.Mux.Handle("GET /api/trips", r.authn(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("POST /api/trips", r.authn(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /api/trips/{id}", r.authn(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("GET /api/trips/{id}/balances", r.authn(http.HandlerFunc(h.HandleBalances)))
	r.Mux.Handle("POST /api/trips/{id}/expenses", r.authn(http.HandlerFunc(h.HandleAddExpense)))
	r.Mux.Handle("PUT /api/trips/{id}/expenses/{eid}", r.authn(http.HandlerFunc(h.HandleUpdateExpense)))
	r.Mux.Handle("POST /api/trips/{id}/expenses/{eid}/settle", r.authn(http.HandlerFunc(h.HandleToggleSettled)))
	r.Mux.Handle("DELETE /api/trips/{id}/expenses/{eid}", r.authn(http.HandlerFunc(h.HandleDeleteExpense)))
}

func (r *Router) registerPlanner() {
	h := &TasksHandler{PlannerService: r.PlannerService}
	r.Mux.Handle("GET /api/tasks", r.authn(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("POST /api/tasks", r.authn(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("POST /api/tasks/import", r.authn(http.HandlerFunc(h.HandleImport)))
	r.Mux.Handle("PUT /api/tasks/{id}", r.authn(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /api/tasks/{id}", r.authn(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerSOS() {
	h := &SOSHandler{SOSService: r.SOSService}
	r.Mux.Handle("GET /api/sos", r.authn(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("POST /api/sos", r.authn(http.HandlerFunc(h.HandleCreate)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", httpx.MetricsHandler())
}
