package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	"github.com/spendtrack/spendtrack/internal/spendtrack/service"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
	"github.com/spendtrack/spendtrack/pkg/httpx"
	"github.com/spendtrack/spendtrack/pkg/jwtx"
	"github.com/spendtrack/spendtrack/pkg/slogx"
)

// DefaultPolicy is the access table the whole service runs under. The
// exact paths listed are reachable without a token, anything under the
// admin prefix needs the admin role, everything else needs the user role.
func DefaultPolicy() httpx.Policy {
	return httpx.Policy{
		PublicPaths: []string{"/", "/signup", "/login", "/livez", "/readyz"},
		AdminPrefix: "/admin/",
		AdminRole:   domain.RoleAdmin,
		UserRole:    domain.RoleUser,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	AuthService     *service.AuthService
	UserService     *service.UserService
	ExpenseService  *service.ExpenseService
	AdminService    *service.AdminService
	IdentityService *service.IdentityService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// Global pipeline: request logging, then token authentication, then
	// the access policy. Authentication only annotates the request; the
	// policy stage is the one that turns anonymous requests away.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.AuthnMiddleware(r.verifier, r.IdentityService),
		httpx.PolicyMiddleware(DefaultPolicy()),
	}

	r.registerAuth()
	r.registerExpenses()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	signupHandler := &SignupHandler{AuthService: r.AuthService}
	loginHandler := &LoginHandler{AuthService: r.AuthService}

	// POST /signup - strict rate limit by IP (public account creation)
	r.Mux.Handle("POST /signup",
		httpx.Chain(signupHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerExpenses() {
	h := &ExpensesHandler{
		ExpenseService: r.ExpenseService,
		UserService:    r.UserService,
	}

	reads := httpx.RateLimitBySubject(httpx.LenientLimit)
	writes := httpx.RateLimitBySubject(httpx.ModerateLimit)

	r.Mux.Handle("GET /expenses", httpx.Chain(http.HandlerFunc(h.HandleList), reads))
	r.Mux.Handle("GET /expenses/categories", httpx.Chain(http.HandlerFunc(h.HandleCategories), reads))
	r.Mux.Handle("GET /expenses/day/{date}", httpx.Chain(http.HandlerFunc(h.HandleListByDay), reads))
	r.Mux.Handle("GET /expenses/category/{category}/month/{month}",
		httpx.Chain(http.HandlerFunc(h.HandleListByCategoryMonth), reads))
	r.Mux.Handle("GET /expenses/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), reads))

	r.Mux.Handle("POST /expenses", httpx.Chain(http.HandlerFunc(h.HandleCreate), writes))
	r.Mux.Handle("PUT /expenses/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), writes))
	r.Mux.Handle("DELETE /expenses/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), writes))
}

func (r *Router) registerAdmin() {
	h := &AdminUsersHandler{AdminService: r.AdminService}

	// GET /admin/users - moderate rate limit by subject (admin read)
	r.Mux.Handle("GET /admin/users",
		httpx.Chain(h,
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /{$}",
		httpx.Chain(HomeHandler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Health check endpoints - lenient rate limits (monitoring systems
	// may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
