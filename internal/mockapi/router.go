package mockapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"presensi.client/pkg/logger"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", s.login).Methods(http.MethodPost)
	auth.HandleFunc("/register", s.register).Methods(http.MethodPost)
	auth.HandleFunc("/profile", s.requireAuth(s.profile)).Methods(http.MethodGet)
	auth.HandleFunc("/change-password", s.requireAuth(s.changePassword)).Methods(http.MethodPost)

	api.HandleFunc("/users", s.requireAdmin(s.listUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.requireAuth(s.getUser)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/status", s.requireAdmin(s.updateUserStatus)).Methods(http.MethodPatch)

	api.HandleFunc("/presensi", s.requireAuth(s.listPresensi)).Methods(http.MethodGet)
	api.HandleFunc("/presensi", s.requireAuth(s.createPresensi)).Methods(http.MethodPost)
	api.HandleFunc("/presensi/{id}", s.requireAuth(s.getPresensi)).Methods(http.MethodGet)
	api.HandleFunc("/presensi/{id}", s.requireAdmin(s.updatePresensi)).Methods(http.MethodPut)
	api.HandleFunc("/presensi/{id}", s.requireAdmin(s.deletePresensi)).Methods(http.MethodDelete)
	api.HandleFunc("/presensi/{id}/checkin", s.requireAuth(s.checkIn)).Methods(http.MethodPost)
	api.HandleFunc("/presensi/{id}/checkout", s.requireAuth(s.checkOut)).Methods(http.MethodPost)

	analytics := api.PathPrefix("/analytics").Subrouter()
	analytics.HandleFunc("/summary", s.requireAdmin(s.analyticsSummary)).Methods(http.MethodGet)
	analytics.HandleFunc("/daily", s.requireAdmin(s.analyticsDaily)).Methods(http.MethodGet)
	analytics.HandleFunc("/monthly", s.requireAdmin(s.analyticsMonthly)).Methods(http.MethodGet)
	analytics.HandleFunc("/user/{id}", s.requireAuth(s.analyticsUser)).Methods(http.MethodGet)
	analytics.HandleFunc("/status-breakdown", s.requireAdmin(s.analyticsStatusBreakdown)).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}

// Handler is the router wrapped with request logging and otelhttp server
// instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(requestLogger(s.NewRouter()), "presensi-api-mock")
}

// requestLogger attaches a trace-aware logger to each request context.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.EnrichContextWithLogger(r.Context())
		log.Ctx(ctx).Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("Request")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
