package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"coaching-subscription/internal/usecase"
)

type ServerOptions struct {
	Timeout time.Duration
	// CORSOrigins lists the browser origins allowed to call the API. Empty
	// disables cross-origin access.
	CORSOrigins []string
	Dev         bool
}

// Server exposes the subscription and refund workflows over JSON.
type Server struct {
	subs    usecase.SubscriptionUseCase
	cancels usecase.CancellationUseCase
	auth    *Authenticator
	timeout time.Duration
	origins []string
	dev     bool
	log     *zerolog.Logger
}

func NewServer(
	subs usecase.SubscriptionUseCase,
	cancels usecase.CancellationUseCase,
	auth *Authenticator,
	opts ServerOptions,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "HTTPServer").Logger()
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Server{
		subs:    subs,
		cancels: cancels,
		auth:    auth,
		timeout: opts.Timeout,
		origins: opts.CORSOrigins,
		dev:     opts.Dev,
		log:     &l,
	}
}

// Router builds the route tree. Admin checks happen in the use cases, so
// admin routes only need an authenticated caller.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(s.log), RequestID(), RequestLog(s.log))
	// cors treats an empty origin list as allow-all.
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Timeout(s.timeout))
		r.Get("/plans", s.handleListPlans)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)

			r.Post("/purchases", s.handlePurchase)
			r.Get("/memberships/current", s.handleCurrentMembership)
			r.Post("/memberships/{id}/cancellation", s.handleRequestCancellation)
			r.Post("/cancellations/{id}/receipt", s.handleConfirmReceived)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/payments/{id}/confirm", s.handleConfirmPayment)
				r.Post("/payments/{id}/reject", s.handleRejectPayment)
				r.Post("/cancellations/{id}/approve", s.handleApprove)
				r.Post("/cancellations/{id}/reject", s.handleRejectCancellation)
				r.Post("/cancellations/{id}/transfer", s.handleConfirmTransfer)
			})
		})
	})
	return r
}
