package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/unrolled/secure"

	"github.com/Simplici0/costeo/internal/cache"
	"github.com/Simplici0/costeo/internal/config"
	"github.com/Simplici0/costeo/internal/httpx"
	"github.com/Simplici0/costeo/internal/store"
)

type server struct {
	store *store.Store
	cache *cache.Cache
	log   zerolog.Logger
	now   func() time.Time
}

func newServer(st *store.Store, c *cache.Cache, l zerolog.Logger) *server {
	return &server{store: st, cache: c, log: l, now: time.Now}
}

func (s *server) routes(cfg config.Config) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      cfg.IsDev(),
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(secureMiddleware.Handler)
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", s.handleSettingsGet)
		r.Put("/settings", s.handleSettingsPut)

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", s.handleIngredientsList)
			r.Post("/", s.handleIngredientsCreate)
			r.Post("/import", s.handleIngredientsImport)
			r.Get("/export", s.handleIngredientsExport)
			r.Put("/{id}", s.handleIngredientsUpdate)
			r.Delete("/{id}", s.handleIngredientsDelete)
			r.Post("/{id}/visibility", s.handleIngredientsToggle)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleProductsList)
			r.Post("/", s.handleProductsCreate)
			r.Get("/stats", s.handleProductStats)
			r.Get("/{id}", s.handleProductsGet)
			r.Put("/{id}", s.handleProductsUpdate)
			r.Delete("/{id}", s.handleProductsDelete)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", s.handleTicketsList)
			r.Post("/", s.handleTicketsCreate)
			r.Delete("/{id}", s.handleTicketsDelete)
		})

		r.Get("/reports", s.handleReport)
	})

	return r
}

// requestLogger logs one line per request and puts a request-scoped logger
// on the context for handlers and respondError.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		l := s.log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(l.WithContext(r.Context())))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ev := l.Info()
		if status >= http.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// invalidate drops every cached report after a mutation.
func (s *server) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	cacheStatus := "disabled"
	if s.cache.Enabled() {
		cacheStatus = "ok"
		if err := s.cache.Ping(r.Context()); err != nil {
			cacheStatus = "unavailable"
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "cache": cacheStatus})
}
