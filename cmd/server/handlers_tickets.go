package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/costeo/internal/cache"
	"github.com/Simplici0/costeo/internal/httpx"
	"github.com/Simplici0/costeo/internal/reports"
	"github.com/Simplici0/costeo/internal/settings"
)

type ticketRequest struct {
	IsGlovo bool               `json:"isGlovo"`
	Date    *time.Time         `json:"date"`
	Items   []reports.SaleLine `json:"items" validate:"required,min=1,dive"`
}

func (s *server) handleTicketsList(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.store.Tickets(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, reports.RecentTickets(tickets))
}

func (s *server) handleTicketsCreate(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	ctx := r.Context()
	products, err := s.store.Products(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	l, err := s.store.Ledger(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	cfg, err := s.store.Settings(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	at := s.now()
	if req.Date != nil {
		at = *req.Date
	}
	ticket, err := reports.BuildTicket(req.Items, products, l, cfg, req.IsGlovo, at)
	if err != nil {
		respondError(w, r, err)
		return
	}
	created, err := s.store.CreateTicket(ctx, ticket)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(ctx)
	httpx.JSON(w, http.StatusCreated, created)
}

func (s *server) handleTicketsDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTicket(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleReport serves the period report. The optional at parameter
// (RFC3339) replaces the current time as the reference point.
func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	period, err := reports.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	now := s.now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		now, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, r, fmt.Errorf("at must be RFC3339: %w", httpx.ErrValidation))
			return
		}
	}

	// Reports resolve to the minute; requests within the same minute share
	// a cache entry.
	inputs, err := cache.Hash(period, now.Truncate(time.Minute).Unix(), now.Location().String())
	if err != nil {
		respondError(w, r, err)
		return
	}
	key, err := s.cache.BuildKey(r.Context(), "report", string(period), inputs)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var report reports.Report
	err = s.cache.FetchJSON(r.Context(), key, &report, func(ctx context.Context) (any, error) {
		return s.buildReport(ctx, period, now)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (s *server) buildReport(ctx context.Context, period reports.Period, now time.Time) (reports.Report, error) {
	tickets, err := s.store.Tickets(ctx)
	if err != nil {
		return reports.Report{}, err
	}
	l, err := s.store.Ledger(ctx)
	if err != nil {
		return reports.Report{}, err
	}
	return reports.ComputePeriodReport(tickets, period, now, l), nil
}

func (s *server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.Settings(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

func (s *server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var req settings.Settings
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.store.SaveSettings(r.Context(), req); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	httpx.JSON(w, http.StatusOK, req)
}
