package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/costeo/internal/httpx"
	"github.com/Simplici0/costeo/internal/ledger"
	"github.com/Simplici0/costeo/internal/pricing"
	"github.com/Simplici0/costeo/internal/stats"
)

type recipeLineRequest struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
	Unit   string  `json:"unit" validate:"omitempty,oneof=Kg L Ud"`
}

type productRequest struct {
	Number      int                 `json:"number" validate:"gte=0"`
	Name        string              `json:"name" validate:"required,max=80"`
	Ingredients []recipeLineRequest `json:"ingredients" validate:"dive"`
	SalePrice   float64             `json:"salePrice" validate:"gte=0"`
	// IsActive defaults to true when omitted.
	IsActive *bool `json:"isActive"`
}

func (req productRequest) toProduct(id string) stats.Product {
	lines := make([]ledger.RecipeLine, 0, len(req.Ingredients))
	for _, in := range req.Ingredients {
		lines = append(lines, ledger.RecipeLine{
			IngredientName: ledger.NormalizeName(in.Name),
			Amount:         in.Amount,
			Unit:           ledger.NormalizeUnit(ledger.Unit(in.Unit)),
		})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return stats.Product{
		ID:          id,
		Number:      req.Number,
		Name:        req.Name,
		Ingredients: lines,
		SalePrice:   req.SalePrice,
		IsActive:    active,
	}
}

type productStatsResponse struct {
	Channel  string               `json:"channel"`
	Products []stats.ProductStats `json:"products"`
	ByMargin []stats.ProductStats `json:"byMargin"`
	ByProfit []stats.ProductStats `json:"byProfit"`
	Summary  stats.Summary        `json:"summary"`
}

func (s *server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.Products(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (s *server) handleProductsGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (s *server) handleProductsCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.store.CreateProduct(r.Context(), req.toProduct(""))
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	httpx.JSON(w, http.StatusCreated, created)
}

func (s *server) handleProductsUpdate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.store.UpdateProduct(r.Context(), req.toProduct(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	httpx.JSON(w, http.StatusOK, updated)
}

func (s *server) handleProductsDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleProductStats(w http.ResponseWriter, r *http.Request) {
	channel := pricing.ParseChannel(r.URL.Query().Get("channel"))

	key, err := s.cache.BuildKey(r.Context(), "stats", channel.String())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var resp productStatsResponse
	err = s.cache.FetchJSON(r.Context(), key, &resp, func(ctx context.Context) (any, error) {
		return s.buildProductStats(ctx, channel)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (s *server) buildProductStats(ctx context.Context, channel pricing.Channel) (productStatsResponse, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return productStatsResponse{}, err
	}
	l, err := s.store.Ledger(ctx)
	if err != nil {
		return productStatsResponse{}, err
	}
	cfg, err := s.store.Settings(ctx)
	if err != nil {
		return productStatsResponse{}, err
	}

	ps := stats.ComputeProductStats(products, l, cfg, channel)
	return productStatsResponse{
		Channel:  channel.String(),
		Products: ps,
		ByMargin: stats.RankByMargin(ps),
		ByProfit: stats.RankByProfit(ps),
		Summary:  stats.Summarize(ps),
	}, nil
}
