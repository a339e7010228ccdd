package main

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/costeo/internal/httpx"
	"github.com/Simplici0/costeo/internal/ledger"
	"github.com/Simplici0/costeo/internal/sheet"
)

const maxUploadBytes = 10 << 20

type ingredientRequest struct {
	Name             string  `json:"name" validate:"required,max=80"`
	Unit             string  `json:"unit" validate:"omitempty,oneof=Kg L Ud"`
	PricePerUnit     float64 `json:"pricePerUnit" validate:"gte=0"`
	DefaultSalePrice float64 `json:"defaultSalePrice" validate:"gte=0"`
	ShowInSales      bool    `json:"showInSales"`
}

func (req ingredientRequest) toIngredient(id string) ledger.Ingredient {
	return ledger.Ingredient{
		ID:               id,
		Name:             req.Name,
		Unit:             ledger.NormalizeUnit(ledger.Unit(req.Unit)),
		PricePerUnit:     req.PricePerUnit,
		DefaultSalePrice: req.DefaultSalePrice,
		ShowInSales:      req.ShowInSales,
	}
}

type importResponse struct {
	Rows    int `json:"rows"`
	Updated int `json:"updated"`
	Added   int `json:"added"`
}

func (s *server) handleIngredientsList(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.Ledger(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, l)
}

func (s *server) handleIngredientsCreate(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.store.AddIngredient(r.Context(), req.toIngredient(""))
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	httpx.JSON(w, http.StatusCreated, created)
}

func (s *server) handleIngredientsUpdate(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.store.UpdateIngredient(r.Context(), req.toIngredient(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	httpx.JSON(w, http.StatusOK, updated)
}

func (s *server) handleIngredientsDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteIngredient(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleIngredientsToggle(w http.ResponseWriter, r *http.Request) {
	ing, err := s.store.ToggleIngredientVisibility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	httpx.JSON(w, http.StatusOK, ing)
}

func (s *server) handleIngredientsImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, r, fmt.Errorf("parse upload: %v: %w", err, httpx.ErrValidation))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, fmt.Errorf("form field file: %v: %w", err, httpx.ErrValidation))
		return
	}
	defer file.Close()

	format, err := sheet.ParseFormat(r.URL.Query().Get("format"))
	if r.URL.Query().Get("format") == "" {
		format, err = sheet.FormatFromFilename(header.Filename)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := sheet.Read(file, format)
	if err != nil {
		respondError(w, r, err)
		return
	}
	merged, err := s.store.ImportIngredients(r.Context(), rows)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidate(r.Context())

	s.log.Info().Str("file", header.Filename).Int("rows", len(rows)).
		Int("updated", merged.Updated).Int("added", merged.Added).Msg("ingredients imported")
	httpx.JSON(w, http.StatusOK, importResponse{Rows: len(rows), Updated: merged.Updated, Added: merged.Added})
}

func (s *server) handleIngredientsExport(w http.ResponseWriter, r *http.Request) {
	format, err := sheet.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	l, err := s.store.Ledger(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := sheet.Write(&buf, format, l); err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="costes.%s"`, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
