package main

import (
	"net/http"

	"github.com/Simplici0/costeo/internal/httpx"
	"github.com/Simplici0/costeo/internal/ledger"
	"github.com/Simplici0/costeo/internal/reports"
	"github.com/Simplici0/costeo/internal/settings"
	"github.com/Simplici0/costeo/internal/sheet"
	"github.com/Simplici0/costeo/internal/store"
)

// problems maps domain sentinels to response statuses.
var problems = httpx.ErrorMapper{
	{Err: store.ErrNotFound, Status: http.StatusNotFound},
	{Err: ledger.ErrDuplicateName, Status: http.StatusConflict, Title: "Duplicate"},

	{Err: ledger.ErrInvalidIngredient, Status: http.StatusBadRequest, Title: "Validation Failed"},
	{Err: store.ErrInvalidProduct, Status: http.StatusBadRequest, Title: "Validation Failed"},
	{Err: settings.ErrInvalid, Status: http.StatusBadRequest, Title: "Validation Failed"},
	{Err: reports.ErrUnknownPeriod, Status: http.StatusBadRequest, Title: "Validation Failed"},
	{Err: sheet.ErrUnknownFormat, Status: http.StatusBadRequest, Title: "Validation Failed"},

	{Err: sheet.ErrNoValidRows, Status: http.StatusUnprocessableEntity, Title: "Unprocessable"},
	{Err: sheet.ErrUnreadable, Status: http.StatusUnprocessableEntity, Title: "Unprocessable"},
	{Err: reports.ErrEmptyTicket, Status: http.StatusUnprocessableEntity, Title: "Unprocessable"},
	{Err: reports.ErrNotSellable, Status: http.StatusUnprocessableEntity, Title: "Unprocessable"},
	{Err: reports.ErrInvalidQuantity, Status: http.StatusUnprocessableEntity, Title: "Unprocessable"},
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	problems.Respond(w, r, err)
}
