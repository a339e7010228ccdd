package httpx

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// ErrValidation marks malformed or invalid request input.
var ErrValidation = errors.New("validation failed")

// StatusMapping ties an error, matched with errors.Is, to a response status.
// An empty Title falls back to the status text.
type StatusMapping struct {
	Err    error
	Status int
	Title  string
}

// ErrorMapper turns errors into RFC7807 responses. Mappings are tried in
// order; FieldErrors and ErrValidation always answer 400.
type ErrorMapper []StatusMapping

// Respond writes the problem response for err. Unmapped errors are logged
// through the request logger and answered with a bare 500.
func (m ErrorMapper) Respond(w http.ResponseWriter, r *http.Request, err error) {
	var fields *FieldErrors
	if errors.As(err, &fields) {
		writeProblem(w, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Fields: fields.Fields,
		})
		return
	}

	for _, sm := range m {
		if errors.Is(err, sm.Err) {
			title := sm.Title
			if title == "" {
				title = http.StatusText(sm.Status)
			}
			Problem(w, sm.Status, title, err.Error())
			return
		}
	}

	if errors.Is(err, ErrValidation) {
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

// RespondError answers with no domain mappings.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	ErrorMapper(nil).Respond(w, r, err)
}
