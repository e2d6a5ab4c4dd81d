package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/apierror"
	"github.com/pkordes/tripplanner/internal/domain"
)

// genericMessage is shown for every unexpected failure; details go to the log.
const genericMessage = "Something went wrong. Please try again."

// writeJSON sends v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto the error envelope. notFound is the
// message for ErrNotFound because the handler knows what was being looked up.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		apierror.Write(w, http.StatusNotFound, apierror.New(apierror.CodeNotFound, notFound))
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrIndexOutOfRange):
		apierror.Write(w, http.StatusUnprocessableEntity, apierror.New(apierror.CodeValidation, unwrapMessage(err)))
	case errors.Is(err, domain.ErrForbidden):
		apierror.Write(w, http.StatusForbidden, apierror.New(apierror.CodeForbidden, "you do not have permission to change this trip"))
	case errors.Is(err, domain.ErrUnauthenticated):
		apierror.Write(w, http.StatusUnauthorized, apierror.New(apierror.CodeUnauthenticated, "sign in to continue"))
	case errors.Is(err, domain.ErrCatalogEmpty):
		s.log.ErrorContext(r.Context(), "no catalog data", "error", err, "request_id", middleware.GetReqID(r.Context()))
		apierror.Write(w, http.StatusInternalServerError, apierror.New(apierror.CodeInternal, "Failed to generate itinerary. Please try again."))
	default:
		s.log.ErrorContext(r.Context(), "request failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		apierror.Write(w, http.StatusInternalServerError, apierror.New(apierror.CodeInternal, genericMessage))
	}
}

// requestError rejects a request before it reaches the service layer.
func requestError(w http.ResponseWriter, message string) {
	apierror.Write(w, http.StatusUnprocessableEntity, apierror.New(apierror.CodeValidation, message))
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel.
// e.g. "service.SavedTripService.Save: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	msg := err.Error()
	const validation = "validation error: "
	if i := strings.LastIndex(msg, validation); i >= 0 {
		return msg[i+len(validation):]
	}
	if i := strings.Index(msg, domain.ErrIndexOutOfRange.Error()); i >= 0 {
		return msg[i:]
	}
	return msg
}

// decodeBody reads a JSON request body into v. It writes the error response
// itself and reports whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		apierror.Write(w, http.StatusRequestEntityTooLarge, apierror.New(apierror.CodeTooLarge, "request body is too large"))
	case errors.Is(err, io.EOF):
		requestError(w, "request body is required")
	default:
		requestError(w, "invalid request body: "+err.Error())
	}
	return false
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		requestError(w, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads ?page= and ?limit=. Missing or malformed values fall back
// to the defaults of domain.NewPaginationParams.
func pagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.NewPaginationParams(queryInt(q.Get("page")), queryInt(q.Get("limit")))
}

func queryInt(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// pageResponse is the envelope for paginated listings.
type pageResponse[T any] struct {
	Data       []T      `json:"data"`
	Pagination pageInfo `json:"pagination"`
}

type pageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func newPageResponse[T any](page domain.Page[T], p domain.PaginationParams) pageResponse[T] {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return pageResponse[T]{Data: items, Pagination: pageInfo{Page: p.Page, Limit: p.Limit, Total: page.Total}}
}
