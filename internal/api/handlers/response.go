package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MsgNotFoundURL is returned for unmatched routes and malformed ids.
const MsgNotFoundURL = "The URL does not exist"

const msgInternal = "Something went wrong, try again later"

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

func respondInternal(w http.ResponseWriter) {
	respondMessage(w, http.StatusInternalServerError, msgInternal)
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusNotFound, MsgNotFoundURL)
}

// MethodNotAllowed answers requests whose route exists under another method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL")
}

// Hello is the landing endpoint of the second API version.
func Hello(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"Welcome": "Hello world"})
}

// decodeJSON reads the request body into dst. It writes a 400 and returns
// false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// requireField writes a 400 when value is blank.
func requireField(w http.ResponseWriter, name, value string) bool {
	if strings.TrimSpace(value) == "" {
		respondMessage(w, http.StatusBadRequest, fmt.Sprintf("%s is required", name))
		return false
	}
	return true
}

// pathID parses a numeric URL parameter. Routes constrain ids to digits, so
// a failure here is an out of range value and is treated like a missing route.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		respondMessage(w, http.StatusNotFound, MsgNotFoundURL)
		return 0, false
	}
	return id, true
}

// pageRequest reads q, page and per_page from the query string. A supplied
// per_page below the minimum, zero included, is raised to the minimum; only
// an absent one takes the default.
func pageRequest(w http.ResponseWriter, r *http.Request) (services.PageRequest, bool) {
	query := r.URL.Query()
	req := services.PageRequest{Query: query.Get("q")}

	page, ok := intParam(w, query, "page")
	if !ok {
		return services.PageRequest{}, false
	}
	perPage, ok := intParam(w, query, "per_page")
	if !ok {
		return services.PageRequest{}, false
	}
	if page != nil {
		req.Page = *page
	}
	if perPage != nil {
		req.PerPage = max(*perPage, services.PerPageMin)
	}
	return req.Normalize(), true
}

// intParam parses an optional integer query parameter; nil means absent.
func intParam(w http.ResponseWriter, query url.Values, name string) (*int, bool) {
	raw := query.Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
		return nil, false
	}
	return &n, true
}

// currentUser returns the authenticated user's id and token claims.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, *auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		respondInternal(w)
		return 0, nil, false
	}
	id, err := claims.UserID()
	if err != nil {
		log.Error().Err(err).Str("subject", claims.Subject).Msg("Malformed token subject")
		respondMessage(w, http.StatusUnauthorized, auth.MsgInvalidToken)
		return 0, nil, false
	}
	return id, claims, true
}
