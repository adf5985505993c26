package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
	applog "github.com/0xtz/trackzy-finance-app/internal/log"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorResponse struct {
	Error  string           `json:"error"`
	Fields core.FieldErrors `json:"fields,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps a service failure onto the wire: validation errors
// become 422 with per-field detail, anything else is an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fields core.FieldErrors
	if errors.As(err, &fields) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "Validation failed",
			Fields: fields,
		})
		return
	}
	slog.ErrorContext(r.Context(), "Request failed", applog.FieldError, err, applog.FieldPath, r.URL.Path)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Not found")
}

// ownerID extracts the acting owner from the X-User-Id header. The upstream
// gateway authenticates; this service only scopes by the forwarded identity.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-User-Id header")
		return "", false
	}
	return owner, true
}

// decodeBody parses the JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// parsePage reads page and pageSize query parameters. Out-of-range and
// malformed values are clamped to defaults rather than rejected.
func parsePage(r *http.Request) core.PageRequest {
	var req core.PageRequest
	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Page = n
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("pageSize")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.PageSize = n
		}
	}
	return req.Normalize()
}

// parseDateRange reads from and to query parameters as YYYY-MM-DD dates.
// The to bound is extended to the end of its day so the range stays
// inclusive. An empty range falls back to the current month downstream.
func parseDateRange(r *http.Request) (core.DateRange, error) {
	var dr core.DateRange

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return dr, fmt.Errorf("invalid from date %q", v)
		}
		dr.From = t.UTC()
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return dr, fmt.Errorf("invalid to date %q", v)
		}
		dr.To = t.UTC().AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return dr, nil
}

// parsePurchased reads the optional purchased filter. nil means no filter.
func parsePurchased(r *http.Request) (*bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get("purchased"))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid purchased value %q", v)
	}
	return &b, nil
}

// parseCategoryType reads the optional type filter. Empty means both types.
func parseCategoryType(r *http.Request) (core.CategoryType, error) {
	v := strings.TrimSpace(r.URL.Query().Get("type"))
	if v == "" {
		return "", nil
	}
	typ := core.CategoryType(v)
	if !typ.Valid() {
		return "", fmt.Errorf("invalid category type %q", v)
	}
	return typ, nil
}

// listKey builds a cache key from the owner, page and filter parts.
func listKey(resource, owner string, page core.PageRequest, filters ...string) string {
	key := resource + "|" + owner + "|" + strconv.Itoa(page.Page) + "|" + strconv.Itoa(page.PageSize)
	for _, f := range filters {
		key += "|" + f
	}
	return key
}

// rangeKey renders a resolved date range for cache keys. Handlers resolve
// defaults before keying so an implicit current-month listing cached before
// a month rollover cannot serve the old window afterwards.
func rangeKey(dr core.DateRange) string {
	return dr.From.Format("2006-01-02") + ".." + dr.To.Format("2006-01-02")
}
