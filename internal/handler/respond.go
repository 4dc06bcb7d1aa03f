package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/taxmantraa/backend/internal/repository"
	"github.com/taxmantraa/backend/internal/service"
	"github.com/taxmantraa/backend/internal/validation"
)

const (
	maxBodyBytes       = 64 << 10
	maxUserAgentLength = 500

	msgInvalidBody    = "Invalid request body"
	msgInternal       = "Internal server error. Please try again later."
	msgNotFound       = "Not found"
	msgValidationFail = "Validation failed"
)

type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

type pagination struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Count   int `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// decodeJSON reads a single JSON object from the body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// writeError maps service errors to responses. kind names the record in
// duplicate-key messages, e.g. "service inquiry".
func writeError(w http.ResponseWriter, r *http.Request, err error, kind string) {
	if ve, ok := validation.AsErrors(err); ok {
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: ve.Summary(), Errors: ve.Messages})
		return
	}
	var dup *repository.DuplicateKeyError
	if errors.As(err, &dup) {
		writeMessage(w, http.StatusConflict, fmt.Sprintf("A %s with this %s already exists", kind, dup.Field))
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeMessage(w, http.StatusInternalServerError, msgInternal)
}

// clientMeta returns the submitter's IP and user agent. The IP is the first
// X-Forwarded-For entry, else X-Real-IP; values that do not parse are dropped.
func clientMeta(r *http.Request) (ip, userAgent string) {
	candidate := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidate = strings.TrimSpace(first)
	}
	if parsed := net.ParseIP(candidate); parsed != nil {
		ip = parsed.String()
	}

	userAgent = r.UserAgent()
	if len(userAgent) > maxUserAgentLength {
		userAgent = truncateUTF8(userAgent, maxUserAgentLength)
	}
	return ip, userAgent
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// pageParams reads limit and page. Missing or invalid values fall back to
// the defaults; limit is capped at service.MaxPageSize.
func pageParams(r *http.Request) (limit, page int) {
	q := r.URL.Query()
	limit = service.DefaultPageSize
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		limit = min(n, service.MaxPageSize)
	}
	page = 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		page = n
	}
	return limit, page
}

func newPagination(page, limit, count int) pagination {
	return pagination{
		Current: page,
		Total:   (count + limit - 1) / limit,
		Count:   count,
	}
}
