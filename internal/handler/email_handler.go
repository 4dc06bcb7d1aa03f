package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/taxmantraa/backend/internal/notify"
)

// MailVerifier checks the outgoing mail configuration.
type MailVerifier interface {
	Verify(ctx context.Context) error
}

// EmailHandler exposes the SMTP configuration test.
type EmailHandler struct {
	verifier MailVerifier
}

func NewEmailHandler(verifier MailVerifier) *EmailHandler {
	return &EmailHandler{verifier: verifier}
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Verify handles POST /api/admin/email/verify.
func (h *EmailHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err := h.verifier.Verify(ctx)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, verifyResponse{Success: true, Message: "Email configuration is valid"})
	case errors.Is(err, notify.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, verifyResponse{Message: notify.Classify(err).Message})
	default:
		slog.WarnContext(r.Context(), "smtp verification failed", "error", err)
		writeJSON(w, http.StatusBadGateway, verifyResponse{
			Message: "Email configuration failed: " + notify.Classify(err).Message,
		})
	}
}
