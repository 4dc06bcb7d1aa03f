package notify

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Failure is an operator-facing description of a delivery error.
type Failure struct {
	Message   string
	Retryable bool
}

var authMarkers = []string{"535", "invalid login", "authentication failed", "auth"}

// Classify maps a delivery error to a readable reason and a retry hint.
// Nothing retries today; the hint only goes to the logs.
func Classify(err error) Failure {
	var dnsErr *net.DNSError
	var netErr net.Error

	switch {
	case err == nil:
		return Failure{}
	case errors.Is(err, ErrNotConfigured):
		return Failure{Message: "Email notifications are not configured. Set EMAIL_USER and EMAIL_PASS."}
	case errors.As(err, &dnsErr):
		return Failure{Message: "Mail servers are unreachable. Please try again later.", Retryable: true}
	case errors.Is(err, syscall.ECONNREFUSED):
		return Failure{Message: "Email service connection refused. Please try again later.", Retryable: true}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return Failure{Message: "Email service timed out. Please try again.", Retryable: true}
	}

	msg := strings.ToLower(err.Error())
	for _, m := range authMarkers {
		if strings.Contains(msg, m) {
			return Failure{Message: "Email authentication failed. Please verify the SMTP credentials."}
		}
	}
	return Failure{Message: "Unable to send email notification at this time.", Retryable: true}
}
