package handler

import (
	"net/http"

	"github.com/taxmantraa/backend/pkg/auth"
)

// Routes collects the handlers NewRouter mounts.
type Routes struct {
	Core       *Handler
	Contacts   *ContactHandler
	Inquiries  *ServiceInquiryHandler
	Email      *EmailHandler
	AdminToken string
	// Limiter guards the public submission endpoints. Nil disables limiting.
	Limiter *RateLimiter
}

// NewRouter builds the API mux wrapped in the standard middleware chain.
func NewRouter(rt Routes) http.Handler {
	limit := func(h http.HandlerFunc) http.Handler {
		if rt.Limiter == nil {
			return h
		}
		return rt.Limiter.Middleware(h)
	}
	admin := auth.RequireAdmin(rt.AdminToken)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", rt.Core.Health)

	mux.Handle("POST /api/contact", limit(rt.Contacts.Submit))
	mux.Handle("POST /api/service-inquiry", limit(rt.Inquiries.Submit))
	mux.HandleFunc("GET /api/service-inquiry", rt.Inquiries.List)

	mux.Handle("GET /api/admin/contacts", admin(http.HandlerFunc(rt.Contacts.AdminList)))
	mux.Handle("GET /api/admin/contacts/{id}", admin(http.HandlerFunc(rt.Contacts.AdminGet)))
	mux.Handle("PATCH /api/admin/contacts/{id}", admin(http.HandlerFunc(rt.Contacts.AdminUpdate)))
	mux.Handle("POST /api/admin/contacts/{id}/read", admin(http.HandlerFunc(rt.Contacts.AdminMarkRead)))
	mux.Handle("GET /api/admin/service-inquiries/{id}", admin(http.HandlerFunc(rt.Inquiries.AdminGet)))
	mux.Handle("PATCH /api/admin/service-inquiries/{id}", admin(http.HandlerFunc(rt.Inquiries.AdminUpdate)))
	if rt.Email != nil {
		mux.Handle("POST /api/admin/email/verify", admin(http.HandlerFunc(rt.Email.Verify)))
	}

	return RequestLogger(SecurityHeaders(rt.Core.CORS(mux)))
}
