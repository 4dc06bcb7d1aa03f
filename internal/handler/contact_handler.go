package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/taxmantraa/backend/internal/model"
	"github.com/taxmantraa/backend/internal/notify"
	"github.com/taxmantraa/backend/internal/service"
	"github.com/taxmantraa/backend/internal/validation"
)

// ContactNotifier starts the notification mails for a stored contact.
type ContactNotifier interface {
	DispatchContact(ctx context.Context, c *model.ContactRecord, marker notify.DeliveryMarker)
}

// ContactHandler handles contact form submission and the admin contact API.
type ContactHandler struct {
	contactService service.ContactService
	notifier       ContactNotifier
	now            func() time.Time
}

// NewContactHandler creates a ContactHandler. notifier may be nil.
func NewContactHandler(contactService service.ContactService, notifier ContactNotifier) *ContactHandler {
	return &ContactHandler{contactService: contactService, notifier: notifier, now: time.Now}
}

type contactSubmitResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// contactView adds the computed presentation fields to a contact.
type contactView struct {
	*model.ContactRecord
	ContactAge    string `json:"contactAge"`
	FormattedName string `json:"formattedName"`
}

type contactListResponse struct {
	Contacts   []contactView `json:"contacts"`
	Pagination pagination    `json:"pagination"`
}

func (h *ContactHandler) view(c *model.ContactRecord) contactView {
	return contactView{
		ContactRecord: c,
		ContactAge:    model.ContactAge(c.CreatedAt, h.now()),
		FormattedName: model.FormattedName(c.Name),
	}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in validation.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	contact, err := validation.Contact(in)
	if err != nil {
		writeError(w, r, err, "contact")
		return
	}
	contact.IPAddress, contact.UserAgent = clientMeta(r)

	if err := h.contactService.Submit(r.Context(), contact); err != nil {
		writeError(w, r, err, "contact")
		return
	}

	writeJSON(w, http.StatusCreated, contactSubmitResponse{
		OK:      true,
		Message: "Message sent successfully!",
		ID:      contact.ID,
	})

	if h.notifier != nil {
		h.notifier.DispatchContact(r.Context(), contact, h.contactService)
	}
}

// AdminList handles GET /api/admin/contacts.
// Query params: status, priority ("all" or empty for no filter), limit, page.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	limit, page := pageParams(r)
	q := r.URL.Query()

	contacts, total, err := h.contactService.List(r.Context(), model.ContactListOptions{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		writeError(w, r, err, "contact")
		return
	}

	views := make([]contactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, h.view(c))
	}
	writeJSON(w, http.StatusOK, contactListResponse{
		Contacts:   views,
		Pagination: newPagination(page, limit, total),
	})
}

// AdminGet handles GET /api/admin/contacts/{id}.
func (h *ContactHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.contactService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "contact")
		return
	}
	writeJSON(w, http.StatusOK, h.view(c))
}

// contactPatchRequest is the body of PATCH /api/admin/contacts/{id}.
type contactPatchRequest struct {
	Status     *string  `json:"status"`
	Priority   *string  `json:"priority"`
	Notes      *string  `json:"notes"`
	AssignedTo *string  `json:"assignedTo"`
	Tags       []string `json:"tags"`
}

// AdminUpdate handles PATCH /api/admin/contacts/{id}.
func (h *ContactHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	var req contactPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	c, err := h.contactService.Update(r.Context(), r.PathValue("id"), model.ContactUpdate{
		Status:     req.Status,
		Priority:   req.Priority,
		Notes:      req.Notes,
		AssignedTo: req.AssignedTo,
		Tags:       req.Tags,
	})
	if err != nil {
		writeError(w, r, err, "contact")
		return
	}
	writeJSON(w, http.StatusOK, h.view(c))
}

// AdminMarkRead handles POST /api/admin/contacts/{id}/read.
func (h *ContactHandler) AdminMarkRead(w http.ResponseWriter, r *http.Request) {
	c, err := h.contactService.MarkAsRead(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "contact")
		return
	}
	writeJSON(w, http.StatusOK, h.view(c))
}
