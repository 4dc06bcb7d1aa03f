package handler

import (
	"net/http"

	"github.com/taxmantraa/backend/internal/model"
	"github.com/taxmantraa/backend/internal/service"
	"github.com/taxmantraa/backend/internal/validation"
)

const inquiryKind = "service inquiry"

// ServiceInquiryHandler handles service inquiry submission and listing.
type ServiceInquiryHandler struct {
	inquiryService service.ServiceInquiryService
}

func NewServiceInquiryHandler(inquiryService service.ServiceInquiryService) *ServiceInquiryHandler {
	return &ServiceInquiryHandler{inquiryService: inquiryService}
}

type inquirySubmitResponse struct {
	OK            bool   `json:"ok"`
	Message       string `json:"message"`
	ID            string `json:"id"`
	InquiryNumber string `json:"inquiryNumber"`
}

type inquiryListResponse struct {
	Inquiries  []*model.ServiceInquiryRecord `json:"inquiries"`
	Pagination pagination                    `json:"pagination"`
}

// inquiryView adds the computed presentation fields to an inquiry.
type inquiryView struct {
	*model.ServiceInquiryRecord
	InquiryNumber       string `json:"inquiryNumber"`
	ServiceCategoryName string `json:"serviceCategoryName"`
}

func newInquiryView(s *model.ServiceInquiryRecord) inquiryView {
	return inquiryView{
		ServiceInquiryRecord: s,
		InquiryNumber:        model.InquiryNumber(s.ID),
		ServiceCategoryName:  model.CategoryName(s.ServiceCategory),
	}
}

// Submit handles POST /api/service-inquiry.
func (h *ServiceInquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in validation.ServiceInquiryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	inquiry, err := validation.ServiceInquiry(in)
	if err != nil {
		writeError(w, r, err, inquiryKind)
		return
	}
	inquiry.IPAddress, inquiry.UserAgent = clientMeta(r)

	if err := h.inquiryService.Submit(r.Context(), inquiry); err != nil {
		writeError(w, r, err, inquiryKind)
		return
	}

	writeJSON(w, http.StatusCreated, inquirySubmitResponse{
		OK:            true,
		Message:       "Service inquiry submitted successfully! We will contact you soon.",
		ID:            inquiry.ID,
		InquiryNumber: model.InquiryNumber(inquiry.ID),
	})
}

// List handles GET /api/service-inquiry.
// Query params: status, serviceCategory, limit (default 10), page (default 1).
func (h *ServiceInquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, page := pageParams(r)
	q := r.URL.Query()

	inquiries, total, err := h.inquiryService.List(r.Context(), model.ServiceInquiryListOptions{
		Status:          q.Get("status"),
		ServiceCategory: q.Get("serviceCategory"),
		Limit:           limit,
		Offset:          (page - 1) * limit,
	})
	if err != nil {
		writeError(w, r, err, inquiryKind)
		return
	}
	if inquiries == nil {
		inquiries = []*model.ServiceInquiryRecord{}
	}
	writeJSON(w, http.StatusOK, inquiryListResponse{
		Inquiries:  inquiries,
		Pagination: newPagination(page, limit, total),
	})
}

// AdminGet handles GET /api/admin/service-inquiries/{id}.
func (h *ServiceInquiryHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.inquiryService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, inquiryKind)
		return
	}
	writeJSON(w, http.StatusOK, newInquiryView(s))
}

type inquiryPatchRequest struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

// AdminUpdate handles PATCH /api/admin/service-inquiries/{id}.
func (h *ServiceInquiryHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	var req inquiryPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	s, err := h.inquiryService.Update(r.Context(), r.PathValue("id"), model.ServiceInquiryUpdate{
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		writeError(w, r, err, inquiryKind)
		return
	}
	writeJSON(w, http.StatusOK, newInquiryView(s))
}
