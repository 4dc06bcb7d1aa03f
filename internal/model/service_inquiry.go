package model

import (
	"strings"
	"time"
)

// Service inquiry statuses.
const (
	InquiryStatusPending    = "pending"
	InquiryStatusContacted  = "contacted"
	InquiryStatusInProgress = "in-progress"
	InquiryStatusCompleted  = "completed"
	InquiryStatusCancelled  = "cancelled"
)

// Service categories offered on the website.
const (
	CategoryIncomeTax      = "income-tax-services"
	CategoryGSTBusiness    = "gst-business-services"
	CategoryCertifications = "certifications-others"
)

// DefaultLeadSource tags inquiries coming from the website form.
const DefaultLeadSource = "website-form"

var (
	InquiryStatuses   = []string{InquiryStatusPending, InquiryStatusContacted, InquiryStatusInProgress, InquiryStatusCompleted, InquiryStatusCancelled}
	ServiceCategories = []string{CategoryIncomeTax, CategoryGSTBusiness, CategoryCertifications}
)

var categoryNames = map[string]string{
	CategoryIncomeTax:      "Income Tax Services",
	CategoryGSTBusiness:    "GST & Business Services",
	CategoryCertifications: "Certifications & Others",
}

// ServiceInquiryRecord is a request for one or more services in a category.
type ServiceInquiryRecord struct {
	ID               string    `json:"id"`
	Name             string    `json:"name" label:"Name" validate:"required,max=100"`
	Email            string    `json:"email" label:"Email" validate:"required,inquiryemail"`
	Mobile           string    `json:"mobile" label:"Mobile number" validate:"required,max=20,mobile"`
	Occupation       string    `json:"occupation" label:"Occupation" validate:"required,max=100"`
	ServiceCategory  string    `json:"serviceCategory" label:"Service category" validate:"required,oneof=income-tax-services gst-business-services certifications-others"`
	SelectedServices []string  `json:"selectedServices" label:"Selected services" validate:"required,min=1,dive,required,max=200"`
	Message          string    `json:"message" label:"Message" validate:"required,max=2000"`
	Status           string    `json:"status" label:"Status" validate:"oneof=pending contacted in-progress completed cancelled"`
	Priority         string    `json:"priority" label:"Priority" validate:"oneof=low medium high urgent"`
	IPAddress        string    `json:"ipAddress,omitempty" label:"IP address" validate:"omitempty,ip"`
	UserAgent        string    `json:"userAgent,omitempty" label:"User agent" validate:"omitempty,max=500"`
	LeadSource       string    `json:"leadSource" label:"Lead source" validate:"max=100"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// StripSensitive clears fields that must not leave the trust boundary in list views.
func (s *ServiceInquiryRecord) StripSensitive() {
	s.IPAddress = ""
	s.UserAgent = ""
}

// ServiceInquiryUpdate is a partial update; nil fields are left untouched.
type ServiceInquiryUpdate struct {
	Status   *string `label:"Status" validate:"omitnil,oneof=pending contacted in-progress completed cancelled"`
	Priority *string `label:"Priority" validate:"omitnil,oneof=low medium high urgent"`
}

// IsEmpty reports whether the update would change nothing.
func (u ServiceInquiryUpdate) IsEmpty() bool {
	return u.Status == nil && u.Priority == nil
}

// ServiceInquiryListOptions carries filter and pagination parameters for listing inquiries.
type ServiceInquiryListOptions struct {
	Status          string
	ServiceCategory string
	Limit           int
	Offset          int
}

// ApplyInquiryDefaults fills unset fields with their defaults.
func ApplyInquiryDefaults(s *ServiceInquiryRecord) {
	if s.Status == "" {
		s.Status = InquiryStatusPending
	}
	if s.Priority == "" {
		s.Priority = PriorityMedium
	}
	if s.LeadSource == "" {
		s.LeadSource = DefaultLeadSource
	}
}

// InquiryNumber derives the customer-facing reference from a record id:
// "INQ-" followed by the last 8 characters, upper-cased.
func InquiryNumber(id string) string {
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return "INQ-" + strings.ToUpper(id)
}

// CategoryName returns the display name of a service category.
func CategoryName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return category
}
