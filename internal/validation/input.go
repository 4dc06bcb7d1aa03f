package validation

import (
	"encoding/json"
	"strings"

	"github.com/taxmantraa/backend/internal/model"
)

// ContactInput is the raw body of a contact form submission.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ServiceInquiryInput is the raw body of a service inquiry submission.
type ServiceInquiryInput struct {
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Mobile           string      `json:"mobile"`
	Occupation       string      `json:"occupation"`
	ServiceCategory  string      `json:"serviceCategory"`
	SelectedServices ServiceList `json:"selectedServices"`
	Message          string      `json:"message"`
}

// ServiceList decodes a JSON array of strings. Any other JSON value decodes to
// nil so that it is reported as "no service selected" rather than a malformed body.
type ServiceList []string

func (l *ServiceList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// Contact normalizes and validates a contact submission.
func Contact(in ContactInput) (*model.ContactRecord, error) {
	c := &model.ContactRecord{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   strings.TrimSpace(in.Phone),
		Message: strings.TrimSpace(in.Message),
	}
	model.ApplyContactDefaults(c)
	if err := CheckContact(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ServiceInquiry normalizes and validates a service inquiry submission.
func ServiceInquiry(in ServiceInquiryInput) (*model.ServiceInquiryRecord, error) {
	var services []string
	if in.SelectedServices != nil {
		services = make([]string, len(in.SelectedServices))
		for i, s := range in.SelectedServices {
			services[i] = strings.TrimSpace(s)
		}
	}
	s := &model.ServiceInquiryRecord{
		Name:             strings.TrimSpace(in.Name),
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		Mobile:           strings.TrimSpace(in.Mobile),
		Occupation:       strings.TrimSpace(in.Occupation),
		ServiceCategory:  strings.TrimSpace(in.ServiceCategory),
		SelectedServices: services,
		Message:          strings.TrimSpace(in.Message),
	}
	model.ApplyInquiryDefaults(s)
	if err := CheckServiceInquiry(s); err != nil {
		return nil, err
	}
	return s, nil
}
