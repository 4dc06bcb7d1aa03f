package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/taxmantraa/backend/internal/model"
)

func validContactInput() ContactInput {
	return ContactInput{
		Name:    "Jo",
		Email:   "a@b.com",
		Phone:   "+1234567890",
		Message: "Hello there, need help",
	}
}

func validInquiryInput() ServiceInquiryInput {
	return ServiceInquiryInput{
		Name:             "Ravi Kumar",
		Email:            "ravi@example.in",
		Mobile:           "+919876543210",
		Occupation:       "Salaried",
		ServiceCategory:  model.CategoryIncomeTax,
		SelectedServices: ServiceList{"ITR Filing"},
		Message:          "Need help filing my return",
	}
}

func messagesOf(t *testing.T, err error) []string {
	t.Helper()
	ve, ok := AsErrors(err)
	if !ok {
		t.Fatalf("expected *Errors, got %T (%v)", err, err)
	}
	return ve.Messages
}

func containsMessage(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Contact
// ---------------------------------------------------------------------------

func TestContact_Valid(t *testing.T) {
	in := validContactInput()
	in.Name = "  Jo  "
	in.Email = "  Someone@Example.COM "

	c, err := Contact(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Jo" {
		t.Errorf("expected trimmed name, got %q", c.Name)
	}
	if c.Email != "someone@example.com" {
		t.Errorf("expected lower-cased email, got %q", c.Email)
	}
	if c.Status != model.ContactStatusUnread || c.Priority != model.PriorityMedium || c.Source != model.SourceWebsite {
		t.Errorf("expected defaults, got %q/%q/%q", c.Status, c.Priority, c.Source)
	}
}

func TestContact_MissingFieldsNamed(t *testing.T) {
	msgs := messagesOf(t, func() error { _, err := Contact(ContactInput{}); return err }())

	want := []string{"Name is required", "Email is required", "Phone number is required", "Message is required"}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %v", len(want), msgs)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("message %d: want %q, got %q", i, want[i], msgs[i])
		}
	}
}

func TestContact_WhitespaceOnlyIsMissing(t *testing.T) {
	in := validContactInput()
	in.Message = "     "
	_, err := Contact(in)
	msgs := messagesOf(t, err)
	if len(msgs) != 1 || msgs[0] != "Message is required" {
		t.Errorf("expected only 'Message is required', got %v", msgs)
	}
}

func TestContact_LengthLimits(t *testing.T) {
	in := validContactInput()
	in.Name = "J"
	in.Message = "short"
	msgs := messagesOf(t, func() error { _, err := Contact(in); return err }())

	if !containsMessage(msgs, "Name must be at least 2 characters long") {
		t.Errorf("missing name length message: %v", msgs)
	}
	if !containsMessage(msgs, "Message must be at least 10 characters long") {
		t.Errorf("missing message length message: %v", msgs)
	}

	in = validContactInput()
	in.Message = strings.Repeat("x", 1001)
	msgs = messagesOf(t, func() error { _, err := Contact(in); return err }())
	if msgs[0] != "Message cannot exceed 1000 characters" {
		t.Errorf("unexpected message %v", msgs)
	}
}

func TestContact_Email(t *testing.T) {
	for _, bad := range []string{"plainaddress", "a@b", "a@b.c", "a b@c.com"} {
		in := validContactInput()
		in.Email = bad
		msgs := messagesOf(t, func() error { _, err := Contact(in); return err }())
		if msgs[0] != "Please enter a valid email address" {
			t.Errorf("%q: unexpected messages %v", bad, msgs)
		}
	}
}

func TestContact_Phone(t *testing.T) {
	good := []string{"+1234567890", "+91 98765 43210", "+1 (123) 456-7890", "123-456-7890", "123.456.7890"}
	for _, p := range good {
		in := validContactInput()
		in.Phone = p
		if _, err := Contact(in); err != nil {
			t.Errorf("%q should be accepted: %v", p, err)
		}
	}
	bad := []string{"0123456789", "12345", "(123) 456-7890", "+1-abc-defg", "phone"}
	for _, p := range bad {
		in := validContactInput()
		in.Phone = p
		_, err := Contact(in)
		if err == nil {
			t.Errorf("%q should be rejected", p)
			continue
		}
		if !containsMessage(messagesOf(t, err), "valid phone number") {
			t.Errorf("%q: unexpected messages %v", p, messagesOf(t, err))
		}
	}
}

func TestCheckContact_EnumsAndOptionalFields(t *testing.T) {
	c, err := Contact(validContactInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Status = "deleted"
	c.Priority = "whenever"
	c.IPAddress = "999.1.1.1"
	c.Tags = []string{strings.Repeat("t", 51)}

	msgs := messagesOf(t, CheckContact(c))
	for _, want := range []string{
		"Status must be one of unread, read, replied, archived",
		"Priority must be one of low, medium, high, urgent",
		"Invalid IP address format",
		"Each tag cannot exceed 50 characters",
	} {
		if !containsMessage(msgs, want) {
			t.Errorf("missing %q in %v", want, msgs)
		}
	}
}

func TestCheckContact_AcceptsIPv6(t *testing.T) {
	c, _ := Contact(validContactInput())
	c.IPAddress = "2001:db8::1"
	if err := CheckContact(c); err != nil {
		t.Errorf("IPv6 should be accepted: %v", err)
	}
}

// ---------------------------------------------------------------------------
// ServiceInquiry
// ---------------------------------------------------------------------------

func TestServiceInquiry_Valid(t *testing.T) {
	in := validInquiryInput()
	in.SelectedServices = ServiceList{"  ITR Filing ", "Tax Planning"}
	s, err := ServiceInquiry(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.SelectedServices[0] != "ITR Filing" || s.SelectedServices[1] != "Tax Planning" {
		t.Errorf("expected trimmed ordered services, got %v", s.SelectedServices)
	}
	if s.Status != model.InquiryStatusPending || s.LeadSource != model.DefaultLeadSource {
		t.Errorf("expected defaults, got %q/%q", s.Status, s.LeadSource)
	}
}

func TestServiceInquiry_EmptyServices(t *testing.T) {
	for _, services := range []ServiceList{nil, {}} {
		in := validInquiryInput()
		in.SelectedServices = services
		_, err := ServiceInquiry(in)
		ve, ok := AsErrors(err)
		if !ok {
			t.Fatalf("expected validation error for %v", services)
		}
		if ve.Summary() != "Please select at least one service" {
			t.Errorf("unexpected summary %q", ve.Summary())
		}
	}
}

func TestServiceInquiry_BlankServiceEntry(t *testing.T) {
	in := validInquiryInput()
	in.SelectedServices = ServiceList{"ITR Filing", "   "}
	msgs := messagesOf(t, func() error { _, err := ServiceInquiry(in); return err }())
	if msgs[0] != "Selected services cannot contain empty entries" {
		t.Errorf("unexpected messages %v", msgs)
	}
}

func TestServiceInquiry_UnknownCategory(t *testing.T) {
	in := validInquiryInput()
	in.ServiceCategory = "payroll"
	msgs := messagesOf(t, func() error { _, err := ServiceInquiry(in); return err }())
	want := "Service category must be one of income-tax-services, gst-business-services, certifications-others"
	if msgs[0] != want {
		t.Errorf("want %q, got %v", want, msgs)
	}
}

func TestServiceInquiry_Mobile(t *testing.T) {
	for _, m := range []string{"+919876543210", "98765 43210", "987-654-3210"} {
		in := validInquiryInput()
		in.Mobile = m
		if _, err := ServiceInquiry(in); err != nil {
			t.Errorf("%q should be accepted: %v", m, err)
		}
	}
	for _, m := range []string{"09876543210", "+91987654321012345", "abc"} {
		in := validInquiryInput()
		in.Mobile = m
		if _, err := ServiceInquiry(in); err == nil {
			t.Errorf("%q should be rejected", m)
		}
	}
}

func TestServiceInquiry_MissingFields(t *testing.T) {
	msgs := messagesOf(t, func() error { _, err := ServiceInquiry(ServiceInquiryInput{}); return err }())
	for _, want := range []string{
		"Name is required", "Email is required", "Mobile number is required",
		"Occupation is required", "Service category is required",
		"Please select at least one service", "Message is required",
	} {
		if !containsMessage(msgs, want) {
			t.Errorf("missing %q in %v", want, msgs)
		}
	}
}

func TestServiceList_NonArrayDecodesToNil(t *testing.T) {
	var in ServiceInquiryInput
	if err := json.Unmarshal([]byte(`{"selectedServices":"ITR Filing"}`), &in); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if in.SelectedServices != nil {
		t.Errorf("expected nil services, got %v", in.SelectedServices)
	}

	if err := json.Unmarshal([]byte(`{"selectedServices":["a","b"]}`), &in); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(in.SelectedServices) != 2 {
		t.Errorf("expected two services, got %v", in.SelectedServices)
	}
}

func TestErrors_Summary(t *testing.T) {
	one := &Errors{Messages: []string{"Email is required"}}
	if one.Summary() != "Email is required" {
		t.Errorf("unexpected summary %q", one.Summary())
	}
	many := &Errors{Messages: []string{"a", "b"}}
	if many.Summary() != "Validation failed" {
		t.Errorf("unexpected summary %q", many.Summary())
	}
}
