package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taxmantraa/backend/internal/model"
	"github.com/taxmantraa/backend/internal/notify"
	"github.com/taxmantraa/backend/internal/repository"
	"github.com/taxmantraa/backend/internal/validation"
)

const testContactID = "652f1c2e9b1e8a00aabbccdd"

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc     func(ctx context.Context, c *model.ContactRecord) error
	getFunc        func(ctx context.Context, id string) (*model.ContactRecord, error)
	listFunc       func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, int, error)
	updateFunc     func(ctx context.Context, id string, u model.ContactUpdate) (*model.ContactRecord, error)
	markAsReadFunc func(ctx context.Context, id string) (*model.ContactRecord, error)
}

func (m *mockContactService) Submit(ctx context.Context, c *model.ContactRecord) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, c)
	}
	c.ID = testContactID
	return nil
}

func (m *mockContactService) Get(ctx context.Context, id string) (*model.ContactRecord, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockContactService) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, 0, nil
}

func (m *mockContactService) Update(ctx context.Context, id string, u model.ContactUpdate) (*model.ContactRecord, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, u)
	}
	return nil, repository.ErrNotFound
}

func (m *mockContactService) UpdateStatus(ctx context.Context, id, status string) (*model.ContactRecord, error) {
	return m.Update(ctx, id, model.ContactUpdate{Status: &status})
}

func (m *mockContactService) MarkAsRead(ctx context.Context, id string) (*model.ContactRecord, error) {
	if m.markAsReadFunc != nil {
		return m.markAsReadFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockContactService) MarkEmailSent(ctx context.Context, id string) error     { return nil }
func (m *mockContactService) MarkAutoReplySent(ctx context.Context, id string) error { return nil }

type fakeNotifier struct {
	contacts []*model.ContactRecord
	markers  []notify.DeliveryMarker
}

func (f *fakeNotifier) DispatchContact(ctx context.Context, c *model.ContactRecord, marker notify.DeliveryMarker) {
	f.contacts = append(f.contacts, c)
	f.markers = append(f.markers, marker)
}

const validContactBody = `{"name":"Ravi Kumar","email":"Ravi@Example.com","phone":"+91 98765 43210","message":"I need help filing my income tax return."}`

func postContact(h *ContactHandler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// POST /api/contact
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured *model.ContactRecord
	svc := &mockContactService{
		submitFunc: func(ctx context.Context, c *model.ContactRecord) error {
			captured = c
			c.ID = testContactID
			return nil
		},
	}
	notifier := &fakeNotifier{}
	h := NewContactHandler(svc, notifier)

	rec := postContact(h, validContactBody, map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
		"User-Agent":      "Mozilla/5.0",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp contactSubmitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.Message != "Message sent successfully!" || resp.ID != testContactID {
		t.Errorf("unexpected response %+v", resp)
	}

	if captured == nil {
		t.Fatal("expected Submit to be called")
	}
	if captured.Email != "ravi@example.com" {
		t.Errorf("expected lower-cased email, got %q", captured.Email)
	}
	if captured.IPAddress != "203.0.113.7" {
		t.Errorf("expected first forwarded IP, got %q", captured.IPAddress)
	}
	if captured.UserAgent != "Mozilla/5.0" {
		t.Errorf("expected user agent to be recorded, got %q", captured.UserAgent)
	}

	if len(notifier.contacts) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(notifier.contacts))
	}
	if notifier.contacts[0].ID != testContactID {
		t.Errorf("dispatched contact has id %q", notifier.contacts[0].ID)
	}
	if notifier.markers[0] != svc {
		t.Error("expected the contact service to record deliveries")
	}
}

func TestContactHandler_Submit_NilNotifier(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	rec := postContact(h, validContactBody, nil)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 without a notifier, got %d", rec.Code)
	}
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	notifier := &fakeNotifier{}
	h := NewContactHandler(&mockContactService{}, notifier)

	rec := postContact(h, "{bad json", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid JSON, got %d", rec.Code)
	}
	var resp messageResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Message != "Invalid request body" {
		t.Errorf("expected message=Invalid request body, got %q", resp.Message)
	}
	if len(notifier.contacts) != 0 {
		t.Error("no notification expected for a rejected submission")
	}
}

func TestContactHandler_Submit_SingleValidationError(t *testing.T) {
	called := false
	svc := &mockContactService{
		submitFunc: func(ctx context.Context, c *model.ContactRecord) error {
			called = true
			return nil
		},
	}
	h := NewContactHandler(svc, &fakeNotifier{})

	body := `{"name":"R","email":"ravi@example.com","phone":"+919876543210","message":"I need help filing my return."}`
	rec := postContact(h, body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp validationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Name must be at least 2 characters long" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(resp.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", resp.Errors)
	}
	if called {
		t.Error("service must not be called for invalid input")
	}
}

func TestContactHandler_Submit_MultipleValidationErrors(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	rec := postContact(h, `{"email":"not-an-email"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp validationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Validation failed" {
		t.Errorf("expected generic heading, got %q", resp.Message)
	}
	want := []string{
		"Name is required",
		"Please enter a valid email address",
		"Phone number is required",
		"Message is required",
	}
	if strings.Join(resp.Errors, "|") != strings.Join(want, "|") {
		t.Errorf("errors = %v, want %v", resp.Errors, want)
	}
}

func TestContactHandler_Submit_Duplicate(t *testing.T) {
	svc := &mockContactService{
		submitFunc: func(ctx context.Context, c *model.ContactRecord) error {
			return &repository.DuplicateKeyError{Field: "email", Err: errors.New("E11000")}
		},
	}
	h := NewContactHandler(svc, nil)

	rec := postContact(h, validContactBody, nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var resp messageResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Message != "A contact with this email already exists" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestContactHandler_Submit_ServiceError(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := &mockContactService{
		submitFunc: func(ctx context.Context, c *model.ContactRecord) error {
			return errors.New("db connection lost")
		},
	}
	h := NewContactHandler(svc, notifier)

	rec := postContact(h, validContactBody, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on service error, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "db connection lost") {
		t.Error("internal error leaked into response")
	}
	if len(notifier.contacts) != 0 {
		t.Error("no notification expected when the contact was not stored")
	}
}

func TestContactHandler_Submit_ServiceValidationError(t *testing.T) {
	svc := &mockContactService{
		submitFunc: func(ctx context.Context, c *model.ContactRecord) error {
			return &validation.Errors{Messages: []string{"Invalid IP address format"}}
		},
	}
	h := NewContactHandler(svc, nil)

	rec := postContact(h, validContactBody, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestContactHandler_Submit_ContentTypeJSON(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	rec := postContact(h, validContactBody, nil)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type=application/json, got %q", ct)
	}
}

// ---------------------------------------------------------------------------
// Admin contact API
// ---------------------------------------------------------------------------

func TestContactHandler_AdminList(t *testing.T) {
	now := time.Date(2026, 4, 11, 12, 0, 0, 0, time.UTC)
	var captured model.ContactListOptions
	svc := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, int, error) {
			captured = opts
			return []*model.ContactRecord{
				{ID: "a", Name: "ravi kumar", Email: "ravi@example.com", Status: "unread", Tags: []string{}, CreatedAt: now.Add(-50 * time.Hour)},
				{ID: "b", Name: "asha", Email: "asha@example.com", Status: "unread", Tags: []string{}, CreatedAt: now.Add(-3 * time.Hour)},
			}, 25, nil
		},
	}
	h := NewContactHandler(svc, nil)
	h.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts?status=unread&priority=all&limit=10&page=2", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Status != "unread" || captured.Priority != "all" {
		t.Errorf("filters not forwarded: %+v", captured)
	}
	if captured.Limit != 10 || captured.Offset != 10 {
		t.Errorf("expected limit=10 offset=10, got %d/%d", captured.Limit, captured.Offset)
	}

	var resp struct {
		Contacts []struct {
			ID            string `json:"id"`
			ContactAge    string `json:"contactAge"`
			FormattedName string `json:"formattedName"`
		} `json:"contacts"`
		Pagination pagination `json:"pagination"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(resp.Contacts))
	}
	if resp.Contacts[0].ContactAge != "2 days ago" || resp.Contacts[1].ContactAge != "3 hours ago" {
		t.Errorf("unexpected ages %q, %q", resp.Contacts[0].ContactAge, resp.Contacts[1].ContactAge)
	}
	if resp.Contacts[0].FormattedName != "Ravi Kumar" {
		t.Errorf("expected formattedName=Ravi Kumar, got %q", resp.Contacts[0].FormattedName)
	}
	if resp.Pagination != (pagination{Current: 2, Total: 3, Count: 25}) {
		t.Errorf("unexpected pagination %+v", resp.Pagination)
	}
	if strings.Contains(rec.Body.String(), "ipAddress") {
		t.Error("list response must not carry ipAddress")
	}
}

func TestContactHandler_AdminList_EmptyIsArray(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if !strings.Contains(rec.Body.String(), `"contacts":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestContactHandler_AdminGet(t *testing.T) {
	svc := &mockContactService{
		getFunc: func(ctx context.Context, id string) (*model.ContactRecord, error) {
			if id != testContactID {
				return nil, repository.ErrNotFound
			}
			return &model.ContactRecord{ID: id, Name: "Ravi", IPAddress: "203.0.113.7", Tags: []string{}}, nil
		},
	}
	h := NewContactHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts/"+testContactID, nil)
	req.SetPathValue("id", testContactID)
	rec := httptest.NewRecorder()
	h.AdminGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ipAddress":"203.0.113.7"`) {
		t.Errorf("single-record view should include client metadata: %s", rec.Body.String())
	}
}

func TestContactHandler_AdminGet_NotFound(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.AdminGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestContactHandler_AdminUpdate(t *testing.T) {
	var gotID string
	var got model.ContactUpdate
	svc := &mockContactService{
		updateFunc: func(ctx context.Context, id string, u model.ContactUpdate) (*model.ContactRecord, error) {
			gotID, got = id, u
			return &model.ContactRecord{ID: id, Status: *u.Status, Tags: u.Tags}, nil
		},
	}
	h := NewContactHandler(svc, nil)

	body := `{"status":"replied","notes":"Called back","tags":["itr"]}`
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/contacts/"+testContactID, strings.NewReader(body))
	req.SetPathValue("id", testContactID)
	rec := httptest.NewRecorder()
	h.AdminUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != testContactID {
		t.Errorf("expected id %q, got %q", testContactID, gotID)
	}
	if got.Status == nil || *got.Status != "replied" {
		t.Errorf("status not forwarded: %v", got.Status)
	}
	if got.Notes == nil || *got.Notes != "Called back" {
		t.Errorf("notes not forwarded: %v", got.Notes)
	}
	if got.Priority != nil || got.AssignedTo != nil {
		t.Error("absent fields must stay nil")
	}
	if len(got.Tags) != 1 || got.Tags[0] != "itr" {
		t.Errorf("tags not forwarded: %v", got.Tags)
	}
}

func TestContactHandler_AdminUpdate_InvalidStatus(t *testing.T) {
	svc := &mockContactService{
		updateFunc: func(ctx context.Context, id string, u model.ContactUpdate) (*model.ContactRecord, error) {
			return nil, validation.CheckContactUpdate(u)
		},
	}
	h := NewContactHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/contacts/x", strings.NewReader(`{"status":"spam"}`))
	req.SetPathValue("id", "x")
	rec := httptest.NewRecorder()
	h.AdminUpdate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp validationResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Message != "Status must be one of unread, read, replied, archived" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestContactHandler_AdminUpdate_InvalidJSON(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/contacts/x", strings.NewReader(`[`))
	req.SetPathValue("id", "x")
	rec := httptest.NewRecorder()
	h.AdminUpdate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestContactHandler_AdminMarkRead(t *testing.T) {
	svc := &mockContactService{
		markAsReadFunc: func(ctx context.Context, id string) (*model.ContactRecord, error) {
			return &model.ContactRecord{ID: id, Status: model.ContactStatusRead, Tags: []string{}}, nil
		},
	}
	h := NewContactHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/contacts/"+testContactID+"/read", nil)
	req.SetPathValue("id", testContactID)
	rec := httptest.NewRecorder()
	h.AdminMarkRead(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"read"`) {
		t.Errorf("expected status read in body: %s", rec.Body.String())
	}
}
