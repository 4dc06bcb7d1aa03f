package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Contact statuses.
const (
	ContactStatusUnread   = "unread"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// Priorities shared by contacts and service inquiries.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Contact sources.
const (
	SourceWebsite     = "website"
	SourceMobileApp   = "mobile_app"
	SourceLandingPage = "landing_page"
	SourceOther       = "other"
)

// FollowUpDelay is how far after creation an urgent contact is due for follow-up.
const FollowUpDelay = 24 * time.Hour

var (
	ContactStatuses = []string{ContactStatusUnread, ContactStatusRead, ContactStatusReplied, ContactStatusArchived}
	Priorities      = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	ContactSources  = []string{SourceWebsite, SourceMobileApp, SourceLandingPage, SourceOther}
)

var (
	urgentKeywords = []string{"urgent", "emergency", "asap", "immediately", "critical"}
	highKeywords   = []string{"important", "priority", "soon", "quickly"}
)

// ContactRecord is a message submitted via the contact form.
type ContactRecord struct {
	ID               string     `json:"id"`
	Name             string     `json:"name" label:"Name" validate:"required,min=2,max=100"`
	Email            string     `json:"email" label:"Email" validate:"required,contactemail"`
	Phone            string     `json:"phone" label:"Phone number" validate:"required,max=20,phone"`
	Message          string     `json:"message" label:"Message" validate:"required,min=10,max=1000"`
	Status           string     `json:"status" label:"Status" validate:"oneof=unread read replied archived"`
	Priority         string     `json:"priority" label:"Priority" validate:"oneof=low medium high urgent"`
	Source           string     `json:"source" label:"Source" validate:"oneof=website mobile_app landing_page other"`
	IPAddress        string     `json:"ipAddress,omitempty" label:"IP address" validate:"omitempty,ip"`
	UserAgent        string     `json:"userAgent,omitempty" label:"User agent" validate:"omitempty,max=500"`
	EmailSent        bool       `json:"emailSent"`
	EmailSentAt      *time.Time `json:"emailSentAt"`
	AutoReplySent    bool       `json:"autoReplySent"`
	AutoReplySentAt  *time.Time `json:"autoReplySentAt"`
	FollowUpRequired bool       `json:"followUpRequired"`
	FollowUpDate     *time.Time `json:"followUpDate"`
	Tags             []string   `json:"tags" label:"Tag" validate:"dive,max=50"`
	Notes            string     `json:"notes,omitempty" label:"Notes" validate:"omitempty,max=500"`
	AssignedTo       string     `json:"assignedTo,omitempty" label:"Assigned to" validate:"omitempty,max=100"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// StripSensitive clears fields that must not leave the trust boundary in list views.
func (c *ContactRecord) StripSensitive() {
	c.IPAddress = ""
	c.UserAgent = ""
}

// ContactUpdate is a partial update; nil fields are left untouched.
type ContactUpdate struct {
	Status           *string  `label:"Status" validate:"omitnil,oneof=unread read replied archived"`
	Priority         *string  `label:"Priority" validate:"omitnil,oneof=low medium high urgent"`
	Notes            *string  `label:"Notes" validate:"omitnil,max=500"`
	AssignedTo       *string  `label:"Assigned to" validate:"omitnil,max=100"`
	Tags             []string `label:"Tag" validate:"omitempty,dive,max=50"`
	FollowUpRequired *bool
	FollowUpDate     *time.Time
	EmailSent        *bool
	EmailSentAt      *time.Time
	AutoReplySent    *bool
	AutoReplySentAt  *time.Time
}

// IsEmpty reports whether the update would change nothing.
func (u ContactUpdate) IsEmpty() bool {
	return u.Status == nil && u.Priority == nil && u.Notes == nil && u.AssignedTo == nil &&
		u.Tags == nil && u.FollowUpRequired == nil && u.FollowUpDate == nil &&
		u.EmailSent == nil && u.EmailSentAt == nil && u.AutoReplySent == nil && u.AutoReplySentAt == nil
}

// ContactListOptions carries filter and pagination parameters for listing contacts.
type ContactListOptions struct {
	// Status and Priority filter when non-empty; "all" is treated as empty.
	Status   string
	Priority string
	Limit    int
	Offset   int
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizePhone collapses runs of whitespace to a single space and trims.
func NormalizePhone(phone string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(phone, " "))
}

// PriorityForMessage returns the priority implied by keywords in message,
// or current when no keyword matches.
func PriorityForMessage(message, current string) string {
	text := strings.ToLower(message)
	for _, k := range urgentKeywords {
		if strings.Contains(text, k) {
			return PriorityUrgent
		}
	}
	for _, k := range highKeywords {
		if strings.Contains(text, k) {
			return PriorityHigh
		}
	}
	return current
}

// ApplyContactDefaults fills unset enum fields with their defaults.
func ApplyContactDefaults(c *ContactRecord) {
	if c.Status == "" {
		c.Status = ContactStatusUnread
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	if c.Source == "" {
		c.Source = SourceWebsite
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
}

// PrepareNewContact applies the creation-time invariants: phone normalization,
// keyword-driven priority escalation and follow-up scheduling for urgent contacts.
// c.CreatedAt must already be set.
func PrepareNewContact(c *ContactRecord) {
	ApplyContactDefaults(c)
	c.Phone = NormalizePhone(c.Phone)
	c.Priority = PriorityForMessage(c.Message, c.Priority)
	ScheduleFollowUp(c)
}

// ScheduleFollowUp marks urgent contacts without a follow-up date as needing
// follow-up FollowUpDelay after creation.
func ScheduleFollowUp(c *ContactRecord) {
	if c.Priority != PriorityUrgent || c.FollowUpDate != nil {
		return
	}
	due := c.CreatedAt.Add(FollowUpDelay)
	c.FollowUpRequired = true
	c.FollowUpDate = &due
}

// ContactAge describes how long ago createdAt was, relative to now.
func ContactAge(createdAt, now time.Time) string {
	diff := now.Sub(createdAt)
	days := int(diff / (24 * time.Hour))
	hours := int((diff % (24 * time.Hour)) / time.Hour)

	switch {
	case days > 0:
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	case hours > 0:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	default:
		return "Less than an hour ago"
	}
}

// FormattedName upper-cases the first letter of every word in name.
func FormattedName(name string) string {
	runes := []rune(name)
	prevWord := false
	for i, r := range runes {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		if isWord && !prevWord {
			runes[i] = unicode.ToUpper(r)
		}
		prevWord = isWord
	}
	return string(runes)
}

func plural(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

// Contains reports whether v is one of values.
func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
