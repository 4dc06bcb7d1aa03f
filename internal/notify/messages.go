package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/taxmantraa/backend/internal/model"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// IST is the office time zone used in every timestamp shown to people.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const (
	defaultOwnerFromName = "TAXMANTRAA Contact Form"
	defaultReplyFromName = "TAXMANTRAA"
)

type ownerData struct {
	Name     string
	Email    string
	Phone    string
	Message  string
	Received string
	Urgent   bool
	FollowUp string
}

type autoReplyData struct {
	Name string
}

// rendered holds both bodies of a multipart message.
type rendered struct {
	Text string
	HTML string
}

func render(name string, data any) (rendered, error) {
	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return rendered{}, fmt.Errorf("render %s.txt: %w", name, err)
	}
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return rendered{}, fmt.Errorf("render %s.html: %w", name, err)
	}
	return rendered{Text: text.String(), HTML: html.String()}, nil
}

func formatIST(t time.Time) string {
	return t.In(IST).Format("January 2, 2006 at 03:04:05 PM")
}

func ownerSubject(name string, now time.Time) string {
	return fmt.Sprintf("New Contact: %s - %s", name, now.In(IST).Format("1/2/2006"))
}

func autoReplySubject(name string) string {
	return fmt.Sprintf("Thank you for contacting TAXMANTRAA, %s!", name)
}

func ownerBody(c *model.ContactRecord) (rendered, error) {
	data := ownerData{
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Message:  c.Message,
		Received: formatIST(c.CreatedAt),
		Urgent:   c.Priority == model.PriorityUrgent,
	}
	if c.FollowUpDate != nil {
		data.FollowUp = formatIST(*c.FollowUpDate)
	}
	return render("owner", data)
}

func autoReplyBody(name string) (rendered, error) {
	return render("autoreply", autoReplyData{Name: name})
}

// newMessage assembles a multipart/alternative message with a generated Message-ID.
func newMessage(fromName, fromAddr, to, subject string, body rendered) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(fromName, fromAddr); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	m.Subject(subject)
	m.SetMessageID()
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, body.Text)
	m.AddAlternativeString(mail.TypeTextHTML, body.HTML)
	return m, nil
}

func messageID(m *mail.Msg) string {
	if ids := m.GetGenHeader(mail.HeaderMessageID); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
