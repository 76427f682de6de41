package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/vividmedi/medicert/internal/registry"
)

// Mailer sends submission notifications over an SMTP relay: one message to
// the practice admin with the full submission, and a confirmation to the
// patient when they supplied an email address.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string

	AdminName  string
	AdminEmail string

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a Mailer for the given relay.
func NewMailer(host string, port int, username, password, adminName, adminEmail string) *Mailer {
	return &Mailer{
		Host:       host,
		Port:       port,
		Username:   username,
		Password:   password,
		AdminName:  adminName,
		AdminEmail: adminEmail,
		send:       smtp.SendMail,
	}
}

// Send implements Sender.
func (m *Mailer) Send(ctx context.Context, rec registry.Record) error {
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)

	adminMsg := m.message(m.AdminEmail,
		fmt.Sprintf("New medical certificate request - %s %s", rec.FirstName, rec.LastName),
		adminBody(rec))
	if err := m.send(addr, auth, m.AdminEmail, []string{m.AdminEmail}, adminMsg); err != nil {
		return fmt.Errorf("sending admin notification: %w", err)
	}

	if rec.Email == "" {
		return nil
	}

	patientMsg := m.message(rec.Email,
		"Your medical certificate request has been received",
		patientBody(rec))
	if err := m.send(addr, auth, m.AdminEmail, []string{rec.Email}, patientMsg); err != nil {
		return fmt.Errorf("sending patient confirmation: %w", err)
	}

	return nil
}

func (m *Mailer) message(to, subject, body string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %q <%s>\r\n", m.AdminName, m.AdminEmail)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}

func adminBody(rec registry.Record) string {
	var sb strings.Builder
	sb.WriteString("New medical certificate request\r\n\r\n")
	fmt.Fprintf(&sb, "Certificate: %s\r\n", rec.Code)
	fmt.Fprintf(&sb, "Name:        %s %s\r\n", rec.FirstName, rec.LastName)
	fmt.Fprintf(&sb, "Email:       %s\r\n", rec.Email)
	fmt.Fprintf(&sb, "Mobile:      %s\r\n", rec.Mobile)
	fmt.Fprintf(&sb, "Type:        %s\r\n", rec.CertType)
	fmt.Fprintf(&sb, "Reason:      %s\r\n", rec.Reason)
	fmt.Fprintf(&sb, "Dates:       %s to %s\r\n", rec.FromDate, rec.ToDate)
	if rec.Symptoms != "" {
		fmt.Fprintf(&sb, "Symptoms:    %s\r\n", rec.Symptoms)
	}
	if rec.DoctorNote != "" {
		fmt.Fprintf(&sb, "Note:        %s\r\n", rec.DoctorNote)
	}
	fmt.Fprintf(&sb, "\r\nIssued at %s\r\n", rec.IssuedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	return sb.String()
}

func patientBody(rec registry.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\r\n\r\n", rec.FirstName)
	sb.WriteString("Your medical certificate request has been received and is being\r\n")
	sb.WriteString("reviewed by a registered doctor. You'll be notified shortly if any\r\n")
	sb.WriteString("further details are needed.\r\n\r\n")
	fmt.Fprintf(&sb, "Reference:       %s\r\n", rec.Code)
	fmt.Fprintf(&sb, "Requested dates: %s to %s\r\n", rec.FromDate, rec.ToDate)
	return sb.String()
}
