package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"ddarch/internal/config"
	"ddarch/internal/models"
)

// Email templates for the three notification kinds plus the diagnostic test
// message. All bodies share the firm's header/footer framing.

const baseStyles = `body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background-color: #1a1a1a; color: #fff; padding: 20px; text-align: center; }
.content { padding: 20px; }
.details { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-left: 4px solid #e0c080; }
.message-box { background-color: #f9f9f9; padding: 15px; margin: 15px 0; border: 1px solid #ddd; }
.footer { background-color: #f5f5f5; padding: 15px; font-size: 12px; text-align: center; }
h1, h2 { color: #1a1a1a; }
.highlight { color: #e0c080; font-weight: bold; }`

var bookingConfirmationTmpl = template.Must(template.New("booking_confirmation").Parse(`<html>
<head><style>` + baseStyles + `</style></head>
<body>
<div class="container">
  <div class="header">
    <h1>{{.Company.Name}}</h1>
    <p>Your Consultation is Confirmed</p>
  </div>
  <div class="content">
    <p>Dear {{.Booking.Name}},</p>
    <p>Thank you for booking a consultation with {{.Company.Name}}. We are excited to meet with you and discuss your {{.ProjectType}} project.</p>
    <div class="details">
      <h2>Your Booking Details:</h2>
      <p><strong>Date:</strong> {{.Date}}</p>
      <p><strong>Time:</strong> {{.Booking.Time}}</p>
      <p><strong>Project Type:</strong> {{.Booking.ProjectType}}</p>
      <p><strong>Location:</strong> {{.Company.Address.Street}}, {{.Company.Address.Area}}, {{.Company.Address.City}}, {{.Company.Address.State}}, {{.Company.Address.Zip}}</p>
    </div>
    <p>If you need to reschedule or have any questions before your appointment, please contact us at <span class="highlight">{{.Company.Contact.Phone}}</span> or reply to this email.</p>
    <p>We recommend arriving 5-10 minutes early. If you have any existing floor plans, images, or inspiration for your project, please bring them along or email them to us beforehand.</p>
    <p>We look forward to meeting you and discussing your architectural vision!</p>
    <p>Warm regards,<br>The {{.Company.Name}} Team</p>
  </div>
  <div class="footer">
    <p>{{.Company.Name}} | {{.Company.Address.Street}}, {{.Company.Address.Area}}, {{.Company.Address.City}}</p>
    <p>{{.Company.Contact.Phone}} | {{.Company.Contact.Email}}</p>
  </div>
</div>
</body>
</html>`))

var contactAlertTmpl = template.Must(template.New("contact_alert").Parse(`<html>
<head><style>` + baseStyles + `</style></head>
<body>
<div class="container">
  <div class="header">
    <h1>New Website Contact</h1>
  </div>
  <div class="content">
    <p>You have received a new message from your website contact form.</p>
    <div class="details">
      <h2>Contact Details:</h2>
      <p><strong>Name:</strong> {{.Contact.Name}}</p>
      <p><strong>Email:</strong> {{.Contact.Email}}</p>
      <p><strong>Subject:</strong> {{.Contact.Subject}}</p>
    </div>
    <h2>Message:</h2>
    <div class="message-box">
      <p>{{.Message}}</p>
    </div>
    <p>Please respond to this inquiry at your earliest convenience.</p>
  </div>
  <div class="footer">
    <p>This is an automated notification from your website.</p>
  </div>
</div>
</body>
</html>`))

var contactAutoReplyTmpl = template.Must(template.New("contact_auto_reply").Parse(`<html>
<head><style>` + baseStyles + `</style></head>
<body>
<div class="container">
  <div class="header">
    <h1>{{.Company.Name}}</h1>
  </div>
  <div class="content">
    <p>Dear {{.Contact.Name}},</p>
    <p>Thank you for contacting {{.Company.Name}}. We have received your message regarding <strong>"{{.Contact.Subject}}"</strong>.</p>
    <p>Our team will review your inquiry and get back to you as soon as possible, usually within 1-2 business days.</p>
    <p>If your matter is urgent, please call us directly at <span class="highlight">{{.Company.Contact.Phone}}</span> during our business hours:</p>
    <p>
      Monday-Friday: {{.Company.Hours.Weekdays}}<br>
      Saturday: {{.Company.Hours.Saturday}}<br>
      Sunday: {{.Company.Hours.Sunday}}
    </p>
    <p>We appreciate your interest in {{.Company.Name}} and look forward to assisting you with your architectural needs.</p>
    <p>Warm regards,<br>The {{.Company.Name}} Team</p>
  </div>
  <div class="footer">
    <p>{{.Company.Name}} | {{.Company.Address.Street}}, {{.Company.Address.Area}}, {{.Company.Address.City}}</p>
    <p>{{.Company.Contact.Phone}} | {{.Company.Contact.Email}}</p>
  </div>
</div>
</body>
</html>`))

var testEmailTmpl = template.Must(template.New("test_email").Parse(`<html>
<head><style>` + baseStyles + `</style></head>
<body>
<div class="container">
  <div class="header">
    <h1>{{.Company.Name}}</h1>
  </div>
  <div class="content">
    <p>This is a test email from the {{.Company.Name}} website.</p>
    <p>If you received this message, the outbound email transport is configured correctly.</p>
  </div>
  <div class="footer">
    <p>This is an automated diagnostic message.</p>
  </div>
</div>
</body>
</html>`))

func renderBookingConfirmation(company config.CompanyConfig, b *models.Booking) (subject, body string, err error) {
	data := struct {
		Company     config.CompanyConfig
		Booking     *models.Booking
		Date        string
		ProjectType string
	}{
		Company:     company,
		Booking:     b,
		Date:        formatDate(b.Date),
		ProjectType: strings.ToLower(b.ProjectType),
	}

	var buf strings.Builder
	if err := bookingConfirmationTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render booking confirmation: %w", err)
	}
	return "Your Architectural Consultation Booking Confirmation", buf.String(), nil
}

func renderContactAlert(company config.CompanyConfig, c *models.Contact) (subject, body string, err error) {
	data := struct {
		Company config.CompanyConfig
		Contact *models.Contact
		Message template.HTML
	}{
		Company: company,
		Contact: c,
		Message: nl2br(c.Message),
	}

	var buf strings.Builder
	if err := contactAlertTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render contact alert: %w", err)
	}
	return "New Contact Form Submission: " + c.Subject, buf.String(), nil
}

func renderContactAutoReply(company config.CompanyConfig, c *models.Contact) (subject, body string, err error) {
	data := struct {
		Company config.CompanyConfig
		Contact *models.Contact
	}{
		Company: company,
		Contact: c,
	}

	var buf strings.Builder
	if err := contactAutoReplyTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render contact auto-reply: %w", err)
	}
	return "Thank you for contacting " + company.Name, buf.String(), nil
}

func renderTestEmail(company config.CompanyConfig) (subject, body string, err error) {
	data := struct {
		Company config.CompanyConfig
	}{Company: company}

	var buf strings.Builder
	if err := testEmailTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render test email: %w", err)
	}
	return "Test Email from " + company.Name, buf.String(), nil
}

// formatDate rewrites an ISO calendar date into a long human form; anything
// unparsable passes through unchanged.
func formatDate(raw string) string {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return raw
	}
	return parsed.Format("Monday, January 2, 2006")
}

// nl2br escapes the text and converts line breaks to <br> so multi-line
// messages keep their shape inside the HTML body.
func nl2br(raw string) template.HTML {
	escaped := template.HTMLEscapeString(raw)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
