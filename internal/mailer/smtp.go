package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"ddarch/internal/config"
	"ddarch/internal/models"

	"github.com/rs/zerolog"
)

// SMTP delivers mail directly through an SMTP relay, upgrading the
// connection with STARTTLS when the server offers it.
type SMTP struct {
	cfg     config.EmailConfig
	company config.CompanyConfig
	logger  *zerolog.Logger
}

func NewSMTP(cfg config.EmailConfig, company config.CompanyConfig, logger *zerolog.Logger) *SMTP {
	return &SMTP{cfg: cfg, company: company, logger: logger}
}

func (s *SMTP) SendBookingConfirmation(ctx context.Context, b *models.Booking) (Result, error) {
	subject, body, err := renderBookingConfirmation(s.company, b)
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}

	from := fmt.Sprintf("%s <%s>", s.company.Name, s.cfg.Sender)
	if err := s.send(ctx, from, b.Email, subject, body); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("Failed to send booking confirmation email: %v", err)}, err
	}
	return Result{Success: true, Message: "Booking confirmation email sent successfully"}, nil
}

func (s *SMTP) SendContactAlert(ctx context.Context, c *models.Contact) (Result, error) {
	subject, body, err := renderContactAlert(s.company, c)
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}

	from := fmt.Sprintf("%s Website <%s>", s.company.Name, s.cfg.Sender)
	if err := s.send(ctx, from, s.cfg.StaffEmail, subject, body); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("Failed to send contact notification email: %v", err)}, err
	}

	// The auto-reply is a courtesy; its failure does not void the alert.
	if err := s.sendAutoReply(ctx, c); err != nil {
		s.logger.Warn().Err(err).Str("recipient", c.Email).Msg("contact auto-reply failed")
	}

	return Result{Success: true, Message: "Contact notification emails sent successfully"}, nil
}

func (s *SMTP) sendAutoReply(ctx context.Context, c *models.Contact) error {
	subject, body, err := renderContactAutoReply(s.company, c)
	if err != nil {
		return err
	}
	from := fmt.Sprintf("%s <%s>", s.company.Name, s.cfg.Sender)
	return s.send(ctx, from, c.Email, subject, body)
}

func (s *SMTP) SendTestEmail(ctx context.Context, to string) (Result, error) {
	subject, body, err := renderTestEmail(s.company)
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}

	from := fmt.Sprintf("%s <%s>", s.company.Name, s.cfg.Sender)
	if err := s.send(ctx, from, to, subject, body); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("Failed to send test email: %v", err)}, err
	}
	return Result{Success: true, Message: "Test email sent successfully"}, nil
}

func (s *SMTP) Status(context.Context) (string, error) {
	if s.cfg.SMTP.Host == "" {
		return StatusNotConfigured, nil
	}
	return StatusConfigured, nil
}

// send performs one SMTP transaction. The context bounds the dial; the
// deadline also applies to the whole exchange via the connection deadline.
func (s *SMTP) send(ctx context.Context, from, to, subject, htmlBody string) error {
	host := s.cfg.SMTP.Host
	addr := net.JoinHostPort(host, strconv.Itoa(s.cfg.SMTP.Port))

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.cfg.SMTP.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTP.Username, s.cfg.SMTP.Password, host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.Sender); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := writer.Write(buildMessage(from, to, subject, htmlBody)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	return client.Quit()
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")
	return []byte(msg.String())
}
