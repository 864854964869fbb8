package notify

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"

	"github.com/abdur28/boarding-sky-sub000/config"
)

type EmailNotifier struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, send: smtp.SendMail}
}

var statusMessages = map[string]string{
	"cancelled":        "Your booking has been cancelled.",
	"refund-requested": "We received your refund request and will review it shortly.",
	"refunded":         "Your booking has been refunded.",
	"paid":             "Your payment was received. Your booking is paid.",
	"confirmed":        "Your booking is confirmed.",
	"unpaid":           "Your booking is awaiting payment.",
}

// headerSafe keeps a value on one header line.
var headerSafe = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func safe(s string) string {
	return strings.TrimSpace(headerSafe.Replace(s))
}

func (n *EmailNotifier) BookingStatusChanged(ctx context.Context, ev BookingStatusChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(ev.UserEmail) == "" {
		return nil
	}
	if !n.cfg.Configured() {
		log.Printf("[MOCK EMAIL] booking %s status %s -> %s to:%s", ev.BookingID, ev.From, ev.To, MaskEmail(ev.UserEmail))
		return nil
	}

	message := statusMessages[string(ev.To)]
	if message == "" {
		message = fmt.Sprintf("Your booking status is now %s.", ev.To.Display())
	}

	from := fmt.Sprintf("%s <%s>", safe(n.cfg.FromName), n.cfg.Username)
	subject := fmt.Sprintf("Booking update: %s", ev.To.Display())
	boundary := "----=_BOOKING_STATUS_BOUNDARY"

	plainBody := fmt.Sprintf(
		"Hello,\n\n%s\n\nBooking: %s (%s)\nStatus: %s\n",
		message, ev.BookingID, ev.Type, ev.To.Display(),
	)
	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Booking update</title></head>
<body style="background:#f5f7fb;font-family:Arial,Helvetica,sans-serif;color:#222;">
<div style="max-width:640px;margin:20px auto;background:#fff;border:1px solid #e6eef6;padding:24px;border-radius:8px;">
  <h2>Booking update</h2>
  <p>%s</p>
  <p>Booking <strong>%s</strong> (%s)<br>Status: <strong>%s</strong></p>
</div>
</body>
</html>`,
		html.EscapeString(message), html.EscapeString(ev.BookingID), html.EscapeString(string(ev.Type)), html.EscapeString(ev.To.Display()),
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", safe(ev.UserEmail)))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.Username, []string{ev.UserEmail}, []byte(sb.String())); err != nil {
		return fmt.Errorf("send booking email to %s: %w", MaskEmail(ev.UserEmail), err)
	}

	log.Printf("Booking status email sent to %s", MaskEmail(ev.UserEmail))
	return nil
}
