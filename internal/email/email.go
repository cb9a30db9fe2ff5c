package email

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/Domenick1991/quickrent/config"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender delivers booking notifications over SMTP. Without an SMTP host it
// only logs the message, which is what local and test setups use.
type Sender struct {
	cfg      config.SMTPConfig
	sendMail sendFunc
}

func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *Sender) SendCode(ctx context.Context, to, name, code string) error {
	return s.send(ctx, to, "Your QuickRent booking code",
		greeting(name)+fmt.Sprintf("Your verification code is %s. It expires in a few minutes.", code))
}

func (s *Sender) SendApproved(ctx context.Context, to, name string, bookingID int64) error {
	return s.send(ctx, to, "Booking approved",
		greeting(name)+fmt.Sprintf("Your booking #%d has been approved. Enjoy your ride!", bookingID))
}

func (s *Sender) SendRejected(ctx context.Context, to, name string, bookingID int64) error {
	return s.send(ctx, to, "Booking rejected",
		greeting(name)+fmt.Sprintf("Unfortunately your booking #%d was rejected.", bookingID))
}

func greeting(name string) string {
	if name == "" {
		return "Hello,\r\n\r\n"
	}
	return "Hello " + name + ",\r\n\r\n"
}

func (s *Sender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == "" {
		return fmt.Errorf("send %q: empty recipient", subject)
	}
	if s.cfg.Host == "" {
		log.Printf("send email to %s: %s", to, subject)
		return nil
	}

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.From, []string{to}, buildMessage(s.cfg.From, to, subject, body)); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
