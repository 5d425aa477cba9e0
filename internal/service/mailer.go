package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"lms_backend/internal/config"
	"lms_backend/pkg/logger"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
)

type Mail struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// NewMailer picks SMTP when a host is configured and the log mailer otherwise.
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return LogMailer{}
	}
	return &SMTPMailer{Cfg: cfg}
}

// ReloadingMailer delegates to a mailer that can be rebuilt from new settings at runtime.
type ReloadingMailer struct {
	mu      sync.RWMutex
	current Mailer
}

func NewReloadingMailer(cfg config.MailConfig) *ReloadingMailer {
	return &ReloadingMailer{current: NewMailer(cfg)}
}

func (m *ReloadingMailer) Reload(cfg config.MailConfig) {
	next := NewMailer(cfg)
	m.mu.Lock()
	m.current = next
	m.mu.Unlock()
	logger.Log.Info("Mailer reloaded", zap.Bool("smtp", cfg.Host != ""))
}

func (m *ReloadingMailer) Send(ctx context.Context, mail Mail) error {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()
	return current.Send(ctx, mail)
}

type SMTPMailer struct {
	Cfg config.MailConfig
}

// Send runs one SMTP session bound to ctx: the deadline applies to the dial and
// every read and write, and cancelling ctx closes the connection.
func (m *SMTPMailer) Send(ctx context.Context, mail Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	port := m.Cfg.Port
	if port == 0 {
		port = 587
	}
	addr := net.JoinHostPort(m.Cfg.Host, strconv.Itoa(port))

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	err = m.session(conn, mail)
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		return fmt.Errorf("smtp %s: %w", addr, ctxErr)
	}
	return err
}

func (m *SMTPMailer) session(conn net.Conn, mail Mail) error {
	c, err := smtp.NewClient(conn, m.Cfg.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.Cfg.Host}); err != nil {
			return err
		}
	}
	if m.Cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.Cfg.Username, m.Cfg.Password, m.Cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(headerValue(m.Cfg.From)); err != nil {
		return err
	}
	if err := c.Rcpt(headerValue(mail.To)); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(m.Cfg.From, mail)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// headerValue replaces CR, LF and other control characters so a value cannot start a new header line.
func headerValue(v string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, v))
}

func buildMessage(from string, mail Mail) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(from))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(mail.To))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(mail.Subject)))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(mail.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// LogMailer writes mail to the application log. Used when no SMTP host is set.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, mail Mail) error {
	logger.Log.Info("Mail",
		zap.String("to", mail.To),
		zap.String("subject", mail.Subject),
		zap.Int("bodyBytes", len(mail.Body)),
	)
	return nil
}
