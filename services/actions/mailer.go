package actions

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// Mail is one outgoing message with an HTML body and its plain text
// alternative.
type Mail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a single message. Implemented over SMTP in production and
// by a recorder in tests.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// SMTPMailer sends multipart/alternative messages through an authenticated
// SMTP relay.
type SMTPMailer struct {
	addr     string // host:port
	username string
	password string
	from     string
}

func NewSMTPMailer(addr, username, password string) *SMTPMailer {
	return &SMTPMailer{
		addr:     addr,
		username: username,
		password: password,
		from:     username,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, mail Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	host := m.addr
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	auth := smtp.PlainAuth("", m.username, m.password, host)

	msg, err := buildMessage(m.from, mail)
	if err != nil {
		return fmt.Errorf("building message: %w", err)
	}

	return smtp.SendMail(m.addr, auth, m.from, []string{mail.To}, msg)
}

func buildMessage(from string, mail Mail) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	alt := multipart.NewWriter(buf)

	fmt.Fprintf(buf, "From: %s\r\n", from)
	fmt.Fprintf(buf, "To: %s\r\n", mail.To)
	fmt.Fprintf(buf, "Subject: %s\r\n", mail.Subject)
	fmt.Fprintf(buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", alt.Boundary())

	text, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := text.Write([]byte(mail.Text)); err != nil {
		return nil, err
	}

	html, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := html.Write([]byte(mail.HTML)); err != nil {
		return nil, err
	}

	if err := alt.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
