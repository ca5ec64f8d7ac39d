package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/allylabs/allychat/core/types"
	"github.com/chasefleming/elem-go"
	"github.com/chasefleming/elem-go/attrs"
	"github.com/mudler/xlog"
	"jaytaylor.com/html2text"
)

// ContactPayload is the JSON the model passes as the tool input. Only the
// email address is mandatory.
type ContactPayload struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	GamePass    bool   `json:"gamePass"`
	UserMessage string `json:"userMessage"`
	ChatContext string `json:"chatContext"`
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewSendContact builds the contact/Game Pass tool. With empty credentials
// the tool stays registered but reports a configuration error on use, so
// the conversation keeps flowing.
func NewSendContact(addr, username, password string) *SendContactAction {
	a := &SendContactAction{}
	if username != "" && password != "" {
		a.mailer = NewSMTPMailer(addr, username, password)
		a.operator = username
	}
	return a
}

// NewSendContactWithMailer wires an explicit mailer, used by tests.
func NewSendContactWithMailer(mailer Mailer, operator string) *SendContactAction {
	return &SendContactAction{mailer: mailer, operator: operator}
}

type SendContactAction struct {
	mailer   Mailer
	operator string
}

// Run validates the payload and sends exactly one email: the demo code to
// the visitor when gamePass is set, otherwise the contact details to the
// operator mailbox. Every failure path resolves to a string, this tool
// never returns an error to the loop.
func (a *SendContactAction) Run(ctx context.Context, input string) string {
	var payload ContactPayload
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: Please provide contact details in JSON format with 'email' and 'phone' fields."
	}

	if payload.Email == "" {
		return "Error: Email address is required."
	}
	if !emailRegex.MatchString(payload.Email) {
		return "Error: Please provide a valid email address."
	}
	if a.mailer == nil {
		return "Error: Email service is not configured. Please contact support."
	}

	if payload.GamePass {
		code := gamePassCode()
		if err := a.mailer.Send(ctx, gamePassMail(payload, code)); err != nil {
			xlog.Error("Sending Game Pass email failed", "to", payload.Email, "error", err)
			return mailErrorMessage(err)
		}
		return fmt.Sprintf(`Xbox Game Pass demo code sent! I've sent your demo code straight to %s, please check your inbox.

Your demo code: %s

Note: this is a demonstration code to show how our system works, not a real Xbox Game Pass code. Our team will contact you with information about real Game Pass subscriptions.

Is there anything else about the ROG Xbox Ally, games or services that I can help you with?`, payload.Email, code)
	}

	if err := a.mailer.Send(ctx, contactMail(a.operator, payload)); err != nil {
		xlog.Error("Sending contact email failed", "error", err)
		return mailErrorMessage(err)
	}

	phone := ""
	if payload.Phone != "" {
		phone = "\n- Phone: " + payload.Phone
	}
	return fmt.Sprintf(`Contact details successfully sent! Thank you for providing your contact information, I've forwarded it to our team:
- Email: %s%s

Someone will reach out within 24-48 hours with personalized gaming recommendations. Is there anything else about the ROG Xbox Ally, games or services that I can help you with?`, payload.Email, phone)
}

func (a *SendContactAction) Definition() types.ActionDefinition {
	return types.ActionDefinition{
		Name: ActionSendContact,
		Description: `Send contact details and chat context via email, and optionally send a dummy Xbox Game Pass demo code. Use this tool when a user provides their email address and wants to receive information, be contacted, or requests a Game Pass code. Input must be a JSON string with a mandatory 'email' field and optional 'phone', 'gamePass', 'userMessage' and 'chatContext' fields. Examples:
{"email": "user@example.com", "phone": "+1234567890", "userMessage": "I want info about the Ally X", "chatContext": "User asked about specs and pricing"}
{"email": "user@example.com", "gamePass": true, "userMessage": "Send me Game Pass please"}`,
	}
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// gamePassCode makes a XBOX-XXXXXX-XXXXXX demo code. It is illustrative
// only and must never be treated as a credential.
func gamePassCode() string {
	segment := func() string {
		b := make([]byte, 6)
		for i := range b {
			b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		return string(b)
	}
	return fmt.Sprintf("XBOX-%s-%s", segment(), segment())
}

// mailErrorMessage maps a delivery failure to the user-facing string the
// agent reads back, distinguishing auth and network problems.
func mailErrorMessage(err error) string {
	var netErr net.Error
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "535") || strings.Contains(msg, "auth") || strings.Contains(msg, "invalid login"):
		return "Error: Email authentication failed. Please contact support."
	case errors.As(err, &netErr) || strings.Contains(msg, "network") || strings.Contains(msg, "dial") || strings.Contains(msg, "connection"):
		return "Error: Network issue while sending email. Please try again later."
	}
	return "Error: Unable to send contact details at the moment. Please try again later or contact support directly."
}

const wrapperStyle = "font-family:Arial,sans-serif;max-width:600px;margin:0 auto;"

func gamePassMail(payload ContactPayload, code string) Mail {
	blocks := []elem.Node{
		elem.H2(attrs.Props{attrs.Style: "color:#107C41;"}, elem.Text("Your Xbox Game Pass Demo Code")),
		elem.Div(attrs.Props{attrs.Style: "background-color:#107C41;color:#ffffff;padding:20px;border-radius:8px;text-align:center;"},
			elem.P(nil, elem.Text("Demo code:")),
			elem.P(attrs.Props{attrs.Style: "font-size:24px;font-weight:bold;letter-spacing:3px;"}, elem.Text(code)),
		),
		elem.P(nil, elem.Text("Important: this is a demonstration code for illustration purposes only. It is not a real Xbox Game Pass code.")),
	}
	if payload.UserMessage != "" {
		blocks = append(blocks, elem.P(nil, elem.Text("Your message: "+payload.UserMessage)))
	}
	blocks = append(blocks,
		elem.P(nil, elem.Text("Our gaming specialists will contact you within 24-48 hours with recommendations and information about real Game Pass benefits.")),
		elem.P(attrs.Props{attrs.Style: "font-size:12px;color:#666666;"}, elem.Text("Generated by the Ally Gaming Assistant on "+time.Now().Format(time.RFC1123))),
	)

	html := elem.Div(attrs.Props{attrs.Style: wrapperStyle}, blocks...).Render()
	return Mail{
		To:      payload.Email,
		Subject: "Your Xbox Game Pass Demo Code - Ally Gaming Assistant",
		HTML:    html,
		Text:    plainText(html),
	}
}

func contactMail(operator string, payload ContactPayload) Mail {
	blocks := []elem.Node{
		elem.H2(attrs.Props{attrs.Style: "color:#107C41;"}, elem.Text("New Contact Request - Ally Gaming Assistant")),
		elem.P(nil, elem.Text("Email: "+payload.Email)),
	}
	if payload.Phone != "" {
		blocks = append(blocks, elem.P(nil, elem.Text("Phone: "+payload.Phone)))
	}
	if payload.UserMessage != "" {
		blocks = append(blocks, elem.P(nil, elem.Text("User's message: "+payload.UserMessage)))
	}
	if payload.ChatContext != "" {
		blocks = append(blocks, elem.P(nil, elem.Text("Chat context: "+payload.ChatContext)))
	}
	blocks = append(blocks,
		elem.P(nil, elem.Text("This contact request was submitted through the Ally Gaming Assistant chat widget. The visitor may be interested in the handhelds, Game Pass or gaming recommendations.")),
		elem.P(attrs.Props{attrs.Style: "font-size:12px;color:#666666;"}, elem.Text("Timestamp: "+time.Now().Format(time.RFC1123))),
	)

	html := elem.Div(attrs.Props{attrs.Style: wrapperStyle}, blocks...).Render()
	return Mail{
		To:      operator,
		Subject: "New Contact Details from Ally Gaming Assistant",
		HTML:    html,
		Text:    plainText(html),
	}
}

func plainText(html string) string {
	text, err := html2text.FromString(html, html2text.Options{})
	if err != nil {
		return ""
	}
	return text
}
