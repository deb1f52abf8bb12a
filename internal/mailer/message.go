package mailer

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is one uploaded file carried into the outgoing email. Field
// is the multipart field name it arrived under (files_<itemIndex>), which
// the renderer uses to list the file next to its line item.
type Attachment struct {
	Field    string
	Filename string
	Data     []byte
}

// Message is a composed requisition email, ready to be serialized or
// handed to a transport.
type Message struct {
	From        string // RFC 5322 address, display name allowed
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
	MessageID   string
	Date        time.Time
}

// NewMessageID returns a fresh Message-ID header value. It is generated
// here rather than by the relay so send mode has an acknowledgment id to
// return before the relay ever sees the message.
func NewMessageID() string {
	return fmt.Sprintf("<%s@esom-system.com>", uuid.NewString())
}

// EnvelopeFrom extracts the bare address from the From header for use as
// the SMTP envelope sender.
func (m *Message) EnvelopeFrom() (string, error) {
	addr, err := mail.ParseAddress(m.From)
	if err != nil {
		return "", fmt.Errorf("parse from address: %w", err)
	}
	return addr.Address, nil
}

// Bytes serializes the message as an RFC 822 document with CRLF line
// endings throughout, so the resulting .eml opens cleanly in Outlook.
// Attachments turn the body into multipart/mixed; without them the message
// is a plain base64-encoded text/html body.
func (m *Message) Bytes() ([]byte, error) {
	if m.To == "" {
		return nil, fmt.Errorf("message has no recipient")
	}

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}
	messageID := m.MessageID
	if messageID == "" {
		messageID = NewMessageID()
	}

	var b strings.Builder
	writeHeader := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	writeHeader("From", m.From)
	writeHeader("To", m.To)
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	writeHeader("Date", date.Format(time.RFC1123Z))
	writeHeader("Message-ID", messageID)
	writeHeader("MIME-Version", "1.0")

	if len(m.Attachments) == 0 {
		writeHeader("Content-Type", `text/html; charset="utf-8"`)
		writeHeader("Content-Transfer-Encoding", "base64")
		b.WriteString("\r\n")
		writeBase64(&b, []byte(m.HTML))
		return []byte(b.String()), nil
	}

	boundary := "esom_" + uuid.NewString()
	writeHeader("Content-Type", fmt.Sprintf(`multipart/mixed; boundary="%s"`, boundary))
	b.WriteString("\r\n")

	// HTML body part
	b.WriteString("--" + boundary + "\r\n")
	writeHeader("Content-Type", `text/html; charset="utf-8"`)
	writeHeader("Content-Transfer-Encoding", "base64")
	b.WriteString("\r\n")
	writeBase64(&b, []byte(m.HTML))

	for _, att := range m.Attachments {
		filename := mime.QEncoding.Encode("utf-8", att.Filename)
		b.WriteString("--" + boundary + "\r\n")
		writeHeader("Content-Type", fmt.Sprintf(`application/octet-stream; name="%s"`, filename))
		writeHeader("Content-Transfer-Encoding", "base64")
		writeHeader("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		b.WriteString("\r\n")
		writeBase64(&b, att.Data)
	}
	b.WriteString("--" + boundary + "--\r\n")

	return []byte(b.String()), nil
}

// writeBase64 writes data base64-encoded, wrapped at 76 columns with CRLF
// as RFC 2045 requires.
func writeBase64(b *strings.Builder, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	const lineLen = 76
	for len(encoded) > 0 {
		n := lineLen
		if n > len(encoded) {
			n = len(encoded)
		}
		b.WriteString(encoded[:n])
		b.WriteString("\r\n")
		encoded = encoded[n:]
	}
}
