package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"esom-requisition-server/config"
	"esom-requisition-server/internal/models"
)

// ErrNoItems is returned when a payload arrives without a single line item.
var ErrNoItems = errors.New("no items in requisition")

// Receipt is the outcome of a dispatch. Download mode fills Filename and
// Data; send mode leaves them empty. MessageID is set in both modes — it
// is generated locally, so the .eml and the SMTP acknowledgment carry the
// same id.
type Receipt struct {
	Filename  string
	Data      []byte
	MessageID string
}

// Dispatcher turns a rendered requisition into either a downloadable .eml
// or a sent email. Implementations are selected once at startup from
// configuration; the submit flow does not care which one it talks to.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload *models.RequisitionPayload, html string, attachments []Attachment) (*Receipt, error)
}

// NewDispatcher picks the implementation for the configured mail mode.
func NewDispatcher(cfg config.Config, log *logrus.Logger) (Dispatcher, error) {
	switch cfg.Mail.Mode {
	case config.ModeDownload:
		return &EMLDispatcher{From: cfg.Mail.From}, nil
	case config.ModeSMTP:
		return NewSMTPDispatcher(cfg.SMTP, cfg.Mail.From, log), nil
	default:
		return nil, fmt.Errorf("unknown mail mode %q", cfg.Mail.Mode)
	}
}

// compose runs the steps shared by both modes: reject empty requisitions,
// resolve the buyer mailbox, and assemble the message. Nothing here has
// side effects, so a failure leaves no partial state behind.
func compose(from string, payload *models.RequisitionPayload, html string, attachments []Attachment) (*Message, error) {
	if len(payload.Items) == 0 {
		return nil, ErrNoItems
	}
	to, err := ResolveRecipient(payload.Location)
	if err != nil {
		return nil, err
	}
	return &Message{
		From:        from,
		To:          to,
		Subject:     fmt.Sprintf("Solicitação de Requisição de Compra – %s – %s", payload.Requester, payload.Location),
		HTML:        html,
		Attachments: attachments,
		MessageID:   NewMessageID(),
		Date:        time.Now(),
	}, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// DownloadFilename names the generated .eml after the requester, with
// whitespace collapsed to underscores.
func DownloadFilename(requester string) string {
	return fmt.Sprintf("Requisicao_%s.eml", whitespaceRun.ReplaceAllString(requester, "_"))
}

// EMLDispatcher renders the full message into an in-memory buffer and
// returns it as a downloadable artifact. Nothing leaves the server.
type EMLDispatcher struct {
	From string
}

func (d *EMLDispatcher) Dispatch(ctx context.Context, payload *models.RequisitionPayload, html string, attachments []Attachment) (*Receipt, error) {
	msg, err := compose(d.From, payload, html, attachments)
	if err != nil {
		return nil, err
	}
	data, err := msg.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serialize message: %w", err)
	}
	return &Receipt{
		Filename:  DownloadFilename(payload.Requester),
		Data:      data,
		MessageID: msg.MessageID,
	}, nil
}

// sendMailFunc matches smtp.SendMail; tests substitute it to capture the
// wire bytes without a relay.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPDispatcher hands the message to an SMTP relay and returns the
// generated Message-ID as the acknowledgment.
type SMTPDispatcher struct {
	From     string
	cfg      config.SMTPConfig
	log      *logrus.Logger
	sendMail sendMailFunc
}

func NewSMTPDispatcher(cfg config.SMTPConfig, from string, log *logrus.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{
		From:     from,
		cfg:      cfg,
		log:      log,
		sendMail: smtp.SendMail,
	}
}

func (d *SMTPDispatcher) Dispatch(ctx context.Context, payload *models.RequisitionPayload, html string, attachments []Attachment) (*Receipt, error) {
	msg, err := compose(d.From, payload, html, attachments)
	if err != nil {
		return nil, err
	}
	data, err := msg.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serialize message: %w", err)
	}
	envelopeFrom, err := msg.EnvelopeFrom()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var auth smtp.Auth
	if d.cfg.User != "" {
		auth = smtp.PlainAuth("", d.cfg.User, d.cfg.Password, d.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)

	if err := d.sendMail(addr, auth, envelopeFrom, []string{msg.To}, data); err != nil {
		return nil, fmt.Errorf("send mail via %s: %w", d.cfg.Host, err)
	}

	if d.log != nil {
		d.log.WithFields(logrus.Fields{
			"messageId": msg.MessageID,
			"to":        msg.To,
			"location":  payload.Location,
			"items":     len(payload.Items),
		}).Info("requisition email sent")
	}

	return &Receipt{MessageID: msg.MessageID}, nil
}
