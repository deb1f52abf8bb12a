package mailer

import (
	"bytes"
	"context"
	"errors"
	"net/mail"
	"net/smtp"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esom-requisition-server/config"
)

func testSMTPConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.ethereal.email",
		Port:     587,
		User:     "ethereal_user",
		Password: "ethereal_pass",
	}
}

const testFrom = `"Sistema ESOM" <no-reply@esom-system.com>`

func TestNewDispatcher(t *testing.T) {
	t.Parallel()

	log := logrus.New()

	d, err := NewDispatcher(config.Config{Mail: config.MailConfig{Mode: config.ModeDownload, From: testFrom}}, log)
	require.NoError(t, err)
	assert.IsType(t, &EMLDispatcher{}, d)

	d, err = NewDispatcher(config.Config{Mail: config.MailConfig{Mode: config.ModeSMTP, From: testFrom}}, log)
	require.NoError(t, err)
	assert.IsType(t, &SMTPDispatcher{}, d)

	_, err = NewDispatcher(config.Config{Mail: config.MailConfig{Mode: "pigeon"}}, log)
	assert.Error(t, err)
}

func TestEMLDispatcher_Dispatch(t *testing.T) {
	t.Parallel()

	t.Run("returns a downloadable eml addressed to the location buyer", func(t *testing.T) {
		t.Parallel()

		d := &EMLDispatcher{From: testFrom}
		payload := testPayload(testItem("Cabo de rede"))
		html, err := Render(payload, nil)
		require.NoError(t, err)

		receipt, err := d.Dispatch(context.Background(), payload, html, nil)
		require.NoError(t, err)

		assert.Equal(t, "Requisicao_Ana_Silva.eml", receipt.Filename)
		assert.NotEmpty(t, receipt.MessageID)

		parsed, err := mail.ReadMessage(bytes.NewReader(receipt.Data))
		require.NoError(t, err)
		assert.Equal(t, "camila.monteiro@engie.com", parsed.Header.Get("To"))
	})

	t.Run("no items", func(t *testing.T) {
		t.Parallel()

		d := &EMLDispatcher{From: testFrom}
		_, err := d.Dispatch(context.Background(), testPayload(), "<html></html>", nil)
		assert.ErrorIs(t, err, ErrNoItems)
	})

	t.Run("unmapped location", func(t *testing.T) {
		t.Parallel()

		d := &EMLDispatcher{From: testFrom}
		payload := testPayload(testItem("Cabo de rede"))
		payload.Location = "ESOM_F_NOWHERE"
		_, err := d.Dispatch(context.Background(), payload, "<html></html>", nil)
		assert.ErrorIs(t, err, ErrUnknownLocation)
	})
}

func TestSMTPDispatcher_Dispatch(t *testing.T) {
	t.Parallel()

	newDispatcher := func(send sendMailFunc) *SMTPDispatcher {
		d := NewSMTPDispatcher(testSMTPConfig(), testFrom, logrus.New())
		d.sendMail = send
		return d
	}

	t.Run("hands the message to the relay and acknowledges", func(t *testing.T) {
		t.Parallel()

		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte
		d := newDispatcher(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			assert.NotNil(t, a, "credentials configured, auth expected")
			return nil
		})

		payload := testPayload(testItem("Cabo de rede"))
		payload.Location = "ESOM_F_CATU_OI"
		html, err := Render(payload, nil)
		require.NoError(t, err)

		receipt, err := d.Dispatch(context.Background(), payload, html, nil)
		require.NoError(t, err)

		assert.Equal(t, "smtp.ethereal.email:587", gotAddr)
		assert.Equal(t, "no-reply@esom-system.com", gotFrom, "envelope sender is the bare address")
		assert.Equal(t, []string{"tatiana.ribeiro@engie.com"}, gotTo)
		assert.NotEmpty(t, gotMsg)

		assert.Empty(t, receipt.Data, "send mode returns no file")
		assert.NotEmpty(t, receipt.MessageID)
		parsed, err := mail.ReadMessage(bytes.NewReader(gotMsg))
		require.NoError(t, err)
		assert.Equal(t, receipt.MessageID, parsed.Header.Get("Message-ID"),
			"acknowledged id matches the sent message")
	})

	t.Run("no auth without credentials", func(t *testing.T) {
		t.Parallel()

		cfg := testSMTPConfig()
		cfg.User = ""
		d := NewSMTPDispatcher(cfg, testFrom, logrus.New())
		d.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			assert.Nil(t, a)
			return nil
		}

		payload := testPayload(testItem("Cabo de rede"))
		_, err := d.Dispatch(context.Background(), payload, "<html></html>", nil)
		require.NoError(t, err)
	})

	t.Run("relay failure surfaces as an error, nothing partial", func(t *testing.T) {
		t.Parallel()

		d := newDispatcher(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			return errors.New("connection refused")
		})

		payload := testPayload(testItem("Cabo de rede"))
		receipt, err := d.Dispatch(context.Background(), payload, "<html></html>", nil)
		require.Error(t, err)
		assert.Nil(t, receipt)
	})

	t.Run("rejects before sending", func(t *testing.T) {
		t.Parallel()

		sent := false
		d := newDispatcher(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			sent = true
			return nil
		})

		_, err := d.Dispatch(context.Background(), testPayload(), "<html></html>", nil)
		assert.ErrorIs(t, err, ErrNoItems)

		payload := testPayload(testItem("Cabo de rede"))
		payload.Location = "ESOM_F_NOWHERE"
		_, err = d.Dispatch(context.Background(), payload, "<html></html>", nil)
		assert.ErrorIs(t, err, ErrUnknownLocation)

		assert.False(t, sent, "no message may leave for an invalid requisition")
	})

	t.Run("cancelled context stops the dispatch", func(t *testing.T) {
		t.Parallel()

		d := newDispatcher(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			t.Fatal("must not send on a cancelled context")
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		payload := testPayload(testItem("Cabo de rede"))
		_, err := d.Dispatch(ctx, payload, "<html></html>", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDownloadFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Requisicao_Ana_Silva.eml", DownloadFilename("Ana Silva"))
	assert.Equal(t, "Requisicao_Ana_Maria_Souza.eml", DownloadFilename("Ana  Maria\tSouza"))
	assert.Equal(t, "Requisicao_Ana.eml", DownloadFilename("Ana"))
}

// keep the compiler honest about the interface
var (
	_ Dispatcher = (*EMLDispatcher)(nil)
	_ Dispatcher = (*SMTPDispatcher)(nil)
)
