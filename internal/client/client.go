// Package client is the Go submission client for the requisition
// endpoint: it serializes a payload, performs the request in the
// configured transport mode and interprets the two response shapes the
// server produces.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync/atomic"

	"esom-requisition-server/internal/mailer"
	"esom-requisition-server/internal/models"
)

// Mode selects how the payload goes over the wire.
type Mode string

const (
	// ModeJSON posts the payload as a bare JSON body and expects .eml
	// bytes back.
	ModeJSON Mode = "json"
	// ModeMultipart posts a "data" form field plus file parts and expects
	// a JSON acknowledgment.
	ModeMultipart Mode = "multipart"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission has not finished. Concurrent attempts are dropped, not queued.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// ErrUploadsNeedMultipart is returned when file uploads are passed to a
// client configured for JSON mode.
var ErrUploadsNeedMultipart = errors.New("file uploads require multipart mode")

const (
	genericSubmitError  = "Erro ao gerar arquivo de requisição."
	genericNetworkError = "Falha na comunicação com o servidor."
)

// Upload is one file to attach. Field follows the files_<itemIndex>
// convention when the file belongs to a specific line item.
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

// Result carries whichever outcome the server produced: a downloadable
// .eml (JSON mode) or an acknowledgment (multipart mode).
type Result struct {
	Filename  string
	FileData  []byte
	Message   string
	MessageID string
}

// Client submits requisitions. It allows a single in-flight submission at
// a time; it is otherwise safe for concurrent use.
type Client struct {
	baseURL string
	mode    Mode
	httpc   *http.Client
	busy    atomic.Bool
}

type Option func(*Client)

func WithMode(m Mode) Option {
	return func(c *Client) { c.mode = m }
}

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New returns a client for the server at baseURL (no trailing slash
// required). The default transport mode is JSON.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		mode:    ModeJSON,
		httpc:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends the payload. While a submission is in flight further calls
// return ErrSubmitInFlight immediately. Failed submissions are not
// retried; the caller decides whether to submit again.
func (c *Client) Submit(ctx context.Context, payload models.RequisitionPayload, uploads ...Upload) (*Result, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer c.busy.Store(false)

	switch c.mode {
	case ModeMultipart:
		return c.submitMultipart(ctx, payload, uploads)
	default:
		if len(uploads) > 0 {
			return nil, ErrUploadsNeedMultipart
		}
		return c.submitJSON(ctx, payload)
	}
}

func (c *Client) submitJSON(ctx context.Context, payload models.RequisitionPayload) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", genericNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(serverMessage(resp.Body, genericSubmitError))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", genericNetworkError, err)
	}
	return &Result{
		Filename: mailer.DownloadFilename(payload.Requester),
		FileData: data,
	}, nil
}

func (c *Client) submitMultipart(ctx context.Context, payload models.RequisitionPayload, uploads []Upload) (*Result, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("data", string(data)); err != nil {
		return nil, err
	}
	for _, up := range uploads {
		part, err := w.CreateFormFile(up.Field, up.Filename)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(up.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", genericNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(serverMessage(resp.Body, genericSubmitError))
	}

	var ack struct {
		Message   string `json:"message"`
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, fmt.Errorf("%s: %w", genericNetworkError, err)
	}
	return &Result{Message: ack.Message, MessageID: ack.MessageID}, nil
}

// serverMessage extracts the {message} of an error response, falling back
// to the generic text when the body is not the expected JSON.
func serverMessage(r io.Reader, fallback string) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Message == "" {
		return fallback
	}
	return body.Message
}
