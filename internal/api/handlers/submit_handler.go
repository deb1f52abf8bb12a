package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"esom-requisition-server/internal/mailer"
	"esom-requisition-server/internal/models"
)

// User-facing messages of the submit endpoint. The form shows them as-is.
const (
	msgMissingData     = "Dados do formulário ausentes."
	msgInvalidData     = "Dados do formulário inválidos."
	msgNoItems         = "Nenhum item na requisição."
	msgInvalidLocation = "Local de entrega inválido ou sem email configurado."
	msgInternalError   = "Erro interno no servidor."
	msgSuccess         = "Requisição enviada com sucesso!"
)

// SubmitHandler owns POST /api/submit. It accepts the payload either as a
// plain JSON body or as multipart/form-data with the JSON in a "data"
// field plus file parts, and answers with whatever the configured
// dispatcher produced: raw .eml bytes or a JSON acknowledgment.
type SubmitHandler struct {
	Dispatcher mailer.Dispatcher
	Validate   *validator.Validate
	Log        *logrus.Logger
}

// Submit processes one requisition. Every request is independent; uploaded
// file content lives in request-scoped buffers that are dropped when the
// handler returns, on success and failure alike.
func (h *SubmitHandler) Submit(c *gin.Context) {
	var payload models.RequisitionPayload
	var attachments []mailer.Attachment

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		raw := c.PostForm("data")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgMissingData})
			return
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidData})
			return
		}

		var err error
		attachments, err = readAttachments(c)
		if err != nil {
			h.Log.WithError(err).Error("reading uploaded files")
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidData})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgMissingData})
			return
		}
	}

	if len(payload.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgNoItems})
		return
	}
	if err := h.Validate.Struct(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidData})
		return
	}

	html, err := mailer.Render(&payload, attachments)
	if err != nil {
		h.Log.WithError(err).Error("rendering requisition email")
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternalError})
		return
	}

	receipt, err := h.Dispatcher.Dispatch(c.Request.Context(), &payload, html, attachments)
	if err != nil {
		switch {
		case errors.Is(err, mailer.ErrNoItems):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgNoItems})
		case errors.Is(err, mailer.ErrUnknownLocation):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidLocation})
		default:
			// The wrapped error may mention the relay host but never
			// credentials; even so, only the generic message goes out.
			h.Log.WithError(err).WithField("location", payload.Location).Error("dispatching requisition")
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternalError})
		}
		return
	}

	if receipt.Data != nil {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.Filename))
		c.Data(http.StatusOK, "message/rfc822", receipt.Data)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgSuccess, "messageId": receipt.MessageID})
}

// readAttachments drains every uploaded file part into memory, in field
// name order so the resulting attachment sequence is stable. The
// files_<itemIndex> naming convention ties a part to a line item; parts
// under other names are attached without an item listing.
func readAttachments(c *gin.Context) ([]mailer.Attachment, error) {
	mpForm, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(mpForm.File))
	for field := range mpForm.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var attachments []mailer.Attachment
	for _, field := range fields {
		for _, fh := range mpForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
			}
			attachments = append(attachments, mailer.Attachment{
				Field:    field,
				Filename: fh.Filename,
				Data:     data,
			})
		}
	}
	return attachments, nil
}
