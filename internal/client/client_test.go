package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esom-requisition-server/internal/models"
)

func testPayload() models.RequisitionPayload {
	return models.RequisitionPayload{
		Requester: "Ana Silva",
		Location:  "ESOM_F_PILAR_OI",
		Items: []models.RequisitionItem{{
			Description:     "Cabo de rede",
			Quantity:        decimal.RequireFromString("10"),
			Price:           decimal.RequireFromString("5.5"),
			OriginType:      "Estoque",
			AgreementType:   "Acordo de compra em aberto",
			DestinationType: "Despesa",
			UsageIntent:     "SOLUC_USO E CONSUMO",
			Objective:       "MATERIAL CONSUMO",
			Justification:   "Reposição de estoque",
		}},
	}
}

func TestClient_SubmitJSON(t *testing.T) {
	t.Parallel()

	t.Run("successful download", func(t *testing.T) {
		t.Parallel()

		eml := []byte("From: no-reply@esom-system.com\r\n\r\nbody")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/submit", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var payload models.RequisitionPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Ana Silva", payload.Requester)
			require.Len(t, payload.Items, 1)
			assert.Equal(t, "5.5", payload.Items[0].Price.String())

			w.Header().Set("Content-Type", "message/rfc822")
			w.Write(eml)
		}))
		defer srv.Close()

		c := New(srv.URL)
		result, err := c.Submit(context.Background(), testPayload())
		require.NoError(t, err)

		assert.Equal(t, "Requisicao_Ana_Silva.eml", result.Filename)
		assert.Equal(t, eml, result.FileData)
	})

	t.Run("server message preferred on failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "Local de entrega inválido ou sem email configurado."})
		}))
		defer srv.Close()

		_, err := New(srv.URL).Submit(context.Background(), testPayload())
		require.Error(t, err)
		assert.Equal(t, "Local de entrega inválido ou sem email configurado.", err.Error())
	})

	t.Run("generic fallback when the error body is not json", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := New(srv.URL).Submit(context.Background(), testPayload())
		require.Error(t, err)
		assert.Equal(t, "Erro ao gerar arquivo de requisição.", err.Error())
	})

	t.Run("network failure surfaces the generic message", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // connection refused from here on

		_, err := New(srv.URL).Submit(context.Background(), testPayload())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Falha na comunicação com o servidor.")
	})

	t.Run("uploads are rejected in json mode", func(t *testing.T) {
		t.Parallel()

		c := New("http://localhost:0")
		_, err := c.Submit(context.Background(), testPayload(),
			Upload{Field: "files_0", Filename: "a.pdf", Data: []byte("x")})
		assert.ErrorIs(t, err, ErrUploadsNeedMultipart)
	})
}

func TestClient_SubmitMultipart(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))

		var payload models.RequisitionPayload
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &payload))
		assert.Equal(t, "Ana Silva", payload.Requester)

		files := r.MultipartForm.File["files_0"]
		require.Len(t, files, 1)
		assert.Equal(t, "orcamento.pdf", files[0].Filename)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message":   "Requisição enviada com sucesso!",
			"messageId": "<ack@esom-system.com>",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithMode(ModeMultipart))
	result, err := c.Submit(context.Background(), testPayload(),
		Upload{Field: "files_0", Filename: "orcamento.pdf", Data: []byte("fake pdf")})
	require.NoError(t, err)

	assert.Equal(t, "Requisição enviada com sucesso!", result.Message)
	assert.Equal(t, "<ack@esom-system.com>", result.MessageID)
	assert.Empty(t, result.FileData)
}

func TestClient_SingleInFlightSubmission(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	var enteredOnce sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enteredOnce.Do(func() { close(entered) })
		<-release
		w.Write([]byte("eml"))
	}))
	defer srv.Close()

	c := New(srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), testPayload())
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the server")
	}

	// Second attempt while the first is still in flight: dropped, not queued.
	_, err := c.Submit(context.Background(), testPayload())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)

	// After the first completes the client is usable again.
	_, err = c.Submit(context.Background(), testPayload())
	require.NoError(t, err)
}
