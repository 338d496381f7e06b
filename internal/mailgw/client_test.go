package mailgw

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(Config{BaseURL: srv.URL}, logger)
}

func TestDomain(t *testing.T) {
	t.Run("first domain of hydra collection", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/domains", r.URL.Path)
			w.Write([]byte(`{"hydra:member":[{"id":"1","domain":"example.com","isActive":true},{"id":"2","domain":"other.org"}]}`))
		})

		assert.Equal(t, "example.com", c.Domain(context.Background()))
	})

	t.Run("plain array", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":"1","domain":"array.dev"}]`))
		})

		assert.Equal(t, "array.dev", c.Domain(context.Background()))
	})

	t.Run("empty catalog", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"hydra:member":[]}`))
		})

		assert.Empty(t, c.Domain(context.Background()))
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		assert.Empty(t, c.Domain(context.Background()))
	})
}

func TestDomainNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Empty(t, c.Domain(context.Background()))
	assert.Nil(t, c.CreateAccount(context.Background(), "a@b.c", "p"))
	assert.Empty(t, c.Token(context.Background(), "a@b.c", "p"))
	assert.NotNil(t, c.Messages(context.Background(), "tok"))
	assert.Empty(t, c.Messages(context.Background(), "tok"))
	assert.Nil(t, c.Message(context.Background(), "tok", "m1"))
	assert.False(t, c.DeleteAccount(context.Background(), "tok", "acc"))
}

func TestCreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/accounts", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice@example.com", body["address"])
			assert.Equal(t, "pw", body["password"])

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"acc-1","address":"alice@example.com"}`))
		})

		account := c.CreateAccount(context.Background(), "alice@example.com", "pw")
		require.NotNil(t, account)
		assert.Equal(t, "acc-1", account.ID)
		assert.Equal(t, "alice@example.com", account.Address)
	})

	t.Run("address taken", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"detail":"address: This value is already used."}`))
		})

		assert.Nil(t, c.CreateAccount(context.Background(), "alice@example.com", "pw"))
	})

	t.Run("missing id", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"address":"alice@example.com"}`))
		})

		assert.Nil(t, c.CreateAccount(context.Background(), "alice@example.com", "pw"))
	})
}

func TestToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"acc-1","token":"jwt-token"}`))
	})

	assert.Equal(t, "jwt-token", c.Token(context.Background(), "alice@example.com", "pw"))
}

func TestMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"hydra:member":[
			{"id":"m2","from":{"name":"Bob","address":"bob@x.com"},"subject":"Second"},
			{"id":"m1","from":{"name":"","address":"eve@x.com"},"subject":"First","hasAttachments":true}
		]}`))
	})

	messages := c.Messages(context.Background(), "tok")
	require.Len(t, messages, 2)
	assert.Equal(t, "m2", messages[0].ID)
	assert.Equal(t, "Bob", messages[0].From.Name)
	assert.Equal(t, "m1", messages[1].ID)
	assert.True(t, messages[1].HasAttachments)
}

func TestMessage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/messages/m1", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Write([]byte(`{
				"id":"m1",
				"from":{"name":"Bob","address":"bob@x.com"},
				"to":[{"name":"","address":"alice@example.com"}],
				"subject":"Hello",
				"text":"",
				"html":["<p>Hi</p>"],
				"attachments":[{"id":"a1","filename":"f.pdf","contentType":"application/pdf","size":10}],
				"createdAt":"2026-01-01T12:00:00+00:00"
			}`))
		})

		msg := c.Message(context.Background(), "tok", "m1")
		require.NotNil(t, msg)
		assert.Equal(t, "Hello", msg.Subject)
		assert.Equal(t, []string{"<p>Hi</p>"}, msg.HTML)
		assert.Len(t, msg.Attachments, 1)
		assert.Equal(t, "alice@example.com", msg.To[0].Address)
		assert.Equal(t, 2026, msg.CreatedAt.Year())
	})

	t.Run("not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		assert.Nil(t, c.Message(context.Background(), "tok", "missing"))
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/accounts/acc-1", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		})

		assert.True(t, c.DeleteAccount(context.Background(), "tok", "acc-1"))
	})

	t.Run("failure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		assert.False(t, c.DeleteAccount(context.Background(), "tok", "acc-1"))
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{Method: "GET", Path: "/domains", Status: 503, Body: "down"}
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "/domains")
}
