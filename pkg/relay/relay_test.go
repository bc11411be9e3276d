package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitSuccess(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true,"message":"Email sent successfully!"}`))
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL, AccessKey: "key-123", FromName: "Storefront"})
	err := c.Submit(context.Background(), Submission{
		Subject: "New order",
		Fields:  map[string]string{"name": "Asha", "subject": "ignored"},
	})
	require.NoError(t, err)

	assert.Equal(t, "key-123", got["access_key"])
	assert.Equal(t, "New order", got["subject"])
	assert.Equal(t, "Storefront", got["from_name"])
	assert.Equal(t, "Asha", got["name"])
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"success false", http.StatusOK, `{"success":false,"message":"invalid access key"}`},
		{"server error", http.StatusInternalServerError, `{"success":false}`},
		{"client error with success body", http.StatusBadRequest, `{"success":true}`},
		{"undecodable", http.StatusOK, `<html>oops</html>`},
		{"empty body", http.StatusOK, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(Config{URL: srv.URL}).Submit(context.Background(), Submission{Subject: "x"})
			assert.ErrorIs(t, err, ErrRejected)
		})
	}
}

func TestSubmitTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(Config{URL: url}).Submit(context.Background(), Submission{Subject: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestSubmitTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := New(Config{URL: srv.URL, Timeout: 50 * time.Millisecond}).Submit(context.Background(), Submission{Subject: "x"})
	assert.Error(t, err)
}
