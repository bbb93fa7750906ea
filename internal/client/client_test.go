package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenSource struct {
	token   string
	cleared int
}

func (f *fakeTokenSource) Token(ctx context.Context) string { return f.token }
func (f *fakeTokenSource) Clear(ctx context.Context)        { f.cleared++; f.token = "" }

func newTestClient(handler http.HandlerFunc, tokens TokenSource) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second, tokens), srv
}

func TestClient_GetDecodesBody(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Red Roses","price":2999}`))
	}, nil)
	defer srv.Close()

	var out struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	query := url.Values{"page": {"2"}}
	err := c.Get(context.Background(), "/products", query, &out)

	require.NoError(t, err)
	assert.Equal(t, "Red Roses", out.Name)
	assert.Equal(t, int64(2999), out.Price)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	tokens := &fakeTokenSource{token: "tok-123"}
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}, tokens)
	defer srv.Close()

	require.NoError(t, c.Get(context.Background(), "/users/profile", nil, nil))
}

func TestClient_NoAuthHeaderWhenLoggedOut(t *testing.T) {
	tokens := &fakeTokenSource{}
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}, tokens)
	defer srv.Close()

	require.NoError(t, c.Get(context.Background(), "/products", nil, nil))
}

func TestClient_Unauthorized_ClearsToken(t *testing.T) {
	tokens := &fakeTokenSource{token: "expired"}
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"token expired"}`, http.StatusUnauthorized)
	}, tokens)
	defer srv.Close()

	err := c.Get(context.Background(), "/users/profile", nil, nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, tokens.cleared)
	assert.Empty(t, tokens.token)
}

func TestClient_StatusTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{"403 maps to forbidden", http.StatusForbidden, ErrForbidden},
		{"404 maps to not found", http.StatusNotFound, ErrNotFound},
		{"500 maps to server error", http.StatusInternalServerError, ErrServer},
		{"503 maps to server error", http.StatusServiceUnavailable, ErrServer},
		{"422 maps to request failed", http.StatusUnprocessableEntity, ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}, nil)
			defer srv.Close()

			err := c.Get(context.Background(), "/anything", nil, nil)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestClient_RequestFailed_CarriesServerMessage(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"quantity must be positive"}`))
	}, nil)
	defer srv.Close()

	err := c.Post(context.Background(), "/orders", map[string]int{"quantity": -1}, nil)

	require.ErrorIs(t, err, ErrRequestFailed)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Equal(t, "quantity must be positive", statusErr.Message)
}

func TestClient_RequestFailed_MessageField(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"already exists"}`))
	}, nil)
	defer srv.Close()

	err := c.Post(context.Background(), "/users/addresses", nil, nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "already exists", statusErr.Message)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 20*time.Millisecond, nil)
	err := c.Get(context.Background(), "/slow", nil, nil)

	assert.ErrorIs(t, err, ErrTimeout)
	// A timeout is still a network error for fallback policy purposes.
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, time.Second, nil)
	err := c.Get(context.Background(), "/products", nil, nil)

	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestClient_PostEncodesBody(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, decodeJSON(r, &body))
		assert.Equal(t, "demo@example.com", body["email"])
		w.Write([]byte(`{"token":"tok-1"}`))
	}, nil)
	defer srv.Close()

	var out struct {
		Token string `json:"token"`
	}
	err := c.Post(context.Background(), PathLogin, map[string]string{"email": "demo@example.com"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "tok-1", out.Token)
}

func TestClient_Upload(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "receipt.txt", header.Filename)
		assert.Equal(t, "order", r.FormValue("kind"))
		w.Write([]byte(`{"url":"/uploads/receipt.txt"}`))
	}, nil)
	defer srv.Close()

	var out struct {
		URL string `json:"url"`
	}
	err := c.Upload(context.Background(), PathUpload, "file", "receipt.txt",
		strings.NewReader("hello"), map[string]string{"kind": "order"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "/uploads/receipt.txt", out.URL)
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
