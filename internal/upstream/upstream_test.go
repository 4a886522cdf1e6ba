package upstream

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_PlainJSONAndHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "neogaming-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "br", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "keep", r.URL.Query().Get("base"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	f := New(Config{Service: "test", UserAgent: "neogaming-test"})
	body, err := f.Get(context.Background(), ts.URL+"?base=keep", url.Values{"format": {"json"}})

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestGet_BrotliBody(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	_, err := bw.Write([]byte(`[1,2,3]`))
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	}))
	defer ts.Close()

	body, err := New(Config{Service: "test"}).Get(context.Background(), ts.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, string(body))
}

func TestGet_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer ts.Close()

	_, err := New(Config{Service: "test"}).Get(context.Background(), ts.URL, nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Contains(t, err.Error(), "slow down")
}

func TestGet_RateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	f := New(Config{Service: "test", RequestsPerSecond: 1, Burst: 1})
	_, err := f.Get(context.Background(), ts.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = f.Get(ctx, ts.URL, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}

func TestPostJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var buf bytes.Buffer
		buf.ReadFrom(r.Body)
		assert.JSONEq(t, `{"email":"a@b.c"}`, buf.String())
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"userId":1}`))
	}))
	defer ts.Close()

	body, err := New(Config{Service: "test"}).PostJSON(context.Background(), ts.URL, map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":1}`, string(body))
}
