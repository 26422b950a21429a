package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// page builds an html document padded past the plausibility threshold.
func page(content string) string {
	return "<html><body>" + content + strings.Repeat("<!-- pad -->", 64) + "</body></html>"
}

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Listing</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.Body, "<h1>Listing</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_SetsClientIdentity(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, gotUA, "Safari")
	assert.Contains(t, gotLang, "en-US")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestPlausible(t *testing.T) {
	assert.True(t, Plausible(page("<ul class=\"poster-list\"></ul>")))
	assert.False(t, Plausible(""))
	assert.False(t, Plausible("<html></html>"), "too short")
	assert.False(t, Plausible(strings.Repeat("plain text ", 100)), "no html root")
}

func TestClient_Page_DirectSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page("<p>direct</p>")))
	}))
	defer server.Close()

	c := NewClient("", false)
	body, err := c.Page(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "direct")
}

func TestClient_Page_FallsBackToMirror(t *testing.T) {
	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer direct.Close()

	var mirrorHit bool
	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mirrorHit = true
		_, _ = w.Write([]byte(page("<p>mirrored</p>")))
	}))
	defer mirror.Close()

	c := NewClient(mirror.URL+"/?u=", false)
	body, err := c.Page(context.Background(), direct.URL)
	require.NoError(t, err)
	assert.True(t, mirrorHit)
	assert.Contains(t, body, "mirrored")
}

func TestClient_Page_MirrorOnImplausibleBody(t *testing.T) {
	// Direct returns 200 but a stub body; the mirror tier must still run.
	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer direct.Close()

	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page("<p>full page</p>")))
	}))
	defer mirror.Close()

	c := NewClient(mirror.URL+"/?u=", false)
	body, err := c.Page(context.Background(), direct.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "full page")
}

func TestClient_Page_AllTiersExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient("", false)
	_, err := c.Page(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "no fetch strategy")
}
