package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(baseURL string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: baseURL, Logger: zap.NewNop()}, opts...)
}

func TestDoRequestSendsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/qa", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(requestIDHeader))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["prompt"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"markdown":"# hi"}`))
	}))
	defer server.Close()

	conn := newTestConnector(server.URL)

	var resp struct {
		Markdown string `json:"markdown"`
	}
	err := conn.DoRequest(context.Background(), http.MethodPost, "/qa", map[string]string{"prompt": "hello"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "# hi", resp.Markdown)
}

func TestDoRequestHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "overloaded", httpErr.Message)
}

func TestDoRequestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := newTestConnector(url).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestDoRequestDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	var resp map[string]any
	err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, &resp)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Contains(t, decodeErr.Body, "not json")
}

func TestDoRequestOverrideURLAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/elsewhere", r.URL.Path)
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
	}))
	defer server.Close()

	conn := newTestConnector("http://127.0.0.1:1", WithAuthToken("secret"), WithRequestLogging())
	err := conn.DoRequest(context.Background(), http.MethodGet, "/ignored", nil, nil,
		WithURL(server.URL+"/elsewhere"),
		WithHeader("X-Test", "yes"),
	)
	require.NoError(t, err)
}

func TestAuthTokenEmptySkipsHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
	}))
	defer server.Close()

	err := newTestConnector(server.URL, WithAuthToken("")).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	require.NoError(t, err)
}

func TestDoMultipartRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()

		content, _ := io.ReadAll(file)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.7", string(content))

		w.Write([]byte(`{"url":["a","b"]}`))
	}))
	defer server.Close()

	var resp struct {
		URL []string `json:"url"`
	}
	err := newTestConnector(server.URL).DoMultipartRequest(context.Background(), http.MethodPost, "/upload_pdf",
		func(w *multipart.Writer) error {
			part, err := w.CreateFormFile("file", "report.pdf")
			if err != nil {
				return err
			}
			_, err = part.Write([]byte("%PDF-1.7"))
			return err
		}, &resp)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, resp.URL)
}

func TestDoMultipartRequestPrepareError(t *testing.T) {
	conn := newTestConnector("http://127.0.0.1:1")
	err := conn.DoMultipartRequest(context.Background(), http.MethodPost, "/upload_pdf",
		func(*multipart.Writer) error { return errors.New("boom") }, nil)
	assert.ErrorContains(t, err, "prepare multipart body")
}

func TestRequestTimeoutOption(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	err := newTestConnector(server.URL, WithRequestTimeout(20*time.Millisecond)).
		DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestDoRequestRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("indexed"))
	}))
	defer server.Close()

	var raw []byte
	err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodPost, "/index", map[string]string{"url": "u"}, &raw)
	require.NoError(t, err)
	assert.Equal(t, "indexed", string(raw))
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t,
		"https://api.telegram.org/file/bot<redacted>/documents/file_1.pdf",
		RedactURL("https://api.telegram.org/file/bot123456:ABC-def/documents/file_1.pdf"))
	assert.Equal(t, "https://rag.example/qa", RedactURL("https://rag.example/qa"))
}

func TestNetworkErrorRedactsURL(t *testing.T) {
	err := newTestConnector("").DoRequest(context.Background(), http.MethodGet, "", nil, nil,
		WithURL("http://127.0.0.1:1/file/bot42:TOPSECRET/doc.pdf"))

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.NotContains(t, err.Error(), "TOPSECRET")
}
