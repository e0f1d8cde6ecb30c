package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheetURL = "https://docs.google.com/spreadsheets/d/abc/edit#gid=0"

func TestHandler_ForwardsQuery(t *testing.T) {
	var gotPath, gotURL string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotURL = r.URL.Query().Get("url")
		_, _ = w.Write([]byte(`[["Name"],["Asha"]]`))
	}))
	defer upstream.Close()

	handler, err := NewHandler(upstream.URL+"/macros/s/deploy/exec", nil)
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + SheetPath + "?url=" + url.QueryEscape(sheetURL))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[["Name"],["Asha"]]`, string(body))
	assert.Equal(t, "/macros/s/deploy/exec", gotPath)
	assert.Equal(t, sheetURL, gotURL)
}

func TestHandler_PassesUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()

	handler, err := NewHandler(upstream.URL+"/exec", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, SheetPath+"?url=x", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandler_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	target := upstream.URL + "/exec"
	upstream.Close()

	handler, err := NewHandler(target, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, SheetPath+"?url=x", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandler_Routes(t *testing.T) {
	handler, err := NewHandler("https://script.google.com/macros/s/deploy/exec", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", want: http.StatusOK},
		{name: "missing url", method: http.MethodGet, path: SheetPath, want: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodPost, path: SheetPath + "?url=x", want: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/other", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestNewHandler_RejectsBadTarget(t *testing.T) {
	_, err := NewHandler("ftp://example.com/exec", nil)
	assert.Error(t, err)

	_, err = NewHandler("://bad", nil)
	assert.Error(t, err)
}
