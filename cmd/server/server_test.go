package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mairateam/calculators/internal/db"
	"github.com/mairateam/calculators/internal/log"
	"github.com/mairateam/calculators/internal/migrations"
	"github.com/mairateam/calculators/internal/scenario"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "server-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, migrations.Up(database))

	return newServer(scenario.NewStore(database), "CZK")
}

func serve(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHomeAndHealthz(t *testing.T) {
	h := newTestServer(t).routes()

	rr := serve(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `href="/ppc"`)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

	rr = serve(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestRecoverPanic(t *testing.T) {
	h := recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := serve(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestLogRequestsKeepsStatus(t *testing.T) {
	h := logRequests(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := serve(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestMiddleware_PanicIsLoggedAsFailedRequest(t *testing.T) {
	var buf bytes.Buffer
	orig := logrus.StandardLogger().Out
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(orig) })
	log.Configure("info", false)

	h := middleware().Then(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := serve(t, h, http.MethodGet, "/ppc", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"unhandled panic"`)
	assert.Contains(t, lines[0], `"correlation_id":"`)
	assert.Contains(t, lines[1], `"msg":"request failed"`)
	assert.Contains(t, lines[1], `"status_code":500`)
}

func TestStatusWriter_Hijacked(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	assert.False(t, sw.Hijacked())

	_, _, err := sw.Hijack()
	require.Error(t, err)
	assert.False(t, sw.Hijacked())
}
