package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/pipeviz/pipeviz/pkg/render/mermaid"
)

func previewHandler(t *testing.T, path string) http.Handler {
	t.Helper()
	logger := charmlog.New(io.Discard)
	return serveHandler(path, mermaid.ModeDeps, defaultSettings(), logger)
}

func TestServePreviewPage(t *testing.T) {
	path := writeFixture(t, fixture)
	handler := previewHandler(t, path)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	if etag := rec.Header().Get("ETag"); etag == "" {
		t.Error("response has no ETag")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "stateDiagram-v2") {
		t.Errorf("page does not embed the diagram:\n%s", body)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("response has no X-Request-Id")
	}
}

func TestServeETagStableAcrossRequests(t *testing.T) {
	path := writeFixture(t, fixture)
	handler := previewHandler(t, path)

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec
	}

	first := get().Header().Get("ETag")
	second := get().Header().Get("ETag")
	if first == "" || first != second {
		t.Errorf("ETag changed for unchanged config: %q then %q", first, second)
	}
}

func TestServeNotModified(t *testing.T) {
	path := writeFixture(t, fixture)
	handler := previewHandler(t, path)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	etag := rec.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("conditional GET = %d, want 304", rec.Code)
	}
}

func TestServeETagTracksConfigChanges(t *testing.T) {
	path := writeFixture(t, fixture)
	handler := previewHandler(t, path)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	before := rec.Header().Get("ETag")

	extended := fixture + `
deploy:prod:
  stage: test
  needs: [test:unit]
`
	if err := os.WriteFile(path, []byte(extended), 0o644); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if after := rec.Header().Get("ETag"); after == before {
		t.Error("ETag unchanged after the config changed")
	}
}

func TestServeRawDiagramRoute(t *testing.T) {
	path := writeFixture(t, fixture)
	handler := previewHandler(t, path)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/diagram.mmd", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /diagram.mmd = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if !strings.Contains(rec.Body.String(), "build_docker --> test_unit") {
		t.Errorf("raw route missing diagram content:\n%s", rec.Body.String())
	}
}

func TestServeRenderFailure(t *testing.T) {
	path := writeFixture(t, "stages:\n  - build\n")
	handler := previewHandler(t, path)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("GET / on empty pipeline = %d, want 500", rec.Code)
	}
}
