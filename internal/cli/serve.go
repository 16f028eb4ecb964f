package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pipeviz/pipeviz/pkg/render/mermaid"
)

// pageTemplate wraps a Mermaid document in a minimal HTML page that renders
// it client-side. The placeholder is the HTML-escaped document.
const pageTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>pipeviz</title>
<style>body { margin: 2rem; font-family: sans-serif; }</style>
</head>
<body>
<pre class="mermaid">
%s
</pre>
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
</body>
</html>
`

// newServeCmd creates the serve command: a local preview server that
// re-reads the configuration on every request, so editing the pipeline and
// refreshing the browser is enough to see changes.
func newServeCmd(settings Settings) *cobra.Command {
	var (
		mode string
		addr string
	)
	mode = settings.Mode
	addr = settings.ServeAddr

	cmd := &cobra.Command{
		Use:   "serve <gitlab-ci.yml>",
		Short: "Serve a live local preview of the pipeline diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], mode, addr, settings)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", mode, "visualization mode: deps (default), stages")
	cmd.Flags().StringVar(&addr, "addr", addr, "listen address")

	return cmd
}

// docETag derives a strong ETag from the rendered document so that an
// unchanged configuration can answer 304 Not Modified.
func docETag(doc string) string {
	sum := sha256.Sum256([]byte(doc))
	return fmt.Sprintf("%q", hex.EncodeToString(sum[:16]))
}

// requestID tags each request with a generated ID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(),
			loggerFromContext(r.Context()).With("request_id", id))))
	})
}

// serveHandler builds the preview router. Both routes re-render the diagram
// from the source file on every request.
func serveHandler(path string, mode mermaid.Mode, settings Settings, logger *charmlog.Logger) http.Handler {
	render := func(r *http.Request) (string, error) {
		return renderDocument(withLogger(r.Context(), logger), path, mode, settings.MermaidConfig)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(requestID)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		doc, err := render(r)
		if err != nil {
			logger.Errorf("render: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		etag := docETag(doc)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("ETag", etag)
		fmt.Fprintf(w, pageTemplate, html.EscapeString(doc))
	})
	router.Get("/diagram.mmd", func(w http.ResponseWriter, r *http.Request) {
		doc, err := render(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, doc)
	})
	return router
}

func runServe(ctx context.Context, path, modeStr, addr string, settings Settings) error {
	mode, err := mermaid.ParseMode(modeStr)
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)

	// Fail fast on a broken configuration before binding the port.
	if _, err := renderDocument(ctx, path, mode, settings.MermaidConfig); err != nil {
		return err
	}

	srv := &http.Server{Addr: addr, Handler: serveHandler(path, mode, settings, logger)}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.Infof("Serving %s preview of %s on http://%s", mode, path, addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
