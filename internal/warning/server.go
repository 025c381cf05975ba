// Package warning serves the local warning surface that phishing
// verdicts escalate to. It renders the blocked URL and the verdict
// reason from query parameters; it never navigates anywhere itself.
package warning

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var pageTemplate = template.Must(template.New("warning").Parse(`<!doctype html>
<html>
<head>
<title>LinkGuard - Navigation blocked</title>
<style>
  body { font-family: system-ui, sans-serif; background: #7f1d1d; color: #fff; margin: 0; }
  main { max-width: 640px; margin: 10vh auto; padding: 24px; }
  h1 { font-size: 28px; }
  .url { font-weight: 600; word-break: break-all; }
  .reason { background: rgba(0,0,0,0.25); padding: 12px; border-radius: 8px; }
</style>
</head>
<body>
<main>
  <h1>Navigation blocked</h1>
  <p>The destination was classified as phishing:</p>
  <p class="url">{{.URL}}</p>
  {{if .Reason}}<p class="reason">{{.Reason}}</p>{{end}}
  <p>Close this page, or go back to where you came from.</p>
</main>
</body>
</html>
`))

// Server hosts the warning page over HTTP.
type Server struct {
	addr   string
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a new warning server listening on addr.
func NewServer(addr string, logger *zap.Logger) *Server {
	return &Server{addr: addr, logger: logger}
}

// Start starts serving the warning page.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/warning", s.handleWarning)

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("Warning surface starting", zap.String("address", s.addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				s.logger.Error("Warning server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the server.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// URL returns the address decisions should navigate to.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s/warning", s.addr)
}

func (s *Server) handleWarning(w http.ResponseWriter, r *http.Request) {
	data := struct {
		URL    string
		Reason string
	}{
		URL:    r.URL.Query().Get("url"),
		Reason: r.URL.Query().Get("reason"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("Failed to render warning page", zap.Error(err))
	}
}
