// Package devserver serves generated declarations over HTTP for local
// development: a frontend build can fetch fresh declarations without a
// separate generation step.
package devserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/broady/grpctypes"
)

// Server answers generation requests for schema files under a root
// directory.
type Server struct {
	root   string
	base   grpctypes.Options
	logger *slog.Logger
	mux    *http.ServeMux
	cors   *CORSConfig
}

// New creates a Server for the files under root. base supplies the options
// a request does not override; its Logger is ignored in favour of logger.
func New(root string, base *grpctypes.Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		root:   root,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	if base != nil {
		s.base = *base
	}
	s.base.Logger = logger

	s.mux.HandleFunc("GET /generate", s.handleGenerate)
	s.mux.HandleFunc("GET /ir", s.handleIR)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// WithCORS enables cross-origin requests.
func (s *Server) WithCORS(cfg CORSConfig) *Server {
	s.cors = &cfg
	return s
}

// Handler returns the server's routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	if s.cors != nil {
		h = CORS(*s.cors, h)
	}
	return Logging(s.logger, h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("dev server listening", slog.String("addr", ln.Addr().String()), slog.String("root", s.root))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	params, err := decodeParams(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out, err := grpctypes.Generate(r.Context(), s.patterns(params), params.options(s.base))
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/typescript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleIR(w http.ResponseWriter, r *http.Request) {
	params, err := decodeParams(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	root, err := grpctypes.Load(r.Context(), s.patterns(params), params.options(s.base))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, root)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// patterns resolves the request's patterns against the server root.
func (s *Server) patterns(p *Params) []string {
	out := make([]string, len(p.Pattern))
	for i, pat := range p.Pattern {
		out[i] = filepath.Join(s.root, filepath.FromSlash(pat))
	}
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers already sent.
		s.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	e := grpctypes.ToError(err)
	if e.Code == grpctypes.CodeInternal || e.Code == grpctypes.CodeUnexpectedNode {
		s.logger.Error("generation failed", slog.String("code", string(e.Code)), slog.Any("error", err))
	}
	body := grpctypes.Error{Code: e.Code, Message: e.Message, Details: e.Details}
	if e.Err != nil && e.Code != grpctypes.CodeInvalidArgument {
		body.Message = e.Message + ": " + e.Err.Error()
	}
	s.writeJSON(w, e.Code.HTTPStatus(), &body)
}
