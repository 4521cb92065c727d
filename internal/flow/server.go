package flow

import (
	"context"
	"net/http"
	"time"

	"github.com/zenazn/goji/web"
)

// NewMux wires every HTTP surface from spec.md §6.1 onto a *web.Mux. A
// plain http.Server (rather than goji.Serve, which owns its own process
// lifecycle) is used by the caller so the proxy controls graceful
// shutdown of the listener and the background loops together.
func NewMux(s *State, staticDir string) *web.Mux {
	mux := web.New()

	mux.Get("/saml/sso", http.HandlerFunc(s.HandleSSO))
	mux.Post("/saml/sso", http.HandlerFunc(s.HandleSSO))
	mux.Post("/saml/slo", http.HandlerFunc(s.HandleIdPSLO))
	mux.Get("/saml/metadata", http.HandlerFunc(s.HandleIdPMetadata))

	mux.Get("/discovery", http.HandlerFunc(s.HandleDiscoveryPage))
	mux.Post("/discovery", http.HandlerFunc(s.HandleDiscoverySubmit))
	mux.Get("/api/entities/search", http.HandlerFunc(s.HandleEntitySearch))

	mux.Get("/sp/initiate", http.HandlerFunc(s.HandleSPInitiate))
	mux.Post("/sp/acs", http.HandlerFunc(s.HandleACS))
	mux.Post("/sp/slo", http.HandlerFunc(s.HandleSPSLO))
	mux.Get("/sp/metadata", http.HandlerFunc(s.HandleSPMetadata))

	mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	mux.Use(requestLogger(s))

	return mux
}

func requestLogger(s *State) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.Log.WithField("method", r.Method).
				WithField("path", r.URL.Path).
				WithField("duration_ms", time.Since(start).Milliseconds()).
				Debug("handled request")
		})
	}
}

// Run starts the HTTP server on addr and blocks until ctx is cancelled,
// then shuts the server down gracefully within shutdownTimeout
// (spec.md §5, supplemented graceful-shutdown behavior from
// original_source/.../main.rs).
func Run(ctx context.Context, addr string, mux *web.Mux, shutdownTimeout time.Duration) error {
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
