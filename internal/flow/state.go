// Package flow implements the proxy's flow engine (C6, spec.md §4.6): the
// HTTP handlers that drive a session through NEW -> DISCOVERY_PENDING ->
// INITIATE_PENDING -> AWAITING_IDP_RESPONSE -> DONE, plus the stateless
// logout acknowledgement path.
package flow

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ScottyLabs/terrier/internal/config"
	"github.com/ScottyLabs/terrier/internal/discovery"
	"github.com/ScottyLabs/terrier/internal/keymaterial"
	"github.com/ScottyLabs/terrier/internal/mdq"
	"github.com/ScottyLabs/terrier/internal/session"
)

// searchResultLimit bounds the typeahead endpoint's result set
// (spec.md §6.1 GET /api/entities/search).
const searchResultLimit = 20

// State bundles every dependency the flow handlers need: configuration,
// the session store, the MDQ client, the federation index, the proxy's
// own signing key, and an HTTP client for outbound calls. It is built
// once at startup and shared read-only across every request goroutine —
// every field it holds already does its own internal locking.
type State struct {
	Config     *config.Config
	Sessions   *session.Store
	MDQ        *mdq.Client
	Index      *discovery.Index
	ProxyKey   *keymaterial.ProxyKeyMaterial
	HTTPClient *http.Client
	Log        *logrus.Logger
}

func (s *State) logger() *logrus.Entry {
	return s.Log.WithField("component", "flow")
}

func now() time.Time { return time.Now() }

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
