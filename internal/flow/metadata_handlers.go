package flow

import (
	"net/http"

	"github.com/ScottyLabs/terrier/internal/metadataemit"
	"github.com/ScottyLabs/terrier/internal/proxyerr"
)

// HandleIdPMetadata serves the proxy's own IdP-role metadata document
// (spec.md §4.8, §6.1 GET /saml/metadata).
func (s *State) HandleIdPMetadata(w http.ResponseWriter, r *http.Request) {
	doc, err := metadataemit.IdPMetadata(s.Config, s.ProxyKey.CertificateDER)
	if err != nil {
		proxyerr.Respond(w, s.logger(), proxyerr.New(proxyerr.KindInternal, err))
		return
	}
	w.Header().Set("Content-Type", metadataemit.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// HandleSPMetadata serves the proxy's own SP-role metadata document
// (spec.md §4.8, §6.1 GET /sp/metadata).
func (s *State) HandleSPMetadata(w http.ResponseWriter, r *http.Request) {
	doc, err := metadataemit.SPMetadata(s.Config, s.ProxyKey.CertificateDER)
	if err != nil {
		proxyerr.Respond(w, s.logger(), proxyerr.New(proxyerr.KindInternal, err))
		return
	}
	w.Header().Set("Content-Type", metadataemit.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
