package flow

import (
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/ScottyLabs/terrier/internal/bindings"
	"github.com/ScottyLabs/terrier/internal/proxyerr"
	"github.com/ScottyLabs/terrier/internal/reissue"
	"github.com/ScottyLabs/terrier/internal/samlxml"
)

// HandleACS receives the upstream IdP's Response, consumes the session it
// belongs to, validates and re-issues the assertion under the proxy's own
// identity, and auto-submits the result to the original downstream SP
// (spec.md §4.6 AWAITING_IDP_RESPONSE -> DONE).
func (s *State) HandleACS(w http.ResponseWriter, r *http.Request) {
	log := s.logger()

	if err := r.ParseForm(); err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlResponse, err))
		return
	}
	encoded := r.PostForm.Get("SAMLResponse")
	if encoded == "" {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlResponse,
			fmt.Errorf("flow: missing SAMLResponse form value")))
		return
	}
	relayState := r.PostForm.Get("RelayState")
	if relayState == "" {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlResponse,
			fmt.Errorf("flow: missing RelayState form value")))
		return
	}

	// The ACS leg consumes the session exactly once: a replayed POST to
	// this endpoint with the same RelayState will find no session and is
	// rejected, rather than reprocessing (and re-signing) the same
	// upstream response twice.
	sess, ok := s.Sessions.Remove(relayState)
	if !ok {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindSessionNotFound,
			fmt.Errorf("flow: no session for RelayState %q", relayState)))
		return
	}

	raw, err := bindings.DecodePOST(encoded)
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlResponse, err))
		return
	}

	// Re-fetch the upstream IdP's metadata (normally an MDQ cache hit) to
	// get the certificate its Response must verify against.
	idpDesc, err := s.MDQ.GetEntity(r.Context(), sess.SelectedUniversity)
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindMdqFetchFailed, err))
		return
	}
	idpCert, err := parseSigningCertificate(idpDesc)
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindMdqFetchFailed, err))
		return
	}

	expected := map[string]bool{sess.ProxyRequestID: true}
	identity, err := reissue.ValidateUpstreamResponse(raw, idpCert, s.Config.EntityID, expected, now())
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlResponse, err))
		return
	}

	signed, err := reissue.BuildSignedResponse(s.ProxyKey, s.Config.EntityID, sess.SPAcsURL, sess.OriginalRequestID, identity, now())
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInternal, err))
		return
	}

	html, err := renderAutoSubmit(sess.SPAcsURL, bindings.EncodePOST(signed), sess.RelayState)
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInternal, err))
		return
	}
	writeHTML(w, http.StatusOK, html)
}

// parseSigningCertificate extracts and parses idpDesc's advertised
// signing certificate (base64 DER, as embedded in metadata) for use as
// the XMLDSig verification trust anchor on this Response.
func parseSigningCertificate(idpDesc *samlxml.EntityDescriptor) (*x509.Certificate, error) {
	b64, err := signingCertificate(idpDesc)
	if err != nil {
		return nil, err
	}
	der, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("flow: decoding signing certificate for %s: %w", idpDesc.EntityID, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("flow: parsing signing certificate for %s: %w", idpDesc.EntityID, err)
	}
	return cert, nil
}
