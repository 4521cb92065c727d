package flow

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ScottyLabs/terrier/internal/bindings"
	"github.com/ScottyLabs/terrier/internal/proxyerr"
	"github.com/ScottyLabs/terrier/internal/samlxml"
)

// HandleSSO is the IdP-facing ingress point: a downstream SP sends an
// AuthnRequest here (either binding), the proxy stashes the request's
// identity in a new session, and redirects the browser into discovery
// (spec.md §4.6 NEW -> DISCOVERY_PENDING transition).
func (s *State) HandleSSO(w http.ResponseWriter, r *http.Request) {
	log := s.logger()

	raw, err := decodeIncomingMessage(r, "SAMLRequest")
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlRequest, err))
		return
	}
	if err := bindings.ValidateXML(raw); err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlRequest, err))
		return
	}

	var authnReq samlxml.AuthnRequest
	if err := xml.Unmarshal(raw, &authnReq); err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlRequest, err))
		return
	}

	if authnReq.AssertionConsumerServiceURL == "" {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlRequest,
			fmt.Errorf("flow: authn request missing AssertionConsumerServiceURL")))
		return
	}

	relayState := relayStateOf(r)
	sess := s.Sessions.Create(authnReq.ID, authnReq.AssertionConsumerServiceURL, authnReq.Issuer.Value, relayState)

	log.WithFields(map[string]interface{}{
		"session_id":   sess.ID,
		"sp_entity_id": sess.SPEntityID,
	}).Info("created session from incoming authn request")

	redirectURL := "/discovery?" + url.Values{"session": {sess.ID}}.Encode()
	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}
