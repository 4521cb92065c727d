package flow

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/ScottyLabs/terrier/internal/bindings"
	"github.com/ScottyLabs/terrier/internal/proxyerr"
	"github.com/ScottyLabs/terrier/internal/samlxml"
)

// handleStatelessLogout acknowledges any LogoutRequest unconditionally:
// the proxy keeps no cross-request logout state (spec.md's Non-goals
// scope SLO down to a stateless ack), so both the IdP-facing
// (/saml/slo) and SP-facing (/sp/slo) legs share this implementation.
// The acknowledgement auto-submits back to the request's Destination, or
// — absent one — to its issuer entity ID (supplemented from
// original_source/.../sp/slo.rs, see SPEC_FULL.md).
func (s *State) handleStatelessLogout(w http.ResponseWriter, r *http.Request) {
	log := s.logger()

	raw, err := decodeIncomingMessage(r, "SAMLRequest")
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlRequest, err))
		return
	}

	var logoutReq samlxml.LogoutRequest
	if err := bindings.ValidateXML(raw); err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlRequest, err))
		return
	}
	if err := xml.Unmarshal(raw, &logoutReq); err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlRequest, err))
		return
	}

	destination := logoutReq.Destination
	if destination == "" {
		destination = logoutReq.Issuer.Value
	}

	resp := samlxml.LogoutResponse{
		ID:           samlxml.NewID(),
		InResponseTo: logoutReq.ID,
		Version:      "2.0",
		IssueInstant: time.Now().UTC().Format(time.RFC3339),
		Destination:  destination,
		Issuer:       samlxml.Issuer{Value: s.Config.EntityID},
		Status:       samlxml.Status{StatusCode: samlxml.StatusCode{Value: samlxml.StatusSuccess}},
	}

	respRaw, err := xml.Marshal(resp)
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInternal, fmt.Errorf("flow: marshaling logout response: %w", err)))
		return
	}

	html, err := renderAutoSubmit(destination, bindings.EncodePOST(respRaw), "")
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInternal, err))
		return
	}
	writeHTML(w, http.StatusOK, html)
}

// decodeIncomingMessage decodes a SAML binding-carried message from
// either the HTTP-Redirect (GET, query parameter, deflated) or HTTP-POST
// (POST, form value, not deflated) binding, selecting by method.
func decodeIncomingMessage(r *http.Request, param string) ([]byte, error) {
	switch r.Method {
	case http.MethodGet:
		encoded := r.URL.Query().Get(param)
		if encoded == "" {
			return nil, fmt.Errorf("flow: missing %s query parameter", param)
		}
		return bindings.DecodeRedirect(encoded)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("flow: parsing form body: %w", err)
		}
		encoded := r.PostForm.Get(param)
		if encoded == "" {
			return nil, fmt.Errorf("flow: missing %s form value", param)
		}
		return bindings.DecodePOST(encoded)
	default:
		return nil, fmt.Errorf("flow: unsupported method %s", r.Method)
	}
}

func relayStateOf(r *http.Request) string {
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("RelayState")
	}
	return r.PostForm.Get("RelayState")
}
