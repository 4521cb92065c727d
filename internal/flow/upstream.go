package flow

// upstream.go is adapted from the teacher's service_multiple_provider.go
// (ServiceMultipleProvider). That type held a static map[string]ServiceProvider
// because a conventional multi-IdP SP knows its upstream IdPs up front;
// this proxy instead resolves its single upstream IdP per request, on
// demand, via MDQ (spec.md §4.4/§4.6) — so the static directory is
// replaced with a function that builds the outbound AuthnRequest against
// whatever EntityDescriptor the MDQ client just handed back. The shape of
// "pick an SSO endpoint and build a redirect to it" is kept.

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"time"

	"github.com/ScottyLabs/terrier/internal/bindings"
	"github.com/ScottyLabs/terrier/internal/samlxml"
)

// BuildUpstreamRedirect builds the HTTP-Redirect URL for an AuthnRequest
// sent to idp (the MDQ-resolved upstream IdP's metadata), with the ACS
// set to the proxy's own SP-facing endpoint, and returns that URL along
// with the AuthnRequest ID the proxy must remember for InResponseTo
// checking on the ACS leg (spec.md §4.6 sp/initiate).
func BuildUpstreamRedirect(proxyEntityID, acsURL string, idp *samlxml.EntityDescriptor, relayState string) (redirectURL string, requestID string, err error) {
	if len(idp.IDPSSODescriptors) == 0 {
		return "", "", fmt.Errorf("flow: entity %s advertises no IDPSSODescriptor", idp.EntityID)
	}

	ssoURL, err := redirectSSOEndpoint(idp.IDPSSODescriptors[0])
	if err != nil {
		return "", "", err
	}

	reqID := samlxml.NewID()
	authnReq := samlxml.AuthnRequest{
		ID:                          reqID,
		Version:                     "2.0",
		IssueInstant:                time.Now().UTC().Format(time.RFC3339),
		Destination:                 ssoURL,
		AssertionConsumerServiceURL: acsURL,
		ProtocolBinding:             samlxml.BindingHTTPPOST,
		Issuer:                      samlxml.Issuer{Value: proxyEntityID},
	}

	raw, err := xml.Marshal(authnReq)
	if err != nil {
		return "", "", fmt.Errorf("flow: marshaling authn request: %w", err)
	}

	encoded, err := bindings.EncodeRedirect(raw)
	if err != nil {
		return "", "", fmt.Errorf("flow: encoding authn request: %w", err)
	}

	q := url.Values{}
	q.Set("SAMLRequest", encoded)
	if relayState != "" {
		q.Set("RelayState", relayState)
	}

	return ssoURL + "?" + q.Encode(), reqID, nil
}

func redirectSSOEndpoint(idp samlxml.IDPSSODescriptor) (string, error) {
	for _, ep := range idp.SingleSignOnServices {
		if ep.Binding == samlxml.BindingHTTPRedirect {
			return ep.Location, nil
		}
	}
	return "", fmt.Errorf("flow: no HTTP-Redirect SingleSignOnService advertised")
}

// signingCertificate returns the base64 DER signing certificate advertised
// by idp's IDPSSODescriptor (parsed by parseSigningCertificate), used to verify the Response it eventually sends
// back on the ACS leg (spec.md §4.7).
func signingCertificate(idp *samlxml.EntityDescriptor) (string, error) {
	if len(idp.IDPSSODescriptors) == 0 {
		return "", fmt.Errorf("flow: entity %s advertises no IDPSSODescriptor", idp.EntityID)
	}
	for _, kd := range idp.IDPSSODescriptors[0].KeyDescriptors {
		if kd.Use == "" || kd.Use == "signing" {
			return kd.KeyInfo.X509Data.X509Certificate, nil
		}
	}
	return "", fmt.Errorf("flow: entity %s advertises no signing certificate", idp.EntityID)
}
