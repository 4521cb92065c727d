// Package reissue implements the assertion re-issuer (C7, spec.md §4.7):
// it validates an upstream IdP's Response, extracts the curated identity
// facts it carries, and builds a brand-new Response/Assertion signed with
// the proxy's own key, so downstream SPs only ever trust the proxy.
package reissue

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/ScottyLabs/terrier/internal/attributes"
	"github.com/ScottyLabs/terrier/internal/bindings"
	"github.com/ScottyLabs/terrier/internal/keymaterial"
	"github.com/ScottyLabs/terrier/internal/samlxml"
)

// clockSkew is the tolerance applied to Conditions NotBefore/NotOnOrAfter
// checks (spec.md §4.7).
const clockSkew = 5 * time.Minute

// Identity is what survives assertion re-issuance: the curated identity
// facts the proxy will assert to the downstream SP under its own name.
type Identity struct {
	NameID     string
	Attributes map[string]string
}

// ValidateUpstreamResponse parses, verifies, and checks raw — the
// base64-decoded Response body from the upstream IdP — against the
// expected proxy entity ID and the set of request IDs the proxy itself
// issued (replay protection: InResponseTo must be one of these, and an
// IdP-initiated response, which carries no InResponseTo at all, is always
// rejected).
func ValidateUpstreamResponse(raw []byte, idpCert *x509.Certificate, proxyEntityID string, expectedRequestIDs map[string]bool, now time.Time) (*Identity, error) {
	if err := bindings.ValidateXML(raw); err != nil {
		return nil, fmt.Errorf("reissue: malformed response: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("reissue: parsing response xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("reissue: empty response document")
	}

	if err := verifySignature(root, idpCert); err != nil {
		return nil, fmt.Errorf("reissue: signature verification failed: %w", err)
	}

	var resp samlxml.Response
	if err := xml.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("reissue: unmarshaling response: %w", err)
	}

	if resp.Status.StatusCode.Value != samlxml.StatusSuccess {
		return nil, fmt.Errorf("reissue: non-success status %q", resp.Status.StatusCode.Value)
	}

	inResponseTo := resp.Assertion.Subject.SubjectConfirmation.SubjectConfirmationData.InResponseTo
	if inResponseTo == "" {
		return nil, fmt.Errorf("reissue: idp-initiated response rejected (no InResponseTo)")
	}
	if !expectedRequestIDs[inResponseTo] {
		return nil, fmt.Errorf("reissue: unexpected InResponseTo %q", inResponseTo)
	}

	if err := checkConditions(resp.Assertion.Conditions, proxyEntityID, now); err != nil {
		return nil, err
	}

	nameID := resp.Assertion.Subject.NameID.Value
	if nameID == "" {
		nameID = "unknown"
	}

	return &Identity{
		NameID:     nameID,
		Attributes: attributes.Extract(resp.Assertion.AttributeStatement),
	}, nil
}

func checkConditions(cond samlxml.Conditions, proxyEntityID string, now time.Time) error {
	if cond.NotBefore != "" {
		notBefore, err := time.Parse(time.RFC3339, cond.NotBefore)
		if err != nil {
			return fmt.Errorf("reissue: parsing Conditions.NotBefore: %w", err)
		}
		if now.Before(notBefore.Add(-clockSkew)) {
			return fmt.Errorf("reissue: assertion not yet valid")
		}
	}
	if cond.NotOnOrAfter != "" {
		notOnOrAfter, err := time.Parse(time.RFC3339, cond.NotOnOrAfter)
		if err != nil {
			return fmt.Errorf("reissue: parsing Conditions.NotOnOrAfter: %w", err)
		}
		if !now.Before(notOnOrAfter.Add(clockSkew)) {
			return fmt.Errorf("reissue: assertion expired")
		}
	}
	if cond.AudienceRestriction.Audience != proxyEntityID {
		return fmt.Errorf("reissue: audience mismatch: got %q, want %q", cond.AudienceRestriction.Audience, proxyEntityID)
	}
	return nil
}

// verifySignature checks an enveloped XMLDSig signature against idpCert,
// trying the Response element first and falling back to the nested
// Assertion element, since an upstream IdP may sign either.
func verifySignature(root *etree.Element, idpCert *x509.Certificate) error {
	certStore := dsig.MemoryX509CertificateStore{Roots: []*x509.Certificate{idpCert}}
	validationCtx := dsig.NewDefaultValidationContext(&certStore)

	if _, err := validationCtx.Validate(root); err == nil {
		return nil
	}

	assertionEl := findChildByLocalName(root, "Assertion")
	if assertionEl == nil {
		return fmt.Errorf("no signature found on response or assertion")
	}
	_, err := validationCtx.Validate(assertionEl)
	return err
}

// findChildByLocalName returns root's first direct child whose local name
// (tag, ignoring any namespace prefix) matches name — needed because an
// upstream IdP may emit a prefixed element such as saml2:Assertion.
func findChildByLocalName(root *etree.Element, name string) *etree.Element {
	for _, child := range root.ChildElements() {
		if child.Tag == name {
			return child
		}
	}
	return nil
}

// BuildSignedResponse builds and signs a brand-new Response/Assertion
// asserting identity under the proxy's own entity ID, destined for
// destination and correlated to the downstream SP's original request ID.
func BuildSignedResponse(key *keymaterial.ProxyKeyMaterial, proxyEntityID, destination, inResponseTo string, identity *Identity, now time.Time) ([]byte, error) {
	notBefore := now.Add(-clockSkew).UTC().Format(time.RFC3339)
	notOnOrAfter := now.Add(clockSkew).UTC().Format(time.RFC3339)

	attrs := make([]samlxml.Attribute, 0, len(identity.Attributes))
	for oid, value := range identity.Attributes {
		attrs = append(attrs, samlxml.Attribute{Name: oid, NameFormat: samlxml.AttrNameFormatURI, AttributeValues: []string{value}})
	}

	assertion := samlxml.Assertion{
		ID:           samlxml.NewID(),
		Version:      "2.0",
		IssueInstant: now.UTC().Format(time.RFC3339),
		Issuer:       samlxml.Issuer{Value: proxyEntityID},
		Subject: samlxml.Subject{
			NameID: samlxml.NameID{Format: samlxml.NameIDFormatTransient, Value: identity.NameID},
			SubjectConfirmation: samlxml.SubjectConfirmation{
				Method: "urn:oasis:names:tc:SAML:2.0:cm:bearer",
				SubjectConfirmationData: samlxml.SubjectConfirmationData{
					InResponseTo: inResponseTo,
					NotOnOrAfter: notOnOrAfter,
					Recipient:    destination,
				},
			},
		},
		Conditions: samlxml.Conditions{
			NotBefore:           notBefore,
			NotOnOrAfter:        notOnOrAfter,
			AudienceRestriction: samlxml.AudienceRestriction{Audience: proxyEntityID},
		},
		AuthnStatement: samlxml.AuthnStatement{
			AuthnInstant: now.UTC().Format(time.RFC3339),
			AuthnContext: samlxml.AuthnContext{AuthnContextClassRef: "urn:oasis:names:tc:SAML:2.0:ac:classes:PasswordProtectedTransport"},
		},
		AttributeStatement: samlxml.AttributeStatement{Attributes: attrs},
	}

	response := samlxml.Response{
		ID:           samlxml.NewID(),
		InResponseTo: inResponseTo,
		Version:      "2.0",
		IssueInstant: now.UTC().Format(time.RFC3339),
		Destination:  destination,
		Issuer:       samlxml.Issuer{Value: proxyEntityID},
		Status:       samlxml.Status{StatusCode: samlxml.StatusCode{Value: samlxml.StatusSuccess}},
		Assertion:    assertion,
	}

	unsigned, err := xml.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("reissue: marshaling response: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(unsigned); err != nil {
		return nil, fmt.Errorf("reissue: loading response into document: %w", err)
	}

	signedRoot, err := sign(doc.Root(), key)
	if err != nil {
		return nil, fmt.Errorf("reissue: signing response: %w", err)
	}
	doc.SetRoot(signedRoot)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("reissue: serializing signed response: %w", err)
	}
	return out, nil
}

func sign(root *etree.Element, key *keymaterial.ProxyKeyMaterial) (*etree.Element, error) {
	tlsCert := tls.Certificate{
		Certificate: [][]byte{key.CertificateDER},
		PrivateKey:  key.PrivateKey,
	}
	ctx := dsig.NewDefaultSigningContext(dsig.TLSCertKeyStore(tlsCert))
	signed, err := ctx.SignEnveloped(root)
	if err != nil {
		return nil, err
	}
	return signed, nil
}
