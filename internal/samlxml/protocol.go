package samlxml

import "encoding/xml"

// Namespace URIs used throughout the protocol and metadata types below.
const (
	NSProtocol  = "urn:oasis:names:tc:SAML:2.0:protocol"
	NSAssertion = "urn:oasis:names:tc:SAML:2.0:assertion"
	NSMetadata  = "urn:oasis:names:tc:SAML:2.0:metadata"
	NSDSig      = "http://www.w3.org/2000/09/xmldsig#"

	BindingHTTPRedirect = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect"
	BindingHTTPPOST     = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST"

	StatusSuccess = "urn:oasis:names:tc:SAML:2.0:status:Success"

	NameIDFormatTransient = "urn:oasis:names:tc:SAML:2.0:nameid-format:transient"
	NameIDFormatPersist   = "urn:oasis:names:tc:SAML:2.0:nameid-format:persistent"

	AttrNameFormatURI = "urn:oasis:names:tc:SAML:2.0:attrname-format:uri"
)

// Issuer is the <saml2:Issuer> element, present on every request/response.
type Issuer struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:assertion Issuer"`
	Value   string   `xml:",chardata"`
}

// NameID is the <saml2:NameID> element within a Subject.
type NameID struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:assertion NameID"`
	Format  string   `xml:"Format,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

// SubjectConfirmationData carries the InResponseTo/Recipient/NotOnOrAfter
// triple that ties an assertion back to the request that solicited it.
type SubjectConfirmationData struct {
	InResponseTo string `xml:"InResponseTo,attr,omitempty"`
	NotOnOrAfter string `xml:"NotOnOrAfter,attr,omitempty"`
	Recipient    string `xml:"Recipient,attr,omitempty"`
}

type SubjectConfirmation struct {
	Method                  string                  `xml:"Method,attr"`
	SubjectConfirmationData SubjectConfirmationData `xml:"urn:oasis:names:tc:SAML:2.0:assertion SubjectConfirmationData"`
}

type Subject struct {
	XMLName             xml.Name            `xml:"urn:oasis:names:tc:SAML:2.0:assertion Subject"`
	NameID              NameID              `xml:"NameID"`
	SubjectConfirmation SubjectConfirmation `xml:"SubjectConfirmation"`
}

// AudienceRestriction restricts an assertion to a single audience entity ID.
type AudienceRestriction struct {
	Audience string `xml:"urn:oasis:names:tc:SAML:2.0:assertion Audience"`
}

type Conditions struct {
	XMLName             xml.Name            `xml:"urn:oasis:names:tc:SAML:2.0:assertion Conditions"`
	NotBefore            string              `xml:"NotBefore,attr,omitempty"`
	NotOnOrAfter          string              `xml:"NotOnOrAfter,attr,omitempty"`
	AudienceRestriction AudienceRestriction `xml:"AudienceRestriction"`
}

// Attribute is a single <saml2:Attribute>, identified by OID Name with
// one or more string values.
type Attribute struct {
	Name            string   `xml:"Name,attr"`
	NameFormat      string   `xml:"NameFormat,attr,omitempty"`
	AttributeValues []string `xml:"urn:oasis:names:tc:SAML:2.0:assertion AttributeValue"`
}

type AttributeStatement struct {
	XMLName    xml.Name    `xml:"urn:oasis:names:tc:SAML:2.0:assertion AttributeStatement"`
	Attributes []Attribute `xml:"Attribute"`
}

type AuthnContext struct {
	AuthnContextClassRef string `xml:"urn:oasis:names:tc:SAML:2.0:assertion AuthnContextClassRef"`
}

type AuthnStatement struct {
	XMLName      xml.Name     `xml:"urn:oasis:names:tc:SAML:2.0:assertion AuthnStatement"`
	AuthnInstant string       `xml:"AuthnInstant,attr"`
	SessionIndex string       `xml:"SessionIndex,attr,omitempty"`
	AuthnContext AuthnContext `xml:"AuthnContext"`
}

// Assertion is the core <saml2:Assertion> element. The proxy only ever
// reads assertions after the enclosing Response or the Assertion itself
// has passed signature verification, and only ever writes assertions it
// signs itself as part of the enclosing Response, so this type carries no
// Signature field.
type Assertion struct {
	XMLName            xml.Name           `xml:"urn:oasis:names:tc:SAML:2.0:assertion Assertion"`
	ID                 string             `xml:"ID,attr"`
	Version             string             `xml:"Version,attr"`
	IssueInstant        string             `xml:"IssueInstant,attr"`
	Issuer             Issuer             `xml:"Issuer"`
	Subject            Subject            `xml:"Subject"`
	Conditions         Conditions         `xml:"Conditions"`
	AuthnStatement     AuthnStatement     `xml:"AuthnStatement"`
	AttributeStatement AttributeStatement `xml:"AttributeStatement"`
}

type Status struct {
	XMLName    xml.Name   `xml:"urn:oasis:names:tc:SAML:2.0:protocol Status"`
	StatusCode StatusCode `xml:"StatusCode"`
}

type StatusCode struct {
	Value string `xml:"Value,attr"`
}

// Response is the top-level <saml2p:Response> returned by an IdP (upstream
// or, once re-signed, the proxy itself).
type Response struct {
	XMLName      xml.Name  `xml:"urn:oasis:names:tc:SAML:2.0:protocol Response"`
	ID           string    `xml:"ID,attr"`
	InResponseTo string    `xml:"InResponseTo,attr,omitempty"`
	Version       string    `xml:"Version,attr"`
	IssueInstant  string    `xml:"IssueInstant,attr"`
	Destination  string    `xml:"Destination,attr,omitempty"`
	Issuer       Issuer    `xml:"Issuer"`
	Status       Status    `xml:"Status"`
	Assertion    Assertion `xml:"Assertion"`
}

// AuthnRequest is the <saml2p:AuthnRequest> the proxy receives from a
// downstream SP, and that it also sends upstream as the SP leg.
type AuthnRequest struct {
	XMLName                       xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:protocol AuthnRequest"`
	ID                            string   `xml:"ID,attr"`
	Version                       string   `xml:"Version,attr"`
	IssueInstant                  string   `xml:"IssueInstant,attr"`
	Destination                   string   `xml:"Destination,attr,omitempty"`
	AssertionConsumerServiceURL   string   `xml:"AssertionConsumerServiceURL,attr,omitempty"`
	AssertionConsumerServiceIndex string   `xml:"AssertionConsumerServiceIndex,attr,omitempty"`
	ProtocolBinding               string   `xml:"ProtocolBinding,attr,omitempty"`
	Issuer                        Issuer   `xml:"Issuer"`
}

// LogoutRequest is the <saml2p:LogoutRequest> the proxy receives on either
// leg (from a downstream SP at /saml/slo or from the upstream IdP at
// /sp/slo); the proxy never originates one.
type LogoutRequest struct {
	XMLName     xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:protocol LogoutRequest"`
	ID          string   `xml:"ID,attr"`
	Version     string   `xml:"Version,attr"`
	IssueInstant string   `xml:"IssueInstant,attr"`
	Destination string   `xml:"Destination,attr,omitempty"`
	Issuer      Issuer   `xml:"Issuer"`
	NameID      NameID   `xml:"NameID"`
}

// LogoutResponse is the stateless acknowledgement the proxy sends back for
// any LogoutRequest it receives (see spec.md §4.8, the proxy does not
// track logout state).
type LogoutResponse struct {
	XMLName      xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:protocol LogoutResponse"`
	ID           string   `xml:"ID,attr"`
	InResponseTo string   `xml:"InResponseTo,attr,omitempty"`
	Version      string   `xml:"Version,attr"`
	IssueInstant string   `xml:"IssueInstant,attr"`
	Destination  string   `xml:"Destination,attr,omitempty"`
	Issuer       Issuer   `xml:"Issuer"`
	Status       Status   `xml:"Status"`
}
