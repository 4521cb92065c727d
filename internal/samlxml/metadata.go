package samlxml

import "encoding/xml"

// Endpoint is a single-valued SAML metadata endpoint (e.g. SingleSignOnService).
type Endpoint struct {
	Binding          string `xml:"Binding,attr"`
	Location         string `xml:"Location,attr"`
	ResponseLocation string `xml:"ResponseLocation,attr,omitempty"`
}

// IndexedEndpoint is a multi-valued, indexable endpoint (e.g. AssertionConsumerService).
type IndexedEndpoint struct {
	Binding         string `xml:"Binding,attr"`
	Location        string `xml:"Location,attr"`
	Index           int    `xml:"index,attr"`
	IsDefault       *bool  `xml:"isDefault,attr,omitempty"`
}

type KeyInfo struct {
	XMLName  xml.Name `xml:"http://www.w3.org/2000/09/xmldsig# KeyInfo"`
	X509Data X509Data `xml:"X509Data"`
}

type X509Data struct {
	X509Certificate string `xml:"http://www.w3.org/2000/09/xmldsig# X509Certificate"`
}

// KeyDescriptor wraps a signing or encryption certificate in metadata.
type KeyDescriptor struct {
	Use     string  `xml:"use,attr,omitempty"`
	KeyInfo KeyInfo `xml:"http://www.w3.org/2000/09/xmldsig# KeyInfo"`
}

type NameIDFormat struct {
	Value string `xml:",chardata"`
}

// IDPSSODescriptor describes an IdP role: the proxy's own IdP-facing role
// (spec.md §4.8: the proxy as seen by downstream SPs) and the upstream
// IdPs read from the aggregate and from MDQ.
type IDPSSODescriptor struct {
	XMLName                   xml.Name       `xml:"urn:oasis:names:tc:SAML:2.0:metadata IDPSSODescriptor"`
	ProtocolSupportEnumeration string         `xml:"protocolSupportEnumeration,attr"`
	WantAuthnRequestsSigned    bool           `xml:"WantAuthnRequestsSigned,attr"`
	KeyDescriptors             []KeyDescriptor `xml:"KeyDescriptor"`
	NameIDFormats              []NameIDFormat  `xml:"NameIDFormat"`
	SingleSignOnServices       []Endpoint      `xml:"SingleSignOnService"`
}

// SPSSODescriptor describes the proxy's SP-facing role (spec.md §4.8: the
// proxy as seen by the upstream federation via MDQ).
type SPSSODescriptor struct {
	XMLName                    xml.Name          `xml:"urn:oasis:names:tc:SAML:2.0:metadata SPSSODescriptor"`
	ProtocolSupportEnumeration string            `xml:"protocolSupportEnumeration,attr"`
	AuthnRequestsSigned        bool              `xml:"AuthnRequestsSigned,attr"`
	WantAssertionsSigned       bool              `xml:"WantAssertionsSigned,attr"`
	KeyDescriptors              []KeyDescriptor   `xml:"KeyDescriptor"`
	NameIDFormats                []NameIDFormat    `xml:"NameIDFormat"`
	AssertionConsumerServices []IndexedEndpoint `xml:"AssertionConsumerService"`
	SingleLogoutServices       []Endpoint        `xml:"SingleLogoutService"`
}

type LocalizedName struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Value string `xml:",chardata"`
}

type Organization struct {
	OrganizationDisplayNames []LocalizedName `xml:"urn:oasis:names:tc:SAML:2.0:metadata OrganizationDisplayName"`
}

// EntityDescriptor is a single federation participant's metadata document,
// the unit the aggregate scanner (C2) extracts and the MDQ client (C4)
// fetches individually.
type EntityDescriptor struct {
	XMLName            xml.Name           `xml:"urn:oasis:names:tc:SAML:2.0:metadata EntityDescriptor"`
	EntityID            string             `xml:"entityID,attr"`
	IDPSSODescriptors []IDPSSODescriptor `xml:"IDPSSODescriptor"`
	SPSSODescriptors  []SPSSODescriptor  `xml:"SPSSODescriptor"`
	Organization        *Organization      `xml:"Organization"`
}

// EntitiesDescriptor wraps the full InCommon-style metadata aggregate; the
// proxy never unmarshals one in full (spec.md §4.2 hard requirement) but
// the type is kept for the single-entity MDQ response case, where an MDQ
// server occasionally wraps one entity in an EntitiesDescriptor envelope.
type EntitiesDescriptor struct {
	XMLName           xml.Name            `xml:"urn:oasis:names:tc:SAML:2.0:metadata EntitiesDescriptor"`
	EntityDescriptors []EntityDescriptor `xml:"EntityDescriptor"`
}
