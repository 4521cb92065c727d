// Package metadataemit builds the proxy's two self-describing metadata
// documents (C8, spec.md §4.8): one for its IdP-facing role (seen by
// downstream SPs) and one for its SP-facing role (seen by the upstream
// federation via MDQ).
package metadataemit

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/ScottyLabs/terrier/internal/config"
	"github.com/ScottyLabs/terrier/internal/samlxml"
)

const contentTypeSAMLMetadata = "application/samlmetadata+xml"

// ContentType is the media type every metadata response is served with.
func ContentType() string { return contentTypeSAMLMetadata }

func signingKeyDescriptor(certDER []byte) samlxml.KeyDescriptor {
	return samlxml.KeyDescriptor{
		Use: "signing",
		KeyInfo: samlxml.KeyInfo{
			X509Data: samlxml.X509Data{
				X509Certificate: base64.StdEncoding.EncodeToString(certDER),
			},
		},
	}
}

// IdPMetadata builds the proxy's IdP-role EntityDescriptor: SSO endpoints
// for both bindings at <base_url>/saml/sso, authn requests not required to
// be signed, and both transient and persistent NameID formats offered
// (spec.md §4.8).
func IdPMetadata(cfg *config.Config, certDER []byte) ([]byte, error) {
	desc := samlxml.EntityDescriptor{
		EntityID: cfg.EntityID,
		IDPSSODescriptors: []samlxml.IDPSSODescriptor{
			{
				ProtocolSupportEnumeration: samlxml.NSProtocol,
				WantAuthnRequestsSigned:    false,
				KeyDescriptors:             []samlxml.KeyDescriptor{signingKeyDescriptor(certDER)},
				NameIDFormats: []samlxml.NameIDFormat{
					{Value: samlxml.NameIDFormatTransient},
					{Value: samlxml.NameIDFormatPersist},
				},
				SingleSignOnServices: []samlxml.Endpoint{
					{Binding: samlxml.BindingHTTPRedirect, Location: cfg.SSOURL()},
					{Binding: samlxml.BindingHTTPPOST, Location: cfg.SSOURL()},
				},
			},
		},
	}

	out, err := xml.MarshalIndent(desc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("metadataemit: marshaling idp metadata: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
