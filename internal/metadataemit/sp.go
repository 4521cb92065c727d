package metadataemit

import (
	"encoding/xml"
	"fmt"

	"github.com/ScottyLabs/terrier/internal/config"
	"github.com/ScottyLabs/terrier/internal/samlxml"
)

// SPMetadata builds the proxy's SP-role EntityDescriptor: AuthnRequests
// signed, assertions required to be signed, a single transient NameID
// format, POST-bound ACS at index 0 (default) and POST-bound SLO
// (spec.md §4.8).
func SPMetadata(cfg *config.Config, certDER []byte) ([]byte, error) {
	isDefault := true
	desc := samlxml.EntityDescriptor{
		EntityID: cfg.EntityID,
		SPSSODescriptors: []samlxml.SPSSODescriptor{
			{
				ProtocolSupportEnumeration: samlxml.NSProtocol,
				AuthnRequestsSigned:        true,
				WantAssertionsSigned:       true,
				KeyDescriptors:             []samlxml.KeyDescriptor{signingKeyDescriptor(certDER)},
				NameIDFormats: []samlxml.NameIDFormat{
					{Value: samlxml.NameIDFormatTransient},
				},
				AssertionConsumerServices: []samlxml.IndexedEndpoint{
					{Binding: samlxml.BindingHTTPPOST, Location: cfg.ACSURL(), Index: 0, IsDefault: &isDefault},
				},
				SingleLogoutServices: []samlxml.Endpoint{
					{Binding: samlxml.BindingHTTPPOST, Location: cfg.SLOURL()},
				},
			},
		},
	}

	out, err := xml.MarshalIndent(desc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("metadataemit: marshaling sp metadata: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
