package metadataemit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ScottyLabs/terrier/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:  "https://proxy.example.edu",
		EntityID: "https://proxy.example.edu/saml/metadata",
	}
}

func TestIdPMetadataHasExpectedEndpointsAndFlags(t *testing.T) {
	doc, err := IdPMetadata(testConfig(), []byte("fake-cert-der"))
	require.NoError(t, err)
	s := string(doc)
	require.Contains(t, s, "https://proxy.example.edu/saml/sso")
	require.Contains(t, s, `WantAuthnRequestsSigned="false"`)
	require.Contains(t, s, "nameid-format:transient")
	require.Contains(t, s, "nameid-format:persistent")
}

func TestSPMetadataHasExpectedEndpointsAndFlags(t *testing.T) {
	doc, err := SPMetadata(testConfig(), []byte("fake-cert-der"))
	require.NoError(t, err)
	s := string(doc)
	require.Contains(t, s, "https://proxy.example.edu/sp/acs")
	require.Contains(t, s, "https://proxy.example.edu/sp/slo")
	require.Contains(t, s, `AuthnRequestsSigned="true"`)
	require.Contains(t, s, `WantAssertionsSigned="true"`)
	require.NotContains(t, s, "nameid-format:persistent")
}
