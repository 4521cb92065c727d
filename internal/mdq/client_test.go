package mdq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ScottyLabs/terrier/internal/samlxml"
)

func TestCacheHonorsTTLFromFetchTimeNotAccess(t *testing.T) {
	c := newCache(10)
	desc := &samlxml.EntityDescriptor{EntityID: "https://idp.example.edu/shibboleth"}
	c.set(desc.EntityID, desc)

	// simulate time passing beyond TTL without any intervening access.
	entry, _ := c.lru.Get(desc.EntityID)
	entry.fetchedAt = time.Now().Add(-2 * CacheTTL)
	c.lru.Add(desc.EntityID, entry)

	_, ok := c.get(desc.EntityID)
	require.False(t, ok, "entry older than TTL must be evicted regardless of access pattern")
}

func TestCacheFreshEntryHits(t *testing.T) {
	c := newCache(10)
	desc := &samlxml.EntityDescriptor{EntityID: "https://idp.example.edu/shibboleth"}
	c.set(desc.EntityID, desc)

	got, ok := c.get(desc.EntityID)
	require.True(t, ok)
	require.Equal(t, desc.EntityID, got.EntityID)
}

func TestParseMetadataUnwrapsEntitiesDescriptor(t *testing.T) {
	doc := `<EntitiesDescriptor xmlns="urn:oasis:names:tc:SAML:2.0:metadata">
<EntityDescriptor entityID="https://idp.example.edu/shibboleth"><IDPSSODescriptor protocolSupportEnumeration="urn:oasis:names:tc:SAML:2.0:protocol"></IDPSSODescriptor></EntityDescriptor>
</EntitiesDescriptor>`

	desc, err := ParseMetadata([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, "https://idp.example.edu/shibboleth", desc.EntityID)
}

func TestParseMetadataParsesBareEntityDescriptor(t *testing.T) {
	doc := `<EntityDescriptor xmlns="urn:oasis:names:tc:SAML:2.0:metadata" entityID="https://idp.example.edu/shibboleth"><IDPSSODescriptor protocolSupportEnumeration="urn:oasis:names:tc:SAML:2.0:protocol"></IDPSSODescriptor></EntityDescriptor>`

	desc, err := ParseMetadata([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, "https://idp.example.edu/shibboleth", desc.EntityID)
}

func TestBuildEntityURLEscapesEntityID(t *testing.T) {
	got := buildEntityURL("https://mdq.incommon.org", "https://idp.example.edu/shibboleth")
	require.Equal(t, "https://mdq.incommon.org/entities/https:%2F%2Fidp.example.edu%2Fshibboleth", got)
}
