package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleAggregate = `<EntitiesDescriptor xmlns="urn:oasis:names:tc:SAML:2.0:metadata">
<EntityDescriptor entityID="https://idp.alpha.edu/shibboleth"><IDPSSODescriptor protocolSupportEnumeration="urn:oasis:names:tc:SAML:2.0:protocol"><NameIDFormat>urn:oasis:names:tc:SAML:2.0:nameid-format:transient</NameIDFormat></IDPSSODescriptor><Organization><OrganizationDisplayName xml:lang="en">Alpha University</OrganizationDisplayName></Organization></EntityDescriptor>
<EntityDescriptor entityID="https://sp.only.edu/shibboleth"><SPSSODescriptor protocolSupportEnumeration="urn:oasis:names:tc:SAML:2.0:protocol"></SPSSODescriptor></EntityDescriptor>
<EntityDescriptor entityID="https://idp.beta.edu/shibboleth"><IDPSSODescriptor protocolSupportEnumeration="urn:oasis:names:tc:SAML:2.0:protocol"><NameIDFormat>urn:oasis:names:tc:SAML:2.0:nameid-format:transient</NameIDFormat></IDPSSODescriptor><Organization><OrganizationDisplayName xml:lang="en">Beta College</OrganizationDisplayName></Organization></EntityDescriptor>
</EntitiesDescriptor>`

func TestEntityDescriptorFragmentsExtractsExactSlices(t *testing.T) {
	fragments := entityDescriptorFragments(sampleAggregate)
	require.Len(t, fragments, 3)
	for _, f := range fragments {
		require.True(t, len(f) > len(entityDescriptorOpenPrefix))
		require.Contains(t, f, "entityID=")
		require.Contains(t, f, entityDescriptorClose)
	}
}

// S5: an aggregate with 3 entities, one SP-only (lacking IDPSSODescriptor),
// yields exactly 2 IdPs sorted ascending by display name.
func TestParseIDPEntriesFiltersAndSorts(t *testing.T) {
	entries, err := ParseIDPEntries(sampleAggregate)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Alpha University", entries[0].DisplayName)
	require.Equal(t, "Beta College", entries[1].DisplayName)
}

func TestDisplayNameFallsBackToEntityIDWhenNoOrganization(t *testing.T) {
	aggregate := `<EntityDescriptor entityID="https://idp.noorg.edu/shibboleth"><IDPSSODescriptor protocolSupportEnumeration="urn:oasis:names:tc:SAML:2.0:protocol"></IDPSSODescriptor></EntityDescriptor>`
	entries, err := ParseIDPEntries(aggregate)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "https://idp.noorg.edu/shibboleth", entries[0].DisplayName)
}
