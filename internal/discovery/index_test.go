package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S3: search over {Alpha University, Beta College, Alpha Tech} returns
// both "Alpha" entries in stored (sorted) order, and limit=1 truncates.
func TestSearchCaseInsensitiveSubstringPreservesOrder(t *testing.T) {
	idx := &Index{
		entries: []EntityEntry{
			{EntityID: "https://idp.alphatech.edu/shibboleth", DisplayName: "Alpha Tech"},
			{EntityID: "https://idp.alpha.edu/shibboleth", DisplayName: "Alpha University"},
			{EntityID: "https://idp.beta.edu/shibboleth", DisplayName: "Beta College"},
		},
	}

	results := idx.Search("alpha", 20)
	require.Len(t, results, 2)
	require.Equal(t, "Alpha Tech", results[0].DisplayName)
	require.Equal(t, "Alpha University", results[1].DisplayName)

	truncated := idx.Search("alpha", 1)
	require.Len(t, truncated, 1)
	require.Equal(t, "Alpha Tech", truncated[0].DisplayName)
}

// S5-adjacent: a query matching only entity_id, not display_name, returns
// nothing (spec.md §4.3 property 5: every result contains the query as a
// substring of its display_name).
func TestSearchDoesNotMatchOnEntityIDAlone(t *testing.T) {
	idx := &Index{
		entries: []EntityEntry{
			{EntityID: "https://idp.gamma.edu/shibboleth", DisplayName: "Gamma State"},
		},
	}
	results := idx.Search("gamma.edu", 20)
	require.Empty(t, results)
}
