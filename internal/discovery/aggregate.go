// Package discovery implements the metadata aggregate scanner (C2) and the
// in-memory federation index (C3) built from it (spec.md §4.2, §4.3).
package discovery

import (
	"encoding/xml"
	"sort"
	"strings"

	"github.com/ScottyLabs/terrier/internal/bindings"
	"github.com/ScottyLabs/terrier/internal/samlxml"
)

const (
	entityDescriptorOpenPrefix = "<EntityDescriptor"
	entityDescriptorClose      = "</EntityDescriptor>"
	idpSSODescriptorMarker     = "IDPSSODescriptor"
)

// EntityEntry is one row of the federation index: an entity ID paired
// with the display name shown in the discovery UI.
type EntityEntry struct {
	EntityID    string
	DisplayName string
}

// entityDescriptorFragments scans aggregate for every top-level
// "<EntityDescriptor ...>...</EntityDescriptor>" substring and returns
// each one as an independent slice of the original string, without ever
// building a DOM over the whole (possibly multi-megabyte) document. This
// is a direct port of the aggregate scanner's linear two-needle scan: find
// the next open tag, then the next matching close tag, slice, and resume
// the search from just past the close tag.
func entityDescriptorFragments(aggregate string) []string {
	var fragments []string
	searchFrom := 0
	for {
		openIdx := strings.Index(aggregate[searchFrom:], entityDescriptorOpenPrefix)
		if openIdx == -1 {
			break
		}
		openIdx += searchFrom

		closeRelIdx := strings.Index(aggregate[openIdx:], entityDescriptorClose)
		if closeRelIdx == -1 {
			break
		}
		closeIdx := openIdx + closeRelIdx + len(entityDescriptorClose)

		fragments = append(fragments, aggregate[openIdx:closeIdx])
		searchFrom = closeIdx
	}
	return fragments
}

// ParseIDPEntries scans aggregate for EntityDescriptor fragments, keeps
// only the ones advertising an IDPSSODescriptor, parses each surviving
// fragment, and returns the IdP entries sorted ascending byte-wise by
// display name (spec.md §4.2 invariant).
func ParseIDPEntries(aggregate string) ([]EntityEntry, error) {
	fragments := entityDescriptorFragments(aggregate)

	entries := make([]EntityEntry, 0, len(fragments))
	for _, fragment := range fragments {
		if !strings.Contains(fragment, idpSSODescriptorMarker) {
			continue
		}

		entry, ok := parseIDPFragment(fragment)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DisplayName < entries[j].DisplayName
	})
	return entries, nil
}

func parseIDPFragment(fragment string) (EntityEntry, bool) {
	if err := bindings.ValidateXML([]byte(fragment)); err != nil {
		return EntityEntry{}, false
	}

	// A fragment sliced out of the aggregate loses the wrapper's default
	// xmlns declaration, so unprefixed tags are decoded as if they were in
	// the metadata namespace.
	var desc samlxml.EntityDescriptor
	dec := xml.NewDecoder(strings.NewReader(fragment))
	dec.DefaultSpace = samlxml.NSMetadata
	if err := dec.Decode(&desc); err != nil {
		return EntityEntry{}, false
	}
	if desc.EntityID == "" {
		return EntityEntry{}, false
	}
	if len(desc.IDPSSODescriptors) == 0 {
		return EntityEntry{}, false
	}

	return EntityEntry{
		EntityID:    desc.EntityID,
		DisplayName: displayNameFor(desc),
	}, true
}

// displayNameFor prefers the English OrganizationDisplayName, falls back
// to the first available one, and finally falls back to the entity ID
// itself if the entity carries no Organization element at all.
func displayNameFor(desc samlxml.EntityDescriptor) string {
	if desc.Organization == nil || len(desc.Organization.OrganizationDisplayNames) == 0 {
		return desc.EntityID
	}
	for _, name := range desc.Organization.OrganizationDisplayNames {
		if name.Lang == "en" {
			return name.Value
		}
	}
	return desc.Organization.OrganizationDisplayNames[0].Value
}
