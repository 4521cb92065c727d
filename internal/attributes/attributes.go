// Package attributes extracts the curated set of eduPerson attributes
// from a SAML assertion's AttributeStatement (spec.md §4.7 step 6).
// Attributes outside the curated OID list are silently dropped; among
// multiple values for a curated attribute, the first value wins.
package attributes

import "github.com/ScottyLabs/terrier/internal/samlxml"

// Curated OIDs, exactly as named in spec.md §4.7 step 6. eduPersonTargetedID
// is deliberately absent (Open Question 3, resolved: left out, future work).
const (
	OIDEduPersonPrincipalName     = "urn:oid:1.3.6.1.4.1.5923.1.1.1.6"
	OIDEduPersonScopedAffiliation = "urn:oid:1.3.6.1.4.1.5923.1.1.1.9"
	OIDEduPersonAffiliation       = "urn:oid:1.3.6.1.4.1.5923.1.1.1.1"
	OIDMail                       = "urn:oid:0.9.2342.19200300.100.1.3"
	OIDDisplayName                = "urn:oid:2.16.840.1.113730.3.1.241"
	OIDGivenName                  = "urn:oid:2.5.4.42"
	OIDSurname                    = "urn:oid:2.5.4.4"
)

// curatedOIDs is the set of recognized attribute OIDs. This is a
// passthrough of a fixed attribute set (spec.md §1 Non-goals, §4.7 step
// 7): the extracted map is keyed by the OID itself, not a friendly name,
// so the re-issued assertion carries the same Name the upstream IdP sent.
var curatedOIDs = map[string]bool{
	OIDEduPersonPrincipalName:     true,
	OIDEduPersonScopedAffiliation: true,
	OIDEduPersonAffiliation:       true,
	OIDMail:                       true,
	OIDDisplayName:                true,
	OIDGivenName:                  true,
	OIDSurname:                    true,
}

// Extract walks stmt's attributes, keeping only the curated OIDs and the
// first value seen for each; unrecognized OIDs are dropped without error
// (S6: an assertion with both mail and an unknown OID yields only mail).
// The returned map is keyed by OID.
func Extract(stmt samlxml.AttributeStatement) map[string]string {
	out := make(map[string]string)
	for _, attr := range stmt.Attributes {
		if !curatedOIDs[attr.Name] {
			continue
		}
		if _, already := out[attr.Name]; already {
			continue
		}
		if len(attr.AttributeValues) == 0 {
			continue
		}
		out[attr.Name] = attr.AttributeValues[0]
	}
	return out
}
