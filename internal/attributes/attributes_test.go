package attributes

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ScottyLabs/terrier/internal/samlxml"
)

// S6: an assertion with {mail=..., urn:oid:9.9.9.9.9=...} passes through
// as {mail=...} only — the unknown OID is silently dropped.
func TestExtractDropsUnknownOIDs(t *testing.T) {
	stmt := samlxml.AttributeStatement{
		Attributes: []samlxml.Attribute{
			{Name: OIDMail, AttributeValues: []string{"jdoe@example.edu"}},
			{Name: "urn:oid:9.9.9.9.9", AttributeValues: []string{"unrecognized"}},
		},
	}

	got := Extract(stmt)
	want := map[string]string{OIDMail: "jdoe@example.edu"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractFirstValueWins(t *testing.T) {
	stmt := samlxml.AttributeStatement{
		Attributes: []samlxml.Attribute{
			{Name: OIDEduPersonAffiliation, AttributeValues: []string{"member", "staff"}},
		},
	}
	got := Extract(stmt)
	if got[OIDEduPersonAffiliation] != "member" {
		t.Fatalf("expected first value 'member', got %q", got[OIDEduPersonAffiliation])
	}
}

func TestExtractSkipsValuelessAttribute(t *testing.T) {
	stmt := samlxml.AttributeStatement{
		Attributes: []samlxml.Attribute{
			{Name: OIDGivenName, AttributeValues: nil},
		},
	}
	got := Extract(stmt)
	if _, ok := got[OIDGivenName]; ok {
		t.Fatalf("expected no givenName entry for a valueless attribute")
	}
}
