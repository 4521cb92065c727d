package reissue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ScottyLabs/terrier/internal/samlxml"
)

func TestCheckConditionsAcceptsWithinWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cond := samlxml.Conditions{
		NotBefore:    now.Add(-1 * time.Minute).Format(time.RFC3339),
		NotOnOrAfter: now.Add(4 * time.Minute).Format(time.RFC3339),
		AudienceRestriction: samlxml.AudienceRestriction{
			Audience: "https://proxy.example.edu/saml/metadata",
		},
	}
	err := checkConditions(cond, "https://proxy.example.edu/saml/metadata", now)
	require.NoError(t, err)
}

func TestCheckConditionsRejectsExpiredBeyondSkew(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cond := samlxml.Conditions{
		NotOnOrAfter: now.Add(-10 * time.Minute).Format(time.RFC3339),
		AudienceRestriction: samlxml.AudienceRestriction{
			Audience: "https://proxy.example.edu/saml/metadata",
		},
	}
	err := checkConditions(cond, "https://proxy.example.edu/saml/metadata", now)
	require.Error(t, err)
}

func TestCheckConditionsToleratesFiveMinuteSkew(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cond := samlxml.Conditions{
		NotOnOrAfter: now.Add(-3 * time.Minute).Format(time.RFC3339),
		AudienceRestriction: samlxml.AudienceRestriction{
			Audience: "https://proxy.example.edu/saml/metadata",
		},
	}
	err := checkConditions(cond, "https://proxy.example.edu/saml/metadata", now)
	require.NoError(t, err)
}

func TestCheckConditionsRejectsAudienceMismatch(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cond := samlxml.Conditions{
		NotOnOrAfter: now.Add(5 * time.Minute).Format(time.RFC3339),
		AudienceRestriction: samlxml.AudienceRestriction{
			Audience: "https://someone-else.example.edu",
		},
	}
	err := checkConditions(cond, "https://proxy.example.edu/saml/metadata", now)
	require.Error(t, err)
}
