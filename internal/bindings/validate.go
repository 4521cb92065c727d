package bindings

import (
	"bytes"
	"fmt"

	xrv "github.com/mattermost/xml-roundtrip-validator"
)

// ValidateXML guards against malformed or maliciously nested XML (entity
// expansion bombs, unbalanced tags) before the payload reaches
// encoding/xml.Unmarshal. This mirrors the teacher's own
// samlsp.ParseMetadata, which runs the same validator ahead of every
// untrusted metadata parse; here it is shared by the binding codec, the
// aggregate scanner, and the MDQ client so every untrusted XML entry
// point gets the same guard.
func ValidateXML(payload []byte) error {
	if err := xrv.Validate(bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("bindings: rejecting malformed xml: %w", err)
	}
	return nil
}
