package bindings

import (
	"encoding/base64"
	"fmt"
)

// EncodePOST base64-encodes a SAML message for embedding in an auto-submit
// HTML form, per the HTTP-POST binding (no compression, unlike Redirect).
func EncodePOST(message []byte) string {
	return base64.StdEncoding.EncodeToString(message)
}

// DecodePOST reverses EncodePOST.
func DecodePOST(encoded string) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("bindings: base64 decoding: %w", err)
	}
	return out, nil
}
