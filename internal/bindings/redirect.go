// Package bindings implements the HTTP-Redirect and HTTP-POST SAML
// binding codecs (spec.md §4.1). Both are purely syntactic: they move
// bytes between the wire representation and a raw XML payload, with no
// awareness of what the XML means.
package bindings

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"
)

// EncodeRedirect deflates (raw, no zlib/gzip header) then base64-encodes a
// SAML message for use as a query parameter on the HTTP-Redirect binding.
func EncodeRedirect(message []byte) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return "", fmt.Errorf("bindings: creating deflate writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return "", fmt.Errorf("bindings: deflating message: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("bindings: closing deflate writer: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeRedirect reverses EncodeRedirect: base64-decode then inflate.
func DecodeRedirect(encoded string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("bindings: base64 decoding: %w", err)
	}
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bindings: inflating message: %w", err)
	}
	if !utf8.Valid(out) {
		return nil, fmt.Errorf("bindings: inflated message is not valid UTF-8")
	}
	return out, nil
}
