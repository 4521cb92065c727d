// Package samlxml defines the wire-level SAML 2.0 types the proxy reads
// and writes, plus ID generation shared by every component that must mint
// an unguessable identifier (session IDs, protocol message IDs).
package samlxml

import "github.com/dchest/uniuri"

// idLen yields roughly 131 bits of entropy over uniuri's default
// 62-character alphabet (22 * log2(62) ~= 131), comfortably above the
// 128-bit session ID requirement.
const idLen = 22

// NewID returns a new unguessable identifier suitable for a session ID,
// AuthnRequest ID, or Response ID.
func NewID() string {
	return "_" + uniuri.NewLen(idLen)
}
