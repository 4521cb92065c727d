package bindings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedirectRoundTrip(t *testing.T) {
	msg := []byte(`<samlp:AuthnRequest ID="_abc"></samlp:AuthnRequest>`)

	encoded, err := EncodeRedirect(msg)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeRedirect(encoded)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)
}

func TestPOSTRoundTrip(t *testing.T) {
	msg := []byte(`<samlp:Response ID="_xyz"></samlp:Response>`)

	encoded := EncodePOST(msg)
	require.NotEmpty(t, encoded)

	decoded, err := DecodePOST(encoded)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)
}

func TestDecodeRedirectRejectsGarbage(t *testing.T) {
	_, err := DecodeRedirect("not-base64!!!")
	require.Error(t, err)
}

func TestDecodePOSTRejectsGarbage(t *testing.T) {
	_, err := DecodePOST("not-base64!!!")
	require.Error(t, err)
}

func TestValidateXMLRejectsMalformed(t *testing.T) {
	err := ValidateXML([]byte(`<a><b></a></b>`))
	require.Error(t, err)
}

func TestValidateXMLAcceptsWellFormed(t *testing.T) {
	err := ValidateXML([]byte(`<a><b>hello</b></a>`))
	require.NoError(t, err)
}
