// Package keymaterial loads the proxy's signing certificate and private
// key (spec.md §3 ProxyKeyMaterial) and the upstream MDQ trust anchor
// certificate, from PEM files on disk.
package keymaterial

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// ProxyKeyMaterial is the proxy's own signing identity: shared and
// immutable once loaded, read concurrently by every C7 invocation that
// signs an outbound Response.
type ProxyKeyMaterial struct {
	CertificateDER []byte
	PrivateKeyDER  []byte
	Certificate    *x509.Certificate
	PrivateKey     *rsa.PrivateKey
}

// Load reads the PEM certificate and PEM RSA private key at the given
// paths and returns the parsed key material.
func Load(certPath, keyPath string) (*ProxyKeyMaterial, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("keymaterial: reading certificate %s: %w", certPath, err)
	}
	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return nil, fmt.Errorf("keymaterial: no PEM block found in %s", certPath)
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keymaterial: parsing certificate %s: %w", certPath, err)
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("keymaterial: reading private key %s: %w", keyPath, err)
	}
	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, fmt.Errorf("keymaterial: no PEM block found in %s", keyPath)
	}
	key, err := parseRSAKey(keyBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keymaterial: parsing private key %s: %w", keyPath, err)
	}

	return &ProxyKeyMaterial{
		CertificateDER: certBlock.Bytes,
		PrivateKeyDER:  keyBlock.Bytes,
		Certificate:    cert,
		PrivateKey:     key,
	}, nil
}

func parseRSAKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("keymaterial: private key is not RSA")
	}
	return rsaKey, nil
}

// LoadTrustAnchor reads the PEM certificate at path and returns it parsed,
// used for the MDQ signing trust anchor (spec.md §6.3
// SAML_PROXY_MDQ_SIGNING_CERT_PATH).
func LoadTrustAnchor(path string) (*x509.Certificate, error) {
	certPEM, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keymaterial: reading trust anchor %s: %w", path, err)
	}
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, fmt.Errorf("keymaterial: no PEM block found in %s", path)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keymaterial: parsing trust anchor %s: %w", path, err)
	}
	return cert, nil
}
