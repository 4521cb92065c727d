package mdq

import (
	"context"
	"crypto/x509"
	"fmt"
	"net/http"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
	"golang.org/x/sync/singleflight"

	"github.com/ScottyLabs/terrier/internal/samlxml"
)

// Client fetches, verifies, and caches per-entity metadata from an MDQ
// service. A failed XMLDSig verification against the configured trust
// anchor is never cached (spec.md §4.4 invariant); concurrent callers
// requesting the same entity while a fetch is in flight share its result
// rather than issuing duplicate requests.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	trustAnchor *x509.Certificate
	cache       *cache
	group       singleflight.Group
}

// NewClient constructs an MDQ client. trustAnchor is the certificate
// every fetched EntityDescriptor's enveloped signature must verify
// against before the result is trusted or cached.
func NewClient(baseURL string, httpClient *http.Client, trustAnchor *x509.Certificate) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  httpClient,
		trustAnchor: trustAnchor,
		cache:       newCache(CacheCapacity),
	}
}

// GetEntity returns the verified EntityDescriptor for entityID, serving
// from cache when a fresh entry exists and coalescing concurrent fetches
// for the same entity into a single upstream request.
func (c *Client) GetEntity(ctx context.Context, entityID string) (*samlxml.EntityDescriptor, error) {
	if desc, ok := c.cache.get(entityID); ok {
		return desc, nil
	}

	v, err, _ := c.group.Do(entityID, func() (interface{}, error) {
		// Re-check the cache: another goroutine may have populated it
		// while we were waiting to enter the singleflight group.
		if desc, ok := c.cache.get(entityID); ok {
			return desc, nil
		}

		desc, err := c.fetchAndVerify(ctx, entityID)
		if err != nil {
			return nil, err
		}
		c.cache.set(entityID, desc)
		return desc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*samlxml.EntityDescriptor), nil
}

func (c *Client) fetchAndVerify(ctx context.Context, entityID string) (*samlxml.EntityDescriptor, error) {
	reqURL := buildEntityURL(c.baseURL, entityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("mdq: building request for %s: %w", entityID, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mdq: fetching %s: %w", entityID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mdq: fetch of %s returned status %d", entityID, resp.StatusCode)
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("mdq: reading metadata document for %s: %w", entityID, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("mdq: empty metadata document for %s", entityID)
	}

	if err := c.verify(root); err != nil {
		return nil, fmt.Errorf("mdq: verifying signature for %s: %w", entityID, err)
	}

	serialized, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("mdq: re-serializing metadata for %s: %w", entityID, err)
	}
	desc, err := ParseMetadata(serialized)
	if err != nil {
		return nil, fmt.Errorf("mdq: parsing metadata for %s: %w", entityID, err)
	}
	if desc.EntityID != entityID {
		return nil, fmt.Errorf("mdq: entity ID mismatch: requested %s, got %s", entityID, desc.EntityID)
	}
	return desc, nil
}

// verify checks an enveloped XMLDSig signature on root against the
// client's configured trust anchor. A verification failure here must
// never reach the caching layer (spec.md §4.4 invariant: no cache
// poisoning on failed verification).
func (c *Client) verify(root *etree.Element) error {
	certStore := dsig.MemoryX509CertificateStore{
		Roots: []*x509.Certificate{c.trustAnchor},
	}
	validationCtx := dsig.NewDefaultValidationContext(&certStore)
	_, err := validationCtx.Validate(root)
	if err != nil {
		return fmt.Errorf("xmldsig validation failed: %w", err)
	}
	return nil
}
