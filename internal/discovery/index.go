package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RefreshInterval is how often the background loop re-fetches the
// aggregate, per spec.md §4.3.
const RefreshInterval = 6 * time.Hour

// Index is the in-memory federation index: a read-mostly snapshot of
// every IdP entity in the aggregate, searchable by substring and replaced
// atomically on a successful refresh.
type Index struct {
	mu      sync.RWMutex
	entries []EntityEntry

	aggregateURL string
	httpClient   *http.Client
}

// NewIndex constructs an empty index that will fetch aggregateURL on
// refresh.
func NewIndex(aggregateURL string, httpClient *http.Client) *Index {
	return &Index{aggregateURL: aggregateURL, httpClient: httpClient}
}

// Search returns up to limit entries whose display name contains query as
// a case-insensitive ASCII substring, preserving the index's stored
// (sorted) order (spec.md §4.3: substring match is on display_name only).
func (idx *Index) Search(query string, limit int) []EntityEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	needle := strings.ToLower(query)
	var out []EntityEntry
	for _, e := range idx.entries {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(e.DisplayName), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Refresh fetches the aggregate, parses it, and swaps the snapshot in
// only if both steps succeed — a failed refresh leaves the existing
// snapshot in place (spec.md §4.3).
func (idx *Index) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, idx.aggregateURL, nil)
	if err != nil {
		return fmt.Errorf("discovery: building aggregate request: %w", err)
	}

	resp, err := idx.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discovery: fetching aggregate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discovery: aggregate fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("discovery: reading aggregate body: %w", err)
	}

	entries, err := ParseIDPEntries(string(body))
	if err != nil {
		return fmt.Errorf("discovery: parsing aggregate: %w", err)
	}

	idx.mu.Lock()
	idx.entries = entries
	idx.mu.Unlock()
	return nil
}

// RunRefreshLoop performs an immediate refresh, then refreshes again every
// RefreshInterval until stop is closed. Failures are logged and the loop
// continues on the existing snapshot, never terminating the process
// (spec.md §5).
func (idx *Index) RunRefreshLoop(ctx context.Context, stop <-chan struct{}, log *logrus.Logger) {
	if err := idx.Refresh(ctx); err != nil {
		log.WithError(err).Warn("initial federation index refresh failed")
	}

	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := idx.Refresh(ctx); err != nil {
				log.WithError(err).Warn("federation index refresh failed")
			}
		}
	}
}
