package flow

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ScottyLabs/terrier/internal/proxyerr"
)

// HandleDiscoveryPage renders the discovery UI for an existing session
// (spec.md §6.1 GET /discovery, §4.6 DISCOVERY_PENDING).
func (s *State) HandleDiscoveryPage(w http.ResponseWriter, r *http.Request) {
	log := s.logger()
	sessionID := r.URL.Query().Get("session")

	sess, ok := s.Sessions.Get(sessionID)
	if !ok {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindSessionNotFound,
			fmt.Errorf("flow: no session %q", sessionID)))
		return
	}

	html, err := renderDiscoveryPage(sess.ID)
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInternal, err))
		return
	}
	writeHTML(w, http.StatusOK, html)
}

// HandleDiscoverySubmit records the user's chosen institution and
// advances the session to INITIATE_PENDING, redirecting into the SP leg
// (spec.md §6.1 POST /discovery, S2 scenario).
func (s *State) HandleDiscoverySubmit(w http.ResponseWriter, r *http.Request) {
	log := s.logger()

	if err := r.ParseForm(); err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindInvalidSamlRequest, err))
		return
	}
	sessionID := r.PostForm.Get("session")
	entityID := r.PostForm.Get("entity_id")

	if entityID == "" {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindMissingUniversitySelection,
			fmt.Errorf("flow: no entity_id submitted")))
		return
	}

	if ok := s.Sessions.UpdateUniversity(sessionID, entityID); !ok {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindSessionNotFound,
			fmt.Errorf("flow: no session %q", sessionID)))
		return
	}

	redirectURL := "/sp/initiate?" + url.Values{"session": {sessionID}}.Encode()
	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}

type entitySearchResult struct {
	EntityID    string `json:"entity_id"`
	DisplayName string `json:"display_name"`
}

// HandleEntitySearch serves the typeahead search endpoint
// (spec.md §6.1 GET /api/entities/search).
func (s *State) HandleEntitySearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	entries := s.Index.Search(query, searchResultLimit)

	results := make([]entitySearchResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, entitySearchResult{EntityID: e.EntityID, DisplayName: e.DisplayName})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(results)
}
