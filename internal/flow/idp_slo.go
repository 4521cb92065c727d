package flow

import "net/http"

// HandleIdPSLO acknowledges a downstream SP's logout request
// (spec.md §6.1 POST /saml/slo).
func (s *State) HandleIdPSLO(w http.ResponseWriter, r *http.Request) {
	s.handleStatelessLogout(w, r)
}
