package flow

import "net/http"

// HandleSPSLO acknowledges the upstream IdP's logout request sent to the
// proxy's SP-facing leg (spec.md §6.1 POST /sp/slo).
func (s *State) HandleSPSLO(w http.ResponseWriter, r *http.Request) {
	s.handleStatelessLogout(w, r)
}
