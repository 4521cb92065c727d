package flow

import (
	"fmt"
	"net/http"

	"github.com/ScottyLabs/terrier/internal/proxyerr"
)

// HandleSPInitiate resolves the user's chosen institution via MDQ and
// redirects the browser to its SSO endpoint (spec.md §4.6
// INITIATE_PENDING -> AWAITING_IDP_RESPONSE).
//
// The session lookup below returns a value copy (session.Store.Get never
// hands back a pointer into its internal map), so by the time control
// reaches the MDQ fetch no lock from the session store is held — the
// critical concurrency invariant from spec.md §5: a session's view must
// be dropped before awaiting the MDQ fetch, so a slow upstream fetch can
// never stall the session sweeper.
func (s *State) HandleSPInitiate(w http.ResponseWriter, r *http.Request) {
	log := s.logger()
	sessionID := r.URL.Query().Get("session")

	sess, ok := s.Sessions.Get(sessionID)
	if !ok {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindSessionNotFound,
			fmt.Errorf("flow: no session %q", sessionID)))
		return
	}
	if sess.SelectedUniversity == "" {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindMissingUniversitySelection,
			fmt.Errorf("flow: session %q has no selected university", sessionID)))
		return
	}
	// sess is now a plain value; no store lock is held past this point.

	idpDesc, err := s.MDQ.GetEntity(r.Context(), sess.SelectedUniversity)
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindMdqFetchFailed, err))
		return
	}

	redirectURL, requestID, err := BuildUpstreamRedirect(s.Config.EntityID, s.Config.ACSURL(), idpDesc, sess.ID)
	if err != nil {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindMdqFetchFailed, err))
		return
	}

	if ok := s.Sessions.UpdateProxyRequestID(sess.ID, requestID); !ok {
		proxyerr.Respond(w, log, proxyerr.New(proxyerr.KindSessionNotFound,
			fmt.Errorf("flow: session %q expired before initiate completed", sess.ID)))
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}
