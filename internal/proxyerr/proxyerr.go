// Package proxyerr defines the proxy's error kinds (spec.md §7) and
// dispatches them to the right HTTP status, in the spirit of the
// teacher's own crewjam/httperr dependency: every handler error carries
// its HTTP disposition with it instead of being translated ad hoc at each
// call site.
package proxyerr

import (
	"errors"
	"net/http"

	"github.com/crewjam/httperr"
	"github.com/sirupsen/logrus"
)

// Kind identifies one of the error kinds from spec.md §7.
type Kind int

const (
	KindInternal Kind = iota
	KindSessionNotFound
	KindInvalidSamlRequest
	KindMissingUniversitySelection
	KindInvalidSamlResponse
	KindMdqFetchFailed
)

var statusForKind = map[Kind]int{
	KindInternal:                   http.StatusInternalServerError,
	KindSessionNotFound:            http.StatusNotFound,
	KindInvalidSamlRequest:         http.StatusBadRequest,
	KindMissingUniversitySelection: http.StatusBadRequest,
	KindInvalidSamlResponse:        http.StatusBadGateway,
	KindMdqFetchFailed:             http.StatusBadGateway,
}

var messageForKind = map[Kind]string{
	KindInternal:                   "internal error",
	KindSessionNotFound:            "session not found",
	KindInvalidSamlRequest:         "invalid SAML request",
	KindMissingUniversitySelection: "missing university selection",
	KindInvalidSamlResponse:        "invalid SAML response",
	KindMdqFetchFailed:             "metadata fetch failed",
}

// New wraps err with the given Kind, carrying its HTTP disposition.
func New(kind Kind, err error) error {
	return &httperr.Error{
		Status:  statusForKind[kind],
		Err:     errWithKind{kind: kind, err: err},
		Message: messageForKind[kind],
	}
}

type errWithKind struct {
	kind Kind
	err  error
}

func (e errWithKind) Error() string { return e.err.Error() }
func (e errWithKind) Unwrap() error { return e.err }

// KindOf extracts the Kind carried by an error produced by New, defaulting
// to KindInternal for any other error.
func KindOf(err error) Kind {
	var wrapped errWithKind
	if errors.As(err, &wrapped) {
		return wrapped.kind
	}
	return KindInternal
}

// Respond logs err with structured fields and writes the status and body
// its Kind maps to (spec.md §7: every error is logged before the response
// is written). Handlers call this exactly once, at the point they give up
// on the request.
func Respond(w http.ResponseWriter, log *logrus.Entry, err error) {
	kind := KindOf(err)
	status := statusForKind[kind]

	log.WithFields(logrus.Fields{
		"status": status,
		"error":  err.Error(),
	}).Error("request failed")

	http.Error(w, messageForKind[kind], status)
}
