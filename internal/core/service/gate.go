// Package service holds the page controllers: the glue that runs the role
// policy, the search cascade and the CRUD transport for each resource.
package service

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/rbac"
)

type discardSink struct{}

func (discardSink) Record(domain.AuditEntry) {}

type nopObserver struct{}

func (nopObserver) SearchFinished(string, []string, error) {}
func (nopObserver) PolicyDenied(string, string, string)    {}

// Option configures a page controller.
type Option func(*gate)

// WithObserver reports searches and denials to o.
func WithObserver(o ports.Observer) Option {
	return func(g *gate) {
		if o != nil {
			g.observe = o
		}
	}
}

// gate checks every action against the session before it reaches the
// backend, and reports the outcome to the audit sink.
type gate struct {
	session ports.SessionView
	audit   ports.AuditSink
	observe ports.Observer
	log     zerolog.Logger
	now     func() time.Time
}

func newGate(session ports.SessionView, audit ports.AuditSink, log zerolog.Logger, opts []Option) gate {
	if audit == nil {
		audit = discardSink{}
	}
	g := gate{session: session, audit: audit, observe: nopObserver{}, log: log, now: time.Now}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// allow reports ErrNotAuthenticated for an anonymous session and
// ErrForbidden when the role lacks the grant.
func (g gate) allow(res rbac.Resource, op rbac.Operation, target string) error {
	if !g.session.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	if err := rbac.Authorize(g.session.Role(), res, op); err != nil {
		g.deny(res, op, target, err)
		return err
	}
	return nil
}

// allowUser is allow plus the self-action veto.
func (g gate) allowUser(op rbac.Operation, target domain.User) error {
	if !g.session.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	err := rbac.AuthorizeUser(g.session.Role(), g.session.Identity(), op, target)
	if err != nil {
		g.deny(rbac.ResourceUser, op, userKey(target), err)
		return err
	}
	return nil
}

func (g gate) deny(res rbac.Resource, op rbac.Operation, target string, err error) {
	reason := "forbidden"
	if errors.Is(err, domain.ErrSelfAction) {
		reason = "self"
	}
	g.observe.PolicyDenied(string(res), string(op), reason)
	g.log.Warn().
		Str("resource", string(res)).
		Str("operation", string(op)).
		Str("role", g.session.Role().String()).
		Str("target", target).
		Msg("action denied")
	g.record(res, op, target, domain.OutcomeDenied, err)
}

// done audits a mutation that reached the backend.
func (g gate) done(res rbac.Resource, op rbac.Operation, target string, err error) {
	outcome := domain.OutcomeAllowed
	if err != nil {
		outcome = domain.OutcomeFailed
	}
	g.record(res, op, target, outcome, err)
}

func (g gate) record(res rbac.Resource, op rbac.Operation, target string, outcome domain.AuditOutcome, err error) {
	entry := domain.AuditEntry{
		Actor:     g.session.Identity().Subject,
		Role:      g.session.Role(),
		Resource:  string(res),
		Operation: string(op),
		TargetID:  target,
		Outcome:   outcome,
		At:        g.now().UTC(),
	}
	if err != nil {
		entry.Detail = err.Error()
	}
	g.audit.Record(entry)
}

// userKey is the identifier a user action targets: id, else username, else email.
func userKey(u domain.User) string {
	switch {
	case !u.ID.IsZero():
		return u.ID.String()
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}
