package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/rbac"
	"github.com/cdportal/admin-console/internal/core/search"
)

// DriverService drives the drivers page.
type DriverService struct {
	gate
	backend ports.DriverBackend
	tracker search.Tracker
}

var _ ports.DriverService = (*DriverService)(nil)

func NewDriverService(session ports.SessionView, backend ports.DriverBackend, audit ports.AuditSink, log zerolog.Logger, opts ...Option) *DriverService {
	return &DriverService{
		gate:    newGate(session, audit, log.With().Str("resource", "driver").Logger(), opts),
		backend: backend,
	}
}

// Search runs the free-text cascade for q.
func (s *DriverService) Search(ctx context.Context, q string, page domain.Page) (domain.SearchResult[domain.Driver], search.Trace, error) {
	if err := s.allow(rbac.ResourceDriver, rbac.OpSearch, ""); err != nil {
		return domain.SearchResult[domain.Driver]{}, search.Trace{}, err
	}
	ticket := s.tracker.Begin()
	res, trace, err := search.Run(ctx, search.DriverStrategies(q), page.Normalize(), s.backend.Search)
	s.observe.SearchFinished(string(rbac.ResourceDriver), trace.Attempts, err)
	if err != nil {
		return res, trace, err
	}
	trace.Stale = !s.tracker.Current(ticket)
	s.log.Debug().
		Strs("attempts", trace.Attempts).
		Int("items", len(res.Items)).
		Bool("stale", trace.Stale).
		Msg("driver search")
	return res, trace, nil
}

func (s *DriverService) Get(ctx context.Context, id domain.ID) (domain.Driver, error) {
	if id.IsZero() {
		return domain.Driver{}, domain.ErrMissingIdentifier
	}
	if err := s.allow(rbac.ResourceDriver, rbac.OpView, id.String()); err != nil {
		return domain.Driver{}, err
	}
	return s.backend.Get(ctx, id)
}

// Save creates d when it has no identifier and updates it otherwise.
func (s *DriverService) Save(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	if d.ID.IsZero() {
		if err := s.allow(rbac.ResourceDriver, rbac.OpCreate, ""); err != nil {
			return domain.Driver{}, err
		}
		created, err := s.backend.Create(ctx, d)
		s.done(rbac.ResourceDriver, rbac.OpCreate, created.ID.String(), err)
		return created, err
	}

	if err := s.allow(rbac.ResourceDriver, rbac.OpUpdate, d.ID.String()); err != nil {
		return domain.Driver{}, err
	}
	updated, err := s.backend.Update(ctx, d.ID, d)
	s.done(rbac.ResourceDriver, rbac.OpUpdate, d.ID.String(), err)
	return updated, err
}

func (s *DriverService) Delete(ctx context.Context, id domain.ID) error {
	if err := s.allow(rbac.ResourceDriver, rbac.OpDelete, id.String()); err != nil {
		return err
	}
	if id.IsZero() {
		return domain.ErrMissingIdentifier
	}
	err := s.backend.Delete(ctx, id)
	s.done(rbac.ResourceDriver, rbac.OpDelete, id.String(), err)
	return err
}
