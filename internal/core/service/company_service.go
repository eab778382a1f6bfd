package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/rbac"
	"github.com/cdportal/admin-console/internal/core/search"
)

// CompanyService drives the companies page.
type CompanyService struct {
	gate
	backend ports.CompanyBackend
	tracker search.Tracker
}

var _ ports.CompanyService = (*CompanyService)(nil)

func NewCompanyService(session ports.SessionView, backend ports.CompanyBackend, audit ports.AuditSink, log zerolog.Logger, opts ...Option) *CompanyService {
	return &CompanyService{
		gate:    newGate(session, audit, log.With().Str("resource", "company").Logger(), opts),
		backend: backend,
	}
}

// Search runs the free-text cascade for q.
func (s *CompanyService) Search(ctx context.Context, q string, page domain.Page) (domain.SearchResult[domain.Company], search.Trace, error) {
	if err := s.allow(rbac.ResourceCompany, rbac.OpSearch, ""); err != nil {
		return domain.SearchResult[domain.Company]{}, search.Trace{}, err
	}
	ticket := s.tracker.Begin()
	res, trace, err := search.Run(ctx, search.CompanyStrategies(q), page.Normalize(), s.backend.Search)
	s.observe.SearchFinished(string(rbac.ResourceCompany), trace.Attempts, err)
	if err != nil {
		return res, trace, err
	}
	trace.Stale = !s.tracker.Current(ticket)
	s.log.Debug().
		Strs("attempts", trace.Attempts).
		Int("items", len(res.Items)).
		Bool("stale", trace.Stale).
		Msg("company search")
	return res, trace, nil
}

func (s *CompanyService) Get(ctx context.Context, id domain.ID) (domain.Company, error) {
	if id.IsZero() {
		return domain.Company{}, domain.ErrMissingIdentifier
	}
	if err := s.allow(rbac.ResourceCompany, rbac.OpView, id.String()); err != nil {
		return domain.Company{}, err
	}
	return s.backend.Get(ctx, id)
}

// Save creates c when it has no identifier and updates it otherwise.
func (s *CompanyService) Save(ctx context.Context, c domain.Company) (domain.Company, error) {
	if c.ID.IsZero() {
		if err := s.allow(rbac.ResourceCompany, rbac.OpCreate, ""); err != nil {
			return domain.Company{}, err
		}
		created, err := s.backend.Create(ctx, c)
		s.done(rbac.ResourceCompany, rbac.OpCreate, created.ID.String(), err)
		return created, err
	}

	if err := s.allow(rbac.ResourceCompany, rbac.OpUpdate, c.ID.String()); err != nil {
		return domain.Company{}, err
	}
	updated, err := s.backend.Update(ctx, c.ID, c)
	s.done(rbac.ResourceCompany, rbac.OpUpdate, c.ID.String(), err)
	return updated, err
}

func (s *CompanyService) Delete(ctx context.Context, id domain.ID) error {
	if err := s.allow(rbac.ResourceCompany, rbac.OpDelete, id.String()); err != nil {
		return err
	}
	if id.IsZero() {
		return domain.ErrMissingIdentifier
	}
	err := s.backend.Delete(ctx, id)
	s.done(rbac.ResourceCompany, rbac.OpDelete, id.String(), err)
	return err
}
