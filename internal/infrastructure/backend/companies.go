package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

// CompanyClient implements ports.CompanyBackend over /api/companies.
type CompanyClient struct {
	c *Client
}

var _ ports.CompanyBackend = (*CompanyClient)(nil)

// companySearchBody is the search payload. Filter fields are never omitted;
// an unconstrained field is sent as null.
type companySearchBody struct {
	domain.CompanyFilter
	Page int `json:"page"`
	Size int `json:"size"`
}

func (cc *CompanyClient) List(ctx context.Context) ([]domain.Company, error) {
	raw, err := cc.c.do(ctx, request{op: "list companies", method: http.MethodGet, path: []string{"api", "companies"}})
	if err != nil {
		return nil, err
	}
	items, err := decodeList[domain.Company](raw)
	if err != nil {
		return nil, &domain.TransportError{Op: "list companies", Err: err}
	}
	return items, nil
}

func (cc *CompanyClient) Get(ctx context.Context, id domain.ID) (domain.Company, error) {
	var out domain.Company
	err := cc.c.doJSON(ctx, request{
		op:     "get company",
		method: http.MethodGet,
		path:   []string{"api", "companies", url.PathEscape(id.String())},
	}, &out)
	return out, err
}

func (cc *CompanyClient) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	var out domain.Company
	err := cc.c.doJSON(ctx, request{
		op:     "create company",
		method: http.MethodPost,
		path:   []string{"api", "companies"},
		body:   company.WithoutID(),
	}, &out)
	return out, err
}

func (cc *CompanyClient) Update(ctx context.Context, id domain.ID, company domain.Company) (domain.Company, error) {
	var out domain.Company
	err := cc.c.doJSON(ctx, request{
		op:     "update company",
		method: http.MethodPut,
		path:   []string{"api", "companies", url.PathEscape(id.String())},
		body:   company.WithoutID(),
	}, &out)
	return out, err
}

func (cc *CompanyClient) Delete(ctx context.Context, id domain.ID) error {
	_, err := cc.c.do(ctx, request{
		op:     "delete company",
		method: http.MethodDelete,
		path:   []string{"api", "companies", url.PathEscape(id.String())},
	})
	return err
}

func (cc *CompanyClient) Search(ctx context.Context, filter domain.CompanyFilter, page domain.Page) (domain.SearchResult[domain.Company], error) {
	raw, err := cc.c.do(ctx, request{
		op:     "search companies",
		method: http.MethodPost,
		path:   []string{"api", "companies", "search"},
		body:   companySearchBody{CompanyFilter: filter, Page: page.Index, Size: page.Size},
	})
	if err != nil {
		return domain.SearchResult[domain.Company]{}, err
	}
	res, err := decodePage[domain.Company](raw)
	if err != nil {
		return domain.SearchResult[domain.Company]{}, &domain.TransportError{Op: "search companies", Err: err}
	}
	return res, nil
}
