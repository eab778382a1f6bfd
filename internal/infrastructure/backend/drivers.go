package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

// DriverClient implements ports.DriverBackend over /api/drivers.
type DriverClient struct {
	c *Client
}

var _ ports.DriverBackend = (*DriverClient)(nil)

// driverSearchBody is the search payload. Filter fields are never omitted;
// an unconstrained field is sent as null.
type driverSearchBody struct {
	domain.DriverFilter
	Page int `json:"page"`
	Size int `json:"size"`
}

func (dc *DriverClient) List(ctx context.Context) ([]domain.Driver, error) {
	raw, err := dc.c.do(ctx, request{op: "list drivers", method: http.MethodGet, path: []string{"api", "drivers"}})
	if err != nil {
		return nil, err
	}
	items, err := decodeList[domain.Driver](raw)
	if err != nil {
		return nil, &domain.TransportError{Op: "list drivers", Err: err}
	}
	return items, nil
}

func (dc *DriverClient) Get(ctx context.Context, id domain.ID) (domain.Driver, error) {
	var out domain.Driver
	err := dc.c.doJSON(ctx, request{
		op:     "get driver",
		method: http.MethodGet,
		path:   []string{"api", "drivers", url.PathEscape(id.String())},
	}, &out)
	return out, err
}

func (dc *DriverClient) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	var out domain.Driver
	err := dc.c.doJSON(ctx, request{
		op:     "create driver",
		method: http.MethodPost,
		path:   []string{"api", "drivers"},
		body:   driver.WithoutID(),
	}, &out)
	return out, err
}

func (dc *DriverClient) Update(ctx context.Context, id domain.ID, driver domain.Driver) (domain.Driver, error) {
	var out domain.Driver
	err := dc.c.doJSON(ctx, request{
		op:     "update driver",
		method: http.MethodPut,
		path:   []string{"api", "drivers", url.PathEscape(id.String())},
		body:   driver.WithoutID(),
	}, &out)
	return out, err
}

func (dc *DriverClient) Delete(ctx context.Context, id domain.ID) error {
	_, err := dc.c.do(ctx, request{
		op:     "delete driver",
		method: http.MethodDelete,
		path:   []string{"api", "drivers", url.PathEscape(id.String())},
	})
	return err
}

func (dc *DriverClient) Search(ctx context.Context, filter domain.DriverFilter, page domain.Page) (domain.SearchResult[domain.Driver], error) {
	raw, err := dc.c.do(ctx, request{
		op:     "search drivers",
		method: http.MethodPost,
		path:   []string{"api", "drivers", "search"},
		body:   driverSearchBody{DriverFilter: filter, Page: page.Index, Size: page.Size},
	})
	if err != nil {
		return domain.SearchResult[domain.Driver]{}, err
	}
	res, err := decodePage[domain.Driver](raw)
	if err != nil {
		return domain.SearchResult[domain.Driver]{}, &domain.TransportError{Op: "search drivers", Err: err}
	}
	return res, nil
}
