package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/cdportal/admin-console/internal/core/domain"
)

// FetchFunc issues one filtered, paginated request against the backend.
type FetchFunc[F, T any] func(ctx context.Context, filter F, page domain.Page) (domain.SearchResult[T], error)

// Trace records which strategies a cascade issued, in order.
type Trace struct {
	Attempts []string
	Winner   string
	// Stale is set by callers holding a Tracker when a newer search began
	// before this one finished.
	Stale bool
}

var errNoStrategies = errors.New("search: no strategies")

// Run evaluates strategies in order, one request at a time, and returns the
// first result holding at least one record. When every attempt is empty the
// last attempt's result is returned. Any fetch error aborts the cascade; no
// partial result is returned with it.
func Run[F, T any](ctx context.Context, strategies []Strategy[F], page domain.Page, fetch FetchFunc[F, T]) (domain.SearchResult[T], Trace, error) {
	var trace Trace
	if len(strategies) == 0 {
		return domain.SearchResult[T]{}, trace, errNoStrategies
	}

	var res domain.SearchResult[T]
	for i, s := range strategies {
		trace.Attempts = append(trace.Attempts, s.Name)

		var err error
		res, err = fetch(ctx, s.Filter, page)
		if err != nil {
			return domain.SearchResult[T]{}, trace, fmt.Errorf("search by %s: %w", s.Name, err)
		}
		if len(res.Items) > 0 || i == len(strategies)-1 {
			trace.Winner = s.Name
			break
		}
	}
	return res, trace, nil
}
