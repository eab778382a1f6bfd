package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/search"
)

func queryContext(rawQuery string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/companies?"+rawQuery, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPageFromQuery(t *testing.T) {
	cases := []struct {
		query string
		want  domain.Page
		fails bool
	}{
		{"", domain.Page{Index: 0, Size: 10}, false},
		{"page=1", domain.Page{Index: 0, Size: 10}, false},
		{"page=3&size=25", domain.Page{Index: 2, Size: 25}, false},
		{"page=0", domain.Page{}, true},
		{"page=abc", domain.Page{}, true},
		{"size=101", domain.Page{}, true},
		{"size=0", domain.Page{}, true},
	}
	for _, tc := range cases {
		got, err := pageFromQuery(queryContext(tc.query), 10)
		if tc.fails {
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Errorf("%q: err = %v, want 400", tc.query, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%q: got %+v, %v; want %+v", tc.query, got, err, tc.want)
		}
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := newPageResponse(domain.SearchResult[domain.Driver]{TotalPages: 1},
		domain.Page{Index: 0, Size: 10},
		search.Trace{Attempts: []string{"firstName", "lastName", "city"}, Winner: "city"})

	if resp.Items == nil {
		t.Fatal("items must encode as [] not null")
	}
	if resp.Page != 1 || resp.MatchedBy != "city" || len(resp.Attempts) != 3 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerRequest{Username: "ab", Password: "secret1", Email: "nope", Role: "ROOT"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	for _, want := range []string{
		"username must be at least 3 characters",
		"email must be a valid email",
		"role must be one of: USER ADMIN SUPER_ADMIN",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %q", want, err.Error())
		}
	}

	if err := v.Validate(&roleRequest{Role: "ADMIN"}); err != nil {
		t.Fatalf("valid role rejected: %v", err)
	}
}

func TestValidator_NestedAddress(t *testing.T) {
	v := NewValidator()
	c := domain.Driver{
		FirstName:     "Jo",
		LastName:      "Smith",
		Email:         "jo@x.io",
		LicenseNumber: "L-1",
	}
	err := v.Validate(&c)
	if err == nil || !strings.Contains(err.Error(), "addressLine1 is required") {
		t.Fatalf("err = %v", err)
	}
}
