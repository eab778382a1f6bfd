// Package search turns one free-text query into the structured filter
// requests understood by the backend search endpoints.
//
// Classification produces an ordered list of strategies. The list is a
// fallback cascade: each strategy after the first is only tried when the one
// before it matched nothing.
package search

import (
	"strings"
	"unicode"

	"github.com/cdportal/admin-console/internal/core/domain"
)

// Strategy is one filter attempt in a cascade.
type Strategy[F any] struct {
	Name   string
	Filter F
}

const (
	StrategyUnfiltered         = "unfiltered"
	StrategyEmail              = "email"
	StrategyRegistrationNumber = "registrationNumber"
	StrategyCompanyName        = "companyName"
	StrategyLicenseNumber      = "licenseNumber"
	StrategyFullName           = "fullName"
	StrategyFirstName          = "firstName"
	StrategyLastName           = "lastName"
	StrategyCity               = "city"
	StrategyState              = "state"
)

// CompanyStrategies classifies q for a company search.
func CompanyStrategies(q string) []Strategy[domain.CompanyFilter] {
	q = strings.TrimSpace(q)
	switch {
	case q == "":
		return []Strategy[domain.CompanyFilter]{{Name: StrategyUnfiltered}}
	case strings.Contains(q, "@"):
		return []Strategy[domain.CompanyFilter]{
			{Name: StrategyEmail, Filter: domain.CompanyFilter{PrimaryContactEmail: &q}},
		}
	case hasDigit(q):
		return []Strategy[domain.CompanyFilter]{
			{Name: StrategyRegistrationNumber, Filter: domain.CompanyFilter{RegistrationNumber: &q}},
		}
	}
	return []Strategy[domain.CompanyFilter]{
		{Name: StrategyCompanyName, Filter: domain.CompanyFilter{CompanyName: &q}},
		{Name: StrategyCity, Filter: domain.CompanyFilter{City: &q}},
		{Name: StrategyState, Filter: domain.CompanyFilter{State: &q}},
	}
}

// DriverStrategies classifies q for a driver search.
func DriverStrategies(q string) []Strategy[domain.DriverFilter] {
	q = strings.TrimSpace(q)
	switch {
	case q == "":
		return []Strategy[domain.DriverFilter]{{Name: StrategyUnfiltered}}
	case strings.Contains(q, "@"):
		return []Strategy[domain.DriverFilter]{
			{Name: StrategyEmail, Filter: domain.DriverFilter{Email: &q}},
		}
	case hasDigit(q):
		return []Strategy[domain.DriverFilter]{
			{Name: StrategyLicenseNumber, Filter: domain.DriverFilter{LicenseNumber: &q}},
		}
	case strings.IndexFunc(q, unicode.IsSpace) >= 0:
		first, last := splitName(q)
		return []Strategy[domain.DriverFilter]{
			{Name: StrategyFullName, Filter: domain.DriverFilter{FirstName: first, LastName: last}},
		}
	}
	return []Strategy[domain.DriverFilter]{
		{Name: StrategyFirstName, Filter: domain.DriverFilter{FirstName: &q}},
		{Name: StrategyLastName, Filter: domain.DriverFilter{LastName: &q}},
		{Name: StrategyCity, Filter: domain.DriverFilter{City: &q}},
	}
}

// splitName takes the first two whitespace-separated words of q as first and
// last name. Further words are ignored. A missing side is nil so it is sent
// as "no constraint".
func splitName(q string) (first, last *string) {
	fields := strings.Fields(q)
	if len(fields) > 0 {
		first = &fields[0]
	}
	if len(fields) > 1 {
		last = &fields[1]
	}
	return first, last
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
