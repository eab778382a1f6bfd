package domain

// DefaultPageSize matches the backend default for search requests.
const DefaultPageSize = 10

// Page selects a zero-based slice of search results.
type Page struct {
	Index int
	Size  int
}

// Normalize clamps the page to the ranges the backend accepts.
func (p Page) Normalize() Page {
	if p.Index < 0 {
		p.Index = 0
	}
	if p.Size < 1 || p.Size > 100 {
		p.Size = DefaultPageSize
	}
	return p
}

// SearchResult is returned uniformly by every search path.
type SearchResult[T any] struct {
	Items         []T   `json:"items"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// CompanyFilter mirrors the backend company search body. A nil field means
// "no constraint" and is sent as JSON null.
type CompanyFilter struct {
	CompanyName         *string `json:"companyName"`
	RegistrationNumber  *string `json:"registrationNumber"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	PrimaryContactEmail *string `json:"primaryContactEmail"`
}

// DriverFilter mirrors the backend driver search body.
type DriverFilter struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Email         *string `json:"email"`
	LicenseNumber *string `json:"licenseNumber"`
	City          *string `json:"city"`
	State         *string `json:"state"`
}
