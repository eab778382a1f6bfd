package domain

// Driver is a registered driver record.
type Driver struct {
	ID            ID     `json:"id,omitempty"`
	FirstName     string `json:"firstName" validate:"required,min=2,max=100"`
	LastName      string `json:"lastName" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Mobile        string `json:"mobile,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	LicenseNumber string `json:"licenseNumber" validate:"required"`
	Experience    string `json:"experience,omitempty" validate:"omitempty,numeric"`
	Address
}

// WithoutID returns a copy suitable as a create/update payload.
func (d Driver) WithoutID() Driver {
	d.ID = ""
	return d
}
