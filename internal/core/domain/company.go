package domain

// Address is shared by companies and drivers. The wire format is flat, so the
// struct is embedded without a JSON name.
type Address struct {
	AddressLine1 string `json:"addressLine1" validate:"required,min=5,max=200"`
	AddressLine2 string `json:"addressLine2,omitempty" validate:"max=200"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	ZipCode      string `json:"zipCode" validate:"required,min=2,max=20"`
}

// Company is a registered company record. ID is empty until the backend
// has persisted or confirmed the record.
type Company struct {
	ID                 ID     `json:"id,omitempty"`
	CompanyName        string `json:"companyName" validate:"required,min=2,max=50"`
	EstablishedOn      string `json:"establishedOn,omitempty"`
	RegistrationNumber string `json:"registrationNumber" validate:"required,min=2,max=50"`
	Website            string `json:"website,omitempty" validate:"omitempty,url"`
	Address

	PrimaryContactFirstName string `json:"primaryContactFirstName" validate:"required"`
	PrimaryContactLastName  string `json:"primaryContactLastName" validate:"required"`
	PrimaryContactEmail     string `json:"primaryContactEmail" validate:"required,email"`
	PrimaryContactMobile    string `json:"primaryContactMobile,omitempty"`
}

// WithoutID returns a copy suitable as a create/update payload.
func (c Company) WithoutID() Company {
	c.ID = ""
	return c
}
