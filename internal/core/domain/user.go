package domain

// User is an account known to the backend. The backend is authoritative for
// identity; the client never assigns ID.
type User struct {
	ID        ID     `json:"id,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	CanDelete bool   `json:"canDelete,omitempty"`
}

// Registration is the payload for creating an account.
type Registration struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Email    string `json:"email" validate:"omitempty,email,max=100"`
	Role     Role   `json:"role"`
}

// Identity is who the current session acts as, taken from the credential.
type Identity struct {
	Subject string
}

// IsZero reports whether no identity is known.
func (i Identity) IsZero() bool { return i.Subject == "" }
