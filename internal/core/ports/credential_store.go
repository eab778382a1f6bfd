package ports

import "context"

// Fixed keys of the persisted session state.
const (
	KeyToken = "jwtToken"
	KeyRole  = "userRole"
)

// CredentialStore is the durable key-value store holding the bearer token and
// role between runs. Get reports ok=false for a missing key.
type CredentialStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
