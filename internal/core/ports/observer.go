package ports

// Observer receives measurements from the page controllers.
type Observer interface {
	// SearchFinished reports the strategies a search tried, in order.
	SearchFinished(resource string, attempts []string, err error)
	// PolicyDenied reports an action refused before reaching the backend.
	// reason is "forbidden" or "self".
	PolicyDenied(resource, operation, reason string)
}
