package ports

// APIServer defines the interface for the HTTP ingress serving the relay
type APIServer interface {
	// Start starts serving in the background
	Start() error

	// Stop gracefully shuts the server down
	Stop() error
}
