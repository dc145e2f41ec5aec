package connstring

import "fmt"

// Descriptor is a named connection string together with the provider it targets.
// It is a value type; once built it is never modified.
type Descriptor struct {
	// Name is the logical key of the connection in configuration.
	Name string

	// ConnectionString is the raw connection string.
	ConnectionString string

	// ProviderName is the resolved provider, empty when no connection string is configured.
	ProviderName string
}

// NewDescriptor builds a Descriptor. When providerName is empty the connection
// string is classified.
func NewDescriptor(name, connectionString, providerName string) (Descriptor, error) {
	if providerName == "" {
		var err error
		providerName, err = Classify(connectionString)
		if err != nil {
			return Descriptor{}, fmt.Errorf("connection %q: %w", name, err)
		}
	}
	return Descriptor{
		Name:             name,
		ConnectionString: connectionString,
		ProviderName:     providerName,
	}, nil
}

// IsConfigured reports whether the descriptor points at a database.
func (d Descriptor) IsConfigured() bool {
	return d.ConnectionString != "" && d.ProviderName != ""
}
