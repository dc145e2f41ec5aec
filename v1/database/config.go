package database

import (
	"github.com/rasmusjp/Umbraco-CMS/v1/connstring"
)

// DefaultConnectionName is the connection the application uses unless configured otherwise.
const DefaultConnectionName = "umbracoDbDSN"

// Config selects the connection the application runs against.
type Config struct {
	// ConnectionName is the key in Connections to open.
	ConnectionName string `yaml:"connection_name" envconfig:"DATABASE_CONNECTION_NAME"`

	// Connections holds the named connection strings.
	Connections connstring.Config `yaml:",inline"`
}

// Descriptor resolves the configured connection. An empty ConnectionName
// means DefaultConnectionName.
func (c Config) Descriptor() (connstring.Descriptor, error) {
	name := c.ConnectionName
	if name == "" {
		name = DefaultConnectionName
	}
	return c.Connections.Descriptor(name)
}
