package connstring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the connection-strings section of the application configuration.
//
// Example YAML:
//
//	connection_strings:
//	  umbracoDbDSN:
//	    connection_string: "Server=.;Database=umbraco;Integrated Security=true"
//	  reporting:
//	    connection_string: "host=db dbname=reports sslmode=disable"
//	    provider_name: PostgreSql
type Config struct {
	ConnectionStrings map[string]ConnectionString `yaml:"connection_strings"`
}

// ConnectionString is one named entry of the configuration.
type ConnectionString struct {
	// ConnectionString is the raw connection string handed to the driver.
	ConnectionString string `yaml:"connection_string" envconfig:"CONNECTION_STRING"`

	// ProviderName overrides classification when set.
	ProviderName string `yaml:"provider_name" envconfig:"PROVIDER_NAME"`
}

// ParseConfig decodes a YAML document into a Config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse connection strings config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and decodes the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read connection strings config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// Descriptor resolves the named connection. An explicitly configured provider
// name wins; otherwise the connection string is classified.
func (c Config) Descriptor(name string) (Descriptor, error) {
	entry, ok := c.ConnectionStrings[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrConnectionStringNotFound, name)
	}
	return NewDescriptor(name, entry.ConnectionString, entry.ProviderName)
}
