// Package connstring classifies raw connection strings by the database engine
// they target.
//
// Classification is structural: the string is split into key/value pairs
// (or parsed as a URL when it has a scheme) and matched against the shapes of
// the known providers. No network access is performed, so Classify is a pure
// function of its input and always returns the same answer for the same string.
//
// # Basic Usage
//
//	provider, err := connstring.Classify("Server=.;Database=umbraco")
//	// provider == dbprovider.SQLServer
//
//	provider, err = connstring.Classify("")
//	// provider == "", err == nil: no database configured
//
//	_, err = connstring.Classify("Foo=bar")
//	// errors.Is(err, connstring.ErrClassification)
//
// # Configuration
//
// Named connection strings are usually loaded from YAML:
//
//	cfg, err := connstring.LoadConfig("config.yaml")
//	desc, err := cfg.Descriptor("umbracoDbDSN")
//
// An explicit provider_name entry overrides classification, which is the only
// way to select a provider for strings whose shape is ambiguous.
//
// Classification failures are static misconfiguration and should stop
// application startup; they are never retried.
package connstring
