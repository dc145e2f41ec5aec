// Package dbprovider holds the canonical provider names shared by the
// connection-string classifier, the dialect providers and the provider factory.
//
// A provider name identifies one SQL dialect/engine. Names are compared
// case-sensitively everywhere except in the factory, which also accepts
// registered aliases.
package dbprovider

const (
	// SQLServer is the provider name of Microsoft SQL Server and Azure SQL.
	SQLServer = "SqlServer"

	// PostgreSQL is the provider name of PostgreSQL.
	PostgreSQL = "PostgreSql"

	// SQLCe is the provider name of the embedded SQL Server Compact engine.
	// It is recognised by the classifier but not supported by the factory.
	SQLCe = "SqlCe"
)
