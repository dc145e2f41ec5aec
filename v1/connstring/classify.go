package connstring

import (
	"fmt"
	"strings"

	"github.com/xo/dburl"

	"github.com/rasmusjp/Umbraco-CMS/v1/dbprovider"
)

// Connection string keys the classifier looks at.
const (
	KeyDataSource       = "Data Source"
	KeyServer           = "Server"
	KeyDatabase         = "Database"
	KeyAttachDBFileName = "AttachDbFileName"
	KeyInitialCatalog   = "Initial Catalog"
)

// Classify determines which provider a connection string targets.
//
// An empty connection string yields an empty provider name and no error:
// having no database configured is the caller's business. URL-shaped strings
// (postgres://, sqlserver://, ...) are classified by their scheme. Anything
// else is parsed as key=value pairs:
//
//   - a Data Source ending in .sdf is the (unsupported) SqlCe provider
//   - a non-empty Server plus any of Database, AttachDbFileName or
//     Initial Catalog is SqlServer
//
// Every other shape fails with a *ClassificationError. Classify performs no I/O.
func Classify(connectionString string) (string, error) {
	s := strings.TrimSpace(connectionString)
	if s == "" {
		return "", nil
	}

	if IsURL(s) {
		return classifyURL(s)
	}

	values, err := Parse(s)
	if err != nil {
		return "", err
	}

	if ds, ok := values.Get(KeyDataSource); ok && strings.HasSuffix(strings.ToLower(ds), ".sdf") {
		return dbprovider.SQLCe, nil
	}

	if values.nonEmpty(KeyServer) &&
		(values.nonEmpty(KeyDatabase) || values.nonEmpty(KeyAttachDBFileName) || values.nonEmpty(KeyInitialCatalog)) {
		return dbprovider.SQLServer, nil
	}

	return "", &ClassificationError{Keys: values.Keys(), Reason: "no known provider shape"}
}

// IsURL reports whether s is URL-shaped, that is it starts with "scheme://".
func IsURL(s string) bool {
	idx := strings.Index(s, "://")
	if idx <= 0 {
		return false
	}
	for _, c := range s[:idx] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return false
		}
	}
	return true
}

func classifyURL(s string) (string, error) {
	u, err := dburl.Parse(s)
	if err != nil {
		return "", &ClassificationError{Reason: fmt.Sprintf("unrecognised connection URL: %v", err)}
	}
	switch u.Driver {
	case "postgres", "pgx":
		return dbprovider.PostgreSQL, nil
	case "sqlserver", "mssql", "azuresql":
		return dbprovider.SQLServer, nil
	default:
		return "", &ClassificationError{Reason: fmt.Sprintf("unsupported URL driver %q", u.Driver)}
	}
}
