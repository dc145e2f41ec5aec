package database

import (
	// database/sql drivers used by Open.
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
)
