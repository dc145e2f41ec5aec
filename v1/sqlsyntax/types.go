package sqlsyntax

import "fmt"

// LogicalType is a portable column type that every provider maps to a native keyword.
type LogicalType int

const (
	TypeString LogicalType = iota + 1
	TypeFixedString
	TypeBoolean
	TypeGUID
	TypeDateTime
	TypeTimeSpan
	TypeInt32
	TypeInt64
)

// LogicalTypes is the fixed set of logical types every provider must map.
var LogicalTypes = []LogicalType{
	TypeString,
	TypeFixedString,
	TypeBoolean,
	TypeGUID,
	TypeDateTime,
	TypeTimeSpan,
	TypeInt32,
	TypeInt64,
}

func (t LogicalType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeFixedString:
		return "fixed-length string"
	case TypeBoolean:
		return "boolean"
	case TypeGUID:
		return "guid"
	case TypeDateTime:
		return "date-time"
	case TypeTimeSpan:
		return "time-span"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	}
	return fmt.Sprintf("LogicalType(%d)", int(t))
}

// SystemMethod is an abstract token for an engine-native SQL function.
// The zero value means "no system method".
type SystemMethod int

const (
	NewGUID SystemMethod = iota + 1
	CurrentDateTime
	NewSequentialID
	CurrentUTCDateTime
)

func (m SystemMethod) String() string {
	switch m {
	case NewGUID:
		return "NewGuid"
	case CurrentDateTime:
		return "CurrentDateTime"
	case NewSequentialID:
		return "NewSequentialId"
	case CurrentUTCDateTime:
		return "CurrentUTCDateTime"
	}
	return fmt.Sprintf("SystemMethod(%d)", int(m))
}

// SpecialDBType is a column type outside the portable set.
type SpecialDBType int

const (
	NText SpecialDBType = iota + 1
	NChar
	NVarcharMax
)

func (t SpecialDBType) String() string {
	switch t {
	case NText:
		return "NTEXT"
	case NChar:
		return "NCHAR"
	case NVarcharMax:
		return "NVARCHAR(MAX)"
	}
	return fmt.Sprintf("SpecialDBType(%d)", int(t))
}

// IndexType selects the physical kind of an index.
type IndexType int

const (
	IndexClustered IndexType = iota + 1
	IndexNonClustered
	IndexUniqueNonClustered
)

func (t IndexType) String() string {
	switch t {
	case IndexClustered:
		return "Clustered"
	case IndexNonClustered:
		return "NonClustered"
	case IndexUniqueNonClustered:
		return "UniqueNonClustered"
	}
	return fmt.Sprintf("IndexType(%d)", int(t))
}

// TextColumnType describes how a text column is stored, which decides how it can be compared.
type TextColumnType int

const (
	TextNVarchar TextColumnType = iota + 1
	TextNText
)

func (t TextColumnType) String() string {
	switch t {
	case TextNVarchar:
		return "NVarchar"
	case TextNText:
		return "NText"
	}
	return fmt.Sprintf("TextColumnType(%d)", int(t))
}

// ColumnDefinition describes one column for DDL generation.
type ColumnDefinition struct {
	Name string
	Type LogicalType

	// Size is the length of string columns; zero means the provider default.
	Size     int
	Nullable bool

	IsIdentity   bool
	IsPrimaryKey bool

	// PrimaryKeyName overrides the default PK_<table> constraint name.
	PrimaryKeyName string

	// PrimaryKeyColumns lists the columns of a composite key.
	// Empty means the key is this column alone.
	PrimaryKeyColumns []string

	// PrimaryKeyNonClustered asks for a non-clustered key where the engine distinguishes.
	PrimaryKeyNonClustered bool

	// Default is a raw SQL default expression. DefaultMethod takes precedence when set.
	Default       string
	DefaultMethod SystemMethod
}

// TableDefinition describes a table for DDL generation.
type TableDefinition struct {
	Name    string
	Columns []ColumnDefinition
}

// ColumnInfo is one row of column introspection.
type ColumnInfo struct {
	TableName       string
	ColumnName      string
	OrdinalPosition int
	ColumnDefault   string
	IsNullable      bool
	DataType        string
}

// ConstraintInfo is one row of constraint introspection. ColumnName is empty
// for per-table results.
type ConstraintInfo struct {
	TableName      string
	ColumnName     string
	ConstraintName string
}

// IndexInfo is one (index, column) pair of index introspection.
type IndexInfo struct {
	TableName  string
	IndexName  string
	ColumnName string
	IsUnique   bool
}
