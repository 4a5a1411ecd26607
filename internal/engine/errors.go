package engine

import "fmt"

// ErrorKind enumerates every semantic failure the engine can report. The
// taxonomy is closed: each kind maps to exactly one user-facing message
// and a failing statement leaves the stored tables untouched.
type ErrorKind int

const (
	// CREATE TABLE schema errors.
	ErrDuplicateColumnDef ErrorKind = iota
	ErrDuplicatePrimaryKeyDef
	ErrReferenceType
	ErrReferenceNonPrimaryKey
	ErrReferenceColumnExistence
	ErrReferenceTableExistence
	ErrNonExistingColumnDef
	ErrTableExistence
	ErrCharLength

	// Table reference errors.
	ErrNoSuchTable
	ErrDropReferencedTable

	// INSERT errors.
	ErrInsertTypeMismatch
	ErrInsertColumnExistence
	ErrInsertColumnNonNullable

	// SELECT errors.
	ErrSelectTableExistence
	ErrSelectColumnResolve

	// WHERE clause errors.
	ErrWhereIncomparable
	ErrWhereTableNotSpecified
	ErrWhereColumnNotExist
	ErrWhereAmbiguousReference

	// Any duplicate-specification case not covered above.
	ErrEtc
)

// Error is a semantic statement failure. Name carries the offending
// table or column for the kinds whose message includes one.
type Error struct {
	Kind ErrorKind
	Name string
}

func errKind(kind ErrorKind) *Error { return &Error{Kind: kind} }

func errNamed(kind ErrorKind, name string) *Error {
	return &Error{Kind: kind, Name: name}
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrDuplicateColumnDef:
		return "Create table has failed: column definition is duplicated"
	case ErrDuplicatePrimaryKeyDef:
		return "Create table has failed: primary key definition is duplicated"
	case ErrReferenceType:
		return "Create table has failed: foreign key references wrong type"
	case ErrReferenceNonPrimaryKey:
		return "Create table has failed: foreign key references non primary key column"
	case ErrReferenceColumnExistence:
		return "Create table has failed: foreign key references non existing column"
	case ErrReferenceTableExistence:
		return "Create table has failed: foreign key references non existing table"
	case ErrNonExistingColumnDef:
		return fmt.Sprintf("Create table has failed: '%s' does not exist in column definition", e.Name)
	case ErrTableExistence:
		return "Create table has failed: table with the same name already exists"
	case ErrCharLength:
		return "Char length should be over 0"
	case ErrNoSuchTable:
		return "No such table"
	case ErrDropReferencedTable:
		return fmt.Sprintf("Drop table has failed: '%s' is referenced by other table", e.Name)
	case ErrInsertTypeMismatch:
		return "Insertion has failed: Types are not matched"
	case ErrInsertColumnExistence:
		return fmt.Sprintf("Insertion has failed: '%s' does not exist", e.Name)
	case ErrInsertColumnNonNullable:
		return fmt.Sprintf("Insertion has failed: '%s' is not nullable", e.Name)
	case ErrSelectTableExistence:
		return fmt.Sprintf("Selection has failed: '%s' does not exist", e.Name)
	case ErrSelectColumnResolve:
		return fmt.Sprintf("Selection has failed: fail to resolve '%s'", e.Name)
	case ErrWhereIncomparable:
		return "Where clause trying to compare incomparable values"
	case ErrWhereTableNotSpecified:
		return "Where clause trying to reference tables which are not specified"
	case ErrWhereColumnNotExist:
		return "Where clause trying to reference non existing column"
	case ErrWhereAmbiguousReference:
		return "Where clause contains ambiguous reference"
	default:
		return "Etc error"
	}
}
