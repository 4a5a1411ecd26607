// Package engine implements the tinyrel execution core.
//
// What: This package evaluates parsed statement trees against the document
// store. It covers the value and type system, the schema catalog with
// primary/foreign-key validation, a condition engine with three-valued
// logic, the statement executor (INSERT, DELETE, SELECT with cartesian
// joins, schema inspection, listing) and the tabular result rendering.
// How: Statements dispatch by kind; every fallible path returns a value of
// the closed error taxonomy in errors.go. Records travel engine-side as
// ordered value slices parallel to the column list, so type errors surface
// at the storage boundary rather than inside query evaluation. All
// validation happens before the single persist call of each statement.
// Why: A small, explicit core with enumerated conditions and errors keeps
// the edge cases (null comparisons, ambiguous names, key coverage)
// checkable one function at a time.
package engine

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Kind is the coarse kind of a value or column type: parametric detail
// such as the char length is ignored. KindNull is the pseudo-type of the
// null literal; it is never a column type.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindChar
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindChar:
		return "char"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

const dateLayout = "2006-01-02"

// Value is a tagged literal value: null, integer, character string or
// calendar date.
type Value struct {
	Kind Kind
	Int  int64
	Str  string
	Date time.Time
}

// Null is the null value.
var Null = Value{Kind: KindNull}

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// CharValue wraps a character string.
func CharValue(s string) Value { return Value{Kind: KindChar, Str: s} }

// DateValue wraps a calendar date.
func DateValue(t time.Time) Value { return Value{Kind: KindDate, Date: t} }

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ClassifyLiteral classifies a raw literal token: the null keyword, then an
// integer, then a YYYY-MM-DD date, and any quoted remainder as a character
// literal with the grammar's quoting stripped.
func ClassifyLiteral(text string) Value {
	if strings.EqualFold(text, "null") {
		return Null
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return IntValue(i)
	}
	if datePattern.MatchString(text) {
		if t, err := time.Parse(dateLayout, text); err == nil {
			return DateValue(t)
		}
	}
	if len(text) >= 2 && strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'") {
		text = text[1 : len(text)-1]
	}
	return CharValue(text)
}

// Display renders the value the way result tables show it.
func (v Value) Display() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindChar:
		return v.Str
	case KindDate:
		return v.Date.Format(dateLayout)
	default:
		return "null"
	}
}

// ColumnType is a declared column type: the coarse kind plus the char
// length when the kind is char.
type ColumnType struct {
	Kind Kind
	Len  int
}

// String renders the type as declared, including the char length.
func (t ColumnType) String() string {
	if t.Kind == KindChar {
		return "char(" + strconv.Itoa(t.Len) + ")"
	}
	return t.Kind.String()
}

// ParseColumnType parses a declared type string from a stored document
// back into a ColumnType.
func ParseColumnType(s string) (ColumnType, bool) {
	switch {
	case s == "int":
		return ColumnType{Kind: KindInt}, true
	case s == "date":
		return ColumnType{Kind: KindDate}, true
	case strings.HasPrefix(s, "char(") && strings.HasSuffix(s, ")"):
		n, err := strconv.Atoi(s[5 : len(s)-1])
		if err != nil {
			return ColumnType{}, false
		}
		return ColumnType{Kind: KindChar, Len: n}, true
	default:
		return ColumnType{}, false
	}
}

// Truncate cuts a char value down to the declared length. Other kinds
// pass through unchanged.
func (t ColumnType) Truncate(v Value) Value {
	if t.Kind != KindChar || v.Kind != KindChar {
		return v
	}
	r := []rune(v.Str)
	if len(r) <= t.Len {
		return v
	}
	return CharValue(string(r[:t.Len]))
}

// SerializeValue converts a value into its stored document form: dates
// become ISO strings, everything else is stored as-is.
func SerializeValue(v Value) any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindChar:
		return v.Str
	case KindDate:
		return v.Date.Format(dateLayout)
	default:
		return nil
	}
}

// DeserializeValue converts a stored document value back into a Value,
// driven by the declared column type. JSON numbers arrive as json.Number.
func DeserializeValue(raw any, t ColumnType) (Value, bool) {
	if raw == nil {
		return Null, true
	}
	switch t.Kind {
	case KindInt:
		switch n := raw.(type) {
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return Null, false
			}
			return IntValue(i), true
		case int64:
			return IntValue(n), true
		case float64:
			return IntValue(int64(n)), true
		}
	case KindChar:
		if s, ok := raw.(string); ok {
			return CharValue(s), true
		}
	case KindDate:
		if s, ok := raw.(string); ok {
			d, err := time.Parse(dateLayout, s)
			if err != nil {
				return Null, false
			}
			return DateValue(d), true
		}
	}
	return Null, false
}
