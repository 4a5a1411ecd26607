// Package sqlparser turns raw statement text into the syntax tree the
// engine consumes.
//
// What: A grammar-driven parser for the tinyrel SQL subset: CREATE TABLE,
// DROP TABLE, EXPLAIN/DESCRIBE/DESC, INSERT, DELETE, SELECT, SHOW TABLES,
// UPDATE and EXIT, including the boolean-expression precedence chain
// boolean_expr -> boolean_term -> boolean_factor -> predicate.
// How: The grammar is declared as participle struct tags over a small
// hand-tuned lexer. Each statement kind parses into its own node type;
// the engine dispatches on which pointer of Command is non-nil. The node
// shapes are a frozen contract with the engine: the parser never resolves
// names, types or semantics.
// Why: Declaring the grammar next to the node types keeps the tree shape
// and the text format in one place, and leaves every semantic decision
// (and therefore every semantic error) to the engine.
package sqlparser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

var sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "whitespace", Pattern: `\s+`},
	// Date must outrank Int: a date literal starts with digits.
	{Name: "Date", Pattern: `\d{4}-\d{2}-\d{2}`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "String", Pattern: `'[^']*'`},
	{Name: "Operator", Pattern: `!=|<=|>=|<|>|=`},
	{Name: "Punct", Pattern: `[(),.;*]`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
})

// Command is the root node: exactly one statement followed by its
// terminator.
type Command struct {
	CreateTable *CreateTable `parser:"( @@"`
	DropTable   *DropTable   `parser:"| @@"`
	Explain     *Explain     `parser:"| @@"`
	Insert      *Insert      `parser:"| @@"`
	Delete      *Delete      `parser:"| @@"`
	Select      *Select      `parser:"| @@"`
	ShowTables  *ShowTables  `parser:"| @@"`
	Update      *Update      `parser:"| @@"`
	Exit        *Exit        `parser:"| @@ )"`
	Terminated  bool         `parser:"@';'"`
}

// CreateTable is CREATE TABLE name ( element, ... ).
type CreateTable struct {
	Name  string      `parser:"'CREATE' 'TABLE' @Ident"`
	Elems []TableElem `parser:"'(' @@ (',' @@)* ')'"`
}

// TableElem is one parenthesized element of a CREATE TABLE statement:
// a column definition, a primary-key clause or a foreign-key clause.
type TableElem struct {
	Primary *PrimaryKeyDef `parser:"  @@"`
	Foreign *ForeignKeyDef `parser:"| @@"`
	Column  *ColumnDef     `parser:"| @@"`
}

// ColumnDef declares one column with its type and nullability.
type ColumnDef struct {
	Name    string   `parser:"@Ident"`
	Type    TypeSpec `parser:"@@"`
	NotNull bool     `parser:"(@'NOT' 'NULL')?"`
}

// TypeSpec is the declared column type. CharLen carries the raw length
// token for char(n); its validity (n >= 1) is the engine's call.
type TypeSpec struct {
	Int     bool `parser:"  @'INT'"`
	Date    bool `parser:"| @'DATE'"`
	CharLen *int `parser:"| 'CHAR' '(' @Int ')'"`
}

// PrimaryKeyDef is PRIMARY KEY (col, ...).
type PrimaryKeyDef struct {
	Columns []string `parser:"'PRIMARY' 'KEY' '(' @Ident (',' @Ident)* ')'"`
}

// ForeignKeyDef is FOREIGN KEY (col, ...) REFERENCES table (col, ...).
type ForeignKeyDef struct {
	Columns    []string `parser:"'FOREIGN' 'KEY' '(' @Ident (',' @Ident)* ')'"`
	RefTable   string   `parser:"'REFERENCES' @Ident"`
	RefColumns []string `parser:"'(' @Ident (',' @Ident)* ')'"`
}

// DropTable is DROP TABLE name.
type DropTable struct {
	Name string `parser:"'DROP' 'TABLE' @Ident"`
}

// Explain is EXPLAIN/DESCRIBE/DESC name; the three keywords are aliases.
type Explain struct {
	Keyword string `parser:"@('EXPLAIN' | 'DESCRIBE' | 'DESC')"`
	Table   string `parser:"@Ident"`
}

// Insert is INSERT INTO name [(col, ...)] VALUES (value, ...).
// An absent column list parses as a nil Cols slice.
type Insert struct {
	Table  string    `parser:"'INSERT' 'INTO' @Ident"`
	Cols   []string  `parser:"('(' @Ident (',' @Ident)* ')')?"`
	Values []Literal `parser:"'VALUES' '(' @@ (',' @@)* ')'"`
}

// Delete is DELETE FROM name [WHERE condition].
type Delete struct {
	Table string       `parser:"'DELETE' 'FROM' @Ident"`
	Where *BooleanExpr `parser:"('WHERE' @@)?"`
}

// Select is SELECT projs FROM tables [WHERE condition]. Star is true for
// SELECT *; otherwise Projs holds the explicit projection list.
type Select struct {
	Star  bool         `parser:"'SELECT' ( @'*'"`
	Projs []SelectItem `parser:"| @@ (',' @@)* )"`
	From  []TableRef   `parser:"'FROM' @@ (',' @@)*"`
	Where *BooleanExpr `parser:"('WHERE' @@)?"`
}

// SelectItem is one projection: a possibly qualified column reference
// with an optional display alias.
type SelectItem struct {
	Table  *string `parser:"(@Ident '.')?"`
	Column string  `parser:"@Ident"`
	Alias  *string `parser:"('AS' @Ident)?"`
}

// TableRef is one FROM entry: a table name with an optional alias.
type TableRef struct {
	Table string  `parser:"@Ident"`
	Alias *string `parser:"('AS' @Ident)?"`
}

// ShowTables is SHOW TABLES.
type ShowTables struct {
	Keyword bool `parser:"@'SHOW' 'TABLES'"`
}

// Update is UPDATE name SET col = value, ... [WHERE condition]. The
// statement parses but has no defined execution semantics.
type Update struct {
	Table string       `parser:"'UPDATE' @Ident"`
	Sets  []UpdateSet  `parser:"'SET' @@ (',' @@)*"`
	Where *BooleanExpr `parser:"('WHERE' @@)?"`
}

// UpdateSet is one col = value assignment of an UPDATE statement.
type UpdateSet struct {
	Column string  `parser:"@Ident"`
	Value  Literal `parser:"'=' @@"`
}

// Exit is EXIT.
type Exit struct {
	Keyword bool `parser:"@'EXIT'"`
}

// ------------------------------ conditions ------------------------------

// BooleanExpr is the outermost condition node: OR-joined terms. OR binds
// loosest, so it sits at the top of the chain.
type BooleanExpr struct {
	Terms []*BooleanTerm `parser:"@@ ('OR' @@)*"`
}

// BooleanTerm is AND-joined factors.
type BooleanTerm struct {
	Factors []*BooleanFactor `parser:"@@ ('AND' @@)*"`
}

// BooleanFactor is an optionally negated boolean test.
type BooleanFactor struct {
	Not  bool        `parser:"@'NOT'?"`
	Test BooleanTest `parser:"@@"`
}

// BooleanTest is either an atomic predicate or a parenthesized
// sub-expression.
type BooleanTest struct {
	Predicate *Predicate   `parser:"  @@"`
	Paren     *BooleanExpr `parser:"| '(' @@ ')'"`
}

// Predicate is an atomic condition: a binary comparison or a null check.
type Predicate struct {
	NullCheck  *NullPredicate       `parser:"  @@"`
	Comparison *ComparisonPredicate `parser:"| @@"`
}

// ComparisonPredicate compares two operands with =, !=, <, >, <= or >=.
type ComparisonPredicate struct {
	Left  Operand `parser:"@@"`
	Op    string  `parser:"@Operator"`
	Right Operand `parser:"@@"`
}

// NullPredicate is column IS [NOT] NULL.
type NullPredicate struct {
	Ref ColumnRef `parser:"@@"`
	Not bool      `parser:"'IS' @'NOT'? 'NULL'"`
}

// Operand is either a literal value or a column reference.
type Operand struct {
	Value *Literal   `parser:"  @@"`
	Ref   *ColumnRef `parser:"| @@"`
}

// ColumnRef is a bare or table-qualified column name.
type ColumnRef struct {
	Table  *string `parser:"(@Ident '.')?"`
	Column string  `parser:"@Ident"`
}

// Literal is a typed literal token: NULL, an integer, a date or a quoted
// character string.
type Literal struct {
	Null bool    `parser:"  @'NULL'"`
	Int  *int64  `parser:"| @Int"`
	Date *string `parser:"| @Date"`
	Str  *string `parser:"| @String"`
}

// Text returns the character payload of a string literal with the
// surrounding quotes stripped.
func (l *Literal) Text() string {
	if l.Str == nil {
		return ""
	}
	s := *l.Str
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return s[1 : len(s)-1]
	}
	return s
}
