package sqlparser

import (
	"github.com/alecthomas/participle/v2"
)

var parser = participle.MustBuild[Command](
	participle.Lexer(sqlLexer),
	participle.CaseInsensitive("Ident"),
	participle.Elide("whitespace"),
	// Qualified column references and the predicate alternatives need a
	// few tokens of lookahead (table '.' column IS ...).
	participle.UseLookahead(8),
)

// Parse parses one terminated statement into its syntax tree. The error,
// if any, is a pure syntax error; semantic validation happens downstream.
func Parse(statement string) (*Command, error) {
	return parser.ParseString("", statement)
}
