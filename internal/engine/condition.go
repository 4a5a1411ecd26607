package engine

import (
	"strings"

	"github.com/tinyrel/tinyrel/internal/sqlparser"
)

// Tri is a three-valued boolean: comparisons against null evaluate to
// TriUnknown, and Unknown propagates through NOT/AND/OR the SQL way.
// Only TriTrue passes a filter.
type Tri int

const (
	TriFalse Tri = iota
	TriTrue
	TriUnknown
)

func triNot(t Tri) Tri {
	switch t {
	case TriTrue:
		return TriFalse
	case TriFalse:
		return TriTrue
	default:
		return TriUnknown
	}
}

func triAnd(a, b Tri) Tri {
	if a == TriFalse || b == TriFalse {
		return TriFalse
	}
	if a == TriUnknown || b == TriUnknown {
		return TriUnknown
	}
	return TriTrue
}

func triOr(a, b Tri) Tri {
	if a == TriTrue || b == TriTrue {
		return TriTrue
	}
	if a == TriUnknown || b == TriUnknown {
		return TriUnknown
	}
	return TriFalse
}

// Condition is the closed condition AST lowered from the grammar's
// boolean-expression subtree. The six comparison operators and four
// connectives are all there is; evaluation switches exhaustively.
type Condition interface{ cond() }

// Comparison compares two operands with =, !=, <, >, <= or >=.
type Comparison struct {
	Op    string
	Left  CondOperand
	Right CondOperand
}

// NullCheck is column IS [NOT] NULL.
type NullCheck struct {
	Operand CondOperand
	Negated bool
}

// And is the conjunction of two conditions.
type And struct{ Left, Right Condition }

// Or is the disjunction of two conditions.
type Or struct{ Left, Right Condition }

// Not negates a condition.
type Not struct{ Inner Condition }

func (*Comparison) cond() {}
func (*NullCheck) cond()  {}
func (*And) cond()        {}
func (*Or) cond()         {}
func (*Not) cond()        {}

// CondOperand is either a literal value or a column reference. Column
// holds the lowercased name, table-qualified when the reference carried a
// qualifier; validation rewrites it to its resolved qualified form.
type CondOperand struct {
	IsColumn bool
	Column   string
	Value    Value
}

// lowerCondition flattens the grammar's precedence chain into the closed
// AST. Single-child chain nodes pass through unchanged; multi-child OR and
// AND levels fold left into binary nodes.
func lowerCondition(expr *sqlparser.BooleanExpr) Condition {
	node := lowerTerm(expr.Terms[0])
	for _, term := range expr.Terms[1:] {
		node = &Or{Left: node, Right: lowerTerm(term)}
	}
	return node
}

func lowerTerm(term *sqlparser.BooleanTerm) Condition {
	node := lowerFactor(term.Factors[0])
	for _, f := range term.Factors[1:] {
		node = &And{Left: node, Right: lowerFactor(f)}
	}
	return node
}

func lowerFactor(f *sqlparser.BooleanFactor) Condition {
	var node Condition
	if f.Test.Paren != nil {
		node = lowerCondition(f.Test.Paren)
	} else {
		node = lowerPredicate(f.Test.Predicate)
	}
	if f.Not {
		node = &Not{Inner: node}
	}
	return node
}

func lowerPredicate(p *sqlparser.Predicate) Condition {
	if p.NullCheck != nil {
		return &NullCheck{
			Operand: columnOperand(&p.NullCheck.Ref),
			Negated: p.NullCheck.Not,
		}
	}
	cmp := p.Comparison
	return &Comparison{
		Op:    cmp.Op,
		Left:  lowerOperand(&cmp.Left),
		Right: lowerOperand(&cmp.Right),
	}
}

func lowerOperand(o *sqlparser.Operand) CondOperand {
	if o.Value != nil {
		return CondOperand{Value: valueFromLiteral(o.Value)}
	}
	return columnOperand(o.Ref)
}

func columnOperand(ref *sqlparser.ColumnRef) CondOperand {
	name := strings.ToLower(ref.Column)
	if ref.Table != nil {
		name = strings.ToLower(*ref.Table) + "." + name
	}
	return CondOperand{IsColumn: true, Column: name}
}

func valueFromLiteral(l *sqlparser.Literal) Value {
	switch {
	case l.Null:
		return Null
	case l.Int != nil:
		return IntValue(*l.Int)
	case l.Date != nil:
		return ClassifyLiteral(*l.Date)
	default:
		return CharValue(l.Text())
	}
}

// condContext supplies the name-resolution metadata a condition is
// validated against: the columns of every bound table, the owners of each
// bare column name (in binding order) and the coarse kind of every
// qualified column.
type condContext struct {
	tableCols map[string][]string
	colOwners map[string][]string
	colKinds  map[string]Kind
}

func newCondContext() *condContext {
	return &condContext{
		tableCols: map[string][]string{},
		colOwners: map[string][]string{},
		colKinds:  map[string]Kind{},
	}
}

// bind registers a table's columns under its effective (aliased) name.
func (ctx *condContext) bind(table string, cols []Column) {
	for _, col := range cols {
		ctx.tableCols[table] = append(ctx.tableCols[table], col.Name)
		ctx.colOwners[col.Name] = append(ctx.colOwners[col.Name], table)
		ctx.colKinds[table+"."+col.Name] = col.Type.Kind
	}
}

// resolveColumn resolves a qualified or bare reference to its qualified
// name. Qualified references fail on unknown tables or columns; bare
// references fail when no bound table has the column, or when more than
// one does.
func (ctx *condContext) resolveColumn(name string) (string, error) {
	if table, col, ok := strings.Cut(name, "."); ok {
		cols, bound := ctx.tableCols[table]
		if !bound {
			return "", errKind(ErrWhereTableNotSpecified)
		}
		for _, c := range cols {
			if c == col {
				return name, nil
			}
		}
		return "", errKind(ErrWhereColumnNotExist)
	}
	owners := ctx.colOwners[name]
	if len(owners) == 0 {
		return "", errKind(ErrWhereColumnNotExist)
	}
	if len(owners) > 1 {
		return "", errKind(ErrWhereAmbiguousReference)
	}
	return owners[0] + "." + name, nil
}

// validateCondition checks column resolution and operand type
// compatibility, rewriting every column operand to its resolved qualified
// name so evaluation can look values up directly.
func validateCondition(c Condition, ctx *condContext) error {
	switch n := c.(type) {
	case *Comparison:
		lk, err := resolveOperand(&n.Left, ctx)
		if err != nil {
			return err
		}
		rk, err := resolveOperand(&n.Right, ctx)
		if err != nil {
			return err
		}
		// Null literals have no comparison domain, mixed kinds never
		// compare, and char knows only equality.
		if lk == KindNull || rk == KindNull {
			return errKind(ErrWhereIncomparable)
		}
		if lk != rk {
			return errKind(ErrWhereIncomparable)
		}
		if lk == KindChar && n.Op != "=" && n.Op != "!=" {
			return errKind(ErrWhereIncomparable)
		}
		return nil
	case *NullCheck:
		_, err := resolveOperand(&n.Operand, ctx)
		return err
	case *And:
		if err := validateCondition(n.Left, ctx); err != nil {
			return err
		}
		return validateCondition(n.Right, ctx)
	case *Or:
		if err := validateCondition(n.Left, ctx); err != nil {
			return err
		}
		return validateCondition(n.Right, ctx)
	case *Not:
		return validateCondition(n.Inner, ctx)
	}
	return errKind(ErrEtc)
}

func resolveOperand(o *CondOperand, ctx *condContext) (Kind, error) {
	if !o.IsColumn {
		return o.Value.Kind, nil
	}
	resolved, err := ctx.resolveColumn(o.Column)
	if err != nil {
		return KindNull, err
	}
	o.Column = resolved
	return ctx.colKinds[resolved], nil
}

// evaluateCondition evaluates a validated condition against one row's
// bindings (resolved qualified column name to value).
func evaluateCondition(c Condition, bindings map[string]Value) Tri {
	switch n := c.(type) {
	case *Comparison:
		left := operandValue(&n.Left, bindings)
		right := operandValue(&n.Right, bindings)
		if left.Kind == KindNull || right.Kind == KindNull {
			return TriUnknown
		}
		if compareValues(n.Op, left, right) {
			return TriTrue
		}
		return TriFalse
	case *NullCheck:
		isNull := operandValue(&n.Operand, bindings).Kind == KindNull
		if isNull != n.Negated {
			return TriTrue
		}
		return TriFalse
	case *And:
		return triAnd(evaluateCondition(n.Left, bindings), evaluateCondition(n.Right, bindings))
	case *Or:
		return triOr(evaluateCondition(n.Left, bindings), evaluateCondition(n.Right, bindings))
	case *Not:
		return triNot(evaluateCondition(n.Inner, bindings))
	}
	return TriUnknown
}

func operandValue(o *CondOperand, bindings map[string]Value) Value {
	if o.IsColumn {
		return bindings[o.Column]
	}
	return o.Value
}

// compareValues applies op to two non-null values of the same coarse kind.
// Validation has already ruled out char ordering.
func compareValues(op string, a, b Value) bool {
	var cmp int
	switch a.Kind {
	case KindInt:
		switch {
		case a.Int < b.Int:
			cmp = -1
		case a.Int > b.Int:
			cmp = 1
		}
	case KindDate:
		switch {
		case a.Date.Before(b.Date):
			cmp = -1
		case a.Date.After(b.Date):
			cmp = 1
		}
	default:
		if a.Str != b.Str {
			cmp = 1
		}
	}
	switch op {
	case "=":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	default:
		return cmp >= 0
	}
}
