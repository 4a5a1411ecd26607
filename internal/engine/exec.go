package engine

import (
	"strconv"
	"strings"

	"github.com/tinyrel/tinyrel/internal/sqlparser"
	"github.com/tinyrel/tinyrel/internal/storage"
)

// Result is the outcome of one executed statement. Message is a one-line
// status the session prefixes with its prompt label; Table is a
// pre-rendered tabular block printed verbatim; Exit asks the session to
// terminate.
type Result struct {
	Message string
	Table   string
	Exit    bool
}

// Executor runs parsed statements against a catalog. Statements execute
// strictly one at a time; the executor keeps no state between them.
type Executor struct {
	catalog *Catalog
}

// NewExecutor creates an executor over the given document store.
func NewExecutor(store storage.Store) *Executor {
	return &Executor{catalog: NewCatalog(store)}
}

// Catalog exposes the executor's catalog, mainly for tests and tooling.
func (e *Executor) Catalog() *Catalog { return e.catalog }

// Execute dispatches one parsed statement by kind. Every semantic failure
// is an *Error from the closed taxonomy; validation always completes
// before any document is written, so a failing statement changes nothing.
func (e *Executor) Execute(cmd *sqlparser.Command) (*Result, error) {
	switch {
	case cmd.CreateTable != nil:
		return e.executeCreateTable(cmd.CreateTable)
	case cmd.DropTable != nil:
		return e.executeDropTable(cmd.DropTable)
	case cmd.Explain != nil:
		return e.executeExplain(cmd.Explain)
	case cmd.Insert != nil:
		return e.executeInsert(cmd.Insert)
	case cmd.Delete != nil:
		return e.executeDelete(cmd.Delete)
	case cmd.Select != nil:
		return e.executeSelect(cmd.Select)
	case cmd.ShowTables != nil:
		return e.executeShowTables()
	case cmd.Update != nil:
		// UPDATE parses but has no defined execution semantics.
		return &Result{}, nil
	case cmd.Exit != nil:
		return &Result{Exit: true}, nil
	}
	return nil, errKind(ErrEtc)
}

func (e *Executor) executeCreateTable(stmt *sqlparser.CreateTable) (*Result, error) {
	name, err := e.catalog.Create(stmt)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "'" + name + "' table is created"}, nil
}

func (e *Executor) executeDropTable(stmt *sqlparser.DropTable) (*Result, error) {
	name := strings.ToLower(stmt.Name)
	if err := e.catalog.Drop(name); err != nil {
		return nil, err
	}
	return &Result{Message: "'" + name + "' table is dropped"}, nil
}

func (e *Executor) executeExplain(stmt *sqlparser.Explain) (*Result, error) {
	t, err := e.catalog.Describe(strings.ToLower(stmt.Table))
	if err != nil {
		return nil, err
	}
	return &Result{Table: renderDescribe(t)}, nil
}

func (e *Executor) executeShowTables() (*Result, error) {
	names, err := e.catalog.TableNames()
	if err != nil {
		return nil, err
	}
	return &Result{Table: renderTableList(names)}, nil
}

func (e *Executor) executeInsert(stmt *sqlparser.Insert) (*Result, error) {
	name := strings.ToLower(stmt.Table)
	ok, err := e.catalog.Exists(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errKind(ErrNoSuchTable)
	}
	t, err := e.catalog.Load(name)
	if err != nil {
		return nil, err
	}

	// The target column list: explicit (validated for existence and
	// duplicates) or the full schema in declaration order.
	var targets []string
	if len(stmt.Cols) == 0 {
		for _, col := range t.Columns {
			targets = append(targets, col.Name)
		}
	} else {
		targets = lowerAll(stmt.Cols)
		for _, col := range targets {
			if t.colIndex(col) < 0 {
				return nil, errNamed(ErrInsertColumnExistence, col)
			}
		}
		if hasDuplicate(targets) {
			return nil, errKind(ErrEtc)
		}
	}
	if len(targets) != len(stmt.Values) {
		return nil, errKind(ErrInsertTypeMismatch)
	}

	row := make([]Value, len(t.Columns))
	for i, col := range t.Columns {
		// Columns outside the target list get the null literal.
		v := Null
		for j, target := range targets {
			if target == col.Name {
				v = valueFromLiteral(&stmt.Values[j])
				break
			}
		}
		if v.Kind == KindNull {
			if !col.Nullable {
				return nil, errNamed(ErrInsertColumnNonNullable, col.Name)
			}
		} else if v.Kind != col.Type.Kind {
			return nil, errKind(ErrInsertTypeMismatch)
		}
		row[i] = col.Type.Truncate(v)
	}

	t.Rows = append(t.Rows, row)
	if err := e.catalog.Save(t); err != nil {
		return nil, err
	}
	return &Result{Message: "1 row inserted"}, nil
}

func (e *Executor) executeDelete(stmt *sqlparser.Delete) (*Result, error) {
	name := strings.ToLower(stmt.Table)
	ok, err := e.catalog.Exists(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errKind(ErrNoSuchTable)
	}
	t, err := e.catalog.Load(name)
	if err != nil {
		return nil, err
	}

	before := len(t.Rows)
	if stmt.Where == nil {
		t.Rows = nil
	} else {
		ctx := newCondContext()
		ctx.bind(name, t.Columns)
		cond := lowerCondition(stmt.Where)
		if err := validateCondition(cond, ctx); err != nil {
			return nil, err
		}
		// A row is deleted only when the condition evaluates True;
		// False and Unknown both keep it.
		var kept [][]Value
		for _, row := range t.Rows {
			bindings := make(map[string]Value, len(t.Columns))
			for j, col := range t.Columns {
				bindings[name+"."+col.Name] = row[j]
			}
			if evaluateCondition(cond, bindings) != TriTrue {
				kept = append(kept, row)
			}
		}
		t.Rows = kept
	}

	if err := e.catalog.Save(t); err != nil {
		return nil, err
	}
	return &Result{Message: strconv.Itoa(before-len(t.Rows)) + " row(s) deleted"}, nil
}

func (e *Executor) executeSelect(stmt *sqlparser.Select) (*Result, error) {
	names, err := e.catalog.TableNames()
	if err != nil {
		return nil, err
	}
	stored := map[string]bool{}
	for _, n := range names {
		stored[n] = true
	}

	// Bind each referenced table under its effective name and preprocess
	// its records into qualified-name bindings.
	ctx := newCondContext()
	bound := map[string]bool{}
	var colOrder []string
	var perTable [][]map[string]Value
	for _, ref := range stmt.From {
		tname := strings.ToLower(ref.Table)
		if !stored[tname] {
			return nil, errNamed(ErrSelectTableExistence, tname)
		}
		t, err := e.catalog.Load(tname)
		if err != nil {
			return nil, err
		}
		eff := tname
		if ref.Alias != nil {
			eff = strings.ToLower(*ref.Alias)
		}
		if bound[eff] {
			return nil, errKind(ErrEtc)
		}
		bound[eff] = true
		ctx.bind(eff, t.Columns)
		for _, col := range t.Columns {
			colOrder = append(colOrder, eff+"."+col.Name)
		}
		recs := make([]map[string]Value, len(t.Rows))
		for i, row := range t.Rows {
			rec := make(map[string]Value, len(t.Columns))
			for j, col := range t.Columns {
				rec[eff+"."+col.Name] = row[j]
			}
			recs[i] = rec
		}
		perTable = append(perTable, recs)
	}

	// Cartesian product across the referenced tables, first table varying
	// slowest.
	merged := []map[string]Value{{}}
	for _, recs := range perTable {
		next := make([]map[string]Value, 0, len(merged)*len(recs))
		for _, left := range merged {
			for _, rec := range recs {
				joined := make(map[string]Value, len(left)+len(rec))
				for k, v := range left {
					joined[k] = v
				}
				for k, v := range rec {
					joined[k] = v
				}
				next = append(next, joined)
			}
		}
		merged = next
	}

	if stmt.Where != nil {
		cond := lowerCondition(stmt.Where)
		if err := validateCondition(cond, ctx); err != nil {
			return nil, err
		}
		var kept []map[string]Value
		for _, row := range merged {
			if evaluateCondition(cond, row) == TriTrue {
				kept = append(kept, row)
			}
		}
		merged = kept
	}

	// Projection: * expands to all joined columns in table-then-
	// declaration order; explicit items resolve like WHERE references.
	exprs := colOrder
	headers := colOrder
	if !stmt.Star {
		exprs = nil
		headers = nil
		for i := range stmt.Projs {
			item := &stmt.Projs[i]
			resolved, err := resolveProjection(item, ctx)
			if err != nil {
				return nil, err
			}
			header := resolved
			if item.Alias != nil {
				header = strings.ToLower(*item.Alias)
			}
			exprs = append(exprs, resolved)
			headers = append(headers, header)
		}
	}

	return &Result{Table: renderSelect(headers, exprs, merged)}, nil
}

// resolveProjection resolves one projection item to its qualified column
// name, applying the same bare/qualified rules as WHERE references but
// reporting failures as selection errors naming the reference as written.
func resolveProjection(item *sqlparser.SelectItem, ctx *condContext) (string, error) {
	col := strings.ToLower(item.Column)
	if item.Table != nil {
		table := strings.ToLower(*item.Table)
		written := table + "." + col
		cols, bound := ctx.tableCols[table]
		if !bound {
			return "", errNamed(ErrSelectColumnResolve, written)
		}
		for _, c := range cols {
			if c == col {
				return written, nil
			}
		}
		return "", errNamed(ErrSelectColumnResolve, written)
	}
	owners := ctx.colOwners[col]
	if len(owners) != 1 {
		return "", errNamed(ErrSelectColumnResolve, col)
	}
	return owners[0] + "." + col, nil
}
