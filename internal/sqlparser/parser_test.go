package sqlparser

import "testing"

func mustParse(t *testing.T, statement string) *Command {
	t.Helper()
	cmd, err := Parse(statement)
	if err != nil {
		t.Fatalf("parse failed for %q: %v", statement, err)
	}
	return cmd
}

func TestParseCreateTable(t *testing.T) {
	cmd := mustParse(t, "CREATE TABLE account (id INT NOT NULL, name CHAR(10), opened DATE, PRIMARY KEY (id), FOREIGN KEY (name) REFERENCES owners (name));")
	ct := cmd.CreateTable
	if ct == nil {
		t.Fatal("expected a CREATE TABLE node")
	}
	if ct.Name != "account" || len(ct.Elems) != 5 {
		t.Fatalf("name = %q, elems = %d", ct.Name, len(ct.Elems))
	}
	id := ct.Elems[0].Column
	if id == nil || id.Name != "id" || !id.Type.Int || !id.NotNull {
		t.Fatalf("first column parsed as %+v", ct.Elems[0])
	}
	name := ct.Elems[1].Column
	if name == nil || name.Type.CharLen == nil || *name.Type.CharLen != 10 || name.NotNull {
		t.Fatalf("second column parsed as %+v", ct.Elems[1])
	}
	if opened := ct.Elems[2].Column; opened == nil || !opened.Type.Date {
		t.Fatalf("third column parsed as %+v", ct.Elems[2])
	}
	if pk := ct.Elems[3].Primary; pk == nil || len(pk.Columns) != 1 || pk.Columns[0] != "id" {
		t.Fatalf("primary key parsed as %+v", ct.Elems[3])
	}
	fk := ct.Elems[4].Foreign
	if fk == nil || fk.RefTable != "owners" || len(fk.Columns) != 1 || len(fk.RefColumns) != 1 {
		t.Fatalf("foreign key parsed as %+v", ct.Elems[4])
	}
}

func TestParseCaseInsensitiveKeywords(t *testing.T) {
	cmd := mustParse(t, "create table T (A int);")
	if cmd.CreateTable == nil || cmd.CreateTable.Name != "T" {
		t.Fatalf("parsed as %+v", cmd)
	}
	// Identifier case is preserved; lowering is the engine's concern.
	if cmd.CreateTable.Elems[0].Column.Name != "A" {
		t.Fatalf("column name = %q", cmd.CreateTable.Elems[0].Column.Name)
	}
}

func TestParseInsert(t *testing.T) {
	cmd := mustParse(t, "INSERT INTO t (a, b, c, d) VALUES (14, 'text', 2021-03-04, null);")
	ins := cmd.Insert
	if ins == nil || len(ins.Cols) != 4 || len(ins.Values) != 4 {
		t.Fatalf("parsed as %+v", cmd)
	}
	if ins.Values[0].Int == nil || *ins.Values[0].Int != 14 {
		t.Fatalf("int literal parsed as %+v", ins.Values[0])
	}
	if ins.Values[1].Str == nil || ins.Values[1].Text() != "text" {
		t.Fatalf("string literal parsed as %+v", ins.Values[1])
	}
	if ins.Values[2].Date == nil || *ins.Values[2].Date != "2021-03-04" {
		t.Fatalf("date literal parsed as %+v", ins.Values[2])
	}
	if !ins.Values[3].Null {
		t.Fatalf("null literal parsed as %+v", ins.Values[3])
	}

	cmd = mustParse(t, "INSERT INTO t VALUES (1);")
	if cmd.Insert.Cols != nil {
		t.Fatalf("absent column list should parse as nil, got %v", cmd.Insert.Cols)
	}
}

func TestParseSelect(t *testing.T) {
	cmd := mustParse(t, "SELECT a.x AS left, y FROM t AS a, u WHERE a.x = 1 AND NOT y IS NULL OR y > 2000-01-01;")
	sel := cmd.Select
	if sel == nil || sel.Star {
		t.Fatalf("parsed as %+v", cmd)
	}
	if len(sel.Projs) != 2 || sel.Projs[0].Alias == nil || *sel.Projs[0].Alias != "left" {
		t.Fatalf("projections parsed as %+v", sel.Projs)
	}
	if sel.Projs[0].Table == nil || *sel.Projs[0].Table != "a" || sel.Projs[1].Table != nil {
		t.Fatalf("qualification parsed as %+v", sel.Projs)
	}
	if len(sel.From) != 2 || sel.From[0].Alias == nil || sel.From[1].Alias != nil {
		t.Fatalf("from list parsed as %+v", sel.From)
	}

	// OR joins two terms; the first term carries both AND-ed factors.
	if len(sel.Where.Terms) != 2 {
		t.Fatalf("or terms = %d", len(sel.Where.Terms))
	}
	first := sel.Where.Terms[0]
	if len(first.Factors) != 2 {
		t.Fatalf("and factors = %d", len(first.Factors))
	}
	if !first.Factors[1].Not || first.Factors[1].Test.Predicate.NullCheck == nil {
		t.Fatalf("negated null check parsed as %+v", first.Factors[1])
	}
}

func TestParseSelectStar(t *testing.T) {
	cmd := mustParse(t, "SELECT * FROM t;")
	if cmd.Select == nil || !cmd.Select.Star || cmd.Select.Projs != nil {
		t.Fatalf("parsed as %+v", cmd)
	}
}

func TestParseParenthesizedCondition(t *testing.T) {
	cmd := mustParse(t, "DELETE FROM t WHERE NOT (a = 1 OR b = 2);")
	factor := cmd.Delete.Where.Terms[0].Factors[0]
	if !factor.Not || factor.Test.Paren == nil {
		t.Fatalf("parsed as %+v", factor)
	}
	if len(factor.Test.Paren.Terms) != 2 {
		t.Fatalf("inner or terms = %d", len(factor.Test.Paren.Terms))
	}
}

func TestParseStatementKinds(t *testing.T) {
	cases := []struct {
		statement string
		check     func(*Command) bool
	}{
		{"DROP TABLE t;", func(c *Command) bool { return c.DropTable != nil && c.DropTable.Name == "t" }},
		{"EXPLAIN t;", func(c *Command) bool { return c.Explain != nil }},
		{"DESCRIBE t;", func(c *Command) bool { return c.Explain != nil }},
		{"DESC t;", func(c *Command) bool { return c.Explain != nil }},
		{"SHOW TABLES;", func(c *Command) bool { return c.ShowTables != nil }},
		{"DELETE FROM t;", func(c *Command) bool { return c.Delete != nil && c.Delete.Where == nil }},
		{"UPDATE t SET a = 1, b = 'x' WHERE a = 2;", func(c *Command) bool { return c.Update != nil && len(c.Update.Sets) == 2 }},
		{"EXIT;", func(c *Command) bool { return c.Exit != nil }},
	}
	for _, tc := range cases {
		if cmd := mustParse(t, tc.statement); !tc.check(cmd) {
			t.Fatalf("%q parsed as %+v", tc.statement, cmd)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"",
		"CREATE TABLE t (a INT)",  // missing terminator
		"CREATE TABLE (a INT);",   // missing name
		"CREATE TABLE t ();",      // empty element list
		"SELECT FROM t;",          // empty projection
		"INSERT INTO t VALUES;",   // missing value list
		"DELETE t;",               // missing FROM
		"SELECT * FROM t WHERE;",  // empty condition
		"SELECT * FROM t WHERE a == 1;",
		"garbage;",
	}
	for _, statement := range cases {
		if _, err := Parse(statement); err == nil {
			t.Fatalf("expected parse error for %q", statement)
		}
	}
}
