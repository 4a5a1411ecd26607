package session

import (
	"strings"
	"testing"

	"github.com/tinyrel/tinyrel/internal/engine"
	"github.com/tinyrel/tinyrel/internal/storage"
)

func newTestSession(t *testing.T) (*Session, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	s := New(engine.NewExecutor(storage.NewMemoryStore()), "db", &out)
	return s, &out
}

func TestSplitStatements(t *testing.T) {
	got := SplitStatements("CREATE TABLE a (x INT); INSERT INTO a VALUES (1);")
	if len(got) != 2 || got[0] != "CREATE TABLE a (x INT);" || got[1] != "INSERT INTO a VALUES (1);" {
		t.Fatalf("SplitStatements = %q", got)
	}
	if got := SplitStatements("EXIT;"); len(got) != 1 || got[0] != "EXIT;" {
		t.Fatalf("single statement = %q", got)
	}
	if got := SplitStatements("   ;  ; "); got != nil {
		t.Fatalf("empty statements = %q", got)
	}
}

func TestRunBatch(t *testing.T) {
	s, out := newTestSession(t)
	s.RunBatch("CREATE TABLE a (x INT); INSERT INTO a VALUES (1);")
	want := "db> 'a' table is created\ndb> 1 row inserted\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestRunBatchSyntaxErrorAborts(t *testing.T) {
	s, out := newTestSession(t)
	s.RunBatch("CREATE TABLE a (x INT); garbage here; CREATE TABLE b (y INT);")
	got := out.String()
	if !strings.Contains(got, "db> Syntax error\n") {
		t.Fatalf("missing syntax error: %q", got)
	}
	// The statement after the syntax error must not run.
	if strings.Contains(got, "'b' table is created") {
		t.Fatalf("batch continued past syntax error: %q", got)
	}
}

func TestRunBatchSemanticErrorContinues(t *testing.T) {
	s, out := newTestSession(t)
	s.RunBatch("DROP TABLE ghost; CREATE TABLE a (x INT);")
	got := out.String()
	if !strings.Contains(got, "db> No such table\n") {
		t.Fatalf("missing error line: %q", got)
	}
	if !strings.Contains(got, "db> 'a' table is created\n") {
		t.Fatalf("batch stopped on semantic error: %q", got)
	}
}

func TestRunReadsMultiLineStatements(t *testing.T) {
	s, out := newTestSession(t)
	in := strings.NewReader("CREATE TABLE a\n(x INT);\nSELECT *\nFROM a;\nEXIT;\n")
	if err := s.Run(in); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "db> 'a' table is created\n") {
		t.Fatalf("multi-line statement not executed: %q", got)
	}
	if !strings.Contains(got, "| a.x |") {
		t.Fatalf("select result missing: %q", got)
	}
}

func TestRunStopsOnExit(t *testing.T) {
	s, out := newTestSession(t)
	in := strings.NewReader("EXIT;\nCREATE TABLE a (x INT);\n")
	if err := s.Run(in); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(out.String(), "table is created") {
		t.Fatalf("session kept running after exit: %q", out.String())
	}
}
