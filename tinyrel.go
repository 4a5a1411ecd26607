// Package tinyrel provides a small single-user relational database.
//
// tinyrel covers a compact SQL subset: CREATE TABLE with primary and
// foreign keys, DROP TABLE, INSERT, DELETE, SELECT with cartesian joins
// and aliases, EXPLAIN/DESCRIBE/DESC, SHOW TABLES and EXIT. Values are
// typed int, char(n) or date, comparisons follow three-valued logic, and
// every table persists as one JSON document in a sqlite-backed store.
//
// # Basic Usage
//
// Open a database, execute statements, and read the rendered results:
//
//	db, _ := tinyrel.Open("mydb.db")
//	defer db.Close()
//
//	res, _ := db.Exec("CREATE TABLE users (id INT, name CHAR(10), PRIMARY KEY (id));")
//	fmt.Println(res.Message) // 'users' table is created
//
//	db.Exec("INSERT INTO users VALUES (1, 'alice');")
//	res, _ = db.Exec("SELECT * FROM users WHERE id = 1;")
//	fmt.Print(res.Table)
//
// # Interactive Sessions
//
// Run the statement loop over any reader/writer pair:
//
//	db.Session("db", os.Stdout).Run(os.Stdin)
//
// Semantic failures come back as *tinyrel.Error with one of the fixed
// messages; statements that fail leave every table untouched.
package tinyrel

import (
	"io"

	"github.com/tinyrel/tinyrel/internal/engine"
	"github.com/tinyrel/tinyrel/internal/session"
	"github.com/tinyrel/tinyrel/internal/sqlparser"
	"github.com/tinyrel/tinyrel/internal/storage"
)

// Result is the outcome of one executed statement.
type Result = engine.Result

// Error is a semantic execution error with its fixed message.
type Error = engine.Error

// DB is one open database: a document store plus the executor over it.
type DB struct {
	store storage.Store
	exec  *engine.Executor
}

// Open opens (or creates) a durable database at path.
func Open(path string) (*DB, error) {
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return &DB{store: store, exec: engine.NewExecutor(store)}, nil
}

// OpenMemory opens an in-memory database that vanishes on Close.
func OpenMemory() *DB {
	store := storage.NewMemoryStore()
	return &DB{store: store, exec: engine.NewExecutor(store)}
}

// Close releases the underlying store.
func (db *DB) Close() error { return db.store.Close() }

// Exec parses and executes one terminated statement.
func (db *DB) Exec(statement string) (*Result, error) {
	cmd, err := sqlparser.Parse(statement)
	if err != nil {
		return nil, err
	}
	return db.exec.Execute(cmd)
}

// Session creates an interactive statement loop over this database.
func (db *DB) Session(prompt string, out io.Writer) *session.Session {
	return session.New(db.exec, prompt, out)
}
