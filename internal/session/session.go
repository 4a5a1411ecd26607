// Package session implements the interactive statement loop.
//
// What: A Session reads raw SQL input, batches it on the statement
// terminator, runs each statement through the executor and prints the
// results under a fixed prompt label.
// How: Lines accumulate until one ends with ';'. The accumulated batch is
// split back into individual statements, each parsed and executed in
// order. A parse failure prints a generic syntax-error line and discards
// the rest of the batch; a semantic failure prints its message and the
// batch continues. Tabular results print verbatim, status messages print
// prompt-prefixed.
// Why: Keeping the batching and reporting rules here leaves the executor
// free of any I/O concern, so the same executor serves the terminal, the
// server and the tests.
package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tinyrel/tinyrel/internal/engine"
	"github.com/tinyrel/tinyrel/internal/sqlparser"
)

// Session drives one statement loop over an executor.
type Session struct {
	exec        *engine.Executor
	prompt      string
	out         io.Writer
	interactive bool
}

// New creates a session writing its results to out under the given prompt
// label.
func New(exec *engine.Executor, prompt string, out io.Writer) *Session {
	return &Session{exec: exec, prompt: prompt, out: out}
}

// SetInteractive controls whether the session prints an input prompt
// before reading. Piped input stays clean with it off.
func (s *Session) SetInteractive(on bool) { s.interactive = on }

// Run reads batches from in until EOF or an EXIT statement.
func (s *Session) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 1024), 1024*1024)

	var buf strings.Builder
	for {
		if s.interactive {
			if buf.Len() == 0 {
				fmt.Fprintf(s.out, "%s> ", s.prompt)
			} else {
				fmt.Fprint(s.out, "   ... ")
			}
		}
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			continue
		}

		exit := s.RunBatch(buf.String())
		buf.Reset()
		if exit {
			return nil
		}
	}
}

// RunBatch splits one terminated input batch into statements and executes
// them in order. It reports whether an EXIT statement was reached.
func (s *Session) RunBatch(input string) bool {
	for _, statement := range SplitStatements(input) {
		cmd, err := sqlparser.Parse(statement)
		if err != nil {
			// A syntax error discards the rest of the batch.
			s.status("Syntax error")
			return false
		}
		res, err := s.exec.Execute(cmd)
		if err != nil {
			s.status(err.Error())
			continue
		}
		if res.Message != "" {
			s.status(res.Message)
		}
		if res.Table != "" {
			fmt.Fprint(s.out, res.Table)
		}
		if res.Exit {
			return true
		}
	}
	return false
}

func (s *Session) status(msg string) {
	fmt.Fprintf(s.out, "%s> %s\n", s.prompt, msg)
}

// SplitStatements cuts a terminated batch back into individual statements,
// each carrying its own terminator. Text after the final terminator is
// dropped, matching the line-based batching rule.
func SplitStatements(input string) []string {
	var out []string
	for {
		i := strings.IndexByte(input, ';')
		if i < 0 {
			return out
		}
		statement := strings.TrimSpace(input[:i+1])
		if statement != ";" {
			out = append(out, statement)
		}
		input = input[i+1:]
	}
}
