package engine

import (
	"strings"
	"unicode/utf8"
)

// Rendering follows the session's fixed conventions: SELECT results use a
// bordered grid, EXPLAIN/DESCRIBE/DESC and SHOW TABLES use plain dashed
// frames, and every cell carries two columns of padding.

const widthPadding = 2

const minListWidth = 20

// pad left-justifies s into width display columns.
func pad(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// renderSelect renders the bordered result grid. headers carries the
// display name of each projection (alias or resolved name); exprs the
// resolved qualified column of each projection; rows the filtered joined
// rows. An empty result renders the header block alone.
func renderSelect(headers []string, exprs []string, rows []map[string]Value) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h) + widthPadding
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		line := make([]string, len(exprs))
		for i, expr := range exprs {
			text := row[expr].Display()
			if w := utf8.RuneCountInString(text) + widthPadding; w > widths[i] {
				widths[i] = w
			}
			line[i] = text
		}
		cells[r] = line
	}

	var divider strings.Builder
	divider.WriteByte('+')
	for _, w := range widths {
		divider.WriteString(strings.Repeat("-", w))
		divider.WriteByte('+')
	}
	div := divider.String()

	var b strings.Builder
	writeGridRow := func(texts []string) {
		b.WriteByte('|')
		for i, text := range texts {
			b.WriteString(pad(" "+text, widths[i]))
			b.WriteByte('|')
		}
		b.WriteByte('\n')
	}
	b.WriteString(div)
	b.WriteByte('\n')
	writeGridRow(headers)
	b.WriteString(div)
	b.WriteByte('\n')
	if len(cells) > 0 {
		for _, line := range cells {
			writeGridRow(line)
		}
		b.WriteString(div)
		b.WriteByte('\n')
	}
	return b.String()
}

// renderDescribe renders the dashed schema frame for EXPLAIN/DESCRIBE/
// DESC: per column its name, declared type, nullability flag and key
// marker (PRI, FOR, PRI/FOR or empty).
func renderDescribe(t *Table) string {
	headers := []string{"column_name", "type", "null", "key"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h) + widthPadding
	}
	rows := make([][]string, len(t.Columns))
	for r, col := range t.Columns {
		line := []string{col.Name, col.Type.String(), nullDisplay(col), keyDisplay(col)}
		for i, text := range line {
			if w := utf8.RuneCountInString(text) + widthPadding; w > widths[i] {
				widths[i] = w
			}
		}
		rows[r] = line
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	div := strings.Repeat("-", total)

	var b strings.Builder
	writeRow := func(texts []string) {
		for i, text := range texts {
			b.WriteString(pad(text, widths[i]))
		}
		b.WriteByte('\n')
	}
	b.WriteString(div)
	b.WriteByte('\n')
	b.WriteString("table_name [" + t.Name + "]\n")
	writeRow(headers)
	for _, line := range rows {
		writeRow(line)
	}
	b.WriteString(div)
	b.WriteByte('\n')
	return b.String()
}

// renderTableList renders the SHOW TABLES frame: one name per line inside
// dashed lines at least minListWidth wide.
func renderTableList(names []string) string {
	width := minListWidth
	for _, n := range names {
		if w := utf8.RuneCountInString(n); w > width {
			width = w
		}
	}
	div := strings.Repeat("-", width)

	var b strings.Builder
	b.WriteString(div)
	b.WriteByte('\n')
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	b.WriteString(div)
	b.WriteByte('\n')
	return b.String()
}

func nullDisplay(col Column) string {
	if col.Nullable {
		return "Y"
	}
	return "N"
}

func keyDisplay(col Column) string {
	switch {
	case col.Primary && col.Foreign != nil:
		return "PRI/FOR"
	case col.Primary:
		return "PRI"
	case col.Foreign != nil:
		return "FOR"
	default:
		return ""
	}
}
