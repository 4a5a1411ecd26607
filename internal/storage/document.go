package storage

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// TableDoc is the on-disk shape of one table: its column metadata and all
// of its records. The field layout is part of the storage contract; the
// documents are meant to stay human-diffable JSON.
type TableDoc struct {
	Columns []ColumnDoc      `json:"columns"`
	Records []map[string]any `json:"records"`
}

// ColumnDoc describes one column inside a stored table document. Type holds
// the declared SQL type verbatim (e.g. "char(5)"), Null is the declared
// nullability and Foreign the referenced primary-key column, if any.
type ColumnDoc struct {
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Null    bool        `json:"null"`
	Primary bool        `json:"primary"`
	Foreign *ForeignDoc `json:"foreign"`
}

// ForeignDoc names the column a foreign-key column points at.
type ForeignDoc struct {
	TableName  string `json:"table_name"`
	ColumnName string `json:"column_name"`
}

// EncodeTable serializes a table document to JSON bytes.
func EncodeTable(doc *TableDoc) ([]byte, error) {
	// Keep empty collections as [] rather than null so fresh tables diff
	// cleanly against populated ones.
	if doc.Columns == nil {
		doc.Columns = []ColumnDoc{}
	}
	if doc.Records == nil {
		doc.Records = []map[string]any{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode table document: %w", err)
	}
	return b, nil
}

// DecodeTable parses JSON bytes back into a table document. Numbers are
// kept as json.Number so integer values survive the round trip exactly;
// the engine converts them through the declared column type.
func DecodeTable(b []byte) (*TableDoc, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc TableDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode table document: %w", err)
	}
	return &doc, nil
}
