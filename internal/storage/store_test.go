package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func testStoreRoundTrip(t *testing.T, s Store) {
	t.Helper()

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := s.Put("b", []byte(`{"n":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("a", []byte(`{"n":2}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("Keys = %v, want insertion order [b a]", keys)
	}

	doc, err := s.Get("b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(doc) != `{"n":1}` {
		t.Fatalf("Get(b) = %s", doc)
	}

	// Put replaces without disturbing insertion order.
	if err := s.Put("b", []byte(`{"n":3}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	keys, _ = s.Keys()
	if len(keys) != 2 || keys[0] != "b" {
		t.Fatalf("Keys after replace = %v", keys)
	}
	doc, _ = s.Get("b")
	if string(doc) != `{"n":3}` {
		t.Fatalf("Get(b) after replace = %s", doc)
	}

	if err := s.Delete("b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
	keys, _ = s.Keys()
	if len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("Keys after delete = %v", keys)
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreRoundTrip(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	testStoreRoundTrip(t, s)
}

func TestSQLiteStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Put("t", []byte(`{"columns":[]}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	doc, err := s.Get("t")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(doc) != `{"columns":[]}` {
		t.Fatalf("Get after reopen = %s", doc)
	}
}

func TestMemoryStoreDefensiveCopies(t *testing.T) {
	s := NewMemoryStore()
	doc := []byte(`{"n":1}`)
	if err := s.Put("t", doc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	doc[2] = 'x'
	got, err := s.Get("t")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"n":1}` {
		t.Fatalf("stored document aliased caller's slice: %s", got)
	}
	got[2] = 'x'
	again, _ := s.Get("t")
	if string(again) != `{"n":1}` {
		t.Fatalf("returned document aliased stored slice: %s", again)
	}
}

func TestEncodeDecodeTableDoc(t *testing.T) {
	doc := &TableDoc{
		Columns: []ColumnDoc{
			{Name: "id", Type: "int", Null: false, Primary: true},
			{Name: "owner", Type: "char(8)", Null: true, Foreign: &ForeignDoc{TableName: "owners", ColumnName: "id"}},
		},
		Records: []map[string]any{
			{"id": int64(1), "owner": "ada"},
			{"id": int64(2), "owner": nil},
		},
	}
	raw, err := EncodeTable(doc)
	if err != nil {
		t.Fatalf("EncodeTable: %v", err)
	}
	back, err := DecodeTable(raw)
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if len(back.Columns) != 2 || back.Columns[1].Foreign == nil || back.Columns[1].Foreign.TableName != "owners" {
		t.Fatalf("columns round trip = %+v", back.Columns)
	}
	if len(back.Records) != 2 || back.Records[1]["owner"] != nil {
		t.Fatalf("records round trip = %+v", back.Records)
	}
}

func TestEncodeTableNormalizesNils(t *testing.T) {
	raw, err := EncodeTable(&TableDoc{})
	if err != nil {
		t.Fatalf("EncodeTable: %v", err)
	}
	if string(raw) != `{"columns":[],"records":[]}` {
		t.Fatalf("empty document = %s", raw)
	}
}
