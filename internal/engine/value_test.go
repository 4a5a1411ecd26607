package engine

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestClassifyLiteral(t *testing.T) {
	cases := []struct {
		text string
		want Value
	}{
		{"null", Null},
		{"NULL", Null},
		{"14", IntValue(14)},
		{"-7", IntValue(-7)},
		{"2021-03-04", DateValue(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC))},
		{"'hello'", CharValue("hello")},
		{"''", CharValue("")},
		{"'2021-03-04'", CharValue("2021-03-04")},
	}
	for _, tc := range cases {
		if got := ClassifyLiteral(tc.text); got != tc.want {
			t.Fatalf("ClassifyLiteral(%q) = %+v, want %+v", tc.text, got, tc.want)
		}
	}
}

func TestValueDisplay(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{IntValue(-3), "-3"},
		{CharValue("hi"), "hi"},
		{DateValue(time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)), "1999-12-31"},
	}
	for _, tc := range cases {
		if got := tc.v.Display(); got != tc.want {
			t.Fatalf("Display(%+v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestColumnTypeString(t *testing.T) {
	cases := []struct {
		t    ColumnType
		want string
	}{
		{ColumnType{Kind: KindInt}, "int"},
		{ColumnType{Kind: KindDate}, "date"},
		{ColumnType{Kind: KindChar, Len: 5}, "char(5)"},
	}
	for _, tc := range cases {
		if got := tc.t.String(); got != tc.want {
			t.Fatalf("String(%+v) = %q, want %q", tc.t, got, tc.want)
		}
		back, ok := ParseColumnType(tc.want)
		if !ok || back != tc.t {
			t.Fatalf("ParseColumnType(%q) = %+v, %v", tc.want, back, ok)
		}
	}
	if _, ok := ParseColumnType("varchar(5)"); ok {
		t.Fatal("ParseColumnType accepted an unknown type")
	}
}

func TestTruncate(t *testing.T) {
	ct := ColumnType{Kind: KindChar, Len: 3}
	if got := ct.Truncate(CharValue("hello")); got.Str != "hel" {
		t.Fatalf("Truncate = %q", got.Str)
	}
	if got := ct.Truncate(CharValue("hi")); got.Str != "hi" {
		t.Fatalf("short value changed: %q", got.Str)
	}
	// Truncation counts characters, not bytes.
	if got := ct.Truncate(CharValue("날짜값입니다")); got.Str != "날짜값" {
		t.Fatalf("rune truncation = %q", got.Str)
	}
	if got := (ColumnType{Kind: KindInt}).Truncate(IntValue(12345)); got.Int != 12345 {
		t.Fatalf("non-char value changed: %+v", got)
	}
}

func TestSerializeDeserialize(t *testing.T) {
	day := DateValue(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC))
	cases := []struct {
		v Value
		t ColumnType
	}{
		{Null, ColumnType{Kind: KindInt}},
		{IntValue(42), ColumnType{Kind: KindInt}},
		{CharValue("ada"), ColumnType{Kind: KindChar, Len: 8}},
		{day, ColumnType{Kind: KindDate}},
	}
	for _, tc := range cases {
		back, ok := DeserializeValue(SerializeValue(tc.v), tc.t)
		if !ok || back != tc.v {
			t.Fatalf("round trip of %+v = %+v, %v", tc.v, back, ok)
		}
	}
}

func TestDeserializeJSONNumber(t *testing.T) {
	v, ok := DeserializeValue(json.Number("42"), ColumnType{Kind: KindInt})
	if !ok || v != IntValue(42) {
		t.Fatalf("DeserializeValue(json.Number) = %+v, %v", v, ok)
	}
	if _, ok := DeserializeValue(json.Number("nope"), ColumnType{Kind: KindInt}); ok {
		t.Fatal("malformed number accepted")
	}
	if _, ok := DeserializeValue("text", ColumnType{Kind: KindInt}); ok {
		t.Fatal("string accepted for an int column")
	}
}
