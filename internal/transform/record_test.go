package transform

import (
	"encoding/json"
	"testing"
)

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"float":      float64(3.5),
		"number":     json.Number("12"),
		"numeric":    " 7.25 ",
		"text":       "hello",
		"flag":       true,
		"flag_str":   "false",
		"null":       nil,
		"list":       []any{"a", float64(2), nil},
		"csv":        "north, south,,east",
		"obj":        map[string]any{"k": "v"},
		"not_object": "x",
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "float", got: r.Float(0, "float"), want: 3.5},
		{name: "json number", got: r.Float(0, "number"), want: float64(12)},
		{name: "numeric string", got: r.Float(0, "numeric"), want: 7.25},
		{name: "float default on text", got: r.Float(-1, "text"), want: float64(-1)},
		{name: "float default on null", got: r.Float(-1, "null"), want: float64(-1)},
		{name: "int truncates", got: r.Int(0, "float"), want: int64(3)},
		{name: "string", got: r.String("", "text"), want: "hello"},
		{name: "string from number", got: r.String("", "float"), want: "3.5"},
		{name: "string fallback key", got: r.String("", "missing", "text"), want: "hello"},
		{name: "string default", got: r.String("dflt", "missing"), want: "dflt"},
		{name: "bool", got: r.Bool(false, "flag"), want: true},
		{name: "bool from string", got: r.Bool(true, "flag_str"), want: false},
		{name: "bool default", got: r.Bool(true, "text"), want: true},
		{name: "raw skips null", got: r.Raw("null", "text"), want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}
}

func TestRecordCollections(t *testing.T) {
	r := Record{
		"list": []any{"a", float64(2), nil},
		"csv":  "north, south,,east",
		"obj":  map[string]any{"k": "v"},
		"text": "x",
	}

	if got := r.Strings("list"); len(got) != 2 || got[0] != "a" || got[1] != "2" {
		t.Errorf("Strings(list) = %v", got)
	}
	if got := r.Strings("csv"); len(got) != 3 || got[2] != "east" {
		t.Errorf("Strings(csv) = %v", got)
	}
	if got := r.Strings("missing"); got == nil || len(got) != 0 {
		t.Errorf("Strings(missing) = %#v, want empty non-nil", got)
	}
	if got := r.List("text"); got == nil || len(got) != 0 {
		t.Errorf("List(text) = %#v, want empty non-nil", got)
	}
	if got := r.Object("obj"); got["k"] != "v" {
		t.Errorf("Object(obj) = %v", got)
	}
	if got := r.Object("text"); got == nil || len(got) != 0 {
		t.Errorf("Object(text) = %#v, want empty non-nil", got)
	}
	if r.Nested("text") != nil {
		t.Error("Nested(text) should be nil")
	}

	var empty Record
	if got := empty.String("d", "anything"); got != "d" {
		t.Errorf("nil record String() = %q, want d", got)
	}
}
