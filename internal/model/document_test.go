package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDocument_PreservesOrderAndValues(t *testing.T) {
	input := `{"zeta": 1, "alpha": {"nested": [1, 2.50, "x"]}, "mid": null, "big": 12345678901234567890}`

	doc, err := ParseDocument([]byte(input))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	wantKeys := []string{"zeta", "alpha", "mid", "big"}
	if doc.Len() != len(wantKeys) {
		t.Fatalf("Len = %d, want %d", doc.Len(), len(wantKeys))
	}
	for i, key := range wantKeys {
		if doc.Fields[i].Key != key {
			t.Errorf("field[%d] = %q, want %q", i, doc.Fields[i].Key, key)
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"zeta":1,"alpha":{"nested":[1,2.50,"x"]},"mid":null,"big":12345678901234567890}`
	if string(out) != want {
		t.Errorf("Marshal = %s, want %s", out, want)
	}
}

func TestParseDocument_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantNotObj bool
	}{
		{"array", `[1,2]`, true},
		{"string", `"hello"`, true},
		{"number", `42`, true},
		{"empty", ``, false},
		{"truncated", `{"a":`, false},
		{"trailing data", `{"a":1} {"b":2}`, false},
		{"html", `<html></html>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantNotObj && !errors.Is(err, ErrNotObject) {
				t.Errorf("expected ErrNotObject, got %v", err)
			}
		})
	}
}

func TestParseDocument_EmptyObject(t *testing.T) {
	doc, err := ParseDocument([]byte(` {} `))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Len() != 0 {
		t.Errorf("Len = %d, want 0", doc.Len())
	}
}

func TestParseDocument_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"a":1,"b":2,"a":3}`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	out, _ := json.Marshal(doc)
	if string(out) != `{"a":3,"b":2}` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestDocument_TruthyField(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"text":"Invalid Authorization","empty":"","code":401,"zero":0,"negzero":-0.0,"exp":0e10,"null":null,"false":false,"true":true,"obj":{},"arr":[],"huge":1e999}`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"text", `"Invalid Authorization"`, true},
		{"code", `401`, true},
		{"true", `true`, true},
		{"obj", `{}`, true},
		{"arr", `[]`, true},
		{"huge", `1e999`, true},
		{"empty", ``, false},
		{"zero", ``, false},
		{"negzero", ``, false},
		{"exp", ``, false},
		{"null", ``, false},
		{"false", ``, false},
		{"absent", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := doc.TruthyField(tt.key)
			if ok != tt.wantOK || string(got) != tt.want {
				t.Errorf("TruthyField(%q) = %s, %v, want %s, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDocument_UnmarshalJSON(t *testing.T) {
	var wrapper struct {
		Doc Document `json:"doc"`
	}
	if err := json.Unmarshal([]byte(`{"doc":{"b":1,"a":2}}`), &wrapper); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if wrapper.Doc.Len() != 2 || wrapper.Doc.Fields[0].Key != "b" {
		t.Errorf("unexpected document %+v", wrapper.Doc)
	}
}

func TestDocument_MarshalDoesNotEscapeHTML(t *testing.T) {
	doc := Document{Fields: []Field{{Key: "<k>", Value: json.RawMessage(`1`)}}}

	out, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(out) != `{"<k>":1}` {
		t.Errorf("MarshalJSON = %s", out)
	}
}
