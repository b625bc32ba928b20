package httpjson_test

import (
	"encoding/json"
	"testing"

	"taskflow/internal/interface/httpjson"
)

type body struct {
	Title httpjson.Nullable[string] `json:"title"`
	Count httpjson.Nullable[int]    `json:"count"`
}

func TestNullable(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		set       bool
		valid     bool
		wantTitle string
	}{
		{"missing", `{}`, false, false, ""},
		{"null", `{"title":null}`, true, false, ""},
		{"value", `{"title":"画面設計"}`, true, true, "画面設計"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b body
			if err := json.Unmarshal([]byte(tc.raw), &b); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Title.Set != tc.set || b.Title.Valid != tc.valid || b.Title.Val != tc.wantTitle {
				t.Fatalf("unexpected nullable: %+v", b.Title)
			}
			if b.Title.IsNull() != (tc.set && !tc.valid) {
				t.Fatalf("IsNull mismatch: %+v", b.Title)
			}
		})
	}
}

func TestNullable_TypeMismatch(t *testing.T) {
	var b body
	if err := json.Unmarshal([]byte(`{"count":"many"}`), &b); err == nil {
		t.Fatalf("expected error for string into int")
	}
}
