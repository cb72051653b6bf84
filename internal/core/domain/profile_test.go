package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestNormalizeSkills(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"node, react ,  mongo", []string{"node", "react", "mongo"}},
		{"go", []string{"go"}},
		{"a,,b", []string{"a", "", "b"}},
		{" html , css ", []string{"html", "css"}},
	}
	for _, tc := range cases {
		got := NormalizeSkills(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("NormalizeSkills(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2019-06-01")
	if !ok {
		t.Fatal("expected plain date to parse")
	}
	if !got.Equal(time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date: %v", got)
	}

	if _, ok := ParseDate("2019-06-01T10:00:00+02:00"); !ok {
		t.Error("expected RFC3339 date to parse")
	}
	if _, ok := ParseDate("yesterday"); ok {
		t.Error("expected garbage to be rejected")
	}
}

func TestValidationError_Has(t *testing.T) {
	err := &ValidationError{Violations: []FieldViolation{
		{Msg: "Status is required", Param: "status"},
		{Msg: "Skills is required", Param: "skills"},
	}}
	if !err.Has("skills") || err.Has("bio") {
		t.Fatalf("Has mismatch for %v", err)
	}
	if err.Error() != "validation failed: Status is required; Skills is required" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
