package country

import (
	"reflect"
	"testing"
)

func TestCanonical(t *testing.T) {
	cases := map[string]string{
		"USA":            "United States",
		" usa ":          "United States",
		"United States":  "United States",
		"UK":             "United Kingdom",
		"England":        "United Kingdom",
		"Germany":        "Germany",
		"  Netherlands ": "Netherlands",
	}
	for in, want := range cases {
		if got := Canonical(in); got != want {
			t.Errorf("Canonical(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEqualAndIn(t *testing.T) {
	if !Equal("USA", "united states") {
		t.Error("USA should equal united states")
	}
	if Equal("Canada", "USA") {
		t.Error("Canada should not equal USA")
	}
	if !In("United Kingdom", []string{"Canada", "uk"}) {
		t.Error("United Kingdom should be in [Canada uk]")
	}
	if In("Germany", nil) {
		t.Error("nothing is in an empty list")
	}
}

func TestCanonicalAll(t *testing.T) {
	got := CanonicalAll([]string{"USA", "United States", "uk", "", "Canada"})
	want := []string{"United States", "United Kingdom", "Canada"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CanonicalAll = %v, want %v", got, want)
	}
}
