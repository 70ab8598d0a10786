package model

import "testing"

func TestFilters_GetWith(t *testing.T) {
	f := Filters{}.With(FilterTitle, "Dune").With(FilterStatus, "lent")

	if f.Get(FilterTitle) != "Dune" || f.Get(FilterStatus) != "lent" {
		t.Fatalf("unexpected filters: %+v", f)
	}
	if f.Get(FilterKey("isbn")) != "" {
		t.Fatalf("unknown key should read empty")
	}
	if f.With(FilterKey("isbn"), "x") != f {
		t.Fatalf("unknown key should not change filters")
	}
	if f.IsZero() {
		t.Fatalf("filters with values should not be zero")
	}
	if !(Filters{}).IsZero() {
		t.Fatalf("empty filters should be zero")
	}
}

func TestStatus_Valid(t *testing.T) {
	if !StatusAvailable.Valid() || !StatusLent.Valid() {
		t.Fatalf("known statuses should be valid")
	}
	if Status("lost").Valid() {
		t.Fatalf("unknown status should be invalid")
	}
}
