package ode

import "testing"

func TestParamsGetHas(t *testing.T) {
	p := NewParams(map[string]float64{"k": 2.5})
	if !p.Has("k") {
		t.Error("expected Has(k) true")
	}
	if p.Get("k") != 2.5 {
		t.Errorf("want 2.5, got %v", p.Get("k"))
	}
	if p.Has("missing") {
		t.Error("expected Has(missing) false")
	}
}

func TestParamsGetUndefinedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on undefined parameter")
		}
	}()
	p := NewParams(nil)
	p.Get("missing")
}

func TestParamsNamesSorted(t *testing.T) {
	p := NewParams(map[string]float64{"b": 1, "a": 2, "c": 3})
	names := p.Names()
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names not sorted: got %v", names)
		}
	}
}

func TestParamsMapIsCopy(t *testing.T) {
	p := NewParams(map[string]float64{"k": 1})
	m := p.Map()
	m["k"] = 99
	if p.Get("k") != 1 {
		t.Error("mutating the returned map must not affect Params")
	}
}
