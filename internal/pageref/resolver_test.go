package pageref

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		raw  string
		want []int
	}{
		{"Page 9", []int{9}},
		{"Page 2-5", []int{2, 3, 4, 5}},
		{"Page 1, 5, 7", []int{1, 5, 7}},
		{"Page 2-3, 9", []int{2, 3, 9}},
		{"Page 7, 1", []int{7, 1}},
		{"Page 3, 3", []int{3, 3}},
		{"page 4", []int{4}},
		{"PAGES 10 - 12", []int{10, 11, 12}},
		{"Page   6", []int{6}},
		{"Page 1, Page 5", []int{1, 5}},
		{"Page 3–4", []int{3, 4}},
		{"Page 8-8", []int{8}},
		{"Page abc, 4", []int{4}},
		{"Page 5-2, 9", []int{9}},
		{"Page 0, 2", []int{2}},
		{"Page 0-2", nil},
		{"Page 1-x, 6", []int{6}},
		{"Page 1-2-3, 6", []int{6}},
		{"Page 99999999999999999999", nil},
		{"Page 1-5000", nil},
		{"Page abc", nil},
		{"Page", nil},
		{"", nil},
		{"Page , ,", nil},
		{"7", []int{7}},
	}
	for _, tt := range tests {
		got := Resolve(tt.raw)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Resolve(%q): expected %v, got %v", tt.raw, tt.want, got)
		}
	}
}

func TestResolve_RangeSpanLimit(t *testing.T) {
	got := Resolve("Page 1-1000")
	if len(got) != MaxRangeSpan {
		t.Fatalf("expected %d pages, got %d", MaxRangeSpan, len(got))
	}
	if got[0] != 1 || got[len(got)-1] != 1000 {
		t.Errorf("expected 1..1000, got %d..%d", got[0], got[len(got)-1])
	}
	if got := Resolve("Page 1-1001"); len(got) != 0 {
		t.Errorf("expected range wider than the limit to be dropped, got %d pages", len(got))
	}
}

func TestResolve_Deterministic(t *testing.T) {
	a := Resolve("Page 2-3, 9, 12-14")
	b := Resolve("Page 2-3, 9, 12-14")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical results, got %v and %v", a, b)
	}
}

func TestPageReference_Pages(t *testing.T) {
	ref := NewPageReference("Page 2-3, 9")
	want := []int{2, 3, 9}
	if got := ref.Pages(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
