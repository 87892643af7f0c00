package models

import (
	"slices"
	"testing"
)

func TestEffective(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"5", "5"},
		{" 2.5 ", "2.5"},
		{"-3", "-3"},
		{"1e3", "1000"},
		{".5", "0.5"},
		{"hello", "0"},
		{"0x1p-2", "0"},
		{"-0X10", "0"},
		{"1_000", "0"},
		{"NaN", "0"},
		{"Inf", "0"},
		{"1e400", "0"},
		{"=1+1", "0"},
	}

	for _, tt := range tests {
		result := NewRecord(tt.raw).Effective()
		if result != tt.expected {
			t.Errorf("Effective(%q) = %q, expected %q", tt.raw, result, tt.expected)
		}
	}

	computed := NewRecord("=1/0")
	computed.Computed = Error()
	if got := computed.Effective(); got != ErrorMarker {
		t.Errorf("Effective of an error formula = %q, expected %q", got, ErrorMarker)
	}
}

func TestCompare(t *testing.T) {
	addrs := []Address{
		{Row: 2, Col: 0},
		{Row: 0, Col: 3},
		{Row: 0, Col: 1},
		{Row: 1, Col: 9},
	}
	slices.SortFunc(addrs, Compare)

	want := []Address{
		{Row: 0, Col: 1},
		{Row: 0, Col: 3},
		{Row: 1, Col: 9},
		{Row: 2, Col: 0},
	}
	if !slices.Equal(addrs, want) {
		t.Errorf("sorted = %v, expected %v", addrs, want)
	}
	if Compare(Address{Row: 4, Col: 4}, Address{Row: 4, Col: 4}) != 0 {
		t.Error("Compare of equal addresses is not 0")
	}
}
