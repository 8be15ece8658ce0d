package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.344", 1234, true},
		{"12.345", 1235, true},
		{"12.346", 1235, true},
		{"0.01", 1, true},
		{"", 0, false},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got (%d, %v), want (%d, nil)", i, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error for %q", i, tc.in)
		}
	}
}

func TestMoneyUnits(t *testing.T) {
	if u := (Money{Cents: 1129}).Units(); u != 11.29 {
		t.Fatalf("expected 11.29, got %v", u)
	}
}
