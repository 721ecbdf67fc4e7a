package main

import "testing"

func TestNormalizeFilter(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: ""},
		{raw: "component=acm", want: "component:acm"},
		{raw: "component=acm,release=2.12", want: "component:acm,release:2.12"},
		{raw: "component:acm, release:2.12", want: "component:acm,release:2.12"},
		{raw: "component", wantErr: true},
		{raw: "component=", wantErr: true},
	}
	for _, tc := range tests {
		got, err := normalizeFilter(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("normalizeFilter(%q): want error, got %q", tc.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeFilter(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("normalizeFilter(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
