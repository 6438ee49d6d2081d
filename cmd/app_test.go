package cmd

import (
	"testing"

	sgx "github.com/seetoh/sgxdividends"
)

func TestSplitTickers(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"  ", nil},
		{"D05", []string{"D05"}},
		{"D05, O39 ,S68", []string{"D05", "O39", "S68"}},
		{"D05,,O39", []string{"D05", "O39"}},
	}
	for _, tt := range tests {
		got := splitTickers(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitTickers(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("splitTickers(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseDedupe(t *testing.T) {
	tests := []struct {
		input string
		want  sgx.DedupeStrategy
		err   bool
	}{
		{"", sgx.DedupeNone, false},
		{"none", sgx.DedupeNone, false},
		{"exdate", sgx.DedupeByExDate, false},
		{"exdate-amount", sgx.DedupeByExDateAmount, false},
		{"bogus", sgx.DedupeNone, true},
	}
	for _, tt := range tests {
		got, err := parseDedupe(tt.input)
		if (err != nil) != tt.err {
			t.Errorf("parseDedupe(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			continue
		}
		if !tt.err && got != tt.want {
			t.Errorf("parseDedupe(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDateFlag(t *testing.T) {
	if d, err := parseDateFlag(""); err != nil || !d.IsZero() {
		t.Errorf("parseDateFlag(\"\") = %v, %v, want zero date", d, err)
	}
	if d, err := parseDateFlag("2025-10-16"); err != nil || d != sgx.NewDate(2025, 10, 16) {
		t.Errorf("parseDateFlag(date) = %v, %v", d, err)
	}
	if _, err := parseDateFlag("nope"); err == nil {
		t.Error("parseDateFlag(invalid) should fail")
	}
}
