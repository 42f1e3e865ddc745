package idgen

import (
	"strings"
	"testing"
)

func TestID(t *testing.T) {
	seen := make(map[string]struct{})
	for range 1000 {
		id := ID()
		if len(id) != 26 {
			t.Fatalf("bad id length: %q", id)
		}
		for i := 0; i < len(id); i++ {
			if !strings.ContainsRune(idAlphabet, rune(id[i])) {
				t.Fatalf("bad char in id %q", id)
			}
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestJoinCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		code, err := JoinCode()
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if !IsJoinCode(code) {
			t.Fatalf("generated code %q does not pass IsJoinCode", code)
		}
		if _, ok := seen[code]; ok {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = struct{}{}
	}
}

func TestIsJoinCode(t *testing.T) {
	for _, tc := range []struct {
		code string
		ok   bool
	}{
		{"ABCDEF", true},
		{"234567", true},
		{"abcdef", false},
		{"ABCDE", false},
		{"ABCDEFG", false},
		{"ABC0EF", false},
		{"ABC1EF", false},
		{"ABCIEF", false},
		{"ABCLEF", false},
		{"ABCOEF", false},
		{"", false},
	} {
		if got := IsJoinCode(tc.code); got != tc.ok {
			t.Errorf("IsJoinCode(%q) = %v, want %v", tc.code, got, tc.ok)
		}
	}
}

func TestNormalizeJoinCode(t *testing.T) {
	for _, tc := range []struct {
		in, out string
	}{
		{"abcdef", "ABCDEF"},
		{"  AbCdEf\n", "ABCDEF"},
		{"234567", "234567"},
	} {
		if got := NormalizeJoinCode(tc.in); got != tc.out {
			t.Errorf("NormalizeJoinCode(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
