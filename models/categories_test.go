package models

import "testing"

func TestValidTransactionType(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"credit", true},
		{"debit", true},
		{"Credit", false},
		{"transfer", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidTransactionType(c.in); got != c.want {
			t.Errorf("ValidTransactionType(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestKnownCategory(t *testing.T) {
	if !KnownCategory("Groceries") {
		t.Error("Groceries should be part of the vocabulary")
	}
	if !KnownCategory(CategoryOthers) {
		t.Error("the fallback bucket should be part of the vocabulary")
	}
	if KnownCategory("groceries") {
		t.Error("vocabulary matching is case sensitive")
	}
	if KnownCategory("Crypto") {
		t.Error("Crypto is not part of the vocabulary")
	}
}
