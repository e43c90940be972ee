package usecase

import "testing"

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"John Doe PG", "john doe"},
		{"John Doe G|", "john doe"},
		{"  Mixed   Case  ", "mixed case"},
		{"Avi Cohen Captain", "avi cohen"},
		{"דוד כהן קפטן", "דוד כהן"},
		{"Smith F-C", "smith"},
		// A single token never gets stripped, even when it is a token.
		{"Captain", "captain"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompactName(t *testing.T) {
	t.Parallel()

	if got := CompactName("O'Neal, Shaquille"); got != "onealshaquille" {
		t.Fatalf("CompactName = %q", got)
	}
	if got := CompactName("Luka  Doncic SG"); got != "lukadoncic" {
		t.Fatalf("CompactName = %q", got)
	}
	if got := CompactName("   "); got != "" {
		t.Fatalf("CompactName blank = %q", got)
	}
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	first, last := SplitName("Luka Doncic")
	if first != "Luka" || last != "Doncic" {
		t.Fatalf("SplitName = %q %q", first, last)
	}

	first, last = SplitName("Juan Carlos Navarro")
	if first != "Juan" || last != "Carlos Navarro" {
		t.Fatalf("SplitName = %q %q", first, last)
	}

	first, last = SplitName("Doncic")
	if first != "" || last != "Doncic" {
		t.Fatalf("SplitName single = %q %q", first, last)
	}

	first, last = SplitName("  ")
	if first != "" || last != "" {
		t.Fatalf("SplitName empty = %q %q", first, last)
	}
}
