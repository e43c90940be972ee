package league

import "testing"

func TestNormalizeSeasonName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"2024-25", "2024-25"},
		{"2024/25", "2024-25"},
		{"2024/2025", "2024-25"},
		{"2024-2025", "2024-25"},
		{"2024", "2024-25"},
		{"E2024", "2024-25"},
		{"U2024", "2024-25"},
		{"1999", "1999-00"},
		{"E1999", "1999-00"},
		{" 2024-25 ", "2024-25"},
	}
	for _, tc := range cases {
		got, err := NormalizeSeasonName(tc.in)
		if err != nil {
			t.Fatalf("NormalizeSeasonName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeSeasonName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeSeasonNameRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "abc", "24-25", "20244", "E24"} {
		if got, err := NormalizeSeasonName(in); err == nil {
			t.Fatalf("NormalizeSeasonName(%q) = %q, want error", in, got)
		}
	}
}

func TestSeasonName(t *testing.T) {
	t.Parallel()

	if got := SeasonName(2024); got != "2024-25" {
		t.Fatalf("SeasonName(2024) = %q", got)
	}
	if got := SeasonName(1999); got != "1999-00" {
		t.Fatalf("SeasonName(1999) = %q", got)
	}
	if got := SeasonName(2009); got != "2009-10" {
		t.Fatalf("SeasonName(2009) = %q", got)
	}
}

func TestStartYear(t *testing.T) {
	t.Parallel()

	year, err := StartYear("2024-25")
	if err != nil {
		t.Fatalf("StartYear: %v", err)
	}
	if year != 2024 {
		t.Fatalf("StartYear = %d, want 2024", year)
	}
}
