package usecase

import (
	"testing"
	"time"
)

func TestParseMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"27:06", 1626},
		{"0:45", 45},
		{"00:00", 0},
		{" 12:30 ", 750},
		{"", 0},
		{"27", 0},
		{"12:75", 0},
		{"-1:30", 0},
		{"abc", 0},
	}
	for _, tc := range cases {
		if got := ParseMinutes(tc.in); got != tc.want {
			t.Errorf("ParseMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	t.Parallel()

	if got := FormatMinutes(1626); got != "27:06" {
		t.Fatalf("FormatMinutes(1626) = %q", got)
	}
	if got := FormatMinutes(0); got != "00:00" {
		t.Fatalf("FormatMinutes(0) = %q", got)
	}
	if got := FormatMinutes(-5); got != "00:00" {
		t.Fatalf("FormatMinutes(-5) = %q", got)
	}
}

func TestClockToSeconds(t *testing.T) {
	t.Parallel()

	if got := ClockToSeconds("08:10"); got != 490 {
		t.Fatalf("ClockToSeconds(08:10) = %d", got)
	}
	if got := ClockToSeconds("00:00"); got != 0 {
		t.Fatalf("ClockToSeconds(00:00) = %d", got)
	}
	if got := ClockToSeconds(""); got != -1 {
		t.Fatalf("ClockToSeconds empty = %d", got)
	}
	if got := ClockToSeconds("junk"); got != -1 {
		t.Fatalf("ClockToSeconds junk = %d", got)
	}
}

func TestParseGameDate(t *testing.T) {
	t.Parallel()

	got := ParseGameDate("2024-10-03T20:00:00Z")
	want := time.Date(2024, time.October, 3, 20, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseGameDate RFC3339 = %v, want %v", got, want)
	}

	got = ParseGameDate("03/10/2024 20:00")
	if got.Day() != 3 || got.Month() != time.October || got.Year() != 2024 {
		t.Fatalf("ParseGameDate day-first = %v", got)
	}

	// Unparseable input falls back to now rather than the zero time.
	got = ParseGameDate("garbage")
	if got.IsZero() || time.Since(got) > time.Minute {
		t.Fatalf("ParseGameDate fallback = %v", got)
	}
}

func TestParseBirthDate(t *testing.T) {
	t.Parallel()

	got := ParseBirthDate("12 March, 1998")
	if got == nil {
		t.Fatal("expected parsed birth date")
	}
	if got.Year() != 1998 || got.Month() != time.March || got.Day() != 12 {
		t.Fatalf("ParseBirthDate = %v", got)
	}

	if got := ParseBirthDate("garbage"); got != nil {
		t.Fatalf("expected nil for garbage, got %v", got)
	}
	if got := ParseBirthDate(""); got != nil {
		t.Fatalf("expected nil for empty, got %v", got)
	}
}

func TestHeightCM(t *testing.T) {
	t.Parallel()

	if got := HeightCM(2.06); got != 206 {
		t.Fatalf("HeightCM(2.06) = %d", got)
	}
	if got := HeightCM(1.995); got != 200 {
		t.Fatalf("HeightCM(1.995) = %d", got)
	}
}

func TestParseHeightCM(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    int
		wantNil bool
	}{
		{"2.06", 206, false},
		{"2.06m", 206, false},
		{"206", 206, false},
		{"1,88", 188, false},
		{"", 0, true},
		{"abc", 0, true},
		{"350", 0, true},
		{"0.5", 0, true},
	}
	for _, tc := range cases {
		got := ParseHeightCM(tc.in)
		if tc.wantNil {
			if got != nil {
				t.Errorf("ParseHeightCM(%q) = %d, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Errorf("ParseHeightCM(%q) = %v, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseOptionalInt(t *testing.T) {
	t.Parallel()

	if got := ParseOptionalInt("7"); got != 7 {
		t.Fatalf("ParseOptionalInt(7) = %d", got)
	}
	if got := ParseOptionalInt(" -3 "); got != -3 {
		t.Fatalf("ParseOptionalInt(-3) = %d", got)
	}
	if got := ParseOptionalInt(""); got != 0 {
		t.Fatalf("ParseOptionalInt empty = %d", got)
	}
	if got := ParseOptionalInt("x"); got != 0 {
		t.Fatalf("ParseOptionalInt junk = %d", got)
	}
}
