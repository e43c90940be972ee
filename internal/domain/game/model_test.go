package game

import "testing"

func intPtr(v int) *int { return &v }

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		home     *int
		away     *int
		explicit string
		want     string
	}{
		{"both scores non-zero", intPtr(79), intPtr(84), "", StatusFinal},
		{"one zero one non-zero", intPtr(0), intPtr(2), "", StatusFinal},
		{"scores override explicit scheduled", intPtr(79), intPtr(84), "scheduled", StatusFinal},
		{"both zero", intPtr(0), intPtr(0), "", StatusScheduled},
		{"missing scores", nil, nil, "", StatusScheduled},
		{"missing scores explicit live", nil, nil, "live", StatusLive},
		{"one score missing", intPtr(50), nil, "", StatusScheduled},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DeriveStatus(tc.home, tc.away, tc.explicit); got != tc.want {
				t.Fatalf("DeriveStatus = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGameIsFinal(t *testing.T) {
	t.Parallel()

	g := Game{Status: StatusFinal, HomeScore: intPtr(79), AwayScore: intPtr(84)}
	if !g.IsFinal() {
		t.Fatal("expected final")
	}

	g.AwayScore = nil
	if g.IsFinal() {
		t.Fatal("final status without both scores must not be final")
	}

	g = Game{Status: StatusScheduled, HomeScore: intPtr(79), AwayScore: intPtr(84)}
	if g.IsFinal() {
		t.Fatal("scheduled status must not be final")
	}
}

func TestGameValidate(t *testing.T) {
	t.Parallel()

	g := Game{ID: "g1", SeasonID: "s1", HomeTeamID: "t1", AwayTeamID: "t1", Status: StatusScheduled}
	if err := g.Validate(); err == nil {
		t.Fatal("expected error for identical home and away teams")
	}

	g.AwayTeamID = "t2"
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
