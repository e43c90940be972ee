package euroleague

import (
	"testing"
	"time"
)

func TestSeasonForYear(t *testing.T) {
	t.Parallel()

	season := SeasonForYear(2024, "E")
	if season.Name != "2024-25" || season.ExternalID != "2024-25" {
		t.Fatalf("season = %+v", season)
	}
	if season.SourceID != "E2024" {
		t.Fatalf("source id = %q, want E2024", season.SourceID)
	}
	wantStart := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
	if !season.StartDate.Equal(wantStart) || !season.EndDate.Equal(wantEnd) {
		t.Fatalf("season span = %v .. %v", season.StartDate, season.EndDate)
	}

	if got := SeasonForYear(1999, "E").Name; got != "1999-00" {
		t.Fatalf("1999 season name = %q, want 1999-00", got)
	}
}

func TestSplitGameExternalID(t *testing.T) {
	t.Parallel()

	code, gameCode, err := splitGameExternalID("E2024_24")
	if err != nil {
		t.Fatalf("splitGameExternalID: %v", err)
	}
	if code != "E2024" || gameCode != "24" {
		t.Fatalf("split = %q %q", code, gameCode)
	}

	if _, _, err := splitGameExternalID("E2024"); err == nil {
		t.Fatal("splitGameExternalID accepted an id without a game code")
	}
}

func TestParseTeams(t *testing.T) {
	t.Parallel()

	doc := `<clubs>
		<club code="MAD" tvcode="RMB" name="Real Madrid"><countryname>Spain</countryname></club>
		<club code="" name="Ghost Entry"/>
		<club code="ULK" tvcode="FBB" name="Fenerbahce"><countryname>Turkey</countryname></club>
	</clubs>`

	teams, err := parseTeams([]byte(doc), "E2024")
	if err != nil {
		t.Fatalf("parseTeams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("parseTeams returned %d teams, want 2", len(teams))
	}
	if teams[0].ExternalID != "MAD" || teams[0].Name != "Real Madrid" {
		t.Fatalf("first team = %+v", teams[0])
	}
	if teams[0].ShortName != "RMB" || teams[0].Country != "Spain" {
		t.Fatalf("first team extras = %+v", teams[0])
	}
}

func TestParseSchedule(t *testing.T) {
	t.Parallel()

	doc := `<schedule>
		<item>
			<gamecode>24</gamecode>
			<date>Oct 3, 2024</date>
			<startime>20:00</startime>
			<homecode>MAD</homecode><hometeam>Real Madrid</hometeam><homescore>79</homescore>
			<awaycode>ULK</awaycode><awayteam>Fenerbahce</awayteam><awayscore>84</awayscore>
			<played>true</played>
		</item>
		<item>
			<gamecode>25</gamecode>
			<date>Oct 4, 2024</date>
			<homecode>PAN</homecode><hometeam>Panathinaikos</hometeam>
			<awaycode>BAR</awaycode><awayteam>Barcelona</awayteam>
			<played>false</played>
		</item>
	</schedule>`

	games, err := parseSchedule([]byte(doc), "E2024", "2024-25")
	if err != nil {
		t.Fatalf("parseSchedule: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("parseSchedule returned %d games, want 2", len(games))
	}

	final := games[0]
	if final.ExternalID != "E2024_24" || final.SeasonExternalID != "2024-25" {
		t.Fatalf("final game = %+v", final)
	}
	if final.Status != "final" || *final.HomeScore != 79 || *final.AwayScore != 84 {
		t.Fatalf("final game status = %+v", final)
	}
	if final.GameDate.Month() != time.October || final.GameDate.Day() != 3 || final.GameDate.Hour() != 20 {
		t.Fatalf("final game date = %v", final.GameDate)
	}

	upcoming := games[1]
	if upcoming.Status != "" || upcoming.HomeScore != nil {
		t.Fatalf("upcoming game = %+v", upcoming)
	}
}

func TestParsePlayers(t *testing.T) {
	t.Parallel()

	doc := `<players>
		<player>
			<code>P001</code>
			<name>DONCIC, LUKA</name>
			<height>2.01</height>
			<birthdate>1999-02-28</birthdate>
			<country>Slovenia</country>
			<position>Guard</position>
			<dorsal>77</dorsal>
			<clubcode>MAD</clubcode>
		</player>
	</players>`

	players, err := parsePlayers([]byte(doc), "E2024/P001")
	if err != nil {
		t.Fatalf("parsePlayers: %v", err)
	}
	if len(players) != 1 {
		t.Fatalf("parsePlayers returned %d players, want 1", len(players))
	}
	p := players[0]
	if p.FirstName != "Luka" || p.LastName != "Doncic" {
		t.Fatalf("name = %q %q", p.FirstName, p.LastName)
	}
	if p.HeightCM == nil || *p.HeightCM != 201 {
		t.Fatalf("height = %v", p.HeightCM)
	}
	if p.BirthDate == nil || p.BirthDate.Year() != 1999 {
		t.Fatalf("birth date = %v", p.BirthDate)
	}
	if p.JerseyNumber == nil || *p.JerseyNumber != 77 {
		t.Fatalf("jersey = %v", p.JerseyNumber)
	}
	if p.TeamExternalID != "MAD" || p.Nationality != "Slovenia" {
		t.Fatalf("player extras = %+v", p)
	}
}

func TestParseBoxscoreWithHeader(t *testing.T) {
	t.Parallel()

	box := `{"Live":false,"Stats":[
		{"Team":"Real Madrid","PlayersStats":[
			{"Player_ID":"P001","Player":"DONCIC, LUKA","Dorsal":"77","IsStarter":1,"Minutes":"27:06",
			 "Points":22,"FieldGoalsMade2":6,"FieldGoalsAttempted2":8,"FieldGoalsMade3":1,"FieldGoalsAttempted3":4,
			 "FreeThrowsMade":7,"FreeThrowsAttempted":8,"OffensiveRebounds":3,"DefensiveRebounds":2,"TotalRebounds":5,
			 "Assistances":1,"Steals":2,"Turnovers":1,"BlocksFavour":2,"FoulsCommited":3,"Valuation":30,"Plusminus":3}]},
		{"Team":"Fenerbahce","PlayersStats":[
			{"Player_ID":"P002","Player":"WILBEKIN, SCOTTIE","Dorsal":"10","Minutes":"30:00","Points":28}]}]}`
	header := `{"TeamA":"Real Madrid","TeamB":"Fenerbahce","CodeTeamA":"MAD","CodeTeamB":"ULK",
		"ScoreA":"79","ScoreB":"84","Date":"03/10/2024","Hour":"20:00"}`

	result, err := parseBoxscore([]byte(box), []byte(header), "E2024_24", "2024-25")
	if err != nil {
		t.Fatalf("parseBoxscore: %v", err)
	}

	if result.Game.ExternalID != "E2024_24" || result.Game.Status != "final" {
		t.Fatalf("game = %+v", result.Game)
	}
	if result.Game.HomeTeamExternalID != "MAD" || result.Game.AwayTeamExternalID != "ULK" {
		t.Fatalf("team codes = %+v", result.Game)
	}
	if *result.Game.HomeScore != 79 || *result.Game.AwayScore != 84 {
		t.Fatalf("scores = %d %d", *result.Game.HomeScore, *result.Game.AwayScore)
	}

	if len(result.HomePlayers) != 1 {
		t.Fatalf("home players = %d", len(result.HomePlayers))
	}
	p := result.HomePlayers[0]
	if p.SecondsPlayed != 1626 || !p.IsStarter || p.Points != 22 {
		t.Fatalf("player = %+v", p)
	}
	if p.TwoPM != 6 || p.TwoPA != 8 || p.ThreePM != 1 || p.ThreePA != 4 || p.FTM != 7 || p.FTA != 8 {
		t.Fatalf("shooting = %+v", p)
	}
	if p.TotalRebounds != 5 || p.Efficiency != 30 {
		t.Fatalf("rebounds/valuation = %+v", p)
	}
	if p.PlayerName != "Luka Doncic" {
		t.Fatalf("player name = %q", p.PlayerName)
	}
	if p.TeamExternalID != "MAD" {
		t.Fatalf("player team = %q", p.TeamExternalID)
	}
}

func TestParseBoxscoreSkipsTotalsRows(t *testing.T) {
	t.Parallel()

	box := `{"Live":true,"Stats":[
		{"Team":"A","PlayersStats":[
			{"Player_ID":"P001","Player":"ONE, PLAYER","Points":10},
			{"Player_ID":"Total","Player":"Total","Points":10}]},
		{"Team":"B","PlayersStats":[{"Player_ID":"P002","Player":"TWO, PLAYER","Points":12}]}]}`

	result, err := parseBoxscore([]byte(box), nil, "E2024_1", "2024-25")
	if err != nil {
		t.Fatalf("parseBoxscore: %v", err)
	}
	if result.Game.Status == "final" {
		t.Fatal("live game mapped as final")
	}
	if len(result.HomePlayers) != 1 {
		t.Fatalf("totals row not skipped: %d home players", len(result.HomePlayers))
	}
	if *result.Game.HomeScore != 10 || *result.Game.AwayScore != 12 {
		t.Fatalf("derived scores = %d %d", *result.Game.HomeScore, *result.Game.AwayScore)
	}
}

func TestParsePBP(t *testing.T) {
	t.Parallel()

	doc := `{"Live":false,"CodeTeamA":"MAD","CodeTeamB":"ULK",
		"FirstQuarter":[
			{"CODETEAM":"MAD","PLAYER_ID":"P001","PLAYTYPE":"2FGM","DORSAL":"77","MARKERTIME":"09:45"},
			{"CODETEAM":"MAD","PLAYER_ID":"P003","PLAYTYPE":"AS","DORSAL":"4","MARKERTIME":"09:44"},
			{"CODETEAM":"ULK","PLAYER_ID":"P002","PLAYTYPE":"3FGA","DORSAL":"10","MARKERTIME":"09:30"},
			{"CODETEAM":"ULK","PLAYER_ID":"P004","PLAYTYPE":"D","DORSAL":"21","MARKERTIME":"09:28"},
			{"CODETEAM":"MAD","PLAYER_ID":"P001","PLAYTYPE":"TO","DORSAL":"77","MARKERTIME":"05:30"},
			{"CODETEAM":"ULK","PLAYER_ID":"P002","PLAYTYPE":"ST","DORSAL":"10","MARKERTIME":"05:29"},
			{"CODETEAM":"MAD","PLAYER_ID":"P001","PLAYTYPE":"UNKNOWNCODE","MARKERTIME":"05:00"}],
		"SecondQuarter":[
			{"CODETEAM":"ULK","PLAYER_ID":"P002","PLAYTYPE":"FTM","DORSAL":"10","MARKERTIME":"10:00"}]}`

	events, jerseys, err := parsePBP([]byte(doc), "E2024_24")
	if err != nil {
		t.Fatalf("parsePBP: %v", err)
	}

	if len(events) != 7 {
		t.Fatalf("parsePBP returned %d events, want 7", len(events))
	}
	for i, ev := range events {
		if ev.EventNumber != i+1 {
			t.Fatalf("event %d has number %d, want dense numbering", i, ev.EventNumber)
		}
	}

	if events[0].EventType != "shot" || events[0].Success == nil || !*events[0].Success {
		t.Fatalf("2FGM mapped to %+v", events[0])
	}
	if events[2].Success == nil || *events[2].Success {
		t.Fatalf("3FGA mapped to %+v", events[2])
	}

	// assist -> made shot, rebound -> missed shot, steal -> turnover.
	if events[1].RelatedEventNumbers == nil || events[1].RelatedEventNumbers[0] != 1 {
		t.Fatalf("assist links = %v", events[1].RelatedEventNumbers)
	}
	if events[3].RelatedEventNumbers == nil || events[3].RelatedEventNumbers[0] != 3 {
		t.Fatalf("rebound links = %v", events[3].RelatedEventNumbers)
	}
	if events[5].RelatedEventNumbers == nil || events[5].RelatedEventNumbers[0] != 5 {
		t.Fatalf("steal links = %v", events[5].RelatedEventNumbers)
	}
	if events[0].RelatedEventNumbers != nil || events[4].RelatedEventNumbers != nil {
		t.Fatal("source events must not carry links")
	}

	if events[6].Period != 2 {
		t.Fatalf("second quarter event period = %d", events[6].Period)
	}

	if jerseys["P001"] != 77 || jerseys["P002"] != 10 {
		t.Fatalf("jersey map = %v", jerseys)
	}
}
