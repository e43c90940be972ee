package winner

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/courtsync/courtsync/internal/domain/league"
	"github.com/courtsync/courtsync/internal/domain/pbp"
	"github.com/courtsync/courtsync/internal/usecase"
)

// The league publishes one season-wide JSON dump; every schedule-level
// view (seasons, teams, games) is derived from it.

type winnerGame struct {
	GameID       string `json:"game_id"`
	Season       string `json:"season"`
	GameDate     string `json:"game_date"`
	GameTime     string `json:"game_time"`
	Team1        string `json:"team1"`
	Team2        string `json:"team2"`
	TeamName1    string `json:"team_name_1"`
	TeamName2    string `json:"team_name_2"`
	TeamNameEng1 string `json:"team_name_eng_1"`
	TeamNameEng2 string `json:"team_name_eng_2"`
	Score1       string `json:"score_team1"`
	Score2       string `json:"score_team2"`
}

type winnerGamesEnvelope struct {
	Games []winnerGame `json:"games"`
}

// parseAllGames accepts both the plain {games:[...]} document and the
// one-element list wrapper some mirrors serve.
func parseAllGames(data []byte) ([]winnerGame, error) {
	var envelope winnerGamesEnvelope
	if err := sonic.Unmarshal(data, &envelope); err == nil && len(envelope.Games) > 0 {
		return envelope.Games, nil
	}

	var wrapped []winnerGamesEnvelope
	if err := sonic.Unmarshal(data, &wrapped); err == nil && len(wrapped) > 0 {
		return wrapped[0].Games, nil
	}

	return nil, &usecase.ParseError{
		Source:       Source,
		ResourceType: resourceAllGames,
		ResourceID:   "all",
		Raw:          abbreviateBody(data),
		Err:          errUnrecognizedGamesShape,
	}
}

var errUnrecognizedGamesShape = errString("games document matches neither envelope nor list wrapper")

type errString string

func (e errString) Error() string { return string(e) }

// extractSeasons derives the distinct normalized seasons present in the
// dump, newest first.
func extractSeasons(games []winnerGame) []usecase.RawSeason {
	seen := make(map[string]string, 4)
	for _, g := range games {
		name, err := league.NormalizeSeasonName(g.Season)
		if err != nil {
			continue
		}
		if _, ok := seen[name]; !ok {
			seen[name] = g.Season
		}
	}

	out := make([]usecase.RawSeason, 0, len(seen))
	for name, sourceID := range seen {
		year, err := league.StartYear(name)
		if err != nil {
			continue
		}
		out = append(out, usecase.RawSeason{
			Name:       name,
			ExternalID: name,
			SourceID:   sourceID,
			StartDate:  seasonStart(year),
			EndDate:    seasonEnd(year),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out
}

// The Israeli league season runs October through June.
func seasonStart(startYear int) time.Time {
	return time.Date(startYear, time.October, 1, 0, 0, 0, 0, time.UTC)
}

func seasonEnd(startYear int) time.Time {
	return time.Date(startYear+1, time.June, 30, 0, 0, 0, 0, time.UTC)
}

// extractTeams accumulates the unique teams referenced by the games,
// preferring the explicit English name over the localized one. Teams
// without an external id are dropped.
func extractTeams(games []winnerGame, seasonName string) []usecase.RawTeam {
	names := make(map[string]string, 16)
	for _, g := range games {
		if seasonName != "" && !gameInSeason(g, seasonName) {
			continue
		}
		collectTeam(names, g.Team1, g.TeamNameEng1, g.TeamName1)
		collectTeam(names, g.Team2, g.TeamNameEng2, g.TeamName2)
	}

	out := make([]usecase.RawTeam, 0, len(names))
	for externalID, name := range names {
		out = append(out, usecase.RawTeam{ExternalID: externalID, Name: name})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out
}

func collectTeam(names map[string]string, externalID, engName, localName string) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return
	}
	name := strings.TrimSpace(engName)
	if name == "" {
		name = strings.TrimSpace(localName)
	}
	if name == "" {
		return
	}
	if current, ok := names[externalID]; !ok || (strings.TrimSpace(engName) != "" && current != name) {
		names[externalID] = name
	}
}

func gameInSeason(g winnerGame, seasonName string) bool {
	normalized, err := league.NormalizeSeasonName(g.Season)
	if err != nil {
		return false
	}
	return normalized == seasonName
}

// mapSchedule maps the dump's games for one season, in stable id order.
func mapSchedule(games []winnerGame, seasonName string) []usecase.RawGame {
	out := make([]usecase.RawGame, 0, len(games))
	for _, g := range games {
		if strings.TrimSpace(g.GameID) == "" {
			continue
		}
		if seasonName != "" && !gameInSeason(g, seasonName) {
			continue
		}

		raw := usecase.RawGame{
			ExternalID:         strings.TrimSpace(g.GameID),
			SeasonExternalID:   seasonName,
			HomeTeamExternalID: strings.TrimSpace(g.Team1),
			AwayTeamExternalID: strings.TrimSpace(g.Team2),
			HomeTeamName:       pickName(g.TeamNameEng1, g.TeamName1),
			AwayTeamName:       pickName(g.TeamNameEng2, g.TeamName2),
			GameDate:           usecase.ParseGameDate(joinDateTime(g.GameDate, g.GameTime)),
			HomeScore:          parseScore(g.Score1),
			AwayScore:          parseScore(g.Score2),
		}
		if raw.SeasonExternalID == "" {
			if normalized, err := league.NormalizeSeasonName(g.Season); err == nil {
				raw.SeasonExternalID = normalized
			}
		}
		out = append(out, raw)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].GameDate.Equal(out[j].GameDate) {
			return out[i].GameDate.Before(out[j].GameDate)
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out
}

func pickName(engName, localName string) string {
	if name := strings.TrimSpace(engName); name != "" {
		return name
	}
	return strings.TrimSpace(localName)
}

func joinDateTime(date, clock string) string {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return ""
	}
	if clock == "" {
		return date
	}
	return date + " " + clock
}

func parseScore(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	score, err := strconv.Atoi(value)
	if err != nil || score < 0 {
		return nil
	}
	return &score
}

// Box score wire shapes: the legacy flat document and the JSON-RPC
// envelope. Selection is structural.

type winnerBoxPlayer struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Jersey     string `json:"jersey"`
	Minutes    string `json:"minutes"`
	Starter    bool   `json:"starter"`
	Points     string `json:"points"`
	FG2M       string `json:"fg_2m"`
	FG2Mis     string `json:"fg_2mis"`
	FG3M       string `json:"fg_3m"`
	FG3Mis     string `json:"fg_3mis"`
	FTM        string `json:"ft_m"`
	FTMis      string `json:"ft_mis"`
	RebD       string `json:"reb_d"`
	RebO       string `json:"reb_o"`
	Ast        string `json:"ast"`
	Stl        string `json:"stl"`
	Blk        string `json:"blk"`
	TO         string `json:"to"`
	Fouls      string `json:"f"`
	PlusMinus  string `json:"plusMinus"`
	Eff        string `json:"eff"`
}

type winnerBoxTeam struct {
	TeamID   string            `json:"teamId"`
	TeamName string            `json:"teamName"`
	Score    string            `json:"score"`
	Players  []winnerBoxPlayer `json:"players"`
}

type winnerGameInfo struct {
	GameID       string `json:"gameId"`
	HomeTeamID   string `json:"homeTeamId"`
	AwayTeamID   string `json:"awayTeamId"`
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamName string `json:"awayTeamName"`
	HomeScore    string `json:"homeScore"`
	AwayScore    string `json:"awayScore"`
	GameFinished bool   `json:"gameFinished"`
	GameDate     string `json:"gameDate"`
}

type winnerBoxDocument struct {
	GameInfo winnerGameInfo `json:"gameInfo"`
	HomeTeam winnerBoxTeam  `json:"homeTeam"`
	AwayTeam winnerBoxTeam  `json:"awayTeam"`
}

type winnerBoxEnvelope struct {
	Result *struct {
		Boxscore *winnerBoxDocument `json:"boxscore"`
	} `json:"result"`
}

type winnerFlatBox struct {
	GameID   string        `json:"GameId"`
	HomeTeam winnerBoxTeam `json:"HomeTeam"`
	AwayTeam winnerBoxTeam `json:"AwayTeam"`
}

// parseBoxscore accepts both wire shapes and maps them to the canonical
// box score.
func parseBoxscore(data []byte, gameID string) (*usecase.RawBoxScore, error) {
	var envelope winnerBoxEnvelope
	if err := sonic.Unmarshal(data, &envelope); err == nil && envelope.Result != nil && envelope.Result.Boxscore != nil {
		return mapBoxDocument(*envelope.Result.Boxscore, gameID), nil
	}

	var flat winnerFlatBox
	if err := sonic.Unmarshal(data, &flat); err == nil && (flat.GameID != "" || len(flat.HomeTeam.Players) > 0) {
		doc := winnerBoxDocument{
			GameInfo: winnerGameInfo{
				GameID:       flat.GameID,
				HomeTeamID:   flat.HomeTeam.TeamID,
				AwayTeamID:   flat.AwayTeam.TeamID,
				HomeTeamName: flat.HomeTeam.TeamName,
				AwayTeamName: flat.AwayTeam.TeamName,
				HomeScore:    flat.HomeTeam.Score,
				AwayScore:    flat.AwayTeam.Score,
			},
			HomeTeam: flat.HomeTeam,
			AwayTeam: flat.AwayTeam,
		}
		return mapBoxDocument(doc, gameID), nil
	}

	return nil, &usecase.ParseError{
		Source:       Source,
		ResourceType: resourceBoxscore,
		ResourceID:   gameID,
		Raw:          abbreviateBody(data),
		Err:          errString("box score matches neither envelope nor flat layout"),
	}
}

func mapBoxDocument(doc winnerBoxDocument, fallbackGameID string) *usecase.RawBoxScore {
	info := doc.GameInfo
	externalID := strings.TrimSpace(info.GameID)
	if externalID == "" {
		externalID = fallbackGameID
	}

	game := usecase.RawGame{
		ExternalID:         externalID,
		HomeTeamExternalID: strings.TrimSpace(info.HomeTeamID),
		AwayTeamExternalID: strings.TrimSpace(info.AwayTeamID),
		HomeTeamName:       strings.TrimSpace(info.HomeTeamName),
		AwayTeamName:       strings.TrimSpace(info.AwayTeamName),
		HomeScore:          parseScore(info.HomeScore),
		AwayScore:          parseScore(info.AwayScore),
	}
	if info.GameDate != "" {
		game.GameDate = usecase.ParseGameDate(info.GameDate)
	}
	if info.GameFinished {
		game.Status = "final"
	}

	home := make([]usecase.RawPlayerStats, 0, len(doc.HomeTeam.Players))
	for _, p := range doc.HomeTeam.Players {
		home = append(home, mapBoxPlayer(p, game.HomeTeamExternalID))
	}
	away := make([]usecase.RawPlayerStats, 0, len(doc.AwayTeam.Players))
	for _, p := range doc.AwayTeam.Players {
		away = append(away, mapBoxPlayer(p, game.AwayTeamExternalID))
	}

	return &usecase.RawBoxScore{Game: game, HomePlayers: home, AwayPlayers: away}
}

func mapBoxPlayer(p winnerBoxPlayer, teamExternalID string) usecase.RawPlayerStats {
	twoM := usecase.ParseOptionalInt(p.FG2M)
	twoMis := usecase.ParseOptionalInt(p.FG2Mis)
	threeM := usecase.ParseOptionalInt(p.FG3M)
	threeMis := usecase.ParseOptionalInt(p.FG3Mis)
	ftM := usecase.ParseOptionalInt(p.FTM)
	ftMis := usecase.ParseOptionalInt(p.FTMis)
	rebO := usecase.ParseOptionalInt(p.RebO)
	rebD := usecase.ParseOptionalInt(p.RebD)

	stats := usecase.RawPlayerStats{
		PlayerExternalID: strings.TrimSpace(p.PlayerID),
		PlayerName:       strings.TrimSpace(p.PlayerName),
		TeamExternalID:   teamExternalID,
		JerseyNumber:     parseJersey(p.Jersey),
		SecondsPlayed:    usecase.ParseMinutes(p.Minutes),
		IsStarter:        p.Starter,
		Points:           usecase.ParseOptionalInt(p.Points),
		TwoPM:            twoM,
		TwoPA:            twoM + twoMis,
		ThreePM:          threeM,
		ThreePA:          threeM + threeMis,
		FTM:              ftM,
		FTA:              ftM + ftMis,
		OffRebounds:      rebO,
		DefRebounds:      rebD,
		TotalRebounds:    rebO + rebD,
		Assists:          usecase.ParseOptionalInt(p.Ast),
		Steals:           usecase.ParseOptionalInt(p.Stl),
		Blocks:           usecase.ParseOptionalInt(p.Blk),
		Turnovers:        usecase.ParseOptionalInt(p.TO),
		PersonalFouls:    usecase.ParseOptionalInt(p.Fouls),
		PlusMinus:        usecase.ParseOptionalInt(p.PlusMinus),
	}
	if p.Eff != "" {
		stats.Efficiency = usecase.ParseOptionalInt(p.Eff)
	} else {
		stats.Efficiency = computeEfficiency(stats)
	}
	return stats
}

func computeEfficiency(s usecase.RawPlayerStats) int {
	missedField := (s.TwoPA - s.TwoPM) + (s.ThreePA - s.ThreePM)
	missedFT := s.FTA - s.FTM
	return s.Points + s.TotalRebounds + s.Assists + s.Steals + s.Blocks -
		missedField - missedFT - s.Turnovers
}

func parseJersey(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	jersey, err := strconv.Atoi(value)
	if err != nil || jersey < 0 {
		return nil
	}
	return &jersey
}

// Play-by-play wire shape.

type winnerAction struct {
	Type        string            `json:"type"`
	Quarter     int               `json:"quarter"`
	QuarterTime string            `json:"quarterTime"`
	PlayerID    string            `json:"playerId"`
	TeamID      string            `json:"teamId"`
	Parameters  map[string]string `json:"parameters"`
}

type winnerPBPRoster struct {
	Players []struct {
		PlayerID string `json:"playerId"`
		Jersey   string `json:"jersey"`
	} `json:"players"`
}

type winnerPBPEnvelope struct {
	Result *struct {
		GameInfo struct {
			HomeTeam winnerPBPRoster `json:"homeTeam"`
			AwayTeam winnerPBPRoster `json:"awayTeam"`
		} `json:"gameInfo"`
		Actions []winnerAction `json:"actions"`
	} `json:"result"`
}

// winnerActionTypes maps the provider's action codes to canonical event
// types. Shot success rides in the parameters.
var winnerActionTypes = map[string]struct {
	eventType string
	subtype   string
}{
	"2points":      {pbp.EventShot, "2pt"},
	"3points":      {pbp.EventShot, "3pt"},
	"freethrow":    {pbp.EventFreeThrow, ""},
	"rebound":      {pbp.EventRebound, ""},
	"assist":       {pbp.EventAssist, ""},
	"turnover":     {pbp.EventTurnover, ""},
	"steal":        {pbp.EventSteal, ""},
	"block":        {pbp.EventBlock, ""},
	"foul":         {pbp.EventFoul, ""},
	"substitution": {pbp.EventSubstitution, ""},
	"timeout":      {pbp.EventTimeout, ""},
	"jumpball":     {pbp.EventJumpBall, ""},
	"startperiod":  {pbp.EventBeginPeriod, ""},
	"endperiod":    {pbp.EventEndPeriod, ""},
}

// parsePBP maps the action feed to canonical events with dense 1-based
// numbers and inferred related-event links, plus the PBP-internal player
// id to jersey map.
func parsePBP(data []byte, gameID string) ([]usecase.RawPBPEvent, map[string]int, error) {
	var envelope winnerPBPEnvelope
	if err := sonic.Unmarshal(data, &envelope); err != nil || envelope.Result == nil {
		parseErr := &usecase.ParseError{
			Source:       Source,
			ResourceType: resourcePBP,
			ResourceID:   gameID,
			Raw:          abbreviateBody(data),
		}
		if err != nil {
			parseErr.Err = err
		} else {
			parseErr.Err = errString("pbp document has no result envelope")
		}
		return nil, nil, parseErr
	}

	jerseys := make(map[string]int, 32)
	for _, roster := range []winnerPBPRoster{
		envelope.Result.GameInfo.HomeTeam,
		envelope.Result.GameInfo.AwayTeam,
	} {
		for _, p := range roster.Players {
			if jersey := parseJersey(p.Jersey); jersey != nil && p.PlayerID != "" {
				jerseys[p.PlayerID] = *jersey
			}
		}
	}

	events := make([]usecase.RawPBPEvent, 0, len(envelope.Result.Actions))
	for _, action := range envelope.Result.Actions {
		mapping, ok := winnerActionTypes[strings.ToLower(strings.TrimSpace(action.Type))]
		if !ok {
			continue
		}
		if action.Quarter < 1 {
			continue
		}

		event := usecase.RawPBPEvent{
			EventNumber:      len(events) + 1,
			Period:           action.Quarter,
			Clock:            strings.TrimSpace(action.QuarterTime),
			EventType:        mapping.eventType,
			EventSubtype:     mapping.subtype,
			TeamExternalID:   strings.TrimSpace(action.TeamID),
			PlayerExternalID: strings.TrimSpace(action.PlayerID),
		}
		applyActionParameters(&event, action.Parameters)
		events = append(events, event)
	}

	usecase.InferPBPLinks(events)
	return events, jerseys, nil
}

func applyActionParameters(event *usecase.RawPBPEvent, params map[string]string) {
	if params == nil {
		return
	}
	switch event.EventType {
	case pbp.EventShot, pbp.EventFreeThrow:
		if made, ok := params["made"]; ok {
			success := made == "1" || strings.EqualFold(made, "true")
			event.Success = &success
		}
	case pbp.EventRebound:
		if kind, ok := params["kind"]; ok {
			event.EventSubtype = strings.ToLower(strings.TrimSpace(kind))
		}
	}
	if x, ok := parseCoord(params["coord_x"]); ok {
		event.CoordX = &x
	}
	if y, ok := parseCoord(params["coord_y"]); ok {
		event.CoordY = &y
	}
}

func parseCoord(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	coord, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return coord, true
}
