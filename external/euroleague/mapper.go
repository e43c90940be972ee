package euroleague

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/bytedance/sonic"

	"github.com/courtsync/courtsync/internal/domain/league"
	"github.com/courtsync/courtsync/internal/domain/pbp"
	"github.com/courtsync/courtsync/internal/usecase"
)

// Season codes are the one-letter competition tag concatenated with the
// start year, e.g. E2024. Game external ids are seasonCode_gamecode.

// SeasonForYear builds the canonical season record for a competition
// year. The competition runs October through May.
func SeasonForYear(year int, competition string) usecase.RawSeason {
	name := league.SeasonName(year)
	return usecase.RawSeason{
		Name:       name,
		ExternalID: name,
		SourceID:   seasonCode(year, competition),
		StartDate:  time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(year+1, time.May, 31, 0, 0, 0, 0, time.UTC),
	}
}

func seasonCode(year int, competition string) string {
	competition = strings.ToUpper(strings.TrimSpace(competition))
	if competition == "" {
		competition = "E"
	}
	return fmt.Sprintf("%s%d", competition, year)
}

// seasonCodeFor derives the provider season code from a normalized
// season name.
func seasonCodeFor(seasonName, competition string) (string, error) {
	year, err := league.StartYear(seasonName)
	if err != nil {
		return "", err
	}
	return seasonCode(year, competition), nil
}

// gameExternalID joins season code and game code into the composite
// external id, e.g. E2024_24.
func gameExternalID(code, gameCode string) string {
	return code + "_" + gameCode
}

// splitGameExternalID is the inverse of gameExternalID.
func splitGameExternalID(externalID string) (seasonCode, gameCode string, err error) {
	seasonCode, gameCode, found := strings.Cut(externalID, "_")
	if !found || seasonCode == "" || gameCode == "" {
		return "", "", fmt.Errorf("%w: malformed game external id %q", usecase.ErrInvalidInput, externalID)
	}
	return seasonCode, gameCode, nil
}

// XML feed shapes.

type clubsDocument struct {
	XMLName xml.Name  `xml:"clubs"`
	Clubs   []clubXML `xml:"club"`
}

type clubXML struct {
	Code        string `xml:"code,attr"`
	TVCode      string `xml:"tvcode,attr"`
	Name        string `xml:"name,attr"`
	CountryName string `xml:"countryname"`
	ClubName    string `xml:"clubname"`
}

func parseTeams(data []byte, seasonCode string) ([]usecase.RawTeam, error) {
	var doc clubsDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &usecase.ParseError{
			Source:       Source,
			ResourceType: resourceTeams,
			ResourceID:   seasonCode,
			Raw:          abbreviateBody(data),
			Err:          err,
		}
	}

	out := make([]usecase.RawTeam, 0, len(doc.Clubs))
	for _, club := range doc.Clubs {
		code := strings.TrimSpace(club.Code)
		if code == "" {
			continue
		}
		name := strings.TrimSpace(club.Name)
		if name == "" {
			name = strings.TrimSpace(club.ClubName)
		}
		if name == "" {
			continue
		}
		out = append(out, usecase.RawTeam{
			ExternalID: code,
			Name:       name,
			ShortName:  strings.TrimSpace(club.TVCode),
			Country:    strings.TrimSpace(club.CountryName),
		})
	}
	return out, nil
}

type scheduleDocument struct {
	XMLName xml.Name          `xml:"schedule"`
	Items   []scheduleItemXML `xml:"item"`
}

type scheduleItemXML struct {
	GameCode  string `xml:"gamecode"`
	Date      string `xml:"date"`
	StartTime string `xml:"startime"`
	HomeCode  string `xml:"homecode"`
	HomeTeam  string `xml:"hometeam"`
	HomeScore string `xml:"homescore"`
	AwayCode  string `xml:"awaycode"`
	AwayTeam  string `xml:"awayteam"`
	AwayScore string `xml:"awayscore"`
	Played    string `xml:"played"`
}

func parseSchedule(data []byte, code, seasonName string) ([]usecase.RawGame, error) {
	var doc scheduleDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &usecase.ParseError{
			Source:       Source,
			ResourceType: resourceSchedule,
			ResourceID:   code,
			Raw:          abbreviateBody(data),
			Err:          err,
		}
	}

	out := make([]usecase.RawGame, 0, len(doc.Items))
	for _, item := range doc.Items {
		gameCode := strings.TrimSpace(item.GameCode)
		if gameCode == "" {
			continue
		}

		raw := usecase.RawGame{
			ExternalID:         gameExternalID(code, gameCode),
			SeasonExternalID:   seasonName,
			HomeTeamExternalID: strings.TrimSpace(item.HomeCode),
			AwayTeamExternalID: strings.TrimSpace(item.AwayCode),
			HomeTeamName:       strings.TrimSpace(item.HomeTeam),
			AwayTeamName:       strings.TrimSpace(item.AwayTeam),
			GameDate:           parseFeedDate(item.Date, item.StartTime),
			HomeScore:          parseScore(item.HomeScore),
			AwayScore:          parseScore(item.AwayScore),
		}
		if strings.EqualFold(strings.TrimSpace(item.Played), "true") {
			raw.Status = "final"
		}
		out = append(out, raw)
	}
	return out, nil
}

// The feed renders dates like "Oct 3, 2024" with a separate start time.
func parseFeedDate(date, startTime string) time.Time {
	date = strings.TrimSpace(date)
	startTime = strings.TrimSpace(startTime)
	combined := date
	layout := "Jan 2, 2006"
	if startTime != "" {
		combined = date + " " + startTime
		layout = "Jan 2, 2006 15:04"
	}
	if t, err := time.Parse(layout, combined); err == nil {
		return t
	}
	return usecase.ParseGameDate(date)
}

type playersDocument struct {
	XMLName xml.Name    `xml:"players"`
	Players []playerXML `xml:"player"`
}

type playerXML struct {
	Code      string `xml:"code"`
	Name      string `xml:"name"`
	Height    string `xml:"height"`
	BirthDate string `xml:"birthdate"`
	Country   string `xml:"country"`
	Position  string `xml:"position"`
	Dorsal    string `xml:"dorsal"`
	ClubCode  string `xml:"clubcode"`
}

func parsePlayers(data []byte, resourceID string) ([]usecase.RawPlayerInfo, error) {
	var doc playersDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &usecase.ParseError{
			Source:       Source,
			ResourceType: resourcePlayer,
			ResourceID:   resourceID,
			Raw:          abbreviateBody(data),
			Err:          err,
		}
	}

	out := make([]usecase.RawPlayerInfo, 0, len(doc.Players))
	for _, p := range doc.Players {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			continue
		}
		first, last := splitFeedName(p.Name)
		info := usecase.RawPlayerInfo{
			ExternalID:     code,
			FirstName:      first,
			LastName:       last,
			BirthDate:      usecase.ParseBirthDate(p.BirthDate),
			HeightCM:       usecase.ParseHeightCM(p.Height),
			Position:       strings.TrimSpace(p.Position),
			Nationality:    strings.TrimSpace(p.Country),
			TeamExternalID: strings.TrimSpace(p.ClubCode),
		}
		if dorsal := parseScore(p.Dorsal); dorsal != nil {
			info.JerseyNumber = dorsal
		}
		out = append(out, info)
	}
	return out, nil
}

// splitFeedName handles the feed's "LAST, FIRST" convention.
func splitFeedName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if lastPart, firstPart, found := strings.Cut(name, ","); found {
		return titleCase(firstPart), titleCase(lastPart)
	}
	return usecase.SplitName(name)
}

// titleCase lowers the feed's all-caps names to title form per word.
func titleCase(raw string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Live JSON shapes.

type liveBoxscore struct {
	Live  bool `json:"Live"`
	Stats []struct {
		Team         string            `json:"Team"`
		PlayersStats []livePlayerStats `json:"PlayersStats"`
	} `json:"Stats"`
}

type livePlayerStats struct {
	PlayerID             string `json:"Player_ID"`
	Player               string `json:"Player"`
	Team                 string `json:"Team"`
	Dorsal               string `json:"Dorsal"`
	IsStarter            int    `json:"IsStarter"`
	Minutes              string `json:"Minutes"`
	Points               int    `json:"Points"`
	FieldGoalsMade2      int    `json:"FieldGoalsMade2"`
	FieldGoalsAttempted2 int    `json:"FieldGoalsAttempted2"`
	FieldGoalsMade3      int    `json:"FieldGoalsMade3"`
	FieldGoalsAttempted3 int    `json:"FieldGoalsAttempted3"`
	FreeThrowsMade       int    `json:"FreeThrowsMade"`
	FreeThrowsAttempted  int    `json:"FreeThrowsAttempted"`
	OffensiveRebounds    int    `json:"OffensiveRebounds"`
	DefensiveRebounds    int    `json:"DefensiveRebounds"`
	TotalRebounds        int    `json:"TotalRebounds"`
	Assistances          int    `json:"Assistances"`
	Steals               int    `json:"Steals"`
	Turnovers            int    `json:"Turnovers"`
	BlocksFavour         int    `json:"BlocksFavour"`
	FoulsCommited        int    `json:"FoulsCommited"`
	Valuation            int    `json:"Valuation"`
	Plusminus            int    `json:"Plusminus"`
}

type liveHeader struct {
	TeamA     string `json:"TeamA"`
	TeamB     string `json:"TeamB"`
	CodeTeamA string `json:"CodeTeamA"`
	CodeTeamB string `json:"CodeTeamB"`
	ScoreA    string `json:"ScoreA"`
	ScoreB    string `json:"ScoreB"`
	Date      string `json:"Date"`
	Hour      string `json:"Hour"`
	Live      bool   `json:"Live"`
}

// parseBoxscore maps the live box score plus header metadata to the
// canonical box score.
func parseBoxscore(boxData, headerData []byte, externalID, seasonName string) (*usecase.RawBoxScore, error) {
	var doc liveBoxscore
	if err := sonic.Unmarshal(boxData, &doc); err != nil || len(doc.Stats) < 2 {
		parseErr := &usecase.ParseError{
			Source:       Source,
			ResourceType: resourceBoxscore,
			ResourceID:   externalID,
			Raw:          abbreviateBody(boxData),
		}
		if err != nil {
			parseErr.Err = err
		} else {
			parseErr.Err = fmt.Errorf("box score has %d team blocks, want 2", len(doc.Stats))
		}
		return nil, parseErr
	}

	box := &usecase.RawBoxScore{
		Game: usecase.RawGame{
			ExternalID:       externalID,
			SeasonExternalID: seasonName,
		},
	}
	if !doc.Live {
		box.Game.Status = "final"
	}

	if headerData != nil {
		var header liveHeader
		if err := sonic.Unmarshal(headerData, &header); err == nil {
			box.Game.HomeTeamExternalID = strings.TrimSpace(header.CodeTeamA)
			box.Game.AwayTeamExternalID = strings.TrimSpace(header.CodeTeamB)
			box.Game.HomeTeamName = strings.TrimSpace(header.TeamA)
			box.Game.AwayTeamName = strings.TrimSpace(header.TeamB)
			box.Game.HomeScore = parseScore(header.ScoreA)
			box.Game.AwayScore = parseScore(header.ScoreB)
			box.Game.GameDate = parseHeaderDate(header.Date, header.Hour)
		}
	}

	box.HomePlayers = mapLivePlayers(doc.Stats[0].PlayersStats, box.Game.HomeTeamExternalID)
	box.AwayPlayers = mapLivePlayers(doc.Stats[1].PlayersStats, box.Game.AwayTeamExternalID)

	if box.Game.HomeScore == nil {
		home := teamPoints(box.HomePlayers)
		away := teamPoints(box.AwayPlayers)
		box.Game.HomeScore = &home
		box.Game.AwayScore = &away
	}
	return box, nil
}

func parseHeaderDate(date, hour string) time.Time {
	date = strings.TrimSpace(date)
	hour = strings.TrimSpace(hour)
	if date == "" {
		return time.Time{}
	}
	if hour != "" {
		return usecase.ParseGameDate(date + " " + hour)
	}
	return usecase.ParseGameDate(date)
}

func mapLivePlayers(rows []livePlayerStats, teamExternalID string) []usecase.RawPlayerStats {
	out := make([]usecase.RawPlayerStats, 0, len(rows))
	for _, row := range rows {
		id := strings.TrimSpace(row.PlayerID)
		if id == "" || strings.EqualFold(id, "Total") || strings.EqualFold(id, "Team") {
			continue
		}
		first, last := splitFeedName(row.Player)
		out = append(out, usecase.RawPlayerStats{
			PlayerExternalID: id,
			PlayerName:       strings.TrimSpace(first + " " + last),
			TeamExternalID:   teamExternalID,
			JerseyNumber:     parseScore(row.Dorsal),
			SecondsPlayed:    usecase.ParseMinutes(row.Minutes),
			IsStarter:        row.IsStarter == 1,
			Points:           row.Points,
			TwoPM:            row.FieldGoalsMade2,
			TwoPA:            row.FieldGoalsAttempted2,
			ThreePM:          row.FieldGoalsMade3,
			ThreePA:          row.FieldGoalsAttempted3,
			FTM:              row.FreeThrowsMade,
			FTA:              row.FreeThrowsAttempted,
			OffRebounds:      row.OffensiveRebounds,
			DefRebounds:      row.DefensiveRebounds,
			TotalRebounds:    row.TotalRebounds,
			Assists:          row.Assistances,
			Steals:           row.Steals,
			Blocks:           row.BlocksFavour,
			Turnovers:        row.Turnovers,
			PersonalFouls:    row.FoulsCommited,
			PlusMinus:        row.Plusminus,
			Efficiency:       row.Valuation,
		})
	}
	return out
}

func teamPoints(rows []usecase.RawPlayerStats) int {
	total := 0
	for _, r := range rows {
		total += r.Points
	}
	return total
}

type livePlayByPlay struct {
	Live          bool           `json:"Live"`
	CodeTeamA     string         `json:"CodeTeamA"`
	CodeTeamB     string         `json:"CodeTeamB"`
	FirstQuarter  []livePBPEntry `json:"FirstQuarter"`
	SecondQuarter []livePBPEntry `json:"SecondQuarter"`
	ThirdQuarter  []livePBPEntry `json:"ThirdQuarter"`
	// The upstream field is spelled this way.
	ForthQuarter []livePBPEntry `json:"ForthQuarter"`
	ExtraTime    []livePBPEntry `json:"ExtraTime"`
}

type livePBPEntry struct {
	CodeTeam   string `json:"CODETEAM"`
	PlayerID   string `json:"PLAYER_ID"`
	PlayType   string `json:"PLAYTYPE"`
	Player     string `json:"PLAYER"`
	Dorsal     string `json:"DORSAL"`
	MarkerTime string `json:"MARKERTIME"`
}

// playTypeMap translates the provider's play codes to canonical events.
// Codes for the passive side of a play (AG, RV) are dropped, the event
// belongs to the acting player.
var playTypeMap = map[string]struct {
	eventType string
	subtype   string
	success   *bool
}{
	"2FGM":  {pbp.EventShot, "2pt", boolPtr(true)},
	"2FGA":  {pbp.EventShot, "2pt", boolPtr(false)},
	"3FGM":  {pbp.EventShot, "3pt", boolPtr(true)},
	"3FGA":  {pbp.EventShot, "3pt", boolPtr(false)},
	"FTM":   {pbp.EventFreeThrow, "", boolPtr(true)},
	"FTA":   {pbp.EventFreeThrow, "", boolPtr(false)},
	"O":     {pbp.EventRebound, "offensive", nil},
	"D":     {pbp.EventRebound, "defensive", nil},
	"AS":    {pbp.EventAssist, "", nil},
	"TO":    {pbp.EventTurnover, "", nil},
	"ST":    {pbp.EventSteal, "", nil},
	"FV":    {pbp.EventBlock, "", nil},
	"CM":    {pbp.EventFoul, "", nil},
	"IN":    {pbp.EventSubstitution, "in", nil},
	"OUT":   {pbp.EventSubstitution, "out", nil},
	"TOUT":  {pbp.EventTimeout, "", nil},
	"JB":    {pbp.EventJumpBall, "", nil},
	"TPOFF": {pbp.EventTipOff, "", nil},
	"BP":    {pbp.EventBeginPeriod, "", nil},
	"EP":    {pbp.EventEndPeriod, "", nil},
	"EG":    {pbp.EventEndPeriod, "game", nil},
}

func boolPtr(v bool) *bool { return &v }

// parsePBP flattens the per-quarter arrays into one dense event list
// with inferred links, plus the player id to dorsal map.
func parsePBP(data []byte, externalID string) ([]usecase.RawPBPEvent, map[string]int, error) {
	var doc livePlayByPlay
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, nil, &usecase.ParseError{
			Source:       Source,
			ResourceType: resourcePBP,
			ResourceID:   externalID,
			Raw:          abbreviateBody(data),
			Err:          err,
		}
	}

	quarters := [][]livePBPEntry{
		doc.FirstQuarter,
		doc.SecondQuarter,
		doc.ThirdQuarter,
		doc.ForthQuarter,
		doc.ExtraTime,
	}

	jerseys := make(map[string]int, 32)
	events := make([]usecase.RawPBPEvent, 0, 64)
	for quarterIdx, entries := range quarters {
		period := quarterIdx + 1
		for _, entry := range entries {
			playerID := strings.TrimSpace(entry.PlayerID)
			if playerID != "" {
				if dorsal := parseScore(entry.Dorsal); dorsal != nil {
					jerseys[playerID] = *dorsal
				}
			}

			mapping, ok := playTypeMap[strings.ToUpper(strings.TrimSpace(entry.PlayType))]
			if !ok {
				continue
			}
			events = append(events, usecase.RawPBPEvent{
				EventNumber:      len(events) + 1,
				Period:           period,
				Clock:            strings.TrimSpace(entry.MarkerTime),
				EventType:        mapping.eventType,
				EventSubtype:     mapping.subtype,
				TeamExternalID:   strings.TrimSpace(entry.CodeTeam),
				PlayerExternalID: playerID,
				Success:          mapping.success,
			})
		}
	}

	usecase.InferPBPLinks(events)
	return events, jerseys, nil
}

func parseScore(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return nil
	}
	return &parsed
}
