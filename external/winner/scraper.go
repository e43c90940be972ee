package winner

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/courtsync/courtsync/internal/usecase"
)

// The league site ships two generations of markup. Newer pages use
// card-style blocks with label/value spans, older ones plain tables.
// Every parser tries the card layout first and falls back to tables.

// profileLabels normalizes the bilingual field labels seen on player
// pages to canonical keys.
var profileLabels = map[string]string{
	"height":        "height",
	"גובה":          "height",
	"date of birth": "birth",
	"born":          "birth",
	"birthdate":     "birth",
	"תאריך לידה":    "birth",
	"position":      "position",
	"עמדה":          "position",
	"תפקיד":         "position",
	"nationality":   "nationality",
	"citizenship":   "nationality",
	"אזרחות":        "nationality",
	"לאום":          "nationality",
	"jersey":        "jersey",
	"number":        "jersey",
	"shirt number":  "jersey",
	"מספר":          "jersey",
	"מספר חולצה":    "jersey",
}

// parsePlayerProfile extracts the biographical fields from a player page.
func parsePlayerProfile(data []byte, externalID string) (*usecase.RawPlayerInfo, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &usecase.ParseError{
			Source:       Source,
			ResourceType: resourcePage,
			ResourceID:   externalID,
			Raw:          abbreviateBody(data),
			Err:          err,
		}
	}

	fields := cardFields(root)
	if len(fields) == 0 {
		fields = tableFields(root)
	}

	info := &usecase.RawPlayerInfo{ExternalID: externalID}
	if name := headingText(root); name != "" {
		info.FirstName, info.LastName = usecase.SplitName(name)
	}
	for key, value := range fields {
		switch key {
		case "height":
			info.HeightCM = usecase.ParseHeightCM(value)
		case "birth":
			info.BirthDate = usecase.ParseBirthDate(value)
		case "position":
			info.Position = strings.TrimSpace(value)
		case "nationality":
			info.Nationality = strings.TrimSpace(value)
		case "jersey":
			info.JerseyNumber = parseJersey(strings.TrimPrefix(strings.TrimSpace(value), "#"))
		}
	}
	return info, nil
}

// parseTeamRoster extracts the player links from a team page. Profile
// details are fetched separately when requested.
func parseTeamRoster(data []byte, teamExternalID string) ([]usecase.RosterEntry, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &usecase.ParseError{
			Source:       Source,
			ResourceType: resourcePage,
			ResourceID:   teamExternalID,
			Raw:          abbreviateBody(data),
			Err:          err,
		}
	}

	entries := rosterFromCards(root)
	if len(entries) == 0 {
		entries = rosterFromLinks(root)
	}
	return entries, nil
}

func rosterFromCards(root *html.Node) []usecase.RosterEntry {
	out := make([]usecase.RosterEntry, 0, 16)
	seen := make(map[string]struct{}, 16)
	for _, card := range findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, "player-card")
	}) {
		link := firstLink(card, playerIDKeys)
		if link == nil {
			continue
		}
		id := linkID(link, playerIDKeys)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, usecase.RosterEntry{
			PlayerExternalID: id,
			PlayerName:       textContent(link),
		})
	}
	return out
}

func rosterFromLinks(root *html.Node) []usecase.RosterEntry {
	out := make([]usecase.RosterEntry, 0, 16)
	seen := make(map[string]struct{}, 16)
	for _, link := range findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a"
	}) {
		id := linkID(link, playerIDKeys)
		if id == "" {
			continue
		}
		name := textContent(link)
		if name == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, usecase.RosterEntry{PlayerExternalID: id, PlayerName: name})
	}
	return out
}

// parseHistoricalResults extracts finished games from a results page.
// Rows without a parseable score are skipped.
func parseHistoricalResults(data []byte, seasonExternalID string) ([]usecase.RawGame, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &usecase.ParseError{
			Source:       Source,
			ResourceType: resourcePage,
			ResourceID:   "results/" + seasonExternalID,
			Raw:          abbreviateBody(data),
			Err:          err,
		}
	}

	out := make([]usecase.RawGame, 0, 32)
	for _, row := range findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "tr"
	}) {
		game, ok := resultRow(row, seasonExternalID)
		if !ok {
			continue
		}
		out = append(out, game)
	}
	return out, nil
}

func resultRow(row *html.Node, seasonExternalID string) (usecase.RawGame, bool) {
	link := firstLink(row, gameIDKeys)
	if link == nil {
		return usecase.RawGame{}, false
	}
	gameID := linkID(link, gameIDKeys)
	if gameID == "" {
		return usecase.RawGame{}, false
	}

	cells := childElements(row, "td")
	var dateText, homeName, awayName, scoreText string
	for _, cell := range cells {
		text := textContent(cell)
		switch {
		case dateText == "" && looksLikeDate(text):
			dateText = text
		case looksLikeScore(text):
			scoreText = text
		case homeName == "" && text != "":
			homeName = text
		case awayName == "" && text != "":
			awayName = text
		}
	}

	home, away, ok := splitScore(scoreText)
	if !ok {
		return usecase.RawGame{}, false
	}
	return usecase.RawGame{
		ExternalID:       gameID,
		SeasonExternalID: seasonExternalID,
		HomeTeamName:     homeName,
		AwayTeamName:     awayName,
		GameDate:         usecase.ParseGameDate(dateText),
		Status:           "final",
		HomeScore:        &home,
		AwayScore:        &away,
	}, true
}

// statColumns maps box-score table headers to stat keys. Split columns
// like "6/8" carry made/attempted.
var statColumns = map[string]string{
	"min":  "minutes",
	"דקות": "minutes",
	"pts":  "points",
	"נק":   "points",
	"2p":   "two",
	"2pt":  "two",
	"3p":   "three",
	"3pt":  "three",
	"ft":   "ft",
	"or":   "oreb",
	"dr":   "dreb",
	"tr":   "treb",
	"reb":  "treb",
	"ast":  "assists",
	"stl":  "steals",
	"blk":  "blocks",
	"to":   "turnovers",
	"pf":   "fouls",
	"+/-":  "plusminus",
	"eff":  "efficiency",
}

// parseGameZoneBoxscore parses the game-zone page's per-team stat tables.
// It is the fallback path when the JSON box score endpoint has no data.
func parseGameZoneBoxscore(data []byte, gameID string) (*usecase.RawBoxScore, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &usecase.ParseError{
			Source:       Source,
			ResourceType: resourcePage,
			ResourceID:   "gamezone/" + gameID,
			Raw:          abbreviateBody(data),
			Err:          err,
		}
	}

	tables := findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "table"
	})

	var teams [][]usecase.RawPlayerStats
	for _, table := range tables {
		rows := boxscoreTable(table)
		if len(rows) > 0 {
			teams = append(teams, rows)
		}
	}
	if len(teams) < 2 {
		return nil, &usecase.ParseError{
			Source:       Source,
			ResourceType: resourcePage,
			ResourceID:   "gamezone/" + gameID,
			Raw:          abbreviateBody(data),
			Err:          errString("game zone page has fewer than two stat tables"),
		}
	}

	box := &usecase.RawBoxScore{
		Game:        usecase.RawGame{ExternalID: gameID},
		HomePlayers: teams[0],
		AwayPlayers: teams[1],
	}
	homePoints := sumPoints(box.HomePlayers)
	awayPoints := sumPoints(box.AwayPlayers)
	box.Game.HomeScore = &homePoints
	box.Game.AwayScore = &awayPoints
	return box, nil
}

func boxscoreTable(table *html.Node) []usecase.RawPlayerStats {
	headers := tableHeaders(table)
	if len(headers) == 0 {
		return nil
	}

	out := make([]usecase.RawPlayerStats, 0, 12)
	for _, row := range findAll(table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "tr"
	}) {
		cells := childElements(row, "td")
		if len(cells) < 2 {
			continue
		}
		stats, ok := boxscoreRow(headers, cells)
		if ok {
			out = append(out, stats)
		}
	}
	return out
}

func tableHeaders(table *html.Node) map[int]string {
	headers := make(map[int]string)
	ths := findAll(table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "th"
	})
	for i, th := range ths {
		label := strings.ToLower(strings.TrimSpace(textContent(th)))
		if key, ok := statColumns[label]; ok {
			headers[i] = key
		}
	}
	return headers
}

func boxscoreRow(headers map[int]string, cells []*html.Node) (usecase.RawPlayerStats, bool) {
	var stats usecase.RawPlayerStats
	for _, cell := range cells {
		if link := firstLink(cell, playerIDKeys); link != nil {
			stats.PlayerExternalID = linkID(link, playerIDKeys)
			stats.PlayerName = textContent(link)
			break
		}
	}
	if stats.PlayerExternalID == "" && stats.PlayerName == "" {
		return stats, false
	}

	for i, cell := range cells {
		key, ok := headers[i]
		if !ok {
			continue
		}
		text := strings.TrimSpace(textContent(cell))
		switch key {
		case "minutes":
			stats.SecondsPlayed = usecase.ParseMinutes(text)
		case "points":
			stats.Points = usecase.ParseOptionalInt(text)
		case "two":
			stats.TwoPM, stats.TwoPA = splitMadeAttempted(text)
		case "three":
			stats.ThreePM, stats.ThreePA = splitMadeAttempted(text)
		case "ft":
			stats.FTM, stats.FTA = splitMadeAttempted(text)
		case "oreb":
			stats.OffRebounds = usecase.ParseOptionalInt(text)
		case "dreb":
			stats.DefRebounds = usecase.ParseOptionalInt(text)
		case "treb":
			stats.TotalRebounds = usecase.ParseOptionalInt(text)
		case "assists":
			stats.Assists = usecase.ParseOptionalInt(text)
		case "steals":
			stats.Steals = usecase.ParseOptionalInt(text)
		case "blocks":
			stats.Blocks = usecase.ParseOptionalInt(text)
		case "turnovers":
			stats.Turnovers = usecase.ParseOptionalInt(text)
		case "fouls":
			stats.PersonalFouls = usecase.ParseOptionalInt(text)
		case "plusminus":
			stats.PlusMinus = usecase.ParseOptionalInt(text)
		case "efficiency":
			stats.Efficiency = usecase.ParseOptionalInt(text)
		}
	}
	if stats.TotalRebounds == 0 {
		stats.TotalRebounds = stats.OffRebounds + stats.DefRebounds
	}
	return stats, true
}

// splitMadeAttempted parses a "made/attempted" cell like "6/8". A bare
// number counts as both made and attempted.
func splitMadeAttempted(text string) (made, attempted int) {
	madePart, attemptedPart, found := strings.Cut(strings.TrimSpace(text), "/")
	if !found {
		value := usecase.ParseOptionalInt(text)
		return value, value
	}
	return usecase.ParseOptionalInt(strings.TrimSpace(madePart)),
		usecase.ParseOptionalInt(strings.TrimSpace(attemptedPart))
}

func sumPoints(rows []usecase.RawPlayerStats) int {
	total := 0
	for _, r := range rows {
		total += r.Points
	}
	return total
}

// HTML helpers.

var (
	playerIDKeys = []string{"player_id", "pID", "id"}
	gameIDKeys   = []string{"game_id", "gID"}
)

func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return out
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func childElements(n *html.Node, tag string) []*html.Node {
	return findAll(n, func(node *html.Node) bool {
		return node.Type == html.ElementNode && node.Data == tag
	})
}

func firstLink(n *html.Node, idKeys []string) *html.Node {
	for _, link := range childElements(n, "a") {
		if linkID(link, idKeys) != "" {
			return link
		}
	}
	return nil
}

// linkID pulls an id out of a link's query string, trying the given
// parameter names in order.
func linkID(link *html.Node, idKeys []string) string {
	href := attrValue(link, "href")
	_, query, found := strings.Cut(href, "?")
	if !found {
		return ""
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return ""
	}
	for _, key := range idKeys {
		if id := strings.TrimSpace(values.Get(key)); id != "" {
			return id
		}
	}
	return ""
}

func headingText(root *html.Node) string {
	for _, tag := range []string{"h1", "h2"} {
		for _, h := range childElements(root, tag) {
			if text := textContent(h); text != "" {
				return text
			}
		}
	}
	return ""
}

// cardFields collects label/value pairs from card-layout blocks.
func cardFields(root *html.Node) map[string]string {
	fields := make(map[string]string)
	for _, item := range findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && (hasClass(n, "profile-item") || hasClass(n, "player-details-item"))
	}) {
		var label, value string
		for child := item.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			switch {
			case hasClass(child, "label"), child.Data == "dt":
				label = textContent(child)
			case hasClass(child, "value"), child.Data == "dd":
				value = textContent(child)
			}
		}
		storeField(fields, label, value)
	}
	return fields
}

// tableFields collects label/value pairs from two-cell table rows.
func tableFields(root *html.Node) map[string]string {
	fields := make(map[string]string)
	for _, row := range findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "tr"
	}) {
		var cells []*html.Node
		for child := row.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && (child.Data == "td" || child.Data == "th") {
				cells = append(cells, child)
			}
		}
		if len(cells) != 2 {
			continue
		}
		storeField(fields, textContent(cells[0]), textContent(cells[1]))
	}
	return fields
}

func storeField(fields map[string]string, label, value string) {
	label = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(label), ":"))
	if label == "" || value == "" {
		return
	}
	if key, ok := profileLabels[label]; ok {
		if _, exists := fields[key]; !exists {
			fields[key] = value
		}
	}
}

func looksLikeDate(text string) bool {
	if text == "" {
		return false
	}
	return usecase.ParseBirthDate(text) != nil
}

func looksLikeScore(text string) bool {
	_, _, ok := splitScore(text)
	return ok
}

// splitScore parses "79-84" or "79:84" into home and away points.
func splitScore(text string) (home, away int, ok bool) {
	text = strings.TrimSpace(text)
	sep := "-"
	if !strings.Contains(text, sep) {
		sep = ":"
	}
	homePart, awayPart, found := strings.Cut(text, sep)
	if !found {
		return 0, 0, false
	}
	h := parseScore(homePart)
	a := parseScore(awayPart)
	if h == nil || a == nil {
		return 0, 0, false
	}
	return *h, *a, true
}
