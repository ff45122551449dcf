package teams

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Team is an NBA franchise
type Team struct {
	Abbreviation string `json:"abbreviation"`
	FullName     string `json:"full_name"`
	Nickname     string `json:"nickname"`
}

// minSimilarity is the Jaro-Winkler score a fuzzy name match must reach
const minSimilarity = 0.88

var directory = []Team{
	{"ATL", "Atlanta Hawks", "Hawks"},
	{"BOS", "Boston Celtics", "Celtics"},
	{"BKN", "Brooklyn Nets", "Nets"},
	{"CHA", "Charlotte Hornets", "Hornets"},
	{"CHI", "Chicago Bulls", "Bulls"},
	{"CLE", "Cleveland Cavaliers", "Cavaliers"},
	{"DAL", "Dallas Mavericks", "Mavericks"},
	{"DEN", "Denver Nuggets", "Nuggets"},
	{"DET", "Detroit Pistons", "Pistons"},
	{"GSW", "Golden State Warriors", "Warriors"},
	{"HOU", "Houston Rockets", "Rockets"},
	{"IND", "Indiana Pacers", "Pacers"},
	{"LAC", "LA Clippers", "Clippers"},
	{"LAL", "Los Angeles Lakers", "Lakers"},
	{"MEM", "Memphis Grizzlies", "Grizzlies"},
	{"MIA", "Miami Heat", "Heat"},
	{"MIL", "Milwaukee Bucks", "Bucks"},
	{"MIN", "Minnesota Timberwolves", "Timberwolves"},
	{"NOP", "New Orleans Pelicans", "Pelicans"},
	{"NYK", "New York Knicks", "Knicks"},
	{"OKC", "Oklahoma City Thunder", "Thunder"},
	{"ORL", "Orlando Magic", "Magic"},
	{"PHI", "Philadelphia 76ers", "76ers"},
	{"PHX", "Phoenix Suns", "Suns"},
	{"POR", "Portland Trail Blazers", "Trail Blazers"},
	{"SAC", "Sacramento Kings", "Kings"},
	{"SAS", "San Antonio Spurs", "Spurs"},
	{"TOR", "Toronto Raptors", "Raptors"},
	{"UTA", "Utah Jazz", "Jazz"},
	{"WAS", "Washington Wizards", "Wizards"},
}

// aliases maps abbreviations used by other sites to ours
var aliases = map[string]string{
	"BRK":  "BKN",
	"NJN":  "BKN",
	"CHO":  "CHA",
	"PHO":  "PHX",
	"GS":   "GSW",
	"NY":   "NYK",
	"SA":   "SAS",
	"NO":   "NOP",
	"NOH":  "NOP",
	"UTAH": "UTA",
	"WSH":  "WAS",
}

var byAbbreviation = func() map[string]Team {
	m := make(map[string]Team, len(directory))
	for _, team := range directory {
		m[team.Abbreviation] = team
	}
	return m
}()

// All returns the 30 franchises in directory order
func All() []Team {
	out := make([]Team, len(directory))
	copy(out, directory)
	return out
}

// ByAbbreviation looks up a team by canonical abbreviation or alias
func ByAbbreviation(abbr string) (Team, bool) {
	key := strings.ToUpper(strings.TrimSpace(abbr))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	team, ok := byAbbreviation[key]
	return team, ok
}

// Resolve maps free text scraped from a page (abbreviation, full name, nickname,
// logo alt text) to a team
func Resolve(text string) (Team, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Team{}, false
	}

	if team, ok := ByAbbreviation(text); ok {
		return team, true
	}

	lower := strings.ToLower(text)
	for _, team := range directory {
		if lower == strings.ToLower(team.FullName) || lower == strings.ToLower(team.Nickname) {
			return team, true
		}
	}

	// "Los Angeles Lakers logo", "LA Clippers Clippers" and similar
	for _, team := range directory {
		if strings.Contains(lower, strings.ToLower(team.FullName)) {
			return team, true
		}
	}
	// longest nickname wins so "Hornets" never resolves to "Nets"
	var nicknameMatch *Team
	for i := range directory {
		team := &directory[i]
		if !strings.Contains(lower, strings.ToLower(team.Nickname)) {
			continue
		}
		if nicknameMatch == nil || len(team.Nickname) > len(nicknameMatch.Nickname) {
			nicknameMatch = team
		}
	}
	if nicknameMatch != nil {
		return *nicknameMatch, true
	}

	best, bestScore := Team{}, 0.0
	for _, team := range directory {
		score := matchr.JaroWinkler(lower, strings.ToLower(team.FullName), false)
		if score > bestScore {
			best, bestScore = team, score
		}
	}
	if bestScore >= minSimilarity {
		return best, true
	}

	return Team{}, false
}
