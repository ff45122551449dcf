package store

import "time"

// Team is a franchise row
type Team struct {
	Abbreviation string    `json:"abbreviation" db:"abbreviation"`
	FullName     string    `json:"full_name" db:"full_name"`
	Nickname     string    `json:"nickname" db:"nickname"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SeasonInfo describes the stored snapshot for one season
type SeasonInfo struct {
	Season      string    `json:"season" db:"season"`
	PlayerCount int       `json:"player_count" db:"player_count"`
	DataSource  string    `json:"data_source" db:"data_source"`
	ScrapedAt   time.Time `json:"scraped_at" db:"scraped_at"`
}
