package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/store"
)

// ErrSeasonNotFound is returned when no snapshot is stored for a season
var ErrSeasonNotFound = errors.New("season not found")

// SalaryRepository stores one scraped snapshot per season
type SalaryRepository struct {
	db *store.Database
}

// NewSalaryRepository creates a new salary repository
func NewSalaryRepository(db *store.Database) *SalaryRepository {
	return &SalaryRepository{db: db}
}

// ReplaceSeason swaps the stored snapshot for season with records in one transaction.
// Record order is preserved.
func (r *SalaryRepository) ReplaceSeason(ctx context.Context, season salary.Season, scrapedAt time.Time, records []salary.Record) error {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace season: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM salary_amounts WHERE snapshot_season = $1`, string(season)); err != nil {
		return fmt.Errorf("clearing salary amounts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM salary_snapshots WHERE season = $1`, string(season)); err != nil {
		return fmt.Errorf("clearing salary snapshots: %w", err)
	}

	insertSnapshot, err := tx.PrepareContext(ctx, `
		INSERT INTO salary_snapshots
			(season, position, player_name, team_abbr, team_name, total_guaranteed, data_source, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("preparing snapshot insert: %w", err)
	}
	defer insertSnapshot.Close()

	insertAmount, err := tx.PrepareContext(ctx, `
		INSERT INTO salary_amounts (snapshot_season, position, season, amount)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("preparing amount insert: %w", err)
	}
	defer insertAmount.Close()

	scrapedAt = scrapedAt.UTC()
	for i, record := range records {
		_, err := insertSnapshot.ExecContext(ctx,
			string(season), i, record.PlayerName, record.TeamAbbreviation, record.TeamName,
			record.TotalGuaranteed, record.DataSource, scrapedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", record.PlayerName, err)
		}

		for _, contractSeason := range record.SalaryBySeason.Seasons() {
			amount := record.SalaryBySeason[contractSeason]
			if _, err := insertAmount.ExecContext(ctx, string(season), i, string(contractSeason), amount); err != nil {
				return fmt.Errorf("inserting %s salary for %s: %w", record.PlayerName, contractSeason, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace season: %w", err)
	}
	return nil
}

// LoadSeason returns the stored snapshot for season in scrape order.
// A season that was never stored yields ErrSeasonNotFound.
func (r *SalaryRepository) LoadSeason(ctx context.Context, season salary.Season) ([]salary.Record, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT position, player_name, team_abbr, team_name, total_guaranteed, data_source
		FROM salary_snapshots
		WHERE season = $1
		ORDER BY position
	`, string(season))
	if err != nil {
		return nil, fmt.Errorf("querying salary snapshots: %w", err)
	}
	defer rows.Close()

	records := make([]salary.Record, 0)
	byPosition := make(map[int]int)
	for rows.Next() {
		var position int
		record := salary.Record{SalaryBySeason: make(salary.SeasonSalaries)}
		err := rows.Scan(&position, &record.PlayerName, &record.TeamAbbreviation,
			&record.TeamName, &record.TotalGuaranteed, &record.DataSource)
		if err != nil {
			return nil, fmt.Errorf("scanning salary snapshot: %w", err)
		}
		byPosition[position] = len(records)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeasonNotFound, season)
	}

	amounts, err := r.db.DB().QueryContext(ctx, `
		SELECT position, season, amount
		FROM salary_amounts
		WHERE snapshot_season = $1
	`, string(season))
	if err != nil {
		return nil, fmt.Errorf("querying salary amounts: %w", err)
	}
	defer amounts.Close()

	for amounts.Next() {
		var (
			position       int
			contractSeason string
			amount         int64
		)
		if err := amounts.Scan(&position, &contractSeason, &amount); err != nil {
			return nil, fmt.Errorf("scanning salary amount: %w", err)
		}
		idx, ok := byPosition[position]
		if !ok {
			continue
		}
		records[idx].SalaryBySeason[salary.Season(contractSeason)] = amount
	}

	return records, amounts.Err()
}

// GetSeasonInfo describes the stored snapshot for season
func (r *SalaryRepository) GetSeasonInfo(ctx context.Context, season salary.Season) (*store.SeasonInfo, error) {
	info := &store.SeasonInfo{Season: string(season)}

	err := r.db.DB().QueryRowContext(ctx, `
		SELECT data_source, scraped_at
		FROM salary_snapshots
		WHERE season = $1
		ORDER BY position
		LIMIT 1
	`, string(season)).Scan(&info.DataSource, &info.ScrapedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSeasonNotFound, season)
	}
	if err != nil {
		return nil, fmt.Errorf("querying season info: %w", err)
	}

	err = r.db.DB().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM salary_snapshots WHERE season = $1
	`, string(season)).Scan(&info.PlayerCount)
	if err != nil {
		return nil, fmt.Errorf("counting season players: %w", err)
	}

	return info, nil
}

// ListSeasons returns every stored season, oldest first
func (r *SalaryRepository) ListSeasons(ctx context.Context) ([]salary.Season, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT DISTINCT season FROM salary_snapshots ORDER BY season
	`)
	if err != nil {
		return nil, fmt.Errorf("querying seasons: %w", err)
	}
	defer rows.Close()

	seasons := make([]salary.Season, 0)
	for rows.Next() {
		var season string
		if err := rows.Scan(&season); err != nil {
			return nil, fmt.Errorf("scanning season: %w", err)
		}
		seasons = append(seasons, salary.Season(season))
	}

	return seasons, rows.Err()
}
