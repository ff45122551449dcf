package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/plutus/internal/store"
	"github.com/fortuna/plutus/internal/teams"
)

// ErrTeamNotFound is returned when no team matches an abbreviation
var ErrTeamNotFound = errors.New("team not found")

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// Seed upserts the franchise directory
func (r *TeamRepository) Seed(ctx context.Context, directory []teams.Team) error {
	query := `
		INSERT INTO teams (abbreviation, full_name, nickname, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (abbreviation) DO UPDATE SET
			full_name = excluded.full_name,
			nickname = excluded.nickname,
			updated_at = excluded.updated_at
	`

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, team := range directory {
		if _, err := tx.ExecContext(ctx, query, team.Abbreviation, team.FullName, team.Nickname, now); err != nil {
			return fmt.Errorf("seeding team %s: %w", team.Abbreviation, err)
		}
	}

	return tx.Commit()
}

// GetAll returns all NBA teams
func (r *TeamRepository) GetAll(ctx context.Context) ([]*store.Team, error) {
	query := `
		SELECT abbreviation, full_name, nickname, updated_at
		FROM teams
		ORDER BY abbreviation
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var result []*store.Team
	for rows.Next() {
		team := &store.Team{}
		if err := rows.Scan(&team.Abbreviation, &team.FullName, &team.Nickname, &team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		result = append(result, team)
	}

	return result, rows.Err()
}

// GetByAbbreviation finds a team by abbreviation (e.g., "LAL", "BOS")
func (r *TeamRepository) GetByAbbreviation(ctx context.Context, abbr string) (*store.Team, error) {
	query := `
		SELECT abbreviation, full_name, nickname, updated_at
		FROM teams
		WHERE abbreviation = $1
	`

	team := &store.Team{}
	err := r.db.DB().QueryRowContext(ctx, query, abbr).Scan(
		&team.Abbreviation, &team.FullName, &team.Nickname, &team.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, abbr)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return team, nil
}
