package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/plutus/internal/export"
	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/service"
)

const (
	defaultSearchLimit = 20
	defaultTopLimit    = 10
	maxLimit           = 100
)

// HealthCheck probes one dependency
type HealthCheck func() error

// Handler contains dependencies for HTTP handlers
type Handler struct {
	salaries      *service.SalaryService
	defaultSeason salary.Season
	checks        map[string]HealthCheck
}

// NewHandler creates a new handler
func NewHandler(salaries *service.SalaryService, defaultSeason salary.Season, checks map[string]HealthCheck) *Handler {
	return &Handler{
		salaries:      salaries,
		defaultSeason: defaultSeason,
		checks:        checks,
	}
}

// HealthCheck reports dependency health and the seasons held in memory
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(); err != nil {
			components[name] = err.Error()
			status = "degraded"
			continue
		}
		components[name] = "ok"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         status,
		"service":        "plutus",
		"version":        "1.0.0",
		"default_season": h.defaultSeason,
		"components":     components,
		"seasons":        h.salaries.Status(),
		"timestamp":      time.Now().UTC(),
	})
}

// season reads ?season=, falling back to the configured default
func (h *Handler) season(r *http.Request) (salary.Season, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("season"))
	if raw == "" {
		return h.defaultSeason, nil
	}
	season := salary.Season(raw)
	if !season.Valid() {
		return "", fmt.Errorf("season must be a four-digit year, got %q", raw)
	}
	return season, nil
}

// limit reads ?limit=, clamped to maxLimit
func limit(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", raw)
	}
	return min(n, maxLimit), nil
}

// respondServiceError maps service errors to status codes
func respondServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, service.ErrNoData):
		respondError(w, http.StatusServiceUnavailable, message, err)
	default:
		respondError(w, http.StatusInternalServerError, message, err)
	}
}

// GetSalaries returns every player with team and league summaries
func (h *Handler) GetSalaries(w http.ResponseWriter, r *http.Request) {
	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}

	snap, err := h.salaries.Snapshot(r.Context(), season, false)
	if err != nil {
		respondServiceError(w, "Failed to load salary data", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season":    snap.Season,
		"source":    snap.Source,
		"loaded_at": snap.LoadedAt,
		"players":   salary.TopPaid(snap.Records, season, 0),
		"teams":     snap.Teams,
		"league":    snap.League,
	})
}

// GetLeague returns league-wide statistics
func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}

	league, err := h.salaries.League(r.Context(), season)
	if err != nil {
		respondServiceError(w, "Failed to load league summary", err)
		return
	}

	respondJSON(w, http.StatusOK, league)
}

// GetDistribution returns the salary bands
func (h *Handler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}

	buckets, err := h.salaries.Distribution(r.Context(), season)
	if err != nil {
		respondServiceError(w, "Failed to calculate distribution", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season":       season,
		"distribution": buckets,
	})
}

// GetTeamSummaries returns every team's payroll summary, highest first
func (h *Handler) GetTeamSummaries(w http.ResponseWriter, r *http.Request) {
	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}

	summaries, err := h.salaries.TeamSummaries(r.Context(), season)
	if err != nil {
		respondServiceError(w, "Failed to load team summaries", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season": season,
		"teams":  summaries,
		"count":  len(summaries),
	})
}

// GetTeamPayroll returns one team's summary and roster
func (h *Handler) GetTeamPayroll(w http.ResponseWriter, r *http.Request) {
	abbr := mux.Vars(r)["abbr"]

	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}

	payroll, err := h.salaries.TeamPayroll(r.Context(), season, abbr)
	if errors.Is(err, service.ErrTeamNotFound) {
		respondError(w, http.StatusNotFound, "Team not found", err)
		return
	}
	if errors.Is(err, service.ErrNoData) {
		respondError(w, http.StatusNotFound, "No payroll data for team", err)
		return
	}
	if err != nil {
		respondServiceError(w, "Failed to load team payroll", err)
		return
	}

	respondJSON(w, http.StatusOK, payroll)
}

// GetPlayers filters players by ?q=, ?team= and ?range=
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}

	query := r.URL.Query()
	spec := salary.FilterSpec{
		SearchText:       query.Get("q"),
		TeamAbbreviation: strings.ToUpper(query.Get("team")),
		SalaryRange:      query.Get("range"),
	}

	players, err := h.salaries.Filter(r.Context(), season, spec)
	if err != nil {
		respondServiceError(w, "Failed to filter players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season":  season,
		"players": players,
		"count":   len(players),
	})
}

// SearchPlayers handles GET /players/search?q=
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "Search query is required", nil)
		return
	}

	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}
	n, err := limit(r, defaultSearchLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	players, err := h.salaries.Search(r.Context(), season, q, n)
	if err != nil {
		respondServiceError(w, "Failed to search players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   q,
		"players": players,
		"count":   len(players),
	})
}

// GetTopPlayers returns the best-paid players
func (h *Handler) GetTopPlayers(w http.ResponseWriter, r *http.Request) {
	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}
	n, err := limit(r, defaultTopLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	players, err := h.salaries.TopPaid(r.Context(), season, n)
	if err != nil {
		respondServiceError(w, "Failed to load top players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season":  season,
		"players": players,
		"count":   len(players),
	})
}

// Export streams players or team summaries as CSV or JSON
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}

	format, err := export.ParseFormat(valueOr(r.URL.Query().Get("format"), string(export.FormatCSV)))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid export format", err)
		return
	}

	kind := valueOr(r.URL.Query().Get("type"), "players")
	if kind != "players" && kind != "teams" {
		respondError(w, http.StatusBadRequest, "Invalid export type", fmt.Errorf("type must be players or teams, got %q", kind))
		return
	}

	snap, err := h.salaries.Snapshot(r.Context(), season, false)
	if err != nil {
		respondServiceError(w, "Failed to load salary data", err)
		return
	}

	// buffer so a failed write still yields a clean error response
	var buf bytes.Buffer
	switch {
	case kind == "players" && format == export.FormatCSV:
		err = export.WritePlayersCSV(&buf, salary.TopPaid(snap.Records, season, 0), season)
	case kind == "players":
		err = export.WriteJSON(&buf, salary.TopPaid(snap.Records, season, 0))
	case format == export.FormatCSV:
		err = export.WriteSummariesCSV(&buf, snap.Teams)
	default:
		err = export.WriteJSON(&buf, snap.Teams)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to export data", err)
		return
	}

	filename := export.Filename(kind, season, format, time.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Refresh handles POST /refresh and re-scrapes the season
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	season, err := h.season(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}

	snap, err := h.salaries.Refresh(r.Context(), season)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to refresh salary data", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Salary data refreshed",
		"season":       snap.Season,
		"source":       snap.Source,
		"player_count": snap.League.PlayerCount,
		"team_count":   snap.League.TeamCount,
		"refreshed_at": snap.LoadedAt,
	})
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
