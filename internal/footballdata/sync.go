package footballdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/ledger"
)

// Cooldown entre sincronizações da mesma competição: o provedor limita a
// 100 requisições por dia no plano gratuito.
const syncCooldown = 30 * time.Minute

type SyncSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Syncer faz o upsert dos dados de referência do provedor no banco local
type Syncer struct {
	db     *sql.DB
	client *Client
	log    *zap.Logger
	now    func() time.Time
}

func NewSyncer(db *sql.DB, client *Client, log *zap.Logger) *Syncer {
	return &Syncer{db: db, client: client, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// SyncCompetitions busca todas as competições e faz upsert local.
// Competições sincronizadas há menos de 30 minutos são puladas.
func (s *Syncer) SyncCompetitions(ctx context.Context) (*SyncSummary, error) {
	comps, err := s.client.Competitions(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var sum SyncSummary
	for _, comp := range comps {
		var syncedAt sql.NullTime
		err := s.db.QueryRowContext(ctx,
			`SELECT synced_at FROM competitions WHERE id=$1`, comp.ID).Scan(&syncedAt)
		switch {
		case err == sql.ErrNoRows:
			_, err = s.db.ExecContext(ctx, `
				INSERT INTO competitions (id, name, code, emblem_url, synced_at)
				VALUES ($1,$2,$3,$4,$5)`,
				comp.ID, comp.Name, comp.Code, comp.EmblemURL, now)
			if err != nil {
				return nil, fmt.Errorf("insert competition: %w", err)
			}
			sum.Created++
		case err != nil:
			return nil, fmt.Errorf("competition synced_at: %w", err)
		default:
			if syncedAt.Valid && now.Sub(syncedAt.Time) < syncCooldown {
				sum.Skipped++
				continue
			}
			_, err = s.db.ExecContext(ctx, `
				UPDATE competitions SET name=$1, code=$2, emblem_url=$3, synced_at=$4 WHERE id=$5`,
				comp.Name, comp.Code, comp.EmblemURL, now, comp.ID)
			if err != nil {
				return nil, fmt.Errorf("update competition: %w", err)
			}
			sum.Updated++
		}
	}
	s.log.Info("competitions synced",
		zap.Int("created", sum.Created), zap.Int("updated", sum.Updated), zap.Int("skipped", sum.Skipped))
	return &sum, nil
}

// SyncTeams busca os times da competição do torneio e faz upsert local,
// mantendo a tabela de junção competition_teams.
func (s *Syncer) SyncTeams(ctx context.Context, tournamentID uuid.UUID) (*SyncSummary, error) {
	competitionID, err := s.competitionOf(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	teams, err := s.client.Teams(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var sum SyncSummary
	for _, t := range teams {
		res, err := s.db.ExecContext(ctx, `
			UPDATE teams SET name=$1, short_name=$2, crest_url=$3, synced_at=$4 WHERE id=$5`,
			t.Name, t.ShortName, t.CrestURL, now, t.ID)
		if err != nil {
			return nil, fmt.Errorf("update team: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			sum.Updated++
		} else {
			_, err = s.db.ExecContext(ctx, `
				INSERT INTO teams (id, name, short_name, crest_url, synced_at)
				VALUES ($1,$2,$3,$4,$5)`,
				t.ID, t.Name, t.ShortName, t.CrestURL, now)
			if err != nil {
				return nil, fmt.Errorf("insert team: %w", err)
			}
			sum.Created++
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO competition_teams (competition_id, team_id)
			VALUES ($1,$2) ON CONFLICT DO NOTHING`, competitionID, t.ID)
		if err != nil {
			return nil, fmt.Errorf("link competition team: %w", err)
		}
	}
	return &sum, nil
}

// SyncFixtures busca as partidas da competição do torneio e faz upsert local.
// Partidas sem os dois times definidos (ex.: mata-mata futuro) são puladas.
func (s *Syncer) SyncFixtures(ctx context.Context, tournamentID uuid.UUID) (*SyncSummary, error) {
	competitionID, err := s.competitionOf(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	fixtures, err := s.client.Fixtures(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var sum SyncSummary
	for _, f := range fixtures {
		if f.HomeTeamID == nil || f.AwayTeamID == nil {
			sum.Skipped++
			continue
		}
		res, err := s.db.ExecContext(ctx, `
			UPDATE matches SET kickoff_at=$1, matchday=$2, stage=$3, status=$4, synced_at=$5 WHERE id=$6`,
			f.KickoffAt, f.Matchday, f.Stage, f.Status, now, f.ID)
		if err != nil {
			return nil, fmt.Errorf("update match: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			sum.Updated++
			continue
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO matches (id, competition_id, home_team_id, away_team_id, kickoff_at, matchday, stage, status, synced_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			f.ID, competitionID, *f.HomeTeamID, *f.AwayTeamID, f.KickoffAt, f.Matchday, f.Stage, f.Status, now)
		if err != nil {
			return nil, fmt.Errorf("insert match: %w", err)
		}
		sum.Created++
	}
	return &sum, nil
}

// SyncSquad busca o elenco de um time e faz upsert dos jogadores
func (s *Syncer) SyncSquad(ctx context.Context, teamID int64) (*SyncSummary, error) {
	squad, err := s.client.Squad(ctx, teamID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var sum SyncSummary
	for _, p := range squad {
		var dob *time.Time
		if p.DateOfBirth != nil {
			if parsed, err := time.Parse("2006-01-02", *p.DateOfBirth); err == nil {
				dob = &parsed
			}
		}
		res, err := s.db.ExecContext(ctx, `
			UPDATE players SET team_id=$1, name=$2, position=$3, nationality=$4, date_of_birth=$5, synced_at=$6 WHERE id=$7`,
			teamID, p.Name, p.Position, p.Nationality, dob, now, p.ID)
		if err != nil {
			return nil, fmt.Errorf("update player: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			sum.Updated++
			continue
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO players (id, team_id, name, position, nationality, date_of_birth, synced_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			p.ID, teamID, p.Name, p.Position, p.Nationality, dob, now)
		if err != nil {
			return nil, fmt.Errorf("insert player: %w", err)
		}
		sum.Created++
	}
	return &sum, nil
}

func (s *Syncer) competitionOf(ctx context.Context, tournamentID uuid.UUID) (int64, error) {
	var competitionID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT competition_id FROM tournaments WHERE id=$1`, tournamentID).Scan(&competitionID)
	if err == sql.ErrNoRows {
		return 0, ledger.E(ledger.CodeNotFound, "tournament not found")
	}
	if err != nil {
		return 0, fmt.Errorf("tournament competition: %w", err)
	}
	return competitionID, nil
}
