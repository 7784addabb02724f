package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/ledger"
	"github.com/radieske/bolao-platform/internal/model"
)

// Repo cuida do catálogo: torneios, eventos, mercados e seleções.
// Liquidação/anulação e qualquer mutação de saldo ficam no motor do ledger;
// aqui só entram criação e as transições administrativas de estado.
type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// ---------- Torneios ----------

func (r *Repo) CreateTournament(ctx context.Context, name string, competitionID int64) (*model.Tournament, error) {
	t := &model.Tournament{
		ID:            uuid.New(),
		Name:          name,
		CompetitionID: competitionID,
		Status:        model.TournamentActive,
		CreatedAt:     time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tournaments (id, name, competition_id, status, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		t.ID, t.Name, t.CompetitionID, t.Status, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert tournament: %w", err)
	}
	return t, nil
}

func (r *Repo) TournamentByID(ctx context.Context, id uuid.UUID) (*model.Tournament, error) {
	var t model.Tournament
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, competition_id, status, created_at
		FROM tournaments WHERE id=$1`, id).
		Scan(&t.ID, &t.Name, &t.CompetitionID, &t.Status, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tournament: %w", err)
	}
	return &t, nil
}

func (r *Repo) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, competition_id, status, created_at
		FROM tournaments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Tournament
	for rows.Next() {
		var t model.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.CompetitionID, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) SetTournamentStatus(ctx context.Context, id uuid.UUID, status model.TournamentStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tournaments SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.E(ledger.CodeNotFound, "tournament not found")
	}
	return nil
}

// ---------- Eventos ----------

type EventInput struct {
	TournamentID uuid.UUID
	MatchID      *int64
	Title        string
	Description  *string
	StartsAt     *time.Time
}

func (r *Repo) CreateEvent(ctx context.Context, in EventInput) (*model.Event, error) {
	t, err := r.TournamentByID(ctx, in.TournamentID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ledger.E(ledger.CodeNotFound, "tournament not found")
	}

	e := &model.Event{
		ID:           uuid.New(),
		TournamentID: in.TournamentID,
		MatchID:      in.MatchID,
		Title:        in.Title,
		Description:  in.Description,
		Status:       model.EventUpcoming,
		StartsAt:     in.StartsAt,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO events (id, tournament_id, match_id, title, description, status, starts_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.ID, e.TournamentID, e.MatchID, e.Title, e.Description, e.Status, e.StartsAt, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

func (r *Repo) EventByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tournament_id, match_id, title, description, status, starts_at, created_at
		FROM events WHERE id=$1`, id).
		Scan(&e.ID, &e.TournamentID, &e.MatchID, &e.Title, &e.Description, &e.Status, &e.StartsAt, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("event: %w", err)
	}
	return &e, nil
}

func (r *Repo) SetEventStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.E(ledger.CodeNotFound, "event not found")
	}
	return nil
}

// ListEvents lista os eventos do torneio. Sem filtro explícito, esconde
// completados e cancelados (comportamento padrão do painel).
func (r *Repo) ListEvents(ctx context.Context, tournamentID uuid.UUID, status *model.EventStatus) ([]model.Event, error) {
	q := `
		SELECT id, tournament_id, match_id, title, description, status, starts_at, created_at
		FROM events WHERE tournament_id=$1`
	args := []any{tournamentID}
	if status != nil {
		q += ` AND status=$2`
		args = append(args, *status)
	} else {
		q += ` AND status IN ('upcoming','live')`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.TournamentID, &e.MatchID, &e.Title, &e.Description, &e.Status, &e.StartsAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
