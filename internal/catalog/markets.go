package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/bolao-platform/internal/ledger"
	"github.com/radieske/bolao-platform/internal/model"
)

type SelectionInput struct {
	Label    string
	Odds     decimal.Decimal
	PlayerID *int64
}

type MarketInput struct {
	EventID      *uuid.UUID
	TournamentID *uuid.UUID
	Question     string
	MarketType   string
	Status       model.MarketStatus
	Selections   []SelectionInput
}

// CreateMarket cria o mercado com as suas seleções numa transação só, e grava
// o registro de atividade no mesmo commit. Exige pelo menos 2 seleções e
// vínculo com evento, torneio, ou ambos.
func (r *Repo) CreateMarket(ctx context.Context, in MarketInput) (*model.Market, error) {
	if in.EventID == nil && in.TournamentID == nil {
		return nil, ledger.E(ledger.CodeValidation,
			"market must be linked to an event, a tournament, or both")
	}
	if len(in.Selections) < 2 {
		return nil, ledger.E(ledger.CodeValidation,
			"market needs at least 2 selections, got %d", len(in.Selections))
	}
	if !model.ValidMarketStatus(in.Status) {
		return nil, ledger.E(ledger.CodeValidation, "unknown market status %q", in.Status)
	}
	for _, s := range in.Selections {
		if !s.Odds.IsPositive() {
			return nil, ledger.E(ledger.CodeValidation,
				"selection %q needs positive odds, got %s", s.Label, s.Odds)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	m := &model.Market{
		ID:           uuid.New(),
		EventID:      in.EventID,
		TournamentID: in.TournamentID,
		Question:     in.Question,
		MarketType:   in.MarketType,
		Status:       in.Status,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO markets (id, event_id, tournament_id, question, market_type, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		m.ID, m.EventID, m.TournamentID, m.Question, m.MarketType, m.Status, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert market: %w", err)
	}

	for _, s := range in.Selections {
		sel := model.Selection{
			ID:       uuid.New(),
			MarketID: m.ID,
			Label:    s.Label,
			Odds:     s.Odds,
			PlayerID: s.PlayerID,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO selections (id, market_id, label, odds, player_id)
			VALUES ($1,$2,$3,$4,$5)`,
			sel.ID, sel.MarketID, sel.Label, sel.Odds.String(), sel.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("insert selection: %w", err)
		}
		m.Selections = append(m.Selections, sel)
	}

	action := model.ActionMarketCreated
	if m.Status == model.MarketOpen {
		action = model.ActionMarketOpened
	}
	meta, _ := json.Marshal(map[string]any{"market_id": m.ID.String(), "market_type": m.MarketType})
	_, err = tx.ExecContext(ctx, `
		INSERT INTO activity_feed (id, account_id, action_type, description, metadata_json, created_at)
		VALUES ($1,NULL,$2,$3,$4,$5)`,
		uuid.New(), action,
		fmt.Sprintf("New market: %q (%s)", m.Question, m.MarketType),
		meta, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// MarketByID carrega o mercado com as suas seleções
func (r *Repo) MarketByID(ctx context.Context, id uuid.UUID) (*model.Market, error) {
	var m model.Market
	err := r.db.QueryRowContext(ctx, `
		SELECT id, event_id, tournament_id, question, market_type, status, created_at
		FROM markets WHERE id=$1`, id).
		Scan(&m.ID, &m.EventID, &m.TournamentID, &m.Question, &m.MarketType, &m.Status, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("market: %w", err)
	}
	if m.Selections, err = r.selectionsOf(ctx, m.ID); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListEventMarkets lista todos os mercados de um evento, mais novos primeiro
func (r *Repo) ListEventMarkets(ctx context.Context, eventID uuid.UUID) ([]model.Market, error) {
	return r.listMarkets(ctx, `WHERE event_id=$1`, eventID)
}

// ListTournamentMarkets lista só os mercados de topo do torneio
// (campeão, artilheiro...), sem os mercados dos eventos.
func (r *Repo) ListTournamentMarkets(ctx context.Context, tournamentID uuid.UUID) ([]model.Market, error) {
	return r.listMarkets(ctx, `WHERE tournament_id=$1 AND event_id IS NULL`, tournamentID)
}

func (r *Repo) listMarkets(ctx context.Context, where string, arg any) ([]model.Market, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, tournament_id, question, market_type, status, created_at
		FROM markets `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Market
	for rows.Next() {
		var m model.Market
		if err := rows.Scan(&m.ID, &m.EventID, &m.TournamentID, &m.Question, &m.MarketType, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Selections, err = r.selectionsOf(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repo) selectionsOf(ctx context.Context, marketID uuid.UUID) ([]model.Selection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, market_id, label, odds::TEXT, player_id, is_winner
		FROM selections WHERE market_id=$1 ORDER BY label`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Selection
	for rows.Next() {
		var (
			s    model.Selection
			odds string
		)
		if err := rows.Scan(&s.ID, &s.MarketID, &s.Label, &odds, &s.PlayerID, &s.IsWinner); err != nil {
			return nil, err
		}
		if s.Odds, err = decimal.NewFromString(odds); err != nil {
			return nil, fmt.Errorf("selection odds: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateMarketStatus aplica uma transição administrativa de status, validada
// contra a tabela de transições (lock da linha durante a checagem).
func (r *Repo) UpdateMarketStatus(ctx context.Context, marketID uuid.UUID, to model.MarketStatus) (*model.Market, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current model.MarketStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM markets WHERE id=$1 FOR UPDATE`, marketID).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, ledger.E(ledger.CodeNotFound, "market not found")
	}
	if err != nil {
		return nil, fmt.Errorf("market for update: %w", err)
	}

	if !model.CanTransition(current, to) {
		return nil, ledger.E(ledger.CodeInvalidTransition,
			"cannot transition from '%s' to '%s'. allowed: %v", current, to, model.AllowedTransitions(current))
	}
	if _, err := tx.ExecContext(ctx, `UPDATE markets SET status=$1 WHERE id=$2`, to, marketID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.MarketByID(ctx, marketID)
}

// UpdateSelectionOdds altera as odds de uma seleção. Só é permitido enquanto
// o mercado aceita edição (coming_soon ou open); depois disso as odds são
// imutáveis e as apostas já colocadas preservam o payout congelado.
func (r *Repo) UpdateSelectionOdds(ctx context.Context, selectionID uuid.UUID, odds decimal.Decimal) error {
	if !odds.IsPositive() {
		return ledger.E(ledger.CodeValidation, "odds must be positive, got %s", odds)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var status model.MarketStatus
	err = tx.QueryRowContext(ctx, `
		SELECT m.status FROM markets m
		JOIN selections s ON s.market_id = m.id
		WHERE s.id=$1
		FOR UPDATE OF m`, selectionID).Scan(&status)
	if err == sql.ErrNoRows {
		return ledger.E(ledger.CodeNotFound, "selection not found")
	}
	if err != nil {
		return fmt.Errorf("selection market: %w", err)
	}

	if !status.OddsEditable() {
		return ledger.E(ledger.CodeMarketLocked, "cannot update odds on a %s market", status)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE selections SET odds=$1 WHERE id=$2`, odds.String(), selectionID); err != nil {
		return err
	}
	return tx.Commit()
}
