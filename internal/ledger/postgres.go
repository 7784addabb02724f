package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/bolao-platform/internal/model"
)

// PostgresStore implementa Store sobre database/sql. Disciplina de
// concorrência: lock pessimista por linha (SELECT ... FOR UPDATE) em contas
// e mercados, segurado até o fim da transação — escritor único por agregado.
type PostgresStore struct{ db *sql.DB }

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

func (p *PostgresStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type pgTx struct{ tx *sql.Tx }

func (t *pgTx) AccountForUpdate(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var a model.Account
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, balance, is_admin, is_active, created_at
		FROM accounts WHERE id=$1
		FOR UPDATE`, id).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Balance, &a.IsAdmin, &a.IsActive, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account for update: %w", err)
	}
	return &a, nil
}

func (t *pgTx) SetBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE accounts SET balance=$1 WHERE id=$2`, balance, id)
	return err
}

func (t *pgTx) Selection(ctx context.Context, id uuid.UUID) (*model.Selection, error) {
	var (
		s    model.Selection
		odds string
	)
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, market_id, label, odds::TEXT, player_id, is_winner
		FROM selections WHERE id=$1`, id).
		Scan(&s.ID, &s.MarketID, &s.Label, &odds, &s.PlayerID, &s.IsWinner)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selection: %w", err)
	}
	s.Odds, err = decimal.NewFromString(odds)
	if err != nil {
		return nil, fmt.Errorf("selection odds: %w", err)
	}
	return &s, nil
}

func (t *pgTx) MarketForUpdate(ctx context.Context, id uuid.UUID) (*model.Market, error) {
	var m model.Market
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, event_id, tournament_id, question, market_type, status, created_at
		FROM markets WHERE id=$1
		FOR UPDATE`, id).
		Scan(&m.ID, &m.EventID, &m.TournamentID, &m.Question, &m.MarketType, &m.Status, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("market for update: %w", err)
	}
	return &m, nil
}

func (t *pgTx) SelectionsByMarket(ctx context.Context, marketID uuid.UUID) ([]model.Selection, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, market_id, label, odds::TEXT, player_id, is_winner
		FROM selections WHERE market_id=$1
		ORDER BY id`, marketID)
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

func (t *pgTx) OpenBetOnMarket(ctx context.Context, accountID, marketID uuid.UUID) (*model.Bet, error) {
	var b model.Bet
	err := t.tx.QueryRowContext(ctx, `
		SELECT b.id, b.account_id, b.selection_id, b.stake, b.potential_payout, b.status, b.placed_at, b.settled_at
		FROM bets b
		JOIN selections s ON s.id = b.selection_id
		WHERE b.account_id=$1 AND s.market_id=$2 AND b.status='open'
		LIMIT 1`, accountID, marketID).
		Scan(&b.ID, &b.AccountID, &b.SelectionID, &b.Stake, &b.PotentialPayout, &b.Status, &b.PlacedAt, &b.SettledAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open bet on market: %w", err)
	}
	return &b, nil
}

func (t *pgTx) OpenBetsByMarket(ctx context.Context, marketID uuid.UUID) ([]model.Bet, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT b.id, b.account_id, b.selection_id, b.stake, b.potential_payout, b.status, b.placed_at, b.settled_at
		FROM bets b
		JOIN selections s ON s.id = b.selection_id
		WHERE s.market_id=$1 AND b.status='open'
		ORDER BY b.placed_at`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Bet
	for rows.Next() {
		var b model.Bet
		if err := rows.Scan(&b.ID, &b.AccountID, &b.SelectionID, &b.Stake, &b.PotentialPayout, &b.Status, &b.PlacedAt, &b.SettledAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (t *pgTx) InsertBet(ctx context.Context, b *model.Bet) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO bets (id, account_id, selection_id, stake, potential_payout, status, placed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		b.ID, b.AccountID, b.SelectionID, b.Stake, b.PotentialPayout, b.Status, b.PlacedAt)
	return err
}

func (t *pgTx) SettleBet(ctx context.Context, betID uuid.UUID, status model.BetStatus, settledAt time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE bets SET status=$1, settled_at=$2 WHERE id=$3`, status, settledAt, betID)
	return err
}

func (t *pgTx) SetMarketStatus(ctx context.Context, marketID uuid.UUID, status model.MarketStatus) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE markets SET status=$1 WHERE id=$2`, status, marketID)
	return err
}

func (t *pgTx) SetSelectionWinner(ctx context.Context, selectionID uuid.UUID, winner bool) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE selections SET is_winner=$1 WHERE id=$2`, winner, selectionID)
	return err
}

func (t *pgTx) InsertActivity(ctx context.Context, a *model.Activity) error {
	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("marshal activity metadata: %w", err)
	}
	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO activity_feed (id, account_id, action_type, description, metadata_json, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.AccountID, a.ActionType, a.Description, meta, a.CreatedAt)
	return err
}

func (t *pgTx) EventForUpdate(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	var e model.Event
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, tournament_id, match_id, title, description, status, starts_at, created_at
		FROM events WHERE id=$1
		FOR UPDATE`, eventID).
		Scan(&e.ID, &e.TournamentID, &e.MatchID, &e.Title, &e.Description, &e.Status, &e.StartsAt, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("event for update: %w", err)
	}
	return &e, nil
}

func (t *pgTx) MarketsByEvent(ctx context.Context, eventID uuid.UUID) ([]model.Market, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, event_id, tournament_id, question, market_type, status, created_at
		FROM markets WHERE event_id=$1
		ORDER BY created_at`, eventID)
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
	return out, rows.Err()
}

func (t *pgTx) DeleteMarketCascade(ctx context.Context, marketID uuid.UUID) error {
	if _, err := t.tx.ExecContext(ctx, `
		DELETE FROM bets WHERE selection_id IN (SELECT id FROM selections WHERE market_id=$1)`, marketID); err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM selections WHERE market_id=$1`, marketID); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `DELETE FROM markets WHERE id=$1`, marketID)
	return err
}

func (t *pgTx) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, eventID)
	return err
}
