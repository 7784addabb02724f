package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/bolao-platform/internal/model"
)

// BetView é uma aposta enriquecida com a seleção e o mercado, pro painel
type BetView struct {
	model.Bet
	SelectionLabel string             `json:"selection_label"`
	Odds           decimal.Decimal    `json:"odds"`
	MarketID       uuid.UUID          `json:"market_id"`
	MarketQuestion string             `json:"market_question"`
	MarketStatus   model.MarketStatus `json:"market_status"`
	Username       string             `json:"username,omitempty"`
}

const betViewQuery = `
	SELECT b.id, b.account_id, b.selection_id, b.stake, b.potential_payout,
		b.status, b.placed_at, b.settled_at,
		s.label, s.odds::TEXT,
		m.id, m.question, m.status,
		a.username
	FROM bets b
	JOIN selections s ON s.id = b.selection_id
	JOIN markets m ON m.id = s.market_id
	JOIN accounts a ON a.id = b.account_id`

// BetsByAccount lista as apostas da conta, mais recentes primeiro. Sem filtro
// de status, apostas substituídas ficam escondidas: o usuário só vê a aposta
// viva de cada mercado.
func (r *Repo) BetsByAccount(ctx context.Context, accountID uuid.UUID, status *model.BetStatus) ([]BetView, error) {
	q := betViewQuery + ` WHERE b.account_id=$1`
	args := []any{accountID}
	if status != nil {
		q += ` AND b.status=$2`
		args = append(args, *status)
	} else {
		q += ` AND b.status <> 'replaced'`
	}
	q += ` ORDER BY b.placed_at DESC`
	return r.queryBetViews(ctx, q, args...)
}

// BetsByMarket lista toda aposta colocada num mercado, inclusive substituídas
// (visão administrativa).
func (r *Repo) BetsByMarket(ctx context.Context, marketID uuid.UUID) ([]BetView, error) {
	return r.queryBetViews(ctx,
		betViewQuery+` WHERE m.id=$1 ORDER BY b.placed_at DESC`, marketID)
}

func (r *Repo) queryBetViews(ctx context.Context, q string, args ...any) ([]BetView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("bet views: %w", err)
	}
	defer rows.Close()

	var out []BetView
	for rows.Next() {
		var (
			v    BetView
			odds string
		)
		if err := rows.Scan(&v.ID, &v.AccountID, &v.SelectionID, &v.Stake, &v.PotentialPayout,
			&v.Status, &v.PlacedAt, &v.SettledAt,
			&v.SelectionLabel, &odds,
			&v.MarketID, &v.MarketQuestion, &v.MarketStatus,
			&v.Username); err != nil {
			return nil, err
		}
		if v.Odds, err = decimal.NewFromString(odds); err != nil {
			return nil, fmt.Errorf("bet odds: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
