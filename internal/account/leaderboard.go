package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	globalLeaderboardKey = "leaderboard:global"
	leaderboardCacheTTL  = 60 * time.Second
)

type LeaderboardEntry struct {
	Rank      int       `json:"rank"`
	AccountID uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Balance   int64     `json:"balance"`
	TotalBets int       `json:"total_bets"`
	WonBets   int       `json:"won_bets"`
	Profit    int64     `json:"profit,omitempty"`
}

// Leaderboard monta rankings. O ranking global é cacheado no Redis por 60s
// porque é a consulta mais batida do painel; o cache é best-effort.
type Leaderboard struct {
	db  *sql.DB
	rdb *redis.Client // opcional
	log *zap.Logger
}

func NewLeaderboard(db *sql.DB, rdb *redis.Client, log *zap.Logger) *Leaderboard {
	return &Leaderboard{db: db, rdb: rdb, log: log}
}

// Global ranqueia contas ativas não-admin pelo saldo atual
func (l *Leaderboard) Global(ctx context.Context) ([]LeaderboardEntry, error) {
	if l.rdb != nil {
		if raw, err := l.rdb.Get(ctx, globalLeaderboardKey).Bytes(); err == nil {
			var cached []LeaderboardEntry
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT a.id, a.username, a.balance,
			COUNT(b.id),
			COUNT(b.id) FILTER (WHERE b.status='won')
		FROM accounts a
		LEFT JOIN bets b ON b.account_id = a.id
		WHERE a.is_active AND NOT a.is_admin
		GROUP BY a.id, a.username, a.balance
		ORDER BY a.balance DESC, a.username`)
	if err != nil {
		return nil, fmt.Errorf("global leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.AccountID, &e.Username, &e.Balance, &e.TotalBets, &e.WonBets); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if l.rdb != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := l.rdb.Set(ctx, globalLeaderboardKey, raw, leaderboardCacheTTL).Err(); err != nil {
				l.log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}
	return out, nil
}

// ByTournament ranqueia por lucro (ganhos - stakes) nas apostas em mercados
// do torneio, sejam mercados diretos ou de eventos do torneio.
func (l *Leaderboard) ByTournament(ctx context.Context, tournamentID uuid.UUID) ([]LeaderboardEntry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT a.id, a.username, a.balance,
			COUNT(b.id),
			COUNT(b.id) FILTER (WHERE b.status='won'),
			COALESCE(SUM(b.potential_payout) FILTER (WHERE b.status='won'), 0)
				- COALESCE(SUM(b.stake), 0)
		FROM accounts a
		JOIN bets b ON b.account_id = a.id
		JOIN selections s ON s.id = b.selection_id
		JOIN markets m ON m.id = s.market_id
		LEFT JOIN events e ON e.id = m.event_id
		WHERE a.is_active AND NOT a.is_admin
			AND (m.tournament_id = $1 OR e.tournament_id = $1)
		GROUP BY a.id, a.username, a.balance`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("tournament leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.AccountID, &e.Username, &e.Balance, &e.TotalBets, &e.WonBets, &e.Profit); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Profit > out[j].Profit })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}
