package account

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/model"
)

type StatsSummary struct {
	TotalBets     int     `json:"total_bets"`
	WonBets       int     `json:"won_bets"`
	LostBets      int     `json:"lost_bets"`
	WinRate       float64 `json:"win_rate"`
	RecentWinRate float64 `json:"recent_win_rate"`
	TotalStaked   int64   `json:"total_staked"`
	TotalWon      int64   `json:"total_won"`
	TotalProfit   int64   `json:"total_profit"`
	ROI           float64 `json:"roi"`
}

type DailyPoint struct {
	Date   string `json:"date"`
	Profit int64  `json:"profit"`
	Stake  int64  `json:"stake"`
}

type Stats struct {
	Summary    StatsSummary `json:"summary"`
	DailyChart []DailyPoint `json:"daily_chart"`
}

type Streak struct {
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
	TotalSettled  int `json:"total_settled"`
}

// Stats agrega o desempenho da conta: win rate histórico e dos últimos 30
// dias, totais apostados/ganhos e o P/L diário pro gráfico.
func (r *Repo) Stats(ctx context.Context, accountID uuid.UUID) (*Stats, error) {
	since := time.Now().UTC().AddDate(0, 0, -30)

	var (
		s                      Stats
		recentTotal, recentWon int
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status='won'),
			COUNT(*) FILTER (WHERE status='lost'),
			COALESCE(SUM(stake), 0),
			COALESCE(SUM(potential_payout) FILTER (WHERE status='won'), 0),
			COUNT(*) FILTER (WHERE placed_at >= $2),
			COUNT(*) FILTER (WHERE placed_at >= $2 AND status='won')
		FROM bets WHERE account_id=$1`, accountID, since).
		Scan(&s.Summary.TotalBets, &s.Summary.WonBets, &s.Summary.LostBets,
			&s.Summary.TotalStaked, &s.Summary.TotalWon, &recentTotal, &recentWon)
	if err != nil {
		return nil, fmt.Errorf("stats summary: %w", err)
	}

	s.Summary.TotalProfit = s.Summary.TotalWon - s.Summary.TotalStaked
	if s.Summary.TotalBets > 0 {
		s.Summary.WinRate = round1(float64(s.Summary.WonBets) / float64(s.Summary.TotalBets) * 100)
	}
	if recentTotal > 0 {
		s.Summary.RecentWinRate = round1(float64(recentWon) / float64(recentTotal) * 100)
	}
	if s.Summary.TotalStaked > 0 {
		s.Summary.ROI = round1(float64(s.Summary.TotalProfit) / float64(s.Summary.TotalStaked) * 100)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			to_char(placed_at, 'YYYY-MM-DD') AS day,
			COALESCE(SUM(potential_payout) FILTER (WHERE status='won'), 0)
				- COALESCE(SUM(stake) FILTER (WHERE status='lost'), 0),
			COALESCE(SUM(stake), 0)
		FROM bets
		WHERE account_id=$1 AND placed_at >= $2
		GROUP BY day ORDER BY day`, accountID, since)
	if err != nil {
		return nil, fmt.Errorf("stats daily: %w", err)
	}
	defer rows.Close()

	s.DailyChart = []DailyPoint{}
	for rows.Next() {
		var p DailyPoint
		if err := rows.Scan(&p.Date, &p.Profit, &p.Stake); err != nil {
			return nil, err
		}
		s.DailyChart = append(s.DailyChart, p)
	}
	return &s, rows.Err()
}

// Streak calcula a sequência atual de vitórias e a melhor de todos os tempos,
// varrendo as apostas liquidadas da mais recente pra mais antiga.
func (r *Repo) Streak(ctx context.Context, accountID uuid.UUID) (*Streak, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status FROM bets
		WHERE account_id=$1 AND status IN ('won','lost')
		ORDER BY settled_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("streak: %w", err)
	}
	defer rows.Close()

	var statuses []model.BetStatus
	for rows.Next() {
		var st model.BetStatus
		if err := rows.Scan(&st); err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := &Streak{TotalSettled: len(statuses)}
	for _, st := range statuses {
		if st != model.BetWon {
			break
		}
		out.CurrentStreak++
	}
	run := 0
	for i := len(statuses) - 1; i >= 0; i-- { // da mais antiga pra mais nova
		if statuses[i] == model.BetWon {
			run++
			if run > out.BestStreak {
				out.BestStreak = run
			}
		} else {
			run = 0
		}
	}
	return out, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
