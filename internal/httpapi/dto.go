package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/bolao-platform/internal/model"
)

// ---------- Requests ----------

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type AdjustBalanceRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type PlaceBetRequest struct {
	SelectionID uuid.UUID `json:"selection_id"`
	Stake       int64     `json:"stake"`
}

type TournamentCreateRequest struct {
	Name          string `json:"name"`
	CompetitionID int64  `json:"competition_id"`
}

type TournamentUpdateRequest struct {
	Status model.TournamentStatus `json:"status"`
}

type EventCreateRequest struct {
	TournamentID uuid.UUID  `json:"tournament_id"`
	MatchID      *int64     `json:"match_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	StartsAt     *time.Time `json:"starts_at"`
}

type EventUpdateRequest struct {
	Status model.EventStatus `json:"status"`
}

type SelectionCreateRequest struct {
	Label    string          `json:"label"`
	Odds     decimal.Decimal `json:"odds"`
	PlayerID *int64          `json:"player_id"`
}

type MarketCreateRequest struct {
	EventID      *uuid.UUID               `json:"event_id"`
	TournamentID *uuid.UUID               `json:"tournament_id"`
	Question     string                   `json:"question"`
	MarketType   string                   `json:"market_type"`
	Status       model.MarketStatus       `json:"status"`
	Selections   []SelectionCreateRequest `json:"selections"`
}

type MarketStatusUpdateRequest struct {
	Status model.MarketStatus `json:"status"`
}

type SelectionUpdateRequest struct {
	Odds decimal.Decimal `json:"odds"`
}

type SettleMarketRequest struct {
	WinningSelectionID uuid.UUID `json:"winning_selection_id"`
}

// ---------- Responses ----------

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserProfile é a visão pública da conta: nunca carrega o hash da senha
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Balance   int64     `json:"balance"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	TotalBets int       `json:"total_bets"`
	WonBets   int       `json:"won_bets"`
	LostBets  int       `json:"lost_bets"`
	WinRate   float64   `json:"win_rate"`
}

func profileOf(a *model.Account) UserProfile {
	return UserProfile{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Balance:   a.Balance,
		IsAdmin:   a.IsAdmin,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
	}
}

type SelectionOut struct {
	ID       uuid.UUID `json:"id"`
	Label    string    `json:"label"`
	Odds     string    `json:"odds"`
	PlayerID *int64    `json:"player_id,omitempty"`
	IsWinner *bool     `json:"is_winner"`
}

type MarketOut struct {
	ID           uuid.UUID          `json:"id"`
	EventID      *uuid.UUID         `json:"event_id"`
	TournamentID *uuid.UUID         `json:"tournament_id"`
	Question     string             `json:"question"`
	MarketType   string             `json:"market_type"`
	Status       model.MarketStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	Selections   []SelectionOut     `json:"selections"`
}

func marketOut(m *model.Market) MarketOut {
	out := MarketOut{
		ID:           m.ID,
		EventID:      m.EventID,
		TournamentID: m.TournamentID,
		Question:     m.Question,
		MarketType:   m.MarketType,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		Selections:   make([]SelectionOut, 0, len(m.Selections)),
	}
	for _, s := range m.Selections {
		out.Selections = append(out.Selections, SelectionOut{
			ID:       s.ID,
			Label:    s.Label,
			Odds:     s.Odds.String(),
			PlayerID: s.PlayerID,
			IsWinner: s.IsWinner,
		})
	}
	return out
}

func marketsOut(ms []model.Market) []MarketOut {
	out := make([]MarketOut, 0, len(ms))
	for i := range ms {
		out = append(out, marketOut(&ms[i]))
	}
	return out
}

type BetOut struct {
	ID              uuid.UUID          `json:"id"`
	SelectionID     uuid.UUID          `json:"selection_id"`
	SelectionLabel  string             `json:"selection_label,omitempty"`
	Odds            string             `json:"odds,omitempty"`
	MarketID        uuid.UUID          `json:"market_id,omitempty"`
	MarketQuestion  string             `json:"market_question,omitempty"`
	MarketStatus    model.MarketStatus `json:"market_status,omitempty"`
	Username        string             `json:"username,omitempty"`
	Stake           int64              `json:"stake"`
	PotentialPayout int64              `json:"potential_payout"`
	Status          model.BetStatus    `json:"status"`
	PlacedAt        time.Time          `json:"placed_at"`
	SettledAt       *time.Time         `json:"settled_at"`
}
