package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account é a conta de um usuário com saldo em coins virtuais.
// O saldo só é alterado pelas operações do ledger.
type Account struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Balance      int64 // nunca negativo
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
}

// Tournament agrupa eventos e mercados de longo prazo (campeão, artilheiro...)
type Tournament struct {
	ID            uuid.UUID
	Name          string
	CompetitionID int64
	Status        TournamentStatus
	CreatedAt     time.Time
}

// Event é uma partida dentro de um torneio. MatchID referencia opcionalmente
// a partida sincronizada do provedor externo.
type Event struct {
	ID           uuid.UUID
	TournamentID uuid.UUID
	MatchID      *int64
	Title        string
	Description  *string
	Status       EventStatus
	StartsAt     *time.Time
	CreatedAt    time.Time
}

// Market é uma proposição apostável. Pertence a um evento, a um torneio, ou
// a ambos (pelo menos um obrigatório). É dono exclusivo das suas seleções.
type Market struct {
	ID           uuid.UUID
	EventID      *uuid.UUID
	TournamentID *uuid.UUID
	Question     string
	MarketType   string // match_result | player_prop | tournament | special
	Status       MarketStatus
	CreatedAt    time.Time

	Selections []Selection
}

// Selection é um desfecho possível de um mercado, com odd decimal fixa.
// IsWinner: nil = indefinido, true = vencedora, false = perdedora liquidada.
type Selection struct {
	ID       uuid.UUID
	MarketID uuid.UUID
	Label    string
	Odds     decimal.Decimal
	PlayerID *int64
	IsWinner *bool
}

// Bet liga uma conta a uma seleção. Imutável depois de sair de "open".
type Bet struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	SelectionID     uuid.UUID
	Stake           int64 // coins comprometidos, > 0
	PotentialPayout int64 // floor(odds * stake), calculado na colocação
	Status          BetStatus
	PlacedAt        time.Time
	SettledAt       *time.Time
}

// Activity é o registro append-only de uma ação do ledger.
// Nunca é lido de volta pelo ledger.
type Activity struct {
	ID          uuid.UUID
	AccountID   *uuid.UUID
	ActionType  string
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time

	Username *string // preenchido só em leituras do feed
}

// Notification é uma mensagem individual gerada pelo activity-worker
type Notification struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Type      string
	Title     string
	Message   string
	Link      *string
	IsRead    bool
	CreatedAt time.Time
}

// ---------- Dados de referência sincronizados do football-data.org ----------

type Competition struct {
	ID        int64
	Name      string
	Code      *string
	EmblemURL *string
	SyncedAt  time.Time
}

type Team struct {
	ID        int64
	Name      string
	ShortName *string
	CrestURL  *string
	SyncedAt  time.Time
}

type Player struct {
	ID          int64
	TeamID      int64
	Name        string
	Position    *string
	Nationality *string
	DateOfBirth *time.Time
	SyncedAt    time.Time
}

type Match struct {
	ID            int64
	CompetitionID int64
	HomeTeamID    int64
	AwayTeamID    int64
	KickoffAt     *time.Time
	Matchday      *int
	Stage         *string
	Status        *string
	SyncedAt      time.Time
}
