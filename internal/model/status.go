package model

// Status de mercado e de aposta são tipos fechados: o ledger e a camada de
// catálogo só aceitam os valores abaixo, e as transições de mercado passam
// pela tabela marketTransitions.

type MarketStatus string

const (
	MarketComingSoon MarketStatus = "coming_soon"
	MarketOpen       MarketStatus = "open"
	MarketLocked     MarketStatus = "locked"
	MarketSettled    MarketStatus = "settled"
	MarketVoided     MarketStatus = "voided"
)

// marketTransitions define as transições administrativas válidas.
// settled e voided são terminais.
var marketTransitions = map[MarketStatus][]MarketStatus{
	MarketComingSoon: {MarketOpen},
	MarketOpen:       {MarketLocked},
	MarketLocked:     {MarketSettled, MarketVoided, MarketOpen}, // reabrir é permitido
	MarketSettled:    {},
	MarketVoided:     {},
}

// ValidMarketStatus informa se o valor pertence ao conjunto fechado de status
func ValidMarketStatus(s MarketStatus) bool {
	_, ok := marketTransitions[s]
	return ok
}

// CanTransition informa se a transição administrativa from -> to é permitida
func CanTransition(from, to MarketStatus) bool {
	for _, allowed := range marketTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions retorna os destinos válidos a partir de um status
func AllowedTransitions(from MarketStatus) []MarketStatus {
	return marketTransitions[from]
}

// OddsEditable informa se as odds das seleções ainda podem ser alteradas
func (s MarketStatus) OddsEditable() bool {
	return s == MarketComingSoon || s == MarketOpen
}

type BetStatus string

const (
	BetOpen     BetStatus = "open"
	BetWon      BetStatus = "won"
	BetLost     BetStatus = "lost"
	BetVoided   BetStatus = "voided"
	BetReplaced BetStatus = "replaced"
)

// Terminal informa se a aposta já saiu de "open". Apostas terminais nunca
// voltam a mudar de status.
func (s BetStatus) Terminal() bool {
	return s != BetOpen
}

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventLive      EventStatus = "live"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

// Tipos de registro de atividade gravados pelo ledger e pelo catálogo
const (
	ActionBetPlaced       = "bet_placed"
	ActionMarketCreated   = "market_created"
	ActionMarketOpened    = "market_opened"
	ActionMarketSettled   = "market_settled"
	ActionMarketVoided    = "market_voided"
	ActionBalanceAdjusted = "balance_adjusted"
	ActionUserJoined      = "user_joined"
)
