package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/model"
)

// Store abre unidades atômicas de trabalho para o motor do ledger.
// Implementações: Postgres (produção, locks pessimistas) e memória (testes).
type Store interface {
	// InTx executa fn dentro de uma transação. Se fn retornar erro, nenhum
	// efeito parcial fica visível; se retornar nil, tudo é commitado junto.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx é o handle de transação passado explicitamente a cada operação do motor
// (nunca estado ambiente/global). Métodos de leitura retornam (nil, nil)
// quando a entidade não existe — o motor converte em erro NotFound.
type Tx interface {
	// Contas. AccountForUpdate segura lock de linha (FOR UPDATE no Postgres)
	// até o fim da transação, garantindo leitura fresca do saldo.
	AccountForUpdate(ctx context.Context, id uuid.UUID) (*model.Account, error)
	SetBalance(ctx context.Context, id uuid.UUID, balance int64) error

	// Catálogo. MarketForUpdate também segura lock de linha: serializa
	// colocação contra liquidação/anulação do mesmo mercado.
	Selection(ctx context.Context, id uuid.UUID) (*model.Selection, error)
	MarketForUpdate(ctx context.Context, id uuid.UUID) (*model.Market, error)
	SelectionsByMarket(ctx context.Context, marketID uuid.UUID) ([]model.Selection, error)

	// Apostas
	OpenBetOnMarket(ctx context.Context, accountID, marketID uuid.UUID) (*model.Bet, error)
	OpenBetsByMarket(ctx context.Context, marketID uuid.UUID) ([]model.Bet, error)
	InsertBet(ctx context.Context, b *model.Bet) error
	SettleBet(ctx context.Context, betID uuid.UUID, status model.BetStatus, settledAt time.Time) error

	// Mutações de liquidação/anulação
	SetMarketStatus(ctx context.Context, marketID uuid.UUID, status model.MarketStatus) error
	SetSelectionWinner(ctx context.Context, selectionID uuid.UUID, winner bool) error

	// Atividade (append-only, persistida na mesma transação)
	InsertActivity(ctx context.Context, a *model.Activity) error

	// Cascata de remoção de evento (§ remoção devolve stakes e apaga as linhas)
	EventForUpdate(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	MarketsByEvent(ctx context.Context, eventID uuid.UUID) ([]model.Market, error)
	DeleteMarketCascade(ctx context.Context, marketID uuid.UUID) error
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
}
