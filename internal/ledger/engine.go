package ledger

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/model"
	"github.com/radieske/bolao-platform/pkg/contracts/events"
)

// Publisher faz o fan-out do registro de atividade depois do commit.
// O registro em banco é parte da transação; a publicação é best-effort.
type Publisher interface {
	PublishActivity(ctx context.Context, e events.ActivityRecorded) error
}

// Engine é o motor do ledger: toda mutação de saldo e de aposta passa por
// aqui, cada operação como uma transação única (tudo-ou-nada).
type Engine struct {
	store Store
	log   *zap.Logger
	publ  Publisher // opcional
	now   func() time.Time
}

func NewEngine(store Store, log *zap.Logger, publ Publisher) *Engine {
	return &Engine{
		store: store,
		log:   log,
		publ:  publ,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SettleSummary resume uma liquidação de mercado
type SettleSummary struct {
	WinnersPaid   int   `json:"winners_paid"`
	LosersMarked  int   `json:"losers_marked"`
	TotalCredited int64 `json:"total_credited"`
}

// VoidSummary resume uma anulação de mercado
type VoidSummary struct {
	RefundedCount int   `json:"refunded_count"`
	TotalRefunded int64 `json:"total_refunded"`
}

// CascadeSummary resume a remoção em cascata de um evento
type CascadeSummary struct {
	BetsVoided    int   `json:"bets_voided"`
	CoinsRefunded int64 `json:"coins_refunded"`
}

// PlaceBet coloca uma aposta de forma atômica: valida as precondições em
// ordem, aplica a regra de uma-aposta-aberta-por-mercado (substituição com
// estorno), debita o saldo e grava aposta + atividade na mesma transação.
func (e *Engine) PlaceBet(ctx context.Context, accountID, selectionID uuid.UUID, stake int64) (*model.Bet, error) {
	if stake <= 0 {
		return nil, E(CodeInvalidStake, "stake must be a positive number")
	}

	var (
		bet      *model.Bet
		activity *model.Activity
	)

	err := e.store.InTx(ctx, func(tx Tx) error {
		sel, err := tx.Selection(ctx, selectionID)
		if err != nil {
			return err
		}
		if sel == nil {
			return E(CodeNotFound, "selection not found")
		}

		// Lock no mercado antes da conta: ordem mercado->conta em todas as
		// operações evita deadlock com liquidação/anulação.
		mkt, err := tx.MarketForUpdate(ctx, sel.MarketID)
		if err != nil {
			return err
		}
		if mkt == nil {
			return E(CodeNotFound, "market not found")
		}
		if mkt.Status != model.MarketOpen {
			return E(CodeMarketNotOpen, "market is not open for betting (status: %s)", mkt.Status)
		}

		// Leitura fresca do saldo sob lock de linha
		acct, err := tx.AccountForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return E(CodeNotFound, "account not found")
		}

		// Regra de uma aposta aberta por mercado: se já existe, estorna o
		// stake antigo ANTES da checagem de saldo, marcando como replaced.
		existing, err := tx.OpenBetOnMarket(ctx, accountID, mkt.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			acct.Balance += existing.Stake
			if err := tx.SetBalance(ctx, acct.ID, acct.Balance); err != nil {
				return err
			}
			if err := tx.SettleBet(ctx, existing.ID, model.BetReplaced, e.now()); err != nil {
				return err
			}
			e.log.Info("replacing bet",
				zap.String("bet_id", existing.ID.String()),
				zap.Int64("old_stake", existing.Stake),
				zap.String("account", acct.Username),
				zap.String("market_id", mkt.ID.String()),
			)
		}

		if acct.Balance < stake {
			return E(CodeInsufficientBalance,
				"insufficient balance. current: %d, attempted stake: %d", acct.Balance, stake)
		}

		// Payout arredondado pra baixo (vantagem da casa), nunca pra cima
		payout := sel.Odds.Mul(decimal.NewFromInt(stake)).Floor().IntPart()

		acct.Balance -= stake
		if err := tx.SetBalance(ctx, acct.ID, acct.Balance); err != nil {
			return err
		}

		bet = &model.Bet{
			ID:              uuid.New(),
			AccountID:       acct.ID,
			SelectionID:     sel.ID,
			Stake:           stake,
			PotentialPayout: payout,
			Status:          model.BetOpen,
			PlacedAt:        e.now(),
		}
		if err := tx.InsertBet(ctx, bet); err != nil {
			return err
		}

		var desc string
		meta := map[string]any{
			"stake":            stake,
			"odds":             sel.Odds.String(),
			"potential_payout": payout,
			"market_id":        mkt.ID.String(),
			"selection_label":  sel.Label,
		}
		if existing != nil {
			desc = fmt.Sprintf("%s changed bet to %d coins on %q in %q (was %d coins)",
				acct.Username, stake, sel.Label, mkt.Question, existing.Stake)
			meta["replaced_bet_id"] = existing.ID.String()
		} else {
			desc = fmt.Sprintf("%s placed %d coins on %q in %q",
				acct.Username, stake, sel.Label, mkt.Question)
		}

		activity = e.newActivity(&acct.ID, model.ActionBetPlaced, desc, meta)
		return tx.InsertActivity(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, activity)
	return bet, nil
}

// SettleMarket liquida um mercado: marca a seleção vencedora, credita os
// payouts das apostas abertas vencedoras e marca as demais como perdidas.
// Tudo numa transação, com lock no mercado durante a varredura.
func (e *Engine) SettleMarket(ctx context.Context, marketID, winningSelectionID uuid.UUID) (*SettleSummary, error) {
	var (
		summary  SettleSummary
		activity *model.Activity
	)

	err := e.store.InTx(ctx, func(tx Tx) error {
		mkt, err := tx.MarketForUpdate(ctx, marketID)
		if err != nil {
			return err
		}
		if mkt == nil {
			return E(CodeNotFound, "market not found")
		}
		if mkt.Status != model.MarketOpen && mkt.Status != model.MarketLocked {
			return E(CodeInvalidMarketState,
				"cannot settle a market with status '%s'. must be 'open' or 'locked'", mkt.Status)
		}

		sels, err := tx.SelectionsByMarket(ctx, marketID)
		if err != nil {
			return err
		}
		var winner *model.Selection
		for i := range sels {
			if sels[i].ID == winningSelectionID {
				winner = &sels[i]
				break
			}
		}
		if winner == nil {
			return E(CodeNotFound, "winning selection not found in this market")
		}

		// is_winner de cada seleção é gravado uma única vez
		for i := range sels {
			if err := tx.SetSelectionWinner(ctx, sels[i].ID, sels[i].ID == winner.ID); err != nil {
				return err
			}
		}

		now := e.now()
		bets, err := tx.OpenBetsByMarket(ctx, marketID)
		if err != nil {
			return err
		}
		sortBetsByAccount(bets)
		for i := range bets {
			b := &bets[i]
			if b.SelectionID == winner.ID {
				acct, err := tx.AccountForUpdate(ctx, b.AccountID)
				if err != nil {
					return err
				}
				if acct != nil {
					if err := tx.SetBalance(ctx, acct.ID, acct.Balance+b.PotentialPayout); err != nil {
						return err
					}
					summary.TotalCredited += b.PotentialPayout
				}
				if err := tx.SettleBet(ctx, b.ID, model.BetWon, now); err != nil {
					return err
				}
				summary.WinnersPaid++
			} else {
				if err := tx.SettleBet(ctx, b.ID, model.BetLost, now); err != nil {
					return err
				}
				summary.LosersMarked++
			}
		}

		if err := tx.SetMarketStatus(ctx, marketID, model.MarketSettled); err != nil {
			return err
		}

		activity = e.newActivity(nil, model.ActionMarketSettled,
			fmt.Sprintf("Market %q settled. Winner: %q", mkt.Question, winner.Label),
			map[string]any{
				"market_id":         mkt.ID.String(),
				"winning_selection": winner.Label,
				"winners_paid":      summary.WinnersPaid,
				"total_credited":    summary.TotalCredited,
			})
		return tx.InsertActivity(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, activity)
	return &summary, nil
}

// VoidMarket anula um mercado: devolve integralmente o stake de toda aposta
// aberta e marca as apostas como voided. Mercado liquidado nunca é anulado.
func (e *Engine) VoidMarket(ctx context.Context, marketID uuid.UUID) (*VoidSummary, error) {
	var (
		summary  VoidSummary
		activity *model.Activity
	)

	err := e.store.InTx(ctx, func(tx Tx) error {
		mkt, err := tx.MarketForUpdate(ctx, marketID)
		if err != nil {
			return err
		}
		if mkt == nil {
			return E(CodeNotFound, "market not found")
		}
		if mkt.Status == model.MarketSettled {
			return E(CodeInvalidMarketState, "cannot void an already settled market")
		}

		now := e.now()
		bets, err := tx.OpenBetsByMarket(ctx, marketID)
		if err != nil {
			return err
		}
		sortBetsByAccount(bets)
		for i := range bets {
			b := &bets[i]
			acct, err := tx.AccountForUpdate(ctx, b.AccountID)
			if err != nil {
				return err
			}
			if acct != nil {
				if err := tx.SetBalance(ctx, acct.ID, acct.Balance+b.Stake); err != nil {
					return err
				}
				summary.TotalRefunded += b.Stake
			}
			if err := tx.SettleBet(ctx, b.ID, model.BetVoided, now); err != nil {
				return err
			}
			summary.RefundedCount++
		}

		if err := tx.SetMarketStatus(ctx, marketID, model.MarketVoided); err != nil {
			return err
		}

		activity = e.newActivity(nil, model.ActionMarketVoided,
			fmt.Sprintf("Market %q voided. All stakes refunded.", mkt.Question),
			map[string]any{
				"market_id":      mkt.ID.String(),
				"refunded_count": summary.RefundedCount,
				"total_refunded": summary.TotalRefunded,
			})
		return tx.InsertActivity(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, activity)
	return &summary, nil
}

// AdjustBalance é o caminho administrativo de ajuste de saldo. Mesmo
// contrato das demais operações: uma transação, um registro de atividade.
func (e *Engine) AdjustBalance(ctx context.Context, accountID uuid.UUID, delta int64, reason, actor string) (int64, error) {
	var (
		newBalance int64
		activity   *model.Activity
	)

	err := e.store.InTx(ctx, func(tx Tx) error {
		acct, err := tx.AccountForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return E(CodeNotFound, "account not found")
		}

		newBalance = acct.Balance + delta
		if newBalance < 0 {
			return E(CodeNegativeResult, "resulting balance would be negative (%d)", newBalance)
		}
		if err := tx.SetBalance(ctx, acct.ID, newBalance); err != nil {
			return err
		}

		if reason == "" {
			reason = "N/A"
		}
		activity = e.newActivity(&acct.ID, model.ActionBalanceAdjusted,
			fmt.Sprintf("%s adjusted %s's balance by %+d coins. Reason: %s",
				actor, acct.Username, delta, reason),
			map[string]any{
				"amount":      delta,
				"new_balance": newBalance,
				"reason":      reason,
			})
		return tx.InsertActivity(ctx, activity)
	})
	if err != nil {
		return 0, err
	}

	e.publish(ctx, activity)
	return newBalance, nil
}

// DeleteEventCascade remove um evento e tudo abaixo dele (mercados,
// seleções, apostas). Toda aposta aberta tem o stake devolvido antes da
// remoção — as linhas são apagadas, não marcadas como voided. O total
// devolvido é exatamente a soma dos stakes das apostas abertas removidas.
func (e *Engine) DeleteEventCascade(ctx context.Context, eventID uuid.UUID) (*CascadeSummary, error) {
	var summary CascadeSummary

	err := e.store.InTx(ctx, func(tx Tx) error {
		ev, err := tx.EventForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return E(CodeNotFound, "event not found")
		}

		markets, err := tx.MarketsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		for i := range markets {
			mkt, err := tx.MarketForUpdate(ctx, markets[i].ID)
			if err != nil {
				return err
			}
			if mkt == nil {
				continue
			}
			bets, err := tx.OpenBetsByMarket(ctx, mkt.ID)
			if err != nil {
				return err
			}
			sortBetsByAccount(bets)
			for j := range bets {
				b := &bets[j]
				acct, err := tx.AccountForUpdate(ctx, b.AccountID)
				if err != nil {
					return err
				}
				if acct != nil {
					if err := tx.SetBalance(ctx, acct.ID, acct.Balance+b.Stake); err != nil {
						return err
					}
					summary.CoinsRefunded += b.Stake
				}
				summary.BetsVoided++
			}
			if err := tx.DeleteMarketCascade(ctx, mkt.ID); err != nil {
				return err
			}
		}

		return tx.DeleteEvent(ctx, eventID)
	})
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// sortBetsByAccount ordena a varredura por account_id (desempate por
// placed_at). Os locks de conta são adquiridos sempre em ordem crescente de
// account_id, inclusive entre varreduras concorrentes de mercados distintos.
func sortBetsByAccount(bets []model.Bet) {
	sort.SliceStable(bets, func(i, j int) bool {
		if c := bytes.Compare(bets[i].AccountID[:], bets[j].AccountID[:]); c != 0 {
			return c < 0
		}
		return bets[i].PlacedAt.Before(bets[j].PlacedAt)
	})
}

func (e *Engine) newActivity(accountID *uuid.UUID, action, desc string, meta map[string]any) *model.Activity {
	return &model.Activity{
		ID:          uuid.New(),
		AccountID:   accountID,
		ActionType:  action,
		Description: desc,
		Metadata:    meta,
		CreatedAt:   e.now(),
	}
}

// publish faz o fan-out best-effort depois do commit
func (e *Engine) publish(ctx context.Context, a *model.Activity) {
	if e.publ == nil || a == nil {
		return
	}
	ev := events.ActivityRecorded{
		ActivityID:  a.ID.String(),
		ActionType:  a.ActionType,
		Description: a.Description,
		Metadata:    a.Metadata,
		TsUnixMs:    a.CreatedAt.UnixMilli(),
	}
	if a.AccountID != nil {
		ev.AccountID = a.AccountID.String()
	}
	if err := e.publ.PublishActivity(ctx, ev); err != nil {
		e.log.Warn("activity publish failed", zap.Error(err))
	}
}
