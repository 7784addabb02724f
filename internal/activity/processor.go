package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/model"
	"github.com/radieske/bolao-platform/pkg/contracts/events"
)

// Processor consome os registros de atividade do Kafka, deriva as
// notificações individuais e retransmite o registro no canal Redis do feed.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log     *zap.Logger
	Reader  *kafka.Reader
	DLQ     *kafka.Writer // opcional
	Feed    *FeedRepo
	Redis   *redis.Client
	Channel string

	OnConsumed  func()       // métricas (counter++)
	OnNotified  func()       // métricas
	OnBroadcast func()       // métricas
	OnError     func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var ev events.ActivityRecorded
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			p.toDLQ(ctx, m)
			continue
		}

		if err := p.notify(ctx, ev); err != nil {
			p.Log.Warn("notification derive failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("notify")
			}
			p.toDLQ(ctx, m)
			// broadcast segue mesmo com notificação falha
		} else if p.OnNotified != nil {
			p.OnNotified()
		}

		if err := p.Redis.Publish(ctx, p.Channel, m.Value).Err(); err != nil {
			p.Log.Warn("redis publish failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("broadcast")
			}
			continue
		}
		if p.OnBroadcast != nil {
			p.OnBroadcast()
		}
	}
}

func (p *Processor) toDLQ(ctx context.Context, m kafka.Message) {
	if p.DLQ == nil {
		return
	}
	if err := p.DLQ.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: m.Value, Time: time.Now()}); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
	}
}

// notify deriva as notificações individuais do registro de atividade
func (p *Processor) notify(ctx context.Context, ev events.ActivityRecorded) error {
	switch ev.ActionType {
	case model.ActionBalanceAdjusted:
		if ev.AccountID == "" {
			return nil
		}
		accountID, err := uuid.Parse(ev.AccountID)
		if err != nil {
			return fmt.Errorf("parse account id: %w", err)
		}
		return p.Feed.InsertNotification(ctx, &model.Notification{
			AccountID: accountID,
			Type:      "balance_adjusted",
			Title:     "Balance adjusted",
			Message:   ev.Description,
		})

	case model.ActionMarketSettled, model.ActionMarketVoided:
		marketID, err := marketIDFromMeta(ev.Metadata)
		if err != nil {
			return err
		}
		outcomes, err := p.Feed.OutcomesByMarket(ctx, marketID)
		if err != nil {
			return err
		}
		for _, o := range outcomes {
			n := notificationForOutcome(o)
			if n == nil {
				continue
			}
			if err := p.Feed.InsertNotification(ctx, n); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func marketIDFromMeta(meta map[string]any) (uuid.UUID, error) {
	raw, _ := meta["market_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("metadata market_id: %w", err)
	}
	return id, nil
}

// notificationForOutcome traduz o desfecho da aposta numa notificação.
// Apostas perdidas não notificam: o usuário vê no histórico.
func notificationForOutcome(o BetOutcome) *model.Notification {
	switch o.Status {
	case model.BetWon:
		return &model.Notification{
			AccountID: o.AccountID,
			Type:      "bet_won",
			Title:     "You won!",
			Message:   fmt.Sprintf("Your bet paid out %d coins.", o.Payout),
		}
	case model.BetVoided:
		return &model.Notification{
			AccountID: o.AccountID,
			Type:      "bet_voided",
			Title:     "Market voided",
			Message:   fmt.Sprintf("Your stake of %d coins was refunded.", o.Stake),
		}
	default:
		return nil
	}
}
