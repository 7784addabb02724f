package activity

import (
	"testing"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/model"
)

func TestNotificationForOutcome(t *testing.T) {
	acct := uuid.New()

	won := notificationForOutcome(BetOutcome{AccountID: acct, Status: model.BetWon, Payout: 500})
	if won == nil || won.Type != "bet_won" {
		t.Fatalf("won = %+v, esperado notificação bet_won", won)
	}
	if won.Message != "Your bet paid out 500 coins." {
		t.Errorf("mensagem = %q", won.Message)
	}
	if won.AccountID != acct {
		t.Error("notificação com conta errada")
	}

	voided := notificationForOutcome(BetOutcome{AccountID: acct, Status: model.BetVoided, Stake: 150})
	if voided == nil || voided.Type != "bet_voided" {
		t.Fatalf("voided = %+v, esperado notificação bet_voided", voided)
	}
	if voided.Message != "Your stake of 150 coins was refunded." {
		t.Errorf("mensagem = %q", voided.Message)
	}

	// derrota não notifica
	if n := notificationForOutcome(BetOutcome{AccountID: acct, Status: model.BetLost}); n != nil {
		t.Errorf("lost = %+v, esperado nil", n)
	}
}

func TestMarketIDFromMeta(t *testing.T) {
	id := uuid.New()
	got, err := marketIDFromMeta(map[string]any{"market_id": id.String()})
	if err != nil {
		t.Fatalf("marketIDFromMeta: %v", err)
	}
	if got != id {
		t.Errorf("id = %s, esperado %s", got, id)
	}

	if _, err := marketIDFromMeta(map[string]any{}); err == nil {
		t.Error("metadata sem market_id deveria falhar")
	}
	if _, err := marketIDFromMeta(map[string]any{"market_id": 42}); err == nil {
		t.Error("market_id não-string deveria falhar")
	}
}
