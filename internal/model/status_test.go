package model_test

import (
	"testing"

	"github.com/radieske/bolao-platform/internal/model"
)

func TestMarketTransitions(t *testing.T) {
	cases := []struct {
		from, to model.MarketStatus
		ok       bool
	}{
		{model.MarketComingSoon, model.MarketOpen, true},
		{model.MarketComingSoon, model.MarketLocked, false},
		{model.MarketComingSoon, model.MarketSettled, false},
		{model.MarketOpen, model.MarketLocked, true},
		{model.MarketOpen, model.MarketSettled, false},
		{model.MarketOpen, model.MarketComingSoon, false},
		{model.MarketLocked, model.MarketSettled, true},
		{model.MarketLocked, model.MarketVoided, true},
		{model.MarketLocked, model.MarketOpen, true}, // reabertura
		{model.MarketSettled, model.MarketOpen, false},
		{model.MarketSettled, model.MarketVoided, false},
		{model.MarketVoided, model.MarketOpen, false},
		{model.MarketVoided, model.MarketSettled, false},
	}

	for _, c := range cases {
		if got := model.CanTransition(c.from, c.to); got != c.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	for _, s := range []model.MarketStatus{model.MarketSettled, model.MarketVoided} {
		if len(model.AllowedTransitions(s)) != 0 {
			t.Errorf("%s deveria ser terminal", s)
		}
	}
}

func TestOddsEditable(t *testing.T) {
	editable := map[model.MarketStatus]bool{
		model.MarketComingSoon: true,
		model.MarketOpen:       true,
		model.MarketLocked:     false,
		model.MarketSettled:    false,
		model.MarketVoided:     false,
	}
	for s, want := range editable {
		if got := s.OddsEditable(); got != want {
			t.Errorf("%s.OddsEditable() = %v, want %v", s, got, want)
		}
	}
}

func TestBetStatusTerminal(t *testing.T) {
	if model.BetOpen.Terminal() {
		t.Error("open não é terminal")
	}
	for _, s := range []model.BetStatus{model.BetWon, model.BetLost, model.BetVoided, model.BetReplaced} {
		if !s.Terminal() {
			t.Errorf("%s deveria ser terminal", s)
		}
	}
}

func TestValidMarketStatus(t *testing.T) {
	if !model.ValidMarketStatus(model.MarketOpen) {
		t.Error("open deveria ser válido")
	}
	if model.ValidMarketStatus(model.MarketStatus("cancelled")) {
		t.Error("cancelled não é status de mercado")
	}
}
