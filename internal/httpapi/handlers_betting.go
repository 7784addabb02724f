package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/auth"
	"github.com/radieske/bolao-platform/internal/catalog"
	"github.com/radieske/bolao-platform/internal/ledger"
	"github.com/radieske/bolao-platform/internal/model"
)

// placeBet coloca uma aposta pela conta autenticada. Toda a regra fica no
// motor do ledger; aqui só entra o decode e a tradução do erro.
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req PlaceBetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	acct := auth.FromContext(r.Context())

	bet, err := s.Engine.PlaceBet(r.Context(), acct.ID, req.SelectionID, req.Stake)
	if err != nil {
		if code, ok := ledger.CodeOf(err); ok {
			betsRejectedTotal.WithLabelValues(string(code)).Inc()
		}
		writeError(w, err)
		return
	}
	betsPlacedTotal.Inc()
	s.Log.Info("bet placed",
		zap.String("bet_id", bet.ID.String()),
		zap.String("account", acct.Username),
		zap.Int64("stake", bet.Stake),
	)

	writeJSON(w, http.StatusCreated, BetOut{
		ID:              bet.ID,
		SelectionID:     bet.SelectionID,
		Stake:           bet.Stake,
		PotentialPayout: bet.PotentialPayout,
		Status:          bet.Status,
		PlacedAt:        bet.PlacedAt,
	})
}

// myBets lista as apostas da conta. Sem ?status, substituídas ficam de fora.
func (s *Server) myBets(w http.ResponseWriter, r *http.Request) {
	acct := auth.FromContext(r.Context())

	var status *model.BetStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := model.BetStatus(raw)
		status = &st
	}

	views, err := s.Catalog.BetsByAccount(r.Context(), acct.ID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, betViewsOut(views, false))
}

// marketBets lista toda aposta de um mercado, visão administrativa
func (s *Server) marketBets(w http.ResponseWriter, r *http.Request) {
	marketID, ok := uuidParam(r, "marketID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid market id")
		return
	}
	views, err := s.Catalog.BetsByMarket(r.Context(), marketID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, betViewsOut(views, true))
}

func betViewsOut(views []catalog.BetView, withUsername bool) []BetOut {
	out := make([]BetOut, 0, len(views))
	for _, v := range views {
		b := BetOut{
			ID:              v.ID,
			SelectionID:     v.SelectionID,
			SelectionLabel:  v.SelectionLabel,
			Odds:            v.Odds.String(),
			MarketID:        v.MarketID,
			MarketQuestion:  v.MarketQuestion,
			MarketStatus:    v.MarketStatus,
			Stake:           v.Stake,
			PotentialPayout: v.PotentialPayout,
			Status:          v.Status,
			PlacedAt:        v.PlacedAt,
			SettledAt:       v.SettledAt,
		}
		if withUsername {
			b.Username = v.Username
		}
		out = append(out, b)
	}
	return out
}

// settleMarket liquida o mercado com a seleção vencedora informada
func (s *Server) settleMarket(w http.ResponseWriter, r *http.Request) {
	marketID, ok := uuidParam(r, "marketID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid market id")
		return
	}
	var req SettleMarketRequest
	if !decodeBody(w, r, &req) {
		return
	}

	summary, err := s.Engine.SettleMarket(r.Context(), marketID, req.WinningSelectionID)
	if err != nil {
		writeError(w, err)
		return
	}
	marketsSettledTotal.Inc()
	writeJSON(w, http.StatusOK, summary)
}

// voidMarket anula o mercado devolvendo todos os stakes abertos
func (s *Server) voidMarket(w http.ResponseWriter, r *http.Request) {
	marketID, ok := uuidParam(r, "marketID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid market id")
		return
	}
	summary, err := s.Engine.VoidMarket(r.Context(), marketID)
	if err != nil {
		writeError(w, err)
		return
	}
	marketsVoidedTotal.Inc()
	writeJSON(w, http.StatusOK, summary)
}

// adjustBalance é o ajuste administrativo de saldo (positivo ou negativo)
func (s *Server) adjustBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(r, "userID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req AdjustBalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	admin := auth.FromContext(r.Context())

	newBalance, err := s.Engine.AdjustBalance(r.Context(), userID, req.Amount, req.Reason, admin.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	balanceAdjustmentsTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Balance adjusted",
		"new_balance": newBalance,
	})
}
