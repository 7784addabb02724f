package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	betsPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bolao_bets_placed_total",
		Help: "Apostas colocadas com sucesso",
	})
	betsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bolao_bets_rejected_total",
		Help: "Apostas rejeitadas, por código de regra",
	}, []string{"code"})
	marketsSettledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bolao_markets_settled_total",
		Help: "Mercados liquidados",
	})
	marketsVoidedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bolao_markets_voided_total",
		Help: "Mercados anulados",
	})
	balanceAdjustmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bolao_balance_adjustments_total",
		Help: "Ajustes administrativos de saldo",
	})
)
