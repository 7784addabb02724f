package ledger_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/ledger"
	"github.com/radieske/bolao-platform/internal/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newTestEngine(t *testing.T) (*ledger.Engine, *ledger.MemoryStore) {
	t.Helper()
	ms := ledger.NewMemoryStore()
	return ledger.NewEngine(ms, zap.NewNop(), nil), ms
}

func seedAccount(t *testing.T, ms *ledger.MemoryStore, username string, balance int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	ms.PutAccount(model.Account{
		ID:       id,
		Username: username,
		Email:    username + "@bolao.local",
		Balance:  balance,
		IsActive: true,
	})
	return id
}

// seedMarket cria um mercado aberto com as seleções informadas (label -> odds)
func seedMarket(t *testing.T, ms *ledger.MemoryStore, status model.MarketStatus, odds map[string]string) (uuid.UUID, map[string]uuid.UUID) {
	t.Helper()
	marketID := uuid.New()
	ms.PutMarket(model.Market{
		ID:         marketID,
		Question:   "Who wins the final?",
		MarketType: "match_result",
		Status:     status,
	})
	sels := make(map[string]uuid.UUID, len(odds))
	for label, o := range odds {
		id := uuid.New()
		ms.PutSelection(model.Selection{ID: id, MarketID: marketID, Label: label, Odds: d(o)})
		sels[label] = id
	}
	return marketID, sels
}

func wantCode(t *testing.T, err error, code ledger.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("esperava erro %s, veio nil", code)
	}
	got, ok := ledger.CodeOf(err)
	if !ok {
		t.Fatalf("esperava *ledger.Error, veio %T: %v", err, err)
	}
	if got != code {
		t.Fatalf("código = %s, esperado %s (%v)", got, code, err)
	}
}

// openBetsOn conta apostas abertas da conta em seleções do mercado
func openBetsOn(ms *ledger.MemoryStore, accountID uuid.UUID, selIDs map[string]uuid.UUID) int {
	byID := map[uuid.UUID]bool{}
	for _, id := range selIDs {
		byID[id] = true
	}
	n := 0
	for _, b := range ms.Bets() {
		if b.AccountID == accountID && b.Status == model.BetOpen && byID[b.SelectionID] {
			n++
		}
	}
	return n
}

func TestPlaceBet_FloorPayout(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	acct := seedAccount(t, ms, "alice", 1000)
	_, sels := seedMarket(t, ms, model.MarketOpen, map[string]string{"Home": "2.50", "Away": "1.33"})

	// Cenário A: stake 200 a 2.50 -> payout 500, saldo 800
	bet, err := eng.PlaceBet(ctx, acct, sels["Home"], 200)
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if bet.PotentialPayout != 500 {
		t.Errorf("payout = %d, esperado 500", bet.PotentialPayout)
	}
	if bet.Status != model.BetOpen {
		t.Errorf("status = %s, esperado open", bet.Status)
	}
	if got := ms.Account(acct).Balance; got != 800 {
		t.Errorf("saldo = %d, esperado 800", got)
	}

	// 1.33 * 3 = 3.99 -> arredonda pra baixo, nunca pra cima
	bob := seedAccount(t, ms, "bob", 10)
	b2, err := eng.PlaceBet(ctx, bob, sels["Away"], 3)
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if b2.PotentialPayout != 3 {
		t.Errorf("payout = %d, esperado 3 (floor de 3.99)", b2.PotentialPayout)
	}
}

func TestPlaceBet_ReplacesOpenBetOnSameMarket(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	acct := seedAccount(t, ms, "alice", 1000)
	_, sels := seedMarket(t, ms, model.MarketOpen, map[string]string{"Home": "2.50", "Away": "3.00"})

	first, err := eng.PlaceBet(ctx, acct, sels["Home"], 200)
	if err != nil {
		t.Fatalf("primeira aposta: %v", err)
	}

	// Cenário B: aposta em outra seleção do MESMO mercado substitui a
	// anterior; os 200 voltam antes do débito dos 300 -> saldo final 700
	_, err = eng.PlaceBet(ctx, acct, sels["Away"], 300)
	if err != nil {
		t.Fatalf("segunda aposta: %v", err)
	}

	if got := ms.Account(acct).Balance; got != 700 {
		t.Errorf("saldo = %d, esperado 700", got)
	}
	old := ms.Bet(first.ID)
	if old.Status != model.BetReplaced {
		t.Errorf("aposta antiga = %s, esperado replaced", old.Status)
	}
	if old.SettledAt == nil {
		t.Error("settled_at da aposta substituída não foi carimbado")
	}
	if n := openBetsOn(ms, acct, sels); n != 1 {
		t.Errorf("apostas abertas no mercado = %d, esperado 1", n)
	}

	// A substituição referencia a aposta antiga nos metadados
	acts := ms.Activities()
	last := acts[len(acts)-1]
	if last.Metadata["replaced_bet_id"] != first.ID.String() {
		t.Errorf("metadata replaced_bet_id = %v, esperado %s", last.Metadata["replaced_bet_id"], first.ID)
	}
}

func TestPlaceBet_ReplaceMakesRefundSpendable(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	// Saldo 100, aposta 100. Nova aposta de 100 só passa porque o estorno
	// da substituída acontece antes da checagem de saldo.
	acct := seedAccount(t, ms, "carol", 100)
	_, sels := seedMarket(t, ms, model.MarketOpen, map[string]string{"Home": "2.00", "Away": "2.00"})

	if _, err := eng.PlaceBet(ctx, acct, sels["Home"], 100); err != nil {
		t.Fatalf("primeira aposta: %v", err)
	}
	if got := ms.Account(acct).Balance; got != 0 {
		t.Fatalf("saldo = %d, esperado 0", got)
	}
	if _, err := eng.PlaceBet(ctx, acct, sels["Away"], 100); err != nil {
		t.Fatalf("substituição deveria passar com o estorno disponível: %v", err)
	}
	if got := ms.Account(acct).Balance; got != 0 {
		t.Errorf("saldo = %d, esperado 0", got)
	}
}

func TestPlaceBet_Preconditions(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	acct := seedAccount(t, ms, "alice", 1000)
	_, open := seedMarket(t, ms, model.MarketOpen, map[string]string{"Home": "2.00", "Away": "2.00"})
	_, locked := seedMarket(t, ms, model.MarketLocked, map[string]string{"Home": "2.00", "Away": "2.00"})
	_, soon := seedMarket(t, ms, model.MarketComingSoon, map[string]string{"Home": "2.00", "Away": "2.00"})

	// Cenário E: stake não positivo falha antes de qualquer mutação
	_, err := eng.PlaceBet(ctx, acct, open["Home"], 0)
	wantCode(t, err, ledger.CodeInvalidStake)
	_, err = eng.PlaceBet(ctx, acct, open["Home"], -5)
	wantCode(t, err, ledger.CodeInvalidStake)
	if len(ms.Activities()) != 0 {
		t.Error("stake inválido não pode emitir atividade")
	}
	if got := ms.Account(acct).Balance; got != 1000 {
		t.Errorf("saldo mudou pra %d com stake inválido", got)
	}

	_, err = eng.PlaceBet(ctx, acct, uuid.New(), 10)
	wantCode(t, err, ledger.CodeNotFound)

	_, err = eng.PlaceBet(ctx, acct, locked["Home"], 10)
	wantCode(t, err, ledger.CodeMarketNotOpen)
	if err != nil && !strings.Contains(err.Error(), "locked") {
		t.Errorf("mensagem deveria incluir o status atual: %v", err)
	}
	_, err = eng.PlaceBet(ctx, acct, soon["Home"], 10)
	wantCode(t, err, ledger.CodeMarketNotOpen)

	_, err = eng.PlaceBet(ctx, uuid.New(), open["Home"], 10)
	wantCode(t, err, ledger.CodeNotFound)

	_, err = eng.PlaceBet(ctx, acct, open["Home"], 5000)
	wantCode(t, err, ledger.CodeInsufficientBalance)
	if err != nil && (!strings.Contains(err.Error(), "1000") || !strings.Contains(err.Error(), "5000")) {
		t.Errorf("mensagem deveria incluir saldo e stake: %v", err)
	}

	// nada disso pode ter deixado estado parcial
	if len(ms.Bets()) != 0 {
		t.Errorf("apostas criadas em falha = %d", len(ms.Bets()))
	}
	if len(ms.Activities()) != 0 {
		t.Errorf("atividades emitidas em falha = %d", len(ms.Activities()))
	}
}

func TestSettleMarket(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	// Cenário C: A odds 2.0 / B odds 3.0, user1 100 em A, user2 50 em B
	user1 := seedAccount(t, ms, "user1", 1000)
	user2 := seedAccount(t, ms, "user2", 1000)
	marketID, sels := seedMarket(t, ms, model.MarketOpen, map[string]string{"A": "2.00", "B": "3.00"})

	b1, err := eng.PlaceBet(ctx, user1, sels["A"], 100)
	if err != nil {
		t.Fatalf("user1: %v", err)
	}
	b2, err := eng.PlaceBet(ctx, user2, sels["B"], 50)
	if err != nil {
		t.Fatalf("user2: %v", err)
	}

	sum, err := eng.SettleMarket(ctx, marketID, sels["A"])
	if err != nil {
		t.Fatalf("SettleMarket: %v", err)
	}
	if sum.WinnersPaid != 1 || sum.LosersMarked != 1 || sum.TotalCredited != 200 {
		t.Errorf("summary = %+v, esperado {1 1 200}", sum)
	}

	if got := ms.Account(user1).Balance; got != 1100 { // 1000 - 100 + 200
		t.Errorf("user1 saldo = %d, esperado 1100", got)
	}
	if got := ms.Account(user2).Balance; got != 950 { // 1000 - 50, sem crédito
		t.Errorf("user2 saldo = %d, esperado 950", got)
	}
	if st := ms.Bet(b1.ID).Status; st != model.BetWon {
		t.Errorf("aposta vencedora = %s", st)
	}
	if st := ms.Bet(b2.ID).Status; st != model.BetLost {
		t.Errorf("aposta perdedora = %s", st)
	}
	if ms.Bet(b1.ID).SettledAt == nil || ms.Bet(b2.ID).SettledAt == nil {
		t.Error("settled_at não carimbado na liquidação")
	}
	if st := ms.Market(marketID).Status; st != model.MarketSettled {
		t.Errorf("mercado = %s, esperado settled", st)
	}

	// is_winner: true na vencedora, false nas demais
	if w := ms.SelectionByID(sels["A"]).IsWinner; w == nil || !*w {
		t.Error("seleção vencedora sem is_winner=true")
	}
	if w := ms.SelectionByID(sels["B"]).IsWinner; w == nil || *w {
		t.Error("seleção perdedora sem is_winner=false")
	}

	// liquidar de novo é rejeitado na precondição, sem mutação
	before := ms.Account(user1).Balance
	_, err = eng.SettleMarket(ctx, marketID, sels["A"])
	wantCode(t, err, ledger.CodeInvalidMarketState)
	if got := ms.Account(user1).Balance; got != before {
		t.Errorf("liquidação repetida mudou saldo: %d -> %d", before, got)
	}
}

func TestSettleMarket_Preconditions(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	marketID, sels := seedMarket(t, ms, model.MarketLocked, map[string]string{"A": "2.00", "B": "3.00"})
	otherMarket, otherSels := seedMarket(t, ms, model.MarketOpen, map[string]string{"X": "2.00", "Y": "2.00"})
	_ = otherMarket

	_, err := eng.SettleMarket(ctx, uuid.New(), sels["A"])
	wantCode(t, err, ledger.CodeNotFound)

	// seleção vencedora precisa pertencer ao mercado
	_, err = eng.SettleMarket(ctx, marketID, otherSels["X"])
	wantCode(t, err, ledger.CodeNotFound)

	// mercado locked liquida normalmente
	if _, err := eng.SettleMarket(ctx, marketID, sels["A"]); err != nil {
		t.Fatalf("liquidar mercado locked: %v", err)
	}
}

func TestVoidMarket(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	// Cenário D: uma aposta aberta de 150; anular devolve tudo
	acct := seedAccount(t, ms, "alice", 1000)
	marketID, sels := seedMarket(t, ms, model.MarketOpen, map[string]string{"Home": "2.00", "Away": "2.00"})

	bet, err := eng.PlaceBet(ctx, acct, sels["Home"], 150)
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	sum, err := eng.VoidMarket(ctx, marketID)
	if err != nil {
		t.Fatalf("VoidMarket: %v", err)
	}
	if sum.RefundedCount != 1 || sum.TotalRefunded != 150 {
		t.Errorf("summary = %+v, esperado {1 150}", sum)
	}
	if got := ms.Account(acct).Balance; got != 1000 {
		t.Errorf("saldo = %d, esperado 1000", got)
	}
	voided := ms.Bet(bet.ID)
	if voided.Status != model.BetVoided || voided.SettledAt == nil {
		t.Errorf("aposta = %s settled_at=%v, esperado voided + carimbo", voided.Status, voided.SettledAt)
	}
	if st := ms.Market(marketID).Status; st != model.MarketVoided {
		t.Errorf("mercado = %s, esperado voided", st)
	}

	// liquidar depois de anulado é rejeitado
	_, err = eng.SettleMarket(ctx, marketID, sels["Home"])
	wantCode(t, err, ledger.CodeInvalidMarketState)
}

func TestVoidMarket_SettledIsFinal(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	marketID, sels := seedMarket(t, ms, model.MarketOpen, map[string]string{"A": "2.00", "B": "2.00"})
	if _, err := eng.SettleMarket(ctx, marketID, sels["A"]); err != nil {
		t.Fatalf("SettleMarket: %v", err)
	}
	_, err := eng.VoidMarket(ctx, marketID)
	wantCode(t, err, ledger.CodeInvalidMarketState)
}

func TestVoidMarket_RefundEqualsOpenStakes(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	u1 := seedAccount(t, ms, "u1", 500)
	u2 := seedAccount(t, ms, "u2", 500)
	u3 := seedAccount(t, ms, "u3", 500)
	marketID, sels := seedMarket(t, ms, model.MarketOpen, map[string]string{"A": "2.00", "B": "3.00"})

	if _, err := eng.PlaceBet(ctx, u1, sels["A"], 120); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.PlaceBet(ctx, u2, sels["B"], 80); err != nil {
		t.Fatal(err)
	}
	// u3 aposta e substitui: só a aposta viva conta no estorno
	if _, err := eng.PlaceBet(ctx, u3, sels["A"], 60); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.PlaceBet(ctx, u3, sels["B"], 90); err != nil {
		t.Fatal(err)
	}

	sum, err := eng.VoidMarket(ctx, marketID)
	if err != nil {
		t.Fatalf("VoidMarket: %v", err)
	}
	if sum.TotalRefunded != 120+80+90 {
		t.Errorf("total_refunded = %d, esperado %d", sum.TotalRefunded, 120+80+90)
	}
	if sum.RefundedCount != 3 {
		t.Errorf("refunded_count = %d, esperado 3", sum.RefundedCount)
	}
}

func TestAdjustBalance(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	acct := seedAccount(t, ms, "alice", 100)

	nb, err := eng.AdjustBalance(ctx, acct, 50, "bonus", "admin")
	if err != nil {
		t.Fatalf("AdjustBalance: %v", err)
	}
	if nb != 150 {
		t.Errorf("novo saldo = %d, esperado 150", nb)
	}

	if _, err := eng.AdjustBalance(ctx, acct, -150, "zera", "admin"); err != nil {
		t.Fatalf("ajuste até zero deveria passar: %v", err)
	}

	_, err = eng.AdjustBalance(ctx, acct, -1, "estouro", "admin")
	wantCode(t, err, ledger.CodeNegativeResult)
	if got := ms.Account(acct).Balance; got != 0 {
		t.Errorf("saldo = %d, esperado 0 após rejeição", got)
	}

	_, err = eng.AdjustBalance(ctx, uuid.New(), 10, "", "admin")
	wantCode(t, err, ledger.CodeNotFound)

	// um registro de atividade por ajuste bem-sucedido
	n := 0
	for _, a := range ms.Activities() {
		if a.ActionType == model.ActionBalanceAdjusted {
			n++
		}
	}
	if n != 2 {
		t.Errorf("atividades balance_adjusted = %d, esperado 2", n)
	}
}

func TestDeleteEventCascade(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	u1 := seedAccount(t, ms, "u1", 1000)
	u2 := seedAccount(t, ms, "u2", 1000)

	eventID := uuid.New()
	ms.PutEvent(model.Event{ID: eventID, TournamentID: uuid.New(), Title: "Final", Status: model.EventUpcoming})

	m1, s1 := seedMarket(t, ms, model.MarketOpen, map[string]string{"A": "2.00", "B": "2.00"})
	m2, s2 := seedMarket(t, ms, model.MarketOpen, map[string]string{"X": "1.50", "Y": "2.50"})
	for _, mid := range []uuid.UUID{m1, m2} {
		m := ms.Market(mid)
		m.EventID = &eventID
		ms.PutMarket(*m)
	}

	if _, err := eng.PlaceBet(ctx, u1, s1["A"], 100); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.PlaceBet(ctx, u2, s2["Y"], 250); err != nil {
		t.Fatal(err)
	}
	// aposta já liquidada não é estornada (mas a linha some junto)
	if _, err := eng.PlaceBet(ctx, u2, s1["B"], 40); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.SettleMarket(ctx, m1, s1["A"]); err != nil {
		t.Fatal(err)
	}

	balU1 := ms.Account(u1).Balance
	balU2 := ms.Account(u2).Balance

	sum, err := eng.DeleteEventCascade(ctx, eventID)
	if err != nil {
		t.Fatalf("DeleteEventCascade: %v", err)
	}
	// só a aposta aberta de u2 (250) estava viva: m1 já tinha liquidado
	if sum.BetsVoided != 1 || sum.CoinsRefunded != 250 {
		t.Errorf("summary = %+v, esperado {1 250}", sum)
	}
	if got := ms.Account(u2).Balance; got != balU2+250 {
		t.Errorf("u2 saldo = %d, esperado %d", got, balU2+250)
	}
	if got := ms.Account(u1).Balance; got != balU1 {
		t.Errorf("u1 saldo mudou sem aposta aberta: %d -> %d", balU1, got)
	}

	if ms.Event(eventID) != nil {
		t.Error("evento não foi removido")
	}
	if ms.Market(m1) != nil || ms.Market(m2) != nil {
		t.Error("mercados não foram removidos")
	}
	if n := len(ms.Bets()); n != 0 {
		t.Errorf("apostas remanescentes = %d, esperado 0 (linhas apagadas)", n)
	}

	_, err = eng.DeleteEventCascade(ctx, eventID)
	wantCode(t, err, ledger.CodeNotFound)
}

// Conservação: sum(saldos) + sum(stakes abertos) só muda pelo ajuste
// administrativo e pela vantagem da casa no arredondamento do payout.
func TestBalanceConservation(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	u1 := seedAccount(t, ms, "u1", 1000)
	u2 := seedAccount(t, ms, "u2", 1000)

	total := func() int64 {
		sum := ms.Account(u1).Balance + ms.Account(u2).Balance
		for _, b := range ms.Bets() {
			if b.Status == model.BetOpen {
				sum += b.Stake
			}
		}
		return sum
	}

	start := total()

	mA, selA := seedMarket(t, ms, model.MarketOpen, map[string]string{"H": "2.50", "D": "3.33", "A": "2.80"})
	mB, selB := seedMarket(t, ms, model.MarketOpen, map[string]string{"Yes": "1.95", "No": "1.85"})

	if _, err := eng.PlaceBet(ctx, u1, selA["H"], 137); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.PlaceBet(ctx, u1, selA["D"], 211); err != nil { // substitui
		t.Fatal(err)
	}
	if _, err := eng.PlaceBet(ctx, u2, selA["A"], 99); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.PlaceBet(ctx, u2, selB["Yes"], 301); err != nil {
		t.Fatal(err)
	}
	if got := total(); got != start {
		t.Fatalf("colocações alteraram o total: %d -> %d", start, got)
	}

	// void devolve tudo: total inalterado
	if _, err := eng.VoidMarket(ctx, mB); err != nil {
		t.Fatal(err)
	}
	if got := total(); got != start {
		t.Fatalf("void alterou o total: %d -> %d", start, got)
	}

	// liquidação: o vencedor recebe payout = floor(3.33 * 211) = 702;
	// stake de 211 já tinha saído do total, então o delta é +702 - 99 - 211
	// em relação ao que estava aberto. Conferimos contra o valor exato.
	sum, err := eng.SettleMarket(ctx, mA, selA["D"])
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalCredited != 702 {
		t.Fatalf("total_credited = %d, esperado 702", sum.TotalCredited)
	}
	want := start - 211 - 99 + 702 // stakes perdidos pro sistema, payout entra
	if got := total(); got != want {
		t.Fatalf("total pós-liquidação = %d, esperado %d", got, want)
	}

	// ajuste administrativo é a única outra fonte/sumidouro
	if _, err := eng.AdjustBalance(ctx, u1, 500, "top-up", "admin"); err != nil {
		t.Fatal(err)
	}
	if got := total(); got != want+500 {
		t.Fatalf("total pós-ajuste = %d, esperado %d", got, want+500)
	}
}

func TestAtMostOneOpenBetPerMarket(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	acct := seedAccount(t, ms, "alice", 10000)
	_, sels := seedMarket(t, ms, model.MarketOpen, map[string]string{"A": "2.00", "B": "3.00", "C": "4.00"})

	for i, label := range []string{"A", "B", "C", "A", "C", "B"} {
		if _, err := eng.PlaceBet(ctx, acct, sels[label], int64(10+i)); err != nil {
			t.Fatalf("aposta %d: %v", i, err)
		}
		if n := openBetsOn(ms, acct, sels); n != 1 {
			t.Fatalf("após aposta %d: %d abertas, esperado 1", i, n)
		}
	}

	// apostas abertas em mercados DIFERENTES convivem
	_, other := seedMarket(t, ms, model.MarketOpen, map[string]string{"X": "2.00", "Y": "2.00"})
	if _, err := eng.PlaceBet(ctx, acct, other["X"], 10); err != nil {
		t.Fatal(err)
	}
	if n := openBetsOn(ms, acct, sels) + openBetsOn(ms, acct, other); n != 2 {
		t.Errorf("abertas no total = %d, esperado 2", n)
	}
}

func TestActivityEmission(t *testing.T) {
	eng, ms := newTestEngine(t)
	ctx := context.Background()

	acct := seedAccount(t, ms, "alice", 1000)
	marketID, sels := seedMarket(t, ms, model.MarketOpen, map[string]string{"A": "2.00", "B": "2.00"})

	if _, err := eng.PlaceBet(ctx, acct, sels["A"], 100); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.SettleMarket(ctx, marketID, sels["A"]); err != nil {
		t.Fatal(err)
	}

	acts := ms.Activities()
	if len(acts) != 2 {
		t.Fatalf("atividades = %d, esperado 2 (uma por operação)", len(acts))
	}
	if acts[0].ActionType != model.ActionBetPlaced {
		t.Errorf("primeira atividade = %s", acts[0].ActionType)
	}
	if acts[0].AccountID == nil || *acts[0].AccountID != acct {
		t.Error("bet_placed sem account_id")
	}
	if acts[1].ActionType != model.ActionMarketSettled {
		t.Errorf("segunda atividade = %s", acts[1].ActionType)
	}
	if acts[1].Metadata["winning_selection"] != "A" {
		t.Errorf("metadata winning_selection = %v", acts[1].Metadata["winning_selection"])
	}
}
