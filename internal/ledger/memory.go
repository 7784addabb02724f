package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/model"
)

// MemoryStore implementa Store com mapas em memória. Usado em testes e
// desenvolvimento; não serve pra produção (sem persistência).
// InTx clona o estado inteiro e só troca no commit, então o tudo-ou-nada
// vale igual ao Postgres.
type MemoryStore struct {
	mu sync.Mutex
	st *memState
}

type memState struct {
	accounts   map[uuid.UUID]*model.Account
	events     map[uuid.UUID]*model.Event
	markets    map[uuid.UUID]*model.Market
	selections map[uuid.UUID]*model.Selection
	bets       map[uuid.UUID]*model.Bet
	activities []model.Activity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: &memState{
		accounts:   make(map[uuid.UUID]*model.Account),
		events:     make(map[uuid.UUID]*model.Event),
		markets:    make(map[uuid.UUID]*model.Market),
		selections: make(map[uuid.UUID]*model.Selection),
		bets:       make(map[uuid.UUID]*model.Bet),
	}}
}

func (s *memState) clone() *memState {
	c := &memState{
		accounts:   make(map[uuid.UUID]*model.Account, len(s.accounts)),
		events:     make(map[uuid.UUID]*model.Event, len(s.events)),
		markets:    make(map[uuid.UUID]*model.Market, len(s.markets)),
		selections: make(map[uuid.UUID]*model.Selection, len(s.selections)),
		bets:       make(map[uuid.UUID]*model.Bet, len(s.bets)),
		activities: append([]model.Activity(nil), s.activities...),
	}
	for id, a := range s.accounts {
		cp := *a
		c.accounts[id] = &cp
	}
	for id, e := range s.events {
		cp := *e
		c.events[id] = &cp
	}
	for id, m := range s.markets {
		cp := *m
		c.markets[id] = &cp
	}
	for id, sel := range s.selections {
		cp := *sel
		c.selections[id] = &cp
	}
	for id, b := range s.bets {
		cp := *b
		c.bets[id] = &cp
	}
	return c
}

// InTx serializa tudo com um mutex global: a unidade é de escritor único,
// equivalente em memória aos locks de linha do Postgres.
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&memTx{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

type memTx struct{ st *memState }

func (t *memTx) AccountForUpdate(_ context.Context, id uuid.UUID) (*model.Account, error) {
	if a, ok := t.st.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (t *memTx) SetBalance(_ context.Context, id uuid.UUID, balance int64) error {
	if a, ok := t.st.accounts[id]; ok {
		a.Balance = balance
	}
	return nil
}

func (t *memTx) Selection(_ context.Context, id uuid.UUID) (*model.Selection, error) {
	if sel, ok := t.st.selections[id]; ok {
		cp := *sel
		return &cp, nil
	}
	return nil, nil
}

func (t *memTx) MarketForUpdate(_ context.Context, id uuid.UUID) (*model.Market, error) {
	if m, ok := t.st.markets[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (t *memTx) SelectionsByMarket(_ context.Context, marketID uuid.UUID) ([]model.Selection, error) {
	var out []model.Selection
	for _, sel := range t.st.selections {
		if sel.MarketID == marketID {
			out = append(out, *sel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (t *memTx) OpenBetOnMarket(_ context.Context, accountID, marketID uuid.UUID) (*model.Bet, error) {
	for _, b := range t.st.bets {
		if b.AccountID != accountID || b.Status != model.BetOpen {
			continue
		}
		if sel, ok := t.st.selections[b.SelectionID]; ok && sel.MarketID == marketID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (t *memTx) OpenBetsByMarket(_ context.Context, marketID uuid.UUID) ([]model.Bet, error) {
	var out []model.Bet
	for _, b := range t.st.bets {
		if b.Status != model.BetOpen {
			continue
		}
		if sel, ok := t.st.selections[b.SelectionID]; ok && sel.MarketID == marketID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].PlacedAt.Before(out[j].PlacedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (t *memTx) InsertBet(_ context.Context, b *model.Bet) error {
	cp := *b
	t.st.bets[b.ID] = &cp
	return nil
}

func (t *memTx) SettleBet(_ context.Context, betID uuid.UUID, status model.BetStatus, settledAt time.Time) error {
	if b, ok := t.st.bets[betID]; ok {
		b.Status = status
		at := settledAt
		b.SettledAt = &at
	}
	return nil
}

func (t *memTx) SetMarketStatus(_ context.Context, marketID uuid.UUID, status model.MarketStatus) error {
	if m, ok := t.st.markets[marketID]; ok {
		m.Status = status
	}
	return nil
}

func (t *memTx) SetSelectionWinner(_ context.Context, selectionID uuid.UUID, winner bool) error {
	if sel, ok := t.st.selections[selectionID]; ok {
		w := winner
		sel.IsWinner = &w
	}
	return nil
}

func (t *memTx) InsertActivity(_ context.Context, a *model.Activity) error {
	t.st.activities = append(t.st.activities, *a)
	return nil
}

func (t *memTx) EventForUpdate(_ context.Context, eventID uuid.UUID) (*model.Event, error) {
	if e, ok := t.st.events[eventID]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (t *memTx) MarketsByEvent(_ context.Context, eventID uuid.UUID) ([]model.Market, error) {
	var out []model.Market
	for _, m := range t.st.markets {
		if m.EventID != nil && *m.EventID == eventID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (t *memTx) DeleteMarketCascade(_ context.Context, marketID uuid.UUID) error {
	for id, sel := range t.st.selections {
		if sel.MarketID != marketID {
			continue
		}
		for bid, b := range t.st.bets {
			if b.SelectionID == id {
				delete(t.st.bets, bid)
			}
		}
		delete(t.st.selections, id)
	}
	delete(t.st.markets, marketID)
	return nil
}

func (t *memTx) DeleteEvent(_ context.Context, eventID uuid.UUID) error {
	delete(t.st.events, eventID)
	return nil
}

// ---------- helpers de semeadura e inspeção (testes) ----------

func (s *MemoryStore) PutAccount(a model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.accounts[a.ID] = &a
}

func (s *MemoryStore) PutEvent(e model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.events[e.ID] = &e
}

func (s *MemoryStore) PutMarket(m model.Market) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.markets[m.ID] = &m
}

func (s *MemoryStore) PutSelection(sel model.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.selections[sel.ID] = &sel
}

func (s *MemoryStore) Account(id uuid.UUID) *model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.st.accounts[id]; ok {
		cp := *a
		return &cp
	}
	return nil
}

func (s *MemoryStore) Market(id uuid.UUID) *model.Market {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.st.markets[id]; ok {
		cp := *m
		return &cp
	}
	return nil
}

func (s *MemoryStore) SelectionByID(id uuid.UUID) *model.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sel, ok := s.st.selections[id]; ok {
		cp := *sel
		return &cp
	}
	return nil
}

func (s *MemoryStore) Event(id uuid.UUID) *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.st.events[id]; ok {
		cp := *e
		return &cp
	}
	return nil
}

func (s *MemoryStore) Bet(id uuid.UUID) *model.Bet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.st.bets[id]; ok {
		cp := *b
		return &cp
	}
	return nil
}

func (s *MemoryStore) Bets() []model.Bet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Bet, 0, len(s.st.bets))
	for _, b := range s.st.bets {
		out = append(out, *b)
	}
	return out
}

func (s *MemoryStore) Activities() []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Activity(nil), s.st.activities...)
}
