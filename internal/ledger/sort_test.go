package ledger

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/model"
)

func TestSortBetsByAccount(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")
	c := uuid.MustParse("cccccccc-0000-0000-0000-000000000000")

	bets := []model.Bet{
		{AccountID: c, PlacedAt: base},
		{AccountID: a, PlacedAt: base.Add(2 * time.Minute)},
		{AccountID: b, PlacedAt: base.Add(time.Minute)},
		{AccountID: a, PlacedAt: base},
	}
	sortBetsByAccount(bets)

	for i := 1; i < len(bets); i++ {
		cmp := bytes.Compare(bets[i-1].AccountID[:], bets[i].AccountID[:])
		if cmp > 0 {
			t.Fatalf("position %d: account order violated", i)
		}
		if cmp == 0 && bets[i-1].PlacedAt.After(bets[i].PlacedAt) {
			t.Fatalf("position %d: placed_at tiebreak violated", i)
		}
	}
	if bets[0].AccountID != a || bets[1].AccountID != a {
		t.Fatal("expected both bets of the lowest account first")
	}
	if bets[0].PlacedAt != base {
		t.Fatal("expected earlier bet of same account first")
	}
	if bets[3].AccountID != c {
		t.Fatal("expected highest account last")
	}
}
