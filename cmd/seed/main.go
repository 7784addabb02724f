package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/account"
	"github.com/radieske/bolao-platform/internal/auth"
	"github.com/radieske/bolao-platform/internal/catalog"
	"github.com/radieske/bolao-platform/internal/model"
	"github.com/radieske/bolao-platform/internal/shared/config"
	"github.com/radieske/bolao-platform/internal/shared/db"
	"github.com/radieske/bolao-platform/internal/shared/logger"
)

// Popula o banco local com contas e um torneio de exemplo pra desenvolvimento.
// Rodar de novo é seguro: contas existentes são mantidas.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New("seed", cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	ctx := context.Background()
	accounts := account.NewRepo(pg)
	cat := catalog.NewRepo(pg)

	seedUser := func(username, email, password string, isAdmin bool) {
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatal("hash password", zap.Error(err))
		}
		_, err = accounts.Create(ctx, username, email, hash, isAdmin, cfg.DefaultBalance)
		if err == account.ErrDuplicate {
			log.Info("user already exists", zap.String("username", username))
			return
		}
		if err != nil {
			log.Fatal("create user", zap.String("username", username), zap.Error(err))
		}
		log.Info("user created", zap.String("username", username), zap.Bool("is_admin", isAdmin))
	}

	seedUser("admin", "admin@bolao.local", "admin123", true)
	seedUser("alice", "alice@bolao.local", "alice123", false)
	seedUser("bob", "bob@bolao.local", "bob123", false)

	// torneio de exemplo com um evento e um mercado aberto
	t, err := cat.CreateTournament(ctx, "Brasileirão 2026", 2013)
	if err != nil {
		log.Fatal("create tournament", zap.Error(err))
	}

	kickoff := time.Now().UTC().Add(48 * time.Hour)
	desc := "Rodada de abertura"
	ev, err := cat.CreateEvent(ctx, catalog.EventInput{
		TournamentID: t.ID,
		Title:        "Flamengo x Palmeiras",
		Description:  &desc,
		StartsAt:     &kickoff,
	})
	if err != nil {
		log.Fatal("create event", zap.Error(err))
	}

	m, err := cat.CreateMarket(ctx, catalog.MarketInput{
		EventID:    &ev.ID,
		Question:   "Who wins the match?",
		MarketType: "match_result",
		Status:     model.MarketOpen,
		Selections: []catalog.SelectionInput{
			{Label: "Flamengo", Odds: decimal.RequireFromString("2.10")},
			{Label: "Draw", Odds: decimal.RequireFromString("3.20")},
			{Label: "Palmeiras", Odds: decimal.RequireFromString("3.50")},
		},
	})
	if err != nil {
		log.Fatal("create market", zap.Error(err))
	}

	log.Info("seed complete",
		zap.String("tournament", t.Name),
		zap.String("event", ev.Title),
		zap.String("market", m.Question),
	)
}
