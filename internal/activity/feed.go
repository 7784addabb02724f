package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/model"
)

const maxFeedLimit = 100

// FeedRepo lê o feed de atividade e cuida das notificações individuais.
// O feed é append-only: só o ledger e o catálogo escrevem nele.
type FeedRepo struct{ db *sql.DB }

func NewFeedRepo(db *sql.DB) *FeedRepo { return &FeedRepo{db: db} }

// ListActivities devolve o feed social, mais recente primeiro, com o username
// de quem gerou cada registro (quando houver). Limit é cortado em 100.
func (f *FeedRepo) ListActivities(ctx context.Context, limit, offset int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := f.db.QueryContext(ctx, `
		SELECT af.id, af.account_id, af.action_type, af.description, af.metadata_json, af.created_at,
			a.username
		FROM activity_feed af
		LEFT JOIN accounts a ON a.id = af.account_id
		ORDER BY af.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		var (
			a    model.Activity
			meta []byte
		)
		if err := rows.Scan(&a.ID, &a.AccountID, &a.ActionType, &a.Description, &meta, &a.CreatedAt, &a.Username); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &a.Metadata); err != nil {
				return nil, fmt.Errorf("activity metadata: %w", err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ---------- Notificações ----------

func (f *FeedRepo) InsertNotification(ctx context.Context, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := f.db.ExecContext(ctx, `
		INSERT INTO notifications (id, account_id, type, title, message, link, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		n.ID, n.AccountID, n.Type, n.Title, n.Message, n.Link, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// Notifications lista as 50 notificações mais recentes da conta
func (f *FeedRepo) Notifications(ctx context.Context, accountID uuid.UUID) ([]model.Notification, error) {
	rows, err := f.db.QueryContext(ctx, `
		SELECT id, account_id, type, title, message, link, is_read, created_at
		FROM notifications WHERE account_id=$1
		ORDER BY created_at DESC LIMIT 50`, accountID)
	if err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Type, &n.Title, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead marca como lida; devolve false se a notificação não é da conta
func (f *FeedRepo) MarkRead(ctx context.Context, notificationID, accountID uuid.UUID) (bool, error) {
	res, err := f.db.ExecContext(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE id=$1 AND account_id=$2`,
		notificationID, accountID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// BetOutcome resume o desfecho de uma aposta num mercado, pro worker montar
// as notificações de liquidação/anulação
type BetOutcome struct {
	AccountID uuid.UUID
	Status    model.BetStatus
	Stake     int64
	Payout    int64
}

// OutcomesByMarket devolve o desfecho por conta das apostas do mercado
func (f *FeedRepo) OutcomesByMarket(ctx context.Context, marketID uuid.UUID) ([]BetOutcome, error) {
	rows, err := f.db.QueryContext(ctx, `
		SELECT b.account_id, b.status, b.stake, b.potential_payout
		FROM bets b
		JOIN selections s ON s.id = b.selection_id
		WHERE s.market_id=$1 AND b.status IN ('won','lost','voided')`, marketID)
	if err != nil {
		return nil, fmt.Errorf("outcomes by market: %w", err)
	}
	defer rows.Close()

	var out []BetOutcome
	for rows.Next() {
		var o BetOutcome
		if err := rows.Scan(&o.AccountID, &o.Status, &o.Stake, &o.Payout); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
