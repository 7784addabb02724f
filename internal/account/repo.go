package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/model"
)

var ErrDuplicate = errors.New("username or email already registered")

// Repo implementa as operações de conta em banco. Mutações de saldo NÃO
// passam por aqui — são exclusivas do motor do ledger.
type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// Create registra uma conta nova com o saldo inicial informado
func (r *Repo) Create(ctx context.Context, username, email, passwordHash string, isAdmin bool, balance int64) (*model.Account, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE username=$1 OR email=$2)`,
		username, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	a := &model.Account{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Balance:      balance,
		IsAdmin:      isAdmin,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, balance, is_admin, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.Username, a.Email, a.PasswordHash, a.Balance, a.IsAdmin, a.IsActive, a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

// AccountByID satisfaz auth.AccountLoader
func (r *Repo) AccountByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return r.scanOne(ctx, `WHERE id=$1`, id)
}

func (r *Repo) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.scanOne(ctx, `WHERE email=$1`, email)
}

func (r *Repo) AccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return r.scanOne(ctx, `WHERE username=$1`, username)
}

func (r *Repo) scanOne(ctx context.Context, where string, arg any) (*model.Account, error) {
	var a model.Account
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, balance, is_admin, is_active, created_at
		FROM accounts `+where, arg).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Balance, &a.IsAdmin, &a.IsActive, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	return &a, nil
}

// List devolve todas as contas, mais recentes primeiro
func (r *Repo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, email, password_hash, balance, is_admin, is_active, created_at
		FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Balance, &a.IsAdmin, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetActive ativa/desativa o login da conta sem apagar histórico
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET is_active=$1 WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	return err
}
