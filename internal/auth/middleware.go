package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/model"
)

type ctxKey int

const accountKey ctxKey = iota

// AccountLoader resolve a conta do token. Implementado pelo repositório de contas.
type AccountLoader interface {
	AccountByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

// FromContext devolve a conta autenticada da requisição, se houver
func FromContext(ctx context.Context) *model.Account {
	acct, _ := ctx.Value(accountKey).(*model.Account)
	return acct
}

// Middleware valida o bearer token e injeta a conta no contexto.
// Contas desativadas são rejeitadas mesmo com token válido.
func Middleware(mgr *Manager, loader AccountLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}
			id, _, err := mgr.ParseToken(tokenStr)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}
			acct, err := loader.AccountByID(r.Context(), id)
			if err != nil {
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if acct == nil || !acct.IsActive {
				http.Error(w, `{"error":"account disabled or not found"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey, acct)))
		})
	}
}

// RequireAdmin corta requisições de contas sem privilégio de admin.
// Deve vir depois de Middleware na cadeia.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct := FromContext(r.Context())
		if acct == nil || !acct.IsAdmin {
			http.Error(w, `{"error":"admin privileges required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
