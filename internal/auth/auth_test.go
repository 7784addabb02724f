package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/model"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3nha-forte" {
		t.Fatal("hash não pode ser a senha em texto plano")
	}
	if !CheckPassword(hash, "s3nha-forte") {
		t.Error("senha correta rejeitada")
	}
	if CheckPassword(hash, "errada") {
		t.Error("senha errada aceita")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	mgr := NewManager("segredo-de-teste", 60)
	acct := &model.Account{ID: uuid.New(), Username: "alice", IsAdmin: true}

	tok, err := mgr.IssueToken(acct)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	id, claims, err := mgr.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id != acct.ID {
		t.Errorf("id = %s, esperado %s", id, acct.ID)
	}
	if !claims.IsAdmin {
		t.Error("claim is_admin perdida")
	}
}

func TestParseToken_Invalid(t *testing.T) {
	mgr := NewManager("segredo-de-teste", 60)
	other := NewManager("outro-segredo", 60)

	tok, err := other.IssueToken(&model.Account{ID: uuid.New()})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := mgr.ParseToken(tok); err == nil {
		t.Error("token de outro segredo aceito")
	}
	if _, _, err := mgr.ParseToken("nem-um-jwt"); err == nil {
		t.Error("lixo aceito como token")
	}

	expired := NewManager("segredo-de-teste", -1)
	tok, err = expired.IssueToken(&model.Account{ID: uuid.New()})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := mgr.ParseToken(tok); err == nil {
		t.Error("token expirado aceito")
	}
}

type fakeLoader struct {
	accounts map[uuid.UUID]*model.Account
}

func (f *fakeLoader) AccountByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	return f.accounts[id], nil
}

func TestMiddleware(t *testing.T) {
	mgr := NewManager("segredo-de-teste", 60)
	active := &model.Account{ID: uuid.New(), Username: "alice", IsActive: true}
	disabled := &model.Account{ID: uuid.New(), Username: "bob", IsActive: false}
	loader := &fakeLoader{accounts: map[uuid.UUID]*model.Account{
		active.ID:   active,
		disabled.ID: disabled,
	}}

	var seen *model.Account
	handler := Middleware(mgr, loader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(authz string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call(""); code != http.StatusUnauthorized {
		t.Errorf("sem token: %d, esperado 401", code)
	}
	if code := call("Bearer lixo"); code != http.StatusUnauthorized {
		t.Errorf("token inválido: %d, esperado 401", code)
	}

	tok, _ := mgr.IssueToken(disabled)
	if code := call("Bearer " + tok); code != http.StatusUnauthorized {
		t.Errorf("conta desativada: %d, esperado 401", code)
	}

	tok, _ = mgr.IssueToken(active)
	if code := call("Bearer " + tok); code != http.StatusNoContent {
		t.Errorf("token válido: %d, esperado 204", code)
	}
	if seen == nil || seen.ID != active.ID {
		t.Error("conta autenticada não chegou ao contexto")
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("sem conta: %d, esperado 403", rec.Code)
	}

	admin := &model.Account{ID: uuid.New(), IsAdmin: true, IsActive: true}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), accountKey, admin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("admin: %d, esperado 204", rec.Code)
	}
}
