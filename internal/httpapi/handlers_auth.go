package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/auth"
)

// login autentica por email e senha e devolve o token de acesso
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acct, err := s.Accounts.AccountByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if acct == nil || !auth.CheckPassword(acct.PasswordHash, req.Password) {
		writeErrMsg(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !acct.IsActive {
		writeErrMsg(w, http.StatusForbidden, "account deactivated")
		return
	}

	token, err := s.Auth.IssueToken(acct)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// me devolve o perfil da conta autenticada com o resumo de apostas
func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	acct := auth.FromContext(r.Context())
	profile := profileOf(acct)

	stats, err := s.Accounts.Stats(r.Context(), acct.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	profile.TotalBets = stats.Summary.TotalBets
	profile.WonBets = stats.Summary.WonBets
	profile.LostBets = stats.Summary.LostBets
	profile.WinRate = stats.Summary.WinRate

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	acct := auth.FromContext(r.Context())

	if !auth.CheckPassword(acct.PasswordHash, req.CurrentPassword) {
		writeErrMsg(w, http.StatusBadRequest, "current password is incorrect")
		return
	}
	if len(req.NewPassword) < 6 {
		writeErrMsg(w, http.StatusBadRequest, "new password must have at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Accounts.UpdatePassword(r.Context(), acct.ID, hash); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// createUser registra uma conta nova (rota de admin) com o saldo inicial padrão
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || len(req.Password) < 6 {
		writeErrMsg(w, http.StatusBadRequest, "username, email and a password of 6+ characters are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	acct, err := s.Accounts.Create(r.Context(), req.Username, req.Email, hash, req.IsAdmin, s.DefaultBalance)
	if err != nil {
		writeError(w, err)
		return
	}

	s.Log.Info("user created", zap.String("username", acct.Username), zap.Bool("is_admin", acct.IsAdmin))
	writeJSON(w, http.StatusCreated, profileOf(acct))
}

func (s *Server) myStats(w http.ResponseWriter, r *http.Request) {
	acct := auth.FromContext(r.Context())
	stats, err := s.Accounts.Stats(r.Context(), acct.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) myStreak(w http.ResponseWriter, r *http.Request) {
	acct := auth.FromContext(r.Context())
	streak, err := s.Accounts.Streak(r.Context(), acct.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.Accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]UserProfile, 0, len(accounts))
	for i := range accounts {
		out = append(out, profileOf(&accounts[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deactivateUser(w http.ResponseWriter, r *http.Request) {
	s.setUserActive(w, r, false)
}

func (s *Server) activateUser(w http.ResponseWriter, r *http.Request) {
	s.setUserActive(w, r, true)
}

func (s *Server) setUserActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := uuidParam(r, "userID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid user id")
		return
	}
	admin := auth.FromContext(r.Context())
	if !active && admin.ID == id {
		writeErrMsg(w, http.StatusBadRequest, "cannot deactivate yourself")
		return
	}
	if err := s.Accounts.SetActive(r.Context(), id, active); err != nil {
		writeErrMsg(w, http.StatusNotFound, "user not found")
		return
	}
	msg := "deactivated"
	if active {
		msg = "activated"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User " + msg})
}
