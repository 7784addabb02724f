package httpapi

import (
	"net/http"
	"strconv"

	"github.com/radieske/bolao-platform/internal/auth"
)

// feed devolve o feed social de atividade, mais recente primeiro
func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	activities, err := s.Feed.ListActivities(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) notifications(w http.ResponseWriter, r *http.Request) {
	acct := auth.FromContext(r.Context())
	ns, err := s.Feed.Notifications(r.Context(), acct.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "notificationID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	acct := auth.FromContext(r.Context())

	found, err := s.Feed.MarkRead(r.Context(), id, acct.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeErrMsg(w, http.StatusNotFound, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Marked as read"})
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Board.Global(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) tournamentLeaderboard(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := uuidParam(r, "tournamentID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid tournament id")
		return
	}
	entries, err := s.Board.ByTournament(r.Context(), tournamentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
