package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Endpoints administrativos de sincronização com a football-data.org.
// Falha do provedor sai como 502; os upserts locais seguem o cooldown do Syncer.

func (s *Server) syncCompetitions(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Syncer.SyncCompetitions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) syncTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := uuidParam(r, "tournamentID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid tournament id")
		return
	}
	summary, err := s.Syncer.SyncTeams(r.Context(), tournamentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) syncFixtures(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := uuidParam(r, "tournamentID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid tournament id")
		return
	}
	summary, err := s.Syncer.SyncFixtures(r.Context(), tournamentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) syncSquad(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.ParseInt(chi.URLParam(r, "teamID"), 10, 64)
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid team id")
		return
	}
	summary, err := s.Syncer.SyncSquad(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
