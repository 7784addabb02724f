package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/catalog"
	"github.com/radieske/bolao-platform/internal/model"
)

// ---------- Torneios ----------

func (s *Server) listTournaments(w http.ResponseWriter, r *http.Request) {
	ts, err := s.Catalog.ListTournaments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) createTournament(w http.ResponseWriter, r *http.Request) {
	var req TournamentCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeErrMsg(w, http.StatusBadRequest, "name is required")
		return
	}
	t, err := s.Catalog.CreateTournament(r.Context(), req.Name, req.CompetitionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "tournamentID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid tournament id")
		return
	}
	var req TournamentUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Catalog.SetTournamentStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tournament updated"})
}

// ---------- Eventos ----------

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := uuidParam(r, "tournamentID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid tournament id")
		return
	}
	var status *model.EventStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := model.EventStatus(raw)
		status = &st
	}
	events, err := s.Catalog.ListEvents(r.Context(), tournamentID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req EventCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeErrMsg(w, http.StatusBadRequest, "title is required")
		return
	}
	ev, err := s.Catalog.CreateEvent(r.Context(), catalog.EventInput{
		TournamentID: req.TournamentID,
		MatchID:      req.MatchID,
		Title:        req.Title,
		Description:  req.Description,
		StartsAt:     req.StartsAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "eventID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid event id")
		return
	}
	var req EventUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Catalog.SetEventStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event updated"})
}

// deleteEvent remove o evento em cascata: estorna apostas abertas e apaga
// mercados, seleções e apostas junto
func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "eventID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid event id")
		return
	}
	summary, err := s.Engine.DeleteEventCascade(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	s.Log.Info("event deleted",
		zap.String("event_id", id.String()),
		zap.Int("bets_voided", summary.BetsVoided),
		zap.Int64("coins_refunded", summary.CoinsRefunded),
	)
	writeJSON(w, http.StatusOK, summary)
}

// ---------- Mercados ----------

func (s *Server) listEventMarkets(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(r, "eventID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid event id")
		return
	}
	markets, err := s.Catalog.ListEventMarkets(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marketsOut(markets))
}

func (s *Server) listTournamentMarkets(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := uuidParam(r, "tournamentID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid tournament id")
		return
	}
	markets, err := s.Catalog.ListTournamentMarkets(r.Context(), tournamentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marketsOut(markets))
}

func (s *Server) createMarket(w http.ResponseWriter, r *http.Request) {
	var req MarketCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in := catalog.MarketInput{
		EventID:      req.EventID,
		TournamentID: req.TournamentID,
		Question:     req.Question,
		MarketType:   req.MarketType,
		Status:       req.Status,
	}
	if in.Status == "" {
		in.Status = model.MarketComingSoon
	}
	for _, sel := range req.Selections {
		in.Selections = append(in.Selections, catalog.SelectionInput{
			Label:    sel.Label,
			Odds:     sel.Odds,
			PlayerID: sel.PlayerID,
		})
	}

	m, err := s.Catalog.CreateMarket(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, marketOut(m))
}

func (s *Server) updateMarketStatus(w http.ResponseWriter, r *http.Request) {
	marketID, ok := uuidParam(r, "marketID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid market id")
		return
	}
	var req MarketStatusUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := s.Catalog.UpdateMarketStatus(r.Context(), marketID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marketOut(m))
}

func (s *Server) updateSelectionOdds(w http.ResponseWriter, r *http.Request) {
	selectionID, ok := uuidParam(r, "selectionID")
	if !ok {
		writeErrMsg(w, http.StatusBadRequest, "invalid selection id")
		return
	}
	var req SelectionUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Catalog.UpdateSelectionOdds(r.Context(), selectionID, req.Odds); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Odds updated",
		"new_odds": req.Odds.String(),
	})
}
