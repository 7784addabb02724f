package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Competitions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Auth-Token"); got != "test-key" {
			t.Errorf("X-Auth-Token = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"competitions":[
			{"id":2013,"name":"Campeonato Brasileiro Série A","code":"BSA","emblem":"https://crests.example/bsa.png"},
			{"id":2001,"name":"UEFA Champions League","code":null,"emblem":null}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	comps, err := c.Competitions(context.Background())
	if err != nil {
		t.Fatalf("Competitions: %v", err)
	}
	if len(comps) != 2 {
		t.Fatalf("len = %d, esperado 2", len(comps))
	}
	if comps[0].ID != 2013 || comps[0].Name != "Campeonato Brasileiro Série A" {
		t.Errorf("primeira competição = %+v", comps[0])
	}
	if comps[0].Code == nil || *comps[0].Code != "BSA" {
		t.Errorf("code = %v", comps[0].Code)
	}
	if comps[1].Code != nil || comps[1].EmblemURL != nil {
		t.Error("campos null deveriam virar nil")
	}
}

func TestClient_Fixtures_MissingTeams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions/2013/matches" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"matches":[
			{"id":1,"homeTeam":{"id":10},"awayTeam":{"id":20},"utcDate":"2026-09-01T19:00:00Z","matchday":3,"stage":"REGULAR_SEASON","status":"SCHEDULED"},
			{"id":2,"homeTeam":{},"awayTeam":{},"utcDate":null,"matchday":null,"stage":"FINAL","status":"SCHEDULED"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	fixtures, err := c.Fixtures(context.Background(), 2013)
	if err != nil {
		t.Fatalf("Fixtures: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("len = %d", len(fixtures))
	}
	if fixtures[0].HomeTeamID == nil || *fixtures[0].HomeTeamID != 10 {
		t.Errorf("home = %v", fixtures[0].HomeTeamID)
	}
	// mata-mata futuro chega sem os times: vira nil, quem pula é o sync
	if fixtures[1].HomeTeamID != nil || fixtures[1].AwayTeamID != nil {
		t.Error("times ausentes deveriam ser nil")
	}
}

func TestClient_ProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"rate limit", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
		{"unauthorized", http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "test-key")
			_, err := c.Competitions(context.Background())
			var pe *ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("esperava *ProviderError, veio %T: %v", err, err)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "test-key")
	_, err := c.Teams(context.Background(), 2013)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("esperava *ProviderError, veio %T: %v", err, err)
	}
}
