package footballdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ProviderError indica falha do provedor externo (rede, rate limit, HTTP != 200).
// O handler HTTP traduz em 502 — nunca é confundido com erro de negócio.
type ProviderError struct{ Message string }

func (e *ProviderError) Error() string { return e.Message }

// Client é o único ponto de contato com a football-data.org. Handlers nunca
// chamam o provedor diretamente; tudo passa por aqui e sai mapeado pros
// tipos internos.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Auth-Token", c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return &ProviderError{Message: fmt.Sprintf("network error reaching football-data.org: %v", err)}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return &ProviderError{Message: "rate limit exceeded on football-data.org (100 requests/day). try again later"}
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 300))
		return &ProviderError{Message: fmt.Sprintf("football-data.org returned HTTP %d: %s", res.StatusCode, body)}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &ProviderError{Message: fmt.Sprintf("invalid response from football-data.org: %v", err)}
	}
	return nil
}

// ---------- DTOs do provedor ----------

type Competition struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Code      *string `json:"code"`
	EmblemURL *string `json:"emblem_url"`
}

type Team struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ShortName *string `json:"short_name"`
	CrestURL  *string `json:"crest_url"`
}

type Fixture struct {
	ID         int64      `json:"id"`
	HomeTeamID *int64     `json:"home_team_id"`
	AwayTeamID *int64     `json:"away_team_id"`
	KickoffAt  *time.Time `json:"kickoff_at"`
	Matchday   *int       `json:"matchday"`
	Stage      *string    `json:"stage"`
	Status     *string    `json:"status"`
}

type Player struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Position    *string `json:"position"`
	Nationality *string `json:"nationality"`
	DateOfBirth *string `json:"date_of_birth"`
}

// ---------- Chamadas ----------

// Competitions busca todas as competições disponíveis
func (c *Client) Competitions(ctx context.Context) ([]Competition, error) {
	var raw struct {
		Competitions []struct {
			ID     int64   `json:"id"`
			Name   string  `json:"name"`
			Code   *string `json:"code"`
			Emblem *string `json:"emblem"`
		} `json:"competitions"`
	}
	if err := c.get(ctx, "/competitions", &raw); err != nil {
		return nil, err
	}
	out := make([]Competition, 0, len(raw.Competitions))
	for _, comp := range raw.Competitions {
		out = append(out, Competition{ID: comp.ID, Name: comp.Name, Code: comp.Code, EmblemURL: comp.Emblem})
	}
	return out, nil
}

// Teams busca os times de uma competição
func (c *Client) Teams(ctx context.Context, competitionID int64) ([]Team, error) {
	var raw struct {
		Teams []struct {
			ID        int64   `json:"id"`
			Name      string  `json:"name"`
			ShortName *string `json:"shortName"`
			Crest     *string `json:"crest"`
		} `json:"teams"`
	}
	if err := c.get(ctx, fmt.Sprintf("/competitions/%d/teams", competitionID), &raw); err != nil {
		return nil, err
	}
	out := make([]Team, 0, len(raw.Teams))
	for _, t := range raw.Teams {
		out = append(out, Team{ID: t.ID, Name: t.Name, ShortName: t.ShortName, CrestURL: t.Crest})
	}
	return out, nil
}

// Fixtures busca todas as partidas de uma competição
func (c *Client) Fixtures(ctx context.Context, competitionID int64) ([]Fixture, error) {
	var raw struct {
		Matches []struct {
			ID       int64 `json:"id"`
			HomeTeam struct {
				ID *int64 `json:"id"`
			} `json:"homeTeam"`
			AwayTeam struct {
				ID *int64 `json:"id"`
			} `json:"awayTeam"`
			UTCDate  *time.Time `json:"utcDate"`
			Matchday *int       `json:"matchday"`
			Stage    *string    `json:"stage"`
			Status   *string    `json:"status"`
		} `json:"matches"`
	}
	if err := c.get(ctx, fmt.Sprintf("/competitions/%d/matches", competitionID), &raw); err != nil {
		return nil, err
	}
	out := make([]Fixture, 0, len(raw.Matches))
	for _, m := range raw.Matches {
		out = append(out, Fixture{
			ID:         m.ID,
			HomeTeamID: m.HomeTeam.ID,
			AwayTeamID: m.AwayTeam.ID,
			KickoffAt:  m.UTCDate,
			Matchday:   m.Matchday,
			Stage:      m.Stage,
			Status:     m.Status,
		})
	}
	return out, nil
}

// Squad busca o elenco atual de um time
func (c *Client) Squad(ctx context.Context, teamID int64) ([]Player, error) {
	var raw struct {
		Squad []struct {
			ID          int64   `json:"id"`
			Name        string  `json:"name"`
			Position    *string `json:"position"`
			Nationality *string `json:"nationality"`
			DateOfBirth *string `json:"dateOfBirth"`
		} `json:"squad"`
	}
	if err := c.get(ctx, fmt.Sprintf("/teams/%d", teamID), &raw); err != nil {
		return nil, err
	}
	out := make([]Player, 0, len(raw.Squad))
	for _, p := range raw.Squad {
		out = append(out, Player{ID: p.ID, Name: p.Name, Position: p.Position, Nationality: p.Nationality, DateOfBirth: p.DateOfBirth})
	}
	return out, nil
}
